package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/schema"
)

// readInput returns the bytes of path, or of stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func isJSON(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// ReadSnapshot loads a snapshot from a YAML or JSON file ("-" reads stdin).
// Unknown fields and negative counts are rejected.
func ReadSnapshot(path string, stdin io.Reader) (domain.Snapshot, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return ParseSnapshot(data, isJSON(path, data))
}

// ParseSnapshot decodes and validates snapshot bytes.
func ParseSnapshot(data []byte, asJSON bool) (domain.Snapshot, error) {
	raw := map[string]any{}
	if asJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return schema.DecodeSnapshot(raw)
}

// ReadIntervals loads a list of intervals from a YAML or JSON file ("-" reads stdin).
// Both a bare list and an object with an "intervals" key are accepted.
func ReadIntervals(path string, stdin io.Reader) ([]domain.Interval, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read intervals: %w", err)
	}

	var wrapped struct {
		Intervals []domain.Interval `json:"intervals" yaml:"intervals"`
	}
	var list []domain.Interval

	unmarshal := yaml.Unmarshal
	if isJSON(path, data) {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}
	if err := unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse intervals: %w", err)
	}
	return wrapped.Intervals, nil
}
