package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/waymark/pkg/domain"
)

// Snapshot returns the schema of a domain.Snapshot payload.
func Snapshot() Schema {
	return Schema{
		"has_full_name":       Bool(),
		"has_phone":           Bool(),
		"has_business_name":   Bool(),
		"customer_count":      NonNegativeInt(),
		"job_count":           NonNegativeInt(),
		"quote_count":         NonNegativeInt(),
		"bank_linked":         Bool(),
		"subscription_active": Bool(),
	}
}

// DecodeSnapshot validates data strictly (unknown keys rejected, missing keys default to
// zero values) and decodes it into a domain.Snapshot.
func DecodeSnapshot(data map[string]any) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := Validate(Snapshot(), data, Strict(), Partial()); err != nil {
		return snap, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &snap,
		ErrorUnused: true,
	})
	if err != nil {
		return snap, fmt.Errorf("failed to create snapshot decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
