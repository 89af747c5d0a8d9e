package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// MarshalJSON serializes the schema as a map of field names to type names.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]string, len(s))
	for key, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", key)
		}
		raw[key] = typ.Name()
	}
	return json.Marshal(raw)
}

type options struct {
	strict  bool
	partial bool
}

// Option tunes Validate.
type Option func(*options)

// Strict rejects fields that are not in the schema.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// Partial allows schema fields to be missing from data.
func Partial() Option {
	return func(o *options) { o.partial = true }
}

// Validate checks if data conforms to the schema.
// Returns an *AggregateError with all validation failures found, ordered by field name.
func Validate(schema Schema, data map[string]any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error

	for _, fieldName := range sortedKeys(schema) {
		value, exists := data[fieldName]
		if !exists {
			if !o.partial {
				errs = append(errs, &ValidationError{Key: fieldName, Reason: "required"})
			}
			continue
		}
		if err := schema[fieldName].Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if o.strict {
		for _, key := range sortedKeys(data) {
			if _, known := schema[key]; !known {
				errs = append(errs, &ValidationError{Key: key, Reason: "unknown field"})
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
