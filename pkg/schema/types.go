package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "bool", "uint").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates whole numbers, optionally bounded below.
type IntType struct {
	min *int64
}

func (t *IntType) Name() string {
	if t.min != nil && *t.min == 0 {
		return "uint"
	}
	return "int"
}

func (t *IntType) Validate(value any) error {
	n, err := toInt64(value)
	if err != nil {
		return err
	}
	if t.min != nil && n < *t.min {
		return fmt.Errorf("must be >= %d", *t.min)
	}
	return nil
}

// toInt64 accepts Go integers, whole floats (JSON default decoding) and json.Number.
func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expected int, got float (not a whole number)")
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected int, got %q", v.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected int, got %T", value)
	}
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// NonNegativeInt creates an integer validator that rejects values below zero.
func NonNegativeInt() Type {
	zero := int64(0)
	return &IntType{min: &zero}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}
