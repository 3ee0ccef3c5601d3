// Package scalar defines the value grammar for index labels: integers,
// strings, non-NaN floats, and non-empty tuples of those, nested to any
// depth. It provides validation, a canonical byte encoding used as hash
// keys, and a total order for deterministic output.
package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies a scalar's type family.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindTuple:
		return "TUPLE"
	default:
		return "INVALID"
	}
}

// Tuple is a composite scalar. Elements must themselves be valid scalars;
// a plain []any is not accepted as a label, it must be wrapped in Tuple.
type Tuple []any

// InvalidValueError is returned when a value falls outside the scalar
// grammar: an unsupported type, an empty tuple, or a NaN float.
type InvalidValueError struct {
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid scalar value %s: %s", Format(e.Value), e.Reason)
}

// KindOf classifies v without validating it. A NaN float still reports
// KindFloat and an empty tuple KindTuple; only foreign types are
// KindInvalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case int, int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case Tuple:
		return KindTuple
	default:
		return KindInvalid
	}
}

// Verify checks v against the scalar grammar by structural recursion.
// It rejects NaN floats, empty tuples, and any type outside the grammar.
func Verify(v any) error {
	switch val := v.(type) {
	case int, int64, string:
		return nil
	case float64:
		if math.IsNaN(val) {
			return &InvalidValueError{Value: val, Reason: "NaN is not a valid label"}
		}
		return nil
	case Tuple:
		if len(val) == 0 {
			return &InvalidValueError{Value: val, Reason: "empty tuple"}
		}
		for i, elem := range val {
			if err := Verify(elem); err != nil {
				return fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
		return nil
	default:
		return &InvalidValueError{Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

// Normalize maps int to int64, recursively inside tuples, so equal labels
// have a single representation. Other values pass through unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case Tuple:
		out := make(Tuple, len(val))
		for i, elem := range val {
			out[i] = Normalize(elem)
		}
		return out
	default:
		return v
	}
}

// Format renders v for display and error messages: strings quoted, tuples
// parenthesized, numbers via strconv.
func Format(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	case Tuple:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Format(elem)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", val)
	}
}
