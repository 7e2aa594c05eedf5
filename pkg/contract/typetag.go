// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"errors"
	"fmt"
	"math"
)

const (
	// TypeInt is the tag for integral numeric values.
	TypeInt TypeTag = "int"
	// TypeFloat is the tag for non-integral numeric values.
	TypeFloat TypeTag = "float"
	// TypeString is the tag for text values.
	TypeString TypeTag = "string"
	// TypeBool is the tag for boolean values.
	TypeBool TypeTag = "bool"
	// TypeList is the tag for ordered collections.
	TypeList TypeTag = "list"
	// TypeMap is the tag for string-keyed collections.
	TypeMap TypeTag = "map"
)

// ErrInvalidTypeTag is the sentinel error wrapped by InvalidTypeTagError.
var ErrInvalidTypeTag = errors.New("invalid type tag")

type (
	// TypeTag identifies the declared type of a storage variable, parameter,
	// or return value. The set of tags is closed; values round-trip through
	// JSON, so numeric values are float64 and collections are []any and
	// map[string]any.
	TypeTag string

	// InvalidTypeTagError is returned when a TypeTag value is not recognized.
	// It wraps ErrInvalidTypeTag for errors.Is() compatibility.
	InvalidTypeTagError struct {
		Value TypeTag
	}
)

// Error implements the error interface for InvalidTypeTagError.
func (e *InvalidTypeTagError) Error() string {
	return fmt.Sprintf("invalid type tag %q (valid: int, float, string, bool, list, map)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidTypeTagError) Unwrap() error {
	return ErrInvalidTypeTag
}

// IsValid reports whether the TypeTag is one of the defined tags.
func (t TypeTag) IsValid() bool {
	switch t {
	case TypeInt, TypeFloat, TypeString, TypeBool, TypeList, TypeMap:
		return true
	default:
		return false
	}
}

// Validate returns an InvalidTypeTagError when the tag is not recognized.
func (t TypeTag) Validate() error {
	if !t.IsValid() {
		return &InvalidTypeTagError{Value: t}
	}
	return nil
}

// TypeOf infers the tag of a runtime value. Numeric values are reported as
// TypeInt when they carry no fractional part, so a contract that stores 3.0
// reads back as an int; this matches how values behave after a JSON
// round-trip, where the int/float distinction is not preserved.
func TypeOf(value any) TypeTag {
	switch v := value.(type) {
	case nil:
		return TypeString
	case bool:
		return TypeBool
	case string:
		return TypeString
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return TypeInt
		}
		return TypeFloat
	case float32:
		return TypeOf(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case []any:
		return TypeList
	case map[string]any:
		return TypeMap
	default:
		return TypeString
	}
}

// AssignableTo reports whether a runtime value is structurally assignable to
// the given tag. A nil value is assignable to every tag (an unset slot).
// Integral numbers are assignable to both int and float.
func AssignableTo(value any, tag TypeTag) bool {
	if value == nil {
		return true
	}
	observed := TypeOf(value)
	if observed == tag {
		return true
	}
	// ints widen to float
	return observed == TypeInt && tag == TypeFloat
}
