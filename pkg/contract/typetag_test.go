// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"errors"
	"testing"
)

func TestTypeTag_Validate(t *testing.T) {
	t.Parallel()

	for _, tag := range []TypeTag{TypeInt, TypeFloat, TypeString, TypeBool, TypeList, TypeMap} {
		if err := tag.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tag, err)
		}
	}

	err := TypeTag("decimal").Validate()
	if err == nil {
		t.Fatal("Validate(\"decimal\") = nil, want error")
	}
	if !errors.Is(err, ErrInvalidTypeTag) {
		t.Errorf("Validate(\"decimal\") should wrap ErrInvalidTypeTag, got %v", err)
	}
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  TypeTag
	}{
		{"bool", true, TypeBool},
		{"string", "hello", TypeString},
		{"integral float", float64(42), TypeInt},
		{"fractional float", 0.3, TypeFloat},
		{"int", 7, TypeInt},
		{"list", []any{1.0, "a"}, TypeList},
		{"map", map[string]any{"k": 1.0}, TypeMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TypeOf(tt.value); got != tt.want {
				t.Errorf("TypeOf(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestAssignableTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		tag   TypeTag
		want  bool
	}{
		{"nil to anything", nil, TypeMap, true},
		{"int to float widens", float64(3), TypeFloat, true},
		{"float to int does not narrow", 3.5, TypeInt, false},
		{"string to string", "x", TypeString, true},
		{"string to bool", "x", TypeBool, false},
		{"list to list", []any{}, TypeList, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AssignableTo(tt.value, tt.tag); got != tt.want {
				t.Errorf("AssignableTo(%v, %q) = %v, want %v", tt.value, tt.tag, got, tt.want)
			}
		})
	}
}
