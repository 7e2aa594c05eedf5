// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"errors"
	"fmt"
	"sort"
)

// ErrValueTypeMismatch is the sentinel error wrapped by ValueTypeMismatchError.
var ErrValueTypeMismatch = errors.New("value does not match declared type")

type (
	// Param is a named, typed declaration without a value: one endpoint
	// parameter.
	Param struct {
		// Name is the parameter name.
		Name string `json:"name"`
		// Type is the declared parameter type.
		Type TypeTag `json:"type"`
	}

	// Variable is a named, typed datum: a storage slot or a call argument.
	// A Variable is never mutated in place; components that change a slot
	// produce a new Variable with the same name.
	Variable struct {
		// Name is the variable name.
		Name string `json:"name"`
		// Type is the declared or observed type of Value.
		Type TypeTag `json:"type"`
		// Value is the current value. It must be structurally assignable
		// to Type.
		Value any `json:"value"`
	}

	// ValueTypeMismatchError is returned when a Variable's value is not
	// assignable to its declared type. It wraps ErrValueTypeMismatch.
	ValueTypeMismatchError struct {
		Name string
		Type TypeTag
	}
)

// Error implements the error interface for ValueTypeMismatchError.
func (e *ValueTypeMismatchError) Error() string {
	return fmt.Sprintf("variable %q: value is not assignable to declared type %q", e.Name, e.Type)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ValueTypeMismatchError) Unwrap() error {
	return ErrValueTypeMismatch
}

// NewVariable builds a Variable with the tag inferred from the value.
func NewVariable(name string, value any) Variable {
	return Variable{Name: name, Type: TypeOf(value), Value: value}
}

// Validate checks the variable's structural invariant: a recognized type tag
// and a value assignable to it.
func (v Variable) Validate() error {
	if err := v.Type.Validate(); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	if !AssignableTo(v.Value, v.Type) {
		return &ValueTypeMismatchError{Name: v.Name, Type: v.Type}
	}
	return nil
}

// VariablesFromMap converts a named-argument mapping into Variables with
// inferred types, ordered by name for determinism.
func VariablesFromMap(args map[string]any) []Variable {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, NewVariable(name, args[name]))
	}
	return vars
}

// VariablesToMap flattens Variables into a name-to-value mapping.
func VariablesToMap(vars []Variable) map[string]any {
	m := make(map[string]any, len(vars))
	for _, v := range vars {
		m[v.Name] = v.Value
	}
	return m
}
