// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArgumentMismatch is the sentinel error wrapped by ArgumentMismatchError.
var ErrArgumentMismatch = errors.New("argument mismatch")

// ArgumentMismatchError is returned when a set of named arguments does not
// fit an endpoint's declared parameters. It wraps ErrArgumentMismatch.
type ArgumentMismatchError struct {
	Endpoint string
	Reason   string
}

// Error implements the error interface for ArgumentMismatchError.
func (e *ArgumentMismatchError) Error() string {
	return fmt.Sprintf("arguments do not match endpoint '%s': %s", e.Endpoint, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ArgumentMismatchError) Unwrap() error {
	return ErrArgumentMismatch
}

// EndpointDef declares one callable surface of a contract. It is built by
// the interface extractor and immutable afterwards.
type EndpointDef struct {
	// Name is the endpoint name, unique within a contract.
	Name string `json:"name"`
	// Return is the declared return type.
	Return TypeTag `json:"type"`
	// Params are the declared parameters, in declaration order.
	Params []Param `json:"params"`
	// Doc is an optional documentation string.
	Doc string `json:"doc,omitempty"`
}

// CanonicalSignature returns the textual form hashed into the endpoint's
// selector: name(type1,type2,...) over the parameter types in declaration
// order. The return type is not part of the signature.
func (e *EndpointDef) CanonicalSignature() string {
	types := make([]string, len(e.Params))
	for i, p := range e.Params {
		types[i] = string(p.Type)
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(types, ","))
}

// BindArgs matches named argument values against the endpoint's parameters
// and returns them as Variables in declaration order. Every parameter must
// be supplied with an assignable value; unknown names are rejected.
func (e *EndpointDef) BindArgs(args map[string]any) ([]Variable, error) {
	params := make(map[string]TypeTag, len(e.Params))
	for _, p := range e.Params {
		params[p.Name] = p.Type
	}
	for name := range args {
		if _, ok := params[name]; !ok {
			return nil, &ArgumentMismatchError{Endpoint: e.Name,
				Reason: fmt.Sprintf("unknown argument '%s'", name)}
		}
	}

	vars := make([]Variable, 0, len(e.Params))
	for _, p := range e.Params {
		value, ok := args[p.Name]
		if !ok {
			return nil, &ArgumentMismatchError{Endpoint: e.Name,
				Reason: fmt.Sprintf("missing argument '%s'", p.Name)}
		}
		if !AssignableTo(value, p.Type) {
			return nil, &ArgumentMismatchError{Endpoint: e.Name,
				Reason: fmt.Sprintf("argument '%s' is not a %s", p.Name, p.Type)}
		}
		vars = append(vars, Variable{Name: p.Name, Type: p.Type, Value: value})
	}
	return vars, nil
}

// Validate checks the endpoint's type tags.
func (e *EndpointDef) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("endpoint with empty name")
	}
	if err := e.Return.Validate(); err != nil {
		return fmt.Errorf("endpoint %q return: %w", e.Name, err)
	}
	for _, p := range e.Params {
		if err := p.Type.Validate(); err != nil {
			return fmt.Errorf("endpoint %q param %q: %w", e.Name, p.Name, err)
		}
	}
	return nil
}
