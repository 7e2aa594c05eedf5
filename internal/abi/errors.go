// SPDX-License-Identifier: MPL-2.0

package abi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEndpoint is the sentinel error wrapped by UnknownEndpointError.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrUnknownSelector is the sentinel error wrapped by UnknownSelectorError.
	ErrUnknownSelector = errors.New("unknown selector")
	// ErrDecode is the sentinel error wrapped by DecodeError.
	ErrDecode = errors.New("malformed call encoding")
	// ErrSelectorCollision is the sentinel error wrapped by SelectorCollisionError.
	ErrSelectorCollision = errors.New("selector collision")
)

type (
	// UnknownEndpointError is returned when encoding a call to an endpoint
	// name the contract does not declare. It wraps ErrUnknownEndpoint.
	UnknownEndpointError struct {
		Contract string
		Endpoint string
	}

	// UnknownSelectorError is returned when a decoded selector matches no
	// endpoint of the contract. It wraps ErrUnknownSelector.
	UnknownSelectorError struct {
		Contract string
		Selector Selector
	}

	// DecodeError is returned for malformed input text, truncated byte
	// streams, or undecodable argument payloads. It wraps ErrDecode and the
	// underlying cause, if any.
	DecodeError struct {
		Reason string
		Cause  error
	}

	// SelectorCollisionError is returned at codec build time when two
	// endpoints produce the same selector. It wraps ErrSelectorCollision.
	SelectorCollisionError struct {
		Contract  string
		Selector  Selector
		Endpoints [2]string
	}
)

// Error implements the error interface for UnknownEndpointError.
func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("endpoint %q is invalid for contract %q", e.Endpoint, e.Contract)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownEndpointError) Unwrap() error {
	return ErrUnknownEndpoint
}

// Error implements the error interface for UnknownSelectorError.
func (e *UnknownSelectorError) Error() string {
	return fmt.Sprintf("selector %s is invalid for contract %q", e.Selector, e.Contract)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownSelectorError) Unwrap() error {
	return ErrUnknownSelector
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed call encoding: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed call encoding: %s", e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Error implements the error interface for SelectorCollisionError.
func (e *SelectorCollisionError) Error() string {
	return fmt.Sprintf("contract %q: endpoints %q and %q share selector %s",
		e.Contract, e.Endpoints[0], e.Endpoints[1], e.Selector)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *SelectorCollisionError) Unwrap() error {
	return ErrSelectorCollision
}
