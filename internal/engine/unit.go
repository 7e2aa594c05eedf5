// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"

	"convoke/pkg/contract"
)

var (
	// ErrUnitNotFound is the sentinel error wrapped by UnitNotFoundError.
	ErrUnitNotFound = errors.New("contract unit not found")
	// ErrEndpointNotFound is the sentinel error wrapped by EndpointNotFoundError.
	ErrEndpointNotFound = errors.New("endpoint not found on unit")
	// ErrSlotNotFound is the sentinel error wrapped by SlotNotFoundError.
	ErrSlotNotFound = errors.New("storage slot not found on unit")
)

type (
	// ContractUnit is the capability interface of a loaded contract. A unit
	// exposes named callable endpoints and named storage slots; how those
	// are backed (interpreted script, in-memory fake, remote worker) is an
	// implementation detail selected by the loader.
	//
	// An error returned by Invoke for an existing endpoint is a business
	// failure of the endpoint's own logic. Callers check HasEndpoint first;
	// resolution failures are not business failures.
	ContractUnit interface {
		// HasEndpoint reports whether the unit declares the named endpoint.
		HasEndpoint(name string) bool
		// Invoke calls the named endpoint with the given named arguments
		// and returns its result.
		Invoke(ctx context.Context, endpoint string, args []contract.Variable) (any, error)
		// ReadSlot returns the current value of a storage slot together
		// with its observed runtime type.
		ReadSlot(name string) (any, contract.TypeTag, error)
		// WriteSlot replaces the value of a storage slot.
		WriteSlot(ctx context.Context, name string, value any) error
	}

	// UnitLoader resolves an opaque executable reference (produced by the
	// compiler, outside this tool) into an invocable unit.
	UnitLoader interface {
		Load(ctx context.Context, ref string) (ContractUnit, error)
	}

	// UnitNotFoundError is returned when a unit reference does not resolve.
	// It wraps ErrUnitNotFound.
	UnitNotFoundError struct {
		Ref string
	}

	// EndpointNotFoundError is returned when a unit does not declare the
	// requested endpoint. It wraps ErrEndpointNotFound.
	EndpointNotFoundError struct {
		Unit     string
		Endpoint string
	}

	// SlotNotFoundError is returned when a unit does not declare the
	// requested storage slot. It wraps ErrSlotNotFound.
	SlotNotFoundError struct {
		Unit string
		Slot string
	}
)

// Error implements the error interface for UnitNotFoundError.
func (e *UnitNotFoundError) Error() string {
	return fmt.Sprintf("contract unit %q could not be found", e.Ref)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnitNotFoundError) Unwrap() error {
	return ErrUnitNotFound
}

// Error implements the error interface for EndpointNotFoundError.
func (e *EndpointNotFoundError) Error() string {
	return fmt.Sprintf("unit %q declares no endpoint %q", e.Unit, e.Endpoint)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *EndpointNotFoundError) Unwrap() error {
	return ErrEndpointNotFound
}

// Error implements the error interface for SlotNotFoundError.
func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("unit %q declares no storage slot %q", e.Unit, e.Slot)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *SlotNotFoundError) Unwrap() error {
	return ErrSlotNotFound
}
