// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSandbox is the sentinel error wrapped by SandboxError.
var ErrSandbox = errors.New("sandbox failure")

// SandboxError reports an infrastructure-level failure of an isolated
// invocation: the worker could not be launched, timed out, or produced
// output that is not a result document. It wraps ErrSandbox and keeps the
// worker's raw output for diagnosis; it is never folded into an
// ExecutionInfo.
type SandboxError struct {
	// Unit is the contract unit reference that was dispatched.
	Unit string
	// Endpoint is the endpoint that was being invoked.
	Endpoint string
	// Output holds the worker's raw combined output, possibly empty.
	Output string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface for SandboxError.
func (e *SandboxError) Error() string {
	msg := fmt.Sprintf("sandbox failure invoking '%s' on unit '%s'", e.Endpoint, e.Unit)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += fmt.Sprintf(" (worker output: %s)", out)
	}
	return msg
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *SandboxError) Unwrap() error {
	return ErrSandbox
}
