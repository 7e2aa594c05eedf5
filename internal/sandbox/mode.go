// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"errors"
	"fmt"
)

// Mode selects where contract invocations execute.
type Mode string

const (
	// ModeNone runs the execution engine in the current process.
	ModeNone Mode = "none"
	// ModeIsolated runs the execution engine inside a container worker.
	ModeIsolated Mode = "isolated"

	// DefaultMode is used when no mode is configured.
	DefaultMode = ModeIsolated
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid sandbox mode")

// InvalidModeError is returned when a mode string is not a recognized
// sandbox mode. It wraps ErrInvalidMode.
type InvalidModeError struct {
	Value string
}

// Error implements the error interface for InvalidModeError.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid sandbox mode '%s' (valid modes: none, isolated)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error {
	return ErrInvalidMode
}

// ParseMode validates a mode string. The empty string maps to DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNone, ModeIsolated:
		return Mode(s), nil
	case "":
		return DefaultMode, nil
	default:
		return "", &InvalidModeError{Value: s}
	}
}
