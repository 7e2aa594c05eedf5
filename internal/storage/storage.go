// SPDX-License-Identifier: MPL-2.0

// Package storage persists the last successful execution of each contract.
// State lives as one JSON execution report per contract; the storage
// restored before the next invocation is that report's storage-after
// section.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"convoke/pkg/contract"
)

const stateExt = ".json"

// ErrFailedExecution is the sentinel error wrapped by FailedExecutionError.
var ErrFailedExecution = errors.New("execution failed")

type (
	// FailedExecutionError is returned when a failed execution is offered
	// for persistence. Failed executions never commit; the previous state
	// stays in place. It wraps ErrFailedExecution.
	FailedExecutionError struct {
		Contract string
		Reason   string
	}

	// Store reads and writes per-contract execution state under one
	// directory.
	Store struct {
		dir string
	}
)

// Error implements the error interface for FailedExecutionError.
func (e *FailedExecutionError) Error() string {
	msg := fmt.Sprintf("refusing to commit failed execution of contract '%s'", e.Contract)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *FailedExecutionError) Unwrap() error {
	return ErrFailedExecution
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first commit.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the state file for a contract.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+stateExt)
}

// Load returns the storage to restore for a contract: the storage-after of
// its last committed execution, or nil when the contract has never run.
func (s *Store) Load(name string) ([]contract.Variable, error) {
	info, err := contract.LoadExecution(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("load state of contract '%s': %w", name, err)
	}
	if info == nil {
		return nil, nil
	}
	return info.StorageAfter, nil
}

// LoadExecution returns the full last committed execution report, or nil
// when the contract has never run.
func (s *Store) LoadExecution(name string) (*contract.ExecutionInfo, error) {
	info, err := contract.LoadExecution(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("load state of contract '%s': %w", name, err)
	}
	return info, nil
}

// Commit persists an execution report as the contract's new state. Only
// executions whose execution-level status is success commit; business
// failures recorded inside a successful execution do commit, since their
// storage collection is trustworthy.
func (s *Store) Commit(name string, info *contract.ExecutionInfo) error {
	if !info.Success.IsSuccess() {
		return &FailedExecutionError{Contract: name, Reason: info.Success.Err}
	}
	if err := info.WriteFile(s.Path(name)); err != nil {
		return fmt.Errorf("commit state of contract '%s': %w", name, err)
	}
	return nil
}
