// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExecutionInfo records one full invocation cycle including state load and
// restore. StorageAfter defaults to StorageBefore until the collection step
// completes, so a failed execution always reports the state it started from.
//
// Execution-level success means the engine completed its lifecycle;
// call-level success (inside Call) means the endpoint's logic completed.
// The two flags are independent: a failing endpoint still yields a
// successful execution whose Call records the business failure.
type ExecutionInfo struct {
	// StorageBefore is the storage snapshot the execution started from.
	StorageBefore []Variable
	// StorageAfter is the storage snapshot observed after the call.
	StorageAfter []Variable
	// Call describes the endpoint invocation; nil when the execution failed
	// before the endpoint could be called.
	Call *CallInfo
	// Watch times the whole execution.
	Watch StopWatch
	// Success records execution-level completion.
	Success SuccessInfo
}

// NewExecutionInfo creates an ExecutionInfo for an execution starting from
// the given storage snapshot.
func NewExecutionInfo(storageBefore []Variable) *ExecutionInfo {
	return &ExecutionInfo{
		StorageBefore: storageBefore,
		StorageAfter:  storageBefore,
	}
}

// IsSuccess reports execution-level success.
func (e *ExecutionInfo) IsSuccess() bool {
	return e.Success.IsSuccess()
}

type executionStorageJSON struct {
	Before []Variable `json:"before"`
	After  []Variable `json:"after"`
}

// executionInfoJSON is the wire layout of an ExecutionInfo. StopWatch and
// SuccessInfo fields are flattened into the same object; the two storage
// snapshots are nested under "storage".
type executionInfoJSON struct {
	Call      *CallInfo            `json:"call"`
	Storage   executionStorageJSON `json:"storage"`
	IsSuccess bool                 `json:"is_success"`
	Error     *string              `json:"error"`
	Start     *float64             `json:"start"`
	End       *float64             `json:"end"`
	Duration  *float64             `json:"duration"`
}

// MarshalJSON implements json.Marshaler.
func (e *ExecutionInfo) MarshalJSON() ([]byte, error) {
	before := e.StorageBefore
	if before == nil {
		before = []Variable{}
	}
	after := e.StorageAfter
	if after == nil {
		after = []Variable{}
	}
	return json.Marshal(executionInfoJSON{
		Call:      e.Call,
		Storage:   executionStorageJSON{Before: before, After: after},
		IsSuccess: e.Success.IsSuccess(),
		Error:     e.Success.errJSON(),
		Start:     e.Watch.Start,
		End:       e.Watch.End,
		Duration:  e.Watch.durationJSON(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ExecutionInfo) UnmarshalJSON(data []byte) error {
	var w executionInfoJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = ExecutionInfo{
		StorageBefore: w.Storage.Before,
		StorageAfter:  w.Storage.After,
		Call:          w.Call,
		Watch:         StopWatch{Start: w.Start, End: w.End},
		Success:       successFromJSON(w.Error),
	}
	return nil
}

// LoadExecution reads an ExecutionInfo document from disk. It returns
// (nil, nil) when the file does not exist, matching the semantics callers
// need for "no previous execution".
func LoadExecution(path string) (*ExecutionInfo, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read execution info: %w", err)
	}
	var info ExecutionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse execution info %s: %w", path, err)
	}
	return &info, nil
}

// WriteFile saves the execution report as JSON at the given path, creating
// parent directories as needed. An existing file is replaced.
func (e *ExecutionInfo) WriteFile(path string) error {
	return writeJSONFile(path, e)
}
