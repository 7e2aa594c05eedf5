// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"

	"convoke/pkg/contract"
)

// Execute performs exactly one invocation of an endpoint against the unit
// behind unitRef, starting from the given storage snapshot. It never returns
// an error: every outcome, including load and resolution failures, is
// reported inside the ExecutionInfo.
//
// Failure placement follows a two-tier rule. Failures of the endpoint's own
// logic are caught only around the invocation itself and recorded in the
// call report; the engine still stops the clock and collects storage
// afterwards, so StorageAfter reflects whatever state the endpoint left
// behind. Every other failure (unit not found, slot mismatch, endpoint not
// declared) aborts the lifecycle: it is recorded at the execution level, no
// call report is produced, and StorageAfter stays equal to StorageBefore.
//
// Each call is a single non-resumable attempt; there is no caching and no
// retrying. Given identical inputs and a deterministic endpoint, only the
// timing fields of two executions differ.
func Execute(ctx context.Context, loader UnitLoader, unitRef string, storageBefore []contract.Variable, endpoint string, args []contract.Variable) *contract.ExecutionInfo {
	info := contract.NewExecutionInfo(storageBefore)
	info.Watch.MarkStart()
	defer info.Watch.MarkEnd()

	// LoadUnit
	unit, err := loader.Load(ctx, unitRef)
	if err != nil {
		info.Success.FailErr(err)
		return info
	}

	// RestoreStorage
	for _, v := range storageBefore {
		if err := unit.WriteSlot(ctx, v.Name, v.Value); err != nil {
			info.Success.FailErr(err)
			return info
		}
	}

	// InvokeEndpoint: resolution is an execution-level concern, the call
	// itself is not.
	if !unit.HasEndpoint(endpoint) {
		info.Success.FailErr(&EndpointNotFoundError{Unit: unitRef, Endpoint: endpoint})
		return info
	}

	call := contract.NewCallInfo(endpoint, args)
	call.Watch.MarkStart()
	ret, err := unit.Invoke(ctx, endpoint, args)
	if err != nil {
		call.Success.FailErr(err)
	} else {
		call.RetVal = ret
	}
	call.Watch.MarkEnd()
	info.Call = call

	// CollectStorage: runs regardless of the call's outcome.
	after, err := collectStorage(unit, storageBefore)
	if err != nil {
		info.Success.FailErr(err)
		return info
	}
	info.StorageAfter = after

	return info
}

// collectStorage reads back every slot named in the input snapshot, with the
// runtime type observed on the unit rather than the declared one: a contract
// is allowed to leave a slot holding a differently-typed value.
func collectStorage(unit ContractUnit, declared []contract.Variable) ([]contract.Variable, error) {
	after := make([]contract.Variable, 0, len(declared))
	for _, v := range declared {
		value, tag, err := unit.ReadSlot(v.Name)
		if err != nil {
			return nil, err
		}
		after = append(after, contract.Variable{Name: v.Name, Type: tag, Value: value})
	}
	return after, nil
}
