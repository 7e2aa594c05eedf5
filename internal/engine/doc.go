// SPDX-License-Identifier: MPL-2.0

// Package engine performs one endpoint invocation against a loaded contract
// unit and produces a fully populated execution report.
//
// An execution is a short-lived, strictly sequential state machine:
//
//	Start -> LoadUnit -> RestoreStorage -> InvokeEndpoint -> CollectStorage -> Done
//
// The engine holds no state between calls: it receives a full storage
// snapshot as input and returns a full snapshot as output, so callers may
// run executions concurrently as long as they serialize commits to whatever
// durable store holds the canonical storage.
//
// Contract units are reached through the ContractUnit capability interface;
// the shipped implementation interprets shell-script units in-process with
// mvdan/sh. Out-of-process isolation is layered on top by the sandbox
// package, which runs this same engine inside a worker.
package engine
