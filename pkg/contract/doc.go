// SPDX-License-Identifier: MPL-2.0

// Package contract provides the value types shared by every component of
// convoke: typed variables, endpoint definitions, contract interfaces, and
// the call/execution report structures produced by an invocation.
//
// All types are plain value records. Mutation is limited to the documented
// owner (a StopWatch is stamped by the component timing the event, a
// SuccessInfo is failed at most once by the component that detects the
// failure); everything else is built once and then read.
//
// Contract interface documents are JSON; LoadInterface validates them
// against an embedded CUE schema before decoding, mirroring how command
// documents are validated elsewhere in the ecosystem this tool ships with.
package contract
