// SPDX-License-Identifier: MPL-2.0

// Package sandbox dispatches contract invocations either in-process or to an
// isolated container worker. The dispatcher never interprets contract code
// itself; it decides WHERE the execution engine runs and normalizes the
// outcome into an ExecutionInfo or an infrastructure-level error.
package sandbox
