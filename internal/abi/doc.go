// SPDX-License-Identifier: MPL-2.0

// Package abi maps between human-meaningful endpoint calls and the compact
// wire encoding used to transport them.
//
// Every endpoint of a contract gets an 8-byte selector derived from a
// SHA3-256 digest of its canonical signature (name(type1,type2,...)). A call
// travels as base64(selector ++ JSON(arguments)); execution and call reports
// travel as base64(JSON(report)). The codec is purely functional once built:
// it holds only the read-only selector table.
package abi
