// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides helpers for validating and decoding documents
// against embedded CUE schemas.
//
// Since CUE is a superset of JSON, the same flow validates both CUE and
// plain JSON documents (contract interface files are JSON). Callers embed
// their schema with //go:embed and call ParseAndDecode with the path of the
// root definition, e.g. "#Interface".
package cueutil
