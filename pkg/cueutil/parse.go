// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// MaxFileSize is the largest document ParseAndDecode accepts. Documents are
// caller-supplied, so the cap bounds memory before any CUE work happens.
const MaxFileSize = 1 << 20 // 1 MiB

// ParseAndDecode validates a document against an embedded CUE schema and
// decodes it into T:
//
//  1. Compile the embedded schema and look up the root definition
//     (schemaPath, e.g. "#Interface")
//  2. Compile the document (CUE or JSON) and unify it with the definition
//  3. Validate for concreteness and decode into T
//
// The filename is only used in error messages.
func ParseAndDecode[T any](schema, data []byte, schemaPath, filename string) (*T, error) {
	if filename == "" {
		filename = "<input>"
	}
	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("%s: document too large (%d bytes, max %d)", filename, len(data), MaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	docValue := ctx.CompileBytes(data, cue.Filename(filename))
	if docValue.Err() != nil {
		return nil, FormatError(docValue.Err(), filename)
	}

	unified := schemaRoot.Unify(docValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}
	return &result, nil
}

// ParseAndDecodeString is a convenience wrapper that accepts the schema as a
// string, the form //go:embed produces for .cue files embedded as string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath, filename string) (*T, error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, filename)
}
