// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError flattens a CUE error into one error whose message carries the
// offending file and JSON-style field paths.
//
// Error format: <file-path>: <json-path>: <message>, e.g.
//
//	counter.json: endpoints[1].type: expected one of "int","float",...
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts a CUE error path (a flat string slice where numeric
// elements are array indices) to JSON-path notation: ["endpoints","0","name"]
// becomes "endpoints[0].name".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var b strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}
		switch {
		case isIndex && i > 0:
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
		case i > 0:
			b.WriteString(".")
			b.WriteString(part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}
