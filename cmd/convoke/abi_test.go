// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convoke/internal/abi"
)

const counterInterfaceJSON = `{
	"name": "counter",
	"storage": [
		{"name": "count", "type": "int", "value": 0}
	],
	"endpoints": [
		{"name": "increment", "type": "int", "params": [{"name": "step", "type": "int"}]},
		{"name": "reset", "type": "int", "params": []}
	]
}`

func writeInterfaceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.json")
	if err := os.WriteFile(path, []byte(counterInterfaceJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestABISelectors(t *testing.T) {
	path := writeInterfaceFile(t)

	var out bytes.Buffer
	abiSelectorsCmd.SetOut(&out)
	if err := abiSelectorsCmd.RunE(abiSelectorsCmd, []string{path}); err != nil {
		t.Fatalf("selectors: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("malformed line %q", line)
		}
		if len(fields[0]) != abi.SelectorLen*2 {
			t.Errorf("selector %q is not %d hex chars", fields[0], abi.SelectorLen*2)
		}
	}
}

func TestABIEncodeDecodeRoundTrip(t *testing.T) {
	path := writeInterfaceFile(t)

	abiEncodeArgs = []string{"step=3"}
	defer func() { abiEncodeArgs = nil }()

	var encOut bytes.Buffer
	abiEncodeCmd.SetOut(&encOut)
	if err := abiEncodeCmd.RunE(abiEncodeCmd, []string{path, "increment"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	encoded := strings.TrimSpace(encOut.String())
	if encoded == "" {
		t.Fatal("empty encoding")
	}

	var decOut bytes.Buffer
	abiDecodeCmd.SetOut(&decOut)
	if err := abiDecodeCmd.RunE(abiDecodeCmd, []string{path, encoded}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	decoded := decOut.String()
	if !strings.Contains(decoded, "increment") || !strings.Contains(decoded, `"step":3`) {
		t.Errorf("decode output = %q", decoded)
	}
}

func TestABIEncodeRejectsBadArgs(t *testing.T) {
	path := writeInterfaceFile(t)

	abiEncodeArgs = []string{"step=fast"}
	defer func() { abiEncodeArgs = nil }()

	abiEncodeCmd.SetOut(&bytes.Buffer{})
	err := abiEncodeCmd.RunE(abiEncodeCmd, []string{path, "increment"})
	if err == nil {
		t.Fatal("expected error for mistyped argument")
	}
}

func TestABIEncodeUnknownEndpoint(t *testing.T) {
	path := writeInterfaceFile(t)

	abiEncodeArgs = nil
	abiEncodeCmd.SetOut(&bytes.Buffer{})
	err := abiEncodeCmd.RunE(abiEncodeCmd, []string{path, "explode"})
	if !errors.Is(err, abi.ErrUnknownEndpoint) {
		t.Fatalf("expected ErrUnknownEndpoint, got %v", err)
	}
}
