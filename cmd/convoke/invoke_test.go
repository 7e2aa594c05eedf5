// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convoke/internal/registry"
	"convoke/pkg/contract"
)

// setupContractEnv builds a contracts directory with the counter contract
// and points convoke at it through the environment, with the sandbox forced
// in-process.
func setupContractEnv(t *testing.T) {
	t.Helper()
	contracts := t.TempDir()
	if err := os.WriteFile(filepath.Join(contracts, "counter.sh"), []byte(counterUnit), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(contracts, "counter.json"), []byte(counterInterfaceJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONVOKE_SANDBOX_MODE", "none")
	t.Setenv("CONVOKE_CONTRACTS_DIR", contracts)
	t.Setenv("CONVOKE_STORAGE_DIR", t.TempDir())
}

func runInvokeCommand(t *testing.T, args []string, argPairs []string) (string, string, error) {
	t.Helper()
	invokeArgPairs = argPairs
	invokeIndent = 0
	t.Cleanup(func() { invokeArgPairs = nil; invokeIndent = 2; invokeOutput = "" })

	var out, errOut bytes.Buffer
	invokeCmd.SetOut(&out)
	invokeCmd.SetErr(&errOut)
	invokeCmd.SetContext(context.Background())
	err := invokeCmd.RunE(invokeCmd, args)
	return out.String(), errOut.String(), err
}

func TestInvoke_EndToEnd(t *testing.T) {
	setupContractEnv(t)

	// First run: initial storage from the interface (count=0), step=4.
	out, errOut, err := runInvokeCommand(t, []string{"counter", "increment"}, []string{"step=4"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	var info contract.ExecutionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not an execution report: %v\n%s", err, out)
	}
	if info.Call == nil || info.Call.RetVal != float64(4) {
		t.Fatalf("first call = %+v, want ret_val 4", info.Call)
	}
	if !strings.Contains(errOut, "storage committed") {
		t.Errorf("stderr = %q, want a commit confirmation", errOut)
	}

	// Second run: storage restored from the committed execution.
	out, _, err = runInvokeCommand(t, []string{"counter", "increment"}, []string{"step=3"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatal(err)
	}
	if info.Call.RetVal != float64(7) {
		t.Errorf("second call ret_val = %v, want 7 (4 committed + 3)", info.Call.RetVal)
	}
}

func TestInvoke_WritesOutputFile(t *testing.T) {
	setupContractEnv(t)

	invokeOutput = filepath.Join(t.TempDir(), "result.json")
	_, _, err := runInvokeCommand(t, []string{"counter", "increment"}, []string{"step=1"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	saved, err := contract.LoadExecution(invokeOutput)
	if err != nil {
		t.Fatalf("LoadExecution: %v", err)
	}
	if saved == nil || saved.Call == nil || saved.Call.Endpoint != "increment" {
		t.Errorf("saved report = %+v", saved)
	}
}

func TestInvoke_UnknownContract(t *testing.T) {
	setupContractEnv(t)

	_, _, err := runInvokeCommand(t, []string{"ghost", "run"}, nil)
	if !errors.Is(err, registry.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestInvoke_UnknownEndpointBeforeExecution(t *testing.T) {
	setupContractEnv(t)

	_, _, err := runInvokeCommand(t, []string{"counter", "explode"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
}
