// SPDX-License-Identifier: MPL-2.0

// Integration tests for the isolated dispatch path. These run a real
// container and require Docker or Podman to be available.

package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"convoke/internal/container"
)

// checkTestcontainersAvailable safely checks if testcontainers can be used.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

func integrationEngine(t *testing.T) container.Engine {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	eng, err := container.AutoDetectEngine()
	if err != nil {
		t.Skipf("skipping: no container engine available: %v", err)
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping: testcontainers provider not available")
	}
	return eng
}

// TestDispatcher_Integration drives a real worker container. The worker
// binary is a shell stub that prints a fixed result document, so the test
// exercises the mount, launch, capture, and parse plumbing without needing
// a compiled binary on the test host.
func TestDispatcher_Integration(t *testing.T) {
	eng := integrationEngine(t)

	dir := t.TempDir()
	unit := filepath.Join(dir, "counter.sh")
	if err := os.WriteFile(unit, []byte("count=0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := `{"storage":{"before":[],"after":[]},"call":{"endpoint":"increment","args":[],"ret_val":1,"is_success":true,"error":null,"start":null,"end":null,"duration":null},"is_success":true,"error":null,"start":null,"end":null,"duration":null}`
	stub := filepath.Join(dir, "convoke")
	stubScript := "#!/bin/sh\nprintf '%s' '" + report + "'\n"
	if err := os.WriteFile(stub, []byte(stubScript), 0o755); err != nil {
		t.Fatal(err)
	}

	d, err := NewDispatcher(Options{
		Mode:         ModeIsolated,
		Engine:       eng,
		Image:        "docker.io/library/alpine:latest",
		Timeout:      2 * time.Minute,
		WorkerBinary: stub,
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	info, err := d.Dispatch(context.Background(), unit, nil, "increment", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if info.Call == nil || info.Call.Endpoint != "increment" {
		t.Fatalf("unexpected call info: %+v", info.Call)
	}
	if !info.Success.IsSuccess() {
		t.Errorf("expected successful execution, got %s", info.Success.Err)
	}
}
