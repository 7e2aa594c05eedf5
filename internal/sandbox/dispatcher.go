// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convoke/internal/container"
	"convoke/internal/engine"
	"convoke/pkg/contract"
)

const (
	// DefaultTimeout bounds a single isolated invocation.
	DefaultTimeout = 60 * time.Second
	// DefaultImage is the worker image used when none is configured.
	DefaultImage = "docker.io/library/alpine:latest"

	// unitMountDir is where the unit's directory appears inside the worker.
	unitMountDir = "/contracts"
	// workerBinTarget is where the convoke binary appears inside the worker.
	workerBinTarget = "/usr/local/bin/convoke"

	// removeTimeout bounds the forced cleanup after a timed-out worker.
	removeTimeout = 10 * time.Second
)

type (
	// Options configures a Dispatcher.
	Options struct {
		// Mode selects in-process or isolated execution. Empty means
		// DefaultMode.
		Mode Mode
		// Engine is the container engine for isolated mode. Ignored in
		// ModeNone.
		Engine container.Engine
		// Image is the worker image. Empty means DefaultImage.
		Image string
		// Timeout bounds one isolated invocation. Zero means DefaultTimeout.
		Timeout time.Duration
		// WorkerBinary is the host path of the convoke binary mounted into
		// the worker. Empty means the current executable.
		WorkerBinary string
		// Loader loads contract units for in-process execution. Nil means
		// engine.ShellLoader.
		Loader engine.UnitLoader
	}

	// Dispatcher routes invocations to the execution engine, in-process or
	// inside a container worker.
	Dispatcher struct {
		mode         Mode
		engine       container.Engine
		image        string
		timeout      time.Duration
		workerBinary string
		loader       engine.UnitLoader
	}
)

// NewDispatcher creates a dispatcher. Isolated mode requires a container
// engine.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		mode:         mode,
		engine:       opts.Engine,
		image:        opts.Image,
		timeout:      opts.Timeout,
		workerBinary: opts.WorkerBinary,
		loader:       opts.Loader,
	}
	if d.image == "" {
		d.image = DefaultImage
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.loader == nil {
		d.loader = engine.ShellLoader{}
	}
	if mode == ModeIsolated && d.engine == nil {
		return nil, &container.EngineNotAvailableError{
			Engine: "any",
			Reason: "isolated sandbox mode requires a container engine",
		}
	}
	return d, nil
}

// Mode returns the dispatcher's sandbox mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Dispatch runs one endpoint invocation and returns its execution report.
//
// Business and execution-level failures are data inside the returned
// ExecutionInfo; a non-nil error means the invocation could not be observed
// at all (worker launch failure, timeout, unparseable worker output) and is
// always a *SandboxError in isolated mode.
func (d *Dispatcher) Dispatch(ctx context.Context, unitRef string, storageBefore []contract.Variable, endpoint string, args []contract.Variable) (*contract.ExecutionInfo, error) {
	if d.mode == ModeNone {
		slog.Debug("dispatching in-process", "unit", unitRef, "endpoint", endpoint)
		return engine.Execute(ctx, d.loader, unitRef, storageBefore, endpoint, args), nil
	}
	return d.dispatchIsolated(ctx, unitRef, storageBefore, endpoint, args)
}

func (d *Dispatcher) dispatchIsolated(ctx context.Context, unitRef string, storageBefore []contract.Variable, endpoint string, args []contract.Variable) (*contract.ExecutionInfo, error) {
	unitPath, err := filepath.Abs(unitRef)
	if err != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint, Cause: err}
	}
	unitDir, unitFile := filepath.Split(unitPath)

	binary := d.workerBinary
	if binary == "" {
		if binary, err = os.Executable(); err != nil {
			return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
				Cause: fmt.Errorf("resolve worker binary: %w", err)}
		}
	}

	storageJSON, err := json.Marshal(storageBefore)
	if err != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Cause: fmt.Errorf("serialize storage: %w", err)}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Cause: fmt.Errorf("serialize arguments: %w", err)}
	}

	name := containerName(unitFile, endpoint)
	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	opts := container.RunOptions{
		Image:   d.image,
		Name:    name,
		Remove:  true,
		Network: "none",
		WorkDir: unitMountDir,
		Volumes: []container.VolumeMount{
			{Host: unitDir, Target: unitMountDir, ReadOnly: true},
			{Host: binary, Target: workerBinTarget, ReadOnly: true},
		},
		Command: []string{
			"convoke", "internal", "exec",
			"--unit", unitMountDir + "/" + unitFile,
			"--endpoint", endpoint,
			"--storage", string(storageJSON),
			"--args", string(argsJSON),
		},
		Stdout: &stdout,
		Stderr: &stderr,
	}

	slog.Debug("dispatching to container worker",
		"engine", d.engine.Name(), "image", d.image, "name", name,
		"unit", unitPath, "endpoint", endpoint)

	result, runErr := d.engine.Run(runCtx, opts)

	if ctxErr := runCtx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		d.forceRemove(name)
		return nil, &SandboxError{
			Unit:     unitRef,
			Endpoint: endpoint,
			Output:   combinedOutput(&stdout, &stderr),
			Cause:    fmt.Errorf("worker timed out after %s: %w", d.timeout, ctxErr),
		}
	}
	if runErr != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Output: combinedOutput(&stdout, &stderr), Cause: runErr}
	}
	if result.Error != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Output: combinedOutput(&stdout, &stderr),
			Cause:  fmt.Errorf("worker launch failed: %w", result.Error)}
	}
	if result.ExitCode != 0 {
		// The worker reports business and execution failures inside its
		// result document with exit code 0. A non-zero exit means the
		// worker itself broke.
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Output: combinedOutput(&stdout, &stderr),
			Cause:  fmt.Errorf("worker exited with code %d", result.ExitCode)}
	}

	info := &contract.ExecutionInfo{}
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), info); err != nil {
		return nil, &SandboxError{Unit: unitRef, Endpoint: endpoint,
			Output: combinedOutput(&stdout, &stderr),
			Cause:  fmt.Errorf("decode worker result: %w", err)}
	}
	return info, nil
}

// forceRemove cleans up a worker that outlived its deadline. The run context
// is already dead, so removal gets its own bounded context.
func (d *Dispatcher) forceRemove(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()
	if err := d.engine.Remove(ctx, name, true); err != nil {
		slog.Debug("worker cleanup failed", "name", name, "error", err)
	}
}

// containerName derives a deterministic worker name from the unit file and
// endpoint, restricted to characters container engines accept.
func containerName(unitFile, endpoint string) string {
	unit := strings.TrimSuffix(unitFile, filepath.Ext(unitFile))
	return "convoke-" + sanitizeNamePart(unit) + "-" + sanitizeNamePart(endpoint)
}

func sanitizeNamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unit"
	}
	return b.String()
}

func combinedOutput(stdout, stderr *bytes.Buffer) string {
	out := stdout.String()
	if errOut := stderr.String(); errOut != "" {
		if out != "" {
			out += "\n"
		}
		out += errOut
	}
	return out
}
