// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// VolumeFormatFunc formats a volume mount spec as a CLI argument.
	// Podman uses this to add SELinux labels (:z) which are required in
	// SELinux-enforcing environments for proper volume isolation.
	VolumeFormatFunc func(volume VolumeMount) string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides the common implementation for CLI-based
	// container engines. Docker and Podman engines embed this struct;
	// argument construction and command execution live here, while
	// engine-specific probing (Available, Version, ImageExists) stays on
	// the concrete types.
	BaseCLIEngine struct {
		binaryPath      string
		execCommand     ExecCommandFunc
		volumeFormatter VolumeFormatFunc
	}
)

// WithExecCommand injects a custom command constructor (tests).
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) { e.execCommand = fn }
}

// WithVolumeFormatter injects a custom volume formatter.
func WithVolumeFormatter(fn VolumeFormatFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) { e.volumeFormatter = fn }
}

// NewBaseCLIEngine creates a base engine for the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:      binaryPath,
		execCommand:     exec.CommandContext,
		volumeFormatter: formatVolume,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BinaryPath returns the resolved engine binary path, empty when the engine
// was not found on PATH.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// formatVolume renders a mount as host:target[:ro].
func formatVolume(v VolumeMount) string {
	spec := v.Host + ":" + v.Target
	if v.ReadOnly {
		spec += ":ro"
	}
	return spec
}

// RunArgs constructs arguments for a container run command.
//
// Generated command: <binary> run [options] <image> [command...]
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	if opts.Network != "" {
		args = append(args, "--network", opts.Network)
	}
	envKeys := maps.Keys(opts.Env)
	slices.Sort(envKeys)
	for _, k := range envKeys {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, opts.Env[k]))
	}
	for _, v := range opts.Volumes {
		args = append(args, "-v", e.volumeFormatter(v))
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return args
}

// RemoveArgs constructs arguments for a container remove command.
func (e *BaseCLIEngine) RemoveArgs(containerID string, force bool) []string {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	return append(args, containerID)
}

// Run runs a command in a container, wiring the caller's stdio.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	cmd := e.CreateCommand(ctx, e.RunArgs(opts)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()

	result := &RunResult{}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}
	return result, nil
}

// Remove removes a container.
func (e *BaseCLIEngine) Remove(ctx context.Context, containerID string, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveArgs(containerID, force)...)
}

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	if err := e.CreateCommand(ctx, args...).Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return out.String(), nil
}

// CreateCommand creates an exec.Cmd for the given arguments. Useful when the
// caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}
