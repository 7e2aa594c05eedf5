// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// EngineType identifies the container engine type.
type EngineType string

const (
	// EngineTypePodman selects the Podman CLI.
	EngineTypePodman EngineType = "podman"
	// EngineTypeDocker selects the Docker CLI.
	EngineTypeDocker EngineType = "docker"
)

// ErrNoEngineAvailable is the sentinel error wrapped by EngineNotAvailableError.
var ErrNoEngineAvailable = errors.New("no container engine available")

type (
	// Engine defines the interface for container operations.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine is usable on the system.
		Available() bool
		// Version returns the engine version.
		Version(ctx context.Context) (string, error)
		// Run runs a command in a container.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Remove removes a container.
		Remove(ctx context.Context, containerID string, force bool) error
		// ImageExists checks if an image is present locally.
		ImageExists(ctx context.Context, image string) (bool, error)
	}

	// VolumeMount is one host path bind-mounted into the container.
	VolumeMount struct {
		// Host is the host path.
		Host string
		// Target is the path inside the container.
		Target string
		// ReadOnly mounts the path read-only.
		ReadOnly bool
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		// Image is the image to run.
		Image string
		// Command is the command to run.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Env contains environment variables.
		Env map[string]string
		// Volumes are bind mounts.
		Volumes []VolumeMount
		// Network is the container network mode ("none" isolates the worker).
		Network string
		// Remove automatically removes the container after exit.
		Remove bool
		// Name is the container name.
		Name string
		// Stdin is the standard input.
		Stdin io.Reader
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
	}

	// RunResult contains the result of running a container.
	RunResult struct {
		// ExitCode is the exit code.
		ExitCode int
		// Error contains any launch-level error.
		Error error
	}

	// EngineNotAvailableError is returned when a container engine is not
	// available. It wraps ErrNoEngineAvailable.
	EngineNotAvailableError struct {
		Engine string
		Reason string
	}
)

// Error implements the error interface for EngineNotAvailableError.
func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *EngineNotAvailableError) Unwrap() error {
	return ErrNoEngineAvailable
}

// NewEngine creates a container engine based on preference, falling back to
// the other engine when the preferred one is unavailable.
func NewEngine(preferred EngineType) (Engine, error) {
	switch preferred {
	case EngineTypePodman:
		if engine := NewPodmanEngine(); engine.Available() {
			return engine, nil
		}
		if engine := NewDockerEngine(); engine.Available() {
			return engine, nil
		}
		return nil, &EngineNotAvailableError{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeDocker:
		if engine := NewDockerEngine(); engine.Available() {
			return engine, nil
		}
		if engine := NewPodmanEngine(); engine.Available() {
			return engine, nil
		}
		return nil, &EngineNotAvailableError{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferred)
	}
}

// AutoDetectEngine tries to find an available container engine. Podman is
// tried first (more commonly available in rootless setups).
func AutoDetectEngine() (Engine, error) {
	if podman := NewPodmanEngine(); podman.Available() {
		return podman, nil
	}
	if docker := NewDockerEngine(); docker.Available() {
		return docker, nil
	}
	return nil, &EngineNotAvailableError{
		Engine: "any",
		Reason: "no container engine (podman or docker) is available on this system",
	}
}
