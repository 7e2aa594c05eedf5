// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// SandboxModeNone runs contract invocations in the current process.
	SandboxModeNone SandboxMode = "none"
	// SandboxModeIsolated runs contract invocations in a container worker.
	SandboxModeIsolated SandboxMode = "isolated"

	// ContainerEngineAuto picks whichever engine is available.
	ContainerEngineAuto ContainerEngine = "auto"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
)

var (
	// ErrInvalidSandboxMode is returned when a SandboxMode value is not recognized.
	ErrInvalidSandboxMode = errors.New("invalid sandbox mode")
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidTimeout is returned when the sandbox timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid sandbox timeout")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// SandboxMode specifies where contract invocations execute.
	SandboxMode string

	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidSandboxModeError is returned when a SandboxMode value is not recognized.
	// It wraps ErrInvalidSandboxMode for errors.Is() compatibility.
	InvalidSandboxModeError struct {
		Value SandboxMode
	}

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// InvalidConfigError is returned when a Config fails validation.
	// It wraps ErrInvalidConfig and the first field-level error.
	InvalidConfigError struct {
		Cause error
	}

	// SandboxConfig controls the invocation sandbox.
	SandboxConfig struct {
		// Mode selects in-process ("none") or container ("isolated") execution.
		Mode SandboxMode `mapstructure:"mode"`
		// Engine selects the container runtime (auto, docker, podman).
		Engine ContainerEngine `mapstructure:"engine"`
		// Image is the worker container image.
		Image string `mapstructure:"image"`
		// TimeoutSeconds bounds one isolated invocation.
		TimeoutSeconds int `mapstructure:"timeout"`
	}

	// ContractsConfig locates contract units and interfaces.
	ContractsConfig struct {
		// Dir is the contracts directory holding units, interfaces, and the
		// contracts.toml manifest.
		Dir string `mapstructure:"dir"`
	}

	// StorageConfig locates the persisted per-contract execution state.
	StorageConfig struct {
		// Dir is the directory holding one state file per contract.
		Dir string `mapstructure:"dir"`
	}

	// Config is the top-level convoke configuration.
	Config struct {
		Sandbox   SandboxConfig   `mapstructure:"sandbox"`
		Contracts ContractsConfig `mapstructure:"contracts"`
		Storage   StorageConfig   `mapstructure:"storage"`
	}
)

// Error implements the error interface for InvalidSandboxModeError.
func (e *InvalidSandboxModeError) Error() string {
	return fmt.Sprintf("invalid sandbox mode '%s' (valid modes: none, isolated)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSandboxModeError) Unwrap() error {
	return ErrInvalidSandboxMode
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine '%s' (valid engines: auto, docker, podman)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Cause)
}

// Unwrap returns the wrapped cause so both errors.Is(err, ErrInvalidConfig)
// and checks against the field-level sentinel work.
func (e *InvalidConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the ErrInvalidConfig sentinel.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks a SandboxMode value.
func (m SandboxMode) Validate() error {
	switch m {
	case SandboxModeNone, SandboxModeIsolated:
		return nil
	default:
		return &InvalidSandboxModeError{Value: m}
	}
}

// Validate checks a ContainerEngine value.
func (e ContainerEngine) Validate() error {
	switch e {
	case ContainerEngineAuto, ContainerEnginePodman, ContainerEngineDocker:
		return nil
	default:
		return &InvalidContainerEngineError{Value: e}
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Sandbox.Mode.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	if err := c.Sandbox.Engine.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	if c.Sandbox.TimeoutSeconds <= 0 {
		return &InvalidConfigError{
			Cause: fmt.Errorf("%w: timeout must be positive, got %d", ErrInvalidTimeout, c.Sandbox.TimeoutSeconds),
		}
	}
	return nil
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Sandbox: SandboxConfig{
			Mode:           SandboxModeIsolated,
			Engine:         ContainerEngineAuto,
			Image:          "docker.io/library/alpine:latest",
			TimeoutSeconds: 60,
		},
	}
}
