// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"testing"
)

func TestEngineNotAvailableError(t *testing.T) {
	t.Parallel()

	err := &EngineNotAvailableError{Engine: "podman", Reason: "not installed"}

	if !errors.Is(err, ErrNoEngineAvailable) {
		t.Error("expected errors.Is(err, ErrNoEngineAvailable) to be true")
	}

	var notAvail *EngineNotAvailableError
	if !errors.As(err, &notAvail) {
		t.Fatal("expected errors.As to match EngineNotAvailableError")
	}
	if notAvail.Engine != "podman" {
		t.Errorf("Engine = %q, want %q", notAvail.Engine, "podman")
	}
}

func TestNewEngine_UnknownType(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(EngineType("lxc")); err == nil {
		t.Error("expected error for unknown engine type")
	}
}

func TestEngineNames(t *testing.T) {
	t.Parallel()

	if got := NewDockerEngine().Name(); got != "docker" {
		t.Errorf("docker Name() = %q", got)
	}
	if got := NewPodmanEngine().Name(); got != "podman" {
		t.Errorf("podman Name() = %q", got)
	}
}
