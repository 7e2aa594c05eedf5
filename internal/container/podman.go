// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PodmanEngine implements the Engine interface using the Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
// On Linux with SELinux enabled, volume mounts are automatically labeled with :z.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath("podman")

	// Podman needs SELinux volume labels on Linux (prepend to user options)
	allOpts := append([]BaseCLIEngineOption{WithVolumeFormatter(formatVolumeSELinux)}, opts...)

	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *PodmanEngine) Name() string {
	return string(EngineTypePodman)
}

// Available checks if Podman is available.
func (e *PodmanEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	cmd := e.CreateCommand(context.Background(), "version", "--format", "{{.Version}}")
	return cmd.Run() == nil
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists checks if an image exists locally.
func (e *PodmanEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "exists", image)
	return err == nil, nil
}

// isSELinuxEnabled checks if SELinux is enforcing on the system.
func isSELinuxEnabled() bool {
	data, err := os.ReadFile("/sys/fs/selinux/enforce")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}

// formatVolumeSELinux renders a mount as host:target[:options], appending the
// :z label when SELinux is enforcing. Without the label, mounts are unreadable
// inside the container on SELinux-enforcing hosts.
func formatVolumeSELinux(v VolumeMount) string {
	spec := formatVolume(v)
	if !isSELinuxEnabled() {
		return spec
	}
	if v.ReadOnly {
		return spec + ",z"
	}
	return spec + ":z"
}
