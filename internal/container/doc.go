// SPDX-License-Identifier: MPL-2.0

// Package container provides a unified abstraction layer for container
// engines (Docker/Podman), trimmed to what the sandbox needs: running a
// short-lived worker with read-only mounts and captured output, and
// removing it.
//
// The Engine interface defines the operations; DockerEngine and
// PodmanEngine both embed BaseCLIEngine for shared argument construction
// and command execution. Engine selection uses NewEngine(EngineType) with
// fallback when the preferred engine is unavailable, or AutoDetectEngine()
// for preference-less detection (Podman is tried first).
package container
