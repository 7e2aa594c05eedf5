// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sandbox.Mode != SandboxModeIsolated {
		t.Errorf("Mode = %q, want isolated", cfg.Sandbox.Mode)
	}
	if cfg.Sandbox.Engine != ContainerEngineAuto {
		t.Errorf("Engine = %q, want auto", cfg.Sandbox.Engine)
	}
	if cfg.Sandbox.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.Sandbox.TimeoutSeconds)
	}
	if cfg.Sandbox.Image == "" {
		t.Error("expected a default worker image")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := writeConfigFile(t, `
sandbox: {
	mode:    "none"
	timeout: 30
}
contracts: dir: "/srv/contracts"
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sandbox.Mode != SandboxModeNone {
		t.Errorf("Mode = %q, want none", cfg.Sandbox.Mode)
	}
	if cfg.Sandbox.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.Sandbox.TimeoutSeconds)
	}
	if cfg.Contracts.Dir != "/srv/contracts" {
		t.Errorf("Contracts.Dir = %q", cfg.Contracts.Dir)
	}
	// Untouched keys keep their defaults
	if cfg.Sandbox.Engine != ContainerEngineAuto {
		t.Errorf("Engine = %q, want auto", cfg.Sandbox.Engine)
	}
}

func TestLoad_SchemaRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown sandbox mode", content: `sandbox: mode: "jail"`},
		{name: "unknown engine", content: `sandbox: engine: "lxc"`},
		{name: "non-positive timeout", content: `sandbox: timeout: 0`},
		{name: "wrong type", content: `contracts: dir: 42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := writeConfigFile(t, tt.content)
			if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONVOKE_SANDBOX_MODE", "none")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sandbox.Mode != SandboxModeNone {
		t.Errorf("Mode = %q, want none from environment", cfg.Sandbox.Mode)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:     "bad mode",
			mutate:   func(c *Config) { c.Sandbox.Mode = "jail" },
			sentinel: ErrInvalidSandboxMode,
		},
		{
			name:     "bad engine",
			mutate:   func(c *Config) { c.Sandbox.Engine = "lxc" },
			sentinel: ErrInvalidContainerEngine,
		},
		{
			name:     "bad timeout",
			mutate:   func(c *Config) { c.Sandbox.TimeoutSeconds = -1 },
			sentinel: ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.sentinel == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected sentinel %v, got %v", tt.sentinel, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("expected errors.Is(err, ErrInvalidConfig) to be true")
			}
		})
	}
}
