// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for convoke.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"convoke/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "convoke",
		Short: "Smart-contract ABI codec and sandboxed invocation engine",
		Long: TitleStyle.Render("convoke") + SubtitleStyle.Render(" - invoke smart-contract endpoints against persisted state") + `

convoke identifies contract endpoints through an 8-byte ABI selector
scheme, restores each contract's storage from its last committed
execution, and runs the endpoint either in-process or inside an
isolated container worker (Docker/Podman).

Contracts are shell units paired with a JSON interface document and
live in the contracts directory, optionally indexed by contracts.toml.

` + SubtitleStyle.Render("Examples:") + `
  convoke abi selectors counter.json    Print the endpoint selector table
  convoke abi encode counter.json increment --arg step=2
  convoke invoke counter increment --arg step=2
  convoke invoke counter increment --output result.json`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/convoke/config.cue)")

	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(invokeCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initLogging routes slog through a charmbracelet logger on stderr. Debug
// lines from the internal packages only surface with --verbose.
func initLogging() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "convoke",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// loadConfig resolves the effective configuration, honoring the --config
// flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// contractsDir returns the configured contracts directory, falling back to
// the platform default.
func contractsDir(cfg *config.Config) (string, error) {
	if cfg.Contracts.Dir != "" {
		return cfg.Contracts.Dir, nil
	}
	return config.ContractsDir()
}

// storageDir returns the configured storage directory, falling back to the
// platform default.
func storageDir(cfg *config.Config) (string, error) {
	if cfg.Storage.Dir != "" {
		return cfg.Storage.Dir, nil
	}
	return config.StorageDir()
}
