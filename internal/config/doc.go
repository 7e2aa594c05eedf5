// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/convoke/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/convoke/config.cue on macOS, %APPDATA%\convoke\config.cue
// on Windows), with environment overrides under the CONVOKE_ prefix
// (e.g. CONVOKE_SANDBOX_MODE=none). The package provides type-safe access to the
// sandbox, contracts, and storage settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
