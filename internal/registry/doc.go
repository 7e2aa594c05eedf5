// SPDX-License-Identifier: MPL-2.0

// Package registry resolves contract names to their unit and interface
// files. A contracts directory may carry an explicit contracts.toml
// manifest; names absent from the manifest fall back to the
// <dir>/<name>.sh + <dir>/<name>.json convention.
package registry
