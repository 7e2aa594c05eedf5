// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ShellLoader resolves unit references as paths to shell-script contracts on
// disk. It is the in-process execution technology; the sandbox package
// wraps the same loader in an isolated worker for the out-of-process one.
type ShellLoader struct{}

// Load implements UnitLoader. A reference that does not resolve to a
// regular file is a UnitNotFoundError; a file that fails to parse or whose
// top-level statements fail is a load error.
func (ShellLoader) Load(ctx context.Context, ref string) (ContractUnit, error) {
	fi, err := os.Stat(ref)
	if err != nil || fi.IsDir() {
		return nil, &UnitNotFoundError{Ref: ref}
	}

	source, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read unit %q: %w", ref, err)
	}

	name := unitName(ref)
	return newShellUnit(ctx, name, string(source), filepath.Dir(ref))
}

// unitName derives the unit's display name from its path: the base name
// without extension.
func unitName(ref string) string {
	base := filepath.Base(ref)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}
