// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// ManifestFileName is the optional manifest inside a contracts directory.
	ManifestFileName = "contracts.toml"

	// unitExt and interfaceExt are the convention-based file extensions used
	// when a contract has no manifest entry.
	unitExt      = ".sh"
	interfaceExt = ".json"
)

// ErrContractNotFound is the sentinel error wrapped by ContractNotFoundError.
var ErrContractNotFound = errors.New("contract not found")

type (
	// Entry is one manifest record mapping a contract name to its files.
	// Relative paths are resolved against the contracts directory.
	Entry struct {
		Unit      string `toml:"unit"`
		Interface string `toml:"interface"`
	}

	manifest struct {
		Contracts map[string]Entry `toml:"contracts"`
	}

	// Contract is a resolved contract: where its executable unit and its
	// interface document live.
	Contract struct {
		Name          string
		UnitPath      string
		InterfacePath string
	}

	// ContractNotFoundError is returned when a contract name resolves to no
	// usable files. It wraps ErrContractNotFound.
	ContractNotFoundError struct {
		Name string
		Dir  string
	}

	// Registry resolves contract names inside one contracts directory.
	Registry struct {
		dir     string
		entries map[string]Entry
	}
)

// Error implements the error interface for ContractNotFoundError.
func (e *ContractNotFoundError) Error() string {
	return fmt.Sprintf("contract '%s' not found in %s", e.Name, e.Dir)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ContractNotFoundError) Unwrap() error {
	return ErrContractNotFound
}

// Open loads the registry for a contracts directory. A missing manifest is
// not an error; resolution then relies on file naming conventions only.
func Open(dir string) (*Registry, error) {
	r := &Registry{dir: dir, entries: map[string]Entry{}}

	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFileName, err)
	}
	if m.Contracts != nil {
		r.entries = m.Contracts
	}
	return r, nil
}

// Dir returns the contracts directory this registry reads from.
func (r *Registry) Dir() string {
	return r.dir
}

// Resolve maps a contract name to its unit and interface files. Manifest
// entries win over the naming convention; the unit file must exist either
// way.
func (r *Registry) Resolve(name string) (*Contract, error) {
	c := &Contract{
		Name:          name,
		UnitPath:      filepath.Join(r.dir, name+unitExt),
		InterfacePath: filepath.Join(r.dir, name+interfaceExt),
	}
	if entry, ok := r.entries[name]; ok {
		if entry.Unit != "" {
			c.UnitPath = r.resolvePath(entry.Unit)
		}
		if entry.Interface != "" {
			c.InterfacePath = r.resolvePath(entry.Interface)
		}
	}

	if !fileExists(c.UnitPath) || !fileExists(c.InterfacePath) {
		return nil, &ContractNotFoundError{Name: name, Dir: r.dir}
	}
	return c, nil
}

// List returns the known contract names: manifest entries plus every
// convention-named unit file with a matching interface, sorted and
// deduplicated.
func (r *Registry) List() ([]string, error) {
	names := map[string]struct{}{}
	for name := range r.entries {
		names[name] = struct{}{}
	}

	dirEntries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) && len(names) == 0 {
			return nil, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read contracts dir: %w", err)
		}
	}
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != unitExt {
			continue
		}
		name := de.Name()[:len(de.Name())-len(unitExt)]
		if fileExists(filepath.Join(r.dir, name+interfaceExt)) {
			names[name] = struct{}{}
		}
	}

	out := maps.Keys(names)
	slices.Sort(out)
	return out, nil
}

func (r *Registry) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.dir, p)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
