// SPDX-License-Identifier: MPL-2.0

package contract

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"convoke/pkg/cueutil"
)

//go:embed interface_schema.cue
var interfaceSchema string

var (
	// ErrDuplicateEndpoint is the sentinel error wrapped by DuplicateNameError
	// for endpoint name clashes.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint name")
	// ErrDuplicateStorageVar is the sentinel error wrapped by DuplicateNameError
	// for storage variable name clashes.
	ErrDuplicateStorageVar = errors.New("duplicate storage variable name")
)

type (
	// ContractInterface is the authoritative description of a contract's
	// public surface and persistent state shape. It is built once (by the
	// interface extractor, outside this tool) and never mutated: lifecycle
	// is load, use, discard.
	ContractInterface struct {
		// Name is the contract name.
		Name string `json:"name"`
		// StorageVars declare the persistent slots with their initial values.
		StorageVars []Variable `json:"storage"`
		// Endpoints declare the callable surfaces.
		Endpoints []EndpointDef `json:"endpoints"`
	}

	// DuplicateNameError is returned when two endpoints or two storage
	// variables share a name. It wraps ErrDuplicateEndpoint or
	// ErrDuplicateStorageVar.
	DuplicateNameError struct {
		Kind     string // "endpoint" or "storage variable"
		Name     string
		sentinel error
	}
)

// Error implements the error interface for DuplicateNameError.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name %q", e.Kind, e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateNameError) Unwrap() error {
	return e.sentinel
}

// Endpoint returns the definition of the named endpoint, if declared.
func (c *ContractInterface) Endpoint(name string) (*EndpointDef, bool) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], true
		}
	}
	return nil, false
}

// Supports reports whether the contract declares the named endpoint.
func (c *ContractInterface) Supports(name string) bool {
	_, ok := c.Endpoint(name)
	return ok
}

// EndpointNames returns the declared endpoint names in declaration order.
func (c *ContractInterface) EndpointNames() []string {
	names := make([]string, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		names[i] = ep.Name
	}
	return names
}

// Validate enforces the interface's structural invariants: unique endpoint
// names, unique storage variable names, recognized type tags, and initial
// storage values assignable to their declared types.
func (c *ContractInterface) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("contract interface has no name")
	}

	seenEndpoints := make(map[string]struct{}, len(c.Endpoints))
	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if err := ep.Validate(); err != nil {
			return err
		}
		if _, dup := seenEndpoints[ep.Name]; dup {
			return &DuplicateNameError{Kind: "endpoint", Name: ep.Name, sentinel: ErrDuplicateEndpoint}
		}
		seenEndpoints[ep.Name] = struct{}{}
	}

	seenVars := make(map[string]struct{}, len(c.StorageVars))
	for _, v := range c.StorageVars {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, dup := seenVars[v.Name]; dup {
			return &DuplicateNameError{Kind: "storage variable", Name: v.Name, sentinel: ErrDuplicateStorageVar}
		}
		seenVars[v.Name] = struct{}{}
	}

	return nil
}

// ParseInterface validates an interface document against the embedded CUE
// schema, decodes it, and enforces the structural invariants. The filename
// is only used in error messages.
func ParseInterface(data []byte, filename string) (*ContractInterface, error) {
	iface, err := cueutil.ParseAndDecodeString[ContractInterface](interfaceSchema, data, "#Interface", filename)
	if err != nil {
		return nil, err
	}
	if err := iface.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return iface, nil
}

// LoadInterface reads and parses an interface document from disk.
func LoadInterface(path string) (*ContractInterface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract interface: %w", err)
	}
	return ParseInterface(data, filepath.Base(path))
}

// WriteFile saves the interface as JSON at the given path, creating parent
// directories as needed. An existing file is replaced.
func (c *ContractInterface) WriteFile(path string) error {
	return writeJSONFile(path, c)
}

// writeJSONFile persists any JSON-marshalable document, creating parent
// directories as needed.
func writeJSONFile(path string, doc any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
