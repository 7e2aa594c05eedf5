// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"convoke/pkg/contract"
)

// ShellUnit is a contract unit backed by a shell script interpreted
// in-process with mvdan/sh. The script's functions are the unit's endpoints
// and its top-level variable assignments declare the storage slots; no
// reflection or ambient process state is involved, the unit only exposes
// what the script declares.
//
// Values cross the shell boundary as strings: scalars in their literal form,
// collections as JSON text. Reading a slot back sniffs the string, so a
// contract that writes `last_rate=0.35` is observed as a float slot and one
// that writes JSON text is observed as a collection.
//
// A ShellUnit is not safe for concurrent use; the engine drives it strictly
// sequentially within one execution.
type ShellUnit struct {
	name      string
	runner    *interp.Runner
	parser    *syntax.Parser
	endpoints map[string]struct{}
	slots     map[string]struct{}
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

// newShellUnit parses and loads a shell contract. Top-level statements run
// once at load time to establish the declared slots' initial values.
func newShellUnit(ctx context.Context, name, source, dir string) (*ShellUnit, error) {
	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parse unit %q: %w", name, err)
	}

	unit := &ShellUnit{
		name:      name,
		parser:    parser,
		endpoints: map[string]struct{}{},
		slots:     map[string]struct{}{},
	}
	unit.scanDeclarations(prog)

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron()),
		interp.StdIO(nil, &unit.stdout, &unit.stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("create interpreter for unit %q: %w", name, err)
	}
	unit.runner = runner

	if err := runner.Run(ctx, prog); err != nil {
		return nil, fmt.Errorf("load unit %q: %w", name, err)
	}
	unit.stdout.Reset()
	unit.stderr.Reset()

	return unit, nil
}

// scanDeclarations records the unit's declared surface from the AST:
// function declarations become endpoints, top-level bare assignments become
// storage slots.
func (u *ShellUnit) scanDeclarations(prog *syntax.File) {
	for _, stmt := range prog.Stmts {
		switch cmd := stmt.Cmd.(type) {
		case *syntax.FuncDecl:
			u.endpoints[cmd.Name.Value] = struct{}{}
		case *syntax.CallExpr:
			if len(cmd.Args) == 0 {
				for _, assign := range cmd.Assigns {
					if assign.Name != nil {
						u.slots[assign.Name.Value] = struct{}{}
					}
				}
			}
		}
	}
}

// HasEndpoint implements ContractUnit.
func (u *ShellUnit) HasEndpoint(name string) bool {
	_, ok := u.endpoints[name]
	return ok
}

// Invoke implements ContractUnit. Named arguments are bound as shell
// variables and also passed positionally; the endpoint's stdout is its
// return value.
func (u *ShellUnit) Invoke(ctx context.Context, endpoint string, args []contract.Variable) (any, error) {
	if !u.HasEndpoint(endpoint) {
		return nil, &EndpointNotFoundError{Unit: u.name, Endpoint: endpoint}
	}

	var b strings.Builder
	positional := make([]string, 0, len(args))
	for _, arg := range args {
		str, err := valueToShell(arg.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg.Name, err)
		}
		quoted, err := syntax.Quote(str, syntax.LangBash)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg.Name, err)
		}
		fmt.Fprintf(&b, "%s=%s\n", arg.Name, quoted)
		positional = append(positional, quoted)
	}
	fmt.Fprintf(&b, "%s %s\n", endpoint, strings.Join(positional, " "))

	prog, err := u.parser.Parse(strings.NewReader(b.String()), endpoint)
	if err != nil {
		return nil, fmt.Errorf("build call to %q: %w", endpoint, err)
	}

	u.stdout.Reset()
	u.stderr.Reset()
	if err := u.runner.Run(ctx, prog); err != nil {
		return nil, callFailure(endpoint, err, u.stderr.String())
	}

	out := strings.TrimSuffix(u.stdout.String(), "\n")
	if out == "" {
		return nil, nil
	}
	return shellToValue(out), nil
}

// callFailure describes a failing endpoint run, folding in captured stderr
// when the shell produced any.
func callFailure(endpoint string, err error, stderr string) error {
	var status interp.ExitStatus
	msg := err.Error()
	if errors.As(err, &status) {
		msg = fmt.Sprintf("endpoint %q exited with status %d", endpoint, uint8(status))
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		return fmt.Errorf("%s: %s", msg, stderr)
	}
	return fmt.Errorf("%s", msg)
}

// ReadSlot implements ContractUnit.
func (u *ShellUnit) ReadSlot(name string) (any, contract.TypeTag, error) {
	if _, declared := u.slots[name]; !declared {
		return nil, "", &SlotNotFoundError{Unit: u.name, Slot: name}
	}

	v, ok := u.runner.Vars[name]
	if !ok || v.Kind == expand.Unset {
		return nil, "", &SlotNotFoundError{Unit: u.name, Slot: name}
	}

	switch v.Kind {
	case expand.Indexed:
		list := make([]any, len(v.List))
		for i, item := range v.List {
			list[i] = shellToValue(item)
		}
		return list, contract.TypeList, nil
	case expand.Associative:
		m := make(map[string]any, len(v.Map))
		for k, item := range v.Map {
			m[k] = shellToValue(item)
		}
		return m, contract.TypeMap, nil
	default:
		value := shellToValue(v.Str)
		return value, contract.TypeOf(value), nil
	}
}

// WriteSlot implements ContractUnit. The write goes through the interpreter
// as an ordinary assignment so the unit's state stays consistent with what
// its own code would produce.
func (u *ShellUnit) WriteSlot(ctx context.Context, name string, value any) error {
	if _, declared := u.slots[name]; !declared {
		return &SlotNotFoundError{Unit: u.name, Slot: name}
	}

	str, err := valueToShell(value)
	if err != nil {
		return fmt.Errorf("slot %q: %w", name, err)
	}
	quoted, err := syntax.Quote(str, syntax.LangBash)
	if err != nil {
		return fmt.Errorf("slot %q: %w", name, err)
	}

	prog, err := u.parser.Parse(strings.NewReader(fmt.Sprintf("%s=%s\n", name, quoted)), name)
	if err != nil {
		return fmt.Errorf("slot %q: %w", name, err)
	}
	if err := u.runner.Run(ctx, prog); err != nil {
		return fmt.Errorf("restore slot %q: %w", name, err)
	}
	return nil
}

// valueToShell renders a value as the string handed to the shell: strings
// stay literal, everything else becomes JSON text.
func valueToShell(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("value is not encodable: %w", err)
		}
		return string(data), nil
	}
}

// shellToValue sniffs a shell string back into a typed value: valid JSON
// text (numbers, booleans, collections) decodes, anything else stays a
// string.
func shellToValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return s
}
