// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"convoke/pkg/contract"
)

const counterContract = `# Counter demo contract.
count=0
note=""

increment() {
	if [ "$step" -le 0 ]; then
		echo "step must be positive" >&2
		return 1
	fi
	count=$((count + step))
	echo "$count"
}

annotate() {
	note="$1"
}

echo_payload() {
	echo "$payload"
}
`

func writeUnit(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.sh")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write unit: %v", err)
	}
	return path
}

func counterStorage() []contract.Variable {
	return []contract.Variable{
		{Name: "count", Type: contract.TypeInt, Value: float64(4)},
		{Name: "note", Type: contract.TypeString, Value: "hi"},
	}
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	args := []contract.Variable{{Name: "step", Type: contract.TypeInt, Value: float64(3)}}

	info := Execute(context.Background(), ShellLoader{}, ref, counterStorage(), "increment", args)

	if !info.IsSuccess() {
		t.Fatalf("execution failed: %s", info.Success.Err)
	}
	if info.Call == nil {
		t.Fatal("expected a call report")
	}
	if !info.Call.IsSuccess() {
		t.Fatalf("call failed: %s", info.Call.Success.Err)
	}
	if info.Call.RetVal != float64(7) {
		t.Errorf("RetVal = %v, want 7", info.Call.RetVal)
	}

	after := contract.VariablesToMap(info.StorageAfter)
	if after["count"] != float64(7) {
		t.Errorf("count after = %v, want 7", after["count"])
	}
	if after["note"] != "hi" {
		t.Errorf("note after = %v, want untouched %q", after["note"], "hi")
	}
}

func TestExecute_Deterministic(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	args := []contract.Variable{{Name: "step", Type: contract.TypeInt, Value: float64(2)}}

	first := Execute(context.Background(), ShellLoader{}, ref, counterStorage(), "increment", args)
	second := Execute(context.Background(), ShellLoader{}, ref, counterStorage(), "increment", args)

	if !first.IsSuccess() || !second.IsSuccess() {
		t.Fatalf("executions failed: %s / %s", first.Success.Err, second.Success.Err)
	}
	if !reflect.DeepEqual(first.StorageAfter, second.StorageAfter) {
		t.Errorf("storage diverged: %v vs %v", first.StorageAfter, second.StorageAfter)
	}
	if !reflect.DeepEqual(first.Call.RetVal, second.Call.RetVal) {
		t.Errorf("return values diverged: %v vs %v", first.Call.RetVal, second.Call.RetVal)
	}
}

func TestExecute_BusinessFailureIsIsolated(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	args := []contract.Variable{{Name: "step", Type: contract.TypeInt, Value: float64(0)}}

	info := Execute(context.Background(), ShellLoader{}, ref, counterStorage(), "increment", args)

	if !info.IsSuccess() {
		t.Fatalf("execution-level success expected, got error %q", info.Success.Err)
	}
	if info.Call == nil {
		t.Fatal("expected a call report")
	}
	if info.Call.IsSuccess() {
		t.Fatal("call-level failure expected")
	}
	// Storage is still collected after a failing call.
	after := contract.VariablesToMap(info.StorageAfter)
	if after["count"] != float64(4) {
		t.Errorf("count after = %v, want the restored 4", after["count"])
	}
}

func TestExecute_UnitNotFound(t *testing.T) {
	t.Parallel()

	before := counterStorage()
	info := Execute(context.Background(), ShellLoader{}, filepath.Join(t.TempDir(), "ghost.sh"), before, "increment", nil)

	if info.IsSuccess() {
		t.Fatal("execution should fail when the unit does not resolve")
	}
	if info.Call != nil {
		t.Error("no call report should be produced")
	}
	if !reflect.DeepEqual(info.StorageAfter, before) {
		t.Errorf("StorageAfter = %v, want the before snapshot", info.StorageAfter)
	}
}

func TestExecute_EndpointNotFound(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	info := Execute(context.Background(), ShellLoader{}, ref, counterStorage(), "decrement", nil)

	if info.IsSuccess() {
		t.Fatal("execution should fail for an undeclared endpoint")
	}
	if info.Call != nil {
		t.Error("no call report should be produced")
	}
}

func TestExecute_UndeclaredSlot(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	storage := append(counterStorage(), contract.Variable{Name: "ghost", Type: contract.TypeInt, Value: float64(1)})

	info := Execute(context.Background(), ShellLoader{}, ref, storage, "increment", nil)

	if info.IsSuccess() {
		t.Fatal("execution should fail when restoring an undeclared slot")
	}
	if info.Call != nil {
		t.Error("no call report should be produced")
	}
}

// ctxCheckingUnit reports the restore context's state instead of writing
// anything, so the test can observe which context the engine hands to the
// restore stage.
type ctxCheckingUnit struct{}

func (ctxCheckingUnit) HasEndpoint(string) bool { return true }

func (ctxCheckingUnit) Invoke(context.Context, string, []contract.Variable) (any, error) {
	return nil, nil
}

func (ctxCheckingUnit) ReadSlot(string) (any, contract.TypeTag, error) {
	return nil, contract.TypeString, nil
}

func (ctxCheckingUnit) WriteSlot(ctx context.Context, _ string, _ any) error {
	return ctx.Err()
}

type loaderFunc func(ctx context.Context, ref string) (ContractUnit, error)

func (f loaderFunc) Load(ctx context.Context, ref string) (ContractUnit, error) {
	return f(ctx, ref)
}

func TestExecute_CancelledContextAbortsRestore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := loaderFunc(func(context.Context, string) (ContractUnit, error) {
		return ctxCheckingUnit{}, nil
	})
	before := counterStorage()
	info := Execute(ctx, loader, "counter.sh", before, "increment", nil)

	if info.IsSuccess() {
		t.Fatal("execution should fail when the context is already cancelled")
	}
	if !strings.Contains(info.Success.Err, context.Canceled.Error()) {
		t.Errorf("Err = %q, want the cancellation cause", info.Success.Err)
	}
	if info.Call != nil {
		t.Error("no call report should be produced")
	}
	if !reflect.DeepEqual(info.StorageAfter, before) {
		t.Errorf("StorageAfter = %v, want the before snapshot", info.StorageAfter)
	}
}

func TestShellUnit_CollectionRoundTrip(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	unit, err := ShellLoader{}.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	payload := map[string]any{"k": "v", "n": []any{1.0, 2.0}}
	ret, err := unit.Invoke(context.Background(), "echo_payload", []contract.Variable{
		contract.NewVariable("payload", payload),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !reflect.DeepEqual(ret, payload) {
		t.Errorf("Invoke() = %#v, want the payload back", ret)
	}
}

func TestShellUnit_Slots(t *testing.T) {
	t.Parallel()

	ref := writeUnit(t, counterContract)
	unit, err := ShellLoader{}.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !unit.HasEndpoint("increment") || unit.HasEndpoint("count") {
		t.Error("endpoint surface should contain functions only")
	}

	if err := unit.WriteSlot(context.Background(), "count", float64(9)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}
	value, tag, err := unit.ReadSlot("count")
	if err != nil {
		t.Fatalf("ReadSlot() error = %v", err)
	}
	if value != float64(9) || tag != contract.TypeInt {
		t.Errorf("ReadSlot(count) = (%v, %q), want (9, int)", value, tag)
	}

	if err := unit.WriteSlot(context.Background(), "ghost", 1); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("WriteSlot(ghost) error = %v, want ErrSlotNotFound", err)
	}
	if _, _, err := unit.ReadSlot("ghost"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("ReadSlot(ghost) error = %v, want ErrSlotNotFound", err)
	}
}
