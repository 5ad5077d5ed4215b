package interp

import (
	"errors"
	"testing"

	"github.com/loomlang/loom/internal/ast"
)

func intVal(v int64) *ast.Integer {
	return &ast.Integer{Width: ast.I32, Value: v}
}

func TestLookupSearchesInnermostOut(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.BindLocal("a", intVal(1))
	ctx.PushFrame()
	ctx.BindLocal("a", intVal(2))

	v, ok := ctx.Lookup("a")
	if !ok {
		t.Fatal("a not found")
	}
	if v.(*ast.Integer).Value != 2 {
		t.Fatalf("inner a = %d, want 2", v.(*ast.Integer).Value)
	}

	ctx.PopFrame()
	v, _ = ctx.Lookup("a")
	if v.(*ast.Integer).Value != 1 {
		t.Fatalf("outer a = %d, want 1", v.(*ast.Integer).Value)
	}
}

func TestAssignUpdatesOwningFrame(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.BindLocal("a", intVal(1))
	ctx.PushFrame()

	// a is owned by the outer frame; the write from the inner frame must
	// land there, not shadow it.
	ctx.Assign("a", intVal(9))
	ctx.PopFrame()

	v, ok := ctx.Lookup("a")
	if !ok {
		t.Fatal("a not found after inner frame popped")
	}
	if v.(*ast.Integer).Value != 9 {
		t.Fatalf("a = %d, want 9", v.(*ast.Integer).Value)
	}
}

func TestAssignBindsInnermostWhenUnbound(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.PushFrame()
	ctx.Assign("fresh", intVal(5))
	ctx.PopFrame()

	if _, ok := ctx.Lookup("fresh"); ok {
		t.Fatal("fresh leaked out of the inner frame")
	}
}

func TestBindLocalShadowsOuterBinding(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.BindLocal("i", intVal(99))
	ctx.PushFrame()
	ctx.BindLocal("i", intVal(0))

	v, _ := ctx.Lookup("i")
	if v.(*ast.Integer).Value != 0 {
		t.Fatalf("i = %d, want 0", v.(*ast.Integer).Value)
	}

	ctx.PopFrame()
	v, _ = ctx.Lookup("i")
	if v.(*ast.Integer).Value != 99 {
		t.Fatalf("after pop, i = %d, want 99", v.(*ast.Integer).Value)
	}
}

func TestAssignIndexed(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.BindLocal("v", &ast.Vector{Elements: []ast.Expression{intVal(1), intVal(2)}})
	ctx.PushFrame()

	if err := ctx.AssignIndexed("v", 1, intVal(42)); err != nil {
		t.Fatalf("AssignIndexed: %v", err)
	}
	ctx.PopFrame()

	v, _ := ctx.Lookup("v")
	if got := v.(*ast.Vector).Elements[1].(*ast.Integer).Value; got != 42 {
		t.Fatalf("v[1] = %d, want 42", got)
	}
}

func TestAssignIndexedErrors(t *testing.T) {
	ctx := NewContext(nil)
	ctx.PushFrame()
	ctx.BindLocal("v", &ast.Vector{Elements: []ast.Expression{intVal(1)}})
	ctx.BindLocal("n", intVal(3))

	var outOfRange *IndexOutOfRangeError
	if err := ctx.AssignIndexed("v", 5, intVal(0)); !errors.As(err, &outOfRange) {
		t.Errorf("out-of-range write: %v", err)
	}

	var notIndexable *NotIndexableError
	if err := ctx.AssignIndexed("n", 0, intVal(0)); !errors.As(err, &notIndexable) {
		t.Errorf("write through scalar: %v", err)
	}

	var unknown *UnknownReferenceError
	if err := ctx.AssignIndexed("missing", 0, intVal(0)); !errors.As(err, &unknown) {
		t.Errorf("write through unbound name: %v", err)
	}
}

func TestContractLookup(t *testing.T) {
	contract := &ast.Contract{}
	ctx := NewContext(map[string]*ast.Contract{"sum": contract})

	if got := ctx.Contract("sum"); got != contract {
		t.Error("tagged lookup missed the registered contract")
	}
	if got := ctx.Contract("other"); got.Pre != nil || got.Maintenance != nil || got.Post != nil {
		t.Error("unknown tag did not yield an empty contract")
	}
	if got := ctx.Contract(""); got.Pre != nil || got.Maintenance != nil || got.Post != nil {
		t.Error("untagged loop did not yield an empty contract")
	}
}

func TestDepthTracksPushPop(t *testing.T) {
	ctx := NewContext(nil)
	if ctx.Depth() != 0 {
		t.Fatalf("fresh depth = %d", ctx.Depth())
	}
	ctx.PushFrame()
	ctx.PushFrame()
	if ctx.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", ctx.Depth())
	}
	ctx.PopFrame()
	ctx.PopFrame()
	if ctx.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", ctx.Depth())
	}
}
