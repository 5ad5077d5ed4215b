package interp

import (
	"errors"
	"testing"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/parser"
)

// runMain lowers a module, runs fn main, and returns the result alongside
// the interpreter so callers can inspect the contract trace.
func runMain(t *testing.T, source string) (ast.Expression, *Interpreter, error) {
	t.Helper()
	registry, err := parser.LowerModule(source)
	if err != nil {
		t.Fatalf("lowering module: %v", err)
	}
	builder, ok := registry.Lookup("main")
	if !ok {
		t.Fatal("module has no fn main")
	}
	in := New()
	result, err := in.ExecuteFunction(builder())
	return result, in, err
}

func phases(trace []ContractCheck) []Phase {
	out := make([]Phase, len(trace))
	for i, check := range trace {
		out[i] = check.Phase
	}
	return out
}

func samePhases(got, want []Phase) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestContractOrderingRangedFor(t *testing.T) {
	result, in, err := runMain(t, `
#[contract(sum: { pre_condition: always, maintenance_condition: always, post_condition: always })]
fn main() {
	let mut acc = 0;
	'sum: for k in 0..3 { acc = acc + k; }
	acc
}
fn always() { true }
`)
	if err != nil {
		t.Fatal(err)
	}
	i := result.(*ast.Integer)
	if i.Value != 3 {
		t.Fatalf("acc = %d, want 3", i.Value)
	}

	want := []Phase{PhasePre, PhaseMaintenance, PhaseMaintenance, PhaseMaintenance, PhasePost}
	if got := phases(in.ContractTrace()); !samePhases(got, want) {
		t.Fatalf("trace phases = %v, want %v", got, want)
	}
	for _, check := range in.ContractTrace() {
		if check.Tag != "sum" || check.Condition != "always" || !check.Passed {
			t.Fatalf("check = %+v", check)
		}
	}
}

func TestZeroIterationLoopStillRunsPreAndPost(t *testing.T) {
	_, in, err := runMain(t, `
#[contract(none: { pre_condition: always, maintenance_condition: always, post_condition: always })]
fn main() { 'none: for k in 3..3 { k; } 0 }
fn always() { true }
`)
	if err != nil {
		t.Fatal(err)
	}
	want := []Phase{PhasePre, PhasePost}
	if got := phases(in.ContractTrace()); !samePhases(got, want) {
		t.Fatalf("trace phases = %v, want %v", got, want)
	}
}

func TestWhileLoopContract(t *testing.T) {
	result, in, err := runMain(t, `
#[contract(count: { pre_condition: low, post_condition: done })]
fn main() {
	let mut acc = 1;
	'count: while acc < 10 { acc = acc + 1; }
	acc
}
fn low() { acc < 10 }
fn done() { acc == 10 }
`)
	if err != nil {
		t.Fatal(err)
	}
	if result.(*ast.Integer).Value != 10 {
		t.Fatalf("acc = %d, want 10", result.(*ast.Integer).Value)
	}
	want := []Phase{PhasePre, PhasePost}
	if got := phases(in.ContractTrace()); !samePhases(got, want) {
		t.Fatalf("trace phases = %v, want %v", got, want)
	}
}

func TestConditionsObserveLiveBindings(t *testing.T) {
	// The maintenance condition reads acc from the loop's enclosing scope,
	// which only works because conditions run in the current context.
	_, _, err := runMain(t, `
#[contract(grow: { maintenance_condition: acc_positive })]
fn main() {
	let mut acc = 0;
	'grow: for k in 0..3 { acc = acc + 1; }
	acc
}
fn acc_positive() { acc > 0 }
`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestContractFailed(t *testing.T) {
	_, in, err := runMain(t, `
#[contract(t: { post_condition: never })]
fn main() { 't: for k in 0..2 { k; } 0 }
fn never() { false }
`)
	var failed *ContractFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want ContractFailed", err)
	}
	if failed.Tag != "t" || failed.Condition != "never" {
		t.Fatalf("failure = %+v", failed)
	}

	trace := in.ContractTrace()
	if len(trace) != 1 || trace[0].Passed {
		t.Fatalf("trace = %+v", trace)
	}
}

func TestContractTypeError(t *testing.T) {
	_, _, err := runMain(t, `
#[contract(t: { pre_condition: notbool })]
fn main() { 't: for k in 0..2 { k; } 0 }
fn notbool() { 1 }
`)
	var typeErr *ContractTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("error = %v, want ContractTypeError", err)
	}
	if typeErr.Tag != "t" || typeErr.Condition != "notbool" {
		t.Fatalf("failure = %+v", typeErr)
	}
}

func TestConditionErrorsPropagateUnchanged(t *testing.T) {
	_, _, err := runMain(t, `
#[contract(t: { pre_condition: broken })]
fn main() { 't: for k in 0..2 { k; } 0 }
fn broken() { nowhere }
`)
	var unknown *UnknownReferenceError
	if !errors.As(err, &unknown) || unknown.Name != "nowhere" {
		t.Fatalf("error = %v, want UnknownReference(nowhere)", err)
	}
}

func TestTaggedLoopWithoutContractEntryRunsClean(t *testing.T) {
	result, in, err := runMain(t, `
fn main() { let mut acc = 0; 'untracked: for k in 0..2 { acc = acc + 1; } acc }
`)
	if err != nil {
		t.Fatal(err)
	}
	if result.(*ast.Integer).Value != 2 {
		t.Fatalf("acc = %d", result.(*ast.Integer).Value)
	}
	if len(in.ContractTrace()) != 0 {
		t.Fatalf("trace = %+v, want empty", in.ContractTrace())
	}
}

func TestCallerContractsDoNotLeakIntoCallee(t *testing.T) {
	// The callee's loop shares the caller's tag, but the callee context is
	// seeded only with its own (empty) contract table.
	_, in, err := runMain(t, `
#[contract(t: { pre_condition: always })]
fn main() { 't: for k in 0..1 { helper(); } 0 }
fn helper() { 't: for k in 0..1 { k; } 0 }
fn always() { true }
`)
	if err != nil {
		t.Fatal(err)
	}
	trace := in.ContractTrace()
	if len(trace) != 1 {
		t.Fatalf("trace = %+v, want exactly the caller's pre check", trace)
	}
}

func TestInsertionSortWithContracts(t *testing.T) {
	result, in, err := runMain(t, `
#[contract(sort: { pre_condition: prefix_sorted, maintenance_condition: prefix_sorted, post_condition: all_sorted })]
fn main() {
	let mut v = [3, 12, 5, 6];
	let mut i = 1;
	'sort: while i < 4 {
		let mut j = i;
		let mut more = true;
		while more {
			if j > 0 {
				if v[j - 1] > v[j] {
					let tmp = v[j - 1];
					v[j - 1] = v[j];
					v[j] = tmp;
					j = j - 1;
				} else {
					more = false;
				}
			} else {
				more = false;
			}
		}
		i = i + 1;
	}
	v
}
fn prefix_sorted() {
	let mut sorted = true;
	let mut k = 1;
	while k < i {
		if v[k] < v[k - 1] { sorted = false; }
		k = k + 1;
	}
	sorted
}
fn all_sorted() {
	let mut sorted = true;
	let mut k = 1;
	while k < 4 {
		if v[k] < v[k - 1] { sorted = false; }
		k = k + 1;
	}
	sorted
}
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.String(); got != "[3_I32, 5_I32, 6_I32, 12_I32]" {
		t.Fatalf("result = %s", got)
	}

	trace := in.ContractTrace()
	want := []Phase{PhasePre, PhaseMaintenance, PhaseMaintenance, PhaseMaintenance, PhasePost}
	if got := phases(trace); !samePhases(got, want) {
		t.Fatalf("trace phases = %v, want %v", got, want)
	}
	for _, check := range trace {
		if !check.Passed {
			t.Fatalf("contract check failed: %+v", check)
		}
	}
}
