package ast

import (
	"fmt"
	"sort"
)

// Function holds one lowered function: its parameter names, its statement
// list, and the contract table it seeds a Context with on invocation. The
// return value of a call is the value of the last statement, or Unit if the
// statement list is empty.
type Function struct {
	Name      string
	Params    []string
	Body      []Statement
	Contracts map[string]*Contract
}

// FunctionBuilder constructs a fresh Function value. Builders are pure and
// cheap: the evaluator invokes one at every FunctionCall rather than
// caching its result, per §5/§9's "builders must remain pure and cheap"
// rationale — a builder wrapping a constant *Function literal is the
// common case, not a re-parse.
type FunctionBuilder func() *Function

// ConditionRef names a contract condition by the identifier the attribute
// payload used, plus the builder for the zero-argument, Bool-returning
// Function it refers to.
type ConditionRef struct {
	Name    string
	Builder FunctionBuilder
}

// Contract holds the three optional condition slots a loop tag can carry.
// A zero-value Contract (all three nil) is what the evaluator uses when a
// loop has a tag but the contract table has no entry for it, or when a
// loop carries no tag at all.
type Contract struct {
	Pre         *ConditionRef
	Maintenance *ConditionRef
	Post        *ConditionRef
}

// Registry maps function names to their builders within one lowered
// module. It exists because FunctionCall nodes and contract condition
// references must be able to name a function that is defined later in the
// same source, or that calls itself — the lowerer defines each function's
// builder in one shared Registry as it finishes lowering that function, and
// every FunctionCall constructed during the pass closes over the same
// *Registry and looks its target up lazily, at call time, once the whole
// module has finished lowering.
type Registry struct {
	builders map[string]FunctionBuilder
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]FunctionBuilder)}
}

// Define registers (or replaces) the builder for name.
func (r *Registry) Define(name string, b FunctionBuilder) {
	r.builders[name] = b
}

// Names returns every registered function name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the builder registered for name, if any.
func (r *Registry) Lookup(name string) (FunctionBuilder, bool) {
	b, ok := r.builders[name]
	return b, ok
}

// MustLookup returns the builder for name or panics. Used by the contract
// condition builders the lowerer creates; the lowerer does not check that a
// condition name is defined, so an unknown name panics when that builder is
// invoked.
func (r *Registry) MustLookup(name string) FunctionBuilder {
	b, ok := r.builders[name]
	if !ok {
		panic(fmt.Sprintf("ast: unresolved function reference %q", name))
	}
	return b
}
