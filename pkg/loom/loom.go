// Package loom is the public surface of the loom interpreter: lowering
// entry points that turn loom source into Function values, an Interpreter
// that evaluates them, and convertors that make native Go values usable as
// arguments. The heavy lifting lives in internal/parser and internal/interp.
package loom

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/interp"
	"github.com/loomlang/loom/internal/parser"
)

// Expression is a loom value or unevaluated AST node.
type Expression = ast.Expression

// Function is one lowered function: parameters, body, contract table.
type Function = ast.Function

// FunctionBuilder constructs a fresh Function value.
type FunctionBuilder = ast.FunctionBuilder

// Registry maps function names to builders within one lowered module.
type Registry = ast.Registry

// ContractCheck is one recorded contract validation.
type ContractCheck = interp.ContractCheck

// Phase identifies a contract slot in a ContractCheck.
type Phase = interp.Phase

const (
	PhasePre         = interp.PhasePre
	PhaseMaintenance = interp.PhaseMaintenance
	PhasePost        = interp.PhasePost
)

// Interpreter evaluates lowered functions. Each evaluation entry point
// builds a fresh root context seeded with the function's own contract
// table; the contract trace accumulates on the Interpreter across calls.
type Interpreter struct {
	inner *interp.Interpreter
}

// NewInterpreter creates an Interpreter with an empty contract trace.
func NewInterpreter() *Interpreter {
	return &Interpreter{inner: interp.New()}
}

// ExecuteFunction evaluates fn with no arguments.
func (i *Interpreter) ExecuteFunction(fn *Function) (Expression, error) {
	return i.inner.ExecuteFunction(fn)
}

// ExecuteFunctionWithArgs evaluates fn with the supplied already-evaluated
// argument values.
func (i *Interpreter) ExecuteFunctionWithArgs(fn *Function, args []Expression) (Expression, error) {
	return i.inner.ExecuteFunctionWithArgs(fn, args)
}

// ContractTrace returns every contract check recorded so far, in order.
func (i *Interpreter) ContractTrace() []ContractCheck {
	return i.inner.ContractTrace()
}

// ExecuteFunction evaluates fn with no arguments under a one-shot
// interpreter.
func ExecuteFunction(fn *Function) (Expression, error) {
	return NewInterpreter().ExecuteFunction(fn)
}

// ExecuteFunctionWithArgs evaluates fn with arguments under a one-shot
// interpreter.
func ExecuteFunctionWithArgs(fn *Function, args []Expression) (Expression, error) {
	return NewInterpreter().ExecuteFunctionWithArgs(fn, args)
}

// LowerFunction lowers source as a bare function body (a statement list
// with no surrounding declaration) with the given parameter names.
func LowerFunction(source string, params []string) (*Function, error) {
	return parser.LowerFunction(source, params)
}

// MustLowerFunction is LowerFunction's panicking form, returning a builder.
// Intended for package-level variables and generated code, where malformed
// source is a programmer error.
func MustLowerFunction(source string, params []string) FunctionBuilder {
	return parser.MustLowerFunction(source, params)
}

// LowerModule lowers a sequence of `fn name(params) { ... }` declarations,
// each optionally preceded by a `#[contract(...)]` attribute, into a
// Registry of builders keyed by function name.
func LowerModule(source string) (*Registry, error) {
	return parser.LowerModule(source)
}
