package interp

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
)

// Phase identifies which contract slot a recorded check exercised.
type Phase string

const (
	PhasePre         Phase = "pre"
	PhaseMaintenance Phase = "maintenance"
	PhasePost        Phase = "post"
)

// ContractCheck is one recorded contract validation: which tag and
// condition ran, in which phase, and whether it passed. The ordering of the
// trace is the ordering of the checks.
type ContractCheck struct {
	Tag       string
	Condition string
	Phase     Phase
	Passed    bool
}

// Interpreter evaluates Function values. One Interpreter serves a whole
// evaluation including nested function calls; each call gets its own child
// Context, while the contract trace accumulates across all of them.
type Interpreter struct {
	trace []ContractCheck
}

// New creates an Interpreter with an empty contract trace.
func New() *Interpreter {
	return &Interpreter{}
}

// ContractTrace returns the contract checks recorded so far, in the order
// they ran.
func (in *Interpreter) ContractTrace() []ContractCheck {
	return in.trace
}

// ExecuteFunction evaluates fn with no arguments, in a fresh root context
// seeded with fn's own contract table.
func (in *Interpreter) ExecuteFunction(fn *ast.Function) (ast.Expression, error) {
	return in.callFunction(fn, nil, NewContext(fn.Contracts))
}

// ExecuteFunctionWithArgs evaluates fn with the given already-evaluated
// argument values, in a fresh root context seeded with fn's own contract
// table.
func (in *Interpreter) ExecuteFunctionWithArgs(fn *ast.Function, args []ast.Expression) (ast.Expression, error) {
	return in.callFunction(fn, args, NewContext(fn.Contracts))
}

// callFunction runs fn against ctx: a frame is pushed and pre-populated
// with positional argument bindings, every statement but the last runs for
// effect, and the last statement's value (or Unit) is the result. The frame
// pops on every exit path.
func (in *Interpreter) callFunction(fn *ast.Function, args []ast.Expression, ctx *Context) (ast.Expression, error) {
	if len(args) != len(fn.Params) {
		return nil, &ArityMismatchError{Declared: len(fn.Params), Supplied: len(args)}
	}
	ctx.PushFrame()
	defer ctx.PopFrame()
	for i, name := range fn.Params {
		ctx.BindLocal(name, cloneExpr(args[i]))
	}
	return in.executeStatements(fn.Body, ctx)
}

// executeStatements runs a statement list, returning the last statement's
// value, or Unit for an empty list.
func (in *Interpreter) executeStatements(stmts []ast.Statement, ctx *Context) (ast.Expression, error) {
	var last ast.Expression = &ast.Unit{}
	for _, stmt := range stmts {
		value, err := in.executeStatement(stmt, ctx)
		if err != nil {
			return nil, err
		}
		last = value
	}
	return last, nil
}

func (in *Interpreter) executeStatement(stmt ast.Statement, ctx *Context) (ast.Expression, error) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		value, err := in.Execute(s.Value, ctx)
		if err != nil {
			return nil, err
		}
		ctx.Assign(s.Name, value)
		return &ast.Unit{}, nil
	case *ast.IndexedAssignment:
		value, err := in.Execute(s.Value, ctx)
		if err != nil {
			return nil, err
		}
		index, err := in.evalIndex(s.Index, ctx)
		if err != nil {
			return nil, err
		}
		if err := ctx.AssignIndexed(s.Name, index, value); err != nil {
			return nil, err
		}
		return &ast.Unit{}, nil
	case *ast.ExprStatement:
		return in.Execute(s.Expr, ctx)
	default:
		panic(fmt.Sprintf("interp: unknown statement type %T", stmt))
	}
}

// evalIndex evaluates an index expression down to an unsigned machine word.
func (in *Interpreter) evalIndex(expr ast.Expression, ctx *Context) (uint64, error) {
	value, err := in.Execute(expr, ctx)
	if err != nil {
		return 0, err
	}
	i, ok := value.(*ast.Integer)
	if !ok {
		return 0, &InvalidIndexExpressionError{Expr: value}
	}
	return machineWord(i), nil
}

// Execute reduces expr to a literal-form value in ctx. Literals evaluate
// to themselves; vectors re-evaluate their elements; everything else
// dispatches to its node's evaluation rule.
func (in *Interpreter) Execute(expr ast.Expression, ctx *Context) (ast.Expression, error) {
	switch e := expr.(type) {
	case *ast.Unit, *ast.Bool, *ast.Char, *ast.String, *ast.Integer, *ast.Float:
		return expr, nil
	case *ast.Vector:
		elems := make([]ast.Expression, len(e.Elements))
		for i, elem := range e.Elements {
			value, err := in.Execute(elem, ctx)
			if err != nil {
				return nil, err
			}
			elems[i] = value
		}
		return &ast.Vector{Elements: elems}, nil
	case *ast.Reference:
		value, ok := ctx.Lookup(e.Name)
		if !ok {
			return nil, &UnknownReferenceError{Name: e.Name}
		}
		return cloneExpr(value), nil
	case *ast.IndexedAccessExpression:
		return in.evalIndexedAccess(e, ctx)
	case *ast.Operation:
		left, err := in.Execute(e.Left, ctx)
		if err != nil {
			return nil, err
		}
		right, err := in.Execute(e.Right, ctx)
		if err != nil {
			return nil, err
		}
		return applyOperation(e.Kind, left, right)
	case *ast.If:
		return in.evalIf(e, ctx)
	case *ast.Block:
		return in.evalBlock(e, ctx)
	case *ast.RangedFor:
		return in.evalRangedFor(e, ctx)
	case *ast.WhileLoop:
		return in.evalWhile(e, ctx)
	case *ast.FunctionCall:
		return in.evalFunctionCall(e, ctx)
	case *ast.MethodCall:
		return in.evalMethodCall(e, ctx)
	default:
		panic(fmt.Sprintf("interp: unknown expression type %T", expr))
	}
}

func (in *Interpreter) evalIndexedAccess(e *ast.IndexedAccessExpression, ctx *Context) (ast.Expression, error) {
	index, err := in.evalIndex(e.Index, ctx)
	if err != nil {
		return nil, err
	}
	value, ok := ctx.Lookup(e.Name)
	if !ok {
		return nil, &UnknownReferenceError{Name: e.Name}
	}
	vec, isVector := value.(*ast.Vector)
	if !isVector {
		return nil, &NotIndexableError{Name: e.Name}
	}
	if index >= uint64(len(vec.Elements)) {
		return nil, &IndexOutOfRangeError{Name: e.Name, Index: index}
	}
	return cloneExpr(vec.Elements[index]), nil
}

// evalIf evaluates the condition (which must be Bool), then either the
// true-branch statement list — with no inner frame of its own, the
// enclosing block provides scoping — or the else expression when present.
func (in *Interpreter) evalIf(e *ast.If, ctx *Context) (ast.Expression, error) {
	cond, err := in.Execute(e.Condition, ctx)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*ast.Bool)
	if !ok {
		return nil, &TypeMismatchError{Context: "if condition", Value: cond}
	}
	if b.Value {
		return in.executeStatements(e.Then, ctx)
	}
	if e.Else != nil {
		return in.Execute(e.Else, ctx)
	}
	return &ast.Unit{}, nil
}

// evalBlock pushes a frame, runs the statements, and pops the frame on all
// exit paths.
func (in *Interpreter) evalBlock(e *ast.Block, ctx *Context) (ast.Expression, error) {
	ctx.PushFrame()
	defer ctx.PopFrame()
	return in.executeStatements(e.Statements, ctx)
}

// evalRangedFor runs a ranged-for loop with its contract hooks. The outer
// frame, iterator snapshot, bounds evaluation, pre-condition, per-iteration
// frames and maintenance checks all happen inside runRangedFor so the outer
// frame unwinds before the post-condition fires.
func (in *Interpreter) evalRangedFor(e *ast.RangedFor, ctx *Context) (ast.Expression, error) {
	contract := ctx.Contract(e.Tag)
	if err := in.runRangedFor(e, contract, ctx); err != nil {
		return nil, err
	}
	if err := in.validateCondition(e.Tag, PhasePost, contract.Post, ctx); err != nil {
		return nil, err
	}
	return &ast.Unit{}, nil
}

func (in *Interpreter) runRangedFor(e *ast.RangedFor, contract *ast.Contract, ctx *Context) error {
	ctx.PushFrame()
	defer ctx.PopFrame()

	snapshot, hadPrior := ctx.Lookup(e.Iterator)

	startValue, err := in.Execute(e.Start, ctx)
	if err != nil {
		return err
	}
	endValue, err := in.Execute(e.End, ctx)
	if err != nil {
		return err
	}
	startInt, startOK := startValue.(*ast.Integer)
	endInt, endOK := endValue.(*ast.Integer)
	if !startOK || !endOK {
		return &InvalidRangeError{Start: startValue, End: endValue}
	}
	start, end := machineWord(startInt), machineWord(endInt)

	if err := in.validateCondition(e.Tag, PhasePre, contract.Pre, ctx); err != nil {
		return err
	}

	for i := start; i < end; i++ {
		if err := in.runIteration(e.Body, e.Iterator, i, ctx); err != nil {
			return err
		}
		if err := in.validateCondition(e.Tag, PhaseMaintenance, contract.Maintenance, ctx); err != nil {
			return err
		}
	}

	if hadPrior {
		ctx.Assign(e.Iterator, snapshot)
	}
	return nil
}

// runIteration runs one loop-body pass in its own frame. For ranged-for the
// iterator binds frame-locally; while loops pass an empty iterator name.
func (in *Interpreter) runIteration(body []ast.Statement, iterator string, i uint64, ctx *Context) error {
	ctx.PushFrame()
	defer ctx.PopFrame()
	if iterator != "" {
		ctx.BindLocal(iterator, &ast.Integer{Width: ast.Usize, Value: int64(i)})
	}
	_, err := in.executeStatements(body, ctx)
	return err
}

// evalWhile runs a while loop with its contract hooks: pre once, then per
// true condition one iteration frame plus a maintenance check, then post
// once the condition turns false.
func (in *Interpreter) evalWhile(e *ast.WhileLoop, ctx *Context) (ast.Expression, error) {
	contract := ctx.Contract(e.Tag)
	if err := in.validateCondition(e.Tag, PhasePre, contract.Pre, ctx); err != nil {
		return nil, err
	}
	for {
		cond, err := in.Execute(e.Condition, ctx)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*ast.Bool)
		if !ok {
			return nil, &TypeMismatchError{Context: "while condition", Value: cond}
		}
		if !b.Value {
			break
		}
		if err := in.runIteration(e.Body, "", 0, ctx); err != nil {
			return nil, err
		}
		if err := in.validateCondition(e.Tag, PhaseMaintenance, contract.Maintenance, ctx); err != nil {
			return nil, err
		}
	}
	if err := in.validateCondition(e.Tag, PhasePost, contract.Post, ctx); err != nil {
		return nil, err
	}
	return &ast.Unit{}, nil
}

// evalFunctionCall evaluates the arguments left to right in the caller's
// context, builds a fresh Function from its builder, and runs it in a new
// child context seeded with the callee's own contract table — the caller's
// contracts do not leak in.
func (in *Interpreter) evalFunctionCall(e *ast.FunctionCall, ctx *Context) (ast.Expression, error) {
	args := make([]ast.Expression, len(e.Args))
	for i, arg := range e.Args {
		value, err := in.Execute(arg, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}
	if e.Registry == nil {
		return nil, &UnknownReferenceError{Name: e.Name}
	}
	builder, ok := e.Registry.Lookup(e.Name)
	if !ok {
		return nil, &UnknownReferenceError{Name: e.Name}
	}
	fn := builder()
	return in.callFunction(fn, args, NewContext(fn.Contracts))
}

// evalMethodCall evaluates the receiver, then dispatches on the
// (receiver kind, method name) pair. len on a vector yields its length as
// a Usize; every other pair is an UnsupportedMethodError.
func (in *Interpreter) evalMethodCall(e *ast.MethodCall, ctx *Context) (ast.Expression, error) {
	receiver, err := in.Execute(e.Receiver, ctx)
	if err != nil {
		return nil, err
	}
	if vec, ok := receiver.(*ast.Vector); ok && e.Method == "len" {
		return &ast.Integer{Width: ast.Usize, Value: int64(len(vec.Elements))}, nil
	}
	return nil, &UnsupportedMethodError{Method: e.Method, Kind: kindOf(receiver)}
}

// validateCondition runs one contract condition, when present, in the
// current context — not a child context — so it observes the live bindings
// it is meant to check. The condition must reduce to Bool; false fails the
// contract, non-Bool is a contract type error, and errors raised by the
// condition itself propagate unchanged.
func (in *Interpreter) validateCondition(tag string, phase Phase, ref *ast.ConditionRef, ctx *Context) error {
	if ref == nil {
		return nil
	}
	fn := ref.Builder()
	value, err := in.callFunction(fn, nil, ctx)
	if err != nil {
		return err
	}
	b, ok := value.(*ast.Bool)
	if !ok {
		in.trace = append(in.trace, ContractCheck{Tag: tag, Condition: ref.Name, Phase: phase, Passed: false})
		return &ContractTypeError{Tag: tag, Condition: ref.Name, Value: value}
	}
	in.trace = append(in.trace, ContractCheck{Tag: tag, Condition: ref.Name, Phase: phase, Passed: b.Value})
	if !b.Value {
		return &ContractFailedError{Tag: tag, Condition: ref.Name}
	}
	return nil
}

// cloneExpr deep-copies a literal-form value. Frame lookups and argument
// binding clone so a later indexed write through one binding never shows
// through another. Structural nodes are immutable once lowered and are
// shared as-is.
func cloneExpr(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case *ast.Unit:
		clone := *v
		return &clone
	case *ast.Bool:
		clone := *v
		return &clone
	case *ast.Char:
		clone := *v
		return &clone
	case *ast.String:
		clone := *v
		return &clone
	case *ast.Integer:
		clone := *v
		return &clone
	case *ast.Float:
		clone := *v
		return &clone
	case *ast.Vector:
		elems := make([]ast.Expression, len(v.Elements))
		for i, elem := range v.Elements {
			elems[i] = cloneExpr(elem)
		}
		return &ast.Vector{BaseNode: v.BaseNode, Elements: elems}
	default:
		return e
	}
}
