package interp

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
)

// The evaluator's runtime error taxonomy. Each failure mode is its own
// type so callers can branch with errors.As; all of them abort the
// in-flight evaluation with frames unwound (see Context and the defer
// discipline in interpreter.go).

// UnknownReferenceError reports a name not found in any frame.
type UnknownReferenceError struct {
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference %q", e.Name)
}

// IndexOutOfRangeError reports an index at or beyond a vector's length.
type IndexOutOfRangeError struct {
	Name  string
	Index uint64
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for %q", e.Index, e.Name)
}

// InvalidIndexExpressionError reports an index expression that did not
// reduce to an integer.
type InvalidIndexExpressionError struct {
	Expr ast.Expression
}

func (e *InvalidIndexExpressionError) Error() string {
	return fmt.Sprintf("index expression %s is not an integer", e.Expr.String())
}

// NotIndexableError reports an indexed read or write against a binding
// that is not a vector.
type NotIndexableError struct {
	Name string
}

func (e *NotIndexableError) Error() string {
	return fmt.Sprintf("%q is not indexable", e.Name)
}

// TypeMismatchError reports a condition or similar position holding a
// value of the wrong kind.
type TypeMismatchError struct {
	Context string
	Value   ast.Expression
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be Bool, found %s", e.Context, e.Value.String())
}

// InvalidRangeError reports ranged-for bounds that are not both integers.
type InvalidRangeError struct {
	Start ast.Expression
	End   ast.Expression
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("range bounds %s..%s are not both integers", e.Start.String(), e.End.String())
}

// UnsupportedOperationError reports an operator applied to an operand pair
// outside its dispatch table.
type UnsupportedOperationError struct {
	Op    ast.OpKind
	Left  string
	Right string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operator %s is not defined for (%s, %s)", e.Op, e.Left, e.Right)
}

// UnsupportedMethodError reports a method call against a value kind that
// does not provide the method.
type UnsupportedMethodError struct {
	Method string
	Kind   string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("method %q is not defined for %s", e.Method, e.Kind)
}

// ArityMismatchError reports a call whose argument count disagrees with
// the function's parameter list.
type ArityMismatchError struct {
	Declared int
	Supplied int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("function declares %d parameters, %d supplied", e.Declared, e.Supplied)
}

// ContractFailedError reports a contract condition that returned false.
type ContractFailedError struct {
	Tag       string
	Condition string
}

func (e *ContractFailedError) Error() string {
	return fmt.Sprintf("contract %q: condition %q failed", e.Tag, e.Condition)
}

// ContractTypeError reports a contract condition that returned a non-Bool
// value.
type ContractTypeError struct {
	Tag       string
	Condition string
	Value     ast.Expression
}

func (e *ContractTypeError) Error() string {
	return fmt.Sprintf("contract %q: condition %q returned non-Bool %s", e.Tag, e.Condition, e.Value.String())
}
