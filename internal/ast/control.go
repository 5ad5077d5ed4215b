package ast

import (
	"fmt"
	"strings"
)

// OpKind identifies one of the fourteen binary operators, grouped into the
// four precedence tiers the lowerer climbs in internal/parser/expressions.go.
type OpKind int

const (
	// Tier 1
	Mul OpKind = iota
	Div
	BitAnd
	BitOr
	// Tier 2
	Add
	Sub
	// Tier 3
	Eq
	Ne
	Lt
	Lte
	Gt
	Gte
	// Tier 4
	And
	Or
)

var opNames = [...]string{
	Mul: "*", Div: "/", BitAnd: "&", BitOr: "|",
	Add: "+", Sub: "-",
	Eq: "==", Ne: "!=", Lt: "<", Lte: "<=", Gt: ">", Gte: ">=",
	And: "&&", Or: "||",
}

func (k OpKind) String() string { return opNames[k] }

// Operation is a binary operator node. Left and Right are never nil.
type Operation struct {
	BaseNode
	Kind  OpKind
	Left  Expression
	Right Expression
}

func (o *Operation) expressionNode() {}
func (o *Operation) String() string {
	return fmt.Sprintf("(%s %s %s)", o.Left.String(), o.Kind, o.Right.String())
}

// If is a conditional expression. Else may be nil (no else clause), another
// *If (an `else if` link), or any Expression (the block of a bare `else`).
// Evaluating the Then branch does not push its own frame — see §4.2 and
// DESIGN.md's "If-branch scoping" entry.
type If struct {
	BaseNode
	Condition Expression
	Then      []Statement
	Else      Expression
}

func (i *If) expressionNode() {}
func (i *If) String() string {
	var sb strings.Builder
	sb.WriteString("if ")
	sb.WriteString(i.Condition.String())
	sb.WriteString(" { ... }")
	if i.Else != nil {
		sb.WriteString(" else ")
		sb.WriteString(i.Else.String())
	}
	return sb.String()
}

// RangedFor iterates Iterator over the half-open range [Start, End).
type RangedFor struct {
	BaseNode
	Tag      string // empty when the loop carries no contract
	Iterator string
	Start    Expression
	End      Expression
	Body     []Statement
}

func (rf *RangedFor) expressionNode() {}
func (rf *RangedFor) String() string {
	tag := ""
	if rf.Tag != "" {
		tag = "'" + rf.Tag + ": "
	}
	return fmt.Sprintf("%sfor %s in %s..%s { ... }", tag, rf.Iterator, rf.Start.String(), rf.End.String())
}

// WhileLoop repeats Body while Condition evaluates to Bool(true).
type WhileLoop struct {
	BaseNode
	Tag       string
	Condition Expression
	Body      []Statement
}

func (wl *WhileLoop) expressionNode() {}
func (wl *WhileLoop) String() string {
	tag := ""
	if wl.Tag != "" {
		tag = "'" + wl.Tag + ": "
	}
	return fmt.Sprintf("%swhile %s { ... }", tag, wl.Condition.String())
}

// Block is a brace-delimited statement list evaluating to its last
// statement's value (or Unit if empty). It always pushes and pops its own
// frame.
type Block struct {
	BaseNode
	Statements []Statement
}

func (b *Block) expressionNode() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// FunctionCall invokes the function named Name, resolved against Registry
// at evaluation time (not at parse time) so that recursive and
// forward-referencing calls within one lowered module resolve correctly —
// see Registry's doc comment in function.go.
type FunctionCall struct {
	BaseNode
	Name     string
	Args     []Expression
	Registry *Registry
}

func (fc *FunctionCall) expressionNode() {}
func (fc *FunctionCall) String() string {
	parts := make([]string, len(fc.Args))
	for i, a := range fc.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", fc.Name, strings.Join(parts, ", "))
}

// MethodCall invokes a built-in method on a receiver value, e.g. v.len().
// The method set is fixed by the evaluator (len on vectors is the only one
// today); Args are carried for the grammar's sake but len ignores them.
type MethodCall struct {
	BaseNode
	Receiver Expression
	Method   string
	Args     []Expression
}

func (mc *MethodCall) expressionNode() {}
func (mc *MethodCall) String() string {
	parts := make([]string, len(mc.Args))
	for i, a := range mc.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", mc.Receiver.String(), mc.Method, strings.Join(parts, ", "))
}
