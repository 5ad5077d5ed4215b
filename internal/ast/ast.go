// Package ast defines loom's Expression/Statement tagged union: the single
// value model that serves both as literal runtime values (Unit, Bool,
// Integer, ...) and as unevaluated structural nodes (Operation, If, Block,
// ...), reduced to the former by the evaluator in internal/interp.
package ast

import (
	"fmt"
	"strings"

	"github.com/loomlang/loom/internal/lexer"
)

// Node is the position-carrying root of every Expression and Statement,
// mirroring the teacher's Node/Expression/Statement interface split so
// diagnostics always have somewhere to point.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any node that reduces to a value when evaluated. A fully
// evaluated Expression is one of the literal-form types in this file
// (Unit, Bool, Char, String, Integer, Float, or a Vector of literal-form
// elements) — see the invariant in SPEC_FULL.md §3.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node executed for its effect (Assignment, IndexedAssignment)
// or for the value of an inner expression (ExprStatement).
type Statement interface {
	Node
	statementNode()
}

// BaseNode supplies Pos() to every concrete node via embedding.
type BaseNode struct {
	Position lexer.Position
}

func (b BaseNode) Pos() lexer.Position { return b.Position }

// IntWidth names one of the ten integer widths the value model supports.
type IntWidth int

const (
	I8 IntWidth = iota
	I16
	I32
	I64
	Isize
	U8
	U16
	U32
	U64
	Usize
)

var intWidthNames = [...]string{"I8", "I16", "I32", "I64", "Isize", "U8", "U16", "U32", "U64", "Usize"}

func (w IntWidth) String() string {
	if int(w) < len(intWidthNames) {
		return intWidthNames[w]
	}
	return fmt.Sprintf("IntWidth(%d)", int(w))
}

// Unsigned reports whether w is one of the unsigned widths.
func (w IntWidth) Unsigned() bool { return w >= U8 }

// BitSize returns the width's size in bits, with Isize/Usize treated as 64
// (the machine word size this interpreter targets).
func (w IntWidth) BitSize() int {
	switch w {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	default:
		return 64
	}
}

// FloatWidth names one of the two floating-point widths.
type FloatWidth int

const (
	F32 FloatWidth = iota
	F64
)

func (w FloatWidth) String() string {
	if w == F32 {
		return "F32"
	}
	return "F64"
}

// --- Literal / value forms -------------------------------------------------

// Unit is the value of a statement list with no meaningful result.
type Unit struct{ BaseNode }

func (u *Unit) expressionNode() {}
func (u *Unit) String() string  { return "()" }

// Bool is a boolean literal value.
type Bool struct {
	BaseNode
	Value bool
}

func (b *Bool) expressionNode() {}
func (b *Bool) String() string  { return fmt.Sprintf("%t", b.Value) }

// Char is a single-character literal value.
type Char struct {
	BaseNode
	Value rune
}

func (c *Char) expressionNode() {}
func (c *Char) String() string  { return fmt.Sprintf("'%c'", c.Value) }

// String is a string literal value.
type String struct {
	BaseNode
	Value string
}

func (s *String) expressionNode() {}
func (s *String) String() string  { return fmt.Sprintf("%q", s.Value) }

// Integer is a width-tagged integer value. Values are stored in a 64-bit
// container regardless of width; Width says how arithmetic and formatting
// should treat that container (see internal/interp/operations.go).
type Integer struct {
	BaseNode
	Width IntWidth
	Value int64
}

func (i *Integer) expressionNode() {}
func (i *Integer) String() string  { return fmt.Sprintf("%d_%s", i.Value, i.Width) }

// Float is a width-tagged floating-point value.
type Float struct {
	BaseNode
	Width FloatWidth
	Value float64
}

func (f *Float) expressionNode() {}
func (f *Float) String() string  { return fmt.Sprintf("%g_%s", f.Value, f.Width) }

// Vector is an ordered sequence of expressions. A Vector is in literal form
// only once every element is itself in literal form; the evaluator
// re-evaluates each element and rebuilds the Vector (see §4.1).
type Vector struct {
	BaseNode
	Elements []Expression
}

func (v *Vector) expressionNode() {}
func (v *Vector) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
