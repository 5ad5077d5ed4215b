package loom

import "github.com/loomlang/loom/internal/ast"

// Convertors from native Go values into loom expressions, for ergonomic
// call sites when supplying arguments to ExecuteFunctionWithArgs. Each
// integer convertor maps the Go width onto the loom width of the same name.

func I8(v int8) Expression   { return &ast.Integer{Width: ast.I8, Value: int64(v)} }
func I16(v int16) Expression { return &ast.Integer{Width: ast.I16, Value: int64(v)} }
func I32(v int32) Expression { return &ast.Integer{Width: ast.I32, Value: int64(v)} }
func I64(v int64) Expression { return &ast.Integer{Width: ast.I64, Value: v} }
func Isize(v int) Expression { return &ast.Integer{Width: ast.Isize, Value: int64(v)} }

func U8(v uint8) Expression   { return &ast.Integer{Width: ast.U8, Value: int64(v)} }
func U16(v uint16) Expression { return &ast.Integer{Width: ast.U16, Value: int64(v)} }
func U32(v uint32) Expression { return &ast.Integer{Width: ast.U32, Value: int64(v)} }
func U64(v uint64) Expression { return &ast.Integer{Width: ast.U64, Value: int64(v)} }
func Usize(v uint) Expression { return &ast.Integer{Width: ast.Usize, Value: int64(v)} }

// Int converts a Go int to the I32 width the lowerer gives unsuffixed
// integer literals, so arguments compare equal against literal results.
func Int(v int) Expression { return &ast.Integer{Width: ast.I32, Value: int64(v)} }

func F32(v float32) Expression { return &ast.Float{Width: ast.F32, Value: float64(v)} }
func F64(v float64) Expression { return &ast.Float{Width: ast.F64, Value: v} }

func Boolean(v bool) Expression { return &ast.Bool{Value: v} }
func CharOf(v rune) Expression  { return &ast.Char{Value: v} }
func Str(v string) Expression   { return &ast.String{Value: v} }

// VectorOf builds a vector from already-converted elements.
func VectorOf(elems ...Expression) Expression {
	return &ast.Vector{Elements: elems}
}

// IntVector builds a vector of I32 integers from Go ints.
func IntVector(vs ...int) Expression {
	elems := make([]Expression, len(vs))
	for i, v := range vs {
		elems[i] = Int(v)
	}
	return VectorOf(elems...)
}
