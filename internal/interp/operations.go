package interp

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
)

// kindOf names an evaluated expression's kind for error messages.
func kindOf(e ast.Expression) string {
	switch e.(type) {
	case *ast.Unit:
		return "Unit"
	case *ast.Bool:
		return "Bool"
	case *ast.Char:
		return "Char"
	case *ast.String:
		return "String"
	case *ast.Integer:
		return "Integer"
	case *ast.Float:
		return "Float"
	case *ast.Vector:
		return "Vector"
	default:
		return fmt.Sprintf("%T", e)
	}
}

// wrapInt truncates v to width w, sign-extending for signed widths and
// zero-extending for unsigned ones, so the 64-bit container always holds
// the value the width would observe.
func wrapInt(w ast.IntWidth, v int64) int64 {
	switch w {
	case ast.I8:
		return int64(int8(v))
	case ast.I16:
		return int64(int16(v))
	case ast.I32:
		return int64(int32(v))
	case ast.U8:
		return int64(uint8(v))
	case ast.U16:
		return int64(uint16(v))
	case ast.U32:
		return int64(uint32(v))
	default:
		// 64-bit widths occupy the whole container.
		return v
	}
}

// machineWord projects an integer onto an unsigned machine word, the
// coercion indexes and range bounds go through. Negative signed values
// reinterpret as large words and fall out of range naturally.
func machineWord(i *ast.Integer) uint64 {
	return uint64(wrapInt(i.Width, i.Value))
}

// applyOperation dispatches one binary operator over two evaluated
// operands, per the typed dispatch table: arithmetic over same-kind
// numerics, Add over string/char pairs, BitAnd/BitOr over integers, And/Or
// over booleans, and comparisons over integer, float and boolean pairs.
// Everything else is an UnsupportedOperationError.
func applyOperation(kind ast.OpKind, left, right ast.Expression) (ast.Expression, error) {
	switch kind {
	case ast.Add:
		switch l := left.(type) {
		case *ast.Integer:
			if r, ok := right.(*ast.Integer); ok {
				return intArith(kind, l, r), nil
			}
		case *ast.Float:
			if r, ok := right.(*ast.Float); ok {
				return floatArith(kind, l, r), nil
			}
		case *ast.String:
			switch r := right.(type) {
			case *ast.String:
				return &ast.String{Value: l.Value + r.Value}, nil
			case *ast.Char:
				return &ast.String{Value: l.Value + string(r.Value)}, nil
			}
		case *ast.Char:
			if r, ok := right.(*ast.String); ok {
				return &ast.String{Value: string(l.Value) + r.Value}, nil
			}
		}
	case ast.Sub, ast.Mul, ast.Div:
		switch l := left.(type) {
		case *ast.Integer:
			if r, ok := right.(*ast.Integer); ok {
				return intArith(kind, l, r), nil
			}
		case *ast.Float:
			if r, ok := right.(*ast.Float); ok {
				return floatArith(kind, l, r), nil
			}
		}
	case ast.BitAnd, ast.BitOr:
		if l, ok := left.(*ast.Integer); ok {
			if r, ok := right.(*ast.Integer); ok {
				return intArith(kind, l, r), nil
			}
		}
	case ast.And, ast.Or:
		if l, ok := left.(*ast.Bool); ok {
			if r, ok := right.(*ast.Bool); ok {
				if kind == ast.And {
					return &ast.Bool{Value: l.Value && r.Value}, nil
				}
				return &ast.Bool{Value: l.Value || r.Value}, nil
			}
		}
	case ast.Eq, ast.Ne, ast.Lt, ast.Lte, ast.Gt, ast.Gte:
		return compare(kind, left, right)
	}
	return nil, &UnsupportedOperationError{Op: kind, Left: kindOf(left), Right: kindOf(right)}
}

// intArith computes Add/Sub/Mul/Div/BitAnd/BitOr over two integers.
// Same-width operands keep their width (unsigned widths computing in the
// unsigned domain, which matters for Div); mixed widths widen to I64.
// Division by zero is left to Go's own runtime behavior.
func intArith(kind ast.OpKind, l, r *ast.Integer) *ast.Integer {
	if l.Width == r.Width {
		w := l.Width
		if w.Unsigned() {
			a := uint64(wrapInt(w, l.Value))
			b := uint64(wrapInt(w, r.Value))
			var res uint64
			switch kind {
			case ast.Add:
				res = a + b
			case ast.Sub:
				res = a - b
			case ast.Mul:
				res = a * b
			case ast.Div:
				res = a / b
			case ast.BitAnd:
				res = a & b
			case ast.BitOr:
				res = a | b
			}
			return &ast.Integer{Width: w, Value: wrapInt(w, int64(res))}
		}
		a := wrapInt(w, l.Value)
		b := wrapInt(w, r.Value)
		var res int64
		switch kind {
		case ast.Add:
			res = a + b
		case ast.Sub:
			res = a - b
		case ast.Mul:
			res = a * b
		case ast.Div:
			res = a / b
		case ast.BitAnd:
			res = a & b
		case ast.BitOr:
			res = a | b
		}
		return &ast.Integer{Width: w, Value: wrapInt(w, res)}
	}

	a, b := l.Value, r.Value
	var res int64
	switch kind {
	case ast.Add:
		res = a + b
	case ast.Sub:
		res = a - b
	case ast.Mul:
		res = a * b
	case ast.Div:
		res = a / b
	case ast.BitAnd:
		res = a & b
	case ast.BitOr:
		res = a | b
	}
	return &ast.Integer{Width: ast.I64, Value: res}
}

// floatArith computes Add/Sub/Mul/Div over two floats. Same-width operands
// keep their width, with F32 results rounded through float32; mixed widths
// widen to F64.
func floatArith(kind ast.OpKind, l, r *ast.Float) *ast.Float {
	var res float64
	switch kind {
	case ast.Add:
		res = l.Value + r.Value
	case ast.Sub:
		res = l.Value - r.Value
	case ast.Mul:
		res = l.Value * r.Value
	case ast.Div:
		res = l.Value / r.Value
	}
	if l.Width == r.Width {
		if l.Width == ast.F32 {
			return &ast.Float{Width: ast.F32, Value: float64(float32(res))}
		}
		return &ast.Float{Width: ast.F64, Value: res}
	}
	return &ast.Float{Width: ast.F64, Value: res}
}

// compare derives all six comparison operators from Eq and Lt on the same
// operand pair: Lte is Eq-or-Lt, Gt is neither, Gte is not-Lt.
func compare(kind ast.OpKind, left, right ast.Expression) (ast.Expression, error) {
	var eq, lt bool
	switch l := left.(type) {
	case *ast.Integer:
		r, ok := right.(*ast.Integer)
		if !ok {
			return nil, &UnsupportedOperationError{Op: kind, Left: kindOf(left), Right: kindOf(right)}
		}
		eq, lt = intEq(l, r), intLt(l, r)
	case *ast.Float:
		r, ok := right.(*ast.Float)
		if !ok {
			return nil, &UnsupportedOperationError{Op: kind, Left: kindOf(left), Right: kindOf(right)}
		}
		eq, lt = l.Value == r.Value, l.Value < r.Value
	case *ast.Bool:
		r, ok := right.(*ast.Bool)
		if !ok {
			return nil, &UnsupportedOperationError{Op: kind, Left: kindOf(left), Right: kindOf(right)}
		}
		eq, lt = l.Value == r.Value, !l.Value && r.Value
	default:
		return nil, &UnsupportedOperationError{Op: kind, Left: kindOf(left), Right: kindOf(right)}
	}

	var res bool
	switch kind {
	case ast.Eq:
		res = eq
	case ast.Ne:
		res = !eq
	case ast.Lt:
		res = lt
	case ast.Lte:
		res = eq || lt
	case ast.Gt:
		res = !eq && !lt
	case ast.Gte:
		res = !lt
	}
	return &ast.Bool{Value: res}, nil
}

// intEq compares same-width operands directly (in the unsigned domain for
// unsigned widths) and mixed-width operands through I64.
func intEq(l, r *ast.Integer) bool {
	if l.Width == r.Width {
		if l.Width.Unsigned() {
			return uint64(wrapInt(l.Width, l.Value)) == uint64(wrapInt(r.Width, r.Value))
		}
		return wrapInt(l.Width, l.Value) == wrapInt(r.Width, r.Value)
	}
	return l.Value == r.Value
}

func intLt(l, r *ast.Integer) bool {
	if l.Width == r.Width {
		if l.Width.Unsigned() {
			return uint64(wrapInt(l.Width, l.Value)) < uint64(wrapInt(r.Width, r.Value))
		}
		return wrapInt(l.Width, l.Value) < wrapInt(r.Width, r.Value)
	}
	return l.Value < r.Value
}
