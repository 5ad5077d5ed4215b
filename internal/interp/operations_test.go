package interp

import (
	"errors"
	"testing"

	"github.com/loomlang/loom/internal/ast"
)

func width(w ast.IntWidth, v int64) *ast.Integer {
	return &ast.Integer{Width: w, Value: v}
}

func float(w ast.FloatWidth, v float64) *ast.Float {
	return &ast.Float{Width: w, Value: v}
}

var allWidths = []ast.IntWidth{
	ast.I8, ast.I16, ast.I32, ast.I64, ast.Isize,
	ast.U8, ast.U16, ast.U32, ast.U64, ast.Usize,
}

func TestAddPreservesWidth(t *testing.T) {
	for _, w := range allWidths {
		result, err := applyOperation(ast.Add, width(w, 3), width(w, 4))
		if err != nil {
			t.Fatalf("%s: %v", w, err)
		}
		i := result.(*ast.Integer)
		if i.Width != w {
			t.Errorf("%s + %s: width = %s", w, w, i.Width)
		}
		if i.Value != 7 {
			t.Errorf("%s: value = %d, want 7", w, i.Value)
		}
	}
}

func TestMixedWidthWidensToI64(t *testing.T) {
	result, err := applyOperation(ast.Add, width(ast.I32, 3), width(ast.U8, 4))
	if err != nil {
		t.Fatal(err)
	}
	i := result.(*ast.Integer)
	if i.Width != ast.I64 {
		t.Errorf("width = %s, want I64", i.Width)
	}
	if i.Value != 7 {
		t.Errorf("value = %d, want 7", i.Value)
	}
}

func TestNarrowArithmeticWraps(t *testing.T) {
	result, _ := applyOperation(ast.Add, width(ast.U8, 250), width(ast.U8, 10))
	if got := result.(*ast.Integer).Value; got != 4 {
		t.Errorf("250u8 + 10u8 = %d, want 4", got)
	}

	result, _ = applyOperation(ast.Add, width(ast.I8, 120), width(ast.I8, 10))
	if got := result.(*ast.Integer).Value; got != -126 {
		t.Errorf("120i8 + 10i8 = %d, want -126", got)
	}
}

func TestUnsignedDivision(t *testing.T) {
	result, _ := applyOperation(ast.Div, width(ast.U8, 200), width(ast.U8, 3))
	if got := result.(*ast.Integer).Value; got != 66 {
		t.Errorf("200u8 / 3u8 = %d, want 66", got)
	}
}

func TestBitwiseOperators(t *testing.T) {
	result, _ := applyOperation(ast.BitAnd, width(ast.I32, 12), width(ast.I32, 10))
	if got := result.(*ast.Integer).Value; got != 8 {
		t.Errorf("12 & 10 = %d, want 8", got)
	}
	result, _ = applyOperation(ast.BitOr, width(ast.I32, 12), width(ast.I32, 10))
	if got := result.(*ast.Integer).Value; got != 14 {
		t.Errorf("12 | 10 = %d, want 14", got)
	}
}

func TestFloatWidthRules(t *testing.T) {
	result, _ := applyOperation(ast.Add, float(ast.F32, 1.5), float(ast.F32, 2.5))
	f := result.(*ast.Float)
	if f.Width != ast.F32 || f.Value != 4 {
		t.Errorf("F32 + F32 = %g_%s", f.Value, f.Width)
	}

	result, _ = applyOperation(ast.Add, float(ast.F32, 1.5), float(ast.F64, 2.5))
	f = result.(*ast.Float)
	if f.Width != ast.F64 || f.Value != 4 {
		t.Errorf("F32 + F64 = %g_%s", f.Value, f.Width)
	}
}

func TestStringAndCharConcat(t *testing.T) {
	tests := []struct {
		left, right ast.Expression
		want        string
	}{
		{&ast.String{Value: "ab"}, &ast.String{Value: "cd"}, "abcd"},
		{&ast.String{Value: "ab"}, &ast.Char{Value: 'c'}, "abc"},
		{&ast.Char{Value: 'a'}, &ast.String{Value: "bc"}, "abc"},
	}
	for _, tt := range tests {
		result, err := applyOperation(ast.Add, tt.left, tt.right)
		if err != nil {
			t.Fatalf("%v + %v: %v", tt.left, tt.right, err)
		}
		if got := result.(*ast.String).Value; got != tt.want {
			t.Errorf("concat = %q, want %q", got, tt.want)
		}
	}
}

func TestLogicalOperators(t *testing.T) {
	bt, bf := &ast.Bool{Value: true}, &ast.Bool{Value: false}

	result, _ := applyOperation(ast.And, bt, bf)
	if result.(*ast.Bool).Value {
		t.Error("true && false = true")
	}
	result, _ = applyOperation(ast.Or, bt, bf)
	if !result.(*ast.Bool).Value {
		t.Error("true || false = false")
	}
}

func TestComparisonDerivations(t *testing.T) {
	three, four := width(ast.I32, 3), width(ast.I32, 4)

	tests := []struct {
		kind        ast.OpKind
		left, right *ast.Integer
		want        bool
	}{
		{ast.Eq, three, three, true},
		{ast.Eq, three, four, false},
		{ast.Ne, three, four, true},
		{ast.Lt, three, four, true},
		{ast.Lt, four, three, false},
		{ast.Lte, three, three, true},
		{ast.Lte, three, four, true},
		{ast.Lte, four, three, false},
		{ast.Gt, four, three, true},
		{ast.Gt, three, three, false},
		{ast.Gte, three, three, true},
		{ast.Gte, three, four, false},
	}
	for _, tt := range tests {
		result, err := applyOperation(tt.kind, tt.left, tt.right)
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if got := result.(*ast.Bool).Value; got != tt.want {
			t.Errorf("%d %s %d = %t, want %t", tt.left.Value, tt.kind, tt.right.Value, got, tt.want)
		}
	}
}

func TestUnsignedComparisonDomain(t *testing.T) {
	// 200u8 stored as the signed byte -56 must still compare as 200.
	left := width(ast.U8, int64(int8(-56)))
	result, _ := applyOperation(ast.Gt, left, width(ast.U8, 100))
	if !result.(*ast.Bool).Value {
		t.Error("200u8 > 100u8 = false")
	}
}

func TestBoolComparison(t *testing.T) {
	bt, bf := &ast.Bool{Value: true}, &ast.Bool{Value: false}
	result, _ := applyOperation(ast.Lt, bf, bt)
	if !result.(*ast.Bool).Value {
		t.Error("false < true = false")
	}
	result, _ = applyOperation(ast.Eq, bt, bt)
	if !result.(*ast.Bool).Value {
		t.Error("true == true = false")
	}
}

func TestUnsupportedOperandPairs(t *testing.T) {
	tests := []struct {
		kind        ast.OpKind
		left, right ast.Expression
	}{
		{ast.Add, width(ast.I32, 1), &ast.Bool{Value: true}},
		{ast.Add, float(ast.F64, 1), width(ast.I32, 1)},
		{ast.Sub, &ast.String{Value: "a"}, &ast.String{Value: "b"}},
		{ast.Eq, &ast.String{Value: "a"}, &ast.String{Value: "a"}},
		{ast.And, width(ast.I32, 1), width(ast.I32, 1)},
		{ast.BitAnd, float(ast.F64, 1), float(ast.F64, 1)},
		{ast.Lt, width(ast.I32, 1), float(ast.F64, 1)},
	}
	for _, tt := range tests {
		_, err := applyOperation(tt.kind, tt.left, tt.right)
		var unsupported *UnsupportedOperationError
		if !errors.As(err, &unsupported) {
			t.Errorf("%s (%s, %s): error = %v", tt.kind, kindOf(tt.left), kindOf(tt.right), err)
		}
	}
}

func TestMachineWordProjection(t *testing.T) {
	if got := machineWord(width(ast.I32, 5)); got != 5 {
		t.Errorf("machineWord(5) = %d", got)
	}
	// Negative signed values reinterpret as large words.
	if got := machineWord(width(ast.I64, -1)); got != ^uint64(0) {
		t.Errorf("machineWord(-1) = %d", got)
	}
	// Narrow unsigned widths mask before widening.
	if got := machineWord(width(ast.U8, 260)); got != 4 {
		t.Errorf("machineWord(260u8) = %d", got)
	}
}
