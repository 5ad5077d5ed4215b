package errors

import (
	"strings"
	"testing"

	"github.com/loomlang/loom/internal/lexer"
)

func TestFormatPointsAtColumn(t *testing.T) {
	source := "let a = 1;\nlet b = ;\nlet c = 3;"
	err := New(lexer.Position{Line: 2, Column: 9, Offset: 19}, source, "expected a value, found ; %q", ";")

	out := err.Error()
	if !strings.Contains(out, "lowering error at 2:9") {
		t.Errorf("missing position header:\n%s", out)
	}
	if !strings.Contains(out, "let b = ;") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret:\n%s", out)
	}
	if !strings.Contains(out, `expected a value, found ; ";"`) {
		t.Errorf("missing message:\n%s", out)
	}

	// The caret must sit under column 9 of the rendered line.
	lines := strings.Split(out, "\n")
	var sourceLine, caretLine string
	for i, line := range lines {
		if strings.Contains(line, "let b = ;") && i+1 < len(lines) {
			sourceLine, caretLine = line, lines[i+1]
		}
	}
	if sourceLine == "" {
		t.Fatalf("source line not found:\n%s", out)
	}
	semicolonCol := strings.Index(sourceLine, ";")
	caretCol := strings.Index(caretLine, "^")
	if semicolonCol != caretCol {
		t.Errorf("caret at %d, offending token at %d:\n%s", caretCol, semicolonCol, out)
	}
}

func TestFormatWithoutSourceOmitsCaret(t *testing.T) {
	err := New(lexer.Position{Line: 1, Column: 1}, "", "boom")
	out := err.Error()
	if strings.Contains(out, "^") {
		t.Errorf("caret rendered without source:\n%s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("missing message:\n%s", out)
	}
}

func TestFormatLineOutOfRange(t *testing.T) {
	err := New(lexer.Position{Line: 99, Column: 1}, "one line", "boom")
	out := err.Error()
	if !strings.Contains(out, "boom") {
		t.Errorf("missing message:\n%s", out)
	}
}
