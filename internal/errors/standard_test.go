package errors

import (
	"strings"
	"testing"

	"github.com/novac-lang/novac/internal/position"
)

func TestIOErrorfHasNoPosition(t *testing.T) {
	err := IOErrorf("cannot read %s", "missing.c")
	if err.Pos.IsValid() {
		t.Fatalf("expected an invalid zero-value position, got %+v", err.Pos)
	}
	if !strings.Contains(err.Error(), "missing.c") {
		t.Fatalf("expected the offending path in the message, got %q", err.Error())
	}
}

func TestPreprocessorErrorfCarriesPosition(t *testing.T) {
	pos := position.Position{Filename: "t.c", Line: 3, Column: 1, Offset: 10}
	err := PreprocessorErrorf(pos, "unterminated #%s: missing #endif", "if")
	if !strings.HasPrefix(err.Error(), "t.c:3:1:") {
		t.Fatalf("expected the error to begin with the position, got %q", err.Error())
	}
	if err.Category != CategoryPreprocessor {
		t.Fatalf("expected CategoryPreprocessor, got %v", err.Category)
	}
}

func TestIRGenErrorfCarriesCode(t *testing.T) {
	err := IRGenErrorf(position.Position{}, "IR_UNKNOWN_IDENT", "unknown identifier %q", "x")
	if err.Code != "IR_UNKNOWN_IDENT" {
		t.Fatalf("expected code IR_UNKNOWN_IDENT, got %q", err.Code)
	}
}
