package parser

import (
	"strings"
	"testing"

	"github.com/novac-lang/novac/internal/lexer"
	"github.com/novac-lang/novac/internal/parsetree"
)

func parseSrc(t *testing.T, src string) *parsetree.Node {
	t.Helper()
	toks, err := lexer.Tokenize("t.c", src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestParseSimpleFunction(t *testing.T) {
	tree := parseSrc(t, "int main() { return 0; }")
	dump := tree.Dump()
	if !strings.Contains(dump, "FuncDecl") || !strings.Contains(dump, "Return") {
		t.Fatalf("unexpected parse tree:\n%s", dump)
	}
}

func TestParseForLoop(t *testing.T) {
	tree := parseSrc(t, "int main() { int s = 0; for (int i = 0; i < 5; i = i + 1) { s = s + i; } return s; }")
	dump := tree.Dump()
	if !strings.Contains(dump, "For") {
		t.Fatalf("expected a For node:\n%s", dump)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	tree := parseSrc(t, "int main() { return 1 + 2 * 3; }")
	dump := tree.Dump()
	bin := tree.Child(0).Child(3).Child(0).Child(0) // FuncDecl -> Block -> Return -> expr
	if bin == nil || bin.Kind != "BinExpr" || bin.Child(1).Text != "+" ||
		bin.Child(2).Kind != "BinExpr" || bin.Child(2).Child(1).Text != "*" {
		t.Fatalf("expected + at the top with * nested as its right operand:\n%s", dump)
	}
}

func TestParseFunctionPrototype(t *testing.T) {
	tree := parseSrc(t, "int helper(int a, int b);\nint main() { return helper(1, 2); }")
	dump := tree.Dump()
	if !strings.Contains(dump, "Call") {
		t.Fatalf("expected a Call node:\n%s", dump)
	}
}

func TestParseSizeofOfTypeAndExpression(t *testing.T) {
	tree := parseSrc(t, "int main() { int a = sizeof(int); int b = sizeof a; return a + b; }")
	dump := tree.Dump()
	if strings.Count(dump, "Sizeof") != 2 {
		t.Fatalf("expected two Sizeof nodes:\n%s", dump)
	}
	if !strings.Contains(dump, "TypeName") {
		t.Fatalf("expected a TypeName child for sizeof(int):\n%s", dump)
	}
}

func TestParsePointerDeclarator(t *testing.T) {
	tree := parseSrc(t, "int main() { int x = 1; int *p = &x; return *p; }")
	dump := tree.Dump()
	if !strings.Contains(dump, "Star") {
		t.Fatalf("expected a Star node for pointer declarator:\n%s", dump)
	}
}
