package ir

import (
	"strings"
	"testing"

	"github.com/novac-lang/novac/internal/astbuild"
	"github.com/novac-lang/novac/internal/lexer"
	"github.com/novac-lang/novac/internal/parser"
)

func genSrc(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize("t.c", src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, text, err := Generate(tu)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return text
}

func TestGenerateSimpleFunction(t *testing.T) {
	text := genSrc(t, "int add(int a, int b) { return a + b; }")
	if !strings.Contains(text, "define i32 @add") {
		t.Fatalf("expected a definition of add, got:\n%s", text)
	}
	if !strings.Contains(text, "ret i32") {
		t.Fatalf("expected a ret i32 instruction, got:\n%s", text)
	}
}

func TestGenerateMissingReturnIsSynthesized(t *testing.T) {
	text := genSrc(t, "int zero() { int x = 0; }")
	if !strings.Contains(text, "ret i32 0") {
		t.Fatalf("expected a synthesized `ret i32 0`, got:\n%s", text)
	}
}

func TestGenerateVoidFunctionGetsImplicitRetVoid(t *testing.T) {
	text := genSrc(t, "void noop() { }")
	if !strings.Contains(text, "ret void") {
		t.Fatalf("expected `ret void`, got:\n%s", text)
	}
}

func TestGenerateForwardAndMutualRecursionResolve(t *testing.T) {
	text := genSrc(t, `
		int isEven(int n);
		int isOdd(int n) { if (n == 0) { return 0; } return isEven(n - 1); }
		int isEven(int n) { if (n == 0) { return 1; } return isOdd(n - 1); }
	`)
	if !strings.Contains(text, "call i32 @isEven") || !strings.Contains(text, "call i32 @isOdd") {
		t.Fatalf("expected mutually recursive calls to resolve, got:\n%s", text)
	}
}

func TestGenerateShortCircuitAndUsesPhiJoin(t *testing.T) {
	text := genSrc(t, "int main() { int a; int b; return a && b; }")
	if !strings.Contains(text, "phi i32") {
		t.Fatalf("expected a phi i32 join for &&, got:\n%s", text)
	}
	if !strings.Contains(text, "land.rhs") || !strings.Contains(text, "land.end") {
		t.Fatalf("expected named rhs/merge blocks for &&, got:\n%s", text)
	}
}

func TestGenerateWhileLoopHasBackEdge(t *testing.T) {
	text := genSrc(t, "int main() { int i = 0; while (i < 10) { i = i + 1; } return i; }")
	if !strings.Contains(text, "br label") {
		t.Fatalf("expected at least one unconditional branch, got:\n%s", text)
	}
}

func TestGenerateBreakOutsideLoopIsAnError(t *testing.T) {
	toks, err := lexer.Tokenize("t.c", "int main() { break; return 0; }")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, err := Generate(tu); err == nil {
		t.Fatalf("expected an error for break outside a loop")
	}
}

func TestGenerateUnknownIdentifierIsAnError(t *testing.T) {
	toks, err := lexer.Tokenize("t.c", "int main() { return missing; }")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, err := Generate(tu); err == nil {
		t.Fatalf("expected an error for an unknown identifier")
	}
}

func TestGeneratePointerDereferenceChain(t *testing.T) {
	text := genSrc(t, "int main() { int x = 5; int *p = &x; int **pp = &p; return **pp; }")
	if !strings.Contains(text, "load i32*") && !strings.Contains(text, "load i32") {
		t.Fatalf("expected loads through the pointer chain, got:\n%s", text)
	}
}

func TestGenerateSizeofStubIsConstantFour(t *testing.T) {
	text := genSrc(t, "int main() { return sizeof(double) + sizeof(1 + 2); }")
	if !strings.Contains(text, "add i32 4, 4") {
		t.Fatalf("expected both sizeof operands to lower to the constant 4, got:\n%s", text)
	}
}

// TestGenerateBasicForSumLowersAccumulator drives spec §8 scenario 1:
// `int s=0; for(int i=1;i<=5;i=i+1) s=s+i; return s;` must lower the for
// loop's four blocks with an accumulator threaded through the loop body.
func TestGenerateBasicForSumLowersAccumulator(t *testing.T) {
	text := genSrc(t, `int main() {
		int s = 0;
		for (int i = 1; i <= 5; i = i + 1) {
			s = s + i;
		}
		return s;
	}`)
	for _, want := range []string{"for.cond", "for.body", "for.step", "for.end", "icmp sle"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in lowered for-loop, got:\n%s", want, text)
		}
	}
}

// TestGenerateShortCircuitAndSkipsRHSBlockWhenFalse drives spec §8 scenario 2:
// `if (a && (b = side())) ...` must place the call to side() exclusively in
// the rhs block so it is only reached when a is truthy.
func TestGenerateShortCircuitAndSkipsRHSBlockWhenFalse(t *testing.T) {
	text := genSrc(t, `
		int side() { return 99; }
		int main() {
			int a = 0;
			int b = 3;
			if (a && (b = side())) { return 0; }
			return b;
		}
	`)
	// Block labels start a line; the same names also appear earlier as
	// branch operands, so match the label lines themselves.
	idx := strings.Index(text, "\nland.rhs")
	if idx < 0 {
		t.Fatalf("expected a land.rhs block, got:\n%s", text)
	}
	mergeIdx := strings.Index(text, "\nland.end")
	callIdx := strings.Index(text, "call i32 @side")
	if callIdx < idx || callIdx > mergeIdx {
		t.Fatalf("expected the call to side() to sit inside the land.rhs block, got:\n%s", text)
	}
}

// TestGenerateBreakInWhileBranchesToEndBlock drives spec §8 scenario 3: a
// while loop summing 1..5 that breaks when i==6 must branch directly to the
// loop's end block rather than falling through the condition check.
func TestGenerateBreakInWhileBranchesToEndBlock(t *testing.T) {
	text := genSrc(t, `int main() {
		int i = 0;
		int s = 0;
		while (1) {
			i = i + 1;
			if (i == 6) { break; }
			s = s + i;
		}
		return s;
	}`)
	if !strings.Contains(text, "while.end") {
		t.Fatalf("expected a while.end block as the break target, got:\n%s", text)
	}
}

// TestGenerateCompoundAssignmentChainLoadsAndStores drives spec §8 scenario
// 4: a chain of +=, -=, *=, /=, %=, += must each load the slot, apply the
// arithmetic, and store back before the next compound assignment reads it.
func TestGenerateCompoundAssignmentChainLoadsAndStores(t *testing.T) {
	text := genSrc(t, `int main() {
		int x = 10;
		x += 5;
		x -= 3;
		x *= 4;
		x /= 2;
		x %= 5;
		x += 1;
		return x;
	}`)
	for _, want := range []string{"add i32", "sub i32", "mul i32", "sdiv i32", "srem i32"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected a %q instruction in the compound-assignment chain, got:\n%s", want, text)
		}
	}
}

// TestGeneratePointerDepthTwoStoresThroughChain drives spec §8 scenario 5:
// `int x=42; int *p=&x; int **pp=&p; **pp=11; return x;` must store through
// two levels of indirection.
func TestGeneratePointerDepthTwoStoresThroughChain(t *testing.T) {
	text := genSrc(t, `int main() {
		int x = 42;
		int *p = &x;
		int **pp = &p;
		**pp = 11;
		return x;
	}`)
	if !strings.Contains(text, "store i32 11") {
		t.Fatalf("expected a store of 11 through the double-dereferenced pointer, got:\n%s", text)
	}
}

func TestGenerateCallWithWrongArgumentCountIsAnError(t *testing.T) {
	toks, err := lexer.Tokenize("t.c", "int add(int a, int b) { return a + b; } int main() { return add(1); }")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, err := Generate(tu); err == nil {
		t.Fatalf("expected an error for a call with the wrong argument count")
	}
}

// TestGenerateGlobalWithIntLiteralInitializer drives spec §4.5: a global
// declared with an integer literal initializer must carry that value as its
// constant, not a zero-initializer.
func TestGenerateGlobalWithIntLiteralInitializer(t *testing.T) {
	text := genSrc(t, `int counter = 7; int main() { return counter; }`)
	if !strings.Contains(text, "global i32 7") {
		t.Fatalf("expected the global to be initialized to 7, got:\n%s", text)
	}
	if strings.Contains(text, "zeroinitializer") {
		t.Fatalf("expected no zeroinitializer for a global with an integer literal initializer, got:\n%s", text)
	}
}

// TestGenerateGlobalWithoutInitializerIsZero drives spec §4.5: a global
// with no initializer (or a non-integer-literal one) falls back to zero.
func TestGenerateGlobalWithoutInitializerIsZero(t *testing.T) {
	text := genSrc(t, `int counter; int main() { return counter; }`)
	if !strings.Contains(text, "zeroinitializer") {
		t.Fatalf("expected a zeroinitializer for a global with no initializer, got:\n%s", text)
	}
}

func TestGenerateTernaryWithMismatchedArmsIsAnError(t *testing.T) {
	toks, err := lexer.Tokenize("t.c", `int main() { int x = 1; return x ? 1 : 2.5; }`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, err := Generate(tu); err == nil {
		t.Fatalf("expected an error for a ternary with mismatched arm types")
	}
}
