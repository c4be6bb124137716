package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestExpandIdentityWithNoMacros(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.c", "int main() { return 0; }\n")

	p := New(nil, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "int main() { return 0; }" {
		t.Fatalf("expected unchanged line, got %q", out)
	}
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.c", "#define N 5\nint a = N;\n")

	p := New(nil, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "int a = 5;" {
		t.Fatalf("got %q", out)
	}
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.c", "#define ADD(a, b) ((a) + (b))\nint x = ADD(1, 2);\n")

	p := New(nil, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "int x = ((1) + (2));" {
		t.Fatalf("got %q", out)
	}
}

func TestConditionalCompilationSkipsInactiveBranch(t *testing.T) {
	dir := t.TempDir()
	src := "#define FEATURE 1\n#if FEATURE\nint a = 1;\n#else\nint a = 2;\n#endif\n"
	path := writeTemp(t, dir, "main.c", src)

	p := New(nil, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "int a = 1;" {
		t.Fatalf("got %q", out)
	}
}

func TestUnbalancedConditionalStackIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.c", "#if 1\nint a;\n")

	p := New(nil, nil)
	if _, err := p.Run(path); err == nil {
		t.Fatalf("expected unbalanced #if to be a fatal error")
	}
}

func TestQuotedIncludeSearchesCurrentDirFirst(t *testing.T) {
	dir := t.TempDir()
	otherDir := t.TempDir()
	writeTemp(t, dir, "header.h", "int shared;\n")
	writeTemp(t, otherDir, "header.h", "int other;\n")
	path := writeTemp(t, dir, "main.c", "#include \"header.h\"\nint main(){}\n")

	p := New([]string{otherDir}, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "int shared;") {
		t.Fatalf("expected included content, got %q", out)
	}
	if strings.Contains(out, "int other;") {
		t.Fatalf("expected the including file's directory to win over the include dirs, got %q", out)
	}
}

func TestDefinedOperatorInIfExpression(t *testing.T) {
	dir := t.TempDir()
	src := "#define DEBUG\n#if defined(DEBUG)\nint a = 1;\n#endif\n"
	path := writeTemp(t, dir, "main.c", src)

	p := New(nil, nil)
	out, err := p.Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "int a = 1;" {
		t.Fatalf("got %q", out)
	}
}
