package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/novac-lang/novac/internal/cli"
)

// TestCompileRunsFullPipelineThroughPreprocessor exercises the one piece of
// the spec's three-stage pipeline the internal/ir tests never touch on
// their own: #include resolution and macro expansion ahead of lexing.
func TestCompileRunsFullPipelineThroughPreprocessor(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "limit.h")
	if err := os.WriteFile(headerPath, []byte("#define LIMIT 5\n"), 0o644); err != nil {
		t.Fatalf("write header: %v", err)
	}
	rootPath := filepath.Join(dir, "main.c")
	src := `#include "limit.h"
int main() {
	int s = 0;
	for (int i = 1; i <= LIMIT; i = i + 1) {
		s = s + i;
	}
	return s;
}
`
	if err := os.WriteFile(rootPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	outPath := filepath.Join(dir, "out.ll")
	logger := cli.NewLogger(false, false)
	if err := compile(rootPath, nil, nil, outPath, logger); err != nil {
		t.Fatalf("compile: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "define i32 @main") {
		t.Fatalf("expected a definition of main, got:\n%s", text)
	}
	if !strings.Contains(text, "icmp sle") {
		t.Fatalf("expected the macro-expanded LIMIT to drive an sle comparison, got:\n%s", text)
	}
}

// TestCompileUnbalancedConditionalIsFatal exercises the preprocessor's
// structural-error path through the driver: a missing #endif must fail the
// whole pipeline rather than silently truncating the translation unit.
func TestCompileUnbalancedConditionalIsFatal(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "main.c")
	src := "#ifdef NEVER_DEFINED\nint main() { return 0; }\n"
	if err := os.WriteFile(rootPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	logger := cli.NewLogger(false, false)
	if err := compile(rootPath, nil, nil, "", logger); err == nil {
		t.Fatalf("expected an unterminated #ifdef to fail compilation")
	}
}

// TestCompileWithCommandLineDefine exercises -D NAME=value plumbing end to
// end: the macro must be visible to the preprocessor before any #include or
// #if in the root file is processed.
func TestCompileWithCommandLineDefine(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "main.c")
	src := "int main() { return SEED; }\n"
	if err := os.WriteFile(rootPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	outPath := filepath.Join(dir, "out.ll")
	logger := cli.NewLogger(false, false)
	if err := compile(rootPath, nil, []string{"SEED=7"}, outPath, logger); err != nil {
		t.Fatalf("compile: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "ret i32 7") {
		t.Fatalf("expected the command-line define to lower to `ret i32 7`, got:\n%s", data)
	}
}

// TestRunWatchRecompilesOnFileChange exercises -watch mode: a write to the
// root file must trigger another call to the recompile callback.
func TestRunWatchRecompilesOnFileChange(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "main.c")
	if err := os.WriteFile(rootPath, []byte("int main() { return 0; }\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	var recompiles atomic.Int32
	recompiled := make(chan struct{}, 1)
	recompile := func() error {
		recompiles.Add(1)
		select {
		case recompiled <- struct{}{}:
		default:
		}
		return nil
	}

	logger := cli.NewLogger(false, false)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- runWatch(rootPath, nil, recompile, logger)
	}()

	if err := os.WriteFile(rootPath, []byte("int main() { return 1; }\n"), 0o644); err != nil {
		t.Fatalf("rewrite source: %v", err)
	}

	select {
	case <-recompiled:
	case err := <-watchErr:
		t.Fatalf("runWatch exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for a recompile after a file change")
	}

	if recompiles.Load() == 0 {
		t.Fatalf("expected at least one recompile after the file change")
	}
}
