// Package main provides the entry point for the novac compiler: a driver
// that preprocesses a single translation unit, parses and builds its AST,
// lowers it to LLVM IR, and writes the result to an output file or stdout.
//
// The driver owns everything the core pipeline treats as an external
// collaborator: flag parsing, include-path and macro-define plumbing,
// output-file hygiene, and (in -watch mode) recompiling when the root file
// or an include directory changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/novac-lang/novac/internal/astbuild"
	"github.com/novac-lang/novac/internal/cli"
	"github.com/novac-lang/novac/internal/ir"
	"github.com/novac-lang/novac/internal/lexer"
	"github.com/novac-lang/novac/internal/parser"
	"github.com/novac-lang/novac/internal/preprocess"
	"github.com/novac-lang/novac/internal/watch"
)

// stringList accumulates repeated -I/-D flags into an ordered slice.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		includeDirs stringList
		defines     stringList
		output      = flag.String("o", "", "output path for the generated IR (default: stdout)")
		watchMode   = flag.Bool("watch", false, "recompile whenever the input or an include directory changes")
		verbose     = flag.Bool("v", false, "verbose logging")
		debugMode   = flag.Bool("debug", false, "debug logging")
		showVersion = flag.Bool("version", false, "print version information")
		jsonVersion = flag.Bool("json", false, "with -version, print as JSON")
		requireVer  = flag.String("require-version", "", "fail unless novac's own version satisfies this semver constraint, e.g. \">=0.1.0\"")
		configPath  = flag.String("config", "", "path to a JSON config file merged under the flags above")
	)
	flag.Var(&includeDirs, "I", "add a directory to the #include search path (repeatable)")
	flag.Var(&defines, "D", "define NAME or NAME=VALUE before preprocessing (repeatable)")
	flag.Parse()

	if *showVersion {
		cli.PrintVersion(*jsonVersion)
		return
	}

	if *requireVer != "" {
		if err := cli.CheckMinimumVersion(*requireVer); err != nil {
			cli.ExitWithError("%v", err)
		}
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	logger := cli.NewLogger(*verbose || cfg.Verbose, *debugMode || cfg.Debug)
	includeDirs = append(stringList(cfg.IncludeDirs), includeDirs...)
	defines = append(stringList(cfg.Defines), defines...)

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: novac [flags] <source-file>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	root := args[0]

	compileOnce := func() error {
		return compile(root, includeDirs, defines, *output, logger)
	}

	if !*watchMode {
		if err := compileOnce(); err != nil {
			cli.HandleError(err, logger)
		}
		return
	}

	if err := compileOnce(); err != nil {
		logger.Error("%v", err)
	}
	if err := runWatch(root, includeDirs, compileOnce, logger); err != nil {
		cli.HandleError(err, logger)
	}
}

// compile runs the full preprocess -> parse -> AST-build -> IR-generate
// pipeline for one translation unit and writes the resulting IR text to
// output (stdout if output is empty).
func compile(root string, includeDirs, defines []string, output string, logger *cli.Logger) error {
	logger.Debug("preprocessing %s (include dirs: %v, defines: %v)", root, includeDirs, defines)
	pp := preprocess.New(includeDirs, defines)
	text, err := pp.Run(root)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}

	logger.Debug("lexing %s", root)
	toks, err := lexer.Tokenize(root, text)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	logger.Debug("parsing %s", root)
	tree, err := parser.Parse(toks)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	logger.Debug("building AST for %s", root)
	tu, err := astbuild.Build(tree)
	if err != nil {
		return fmt.Errorf("ast build: %w", err)
	}

	logger.Debug("generating IR for %s", root)
	_, irText, err := ir.Generate(tu)
	if err != nil {
		return fmt.Errorf("irgen: %w", err)
	}

	if output == "" {
		_, err = fmt.Print(irText)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil && !os.IsExist(err) {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(output, []byte(irText), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("wrote %s", output)
	return nil
}

// runWatch recompiles every time root or one of includeDirs changes on
// disk. It returns nil once either of the watcher's channels is closed;
// watcher errors are logged and watching continues.
func runWatch(root string, includeDirs []string, recompile func() error, logger *cli.Logger) error {
	w, err := watch.NewFSWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	for _, dir := range includeDirs {
		if err := w.Add(dir); err != nil {
			logger.Warn("cannot watch include dir %s: %v", dir, err)
		}
	}

	logger.Info("watching %s for changes (ctrl-c to stop)", root)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op&(watch.OpWrite|watch.OpCreate|watch.OpRename) == 0 {
				continue
			}
			logger.Info("change detected: %s", ev.Path)
			if err := recompile(); err != nil {
				logger.Error("%v", err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}
