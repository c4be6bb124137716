// Package ir lowers the semantic AST into LLVM IR using llir/llvm's pure-Go
// IR builder. Generation happens in two passes over the translation unit:
// the first declares every function signature and global so forward and
// mutually recursive calls resolve regardless of declaration order, and the
// second walks each function body emitting instructions into basic blocks.
//
// Every basic block is built with the single-terminator invariant enforced
// by construction: genStmt and emitExpr never append past a block whose
// Term is already set, and every control-flow constructor leaves exactly
// one of its blocks "open" (un-terminated) for the caller to continue into.
package ir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/novac-lang/novac/internal/ast"
	"github.com/novac-lang/novac/internal/errors"
	"github.com/novac-lang/novac/internal/position"
	"github.com/novac-lang/novac/internal/symtab"
)

// binding is what a declared name resolves to during codegen: the storage
// address backing it (an alloca or a global) and the LLVM type stored
// there.
type binding struct {
	addr   value.Value
	elem   types.Type
	isFunc bool
}

// loopTargets records the blocks break and continue jump to for the
// innermost enclosing loop.
type loopTargets struct {
	breakTo    *ir.Block
	continueTo *ir.Block
}

// Generator lowers one translation unit into one LLVM module.
type Generator struct {
	module *ir.Module
	funcs  map[string]*ir.Func
	syms   *symtab.Table
	vals   []map[string]*binding

	curFunc  *ir.Func
	curBlock *ir.Block
	blockNum int
	strNum   int
	loops    []loopTargets
}

// New creates a Generator producing into a fresh, empty module.
func New() *Generator {
	return &Generator{
		module: ir.NewModule(),
		funcs:  make(map[string]*ir.Func),
		syms:   symtab.New(),
	}
}

// Generate lowers tu into an LLVM module and returns it alongside its
// textual IR form.
func Generate(tu *ast.TranslationUnit) (*ir.Module, string, error) {
	g := New()
	if err := g.run(tu); err != nil {
		return nil, "", err
	}
	return g.module, g.module.String(), nil
}

func (g *Generator) run(tu *ast.TranslationUnit) error {
	g.pushScope() // file scope

	// Pass 1: declare every function signature and global so calls and
	// references can resolve regardless of textual order.
	for _, d := range tu.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			if err := g.declareFunc(decl); err != nil {
				return err
			}
		case *ast.VarDecl:
			if err := g.declareGlobal(decl); err != nil {
				return err
			}
		}
	}

	// Pass 2: emit bodies now that every signature is known.
	for _, d := range tu.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if err := g.genFuncBody(fn); err != nil {
			return err
		}
	}

	g.popScope()

	if _, err := g.module.Assert(); err != nil {
		return errors.IRGenErrorf(position.Position{}, "IR_VERIFY", "module verification failed: %v", err)
	}
	return nil
}

func (g *Generator) pushScope() {
	g.syms.EnterScope()
	g.vals = append(g.vals, make(map[string]*binding))
}

func (g *Generator) popScope() {
	g.syms.ExitScope()
	g.vals = g.vals[:len(g.vals)-1]
}

func (g *Generator) define(name string, typ string, isFunc bool, b *binding) {
	g.syms.Define(name, typ, isFunc)
	g.vals[len(g.vals)-1][name] = b
}

func (g *Generator) resolve(name string) (*binding, bool) {
	for i := len(g.vals) - 1; i >= 0; i-- {
		if b, ok := g.vals[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

// convertType maps a declaration type spelling (e.g. "int", "char**") to
// its LLVM type.
func convertType(typ string) (types.Type, error) {
	depth := 0
	for len(typ) > 0 && typ[len(typ)-1] == '*' {
		depth++
		typ = typ[:len(typ)-1]
	}
	var base types.Type
	switch typ {
	case "void":
		base = types.Void
	case "_Bool":
		base = types.I1
	case "char":
		base = types.I8
	case "int":
		base = types.I32
	case "float":
		base = types.Float
	case "double":
		base = types.Double
	default:
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
	for i := 0; i < depth; i++ {
		base = types.NewPointer(base)
	}
	return base, nil
}

func (g *Generator) declareFunc(fn *ast.FuncDecl) error {
	if prev, ok := g.funcs[fn.Name]; ok {
		// Already declared by an earlier prototype: the definition reuses
		// that *ir.Func so the module holds one function of this name.
		if len(prev.Params) != len(fn.Params) {
			return errors.IRGenErrorf(fn.Span.Start, "IR_BAD_DECL", "function %q redeclared with %d parameters, previously %d", fn.Name, len(fn.Params), len(prev.Params))
		}
		return nil
	}
	retType, err := convertType(fn.ReturnType)
	if err != nil {
		return errors.IRGenErrorf(fn.Span.Start, "IR_BAD_TYPE", "function %q: %v", fn.Name, err)
	}
	var params []*ir.Param
	for _, p := range fn.Params {
		pt, err := convertType(p.Type)
		if err != nil {
			return errors.IRGenErrorf(p.Span.Start, "IR_BAD_TYPE", "parameter %q: %v", p.Name, err)
		}
		params = append(params, ir.NewParam(p.Name, pt))
	}
	irFn := g.module.NewFunc(fn.Name, retType, params...)
	g.funcs[fn.Name] = irFn
	g.define(fn.Name, fn.ReturnType, true, &binding{addr: irFn, elem: retType, isFunc: true})
	return nil
}

func (g *Generator) declareGlobal(v *ast.VarDecl) error {
	elemType, err := convertType(v.Type)
	if err != nil {
		return errors.IRGenErrorf(v.Span.Start, "IR_BAD_TYPE", "global %q: %v", v.Name, err)
	}
	init := globalInitializer(elemType, v.Init)
	global := g.module.NewGlobalDef(v.Name, init)
	g.define(v.Name, v.Type, false, &binding{addr: global, elem: elemType})
	return nil
}

// globalInitializer builds the constant a global is defined with: an integer
// literal initializer becomes the matching ConstantInt, and anything else
// (no initializer, a non-integer-literal expression) becomes a zero value.
func globalInitializer(elemType types.Type, init ast.Expr) constant.Constant {
	if lit, ok := init.(*ast.Literal); ok && lit.Kind == ast.IntLit {
		if it, ok := elemType.(*types.IntType); ok {
			return constant.NewInt(it, lit.IntVal)
		}
	}
	return constant.NewZeroInitializer(elemType)
}

func (g *Generator) newBlock(label string) *ir.Block {
	g.blockNum++
	b := g.curFunc.NewBlock(fmt.Sprintf("%s%d", label, g.blockNum))
	return b
}

func (g *Generator) genFuncBody(fn *ast.FuncDecl) error {
	irFn := g.funcs[fn.Name]
	g.curFunc = irFn
	g.blockNum = 0
	g.loops = nil

	entry := g.newBlock("entry")
	g.curBlock = entry

	g.pushScope()
	defer g.popScope()

	for i, p := range fn.Params {
		pt := irFn.Params[i].Type()
		alloca := g.curBlock.NewAlloca(pt)
		g.curBlock.NewStore(irFn.Params[i], alloca)
		g.define(p.Name, p.Type, false, &binding{addr: alloca, elem: pt})
	}

	if err := g.genBlock(fn.Body); err != nil {
		return err
	}

	if g.curBlock.Term == nil {
		if fn.ReturnType == "void" {
			g.curBlock.NewRet(nil)
		} else {
			zero, err := zeroValue(irFn.Sig.RetType)
			if err != nil {
				return errors.IRGenErrorf(fn.Span.Start, "IR_MISSING_RETURN", "function %q: %v", fn.Name, err)
			}
			g.curBlock.NewRet(zero)
		}
	}
	return nil
}

func zeroValue(t types.Type) (value.Value, error) {
	switch tt := t.(type) {
	case *types.IntType:
		return constant.NewInt(tt, 0), nil
	case *types.FloatType:
		return constant.NewFloat(tt, 0), nil
	case *types.PointerType:
		return constant.NewNull(tt), nil
	default:
		return nil, fmt.Errorf("no zero value for type %s", t)
	}
}

func (g *Generator) genBlock(b *ast.BlockStmt) error {
	g.pushScope()
	defer g.popScope()
	for _, s := range b.Stmts {
		if g.curBlock.Term != nil {
			break // unreachable code after a terminator; nothing left to lower
		}
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}
