package ir

import (
	"github.com/novac-lang/novac/internal/ast"
	"github.com/novac-lang/novac/internal/errors"
)

func (g *Generator) genStmt(s ast.Stmt) error {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		return g.genBlock(stmt)
	case *ast.VarDecl:
		return g.genLocalVarDecl(stmt)
	case *ast.ExprStmt:
		if stmt.Expr == nil {
			return nil
		}
		_, err := g.emitExpr(stmt.Expr)
		return err
	case *ast.ReturnStmt:
		return g.genReturn(stmt)
	case *ast.IfStmt:
		return g.genIf(stmt)
	case *ast.WhileStmt:
		return g.genWhile(stmt)
	case *ast.ForStmt:
		return g.genFor(stmt)
	case *ast.BreakStmt:
		return g.genBreak(stmt)
	case *ast.ContinueStmt:
		return g.genContinue(stmt)
	default:
		return errors.IRGenErrorf(s.GetSpan().Start, "IR_BAD_STMT", "unsupported statement kind %T", s)
	}
}

func (g *Generator) genLocalVarDecl(v *ast.VarDecl) error {
	elemType, err := convertType(v.Type)
	if err != nil {
		return errors.IRGenErrorf(v.Span.Start, "IR_BAD_TYPE", "variable %q: %v", v.Name, err)
	}
	alloca := g.curBlock.NewAlloca(elemType)
	g.define(v.Name, v.Type, false, &binding{addr: alloca, elem: elemType})
	if v.Init != nil {
		val, err := g.emitExpr(v.Init)
		if err != nil {
			return err
		}
		g.curBlock.NewStore(coerce(g.curBlock, val, elemType), alloca)
	}
	return nil
}

func (g *Generator) genReturn(r *ast.ReturnStmt) error {
	if r.Value == nil {
		g.curBlock.NewRet(nil)
		return nil
	}
	val, err := g.emitExpr(r.Value)
	if err != nil {
		return err
	}
	g.curBlock.NewRet(coerce(g.curBlock, val, g.curFunc.Sig.RetType))
	return nil
}

func (g *Generator) genIf(s *ast.IfStmt) error {
	cond, err := g.emitExpr(s.Cond)
	if err != nil {
		return err
	}
	condBool := toBool(g.curBlock, cond)

	thenBlock := g.newBlock("if.then")
	mergeBlock := g.newBlock("if.end")

	if s.Else == nil {
		g.curBlock.NewCondBr(condBool, thenBlock, mergeBlock)
		g.curBlock = thenBlock
		if err := g.genStmt(s.Then); err != nil {
			return err
		}
		if g.curBlock.Term == nil {
			g.curBlock.NewBr(mergeBlock)
		}
		g.curBlock = mergeBlock
		return nil
	}

	elseBlock := g.newBlock("if.else")
	g.curBlock.NewCondBr(condBool, thenBlock, elseBlock)

	g.curBlock = thenBlock
	if err := g.genStmt(s.Then); err != nil {
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(mergeBlock)
	}

	g.curBlock = elseBlock
	if err := g.genStmt(s.Else); err != nil {
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(mergeBlock)
	}

	g.curBlock = mergeBlock
	return nil
}

func (g *Generator) genWhile(s *ast.WhileStmt) error {
	condBlock := g.newBlock("while.cond")
	bodyBlock := g.newBlock("while.body")
	endBlock := g.newBlock("while.end")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	cond, err := g.emitExpr(s.Cond)
	if err != nil {
		return err
	}
	g.curBlock.NewCondBr(toBool(g.curBlock, cond), bodyBlock, endBlock)

	g.loops = append(g.loops, loopTargets{breakTo: endBlock, continueTo: condBlock})
	g.curBlock = bodyBlock
	if err := g.genStmt(s.Body); err != nil {
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(condBlock)
	}
	g.loops = g.loops[:len(g.loops)-1]

	g.curBlock = endBlock
	return nil
}

func (g *Generator) genFor(s *ast.ForStmt) error {
	g.pushScope()
	defer g.popScope()

	if s.Init != nil {
		if err := g.genStmt(s.Init); err != nil {
			return err
		}
	}

	condBlock := g.newBlock("for.cond")
	bodyBlock := g.newBlock("for.body")
	stepBlock := g.newBlock("for.step")
	endBlock := g.newBlock("for.end")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	if s.Cond != nil {
		cond, err := g.emitExpr(s.Cond)
		if err != nil {
			return err
		}
		g.curBlock.NewCondBr(toBool(g.curBlock, cond), bodyBlock, endBlock)
	} else {
		g.curBlock.NewBr(bodyBlock)
	}

	g.loops = append(g.loops, loopTargets{breakTo: endBlock, continueTo: stepBlock})
	g.curBlock = bodyBlock
	if err := g.genStmt(s.Body); err != nil {
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(stepBlock)
	}
	g.loops = g.loops[:len(g.loops)-1]

	g.curBlock = stepBlock
	if s.Step != nil {
		if _, err := g.emitExpr(s.Step); err != nil {
			return err
		}
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(condBlock)
	}

	g.curBlock = endBlock
	return nil
}

func (g *Generator) genBreak(s *ast.BreakStmt) error {
	if len(g.loops) == 0 {
		return errors.IRGenErrorf(s.Span.Start, "IR_BREAK_OUTSIDE_LOOP", "break statement outside a loop")
	}
	g.curBlock.NewBr(g.loops[len(g.loops)-1].breakTo)
	return nil
}

func (g *Generator) genContinue(s *ast.ContinueStmt) error {
	if len(g.loops) == 0 {
		return errors.IRGenErrorf(s.Span.Start, "IR_CONTINUE_OUTSIDE_LOOP", "continue statement outside a loop")
	}
	g.curBlock.NewBr(g.loops[len(g.loops)-1].continueTo)
	return nil
}
