package ir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/novac-lang/novac/internal/ast"
	"github.com/novac-lang/novac/internal/errors"
	"github.com/novac-lang/novac/internal/position"
)

func (g *Generator) emitExpr(e ast.Expr) (value.Value, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return g.emitLiteral(expr)
	case *ast.Ident:
		return g.emitIdent(expr)
	case *ast.BinaryExpr:
		return g.emitBinary(expr)
	case *ast.UnaryExpr:
		return g.emitUnary(expr)
	case *ast.TernaryExpr:
		return g.emitTernary(expr)
	case *ast.CallExpr:
		return g.emitCall(expr)
	case *ast.IndexExpr, *ast.MemberExpr:
		return nil, errors.IRGenErrorf(e.GetSpan().Start, "IR_UNSUPPORTED_EXPR", "array subscript and member access are not lowered by this core")
	default:
		return nil, errors.IRGenErrorf(e.GetSpan().Start, "IR_UNSUPPORTED_EXPR", "unsupported expression kind %T", e)
	}
}

func (g *Generator) emitLiteral(l *ast.Literal) (value.Value, error) {
	switch l.Kind {
	case ast.IntLit:
		return constant.NewInt(types.I32, l.IntVal), nil
	case ast.FloatLit:
		return constant.NewFloat(types.Double, l.FloatVal), nil
	case ast.CharLit:
		return constant.NewInt(types.I8, int64(l.CharVal)), nil
	case ast.StringLit:
		return g.emitStringLiteral(l.StringVal), nil
	default:
		return nil, errors.IRGenErrorf(l.Span.Start, "IR_BAD_LITERAL", "unrecognised literal kind")
	}
}

func (g *Generator) emitStringLiteral(s string) value.Value {
	g.strNum++
	data := constant.NewCharArrayFromString(s + "\x00")
	global := g.module.NewGlobalDef(fmt.Sprintf(".str.%d", g.strNum), data)
	global.Immutable = true
	zero := constant.NewInt(types.I64, 0)
	return g.curBlock.NewGetElementPtr(global.ContentType, global, zero, zero)
}

func (g *Generator) emitIdent(id *ast.Ident) (value.Value, error) {
	b, ok := g.resolve(id.Name)
	if !ok {
		return nil, errors.IRGenErrorf(id.Span.Start, "IR_UNKNOWN_IDENT", "unknown identifier %q", id.Name)
	}
	if b.isFunc {
		return b.addr, nil
	}
	return g.curBlock.NewLoad(b.elem, b.addr), nil
}

// resolveLValue returns the address a reference expression denotes,
// without loading through it. Only identifiers and pointer dereferences
// are valid lvalues in this core.
func (g *Generator) resolveLValue(e ast.Expr) (value.Value, types.Type, error) {
	switch expr := e.(type) {
	case *ast.Ident:
		b, ok := g.resolve(expr.Name)
		if !ok {
			return nil, nil, errors.IRGenErrorf(expr.Span.Start, "IR_UNKNOWN_IDENT", "unknown identifier %q", expr.Name)
		}
		return b.addr, b.elem, nil
	case *ast.UnaryExpr:
		if expr.Op == ast.OpDeref {
			ptr, err := g.emitExpr(expr.Operand)
			if err != nil {
				return nil, nil, err
			}
			pt, ok := ptr.Type().(*types.PointerType)
			if !ok {
				return nil, nil, errors.IRGenErrorf(expr.Span.Start, "IR_BAD_DEREF", "cannot dereference a non-pointer value")
			}
			return ptr, pt.ElemType, nil
		}
	}
	return nil, nil, errors.IRGenErrorf(e.GetSpan().Start, "IR_BAD_LVALUE", "expression is not assignable")
}

func (g *Generator) emitBinary(e *ast.BinaryExpr) (value.Value, error) {
	switch {
	case e.Op == ast.OpAssign:
		return g.emitAssign(e)
	case e.Op.IsCompoundAssign():
		return g.emitCompoundAssign(e)
	case e.Op == ast.OpLAnd:
		return g.emitLogicalAnd(e)
	case e.Op == ast.OpLOr:
		return g.emitLogicalOr(e)
	}

	lhs, err := g.emitExpr(e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	return g.emitArith(e.Span.Start, e.Op, lhs, rhs)
}

func (g *Generator) emitAssign(e *ast.BinaryExpr) (value.Value, error) {
	addr, elem, err := g.resolveLValue(e.Left)
	if err != nil {
		return nil, err
	}
	val, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	val = coerce(g.curBlock, val, elem)
	g.curBlock.NewStore(val, addr)
	return val, nil
}

func (g *Generator) emitCompoundAssign(e *ast.BinaryExpr) (value.Value, error) {
	addr, elem, err := g.resolveLValue(e.Left)
	if err != nil {
		return nil, err
	}
	old := g.curBlock.NewLoad(elem, addr)
	rhs, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	var baseOp ast.BinOp
	switch e.Op {
	case ast.OpAddAssign:
		baseOp = ast.OpAdd
	case ast.OpSubAssign:
		baseOp = ast.OpSub
	case ast.OpMulAssign:
		baseOp = ast.OpMul
	case ast.OpDivAssign:
		baseOp = ast.OpDiv
	case ast.OpModAssign:
		baseOp = ast.OpMod
	}
	result, err := g.emitArith(e.Span.Start, baseOp, old, rhs)
	if err != nil {
		return nil, err
	}
	result = coerce(g.curBlock, result, elem)
	g.curBlock.NewStore(result, addr)
	return result, nil
}

func (g *Generator) emitArith(pos position.Position, op ast.BinOp, lhs, rhs value.Value) (value.Value, error) {
	float := isFloatType(lhs.Type()) || isFloatType(rhs.Type())
	if float {
		if isIntType(lhs.Type()) {
			lhs = coerce(g.curBlock, lhs, types.Double)
		}
		if isIntType(rhs.Type()) {
			rhs = coerce(g.curBlock, rhs, types.Double)
		}
	}

	switch op {
	case ast.OpAdd:
		if float {
			return g.curBlock.NewFAdd(lhs, rhs), nil
		}
		return g.curBlock.NewAdd(lhs, rhs), nil
	case ast.OpSub:
		if float {
			return g.curBlock.NewFSub(lhs, rhs), nil
		}
		return g.curBlock.NewSub(lhs, rhs), nil
	case ast.OpMul:
		if float {
			return g.curBlock.NewFMul(lhs, rhs), nil
		}
		return g.curBlock.NewMul(lhs, rhs), nil
	case ast.OpDiv:
		if float {
			return g.curBlock.NewFDiv(lhs, rhs), nil
		}
		return g.curBlock.NewSDiv(lhs, rhs), nil
	case ast.OpMod:
		if float {
			return g.curBlock.NewFRem(lhs, rhs), nil
		}
		return g.curBlock.NewSRem(lhs, rhs), nil
	case ast.OpBitAnd:
		return g.curBlock.NewAnd(lhs, rhs), nil
	case ast.OpBitOr:
		return g.curBlock.NewOr(lhs, rhs), nil
	case ast.OpBitXor:
		return g.curBlock.NewXor(lhs, rhs), nil
	case ast.OpShl:
		return g.curBlock.NewShl(lhs, rhs), nil
	case ast.OpShr:
		return g.curBlock.NewAShr(lhs, rhs), nil
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe, ast.OpEq, ast.OpNe:
		return g.emitCompare(op, float, lhs, rhs), nil
	default:
		return nil, errors.IRGenErrorf(pos, "IR_BAD_BINARY", "unsupported binary operator %s", op)
	}
}

func (g *Generator) emitCompare(op ast.BinOp, float bool, lhs, rhs value.Value) value.Value {
	if float {
		var pred enum.FPred
		switch op {
		case ast.OpLt:
			pred = enum.FPredOLT
		case ast.OpGt:
			pred = enum.FPredOGT
		case ast.OpLe:
			pred = enum.FPredOLE
		case ast.OpGe:
			pred = enum.FPredOGE
		case ast.OpEq:
			pred = enum.FPredOEQ
		case ast.OpNe:
			pred = enum.FPredONE
		}
		return boolToInt(g.curBlock, g.curBlock.NewFCmp(pred, lhs, rhs))
	}
	var pred enum.IPred
	switch op {
	case ast.OpLt:
		pred = enum.IPredSLT
	case ast.OpGt:
		pred = enum.IPredSGT
	case ast.OpLe:
		pred = enum.IPredSLE
	case ast.OpGe:
		pred = enum.IPredSGE
	case ast.OpEq:
		pred = enum.IPredEQ
	case ast.OpNe:
		pred = enum.IPredNE
	}
	return boolToInt(g.curBlock, g.curBlock.NewICmp(pred, lhs, rhs))
}

// emitLogicalAnd lowers "a && b" with a phi join so that b is only
// evaluated when a is truthy, matching C's short-circuit evaluation.
func (g *Generator) emitLogicalAnd(e *ast.BinaryExpr) (value.Value, error) {
	lhs, err := g.emitExpr(e.Left)
	if err != nil {
		return nil, err
	}
	lhsBool := toBool(g.curBlock, lhs)
	lhsBlock := g.curBlock

	rhsBlock := g.newBlock("land.rhs")
	mergeBlock := g.newBlock("land.end")
	g.curBlock.NewCondBr(lhsBool, rhsBlock, mergeBlock)

	g.curBlock = rhsBlock
	rhs, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	rhsBool := boolToInt(g.curBlock, toBool(g.curBlock, rhs))
	g.curBlock.NewBr(mergeBlock)
	rhsBlock = g.curBlock

	g.curBlock = mergeBlock
	phi := g.curBlock.NewPhi(
		ir.NewIncoming(constant.NewInt(types.I32, 0), lhsBlock),
		ir.NewIncoming(rhsBool, rhsBlock),
	)
	return phi, nil
}

func (g *Generator) emitLogicalOr(e *ast.BinaryExpr) (value.Value, error) {
	lhs, err := g.emitExpr(e.Left)
	if err != nil {
		return nil, err
	}
	lhsBool := toBool(g.curBlock, lhs)
	lhsBlock := g.curBlock

	rhsBlock := g.newBlock("lor.rhs")
	mergeBlock := g.newBlock("lor.end")
	g.curBlock.NewCondBr(lhsBool, mergeBlock, rhsBlock)

	g.curBlock = rhsBlock
	rhs, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	rhsBool := boolToInt(g.curBlock, toBool(g.curBlock, rhs))
	g.curBlock.NewBr(mergeBlock)
	rhsBlock = g.curBlock

	g.curBlock = mergeBlock
	phi := g.curBlock.NewPhi(
		ir.NewIncoming(constant.NewInt(types.I32, 1), lhsBlock),
		ir.NewIncoming(rhsBool, rhsBlock),
	)
	return phi, nil
}

func (g *Generator) emitTernary(e *ast.TernaryExpr) (value.Value, error) {
	cond, err := g.emitExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	condBool := toBool(g.curBlock, cond)

	thenBlock := g.newBlock("cond.then")
	elseBlock := g.newBlock("cond.else")
	mergeBlock := g.newBlock("cond.end")
	g.curBlock.NewCondBr(condBool, thenBlock, elseBlock)

	g.curBlock = thenBlock
	thenVal, err := g.emitExpr(e.Then)
	if err != nil {
		return nil, err
	}
	g.curBlock.NewBr(mergeBlock)
	thenBlock = g.curBlock

	g.curBlock = elseBlock
	elseVal, err := g.emitExpr(e.Else)
	if err != nil {
		return nil, err
	}
	g.curBlock.NewBr(mergeBlock)
	elseBlock = g.curBlock

	if !elseVal.Type().Equal(thenVal.Type()) {
		return nil, errors.IRGenErrorf(e.Span.Start, "IR_TYPE_MISMATCH",
			"ternary arms have mismatched types %s and %s", thenVal.Type(), elseVal.Type())
	}

	g.curBlock = mergeBlock
	phi := g.curBlock.NewPhi(
		ir.NewIncoming(thenVal, thenBlock),
		ir.NewIncoming(elseVal, elseBlock),
	)
	return phi, nil
}

func (g *Generator) emitUnary(e *ast.UnaryExpr) (value.Value, error) {
	switch e.Op {
	case ast.OpAddr:
		addr, _, err := g.resolveLValue(e.Operand)
		return addr, err
	case ast.OpDeref:
		addr, elem, err := g.resolveLValue(e)
		if err != nil {
			return nil, err
		}
		_ = elem
		return g.curBlock.NewLoad(addr.Type().(*types.PointerType).ElemType, addr), nil
	case ast.OpIncr, ast.OpDecr:
		return g.emitIncrDecr(e)
	}

	val, err := g.emitExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpPos:
		return val, nil
	case ast.OpNeg:
		if isFloatType(val.Type()) {
			return g.curBlock.NewFNeg(val), nil
		}
		return g.curBlock.NewSub(constant.NewInt(val.Type().(*types.IntType), 0), val), nil
	case ast.OpNot:
		b := toBool(g.curBlock, val)
		notB := g.curBlock.NewXor(b, constant.NewInt(types.I1, 1))
		return boolToInt(g.curBlock, notB), nil
	case ast.OpBitNot:
		it := val.Type().(*types.IntType)
		return g.curBlock.NewXor(val, constant.NewInt(it, -1)), nil
	default:
		return nil, errors.IRGenErrorf(e.Span.Start, "IR_BAD_UNARY", "unsupported unary operator %s", e.Op)
	}
}

func (g *Generator) emitIncrDecr(e *ast.UnaryExpr) (value.Value, error) {
	addr, elem, err := g.resolveLValue(e.Operand)
	if err != nil {
		return nil, err
	}
	old := g.curBlock.NewLoad(elem, addr)

	var one value.Value
	if it, ok := elem.(*types.IntType); ok {
		one = constant.NewInt(it, 1)
	} else {
		one = constant.NewFloat(elem.(*types.FloatType), 1)
	}

	var newVal value.Value
	if e.Op == ast.OpIncr {
		if isFloatType(elem) {
			newVal = g.curBlock.NewFAdd(old, one)
		} else {
			newVal = g.curBlock.NewAdd(old, one)
		}
	} else {
		if isFloatType(elem) {
			newVal = g.curBlock.NewFSub(old, one)
		} else {
			newVal = g.curBlock.NewSub(old, one)
		}
	}
	g.curBlock.NewStore(newVal, addr)

	if e.Postfix {
		return old, nil
	}
	return newVal, nil
}

func (g *Generator) emitCall(c *ast.CallExpr) (value.Value, error) {
	callee, ok := c.Callee.(*ast.Ident)
	if !ok {
		return nil, errors.IRGenErrorf(c.Span.Start, "IR_BAD_CALL", "call target must be a function name")
	}
	fn, ok := g.funcs[callee.Name]
	if !ok {
		return nil, errors.IRGenErrorf(c.Span.Start, "IR_UNKNOWN_IDENT", "call to undeclared function %q", callee.Name)
	}
	if len(c.Args) != len(fn.Params) {
		return nil, errors.IRGenErrorf(c.Span.Start, "IR_BAD_CALL", "function %q expects %d arguments, got %d", callee.Name, len(fn.Params), len(c.Args))
	}
	var args []value.Value
	for i, a := range c.Args {
		v, err := g.emitExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, coerce(g.curBlock, v, fn.Params[i].Type()))
	}
	return g.curBlock.NewCall(fn, args...), nil
}
