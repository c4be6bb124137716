// Package ast defines the sum-typed abstract syntax tree produced by the
// AST builder and consumed by the IR generator.
//
// Every node carries a source span and implements the visitor-pattern
// Accept method; declarations, statements, and expressions are disjoint
// sum types distinguished by marker methods, matching the source's
// runtime-type-tested subtype hierarchy reworked as a closed, exhaustively
// dispatchable interface family.
package ast

import (
	"fmt"
	"strings"

	"github.com/novac-lang/novac/internal/position"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	GetSpan() position.Span
	String() string
	Accept(v Visitor) interface{}
}

// Decl is a top-level declaration: a function or a global variable.
type Decl interface {
	Node
	declNode()
}

// Stmt is any statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression-position node.
type Expr interface {
	Node
	exprNode()
}

// TranslationUnit is the AST root: an ordered sequence of top-level
// declarations produced by preprocessing and parsing one root source file.
type TranslationUnit struct {
	Span  position.Span
	Decls []Decl
}

func (t *TranslationUnit) GetSpan() position.Span    { return t.Span }
func (t *TranslationUnit) Accept(v Visitor) interface{} { return v.VisitTranslationUnit(t) }
func (t *TranslationUnit) String() string {
	parts := make([]string, len(t.Decls))
	for i, d := range t.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// ===== Declarations =====

// Param is one function parameter: a name plus a declared type string.
type Param struct {
	Span position.Span
	Name string
	Type string
}

// FuncDecl is a function declaration, with Body nil for a prototype.
type FuncDecl struct {
	Span       position.Span
	Name       string
	ReturnType string
	Params     []*Param
	Body       *BlockStmt
}

func (f *FuncDecl) GetSpan() position.Span       { return f.Span }
func (f *FuncDecl) declNode()                    {}
func (f *FuncDecl) Accept(v Visitor) interface{} { return v.VisitFuncDecl(f) }
func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	head := fmt.Sprintf("%s %s(%s)", f.ReturnType, f.Name, strings.Join(params, ", "))
	if f.Body == nil {
		return head + ";"
	}
	return head + " " + f.Body.String()
}

// VarDecl is a variable declaration, at file scope or block scope, with an
// optional initializer expression.
type VarDecl struct {
	Span    position.Span
	Name    string
	Type    string
	Init    Expr
}

func (d *VarDecl) GetSpan() position.Span       { return d.Span }
func (d *VarDecl) declNode()                    {}
func (d *VarDecl) stmtNode()                    {}
func (d *VarDecl) Accept(v Visitor) interface{} { return v.VisitVarDecl(d) }
func (d *VarDecl) String() string {
	if d.Init == nil {
		return fmt.Sprintf("%s %s;", d.Type, d.Name)
	}
	return fmt.Sprintf("%s %s = %s;", d.Type, d.Name, d.Init.String())
}

// ===== Statements =====

// BlockStmt is an ordered sequence of statements forming a compound
// statement.
type BlockStmt struct {
	Span  position.Span
	Stmts []Stmt
}

func (b *BlockStmt) GetSpan() position.Span       { return b.Span }
func (b *BlockStmt) stmtNode()                    {}
func (b *BlockStmt) Accept(v Visitor) interface{} { return v.VisitBlockStmt(b) }
func (b *BlockStmt) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// ExprStmt evaluates an expression and discards its value. Expr may be nil,
// representing the legal no-op statement ";".
type ExprStmt struct {
	Span position.Span
	Expr Expr
}

func (s *ExprStmt) GetSpan() position.Span       { return s.Span }
func (s *ExprStmt) stmtNode()                    {}
func (s *ExprStmt) Accept(v Visitor) interface{} { return v.VisitExprStmt(s) }
func (s *ExprStmt) String() string {
	if s.Expr == nil {
		return ";"
	}
	return s.Expr.String() + ";"
}

// ReturnStmt returns from the enclosing function. Value is nil for a bare
// "return;" (legal only in a void function).
type ReturnStmt struct {
	Span  position.Span
	Value Expr
}

func (s *ReturnStmt) GetSpan() position.Span       { return s.Span }
func (s *ReturnStmt) stmtNode()                    {}
func (s *ReturnStmt) Accept(v Visitor) interface{} { return v.VisitReturnStmt(s) }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// IfStmt is an if/then/else. Else may be nil.
type IfStmt struct {
	Span position.Span
	Cond Expr
	Then Stmt
	Else Stmt
}

func (s *IfStmt) GetSpan() position.Span       { return s.Span }
func (s *IfStmt) stmtNode()                    {}
func (s *IfStmt) Accept(v Visitor) interface{} { return v.VisitIfStmt(s) }
func (s *IfStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if (%s) %s", s.Cond.String(), s.Then.String())
	}
	return fmt.Sprintf("if (%s) %s else %s", s.Cond.String(), s.Then.String(), s.Else.String())
}

// WhileStmt is a pretest loop.
type WhileStmt struct {
	Span position.Span
	Cond Expr
	Body Stmt
}

func (s *WhileStmt) GetSpan() position.Span       { return s.Span }
func (s *WhileStmt) stmtNode()                    {}
func (s *WhileStmt) Accept(v Visitor) interface{} { return v.VisitWhileStmt(s) }
func (s *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", s.Cond.String(), s.Body.String())
}

// ForStmt decomposes the C-style for(init; cond; step) body clause. Init,
// Cond, and Step are all optional.
type ForStmt struct {
	Span position.Span
	Init Stmt
	Cond Expr
	Step Expr
	Body Stmt
}

func (s *ForStmt) GetSpan() position.Span       { return s.Span }
func (s *ForStmt) stmtNode()                    {}
func (s *ForStmt) Accept(v Visitor) interface{} { return v.VisitForStmt(s) }
func (s *ForStmt) String() string {
	init, cond, step := "", "", ""
	if s.Init != nil {
		init = s.Init.String()
	}
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	if s.Step != nil {
		step = s.Step.String()
	}
	return fmt.Sprintf("for (%s %s; %s) %s", init, cond, step, s.Body.String())
}

// BreakStmt and ContinueStmt terminate or restart the innermost enclosing
// loop; it is a fatal IR-generation error for either to appear outside one.
type BreakStmt struct{ Span position.Span }

func (s *BreakStmt) GetSpan() position.Span       { return s.Span }
func (s *BreakStmt) stmtNode()                    {}
func (s *BreakStmt) Accept(v Visitor) interface{} { return v.VisitBreakStmt(s) }
func (s *BreakStmt) String() string                { return "break;" }

type ContinueStmt struct{ Span position.Span }

func (s *ContinueStmt) GetSpan() position.Span       { return s.Span }
func (s *ContinueStmt) stmtNode()                    {}
func (s *ContinueStmt) Accept(v Visitor) interface{} { return v.VisitContinueStmt(s) }
func (s *ContinueStmt) String() string                { return "continue;" }

// ===== Expressions =====

// LitKind distinguishes the literal expression variants.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	StringLit
)

// Literal is an integer, floating, character, or string constant.
type Literal struct {
	Span      position.Span
	Kind      LitKind
	IntVal    int64
	FloatVal  float64
	CharVal   byte
	StringVal string
}

func (l *Literal) GetSpan() position.Span       { return l.Span }
func (l *Literal) exprNode()                    {}
func (l *Literal) Accept(v Visitor) interface{} { return v.VisitLiteral(l) }
func (l *Literal) String() string {
	switch l.Kind {
	case IntLit:
		return fmt.Sprintf("%d", l.IntVal)
	case FloatLit:
		return fmt.Sprintf("%g", l.FloatVal)
	case CharLit:
		return fmt.Sprintf("'%c'", l.CharVal)
	case StringLit:
		return fmt.Sprintf("%q", l.StringVal)
	default:
		return "<literal>"
	}
}

// Ident is a reference to a named variable, parameter, or function.
type Ident struct {
	Span position.Span
	Name string
}

func (i *Ident) GetSpan() position.Span       { return i.Span }
func (i *Ident) exprNode()                    {}
func (i *Ident) Accept(v Visitor) interface{} { return v.VisitIdent(i) }
func (i *Ident) String() string                { return i.Name }

// BinOp enumerates the binary operator set from §3 (contract-complete).
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpLAnd
	OpLOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
)

var binOpText = map[BinOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=", OpEq: "==", OpNe: "!=",
	OpLAnd: "&&", OpLOr: "||", OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpShl: "<<", OpShr: ">>", OpAssign: "=", OpAddAssign: "+=", OpSubAssign: "-=",
	OpMulAssign: "*=", OpDivAssign: "/=", OpModAssign: "%=",
}

func (op BinOp) String() string { return binOpText[op] }

// IsCompoundAssign reports whether op is one of +=, -=, *=, /=, %=.
func (op BinOp) IsCompoundAssign() bool {
	switch op {
	case OpAddAssign, OpSubAssign, OpMulAssign, OpDivAssign, OpModAssign:
		return true
	default:
		return false
	}
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Span  position.Span
	Op    BinOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) GetSpan() position.Span       { return e.Span }
func (e *BinaryExpr) exprNode()                    {}
func (e *BinaryExpr) Accept(v Visitor) interface{} { return v.VisitBinaryExpr(e) }
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

// UnOp enumerates the unary operator set from §3.
type UnOp int

const (
	OpPos UnOp = iota
	OpNeg
	OpNot
	OpBitNot
	OpIncr
	OpDecr
	OpAddr
	OpDeref
)

var unOpText = map[UnOp]string{
	OpPos: "+", OpNeg: "-", OpNot: "!", OpBitNot: "~", OpIncr: "++", OpDecr: "--",
	OpAddr: "&", OpDeref: "*",
}

func (op UnOp) String() string { return unOpText[op] }

// UnaryExpr applies a unary (or pre/post-increment/decrement) operator to
// one operand.
type UnaryExpr struct {
	Span    position.Span
	Op      UnOp
	Operand Expr
	Postfix bool // true for post-increment/decrement
}

func (e *UnaryExpr) GetSpan() position.Span       { return e.Span }
func (e *UnaryExpr) exprNode()                    {}
func (e *UnaryExpr) Accept(v Visitor) interface{} { return v.VisitUnaryExpr(e) }
func (e *UnaryExpr) String() string {
	if e.Postfix {
		return fmt.Sprintf("(%s%s)", e.Operand.String(), e.Op.String())
	}
	return fmt.Sprintf("(%s%s)", e.Op.String(), e.Operand.String())
}

// CallExpr is a function call with an ordered argument list.
type CallExpr struct {
	Span   position.Span
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) GetSpan() position.Span       { return e.Span }
func (e *CallExpr) exprNode()                    {}
func (e *CallExpr) Accept(v Visitor) interface{} { return v.VisitCallExpr(e) }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee.String(), strings.Join(args, ", "))
}

// IndexExpr is an array-subscript expression; accepted syntactically but not
// lowered to IR by this core (§6).
type IndexExpr struct {
	Span  position.Span
	Array Expr
	Index Expr
}

func (e *IndexExpr) GetSpan() position.Span       { return e.Span }
func (e *IndexExpr) exprNode()                    {}
func (e *IndexExpr) Accept(v Visitor) interface{} { return v.VisitIndexExpr(e) }
func (e *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Array.String(), e.Index.String())
}

// MemberExpr is a dot- or arrow-style member access.
type MemberExpr struct {
	Span     position.Span
	Object   Expr
	Member   string
	IsArrow  bool
}

func (e *MemberExpr) GetSpan() position.Span       { return e.Span }
func (e *MemberExpr) exprNode()                    {}
func (e *MemberExpr) Accept(v Visitor) interface{} { return v.VisitMemberExpr(e) }
func (e *MemberExpr) String() string {
	op := "."
	if e.IsArrow {
		op = "->"
	}
	return fmt.Sprintf("%s%s%s", e.Object.String(), op, e.Member)
}

// TernaryExpr is the "?:" conditional expression.
type TernaryExpr struct {
	Span position.Span
	Cond Expr
	Then Expr
	Else Expr
}

func (e *TernaryExpr) GetSpan() position.Span       { return e.Span }
func (e *TernaryExpr) exprNode()                    {}
func (e *TernaryExpr) Accept(v Visitor) interface{} { return v.VisitTernaryExpr(e) }
func (e *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Cond.String(), e.Then.String(), e.Else.String())
}
