// Package astbuild interprets the generic parsetree produced by the parser
// into the semantic ast tree: it resolves declaration specifiers into type
// strings, tags raw operator spellings with their ast.BinOp/ast.UnOp kind,
// turns the parser's Call/Index/Dot/Arrow/PostfixExpr nodes into call,
// index, member and post-increment/decrement nodes, and decomposes for-loop
// clauses into their three optional slots.
//
// The builder is permissive where it can be: an unrecognised statement
// shape becomes a no-op expression statement, an unrecognised operator
// spelling falls back to a default operator, and an empty declaration
// specifier defaults to int. A node with fewer children than its Kind
// requires (function, variable, if, while, for, binary, unary, postfix or
// call), or a top-level or expression node of an unrecognised Kind, can
// only indicate a bug in the parser and is reported as a fatal error rather
// than silently patched over.
package astbuild

import (
	"strings"

	"github.com/novac-lang/novac/internal/ast"
	"github.com/novac-lang/novac/internal/errors"
	"github.com/novac-lang/novac/internal/parsetree"
)

// Build interprets a TranslationUnit parse tree into an *ast.TranslationUnit.
func Build(tree *parsetree.Node) (*ast.TranslationUnit, error) {
	tu := &ast.TranslationUnit{Span: tree.Span}
	for _, child := range tree.Children {
		d, err := buildTopLevelDecl(child)
		if err != nil {
			return nil, err
		}
		tu.Decls = append(tu.Decls, d)
	}
	return tu, nil
}

// declType resolves a DeclSpec + Declarator pair into a type spelling,
// e.g. DeclSpec{int} + Declarator{**, p} -> "int**".
func declType(declSpec, declarator *parsetree.Node) string {
	var words []string
	for _, w := range declSpec.Children {
		words = append(words, w.Text)
	}
	base := strings.Join(words, " ")
	if base == "" {
		base = "int" // permissive degrade: assume int when unspecified
	}
	stars := 0
	for _, c := range declarator.Children {
		if c.Kind == "Star" {
			stars++
		}
	}
	return base + strings.Repeat("*", stars)
}

func declName(declarator *parsetree.Node) string {
	for _, c := range declarator.Children {
		if c.Kind == "Name" {
			return c.Text
		}
	}
	return ""
}

func buildTopLevelDecl(node *parsetree.Node) (ast.Decl, error) {
	switch node.Kind {
	case "FuncDecl":
		return buildFuncDecl(node)
	case "VarDecl":
		return buildVarDecl(node)
	default:
		return nil, errors.ASTBuildErrorf(node.Span.Start, "unrecognised top-level declaration shape %q", node.Kind)
	}
}

func buildFuncDecl(node *parsetree.Node) (*ast.FuncDecl, error) {
	if len(node.Children) < 3 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed function declaration: expected declSpec, declarator and parameter list")
	}
	declSpec, declarator, paramList := node.Children[0], node.Children[1], node.Children[2]

	fn := &ast.FuncDecl{
		Span:       node.Span,
		Name:       declName(declarator),
		ReturnType: declType(declSpec, declarator),
	}
	for _, p := range paramList.Children {
		if p.Kind != "Param" || len(p.Children) < 2 {
			continue
		}
		pDeclSpec, pDeclarator := p.Children[0], p.Children[1]
		fn.Params = append(fn.Params, &ast.Param{
			Span: p.Span,
			Name: declName(pDeclarator),
			Type: declType(pDeclSpec, pDeclarator),
		})
	}

	if len(node.Children) >= 4 {
		body, err := buildBlock(node.Children[3])
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}
	return fn, nil
}

func buildVarDecl(node *parsetree.Node) (*ast.VarDecl, error) {
	if len(node.Children) < 2 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed variable declaration: expected declSpec and declarator")
	}
	declSpec, declarator := node.Children[0], node.Children[1]
	v := &ast.VarDecl{
		Span: node.Span,
		Name: declName(declarator),
		Type: declType(declSpec, declarator),
	}
	if initNode := node.Find("Init"); initNode != nil && len(initNode.Children) > 0 {
		e, err := buildExpr(initNode.Children[0])
		if err != nil {
			return nil, err
		}
		v.Init = e
	}
	return v, nil
}

func buildBlock(node *parsetree.Node) (*ast.BlockStmt, error) {
	b := &ast.BlockStmt{Span: node.Span}
	for _, c := range node.Children {
		s, err := buildStmt(c)
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	return b, nil
}

func buildStmt(node *parsetree.Node) (ast.Stmt, error) {
	switch node.Kind {
	case "Block":
		return buildBlock(node)
	case "VarDecl":
		return buildVarDecl(node)
	case "ExprStmt":
		s := &ast.ExprStmt{Span: node.Span}
		if len(node.Children) > 0 {
			e, err := buildExpr(node.Children[0])
			if err != nil {
				return nil, err
			}
			s.Expr = e
		}
		return s, nil
	case "Return":
		s := &ast.ReturnStmt{Span: node.Span}
		if len(node.Children) > 0 {
			e, err := buildExpr(node.Children[0])
			if err != nil {
				return nil, err
			}
			s.Value = e
		}
		return s, nil
	case "If":
		return buildIf(node)
	case "While":
		return buildWhile(node)
	case "For":
		return buildFor(node)
	case "Break":
		return &ast.BreakStmt{Span: node.Span}, nil
	case "Continue":
		return &ast.ContinueStmt{Span: node.Span}, nil
	default:
		// Permissive degrade: treat any unrecognised statement shape as a
		// no-op expression statement rather than aborting the build.
		return &ast.ExprStmt{Span: node.Span}, nil
	}
}

func buildIf(node *parsetree.Node) (*ast.IfStmt, error) {
	if len(node.Children) < 2 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed if statement")
	}
	cond, err := buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}
	then, err := buildStmt(node.Children[1])
	if err != nil {
		return nil, err
	}
	s := &ast.IfStmt{Span: node.Span, Cond: cond, Then: then}
	if len(node.Children) >= 3 {
		els, err := buildStmt(node.Children[2])
		if err != nil {
			return nil, err
		}
		s.Else = els
	}
	return s, nil
}

func buildWhile(node *parsetree.Node) (*ast.WhileStmt, error) {
	if len(node.Children) < 2 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed while statement")
	}
	cond, err := buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}
	body, err := buildStmt(node.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Span: node.Span, Cond: cond, Body: body}, nil
}

// buildFor decomposes the four-slot For parse-tree node (init, cond, step,
// body) into ast.ForStmt, treating the parser's "Empty" marker as an
// absent clause.
func buildFor(node *parsetree.Node) (*ast.ForStmt, error) {
	if len(node.Children) < 4 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed for statement")
	}
	initNode, condNode, stepNode, bodyNode := node.Children[0], node.Children[1], node.Children[2], node.Children[3]

	f := &ast.ForStmt{Span: node.Span}

	if initNode.Kind != "Empty" {
		init, err := buildStmt(initNode)
		if err != nil {
			return nil, err
		}
		f.Init = init
	}
	if condNode.Kind != "Empty" {
		cond, err := buildExpr(condNode)
		if err != nil {
			return nil, err
		}
		f.Cond = cond
	}
	if stepNode.Kind != "Empty" {
		step, err := buildExpr(stepNode)
		if err != nil {
			return nil, err
		}
		f.Step = step
	}
	body, err := buildStmt(bodyNode)
	if err != nil {
		return nil, err
	}
	f.Body = body
	return f, nil
}

var binOpByText = map[string]ast.BinOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"<": ast.OpLt, ">": ast.OpGt, "<=": ast.OpLe, ">=": ast.OpGe, "==": ast.OpEq, "!=": ast.OpNe,
	"&&": ast.OpLAnd, "||": ast.OpLOr, "&": ast.OpBitAnd, "|": ast.OpBitOr, "^": ast.OpBitXor,
	"<<": ast.OpShl, ">>": ast.OpShr, "=": ast.OpAssign, "+=": ast.OpAddAssign, "-=": ast.OpSubAssign,
	"*=": ast.OpMulAssign, "/=": ast.OpDivAssign, "%=": ast.OpModAssign,
}

var unOpByText = map[string]ast.UnOp{
	"+": ast.OpPos, "-": ast.OpNeg, "!": ast.OpNot, "~": ast.OpBitNot,
	"++": ast.OpIncr, "--": ast.OpDecr, "&": ast.OpAddr, "*": ast.OpDeref,
}

func buildExpr(node *parsetree.Node) (ast.Expr, error) {
	switch node.Kind {
	case "IntLit":
		return &ast.Literal{Span: node.Span, Kind: ast.IntLit, IntVal: node.IntVal}, nil
	case "FloatLit":
		return &ast.Literal{Span: node.Span, Kind: ast.FloatLit, FloatVal: node.FloatVal}, nil
	case "CharLit":
		return &ast.Literal{Span: node.Span, Kind: ast.CharLit, CharVal: node.CharVal}, nil
	case "StringLit":
		return &ast.Literal{Span: node.Span, Kind: ast.StringLit, StringVal: node.Text}, nil
	case "Ident":
		return &ast.Ident{Span: node.Span, Name: node.Text}, nil
	case "BinExpr":
		return buildBinExpr(node)
	case "UnExpr":
		return buildUnExpr(node)
	case "PostfixExpr":
		return buildPostfixExpr(node)
	case "Call":
		return buildCall(node)
	case "Index":
		arr, err := buildExpr(node.Children[0])
		if err != nil {
			return nil, err
		}
		idx, err := buildExpr(node.Children[1])
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Span: node.Span, Array: arr, Index: idx}, nil
	case "Dot", "Arrow":
		obj, err := buildExpr(node.Children[0])
		if err != nil {
			return nil, err
		}
		member := ""
		if len(node.Children) > 1 {
			member = node.Children[1].Text
		}
		return &ast.MemberExpr{Span: node.Span, Object: obj, Member: member, IsArrow: node.Kind == "Arrow"}, nil
	case "Sizeof":
		// The operand (a type-name or an arbitrary expression) is parsed
		// but deliberately never built or evaluated: sizeof is a stub that
		// always yields 4, matching the behaviour this was distilled from.
		return &ast.Literal{Span: node.Span, Kind: ast.IntLit, IntVal: 4}, nil
	case "Ternary":
		cond, err := buildExpr(node.Children[0])
		if err != nil {
			return nil, err
		}
		then, err := buildExpr(node.Children[1])
		if err != nil {
			return nil, err
		}
		els, err := buildExpr(node.Children[2])
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Span: node.Span, Cond: cond, Then: then, Else: els}, nil
	default:
		return nil, errors.ASTBuildErrorf(node.Span.Start, "unrecognised expression shape %q", node.Kind)
	}
}

func buildBinExpr(node *parsetree.Node) (ast.Expr, error) {
	if len(node.Children) != 3 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed binary expression")
	}
	left, err := buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}
	opText := node.Children[1].Text
	right, err := buildExpr(node.Children[2])
	if err != nil {
		return nil, err
	}
	op, ok := binOpByText[opText]
	if !ok {
		op = ast.OpAdd // permissive degrade: unrecognised operator text
	}
	return &ast.BinaryExpr{Span: node.Span, Op: op, Left: left, Right: right}, nil
}

func buildUnExpr(node *parsetree.Node) (ast.Expr, error) {
	if len(node.Children) != 2 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed unary expression")
	}
	opText := node.Children[0].Text
	operand, err := buildExpr(node.Children[1])
	if err != nil {
		return nil, err
	}
	op, ok := unOpByText[opText]
	if !ok {
		op = ast.OpPos
	}
	return &ast.UnaryExpr{Span: node.Span, Op: op, Operand: operand, Postfix: false}, nil
}

func buildPostfixExpr(node *parsetree.Node) (ast.Expr, error) {
	if len(node.Children) != 2 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed postfix expression")
	}
	operand, err := buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}
	opText := node.Children[1].Text
	op, ok := unOpByText[opText]
	if !ok {
		op = ast.OpIncr
	}
	return &ast.UnaryExpr{Span: node.Span, Op: op, Operand: operand, Postfix: true}, nil
}

func buildCall(node *parsetree.Node) (ast.Expr, error) {
	if len(node.Children) < 1 {
		return nil, errors.ASTBuildErrorf(node.Span.Start, "malformed call expression")
	}
	callee, err := buildExpr(node.Children[0])
	if err != nil {
		return nil, err
	}
	call := &ast.CallExpr{Span: node.Span, Callee: callee}
	for _, a := range node.Children[1:] {
		arg, err := buildExpr(a)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}
