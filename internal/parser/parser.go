// Package parser implements a hand-written recursive-descent parser that
// consumes the lexer's token stream and produces a generic parsetree.Node
// tree. It performs no semantic interpretation: declaration specifiers and
// operator spellings are carried through as raw text, and postfix chains as
// generic Call/Index/Dot/Arrow/PostfixExpr nodes, for internal/astbuild to
// interpret. This mirrors the
// left-recursion-by-iteration precedence-climbing cascade common to small
// hand-rolled C front ends, generalized to the reduced grammar described
// in the external-interfaces section.
package parser

import (
	"fmt"

	"github.com/novac-lang/novac/internal/lexer"
	"github.com/novac-lang/novac/internal/parsetree"
	"github.com/novac-lang/novac/internal/position"
)

// Parser consumes a flat token slice (already lexed from preprocessed
// text) and builds a parsetree.Node.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New creates a Parser over the given token stream, which must end in an
// EOF token (as Tokenize produces).
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse parses the full token stream as a translation unit.
func Parse(toks []lexer.Token) (*parsetree.Node, error) {
	p := New(toks)
	return p.parseTranslationUnit()
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) curSpan() position.Span {
	pos := p.cur().Pos
	return position.Span{Start: pos, End: pos}
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(kind lexer.Kind, text string) bool {
	t := p.cur()
	return t.Kind == kind && t.Text == text
}

func (p *Parser) atKind(kind lexer.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) expect(kind lexer.Kind, text string) (lexer.Token, error) {
	if !p.at(kind, text) {
		return lexer.Token{}, fmt.Errorf("%s: expected %q, got %q", p.cur().Pos, text, p.cur().Text)
	}
	return p.advance(), nil
}

var typeKeywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true, "void": true, "_Bool": true,
}

func (p *Parser) atTypeKeyword() bool {
	return p.cur().Kind == lexer.Keyword && typeKeywords[p.cur().Text]
}

// parseTranslationUnit parses a sequence of top-level function and
// variable declarations until EOF.
func (p *Parser) parseTranslationUnit() (*parsetree.Node, error) {
	start := p.curSpan()
	var decls []*parsetree.Node
	for !p.atKind(lexer.EOF) {
		d, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return parsetree.New("TranslationUnit", start, decls...), nil
}

// parseTopLevelDecl parses one declaration-specifier-led function or
// variable declaration.
func (p *Parser) parseTopLevelDecl() (*parsetree.Node, error) {
	start := p.curSpan()
	declSpec, err := p.parseDeclSpec()
	if err != nil {
		return nil, err
	}
	declarator, err := p.parseDeclarator()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.Punct, "(") {
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		if p.at(lexer.Punct, ";") {
			p.advance()
			return parsetree.New("FuncDecl", start, declSpec, declarator, params), nil
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return parsetree.New("FuncDecl", start, declSpec, declarator, params, body), nil
	}

	return p.finishVarDecl(start, declSpec, declarator)
}

// parseDeclSpec consumes the run of type-keyword tokens forming the
// declaration specifier (leaving it to astbuild to resolve them into a
// single type name, e.g. "int" vs future multi-word spellings).
func (p *Parser) parseDeclSpec() (*parsetree.Node, error) {
	start := p.curSpan()
	if !p.atTypeKeyword() {
		return nil, fmt.Errorf("%s: expected a type, got %q", p.cur().Pos, p.cur().Text)
	}
	var words []*parsetree.Node
	for p.atTypeKeyword() {
		t := p.advance()
		words = append(words, parsetree.Leaf("Word", t.Text, position.Span{Start: t.Pos, End: t.Pos}))
	}
	return parsetree.New("DeclSpec", start, words...), nil
}

// parseDeclarator consumes leading '*' tokens (pointer depth) followed by
// an identifier name.
func (p *Parser) parseDeclarator() (*parsetree.Node, error) {
	start := p.curSpan()
	var stars []*parsetree.Node
	for p.at(lexer.Punct, "*") {
		t := p.advance()
		stars = append(stars, parsetree.Leaf("Star", "*", position.Span{Start: t.Pos, End: t.Pos}))
	}
	if !p.atKind(lexer.Ident) {
		return nil, fmt.Errorf("%s: expected an identifier, got %q", p.cur().Pos, p.cur().Text)
	}
	name := p.advance()
	children := append(stars, parsetree.Leaf("Name", name.Text, position.Span{Start: name.Pos, End: name.Pos}))
	return parsetree.New("Declarator", start, children...), nil
}

func (p *Parser) parseParamList() (*parsetree.Node, error) {
	start := p.curSpan()
	if _, err := p.expect(lexer.Punct, "("); err != nil {
		return nil, err
	}
	var params []*parsetree.Node
	if p.at(lexer.Punct, ")") {
		p.advance()
		return parsetree.New("ParamList", start, params...), nil
	}
	if p.atKind(lexer.Keyword) && p.cur().Text == "void" && p.toks[min(p.pos+1, len(p.toks)-1)].Text == ")" {
		p.advance()
		p.advance()
		return parsetree.New("ParamList", start, params...), nil
	}
	for {
		pstart := p.curSpan()
		declSpec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		declarator, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		params = append(params, parsetree.New("Param", pstart, declSpec, declarator))
		if p.at(lexer.Punct, ",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.Punct, ")"); err != nil {
		return nil, err
	}
	return parsetree.New("ParamList", start, params...), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// finishVarDecl parses the optional "= expr" initializer and the
// terminating semicolon shared by top-level and block-scope variable
// declarations.
func (p *Parser) finishVarDecl(start position.Span, declSpec, declarator *parsetree.Node) (*parsetree.Node, error) {
	var init *parsetree.Node
	if p.at(lexer.Punct, "=") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		init = e
	}
	if _, err := p.expect(lexer.Punct, ";"); err != nil {
		return nil, err
	}
	children := []*parsetree.Node{declSpec, declarator}
	if init != nil {
		children = append(children, parsetree.New("Init", init.Span, init))
	}
	return parsetree.New("VarDecl", start, children...), nil
}

// ===== Statements =====

func (p *Parser) parseStmt() (*parsetree.Node, error) {
	switch {
	case p.at(lexer.Punct, "{"):
		return p.parseBlock()
	case p.at(lexer.Keyword, "return"):
		return p.parseReturn()
	case p.at(lexer.Keyword, "if"):
		return p.parseIf()
	case p.at(lexer.Keyword, "while"):
		return p.parseWhile()
	case p.at(lexer.Keyword, "for"):
		return p.parseFor()
	case p.at(lexer.Keyword, "break"):
		start := p.curSpan()
		p.advance()
		if _, err := p.expect(lexer.Punct, ";"); err != nil {
			return nil, err
		}
		return parsetree.New("Break", start), nil
	case p.at(lexer.Keyword, "continue"):
		start := p.curSpan()
		p.advance()
		if _, err := p.expect(lexer.Punct, ";"); err != nil {
			return nil, err
		}
		return parsetree.New("Continue", start), nil
	case p.atTypeKeyword():
		start := p.curSpan()
		declSpec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		declarator, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		return p.finishVarDecl(start, declSpec, declarator)
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (*parsetree.Node, error) {
	start := p.curSpan()
	if _, err := p.expect(lexer.Punct, "{"); err != nil {
		return nil, err
	}
	var stmts []*parsetree.Node
	for !p.at(lexer.Punct, "}") && !p.atKind(lexer.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(lexer.Punct, "}"); err != nil {
		return nil, err
	}
	return parsetree.New("Block", start, stmts...), nil
}

func (p *Parser) parseReturn() (*parsetree.Node, error) {
	start := p.curSpan()
	p.advance()
	if p.at(lexer.Punct, ";") {
		p.advance()
		return parsetree.New("Return", start), nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Punct, ";"); err != nil {
		return nil, err
	}
	return parsetree.New("Return", start, e), nil
}

func (p *Parser) parseIf() (*parsetree.Node, error) {
	start := p.curSpan()
	p.advance()
	if _, err := p.expect(lexer.Punct, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Punct, ")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.Keyword, "else") {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return parsetree.New("If", start, cond, then, els), nil
	}
	return parsetree.New("If", start, cond, then), nil
}

func (p *Parser) parseWhile() (*parsetree.Node, error) {
	start := p.curSpan()
	p.advance()
	if _, err := p.expect(lexer.Punct, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Punct, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return parsetree.New("While", start, cond, body), nil
}

var emptyMarker = parsetree.New("Empty", position.Span{})

func (p *Parser) parseFor() (*parsetree.Node, error) {
	start := p.curSpan()
	p.advance()
	if _, err := p.expect(lexer.Punct, "("); err != nil {
		return nil, err
	}

	init := emptyMarker
	switch {
	case p.at(lexer.Punct, ";"):
		p.advance()
	case p.atTypeKeyword():
		dstart := p.curSpan()
		declSpec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		declarator, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		d, err := p.finishVarDecl(dstart, declSpec, declarator)
		if err != nil {
			return nil, err
		}
		init = d
	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Punct, ";"); err != nil {
			return nil, err
		}
		init = parsetree.New("ExprStmt", e.Span, e)
	}

	cond := emptyMarker
	if !p.at(lexer.Punct, ";") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = e
	}
	if _, err := p.expect(lexer.Punct, ";"); err != nil {
		return nil, err
	}

	step := emptyMarker
	if !p.at(lexer.Punct, ")") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		step = e
	}
	if _, err := p.expect(lexer.Punct, ")"); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return parsetree.New("For", start, init, cond, step, body), nil
}

func (p *Parser) parseExprStmt() (*parsetree.Node, error) {
	start := p.curSpan()
	if p.at(lexer.Punct, ";") {
		p.advance()
		return parsetree.New("ExprStmt", start), nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Punct, ";"); err != nil {
		return nil, err
	}
	return parsetree.New("ExprStmt", start, e), nil
}

// ===== Expressions (precedence climbing) =====

func (p *Parser) parseExpr() (*parsetree.Node, error) {
	return p.parseAssignment()
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

func (p *Parser) parseAssignment() (*parsetree.Node, error) {
	lhs, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.atKind(lexer.Punct) && assignOps[p.cur().Text] {
		opTok := p.advance()
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		opLeaf := parsetree.Leaf("Op", opTok.Text, position.Span{Start: opTok.Pos, End: opTok.Pos})
		return parsetree.New("BinExpr", lhs.Span, lhs, opLeaf, rhs), nil
	}
	return lhs, nil
}

func (p *Parser) parseTernary() (*parsetree.Node, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.Punct, "?") {
		p.advance()
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Punct, ":"); err != nil {
			return nil, err
		}
		els, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return parsetree.New("Ternary", cond.Span, cond, then, els), nil
	}
	return cond, nil
}

func (p *Parser) parseBinaryLevel(next func() (*parsetree.Node, error), ops ...string) (*parsetree.Node, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for p.atKind(lexer.Punct) && containsStr(ops, p.cur().Text) {
		opTok := p.advance()
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		opLeaf := parsetree.Leaf("Op", opTok.Text, position.Span{Start: opTok.Pos, End: opTok.Pos})
		lhs = parsetree.New("BinExpr", lhs.Span, lhs, opLeaf, rhs)
	}
	return lhs, nil
}

func containsStr(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func (p *Parser) parseLogicalOr() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, "||")
}
func (p *Parser) parseLogicalAnd() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseBitOr, "&&")
}
func (p *Parser) parseBitOr() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseBitXor, "|")
}
func (p *Parser) parseBitXor() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseBitAnd, "^")
}
func (p *Parser) parseBitAnd() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseEquality, "&")
}
func (p *Parser) parseEquality() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseRelational, "==", "!=")
}
func (p *Parser) parseRelational() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseShift, "<", ">", "<=", ">=")
}
func (p *Parser) parseShift() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseAdditive, "<<", ">>")
}
func (p *Parser) parseAdditive() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, "+", "-")
}
func (p *Parser) parseMultiplicative() (*parsetree.Node, error) {
	return p.parseBinaryLevel(p.parseUnary, "*", "/", "%")
}

var unaryOps = map[string]bool{
	"+": true, "-": true, "!": true, "~": true, "&": true, "*": true, "++": true, "--": true,
}

func (p *Parser) parseUnary() (*parsetree.Node, error) {
	if p.atKind(lexer.Keyword) && p.cur().Text == "sizeof" {
		return p.parseSizeof()
	}
	if p.atKind(lexer.Punct) && unaryOps[p.cur().Text] {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		opLeaf := parsetree.Leaf("Op", opTok.Text, position.Span{Start: opTok.Pos, End: opTok.Pos})
		return parsetree.New("UnExpr", opLeaf.Span, opLeaf, operand), nil
	}
	return p.parsePostfix()
}

// parseSizeof consumes a `sizeof` expression. The grammar is ambiguous
// between `sizeof ( type-name )` and `sizeof ( expression )` without a
// symbol table, so this distinguishes purely syntactically: a parenthesized
// type keyword is a type-name, anything else is a unary expression. Per the
// documented stub behaviour, astbuild discards whichever operand shape was
// parsed and always yields the constant 4.
func (p *Parser) parseSizeof() (*parsetree.Node, error) {
	start := p.curSpan()
	p.advance() // sizeof

	if p.at(lexer.Punct, "(") {
		save := p.pos
		p.advance()
		if p.atTypeKeyword() {
			declSpec, err := p.parseDeclSpec()
			if err != nil {
				return nil, err
			}
			var stars []*parsetree.Node
			for p.at(lexer.Punct, "*") {
				t := p.advance()
				stars = append(stars, parsetree.Leaf("Star", "*", position.Span{Start: t.Pos, End: t.Pos}))
			}
			if _, err := p.expect(lexer.Punct, ")"); err != nil {
				return nil, err
			}
			typeName := parsetree.New("TypeName", start, append([]*parsetree.Node{declSpec}, stars...)...)
			return parsetree.New("Sizeof", start, typeName), nil
		}
		p.pos = save
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return parsetree.New("Sizeof", start, operand), nil
}

func (p *Parser) parsePostfix() (*parsetree.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(lexer.Punct, "("):
			p.advance()
			var args []*parsetree.Node
			if !p.at(lexer.Punct, ")") {
				for {
					a, err := p.parseAssignment()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if p.at(lexer.Punct, ",") {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expect(lexer.Punct, ")"); err != nil {
				return nil, err
			}
			children := append([]*parsetree.Node{expr}, args...)
			expr = parsetree.New("Call", expr.Span, children...)
		case p.at(lexer.Punct, "["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Punct, "]"); err != nil {
				return nil, err
			}
			expr = parsetree.New("Index", expr.Span, expr, idx)
		case p.at(lexer.Punct, ".") || p.at(lexer.Punct, "->"):
			arrow := p.cur().Text == "->"
			p.advance()
			if !p.atKind(lexer.Ident) {
				return nil, fmt.Errorf("%s: expected member name, got %q", p.cur().Pos, p.cur().Text)
			}
			name := p.advance()
			kind := "Dot"
			if arrow {
				kind = "Arrow"
			}
			member := parsetree.Leaf("Member", name.Text, position.Span{Start: name.Pos, End: name.Pos})
			expr = parsetree.New(kind, expr.Span, expr, member)
		case p.at(lexer.Punct, "++") || p.at(lexer.Punct, "--"):
			opTok := p.advance()
			opLeaf := parsetree.Leaf("Op", opTok.Text, position.Span{Start: opTok.Pos, End: opTok.Pos})
			expr = parsetree.New("PostfixExpr", expr.Span, expr, opLeaf)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (*parsetree.Node, error) {
	t := p.cur()
	switch {
	case t.Kind == lexer.IntLit:
		p.advance()
		n := parsetree.Leaf("IntLit", t.Text, position.Span{Start: t.Pos, End: t.Pos})
		n.IntVal = t.IntVal
		return n, nil
	case t.Kind == lexer.FloatLit:
		p.advance()
		n := parsetree.Leaf("FloatLit", t.Text, position.Span{Start: t.Pos, End: t.Pos})
		n.FloatVal = t.FloatVal
		return n, nil
	case t.Kind == lexer.CharLit:
		p.advance()
		n := parsetree.Leaf("CharLit", t.Text, position.Span{Start: t.Pos, End: t.Pos})
		n.CharVal = t.CharVal
		return n, nil
	case t.Kind == lexer.StringLit:
		p.advance()
		return parsetree.Leaf("StringLit", t.Text, position.Span{Start: t.Pos, End: t.Pos}), nil
	case t.Kind == lexer.Ident:
		p.advance()
		return parsetree.Leaf("Ident", t.Text, position.Span{Start: t.Pos, End: t.Pos}), nil
	case t.Kind == lexer.Punct && t.Text == "(":
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Punct, ")"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%s: unexpected token %q in expression", t.Pos, t.Text)
	}
}
