package preprocess

import (
	"strconv"
)

// evalCondExpr evaluates a #if/#elif expression: defined(NAME) or
// defined NAME, identifiers (1 if a macro by that name is defined, else 0),
// decimal integers, parentheses, '!', "&&", "||" (&& binds tighter than ||).
// The evaluator is total: any unrecognised construct yields 0 rather than
// an error, per §4.2.
func (p *Preprocessor) evalCondExpr(expr string) (bool, error) {
	toks := tokenizeCondExpr(expr)
	ps := &condParser{toks: toks, pp: p}
	v := ps.parseOr()
	return v != 0, nil
}

type condParser struct {
	toks []string
	pos  int
	pp   *Preprocessor
}

func (c *condParser) peek() string {
	if c.pos >= len(c.toks) {
		return ""
	}
	return c.toks[c.pos]
}

func (c *condParser) next() string {
	t := c.peek()
	c.pos++
	return t
}

func (c *condParser) parseOr() int64 {
	v := c.parseAnd()
	for c.peek() == "||" {
		c.next()
		rhs := c.parseAnd()
		if v != 0 || rhs != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v
}

func (c *condParser) parseAnd() int64 {
	v := c.parseUnary()
	for c.peek() == "&&" {
		c.next()
		rhs := c.parseUnary()
		if v != 0 && rhs != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v
}

func (c *condParser) parseUnary() int64 {
	if c.peek() == "!" {
		c.next()
		if c.parseUnary() == 0 {
			return 1
		}
		return 0
	}
	return c.parsePrimary()
}

func (c *condParser) parsePrimary() int64 {
	tok := c.next()
	switch {
	case tok == "(":
		v := c.parseOr()
		if c.peek() == ")" {
			c.next()
		}
		return v
	case tok == "defined":
		name := ""
		if c.peek() == "(" {
			c.next()
			name = c.next()
			if c.peek() == ")" {
				c.next()
			}
		} else {
			name = c.next()
		}
		if _, ok := c.pp.macros[name]; ok {
			return 1
		}
		return 0
	case tok == "":
		return 0
	default:
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return n
		}
		// Bare identifier: 1 if defined as a macro, else 0.
		if _, ok := c.pp.macros[tok]; ok {
			return 1
		}
		return 0
	}
}

// tokenizeCondExpr splits a conditional expression into the miniature token
// set the evaluator understands, unknown characters are simply dropped
// (the evaluator is total and degrades unrecognised input to 0).
func tokenizeCondExpr(expr string) []string {
	var toks []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')' || c == '!':
			toks = append(toks, string(c))
			i++
		case c == '&' && i+1 < len(expr) && expr[i+1] == '&':
			toks = append(toks, "&&")
			i += 2
		case c == '|' && i+1 < len(expr) && expr[i+1] == '|':
			toks = append(toks, "||")
			i += 2
		case isAlpha(c):
			j := i
			for j < len(expr) && isAlnum(expr[j]) {
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		default:
			i++
		}
	}
	return toks
}
