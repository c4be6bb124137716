package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeKeywordsAndIdents(t *testing.T) {
	toks, err := Tokenize("t.c", "int main")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 3 { // int, main, EOF
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != Keyword || toks[0].Text != "int" {
		t.Fatalf("expected keyword int, got %+v", toks[0])
	}
	if toks[1].Kind != Ident || toks[1].Text != "main" {
		t.Fatalf("expected ident main, got %+v", toks[1])
	}
	if toks[2].Kind != EOF {
		t.Fatalf("expected trailing EOF, got %+v", toks[2])
	}
}

func TestTokenizeIntAndFloatLiterals(t *testing.T) {
	toks, err := Tokenize("t.c", "42 0x2A 3.14")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != IntLit || toks[0].IntVal != 42 {
		t.Fatalf("expected decimal 42, got %+v", toks[0])
	}
	if toks[1].Kind != IntLit || toks[1].IntVal != 42 {
		t.Fatalf("expected hex 0x2A == 42, got %+v", toks[1])
	}
	if toks[2].Kind != FloatLit || toks[2].FloatVal != 3.14 {
		t.Fatalf("expected float 3.14, got %+v", toks[2])
	}
}

func TestTokenizeCharAndStringLiterals(t *testing.T) {
	toks, err := Tokenize("t.c", `'a' "hi"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != CharLit || toks[0].CharVal != 'a' {
		t.Fatalf("expected char literal 'a', got %+v", toks[0])
	}
	if toks[1].Kind != StringLit || toks[1].Text != "hi" {
		t.Fatalf("expected string literal \"hi\", got %+v", toks[1])
	}
}

func TestTokenizeMultiCharPunctuators(t *testing.T) {
	toks, err := Tokenize("t.c", "<<= == != &&")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []string{"<<=", "==", "!=", "&&"}
	for i, w := range want {
		if toks[i].Kind != Punct || toks[i].Text != w {
			t.Fatalf("token %d: expected punct %q, got %+v", i, w, toks[i])
		}
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, err := Tokenize("t.c", "int /* block */ x // line\n= 1;")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	ks := kinds(toks)
	if ks[0] != Keyword || ks[1] != Ident || ks[2] != Punct {
		t.Fatalf("expected comments to be skipped, got %v", ks)
	}
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, err := Tokenize("t.c", "int\nmain")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 1 {
		t.Fatalf("expected main at line 2 column 1, got %+v", toks[1].Pos)
	}
}
