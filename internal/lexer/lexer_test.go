package lexer

import (
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"sn/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, source string, want ...token.Kind) {
	t.Helper()
	got := kinds(New(source, "test.sn").ScanTokens())
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d got %v, want %v (full: %v)", source, i, got[i], want[i], got)
		}
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	assertKinds(t, "+ - * / % == != < <= > >= ! && ||",
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.EqualEqual, token.NotEqual, token.Less, token.LessEq,
		token.Greater, token.GreaterEq, token.Bang, token.AndAnd, token.OrOr, token.EOF)
}

func TestKeywords(t *testing.T) {
	assertKinds(t, "fn var return import as if else while for true false nil",
		token.Fn, token.Var, token.Return, token.Import, token.As, token.If,
		token.Else, token.While, token.For, token.TrueKw, token.FalseKw, token.NilKw, token.EOF)
}

func TestTypeKeywordsAreNotIdentifiers(t *testing.T) {
	assertKinds(t, "int long double char string bool void any",
		token.IntType, token.LongType, token.DoubleType, token.CharType,
		token.StringType, token.BoolType, token.VoidType, token.AnyType, token.EOF)
}

func TestIntegerVsDoubleLiteral(t *testing.T) {
	toks := New("42 3.14 2e10 5.5e-3", "t.sn").ScanTokens()
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5", len(toks))
	}
	for _, want := range []string{"42", "3.14", "2e10", "5.5e-3"} {
		found := false
		for _, tok := range toks {
			if tok.Lexeme == want && tok.Kind == token.NumberLit {
				found = true
			}
		}
		if !found {
			t.Errorf("missing numeric literal %q", want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := New(`"line\n\ttab\\\"0\0"`, "t.sn").ScanTokens()
	if toks[0].Kind != token.StringLit {
		t.Fatalf("want StringLit, got %v", toks[0].Kind)
	}
	want := "line\n\ttab\\\"0\x00"
	if toks[0].Lexeme != want {
		t.Fatalf("got %q, want %q", toks[0].Lexeme, want)
	}
}

func TestSimpleStringHasNoInterpolationMarkers(t *testing.T) {
	assertKinds(t, `"hello"`, token.StringLit, token.EOF)
}

func TestInterpolatedString(t *testing.T) {
	toks := New(`"hi ${name} and ${1+2}!"`, "t.sn").ScanTokens()
	got := kinds(toks)
	want := []token.Kind{
		token.InterpPart, token.Ident, token.InterpPart,
		token.NumberLit, token.Plus, token.NumberLit, token.InterpPart,
		token.InterpEnd, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want shape %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v (all: %v)", i, got[i], want[i], got)
		}
	}
	if toks[0].Lexeme != "hi " {
		t.Errorf("first fragment = %q", toks[0].Lexeme)
	}
}

func TestUnterminatedStringIsErrorToken(t *testing.T) {
	toks := New(`"unterminated`, "t.sn").ScanTokens()
	if toks[0].Kind != token.Error {
		t.Fatalf("want Error token, got %v", toks[0].Kind)
	}
}

func TestUnknownCharacterIsErrorToken(t *testing.T) {
	toks := New("`", "t.sn").ScanTokens()
	if toks[0].Kind != token.Error {
		t.Fatalf("want Error token, got %v", toks[0].Kind)
	}
}

func TestLineTrackingAcrossNewlines(t *testing.T) {
	toks := New("var x\nvar y", "t.sn").ScanTokens()
	var lineOfSecondVar int
	count := 0
	for _, tok := range toks {
		if tok.Kind == token.Var {
			count++
			if count == 2 {
				lineOfSecondVar = tok.Line
			}
		}
	}
	if lineOfSecondVar != 2 {
		t.Fatalf("second var on line %d, want 2", lineOfSecondVar)
	}
}

func TestLineCommentsAndBlockCommentsSkipped(t *testing.T) {
	assertKinds(t, "var x // trailing comment\n/* block */ var y",
		token.Var, token.Ident, token.Var, token.Ident, token.EOF)
}

func TestCharLiteral(t *testing.T) {
	toks := New(`'a' '\n'`, "t.sn").ScanTokens()
	if toks[0].Kind != token.CharLit || toks[0].Lexeme != "a" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != token.CharLit || toks[1].Lexeme != "\n" {
		t.Fatalf("got %+v", toks[1])
	}
}

// TestTxtarFixtureSourceAndExpectedKinds bundles a source file and its
// expected token-kind dump as a single in-memory txtar archive, the
// standard Go-tooling way to ship a small multi-file fixture without a
// testdata directory per file.
func TestTxtarFixtureSourceAndExpectedKinds(t *testing.T) {
	archive := txtar.Parse([]byte(`
-- source.sn --
var total = 1 + 2
-- expect.kinds --
VAR IDENT = NUMBER + NUMBER EOF
`))

	var source, expect string
	for _, f := range archive.Files {
		switch f.Name {
		case "source.sn":
			source = string(f.Data)
		case "expect.kinds":
			expect = string(f.Data)
		}
	}
	if source == "" || expect == "" {
		t.Fatalf("fixture missing a file: %+v", archive.Files)
	}

	toks := New(source, "fixture.sn").ScanTokens()
	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = string(tok.Kind)
	}
	want := strings.Fields(expect)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestFilenameAttribution(t *testing.T) {
	toks := New("var x", "main.sn").ScanTokens()
	for _, tok := range toks {
		if tok.Filename != "main.sn" {
			t.Fatalf("token %+v missing filename attribution", tok)
		}
	}
}
