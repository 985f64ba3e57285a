package lexer

import (
	"testing"

	"github.com/cwbudde/pqparse/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	got := kinds(New(src).Tokenize())
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize(%q)[%d] = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestTokenizeLetExpression(t *testing.T) {
	assertKinds(t, "let x = 1 in x",
		token.Let, token.Identifier, token.Equal, token.NumericLiteral,
		token.Identifier, token.Identifier, token.EOF)
}

func TestTokenizeContextualKeywordsLexAsIdentifiers(t *testing.T) {
	// "then", "in", and "catch" have no dedicated token.Kind; they must
	// come back as plain Identifier tokens so the parser's IsOnConstantKind
	// text-matching convention has something to match against.
	for _, word := range []string{"then", "in", "catch"} {
		toks := New(word).Tokenize()
		if toks[0].Kind != token.Identifier {
			t.Errorf("Tokenize(%q)[0].Kind = %s, want Identifier", word, toks[0].Kind)
		}
		if toks[0].Data != word {
			t.Errorf("Tokenize(%q)[0].Data = %q, want %q", word, toks[0].Data, word)
		}
	}
}

func TestTokenizeOperatorsAndPunctuation(t *testing.T) {
	assertKinds(t, "a<=b<>c??d=>e",
		token.Identifier, token.LessOrEqual, token.Identifier, token.NotEqual,
		token.Identifier, token.DoubleQuestion, token.Identifier, token.FatArrow,
		token.Identifier, token.EOF)
}

func TestTokenizeQuotedIdentifierUnescapesDoubledQuote(t *testing.T) {
	toks := New(`#"a""b"`).Tokenize()
	if toks[0].Kind != token.QuotedIdentifier {
		t.Fatalf("Kind = %s, want QuotedIdentifier", toks[0].Kind)
	}
	if got, want := toks[0].Data, `a"b`; got != want {
		t.Errorf("Data = %q, want %q", got, want)
	}
}

func TestTokenizeHashKeyword(t *testing.T) {
	assertKinds(t, "#table", token.HashTable, token.EOF)
}

func TestAdvanceSkipsCombiningMarkColumn(t *testing.T) {
	// "e" + COMBINING ACUTE ACCENT (U+0301) is one grapheme cluster: the
	// combining mark must not advance the column, but the base rune before
	// it and the plain rune after it both must.
	l := New("éx")

	l.advance() // 'e'
	if l.column != 2 {
		t.Fatalf("column after base rune = %d, want 2", l.column)
	}
	l.advance() // combining acute accent
	if l.column != 2 {
		t.Fatalf("column after combining mark = %d, want unchanged at 2", l.column)
	}
	l.advance() // 'x'
	if l.column != 3 {
		t.Errorf("column after trailing rune = %d, want 3", l.column)
	}
}

func TestUnterminatedTextLiteralRecordsError(t *testing.T) {
	l := New(`"abc`)
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatal("expected an unterminated text literal error")
	}
}
