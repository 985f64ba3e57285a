package parser

import (
	"strings"

	"github.com/cwbudde/pqparse/token"
)

// Reconstruct rebuilds source text by concatenating the token stream's
// literal text, placing each token at its original line and column
// (§8.7's round trip). The gaps between tokens are refilled with spaces
// and line feeds only: comments are not reproduced (the lexer drops them),
// tabs come back as spaces, and carriage returns and trailing whitespace
// at line ends are dropped, so the result is byte-identical to the input
// only for input without comments or such whitespace.
// This is ambient CLI tooling (a collaborator for `pqparse fmt`-style
// commands), not part of the core parse contract itself.
//
// Caveat: TextLiteral and QuotedIdentifier tokens carry their *unescaped*
// inner text in Token.Data (the lexer strips surrounding quotes and
// collapses doubled-quote escapes), so Reconstruct re-quotes them rather
// than replaying the original escaped spelling; an input using the longer
// escaped-quote form round-trips to its own canonical (shorter) quoting,
// not necessarily byte-identical to source that used redundant escaping.
// Every other token kind's Data is exactly its source spelling.
func (ok *ParseOk) Reconstruct() string {
	tokens := ok.State.Tokens
	var b strings.Builder
	line, col := 1, 1
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		for line < tok.PositionStart.Line {
			b.WriteByte('\n')
			line++
			col = 1
		}
		for col < tok.PositionStart.LineCodeUnit+1 {
			b.WriteByte(' ')
			col++
		}
		text := literalText(tok)
		b.WriteString(text)
		line = tok.PositionEnd.Line
		col = tok.PositionEnd.LineCodeUnit + 1
	}
	return b.String()
}

// literalText renders tok's source spelling. Most kinds carry it verbatim
// in Data; the two quoted kinds re-escape their unescaped Data (see the
// round-trip caveat above).
func literalText(tok token.Token) string {
	switch tok.Kind {
	case token.TextLiteral:
		return `"` + strings.ReplaceAll(tok.Data, `"`, `""`) + `"`
	case token.QuotedIdentifier:
		return `#"` + strings.ReplaceAll(tok.Data, `"`, `""`) + `"`
	default:
		return tok.Data
	}
}
