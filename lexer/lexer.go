// Package lexer tokenizes Power Query (M) source text into the token
// stream the parser core consumes. The core treats lexing as an external
// collaborator (spec §1); this package exists so the module is runnable
// and testable end to end, not because the parser's design depends on it.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cwbudde/pqparse/token"
	"golang.org/x/text/unicode/norm"
)

// Error describes a lexical error. The core never constructs these; they
// only arise from malformed input before the parser ever sees a token.
type Error struct {
	Message  string
	Position token.Position
}

func (e Error) Error() string { return e.Message }

// Lexer scans an M source string into a token slice. It is single-use:
// call Tokenize once and discard it.
type Lexer struct {
	src    []rune
	pos    int // rune index
	line   int
	lineCU int // UTF-16 code units consumed on the current line
	absCU  int // UTF-16 code units consumed overall
	column int // grapheme-cluster column, 1-based

	errors []Error
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{
		src:    []rune(src),
		line:   1,
		lineCU: 0,
		absCU:  0,
		column: 1,
	}
}

// Errors returns lexical errors accumulated during Tokenize.
func (l *Lexer) Errors() []Error { return l.errors }

// Tokenize scans the entire input and returns the token stream, terminated
// by a single EOF token. Comments are dropped, matching spec §3.1's closed
// token-kind enumeration (comments excluded).
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		l.skipTrivia()
		start := l.currentPosition()
		if l.pos >= len(l.src) {
			out = append(out, token.Token{Kind: token.EOF, PositionStart: start, PositionEnd: start})
			return out
		}
		tok := l.scanOne(start)
		out = append(out, tok)
	}
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{Line: l.line, LineCodeUnit: l.lineCU, CodeUnit: l.absCU, GraphemeColumn: l.column}
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// advance consumes one rune, updating every position coordinate. A rune
// with a non-zero canonical combining class (accents and other marks that
// normalize onto a preceding base rune) does not advance the grapheme
// column: a base rune plus its combining marks is one diagnostic "column",
// which is the case grapheme awareness matters for in practice even though
// it is not a full UAX #29 text-segmentation implementation (see
// DESIGN.md).
func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	cu := utf16CodeUnits(r)
	if r == '\n' {
		l.line++
		l.lineCU = 0
		l.column = 1
	} else {
		l.lineCU += cu
		if !isCombiningMark(r) {
			l.column++
		}
	}
	l.absCU += cu
	return r
}

func utf16CodeUnits(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// isCombiningMark reports whether r normalizes onto a preceding base rune
// rather than starting a new grapheme cluster of its own, per its
// canonical combining class.
func isCombiningMark(r rune) bool {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return norm.NFC.Properties(buf[:n]).CCC() != 0
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		r := l.peekRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peekRune() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekRune() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) errorf(pos token.Position, msg string) {
	l.errors = append(l.errors, Error{Message: msg, Position: pos})
}

func (l *Lexer) scanOne(start token.Position) token.Token {
	r := l.peekRune()

	switch {
	case r == '#':
		return l.scanHash(start)
	case r == '"':
		return l.scanText(start)
	case unicode.IsDigit(r):
		return l.scanNumber(start)
	case isIdentStart(r):
		return l.scanIdentifierOrKeyword(start)
	default:
		return l.scanOperator(start)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) finish(start token.Position, kind token.Kind, sb *strings.Builder) token.Token {
	return token.Token{Kind: kind, Data: sb.String(), PositionStart: start, PositionEnd: l.currentPosition()}
}

func (l *Lexer) scanIdentifierOrKeyword(start token.Position) token.Token {
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peekRune()) {
		sb.WriteRune(l.advance())
	}
	// allow a single trailing '.' run as part of quoted-identifier-free
	// dotted section-member access is handled by the parser, not here.
	text := sb.String()
	if kind, ok := token.Keywords[strings.ToLower(text)]; ok {
		return token.Token{Kind: kind, Data: text, PositionStart: start, PositionEnd: l.currentPosition()}
	}
	return token.Token{Kind: token.Identifier, Data: text, PositionStart: start, PositionEnd: l.currentPosition()}
}

// scanHash handles '#' followed either by a quoted identifier (#"a b") or a
// hash keyword (#table, #date, ...). Any other '#', a lone '#' included, is
// reported here as an unrecognized '#' keyword and returned as an ILLEGAL
// token, since M has no bare '#' token.
func (l *Lexer) scanHash(start token.Position) token.Token {
	l.advance() // consume '#'
	if l.peekRune() == '"' {
		tok := l.scanText(start)
		tok.Kind = token.QuotedIdentifier
		return tok
	}
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peekRune()) {
		sb.WriteRune(l.advance())
	}
	name := sb.String()
	if kind, ok := token.HashKeywords[strings.ToLower(name)]; ok {
		return token.Token{Kind: kind, Data: "#" + name, PositionStart: start, PositionEnd: l.currentPosition()}
	}
	l.errorf(start, "unrecognized '#' keyword: #"+name)
	return token.Token{Kind: token.ILLEGAL, Data: "#" + name, PositionStart: start, PositionEnd: l.currentPosition()}
}

// scanText scans a double-quoted text literal, with "" as an escaped quote.
func (l *Lexer) scanText(start token.Position) token.Token {
	var sb strings.Builder
	l.advance() // opening quote
	for {
		if l.pos >= len(l.src) {
			l.errorf(start, "unterminated text literal")
			break
		}
		r := l.peekRune()
		if r == '"' {
			if l.peekAt(1) == '"' {
				l.advance()
				l.advance()
				sb.WriteRune('"')
				continue
			}
			l.advance()
			break
		}
		sb.WriteRune(l.advance())
	}
	return token.Token{Kind: token.TextLiteral, Data: sb.String(), PositionStart: start, PositionEnd: l.currentPosition()}
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	var sb strings.Builder
	if l.peekRune() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		sb.WriteRune(l.advance())
		sb.WriteRune(l.advance())
		for l.pos < len(l.src) && isHexDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
		return l.finish(start, token.HexLiteral, &sb)
	}

	for l.pos < len(l.src) && unicode.IsDigit(l.peekRune()) {
		sb.WriteRune(l.advance())
	}
	if l.peekRune() == '.' && unicode.IsDigit(l.peekAt(1)) {
		sb.WriteRune(l.advance())
		for l.pos < len(l.src) && unicode.IsDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
	}
	if l.peekRune() == 'e' || l.peekRune() == 'E' {
		save := l.pos
		exp := l.advanceExponent(&sb)
		if !exp {
			l.pos = save
		}
	}
	return l.finish(start, token.NumericLiteral, &sb)
}

func (l *Lexer) advanceExponent(sb *strings.Builder) bool {
	start := l.pos
	var tmp strings.Builder
	tmp.WriteRune(l.advance()) // e/E
	if l.peekRune() == '+' || l.peekRune() == '-' {
		tmp.WriteRune(l.advance())
	}
	if !unicode.IsDigit(l.peekRune()) {
		l.pos = start
		return false
	}
	for l.pos < len(l.src) && unicode.IsDigit(l.peekRune()) {
		tmp.WriteRune(l.advance())
	}
	sb.WriteString(tmp.String())
	return true
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	r := l.advance()
	two := func(next rune, kind token.Kind, oneKind token.Kind, lit string) token.Token {
		if l.peekRune() == next {
			l.advance()
			return token.Token{Kind: kind, Data: lit, PositionStart: start, PositionEnd: l.currentPosition()}
		}
		return token.Token{Kind: oneKind, Data: string(r), PositionStart: start, PositionEnd: l.currentPosition()}
	}

	switch r {
	case '[':
		return token.Token{Kind: token.LeftBracket, Data: "[", PositionStart: start, PositionEnd: l.currentPosition()}
	case ']':
		return token.Token{Kind: token.RightBracket, Data: "]", PositionStart: start, PositionEnd: l.currentPosition()}
	case '(':
		return token.Token{Kind: token.LeftParen, Data: "(", PositionStart: start, PositionEnd: l.currentPosition()}
	case ')':
		return token.Token{Kind: token.RightParen, Data: ")", PositionStart: start, PositionEnd: l.currentPosition()}
	case '{':
		return token.Token{Kind: token.LeftBrace, Data: "{", PositionStart: start, PositionEnd: l.currentPosition()}
	case '}':
		return token.Token{Kind: token.RightBrace, Data: "}", PositionStart: start, PositionEnd: l.currentPosition()}
	case ',':
		return token.Token{Kind: token.Comma, Data: ",", PositionStart: start, PositionEnd: l.currentPosition()}
	case ';':
		return token.Token{Kind: token.Semicolon, Data: ";", PositionStart: start, PositionEnd: l.currentPosition()}
	case ':':
		return token.Token{Kind: token.Colon, Data: ":", PositionStart: start, PositionEnd: l.currentPosition()}
	case '=':
		return two('>', token.FatArrow, token.Equal, "=>")
	case '<':
		if l.peekRune() == '>' {
			l.advance()
			return token.Token{Kind: token.NotEqual, Data: "<>", PositionStart: start, PositionEnd: l.currentPosition()}
		}
		return two('=', token.LessOrEqual, token.LessThan, "<=")
	case '>':
		return two('=', token.GreaterOrEqual, token.GreaterThan, ">=")
	case '+':
		return token.Token{Kind: token.Plus, Data: "+", PositionStart: start, PositionEnd: l.currentPosition()}
	case '-':
		return token.Token{Kind: token.Minus, Data: "-", PositionStart: start, PositionEnd: l.currentPosition()}
	case '*':
		return token.Token{Kind: token.Asterisk, Data: "*", PositionStart: start, PositionEnd: l.currentPosition()}
	case '/':
		return token.Token{Kind: token.Division, Data: "/", PositionStart: start, PositionEnd: l.currentPosition()}
	case '&':
		return token.Token{Kind: token.Ampersand, Data: "&", PositionStart: start, PositionEnd: l.currentPosition()}
	case '?':
		return two('?', token.DoubleQuestion, token.QuestionMark, "??")
	case '@':
		return token.Token{Kind: token.AtSign, Data: "@", PositionStart: start, PositionEnd: l.currentPosition()}
	case '.':
		if l.peekRune() == '.' {
			l.advance()
			if l.peekRune() == '.' {
				l.advance()
				return token.Token{Kind: token.Ellipsis, Data: "...", PositionStart: start, PositionEnd: l.currentPosition()}
			}
			return token.Token{Kind: token.DotDot, Data: "..", PositionStart: start, PositionEnd: l.currentPosition()}
		}
		return token.Token{Kind: token.Dot, Data: ".", PositionStart: start, PositionEnd: l.currentPosition()}
	default:
		l.errorf(start, "unexpected character "+string(r))
		return token.Token{Kind: token.ILLEGAL, Data: string(r), PositionStart: start, PositionEnd: l.currentPosition()}
	}
}

// runeLen returns the number of runes in s (not its byte length). Nothing
// in this module calls it.
func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

var _ = utf8.RuneLen
var _ = utf16.RuneLen
