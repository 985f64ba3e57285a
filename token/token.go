// Package token defines the lexical token vocabulary consumed by the parser
// core. Lexing itself lives outside this module's scope (spec §1); this
// package only fixes the wire format a token stream must present.
package token

import "fmt"

// Kind enumerates every token a Power Query (M) lexer can produce. Comments
// are not part of this enumeration: they are filtered by the lexer before
// the token stream reaches the parser.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// literals
	Identifier
	QuotedIdentifier // #"field name"
	NumericLiteral
	HexLiteral
	TextLiteral
	NullLiteral
	TrueLiteral
	FalseLiteral

	literalEnd

	// keywords
	And
	As
	Each
	Else
	Error
	False
	If
	Is
	Let
	Meta
	NotKeyword
	Null
	Or
	Otherwise
	Section
	Shared
	True
	Try
	Type
	HashBinary
	HashDate
	HashDateTime
	HashDateTimeZone
	HashDuration
	HashInfinity
	HashNan
	HashSections
	HashShared
	HashTable
	HashTime

	// type primitives (contextual keywords recognized by the type grammar)
	Action
	Any
	AnyNonNull
	Binary
	Date
	DateTime
	DateTimeZone
	Duration
	Function
	List
	Logical
	None
	Number
	Record
	Table
	TextType
	TimeType

	// punctuation
	LeftBracket   // [
	RightBracket  // ]
	LeftParen     // (
	RightParen    // )
	LeftBrace     // {
	RightBrace    // }
	Comma         // ,
	Semicolon     // ;
	Colon         // :
	Equal         // =
	NotEqual      // <>
	LessThan      // <
	LessOrEqual   // <=
	GreaterThan   // >
	GreaterOrEqual // >=
	Plus          // +
	Minus         // -
	Asterisk      // *
	Division      // /
	Ampersand     // &
	QuestionMark  // ?
	DoubleQuestion // ??
	FatArrow      // =>
	DotDot        // ..
	Ellipsis      // ...
	AtSign        // @
	Dot           // .
	Comment
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	Identifier: "Identifier", QuotedIdentifier: "QuotedIdentifier",
	NumericLiteral: "NumericLiteral", HexLiteral: "HexLiteral",
	TextLiteral: "TextLiteral", NullLiteral: "NullLiteral",
	TrueLiteral: "TrueLiteral", FalseLiteral: "FalseLiteral",
	And: "and", As: "as", Each: "each", Else: "else", Error: "error",
	False: "false", If: "if", Is: "is", Let: "let", Meta: "meta",
	NotKeyword: "not", Null: "null", Or: "or", Otherwise: "otherwise",
	Section: "section", Shared: "shared", True: "true", Try: "try", Type: "type",
	HashBinary: "#binary", HashDate: "#date", HashDateTime: "#datetime",
	HashDateTimeZone: "#datetimezone", HashDuration: "#duration",
	HashInfinity: "#infinity", HashNan: "#nan", HashSections: "#sections",
	HashShared: "#shared", HashTable: "#table", HashTime: "#time",
	Action: "action", Any: "any", AnyNonNull: "anynonnull", Binary: "binary",
	Date: "date", DateTime: "datetime", DateTimeZone: "datetimezone",
	Duration: "duration", Function: "function", List: "list", Logical: "logical",
	None: "none", Number: "number", Record: "record", Table: "table",
	TextType: "text", TimeType: "time",
	LeftBracket: "[", RightBracket: "]", LeftParen: "(", RightParen: ")",
	LeftBrace: "{", RightBrace: "}", Comma: ",", Semicolon: ";", Colon: ":",
	Equal: "=", NotEqual: "<>", LessThan: "<", LessOrEqual: "<=",
	GreaterThan: ">", GreaterOrEqual: ">=", Plus: "+", Minus: "-",
	Asterisk: "*", Division: "/", Ampersand: "&", QuestionMark: "?",
	DoubleQuestion: "??", FatArrow: "=>", DotDot: "..", Ellipsis: "...",
	AtSign: "@", Dot: ".", Comment: "Comment",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsLiteral reports whether k is one of the literal-producing kinds.
func (k Kind) IsLiteral() bool { return k > ILLEGAL+1 && k < literalEnd }

// Keywords maps reserved-word spellings to their kind, used by the lexer to
// distinguish identifiers from keywords.
var Keywords = map[string]Kind{
	"and": And, "as": As, "each": Each, "else": Else, "error": Error,
	"false": False, "if": If, "is": Is, "let": Let, "meta": Meta,
	"not": NotKeyword, "null": Null, "or": Or, "otherwise": Otherwise,
	"section": Section, "shared": Shared, "true": True, "try": Try, "type": Type,
	"action": Action, "any": Any, "anynonnull": AnyNonNull, "binary": Binary,
	"date": Date, "datetime": DateTime, "datetimezone": DateTimeZone,
	"duration": Duration, "function": Function, "list": List, "logical": Logical,
	"none": None, "number": Number, "record": Record, "table": Table,
	"text": TextType, "time": TimeType,
}

// HashKeywords maps the spelling following a leading '#' to its kind.
var HashKeywords = map[string]Kind{
	"binary": HashBinary, "date": HashDate, "datetime": HashDateTime,
	"datetimezone": HashDateTimeZone, "duration": HashDuration,
	"infinity": HashInfinity, "nan": HashNan, "sections": HashSections,
	"shared": HashShared, "table": HashTable, "time": HashTime,
}

// Position is a single point in the source, carrying every coordinate a
// host needs: 1-based line number, UTF-16-code-unit offset within that
// line, absolute UTF-16-code-unit offset from the start of the document,
// and a grapheme-cluster-aware column used only for diagnostics.
type Position struct {
	Line           int
	LineCodeUnit   int
	CodeUnit       int
	GraphemeColumn int
}

// IsValid reports whether p carries a plausible (1-based line) coordinate.
func (p Position) IsValid() bool { return p.Line >= 1 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.GraphemeColumn)
}

// Before reports whether p lies strictly before the start of r.
func (p Position) Before(r Range) bool {
	if p.Line != r.PositionStart.Line {
		return p.Line < r.PositionStart.Line
	}
	return p.CodeUnit < r.PositionStart.CodeUnit
}

// After reports whether p lies at or past the (exclusive) end of r.
func (p Position) After(r Range) bool {
	if p.Line != r.PositionEnd.Line {
		return p.Line > r.PositionEnd.Line
	}
	return p.CodeUnit >= r.PositionEnd.CodeUnit
}

// On reports whether p falls within r (neither strictly before nor at/after
// its exclusive end).
func (p Position) On(r Range) bool { return !p.Before(r) && !p.After(r) }

// Token is an immutable lexical unit with byte-exact source positions.
type Token struct {
	Kind          Kind
	Data          string
	PositionStart Position
	PositionEnd   Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Data, t.PositionStart)
}

// Range is a half-open span over the token stream, attached to every
// completed AST node.
type Range struct {
	TokenIndexStart int
	TokenIndexEnd   int
	PositionStart   Position
	PositionEnd     Position
}

// Union returns the smallest Range spanning both a and b. Either may be the
// zero Range, in which case the other is returned unchanged — used when
// folding a node's range from a single child.
func Union(a, b Range) Range {
	if a == (Range{}) {
		return b
	}
	if b == (Range{}) {
		return a
	}
	out := a
	if b.TokenIndexStart < out.TokenIndexStart {
		out.TokenIndexStart = b.TokenIndexStart
		out.PositionStart = b.PositionStart
	}
	if b.TokenIndexEnd > out.TokenIndexEnd {
		out.TokenIndexEnd = b.TokenIndexEnd
		out.PositionEnd = b.PositionEnd
	}
	return out
}
