// Package perror implements the parser's error taxonomy: a closed set of
// structured error kinds, each carrying the context a diagnostics
// formatter needs, plus a fluent builder in the same shape the teacher's
// structured_error.go uses. Localized, human-facing formatting is left to
// the caller; this package only renders a stable, locale-independent
// debug string.
package perror

import (
	"fmt"
	"strings"

	"github.com/cwbudde/pqparse/token"
)

// Kind is the closed error-kind enumeration.
type Kind string

const (
	ExpectedTokenKind         Kind = "ExpectedTokenKind"
	ExpectedAnyTokenKind      Kind = "ExpectedAnyTokenKind"
	ExpectedClosingTokenKind  Kind = "ExpectedClosingTokenKind"
	ExpectedCsvContinuation   Kind = "ExpectedCsvContinuation"
	ExpectedGeneralizedIdent  Kind = "ExpectedGeneralizedIdentifier"
	InvalidPrimitiveType      Kind = "InvalidPrimitiveType"
	InvalidCatchFunction      Kind = "InvalidCatchFunction"
	RequiredParamAfterOptional Kind = "RequiredParameterAfterOptional"
	UnterminatedSequence      Kind = "UnterminatedSequence"
	UnusedTokensRemain        Kind = "UnusedTokensRemain"
	InvariantError            Kind = "InvariantError"
	Cancelled                 Kind = "Cancelled"
)

// CsvContinuationKind distinguishes the two ExpectedCsvContinuation shapes.
type CsvContinuationKind string

const (
	DanglingComma    CsvContinuationKind = "DanglingComma"
	LetExpression    CsvContinuationKind = "LetExpression"
)

// SequenceKind distinguishes the two UnterminatedSequence shapes.
type SequenceKind string

const (
	Bracket    SequenceKind = "Bracket"
	Parenthesis SequenceKind = "Parenthesis"
)

// ParseError is the error type every public entry point returns. It wraps
// exactly one Kind-tagged occurrence plus the token position diagnostics
// should anchor to.
type ParseError struct {
	Kind Kind

	// Token-shaped fields, populated per Kind; zero value where unused.
	Expected       []token.Kind
	Found          *token.Token
	CsvKind        CsvContinuationKind
	SequenceKind   SequenceKind
	StartToken     *token.Token
	FirstUnused    *token.Token
	InvariantMsg   string
	InvariantDetails string

	Pos token.Position
}

func (e *ParseError) Error() string {
	if e.Message() != "" {
		return fmt.Sprintf("%s at %s", e.Message(), e.Pos)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
}

// Message renders a stable, locale-independent debug string for the error
// kind — distinct from any human-facing, localized formatting a host may
// layer on top.
func (e *ParseError) Message() string {
	switch e.Kind {
	case ExpectedTokenKind:
		if len(e.Expected) == 1 {
			return fmt.Sprintf("expected %s", e.Expected[0])
		}
		return "expected a token"
	case ExpectedAnyTokenKind:
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		return fmt.Sprintf("expected one of [%s]", strings.Join(names, ", "))
	case ExpectedClosingTokenKind:
		if len(e.Expected) == 1 {
			return fmt.Sprintf("expected closing %s", e.Expected[0])
		}
		return "expected closing token"
	case ExpectedCsvContinuation:
		if e.CsvKind == DanglingComma {
			return "dangling comma in comma-separated list"
		}
		return "let expression missing 'in'"
	case ExpectedGeneralizedIdent:
		return "expected a generalized identifier"
	case InvalidPrimitiveType:
		return "expected a primitive type keyword"
	case InvalidCatchFunction:
		return "catch clause must be a function expression"
	case RequiredParamAfterOptional:
		return "required parameter cannot follow an optional parameter"
	case UnterminatedSequence:
		return fmt.Sprintf("unterminated %s", e.SequenceKind)
	case UnusedTokensRemain:
		return "unused tokens remain after parse"
	case InvariantError:
		if e.InvariantDetails != "" {
			return fmt.Sprintf("%s: %s", e.InvariantMsg, e.InvariantDetails)
		}
		return e.InvariantMsg
	case Cancelled:
		return "parse cancelled"
	default:
		return string(e.Kind)
	}
}

// Builder is a fluent constructor for ParseError, mirroring the teacher's
// NewStructuredError(kind).With...().Build() shape.
type Builder struct {
	err *ParseError
}

// New starts building a ParseError of the given kind.
func New(kind Kind) *Builder {
	return &Builder{err: &ParseError{Kind: kind}}
}

func (b *Builder) WithPosition(pos token.Position) *Builder {
	b.err.Pos = pos
	return b
}

func (b *Builder) WithExpected(kinds ...token.Kind) *Builder {
	b.err.Expected = append(b.err.Expected, kinds...)
	return b
}

func (b *Builder) WithFound(t token.Token) *Builder {
	b.err.Found = &t
	return b
}

func (b *Builder) WithCsvKind(k CsvContinuationKind) *Builder {
	b.err.CsvKind = k
	return b
}

func (b *Builder) WithSequenceKind(k SequenceKind) *Builder {
	b.err.SequenceKind = k
	return b
}

func (b *Builder) WithStartToken(t token.Token) *Builder {
	b.err.StartToken = &t
	b.err.Pos = t.PositionStart
	return b
}

func (b *Builder) WithFirstUnused(t token.Token) *Builder {
	b.err.FirstUnused = &t
	b.err.Pos = t.PositionStart
	return b
}

func (b *Builder) WithInvariant(message, details string) *Builder {
	b.err.InvariantMsg = message
	b.err.InvariantDetails = details
	return b
}

func (b *Builder) Build() *ParseError { return b.err }

// Expected/ExpectedAny/ExpectedClosing/Unterminated/UnusedTokens/Invariant/
// Cancel are one-shot convenience constructors for the most common shapes,
// mirroring the teacher's NewUnexpectedTokenError/NewMissingTokenError style.

func Expected(pos token.Position, found token.Token, expected token.Kind) *ParseError {
	return New(ExpectedTokenKind).WithPosition(pos).WithExpected(expected).WithFound(found).Build()
}

func ExpectedAny(pos token.Position, found token.Token, expected ...token.Kind) *ParseError {
	return New(ExpectedAnyTokenKind).WithPosition(pos).WithExpected(expected...).WithFound(found).Build()
}

func ExpectedClosing(pos token.Position, found token.Token, expected token.Kind) *ParseError {
	return New(ExpectedClosingTokenKind).WithPosition(pos).WithExpected(expected).WithFound(found).Build()
}

func Unterminated(kind SequenceKind, start token.Token) *ParseError {
	return New(UnterminatedSequence).WithSequenceKind(kind).WithStartToken(start).Build()
}

func UnusedTokens(first token.Token) *ParseError {
	return New(UnusedTokensRemain).WithFirstUnused(first).Build()
}

func Invariant(message, details string) *ParseError {
	return New(InvariantError).WithInvariant(message, details).Build()
}

func Cancel(pos token.Position) *ParseError {
	return New(Cancelled).WithPosition(pos).Build()
}
