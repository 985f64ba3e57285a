package parser

import "github.com/cwbudde/pqparse/ast"

// recognizer is the shape every parse-step library function has: given a
// state (and the façade it was invoked through, so it can call siblings
// indirectly), produce a completed node or an error.
type recognizer func(f *Facade, s *State) (ast.Node, error)

// Facade is a record of recognizer functions, one per grammar production,
// injectable so a caller can override individual steps (trace, substitute
// the combiner, memoize) without forking the whole parser — recognizers
// never call each other directly by name, always through the façade that
// was passed to them, exactly so this substitution works. Mirrors the
// teacher's NewParserBuilder(l).With...().Build() shape, but the "record of
// function pointers" described by spec.md §4.5 rather than a struct of
// config flags.
type Facade struct {
	ReadDocument   recognizer
	ReadSection    recognizer
	ReadSectionMember recognizer

	ReadNullCoalescingExpression recognizer
	ReadLogicalOrExpression      recognizer
	ReadLogicalAndExpression     recognizer
	ReadIsExpression             recognizer
	ReadAsExpression             recognizer
	ReadEqualityExpression       recognizer
	ReadRelationalExpression     recognizer
	ReadArithmeticExpression     recognizer
	ReadMetadataExpression       recognizer
	ReadUnaryExpression          recognizer
	ReadExpression               recognizer // entry point: ReadNullCoalescingExpression

	ReadPrimaryExpression          recognizer
	ReadRecursivePrimaryExpression recognizer
	ReadLiteralExpression          recognizer
	ReadIdentifierExpression       recognizer
	ReadParenthesizedOrFunctionExpression recognizer
	ReadBracketExpression          recognizer // disambiguates record/field-selector/projection
	ReadLetExpression              recognizer
	ReadIfExpression               recognizer
	ReadEachExpression             recognizer
	ReadErrorRaisingExpression     recognizer
	ReadErrorHandlingExpression    recognizer
	ReadNotImplementedExpression   recognizer

	ReadNullablePrimitiveType recognizer
	ReadPrimitiveType         recognizer
	ReadTypeExpression        recognizer
}

// NewFacade returns the default façade, wired to this package's own
// recognizer implementations.
func NewFacade() *Facade {
	f := &Facade{
		ReadSectionMember:   readSectionMember,
		ReadSection:         readSection,

		ReadNullCoalescingExpression: readNullCoalescingExpression,
		ReadLogicalOrExpression:      readLogicalOrExpression,
		ReadLogicalAndExpression:     readLogicalAndExpression,
		ReadIsExpression:             readIsExpression,
		ReadAsExpression:             readAsExpression,
		ReadEqualityExpression:       readEqualityExpression,
		ReadRelationalExpression:     readRelationalExpression,
		ReadArithmeticExpression:     readArithmeticExpression,
		ReadMetadataExpression:       readMetadataExpression,
		ReadUnaryExpression:          readUnaryExpression,

		ReadPrimaryExpression:          readPrimaryExpression,
		ReadRecursivePrimaryExpression: readRecursivePrimaryExpression,
		ReadLiteralExpression:          readLiteralExpression,
		ReadIdentifierExpression:       readIdentifierExpression,
		ReadParenthesizedOrFunctionExpression: readParenthesizedOrFunctionExpression,
		ReadBracketExpression:          readBracketExpression,
		ReadLetExpression:              readLetExpression,
		ReadIfExpression:               readIfExpression,
		ReadEachExpression:             readEachExpression,
		ReadErrorRaisingExpression:     readErrorRaisingExpression,
		ReadErrorHandlingExpression:    readErrorHandlingExpression,
		ReadNotImplementedExpression:   readNotImplementedExpression,

		ReadNullablePrimitiveType: readNullablePrimitiveType,
		ReadPrimitiveType:         readPrimitiveType,
		ReadTypeExpression:        readTypeExpression,
	}
	f.ReadExpression = f.ReadNullCoalescingExpression
	f.ReadDocument = readDocument
	return f
}

// Builder is a fluent constructor for a Facade with individual recognizers
// overridden, mirroring the teacher's ParserBuilder.
type Builder struct {
	facade *Facade
}

// NewBuilder starts from the default façade.
func NewBuilder() *Builder {
	return &Builder{facade: NewFacade()}
}

func (b *Builder) WithExpression(r recognizer) *Builder {
	b.facade.ReadExpression = r
	return b
}

func (b *Builder) WithPrimaryExpression(r recognizer) *Builder {
	b.facade.ReadPrimaryExpression = r
	return b
}

func (b *Builder) WithDocument(r recognizer) *Builder {
	b.facade.ReadDocument = r
	return b
}

// Build returns the configured façade.
func (b *Builder) Build() *Facade { return b.facade }
