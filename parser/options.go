package parser

import (
	"context"

	"golang.org/x/text/language"
)

// DisambiguationPolicy governs the disambiguator's fallback behavior when
// bounded lookahead can't resolve a `[`/`(` ambiguity.
type DisambiguationPolicy int

const (
	// Strict fails fast: an inconclusive lookahead is an UnterminatedSequence
	// error.
	Strict DisambiguationPolicy = iota
	// Thorough speculatively parses every candidate and picks the best
	// match by tokens-consumed, then success, then listing order.
	Thorough
)

func (p DisambiguationPolicy) String() string {
	if p == Thorough {
		return "Thorough"
	}
	return "Strict"
}

// Mode selects which façade entry point Parse uses.
type Mode int

const (
	ModeDocument Mode = iota
	ModeExpression
	ModeSection
)

// TraceEvent is fired whenever a context is opened, closed or deleted,
// giving a host enough granularity to reconstruct a parse timeline.
// Disambiguation decisions are not reported. This formalizes the payload the teacher's `tracing bool` hook
// never settles on for its own Lexer/Parser.
type TraceEvent struct {
	Kind       TraceEventKind
	ContextID  int
	NodeKind   string
	TokenIndex int
}

// TraceEventKind is the closed set of moments the core reports through a
// TraceSink.
type TraceEventKind int

const (
	TraceContextOpened TraceEventKind = iota
	TraceContextClosed
	TraceContextDeleted
	// TraceDisambiguationChosen is part of the set, but no code in this
	// package emits it.
	TraceDisambiguationChosen
)

// TraceSink receives TraceEvents as they occur. A nil sink disables
// tracing entirely (the default) so the core stays embeddable in hosts
// that bring their own logger, the same reasoning behind the teacher never
// adopting a structured-logging library of its own.
type TraceSink func(TraceEvent)

// Options configures a single Parse call.
type Options struct {
	Mode                 Mode
	DisambiguationPolicy DisambiguationPolicy
	Locale               language.Tag
	Cancellation         context.Context
	Trace                TraceSink
}

// DefaultOptions returns the options a document parse uses absent any
// caller overrides: Document mode, Strict disambiguation, the undetermined
// locale, no cancellation, no tracing.
func DefaultOptions() Options {
	return Options{
		Mode:                 ModeDocument,
		DisambiguationPolicy: Strict,
		Locale:               language.Und,
		Cancellation:         context.Background(),
	}
}
