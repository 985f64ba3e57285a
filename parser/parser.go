// Package parser implements the incremental, context-tracking core parser
// for the Power Query (M) formula language: the parse-state machine, the
// node-identity map, the disambiguation subsystem, and the binary-operator
// combiner described by this module's specification. Lexing, type
// inference, and error-message localization are external collaborators;
// this package consumes a finalized token stream and emits a concrete
// syntax tree plus a read-only node-identity map.
package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// ParseOk is the successful result of a parse: the completed root node,
// the node-identity map backing it, and the final parse state (still
// useful to a caller after success, e.g. to read the token slice and
// Options the parse ran with; the trace sink keeps no history of its own).
type ParseOk struct {
	Root  ast.Node
	NIM   *NIM
	State *State
}

// Parse runs a single parse over tokens per opts, dispatching to the
// façade entry point opts.Mode selects (§6.1). tokens must end with an EOF
// token, matching every recognizer's assumption that Cursor.Peek clamps
// there rather than running off the slice.
func Parse(tokens []token.Token, opts Options) (*ParseOk, error) {
	return ParseWithFacade(NewFacade(), tokens, opts)
}

// ParseWithFacade runs a parse using a caller-supplied façade, the seam
// §4.5 and §6.1 describe for clients that override individual recognizers
// (tracing, memoizing, substituting the combiner).
func ParseWithFacade(f *Facade, tokens []token.Token, opts Options) (*ParseOk, error) {
	s := NewState(tokens, opts)

	var root ast.Node
	var err error
	switch opts.Mode {
	case ModeSection:
		root, err = f.ReadSection(f, s)
	case ModeExpression:
		root, err = f.ReadExpression(f, s)
	default:
		root, err = f.ReadDocument(f, s)
	}
	if err != nil {
		return nil, err
	}

	if _, hasOpen := s.CurrentContextID(); hasOpen {
		return nil, perror.Invariant("parse completed with an open context", "")
	}
	if !s.Cursor.AtEnd() {
		return nil, perror.UnusedTokens(s.Cursor.Current())
	}

	return &ParseOk{Root: root, NIM: s.NIM, State: s}, nil
}
