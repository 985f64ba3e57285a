package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// State is the parse state machine: the token cursor plus a pointer into
// the NIM (the current context), the disambiguation policy, and the
// collaborator hooks (cancellation, trace, locale). Every recognizer takes
// a *State and the façade it was invoked through.
type State struct {
	Tokens []token.Token
	Cursor *Cursor

	NIM               *NIM
	currentContextID  int
	hasCurrentContext bool

	Options Options
}

// NewState builds the initial state for a fresh parse over tokens.
func NewState(tokens []token.Token, opts Options) *State {
	return &State{
		Tokens:  tokens,
		Cursor:  NewCursor(tokens),
		NIM:     NewNIM(),
		Options: opts,
	}
}

func (s *State) trace(evt TraceEvent) {
	if s.Options.Trace != nil {
		s.Options.Trace(evt)
	}
}

// CurrentContextID returns the id of the currently open context, if any.
func (s *State) CurrentContextID() (int, bool) {
	return s.currentContextID, s.hasCurrentContext
}

// StartContext opens a fresh context of kind as a child of the current
// context (or as a root context, if none is open), making it the new
// current context.
func (s *State) StartContext(kind ast.Kind) *ContextNode {
	parentID, hasParent := s.currentContextID, s.hasCurrentContext
	ctx := s.NIM.StartContext(kind, parentID, hasParent, s.Cursor.Index(), s.Cursor.Current())
	s.currentContextID = ctx.ID
	s.hasCurrentContext = true
	s.trace(TraceEvent{Kind: TraceContextOpened, ContextID: ctx.ID, NodeKind: kind.String(), TokenIndex: s.Cursor.Index()})
	return ctx
}

// StartContextAsParent inserts a new context of kind between existingID and
// its current parent, per §4.1/§4.2. The new context becomes the current
// context.
func (s *State) StartContextAsParent(kind ast.Kind, existingID int) (*ContextNode, error) {
	ctx, err := s.NIM.StartContextAsParent(kind, existingID)
	if err != nil {
		return nil, err
	}
	s.currentContextID = ctx.ID
	s.hasCurrentContext = true
	s.trace(TraceEvent{Kind: TraceContextOpened, ContextID: ctx.ID, NodeKind: kind.String(), TokenIndex: ctx.TokenIndexStart})
	return ctx, nil
}

// EndContext closes the current context into completed, asserting kinds
// match, then restores the parent as the new current context.
func (s *State) EndContext(completed ast.Node) error {
	id, ok := s.currentContextID, s.hasCurrentContext
	if !ok {
		return perror.Invariant("endContext with no open context", "")
	}
	ctx, ok := s.NIM.ContextForID(id)
	if !ok {
		return perror.Invariant("endContext: current context vanished", "")
	}
	if err := s.NIM.EndContext(id, completed); err != nil {
		return err
	}
	if completed.NodeKind().IsTerminalKind() {
		s.NIM.MarkLeaf(id)
	}
	s.trace(TraceEvent{Kind: TraceContextClosed, ContextID: id, NodeKind: completed.NodeKind().String(), TokenIndex: s.Cursor.Index()})
	if ctx.HasParent {
		s.currentContextID = ctx.ParentID
		s.hasCurrentContext = true
	} else {
		s.hasCurrentContext = false
	}
	return nil
}

// DeleteContext deletes id (defaulting to the current context) and, if it
// was the current context, restores its parent as current.
func (s *State) DeleteContext(id int, hasID bool) {
	targetID := id
	if !hasID {
		targetID, hasID = s.currentContextID, s.hasCurrentContext
		if !hasID {
			return
		}
	}
	parentID, hadParent := s.NIM.ParentID(targetID)
	s.NIM.DeleteContext(targetID)
	s.trace(TraceEvent{Kind: TraceContextDeleted, ContextID: targetID, TokenIndex: s.Cursor.Index()})
	if targetID == s.currentContextID {
		if hadParent {
			s.currentContextID = parentID
			s.hasCurrentContext = true
		} else {
			s.hasCurrentContext = false
		}
	}
}

// IncrementAttributeCounter advances the current context's attribute slot
// without opening a context, for recognizers that deliberately skip an
// optional attribute.
func (s *State) IncrementAttributeCounter() {
	if !s.hasCurrentContext {
		return
	}
	if ctx, ok := s.NIM.ContextForID(s.currentContextID); ok {
		ctx.AttributeCounter++
	}
}

// LL(1) predicates. Predicate failure is not an error — it's a plain bool.

func (s *State) IsOnTokenKind(kind token.Kind) bool { return s.Cursor.Is(kind) }
func (s *State) IsOnTokenKindAt(kind token.Kind, at int) bool {
	return s.Cursor.IsAt(at, kind)
}
func (s *State) IsNextTokenKind(kind token.Kind) bool { return s.Cursor.IsAt(1, kind) }

func (s *State) IsOnConstantKind(text string) bool {
	return s.Cursor.Current().Data == text
}

// IsOnGeneralizedIdentifierStart reports whether the current token can
// begin a generalized identifier: any Identifier, QuotedIdentifier, or
// keyword spelling (keywords are valid generalized-identifier text; only
// the lexer's own keyword-vs-identifier split matters, not a second list
// here).
func (s *State) IsOnGeneralizedIdentifierStart() bool {
	k := s.Cursor.Current().Kind
	if k == token.Identifier || k == token.QuotedIdentifier {
		return true
	}
	_, isKeyword := token.Keywords[s.Cursor.Current().Data]
	return isKeyword
}

// IsRecursivePrimaryExpressionNext reports whether the token under the
// cursor can start a recursive-primary-expression access head: `(`, `[`,
// or `{`.
func (s *State) IsRecursivePrimaryExpressionNext() bool {
	switch s.Cursor.Current().Kind {
	case token.LeftParen, token.LeftBracket, token.LeftBrace:
		return true
	default:
		return false
	}
}

// Checkpoint is a snapshot state restoration rewinds to. Checkpoints are
// stack-ordered: restoring an older checkpoint invalidates all newer ones,
// and callers are responsible for LIFO discipline (§5).
type Checkpoint struct {
	tokenIndex        int
	idCounter         int
	currentContextID  int
	hasCurrentContext bool
}

// CreateCheckpoint snapshots enough of the state to roll back to this
// exact point: cursor position, NIM id counter, and current-context
// pointer. Rolling back does not need to restore the NIM's maps wholesale
// because RestoreCheckpoint deletes every id allocated since the
// checkpoint, which is cheaper than a structural clone for the common
// (non-speculative) case.
func (s *State) CreateCheckpoint() Checkpoint {
	return Checkpoint{
		tokenIndex:        s.Cursor.Index(),
		idCounter:         s.NIM.idCounter,
		currentContextID:  s.currentContextID,
		hasCurrentContext: s.hasCurrentContext,
	}
}

// RestoreCheckpoint truncates the NIM so every id >= the checkpoint's
// counter is deleted, then returns the cursor to the checkpoint's
// position.
func (s *State) RestoreCheckpoint(cp Checkpoint) {
	for id := cp.idCounter; id < s.NIM.idCounter; id++ {
		s.NIM.DeleteContext(id)
	}
	s.NIM.idCounter = cp.idCounter
	s.Cursor.ResetTo(Mark{index: cp.tokenIndex})
	s.currentContextID = cp.currentContextID
	s.hasCurrentContext = cp.hasCurrentContext
}

// CopyState deep-copies state, including a structural clone of the NIM, for
// a speculative-parse branch that might be discarded. The token slice
// itself is shared (it's read-only for the whole parse, per §5's
// shared-resource policy).
func (s *State) CopyState() *State {
	clone := &State{
		Tokens:            s.Tokens,
		Cursor:            s.Cursor.Clone(),
		NIM:               s.NIM.clone(),
		currentContextID:  s.currentContextID,
		hasCurrentContext: s.hasCurrentContext,
		Options:           s.Options,
	}
	return clone
}

// ApplyState destructively copies cursor, current-context pointer, and NIM
// from source into s — used when a speculative branch wins and its state
// must replace the original.
func (s *State) ApplyState(source *State) {
	s.Cursor = source.Cursor
	s.NIM = source.NIM
	s.currentContextID = source.currentContextID
	s.hasCurrentContext = source.hasCurrentContext
}

// Cancelled reports whether the caller's cancellation handle has fired.
func (s *State) Cancelled() bool {
	if s.Options.Cancellation == nil {
		return false
	}
	select {
	case <-s.Options.Cancellation.Done():
		return true
	default:
		return false
	}
}
