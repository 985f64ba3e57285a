package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// speculativeCandidate pairs a labeled recognizer with the Thorough
// disambiguation policy's candidate list (§4.3), in the order ties break
// toward.
type speculativeCandidate struct {
	label     string
	recognize func(f *Facade, s *State) (ast.Node, error)
}

// runSpeculative implements §4.3's Thorough fallback: deep-copy state once
// per candidate (§5's shared-resource policy — the token stream is shared
// read-only, the NIM is not), run each recognizer against its own copy
// catching any parse error, and score the attempts by (tokens consumed,
// success), breaking ties toward the earlier-listed candidate. The winning
// copy's state replaces s via ApplyState; every losing copy, and whatever
// ids and contexts it minted, is simply discarded.
func runSpeculative(f *Facade, s *State, candidates []speculativeCandidate) (ast.Node, error) {
	type attempt struct {
		node     ast.Node
		err      error
		state    *State
		consumed int
	}
	var best *attempt
	for _, c := range candidates {
		if s.Cancelled() {
			return nil, perror.Cancel(s.Cursor.Current().PositionStart)
		}
		probe := s.CopyState()
		node, err := c.recognize(f, probe)
		cur := &attempt{node: node, err: err, state: probe, consumed: probe.Cursor.Index()}
		switch {
		case best == nil:
			best = cur
		case cur.consumed > best.consumed:
			best = cur
		case cur.consumed == best.consumed && cur.err == nil && best.err != nil:
			best = cur
		}
	}
	if best == nil {
		return nil, perror.Invariant("runSpeculative called with no candidates", "")
	}
	if best.err != nil {
		return nil, best.err
	}
	s.ApplyState(best.state)
	return best.node, nil
}

// readBracketExpression disambiguates the three productions that start
// with '[', per §4.3's bounded-lookahead rule: peek the token right after
// '[' — another '[' means FieldProjection (standalone, with no preceding
// primary — used when a bracket expression appears in primary position
// rather than as a trailing access); ']' immediately means an empty
// RecordExpression; otherwise scan forward for the first '=' before a
// matching ']' to tell a RecordExpression field list from a bare
// FieldSelector name list. When that scan runs off the end without finding
// either, the lookahead is inconclusive and the state's
// DisambiguationPolicy governs: Strict fails fast, Thorough speculatively
// parses both candidates and keeps the best match (§4.3, §8.12).
func readBracketExpression(f *Facade, s *State) (ast.Node, error) {
	if s.Cursor.IsAt(1, token.LeftBracket) {
		return readFieldProjection(s)
	}
	if s.Cursor.IsAt(1, token.RightBracket) {
		return readRecordExpression(f, s)
	}

	depth := 0
	for i := 0; ; i++ {
		tok := s.Cursor.Peek(i)
		switch tok.Kind {
		case token.LeftBracket:
			depth++
		case token.RightBracket:
			depth--
			if depth == 0 {
				return readFieldSelector(s)
			}
		case token.Equal:
			if depth == 1 {
				return readRecordExpression(f, s)
			}
		case token.EOF:
			if s.Options.DisambiguationPolicy == Strict {
				return nil, perror.Unterminated(perror.Bracket, s.Cursor.Current())
			}
			return runSpeculative(f, s, []speculativeCandidate{
				{label: "RecordExpression", recognize: readRecordExpression},
				{label: "FieldSelector", recognize: func(_ *Facade, s *State) (ast.Node, error) { return readFieldSelector(s) }},
			})
		}
	}
}

func readRecordExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindRecordExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '['
	var fields []*ast.GeneralizedIdentifierPairedExpression
	for !s.IsOnTokenKind(token.RightBracket) {
		name, err := readGeneralizedIdentifier(s)
		if err != nil {
			return nil, err
		}
		if !s.IsOnTokenKind(token.Equal) {
			tok := s.Cursor.Current()
			return nil, perror.Expected(tok.PositionStart, tok, token.Equal)
		}
		s.Cursor.Advance()
		value, err := f.ReadExpression(f, s)
		if err != nil {
			return nil, err
		}
		pair := &ast.GeneralizedIdentifierPairedExpression{Name: name, Value: value}
		pair.BaseNode.Kind = ast.KindGeneralizedIdentifierPairedExpression
		pair.BaseNode.TokenRange = token.Union(name.Range(), value.Range())
		id, err := s.NIM.InsertCompleted(pair, []int{name.ID(), value.ID()})
		if err != nil {
			return nil, err
		}
		pair.BaseNode.ID = id
		fields = append(fields, pair)
		if s.IsOnTokenKind(token.Comma) {
			s.Cursor.Advance()
			continue
		}
		break
	}
	if !s.IsOnTokenKind(token.RightBracket) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightBracket)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	node := &ast.RecordExpression{Fields: fields}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     end.PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readParenthesizedOrFunctionExpression disambiguates '(' per §4.3's
// paren rule: scan (tracking nesting depth) to the matching ')', then
// inspect the token immediately after it. '=>' commits to
// FunctionExpression. 'as' is itself ambiguous — `(params) as type =>
// body` is a FunctionExpression with a return-type annotation, but
// `(expr) as type` with nothing following is a ParenthesizedExpression
// whose `as type` belongs to an enclosing AsExpression — so 'as' triggers
// a speculative parse of `as NullablePrimitiveType` at that position
// (on a throwaway copy of state) purely to look one token further, at
// what follows the type: '=>' commits to FunctionExpression, anything
// else to ParenthesizedExpression. Any other token after the matching
// ')' is a ParenthesizedExpression outright. If the scan never finds a
// matching ')', the lookahead itself is inconclusive and the
// Strict/Thorough disambiguation policy governs, the same as the
// bracket rule.
func readParenthesizedOrFunctionExpression(f *Facade, s *State) (ast.Node, error) {
	depth := 0
	matchIdx := -1
	for i := 0; ; i++ {
		tok := s.Cursor.Peek(i)
		switch tok.Kind {
		case token.LeftParen:
			depth++
		case token.RightParen:
			depth--
			if depth == 0 {
				matchIdx = i
			}
		case token.EOF:
			matchIdx = -2
		}
		if matchIdx != -1 {
			break
		}
	}

	if matchIdx == -2 {
		if s.Options.DisambiguationPolicy == Strict {
			return nil, perror.Unterminated(perror.Parenthesis, s.Cursor.Current())
		}
		return runSpeculative(f, s, []speculativeCandidate{
			{label: "ParenthesizedExpression", recognize: readParenthesizedExpression},
			{label: "FunctionExpression", recognize: readFunctionExpression},
		})
	}

	afterClose := s.Cursor.Peek(matchIdx + 1)
	switch afterClose.Kind {
	case token.FatArrow:
		return readFunctionExpression(f, s)
	case token.As:
		if asIsFollowedByFatArrow(f, s, matchIdx+1) {
			return readFunctionExpression(f, s)
		}
		return readParenthesizedExpression(f, s)
	default:
		return readParenthesizedExpression(f, s)
	}
}

// asIsFollowedByFatArrow speculatively reads `as NullablePrimitiveType`
// starting tokensAhead tokens past s's cursor, against a throwaway copy of
// state, and reports whether '=>' immediately follows. The copy (and
// whatever contexts/ids it mints) is always discarded — s itself is never
// advanced or mutated by the probe, whichever way it resolves, since this
// is purely a lookahead test, not a commitment to either production.
func asIsFollowedByFatArrow(f *Facade, s *State, tokensAhead int) bool {
	probe := s.CopyState()
	for i := 0; i < tokensAhead; i++ {
		probe.Cursor.Advance()
	}
	if _, err := readAsNullablePrimitiveType(f, probe); err != nil {
		return false
	}
	return probe.IsOnTokenKind(token.FatArrow)
}

func readParenthesizedExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindParenthesizedExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '('
	inner, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightParen) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightParen)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	node := &ast.ParenthesizedExpression{Inner: inner}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     end.PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readFunctionExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindFunctionExpression)
	start := s.Cursor.Current()
	if !s.IsOnTokenKind(token.LeftParen) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.LeftParen)
	}
	s.Cursor.Advance()

	var params []*ast.Parameter
	sawOptional := false
	for !s.IsOnTokenKind(token.RightParen) {
		p, err := readParameter(f, s)
		if err != nil {
			return nil, err
		}
		if sawOptional && !p.IsOptional {
			tok := s.Cursor.Current()
			return nil, perror.New(perror.RequiredParamAfterOptional).WithPosition(tok.PositionStart).Build()
		}
		if p.IsOptional {
			sawOptional = true
		}
		params = append(params, p)
		if s.IsOnTokenKind(token.Comma) {
			s.Cursor.Advance()
			continue
		}
		break
	}
	if !s.IsOnTokenKind(token.RightParen) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightParen)
	}
	s.Cursor.Advance()

	var returnType *ast.AsNullablePrimitiveType
	if s.IsOnTokenKind(token.As) {
		rt, err := readAsNullablePrimitiveType(f, s)
		if err != nil {
			return nil, err
		}
		returnType = rt
	}

	if !s.IsOnTokenKind(token.FatArrow) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.FatArrow)
	}
	s.Cursor.Advance()

	body, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	node := &ast.FunctionExpression{Parameters: params, ReturnType: returnType, Body: body}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     body.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readParameter(f *Facade, s *State) (*ast.Parameter, error) {
	ctx := s.StartContext(ast.KindParameter)
	start := s.Cursor.Current()
	isOptional := false
	if s.IsOnConstantKind("optional") {
		isOptional = true
		s.Cursor.Advance()
	}
	name, err := readIdentifier(s)
	if err != nil {
		return nil, err
	}
	var typ *ast.AsNullablePrimitiveType
	if s.IsOnTokenKind(token.As) {
		typ, err = readAsNullablePrimitiveType(f, s)
		if err != nil {
			return nil, err
		}
	}
	node := &ast.Parameter{IsOptional: isOptional, Name: name, Type: typ}
	endPos := name.Range().PositionEnd
	if typ != nil {
		endPos = typ.Range().PositionEnd
	}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     endPos,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readAsNullablePrimitiveType(f *Facade, s *State) (*ast.AsNullablePrimitiveType, error) {
	ctx := s.StartContext(ast.KindAsNullablePrimitiveType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'as'
	typ, err := readNullablePrimitiveType(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.AsNullablePrimitiveType{Type: typ.(*ast.NullablePrimitiveType)}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     typ.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}
