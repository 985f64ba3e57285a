package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

var unaryOperatorKinds = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.NotKeyword: true,
}

// readUnaryExpression collects zero or more prefix operators, then reads a
// single primary expression as their operand. Zero operators returns the
// primary expression unwrapped, matching the combiner's own "no operators,
// no extra node" rule (§8.11).
func readUnaryExpression(f *Facade, s *State) (ast.Node, error) {
	if !unaryOperatorKinds[s.Cursor.Current().Kind] {
		return f.ReadPrimaryExpression(f, s)
	}

	ctx := s.StartContext(ast.KindUnaryExpression)
	var ops []*ast.Constant
	for unaryOperatorKinds[s.Cursor.Current().Kind] {
		tok := s.Cursor.Current()
		c := &ast.Constant{ConstantKind: tok.Kind, Text: tok.Data}
		if _, err := s.NIM.InsertLeaf(c, tok); err != nil {
			return nil, err
		}
		c.TokenRange.TokenIndexStart = s.Cursor.Index()
		c.TokenRange.TokenIndexEnd = s.Cursor.Index() + 1
		s.NIM.AttachChild(ctx.ID, c.ID())
		ops = append(ops, c)
		s.Cursor.Advance()
	}
	operand, err := f.ReadPrimaryExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.UnaryExpression{Operators: ops, Operand: operand}
	rng := operand.Range()
	for _, op := range ops {
		rng = token.Union(op.Range(), rng)
	}
	node.TokenRange = rng
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readPrimaryExpression dispatches on the current token to the production
// it starts, then wraps the result through readRecursivePrimaryExpression
// so any trailing field/item access or invocation chains onto it.
func readPrimaryExpression(f *Facade, s *State) (ast.Node, error) {
	var head ast.Node
	var err error

	switch s.Cursor.Current().Kind {
	case token.NumericLiteral, token.HexLiteral, token.TextLiteral,
		token.TrueLiteral, token.FalseLiteral, token.NullLiteral,
		token.True, token.False, token.Null:
		head, err = f.ReadLiteralExpression(f, s)
	case token.LeftBrace:
		head, err = readListExpression(f, s)
	case token.LeftBracket:
		head, err = f.ReadBracketExpression(f, s)
	case token.LeftParen:
		head, err = f.ReadParenthesizedOrFunctionExpression(f, s)
	case token.Let:
		head, err = f.ReadLetExpression(f, s)
	case token.If:
		head, err = f.ReadIfExpression(f, s)
	case token.Each:
		head, err = f.ReadEachExpression(f, s)
	case token.Error:
		head, err = f.ReadErrorRaisingExpression(f, s)
	case token.Try:
		head, err = f.ReadErrorHandlingExpression(f, s)
	case token.Ellipsis:
		head, err = f.ReadNotImplementedExpression(f, s)
	case token.Type:
		head, err = f.ReadTypeExpression(f, s)
	case token.Identifier, token.QuotedIdentifier, token.AtSign,
		token.HashBinary, token.HashDate, token.HashDateTime, token.HashDateTimeZone,
		token.HashDuration, token.HashInfinity, token.HashNan, token.HashSections,
		token.HashShared, token.HashTable, token.HashTime:
		head, err = f.ReadIdentifierExpression(f, s)
	default:
		tok := s.Cursor.Current()
		return nil, perror.ExpectedAny(tok.PositionStart, tok, token.Identifier, token.LeftParen, token.LeftBracket)
	}
	if err != nil {
		return nil, err
	}
	return readRecursivePrimaryExpressionWithHead(f, s, head)
}

// readRecursivePrimaryExpression is the façade-shaped (head-less) entry
// point: it reads its own primary expression first, then threads it
// through readRecursivePrimaryExpressionWithHead. Exists only so the
// façade exposes a recognizer-shaped seam for this production per §4.5;
// readPrimaryExpression calls the head-threading form directly since it
// already has the head in hand.
func readRecursivePrimaryExpression(f *Facade, s *State) (ast.Node, error) {
	return f.ReadPrimaryExpression(f, s)
}

// readRecursivePrimaryExpressionWithHead chains field access, item access,
// and invocation heads onto head. See §4.4's retroactive re-parenting: the
// first trailing access triggers StartContextAsParent to retroactively
// wrap head under a single RecursivePrimaryExpression, and every trailing
// access (the first included) is attached under that wrapper.
func readRecursivePrimaryExpressionWithHead(f *Facade, s *State, head ast.Node) (ast.Node, error) {
	var trailing []ast.Node
	var wrapperID int
	hasWrapper := false

	for s.IsRecursivePrimaryExpressionNext() {
		var next ast.Node
		var err error
		switch s.Cursor.Current().Kind {
		case token.LeftParen:
			next, err = readInvokeExpression(f, s)
		case token.LeftBrace:
			next, err = readItemAccessExpression(f, s)
		case token.LeftBracket:
			next, err = readFieldAccessOrProjection(s)
		}
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}

		if len(trailing) == 0 {
			ctx, err := s.StartContextAsParent(ast.KindRecursivePrimaryExpression, head.ID())
			if err != nil {
				return nil, err
			}
			wrapperID = ctx.ID
			hasWrapper = true
		}
		s.NIM.AttachChild(wrapperID, next.ID())
		trailing = append(trailing, next)
	}

	if !hasWrapper {
		return head, nil
	}

	node := &ast.RecursivePrimaryExpression{Head: head, RecursiveExprs: trailing}
	rng := head.Range()
	for _, t := range trailing {
		rng = token.Union(rng, t.Range())
	}
	node.TokenRange = rng
	node.BaseNode.ID = wrapperID
	node.BaseNode.Kind = ast.KindRecursivePrimaryExpression
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readExpressionCsv reads a comma-separated list of full expressions up to
// (but not consuming) the given closing token kind, via the combiner.
func readExpressionCsv(f *Facade, s *State, closing token.Kind) ([]ast.Node, error) {
	var items []ast.Node
	for !s.IsOnTokenKind(closing) {
		item, err := f.ReadExpression(f, s)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if s.IsOnTokenKind(token.Comma) {
			tok := s.Cursor.Current()
			if s.IsOnTokenKindAt(closing, 1) {
				return nil, perror.New(perror.ExpectedCsvContinuation).
					WithPosition(tok.PositionStart).WithCsvKind(perror.DanglingComma).Build()
			}
			s.Cursor.Advance()
			continue
		}
		break
	}
	return items, nil
}

func readInvokeExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindInvokeExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // consume '('
	args, err := readExpressionCsv(f, s, token.RightParen)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightParen) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightParen)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	node := &ast.InvokeExpression{Arguments: args}
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

func readItemAccessExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindItemAccessExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // consume '{'
	item, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightBrace) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightBrace)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	isOptional := false
	if s.IsOnTokenKind(token.QuestionMark) {
		isOptional = true
		s.Cursor.Advance()
	}
	node := &ast.ItemAccessExpression{Item: item, IsOptional: isOptional}
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

func readFieldAccessOrProjection(s *State) (ast.Node, error) {
	// A single '[name]' is a FieldSelector; '[[a],[b],...]' is a
	// FieldProjection. Disambiguated by a 1-token lookahead on the bracket
	// that immediately follows '['.
	if s.Cursor.IsAt(1, token.LeftBracket) {
		return readFieldProjection(s)
	}
	return readFieldSelector(s)
}

func readFieldSelector(s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindFieldSelector)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '['
	field, err := readGeneralizedIdentifier(s)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightBracket) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightBracket)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	isOptional := false
	if s.IsOnTokenKind(token.QuestionMark) {
		isOptional = true
		s.Cursor.Advance()
	}
	node := &ast.FieldSelector{Field: field, IsOptional: isOptional}
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

func readFieldProjection(s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindFieldProjection)
	start := s.Cursor.Current()
	s.Cursor.Advance() // outer '['
	var fields []*ast.FieldSelector
	for {
		sel, err := readFieldSelector(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, sel.(*ast.FieldSelector))
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
	isOptional := false
	if s.IsOnTokenKind(token.QuestionMark) {
		isOptional = true
		s.Cursor.Advance()
	}
	node := &ast.FieldProjection{Fields: fields, IsOptional: isOptional}
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

func readListExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindListExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '{'
	items, err := readExpressionCsv(f, s, token.RightBrace)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightBrace) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightBrace)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	node := &ast.ListExpression{Items: items}
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

func readLiteralExpression(f *Facade, s *State) (ast.Node, error) {
	tok := s.Cursor.Current()
	ctx := s.StartContext(ast.KindLiteralExpression)
	kind := tok.Kind
	switch kind {
	case token.True:
		kind = token.TrueLiteral
	case token.False:
		kind = token.FalseLiteral
	case token.Null:
		kind = token.NullLiteral
	}
	node := &ast.LiteralExpression{LiteralKind: kind, Text: tok.Data}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: ctx.TokenIndexStart + 1,
		PositionStart: tok.PositionStart, PositionEnd: tok.PositionEnd,
	}
	s.Cursor.Advance()
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readIdentifier(s *State) (*ast.Identifier, error) {
	tok := s.Cursor.Current()
	if tok.Kind != token.Identifier && tok.Kind != token.QuotedIdentifier {
		return nil, perror.Expected(tok.PositionStart, tok, token.Identifier)
	}
	ctx := s.StartContext(ast.KindIdentifier)
	node := &ast.Identifier{Name: tok.Data, IsQuoted: tok.Kind == token.QuotedIdentifier}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: ctx.TokenIndexStart + 1,
		PositionStart: tok.PositionStart, PositionEnd: tok.PositionEnd,
	}
	s.Cursor.Advance()
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readGeneralizedIdentifier reads a field-position name: an Identifier,
// QuotedIdentifier, or any keyword spelling used verbatim as text.
func readGeneralizedIdentifier(s *State) (*ast.GeneralizedIdentifier, error) {
	if !s.IsOnGeneralizedIdentifierStart() {
		tok := s.Cursor.Current()
		return nil, perror.New(perror.ExpectedGeneralizedIdent).WithPosition(tok.PositionStart).WithFound(tok).Build()
	}
	tok := s.Cursor.Current()
	ctx := s.StartContext(ast.KindGeneralizedIdentifier)
	node := &ast.GeneralizedIdentifier{Name: tok.Data}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: ctx.TokenIndexStart + 1,
		PositionStart: tok.PositionStart, PositionEnd: tok.PositionEnd,
	}
	s.Cursor.Advance()
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readIdentifierExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindIdentifierExpression)
	inclusive := false
	if s.IsOnTokenKind(token.AtSign) {
		inclusive = true
		s.Cursor.Advance()
	}
	ident, err := readIdentifier(s)
	if err != nil {
		return nil, err
	}
	node := &ast.IdentifierExpression{Inclusive: inclusive, Identifier: ident}
	node.TokenRange = token.Union(token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: ctx.TokenIndexStart,
		PositionStart: ctx.TokenStart.PositionStart, PositionEnd: ctx.TokenStart.PositionStart,
	}, ident.Range())
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readNotImplementedExpression(f *Facade, s *State) (ast.Node, error) {
	tok := s.Cursor.Current()
	ctx := s.StartContext(ast.KindNotImplementedExpression)
	node := &ast.NotImplementedExpression{}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: ctx.TokenIndexStart + 1,
		PositionStart: tok.PositionStart, PositionEnd: tok.PositionEnd,
	}
	s.Cursor.Advance()
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}
