package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// readIdentifierPairedExpression reads `identifier = expression`, the
// binding shape shared by let-bindings and section members.
func readIdentifierPairedExpression(f *Facade, s *State) (*ast.IdentifierPairedExpression, error) {
	ctx := s.StartContext(ast.KindIdentifierPairedExpression)
	start := s.Cursor.Current()
	name, err := readIdentifier(s)
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
	node := &ast.IdentifierPairedExpression{Name: name, Value: value}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     value.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readLetExpression reads `let b1, b2, ... in body`. `in` is a contextual
// keyword (the lexer has no dedicated token.Kind for it, the same
// convention readParameter's "optional" and readNullablePrimitiveType's
// "nullable" already use), so a missing `in` is reported through the
// taxonomy's dedicated ExpectedCsvContinuation{LetExpression} shape (§7
// item 4) rather than a generic ExpectedTokenKind, since there's no
// token.Kind to name as "expected".
func readLetExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindLetExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'let'

	var bindings []*ast.IdentifierPairedExpression
	for {
		b, err := readIdentifierPairedExpression(f, s)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		if s.IsOnTokenKind(token.Comma) {
			s.Cursor.Advance()
			continue
		}
		break
	}

	if !s.IsOnConstantKind("in") {
		tok := s.Cursor.Current()
		return nil, perror.New(perror.ExpectedCsvContinuation).
			WithPosition(tok.PositionStart).WithCsvKind(perror.LetExpression).WithFound(tok).Build()
	}
	s.Cursor.Advance()

	body, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	node := &ast.LetExpression{Bindings: bindings, Body: body}
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

// readIfExpression reads `if cond then trueExpr else falseExpr`. `then` has
// no dedicated token.Kind (same contextual-keyword situation as `in`
// above); `else` does, since it doubles as a reserved word elsewhere in the
// grammar's lexical surface.
func readIfExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindIfExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'if'

	cond, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	if !s.IsOnConstantKind("then") {
		tok := s.Cursor.Current()
		return nil, perror.New(perror.ExpectedTokenKind).
			WithPosition(tok.PositionStart).WithFound(tok).Build()
	}
	s.Cursor.Advance()

	trueExpr, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	if !s.IsOnTokenKind(token.Else) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.Else)
	}
	s.Cursor.Advance()

	falseExpr, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	node := &ast.IfExpression{Condition: cond, TrueExpr: trueExpr, FalseExpr: falseExpr}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     falseExpr.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readEachExpression reads `each body`, sugar the grammar defines directly
// as a node rather than desugaring it to a FunctionExpression at parse
// time — desugaring is a type-system/evaluation concern, out of the core's
// scope per spec.md §1.
func readEachExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindEachExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'each'
	body, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.EachExpression{Body: body}
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

// readErrorRaisingExpression reads `error value`.
func readErrorRaisingExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindErrorRaisingExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'error'
	value, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.ErrorRaisingExpression{Value: value}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     value.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readErrorHandlingExpression reads `try protected [otherwise expr | catch
// (x) => body]`. `otherwise` and `catch` are both reserved/contextual: the
// former has a dedicated token.Kind, the latter (like `then`/`in`) does
// not, since it only ever introduces this one clause.
func readErrorHandlingExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindErrorHandlingExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'try'

	protected, err := f.ReadExpression(f, s)
	if err != nil {
		return nil, err
	}

	var otherwise ast.Node
	var catch *ast.CatchExpression
	endPos := protected.Range().PositionEnd

	switch {
	case s.IsOnTokenKind(token.Otherwise):
		s.Cursor.Advance()
		otherwise, err = f.ReadExpression(f, s)
		if err != nil {
			return nil, err
		}
		endPos = otherwise.Range().PositionEnd
	case s.IsOnConstantKind("catch"):
		c, err := readCatchExpression(f, s)
		if err != nil {
			return nil, err
		}
		catch = c
		endPos = c.Range().PositionEnd
	}

	node := &ast.ErrorHandlingExpression{Protected: protected, Otherwise: otherwise, Catch: catch}
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

// readCatchExpression reads `catch (x) => body`. §7 item 7's
// InvalidCatchFunction error fires when what follows `catch` isn't a
// one-parameter, untyped FunctionExpression — the only shape this clause
// accepts.
func readCatchExpression(f *Facade, s *State) (*ast.CatchExpression, error) {
	ctx := s.StartContext(ast.KindCatchExpression)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'catch'

	fnNode, err := readFunctionExpression(f, s)
	if err != nil {
		return nil, err
	}
	fn, ok := fnNode.(*ast.FunctionExpression)
	if !ok || len(fn.Parameters) != 1 || fn.Parameters[0].Type != nil {
		return nil, perror.New(perror.InvalidCatchFunction).WithPosition(start.PositionStart).WithStartToken(start).Build()
	}

	node := &ast.CatchExpression{Function: fn}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     fn.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}
