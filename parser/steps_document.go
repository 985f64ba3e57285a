package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// readDocument is the façade's top-level entry point (§4.5): it selects
// between readSection and the plain expression grammar purely on the
// leading token, `section` committing to a section document and anything
// else committing to a bare top-level expression.
func readDocument(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindDocument)
	start := s.Cursor.Current()

	var body ast.Node
	var err error
	if s.IsOnTokenKind(token.Section) {
		body, err = f.ReadSection(f, s)
	} else {
		body, err = f.ReadExpression(f, s)
	}
	if err != nil {
		return nil, err
	}

	node := &ast.Document{Body: body}
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

// readSection reads `section [name] ; member*`. The section keyword itself
// is recorded as a Constant leaf (mirroring how the combiner records
// operator tokens directly, per §4.4), attached as the section's own first
// child rather than going through a nested StartContext/EndContext pair,
// since it carries no further grammar of its own.
func readSection(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindSection)
	start := s.Cursor.Current()

	if !s.IsOnTokenKind(token.Section) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.Section)
	}
	literalTok := s.Cursor.Current()
	literal := &ast.Constant{ConstantKind: token.Section, Text: literalTok.Data}
	if _, err := s.NIM.InsertLeaf(literal, literalTok); err != nil {
		return nil, err
	}
	s.NIM.AttachChild(ctx.ID, literal.ID())
	s.Cursor.Advance()

	var name *ast.Identifier
	if s.IsOnTokenKind(token.Identifier) || s.IsOnTokenKind(token.QuotedIdentifier) {
		n, err := readIdentifier(s)
		if err != nil {
			return nil, err
		}
		name = n
	}

	if !s.IsOnTokenKind(token.Semicolon) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.Semicolon)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()

	var members []*ast.SectionMember
	for !s.Cursor.AtEnd() {
		m, err := f.ReadSectionMember(f, s)
		if err != nil {
			return nil, err
		}
		members = append(members, m.(*ast.SectionMember))
	}

	node := &ast.Section{Literal: literal, Name: name, Members: members}
	endPos := end.PositionEnd
	if len(members) > 0 {
		endPos = members[len(members)-1].Range().PositionEnd
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

// readSectionMember reads `[shared] name = expression ;`.
func readSectionMember(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindSectionMember)
	start := s.Cursor.Current()

	isShared := false
	if s.IsOnTokenKind(token.Shared) {
		isShared = true
		s.Cursor.Advance()
	}

	pair, err := readIdentifierPairedExpression(f, s)
	if err != nil {
		return nil, err
	}

	if !s.IsOnTokenKind(token.Semicolon) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.Semicolon)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()

	node := &ast.SectionMember{IsShared: isShared, Name: pair}
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
