package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

var primitiveTypeKinds = map[token.Kind]bool{
	token.Action: true, token.Any: true, token.AnyNonNull: true, token.Binary: true,
	token.Date: true, token.DateTime: true, token.DateTimeZone: true, token.Duration: true,
	token.Function: true, token.List: true, token.Logical: true, token.None: true,
	token.Number: true, token.Record: true, token.Table: true, token.TextType: true,
	token.TimeType: true, token.Null: true,
}

// readNullablePrimitiveType reads `[nullable] primitiveType`. Its façade
// field signature takes (f, s) like every other recognizer even though it
// never calls back into the façade, so it can be individually overridden
// per §4.5.
func readNullablePrimitiveType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindNullablePrimitiveType)
	start := s.Cursor.Current()
	isNullable := false
	if s.IsOnConstantKind("nullable") {
		isNullable = true
		s.Cursor.Advance()
	}
	prim, err := f.ReadPrimitiveType(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.NullablePrimitiveType{IsNullable: isNullable, Primitive: prim.(*ast.PrimitiveType)}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     prim.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readPrimitiveType(f *Facade, s *State) (ast.Node, error) {
	tok := s.Cursor.Current()
	if !primitiveTypeKinds[tok.Kind] {
		tok := s.Cursor.Current()
		return nil, perror.New(perror.InvalidPrimitiveType).WithPosition(tok.PositionStart).WithFound(tok).Build()
	}
	ctx := s.StartContext(ast.KindPrimitiveType)
	node := &ast.PrimitiveType{PrimitiveKind: tok.Kind}
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

// readTypeExpression reads `type primaryType`, wrapping whatever follows
// the `type` keyword in an AsType node (reused generically: AsType's
// single Type field fits both this and the `as type` position it's named
// for).
func readTypeExpression(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindAsType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'type'
	inner, err := readPrimaryTypeExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.AsType{Type: inner}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart,
		TokenIndexEnd:   s.Cursor.Index(),
		PositionStart:   start.PositionStart,
		PositionEnd:     inner.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

// readPrimaryTypeExpression reads the type grammar's primary forms:
// `nullable`-prefixed or bare primitive types, `{ itemType }` list types,
// `[ fieldSpecificationList ]` record types, `function (params) as
// returnType` function types, and `table` row types.
func readPrimaryTypeExpression(f *Facade, s *State) (ast.Node, error) {
	switch s.Cursor.Current().Kind {
	case token.LeftBrace:
		return readListType(f, s)
	case token.LeftBracket:
		return readRecordType(f, s)
	case token.Function:
		return readFunctionType(f, s)
	case token.Table:
		return readTableType(f, s)
	case token.Identifier:
		if s.IsOnConstantKind("nullable") {
			return readNullableType(f, s)
		}
		return f.ReadNullablePrimitiveType(f, s)
	default:
		return f.ReadNullablePrimitiveType(f, s)
	}
}

func readListType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindListType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '{'
	item, err := readPrimaryTypeExpression(f, s)
	if err != nil {
		return nil, err
	}
	if !s.IsOnTokenKind(token.RightBrace) {
		tok := s.Cursor.Current()
		return nil, perror.ExpectedClosing(tok.PositionStart, tok, token.RightBrace)
	}
	end := s.Cursor.Current()
	s.Cursor.Advance()
	node := &ast.ListType{ItemType: item}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: end.PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readRecordType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindRecordType)
	start := s.Cursor.Current()
	fields, err := readFieldSpecificationList(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.RecordType{Fields: fields}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: fields.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readFieldSpecificationList(f *Facade, s *State) (*ast.FieldSpecificationList, error) {
	ctx := s.StartContext(ast.KindFieldSpecificationList)
	start := s.Cursor.Current()
	s.Cursor.Advance() // '['
	var fields []*ast.FieldSpecification
	isOpen := false
	for !s.IsOnTokenKind(token.RightBracket) {
		if s.IsOnTokenKind(token.Ellipsis) {
			isOpen = true
			s.Cursor.Advance()
			break
		}
		spec, err := readFieldSpecification(f, s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, spec)
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
	node := &ast.FieldSpecificationList{Fields: fields, IsOpen: isOpen}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: end.PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readFieldSpecification(f *Facade, s *State) (*ast.FieldSpecification, error) {
	ctx := s.StartContext(ast.KindFieldSpecification)
	start := s.Cursor.Current()
	isOptional := false
	if s.IsOnConstantKind("optional") {
		isOptional = true
		s.Cursor.Advance()
	}
	name, err := readGeneralizedIdentifier(s)
	if err != nil {
		return nil, err
	}
	var typ *ast.FieldTypeSpecification
	if s.IsOnTokenKind(token.Equal) {
		s.Cursor.Advance()
		inner, err := readPrimaryTypeExpression(f, s)
		if err != nil {
			return nil, err
		}
		fts := &ast.FieldTypeSpecification{Type: inner}
		fts.BaseNode.Kind = ast.KindFieldTypeSpecification
		fts.BaseNode.TokenRange = inner.Range()
		id, err := s.NIM.InsertCompleted(fts, []int{inner.ID()})
		if err != nil {
			return nil, err
		}
		fts.BaseNode.ID = id
		typ = fts
	}
	node := &ast.FieldSpecification{IsOptional: isOptional, Name: name, Type: typ}
	endPos := name.Range().PositionEnd
	if typ != nil {
		endPos = typ.Range().PositionEnd
	}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: endPos,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readFunctionType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindFunctionType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'function'
	if !s.IsOnTokenKind(token.LeftParen) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.LeftParen)
	}
	s.Cursor.Advance()
	var params []*ast.Parameter
	for !s.IsOnTokenKind(token.RightParen) {
		p, err := readParameter(f, s)
		if err != nil {
			return nil, err
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
	if !s.IsOnTokenKind(token.As) {
		tok := s.Cursor.Current()
		return nil, perror.Expected(tok.PositionStart, tok, token.As)
	}
	asStart := s.Cursor.Current()
	s.Cursor.Advance()
	retType, err := readPrimaryTypeExpression(f, s)
	if err != nil {
		return nil, err
	}
	asType := &ast.AsType{Type: retType}
	asType.BaseNode.Kind = ast.KindAsType
	asType.BaseNode.TokenRange = token.Range{
		PositionStart: asStart.PositionStart, PositionEnd: retType.Range().PositionEnd,
	}
	id, err := s.NIM.InsertCompleted(asType, []int{retType.ID()})
	if err != nil {
		return nil, err
	}
	asType.BaseNode.ID = id

	node := &ast.FunctionType{Parameters: params, ReturnType: asType}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: asType.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readTableType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindTableType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'table'
	row, err := readPrimaryTypeExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.TableType{RowType: row}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: row.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}

func readNullableType(f *Facade, s *State) (ast.Node, error) {
	ctx := s.StartContext(ast.KindNullableType)
	start := s.Cursor.Current()
	s.Cursor.Advance() // 'nullable'
	inner, err := readPrimaryTypeExpression(f, s)
	if err != nil {
		return nil, err
	}
	node := &ast.NullableType{Type: inner}
	node.TokenRange = token.Range{
		TokenIndexStart: ctx.TokenIndexStart, TokenIndexEnd: s.Cursor.Index(),
		PositionStart: start.PositionStart, PositionEnd: inner.Range().PositionEnd,
	}
	if err := s.EndContext(node); err != nil {
		return nil, err
	}
	return node, nil
}
