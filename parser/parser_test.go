package parser_test

import (
	"testing"

	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/lexer"
	"github.com/cwbudde/pqparse/parser"
	"github.com/cwbudde/pqparse/perror"
)

func mustParseOpts(t *testing.T, src string, opts parser.Options) *parser.ParseOk {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	ok, err := parser.Parse(toks, opts)
	if err != nil {
		t.Fatalf("parser.Parse(%q) error: %v", src, err)
	}
	return ok
}

func mustParse(t *testing.T, src string) *parser.ParseOk {
	t.Helper()
	return mustParseOpts(t, src, parser.DefaultOptions())
}

func root(t *testing.T, ok *parser.ParseOk) ast.Node {
	t.Helper()
	doc, isDoc := ok.Root.(*ast.Document)
	if !isDoc {
		return ok.Root
	}
	return doc.Body
}

// S1/S2: left-to-right precedence shape of `+` and `*`.
func TestArithmeticPrecedence(t *testing.T) {
	body := root(t, mustParse(t, "1 + 2 * 3"))
	bin, ok := body.(*ast.BinOpExpression)
	if !ok || bin.NodeKind() != ast.KindArithmeticExpression || bin.Operator.Text != "+" {
		t.Fatalf("S1: got %#v, want top-level '+' ArithmeticExpression", body)
	}
	rhs, ok := bin.Right.(*ast.BinOpExpression)
	if !ok || rhs.Operator.Text != "*" {
		t.Fatalf("S1: rhs = %#v, want '*' ArithmeticExpression", bin.Right)
	}

	body2 := root(t, mustParse(t, "1 * 2 + 3"))
	bin2, ok := body2.(*ast.BinOpExpression)
	if !ok || bin2.Operator.Text != "+" {
		t.Fatalf("S2: got %#v, want top-level '+' ArithmeticExpression", body2)
	}
	lhs, ok := bin2.Left.(*ast.BinOpExpression)
	if !ok || lhs.Operator.Text != "*" {
		t.Fatalf("S2: lhs = %#v, want '*' ArithmeticExpression", bin2.Left)
	}
}

// S3: a record literal with two fields.
func TestRecordExpressionFields(t *testing.T) {
	body := root(t, mustParse(t, "[a=1, b=2]"))
	rec, ok := body.(*ast.RecordExpression)
	if !ok {
		t.Fatalf("S3: got %#v, want *ast.RecordExpression", body)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("S3: got %d fields, want 2", len(rec.Fields))
	}
	if rec.Fields[0].Name.Name != "a" || rec.Fields[1].Name.Name != "b" {
		t.Errorf("S3: field names = %q, %q, want a, b", rec.Fields[0].Name.Name, rec.Fields[1].Name.Name)
	}
}

// S4: a bare bracket expression disambiguates to a FieldSelector.
func TestBareBracketIsFieldSelector(t *testing.T) {
	body := root(t, mustParse(t, "[a]"))
	sel, ok := body.(*ast.FieldSelector)
	if !ok || sel.Field.Name != "a" {
		t.Fatalf("S4: got %#v, want FieldSelector on field 'a'", body)
	}
}

// S5: a typed single-parameter function expression.
func TestFunctionExpressionWithTypedParameter(t *testing.T) {
	body := root(t, mustParse(t, "(x as number) => x + 1"))
	fn, ok := body.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("S5: got %#v, want *ast.FunctionExpression", body)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name.Name != "x" {
		t.Fatalf("S5: parameters = %#v, want one parameter named x", fn.Parameters)
	}
	if fn.Parameters[0].Type == nil {
		t.Fatalf("S5: parameter has no type annotation")
	}
	if _, ok := fn.Body.(*ast.BinOpExpression); !ok {
		t.Errorf("S5: body = %#v, want an ArithmeticExpression", fn.Body)
	}
}

// S6: a parenthesized expression that does not commit to FunctionExpression.
func TestParenthesizedArithmetic(t *testing.T) {
	body := root(t, mustParse(t, "(1 + 2)"))
	paren, ok := body.(*ast.ParenthesizedExpression)
	if !ok {
		t.Fatalf("S6: got %#v, want *ast.ParenthesizedExpression", body)
	}
	if _, ok := paren.Inner.(*ast.BinOpExpression); !ok {
		t.Errorf("S6: inner = %#v, want an ArithmeticExpression", paren.Inner)
	}
}

// S7: a let expression with two bindings.
func TestLetExpressionBindings(t *testing.T) {
	body := root(t, mustParse(t, "let x = 1, y = 2 in x + y"))
	let, ok := body.(*ast.LetExpression)
	if !ok {
		t.Fatalf("S7: got %#v, want *ast.LetExpression", body)
	}
	if len(let.Bindings) != 2 {
		t.Fatalf("S7: got %d bindings, want 2", len(let.Bindings))
	}
	if let.Bindings[0].Name.Name != "x" || let.Bindings[1].Name.Name != "y" {
		t.Errorf("S7: binding names = %q, %q, want x, y", let.Bindings[0].Name.Name, let.Bindings[1].Name.Name)
	}
	if _, ok := let.Body.(*ast.BinOpExpression); !ok {
		t.Errorf("S7: body = %#v, want an ArithmeticExpression", let.Body)
	}
}

// S8: invoke, field selection, and item access chained onto one identifier.
func TestRecursivePrimaryExpressionChain(t *testing.T) {
	body := root(t, mustParse(t, "foo(1)[a]{0}"))
	rec, ok := body.(*ast.RecursivePrimaryExpression)
	if !ok {
		t.Fatalf("S8: got %#v, want *ast.RecursivePrimaryExpression", body)
	}
	if len(rec.RecursiveExprs) != 3 {
		t.Fatalf("S8: got %d trailing accesses, want 3", len(rec.RecursiveExprs))
	}
	if _, ok := rec.RecursiveExprs[0].(*ast.InvokeExpression); !ok {
		t.Errorf("S8: first access = %#v, want InvokeExpression", rec.RecursiveExprs[0])
	}
	if _, ok := rec.RecursiveExprs[1].(*ast.FieldSelector); !ok {
		t.Errorf("S8: second access = %#v, want FieldSelector", rec.RecursiveExprs[1])
	}
	if _, ok := rec.RecursiveExprs[2].(*ast.ItemAccessExpression); !ok {
		t.Errorf("S8: third access = %#v, want ItemAccessExpression", rec.RecursiveExprs[2])
	}
}

// S9: a full if/then/else expression.
func TestIfExpressionShape(t *testing.T) {
	body := root(t, mustParse(t, "if a then b else c"))
	ifExpr, ok := body.(*ast.IfExpression)
	if !ok {
		t.Fatalf("S9: got %#v, want *ast.IfExpression", body)
	}
	for name, n := range map[string]ast.Node{"condition": ifExpr.Condition, "true branch": ifExpr.TrueExpr, "false branch": ifExpr.FalseExpr} {
		if n == nil {
			t.Errorf("S9: %s is nil", name)
		}
	}
}

// S10: null-coalescing is left-associative.
func TestNullCoalescingIsLeftAssociative(t *testing.T) {
	body := root(t, mustParse(t, "1 ?? 2 ?? 3"))
	outer, ok := body.(*ast.BinOpExpression)
	if !ok || outer.NodeKind() != ast.KindNullCoalescingExpression {
		t.Fatalf("S10: got %#v, want a NullCoalescingExpression", body)
	}
	inner, ok := outer.Left.(*ast.BinOpExpression)
	if !ok || inner.NodeKind() != ast.KindNullCoalescingExpression {
		t.Fatalf("S10: outer.Left = %#v, want the inner '1 ?? 2'", outer.Left)
	}
	lit, ok := outer.Right.(*ast.LiteralExpression)
	if !ok || lit.Text != "3" {
		t.Fatalf("S10: outer.Right = %#v, want literal 3", outer.Right)
	}
}

// Every id the NIM hands out must satisfy the parent/child invariant in
// both directions: a child's recorded parent must list that child back.
func TestNIMParentChildInvariant(t *testing.T) {
	ok := mustParse(t, "let x = -1 in foo(x)[a]")
	nim := ok.NIM

	for _, kind := range []ast.Kind{
		ast.KindDocument, ast.KindLetExpression, ast.KindUnaryExpression,
		ast.KindConstant, ast.KindIdentifier, ast.KindRecursivePrimaryExpression,
	} {
		for _, id := range nim.IDsByKind(kind) {
			parentID, hasParent := nim.ParentID(id)
			if !hasParent {
				continue
			}
			children := nim.ChildIDs(parentID)
			found := false
			for _, c := range children {
				if c == id {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("node %d (kind %s) claims parent %d, but %d's children %v do not include it", id, kind, parentID, parentID, children)
			}
		}
	}
}

func TestReconstructRoundTrips(t *testing.T) {
	srcs := []string{
		"1 + 2 * 3",
		"let x = 1, y = 2 in x + y",
		"if a then b else c",
		"(x as number) => x + 1",
		"[a=1, b=2]",
		"foo(1)[a]{0}",
	}
	for _, src := range srcs {
		ok := mustParse(t, src)
		if got := ok.Reconstruct(); got != src {
			t.Errorf("Reconstruct(%q) = %q, want it unchanged", src, got)
		}
	}
}

func TestExpressionModeParsesBareExpression(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.Mode = parser.ModeExpression
	ok := mustParseOpts(t, "1 + 2", opts)
	if _, isDoc := ok.Root.(*ast.Document); isDoc {
		t.Fatalf("ModeExpression should not wrap the result in a Document")
	}
}

// S5b: the disambiguator's `as` lookahead (§4.3) must tell a
// FunctionExpression's return-type annotation apart from a
// ParenthesizedExpression that merely happens to be followed by `as`.
func TestFunctionExpressionWithReturnTypeAnnotation(t *testing.T) {
	body := root(t, mustParse(t, "(x) as number => x"))
	fn, ok := body.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("got %#v, want *ast.FunctionExpression", body)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name.Name != "x" {
		t.Fatalf("parameters = %#v, want one untyped parameter named x", fn.Parameters)
	}
	if fn.ReturnType == nil {
		t.Fatalf("ReturnType is nil, want an AsNullablePrimitiveType of 'number'")
	}
	if _, isIdent := fn.Body.(*ast.IdentifierExpression); !isIdent {
		t.Errorf("body = %#v, want the bare identifier x", fn.Body)
	}
}

// The same `as` lookahead must leave a plain ParenthesizedExpression
// followed by an outer `as` operand alone: no trailing `=>` means the
// combiner, not the disambiguator, owns the `as`.
func TestParenthesizedExpressionFollowedByAsIsNotAFunction(t *testing.T) {
	body := root(t, mustParse(t, "(1 + 2) as number"))
	asExpr, ok := body.(*ast.BinOpExpression)
	if !ok || asExpr.NodeKind() != ast.KindAsExpression {
		t.Fatalf("got %#v, want an AsExpression", body)
	}
	if _, isParen := asExpr.Left.(*ast.ParenthesizedExpression); !isParen {
		t.Errorf("AsExpression.Left = %#v, want *ast.ParenthesizedExpression", asExpr.Left)
	}
}

func parseErr(t *testing.T, src string, opts parser.Options) *perror.ParseError {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	_, err := parser.Parse(toks, opts)
	if err == nil {
		t.Fatalf("parser.Parse(%q) succeeded, want an error", src)
	}
	pe, ok := err.(*perror.ParseError)
	if !ok {
		t.Fatalf("parser.Parse(%q) error = %#v, want *perror.ParseError", src, err)
	}
	return pe
}

// Strict fails fast on an inconclusive bracket/paren lookahead (§4.3's
// UnterminatedSequence). Thorough instead speculatively parses every
// candidate recognizer and surfaces the best-scoring candidate's own
// error, which is necessarily a different, more specific error kind.
func TestThoroughPolicyReportsCandidateErrorWhereStrictReportsUnterminated(t *testing.T) {
	strictOpts := parser.DefaultOptions()
	strictOpts.DisambiguationPolicy = parser.Strict
	thoroughOpts := parser.DefaultOptions()
	thoroughOpts.DisambiguationPolicy = parser.Thorough

	strictErr := parseErr(t, "[a", strictOpts)
	if strictErr.Kind != perror.UnterminatedSequence {
		t.Fatalf("Strict: err.Kind = %s, want UnterminatedSequence", strictErr.Kind)
	}

	thoroughErr := parseErr(t, "[a", thoroughOpts)
	if thoroughErr.Kind == perror.UnterminatedSequence {
		t.Fatalf("Thorough: err.Kind = %s, want a candidate-specific error, not the Strict fallback", thoroughErr.Kind)
	}
}

// Thorough's tie-break rule (§4.3: equal tokens consumed, neither
// candidate succeeds ⇒ prefer the earlier-listed alternative) must pick
// RecordExpression's ExpectedTokenKind(Equal) over FieldSelector's
// ExpectedClosingTokenKind(RightBracket) when both candidates stall at the
// same token, since RecordExpression is listed first in readBracketExpression's
// candidate list.
func TestThoroughPolicyTieBreaksTowardFirstListedCandidate(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.DisambiguationPolicy = parser.Thorough
	err := parseErr(t, "[a", opts)
	if err.Kind != perror.ExpectedTokenKind {
		t.Fatalf("err.Kind = %s, want ExpectedTokenKind (RecordExpression's stall), got a different candidate's error", err.Kind)
	}
}

// Thorough's scoring rule (§4.3: prefer the attempt that consumed the
// greatest number of tokens) must pick ParenthesizedExpression — which
// reads the full "1 + 2" before stalling on the missing ')' — over
// FunctionExpression, which stalls immediately because '1' isn't a valid
// parameter name.
func TestThoroughPolicyPrefersCandidateConsumingMoreTokens(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.DisambiguationPolicy = parser.Thorough
	err := parseErr(t, "(1 + 2", opts)
	if err.Kind != perror.ExpectedClosingTokenKind {
		t.Fatalf("err.Kind = %s, want ExpectedClosingTokenKind (ParenthesizedExpression's stall), got a different candidate's error", err.Kind)
	}
}

// §8.12: parsing the same inconclusive input with Thorough twice must
// yield the same outcome both times.
func TestThoroughPolicyIsDeterministic(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.DisambiguationPolicy = parser.Thorough
	first := parseErr(t, "[a", opts)
	second := parseErr(t, "[a", opts)
	if first.Kind != second.Kind || first.Pos != second.Pos {
		t.Fatalf("Thorough produced different results across runs: %v vs %v", first, second)
	}
}

func TestUnusedTokensAfterParseIsAnError(t *testing.T) {
	toks := lexer.New("1 + 2 3").Tokenize()
	if _, err := parser.Parse(toks, parser.DefaultOptions()); err == nil {
		t.Fatal("expected an UnusedTokensRemain error")
	}
}
