package parser_test

import (
	"testing"

	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/lexer"
	"github.com/cwbudde/pqparse/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestParseTreeSnapshots dumps the completed tree shape for a representative
// spread of grammar productions through go-snaps, the same snapshot harness
// the teacher's fixture suite uses for its interpreter output. A snapshot
// diff here is a cheap tripwire for an unintended shape change in the
// recognizers or the combiner, without hand-asserting every attribute on
// every node the way parser_test.go's scenario tests do.
func TestParseTreeSnapshots(t *testing.T) {
	sources := map[string]string{
		"arithmetic_precedence": "1 + 2 * 3",
		"record_expression":     "[a = 1, b = 2]",
		"field_projection":      "[[a], [b]]",
		"function_expression":   "(x as number) => x + 1",
		"let_expression":        "let x = 1, y = 2 in x + y",
		"if_expression":         "if a then b else c",
		"recursive_primary":     "foo(1)[a]{0}",
		"null_coalescing":       "1 ?? 2 ?? 3",
		"error_handling":        "try 1 / 0 otherwise -1",
		"section_document":      "section Example; shared x = 1; y = x + 1;",
	}

	for name, src := range sources {
		toks := lexer.New(src).Tokenize()
		ok, err := parser.Parse(toks, parser.DefaultOptions())
		if err != nil {
			t.Fatalf("%s: parser.Parse(%q) error: %v", name, src, err)
		}
		snaps.MatchSnapshot(t, name, ast.Sprint(ok.Root))
	}
}
