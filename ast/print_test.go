package ast_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/lexer"
	"github.com/cwbudde/pqparse/parser"
)

func mustParse(t *testing.T, src string) *parser.ParseOk {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	ok, err := parser.Parse(toks, parser.DefaultOptions())
	if err != nil {
		t.Fatalf("parser.Parse(%q) error: %v", src, err)
	}
	return ok
}

func TestSprintRootLine(t *testing.T) {
	ok := mustParse(t, "1 + 2")
	out := ast.Sprint(ok.Root)

	firstLine := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(firstLine, "Document") {
		t.Errorf("first line = %q, want it to name the Document node", firstLine)
	}
	if !strings.Contains(firstLine, "tokens=[") {
		t.Errorf("first line = %q, missing a token range", firstLine)
	}
}

func TestSprintIndentsChildrenDeeper(t *testing.T) {
	ok := mustParse(t, "1 + 2")
	out := ast.Sprint(ok.Root)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) < 2 {
		t.Fatalf("expected at least two lines, got %d", len(lines))
	}
	rootIndent := leadingSpaces(lines[0])
	childIndent := leadingSpaces(lines[1])
	if childIndent <= rootIndent {
		t.Errorf("child line %q is not indented deeper than root line %q", lines[1], lines[0])
	}
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func TestPrintWritesOneLinePerNode(t *testing.T) {
	ok := mustParse(t, "let x = 1 in x")

	var count int
	ast.Inspect(ok.Root, func(ast.Node) bool {
		count++
		return true
	})

	var b strings.Builder
	if err := ast.Print(&b, ok.Root); err != nil {
		t.Fatalf("Print: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != count {
		t.Errorf("Print wrote %d lines, Inspect visited %d nodes", len(lines), count)
	}
}
