package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Print writes a depth-first, indentation-based dump of root and its
// descendants to w: one line per node, giving its kind, attribute index,
// and token range. This is ambient CLI/debugging tooling, not part of the
// core's data model — a parser toolkit without a way to look at what it
// parsed isn't testable by a human — so it walks the same reflection-based
// child-discovery Inspect uses rather than adding a visitor method to
// every node type.
func Print(w io.Writer, root Node) error {
	return printNode(w, root, 0)
}

// Sprint renders Print's output to a string, for callers (tests, snapshot
// fixtures) that want the dump in memory rather than streamed.
func Sprint(root Node) string {
	var b strings.Builder
	_ = Print(&b, root)
	return b.String()
}

func printNode(w io.Writer, node Node, depth int) error {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return nil
	}
	r := node.Range()
	if _, err := fmt.Fprintf(w, "%s%s [%d] attr=%d tokens=[%d,%d)\n",
		strings.Repeat("  ", depth), node.NodeKind(), node.ID(), node.AttributeIndex(),
		r.TokenIndexStart, r.TokenIndexEnd); err != nil {
		return err
	}
	var inner error
	inspectChildren(reflect.ValueOf(node), func(child Node) bool {
		if inner != nil {
			return false
		}
		if err := printNode(w, child, depth+1); err != nil {
			inner = err
			return false
		}
		return false // printNode already recurses; don't let Inspect also descend
	})
	return inner
}
