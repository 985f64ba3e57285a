package parser

import (
	"reflect"

	"github.com/cwbudde/pqparse/ast"
)

// withBaseNode locates node's embedded ast.BaseNode via reflection and
// calls fn on it, mirroring the teacher's reflection-based setEndPos: every
// concrete node type embeds BaseNode directly (never nested inside another
// embedded struct), so a single FieldByName covers all of them. A node
// whose BaseNode field can't be found or set is left untouched — this can
// only happen for a node type that forgot to embed BaseNode, which is a
// programming error in this package, not a possible runtime input.
func withBaseNode(node ast.Node, fn func(*ast.BaseNode)) {
	if node == nil {
		return
	}
	v := reflect.ValueOf(node)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}
	field := v.FieldByName("BaseNode")
	if !field.IsValid() || !field.CanAddr() {
		return
	}
	base, ok := field.Addr().Interface().(*ast.BaseNode)
	if !ok {
		return
	}
	fn(base)
}
