package parser

import (
	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// duoRead describes what to do when the combiner sees a given operator
// token while scanning for the next operand/operator pair: which
// completed-node kind the fold produces for this operator, its precedence
// (higher binds tighter), and which recognizer reads its right-hand
// operand.
type duoRead struct {
	targetKind ast.Kind
	precedence int
	operand    operandKind
}

type operandKind int

const (
	operandUnary operandKind = iota
	operandNullablePrimitiveType
)

// duoReadTable is the static token-kind -> duoRead map described in §4.4.
// `is`/`as` are the only operators whose right-hand side is a type, not a
// further expression. NullCoalescing's documented "right operand is a
// LogicalExpression" requirement needs no special-casing here: since `??`
// has the lowest precedence of any entry, the shunting-yard fold below
// always finishes combining every higher-precedence operator before it
// ever pops `??`, so `??`'s right-hand side is structurally whatever the
// rest of the fold already produced — exactly a LogicalExpression-or-higher
// subtree — without a second recognizer call.
var duoReadTable = map[token.Kind]duoRead{
	token.DoubleQuestion: {ast.KindNullCoalescingExpression, 1, operandUnary},
	token.Or:             {ast.KindLogicalExpression, 2, operandUnary},
	token.And:            {ast.KindLogicalExpression, 3, operandUnary},
	token.Is:             {ast.KindIsExpression, 4, operandNullablePrimitiveType},
	token.As:             {ast.KindAsExpression, 5, operandNullablePrimitiveType},
	token.Equal:          {ast.KindEqualityExpression, 6, operandUnary},
	token.NotEqual:       {ast.KindEqualityExpression, 6, operandUnary},
	token.LessThan:       {ast.KindRelationalExpression, 7, operandUnary},
	token.LessOrEqual:    {ast.KindRelationalExpression, 7, operandUnary},
	token.GreaterThan:    {ast.KindRelationalExpression, 7, operandUnary},
	token.GreaterOrEqual: {ast.KindRelationalExpression, 7, operandUnary},
	token.Plus:           {ast.KindArithmeticExpression, 8, operandUnary},
	token.Minus:          {ast.KindArithmeticExpression, 8, operandUnary},
	token.Ampersand:      {ast.KindArithmeticExpression, 8, operandUnary},
	token.Asterisk:       {ast.KindArithmeticExpression, 9, operandUnary},
	token.Division:       {ast.KindArithmeticExpression, 9, operandUnary},
	token.Meta:           {ast.KindMetadataExpression, 10, operandUnary},
}

type operandEntry struct {
	node ast.Node
}

type operatorEntry struct {
	constant *ast.Constant
	read     duoRead
}

// readBinOpExpression is the combiner's entry point (every per-level
// façade seam below, readNullCoalescingExpression included, resolves to
// it, per §4.4/§4.5). It
// reads one initial UnaryExpression, then repeatedly consumes
// operator/operand pairs governed by duoReadTable until the current token
// isn't in the table, then folds the flat sequence into a precedence- and
// associativity-correct tree in a single linear sweep.
func readBinOpExpression(f *Facade, s *State) (ast.Node, error) {
	first, err := f.ReadUnaryExpression(f, s)
	if err != nil {
		return nil, err
	}

	operands := []operandEntry{{node: first}}
	var operators []operatorEntry

	for {
		if s.Cancelled() {
			return nil, perror.Cancel(s.Cursor.Current().PositionStart)
		}
		dr, ok := duoReadTable[s.Cursor.Current().Kind]
		if !ok {
			break
		}
		opTok := s.Cursor.Current()
		opConst, err := readConstantLeaf(s, opTok)
		if err != nil {
			return nil, err
		}
		s.Cursor.Advance()

		var operand ast.Node
		switch dr.operand {
		case operandNullablePrimitiveType:
			operand, err = f.ReadNullablePrimitiveType(f, s)
		default:
			operand, err = f.ReadUnaryExpression(f, s)
		}
		if err != nil {
			return nil, err
		}

		operators = append(operators, operatorEntry{constant: opConst, read: dr})
		operands = append(operands, operandEntry{node: operand})
	}

	if len(operators) == 0 {
		// Zero operators: return the operand unchanged, no nodes added to
		// the NIM beyond what reading it alone already did (§8.11).
		return operands[0].node, nil
	}

	return foldBinOp(s, operands, operators)
}

// readNullCoalescingExpression, readLogicalOrExpression, ...,
// readMetadataExpression are all the same flat combiner: §4.4 describes a
// single linear read-then-fold pass across every binary-operator class at
// once, not a recursive-descent chain with one recognizer per precedence
// level. The façade still exposes a seam per level (for callers who want
// to override or trace an individual precedence class), but by default
// they all resolve to this one function.
func readNullCoalescingExpression(f *Facade, s *State) (ast.Node, error) { return readBinOpExpression(f, s) }
func readLogicalOrExpression(f *Facade, s *State) (ast.Node, error)      { return readBinOpExpression(f, s) }
func readLogicalAndExpression(f *Facade, s *State) (ast.Node, error)     { return readBinOpExpression(f, s) }
func readIsExpression(f *Facade, s *State) (ast.Node, error)             { return readBinOpExpression(f, s) }
func readAsExpression(f *Facade, s *State) (ast.Node, error)             { return readBinOpExpression(f, s) }
func readEqualityExpression(f *Facade, s *State) (ast.Node, error)       { return readBinOpExpression(f, s) }
func readRelationalExpression(f *Facade, s *State) (ast.Node, error)     { return readBinOpExpression(f, s) }
func readArithmeticExpression(f *Facade, s *State) (ast.Node, error)     { return readBinOpExpression(f, s) }
func readMetadataExpression(f *Facade, s *State) (ast.Node, error)       { return readBinOpExpression(f, s) }

// readConstantLeaf reads the current token as a completed, leaf Constant
// node directly (bypassing the open-context protocol, per §4.4's combine
// step), mints it an id, and marks it a leaf.
func readConstantLeaf(s *State, tok token.Token) (*ast.Constant, error) {
	c := &ast.Constant{ConstantKind: tok.Kind, Text: tok.Data}
	if _, err := s.NIM.InsertLeaf(c, tok); err != nil {
		return nil, err
	}
	c.TokenRange.TokenIndexStart = s.Cursor.Index()
	c.TokenRange.TokenIndexEnd = s.Cursor.Index() + 1
	return c, nil
}

// foldBinOp performs the shunting-yard fold described in §4.4: on each
// incoming operator, while the operator stack's top has precedence >= the
// incoming operator's, pop and combine into a new binary node; push the
// new node; at the end, drain the stack. Left-associativity falls out of
// using >= (not >) as the pop condition.
func foldBinOp(s *State, operands []operandEntry, operators []operatorEntry) (ast.Node, error) {
	var nodeStack []ast.Node
	var opStack []operatorEntry

	push := func(n ast.Node) { nodeStack = append(nodeStack, n) }
	pop := func() ast.Node {
		n := nodeStack[len(nodeStack)-1]
		nodeStack = nodeStack[:len(nodeStack)-1]
		return n
	}

	combine := func(op operatorEntry) error {
		rhs := pop()
		lhs := pop()
		node, err := combineBinOp(s, op.read.targetKind, lhs, op.constant, rhs)
		if err != nil {
			return err
		}
		push(node)
		return nil
	}

	push(operands[0].node)
	for i, op := range operators {
		for len(opStack) > 0 && opStack[len(opStack)-1].read.precedence >= op.read.precedence {
			top := opStack[len(opStack)-1]
			opStack = opStack[:len(opStack)-1]
			if err := combine(top); err != nil {
				return nil, err
			}
		}
		opStack = append(opStack, op)
		push(operands[i+1].node)
	}
	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if err := combine(top); err != nil {
			return nil, err
		}
	}

	return nodeStack[0], nil
}

// combineBinOp creates a completed BinOpExpression node directly: assigns
// a fresh id, inserts it into the NIM, links lhs/operator/rhs as its
// children in attribute order, and sets tokenRange to the union of its
// operands' ranges.
func combineBinOp(s *State, kind ast.Kind, lhs ast.Node, operator *ast.Constant, rhs ast.Node) (ast.Node, error) {
	node := &ast.BinOpExpression{Left: lhs, Operator: operator, Right: rhs}
	node.BaseNode.Kind = kind
	rng := token.Union(lhs.Range(), operator.Range())
	rng = token.Union(rng, rhs.Range())
	node.BaseNode.TokenRange = rng

	id, err := s.NIM.InsertCompleted(node, []int{lhs.ID(), operator.ID(), rhs.ID()})
	if err != nil {
		return nil, err
	}
	node.BaseNode.ID = id
	return node, nil
}
