// Package ast defines the concrete syntax tree produced by the parser
// core: a closed, tagged set of node kinds, each embedding BaseNode for
// its id/kind/attribute-index/range/leaf bookkeeping. Nodes are immutable
// once completed; the only post-completion mutation is id-preserving
// re-parenting performed by the node-identity map during parse.
package ast

import (
	"reflect"

	"github.com/cwbudde/pqparse/token"
)

// Kind is the closed enumeration of every grammar production this parser
// produces a node for.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindSectionMember
	KindLetExpression
	KindIfExpression
	KindEachExpression
	KindFunctionExpression
	KindRecordExpression
	KindListExpression
	KindInvokeExpression
	KindItemAccessExpression
	KindFieldSelector
	KindFieldProjection
	KindRecursivePrimaryExpression
	KindArithmeticExpression
	KindRelationalExpression
	KindEqualityExpression
	KindLogicalExpression
	KindIsExpression
	KindAsExpression
	KindMetadataExpression
	KindNullCoalescingExpression
	KindUnaryExpression
	KindParenthesizedExpression
	KindNotImplementedExpression
	KindLiteralExpression
	KindIdentifier
	KindGeneralizedIdentifier
	KindIdentifierExpression
	KindConstant
	KindAsType
	KindAsNullablePrimitiveType
	KindNullablePrimitiveType
	KindNullableType
	KindPrimitiveType
	KindFunctionType
	KindListType
	KindRecordType
	KindTableType
	KindFieldSpecificationList
	KindFieldSpecification
	KindParameterList
	KindParameter
	KindFieldTypeSpecification
	KindErrorRaisingExpression
	KindErrorHandlingExpression
	KindCatchExpression
	KindCsvArray
	KindArrayWrapper
	KindIdentifierPairedExpression
	KindGeneralizedIdentifierPairedExpression
	KindGeneralizedIdentifierPairedAnyLiteral
	KindRecordLiteral
	KindListLiteral
)

var kindNames = [...]string{
	"Document", "Section", "SectionMember", "LetExpression", "IfExpression",
	"EachExpression", "FunctionExpression", "RecordExpression", "ListExpression",
	"InvokeExpression", "ItemAccessExpression", "FieldSelector", "FieldProjection",
	"RecursivePrimaryExpression", "ArithmeticExpression", "RelationalExpression",
	"EqualityExpression", "LogicalExpression", "IsExpression", "AsExpression",
	"MetadataExpression", "NullCoalescingExpression", "UnaryExpression",
	"ParenthesizedExpression", "NotImplementedExpression", "LiteralExpression",
	"Identifier", "GeneralizedIdentifier", "IdentifierExpression", "Constant",
	"AsType", "AsNullablePrimitiveType", "NullablePrimitiveType", "NullableType",
	"PrimitiveType", "FunctionType", "ListType", "RecordType", "TableType",
	"FieldSpecificationList", "FieldSpecification", "ParameterList", "Parameter",
	"FieldTypeSpecification", "ErrorRaisingExpression", "ErrorHandlingExpression",
	"CatchExpression", "CsvArray", "ArrayWrapper", "IdentifierPairedExpression",
	"GeneralizedIdentifierPairedExpression", "GeneralizedIdentifierPairedAnyLiteral",
	"RecordLiteral", "ListLiteral",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTerminalKind reports whether nodes of this kind are always terminal. Leaf-ness
// is also tracked per-instance on BaseNode (some kinds, like Constant, are
// always leaves; this table matches §3.3's closed leaf-kind set).
func (k Kind) IsTerminalKind() bool {
	switch k {
	case KindConstant, KindIdentifier, KindGeneralizedIdentifier, KindLiteralExpression, KindPrimitiveType:
		return true
	default:
		return false
	}
}

// Node is implemented by every completed syntax node.
type Node interface {
	ID() int
	NodeKind() Kind
	AttributeIndex() int
	Range() token.Range
	IsLeaf() bool
}

// BaseNode carries the bookkeeping every concrete node shares. Embed it by
// value; the parser package's node-identity map writes its fields through
// reflection (setASTID/setASTAttributeIndex) during id recalculation and
// re-parenting, which is not part of the public Node contract.
type BaseNode struct {
	ID       int
	Kind     Kind
	AttrIdx  int
	TokenRange token.Range
	Leaf     bool
}

// Document is the root of a parsed file: either a Section or a bare
// top-level expression, chosen by the façade's parseDocument entry point.
type Document struct {
	BaseNode
	Body Node // *Section or an expression node
}

func (d *Document) ID() int             { return d.BaseNode.ID }
func (d *Document) NodeKind() Kind      { return d.BaseNode.Kind }
func (d *Document) AttributeIndex() int { return d.BaseNode.AttrIdx }
func (d *Document) Range() token.Range  { return d.BaseNode.TokenRange }
func (d *Document) IsLeaf() bool        { return d.BaseNode.Leaf }

// Section is `section [name];` followed by a list of SectionMember nodes.
type Section struct {
	BaseNode
	Literal *Constant
	Name    *Identifier // nil for an anonymous section
	Members []*SectionMember
}

func (n *Section) ID() int             { return n.BaseNode.ID }
func (n *Section) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *Section) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *Section) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *Section) IsLeaf() bool        { return n.BaseNode.Leaf }

// SectionMember is `[shared] name = expression;`.
type SectionMember struct {
	BaseNode
	IsShared bool
	Name     *IdentifierPairedExpression
}

func (n *SectionMember) ID() int             { return n.BaseNode.ID }
func (n *SectionMember) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *SectionMember) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *SectionMember) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *SectionMember) IsLeaf() bool        { return n.BaseNode.Leaf }

// LetExpression is `let b1, b2, ... in body`.
type LetExpression struct {
	BaseNode
	Bindings []*IdentifierPairedExpression
	Body     Node
}

func (n *LetExpression) ID() int             { return n.BaseNode.ID }
func (n *LetExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *LetExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *LetExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *LetExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// IfExpression is `if cond then trueExpr else falseExpr`.
type IfExpression struct {
	BaseNode
	Condition Node
	TrueExpr  Node
	FalseExpr Node
}

func (n *IfExpression) ID() int             { return n.BaseNode.ID }
func (n *IfExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *IfExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *IfExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *IfExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// EachExpression is `each expr`, sugar for a one-parameter function over
// the implicit `_` parameter.
type EachExpression struct {
	BaseNode
	Body Node
}

func (n *EachExpression) ID() int             { return n.BaseNode.ID }
func (n *EachExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *EachExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *EachExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *EachExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// FunctionExpression is `(p1, p2, ...) as returnType => body`.
type FunctionExpression struct {
	BaseNode
	Parameters []*Parameter
	ReturnType *AsNullablePrimitiveType // nil if absent
	Body       Node
}

func (n *FunctionExpression) ID() int             { return n.BaseNode.ID }
func (n *FunctionExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FunctionExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FunctionExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FunctionExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// Parameter is one entry of a FunctionExpression's parameter list.
type Parameter struct {
	BaseNode
	IsOptional bool
	Name       *Identifier
	Type       *AsNullablePrimitiveType // nil if untyped
}

func (n *Parameter) ID() int             { return n.BaseNode.ID }
func (n *Parameter) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *Parameter) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *Parameter) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *Parameter) IsLeaf() bool        { return n.BaseNode.Leaf }

// RecordExpression is `[a = 1, b = 2, ...]`.
type RecordExpression struct {
	BaseNode
	Fields []*GeneralizedIdentifierPairedExpression
}

func (n *RecordExpression) ID() int             { return n.BaseNode.ID }
func (n *RecordExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *RecordExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *RecordExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *RecordExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// ListExpression is `{ item1, item2, ... }`.
type ListExpression struct {
	BaseNode
	Items []Node
}

func (n *ListExpression) ID() int             { return n.BaseNode.ID }
func (n *ListExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ListExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ListExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ListExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// InvokeExpression is the `(args)` recursive-access head in `f(args)`.
type InvokeExpression struct {
	BaseNode
	Arguments []Node
}

func (n *InvokeExpression) ID() int             { return n.BaseNode.ID }
func (n *InvokeExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *InvokeExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *InvokeExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *InvokeExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// ItemAccessExpression is the `{index}` recursive-access head in `l{0}`.
type ItemAccessExpression struct {
	BaseNode
	Item         Node
	IsOptional   bool // `l{0}?`
}

func (n *ItemAccessExpression) ID() int             { return n.BaseNode.ID }
func (n *ItemAccessExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ItemAccessExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ItemAccessExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ItemAccessExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// FieldSelector is the `[name]` recursive-access head in `r[a]`, and also
// the standalone expression the disambiguator resolves `[a]` to in
// isolation (no preceding primary).
type FieldSelector struct {
	BaseNode
	Field      *GeneralizedIdentifier
	IsOptional bool // `r[a]?`
}

func (n *FieldSelector) ID() int             { return n.BaseNode.ID }
func (n *FieldSelector) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FieldSelector) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FieldSelector) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FieldSelector) IsLeaf() bool        { return n.BaseNode.Leaf }

// FieldProjection is `[[a],[b],...]`, optionally `?`-suffixed.
type FieldProjection struct {
	BaseNode
	Fields     []*FieldSelector
	IsOptional bool
}

func (n *FieldProjection) ID() int             { return n.BaseNode.ID }
func (n *FieldProjection) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FieldProjection) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FieldProjection) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FieldProjection) IsLeaf() bool        { return n.BaseNode.Leaf }

// RecursivePrimaryExpression chains field access, item access, and
// invocation heads onto a single primary expression. Produced
// retroactively by StartContextAsParent as soon as the first access
// follows the primary expression.
type RecursivePrimaryExpression struct {
	BaseNode
	Head         Node   // the original primary expression
	RecursiveExprs []Node // InvokeExpression | FieldSelector | FieldProjection | ItemAccessExpression
}

func (n *RecursivePrimaryExpression) ID() int             { return n.BaseNode.ID }
func (n *RecursivePrimaryExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *RecursivePrimaryExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *RecursivePrimaryExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *RecursivePrimaryExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// BinOpExpression is the shared shape for every binary-operator node the
// combiner produces: ArithmeticExpression, RelationalExpression,
// EqualityExpression, LogicalExpression, IsExpression, AsExpression,
// MetadataExpression, NullCoalescingExpression. The Kind field (on
// BaseNode) distinguishes which grammar production this instance is.
type BinOpExpression struct {
	BaseNode
	Left     Node
	Operator *Constant
	Right    Node
}

func (n *BinOpExpression) ID() int             { return n.BaseNode.ID }
func (n *BinOpExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *BinOpExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *BinOpExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *BinOpExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// UnaryExpression is one or more prefix operators (`-`, `+`, `not`)
// applied to a primary expression.
type UnaryExpression struct {
	BaseNode
	Operators []*Constant
	Operand   Node
}

func (n *UnaryExpression) ID() int             { return n.BaseNode.ID }
func (n *UnaryExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *UnaryExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *UnaryExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *UnaryExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// ParenthesizedExpression is `(expr)` once the disambiguator has ruled out
// FunctionExpression.
type ParenthesizedExpression struct {
	BaseNode
	Inner Node
}

func (n *ParenthesizedExpression) ID() int             { return n.BaseNode.ID }
func (n *ParenthesizedExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ParenthesizedExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ParenthesizedExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ParenthesizedExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// NotImplementedExpression is the bare `...` expression.
type NotImplementedExpression struct {
	BaseNode
}

func (n *NotImplementedExpression) ID() int             { return n.BaseNode.ID }
func (n *NotImplementedExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *NotImplementedExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *NotImplementedExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *NotImplementedExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// LiteralExpression is a leaf numeric, text, hex, logical, or null literal.
type LiteralExpression struct {
	BaseNode
	LiteralKind token.Kind // NumericLiteral | HexLiteral | TextLiteral | TrueLiteral | FalseLiteral | NullLiteral
	Text        string
}

func (n *LiteralExpression) ID() int             { return n.BaseNode.ID }
func (n *LiteralExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *LiteralExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *LiteralExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *LiteralExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// Identifier is a leaf, regular or quoted (`#"..."`).
type Identifier struct {
	BaseNode
	Name     string
	IsQuoted bool
}

func (n *Identifier) ID() int             { return n.BaseNode.ID }
func (n *Identifier) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *Identifier) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *Identifier) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *Identifier) IsLeaf() bool        { return n.BaseNode.Leaf }

// GeneralizedIdentifier is a leaf identifier-or-keyword-start name used in
// field-name syntactic positions.
type GeneralizedIdentifier struct {
	BaseNode
	Name string
}

func (n *GeneralizedIdentifier) ID() int             { return n.BaseNode.ID }
func (n *GeneralizedIdentifier) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *GeneralizedIdentifier) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *GeneralizedIdentifier) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *GeneralizedIdentifier) IsLeaf() bool        { return n.BaseNode.Leaf }

// IdentifierExpression is an Identifier used in expression position,
// optionally `@`-prefixed to suppress recursive lookup.
type IdentifierExpression struct {
	BaseNode
	Inclusive bool // true when prefixed with '@'
	Identifier *Identifier
}

func (n *IdentifierExpression) ID() int             { return n.BaseNode.ID }
func (n *IdentifierExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *IdentifierExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *IdentifierExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *IdentifierExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// Constant is a leaf node wrapping a single fixed-spelling token: a
// keyword, an operator, or a punctuator used as a grammar constant
// (e.g. the `=>` in a FunctionExpression, the `+` in an ArithmeticExpression).
type Constant struct {
	BaseNode
	ConstantKind token.Kind
	Text         string
}

// CanonicalText renders the constant's canonical spelling. For every
// constant kind except the null keyword (token.Null) this is simply Text; the null literal
// is rendered as the fixed name "null" regardless of the token's literal
// text, matching how every other Constant already renders its canonical
// token spelling rather than incidental casing.
func (n *Constant) CanonicalText() string {
	if n.ConstantKind == token.Null {
		return "null"
	}
	return n.Text
}

func (n *Constant) ID() int             { return n.BaseNode.ID }
func (n *Constant) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *Constant) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *Constant) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *Constant) IsLeaf() bool        { return n.BaseNode.Leaf }

// AsType is `as type` appearing after a FunctionExpression's parameter
// list's close paren, or after an expression's operand in a standalone
// AsExpression (handled instead via BinOpExpression for the latter).
type AsType struct {
	BaseNode
	Type Node // a type expression
}

func (n *AsType) ID() int             { return n.BaseNode.ID }
func (n *AsType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *AsType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *AsType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *AsType) IsLeaf() bool        { return n.BaseNode.Leaf }

// AsNullablePrimitiveType is `as [nullable] primitiveType`, used for
// parameter type annotations and function return types.
type AsNullablePrimitiveType struct {
	BaseNode
	Type *NullablePrimitiveType
}

func (n *AsNullablePrimitiveType) ID() int             { return n.BaseNode.ID }
func (n *AsNullablePrimitiveType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *AsNullablePrimitiveType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *AsNullablePrimitiveType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *AsNullablePrimitiveType) IsLeaf() bool        { return n.BaseNode.Leaf }

// NullablePrimitiveType is `[nullable] primitiveType`.
type NullablePrimitiveType struct {
	BaseNode
	IsNullable bool
	Primitive  *PrimitiveType
}

func (n *NullablePrimitiveType) ID() int             { return n.BaseNode.ID }
func (n *NullablePrimitiveType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *NullablePrimitiveType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *NullablePrimitiveType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *NullablePrimitiveType) IsLeaf() bool        { return n.BaseNode.Leaf }

// NullableType is `nullable type` wrapping any type expression (as
// opposed to NullablePrimitiveType's narrower primitive-only form).
type NullableType struct {
	BaseNode
	Type Node
}

func (n *NullableType) ID() int             { return n.BaseNode.ID }
func (n *NullableType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *NullableType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *NullableType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *NullableType) IsLeaf() bool        { return n.BaseNode.Leaf }

// PrimitiveType is a leaf wrapping one type-primitive keyword (number,
// text, any, ...).
type PrimitiveType struct {
	BaseNode
	PrimitiveKind token.Kind
}

func (n *PrimitiveType) ID() int             { return n.BaseNode.ID }
func (n *PrimitiveType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *PrimitiveType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *PrimitiveType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *PrimitiveType) IsLeaf() bool        { return n.BaseNode.Leaf }

// FunctionType is `function (params) as returnType`.
type FunctionType struct {
	BaseNode
	Parameters []*Parameter
	ReturnType *AsType
}

func (n *FunctionType) ID() int             { return n.BaseNode.ID }
func (n *FunctionType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FunctionType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FunctionType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FunctionType) IsLeaf() bool        { return n.BaseNode.Leaf }

// ListType is `{ itemType }`.
type ListType struct {
	BaseNode
	ItemType Node
}

func (n *ListType) ID() int             { return n.BaseNode.ID }
func (n *ListType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ListType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ListType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ListType) IsLeaf() bool        { return n.BaseNode.Leaf }

// RecordType is `[ fieldSpecificationList ]`.
type RecordType struct {
	BaseNode
	Fields *FieldSpecificationList
}

func (n *RecordType) ID() int             { return n.BaseNode.ID }
func (n *RecordType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *RecordType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *RecordType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *RecordType) IsLeaf() bool        { return n.BaseNode.Leaf }

// TableType is `table fieldSpecificationList` or `table rowType`.
type TableType struct {
	BaseNode
	RowType Node
}

func (n *TableType) ID() int             { return n.BaseNode.ID }
func (n *TableType) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *TableType) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *TableType) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *TableType) IsLeaf() bool        { return n.BaseNode.Leaf }

// FieldSpecificationList is `[ spec, spec, ... ]` or `[ spec, ..., ... ]`
// (the trailing `...` marks the record type open).
type FieldSpecificationList struct {
	BaseNode
	Fields     []*FieldSpecification
	IsOpen     bool
}

func (n *FieldSpecificationList) ID() int             { return n.BaseNode.ID }
func (n *FieldSpecificationList) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FieldSpecificationList) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FieldSpecificationList) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FieldSpecificationList) IsLeaf() bool        { return n.BaseNode.Leaf }

// FieldSpecification is `[optional] name [= fieldTypeSpecification]`.
type FieldSpecification struct {
	BaseNode
	IsOptional bool
	Name       *GeneralizedIdentifier
	Type       *FieldTypeSpecification // nil if untyped
}

func (n *FieldSpecification) ID() int             { return n.BaseNode.ID }
func (n *FieldSpecification) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FieldSpecification) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FieldSpecification) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FieldSpecification) IsLeaf() bool        { return n.BaseNode.Leaf }

// FieldTypeSpecification is `= type` inside a FieldSpecification.
type FieldTypeSpecification struct {
	BaseNode
	Type Node
}

func (n *FieldTypeSpecification) ID() int             { return n.BaseNode.ID }
func (n *FieldTypeSpecification) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *FieldTypeSpecification) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *FieldTypeSpecification) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *FieldTypeSpecification) IsLeaf() bool        { return n.BaseNode.Leaf }

// ErrorRaisingExpression is `error expr`.
type ErrorRaisingExpression struct {
	BaseNode
	Value Node
}

func (n *ErrorRaisingExpression) ID() int             { return n.BaseNode.ID }
func (n *ErrorRaisingExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ErrorRaisingExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ErrorRaisingExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ErrorRaisingExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// ErrorHandlingExpression is `try expr [otherwise expr | catch (...) => expr]`.
type ErrorHandlingExpression struct {
	BaseNode
	Protected Node
	Otherwise Node             // nil if absent
	Catch     *CatchExpression // nil if absent
}

func (n *ErrorHandlingExpression) ID() int             { return n.BaseNode.ID }
func (n *ErrorHandlingExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ErrorHandlingExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ErrorHandlingExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ErrorHandlingExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// CatchExpression is the `catch (x) => body` clause of try/catch; its
// Function field must be a one-parameter, untyped FunctionExpression.
type CatchExpression struct {
	BaseNode
	Function *FunctionExpression
}

func (n *CatchExpression) ID() int             { return n.BaseNode.ID }
func (n *CatchExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *CatchExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *CatchExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *CatchExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// IdentifierPairedExpression is `identifier = expression`, used for let
// bindings and section members.
type IdentifierPairedExpression struct {
	BaseNode
	Name  *Identifier
	Value Node
}

func (n *IdentifierPairedExpression) ID() int             { return n.BaseNode.ID }
func (n *IdentifierPairedExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *IdentifierPairedExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *IdentifierPairedExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *IdentifierPairedExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// GeneralizedIdentifierPairedExpression is `generalizedIdentifier = expression`,
// used for record fields.
type GeneralizedIdentifierPairedExpression struct {
	BaseNode
	Name  *GeneralizedIdentifier
	Value Node
}

func (n *GeneralizedIdentifierPairedExpression) ID() int             { return n.BaseNode.ID }
func (n *GeneralizedIdentifierPairedExpression) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *GeneralizedIdentifierPairedExpression) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *GeneralizedIdentifierPairedExpression) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *GeneralizedIdentifierPairedExpression) IsLeaf() bool        { return n.BaseNode.Leaf }

// GeneralizedIdentifierPairedAnyLiteral is the metadata-record-literal
// variant of a field pairing: `generalizedIdentifier = anyLiteral`, where
// anyLiteral is restricted to RecordLiteral, ListLiteral, or LiteralExpression.
type GeneralizedIdentifierPairedAnyLiteral struct {
	BaseNode
	Name  *GeneralizedIdentifier
	Value Node
}

func (n *GeneralizedIdentifierPairedAnyLiteral) ID() int             { return n.BaseNode.ID }
func (n *GeneralizedIdentifierPairedAnyLiteral) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *GeneralizedIdentifierPairedAnyLiteral) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *GeneralizedIdentifierPairedAnyLiteral) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *GeneralizedIdentifierPairedAnyLiteral) IsLeaf() bool        { return n.BaseNode.Leaf }

// RecordLiteral is a RecordExpression restricted to literal-only field
// values, used inside metadata expressions and other constant contexts.
type RecordLiteral struct {
	BaseNode
	Fields []*GeneralizedIdentifierPairedAnyLiteral
}

func (n *RecordLiteral) ID() int             { return n.BaseNode.ID }
func (n *RecordLiteral) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *RecordLiteral) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *RecordLiteral) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *RecordLiteral) IsLeaf() bool        { return n.BaseNode.Leaf }

// ListLiteral is a ListExpression restricted to literal-only items.
type ListLiteral struct {
	BaseNode
	Items []Node
}

func (n *ListLiteral) ID() int             { return n.BaseNode.ID }
func (n *ListLiteral) NodeKind() Kind      { return n.BaseNode.Kind }
func (n *ListLiteral) AttributeIndex() int { return n.BaseNode.AttrIdx }
func (n *ListLiteral) Range() token.Range  { return n.BaseNode.TokenRange }
func (n *ListLiteral) IsLeaf() bool        { return n.BaseNode.Leaf }

// Inspect walks node and its descendants in depth-first order via
// reflection, mirroring the teacher's reflection-based position-setting
// in node_builder.go: rather than hand-writing a visitor method per node
// type, struct fields are walked generically. fn is called with each
// ast.Node found (including node itself); returning false skips that
// node's children. Fields must be exported and either implement Node, be
// a slice of Node-implementers, or be a slice of concrete *T pointers
// whose element type implements Node — a field of any other type is
// simply skipped, not an error.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return
	}
	if !fn(node) {
		return
	}
	inspectChildren(reflect.ValueOf(node), fn)
}

func inspectChildren(v reflect.Value, fn func(Node) bool) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}
		fv := v.Field(i)
		visitFieldValue(fv, fn)
	}
}

func visitFieldValue(fv reflect.Value, fn func(Node) bool) {
	switch fv.Kind() {
	case reflect.Interface:
		if fv.IsNil() {
			return
		}
		if n, ok := fv.Interface().(Node); ok {
			Inspect(n, fn)
		}
	case reflect.Ptr:
		if fv.IsNil() {
			return
		}
		if n, ok := fv.Interface().(Node); ok {
			Inspect(n, fn)
		}
	case reflect.Slice:
		for i := 0; i < fv.Len(); i++ {
			visitFieldValue(fv.Index(i), fn)
		}
	default:
		// scalars, BaseNode itself, etc. — nothing to descend into.
	}
}
