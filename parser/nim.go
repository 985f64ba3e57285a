package parser

import (
	"sort"

	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/perror"
	"github.com/cwbudde/pqparse/token"
)

// ContextNode is the mutable mirror of a node still being built. It
// converts in place (same id) into an ast.Node exactly once, on endContext.
type ContextNode struct {
	ID               int
	Kind             ast.Kind
	TokenIndexStart  int
	TokenStart       token.Token
	AttributeCounter int
	AttributeIndex   int
	ParentID         int
	HasParent        bool
}

// XorNode is the hybrid Ast/Context view external consumers (inspection,
// disambiguation fallback, the combiner) use to walk a tree that may be
// partially built. Exactly one of Ast/Context is set.
type XorNode struct {
	Ast     ast.Node
	Context *ContextNode
}

func (x XorNode) ID() int {
	if x.Ast != nil {
		return x.Ast.ID()
	}
	return x.Context.ID
}

func (x XorNode) Kind() ast.Kind {
	if x.Ast != nil {
		return x.Ast.NodeKind()
	}
	return x.Context.Kind
}

func (x XorNode) AttributeIndex() int {
	if x.Ast != nil {
		return x.Ast.AttributeIndex()
	}
	return x.Context.AttributeIndex
}

func (x XorNode) TokenIndexStart() int {
	if x.Ast != nil {
		return x.Ast.Range().TokenIndexStart
	}
	return x.Context.TokenIndexStart
}

func (x XorNode) IsAst() bool { return x.Ast != nil }

// NIM (node-identity map) is the mutable spine of a parse: every in-flight
// context and every completed node owns a unique id, and the five indexes
// below are the only place relationships between ids are recorded. Every
// mutation must go through NIM's methods — direct field writes anywhere
// else would let the indexes drift out of lockstep.
type NIM struct {
	idCounter int

	astNodeByID     map[int]ast.Node
	contextNodeByID map[int]*ContextNode
	parentIDByID    map[int]int // absent => root
	childIDsByID    map[int][]int
	leafIDs         map[int]bool
	idsByKind       map[ast.Kind]map[int]bool
}

// NewNIM returns an empty node-identity map with a fresh id counter.
func NewNIM() *NIM {
	return &NIM{
		astNodeByID:     make(map[int]ast.Node),
		contextNodeByID: make(map[int]*ContextNode),
		parentIDByID:    make(map[int]int),
		childIDsByID:    make(map[int][]int),
		leafIDs:         make(map[int]bool),
		idsByKind:       make(map[ast.Kind]map[int]bool),
	}
}

func (n *NIM) nextID() int {
	id := n.idCounter
	n.idCounter++
	return id
}

func (n *NIM) addToKindIndex(id int, kind ast.Kind) {
	set, ok := n.idsByKind[kind]
	if !ok {
		set = make(map[int]bool)
		n.idsByKind[kind] = set
	}
	set[id] = true
}

func (n *NIM) removeFromKindIndex(id int, kind ast.Kind) {
	if set, ok := n.idsByKind[kind]; ok {
		delete(set, id)
	}
}

// StartContext appends a fresh context as the child of parentID at the
// parent's current attribute-counter slot, returning the new context's id.
// If parentID has no entry (root of the parse), the new context has no
// parent.
func (n *NIM) StartContext(kind ast.Kind, parentID int, hasParent bool, startIndex int, startToken token.Token) *ContextNode {
	id := n.nextID()
	attrIdx := 0
	if hasParent {
		if parent, ok := n.contextNodeByID[parentID]; ok {
			attrIdx = parent.AttributeCounter
		}
	}
	ctx := &ContextNode{
		ID:              id,
		Kind:            kind,
		TokenIndexStart: startIndex,
		TokenStart:      startToken,
		AttributeIndex:  attrIdx,
		ParentID:        parentID,
		HasParent:       hasParent,
	}
	n.contextNodeByID[id] = ctx
	if hasParent {
		n.parentIDByID[id] = parentID
		n.childIDsByID[parentID] = append(n.childIDsByID[parentID], id)
	}
	n.addToKindIndex(id, kind)
	return ctx
}

// StartContextAsParent inserts a new context of kind between existingID and
// its current parent: existingID becomes the new context's first (and, at
// insertion time, only) child. This is followed by a subtree id
// recalculation so the "ids are monotone in pre-order" invariant holds for
// every consumer that relies on it.
func (n *NIM) StartContextAsParent(kind ast.Kind, existingID int) (*ContextNode, error) {
	grandparentID, hadParent := n.parentIDByID[existingID]
	existingStartIdx, existingStartTok, err := n.startOf(existingID)
	if err != nil {
		return nil, err
	}

	newID := n.nextID()
	newCtx := &ContextNode{
		ID:              newID,
		Kind:            kind,
		TokenIndexStart: existingStartIdx,
		TokenStart:      existingStartTok,
		AttributeIndex:  0,
		HasParent:       hadParent,
	}
	if hadParent {
		newCtx.ParentID = grandparentID
		siblings := n.childIDsByID[grandparentID]
		for i, id := range siblings {
			if id == existingID {
				siblings[i] = newID
				break
			}
		}
		n.childIDsByID[grandparentID] = siblings
		n.parentIDByID[newID] = grandparentID
	}
	n.contextNodeByID[newID] = newCtx
	n.addToKindIndex(newID, kind)

	n.parentIDByID[existingID] = newID
	n.childIDsByID[newID] = []int{existingID}
	n.setAttributeIndex(existingID, 0)

	if err := n.RecalculateAndUpdateIDs(newID); err != nil {
		return nil, err
	}
	return n.contextNodeByID[newCtx.ID], nil
}

func (n *NIM) startOf(id int) (int, token.Token, error) {
	if ctx, ok := n.contextNodeByID[id]; ok {
		return ctx.TokenIndexStart, ctx.TokenStart, nil
	}
	if node, ok := n.astNodeByID[id]; ok {
		r := node.Range()
		return r.TokenIndexStart, token.Token{}, nil
	}
	return 0, token.Token{}, perror.Invariant("no such id", "id not present in either NIM map")
}

func (n *NIM) setAttributeIndex(id int, idx int) {
	if ctx, ok := n.contextNodeByID[id]; ok {
		ctx.AttributeIndex = idx
		return
	}
	if node, ok := n.astNodeByID[id]; ok {
		setASTAttributeIndex(node, idx)
	}
}

// EndContext stamps the context's id, attribute index and leaf flag onto
// the completed node (and its kind, when the node carries the zero Kind),
// asserts the context matches the completed node's kind, moves it from
// contextNodeByID to astNodeByID (same id), and increments the parent's
// attribute counter. Restoring the parent as the current context is left
// to State.EndContext.
func (n *NIM) EndContext(id int, completed ast.Node) error {
	ctx, ok := n.contextNodeByID[id]
	if !ok {
		return perror.Invariant("endContext on unknown id", "")
	}
	withBaseNode(completed, func(b *ast.BaseNode) {
		b.ID = id
		b.AttrIdx = ctx.AttributeIndex
		b.Leaf = ctx.Kind.IsTerminalKind()
		if b.Kind == ast.KindDocument {
			b.Kind = ctx.Kind
		}
	})
	if ctx.Kind != completed.NodeKind() {
		return perror.Invariant("endContext kind mismatch", completed.NodeKind().String())
	}
	delete(n.contextNodeByID, id)
	n.astNodeByID[id] = completed
	if ctx.HasParent {
		if parent, ok := n.contextNodeByID[ctx.ParentID]; ok {
			parent.AttributeCounter++
		}
	}
	return nil
}

// DeleteContext removes id's bookkeeping entirely: detaches it from its
// parent's child list and deletes it from whichever of the two id→node
// maps currently holds it.
func (n *NIM) DeleteContext(id int) {
	kind := ast.Kind(-1)
	if ctx, ok := n.contextNodeByID[id]; ok {
		kind = ctx.Kind
		delete(n.contextNodeByID, id)
	} else if node, ok := n.astNodeByID[id]; ok {
		kind = node.NodeKind()
		delete(n.astNodeByID, id)
	}
	if parentID, ok := n.parentIDByID[id]; ok {
		siblings := n.childIDsByID[parentID]
		for i, c := range siblings {
			if c == id {
				n.childIDsByID[parentID] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	delete(n.parentIDByID, id)
	delete(n.childIDsByID, id)
	delete(n.leafIDs, id)
	if kind >= 0 {
		n.removeFromKindIndex(id, kind)
	}
}

// MarkLeaf records id as a terminal node. Called by recognizers for the
// closed leaf-kind set (Constant, Identifier, GeneralizedIdentifier,
// LiteralExpression, PrimitiveType) when their context completes.
func (n *NIM) MarkLeaf(id int) { n.leafIDs[id] = true }

// IsLeaf reports whether id was recorded as a leaf.
func (n *NIM) IsLeaf(id int) bool { return n.leafIDs[id] }

// ParentID returns id's parent and whether it has one.
func (n *NIM) ParentID(id int) (int, bool) {
	p, ok := n.parentIDByID[id]
	return p, ok
}

// ChildIDs returns id's children in attribute order. The returned slice
// must not be mutated by the caller.
func (n *NIM) ChildIDs(id int) []int { return n.childIDsByID[id] }

// AstNode returns the completed node for id, if any.
func (n *NIM) AstNode(id int) (ast.Node, bool) {
	node, ok := n.astNodeByID[id]
	return node, ok
}

// ContextForID returns the in-flight context for id, if any.
func (n *NIM) ContextForID(id int) (*ContextNode, bool) {
	ctx, ok := n.contextNodeByID[id]
	return ctx, ok
}

// XorNode returns the hybrid view for id.
func (n *NIM) XorNode(id int) (XorNode, bool) {
	if node, ok := n.astNodeByID[id]; ok {
		return XorNode{Ast: node}, true
	}
	if ctx, ok := n.contextNodeByID[id]; ok {
		return XorNode{Context: ctx}, true
	}
	return XorNode{}, false
}

// IDsByKind returns every id recorded under kind, in ascending order.
func (n *NIM) IDsByKind(kind ast.Kind) []int {
	set := n.idsByKind[kind]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LeftMostLeaf descends id's first-child chain to the leaf, O(depth).
func (n *NIM) LeftMostLeaf(id int) (int, error) {
	cur := id
	for {
		children := n.childIDsByID[cur]
		if len(children) == 0 {
			return cur, nil
		}
		cur = children[0]
	}
}

// RightMostLeaf descends id's last-child chain to the leaf, O(depth). It is
// computed on demand from childIDsByID, never cached.
func (n *NIM) RightMostLeaf(id int) (int, error) {
	cur := id
	for {
		children := n.childIDsByID[cur]
		if len(children) == 0 {
			return cur, nil
		}
		cur = children[len(children)-1]
	}
}

// Ancestry returns [id, parent(id), parent(parent(id)), ...] ending at the
// root, produced fresh on every call (not restartable, per the pull
// iterator shape generators are modeled as here).
func (n *NIM) Ancestry(id int) []int {
	out := []int{id}
	cur := id
	for {
		p, ok := n.parentIDByID[cur]
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

// RecalculateAndUpdateIDs reassigns ids inside the subtree rooted at
// rootID in pre-order so the subtree's ids become a freshly-contiguous
// ascending block, then rewrites all five indexes in one pass. Required by
// StartContextAsParent and by recursive-primary-expression rewrites: both
// insert a node "above" existing ids, which would otherwise break the
// "ids are monotone in pre-order" property downstream consumers rely on
// for deterministic traversal.
func (n *NIM) RecalculateAndUpdateIDs(rootID int) error {
	var order []int
	var walk func(id int)
	walk = func(id int) {
		order = append(order, id)
		for _, c := range n.childIDsByID[id] {
			walk(c)
		}
	}
	walk(rootID)

	remap := make(map[int]int, len(order))
	base := n.idCounter
	for i, oldID := range order {
		remap[oldID] = base + i
	}
	n.idCounter = base + len(order)

	newAst := make(map[int]ast.Node, len(n.astNodeByID))
	newCtx := make(map[int]*ContextNode, len(n.contextNodeByID))
	newParent := make(map[int]int, len(n.parentIDByID))
	newChildren := make(map[int][]int, len(n.childIDsByID))
	newLeaf := make(map[int]bool, len(n.leafIDs))
	newKindIdx := make(map[ast.Kind]map[int]bool, len(n.idsByKind))

	remapID := func(id int) int {
		if nid, ok := remap[id]; ok {
			return nid
		}
		return id
	}

	for oldID, node := range n.astNodeByID {
		id := remapID(oldID)
		if _, touched := remap[oldID]; touched {
			setASTID(node, id)
		}
		newAst[id] = node
	}
	for oldID, ctx := range n.contextNodeByID {
		id := remapID(oldID)
		if _, touched := remap[oldID]; touched {
			ctx.ID = id
			if ctx.HasParent {
				ctx.ParentID = remapID(ctx.ParentID)
			}
		}
		newCtx[id] = ctx
	}
	for oldID, parentID := range n.parentIDByID {
		newParent[remapID(oldID)] = remapID(parentID)
	}
	for oldID, children := range n.childIDsByID {
		remapped := make([]int, len(children))
		for i, c := range children {
			remapped[i] = remapID(c)
		}
		newChildren[remapID(oldID)] = remapped
	}
	for oldID := range n.leafIDs {
		newLeaf[remapID(oldID)] = true
	}
	for kind, set := range n.idsByKind {
		newSet := make(map[int]bool, len(set))
		for oldID := range set {
			newSet[remapID(oldID)] = true
		}
		newKindIdx[kind] = newSet
	}

	n.astNodeByID = newAst
	n.contextNodeByID = newCtx
	n.parentIDByID = newParent
	n.childIDsByID = newChildren
	n.leafIDs = newLeaf
	n.idsByKind = newKindIdx
	return nil
}

// clone returns a structural deep copy of the NIM: new maps throughout, and
// a shallow copy of each *ContextNode (contexts are small value-like
// structs so a by-value copy is cheap and safe to mutate independently).
// Completed ast.Node values are shared (pointers), since they are
// immutable once in astNodeByID — the only mutation that ever touches a
// completed node is id-recalculation, which a speculative branch performs
// on its own freshly-remapped copy, never on the shared original, so
// aliasing a completed node across clones is safe as long as neither clone
// recalculates an id that the other still holds at the old value. Since
// recalculation always targets an id minted by the same branch doing the
// recalculating, this holds.
func (n *NIM) clone() *NIM {
	out := &NIM{
		idCounter:       n.idCounter,
		astNodeByID:     make(map[int]ast.Node, len(n.astNodeByID)),
		contextNodeByID: make(map[int]*ContextNode, len(n.contextNodeByID)),
		parentIDByID:    make(map[int]int, len(n.parentIDByID)),
		childIDsByID:    make(map[int][]int, len(n.childIDsByID)),
		leafIDs:         make(map[int]bool, len(n.leafIDs)),
		idsByKind:       make(map[ast.Kind]map[int]bool, len(n.idsByKind)),
	}
	for id, node := range n.astNodeByID {
		out.astNodeByID[id] = node
	}
	for id, ctx := range n.contextNodeByID {
		copied := *ctx
		out.contextNodeByID[id] = &copied
	}
	for id, p := range n.parentIDByID {
		out.parentIDByID[id] = p
	}
	for id, children := range n.childIDsByID {
		c := make([]int, len(children))
		copy(c, children)
		out.childIDsByID[id] = c
	}
	for id := range n.leafIDs {
		out.leafIDs[id] = true
	}
	for kind, set := range n.idsByKind {
		newSet := make(map[int]bool, len(set))
		for id := range set {
			newSet[id] = true
		}
		out.idsByKind[kind] = newSet
	}
	return out
}

// InsertLeaf registers a freshly-built leaf node (a Constant read directly
// by the combiner, bypassing the open-context protocol described in
// §4.4's combine step) under a fresh id, with tok's start and end
// positions as its range. The token indices are set to 0..1; a caller
// reading tok at another stream index overwrites them with that index. It
// is not linked to any parent yet — InsertCompleted does that once the
// enclosing node exists.
func (n *NIM) InsertLeaf(node ast.Node, tok token.Token) (int, error) {
	id := n.nextID()
	rng := token.Range{
		TokenIndexStart: 0,
		TokenIndexEnd:   1,
		PositionStart:   tok.PositionStart,
		PositionEnd:     tok.PositionEnd,
	}
	withBaseNode(node, func(b *ast.BaseNode) {
		b.ID = id
		b.Kind = ast.KindConstant
		b.TokenRange = rng
		b.Leaf = true
	})
	n.astNodeByID[id] = node
	n.leafIDs[id] = true
	n.addToKindIndex(id, node.NodeKind())
	return id, nil
}

// InsertCompleted registers a node the combiner built directly (its
// fields already populated) under a fresh id, reparenting each id in
// childIDs to it in order (detaching each from whatever parent it had,
// if any — operand/operator reads that happened before the wrapping node
// existed are attached to whatever context was current at the time, and
// need correcting here, the same retroactive-reparenting need
// StartContextAsParent exists for).
func (n *NIM) InsertCompleted(node ast.Node, childIDs []int) (int, error) {
	id := n.nextID()
	n.astNodeByID[id] = node
	n.addToKindIndex(id, node.NodeKind())
	n.childIDsByID[id] = append([]int(nil), childIDs...)
	for i, childID := range childIDs {
		n.reparent(childID, id)
		n.setAttributeIndex(childID, i)
	}
	return id, nil
}

// AttachChild appends childID to parentID's child list, detaching it from
// whatever parent it previously had, and records its attribute index as
// its new position among parentID's children. Used where children arrive
// one at a time (recursive-primary-expression's trailing accesses) rather
// than all at once the way InsertCompleted expects.
func (n *NIM) AttachChild(parentID, childID int) {
	n.reparent(childID, parentID)
	n.childIDsByID[parentID] = append(n.childIDsByID[parentID], childID)
	n.setAttributeIndex(childID, len(n.childIDsByID[parentID])-1)
}

// reparent detaches childID from its current parent's child list (if any)
// and attaches it to newParentID's child list, appending it.
func (n *NIM) reparent(childID, newParentID int) {
	if oldParentID, ok := n.parentIDByID[childID]; ok {
		siblings := n.childIDsByID[oldParentID]
		for i, c := range siblings {
			if c == childID {
				n.childIDsByID[oldParentID] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.parentIDByID[childID] = newParentID
}

// setASTID and setASTAttributeIndex mutate a completed node's BaseNode
// fields directly. A completed node is otherwise immutable; the sole
// exception is id-preserving re-parenting, which is exactly what calls
// these.
func setASTID(node ast.Node, id int) {
	withBaseNode(node, func(b *ast.BaseNode) { b.ID = id })
}

func setASTAttributeIndex(node ast.Node, idx int) {
	withBaseNode(node, func(b *ast.BaseNode) { b.AttrIdx = idx })
}
