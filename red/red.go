// Package red implements the resolved (cursor) layer of §3: a view over an
// immutable green.Element that carries the absolute byte range of the
// subtree it points at and its logical parent, computed during traversal
// rather than stored in the shared green tree (§9).
package red

import (
	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/green"
	"github.com/dekarrin/sqlitecst/kind"
)

// Node is a cursor over a green.Element within one Tree.
type Node struct {
	tree   *Tree
	elem   green.Element
	offset int
	parent *Node
}

// Kind returns the node's symbol kind.
func (n Node) Kind() kind.ID { return n.elem.ElemKind() }

// OffsetStart returns the absolute byte offset of the node's first byte.
func (n Node) OffsetStart() int { return n.offset }

// OffsetEnd returns the absolute byte offset one past the node's last
// byte.
func (n Node) OffsetEnd() int { return n.offset + n.elem.ElemLen() }

// Len returns the node's byte length.
func (n Node) Len() int { return n.elem.ElemLen() }

// IsNode reports whether the underlying green element is a *green.Node (as
// opposed to a leaf *green.Token).
func (n Node) IsNode() bool { return n.elem.IsNode() }

// Element exposes the underlying green element, for callers (incremental
// splicing, CST building) that need to rebuild a tree from a cursor.
func (n Node) Element() green.Element { return n.elem }

// Parent returns the node's parent and whether it has one (false for the
// root).
func (n Node) Parent() (Node, bool) {
	if n.parent == nil {
		return Node{}, false
	}
	return *n.parent, true
}

// Key returns the AnnotationKey this node is stored under.
func (n Node) Key() annotate.Key {
	return annotate.KeyOf(n.Kind(), n.OffsetStart(), n.Len(), n.IsNode())
}

// Metadata returns the node's annotation, if the owning tree has one
// recorded for it.
func (n Node) Metadata() (annotate.Annotation, bool) {
	return n.tree.annotations.Get(n.Key())
}

// Children returns the node's direct children as cursors, left to right,
// with correctly computed absolute offsets. A leaf token has no children.
func (n Node) Children() []Node {
	gn, ok := n.elem.(*green.Node)
	if !ok {
		return nil
	}
	out := make([]Node, len(gn.Children))
	offset := n.offset
	parent := n
	for i, c := range gn.Children {
		out[i] = Node{tree: n.tree, elem: c, offset: offset, parent: &parent}
		offset += c.ElemLen()
	}
	return out
}

// Value returns the node's text, per §6: for a TokenSet, the main token's
// text; for LeadingToken/TrailingToken/MainToken, the node's own text; for
// Error/FatalError, the first child's value; for a plain Node, none.
func (n Node) Value() (string, bool) {
	ann, hasAnn := n.Metadata()
	if tok, ok := n.elem.(*green.Token); ok {
		return tok.Text, true
	}
	if !hasAnn {
		// Untagged structural node (e.g. the synthetic root/ecmd wrapper):
		// no single-token value.
		return "", false
	}
	switch ann.NodeType {
	case annotate.TokenSet:
		for _, c := range n.Children() {
			if cAnn, ok := c.Metadata(); ok && cAnn.NodeType == annotate.MainToken {
				return c.Value()
			}
		}
		return "", false
	case annotate.Error, annotate.FatalError:
		children := n.Children()
		if len(children) == 0 {
			return "", false
		}
		return children[0].Value()
	default:
		return "", false
	}
}

// LeadingTrivia returns the leading-trivia children of a TokenSet node.
func (n Node) LeadingTrivia() []Node { return n.triviaChildren(annotate.LeadingToken) }

// TrailingTrivia returns the trailing-trivia children of a TokenSet node.
func (n Node) TrailingTrivia() []Node { return n.triviaChildren(annotate.TrailingToken) }

func (n Node) triviaChildren(want annotate.NodeType) []Node {
	var out []Node
	for _, c := range n.Children() {
		if ann, ok := c.Metadata(); ok && ann.NodeType == want {
			out = append(out, c)
		}
	}
	return out
}

// Tree is the facade over a completed parse (§6 SyntaxTree). It owns the
// root green element and the annotation side-table produced alongside it.
type Tree struct {
	root        green.Element
	annotations annotate.Map
}

// New builds a Tree facade from a finished green root and its annotations.
func New(root green.Element, annotations annotate.Map) *Tree {
	return &Tree{root: root, annotations: annotations}
}

// Root returns a cursor over the tree's root node.
func (t *Tree) Root() Node {
	return Node{tree: t, elem: t.root, offset: 0, parent: nil}
}

// Annotations exposes the tree's annotation map, e.g. for incremental
// annotation transfer.
func (t *Tree) Annotations() annotate.Map { return t.annotations }

// GetAnnotationOf returns the annotation stored at key.
func (t *Tree) GetAnnotationOf(key annotate.Key) (annotate.Annotation, bool) {
	return t.annotations.Get(key)
}

// CoveringElement returns the innermost node whose byte range contains
// [start, end). A zero-length range (start == end) matches a leaf boundary:
// the innermost leaf that starts exactly at start is preferred, falling
// back to the innermost leaf ending exactly at start.
func (t *Tree) CoveringElement(start, end int) (Node, bool) {
	root := t.Root()
	if start < root.OffsetStart() || end > root.OffsetEnd() {
		return Node{}, false
	}
	return narrow(root, start, end), true
}

func narrow(n Node, start, end int) Node {
	for {
		next, ok := pickChild(n.Children(), start, end)
		if !ok {
			return n
		}
		n = next
	}
}

func pickChild(children []Node, start, end int) (Node, bool) {
	if start != end {
		for i := range children {
			c := children[i]
			if c.OffsetStart() <= start && end <= c.OffsetEnd() {
				return c, true
			}
		}
		return Node{}, false
	}

	// Zero-length: prefer a child that starts exactly here, else one that
	// ends exactly here, else one that properly straddles the point. The
	// priority is over the whole sibling list, not just whichever child is
	// checked first: a left sibling ending exactly at start must not
	// preempt a right sibling starting exactly at start.
	var endsHere, straddles Node
	var haveEndsHere, haveStraddles bool
	for i := range children {
		c := children[i]
		if !(c.OffsetStart() <= start && end <= c.OffsetEnd()) {
			continue
		}
		switch {
		case c.OffsetStart() == start:
			return c, true
		case c.OffsetEnd() == start:
			if !haveEndsHere {
				endsHere, haveEndsHere = c, true
			}
		case c.OffsetStart() < start && start < c.OffsetEnd():
			if !haveStraddles {
				straddles, haveStraddles = c, true
			}
		}
	}
	if haveEndsHere {
		return endsHere, true
	}
	if haveStraddles {
		return straddles, true
	}
	return Node{}, false
}

// CoveringChain returns the full ancestor path from the root to the
// innermost *Token* (§3: a TokenSet's leading+main+trailing group) whose
// byte range contains [start, end), inclusive of the root and the Token
// itself — the information the incremental parser's splice step needs to
// rebuild every ancestor up to the root (§4.8 step 1, step 4).
//
// Unlike CoveringElement, this must not descend past a TokenSet into its
// LeadingToken/MainToken/TrailingToken leaf children: §4.8 step 1 locates
// the deepest Token, not a sub-token piece of one, since a Token is the
// unit the incremental parser reparses and splices.
func (t *Tree) CoveringChain(start, end int) ([]Node, bool) {
	root := t.Root()
	if start < root.OffsetStart() || end > root.OffsetEnd() {
		return nil, false
	}
	chain := []Node{root}
	cur := root
	for {
		if isTokenSet(cur) {
			return chain, true
		}
		next, ok := pickChild(cur.Children(), start, end)
		if !ok {
			return chain, true
		}
		chain = append(chain, next)
		cur = next
	}
}

// isTokenSet reports whether n's recorded annotation marks it as a
// TokenSet node (§3), the point CoveringChain must stop descending at.
func isTokenSet(n Node) bool {
	ann, ok := n.Metadata()
	return ok && ann.NodeType == annotate.TokenSet
}
