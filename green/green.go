// Package green implements the immutable, pointer-shared concrete syntax
// tree of §3: a green token holds a kind plus resolved text, a green node
// holds a kind plus an ordered list of children (nodes or tokens). Green
// trees carry no parent pointers and are referentially transparent, so the
// same subtree can be shared by an original parse and any number of its
// incremental successors (§4.8).
//
// This generalizes the single concrete internal/ictiobus/types/tree.go
// ParseTree (which mixes terminal/non-terminal into one struct with a bool
// flag) into the green/red split the spec calls for, so that red nodes
// (package red) can carry absolute offsets and logical parent links without
// those living in the shared green data itself.
package green

import "github.com/dekarrin/sqlitecst/kind"

// Element is either a *Node or a *Token.
type Element interface {
	// ElemKind returns the element's kind.
	ElemKind() kind.ID
	// ElemLen returns the element's byte length.
	ElemLen() int
	// IsNode reports whether this element is a *Node (as opposed to a
	// *Token); used to build an AnnotationKey's is_node field.
	IsNode() bool
}

// Token is an immutable leaf: a kind plus its resolved text. Keyword
// terminals carry their static registry text; non-keyword terminals carry
// the literal text captured by the scanner (already resolved through an
// intern.Cache by the CST builder).
type Token struct {
	Kind kind.ID
	Text string
}

func (t *Token) ElemKind() kind.ID { return t.Kind }
func (t *Token) ElemLen() int      { return len(t.Text) }
func (t *Token) IsNode() bool      { return false }

// Node is an immutable interior (or wrapper) element: a kind plus an
// ordered list of children. Len is cached at construction so repeated
// traversal doesn't re-walk the whole subtree to compute it.
type Node struct {
	Kind     kind.ID
	Children []Element
	Len      int
}

// NewNode builds a Node from its children, computing Len once.
func NewNode(k kind.ID, children []Element) *Node {
	total := 0
	for _, c := range children {
		total += c.ElemLen()
	}
	return &Node{Kind: k, Children: children, Len: total}
}

func (n *Node) ElemKind() kind.ID { return n.Kind }
func (n *Node) ElemLen() int      { return n.Len }
func (n *Node) IsNode() bool      { return true }
