// Package rewrite implements the post-order kind rewriter of §4.9: a small
// static (parent_kind, child_kind) -> new_kind table applied bottom-up to a
// finished green tree, so that a context-free terminal can be reinterpreted
// based on the production it appears in (e.g. "*" retagged ASTERISK only
// inside a select column list).
//
// There is no direct analogue of this pass in the teacher repo (ictiobus's
// parse trees are never rewritten post-parse); it is modelled directly on
// §4.9 and on original_source's resolve_anotation_status_children, which
// performs a similar bottom-up fold over already-built children.
package rewrite

import (
	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/green"
	"github.com/dekarrin/sqlitecst/kind"
)

// Rule is one (parent, child) -> replacement mapping.
type Rule struct {
	Parent      kind.ID
	Child       kind.ID
	Replacement kind.ID
}

// Table is a set of rewrite rules, keyed for O(1) lookup during the
// post-order walk.
type Table struct {
	rules map[[2]kind.ID]kind.ID
}

// NewTable builds a Table from an unordered list of rules. Later rules
// override earlier ones for the same (parent, child) pair.
func NewTable(rules []Rule) *Table {
	m := make(map[[2]kind.ID]kind.ID, len(rules))
	for _, r := range rules {
		m[[2]kind.ID{r.Parent, r.Child}] = r.Replacement
	}
	return &Table{rules: m}
}

// Apply walks root bottom-up, rewriting any child whose (parent kind, child
// kind) pair appears in t, and forwarding that child's annotation (if any)
// to the AnnotationKey computed under its new kind. It returns the
// (possibly unchanged) rewritten root; annos is mutated in place with the
// forwarded entries.
func (t *Table) Apply(root green.Element, annos annotate.Map) green.Element {
	rewritten, _ := t.walk(root, 0, annos)
	return rewritten
}

// walk rewrites elem (found at offset) and returns the possibly-replaced
// element plus its (possibly unchanged) length, since a rewrite never
// changes byte length.
func (t *Table) walk(elem green.Element, offset int, annos annotate.Map) (green.Element, int) {
	node, ok := elem.(*green.Node)
	if !ok {
		return elem, elem.ElemLen()
	}

	children := make([]green.Element, len(node.Children))
	childOffset := offset
	for i, c := range node.Children {
		rewrittenChild, length := t.walk(c, childOffset, annos)
		if newKind, hit := t.rules[[2]kind.ID{node.Kind, rewrittenChild.ElemKind()}]; hit {
			rewrittenChild = t.retag(rewrittenChild, newKind, childOffset, annos)
		}
		children[i] = rewrittenChild
		childOffset += length
	}
	return &green.Node{Kind: node.Kind, Children: children, Len: node.Len}, node.Len
}

// retag rebuilds elem under newKind, carrying its old AnnotationKey's
// annotation forward to the new key (same offset/length/is_node).
func (t *Table) retag(elem green.Element, newKind kind.ID, offset int, annos annotate.Map) green.Element {
	oldKey := annotate.KeyOf(elem.ElemKind(), offset, elem.ElemLen(), elem.IsNode())
	ann, hasAnn := annos.Get(oldKey)

	var rebuilt green.Element
	switch e := elem.(type) {
	case *green.Token:
		rebuilt = &green.Token{Kind: newKind, Text: e.Text}
	case *green.Node:
		rebuilt = &green.Node{Kind: newKind, Children: e.Children, Len: e.Len}
	default:
		return elem
	}

	if hasAnn {
		newKey := annotate.KeyOf(newKind, offset, elem.ElemLen(), elem.IsNode())
		annos.Set(newKey, ann)
	}
	return rebuilt
}
