package parser

import (
	"github.com/google/uuid"

	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/intern"
	"github.com/dekarrin/sqlitecst/red"
)

// Node is the resolved cursor facade of §6; it is exactly red.Node, so
// every traversal method (Kind, Metadata, OffsetStart/End, Value,
// LeadingTrivia/TrailingTrivia, Children, Parent) is already defined on it.
type Node = red.Node

// SyntaxTree is the completed-parse facade of §6: a resolved tree plus the
// intern cache that resolved its non-keyword token text, kept alongside so
// an incremental successor can keep interning without invalidating this
// tree's lookups (§3 Lifecycle).
//
// SessionID tags the tree the way the teacher tags a save-file row: a fresh
// id is minted by Parser.Parse, and IncrementalParser.Parse carries the
// prior tree's id forward, since a reparse continues the same editing
// session rather than starting a new one.
type SyntaxTree struct {
	tree      *red.Tree
	interns   *intern.Cache
	SessionID uuid.UUID
}

// Root returns a cursor over the tree's root (program) node.
func (t *SyntaxTree) Root() Node { return t.tree.Root() }

// CoveringElement returns the innermost node whose byte range contains
// [start, end) (§6 covering_element).
func (t *SyntaxTree) CoveringElement(start, end int) (Node, bool) {
	return t.tree.CoveringElement(start, end)
}

// GetAnnotationOf exposes the tree's raw annotation lookup (§6).
func (t *SyntaxTree) GetAnnotationOf(key annotate.Key) (annotate.Annotation, bool) {
	return t.tree.GetAnnotationOf(key)
}

// HasErrors reports whether any node in the tree is annotated Error or
// FatalError (§4.6), i.e. whether recovery had to intervene anywhere in
// the parse.
func (t *SyntaxTree) HasErrors() bool {
	return hasErrors(t.Root())
}

func hasErrors(n Node) bool {
	if ann, ok := n.Metadata(); ok && (ann.NodeType == annotate.Error || ann.NodeType == annotate.FatalError) {
		return true
	}
	for _, c := range n.Children() {
		if hasErrors(c) {
			return true
		}
	}
	return false
}

// EditScope describes a text edit (§4.8, §6): the FromLen bytes at Offset
// are replaced with ToLen new bytes.
type EditScope struct {
	Offset  int
	FromLen int
	ToLen   int
}
