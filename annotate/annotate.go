// Package annotate implements the out-of-band metadata side-table of §3:
// Annotation, AnnotationKey, and the NodeID identity used to correlate a
// green element with its annotation while a parse is under construction.
//
// Annotations are keyed by (kind, offset, length, is_node) rather than
// attached to the green tree itself, because green subtrees are
// structurally shared (§9 "Annotation side-table vs. in-node fields") — the
// same shared subtree can appear, unannotated, inside a later incremental
// tree that never asked for an annotation at that position.
package annotate

import "github.com/dekarrin/sqlitecst/kind"

// NodeType classifies why a green element exists / what role it plays,
// per §3.
type NodeType int

const (
	TokenSet NodeType = iota
	LeadingToken
	TrailingToken
	MainToken
	Node
	Error
	FatalError
)

func (t NodeType) String() string {
	switch t {
	case TokenSet:
		return "TokenSet"
	case LeadingToken:
		return "LeadingToken"
	case TrailingToken:
		return "TrailingToken"
	case MainToken:
		return "MainToken"
	case Node:
		return "Node"
	case Error:
		return "Error"
	case FatalError:
		return "FatalError"
	default:
		return "Unknown"
	}
}

// Recovery identifies which error-recovery strategy, if any, produced an
// Error/FatalError node.
type Recovery int

const (
	NoRecovery Recovery = iota
	Delete
	Shift
)

func (r Recovery) String() string {
	switch r {
	case Delete:
		return "Delete"
	case Shift:
		return "Shift"
	default:
		return "None"
	}
}

// Annotation is the metadata attached to one green node or token.
type Annotation struct {
	NodeType NodeType
	// State is the parser state in effect when the node was produced.
	State int
	// Recovery is set only when NodeType is Error or FatalError.
	Recovery Recovery
}

// Key uniquely identifies a green element within one concrete tree: the
// (kind, offset, length, node-or-token) tuple is unique in a concrete tree
// per §3, so it can stand in for a pointer without the green tree needing
// to store one.
type Key struct {
	Kind   kind.ID
	Offset int
	Len    int
	IsNode bool
}

// KeyOf builds a Key from an element's kind/length plus its computed
// absolute offset.
func KeyOf(k kind.ID, offset, length int, isNode bool) Key {
	return Key{Kind: k, Offset: offset, Len: length, IsNode: isNode}
}

// Map is the annotation side-table of a single tree: AnnotationKey ->
// Annotation.
type Map map[Key]Annotation

// NewMap returns an empty annotation map.
func NewMap() Map { return make(Map) }

// Set records ann for key.
func (m Map) Set(key Key, ann Annotation) { m[key] = ann }

// Get returns the annotation for key, and whether one was present.
func (m Map) Get(key Key) (Annotation, bool) {
	a, ok := m[key]
	return a, ok
}

// Clone returns a shallow copy of m (annotations are small value types, so
// a shallow copy is a full copy).
func (m Map) Clone() Map {
	cp := make(Map, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// NodeID is a monotonic identity allocated per produced green element
// during construction, used to thread offset/length aggregation through
// the element stack before a node's final AnnotationKey is known to be
// unique, and to keep Error-vs-Element provenance distinct on that stack
// (§3 "NodeId").
type NodeID uint64

// IDGen allocates NodeIDs for a single parse. It is not safe for concurrent
// use, matching §5's single-threaded-per-parse model.
type IDGen struct{ next uint64 }

// Next returns a fresh, previously-unused NodeID.
func (g *IDGen) Next() NodeID {
	g.next++
	return NodeID(g.next)
}
