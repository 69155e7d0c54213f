// Package cst implements the CST builder of §4.5: it consumes shift/reduce
// events from the driver and constructs immutable green.Node/green.Token
// values, interning literal text and recording an annotate.Map entry for
// each one produced.
//
// The element-stack bookkeeping (Option<ElementOrError> slots, the
// None-collapses/Error-passes-through pop rule) follows
// original_source/crates/parser/src/parser.rs's create_green_token,
// create_green_node, and pop_elements closely; the driver loop that calls
// into this package mirrors internal/ictiobus/parse/lr.go's Parse method.
package cst

import (
	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/green"
	"github.com/dekarrin/sqlitecst/intern"
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/token"
)

// slot is one entry of the element stack: either nil (a collapsed optional
// production, §4.5 "None"), or a produced element tagged with whether it
// was an Error/FatalError node.
type slot struct {
	id      annotate.NodeID
	elem    green.Element
	offset  int
	isError bool
}

// Builder accumulates green elements and their annotations for a single
// parse (or a single incremental reparse of one subtree).
type Builder struct {
	reg     *kind.Registry
	interns *intern.Cache
	annos   annotate.Map
	ids     annotate.IDGen

	stack []*slot
}

// New creates a Builder. interns and annos may be freshly created or, for
// an incremental reparse, cloned from a prior tree so interned text and
// unmodified annotations can be shared (§4.8 step 5).
func New(reg *kind.Registry, interns *intern.Cache, annos annotate.Map) *Builder {
	if annos == nil {
		annos = annotate.NewMap()
	}
	return &Builder{reg: reg, interns: interns, annos: annos}
}

// Annotations returns the annotation map accumulated so far.
func (b *Builder) Annotations() annotate.Map { return b.annos }

// Interns returns the intern cache in use.
func (b *Builder) Interns() *intern.Cache { return b.interns }

// Len returns the current element-stack depth.
func (b *Builder) Len() int { return len(b.stack) }

// Top returns the element most recently pushed onto the element stack (by
// PushToken/PushErrorToken/PushBlank/Reduce) and whether one exists and is
// non-nil (a collapsed None slot reports false). Used by the incremental
// driver to check a just-shifted token's kind against its reparse target
// without waiting for a Reduce.
func (b *Builder) Top() (green.Element, bool) {
	if len(b.stack) == 0 {
		return nil, false
	}
	top := b.stack[len(b.stack)-1]
	if top == nil {
		return nil, false
	}
	return top.elem, true
}

// text resolves the text a green.Token for item should carry: keyword
// terminals get the registry's static text (no interning needed, per §4.5
// "keyword tokens carry no text"); everything else interns the captured
// literal.
func (b *Builder) text(it token.Item) string {
	k := b.reg.Kind(it.Kind)
	if k.IsKeyword {
		return k.Text
	}
	if it.Value != "" {
		id := b.interns.Intern(it.Value)
		return b.interns.Lookup(id)
	}
	return it.Value
}

func (b *Builder) leafToken(it token.Item, nodeType annotate.NodeType, state int) *green.Token {
	gt := &green.Token{Kind: it.Kind, Text: b.text(it)}
	key := annotate.KeyOf(gt.Kind, it.Offset, gt.ElemLen(), false)
	b.annos.Set(key, annotate.Annotation{NodeType: nodeType, State: state})
	return gt
}

// PushToken implements create_green_token: it wraps tok's leading trivia,
// main item, and trailing trivia as green.Token leaves (each annotated
// LeadingToken/MainToken/TrailingToken), wraps them all in one green.Node
// of kind mainKind (annotated TokenSet), and pushes that node onto the
// element stack as a non-error element.
func (b *Builder) PushToken(tok token.Token, mainKind kind.ID, state int) {
	b.pushTokenAs(tok, mainKind, state, false)
}

// PushErrorToken pushes a scanner-derived token (e.g. one dropped by delete
// recovery) as an Error element, using the dropped token's own items
// verbatim, per §4.6 Replay.
func (b *Builder) PushErrorToken(tok token.Token, mainKind kind.ID, state int, recovery annotate.Recovery) {
	b.pushTokenAs(tok, mainKind, state, true)
	// Overwrite the wrapper's annotation to reflect the error/recovery
	// taxonomy; the leaf trivia/main annotations stay as plain
	// Leading/Main/Trailing per §4.6.
	top := b.stack[len(b.stack)-1]
	key := annotate.KeyOf(top.elem.ElemKind(), top.offset, top.elem.ElemLen(), true)
	b.annos.Set(key, annotate.Annotation{NodeType: annotate.Error, State: state, Recovery: recovery})
}

func (b *Builder) pushTokenAs(tok token.Token, mainKind kind.ID, state int, isError bool) {
	var children []green.Element
	for _, it := range tok.Leading {
		children = append(children, b.leafToken(it, annotate.LeadingToken, state))
	}
	children = append(children, b.leafToken(tok.Main, annotate.MainToken, state))
	for _, it := range tok.Trailing {
		children = append(children, b.leafToken(it, annotate.TrailingToken, state))
	}

	if len(children) == 0 {
		b.stack = append(b.stack, nil)
		return
	}

	node := green.NewNode(mainKind, children)
	offset := tok.OffsetStart()
	id := b.ids.Next()

	key := annotate.KeyOf(node.Kind, offset, node.Len, true)
	nodeType := annotate.TokenSet
	if isError {
		nodeType = annotate.Error
	}
	b.annos.Set(key, annotate.Annotation{NodeType: nodeType, State: state})

	b.stack = append(b.stack, &slot{id: id, elem: node, offset: offset, isError: isError})
}

// PushBlank pushes a zero-length ILLEGAL Error node at offset, used by
// shift-recovery replay to synthesize a blank token satisfying an expected
// shift (§4.6).
func (b *Builder) PushBlank(offset int, state int, recovery annotate.Recovery) {
	illegal := b.reg.Illegal()
	node := green.NewNode(illegal, nil)
	id := b.ids.Next()

	key := annotate.KeyOf(illegal, offset, 0, true)
	b.annos.Set(key, annotate.Annotation{NodeType: annotate.Error, State: state, Recovery: recovery})

	b.stack = append(b.stack, &slot{id: id, elem: node, offset: offset, isError: true})
}

// Reduce implements create_green_node: it pops popCount slots (with the
// None-collapses / trailing-Error-included-regardless rule of
// pop_elements), folds their offsets/lengths, and pushes the resulting
// green.Node (or, if the production collapsed to nothing, a None slot) back
// onto the stack. It returns the produced element and whether one was
// actually produced (false means the reduction collapsed to None).
func (b *Builder) Reduce(lhs kind.ID, popCount int, state int) (green.Element, bool) {
	children, offsets := b.popElements(popCount)
	if len(children) == 0 {
		b.stack = append(b.stack, nil)
		return nil, false
	}

	node := green.NewNode(lhs, children)
	offset := offsets[0]
	for _, o := range offsets[1:] {
		if o < offset {
			offset = o
		}
	}
	id := b.ids.Next()

	key := annotate.KeyOf(node.Kind, offset, node.Len, true)
	b.annos.Set(key, annotate.Annotation{NodeType: annotate.Node, State: state})

	b.stack = append(b.stack, &slot{id: id, elem: node, offset: offset})
	return node, true
}

// popElements pops popCount slots, dropping None entries without
// contributing a child, then — regardless of popCount — also sweeps in one
// further Error entry if it is now at the top of the stack, per §4.5's
// "Error entries at the top of the popped region are preserved... regardless
// of the counter". The returned elements/offsets are in left-to-right
// (original push) order.
func (b *Builder) popElements(popCount int) ([]green.Element, []int) {
	var elems []green.Element
	var offsets []int

	n := popCount
	for n > 0 && len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		n--
		if top == nil {
			continue
		}
		elems = append(elems, top.elem)
		offsets = append(offsets, top.offset)
	}

	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top != nil && top.isError {
			b.stack = b.stack[:len(b.stack)-1]
			elems = append(elems, top.elem)
			offsets = append(offsets, top.offset)
		}
	}

	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
		offsets[i], offsets[j] = offsets[j], offsets[i]
	}

	return elems, offsets
}

// ReduceAll reduces every element currently on the stack into one node of
// kind lhs — used for wrapping a completed top-level statement into an ecmd
// node (§4.4 step 2, §4.7). The produced node is returned to the caller and
// not left on the element stack, which is empty afterwards.
func (b *Builder) ReduceAll(lhs kind.ID, state int) (green.Element, bool) {
	elem, ok := b.Reduce(lhs, len(b.stack), state)
	b.stack = b.stack[:len(b.stack)-1]
	return elem, ok
}

// ReduceRoot wraps root_members (collected by the driver outside the
// element stack, one per completed top-level statement, §4.4 step 3/§4.7)
// into the final green.Node of kind program, recording its Node annotation
// at state 0 (the driver is always back at its reset state once the last
// statement has been wrapped).
func (b *Builder) ReduceRoot(programKind kind.ID, members []green.Element) green.Element {
	node := green.NewNode(programKind, members)
	key := annotate.KeyOf(node.Kind, 0, node.Len, true)
	b.annos.Set(key, annotate.Annotation{NodeType: annotate.Node, State: 0})
	return node
}

// FatalErrorNode builds a FatalError-annotated ILLEGAL node spanning
// [offset, offset+length), used by recovery.Arbitrate's fallback when
// neither the delete nor shift search produced a journal (§4.6
// Arbitration).
func (b *Builder) FatalErrorNode(offset, length int, state int) green.Element {
	illegal := b.reg.Illegal()
	// A FatalError node consumed real source text (everything up to the
	// next SEMI/EOF) but has no children to derive that span from, so its
	// length is set directly rather than via NewNode's child-summing.
	node := &green.Node{Kind: illegal, Children: nil, Len: length}

	key := annotate.KeyOf(illegal, offset, length, true)
	b.annos.Set(key, annotate.Annotation{NodeType: annotate.FatalError, State: state})

	id := b.ids.Next()
	b.stack = append(b.stack, &slot{id: id, elem: node, offset: offset, isError: true})
	return node
}
