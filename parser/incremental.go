package parser

import (
	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/cst"
	"github.com/dekarrin/sqlitecst/errs"
	"github.com/dekarrin/sqlitecst/green"
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lex"
	"github.com/dekarrin/sqlitecst/lrtable"
	"github.com/dekarrin/sqlitecst/recovery"
	"github.com/dekarrin/sqlitecst/red"
	"github.com/dekarrin/sqlitecst/stack"
)

// IncrementalParser is §6's IncrementalParser: a located edit, ready to be
// reparsed against the updated source text.
type IncrementalParser struct {
	parser *Parser
	prev   *SyntaxTree
	edit   EditScope
	chain  []red.Node // root ... edit node
}

// Incremental implements §4.8 steps 1-2: it locates the minimal subtree
// covering edit and records the parser state under which that subtree was
// originally produced.
func (p *Parser) Incremental(prev *SyntaxTree, edit EditScope) (*IncrementalParser, error) {
	start := edit.Offset
	end := edit.Offset + edit.FromLen
	chain, ok := prev.tree.CoveringChain(start, end)
	if !ok {
		return nil, errs.IncrementalEditf("incremental: edit range [%d,%d) outside the tree", start, end)
	}
	editNode := chain[len(chain)-1]
	if _, ok := editNode.Metadata(); !ok {
		return nil, errs.IncrementalEdit("incremental: edit node has no recorded annotation")
	}
	return &IncrementalParser{parser: p, prev: prev, edit: edit, chain: chain}, nil
}

// Parse implements §4.8 steps 3-6 against the already-edited source text.
//
// The fatal path (step 6) promotes one ancestor level at a time, retrying
// the reparse against each successively shallower node in the chain, until
// one succeeds or the chain is exhausted down to the root itself — not a
// single jump to the edit node's immediate parent, since an intermediate
// ancestor can itself fail to reparse (e.g. it is still terminal-kinded, or
// its own subtree hits the recovery engine's bounds).
func (ip *IncrementalParser) Parse(source string) (*SyntaxTree, error) {
	chain := ip.chain
	for {
		tree, err := ip.reparseAt(source, chain)
		if err == nil {
			return tree, nil
		}
		if !errs.IsIncrementalEdit(err) {
			return nil, err
		}
		if len(chain) < 2 {
			return nil, errs.IncrementalEdit("incremental: edit touched the root; no ancestor to promote to")
		}
		chain = chain[:len(chain)-1]
	}
}

// reparseAt runs steps 3-5 targeting the innermost node of chain.
func (ip *IncrementalParser) reparseAt(source string, chain []red.Node) (*SyntaxTree, error) {
	p := ip.parser
	editNode := chain[len(chain)-1]
	ann, _ := editNode.Metadata()

	oldStart := editNode.OffsetStart()
	oldEnd := editNode.OffsetEnd()
	target := editNode.Kind()

	sc := lex.New(source, oldStart, p.reg, p.lexeme, p.regex)
	interns := ip.prev.interns.Clone()
	b := cst.New(p.reg, interns, annotate.NewMap())
	ss := stack.New(ann.State)
	penalty := p.penalty

	newElem, ok := p.runSubtreeLoop(b, ss, sc, target, &penalty)
	if !ok {
		return nil, errs.IncrementalEdit("incremental: reparse did not reduce back to the edit node's kind")
	}

	newRoot := splice(chain, newElem)
	delta := ip.edit.ToLen - ip.edit.FromLen
	finalAnnos := transferAnnotations(ip.prev.tree.Annotations(), b.Annotations(), oldStart, oldEnd, delta)

	newRoot = p.rewrite.Apply(newRoot, finalAnnos)
	tree := red.New(newRoot, finalAnnos)
	return &SyntaxTree{tree: tree, interns: interns, SessionID: ip.prev.SessionID}, nil
}

// runSubtreeLoop runs the ordinary shift/reduce/recover loop, without
// statement-boundary segmentation, until a Shift, Reduce or Accept produces
// an element of kind target (success) or the scanner reaches EOF without ever
// doing so (fatal, §4.8 step 3).
func (p *Parser) runSubtreeLoop(b *cst.Builder, ss stack.StateStack, sc *lex.Scanner, target kind.ID, penalty *recovery.Penalty) (green.Element, bool) {
	for {
		look := sc.Lookahead()
		if look.Main.Kind == p.reg.EOF() {
			return nil, false
		}

		state, _ := ss.Peek()
		act := p.table.Action(state, look.Main.Kind)

		switch act.Type {
		case lrtable.Shift:
			tok := sc.Shift()
			// Record the pre-shift state, consistent with parser.go's
			// driver loop and with stack.Reduce's checkpoint convention.
			b.PushToken(tok, tok.Main.Kind, state)
			ss = stack.Shift(ss, act.Next)
			// A Shift is the only place a terminal-kinded TokenSet is
			// produced (Reduce/ReduceAll only ever produce nonterminal
			// kinds), so a single-token edit node's target is only ever
			// satisfied here, not by a later Reduce.
			if elem, ok := b.Top(); ok && elem.ElemKind() == target {
				return elem, true
			}

		case lrtable.Reduce:
			newSS, checkpointState, ok := stack.Reduce(p.table, ss, act.LHS, act.Pop)
			if !ok {
				return nil, false
			}
			elem, produced := b.Reduce(act.LHS, act.Pop, checkpointState)
			ss = newSS
			if produced && elem.ElemKind() == target {
				return elem, true
			}

		case lrtable.Accept:
			elem, produced := b.ReduceAll(target, state)
			if produced {
				return elem, true
			}
			return nil, false

		default:
			journal, ok := p.recover(b, ss, sc, state, penalty)
			if !ok {
				return nil, false
			}
			ss = p.replay(b, ss, sc, journal, state)
		}
	}
}

// splice rebuilds every ancestor in chain (root-to-edit-node order),
// replacing the innermost element with newElem and recomputing each
// ancestor's Len along the way (§4.8 step 4).
func splice(chain []red.Node, newElem green.Element) green.Element {
	current := newElem
	for i := len(chain) - 2; i >= 0; i-- {
		parent := chain[i].Element().(*green.Node)
		oldChildOffset := chain[i+1].OffsetStart()

		newChildren := make([]green.Element, len(parent.Children))
		copy(newChildren, parent.Children)

		offset := chain[i].OffsetStart()
		for idx, c := range parent.Children {
			if offset == oldChildOffset {
				newChildren[idx] = current
				break
			}
			offset += c.ElemLen()
		}
		current = green.NewNode(parent.Kind, newChildren)
	}
	return current
}

// transferAnnotations implements §4.8 step 5. Every old annotation whose
// key lies entirely before [oldStart, oldEnd) is carried over unchanged.
// Every key at or after oldEnd is carried over shifted by delta (the net
// byte-length change the edit introduced). Every key that properly
// contains [oldStart, oldEnd) — i.e. every ancestor of the edit node — is
// carried over with its length adjusted by delta but its offset unchanged,
// since an ancestor of the edit node always starts at or before oldStart.
// Everything else (the edit node itself and its old descendants) is
// dropped; freshAnnos (produced by the reparse) already covers that region
// under its new shape.
func transferAnnotations(oldAnnos, freshAnnos annotate.Map, oldStart, oldEnd, delta int) annotate.Map {
	out := freshAnnos.Clone()
	for key, ann := range oldAnnos {
		keyEnd := key.Offset + key.Len
		switch {
		case keyEnd <= oldStart:
			out.Set(key, ann)
		case key.Offset >= oldEnd:
			shifted := key
			shifted.Offset += delta
			out.Set(shifted, ann)
		case key.Offset <= oldStart && keyEnd >= oldEnd:
			adjusted := key
			adjusted.Len += delta
			out.Set(adjusted, ann)
		default:
			// Overlaps the edit region without containing it: part of the
			// replaced subtree itself; dropped.
		}
	}
	return out
}
