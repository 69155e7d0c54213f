// Package recovery implements the two-strategy bounded error recovery
// search of §4.6: delete (drop offending tokens) and shift (synthesize a
// blank token to satisfy an expected shift), arbitrated by shift-count
// score and replayed into the real parser state.
//
// There is no analogue of bounded local-search error recovery anywhere in
// the teacher repo (internal/ictiobus's LR driver simply returns an error
// on a lookahead-table miss, see parse/lr.go's Error case); this package is
// grounded directly on original_source/crates/parser/src/parser.rs's
// try_state_recovery_by_drop (delete, fully present there) and on §4.6
// itself for the shift strategy, whose Rust counterpart
// (try_state_recovery_by_shift) is an unimplemented todo!() stub.
package recovery

import (
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lex"
	"github.com/dekarrin/sqlitecst/lrtable"
	"github.com/dekarrin/sqlitecst/stack"
	"github.com/dekarrin/sqlitecst/token"
)

// Penalty bounds how much work a single recovery attempt may do (§4.6).
type Penalty struct {
	DeleteSlot     int
	ShiftLimit     int
	ShiftDecay     int
	NextShiftDecay int
}

// DefaultPenalty returns the tuning constants named in §9: delete_slot=3,
// shift_limit=9, shift_decay=0, next_shift_decay=2.
func DefaultPenalty() Penalty {
	return Penalty{DeleteSlot: 3, ShiftLimit: 9, ShiftDecay: 0, NextShiftDecay: 2}
}

// AfterDelete and AfterShift return the penalty in effect for the recovery
// attempt following a delete or a shift recovery respectively; AfterDelete
// shrinks DeleteSlot by the number of tokens dropped (not below zero),
// AfterShift promotes NextShiftDecay into ShiftDecay and doubles
// NextShiftDecay (§4.6 "After a delete recovery... After a shift
// recovery...").
func (p Penalty) AfterDelete(deleted int) Penalty {
	p.DeleteSlot -= deleted
	if p.DeleteSlot < 0 {
		p.DeleteSlot = 0
	}
	return p
}

func (p Penalty) AfterShift() Penalty {
	p.ShiftDecay = p.NextShiftDecay
	p.NextShiftDecay *= 2
	return p
}

// EventKind distinguishes the kind of step recorded in a Journal.
type EventKind int

const (
	EventShift EventKind = iota
	EventReduce
	EventAccept
)

// Event is one synthetic or simulated step to be replayed into the real
// parser state (§4.6 Replay). For EventShift, Term is the terminal kind
// that was (or, for an error-phase blank shift, should be treated as
// having been) shifted and Tok is the real scanned token to replay for a
// recovery-phase shift (nil for an error-phase blank shift). For
// EventReduce, LHS/Pop describe the reduction. State is the resulting
// parser state after applying the event.
type Event struct {
	Kind  EventKind
	Term  kind.ID
	Tok   *token.Token
	LHS   kind.ID
	Pop   int
	State int
}

// Strategy names which of the two searches produced a Journal.
type Strategy int

const (
	Delete Strategy = iota
	Shift
)

// Journal is an ordered list of events to replay, tagged with which
// strategy produced it, split into the "error" events (representing the
// malformed span itself) and the "recovery" events (the resumed parse
// after it). For Delete, Error holds one synthetic shift per dropped
// token and Recovery holds the simulated resumption. For Shift, Error
// holds the phase-1 BFS parent chain (synthetic blank shifts/reduces) and
// Recovery holds the phase-2 simulated resumption.
type Journal struct {
	Strategy Strategy
	Error    []Event
	Recovery []Event
}

// shiftCount scores a Journal by how many real shifts its Recovery phase
// contains, the metric §4.6 Arbitration compares.
func (j Journal) shiftCount() int {
	n := 0
	for _, e := range j.Recovery {
		if e.Kind == EventShift {
			n++
		}
	}
	return n
}

// simulate runs the real driver loop's Shift/Reduce/Accept decisions
// starting at ss/scanner's current position, recording each step as an
// Event, until a shift succeeds, a reduce with non-zero pop runs, or
// acceptance — the "simulate forward" operation shared by delete's
// post-deletion resumption and shift's phase 2 (§4.6).
func simulate(table *lrtable.Table, ss stack.StateStack, scanner *lex.Scanner) ([]Event, bool) {
	var events []Event
	for {
		state, ok := ss.Peek()
		if !ok {
			return nil, false
		}
		look := scanner.Lookahead()
		act := table.Action(state, look.Main.Kind)
		switch act.Type {
		case lrtable.Shift:
			tok := scanner.Shift()
			ss = stack.Shift(ss, act.Next)
			events = append(events, Event{Kind: EventShift, Term: look.Main.Kind, Tok: &tok, State: act.Next})
			return events, true
		case lrtable.Reduce:
			newSS, _, ok := stack.Reduce(table, ss, act.LHS, act.Pop)
			if !ok {
				return nil, false
			}
			next, _ := newSS.Peek()
			events = append(events, Event{Kind: EventReduce, LHS: act.LHS, Pop: act.Pop, State: next})
			ss = newSS
			if act.Pop > 0 {
				return events, true
			}
			// Zero-pop (epsilon) reduce: keep simulating at the new state.
		case lrtable.Accept:
			events = append(events, Event{Kind: EventAccept, State: state})
			return events, true
		default:
			return nil, false
		}
	}
}

// TryDelete implements §4.6's delete strategy.
func TryDelete(table *lrtable.Table, failedState int, ss stack.StateStack, scanner *lex.Scanner, budget int) (Journal, bool) {
	scope := scanner.Scope()
	var dropped []token.Token

	for len(dropped) < budget {
		look := scanner.Lookahead()
		if table.Action(failedState, look.Main.Kind).Type != lrtable.Error {
			break
		}
		dropped = append(dropped, scanner.Shift())
	}

	if len(dropped) == 0 {
		scanner.Revert(scope)
		return Journal{}, false
	}

	recov, ok := simulate(table, ss, scanner)
	if !ok {
		scanner.Revert(scope)
		return Journal{}, false
	}

	errEvents := make([]Event, len(dropped))
	for i, tok := range dropped {
		t := tok
		errEvents[i] = Event{Kind: EventShift, Term: tok.Main.Kind, Tok: &t, State: failedState}
	}
	return Journal{Strategy: Delete, Error: errEvents, Recovery: recov}, true
}

// bfsNode is one node of the shift strategy's phase-1 search tree.
type bfsNode struct {
	stack  stack.StateStack
	event  Event
	parent *bfsNode
}

// TryShift implements §4.6's shift strategy: among every candidate the
// depth-bounded BFS finds, "the best candidate is the one whose phase-2
// event list contains the most shifts" (§4.6), so the search considers every
// matching candidate at every depth up to the bound before picking, rather
// than returning the first one that simulates successfully.
func TryShift(table *lrtable.Table, failedState int, ss stack.StateStack, scanner *lex.Scanner, penalty Penalty) (Journal, bool) {
	depthLimit := penalty.ShiftLimit - penalty.ShiftDecay
	if depthLimit <= 0 {
		return Journal{}, false
	}

	lookKind := scanner.Lookahead().Main.Kind
	scope := scanner.Scope()

	// bestParent is the matching candidate with the highest shiftCount seen
	// so far; its phase2 trial is re-run once more at the end so the
	// scanner ends up advanced to match the journal actually returned.
	// Every trial in between must revert, since phase2/simulate mutates the
	// real scanner and candidates are compared against the same starting
	// position.
	var bestParent *bfsNode
	bestCount := -1

	consider := func(parent *bfsNode) {
		j, ok := phase2(table, parent, scanner, scope)
		if !ok {
			return
		}
		scanner.Revert(scope)
		if n := j.shiftCount(); n > bestCount {
			bestCount = n
			bestParent = parent
		}
	}

	frontier := []*bfsNode{{stack: ss}}
	for depth := 1; depth <= depthLimit; depth++ {
		var next []*bfsNode
		for _, parent := range frontier {
			state, ok := parent.stack.Peek()
			if !ok {
				continue
			}
			shifts, reduces := sampleActions(table, state, depth)

			for _, sa := range shifts {
				child := &bfsNode{
					stack:  stack.Shift(parent.stack, sa.Action.Next),
					event:  Event{Kind: EventShift, Term: sa.Term, State: sa.Action.Next},
					parent: parent,
				}
				if sa.Term == lookKind {
					consider(parent)
				}
				next = append(next, child)
			}
			for _, sa := range reduces {
				newSS, _, ok := stack.Reduce(table, parent.stack, sa.Action.LHS, sa.Action.Pop)
				if !ok {
					continue
				}
				resultState, _ := newSS.Peek()
				child := &bfsNode{
					stack:  newSS,
					event:  Event{Kind: EventReduce, LHS: sa.Action.LHS, Pop: sa.Action.Pop, State: resultState},
					parent: parent,
				}
				if sa.Action.LHS == lookKind {
					consider(parent)
				}
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	if bestParent == nil {
		return Journal{}, false
	}
	return phase2(table, bestParent, scanner, scope)
}

// phase2 simulates forward from parent's state stack using the real
// scanner, producing the recovery event list; the matching child's own
// edge is never replayed as a real event, since phase2's first simulated
// step re-attempts exactly that transition against the real token.
func phase2(table *lrtable.Table, parent *bfsNode, scanner *lex.Scanner, scope lex.Scope) (Journal, bool) {
	recov, ok := simulate(table, parent.stack, scanner)
	if !ok {
		scanner.Revert(scope)
		return Journal{}, false
	}
	return Journal{Strategy: Shift, Error: errorChain(parent), Recovery: recov}, true
}

// errorChain collects a bfsNode's ancestor edges root-to-node, the phase-1
// event list §4.6 calls "the error event list".
func errorChain(n *bfsNode) []Event {
	var chain []Event
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		chain = append([]Event{cur.event}, chain...)
	}
	return chain
}

// sampleActions partitions state's defined actions into shift/reduce
// candidates and samples max(#actions>>depth, 1) of each class, per §4.6's
// "sampling size is max(#actions >> depth, 1) per class". Candidates are
// taken in ascending terminal-ID order for determinism.
func sampleActions(table *lrtable.Table, state, depth int) (shifts, reduces []lrtable.StateAction) {
	all := table.StateActions(state)
	sortStateActions(all)

	var s, r []lrtable.StateAction
	for _, sa := range all {
		switch sa.Action.Type {
		case lrtable.Shift:
			s = append(s, sa)
		case lrtable.Reduce:
			r = append(r, sa)
		}
	}
	return takeSample(s, depth), takeSample(r, depth)
}

func takeSample(all []lrtable.StateAction, depth int) []lrtable.StateAction {
	n := len(all) >> depth
	if n < 1 {
		n = 1
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func sortStateActions(sa []lrtable.StateAction) {
	for i := 1; i < len(sa); i++ {
		for j := i; j > 0 && sa[j-1].Term > sa[j].Term; j-- {
			sa[j-1], sa[j] = sa[j], sa[j-1]
		}
	}
}

// Arbitrate picks between a delete and a shift Journal per §4.6
// Arbitration: the greater shift-count score wins, ties favour delete.
func Arbitrate(del Journal, delOK bool, shf Journal, shfOK bool) (Journal, bool) {
	switch {
	case delOK && shfOK:
		if shf.shiftCount() > del.shiftCount() {
			return shf, true
		}
		return del, true
	case delOK:
		return del, true
	case shfOK:
		return shf, true
	default:
		return Journal{}, false
	}
}
