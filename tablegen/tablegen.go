// Package tablegen builds LALR(1) ACTION/GOTO tables from a grammar.Grammar,
// playing the role of the grammar-generation toolchain the specification
// treats as an external, out-of-scope collaborator (§1, §6 "Build-time
// artefacts"). It is adapted from the state-construction shape of
// internal/ictiobus/automaton/automaton.go (build a DFA over item sets via
// closure/goto) and the production representation of
// internal/ictiobus/grammar/item.go, but implements the LR(1)
// closure/lookahead/core-merge mechanics directly: the teacher's automaton
// package builds DFAs for lexing, not canonical LR(1) item sets, so that
// part has no direct analogue to adapt.
//
// sqlgrammar is the only expected caller; tablegen is otherwise a
// standalone library usable against any grammar.Grammar.
package tablegen

import (
	"fmt"
	"sort"

	"github.com/dekarrin/sqlitecst/grammar"
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lrtable"
)

// item is one LR(1) item: "production, with the dot before RHS[dot], under
// lookahead".
type item struct {
	prod      int
	dot       int
	lookahead kind.ID
}

// itemSet is a canonical LR(1) state: a set of items, deduplicated.
type itemSet map[item]bool

func newItemSet() itemSet { return make(itemSet) }

func (s itemSet) add(it item) bool {
	if s[it] {
		return false
	}
	s[it] = true
	return true
}

// core is the dotted-production part of an item set, ignoring lookaheads;
// LALR merges any two canonical LR(1) states sharing a core.
type core map[[2]int]bool // [prod, dot]

func coreOf(s itemSet) string {
	var dotted [][2]int
	for it := range s {
		dotted = append(dotted, [2]int{it.prod, it.dot})
	}
	sort.Slice(dotted, func(i, j int) bool {
		if dotted[i][0] != dotted[j][0] {
			return dotted[i][0] < dotted[j][0]
		}
		return dotted[i][1] < dotted[j][1]
	})
	return fmt.Sprint(dotted)
}

// Build constructs LALR(1) ACTION/GOTO tables for g. augStart is a fresh
// nonterminal kind (not otherwise used in g) that becomes the augmenting
// production's LHS; it must not collide with any kind already used by g.
// eof is the lookahead of the augmenting item (sqlgrammar passes its
// statement terminator, SEMI); the state that completes the augmenting
// production gets an Accept action on eof.
func Build(g *grammar.Grammar, augStart, eof kind.ID) (*lrtable.Table, error) {
	augProd := grammar.Production{LHS: augStart, RHS: []kind.ID{g.Start}}
	prods := append([]grammar.Production{augProd}, g.Productions...)
	aug := &grammar.Grammar{
		Start:        augStart,
		Productions:  prods,
		Terminals:    g.Terminals,
		Nonterminals: map[kind.ID]bool{augStart: true},
	}
	for k := range g.Nonterminals {
		aug.Nonterminals[k] = true
	}

	first := computeFirst(aug)

	start := closure(aug, first, itemSet{
		{prod: 0, dot: 0, lookahead: eof}: true,
	})

	type state struct {
		set  itemSet
		core string
	}
	var states []state
	coreIndex := map[string]int{}
	transitions := []map[kind.ID]int{} // per-state: symbol -> next state index

	addState := func(s itemSet) int {
		c := coreOf(s)
		if idx, ok := coreIndex[c]; ok {
			// Merge lookaheads of the new set into the existing state's set
			// (LALR core-merge): any lookahead present in either survives.
			merged := states[idx].set
			changed := false
			for it := range s {
				if merged.add(it) {
					changed = true
				}
			}
			if changed {
				states[idx].set = merged
			}
			return idx
		}
		idx := len(states)
		states = append(states, state{set: s, core: c})
		coreIndex[c] = idx
		transitions = append(transitions, map[kind.ID]int{})
		return idx
	}
	addState(start)

	// Worklist: recompute goto sets until fixpoint, since LALR merges can
	// change an already-processed state's item set (new lookaheads flowing
	// through an already-built transition).
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(states); i++ {
			symSets := map[kind.ID]itemSet{}
			for it := range states[i].set {
				p := aug.Productions[it.prod]
				if it.dot >= len(p.RHS) {
					continue
				}
				sym := p.RHS[it.dot]
				dst := symSets[sym]
				if dst == nil {
					dst = newItemSet()
					symSets[sym] = dst
				}
				dst.add(item{prod: it.prod, dot: it.dot + 1, lookahead: it.lookahead})
			}
			for sym, kernel := range symSets {
				closed := closure(aug, first, kernel)
				before := len(states)
				next := addState(closed)
				if next >= before {
					changed = true
				}
				if transitions[i][sym] != next {
					transitions[i][sym] = next
					changed = true
				}
			}
		}
	}

	action := make([]map[kind.ID]lrtable.Action, len(states))
	goTo := make([]map[kind.ID]int, len(states))
	eofState := -1

	for i := range states {
		action[i] = map[kind.ID]lrtable.Action{}
		goTo[i] = map[kind.ID]int{}
		for sym, next := range transitions[i] {
			if aug.IsTerminal(sym) {
				setAction(action[i], sym, lrtable.Action{Type: lrtable.Shift, Next: next}, aug, i)
			} else {
				goTo[i][sym] = next
			}
		}
		for it := range states[i].set {
			p := aug.Productions[it.prod]
			if it.dot != len(p.RHS) {
				continue
			}
			if it.prod == 0 {
				if it.lookahead == eof {
					eofState = i
					setAction(action[i], eof, lrtable.Action{Type: lrtable.Accept}, aug, i)
				}
				continue
			}
			setAction(action[i], it.lookahead, lrtable.Action{
				Type: lrtable.Reduce, LHS: p.LHS, Pop: len(p.RHS),
			}, aug, i)
		}
	}

	if eofState < 0 {
		return nil, fmt.Errorf("tablegen: no accepting state found for start symbol")
	}

	return lrtable.New(action, goTo, eofState, g.Start), nil
}

// setAction installs act at action[sym], resolving a conflict against
// whatever is already there. Shift/reduce conflicts favour shift; reduce/
// reduce conflicts favour the earlier-declared production (lower pop count
// is not a tiebreaker here — declaration order is, matching the common
// yacc/bison default that this grammar's conflicts, where they exist, are
// written to rely on).
func setAction(m map[kind.ID]lrtable.Action, sym kind.ID, act lrtable.Action, g *grammar.Grammar, state int) {
	existing, ok := m[sym]
	if !ok {
		m[sym] = act
		return
	}
	if existing.Type == lrtable.Shift && act.Type == lrtable.Reduce {
		return // keep the shift
	}
	if existing.Type == lrtable.Reduce && act.Type == lrtable.Shift {
		m[sym] = act
		return
	}
	// reduce/reduce: keep whichever production appears earlier in the
	// grammar's declaration order.
	if existing.Type == lrtable.Reduce && act.Type == lrtable.Reduce {
		return
	}
	m[sym] = act
}

