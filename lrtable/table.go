// Package lrtable holds the three static tables of §4.3: the lookahead
// ACTION table, the GOTO table, and the EOF-accept pair. These are pure
// data, produced once by tablegen and loaded by sqlgrammar; this package
// defines their shape and lookup semantics only.
//
// The ActionType/Action shape mirrors internal/ictiobus/parse/lraction.go's
// LRActionType/LRAction, adapted from the teacher's string-keyed states to
// this spec's integer state IDs and trimmed of the grammar-construction
// fields (Production/Symbol strings) that belong to tablegen instead.
package lrtable

import "github.com/dekarrin/sqlitecst/kind"

// ActionType distinguishes what an ACTION table entry tells the driver to
// do.
type ActionType int

const (
	// Error is the zero value so an absent map entry reads as an error,
	// matching §4.3's "absent entries mean syntax error".
	Error ActionType = iota
	Shift
	Reduce
	Accept
)

// Action is one ACTION[state, terminal] entry.
type Action struct {
	Type ActionType

	// Next is the state to shift to; valid when Type == Shift.
	Next int

	// LHS and Pop describe the reduction to perform; valid when
	// Type == Reduce.
	LHS kind.ID
	Pop int
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Table is the static, already-constructed parse table of §4.3.
type Table struct {
	action []map[kind.ID]Action
	goTo   []map[kind.ID]int

	eofState  int
	startKind kind.ID
}

// New builds a Table from pre-computed action/goto slices, indexed by
// state. eofState/startKind is the EOF-accept pair: resolving an Accept
// action while the state stack's current state equals eofState produces an
// Accept(startKind) event.
func New(action []map[kind.ID]Action, goTo []map[kind.ID]int, eofState int, startKind kind.ID) *Table {
	return &Table{action: action, goTo: goTo, eofState: eofState, startKind: startKind}
}

// Action returns ACTION[state, term]. A state or terminal with no entry
// returns the zero Action (Type == Error).
func (t *Table) Action(state int, term kind.ID) Action {
	if state < 0 || state >= len(t.action) {
		return Action{}
	}
	act, ok := t.action[state][term]
	if !ok {
		return Action{}
	}
	return act
}

// Goto returns GOTO[state, nonterm] and whether that entry exists; a state
// with no nonterminal successor (a shift-only state) returns ok == false.
func (t *Table) Goto(state int, nonterm kind.ID) (int, bool) {
	if state < 0 || state >= len(t.goTo) {
		return 0, false
	}
	next, ok := t.goTo[state][nonterm]
	return next, ok
}

// StateActions returns every (terminal, action) pair defined for state, for
// use by the recovery engine's fetch_state_actions (§4.3).
func (t *Table) StateActions(state int) []StateAction {
	if state < 0 || state >= len(t.action) {
		return nil
	}
	out := make([]StateAction, 0, len(t.action[state]))
	for term, act := range t.action[state] {
		out = append(out, StateAction{Term: term, Action: act})
	}
	return out
}

// StateAction pairs a terminal with the action ACTION[state, terminal]
// resolves to, for a given state.
type StateAction struct {
	Term   kind.ID
	Action Action
}

// EOFState returns the accept state at which encountering EOF is a
// completed parse.
func (t *Table) EOFState() int { return t.eofState }

// StartKind returns the grammar's start-symbol kind, used to label an
// Accept event.
func (t *Table) StartKind() kind.ID { return t.startKind }

// NumStates returns how many states the table has entries for.
func (t *Table) NumStates() int { return len(t.action) }
