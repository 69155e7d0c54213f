// artifact.go provides the rezi-encoded binary form of the build-time
// table this package would normally check in from a go:generate step
// (§6 "Build-time artefacts", DOMAIN STACK). SaveTables/LoadTables exist so
// an operator who does run go:generate separately has a real round-trip
// path available; the package's own init() still builds Table in-process
// via tablegen.Build (see kinds.go's doc comment for why).
package sqlgrammar

import (
	"github.com/dekarrin/rezi"

	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lrtable"
)

// actionEntry is one ACTION[state, term] entry, flattened for encoding.
type actionEntry struct {
	Term uint32
	Type int
	Next int
	LHS  uint32
	Pop  int
}

// gotoEntry is one GOTO[state, nonterm] entry, flattened for encoding.
type gotoEntry struct {
	Nonterm uint32
	Next    int
}

// tableArtifact is the rezi-encodable snapshot of an *lrtable.Table: one
// entry per state, since lrtable.Table exposes only per-state/per-symbol
// lookups (Action, Goto, StateActions), not a bulk dump.
type tableArtifact struct {
	EOFState  int
	StartKind uint32
	Actions   [][]actionEntry
	Gotos     [][]gotoEntry
}

// toArtifact flattens t into its encodable form. numKindsHint bounds the
// symbol space to probe for GOTO entries, since Table has no bulk
// enumeration of them.
func toArtifact(t *lrtable.Table, numKindsHint int) tableArtifact {
	n := t.NumStates()
	art := tableArtifact{
		EOFState:  t.EOFState(),
		StartKind: uint32(t.StartKind()),
		Actions:   make([][]actionEntry, n),
		Gotos:     make([][]gotoEntry, n),
	}

	for state := 0; state < n; state++ {
		for _, sa := range t.StateActions(state) {
			art.Actions[state] = append(art.Actions[state], actionEntry{
				Term: uint32(sa.Term),
				Type: int(sa.Action.Type),
				Next: sa.Action.Next,
				LHS:  uint32(sa.Action.LHS),
				Pop:  sa.Action.Pop,
			})
		}
		for sym := 0; sym < numKindsHint; sym++ {
			if next, ok := t.Goto(state, kind.ID(sym)); ok {
				art.Gotos[state] = append(art.Gotos[state], gotoEntry{Nonterm: uint32(sym), Next: next})
			}
		}
	}
	return art
}

// toTable rebuilds an *lrtable.Table from a decoded tableArtifact.
func (art tableArtifact) toTable() *lrtable.Table {
	n := len(art.Actions)
	action := make([]map[kind.ID]lrtable.Action, n)
	goTo := make([]map[kind.ID]int, n)

	for state := 0; state < n; state++ {
		action[state] = make(map[kind.ID]lrtable.Action, len(art.Actions[state]))
		for _, e := range art.Actions[state] {
			action[state][kind.ID(e.Term)] = lrtable.Action{
				Type: lrtable.ActionType(e.Type),
				Next: e.Next,
				LHS:  kind.ID(e.LHS),
				Pop:  e.Pop,
			}
		}
		goTo[state] = make(map[kind.ID]int, len(art.Gotos[state]))
		for _, e := range art.Gotos[state] {
			goTo[state][kind.ID(e.Nonterm)] = e.Next
		}
	}

	return lrtable.New(action, goTo, art.EOFState, kind.ID(art.StartKind))
}

// SaveTables encodes Table into rezi's binary format.
func SaveTables() []byte {
	art := toArtifact(Table, Registry.Len())
	return rezi.EncBinary(art)
}

// LoadTables decodes a blob produced by SaveTables back into an
// *lrtable.Table.
func LoadTables(data []byte) (*lrtable.Table, error) {
	var art tableArtifact
	if _, err := rezi.DecBinary(data, &art); err != nil {
		return nil, err
	}
	return art.toTable(), nil
}
