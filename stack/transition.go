package stack

import (
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lrtable"
)

// Shift advances a StateStack by pushing next as both the current state and
// a new checkpoint, as the driver does on every shift event (§4.4 step 2)
// and as the recovery engine's simulated searches do when they explore a
// hypothetical shift (§4.6).
func Shift(s StateStack, next int) StateStack {
	return s.PushCheckpointState(next)
}

// Reduce advances a StateStack by resolving pop's checkpoint (the state in
// effect before the reduced production's right-hand side), popping pop
// states, looking up GOTO[checkpointState, lhs], and pushing the result as
// the new current state and checkpoint. It returns the new stack, the
// checkpoint state (which the caller records as the produced node's
// annotation state, per §4.2/§4.4), and whether a GOTO entry existed — a
// false ok means the caller is exploring (or replaying) an invalid
// transition and must not commit it.
func Reduce(table *lrtable.Table, s StateStack, lhs kind.ID, pop int) (StateStack, int, bool) {
	checkpointState := -1
	s, checkpointState = s.ResolveCheckpoint(pop)
	s, _ = s.PopN(pop)
	next, ok := table.Goto(checkpointState, lhs)
	if !ok {
		return s, checkpointState, false
	}
	s = s.PushCheckpointState(next)
	return s, checkpointState, true
}
