package stack

// StateStack is the persistent parser-state stack of §4.2: a stack of
// state IDs, plus an auxiliary checkpoint sub-stack that records, for each
// shift or first push after a reduce, the state a future reduce should
// compute its GOTO from. resolve_checkpoint replaces the "state below the
// popped rhs" lookup a conventional array-backed LR driver would do with
// array indexing, since a persistent stack cannot cheaply index from the
// bottom.
type StateStack struct {
	states      Stack[int]
	checkpoints Stack[int]
}

// New returns a StateStack primed with the single initial state (state 0 in
// a freshly built LR table) and a matching initial checkpoint.
func New(initial int) StateStack {
	return StateStack{
		states:      Stack[int]{}.Push(initial),
		checkpoints: Stack[int]{}.Push(initial),
	}
}

// Push pushes a new current state, as happens on a shift or after resolving
// a reduce's GOTO.
func (s StateStack) Push(state int) StateStack {
	s.states = s.states.Push(state)
	return s
}

// Pop removes and returns the current state.
func (s StateStack) Pop() (StateStack, int) {
	var v int
	s.states, v = s.states.Pop()
	return s, v
}

// PopN removes and returns the top n states, in pop order (first popped
// first).
func (s StateStack) PopN(n int) (StateStack, []int) {
	var vs []int
	s.states, vs = s.states.PopN(n)
	return s, vs
}

// Peek returns the current (topmost) state.
func (s StateStack) Peek() (int, bool) { return s.states.Peek() }

// Len returns the number of states on the stack.
func (s StateStack) Len() int { return s.states.Len() }

// Values returns the states bottom-to-top.
func (s StateStack) Values() []int { return s.states.Values() }

// Reset clears the stack back to a single initial state, as the driver does
// at every statement boundary (§4.4 step 3).
func (s StateStack) Reset(initial int) StateStack { return New(initial) }

// Clone returns an O(1) copy of s; recovery search holds many such clones
// concurrently.
func (s StateStack) Clone() StateStack { return s }

// MarkCheckpoint pushes a new checkpoint frame, recording the state a
// subsequent reduce should use once its rhs is popped. Called for each
// shift and for the first push of a reduce's GOTO result.
func (s StateStack) MarkCheckpoint(state int) StateStack {
	s.checkpoints = s.checkpoints.Push(state)
	return s
}

// ResolveCheckpoint pops popCount checkpoint frames (one per right-hand-side
// symbol) and returns the new top: the state in effect before the popped
// right-hand side was shifted, which is what GOTO must be computed from.
// popCount is the number of symbols in the production being reduced; a
// popCount of 0 (an empty production) simply peeks without popping.
func (s StateStack) ResolveCheckpoint(popCount int) (StateStack, int) {
	if popCount > 0 {
		s.checkpoints, _ = s.checkpoints.PopN(popCount)
	}
	top, ok := s.checkpoints.Peek()
	if !ok {
		return s, 0
	}
	return s, top
}

// PushCheckpointState pushes the same state onto both the state stack and
// the checkpoint stack — the common case after a shift or after resolving a
// reduce's GOTO, where the new state also becomes the new checkpoint base.
func (s StateStack) PushCheckpointState(state int) StateStack {
	s = s.Push(state)
	s = s.MarkCheckpoint(state)
	return s
}
