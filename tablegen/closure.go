package tablegen

import (
	"github.com/dekarrin/sqlitecst/grammar"
	"github.com/dekarrin/sqlitecst/kind"
)

// firstSets maps each nonterminal to its FIRST set (terminals only, plus a
// marker for nullability tracked separately).
type firstSets struct {
	sets     map[kind.ID]map[kind.ID]bool
	nullable map[kind.ID]bool
}

func computeFirst(g *grammar.Grammar) *firstSets {
	fs := &firstSets{sets: map[kind.ID]map[kind.ID]bool{}, nullable: map[kind.ID]bool{}}
	for nt := range g.Nonterminals {
		fs.sets[nt] = map[kind.ID]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			allNullableSoFar := true
			for _, sym := range p.RHS {
				if g.IsTerminal(sym) {
					if fs.addTerminal(p.LHS, sym) {
						changed = true
					}
					allNullableSoFar = false
					break
				}
				for t := range fs.sets[sym] {
					if fs.addTerminal(p.LHS, t) {
						changed = true
					}
				}
				if !fs.nullable[sym] {
					allNullableSoFar = false
					break
				}
			}
			if allNullableSoFar && !fs.nullable[p.LHS] {
				fs.nullable[p.LHS] = true
				changed = true
			}
		}
	}
	return fs
}

func (fs *firstSets) addTerminal(nt, t kind.ID) bool {
	if fs.sets[nt][t] {
		return false
	}
	fs.sets[nt][t] = true
	return true
}

// firstOfSequence computes FIRST(RHS[from:] . lookahead): the terminals
// that can begin the remainder of a production, falling through to
// lookahead if every remaining symbol is nullable.
func (fs *firstSets) firstOfSequence(g *grammar.Grammar, seq []kind.ID, lookahead kind.ID) map[kind.ID]bool {
	out := map[kind.ID]bool{}
	for _, sym := range seq {
		if g.IsTerminal(sym) {
			out[sym] = true
			return out
		}
		for t := range fs.sets[sym] {
			out[t] = true
		}
		if !fs.nullable[sym] {
			return out
		}
	}
	out[lookahead] = true
	return out
}

// closure computes the LR(1) closure of a kernel item set under grammar g.
func closure(g *grammar.Grammar, fs *firstSets, kernel itemSet) itemSet {
	out := newItemSet()
	for it := range kernel {
		out.add(it)
	}

	changed := true
	for changed {
		changed = false
		for it := range out {
			p := g.Productions[it.prod]
			if it.dot >= len(p.RHS) {
				continue
			}
			sym := p.RHS[it.dot]
			if g.IsTerminal(sym) {
				continue
			}
			rest := p.RHS[it.dot+1:]
			lookaheads := fs.firstOfSequence(g, rest, it.lookahead)
			for _, idx := range g.ProductionsFor(sym) {
				for la := range lookaheads {
					if out.add(item{prod: idx, dot: 0, lookahead: la}) {
						changed = true
					}
				}
			}
		}
	}
	return out
}
