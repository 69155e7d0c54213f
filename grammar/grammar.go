// Package grammar describes a context-free grammar over kind.ID symbols:
// the input to tablegen's table construction. This plays the role of the
// grammar-generation toolchain's input format (§1 Out of scope), adapted
// from the shape of internal/ictiobus/grammar/item.go's Production/Grammar
// types (simplified: no attribute-grammar rule bodies, since semantic
// actions are out of scope here).
package grammar

import "github.com/dekarrin/sqlitecst/kind"

// Production is one rule LHS -> RHS (RHS may be empty for an epsilon
// production).
type Production struct {
	LHS kind.ID
	RHS []kind.ID
}

// Grammar is an ordered list of productions plus the distinguished start
// symbol. New does not add an augmenting S' -> start production;
// tablegen.Build prepends one, as production 0, to its own copy.
type Grammar struct {
	Start       kind.ID
	Productions []Production
	// Terminals and Nonterminals partition every kind.ID mentioned in the
	// grammar; Terminals also includes the EOF kind.
	Terminals    map[kind.ID]bool
	Nonterminals map[kind.ID]bool
}

// New builds a Grammar from a start symbol and its productions, inferring
// the terminal/nonterminal partition: any kind appearing as some
// production's LHS is a nonterminal, everything else mentioned in an RHS
// (plus eof) is a terminal.
func New(start kind.ID, eof kind.ID, productions []Production) *Grammar {
	g := &Grammar{
		Start:        start,
		Productions:  productions,
		Terminals:    map[kind.ID]bool{eof: true},
		Nonterminals: map[kind.ID]bool{},
	}
	for _, p := range productions {
		g.Nonterminals[p.LHS] = true
	}
	for _, p := range productions {
		for _, sym := range p.RHS {
			if !g.Nonterminals[sym] {
				g.Terminals[sym] = true
			}
		}
	}
	return g
}

// IsTerminal reports whether sym is a terminal (including EOF) under g.
func (g *Grammar) IsTerminal(sym kind.ID) bool { return g.Terminals[sym] }

// ProductionsFor returns the indices of g.Productions whose LHS is lhs, in
// declaration order.
func (g *Grammar) ProductionsFor(lhs kind.ID) []int {
	var out []int
	for i, p := range g.Productions {
		if p.LHS == lhs {
			out = append(out, i)
		}
	}
	return out
}
