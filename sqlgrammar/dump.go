// dump.go renders Table as a human-readable ACTION/GOTO grid, the way
// internal/ictiobus/parse/lalr.go's LALRParser.String renders its own
// parse table: one row per state, one column per terminal (ACTION) and
// nonterminal (GOTO), built with rosed's table layout.
package sqlgrammar

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lrtable"
)

// DumpTable renders t as a fixed-width text grid of ACTION/GOTO entries,
// one row per state. Intended for debugging a grammar change, not for
// parsing by any consumer.
func DumpTable(t *lrtable.Table) string {
	terms := symbolsWhere(func(k kind.Kind) bool { return k.IsTerminal })
	nonterms := symbolsWhere(func(k kind.Kind) bool { return !k.IsTerminal })

	headers := append([]string{"state", "|"}, namesOf(terms)...)
	headers = append(headers, "|")
	headers = append(headers, namesOf(nonterms)...)

	data := [][]string{headers}
	for state := 0; state < t.NumStates(); state++ {
		row := []string{fmt.Sprintf("%d", state), "|"}

		for _, term := range terms {
			cell := ""
			act := t.Action(state, term)
			switch act.Type {
			case lrtable.Accept:
				cell = "acc"
			case lrtable.Reduce:
				cell = fmt.Sprintf("r%d", act.LHS)
			case lrtable.Shift:
				cell = fmt.Sprintf("s%d", act.Next)
			}
			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range nonterms {
			cell := ""
			if next, ok := t.Goto(state, nt); ok {
				cell = fmt.Sprintf("%d", next)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func symbolsWhere(keep func(kind.Kind) bool) []kind.ID {
	var out []kind.ID
	for id := kind.ID(0); id < kind.ID(Registry.Len()); id++ {
		k := Registry.Kind(id)
		if keep(k) {
			out = append(out, id)
		}
	}
	return out
}

func namesOf(ids []kind.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Registry.Kind(id).Text
	}
	return out
}
