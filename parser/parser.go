// Package parser implements the driver of §4.4: the main shift/reduce loop,
// statement segmentation on the statement terminator, and the public
// facade (Parser, SyntaxTree, Node, EditScope, IncrementalParser) of §6.
//
// The loop's shape — peek lookahead, dispatch on ACTION, shift or reduce or
// recover, repeat — mirrors internal/ictiobus/parse/lr.go's lrParser.Parse,
// generalized with this spec's EOF/statement-segmentation handling (§4.4,
// §4.7) and its bounded recovery engine (§4.6) in place of the teacher's
// plain "return an error" on a table miss.
package parser

import (
	"github.com/google/uuid"

	"github.com/dekarrin/sqlitecst/annotate"
	"github.com/dekarrin/sqlitecst/cst"
	"github.com/dekarrin/sqlitecst/errs"
	"github.com/dekarrin/sqlitecst/green"
	"github.com/dekarrin/sqlitecst/intern"
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lex"
	"github.com/dekarrin/sqlitecst/lrtable"
	"github.com/dekarrin/sqlitecst/recovery"
	"github.com/dekarrin/sqlitecst/red"
	"github.com/dekarrin/sqlitecst/rewrite"
	"github.com/dekarrin/sqlitecst/stack"
)

// Parser is the immutable, reusable entry point of §6: it bundles the
// build-time artefacts (kind registry, scan tables, parse table, rewrite
// table) with a recovery tuning and produces independent parses.
type Parser struct {
	reg      *kind.Registry
	lexeme   lex.LexemeTable
	regex    lex.RegexTable
	table    *lrtable.Table
	rewrite  *rewrite.Table
	penalty  recovery.Penalty
	semi     kind.ID
	program  kind.ID
	ecmd     kind.ID
}

// New builds a Parser from the build-time artefacts sqlgrammar provides.
// program and ecmd are the synthetic kinds the driver manufactures
// directly (never produced via table reduces, §2 item 6/§6); semi is the
// statement-terminator terminal.
func New(reg *kind.Registry, lexeme lex.LexemeTable, regex lex.RegexTable, table *lrtable.Table, rules *rewrite.Table, penalty recovery.Penalty, semi, program, ecmd kind.ID) *Parser {
	return &Parser{reg: reg, lexeme: lexeme, regex: regex, table: table, rewrite: rules, penalty: penalty, semi: semi, program: program, ecmd: ecmd}
}

// Parse implements §6's Parser::parse: it never fails on malformed SQL
// (malformedness is reified as Error/FatalError nodes), returning a
// SyntaxError only for an internal invariant violation.
func (p *Parser) Parse(source string) (*SyntaxTree, error) {
	sc := lex.New(source, 0, p.reg, p.lexeme, p.regex)
	interns := intern.New()
	b := cst.New(p.reg, interns, nil)
	ss := stack.New(0)
	penalty := p.penalty

	var rootMembers []green.Element

	for {
		look := sc.Lookahead()
		if look.Main.Kind == p.reg.EOF() {
			state, _ := ss.Peek()
			tok := sc.Shift()
			b.PushToken(tok, p.reg.EOF(), state)
			if node, ok := b.ReduceAll(p.ecmd, state); ok {
				rootMembers = append(rootMembers, node)
			}
			break
		}

		state, _ := ss.Peek()
		act := p.table.Action(state, look.Main.Kind)

		switch act.Type {
		case lrtable.Shift:
			tok := sc.Shift()
			// The TokenSet's recorded state is the state in effect before
			// this token was shifted (matching stack.Reduce's checkpoint
			// convention for produced nodes), not act.Next: an incremental
			// reparse targeting this exact token needs to resume from the
			// state that made shifting it valid in the first place.
			b.PushToken(tok, tok.Main.Kind, state)
			if tok.Main.Kind == p.semi {
				if node, ok := b.ReduceAll(p.ecmd, act.Next); ok {
					rootMembers = append(rootMembers, node)
				}
				ss = stack.New(0)
			} else {
				ss = stack.Shift(ss, act.Next)
			}

		case lrtable.Reduce:
			newSS, checkpointState, ok := stack.Reduce(p.table, ss, act.LHS, act.Pop)
			if !ok {
				return nil, errs.Syntaxf("parser: no GOTO entry for state %d, symbol %v (corrupt parse table)", state, p.reg.Kind(act.LHS))
			}
			b.Reduce(act.LHS, act.Pop, checkpointState)
			ss = newSS

		case lrtable.Accept:
			if look.Main.Kind == p.semi {
				tok := sc.Shift()
				b.PushToken(tok, tok.Main.Kind, state)
			}
			if node, ok := b.ReduceAll(p.ecmd, state); ok {
				rootMembers = append(rootMembers, node)
			}
			ss = stack.New(0)

		default: // lrtable.Error
			journal, ok := p.recover(b, ss, sc, state, &penalty)
			if !ok {
				offset := look.OffsetStart()
				length, atSemi := consumeToBoundary(sc, p.semi, p.reg.EOF())
				b.FatalErrorNode(offset, length, state)
				if atSemi {
					if node, ok := b.ReduceAll(p.ecmd, state); ok {
						rootMembers = append(rootMembers, node)
					}
					ss = stack.New(0)
				}
				continue
			}
			ss = p.replay(b, ss, sc, journal, state)
		}
	}

	root := b.ReduceRoot(p.program, rootMembers)
	root = p.rewrite.Apply(root, b.Annotations())
	tree := red.New(root, b.Annotations())
	return &SyntaxTree{tree: tree, interns: interns, SessionID: uuid.New()}, nil
}

// consumeToBoundary drains the scanner up to and including the next SEMI
// or EOF, returning the total byte length consumed and whether it stopped at
// a SEMI — the FatalError fallback of §4.6 Arbitration.
func consumeToBoundary(sc *lex.Scanner, semi, eof kind.ID) (int, bool) {
	total := 0
	for {
		tok := sc.Shift()
		total += tok.Len()
		if tok.Main.Kind == semi || tok.Main.Kind == eof {
			return total, tok.Main.Kind == semi
		}
	}
}

// recover runs both recovery searches and arbitrates between them (§4.6).
func (p *Parser) recover(b *cst.Builder, ss stack.StateStack, sc *lex.Scanner, failedState int, penalty *recovery.Penalty) (recovery.Journal, bool) {
	del, delOK := recovery.TryDelete(p.table, failedState, ss, sc, penalty.DeleteSlot)
	shf, shfOK := recovery.TryShift(p.table, failedState, ss, sc, *penalty)

	journal, ok := recovery.Arbitrate(del, delOK, shf, shfOK)
	if !ok {
		return recovery.Journal{}, false
	}

	switch journal.Strategy {
	case recovery.Delete:
		*penalty = penalty.AfterDelete(len(journal.Error))
	case recovery.Shift:
		*penalty = penalty.AfterShift()
	}
	return journal, true
}

// replay applies a winning Journal's events into the real builder and
// state stack (§4.6 Replay).
func (p *Parser) replay(b *cst.Builder, ss stack.StateStack, sc *lex.Scanner, j recovery.Journal, failedState int) stack.StateStack {
	switch j.Strategy {
	case recovery.Delete:
		for _, ev := range j.Error {
			b.PushErrorToken(*ev.Tok, ev.Term, failedState, annotate.Delete)
		}
	case recovery.Shift:
		for _, ev := range j.Error {
			switch ev.Kind {
			case recovery.EventShift:
				off := sc.Lookahead().Main.Offset
				b.PushBlank(off, ev.State, annotate.Shift)
				ss = stack.Shift(ss, ev.State)
			case recovery.EventReduce:
				newSS, checkpointState, ok := stack.Reduce(p.table, ss, ev.LHS, ev.Pop)
				if ok {
					b.Reduce(ev.LHS, ev.Pop, checkpointState)
					ss = newSS
				}
			}
		}
	}

	for _, ev := range j.Recovery {
		switch ev.Kind {
		case recovery.EventShift:
			b.PushToken(*ev.Tok, ev.Term, ev.State)
			ss = stack.Shift(ss, ev.State)
		case recovery.EventReduce:
			newSS, checkpointState, ok := stack.Reduce(p.table, ss, ev.LHS, ev.Pop)
			if ok {
				b.Reduce(ev.LHS, ev.Pop, checkpointState)
				ss = newSS
			}
		case recovery.EventAccept:
			ss = stack.New(0)
		}
	}
	return ss
}
