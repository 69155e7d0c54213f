package lex

import (
	"regexp"

	"github.com/dekarrin/sqlitecst/kind"
)

// LexemeRule is one entry of the "lookup fast path" of §4.1: a literal byte
// string that, if it prefixes the remaining source, lexes as Kind.
type LexemeRule struct {
	Kind kind.ID
	Text string
}

// LexemeTable maps the lower-cased first byte of the remaining source to the
// ordered list of lexeme rules that might start with it. Order matters: the
// longest matching rule wins, and ties are broken by earliest registration
// (so, e.g., a multi-char operator rule should be registered before any
// single-char prefix of it to make the comparison moot, though the scanner
// does not rely on registration order to produce the longest-match result).
type LexemeTable map[byte][]LexemeRule

// RegexRule is one entry of the regex fallback / trivia pattern set.
// A rule may participate in more than one of the three scan phases.
type RegexRule struct {
	Kind     kind.ID
	Pattern  *regexp.Regexp
	Leading  bool
	Trailing bool
	Main     bool
}

// RegexTable is an ordered list of regex rules. Order is significant for
// trivia scanning (first match wins per position) and is used as the
// earliest-registration tiebreak for the main-phase regex fallback.
type RegexTable []RegexRule

// Leading returns the subset of rules usable as leading trivia, in order.
func (t RegexTable) Leading() RegexTable { return t.filter(func(r RegexRule) bool { return r.Leading }) }

// Trailing returns the subset of rules usable as trailing trivia, in order.
func (t RegexTable) Trailing() RegexTable {
	return t.filter(func(r RegexRule) bool { return r.Trailing })
}

// Main returns the subset of rules usable in the main-scan regex fallback,
// in order.
func (t RegexTable) Main() RegexTable { return t.filter(func(r RegexRule) bool { return r.Main }) }

func (t RegexTable) filter(pred func(RegexRule) bool) RegexTable {
	out := make(RegexTable, 0, len(t))
	for _, r := range t {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
