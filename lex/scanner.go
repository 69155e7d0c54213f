// Package lex implements the scanner of §4.1: a lazy, restorable Token
// stream over a source byte string, with a lexeme fast path (keywords and
// punctuation) and a regex fallback (identifiers, literals) for the main
// scan phase, plus regex-only leading/trailing trivia.
//
// The shape follows internal/ictiobus/lex/lazy.go (lookahead/shift/Peek,
// panic-mode-free here since ILLEGAL absorbs bad bytes instead) and the
// exact three-phase (leading, main, trailing) scan and ScannerScope
// snapshot/restore of original_source's scanner.rs.
package lex

import (
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/token"
)

// Scanner converts a source byte string into a lazy Token stream. It is
// single-threaded and deterministic: the same source and starting offset
// always produce the same sequence of Tokens.
type Scanner struct {
	source string
	reg    *kind.Registry
	lexeme LexemeTable
	leads  RegexTable
	mains  RegexTable
	trails RegexTable

	index     int
	lookahead *token.Token
}

// New creates a Scanner over source starting at byte offset start, and
// primes its first lookahead.
func New(source string, start int, reg *kind.Registry, lexeme LexemeTable, regex RegexTable) *Scanner {
	s := &Scanner{
		source: source,
		reg:    reg,
		lexeme: lexeme,
		leads:  regex.Leading(),
		mains:  regex.Main(),
		trails: regex.Trailing(),
		index:  start,
	}
	s.advance()
	return s
}

// Lookahead returns the current Token without advancing the stream.
func (s *Scanner) Lookahead() token.Token {
	return *s.lookahead
}

// Shift returns the current lookahead Token and advances the stream.
func (s *Scanner) Shift() token.Token {
	t := *s.lookahead
	s.advance()
	return t
}

func (s *Scanner) advance() {
	s.lookahead = s.scanOne()
}

// Scope is a restorable snapshot of scanner position.
type Scope struct {
	index     int
	lookahead *token.Token
}

// Scope captures the scanner's current position so that any number of
// Shift/Lookahead calls between Scope and Revert can be undone.
func (s *Scanner) Scope() Scope {
	la := *s.lookahead
	return Scope{index: s.index, lookahead: &la}
}

// Revert restores a previously captured Scope.
func (s *Scanner) Revert(scope Scope) {
	s.index = scope.index
	la := *scope.lookahead
	s.lookahead = &la
}

func (s *Scanner) scanOne() *token.Token {
	idx := s.index

	leading, idx := s.scanTrivia(idx, s.leads)
	main, nextIdx := s.scanMain(idx)
	trailing, nextIdx := s.scanTrivia(nextIdx, s.trails)

	s.index = nextIdx

	return &token.Token{Leading: leading, Main: main, Trailing: trailing}
}

// scanTrivia greedily matches a run of regex trivia patterns starting at
// idx, returning the matched items (possibly none) and the index just past
// them.
func (s *Scanner) scanTrivia(idx int, rules RegexTable) ([]token.Item, int) {
	var items []token.Item
	for {
		rest := s.source[idx:]
		if rest == "" {
			break
		}
		matched := false
		for _, rule := range rules {
			loc := rule.Pattern.FindStringIndex(rest)
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				continue
			}
			text := rest[:loc[1]]
			items = append(items, token.Item{Kind: rule.Kind, Offset: idx, Len: loc[1], Value: text})
			idx += loc[1]
			matched = true
			break
		}
		if !matched {
			break
		}
	}
	return items, idx
}

// scanMain implements §4.1 step 2: the lexeme fast path, the regex
// fallback, the longer-match/lexeme-ties-win comparison, the EOF case, and
// the one-UTF-8-character ILLEGAL fallback.
func (s *Scanner) scanMain(idx int) (token.Item, int) {
	if idx >= len(s.source) {
		return token.Item{Kind: s.reg.EOF(), Offset: idx, Len: 0}, idx
	}

	lexID, lexLen, lexOK := s.matchLexeme(idx)
	reID, reLen, reText, reOK := s.matchRegex(idx)

	switch {
	case lexOK && reOK:
		if reLen > lexLen {
			return token.Item{Kind: reID, Offset: idx, Len: reLen, Value: reText}, idx + reLen
		}
		return token.Item{Kind: lexID, Offset: idx, Len: lexLen, Value: s.source[idx : idx+lexLen]}, idx + lexLen
	case lexOK:
		return token.Item{Kind: lexID, Offset: idx, Len: lexLen, Value: s.source[idx : idx+lexLen]}, idx + lexLen
	case reOK:
		return token.Item{Kind: reID, Offset: idx, Len: reLen, Value: reText}, idx + reLen
	default:
		_, sz := utf8.DecodeRuneInString(s.source[idx:])
		if sz == 0 {
			sz = 1
		}
		return token.Item{Kind: s.reg.Illegal(), Offset: idx, Len: sz, Value: s.source[idx : idx+sz]}, idx + sz
	}
}

func (s *Scanner) matchLexeme(idx int) (kind.ID, int, bool) {
	if len(s.lexeme) == 0 {
		return 0, 0, false
	}
	first := s.source[idx]
	if first >= 'A' && first <= 'Z' {
		first += 'a' - 'A'
	}
	rules, ok := s.lexeme[first]
	if !ok {
		return 0, 0, false
	}

	rest := s.source[idx:]
	restLower := strings.ToLower(rest)

	bestLen := -1
	var bestID kind.ID
	for _, rule := range rules {
		n := len(rule.Text)
		if n > len(rest) {
			continue
		}
		// keyword rules match case-insensitively; punctuation rules are
		// single-case and happen to match either way since they have no
		// letters.
		if restLower[:n] != strings.ToLower(rule.Text) {
			continue
		}
		if n > bestLen {
			bestLen = n
			bestID = rule.Kind
		}
	}
	if bestLen < 0 {
		return 0, 0, false
	}
	return bestID, bestLen, true
}

func (s *Scanner) matchRegex(idx int) (kind.ID, int, string, bool) {
	rest := s.source[idx:]
	bestLen := -1
	var bestID kind.ID
	var bestText string
	for _, rule := range s.mains {
		loc := rule.Pattern.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			continue
		}
		if loc[1] > bestLen {
			bestLen = loc[1]
			bestID = rule.Kind
			bestText = rest[:loc[1]]
		}
	}
	if bestLen < 0 {
		return 0, 0, "", false
	}
	return bestID, bestLen, bestText, true
}
