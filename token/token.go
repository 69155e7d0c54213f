// Package token holds the lexical-item types produced by the scanner:
// TokenItem, the smallest unit the scanner emits, and Token, the
// leading-trivia/main/trailing-trivia triple the spec calls a "Token".
//
// These mirror original_source's scanner.rs TokenItem/Token closely, since
// that is the exact shape the rest of this module (cst, recovery, parser)
// needs to stay lossless.
package token

import "github.com/dekarrin/sqlitecst/kind"

// Item is a single lexed span: a kind, its byte range in the source, and
// (for non-keyword terminals) the literal text that was matched.
type Item struct {
	Kind   kind.ID
	Offset int
	Len    int
	// Value holds the matched text for non-keyword terminals (identifiers,
	// numeric/string/blob/hex literals, trivia). Keyword terminals leave
	// this empty since the registry's static text suffices.
	Value string
}

// End returns the byte offset one past the item.
func (it Item) End() int { return it.Offset + it.Len }

// Token is one scanned unit: an ordered run of leading trivia, exactly one
// main item, and an ordered run of trailing trivia. Byte ranges are
// contiguous within a Token and tile the source with no gaps or overlaps
// across consecutive Tokens (except at EOF).
type Token struct {
	Leading  []Item
	Main     Item
	Trailing []Item
}

// OffsetStart returns the offset of the first leading trivia item, or of
// Main if there is no leading trivia.
func (t Token) OffsetStart() int {
	if len(t.Leading) > 0 {
		return t.Leading[0].Offset
	}
	return t.Main.Offset
}

// OffsetEnd returns the offset one past the last trailing trivia item, or
// one past Main if there is no trailing trivia.
func (t Token) OffsetEnd() int {
	if len(t.Trailing) > 0 {
		last := t.Trailing[len(t.Trailing)-1]
		return last.End()
	}
	return t.Main.End()
}

// Len sums the byte length of every leading item, Main, and every trailing
// item.
func (t Token) Len() int {
	total := 0
	for _, it := range t.Leading {
		total += it.Len
	}
	total += t.Main.Len
	for _, it := range t.Trailing {
		total += it.Len
	}
	return total
}

// Items returns leading, main, and trailing items as one ordered slice, in
// the order they occur in the source.
func (t Token) Items() []Item {
	all := make([]Item, 0, len(t.Leading)+1+len(t.Trailing))
	all = append(all, t.Leading...)
	all = append(all, t.Main)
	all = append(all, t.Trailing...)
	return all
}
