package sqlgrammar

import (
	"regexp"

	"github.com/dekarrin/sqlitecst/lex"
)

// lexemeRules lists every lexeme-fast-path rule (§4.1 step "lookup fast
// path"): keywords (case-insensitive) and punctuation. Multi-character
// operators are listed before any single-character prefix of them so the
// longest-match comparison in Scanner.matchLexeme never has to fall back to
// registration order to find the right one.
var lexemeRules = []lex.LexemeRule{
	{Kind: NEQ, Text: "<>"},
	{Kind: LE, Text: "<="},
	{Kind: GE, Text: ">="},
	{Kind: LT, Text: "<"},
	{Kind: GT, Text: ">"},

	{Kind: SEMI, Text: ";"},
	{Kind: LPAREN, Text: "("},
	{Kind: RPAREN, Text: ")"},
	{Kind: COMMA, Text: ","},
	{Kind: DOT, Text: "."},
	{Kind: EQ, Text: "="},
	{Kind: PLUS, Text: "+"},
	{Kind: MINUS, Text: "-"},
	{Kind: SLASH, Text: "/"},
	{Kind: STAR, Text: "*"},

	{Kind: SELECT, Text: "SELECT"},
	{Kind: FROM, Text: "FROM"},
	{Kind: WHERE, Text: "WHERE"},
	{Kind: INSERT, Text: "INSERT"},
	{Kind: INTO, Text: "INTO"},
	{Kind: VALUES, Text: "VALUES"},
	{Kind: UPDATE, Text: "UPDATE"},
	{Kind: SET, Text: "SET"},
	{Kind: DELETE, Text: "DELETE"},
	{Kind: CREATE, Text: "CREATE"},
	{Kind: TABLE, Text: "TABLE"},
	{Kind: AND, Text: "AND"},
	{Kind: OR, Text: "OR"},
	{Kind: NULLKW, Text: "NULL"},
	{Kind: PRIMARY, Text: "PRIMARY"},
	{Kind: KEY, Text: "KEY"},
	{Kind: INTEGER, Text: "INTEGER"},
	{Kind: TEXT, Text: "TEXT"},
	{Kind: REAL, Text: "REAL"},
	{Kind: BLOB, Text: "BLOB"},
	{Kind: AS, Text: "AS"},
	{Kind: ORDER, Text: "ORDER"},
	{Kind: BY, Text: "BY"},
	{Kind: ASC, Text: "ASC"},
	{Kind: DESC, Text: "DESC"},
	{Kind: LIMIT, Text: "LIMIT"},
}

// LexemeTable is built once from lexemeRules, bucketed by lower-cased first
// byte, per lex.LexemeTable's documented shape.
var LexemeTable = buildLexemeTable(lexemeRules)

func buildLexemeTable(rules []lex.LexemeRule) lex.LexemeTable {
	t := make(lex.LexemeTable)
	for _, rule := range rules {
		first := rule.Text[0]
		if first >= 'A' && first <= 'Z' {
			first += 'a' - 'A'
		}
		t[first] = append(t[first], rule)
	}
	return t
}

// identPattern excludes keywords at the regex level; the scanner's
// longer-match/lexeme-wins comparison (§4.1) already prefers a keyword
// lexeme over an identically-spelled IDENT regex match, so no separate
// keyword-exclusion lookahead is needed here.
var (
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	numberPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`)
	stringPattern = regexp.MustCompile(`^'(?:[^']|'')*'`)

	whitespacePattern   = regexp.MustCompile(`^[ \t\r\n]+`)
	lineCommentPattern  = regexp.MustCompile(`^--[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)^/\*.*?\*/`)
)

// RegexTable is the regex-rule set for the main scan phase and both trivia
// phases (§4.1); sqlgrammar registers the same trivia rules for leading and
// trailing position, matching the scanner's "greedily match a run of regex
// trivia patterns" loop.
var RegexTable = lex.RegexTable{
	{Kind: IDENT, Pattern: identPattern, Main: true},
	{Kind: NUMBER, Pattern: numberPattern, Main: true},
	{Kind: STRING, Pattern: stringPattern, Main: true},

	{Kind: WHITESPACE, Pattern: whitespacePattern, Leading: true, Trailing: true},
	{Kind: LINECOMMENT, Pattern: lineCommentPattern, Leading: true, Trailing: true},
	{Kind: BLOCKCOMMENT, Pattern: blockCommentPattern, Leading: true, Trailing: true},
}
