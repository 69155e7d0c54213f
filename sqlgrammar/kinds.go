// Package sqlgrammar is the concrete artefact this module ships: the SQL
// subset's kind registry, scan tables, grammar, and the LALR(1) table built
// from it. Everything else (kind, lex, cst, recovery, parser, rewrite) is a
// reusable library; sqlgrammar is the one caller that turns it into a
// working SQL parser, the way internal/ictiobus/fishi.go is the one
// concrete consumer of the teacher's generic LALR toolkit.
//
// §1 names the "grammar-generation toolchain" as an out-of-scope external
// collaborator that would normally run as a go:generate step and check in
// its output. Since this build never invokes the Go toolchain, the tables
// built here are constructed in-process at package init via tablegen.Build
// instead of being loaded from a generated artefact; artifact.go still
// provides the rezi-based Save/Load pair a real go:generate step would use,
// exercised by TestArtifactRoundTrip.
package sqlgrammar

import "github.com/dekarrin/sqlitecst/kind"

// Kind IDs. Order is significant: a Kind's position in the slice passed to
// kind.NewRegistry is its ID, so every ID below must match kindTable's
// declaration order exactly.
const (
	EOF kind.ID = iota
	ILLEGAL

	// Punctuation and operators.
	SEMI
	LPAREN
	RPAREN
	COMMA
	DOT
	EQ
	NEQ
	LT
	LE
	GT
	GE
	PLUS
	MINUS
	SLASH
	STAR
	// ASTERISK is never produced by the scanner; it exists only as the
	// rewrite.Table target for a STAR that the post-order pass determines
	// was a select-list wildcard rather than multiplication (§4.9).
	ASTERISK

	// Keywords.
	SELECT
	FROM
	WHERE
	INSERT
	INTO
	VALUES
	UPDATE
	SET
	DELETE
	CREATE
	TABLE
	AND
	OR
	NULLKW
	PRIMARY
	KEY
	INTEGER
	TEXT
	REAL
	BLOB
	AS
	ORDER
	BY
	ASC
	DESC
	LIMIT

	// Regex-scanned terminals.
	IDENT
	NUMBER
	STRING

	// Trivia (never appear in a grammar production; only ever wrapped as
	// Leading/Trailing token annotations, §4.1/§4.5).
	WHITESPACE
	LINECOMMENT
	BLOCKCOMMENT

	// Synthetic kinds the driver manufactures directly (§4.4, §4.7); never
	// produced by a table Reduce.
	PROGRAM
	ECMD

	// CMD is the LALR table's actual grammar start symbol: one statement's
	// interior grammar (§4.4's "cmd"), not PROGRAM/ECMD. CMDPRIME is the
	// fresh augmenting nonterminal tablegen.Build needs and is never
	// referenced anywhere else.
	CMD
	CMDPRIME

	// Statement and expression nonterminals.
	STMT
	SELECTSTMT
	INSERTSTMT
	UPDATESTMT
	DELETESTMT
	CREATESTMT
	SELCOLLIST
	TABLIST
	TABLEREF
	WHEREOPT
	ORDEROPT
	ORDERLIST
	ORDERITEM
	LIMITOPT
	COLLISTOPT
	COLLIST
	EXPRLIST
	ASSIGNLIST
	ASSIGN
	COLDEFLIST
	COLDEF
	TYPENAME
	COLCONSTROPT
	EXPR
	PRIMARY_

	numKinds
)

var kindTable = func() []kind.Kind {
	k := make([]kind.Kind, numKinds)

	term := func(id kind.ID, text string) {
		k[id] = kind.Kind{ID: id, Text: text, IsTerminal: true}
	}
	keyword := func(id kind.ID, text string) {
		k[id] = kind.Kind{ID: id, Text: text, IsKeyword: true, IsTerminal: true}
	}
	nonterm := func(id kind.ID, text string) {
		k[id] = kind.Kind{ID: id, Text: text}
	}

	term(EOF, "<EOF>")
	term(ILLEGAL, "<ILLEGAL>")

	term(SEMI, ";")
	term(LPAREN, "(")
	term(RPAREN, ")")
	term(COMMA, ",")
	term(DOT, ".")
	term(EQ, "=")
	term(NEQ, "<>")
	term(LT, "<")
	term(LE, "<=")
	term(GT, ">")
	term(GE, ">=")
	term(PLUS, "+")
	term(MINUS, "-")
	term(SLASH, "/")
	term(STAR, "*")
	term(ASTERISK, "*")

	keyword(SELECT, "SELECT")
	keyword(FROM, "FROM")
	keyword(WHERE, "WHERE")
	keyword(INSERT, "INSERT")
	keyword(INTO, "INTO")
	keyword(VALUES, "VALUES")
	keyword(UPDATE, "UPDATE")
	keyword(SET, "SET")
	keyword(DELETE, "DELETE")
	keyword(CREATE, "CREATE")
	keyword(TABLE, "TABLE")
	keyword(AND, "AND")
	keyword(OR, "OR")
	keyword(NULLKW, "NULL")
	keyword(PRIMARY, "PRIMARY")
	keyword(KEY, "KEY")
	keyword(INTEGER, "INTEGER")
	keyword(TEXT, "TEXT")
	keyword(REAL, "REAL")
	keyword(BLOB, "BLOB")
	keyword(AS, "AS")
	keyword(ORDER, "ORDER")
	keyword(BY, "BY")
	keyword(ASC, "ASC")
	keyword(DESC, "DESC")
	keyword(LIMIT, "LIMIT")

	term(IDENT, "IDENT")
	term(NUMBER, "NUMBER")
	term(STRING, "STRING")

	k[WHITESPACE] = kind.Kind{ID: WHITESPACE, Text: "WHITESPACE"}
	k[LINECOMMENT] = kind.Kind{ID: LINECOMMENT, Text: "LINECOMMENT"}
	k[BLOCKCOMMENT] = kind.Kind{ID: BLOCKCOMMENT, Text: "BLOCKCOMMENT"}

	nonterm(PROGRAM, "program")
	nonterm(ECMD, "ecmd")
	nonterm(CMD, "cmd")
	nonterm(CMDPRIME, "cmd'")

	nonterm(STMT, "stmt")
	nonterm(SELECTSTMT, "selectstmt")
	nonterm(INSERTSTMT, "insertstmt")
	nonterm(UPDATESTMT, "updatestmt")
	nonterm(DELETESTMT, "deletestmt")
	nonterm(CREATESTMT, "createstmt")
	nonterm(SELCOLLIST, "selcollist")
	nonterm(TABLIST, "tablist")
	nonterm(TABLEREF, "tableref")
	nonterm(WHEREOPT, "whereopt")
	nonterm(ORDEROPT, "orderopt")
	nonterm(ORDERLIST, "orderlist")
	nonterm(ORDERITEM, "orderitem")
	nonterm(LIMITOPT, "limitopt")
	nonterm(COLLISTOPT, "collistopt")
	nonterm(COLLIST, "collist")
	nonterm(EXPRLIST, "exprlist")
	nonterm(ASSIGNLIST, "assignlist")
	nonterm(ASSIGN, "assign")
	nonterm(COLDEFLIST, "coldeflist")
	nonterm(COLDEF, "coldef")
	nonterm(TYPENAME, "typename")
	nonterm(COLCONSTROPT, "colconstropt")
	nonterm(EXPR, "expr")
	nonterm(PRIMARY_, "primary")

	return k
}()

// Registry is the build-time kind registry for the SQL subset.
var Registry = kind.NewRegistry(kindTable, EOF, ILLEGAL, CMD)
