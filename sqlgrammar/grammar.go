package sqlgrammar

import (
	"github.com/dekarrin/sqlitecst/grammar"
	"github.com/dekarrin/sqlitecst/kind"
	"github.com/dekarrin/sqlitecst/lrtable"
	"github.com/dekarrin/sqlitecst/tablegen"
)

// r is shorthand for a grammar.Production literal, kept terse because this
// file is mostly a flat list of them.
func r(lhs kind.ID, rhs ...kind.ID) grammar.Production {
	return grammar.Production{LHS: lhs, RHS: rhs}
}

// productions is the SQL subset's grammar body (§ "SUPPLEMENTED FEATURES":
// SELECT/INSERT/UPDATE/DELETE/CREATE TABLE, a flat ambiguous expression
// grammar, and the one STAR/selcollist shape the post-order rewriter
// depends on). CMD is the augmenting-production start symbol tablegen.Build
// consumes (§6 "Build-time artefacts"); PROGRAM and ECMD never appear here,
// since the driver manufactures them directly (§4.4, §4.7).
var productions = []grammar.Production{
	r(CMD, STMT),

	r(STMT, SELECTSTMT),
	r(STMT, INSERTSTMT),
	r(STMT, UPDATESTMT),
	r(STMT, DELETESTMT),
	r(STMT, CREATESTMT),

	// SELECT selcollist FROM tablist [WHERE expr] [ORDER BY orderlist] [LIMIT expr]
	r(SELECTSTMT, SELECT, SELCOLLIST, FROM, TABLIST, WHEREOPT, ORDEROPT, LIMITOPT),

	r(SELCOLLIST, SELCOLLIST, COMMA, EXPR),
	r(SELCOLLIST, EXPR),
	// Direct child of SELCOLLIST: this is the pairing
	// rewrite.Table's (SELCOLLIST, STAR) -> ASTERISK rule matches against
	// (§4.9).
	r(SELCOLLIST, STAR),

	r(TABLIST, TABLIST, COMMA, TABLEREF),
	r(TABLIST, TABLEREF),
	r(TABLEREF, IDENT),
	r(TABLEREF, IDENT, IDENT),
	r(TABLEREF, IDENT, AS, IDENT),

	r(WHEREOPT),
	r(WHEREOPT, WHERE, EXPR),

	r(ORDEROPT),
	r(ORDEROPT, ORDER, BY, ORDERLIST),
	r(ORDERLIST, ORDERLIST, COMMA, ORDERITEM),
	r(ORDERLIST, ORDERITEM),
	r(ORDERITEM, EXPR),
	r(ORDERITEM, EXPR, ASC),
	r(ORDERITEM, EXPR, DESC),

	r(LIMITOPT),
	r(LIMITOPT, LIMIT, EXPR),

	// INSERT INTO name [(collist)] VALUES (exprlist)
	r(INSERTSTMT, INSERT, INTO, IDENT, COLLISTOPT, VALUES, LPAREN, EXPRLIST, RPAREN),
	r(COLLISTOPT),
	r(COLLISTOPT, LPAREN, COLLIST, RPAREN),
	r(COLLIST, COLLIST, COMMA, IDENT),
	r(COLLIST, IDENT),
	r(EXPRLIST, EXPRLIST, COMMA, EXPR),
	r(EXPRLIST, EXPR),

	// UPDATE name SET assignlist [WHERE expr]
	r(UPDATESTMT, UPDATE, IDENT, SET, ASSIGNLIST, WHEREOPT),
	r(ASSIGNLIST, ASSIGNLIST, COMMA, ASSIGN),
	r(ASSIGNLIST, ASSIGN),
	r(ASSIGN, IDENT, EQ, EXPR),

	// DELETE FROM name [WHERE expr]
	r(DELETESTMT, DELETE, FROM, IDENT, WHEREOPT),

	// CREATE TABLE name (coldeflist)
	r(CREATESTMT, CREATE, TABLE, IDENT, LPAREN, COLDEFLIST, RPAREN),
	r(COLDEFLIST, COLDEFLIST, COMMA, COLDEF),
	r(COLDEFLIST, COLDEF),
	r(COLDEF, IDENT, TYPENAME, COLCONSTROPT),
	r(TYPENAME, INTEGER),
	r(TYPENAME, TEXT),
	r(TYPENAME, REAL),
	r(TYPENAME, BLOB),
	r(COLCONSTROPT),
	r(COLCONSTROPT, PRIMARY, KEY),

	// Flat ambiguous expression grammar (§9's shift/reduce conflict policy
	// "shift wins" fully determines these, so no precedence declarations
	// are needed; see DESIGN.md for the reasoning).
	r(EXPR, EXPR, OR, EXPR),
	r(EXPR, EXPR, AND, EXPR),
	r(EXPR, EXPR, EQ, EXPR),
	r(EXPR, EXPR, NEQ, EXPR),
	r(EXPR, EXPR, LT, EXPR),
	r(EXPR, EXPR, LE, EXPR),
	r(EXPR, EXPR, GT, EXPR),
	r(EXPR, EXPR, GE, EXPR),
	r(EXPR, EXPR, PLUS, EXPR),
	r(EXPR, EXPR, MINUS, EXPR),
	r(EXPR, EXPR, STAR, EXPR),
	r(EXPR, EXPR, SLASH, EXPR),
	r(EXPR, LPAREN, EXPR, RPAREN),
	r(EXPR, PRIMARY_),

	r(PRIMARY_, IDENT),
	r(PRIMARY_, IDENT, DOT, IDENT),
	r(PRIMARY_, NUMBER),
	r(PRIMARY_, STRING),
	r(PRIMARY_, NULLKW),
}

// Grammar is the SQL subset's grammar.Grammar, rooted at CMD.
var Grammar = grammar.New(CMD, SEMI, productions)

// Table is the LALR(1) ACTION/GOTO table built from Grammar. SEMI is passed
// as tablegen.Build's augmenting-lookahead parameter, not the scanner's
// true EOF: CMD's grammar never itself sees past one statement's body, and
// a real EOF immediately after a final, unterminated statement is handled
// by the driver's own EOF special case (§4.4 step 1), not by this table's
// Accept action. See DESIGN.md for why CMD, not PROGRAM, is the table's
// start symbol.
var Table = func() *lrtable.Table {
	t, err := tablegen.Build(Grammar, CMDPRIME, SEMI)
	if err != nil {
		panic("sqlgrammar: " + err.Error())
	}
	return t
}()
