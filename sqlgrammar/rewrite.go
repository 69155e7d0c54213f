package sqlgrammar

import "github.com/dekarrin/sqlitecst/rewrite"

// RewriteTable is the SQL subset's post-order rewrite table (§4.9). It has
// exactly one entry, the same one original_source/crates/parser/src/
// resolve_rules.rs hard-codes: a STAR that reduced directly under a
// SELCOLLIST node is a select-list wildcard, not multiplication, since the
// grammar has no other way to tell the two apart syntactically.
var RewriteTable = rewrite.NewTable([]rewrite.Rule{
	{Parent: SELCOLLIST, Child: STAR, Replacement: ASTERISK},
})
