package sqlgrammar

import (
	"github.com/dekarrin/sqlitecst/config"
	"github.com/dekarrin/sqlitecst/parser"
	"github.com/dekarrin/sqlitecst/recovery"
)

// NewParser builds a Parser for the SQL subset using penalty for recovery
// tuning.
func NewParser(penalty recovery.Penalty) *parser.Parser {
	return parser.New(Registry, LexemeTable, RegexTable, Table, RewriteTable, penalty, SEMI, PROGRAM, ECMD)
}

// DefaultParser builds a Parser using config.Default()'s recovery tuning
// (§9's delete_slot=3, shift_limit=9, next_shift_decay=2).
func DefaultParser() *parser.Parser {
	return NewParser(config.Default().Recovery.ToPenalty())
}

// NewParserFromConfig builds a Parser from a loaded config.Config.
func NewParserFromConfig(cfg config.Config) *parser.Parser {
	return NewParser(cfg.Recovery.ToPenalty())
}
