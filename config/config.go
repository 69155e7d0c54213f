// Package config loads the optional tuning file a Parser can be built from:
// the recovery-search penalty constants of §4.6/§9 and a scanner section. It
// follows server/config.go's FillDefaults/Validate shape and
// internal/tqw/tqw.go's toml.Unmarshal-based loading.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/sqlitecst/recovery"
)

// RecoveryPenalty mirrors recovery.Penalty's fields for TOML decoding; it is
// converted via ToPenalty once loaded.
type RecoveryPenalty struct {
	DeleteSlot     int `toml:"delete_slot"`
	ShiftLimit     int `toml:"shift_limit"`
	ShiftDecay     int `toml:"shift_decay"`
	NextShiftDecay int `toml:"next_shift_decay"`
}

// ToPenalty converts a loaded RecoveryPenalty to the recovery package's own
// type.
func (rp RecoveryPenalty) ToPenalty() recovery.Penalty {
	return recovery.Penalty{
		DeleteSlot:     rp.DeleteSlot,
		ShiftLimit:     rp.ShiftLimit,
		ShiftDecay:     rp.ShiftDecay,
		NextShiftDecay: rp.NextShiftDecay,
	}
}

// Scanner holds the scanner section of the tuning file.
type Scanner struct {
	// MaxLexemeLen is decoded and checked by Validate (it must not be
	// negative), but lex.Scanner does not read it: no per-token byte cap is
	// applied, whatever its value.
	MaxLexemeLen int `toml:"max_lexeme_len"`
}

// Config is the full set of tunables a Parser can be built from. FillDefaults
// replaces the recovery fields left at zero with the constants named in §9,
// except ShiftDecay, whose default is zero; Scanner.MaxLexemeLen is left as
// it is.
type Config struct {
	Recovery RecoveryPenalty `toml:"recovery"`
	Scanner  Scanner         `toml:"scanner"`
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to recovery.DefaultPenalty()'s constants.
func (cfg Config) FillDefaults() Config {
	newCfg := cfg
	def := recovery.DefaultPenalty()

	if newCfg.Recovery.DeleteSlot == 0 {
		newCfg.Recovery.DeleteSlot = def.DeleteSlot
	}
	if newCfg.Recovery.ShiftLimit == 0 {
		newCfg.Recovery.ShiftLimit = def.ShiftLimit
	}
	// ShiftDecay's zero value is itself the default (§9: shift_decay=0), so
	// it is never overwritten here.
	if newCfg.Recovery.NextShiftDecay == 0 {
		newCfg.Recovery.NextShiftDecay = def.NextShiftDecay
	}

	return newCfg
}

// Validate returns an error if cfg has invalid field values set. Call it
// after FillDefaults if defaults are intended to be used.
func (cfg Config) Validate() error {
	if cfg.Recovery.DeleteSlot < 0 {
		return fmt.Errorf("recovery: delete_slot must be >= 0, got %d", cfg.Recovery.DeleteSlot)
	}
	if cfg.Recovery.ShiftLimit < 0 {
		return fmt.Errorf("recovery: shift_limit must be >= 0, got %d", cfg.Recovery.ShiftLimit)
	}
	if cfg.Scanner.MaxLexemeLen < 0 {
		return fmt.Errorf("scanner: max_lexeme_len must be >= 0, got %d", cfg.Scanner.MaxLexemeLen)
	}
	return nil
}

// Load reads and decodes a TOML config file at path. A missing file is not
// an error; Default() is returned instead, matching the "optional tuning
// file" framing of §9.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the zero Config filled with §9's recovery constants and
// no scanner cap.
func Default() Config {
	return Config{}.FillDefaults()
}
