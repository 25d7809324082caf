// Package config provides Viper-based configuration loading for the skirmish engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Dice source names accepted by DiceConfig.Source.
const (
	DiceSourceCrypto = "crypto"
	DiceSourceSeeded = "seeded"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RulesConfig holds tunable rule settings.
type RulesConfig struct {
	// CriticalThreshold is the lowest natural d20 face that is a critical hit.
	CriticalThreshold int `mapstructure:"critical_threshold"`
	// CriticalScript is an optional Lua file defining is_critical(face, sides).
	// When set it replaces the threshold predicate.
	CriticalScript string `mapstructure:"critical_script"`
	// ScriptInstructionLimit caps Lua opcodes per predicate call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// ContentConfig holds the YAML content directories. An empty path disables
// that loader.
type ContentConfig struct {
	WeaponsDir   string `mapstructure:"weapons_dir"`
	SpellsDir    string `mapstructure:"spells_dir"`
	FactionsDir  string `mapstructure:"factions_dir"`
	CreaturesDir string `mapstructure:"creatures_dir"`
}

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Source is "crypto" or "seeded".
	Source string `mapstructure:"source"`
	// Seed is used only when Source is "seeded".
	Seed int64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Content ContentConfig `mapstructure:"content"`
	Dice    DiceConfig    `mapstructure:"dice"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error wrapping
// rules.ErrValidation that describes all violations.
func (c Config) Validate() error {
	var errs []string
	errs = append(errs, validateLogging(c.Logging)...)
	errs = append(errs, validateRules(c.Rules)...)
	errs = append(errs, validateDice(c.Dice)...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s: %w", strings.Join(errs, "; "), rules.ErrValidation)
	}
	return nil
}

func validateLogging(l LoggingConfig) []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errs
}

func validateRules(r RulesConfig) []string {
	var errs []string
	if r.CriticalThreshold < 2 || r.CriticalThreshold > 20 {
		errs = append(errs, fmt.Sprintf("rules.critical_threshold must be 2-20, got %d", r.CriticalThreshold))
	}
	if r.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("rules.script_instruction_limit must be >= 0, got %d", r.ScriptInstructionLimit))
	}
	return errs
}

func validateDice(d DiceConfig) []string {
	switch d.Source {
	case DiceSourceCrypto, DiceSourceSeeded:
		return nil
	default:
		return []string{fmt.Sprintf("dice.source must be one of [crypto, seeded], got %q", d.Source)}
	}
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rules.critical_threshold", 20)
	v.SetDefault("rules.critical_script", "")
	v.SetDefault("rules.script_instruction_limit", 0)

	v.SetDefault("content.weapons_dir", "")
	v.SetDefault("content.spells_dir", "")
	v.SetDefault("content.factions_dir", "")
	v.SetDefault("content.creatures_dir", "")

	v.SetDefault("dice.source", DiceSourceCrypto)
	v.SetDefault("dice.seed", 0)
}
