// Package config provides Viper-based configuration loading for the match server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MatchConfig holds turn and combat pacing settings.
type MatchConfig struct {
	// TurnSeconds is the per-turn countdown in whole seconds.
	TurnSeconds int `mapstructure:"turn_seconds"`
	// CombatTurnSeconds is the per-combat-round countdown in whole seconds.
	CombatTurnSeconds int `mapstructure:"combat_turn_seconds"`
	// CombatTurnSecondsNoEvades is the shorter per-round countdown once
	// the active combatant has no evade attempts left.
	CombatTurnSecondsNoEvades int `mapstructure:"combat_turn_seconds_no_evades"`
	// GameOverSeconds is the delay before a finished match is torn down.
	GameOverSeconds int `mapstructure:"game_over_seconds"`
	// ActionsPerTurn is the action budget granted at each turn start.
	ActionsPerTurn int `mapstructure:"actions_per_turn"`
}

// VirtualConfig holds virtual-player pacing settings.
type VirtualConfig struct {
	// MinDelay and MaxDelay bound the uniform thinking pause before a
	// virtual player's first decision of a turn.
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// StepDelay is the fixed pause between a virtual player's
	// consecutive decisions.
	StepDelay time.Duration `mapstructure:"step_delay"`
}

// MapsConfig holds board content settings.
type MapsConfig struct {
	// Dir is the directory holding board YAML files.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Match   MatchConfig   `mapstructure:"match"`
	Virtual VirtualConfig `mapstructure:"virtual"`
	Maps    MapsConfig    `mapstructure:"maps"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateMatch(c.Match); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateVirtual(c.Virtual); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Maps.Dir == "" {
		errs = append(errs, "maps.dir must not be empty")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	if m.TurnSeconds < 2 {
		errs = append(errs, fmt.Sprintf("match.turn_seconds must be >= 2, got %d", m.TurnSeconds))
	}
	if m.CombatTurnSeconds < 2 {
		errs = append(errs, fmt.Sprintf("match.combat_turn_seconds must be >= 2, got %d", m.CombatTurnSeconds))
	}
	if m.CombatTurnSecondsNoEvades < 2 {
		errs = append(errs, fmt.Sprintf("match.combat_turn_seconds_no_evades must be >= 2, got %d", m.CombatTurnSecondsNoEvades))
	}
	if m.CombatTurnSecondsNoEvades > m.CombatTurnSeconds {
		errs = append(errs, "match.combat_turn_seconds_no_evades must not exceed match.combat_turn_seconds")
	}
	if m.GameOverSeconds < 1 {
		errs = append(errs, fmt.Sprintf("match.game_over_seconds must be >= 1, got %d", m.GameOverSeconds))
	}
	if m.ActionsPerTurn < 1 {
		errs = append(errs, fmt.Sprintf("match.actions_per_turn must be >= 1, got %d", m.ActionsPerTurn))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateVirtual(v VirtualConfig) error {
	var errs []string
	if v.MinDelay < 0 {
		errs = append(errs, "virtual.min_delay must not be negative")
	}
	if v.MaxDelay < v.MinDelay {
		errs = append(errs, "virtual.max_delay must not be less than virtual.min_delay")
	}
	if v.StepDelay <= 0 {
		errs = append(errs, "virtual.step_delay must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
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

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("match.turn_seconds", 30)
	v.SetDefault("match.combat_turn_seconds", 15)
	v.SetDefault("match.combat_turn_seconds_no_evades", 8)
	v.SetDefault("match.game_over_seconds", 10)
	v.SetDefault("match.actions_per_turn", 1)

	v.SetDefault("virtual.min_delay", "500ms")
	v.SetDefault("virtual.max_delay", "2s")
	v.SetDefault("virtual.step_delay", "400ms")

	v.SetDefault("maps.dir", "content/boards")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
