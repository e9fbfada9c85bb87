package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Match: MatchConfig{
			TurnSeconds:               30,
			CombatTurnSeconds:         15,
			CombatTurnSecondsNoEvades: 8,
			GameOverSeconds:           10,
			ActionsPerTurn:            1,
		},
		Virtual: VirtualConfig{
			MinDelay:  500 * time.Millisecond,
			MaxDelay:  2 * time.Second,
			StepDelay: 400 * time.Millisecond,
		},
		Maps: MapsConfig{
			Dir: "content/boards",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
match:
  turn_seconds: 20
  combat_turn_seconds: 12
  combat_turn_seconds_no_evades: 6
  game_over_seconds: 5
  actions_per_turn: 2
virtual:
  min_delay: 250ms
  max_delay: 1s
  step_delay: 300ms
maps:
  dir: testdata/boards
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Match.TurnSeconds)
	assert.Equal(t, 2, cfg.Match.ActionsPerTurn)
	assert.Equal(t, 250*time.Millisecond, cfg.Virtual.MinDelay)
	assert.Equal(t, "testdata/boards", cfg.Maps.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Match.TurnSeconds)
	assert.Equal(t, 15, cfg.Match.CombatTurnSeconds)
	assert.Equal(t, "content/boards", cfg.Maps.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateTurnSeconds(t *testing.T) {
	cfg := validConfig()
	cfg.Match.TurnSeconds = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateCombatSecondsOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Match.CombatTurnSecondsNoEvades = cfg.Match.CombatTurnSeconds + 1
	assert.Error(t, cfg.Validate())
}

func TestValidateActionsPerTurn(t *testing.T) {
	cfg := validConfig()
	cfg.Match.ActionsPerTurn = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateVirtualDelays(t *testing.T) {
	cfg := validConfig()
	cfg.Virtual.MinDelay = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Virtual.MaxDelay = cfg.Virtual.MinDelay - time.Millisecond
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Virtual.StepDelay = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateMapsDirEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Maps.Dir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidTimerDurations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		turn := rapid.IntRange(2, 600).Draw(t, "turn_seconds")
		combat := rapid.IntRange(2, 600).Draw(t, "combat_turn_seconds")
		noEvades := rapid.IntRange(2, combat).Draw(t, "combat_turn_seconds_no_evades")
		cfg := validConfig()
		cfg.Match.TurnSeconds = turn
		cfg.Match.CombatTurnSeconds = combat
		cfg.Match.CombatTurnSecondsNoEvades = noEvades
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid durations turn=%d combat=%d no_evades=%d rejected: %v", turn, combat, noEvades, err)
		}
	})
}

func TestPropertyNoEvadesNeverExceedsCombat(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		combat := rapid.IntRange(2, 100).Draw(t, "combat_turn_seconds")
		noEvades := rapid.IntRange(combat+1, combat+100).Draw(t, "combat_turn_seconds_no_evades")
		cfg := validConfig()
		cfg.Match.CombatTurnSeconds = combat
		cfg.Match.CombatTurnSecondsNoEvades = noEvades
		if cfg.Validate() == nil {
			t.Fatalf("no_evades=%d > combat=%d accepted", noEvades, combat)
		}
	})
}

func TestPropertyDelayOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minMs := rapid.IntRange(0, 5000).Draw(t, "min_delay_ms")
		maxMs := rapid.IntRange(minMs, minMs+5000).Draw(t, "max_delay_ms")
		cfg := validConfig()
		cfg.Virtual.MinDelay = time.Duration(minMs) * time.Millisecond
		cfg.Virtual.MaxDelay = time.Duration(maxMs) * time.Millisecond
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid delays min=%dms max=%dms rejected: %v", minMs, maxMs, err)
		}
	})
}
