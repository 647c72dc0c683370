package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adhocore/gronx"
	"github.com/caarlos0/env/v11"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/redaction"
)

// EngineConfig selects and tunes the TTS engine.
type EngineConfig struct {
	// Name is the engine identifier: "say", "espeak", "piper" or "vieneu".
	// Empty means pick the platform default.
	Name string `json:"name" label:"Engine" env:"AUTOSPEAK_ENGINE"`

	// Voice is passed through to the engine (say voice name, espeak voice,
	// piper model path, vieneu cloned-voice name).
	Voice string `json:"voice" label:"Voice" env:"AUTOSPEAK_VOICE"`

	// Rate is words per minute; 0 means engine default.
	Rate int `json:"rate" label:"Rate" env:"AUTOSPEAK_RATE"`

	// BinaryPath overrides binary lookup for the selected engine.
	BinaryPath string `json:"binary_path,omitempty" label:"Binary Path" env:"AUTOSPEAK_ENGINE_BINARY"`
}

// PlaybackConfig tunes the exclusive playback coordinator.
type PlaybackConfig struct {
	// WaitTimeoutSeconds is how long a caller waits for another session's
	// utterance to finish before giving up.
	WaitTimeoutSeconds int `json:"wait_timeout_seconds" label:"Wait Timeout (s)" env:"AUTOSPEAK_WAIT_TIMEOUT"`

	// GracePeriodMS is how long a superseded utterance gets to exit after
	// SIGTERM before it is killed.
	GracePeriodMS int `json:"grace_period_ms" label:"Grace Period (ms)" env:"AUTOSPEAK_GRACE_PERIOD_MS"`
}

// SummarizeConfig controls the optional LLM summarization step.
type SummarizeConfig struct {
	Enabled  bool   `json:"enabled" label:"Enabled" env:"AUTOSPEAK_SUMMARIZE_ENABLED"`
	Provider string `json:"provider" label:"Provider" env:"AUTOSPEAK_SUMMARIZE_PROVIDER"` // "anthropic" or "openai"
	Model    string `json:"model" label:"Model" env:"AUTOSPEAK_SUMMARIZE_MODEL"`
	APIKey   string `json:"api_key" label:"API Key" env:"AUTOSPEAK_SUMMARIZE_API_KEY"`
	BaseURL  string `json:"base_url" label:"Base URL" env:"AUTOSPEAK_SUMMARIZE_BASE_URL"`

	// CallsPerMinute caps LLM requests so a burst of hook events cannot
	// spam the API. 0 means unlimited.
	CallsPerMinute int `json:"calls_per_minute" label:"Calls Per Minute" env:"AUTOSPEAK_SUMMARIZE_CALLS_PER_MINUTE"`
}

// HistoryConfig controls the spoken-utterance history store.
type HistoryConfig struct {
	Enabled bool `json:"enabled" label:"Enabled" env:"AUTOSPEAK_HISTORY_ENABLED"`
	MaxRows int  `json:"max_rows" label:"Max Rows" env:"AUTOSPEAK_HISTORY_MAX_ROWS"`
}

// Config is the root configuration, stored as JSON at
// ~/.claude-auto-speak/config.json with AUTOSPEAK_* env overrides.
type Config struct {
	Enabled   bool             `json:"enabled" label:"Enabled" env:"AUTOSPEAK_ENABLED"`
	Engine    EngineConfig     `json:"engine" label:"Engine"`
	Playback  PlaybackConfig   `json:"playback" label:"Playback"`
	Summarize SummarizeConfig  `json:"summarize" label:"Summarization"`
	History   HistoryConfig    `json:"history" label:"History"`
	Redaction redaction.Config `json:"redaction" label:"Redaction"`

	// QuietHours is a list of cron expressions; while any matches the
	// current minute, notifications are muted.
	QuietHours []string `json:"quiet_hours,omitempty" label:"Quiet Hours" env:"AUTOSPEAK_QUIET_HOURS" envSeparator:";"`

	// MaxUtteranceChars clamps the text handed to the engine.
	MaxUtteranceChars int `json:"max_utterance_chars" label:"Max Utterance Chars" env:"AUTOSPEAK_MAX_UTTERANCE_CHARS"`

	// LogFile enables JSON file logging when set.
	LogFile string `json:"log_file,omitempty" label:"Log File" env:"AUTOSPEAK_LOG_FILE"`
}

// Load reads the config file, fills in defaults for a missing file, applies
// env overrides and validates. A corrupt file is an error; a missing one is
// not.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run, defaults apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints, notably quiet-hours cron syntax.
func (c *Config) Validate() error {
	g := gronx.New()
	for _, expr := range c.QuietHours {
		if !g.IsValid(expr) {
			return fmt.Errorf("invalid quiet_hours cron expression: %q", expr)
		}
	}
	switch c.Summarize.Provider {
	case "", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown summarize provider: %q", c.Summarize.Provider)
	}
	if c.Playback.WaitTimeoutSeconds < 0 || c.Playback.GracePeriodMS < 0 {
		return fmt.Errorf("playback timeouts must be non-negative")
	}
	return nil
}

// Save writes the config atomically (temp file + rename, same pattern as the
// state and lock records) so a crash mid-write never corrupts it.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// QuietNow reports whether the current time falls inside any quiet-hours
// schedule. Invalid expressions were rejected at load time; an evaluation
// error here fails open (not quiet) so a bad schedule cannot mute forever.
func (c *Config) QuietNow() bool {
	g := gronx.New()
	for _, expr := range c.QuietHours {
		if due, err := g.IsDue(expr); err == nil && due {
			return true
		}
	}
	return false
}
