package config

import "github.com/AskTinNguyen/claude-auto-speak/pkg/redaction"

// DefaultConfig returns the default configuration for autospeak.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Engine: EngineConfig{
			Name:  "", // platform default: say on macOS, espeak elsewhere
			Voice: "",
			Rate:  0,
		},
		Playback: PlaybackConfig{
			WaitTimeoutSeconds: 15,
			GracePeriodMS:      500,
		},
		Summarize: SummarizeConfig{
			Enabled:        false,
			Provider:       "anthropic",
			Model:          "",
			CallsPerMinute: 10,
		},
		History: HistoryConfig{
			Enabled: true,
			MaxRows: 1000,
		},
		Redaction:         redaction.DefaultConfig(),
		MaxUtteranceChars: 400,
	}
}
