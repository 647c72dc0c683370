// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

// Package summarize condenses long agent output into a sentence or two of
// speakable text via an LLM. It is strictly optional: rate limits, API
// failures and missing configuration all degrade to the input text, and the
// playback path is never blocked on a network call for long.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

const speechPrompt = "Summarize the following coding-agent output so it can be " +
	"read aloud by text-to-speech. At most two short sentences. Plain words " +
	"only: no markdown, no code, no URLs."

const requestTimeout = 10 * time.Second

// Summarizer condenses text for speech.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config selects and keys a provider.
type Config struct {
	Enabled        bool
	Provider       string // "anthropic" or "openai"
	Model          string
	APIKey         string
	BaseURL        string
	CallsPerMinute int
}

// Service wraps a provider with a rate limiter and degrade-to-input
// semantics. A nil *Service is valid and passes text through.
type Service struct {
	provider Summarizer
	limiter  *rate.Limiter
}

// New builds a Service from config. Disabled or misconfigured summarization
// yields nil, which Condense treats as pass-through.
func New(cfg Config) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewService(provider, cfg.CallsPerMinute), nil
}

// NewService wraps an existing provider. callsPerMinute <= 0 disables the
// limiter.
func NewService(provider Summarizer, callsPerMinute int) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if callsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), callsPerMinute)
	}
	return &Service{provider: provider, limiter: limiter}
}

func newProvider(cfg Config) (Summarizer, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicSummarizer(cfg), nil
	case "openai":
		return newOpenAISummarizer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown summarize provider %q", cfg.Provider)
	}
}

// Condense returns a spoken-length summary of text, or text itself whenever
// summarization is unavailable. It never returns an error: a notification
// that arrives verbose beats one that never arrives.
func (s *Service) Condense(ctx context.Context, text string) string {
	if s == nil || s.provider == nil {
		return text
	}
	if !s.limiter.Allow() {
		logger.DebugC("summarize", "rate limited, speaking unsummarized text")
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	summary, err := s.provider.Summarize(ctx, text)
	if err != nil {
		logger.WarnCF("summarize", "summarization failed, speaking unsummarized text", map[string]any{
			"error": err.Error(),
		})
		return text
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return text
	}
	return summary
}
