// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

// Package app wires configuration, logging and the playback stack for the
// CLI commands.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/config"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/history"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/playback"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/redaction"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/summarize"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/textfilter"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/voice"
)

// maxSpeechDuration caps how long the CLI process lingers for the release
// continuation after starting an utterance.
const maxSpeechDuration = 5 * time.Minute

// App is the loaded runtime shared by all commands.
type App struct {
	Cfg   *config.Config
	Paths config.RuntimePaths

	hist *history.Store
}

// Load resolves paths, reads config and initializes logging and redaction.
func Load() (*App, error) {
	paths := config.ResolveRuntimePaths()
	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return nil, err
	}

	redaction.SetDefault(redaction.NewRedactor(cfg.Redaction))

	if err := os.MkdirAll(paths.HomeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create home dir: %w", err)
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = paths.LogPath
	}
	if err := logger.EnableFileLogging(logFile); err != nil {
		logger.WarnCF("app", "file logging unavailable", map[string]any{
			"path": logFile, "error": err.Error(),
		})
	}

	return &App{Cfg: cfg, Paths: paths}, nil
}

// Close releases resources opened during command execution.
func (a *App) Close() {
	if a.hist != nil {
		a.hist.Close()
	}
}

// History opens the utterance history store, caching it for the command's
// lifetime.
func (a *App) History() (*history.Store, error) {
	if a.hist != nil {
		return a.hist, nil
	}
	hist, err := history.Open(a.Paths.HistoryPath, a.Cfg.History.MaxRows)
	if err != nil {
		return nil, err
	}
	a.hist = hist
	return hist, nil
}

// Coordinator builds the playback stack for the calling session.
func (a *App) Coordinator() (*playback.Coordinator, error) {
	if err := os.MkdirAll(a.Paths.HomeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create home dir: %w", err)
	}

	session := playback.Identify()
	handle := playback.OSHandle{}

	var observers []playback.Observer
	if a.Cfg.History.Enabled {
		if hist, err := a.History(); err != nil {
			logger.WarnCF("app", "history unavailable", map[string]any{"error": err.Error()})
		} else {
			observers = append(observers, history.NewObserver(hist))
		}
	}

	return playback.NewCoordinator(playback.Config{
		Session:     session,
		Store:       playback.NewFileLockStore(a.Paths.LockPath, handle),
		Handle:      handle,
		Tracker:     playback.NewTracker(a.Paths.HomeDir, session),
		Engines:     voice.Chain(a.Cfg.Engine.Name, a.Cfg.Engine.BinaryPath),
		GracePeriod: time.Duration(a.Cfg.Playback.GracePeriodMS) * time.Millisecond,
		WaitTimeout: time.Duration(a.Cfg.Playback.WaitTimeoutSeconds) * time.Second,
		Observers:   observers,
	}), nil
}

// Speak runs the notification pipeline: redact, filter, optionally summarize,
// clamp, then hand the text to the exclusive playback coordinator. The
// process lingers until the utterance finishes so the lock release attached
// to the engine's exit can run.
func (a *App) Speak(ctx context.Context, text string, noSummary bool) error {
	if !a.Cfg.Enabled {
		logger.DebugC("app", "notifications disabled, skipping")
		return nil
	}
	if a.Cfg.QuietNow() {
		logger.InfoC("app", "quiet hours active, skipping")
		return nil
	}

	text = textfilter.Clean(redaction.Redact(text))
	if text == "" {
		return nil
	}

	if !noSummary {
		svc, err := summarize.New(summarize.Config{
			Enabled:        a.Cfg.Summarize.Enabled,
			Provider:       a.Cfg.Summarize.Provider,
			Model:          a.Cfg.Summarize.Model,
			APIKey:         a.Cfg.Summarize.APIKey,
			BaseURL:        a.Cfg.Summarize.BaseURL,
			CallsPerMinute: a.Cfg.Summarize.CallsPerMinute,
		})
		if err != nil {
			logger.WarnCF("app", "summarizer unavailable", map[string]any{"error": err.Error()})
		} else {
			text = svc.Condense(ctx, text)
		}
	}
	text = textfilter.Clamp(text, a.Cfg.MaxUtteranceChars)

	coord, err := a.Coordinator()
	if err != nil {
		return err
	}

	res, err := coord.SpeakExclusive(ctx, text, voice.Options{
		Voice: a.Cfg.Engine.Voice,
		Rate:  a.Cfg.Engine.Rate,
	})
	if err != nil {
		return err
	}
	if res == playback.Started {
		coord.WaitForRelease(maxSpeechDuration)
	}
	return nil
}
