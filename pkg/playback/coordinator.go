// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package playback

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/voice"
)

// Result reports what SpeakExclusive did.
type Result int

const (
	// Skipped means no audio was started: empty text, quiet hours at the
	// caller, a wait timeout, or a lost acquire race. Never an error.
	Skipped Result = iota

	// Started means an engine process is producing audio.
	Started
)

func (r Result) String() string {
	if r == Started {
		return "started"
	}
	return "skipped"
}

// ErrNoEngine is returned when every engine in the chain failed to spawn.
var ErrNoEngine = errors.New("no usable TTS engine")

// Utterance describes one started utterance, for observers.
type Utterance struct {
	Session string
	Text    string
	Engine  string
	Voice   string
	PID     int
}

// Observer is notified after an utterance starts. Observers are write-only
// bystanders: they run on their own goroutine and can neither block nor fail
// the coordination path.
type Observer interface {
	UtteranceStarted(u Utterance)
}

// Coordinator is the exclusive-playback entry point for one session.
type Coordinator struct {
	session     Session
	store       LockStore
	handle      Handle
	tracker     *Tracker
	waiter      *Waiter
	engines     []voice.Engine
	grace       time.Duration
	waitTimeout time.Duration
	observers   []Observer

	// superseded is the in-flight utterance's handover flag; setting it
	// (same session, newer utterance) keeps the old release continuation
	// from dropping the lock record the newer utterance now owns.
	superseded *atomic.Bool

	// released is closed once the release continuation for the most
	// recent utterance has run; WaitForRelease lets the CLI process
	// linger until then.
	released chan struct{}
}

// Config wires a Coordinator.
type Config struct {
	Session     Session
	Store       LockStore
	Handle      Handle
	Tracker     *Tracker
	Engines     []voice.Engine
	GracePeriod time.Duration
	WaitTimeout time.Duration
	Observers   []Observer
}

// NewCoordinator creates a coordinator. Zero durations get the defaults.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}
	return &Coordinator{
		session:     cfg.Session,
		store:       cfg.Store,
		handle:      cfg.Handle,
		tracker:     cfg.Tracker,
		waiter:      NewWaiter(cfg.Store),
		engines:     cfg.Engines,
		grace:       cfg.GracePeriod,
		waitTimeout: cfg.WaitTimeout,
		observers:   cfg.Observers,
	}
}

// Session returns the coordinator's session identity.
func (c *Coordinator) Session() Session { return c.session }

// SpeakExclusive speaks text with at-most-one-utterance semantics across all
// sessions on the host. It returns as soon as the engine process is started;
// the lock is released by a continuation when that process exits. A non-nil
// error is only returned when no engine could be spawned at all — every
// other obstacle degrades to Skipped.
func (c *Coordinator) SpeakExclusive(ctx context.Context, text string, opts voice.Options) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Skipped, nil
	}

	if !c.store.CheckFree(c.session) {
		if !c.waiter.WaitUntilFree(ctx, c.session, c.waitTimeout) {
			logger.WarnCF("playback", "timeout waiting for playback lock", map[string]any{
				"session":    c.session.Safe,
				"timeout_ms": c.waitTimeout.Milliseconds(),
			})
			return Skipped, nil
		}
	}

	if err := c.store.Acquire(c.session); err != nil {
		if errors.Is(err, ErrBusy) {
			logger.InfoCF("playback", "lost acquire race, skipping", map[string]any{
				"session": c.session.Safe,
			})
		} else {
			logger.ErrorCF("playback", "failed to acquire lock", map[string]any{
				"error": err.Error(),
			})
		}
		return Skipped, nil
	}

	// Cancel this session's previous utterance only. Cross-session
	// cancellation is exactly the regression this design exists to avoid;
	// the tracker record is session-scoped. The lock stays held by the
	// session across the handover: marking the previous utterance
	// superseded keeps its release continuation from dropping the record
	// this call now owns.
	if prev := c.superseded; prev != nil {
		prev.Store(true)
	}
	if prevPid := c.tracker.Read(); prevPid > 0 {
		c.handle.Terminate(prevPid, c.grace)
		c.tracker.Clear()
	}

	proc, engine, err := c.spawn(text, opts)
	if err != nil {
		c.store.Release(c.session)
		return Skipped, err
	}

	if err := c.tracker.Write(proc.Pid()); err != nil {
		logger.WarnCF("playback", "failed to record tracked pid", map[string]any{
			"pid": proc.Pid(), "error": err.Error(),
		})
	}

	logger.InfoCF("playback", "utterance started", map[string]any{
		"session": c.session.Safe,
		"engine":  engine.Name(),
		"pid":     proc.Pid(),
		"chars":   len(text),
	})

	superseded := new(atomic.Bool)
	c.superseded = superseded
	released := make(chan struct{})
	c.released = released
	go func() {
		defer close(released)
		_ = proc.Wait()
		if superseded.Load() {
			return
		}
		c.store.Release(c.session)
	}()

	c.notify(Utterance{
		Session: c.session.Safe,
		Text:    text,
		Engine:  engine.Name(),
		Voice:   opts.Voice,
		PID:     proc.Pid(),
	})

	return Started, nil
}

// spawn tries the engine chain in order: configured engine first, platform
// default as fallback. An unavailable or unspawnable primary is a warning,
// not an error.
func (c *Coordinator) spawn(text string, opts voice.Options) (Process, voice.Engine, error) {
	for _, engine := range c.engines {
		if !engine.Available() {
			logger.DebugCF("playback", "engine unavailable", map[string]any{
				"engine": engine.Name(),
			})
			continue
		}
		inv := engine.Invocation(text, opts)
		proc, err := c.handle.Spawn(inv.Bin, inv.Args, inv.Stdin)
		if err != nil {
			logger.WarnCF("playback", "engine failed to start, trying fallback", map[string]any{
				"engine": engine.Name(), "error": err.Error(),
			})
			continue
		}
		return proc, engine, nil
	}
	return nil, nil, ErrNoEngine
}

// StopCurrent terminates this session's tracked utterance, if any. Used by
// the stop command; other sessions' audio is never touched.
func (c *Coordinator) StopCurrent() bool {
	pid := c.tracker.Read()
	if pid <= 0 || !c.handle.IsAlive(pid) {
		c.tracker.Clear()
		return false
	}
	c.handle.Terminate(pid, c.grace)
	c.tracker.Clear()
	return true
}

// WaitForRelease blocks until the release continuation of the most recent
// SpeakExclusive call has run, or timeout elapses. The CLI process calls
// this so the lock is reliably released even though SpeakExclusive itself
// returns immediately.
func (c *Coordinator) WaitForRelease(timeout time.Duration) {
	if c.released == nil {
		return
	}
	select {
	case <-c.released:
	case <-time.After(timeout):
	}
}

func (c *Coordinator) notify(u Utterance) {
	for _, obs := range c.observers {
		go obs.UtteranceStarted(u)
	}
}
