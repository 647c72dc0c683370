package playback

import (
	"context"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

const (
	// PollInterval is how often the waiter re-checks the lock.
	PollInterval = 300 * time.Millisecond

	// ProgressInterval is how often a waiting notice is logged.
	ProgressInterval = 3 * time.Second

	// DefaultWaitTimeout bounds how long a caller waits for another
	// session's utterance before giving up.
	DefaultWaitTimeout = 15 * time.Second
)

// Waiter blocks the calling process until the lock becomes available or a
// timeout elapses. Cooperative polling is deliberate: contention is rare and
// short-lived, and plain files need no IPC primitives.
type Waiter struct {
	store    LockStore
	poll     time.Duration
	progress time.Duration
}

// NewWaiter creates a waiter over store with the default intervals.
func NewWaiter(store LockStore) *Waiter {
	return &Waiter{store: store, poll: PollInterval, progress: ProgressInterval}
}

// WaitUntilFree polls until the lock is free (true) or timeout elapses
// (false). Context cancellation counts as a timeout.
func (w *Waiter) WaitUntilFree(ctx context.Context, session Session, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	deadline := time.Now().Add(timeout)
	lastProgress := time.Now()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		if w.store.CheckFree(session) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		if time.Since(lastProgress) >= w.progress {
			logger.InfoCF("lock", "waiting for playback lock", map[string]any{
				"session":      session.Safe,
				"remaining_ms": time.Until(deadline).Milliseconds(),
			})
			lastProgress = time.Now()
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
