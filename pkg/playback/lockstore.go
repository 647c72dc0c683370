// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package playback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

// Lock is the single global record designating which session currently owns
// playback. The record is valid while its holder process is alive or while
// the checking session is the holder itself.
type Lock struct {
	PID        int
	Session    string
	AcquiredAt time.Time
}

// ErrBusy is returned by Acquire when a live, different-session holder wins
// the record. Callers treat it like a wait timeout, not a failure.
var ErrBusy = errors.New("lock held by another session")

// LockStore manages the shared lock record.
type LockStore interface {
	// CheckFree reports whether session may take the lock. A record whose
	// holder process is dead is deleted as a side effect.
	CheckFree(session Session) bool

	// Acquire writes a new record naming session as holder. Returns
	// ErrBusy if a live, different-session holder exists.
	Acquire(session Session) error

	// Release deletes the record if this process's session holds it.
	// Releasing a lock held elsewhere is logged and ignored.
	Release(session Session)
}

// FileLockStore keeps the lock record in a plain text file:
//
//	PID=<holder pid>
//	SESSION=<sanitized session id>
//	TIME=<timestamp>
//
// Any session may read the record; only an acquiring session or the current
// holder writes it. Unreadable or corrupt records are treated as free:
// correctness favors eventually speaking over permanently deadlocking.
type FileLockStore struct {
	path   string
	handle Handle
}

// NewFileLockStore creates a store over the given record path.
func NewFileLockStore(path string, handle Handle) *FileLockStore {
	os.MkdirAll(filepath.Dir(path), 0o755)
	return &FileLockStore{path: path, handle: handle}
}

func (s *FileLockStore) CheckFree(session Session) bool {
	lock, ok := s.read()
	if !ok {
		return true
	}
	if lock.Session == session.Safe {
		return true
	}
	if !s.handle.IsAlive(lock.PID) {
		logger.InfoCF("lock", "stale lock reclaimed", map[string]any{
			"holder_pid":     lock.PID,
			"holder_session": lock.Session,
		})
		os.Remove(s.path)
		return true
	}
	return false
}

// Acquire creates the record with O_EXCL so two sessions that both observed
// "free" cannot both end up believing they hold the lock. On collision the
// staleness check runs once more; a live, different-session incumbent wins.
func (s *FileLockStore) Acquire(session Session) error {
	record := formatLock(Lock{
		PID:        os.Getpid(),
		Session:    session.Safe,
		AcquiredAt: time.Now(),
	})

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.WriteString(record)
			f.Close()
			if werr != nil {
				os.Remove(s.path)
				return fmt.Errorf("write lock record: %w", werr)
			}
			logger.InfoCF("lock", "lock acquired", map[string]any{"session": session.Safe})
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock record: %w", err)
		}

		// A record exists. If it is ours, replace it atomically; if its
		// holder is dead or it is corrupt, CheckFree removes it and we
		// retry the exclusive create.
		if lock, ok := s.read(); ok && lock.Session == session.Safe {
			if err := s.replace(record); err != nil {
				return err
			}
			logger.InfoCF("lock", "lock acquired", map[string]any{"session": session.Safe})
			return nil
		}
		if !s.CheckFree(session) {
			return ErrBusy
		}
	}
	return ErrBusy
}

func (s *FileLockStore) Release(session Session) {
	lock, ok := s.read()
	if !ok {
		return
	}
	if lock.Session != session.Safe {
		logger.InfoCF("lock", "release ignored, not holder", map[string]any{
			"session":        session.Safe,
			"holder_session": lock.Session,
		})
		return
	}
	// Same session, different holder process: a newer utterance of this
	// session has re-acquired; its exit will release.
	if lock.PID != os.Getpid() && s.handle.IsAlive(lock.PID) {
		logger.DebugCF("lock", "release ignored, superseded by newer holder", map[string]any{
			"holder_pid": lock.PID,
		})
		return
	}
	os.Remove(s.path)
	logger.InfoCF("lock", "lock released", map[string]any{"session": session.Safe})
}

// read parses the record. A missing or corrupt file reports not-ok; corrupt
// records are removed so they cannot wedge the protocol.
func (s *FileLockStore) read() (Lock, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Lock{}, false
	}

	lock, err := parseLock(string(data))
	if err != nil {
		logger.WarnCF("lock", "corrupt lock record, treating as free", map[string]any{
			"path": s.path, "error": err.Error(),
		})
		os.Remove(s.path)
		return Lock{}, false
	}
	return lock, true
}

// replace swaps the record atomically via temp file + rename.
func (s *FileLockStore) replace(record string) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(record), 0o644); err != nil {
		return fmt.Errorf("write lock record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace lock record: %w", err)
	}
	return nil
}

func formatLock(lock Lock) string {
	return fmt.Sprintf("PID=%d\nSESSION=%s\nTIME=%s\n",
		lock.PID, lock.Session, lock.AcquiredAt.Format(time.RFC3339))
}

func parseLock(data string) (Lock, error) {
	var lock Lock
	seenPID := false
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "PID":
			pid, err := strconv.Atoi(value)
			if err != nil {
				return Lock{}, fmt.Errorf("invalid PID %q", value)
			}
			lock.PID = pid
			seenPID = true
		case "SESSION":
			lock.Session = value
		case "TIME":
			lock.AcquiredAt, _ = time.Parse(time.RFC3339, value)
		}
	}
	if !seenPID || lock.Session == "" {
		return Lock{}, fmt.Errorf("incomplete lock record")
	}
	return lock, nil
}

// MemoryLockStore is an in-process LockStore for deterministic tests. The
// Alive probe is injectable so staleness scenarios need no real processes.
type MemoryLockStore struct {
	mu    sync.Mutex
	lock  *Lock
	Alive func(pid int) bool
}

func NewMemoryLockStore() *MemoryLockStore {
	return &MemoryLockStore{Alive: processAlive}
}

func (m *MemoryLockStore) CheckFree(session Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lock == nil {
		return true
	}
	if m.lock.Session == session.Safe {
		return true
	}
	if !m.Alive(m.lock.PID) {
		m.lock = nil
		return true
	}
	return false
}

func (m *MemoryLockStore) Acquire(session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lock != nil && m.lock.Session != session.Safe && m.Alive(m.lock.PID) {
		return ErrBusy
	}
	m.lock = &Lock{PID: os.Getpid(), Session: session.Safe, AcquiredAt: time.Now()}
	return nil
}

func (m *MemoryLockStore) Release(session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lock != nil && m.lock.Session == session.Safe {
		m.lock = nil
	}
}

// Holder returns the current record for test assertions.
func (m *MemoryLockStore) Holder() (Lock, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lock == nil {
		return Lock{}, false
	}
	return *m.lock, true
}
