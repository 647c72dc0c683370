package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Tracker persists the most recent TTS process pid for one session. The
// record file is keyed by the sanitized session id and is only ever written
// by its own session; that scoping is what keeps cancellation from ever
// touching another session's audio.
type Tracker struct {
	path string
}

// NewTracker returns the tracker for session, storing its record under dir.
func NewTracker(dir string, session Session) *Tracker {
	os.MkdirAll(dir, 0o755)
	return &Tracker{path: filepath.Join(dir, "tts-"+session.Safe+".pid")}
}

// Path returns the record file path.
func (t *Tracker) Path() string { return t.path }

// Read returns the tracked pid, or 0 when there is none or the record is
// unreadable.
func (t *Tracker) Read() int {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// Write records pid atomically (temp file + rename).
func (t *Tracker) Write(pid int) error {
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write tracked pid: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace tracked pid: %w", err)
	}
	return nil
}

// Clear removes the record. Safe to call when no record exists.
func (t *Tracker) Clear() {
	_ = os.Remove(t.path)
}

// String implements fmt.Stringer for log fields.
func (t *Tracker) String() string {
	return fmt.Sprintf("tracker(%s)", t.path)
}
