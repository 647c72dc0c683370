package playback

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Session identifies one logical caller lineage, typically a terminal tab.
// Raw is the best-effort identifier; Safe is Raw reduced to a filesystem-safe
// subset and is the value used in lock and tracked-process records.
type Session struct {
	Raw  string
	Safe string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Identify derives the calling process's session identity. It consults, in
// order: the terminal session id, the window id, and finally the parent
// process id. It never fails; a session id that sanitizes to nothing falls
// back to the current pid.
func Identify() Session {
	raw := firstNonEmpty(
		os.Getenv("TERM_SESSION_ID"),
		os.Getenv("ITERM_SESSION_ID"),
		os.Getenv("WINDOWID"),
	)
	if raw == "" {
		raw = fmt.Sprintf("session-%d", os.Getppid())
	}

	safe := unsafeChars.ReplaceAllString(raw, "")
	if safe == "" {
		safe = fmt.Sprintf("pid-%d", os.Getpid())
	}
	return Session{Raw: raw, Safe: safe}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
