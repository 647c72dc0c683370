package playback

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestIdentify_TerminalSessionPriority(t *testing.T) {
	t.Setenv("TERM_SESSION_ID", "w0t1p0:6B4E1C22-8A3B-4F21-9D2C-0A1B2C3D4E5F")
	t.Setenv("ITERM_SESSION_ID", "should-not-win")
	t.Setenv("WINDOWID", "12345678")

	s := Identify()
	if !strings.Contains(s.Raw, "6B4E1C22") {
		t.Errorf("expected terminal session id to win, got %q", s.Raw)
	}
	if strings.ContainsAny(s.Safe, ":. ") {
		t.Errorf("safe id contains unsafe characters: %q", s.Safe)
	}
}

func TestIdentify_WindowIDFallback(t *testing.T) {
	t.Setenv("TERM_SESSION_ID", "")
	t.Setenv("ITERM_SESSION_ID", "")
	t.Setenv("WINDOWID", "8830452")

	s := Identify()
	if s.Raw != "8830452" {
		t.Errorf("expected window id, got %q", s.Raw)
	}
	if s.Safe != "8830452" {
		t.Errorf("expected safe id 8830452, got %q", s.Safe)
	}
}

func TestIdentify_ParentPidFallback(t *testing.T) {
	t.Setenv("TERM_SESSION_ID", "")
	t.Setenv("ITERM_SESSION_ID", "")
	t.Setenv("WINDOWID", "")

	s := Identify()
	want := fmt.Sprintf("session-%d", os.Getppid())
	if s.Raw != want {
		t.Errorf("expected %q, got %q", want, s.Raw)
	}
	if s.Safe != want {
		t.Errorf("expected safe %q, got %q", want, s.Safe)
	}
}

func TestIdentify_SanitizationNeverEmpty(t *testing.T) {
	// A raw id made entirely of stripped characters must fall back to a
	// pid-based id, never an empty filesystem key.
	t.Setenv("TERM_SESSION_ID", "::://///:::")

	s := Identify()
	if s.Safe == "" {
		t.Fatal("safe id is empty")
	}
	if s.Safe != fmt.Sprintf("pid-%d", os.Getpid()) {
		t.Errorf("expected pid fallback, got %q", s.Safe)
	}
}

func TestIdentify_Deterministic(t *testing.T) {
	t.Setenv("TERM_SESSION_ID", "tab-7")

	a := Identify()
	b := Identify()
	if a != b {
		t.Errorf("Identify not stable within one process: %v vs %v", a, b)
	}
}
