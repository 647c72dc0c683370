package playback

import (
	"os"
	"strings"
	"testing"
)

func TestTracker_RoundTrip(t *testing.T) {
	tr := NewTracker(t.TempDir(), Session{Safe: "s1"})

	if pid := tr.Read(); pid != 0 {
		t.Errorf("expected 0 for missing record, got %d", pid)
	}
	if err := tr.Write(4242); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if pid := tr.Read(); pid != 4242 {
		t.Errorf("expected 4242, got %d", pid)
	}

	tr.Clear()
	if pid := tr.Read(); pid != 0 {
		t.Errorf("expected 0 after Clear, got %d", pid)
	}
	tr.Clear() // idempotent
}

func TestTracker_RecordIsSessionScoped(t *testing.T) {
	dir := t.TempDir()
	a := NewTracker(dir, Session{Safe: "sessionA"})
	b := NewTracker(dir, Session{Safe: "sessionB"})

	if a.Path() == b.Path() {
		t.Fatal("different sessions share a tracked-process record")
	}
	if !strings.Contains(a.Path(), "sessionA") {
		t.Errorf("record path not keyed by session id: %s", a.Path())
	}

	if err := a.Write(100); err != nil {
		t.Fatal(err)
	}
	if err := b.Write(200); err != nil {
		t.Fatal(err)
	}
	if a.Read() != 100 || b.Read() != 200 {
		t.Errorf("records interfere: a=%d b=%d", a.Read(), b.Read())
	}
}

func TestTracker_GarbageRecordReadsZero(t *testing.T) {
	tr := NewTracker(t.TempDir(), Session{Safe: "s1"})
	if err := os.WriteFile(tr.Path(), []byte("not-a-pid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if pid := tr.Read(); pid != 0 {
		t.Errorf("expected 0 for garbage record, got %d", pid)
	}
}
