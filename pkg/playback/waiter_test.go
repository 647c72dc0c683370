package playback

import (
	"context"
	"testing"
	"time"
)

func TestWaiter_FreeImmediately(t *testing.T) {
	store := NewMemoryLockStore()
	w := NewWaiter(store)

	start := time.Now()
	ok := w.WaitUntilFree(context.Background(), Session{Safe: "s1"}, time.Second)
	if !ok {
		t.Fatal("expected success on a free lock")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("free lock took %v to observe", elapsed)
	}
}

func TestWaiter_TimeoutBound(t *testing.T) {
	store := NewMemoryLockStore()
	store.Alive = func(int) bool { return true }
	if err := store.Acquire(Session{Safe: "holder"}); err != nil {
		t.Fatal(err)
	}

	w := NewWaiter(store)
	w.poll = 20 * time.Millisecond
	timeout := 200 * time.Millisecond

	start := time.Now()
	ok := w.WaitUntilFree(context.Background(), Session{Safe: "s2"}, timeout)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("expected timeout against a live holder")
	}
	// Must return no later than timeout plus one poll interval.
	if elapsed > timeout+3*w.poll {
		t.Errorf("wait overran its bound: %v", elapsed)
	}
}

func TestWaiter_SucceedsWhenLockFrees(t *testing.T) {
	store := NewMemoryLockStore()
	store.Alive = func(int) bool { return true }
	holder := Session{Safe: "holder"}
	if err := store.Acquire(holder); err != nil {
		t.Fatal(err)
	}

	w := NewWaiter(store)
	w.poll = 10 * time.Millisecond

	go func() {
		time.Sleep(50 * time.Millisecond)
		store.Release(holder)
	}()

	if ok := w.WaitUntilFree(context.Background(), Session{Safe: "s2"}, time.Second); !ok {
		t.Error("expected to observe the release before timeout")
	}
}

func TestWaiter_ContextCancel(t *testing.T) {
	store := NewMemoryLockStore()
	store.Alive = func(int) bool { return true }
	if err := store.Acquire(Session{Safe: "holder"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWaiter(store)
	w.poll = 10 * time.Millisecond

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	if ok := w.WaitUntilFree(ctx, Session{Safe: "s2"}, 10*time.Second); ok {
		t.Fatal("expected failure on cancellation")
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation did not interrupt the wait")
	}
}
