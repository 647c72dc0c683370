package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/voice"
)

// fakeHandle is an in-memory Handle for coordinator and lock store tests.
// Liveness is a map, spawns are scripted, terminations are recorded.
type fakeHandle struct {
	mu         sync.Mutex
	alive      map[int]bool
	nextPid    int
	spawned    []fakeSpawn
	terminated []int
	failSpawn  bool
	procs      map[int]*fakeProcess
}

type fakeSpawn struct {
	bin   string
	args  []string
	stdin string
	pid   int
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		alive:   make(map[int]bool),
		procs:   make(map[int]*fakeProcess),
		nextPid: 10000,
	}
}

type fakeProcess struct {
	pid  int
	done chan struct{}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (h *fakeHandle) Spawn(bin string, args []string, stdin string) (Process, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failSpawn {
		return nil, errors.New("spawn refused")
	}
	h.nextPid++
	pid := h.nextPid
	h.alive[pid] = true
	proc := &fakeProcess{pid: pid, done: make(chan struct{})}
	h.procs[pid] = proc
	h.spawned = append(h.spawned, fakeSpawn{bin: bin, args: args, stdin: stdin, pid: pid})
	return proc, nil
}

func (h *fakeHandle) IsAlive(pid int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive[pid]
}

func (h *fakeHandle) Terminate(pid int, grace time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.terminated = append(h.terminated, pid)
	if !h.alive[pid] {
		return
	}
	h.alive[pid] = false
	if proc, ok := h.procs[pid]; ok {
		close(proc.done)
		delete(h.procs, pid)
	}
}

// exit simulates the process finishing on its own.
func (h *fakeHandle) exit(pid int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive[pid] {
		return
	}
	h.alive[pid] = false
	if proc, ok := h.procs[pid]; ok {
		close(proc.done)
		delete(h.procs, pid)
	}
}

func (h *fakeHandle) lastSpawn() (fakeSpawn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.spawned) == 0 {
		return fakeSpawn{}, false
	}
	return h.spawned[len(h.spawned)-1], true
}

func (h *fakeHandle) terminatedPids() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int, len(h.terminated))
	copy(out, h.terminated)
	return out
}

// fakeEngine is a scriptable voice.Engine.
type fakeEngine struct {
	name      string
	available bool
}

func (e *fakeEngine) Name() string    { return e.name }
func (e *fakeEngine) Available() bool { return e.available }

func (e *fakeEngine) Invocation(text string, opts voice.Options) voice.Invocation {
	return voice.Invocation{Bin: "fake-" + e.name, Args: []string{"--speak"}, Stdin: text}
}
