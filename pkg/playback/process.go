// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package playback

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

const (
	// DefaultGracePeriod is how long a process gets after SIGTERM before
	// escalation to SIGKILL.
	DefaultGracePeriod = 500 * time.Millisecond

	// terminatePollInterval is how often liveness is re-probed while
	// waiting out the grace period.
	terminatePollInterval = 50 * time.Millisecond
)

// Process is a spawned engine process the caller can wait on.
type Process interface {
	Pid() int
	Wait() error
}

// Handle abstracts OS process control so the coordinator can be tested with
// a fake. The real implementation is OSHandle.
type Handle interface {
	// Spawn starts bin detached in its own process group and returns
	// without waiting. stdin is fed to the process when non-empty.
	Spawn(bin string, args []string, stdin string) (Process, error)

	// IsAlive probes pid with a null signal. Any probe error is reported
	// as not-alive so stale state can always be reclaimed.
	IsAlive(pid int) bool

	// Terminate sends SIGTERM, waits up to grace for the process to die,
	// then SIGKILLs. Terminating a dead or unknown pid is a no-op.
	Terminate(pid int, grace time.Duration)
}

// OSHandle is the real process handle.
type OSHandle struct{}

type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int { return p.cmd.Process.Pid }

func (p *osProcess) Wait() error { return p.cmd.Wait() }

// Spawn starts the engine in its own process group, discarding its output.
// The group makes Terminate reach shell pipelines, not just the leader.
func (h OSHandle) Spawn(bin string, args []string, stdin string) (Process, error) {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", bin, err)
	}
	return &osProcess{cmd: cmd}, nil
}

func (h OSHandle) IsAlive(pid int) bool {
	return processAlive(pid)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence without delivering anything.
	return process.Signal(syscall.Signal(0)) == nil
}

// Terminate escalates SIGTERM to SIGKILL after the grace period. Signals go
// to the process group when one exists, falling back to the single pid.
func (h OSHandle) Terminate(pid int, grace time.Duration) {
	if !h.IsAlive(pid) {
		return
	}
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	logger.InfoCF("playback", "killing pid", map[string]any{"pid": pid})
	signalGroup(pid, syscall.SIGTERM)

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !h.IsAlive(pid) {
			return
		}
		time.Sleep(terminatePollInterval)
	}

	logger.WarnCF("playback", "grace period expired, forcing kill", map[string]any{"pid": pid})
	signalGroup(pid, syscall.SIGKILL)
}

// signalGroup signals the process group led by pid, or just pid when the
// group signal fails (the process may not be a group leader).
func signalGroup(pid int, sig syscall.Signal) {
	if err := syscall.Kill(-pid, sig); err != nil {
		_ = syscall.Kill(pid, sig)
	}
}

// EmergencyStopAll kills every process whose command line matches pattern,
// regardless of owning session. Manual safety net only: it must never be
// called from the per-utterance cancellation path, because it destroys audio
// belonging to unrelated sessions. Returns the number of processes signaled.
func EmergencyStopAll(h Handle, pattern string, grace time.Duration) (int, error) {
	if strings.TrimSpace(pattern) == "" {
		return 0, fmt.Errorf("empty process pattern")
	}

	out, err := exec.Command("pgrep", "-f", pattern).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches.
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return 0, nil
		}
		return 0, fmt.Errorf("pgrep -f %q: %w", pattern, err)
	}

	self := os.Getpid()
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || pid == self {
			continue
		}
		logger.WarnCF("playback", "emergency stop", map[string]any{"pid": pid, "pattern": pattern})
		h.Terminate(pid, grace)
		count++
	}
	return count, nil
}
