// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package doctor

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/playback"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/voice"
)

// NewDoctorCommand builds the diagnostic command: engine availability, lock
// state, tracked process, config location. Running it also reclaims a stale
// lock left by a crashed session.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose engines, lock state and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			session := playback.Identify()
			handle := playback.OSHandle{}

			cmd.Printf("config:   %s\n", a.Paths.ConfigPath)
			cmd.Printf("home:     %s\n", a.Paths.HomeDir)
			cmd.Printf("session:  %s\n", session.Safe)
			cmd.Printf("enabled:  %v\n", a.Cfg.Enabled)
			if a.Cfg.QuietNow() {
				cmd.Println("quiet:    active (notifications muted right now)")
			}

			cmd.Println("\nengines:")
			for _, name := range []string{"say", "espeak", "piper", "vieneu"} {
				binary := ""
				if name == a.Cfg.Engine.Name {
					binary = a.Cfg.Engine.BinaryPath
				}
				engines := voice.Chain(name, binary)
				status := "missing"
				if engines[0].Name() == name && engines[0].Available() {
					status = "available"
				}
				marker := " "
				if name == a.Cfg.Engine.Name {
					marker = "*"
				}
				cmd.Printf("  %s %-8s %s\n", marker, name, status)
			}

			cmd.Println("\nplayback lock:")
			data, err := os.ReadFile(a.Paths.LockPath)
			switch {
			case os.IsNotExist(err):
				cmd.Println("  free (no record)")
			case err != nil:
				cmd.Printf("  unreadable: %v\n", err)
			default:
				for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
					cmd.Printf("  %s\n", line)
				}
				store := playback.NewFileLockStore(a.Paths.LockPath, handle)
				if store.CheckFree(session) {
					cmd.Println("  holder is this session or dead; record reclaimed")
				} else {
					cmd.Println("  held by a live session")
				}
			}

			tracker := playback.NewTracker(a.Paths.HomeDir, session)
			if pid := tracker.Read(); pid > 0 {
				state := "dead"
				if handle.IsAlive(pid) {
					state = "alive"
				}
				cmd.Printf("\ntracked utterance: pid %d (%s)\n", pid, state)
			} else {
				cmd.Println("\ntracked utterance: none")
			}
			return nil
		},
	}
}
