// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package stop

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/playback"
)

// enginePattern matches the TTS engine processes autospeak spawns. Used only
// by --all, which kills matching processes across every session.
const enginePattern = `(^|/)(say|espeak|espeak-ng|piper|afplay|aplay|play)( |$)`

// NewStopCommand cancels playback.
func NewStopCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop this session's current utterance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			grace := time.Duration(a.Cfg.Playback.GracePeriodMS) * time.Millisecond

			if all {
				cmd.Println("warning: stopping ALL speech processes, including other sessions'")
				count, err := playback.EmergencyStopAll(playback.OSHandle{}, enginePattern, grace)
				if err != nil {
					return err
				}
				cmd.Printf("stopped %d process(es)\n", count)
				return nil
			}

			coord, err := a.Coordinator()
			if err != nil {
				return err
			}
			if coord.StopCurrent() {
				cmd.Println("stopped")
			} else {
				cmd.Println("nothing playing in this session")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "stop every speech process on the host, not just this session's")
	return cmd
}
