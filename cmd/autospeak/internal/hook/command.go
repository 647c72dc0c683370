// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package hook

import (
	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/hooks"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

// NewHookCommand builds the agent hook entry point. Claude Code invokes it
// with a JSON event on stdin; it must always exit 0 so a speech problem can
// never fail the agent's hook chain.
func NewHookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Consume a Claude Code hook event from stdin and speak it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				logger.ErrorCF("hook", "startup failed", map[string]any{"error": err.Error()})
				return nil
			}
			defer a.Close()

			ev := hooks.Parse(cmd.InOrStdin())
			text := ev.UtteranceText()
			if text == "" {
				logger.DebugCF("hook", "nothing to speak", map[string]any{
					"event": ev.HookEventName,
				})
				return nil
			}

			if err := a.Speak(cmd.Context(), text, false); err != nil {
				logger.ErrorCF("hook", "speak failed", map[string]any{"error": err.Error()})
			}
			return nil
		},
	}
}
