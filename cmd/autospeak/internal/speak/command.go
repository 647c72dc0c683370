// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package speak

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
)

const maxStdinBytes = 1 << 20

// NewSpeakCommand builds the direct speak entry point.
func NewSpeakCommand() *cobra.Command {
	var (
		engineName string
		voiceName  string
		rateWPM    int
		noSummary  bool
	)

	cmd := &cobra.Command{
		Use:   "speak [text...]",
		Short: "Speak text aloud, one utterance at a time across all sessions",
		Long: "Speaks the given text (or stdin when no argument is given) through\n" +
			"the configured TTS engine. Playback is coordinated host-wide: if\n" +
			"another terminal session is already speaking, this call waits its\n" +
			"turn or skips.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			if engineName != "" {
				a.Cfg.Engine.Name = engineName
			}
			if voiceName != "" {
				a.Cfg.Engine.Voice = voiceName
			}
			if rateWPM > 0 {
				a.Cfg.Engine.Rate = rateWPM
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinBytes))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			return a.Speak(cmd.Context(), text, noSummary)
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", "", "TTS engine: say, espeak, piper, vieneu")
	cmd.Flags().StringVar(&voiceName, "voice", "", "voice name or model path for the engine")
	cmd.Flags().IntVar(&rateWPM, "rate", 0, "speech rate in words per minute")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "skip LLM summarization even when enabled")
	return cmd
}
