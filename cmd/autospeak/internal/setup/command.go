// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package setup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/voice"
)

// NewSetupCommand builds the interactive configuration wizard.
func NewSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive wizard: pick an engine and voice, test, save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()
			return runWizard(cmd, a)
		},
	}
}

func runWizard(cmd *cobra.Command, a *app.App) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return fmt.Errorf("initialize prompt: %w", err)
	}
	defer rl.Close()

	cmd.Println("autospeak setup")
	cmd.Println()

	available := detectEngines()
	if len(available) == 0 {
		cmd.Println("No TTS engine found. Install one of: say (macOS), espeak-ng, piper, vieneu.")
		return fmt.Errorf("no TTS engine available")
	}

	cmd.Println("Available engines:")
	for i, name := range available {
		cmd.Printf("  %d) %s\n", i+1, name)
	}
	choice, err := prompt(rl, fmt.Sprintf("Engine [1-%d]", len(available)), "1")
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(available) {
		return fmt.Errorf("invalid engine choice: %q", choice)
	}
	a.Cfg.Engine.Name = available[idx-1]

	voiceName, err := prompt(rl, "Voice (empty for engine default)", a.Cfg.Engine.Voice)
	if err != nil {
		return err
	}
	a.Cfg.Engine.Voice = voiceName

	rateRaw, err := prompt(rl, "Rate in words per minute (0 for default)", strconv.Itoa(a.Cfg.Engine.Rate))
	if err != nil {
		return err
	}
	if rate, err := strconv.Atoi(rateRaw); err == nil && rate >= 0 {
		a.Cfg.Engine.Rate = rate
	}

	test, err := prompt(rl, "Speak a test utterance now? [y/N]", "n")
	if err != nil {
		return err
	}
	if strings.EqualFold(test, "y") || strings.EqualFold(test, "yes") {
		if err := a.Speak(cmd.Context(), "Autospeak is configured and working.", true); err != nil {
			cmd.Printf("test utterance failed: %v\n", err)
		}
	}

	if err := a.Cfg.Save(a.Paths.ConfigPath); err != nil {
		return err
	}
	cmd.Printf("\nSaved %s\n", a.Paths.ConfigPath)
	return nil
}

// detectEngines returns the engines whose binaries are present, in
// preference order.
func detectEngines() []string {
	var found []string
	for _, name := range []string{"say", "espeak", "piper", "vieneu"} {
		engines := voice.Chain(name, "")
		if engines[0].Name() == name && engines[0].Available() {
			found = append(found, name)
		}
	}
	return found
}

func prompt(rl *readline.Instance, label, defaultValue string) (string, error) {
	if defaultValue != "" {
		rl.SetPrompt(fmt.Sprintf("%s [%s]: ", label, defaultValue))
	} else {
		rl.SetPrompt(label + ": ")
	}
	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", fmt.Errorf("setup cancelled")
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}
