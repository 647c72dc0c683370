// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/configcmd"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/doctor"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/historycmd"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/hook"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/setup"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/speak"
	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/stop"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
)

// formatVersion returns the version string with optional git commit.
func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("autospeak %s\n", formatVersion())
			if buildTime != "" {
				cmd.Printf("  Build: %s\n", buildTime)
			}
			cmd.Printf("  Go: %s\n", runtime.Version())
		},
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "autospeak",
		Short:         "Voice notifications for Claude Code, one utterance at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		speak.NewSpeakCommand(),
		hook.NewHookCommand(),
		configcmd.NewConfigCommand(),
		setup.NewSetupCommand(),
		doctor.NewDoctorCommand(),
		historycmd.NewHistoryCommand(),
		stop.NewStopCommand(),
		newVersionCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "autospeak: %v\n", err)
		os.Exit(1)
	}
}
