// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package historycmd

import (
	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
)

// NewHistoryCommand lists recent spoken utterances.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent spoken utterances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.History()
			if err != nil {
				return err
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("no utterances recorded")
				return nil
			}
			for _, e := range entries {
				cmd.Printf("%s  [%s] %s: %s\n",
					e.SpokenAt.Local().Format("2006-01-02 15:04:05"),
					e.Engine, e.Session, e.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of utterances to show")
	return cmd
}
