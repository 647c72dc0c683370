// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

package configcmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AskTinNguyen/claude-auto-speak/cmd/autospeak/internal/app"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/config"
)

// NewConfigCommand builds the config subcommand tree.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration (list, get, set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(), newGetCommand(), newSetCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := json.MarshalIndent(a.Cfg, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one config value by dotted key, e.g. engine.voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			value, ok := lookup(a.Cfg, args[0])
			if !ok {
				return fmt.Errorf("unknown config key: %q", args[0])
			}
			data, err := json.Marshal(value)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config value and save, e.g. set engine.name espeak",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			updated, err := apply(a.Cfg, args[0], args[1])
			if err != nil {
				return err
			}
			if err := updated.Validate(); err != nil {
				return err
			}
			if err := updated.Save(a.Paths.ConfigPath); err != nil {
				return err
			}
			cmd.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// lookup navigates the config's JSON shape by dotted key.
func lookup(cfg *config.Config, key string) (any, bool) {
	tree, err := toTree(cfg)
	if err != nil {
		return nil, false
	}
	var current any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// apply sets a dotted key in the config's JSON shape and decodes the result
// back into a typed Config. The value is parsed as JSON first so numbers and
// booleans round-trip, with a bare-string fallback.
func apply(cfg *config.Config, key, rawValue string) (*config.Config, error) {
	tree, err := toTree(cfg)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
		value = rawValue
	}

	parts := strings.Split(key, ".")
	current := tree
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown config key: %q", key)
		}
		current = next
	}
	// The leaf may be absent from the tree when its current value is empty
	// (omitempty fields like quiet_hours), so its existence is not checked.
	current[parts[len(parts)-1]] = value

	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	updated := config.DefaultConfig()
	if err := json.Unmarshal(data, updated); err != nil {
		return nil, fmt.Errorf("invalid value for %q: %w", key, err)
	}
	return updated, nil
}

func toTree(cfg *config.Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
