package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkgen-dev/pkgen/internal/config"
	"github.com/pkgen-dev/pkgen/internal/flavor"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write pkgen settings stored at ~/.pkgen/config.yaml.
Every key can be overridden with a PKGEN_<KEY> environment variable.

Keys: ` + strings.Join(config.Keys, ", "),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigValue(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnown(args[0]) {
			return fmt.Errorf("unknown config key %q (known: %s)", args[0], strings.Join(config.Keys, ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, config.Get(key))
		}
		return nil
	},
}

// checkConfigValue rejects unknown keys and flavors that would silently fall
// back at generation time.
func checkConfigValue(key, value string) error {
	if !config.IsKnown(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(config.Keys, ", "))
	}
	if key == config.KeyFlavor {
		if _, ok := flavor.Parse(value); !ok {
			return fmt.Errorf("unknown flavor %q (known: %s)", value, strings.Join(flavor.Names(), ", "))
		}
	}
	return nil
}
