package cmd

import "github.com/spf13/cobra"

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage coffer configuration",
	Long: `Provides commands for creating and inspecting the configuration file.

The file is read from --config, then $COFFER_CONFIG, then
<config dir>/coffer/config.toml.

Examples:
  # Create a configuration using the sqlite backend
  coffer config init --backend sqlite

  # Show the effective configuration
  coffer config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}
