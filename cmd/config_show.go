package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration after defaults and the --backend override
are applied. When no file exists the defaults are shown.

Examples:
  coffer config show
  coffer config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		result, err := workflows.ConfigShow(context.Background(), sessionOptions())
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		if configShowJSON {
			data, err := json.MarshalIndent(result.Config, "", "  ")
			if err != nil {
				return reported(Logger.ErrorfAndReturn("failed to marshal config: %w", err))
			}
			fmt.Println(string(data))
			return nil
		}

		if result.Exists {
			fmt.Println(ui.Muted.Sprint(result.Path))
		} else {
			fmt.Println(ui.Warning.Sprint("⚠") + " No configuration at " + ui.Path.Sprint(result.Path) + ", showing defaults")
		}
		if err := toml.NewEncoder(os.Stdout).Encode(result.Config); err != nil {
			return reported(Logger.ErrorfAndReturn("failed to encode config: %w", err))
		}
		return nil
	},
}
