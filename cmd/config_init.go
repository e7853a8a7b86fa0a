package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "replace an existing configuration")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new configuration file",
	Long: `Writes a configuration with a fresh instance UUID and key salt. The
global --backend flag chooses store.backend; everything else starts at its
default and can be edited afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		result, err := workflows.ConfigInit(context.Background(), workflows.ConfigInitOptions{
			ConfigPath: configPath,
			Backend:    backendName,
			Force:      configInitForce,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		Logger.Debugf("Instance UUID %s", result.Config.Instance.UUID)
		fmt.Println(ui.Success.Sprint("✓") + " Wrote " + ui.Path.Sprint(result.Path))
		fmt.Println(ui.Info.Sprint("→") + " Store backend: " + ui.Highlight.Sprint(result.Config.Store.Backend))
		return nil
	},
}
