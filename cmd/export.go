package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	exportPrefix    string
	exportAll       bool
	exportOutputDir string
)

func init() {
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "back up keys starting with prefix (default: store.prefix)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "back up every key")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "", "directory for the backup file (default: backup.dir)")
}

// resetExportCommandState resets the export command's global state for testing.
func resetExportCommandState() {
	exportPrefix = ""
	exportAll = false
	exportOutputDir = ""
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of every key under the prefix",
	Long: `Creates <prefix>backup_<YYYY-MM-DD>.enc holding every stored package
under the prefix, encoded with the configured codec.

Examples:
  coffer export
  coffer export -o ~/backups
  coffer export --prefix searchzone_
  coffer export --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command")
		spinner, cleanup := startSpinner("Exporting backup...", verbose)
		defer cleanup()

		result, err := workflows.Export(context.Background(), workflows.ExportOptions{
			Session:   sessionOptions(),
			Prefix:    exportPrefix,
			All:       exportAll,
			OutputDir: exportOutputDir,
		})
		if err != nil {
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		Logger.Infof("Export written to %s", result.Path)
		finalMessage := ui.Success.Sprint("✓") + " Exported " + fmt.Sprintf("%d", len(result.Keys)) + " keys to " +
			ui.Path.Sprint(result.Path) + " " + ui.Muted.Sprint(ui.Size(result.Size))
		if len(result.Keys) == 0 {
			finalMessage += "\n" + ui.Warning.Sprint("⚠") + " No keys matched the prefix; the backup is empty"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
