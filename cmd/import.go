package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	importMerge  bool
	importDryRun bool
)

func init() {
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "keep keys that already exist")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "show what would be written without writing")
}

// resetImportCommandState resets the import command's global state for testing.
func resetImportCommandState() {
	importMerge = false
	importDryRun = false
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore keys from a backup file",
	Long: `Restores every key in a backup produced by export. The whole file is
validated before anything is written; an invalid backup changes nothing.

By default existing keys are overwritten. Use --merge to keep them.

Examples:
  coffer import searchzone_backup_2024-03-09.enc
  coffer import searchzone_backup_2024-03-09.enc --merge
  coffer import searchzone_backup_2024-03-09.enc --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import command")
		spinner, cleanup := startSpinner("Importing backup...", verbose)
		defer cleanup()

		result, err := workflows.Import(context.Background(), workflows.ImportOptions{
			Session:     sessionOptions(),
			ArchivePath: args[0],
			Merge:       importMerge,
			DryRun:      importDryRun,
		})
		if err != nil {
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		if result.DryRun {
			msg := ui.Info.Sprint("→") + fmt.Sprintf(" Dry run: %d of %d keys would be written (%s mode)", len(result.Written), result.Total, result.Mode)
			if len(result.Written) > 0 {
				msg += ":" + strings.TrimSuffix(utils.FormatKeys(result.Written), "\n")
			}
			if len(result.Skipped) > 0 {
				msg += "\n" + ui.Muted.Sprint(fmt.Sprintf("%d existing keys would be kept", len(result.Skipped)))
			}
			spinner.FinalMSG = msg
			return nil
		}

		msg := ui.Success.Sprint("✓") + fmt.Sprintf(" Imported %d keys from ", len(result.Written)) + ui.Path.Sprint(args[0])
		if len(result.Skipped) > 0 {
			msg += "\n" + ui.Muted.Sprint(fmt.Sprintf("%d existing keys kept", len(result.Skipped)))
		}
		spinner.FinalMSG = msg
		return nil
	},
}
