package cmd

import (
	"context"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var putFile string

func init() {
	putCmd.Flags().StringVarP(&putFile, "file", "f", "", "read the JSON record from a file")
}

// resetPutCommandState resets the put command's global state for testing.
func resetPutCommandState() {
	putFile = ""
}

var putCmd = &cobra.Command{
	Use:   "put <key> [json]",
	Short: "Store a JSON record under a key",
	Long: `Encodes a JSON record and stores it with its integrity digest.

The record is taken from the second argument, from --file, or from stdin.

Examples:
  coffer put searchzone_settings '{"theme":"dark"}'
  coffer put searchzone_links --file links.json
  cat links.json | coffer put searchzone_links`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting put command")
		key := args[0]

		data, err := readRecordInput(args[1:], putFile)
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to read record: %w", err))
		}

		spinner, cleanup := startSpinner("Storing record...", verbose)
		defer cleanup()

		result, err := workflows.Put(context.Background(), workflows.PutOptions{
			Session: sessionOptions(),
			Key:     key,
			Data:    data,
		})
		if err != nil {
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		verb := "Stored"
		if result.Replaced {
			verb = "Replaced"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " " + verb + " " + ui.Highlight.Sprint(result.Key) +
			" " + ui.Digest.Sprint(result.Hash)
		return nil
	},
}
