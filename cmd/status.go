package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	statusPrefix string
	statusJSON   bool
)

func init() {
	statusCmd.Flags().StringVar(&statusPrefix, "prefix", "", "show keys starting with prefix (default: store.prefix)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

// resetStatusCommandState resets the status command's global state for testing.
func resetStatusCommandState() {
	statusPrefix = ""
	statusJSON = false
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the store and the packages under the prefix",
	Long: `Lists the keys under the prefix with the codec version and time of
each stored package, without decoding them. Packages written by another
codec are shown as foreign.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{
			Session: sessionOptions(),
			Prefix:  statusPrefix,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		if statusJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return reported(Logger.ErrorfAndReturn("failed to marshal status: %w", err))
			}
			fmt.Println(string(data))
			return nil
		}

		location := result.Location
		if location == "" {
			location = "in memory"
		}
		fmt.Printf("Store:   %s %s\n", result.Backend, ui.Path.Sprint(location))
		fmt.Printf("Codec:   %s cipher, %s digest\n", result.Cipher, result.Digest)
		fmt.Printf("Keys:    %d total, %d under %s\n", result.TotalKeys, len(result.Entries), ui.Highlight.Sprint(result.Prefix))
		if result.LastExport != nil {
			fmt.Printf("Export:  %s %s\n", workflows.FormatDateTime(result.LastExport.Timestamp), ui.Path.Sprint(result.LastExport.OutputPath))
		}

		if len(result.Entries) > 0 {
			fmt.Println()
		}
		for _, e := range result.Entries {
			var status string
			switch e.Status {
			case workflows.StatusCurrent:
				status = ui.Success.Sprint(string(e.Status))
			case workflows.StatusForeign:
				status = ui.Warning.Sprint(string(e.Status))
			default:
				status = ui.Error.Sprint(string(e.Status))
			}
			stored := ""
			if !e.StoredAt.IsZero() {
				stored = e.StoredAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %-32s  %-10s  %-4s  %s\n", e.Key, status, e.Version, stored)
		}

		if result.Summary.Foreign+result.Summary.Unreadable > 0 {
			fmt.Println()
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("coffer verify") + " to check digests")
		}
		return nil
	},
}
