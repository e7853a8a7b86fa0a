package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	getRaw    bool
	getPretty bool
)

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "print the stored package without decoding")
	getCmd.Flags().BoolVar(&getPretty, "pretty", false, "indent the JSON output")
}

// resetGetCommandState resets the get command's global state for testing.
func resetGetCommandState() {
	getRaw = false
	getPretty = false
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the record stored under a key",
	Long: `Decodes the record under a key, verifies its digest and prints it as
canonical JSON.

Examples:
  coffer get searchzone_settings
  coffer get searchzone_settings --pretty
  coffer get searchzone_settings --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting get command")

		result, err := workflows.Get(context.Background(), workflows.GetOptions{
			Session: sessionOptions(),
			Key:     args[0],
			Raw:     getRaw,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		var out []byte
		switch {
		case getRaw:
			out, err = json.MarshalIndent(result.Package, "", "  ")
		case getPretty:
			out, err = json.MarshalIndent(json.RawMessage(result.Canonical), "", "  ")
		default:
			out = result.Canonical
		}
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to format output: %w", err))
		}

		fmt.Println(string(out))
		return nil
	},
}
