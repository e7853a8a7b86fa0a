package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	keysPrefix string
	keysAll    bool
	keysMatch  string
)

func init() {
	keysCmd.Flags().StringVar(&keysPrefix, "prefix", "", "list keys starting with prefix (default: store.prefix)")
	keysCmd.Flags().BoolVar(&keysAll, "all", false, "list every key")
	keysCmd.Flags().StringVar(&keysMatch, "match", "", "only list keys matching a glob pattern")
}

// resetKeysCommandState resets the keys command's global state for testing.
func resetKeysCommandState() {
	keysPrefix = ""
	keysAll = false
	keysMatch = ""
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys command")

		result, err := workflows.Keys(context.Background(), workflows.KeysOptions{
			Session: sessionOptions(),
			Prefix:  keysPrefix,
			All:     keysAll,
			Match:   keysMatch,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		if len(result.Keys) == 0 {
			if result.Prefix == "" {
				fmt.Println("No keys stored.")
			} else {
				fmt.Println("No keys under " + ui.Highlight.Sprint(result.Prefix) + ".")
			}
			return nil
		}

		for _, key := range result.Keys {
			fmt.Println(key)
		}
		return nil
	},
}
