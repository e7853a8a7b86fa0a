package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	verifyPrefix string
	verifyAll    bool
)

func init() {
	verifyCmd.Flags().StringVar(&verifyPrefix, "prefix", "", "check keys starting with prefix (default: store.prefix)")
	verifyCmd.Flags().BoolVar(&verifyAll, "all", false, "check every key")
}

// resetVerifyCommandState resets the verify command's global state for testing.
func resetVerifyCommandState() {
	verifyPrefix = ""
	verifyAll = false
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check stored records against their digests",
	Long: `Decodes every key under the prefix and compares the record's digest
with the one stored beside it. Exits non-zero when any key fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting verify command")
		spinner, cleanup := startSpinner("Verifying stored records...", verbose)
		defer cleanup()

		report, err := workflows.Verify(context.Background(), workflows.VerifyOptions{
			Session: sessionOptions(),
			Prefix:  verifyPrefix,
			All:     verifyAll,
		})
		if err != nil {
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		if report.Checked() == 0 {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " No keys to verify"
			return nil
		}

		Logger.Debugf("Verified keys:%s", utils.FormatKeys(report.Valid))
		msg := ""
		for _, f := range report.Failed {
			msg += ui.Mark(false) + " " + ui.Highlight.Sprint(f.Key) + " " + ui.Muted.Sprint(f.Err.Error()) + "\n"
		}

		if len(report.Failed) == 0 {
			spinner.FinalMSG = ui.Mark(true) + fmt.Sprintf(" All %d keys verified", report.Checked())
			return nil
		}

		spinner.FinalMSG = msg + "\n" + ui.Error.Sprint("✗") +
			fmt.Sprintf(" %d of %d keys failed verification", len(report.Failed), report.Checked())
		return reported(fmt.Errorf("%d keys failed verification", len(report.Failed)))
	},
}
