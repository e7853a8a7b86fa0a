package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
}

// resetDoctorCommandState resets the doctor command's global state for testing.
func resetDoctorCommandState() {
	doctorJSON = false
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the configuration and store",
	Long: `Checks that the configuration parses and validates, the store can be
opened, stored packages verify, and the backup and audit locations are
writable. Exits non-zero when any check reports an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting doctor command")

		result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{Session: sessionOptions()})
		if err != nil {
			return reported(Logger.ErrorfAndReturn("doctor failed: %w", err))
		}

		if doctorJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return reported(Logger.ErrorfAndReturn("failed to marshal results: %w", err))
			}
			fmt.Println(string(data))
		} else {
			printDoctorResult(result)
		}

		if result.Summary.Errors > 0 {
			return reported(fmt.Errorf("%d checks failed", result.Summary.Errors))
		}
		return nil
	},
}

func printDoctorResult(result *workflows.DoctorResult) {
	fmt.Println("Running health checks...")
	fmt.Println()

	for _, check := range result.Checks {
		var icon string
		switch check.Status {
		case workflows.CheckPass:
			icon = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			icon = ui.Warning.Sprint("⚠")
		default:
			icon = ui.Error.Sprint("✗")
		}
		fmt.Printf("%s %s: %s\n", icon, check.Name, check.Message)
	}

	fmt.Println()
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n",
		result.Summary.Passed, result.Summary.Warnings, result.Summary.Errors)

	if len(result.Suggestions) > 0 {
		fmt.Println()
		fmt.Println("Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Println("  " + ui.Info.Sprint("→") + " " + s)
		}
	}
}
