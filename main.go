package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/coffer/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coffer",
	Short: "Coffer - A CLI for integrity-checked JSON records in a key-value store.",
	Long: `Coffer stores JSON records under string keys, each one encoded and kept
beside a digest that is checked on every read. Records can be backed up to
a single file and restored into any supported store.

Features:
  - Store and retrieve records with integrity checks
  - Export and import backups of every key under a prefix
  - Use an in-memory, JSON file, SQLite or Redis store

Usage:
  coffer <command> [flags]

Run 'coffer help <command>' for more details on a specific command.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Coffer! Run 'coffer --help' to see available commands.")
	},
}

func main() {
	cmd.Register(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
