package cmd

import (
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose     bool
	debug       bool
	configPath  string
	backendName string
	Logger      logger.Logger
)

// Register attaches the persistent flags and every coffer command to root.
func Register(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $COFFER_CONFIG or <config dir>/coffer/config.toml)")
	root.PersistentFlags().StringVar(&backendName, "backend", "", "override store.backend (memory, file, sqlite, redis)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
	}

	root.AddCommand(putCmd)
	root.AddCommand(getCmd)
	root.AddCommand(keysCmd)
	root.AddCommand(verifyCmd)
	root.AddCommand(statusCmd)
	root.AddCommand(doctorCmd)
	root.AddCommand(exportCmd)
	root.AddCommand(importCmd)
	root.AddCommand(logCmd)
	root.AddCommand(CodecCmd)
	root.AddCommand(ConfigCmd)
}

// sessionOptions builds workflow options from the persistent flags.
func sessionOptions() workflows.SessionOptions {
	return workflows.SessionOptions{
		ConfigPath: configPath,
		Backend:    backendName,
		Logger:     Logger,
		Passphrase: func() ([]byte, error) {
			return utils.ReadPassphrase("Vault passphrase: ")
		},
	}
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState(root *cobra.Command) {
	verbose = false
	debug = false
	configPath = ""
	backendName = ""
	Logger = logger.Logger{}

	resetPutCommandState()
	resetGetCommandState()
	resetKeysCommandState()
	resetVerifyCommandState()
	resetStatusCommandState()
	resetDoctorCommandState()
	resetExportCommandState()
	resetImportCommandState()
	resetLogCommandState()
	resetConfigInitState()
	resetConfigShowState()

	resetCobraFlagState(root)
}

// resetCobraFlagState clears Changed on every flag in the tree to prevent test pollution.
func resetCobraFlagState(root *cobra.Command) {
	if root == nil {
		return
	}
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	}
	root.PersistentFlags().VisitAll(reset)
	root.Flags().VisitAll(reset)
	for _, child := range root.Commands() {
		resetCobraFlagState(child)
	}
}
