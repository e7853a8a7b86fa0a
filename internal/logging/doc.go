// Package logger provides leveled logging for Coffer commands and the vault.
//
// Output is formatted with semantic prefixes and colors from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: adds info messages
//   - --debug: adds info and debug messages
//
// Warnings and errors are always shown. Integrity mismatches are reported
// as warnings so they surface even without flags.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Exported %d keys", count)
//
// Tests can capture output by setting Out and Err.
package logger
