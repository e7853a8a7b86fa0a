// Package utils provides shared helpers for the Coffer application.
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: temp file + fsync + rename, used by the file
//     backend, the backup saver and the config writer
//   - FileExists: regular-file check
//
// # String Utilities
//
//   - FormatKeys: formats storage keys for human-readable output
//   - FilterPrefix: keeps keys under a prefix
//
// # I/O Utilities
//
//   - ReadStdin: reads a piped record from standard input
//
// # Terminal Utilities
//
//   - IsTerminal: checks if a file descriptor is a terminal
package utils
