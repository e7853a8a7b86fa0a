// Package errors provides typed error values for the Coffer application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Codec errors: a record could not be serialized or decoded
//     (ErrSerialization, ErrShiftOverflow, ErrDecode)
//   - Vault errors: stored data is unreadable or fails verification
//     (ErrStorageRead, ErrIntegrityMismatch)
//   - Backup errors: export or import failed (ErrExportFailed, ErrImportFormat)
//   - Configuration errors: unknown backend, codec or digest names
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("decoding package %q: %w", key, errors.ErrDecode)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrIntegrityMismatch) {
//	    // Show user-friendly message
//	}
package errors
