// Package workflows provides the operations behind each coffer command.
//
// A workflow loads the configuration, opens the configured store, builds
// a vault with the configured codec and digest, performs one operation
// and records it in the audit log. The cmd package only parses flags,
// calls a workflow and formats the result.
//
//   - Put, Get, Keys: single records and key listings
//   - Export, Import: backups through the vault's saver and file reader
//   - Verify, Status, Doctor: integrity and health reporting
//   - Encode, Decode, Digest: codec operations without a store
//   - ConfigInit, ConfigShow, Log: configuration and audit trail
//
// # Error Handling
//
// Workflows return sentinel errors from internal/errors, wrapped with
// context. Use errors.Is to pick a user-facing message:
//
//	_, err := workflows.Import(ctx, opts)
//	if errors.Is(err, kerrors.ErrImportFormat) {
//	    // not a backup file
//	}
package workflows
