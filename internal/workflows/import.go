package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/audit"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/transfer"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/vault"
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	Session SessionOptions

	// ArchivePath is the backup file produced by export.
	ArchivePath string

	// Merge keeps keys that already exist instead of overwriting them.
	Merge bool

	// DryRun previews the import without making changes.
	DryRun bool
}

// Import restores a backup file into the configured store.
//
// Returns ErrFileNotFound if the backup doesn't exist.
// Returns ErrImportFormat if the file is not a valid backup. No key is
// written in that case.
func Import(ctx context.Context, opts ImportOptions) (*vault.ImportResult, error) {
	if !utils.FileExists(opts.ArchivePath) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.ArchivePath)
	}

	s, err := openSession(ctx, opts.Session)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	importOpts := vault.ImportOptions{DryRun: opts.DryRun}
	if opts.Merge {
		importOpts.Mode = vault.ImportModeMerge
	}

	var outcome vault.ImportOutcome
	select {
	case outcome = <-s.vault.ImportFile(ctx, transfer.FileReader{}, opts.ArchivePath, importOpts):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if outcome.Err != nil {
		return outcome.Result, outcome.Err
	}

	if !opts.DryRun {
		entry := audit.LogWithInstance("import", s.cfg)
		entry.KeysCount = len(outcome.Result.Written)
		entry.Mode = importOpts.Mode.String()
		entry.InputPath = opts.ArchivePath
		audit.Log(entry)
	}

	return outcome.Result, nil
}
