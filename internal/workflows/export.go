package workflows

import (
	"context"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/transfer"
	"github.com/PolarWolf314/coffer/internal/vault"
)

// ExportOptions configures the export workflow.
type ExportOptions struct {
	Session SessionOptions

	// Prefix selects the keys to back up. Empty means the configured prefix.
	Prefix string

	// All backs up every key regardless of prefix.
	All bool

	// OutputDir is where the backup file is written. Empty means backup.dir
	// from the config.
	OutputDir string
}

// Export writes a backup of every key under the prefix to
// <prefix>backup_<YYYY-MM-DD>.enc in the output directory.
//
// Returns ErrExportFailed, wrapping the cause, when the backup cannot be
// built or written. Nothing is written in that case.
func Export(ctx context.Context, opts ExportOptions) (*vault.ExportResult, error) {
	withDirSaver := func(cfg *configs.Config) vault.Option {
		dir := opts.OutputDir
		if dir == "" {
			dir = cfg.Backup.Dir
		}
		return vault.WithSaver(transfer.DirSaver{Dir: dir})
	}

	s, err := openSession(ctx, opts.Session, withDirSaver)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	prefix := opts.Prefix
	if opts.All {
		prefix = ""
	} else if prefix == "" {
		prefix = s.vault.Prefix()
	}

	result, err := s.vault.ExportAll(ctx, prefix)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithInstance("export", s.cfg)
	entry.KeysCount = len(result.Keys)
	entry.OutputPath = result.Path
	audit.Log(entry)

	return result, nil
}
