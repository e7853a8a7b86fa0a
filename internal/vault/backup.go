package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/transfer"
)

// ImportMode represents the import strategy.
type ImportMode int

const (
	// ImportModeOverwrite writes every key from the backup, replacing existing values.
	ImportModeOverwrite ImportMode = iota
	// ImportModeMerge writes only keys that do not exist yet.
	ImportModeMerge
)

func (m ImportMode) String() string {
	if m == ImportModeMerge {
		return "merge"
	}
	return "overwrite"
}

// ImportOptions configures ImportAll.
type ImportOptions struct {
	Mode ImportMode

	// DryRun counts what would be written without writing.
	DryRun bool
}

// ImportResult contains the outcome of an import.
type ImportResult struct {
	// Written lists keys written (or that would be written in a dry run).
	Written []string

	// Skipped lists keys left alone because they already existed (merge mode).
	Skipped []string

	// Total is the number of entries in the backup.
	Total int

	DryRun bool
	Mode   ImportMode
}

// ImportOutcome is the single completion of ImportFile.
type ImportOutcome struct {
	Result *ImportResult
	Err    error
}

// ExportResult contains the outcome of an export.
type ExportResult struct {
	// Keys are the exported keys in enumeration order.
	Keys []string

	// FileName is the suggested name handed to the saver.
	FileName string

	// Path is where the saver put the backup.
	Path string

	// Size is the backup size in bytes.
	Size int
}

// BackupFileName returns <prefix>backup_<YYYY-MM-DD>.enc for the UTC date of t.
func BackupFileName(prefix string, t time.Time) string {
	return fmt.Sprintf("%sbackup_%s.enc", prefix, t.UTC().Format("2006-01-02"))
}

// Backup encodes the raw values of every key under prefix into backup bytes.
func (v *Vault) Backup(ctx context.Context, prefix string) ([]byte, []string, error) {
	keys, err := v.Keys(ctx, prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: enumerating keys: %w", kerrors.ErrExportFailed, err)
	}

	entries := make(map[string]any, len(keys))
	for _, key := range keys {
		raw, ok, err := v.backend.Get(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reading %q: %w", kerrors.ErrExportFailed, key, err)
		}
		if ok {
			entries[key] = raw
		}
	}

	env, err := v.codec.Encode(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", kerrors.ErrExportFailed, err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", kerrors.ErrExportFailed, err)
	}
	return data, keys, nil
}

// ExportAll builds a backup of every key starting with prefix and saves
// it. An empty prefix matches every key; callers wanting the configured
// default pass Prefix(). Nothing is saved when the backup cannot be built.
func (v *Vault) ExportAll(ctx context.Context, prefix string) (*ExportResult, error) {
	if v.saver == nil {
		return nil, fmt.Errorf("%w: no saver configured", kerrors.ErrExportFailed)
	}

	data, keys, err := v.Backup(ctx, prefix)
	if err != nil {
		v.log.Errorf("Export error: %v", err)
		return nil, err
	}

	name := BackupFileName(prefix, v.now())
	path, err := v.saver.Save(ctx, name, data)
	if err != nil {
		v.log.Errorf("Export error: %v", err)
		return nil, fmt.Errorf("%w: %w", kerrors.ErrExportFailed, err)
	}

	v.log.Infof("Exported %d keys to %s", len(keys), path)
	return &ExportResult{Keys: keys, FileName: name, Path: path, Size: len(data)}, nil
}

// ImportAll decodes backup bytes and writes each entry into the backend.
// All entries are validated before the first write. Every value in the
// backup must be a JSON string: a number, object or null anywhere rejects
// the whole backup with ErrImportFormat instead of being stringified.
func (v *Vault) ImportAll(ctx context.Context, data []byte, opts ImportOptions) (*ImportResult, error) {
	entries, err := v.decodeBackup(data)
	if err != nil {
		v.log.Errorf("Import error: %v", err)
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &ImportResult{Total: len(keys), DryRun: opts.DryRun, Mode: opts.Mode}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if opts.Mode == ImportModeMerge {
			_, exists, err := v.backend.Get(ctx, key)
			if err != nil {
				return result, fmt.Errorf("checking %q: %w", key, err)
			}
			if exists {
				result.Skipped = append(result.Skipped, key)
				continue
			}
		}

		if !opts.DryRun {
			if err := v.backend.Set(ctx, key, entries[key]); err != nil {
				v.log.Errorf("Import error: %v", err)
				return result, fmt.Errorf("writing %q: %w", key, err)
			}
		}
		result.Written = append(result.Written, key)
	}

	v.log.Infof("Imported %d of %d keys (%s)", len(result.Written), result.Total, opts.Mode)
	return result, nil
}

func (v *Vault) decodeBackup(data []byte) (map[string]string, error) {
	var env codec.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrImportFormat, err)
	}

	decoded, err := v.codec.Decode(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrImportFormat, err)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: backup does not hold an object", kerrors.ErrImportFormat)
	}

	entries := make(map[string]string, len(obj))
	for k, val := range obj {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value of %q is not a string", kerrors.ErrImportFormat, k)
		}
		entries[k] = s
	}
	return entries, nil
}

// ImportFile asks r for the file at path and restores it once the
// content arrives. The returned channel yields exactly one outcome.
func (v *Vault) ImportFile(ctx context.Context, r transfer.Reader, path string, opts ImportOptions) <-chan ImportOutcome {
	out := make(chan ImportOutcome, 1)
	go func() {
		defer close(out)

		res, ok := <-r.Read(ctx, path)
		if !ok {
			out <- ImportOutcome{Err: errors.New("file reader closed without a result")}
			return
		}
		if res.Err != nil {
			v.log.Errorf("Import error: %v", res.Err)
			out <- ImportOutcome{Err: fmt.Errorf("reading %s: %w", path, res.Err)}
			return
		}
		if err := ctx.Err(); err != nil {
			out <- ImportOutcome{Err: err}
			return
		}

		result, err := v.ImportAll(ctx, res.Data, opts)
		out <- ImportOutcome{Result: result, Err: err}
	}()
	return out
}
