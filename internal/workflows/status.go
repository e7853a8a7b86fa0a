package workflows

import (
	"context"
	"time"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/codec"
	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/storage"
)

// EntryStatus describes a stored key without decoding it.
type EntryStatus string

const (
	// StatusCurrent means the package was written by the configured codec.
	StatusCurrent EntryStatus = "current"
	// StatusForeign means the package carries another codec's version.
	StatusForeign EntryStatus = "foreign"
	// StatusUnreadable means the stored value is not a package.
	StatusUnreadable EntryStatus = "unreadable"
)

// EntryInfo holds what status shows per key.
type EntryInfo struct {
	Key     string
	Status  EntryStatus
	Version string

	// StoredAt is the package timestamp. Zero when unreadable.
	StoredAt time.Time
}

// StatusSummary holds counts of keys by status.
type StatusSummary struct {
	Current    int
	Foreign    int
	Unreadable int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Session SessionOptions

	// Prefix selects keys. Empty means the configured prefix.
	Prefix string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	Backend  string
	Location string
	Prefix   string
	Cipher   string
	Digest   string

	// TotalKeys counts every key in the backend, prefix or not.
	TotalKeys int

	Entries []EntryInfo
	Summary StatusSummary

	// LastExport is the most recent export recorded in the audit log.
	LastExport *audit.Entry
}

// Status lists the keys under the prefix with their package metadata.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	s, err := openSession(ctx, opts.Session)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	all, err := storage.AllKeys(ctx, s.backend)
	if err != nil {
		return nil, err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = s.vault.Prefix()
	}
	keys, err := s.vault.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Backend:   s.cfg.Store.Backend,
		Location:  location(s.cfg),
		Prefix:    prefix,
		Cipher:    s.cfg.Codec.Cipher,
		Digest:    s.cfg.Codec.Digest,
		TotalKeys: len(all),
	}

	wantVersion := currentVersion(s.cfg)
	for _, key := range keys {
		info := EntryInfo{Key: key}
		pkg, err := s.vault.Inspect(ctx, key)
		switch {
		case err != nil || pkg == nil:
			info.Status = StatusUnreadable
			result.Summary.Unreadable++
		case pkg.Encrypted.Version != wantVersion:
			info.Status = StatusForeign
			result.Summary.Foreign++
		default:
			info.Status = StatusCurrent
			result.Summary.Current++
		}
		if pkg != nil {
			info.Version = pkg.Encrypted.Version
			info.StoredAt = time.UnixMilli(pkg.Timestamp).UTC()
		}
		result.Entries = append(result.Entries, info)
	}

	if entries, err := audit.ReadEntries(); err == nil {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Operation == "export" {
				result.LastExport = &entries[i]
				break
			}
		}
	}

	return result, nil
}

func location(cfg *configs.Config) string {
	if cfg.Store.Backend == storage.BackendRedis {
		return cfg.Store.RedisAddr + "/" + cfg.Store.RedisNamespace
	}
	return cfg.StorePath(configs.CofferSettings)
}

func currentVersion(cfg *configs.Config) string {
	if cfg.Codec.Cipher == codec.CipherSecretbox {
		return codec.SealedVersion
	}
	return codec.LegacyVersion
}
