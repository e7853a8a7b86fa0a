package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/vault"
	"github.com/bmatcuk/doublestar/v4"
)

// PutOptions configures the put workflow.
type PutOptions struct {
	Session SessionOptions

	// Key is the storage key to write.
	Key string

	// Data is the JSON text of the record.
	Data []byte
}

// PutResult contains the outcome of a put.
type PutResult struct {
	Key string

	// Hash is the integrity digest stored with the record.
	Hash string

	// Replaced is true when the key already held a package.
	Replaced bool
}

// Put parses Data as JSON and stores it under Key.
//
// Returns ErrInvalidKey for an empty key.
// Returns ErrSerialization if Data is not JSON or cannot be encoded.
func Put(ctx context.Context, opts PutOptions) (*PutResult, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("%w: empty storage key", kerrors.ErrInvalidKey)
	}

	record, err := codec.Parse(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}

	s, err := openSession(ctx, opts.Session)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	_, replaced, err := s.backend.Get(ctx, opts.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrStorageRead, err)
	}

	if err := s.vault.Store(ctx, opts.Key, record); err != nil {
		return nil, err
	}

	pkg, err := s.vault.Inspect(ctx, opts.Key)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithInstance("put", s.cfg)
	entry.Key = opts.Key
	audit.Log(entry)

	return &PutResult{Key: opts.Key, Hash: pkg.Hash, Replaced: replaced}, nil
}

// GetOptions configures the get workflow.
type GetOptions struct {
	Session SessionOptions

	Key string

	// Raw skips decoding and returns the stored package only.
	Raw bool
}

// GetResult contains the outcome of a get.
type GetResult struct {
	Key string

	// Record is the decoded record. Nil when Raw is set.
	Record any

	// Canonical is the record's canonical JSON text.
	Canonical []byte

	// Package is the stored package as read from the backend.
	Package *vault.Package
}

// Get reads, decodes and verifies the record under Key.
//
// Returns ErrKeyNotFound when nothing is stored under Key.
// Returns ErrStorageRead or ErrIntegrityMismatch when the package is
// unusable.
func Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	s, err := openSession(ctx, opts.Session)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	pkg, err := s.vault.Inspect(ctx, opts.Key)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrKeyNotFound, opts.Key)
	}

	result := &GetResult{Key: opts.Key, Package: pkg}
	if opts.Raw {
		return result, nil
	}

	record, err := s.vault.Retrieve(ctx, opts.Key)
	if err != nil {
		return nil, err
	}
	text, err := codec.Canonical(record)
	if err != nil {
		return nil, err
	}
	result.Record = record
	result.Canonical = text

	entry := audit.LogWithInstance("get", s.cfg)
	entry.Key = opts.Key
	audit.Log(entry)

	return result, nil
}

// KeysOptions configures the keys workflow.
type KeysOptions struct {
	Session SessionOptions

	// Prefix filters keys. Empty means the configured prefix.
	Prefix string

	// All lists every key regardless of prefix.
	All bool

	// Match further filters keys with a glob pattern such as
	// "searchzone_*_links". Empty matches everything.
	Match string
}

// KeysResult lists keys in the backend.
type KeysResult struct {
	Keys   []string
	Prefix string
}

// Keys lists the stored keys under a prefix.
func Keys(ctx context.Context, opts KeysOptions) (*KeysResult, error) {
	s, err := openSession(ctx, opts.Session)
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

	if opts.Match != "" && !doublestar.ValidatePattern(opts.Match) {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidPattern, opts.Match)
	}

	keys, err := s.vault.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if opts.Match != "" {
		matched := keys[:0]
		for _, key := range keys {
			if ok, _ := doublestar.Match(opts.Match, key); ok {
				matched = append(matched, key)
			}
		}
		keys = matched
	}
	return &KeysResult{Keys: keys, Prefix: prefix}, nil
}
