package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/integrity"
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/PolarWolf314/coffer/internal/storage"
	"github.com/PolarWolf314/coffer/internal/transfer"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// DefaultPrefix is the key prefix exported when none is given.
const DefaultPrefix = "searchzone_"

// Package is the unit persisted under a storage key.
type Package struct {
	Encrypted codec.Envelope `json:"encrypted"`
	Hash      string         `json:"hash"`
	Timestamp int64          `json:"timestamp"`
}

// ParsePackage decodes the stored JSON text of a Package.
func ParsePackage(raw string) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal([]byte(raw), &pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrStorageRead, err)
	}
	return &pkg, nil
}

// Vault stores and retrieves records through a backend.
type Vault struct {
	backend storage.Backend
	codec   codec.Codec
	digest  integrity.Digester
	log     logger.Logger
	now     func() time.Time
	prefix  string
	saver   transfer.Saver
}

// Option configures a Vault.
type Option func(*Vault)

// WithCodec sets the codec. Defaults to the legacy shift codec.
func WithCodec(c codec.Codec) Option {
	return func(v *Vault) { v.codec = c }
}

// WithDigester sets the integrity digest. Defaults to the legacy hash.
func WithDigester(d integrity.Digester) Option {
	return func(v *Vault) { v.digest = d }
}

// WithLogger sets the logger for failure diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// WithClock sets the package timestamp and backup date source.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// WithPrefix sets the default export prefix.
func WithPrefix(prefix string) Option {
	return func(v *Vault) { v.prefix = prefix }
}

// WithSaver sets where ExportAll delivers backups.
func WithSaver(s transfer.Saver) Option {
	return func(v *Vault) { v.saver = s }
}

// New returns a Vault over backend.
func New(backend storage.Backend, opts ...Option) *Vault {
	v := &Vault{
		backend: backend,
		codec:   codec.NewLegacy(),
		digest:  integrity.Legacy{},
		now:     time.Now,
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Store encodes record, digests it, and writes the package under key.
func (v *Vault) Store(ctx context.Context, key string, record any) error {
	if key == "" {
		return fmt.Errorf("%w: empty storage key", kerrors.ErrInvalidKey)
	}

	env, err := v.codec.Encode(record)
	if err != nil {
		v.log.Errorf("Encoding error for %q: %v", key, err)
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	hash, err := integrity.Digest(v.digest, record)
	if err != nil {
		v.log.Errorf("Digest error for %q: %v", key, err)
		return fmt.Errorf("digesting %q: %w", key, err)
	}

	data, err := json.Marshal(Package{
		Encrypted: env,
		Hash:      hash,
		Timestamp: v.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("serializing package %q: %w", key, err)
	}

	if err := v.backend.Set(ctx, key, string(data)); err != nil {
		v.log.Errorf("Storage error for %q: %v", key, err)
		return fmt.Errorf("writing %q: %w", key, err)
	}
	v.log.Debugf("Stored %q (%d bytes, hash %s)", key, len(data), hash)
	return nil
}

// Retrieve reads, decodes and verifies the record under key. A missing
// key returns (nil, nil).
func (v *Vault) Retrieve(ctx context.Context, key string) (any, error) {
	pkg, err := v.Inspect(ctx, key)
	if err != nil || pkg == nil {
		return nil, err
	}

	record, err := v.codec.Decode(pkg.Encrypted)
	if err != nil {
		v.log.Debugf("Retrieval error for %q: %v", key, err)
		return nil, fmt.Errorf("%w: %q: %w", kerrors.ErrStorageRead, key, err)
	}

	if err := v.verify(pkg, record); err != nil {
		v.log.Warnf("Data integrity check failed for %q", key)
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	return record, nil
}

// Inspect returns the parsed package under key without decoding it.
// A missing key returns (nil, nil).
func (v *Vault) Inspect(ctx context.Context, key string) (*Package, error) {
	raw, ok, err := v.backend.Get(ctx, key)
	if err != nil {
		v.log.Debugf("Retrieval error for %q: %v", key, err)
		return nil, fmt.Errorf("%w: %q: %v", kerrors.ErrStorageRead, key, err)
	}
	if !ok {
		v.log.Debugf("No entry for %q", key)
		return nil, nil
	}

	pkg, err := ParsePackage(raw)
	if err != nil {
		v.log.Debugf("Retrieval error for %q: %v", key, err)
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	return pkg, nil
}

// verify checks the canonical digest first, then the digest of the
// envelope's plaintext as written by the original module.
func (v *Vault) verify(pkg *Package, record any) error {
	got, err := integrity.Digest(v.digest, record)
	if err != nil {
		return err
	}
	if got == pkg.Hash {
		return nil
	}

	if text, err := v.codec.Plaintext(pkg.Encrypted); err == nil && v.digest.Sum(text) == pkg.Hash {
		v.log.Debugf("Matched digest on insertion-ordered plaintext")
		return nil
	}
	return fmt.Errorf("%w: stored %s, computed %s", kerrors.ErrIntegrityMismatch, pkg.Hash, got)
}

// Keys returns the backend keys starting with prefix.
func (v *Vault) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := storage.AllKeys(ctx, v.backend)
	if err != nil {
		return nil, err
	}
	return utils.FilterPrefix(keys, prefix), nil
}

// Prefix returns the default export prefix.
func (v *Vault) Prefix() string {
	return v.prefix
}
