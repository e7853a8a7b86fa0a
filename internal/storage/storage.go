package storage

import (
	"context"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error
	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)
	// Key returns the key at index i, 0 <= i < Len.
	Key(ctx context.Context, i int) (string, error)
	io.Closer
}

// Lister is implemented by backends that can list every key in one call.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Options configures Open.
type Options struct {
	// Path is the file or database location for file and sqlite.
	Path string

	// RedisAddr and RedisNamespace configure the redis backend.
	RedisAddr      string
	RedisNamespace string
}

// Open returns the backend registered under name.
func Open(ctx context.Context, name string, opts Options) (Backend, error) {
	switch name {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return OpenFile(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisNamespace)
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownBackend, name)
	}
}

// AllKeys lists every key in b, using Lister when available and falling
// back to index enumeration.
func AllKeys(ctx context.Context, b Backend) ([]string, error) {
	if l, ok := b.(Lister); ok {
		return l.Keys(ctx)
	}

	n, err := b.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting keys: %w", err)
	}
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		key, err := b.Key(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("reading key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0,%d)", kerrors.ErrIndexOutOfRange, i, n)
}
