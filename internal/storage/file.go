package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/PolarWolf314/coffer/internal/utils"
)

// File keeps every entry in one JSON object on disk. Each Set rewrites
// the document atomically.
type File struct {
	path string

	mu     sync.RWMutex
	values map[string]string
	keys   []string
}

// OpenFile loads path, treating a missing file as an empty store.
func OpenFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("open file store: empty path")
	}

	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f.values); err != nil {
			return nil, fmt.Errorf("open file store: %s is not a JSON object of strings: %w", path, err)
		}
	}
	f.reindex()
	return f, nil
}

func (f *File) reindex() {
	f.keys = f.keys[:0]
	for k := range f.values {
		f.keys = append(f.keys, k)
	}
	sort.Strings(f.keys)
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.values[key]
	f.values[key] = value

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err == nil {
		err = utils.WriteFileAtomic(f.path, data, 0600)
	}
	if err != nil {
		if existed {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return fmt.Errorf("writing %s: %w", f.path, err)
	}

	if !existed {
		f.reindex()
	}
	return nil
}

func (f *File) Len(_ context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.keys), nil
}

func (f *File) Key(_ context.Context, i int) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i < 0 || i >= len(f.keys) {
		return "", indexError(i, len(f.keys))
	}
	return f.keys[i], nil
}

func (f *File) Keys(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.keys...), nil
}

func (f *File) Close() error { return nil }
