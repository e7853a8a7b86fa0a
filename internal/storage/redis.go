package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 256

// Redis stores entries as plain string keys under "<namespace>:".
type Redis struct {
	rdb       redis.UniversalClient
	namespace string
	owned     bool
}

// OpenRedis connects to addr and pings it.
func OpenRedis(ctx context.Context, addr, namespace string) (*Redis, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("open redis store: empty address")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis store: %w", err)
	}
	r := NewRedis(rdb, namespace)
	r.owned = true
	return r, nil
}

// NewRedis wraps an existing client. Close does not close the client.
func NewRedis(rdb redis.UniversalClient, namespace string) *Redis {
	if namespace == "" {
		namespace = "coffer"
	}
	return &Redis{rdb: rdb, namespace: namespace}
}

func (r *Redis) fullKey(key string) string {
	return r.namespace + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.fullKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Keys scans the namespace and returns the keys sorted.
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	prefix := r.namespace + ":"
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan keys: %w", err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.Strings(keys)
	return dedupe(keys), nil
}

// dedupe drops repeats, which SCAN may return across batches.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (r *Redis) Len(ctx context.Context) (int, error) {
	keys, err := r.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *Redis) Key(ctx context.Context, i int) (string, error) {
	keys, err := r.Keys(ctx)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(keys) {
		return "", indexError(i, len(keys))
	}
	return keys[i], nil
}

func (r *Redis) Close() error {
	if r.owned {
		return r.rdb.Close()
	}
	return nil
}
