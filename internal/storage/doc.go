// Package storage provides the external key-value stores the vault
// persists packages into.
//
// A Backend is a flat string-to-string map with index-based enumeration,
// mirroring the browser storage the original data lived in:
//
//	Get(key)   -> value, found
//	Set(key, value)
//	Len()      -> number of entries
//	Key(i)     -> i-th key
//
// # Implementations
//
//   - memory: insertion-ordered map, used by tests and one-off commands
//   - file: one JSON document on disk, written atomically (default)
//   - sqlite: a single table in a SQLite database (modernc.org/sqlite)
//   - redis: namespaced keys in Redis (go-redis)
//
// Enumeration order is insertion order for memory and sqlite, and sorted
// for file and redis. Index-based enumeration is only stable while no
// writes happen; backends that can list all keys at once also implement
// Lister, which the vault prefers.
//
// # Concurrency
//
// All backends are safe for concurrent use. There is no cross-key
// transaction: concurrent writers to one key race and the last write wins.
package storage
