// Package audit records coffer operations in a local audit trail.
//
// Entries are JSON Lines appended to <data dir>/audit.jsonl:
//
//	{"ts":"2024-03-09T23:30:00.000000Z","uuid":"…","op":"export","backend":"file","keys_count":2,"output_path":"…"}
//
// Build an entry with the instance fields filled in, then log it:
//
//	entry := audit.LogWithInstance("export", cfg)
//	entry.KeysCount = len(keys)
//	audit.Log(entry)
//
// Logging is best-effort: a failed write never fails the operation.
// ReadEntries skips malformed lines left by partial writes.
package audit
