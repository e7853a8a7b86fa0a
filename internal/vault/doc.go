// Package vault persists JSON records in a storage.Backend as encoded
// packages carrying an integrity digest, and produces and restores
// encoded backups of every key under a prefix.
//
// # Package Format
//
// Each key holds the JSON text of a Package:
//
//	{"encrypted":{"data":"…","version":"2.0","timestamp":1700000000000},
//	 "hash":"55f58602","timestamp":1700000000000}
//
// The hash is the digest of the record's canonical serialization, taken
// before encoding. Retrieve recomputes it after decoding and rejects the
// record on mismatch. Packages written by the original browser module
// hashed their insertion-ordered JSON text; that text is what the envelope
// holds, so a mismatch on the canonical form falls back to hashing the
// decoded plaintext before failing.
//
// # Failure Reporting
//
// Every operation logs its failure and returns it wrapped in a sentinel
// from internal/errors. A missing key is not a failure: Retrieve returns
// a nil record and a nil error.
//
// # Backups
//
// ExportAll collects the raw stored strings of every key under a prefix
// into one JSON object, encodes it as a single envelope and hands the
// envelope's JSON to a transfer.Saver as <prefix>backup_<YYYY-MM-DD>.enc.
// ImportAll reverses this and writes each pair back verbatim, without
// verifying the packages it restores.
package vault
