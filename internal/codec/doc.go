// Package codec turns JSON records into printable envelopes and back.
//
// Two codecs are available:
//
//   - shift: the legacy transform. Canonical JSON is shifted by seven
//     UTF-16 code units per character and base64 encoded. It obscures data,
//     it does not protect it. Envelopes carry version "2.0" and are
//     readable by the browser module that first produced them.
//   - secretbox: NaCl secretbox with a key derived by Argon2id from a
//     passphrase. Envelopes carry version "3.0".
//
// # Canonical Serialization
//
// Every record is converted to canonical JSON before encoding or hashing:
// object keys sorted byte-wise, no insignificant whitespace, HTML
// characters left unescaped, numbers written as their float64 value. The same
// record therefore always yields the same bytes, which keeps integrity
// digests stable across processes.
//
// # Range Assumption
//
// The shift codec packs each shifted code unit into one byte, the Latin-1
// range that base64 over a binary string accepts. Characters at or above
// U+00F9 overflow after the shift and fail with ErrShiftOverflow instead of
// wrapping. On decode, bytes below the shift amount fail with ErrDecode.
package codec
