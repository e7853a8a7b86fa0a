// Package integrity computes digests of canonical records for corruption
// detection.
//
// The legacy digest is a 32-bit rolling polynomial hash. It catches
// accidental corruption only; collisions are trivial to construct. Use
// the blake2b digest when tampering matters.
package integrity

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"golang.org/x/crypto/blake2b"
)

// Digest names accepted by New.
const (
	DigestLegacy  = "legacy"
	DigestBlake2b = "blake2b"
)

// Digester hashes canonical JSON text.
type Digester interface {
	Sum(canonical []byte) string
	Name() string
}

// New returns the digester registered under name.
func New(name string) (Digester, error) {
	switch name {
	case "", DigestLegacy:
		return Legacy{}, nil
	case DigestBlake2b:
		return Blake2b{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownDigest, name)
	}
}

// Legacy folds h = h*31 + c over the UTF-16 code units of the text in
// signed 32-bit arithmetic and renders |h| in lowercase hex.
type Legacy struct{}

func (Legacy) Name() string { return DigestLegacy }

func (Legacy) Sum(canonical []byte) string {
	var h int32
	for _, u := range utf16.Encode([]rune(string(canonical))) {
		h = (h << 5) - h + int32(u)
	}

	// Widen before negating so MinInt32 stays positive.
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

// Blake2b is the hex-encoded BLAKE2b-256 of the text.
type Blake2b struct{}

func (Blake2b) Name() string { return DigestBlake2b }

func (Blake2b) Sum(canonical []byte) string {
	sum := blake2b.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// Digest serializes record canonically and hashes it with d.
func Digest(d Digester, record any) (string, error) {
	text, err := codec.Canonical(record)
	if err != nil {
		return "", err
	}
	return d.Sum(text), nil
}

// Verify reports ErrIntegrityMismatch when record does not hash to want.
func Verify(d Digester, record any, want string) error {
	got, err := Digest(d, record)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: expected %s, got %s", kerrors.ErrIntegrityMismatch, want, got)
	}
	return nil
}
