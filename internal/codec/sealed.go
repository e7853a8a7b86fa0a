package codec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// Argon2id parameters for deriving the secretbox key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keySize      = 32
	nonceSize    = 24
)

// SealedCodec encrypts canonical JSON with NaCl secretbox.
type SealedCodec struct {
	key  [keySize]byte
	now  func() time.Time
	rand io.Reader
}

// NewSealed derives a key from passphrase and salt with Argon2id.
func NewSealed(passphrase, salt []byte) (*SealedCodec, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", kerrors.ErrInvalidKey)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", kerrors.ErrInvalidKey)
	}
	return NewSealedFromKey(argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keySize))
}

// NewSealedFromKey uses a raw 32-byte key.
func NewSealedFromKey(key []byte) (*SealedCodec, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKey, keySize, len(key))
	}
	c := &SealedCodec{now: time.Now, rand: rand.Reader}
	copy(c.key[:], key)
	return c, nil
}

func (c *SealedCodec) Name() string { return CipherSecretbox }

func (c *SealedCodec) Encode(record any) (Envelope, error) {
	text, err := Canonical(record)
	if err != nil {
		return Envelope{}, err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(c.rand, nonce[:]); err != nil {
		return Envelope{}, fmt.Errorf("generating nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], text, &nonce, &c.key)
	return Envelope{
		Data:      base64.StdEncoding.EncodeToString(sealed),
		Version:   SealedVersion,
		Timestamp: c.now().UnixMilli(),
	}, nil
}

func (c *SealedCodec) Plaintext(env Envelope) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: sealed data too short", kerrors.ErrDecode)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	text, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return nil, fmt.Errorf("%w: authentication failed", kerrors.ErrDecode)
	}
	return text, nil
}

func (c *SealedCodec) Decode(env Envelope) (any, error) {
	text, err := c.Plaintext(env)
	if err != nil {
		return nil, err
	}
	return parsePlaintext(text)
}
