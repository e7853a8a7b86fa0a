package codec

import (
	"encoding/base64"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// LegacyCodec is the shift-and-base64 codec.
type LegacyCodec struct {
	shift int
	now   func() time.Time
}

// NewLegacy returns a LegacyCodec using DefaultShift.
func NewLegacy() *LegacyCodec {
	return &LegacyCodec{shift: DefaultShift, now: time.Now}
}

func (c *LegacyCodec) Name() string { return CipherShift }

func (c *LegacyCodec) Encode(record any) (Envelope, error) {
	text, err := Canonical(record)
	if err != nil {
		return Envelope{}, err
	}

	shifted, err := Obscure(text, c.shift)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", kerrors.ErrSerialization, err)
	}

	return Envelope{
		Data:      base64.StdEncoding.EncodeToString(shifted),
		Version:   LegacyVersion,
		Timestamp: c.now().UnixMilli(),
	}, nil
}

func (c *LegacyCodec) Plaintext(env Envelope) ([]byte, error) {
	shifted, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	return Reveal(shifted, c.shift)
}

func (c *LegacyCodec) Decode(env Envelope) (any, error) {
	text, err := c.Plaintext(env)
	if err != nil {
		return nil, err
	}
	return parsePlaintext(text)
}
