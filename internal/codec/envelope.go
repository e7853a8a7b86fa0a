package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// Cipher names accepted by New.
const (
	CipherShift     = "shift"
	CipherSecretbox = "secretbox"
)

// Envelope versions written by the codecs.
const (
	LegacyVersion = "2.0"
	SealedVersion = "3.0"
)

// Envelope is the printable wrapper produced by a Codec.
type Envelope struct {
	Data      string `json:"data"`
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

// UnmarshalJSON accepts either the object form or a bare string holding
// only the encoded data.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var data string
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return err
		}
		*e = Envelope{Data: data}
		return nil
	}

	type plain Envelope
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*e = Envelope(p)
	return nil
}

// Codec encodes records into envelopes and decodes them back.
type Codec interface {
	// Encode serializes record canonically and wraps the encoded text.
	Encode(record any) (Envelope, error)
	// Decode reverses Encode and parses the result.
	Decode(env Envelope) (any, error)
	// Plaintext reverses Encode without parsing the JSON text.
	Plaintext(env Envelope) ([]byte, error)
	// Name returns the cipher name used in configuration.
	Name() string
}

// Options configures New.
type Options struct {
	// Passphrase and Salt derive the secretbox key. Ignored by shift.
	Passphrase []byte
	Salt       []byte

	// Now overrides the envelope clock.
	Now func() time.Time
}

// New returns the codec registered under name.
func New(name string, opts Options) (Codec, error) {
	switch name {
	case "", CipherShift:
		c := NewLegacy()
		if opts.Now != nil {
			c.now = opts.Now
		}
		return c, nil
	case CipherSecretbox:
		c, err := NewSealed(opts.Passphrase, opts.Salt)
		if err != nil {
			return nil, err
		}
		if opts.Now != nil {
			c.now = opts.Now
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownCodec, name)
	}
}

// DecodeText decodes a bare data string with c.
func DecodeText(c Codec, text string) (any, error) {
	return c.Decode(Envelope{Data: text})
}

func parsePlaintext(text []byte) (any, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	return v, nil
}
