package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/integrity"
)

// CodecOptions configures the encode, decode and digest workflows.
type CodecOptions struct {
	Session SessionOptions

	// Input is JSON text for Encode and Digest, and an envelope (object or
	// bare data string) for Decode.
	Input []byte
}

// EncodeResult contains the envelope for the input record.
type EncodeResult struct {
	Envelope  codec.Envelope
	Canonical []byte
}

// DecodeResult contains the record recovered from an envelope.
type DecodeResult struct {
	Record    any
	Canonical []byte
}

// DigestResult contains the integrity digest of the input record.
type DigestResult struct {
	Hash      string
	Digest    string
	Canonical []byte
}

// Encode runs the configured codec over Input without touching storage.
func Encode(ctx context.Context, opts CodecOptions) (*EncodeResult, error) {
	c, _, err := codecFor(opts.Session)
	if err != nil {
		return nil, err
	}

	record, err := codec.Parse(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}
	text, err := codec.Canonical(record)
	if err != nil {
		return nil, err
	}

	env, err := c.Encode(record)
	if err != nil {
		return nil, err
	}
	return &EncodeResult{Envelope: env, Canonical: text}, nil
}

// Decode reverses Encode. Input may be the envelope object or just its
// data string, quoted or not.
func Decode(ctx context.Context, opts CodecOptions) (*DecodeResult, error) {
	c, _, err := codecFor(opts.Session)
	if err != nil {
		return nil, err
	}

	env, err := parseEnvelopeInput(opts.Input)
	if err != nil {
		return nil, err
	}

	record, err := c.Decode(env)
	if err != nil {
		return nil, err
	}
	text, err := codec.Canonical(record)
	if err != nil {
		return nil, err
	}
	return &DecodeResult{Record: record, Canonical: text}, nil
}

// Digest computes the configured integrity digest of Input.
func Digest(ctx context.Context, opts CodecOptions) (*DigestResult, error) {
	cfg, err := LoadConfig(opts.Session)
	if err != nil {
		return nil, err
	}
	d, err := integrity.New(cfg.Codec.Digest)
	if err != nil {
		return nil, err
	}

	record, err := codec.Parse(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}
	text, err := codec.Canonical(record)
	if err != nil {
		return nil, err
	}
	return &DigestResult{Hash: d.Sum(text), Digest: d.Name(), Canonical: text}, nil
}

func codecFor(opts SessionOptions) (codec.Codec, integrity.Digester, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	return BuildCodec(cfg, opts.Passphrase)
}

func parseEnvelopeInput(input []byte) (codec.Envelope, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return codec.Envelope{}, fmt.Errorf("%w: empty input", kerrors.ErrDecode)
	}

	if trimmed[0] == '{' || trimmed[0] == '"' {
		var env codec.Envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return codec.Envelope{}, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
		}
		return env, nil
	}
	return codec.Envelope{Data: string(trimmed)}, nil
}
