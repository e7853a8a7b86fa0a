package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"pgregory.net/rapid"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, keySize)
}

func TestSealed_RoundTripProperty(t *testing.T) {
	c, err := NewSealedFromKey(testKey(1))
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		record := jsonValue(3).Draw(t, "record")

		env, err := c.Encode(record)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.Decode(env)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !reflect.DeepEqual(got, record) {
			t.Fatalf("Round trip mismatch: got %#v, want %#v", got, record)
		}
	})
}

func TestSealed_HandlesFullUnicode(t *testing.T) {
	c, err := NewSealedFromKey(testKey(2))
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}

	env, err := c.Encode(map[string]any{"emoji": "😀€"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if env.Version != SealedVersion {
		t.Errorf("Expected version %s, got: %s", SealedVersion, env.Version)
	}
	got, err := c.Decode(env)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.(map[string]any)["emoji"] != "😀€" {
		t.Errorf("Unexpected decode result: %#v", got)
	}
}

func TestSealed_RejectsTamperingAndWrongKey(t *testing.T) {
	c, err := NewSealedFromKey(testKey(3))
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}
	env, err := c.Encode([]any{"secret"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(env.Data)
	raw[len(raw)-1] ^= 0x01
	tampered := env
	tampered.Data = base64.StdEncoding.EncodeToString(raw)
	if _, err := c.Decode(tampered); !errors.Is(err, kerrors.ErrDecode) {
		t.Errorf("Expected ErrDecode for tampered data, got: %v", err)
	}

	other, _ := NewSealedFromKey(testKey(4))
	if _, err := other.Decode(env); !errors.Is(err, kerrors.ErrDecode) {
		t.Errorf("Expected ErrDecode for wrong key, got: %v", err)
	}

	if _, err := DecodeText(c, base64.StdEncoding.EncodeToString([]byte("short"))); !errors.Is(err, kerrors.ErrDecode) {
		t.Errorf("Expected ErrDecode for short data, got: %v", err)
	}
}

func TestSealed_NonDeterministic(t *testing.T) {
	c, _ := NewSealedFromKey(testKey(5))
	a, _ := c.Encode("same")
	b, _ := c.Encode("same")
	if a.Data == b.Data {
		t.Errorf("Expected different ciphertexts for repeated encryption")
	}
}

func TestNewSealed_DerivesStableKey(t *testing.T) {
	a, err := NewSealed([]byte("correct horse"), []byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := NewSealed([]byte("correct horse"), []byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	env, err := a.Encode(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := b.Decode(env); err != nil {
		t.Errorf("Expected same passphrase and salt to decode, got: %v", err)
	}

	if _, err := NewSealedFromKey([]byte("short")); !errors.Is(err, kerrors.ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got: %v", err)
	}
}
