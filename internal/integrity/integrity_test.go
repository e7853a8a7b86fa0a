package integrity

import (
	"encoding/json"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"pgregory.net/rapid"
)

func TestLegacy_KnownVectors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"a", "61"},
		{"hello world", "6aefe2c4"},
		{`{"a":1}`, "55f58602"},
		{`{"a":1,"b":[true,null,"s"]}`, "3a7547f4"},
	}

	for _, tt := range tests {
		if got := (Legacy{}).Sum([]byte(tt.input)); got != tt.want {
			t.Errorf("Sum(%q): expected %s, got: %s", tt.input, tt.want, got)
		}
	}
}

func TestLegacy_MinInt32IsPositive(t *testing.T) {
	// Folds to exactly 0x80000000, which has no int32 negation.
	input := "dzevu\ud7f0\ud7e2"
	if got := (Legacy{}).Sum([]byte(input)); got != "80000000" {
		t.Errorf("Expected 80000000, got: %s", got)
	}
}

func TestLegacy_CountsUTF16Units(t *testing.T) {
	// U+1F600 is the surrogate pair D83D DE00.
	want := int64(int32(0xD83D)*31 + int32(0xDE00))
	if want < 0 {
		want = -want
	}
	got := (Legacy{}).Sum([]byte("😀"))
	if got != formatHex(want) {
		t.Errorf("Expected %s, got: %s", formatHex(want), got)
	}
}

func formatHex(v int64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	var out []byte
	for v > 0 {
		out = append([]byte{digits[v%16]}, out...)
		v /= 16
	}
	return string(out)
}

func TestDigest_DeterministicProperty(t *testing.T) {
	for _, d := range []Digester{Legacy{}, Blake2b{}} {
		t.Run(d.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				m := rapid.MapOf(rapid.String(), rapid.Int()).Draw(t, "record")

				a, err := Digest(d, m)
				if err != nil {
					t.Fatalf("Digest failed: %v", err)
				}
				b, err := Digest(d, m)
				if err != nil {
					t.Fatalf("Digest failed: %v", err)
				}
				if a != b {
					t.Fatalf("Digest not stable: %s vs %s", a, b)
				}
			})
		})
	}
}

func TestDigest_KeyOrderIndependent(t *testing.T) {
	a, err := Digest(Legacy{}, json.RawMessage(`{"b":2,"a":1}`))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := Digest(Legacy{}, map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if a != b {
		t.Errorf("Expected equal digests, got: %s and %s", a, b)
	}
}

func TestVerify(t *testing.T) {
	record := map[string]any{"a": 1}
	sum, err := Digest(Legacy{}, record)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if sum != "55f58602" {
		t.Errorf("Expected 55f58602, got: %s", sum)
	}

	if err := Verify(Legacy{}, record, sum); err != nil {
		t.Errorf("Expected verification to pass, got: %v", err)
	}
	if err := Verify(Legacy{}, record, "55f58603"); !errors.Is(err, kerrors.ErrIntegrityMismatch) {
		t.Errorf("Expected ErrIntegrityMismatch, got: %v", err)
	}
	if err := Verify(Legacy{}, make(chan int), sum); !errors.Is(err, kerrors.ErrSerialization) {
		t.Errorf("Expected ErrSerialization, got: %v", err)
	}
}

func TestNew(t *testing.T) {
	d, err := New("")
	if err != nil || d.Name() != DigestLegacy {
		t.Errorf("Expected legacy default, got: %v, %v", d, err)
	}
	d, err = New(DigestBlake2b)
	if err != nil || len(d.Sum([]byte("x"))) != 64 {
		t.Errorf("Expected 64 hex chars from blake2b, got: %v, %v", d, err)
	}
	if _, err := New("md5"); !errors.Is(err, kerrors.ErrUnknownDigest) {
		t.Errorf("Expected ErrUnknownDigest, got: %v", err)
	}
}
