package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"pgregory.net/rapid"
)

// alphabet stays below U+00F9 so every character survives the shift.
const alphabet = "abcXYZ019 _-.,:;{}[]\"\\/<>&'\n\t\x01éñàç"

func jsonValue(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		maxKind := 5
		if depth <= 0 {
			maxKind = 3
		}
		switch rapid.IntRange(0, maxKind).Draw(t, "kind") {
		case 0:
			return nil
		case 1:
			return rapid.Bool().Draw(t, "bool")
		case 2:
			return json.Number(strconv.Itoa(rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "number")))
		case 3:
			return rapid.StringOf(rapid.RuneFrom([]rune(alphabet))).Draw(t, "string")
		case 4:
			n := rapid.IntRange(0, 4).Draw(t, "len")
			items := make([]any, n)
			for i := range items {
				items[i] = jsonValue(depth-1).Draw(t, "item")
			}
			return items
		default:
			n := rapid.IntRange(0, 4).Draw(t, "len")
			obj := make(map[string]any, n)
			for i := 0; i < n; i++ {
				key := rapid.StringOf(rapid.RuneFrom([]rune(alphabet))).Draw(t, "key")
				obj[key] = jsonValue(depth-1).Draw(t, "value")
			}
			return obj
		}
	})
}

func fixedClock() time.Time {
	return time.UnixMilli(1_700_000_000_000)
}

func TestLegacy_RoundTripProperty(t *testing.T) {
	c := NewLegacy()
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

func TestLegacy_KnownVector(t *testing.T) {
	c := NewLegacy()
	c.now = fixedClock

	env, err := c.Encode(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if env.Data != "giloKUE4hA==" {
		t.Errorf("Expected data giloKUE4hA==, got: %s", env.Data)
	}
	if env.Version != LegacyVersion {
		t.Errorf("Expected version %s, got: %s", LegacyVersion, env.Version)
	}
	if env.Timestamp != 1_700_000_000_000 {
		t.Errorf("Expected timestamp from clock, got: %d", env.Timestamp)
	}
}

func TestLegacy_ScenarioRecord(t *testing.T) {
	c := NewLegacy()
	record := map[string]any{"a": 1, "b": []any{true, nil, "s"}}

	env, err := c.Encode(record)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if env.Data != "giloKUE4MylpKUFie3l8bDN1fHNzMyl6KWSE" {
		t.Errorf("Unexpected encoding: %s", env.Data)
	}

	got, err := c.Decode(env)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := map[string]any{"a": json.Number("1"), "b": []any{true, nil, "s"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %#v, got: %#v", want, got)
	}
}

func TestLegacy_ShiftOverflow(t *testing.T) {
	c := NewLegacy()

	for _, s := range []string{"ù", "ÿ", "€", "😀"} {
		_, err := c.Encode(map[string]any{"v": s})
		if !errors.Is(err, kerrors.ErrShiftOverflow) {
			t.Errorf("Expected ErrShiftOverflow for %q, got: %v", s, err)
		}
		if !errors.Is(err, kerrors.ErrSerialization) {
			t.Errorf("Expected ErrSerialization for %q, got: %v", s, err)
		}
	}

	// U+00F8 is the last code unit that still fits.
	if _, err := c.Encode("ø"); err != nil {
		t.Errorf("Expected U+00F8 to encode, got: %v", err)
	}
}

func TestLegacy_DecodeErrors(t *testing.T) {
	c := NewLegacy()

	tests := []struct {
		name string
		data string
	}{
		{"malformed base64", "not base64!"},
		{"below shift range", base64.StdEncoding.EncodeToString([]byte{0x01, 0x02})},
		{"not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"trailing data", base64.StdEncoding.EncodeToString([]byte{0x38, 0x27, 0x38})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeText(c, tt.data)
			if !errors.Is(err, kerrors.ErrDecode) {
				t.Errorf("Expected ErrDecode, got: %v", err)
			}
		})
	}
}

func TestCanonical_SortsKeysAndKeepsHTML(t *testing.T) {
	type sample struct {
		Zeta  string `json:"zeta"`
		Alpha int    `json:"alpha"`
	}

	got, err := Canonical(sample{Zeta: "<b>&</b>", Alpha: 2})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := `{"alpha":2,"zeta":"<b>&</b>"}`
	if string(got) != want {
		t.Errorf("Expected %s, got: %s", want, got)
	}

	raw, err := Canonical(json.RawMessage(`{ "zeta": "<b>&</b>", "alpha": 2 }`))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(raw) != want {
		t.Errorf("Expected raw JSON to canonicalize to %s, got: %s", want, raw)
	}
}

func TestCanonical_NormalizesNumbers(t *testing.T) {
	tests := map[string]string{
		`[1.50,1e3,-0]`:               `[1.5,1000,0]`,
		`{"big":1e400,"tiny":1e-400}`: `{"big":null,"tiny":0}`,
		`[1e21,0.0000001,1.0]`:        `[1e+21,1e-7,1]`,
		`12345678901234567890`:        `12345678901234567000`,
	}
	for in, want := range tests {
		got, err := Canonical(json.RawMessage(in))
		if err != nil {
			t.Fatalf("%s: expected no error, got: %v", in, err)
		}
		if string(got) != want {
			t.Errorf("%s: expected %s, got: %s", in, want, got)
		}
	}
}

func TestCanonical_RejectsUnserializable(t *testing.T) {
	for name, v := range map[string]any{
		"channel": make(chan int),
		"func":    func() {},
		"nan":     map[string]any{"n": nanValue()},
	} {
		if _, err := Canonical(v); !errors.Is(err, kerrors.ErrSerialization) {
			t.Errorf("%s: expected ErrSerialization, got: %v", name, err)
		}
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}

func TestEnvelope_UnmarshalAcceptsString(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`"giloKUE4hA=="`), &env); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if env.Data != "giloKUE4hA==" || env.Version != "" {
		t.Errorf("Unexpected envelope: %+v", env)
	}

	if err := json.Unmarshal([]byte(`{"data":"x","version":"2.0","timestamp":5}`), &env); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if env.Data != "x" || env.Version != "2.0" || env.Timestamp != 5 {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}

func TestNew_SelectsCodec(t *testing.T) {
	c, err := New("", Options{})
	if err != nil || c.Name() != CipherShift {
		t.Errorf("Expected default shift codec, got: %v, %v", c, err)
	}

	if _, err := New("rot13", Options{}); !errors.Is(err, kerrors.ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec, got: %v", err)
	}

	if _, err := New(CipherSecretbox, Options{Salt: []byte("salt")}); !errors.Is(err, kerrors.ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey for empty passphrase, got: %v", err)
	}
}
