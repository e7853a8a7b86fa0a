package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// Canonical returns the canonical JSON form of record.
//
// Structs, typed maps and json.RawMessage values are marshaled and parsed
// back into generic values first, so two records with the same JSON
// content always produce identical bytes. Numbers are written as the
// float64 they denote, the way JSON.stringify writes them: 1.50 becomes
// 1.5, -0 becomes 0, and literals beyond the float64 range become null.
func Canonical(record any) ([]byte, error) {
	raw, err := marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}

	generic, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}

	out, err := marshal(normalizeNumbers(generic))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSerialization, err)
	}
	return out, nil
}

// Parse decodes a single JSON value. Numbers are kept as json.Number so
// their literal text survives a round trip.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

// normalizeNumbers replaces json.Number literals with their float64 value.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		// ParseFloat reports out-of-range literals as ±Inf or 0 with ErrRange.
		f, _ := strconv.ParseFloat(string(t), 64)
		if math.IsInf(f, 0) {
			return nil
		}
		if f == 0 {
			return 0.0
		}
		return f
	default:
		return v
	}
}

// marshal encodes v without HTML escaping and without a trailing newline.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
