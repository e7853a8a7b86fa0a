package codec

import (
	"fmt"
	"unicode/utf16"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// DefaultShift is the code unit offset applied by the legacy codec.
const DefaultShift = 7

// Obscure adds shift to every UTF-16 code unit of text and packs each
// result into one byte. A unit outside 0..255 after shifting fails with
// ErrShiftOverflow.
func Obscure(text []byte, shift int) ([]byte, error) {
	units := utf16.Encode([]rune(string(text)))
	out := make([]byte, len(units))
	for i, u := range units {
		v := int(u) + shift
		if v < 0 || v > 0xFF {
			return nil, fmt.Errorf("%w: code unit U+%04X at offset %d", kerrors.ErrShiftOverflow, u, i)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// Reveal reverses Obscure. Each byte is a code unit; shift is subtracted
// and the units are decoded back to UTF-8 text.
func Reveal(data []byte, shift int) ([]byte, error) {
	units := make([]uint16, len(data))
	for i, b := range data {
		v := int(b) - shift
		if v < 0 || v > 0xFFFF {
			return nil, fmt.Errorf("%w: byte 0x%02X at offset %d", kerrors.ErrDecode, b, i)
		}
		units[i] = uint16(v)
	}
	return []byte(string(utf16.Decode(units))), nil
}
