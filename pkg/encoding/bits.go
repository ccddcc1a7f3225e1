// Package encoding converts numbers to and from fixed-width '0'/'1' bit
// strings, the form mesh channels are exchanged in.
package encoding

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Codec errors.
var (
	ErrEncoding = errors.New("encoding error")
	ErrDecoding = errors.New("decoding error")
	ErrRange    = errors.New("value out of range")
)

const (
	// FloatWidth is the bit width of an encoded float64.
	FloatWidth = 64
	// IntWidth is the bit width of an encoded index.
	IntWidth = 16
	// MaxInt16 is the largest value IntToBits16 accepts.
	MaxInt16 = 1<<IntWidth - 1
)

// FloatToBits returns the IEEE-754 big-endian bit pattern of v as 64 '0'/'1'
// characters, most significant bit first. NaN and infinities are rejected.
func FloatToBits(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: non-finite float %v", ErrEncoding, v)
	}
	return pad(strconv.FormatUint(math.Float64bits(v), 2), FloatWidth), nil
}

// BitsToFloat is the exact inverse of FloatToBits.
func BitsToFloat(s string) (float64, error) {
	if len(s) != FloatWidth {
		return 0, fmt.Errorf("%w: float bit string has %d characters, want %d", ErrDecoding, len(s), FloatWidth)
	}
	u, err := parseBits(s)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// IntToBits16 returns n as a zero-padded 16 character bit string.
func IntToBits16(n int) (string, error) {
	if n < 0 || n > MaxInt16 {
		return "", fmt.Errorf("%w: %d does not fit in %d bits", ErrRange, n, IntWidth)
	}
	return pad(strconv.FormatUint(uint64(n), 2), IntWidth), nil
}

// BitsToInt parses a bit string of any length as an unsigned integer.
func BitsToInt(s string) (int, error) {
	u, err := parseBits(s)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt {
		return 0, fmt.Errorf("%w: %q overflows int", ErrDecoding, s)
	}
	return int(u), nil
}

// ToBitList expands a bit string into one 0/1 value per character.
func ToBitList(s string) ([]uint8, error) {
	out := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("%w: invalid character %q at %d", ErrDecoding, s[i], i)
		}
	}
	return out, nil
}

// Zeros returns a bit string of width zero bits.
func Zeros(width int) string {
	return strings.Repeat("0", width)
}

func parseBits(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty bit string", ErrDecoding)
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return 0, fmt.Errorf("%w: invalid character %q at %d", ErrDecoding, s[i], i)
		}
	}
	u, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return u, nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
