package encoding

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestFloatToBits_KnownPatterns(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, strings.Repeat("0", 64)},
		{1, "0011111111110000000000000000000000000000000000000000000000000000"},
		{-2, "1100000000000000000000000000000000000000000000000000000000000000"},
		{1.5, "0011111111111000000000000000000000000000000000000000000000000000"},
	}

	for _, tt := range tests {
		got, err := FloatToBits(tt.v)
		if err != nil {
			t.Fatalf("FloatToBits(%v) failed: %v", tt.v, err)
		}
		if got != tt.want {
			t.Errorf("FloatToBits(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float64{
		0, math.Copysign(0, -1), 1, -1, 1.5, -2.25, 0.1, 5.4, 0.52, -2.1,
		math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Pi, 1e-300, 123456789.987654321,
	}

	for _, v := range values {
		bits, err := FloatToBits(v)
		if err != nil {
			t.Fatalf("FloatToBits(%v) failed: %v", v, err)
		}
		if len(bits) != FloatWidth {
			t.Errorf("FloatToBits(%v) length = %d, want %d", v, len(bits), FloatWidth)
		}
		got, err := BitsToFloat(bits)
		if err != nil {
			t.Fatalf("BitsToFloat(%s) failed: %v", bits, err)
		}
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}

func TestFloatToBits_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FloatToBits(v); !errors.Is(err, ErrEncoding) {
			t.Errorf("FloatToBits(%v) error = %v, want ErrEncoding", v, err)
		}
	}
}

func TestBitsToFloat_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", strings.Repeat("0", 63)},
		{"long", strings.Repeat("1", 65)},
		{"bad char", strings.Repeat("0", 63) + "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BitsToFloat(tt.in); !errors.Is(err, ErrDecoding) {
				t.Errorf("BitsToFloat(%q) error = %v, want ErrDecoding", tt.in, err)
			}
		})
	}
}

func TestIntToBits16(t *testing.T) {
	got, err := IntToBits16(42)
	if err != nil {
		t.Fatalf("IntToBits16(42) failed: %v", err)
	}
	if got != "0000000000101010" {
		t.Errorf("IntToBits16(42) = %s, want 0000000000101010", got)
	}

	n, err := BitsToInt("0000000000101010")
	if err != nil {
		t.Fatalf("BitsToInt failed: %v", err)
	}
	if n != 42 {
		t.Errorf("BitsToInt = %d, want 42", n)
	}
}

func TestIntRoundTrip_FullRange(t *testing.T) {
	for n := 0; n <= MaxInt16; n++ {
		bits, err := IntToBits16(n)
		if err != nil {
			t.Fatalf("IntToBits16(%d) failed: %v", n, err)
		}
		if len(bits) != IntWidth {
			t.Fatalf("IntToBits16(%d) length = %d", n, len(bits))
		}
		got, err := BitsToInt(bits)
		if err != nil {
			t.Fatalf("BitsToInt(%s) failed: %v", bits, err)
		}
		if got != n {
			t.Fatalf("round trip of %d = %d", n, got)
		}
	}
}

func TestIntToBits16_OutOfRange(t *testing.T) {
	for _, n := range []int{-1, MaxInt16 + 1, 1 << 20} {
		if _, err := IntToBits16(n); !errors.Is(err, ErrRange) {
			t.Errorf("IntToBits16(%d) error = %v, want ErrRange", n, err)
		}
	}
}

func TestBitsToInt_AnyLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"101", 5},
		{"11111111111111111", 131071},
	}

	for _, tt := range tests {
		got, err := BitsToInt(tt.in)
		if err != nil {
			t.Fatalf("BitsToInt(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("BitsToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBitsToInt_Malformed(t *testing.T) {
	for _, in := range []string{"", "10a1", " 101", strings.Repeat("1", 65)} {
		if _, err := BitsToInt(in); !errors.Is(err, ErrDecoding) {
			t.Errorf("BitsToInt(%q) error = %v, want ErrDecoding", in, err)
		}
	}
}

func TestToBitList(t *testing.T) {
	got, err := ToBitList("1011")
	if err != nil {
		t.Fatalf("ToBitList failed: %v", err)
	}
	want := []uint8{1, 0, 1, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d bits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := ToBitList("10x"); !errors.Is(err, ErrDecoding) {
		t.Errorf("expected ErrDecoding, got %v", err)
	}
}
