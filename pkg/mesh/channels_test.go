package mesh

import (
	"errors"
	"strings"
	"testing"
)

func TestPackFloatChannel(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		capacity int
	}{
		{"empty", nil, 4},
		{"partial", []float64{1.5, -2}, 4},
		{"full", []float64{1, 2, 3, 4}, 4},
		{"zero capacity", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PackFloatChannel(tt.values, tt.capacity)
			if err != nil {
				t.Fatalf("PackFloatChannel failed: %v", err)
			}
			if len(got) != tt.capacity {
				t.Fatalf("expected length %d, got %d", tt.capacity, len(got))
			}
			for i := range got {
				want := 0.0
				if i < len(tt.values) {
					want = tt.values[i]
				}
				if got[i] != want {
					t.Errorf("slot %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestPackFloatChannel_Overflow(t *testing.T) {
	_, err := PackFloatChannel([]float64{1, 2, 3}, 2)
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	_, err = PackFloatChannel(nil, -1)
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity for negative capacity, got %v", err)
	}
}

func TestPackFloatChannel_DoesNotAliasInput(t *testing.T) {
	in := []float64{1, 2}
	out, err := PackFloatChannel(in, 4)
	if err != nil {
		t.Fatalf("PackFloatChannel failed: %v", err)
	}
	out[0] = 99
	if in[0] != 1 {
		t.Error("packed channel shares storage with its input")
	}
}

func TestPackBitChannel(t *testing.T) {
	values := []string{"1010", "0110"}
	got, err := PackBitChannel(values, 4, 5)
	if err != nil {
		t.Fatalf("PackBitChannel failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected length 5, got %d", len(got))
	}
	if got[0] != "1010" || got[1] != "0110" {
		t.Errorf("prefix not preserved: %v", got[:2])
	}
	for i := 2; i < 5; i++ {
		if got[i] != "0000" {
			t.Errorf("pad slot %d = %q, want 0000", i, got[i])
		}
	}
}

func TestPackBitChannel_Errors(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		width    int
		capacity int
		want     error
	}{
		{"overflow", []string{"01", "10", "11"}, 2, 2, ErrCapacity},
		{"width mismatch", []string{"011"}, 2, 4, ErrShape},
		{"zero width", nil, 0, 4, ErrShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PackBitChannel(tt.values, tt.width, tt.capacity)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBitRows_PaddingRowsAreIndependent(t *testing.T) {
	channel, err := PackBitChannel(nil, 64, 3)
	if err != nil {
		t.Fatalf("PackBitChannel failed: %v", err)
	}
	rows, err := BitRows(channel)
	if err != nil {
		t.Fatalf("BitRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	rows[0][0] = 1
	for i := 1; i < len(rows); i++ {
		if rows[i][0] != 0 {
			t.Errorf("mutating row 0 changed row %d", i)
		}
	}
	if channel[1] != strings.Repeat("0", 64) {
		t.Error("mutating a row changed the source channel")
	}
}

func TestBitRows_Malformed(t *testing.T) {
	if _, err := BitRows([]string{"01", "0x"}); err == nil {
		t.Error("expected error for malformed row")
	}
}
