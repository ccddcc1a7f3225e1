package mesh

import (
	"fmt"

	"github.com/Faultbox/anvil/pkg/encoding"
)

// PackFloatChannel copies values into a slice of exactly capacity entries,
// filling the tail with 0.0.
func PackFloatChannel(values []float64, capacity int) ([]float64, error) {
	if err := checkCapacity(len(values), capacity); err != nil {
		return nil, err
	}
	out := make([]float64, capacity)
	copy(out, values)
	return out, nil
}

// PackBitChannel copies values into a slice of exactly capacity entries,
// filling the tail with all-zero bit strings of the given width. Every
// value must already be width characters long.
func PackBitChannel(values []string, width, capacity int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: bit width %d", ErrShape, width)
	}
	if err := checkCapacity(len(values), capacity); err != nil {
		return nil, err
	}
	out := make([]string, capacity)
	for i, v := range values {
		if len(v) != width {
			return nil, fmt.Errorf("%w: entry %d has %d bits, want %d", ErrShape, i, len(v), width)
		}
		out[i] = v
	}
	for i := len(values); i < capacity; i++ {
		out[i] = encoding.Zeros(width)
	}
	return out, nil
}

// BitRows expands a bit channel into one freshly allocated 0/1 row per
// entry, the layout tensor consumers expect. Rows never share storage.
func BitRows(channel []string) ([][]uint8, error) {
	rows := make([][]uint8, len(channel))
	for i, s := range channel {
		row, err := encoding.ToBitList(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}

func checkCapacity(n, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrCapacity, capacity)
	}
	if n > capacity {
		return fmt.Errorf("%w: %d entries, capacity %d", ErrCapacity, n, capacity)
	}
	return nil
}
