package mesh

import (
	"fmt"

	"github.com/Faultbox/anvil/pkg/encoding"
	"github.com/Faultbox/anvil/pkg/math"
)

// Encoded holds the derived channel representations of a mesh. Every
// padded channel has a fixed length regardless of the vertex count.
type Encoded struct {
	// VertBits is the unpadded x0,y0,z0,x1,... sequence of 64-bit strings.
	VertBits []string
	// IndexBits holds each index as a 16-bit string, unpadded.
	IndexBits []string

	// Interleaved and InterleavedBits hold x0,y0,z0,... padded to 3*MaxVerts.
	Interleaved     []float64
	InterleavedBits []string

	// Per-axis channels, padded to MaxVerts.
	X, Y, Z             []float64
	XBits, YBits, ZBits []string
}

// Encode derives the float and bit channels of m.
func Encode(m *Mesh) (*Encoded, error) {
	if len(m.Verts) > MaxVerts {
		return nil, fmt.Errorf("%w: %d vertices, capacity %d", ErrCapacity, len(m.Verts), MaxVerts)
	}

	n := len(m.Verts)
	vertBits := make([]string, 0, 3*n)
	interleaved := make([]float64, 0, 3*n)
	var axes [3][]float64
	var axisBits [3][]string
	for a := range axes {
		axes[a] = make([]float64, 0, n)
		axisBits[a] = make([]string, 0, n)
	}

	for i, v := range m.Verts {
		for a, c := range v.Components() {
			bits, err := encoding.FloatToBits(c)
			if err != nil {
				return nil, fmt.Errorf("vertex %d axis %c: %w", i, "xyz"[a], err)
			}
			vertBits = append(vertBits, bits)
			interleaved = append(interleaved, c)
			axes[a] = append(axes[a], c)
			axisBits[a] = append(axisBits[a], bits)
		}
	}

	enc := &Encoded{VertBits: vertBits}
	var err error
	if enc.Interleaved, err = PackFloatChannel(interleaved, 3*MaxVerts); err != nil {
		return nil, err
	}
	if enc.InterleavedBits, err = PackBitChannel(vertBits, encoding.FloatWidth, 3*MaxVerts); err != nil {
		return nil, err
	}

	floats := [3]*[]float64{&enc.X, &enc.Y, &enc.Z}
	bitChans := [3]*[]string{&enc.XBits, &enc.YBits, &enc.ZBits}
	for a := range axes {
		if *floats[a], err = PackFloatChannel(axes[a], MaxVerts); err != nil {
			return nil, err
		}
		if *bitChans[a], err = PackBitChannel(axisBits[a], encoding.FloatWidth, MaxVerts); err != nil {
			return nil, err
		}
	}

	enc.IndexBits = make([]string, len(m.Indices))
	for i, idx := range m.Indices {
		if enc.IndexBits[i], err = encoding.IntToBits16(idx); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}

	return enc, nil
}

// Decode rebuilds vertices and indices from unpadded bit sequences. The
// vertex sequence must hold whole x,y,z triples. The result has a zero
// world position.
func Decode(vertBits, indexBits []string) (*Mesh, error) {
	if len(vertBits)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertex components is not a multiple of 3", ErrShape, len(vertBits))
	}

	m := &Mesh{
		Verts:   make([]math.Vec3, len(vertBits)/3),
		Indices: make([]int, len(indexBits)),
	}
	for i := range m.Verts {
		var c [3]float64
		for a := range c {
			f, err := encoding.BitsToFloat(vertBits[3*i+a])
			if err != nil {
				return nil, fmt.Errorf("vertex %d axis %c: %w", i, "xyz"[a], err)
			}
			c[a] = f
		}
		m.Verts[i] = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}

	for i, s := range indexBits {
		n, err := encoding.BitsToInt(s)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		m.Indices[i] = n
	}

	return m, nil
}
