package mesh

import (
	"encoding/json"
	"fmt"

	"github.com/Faultbox/anvil/pkg/encoding"
	"github.com/Faultbox/anvil/pkg/math"
)

// wireMesh is the JSON document exchanged with clients. Field order is the
// wire order.
type wireMesh struct {
	WorldPos math.Vec3   `json:"worldPos"`
	Verts    []math.Vec3 `json:"verts"`
	Indices  []int       `json:"indices"`
}

// MarshalJSON renders the wire document. Non-finite coordinates are
// rejected with encoding.ErrEncoding since JSON cannot represent them.
func (m *Mesh) MarshalJSON() ([]byte, error) {
	if err := m.checkFinite(); err != nil {
		return nil, err
	}
	doc := wireMesh{
		WorldPos: m.WorldPos,
		Verts:    m.Verts,
		Indices:  m.Indices,
	}
	if doc.Verts == nil {
		doc.Verts = []math.Vec3{}
	}
	if doc.Indices == nil {
		doc.Indices = []int{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads a wire document.
func (m *Mesh) UnmarshalJSON(data []byte) error {
	var doc wireMesh
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for i, idx := range doc.Indices {
		if idx < 0 {
			return fmt.Errorf("%w: indices[%d] is negative", encoding.ErrDecoding, i)
		}
	}
	m.WorldPos = doc.WorldPos
	m.Verts = doc.Verts
	m.Indices = doc.Indices
	return nil
}

// ToWire returns the compact JSON wire document of m, for example
//
//	{"worldPos":{"x":1,"y":0,"z":1},"verts":[{"x":5.4,"y":3.8,"z":2.1}],"indices":[0,1,2]}
func (m *Mesh) ToWire() (string, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseWire parses a wire document produced by ToWire.
func ParseWire(data []byte) (*Mesh, error) {
	m := &Mesh{}
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parsing mesh wire document: %w", err)
	}
	return m, nil
}

func (m *Mesh) checkFinite() error {
	if !m.WorldPos.IsFinite() {
		return fmt.Errorf("%w: worldPos %v is not finite", encoding.ErrEncoding, m.WorldPos)
	}
	for i, v := range m.Verts {
		if !v.IsFinite() {
			return fmt.Errorf("%w: verts[%d] %v is not finite", encoding.ErrEncoding, i, v)
		}
	}
	return nil
}
