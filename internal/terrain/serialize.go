package terrain

import (
	"bytes"
	"fmt"
)

// Serialize renders t as {"terrain":[<mesh>, <mesh>, ...]}. Adjacent mesh
// documents are separated by exactly ", ".
func Serialize(t Terrain) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"terrain":[`)
	for i, m := range t {
		if m == nil {
			return nil, &FieldError{Field: "terrain", Index: i, Err: fmt.Errorf("%w: empty slot", ErrGeneration)}
		}
		doc, err := m.MarshalJSON()
		if err != nil {
			return nil, &FieldError{Field: "terrain", Index: i, Err: err}
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.Write(doc)
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}
