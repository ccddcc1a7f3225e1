package terrain

import (
	"context"
	"encoding/json"
	"errors"
	stdmath "math"
	"strings"
	"testing"

	"github.com/Faultbox/anvil/pkg/encoding"
	"github.com/Faultbox/anvil/pkg/math"
	"github.com/Faultbox/anvil/pkg/mesh"
)

func TestSerialize_JoinsWireDocuments(t *testing.T) {
	a := mesh.New(math.Vec3{X: 1, Z: 1}, []math.Vec3{{X: 5.4, Y: 3.8, Z: 2.1}}, []int{0, 1, 2})
	b := mesh.Cube(math.Vec3{X: -3})

	got, err := Serialize(Terrain{a, b})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	wa, _ := a.ToWire()
	wb, _ := b.ToWire()
	want := `{"terrain":[` + wa + `, ` + wb + `]}`
	if string(got) != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, want)
	}
	if !json.Valid(got) {
		t.Error("terrain document is not valid JSON")
	}
}

func TestSerialize_Empty(t *testing.T) {
	got, err := Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(got) != `{"terrain":[]}` {
		t.Errorf("Serialize(nil) = %s", got)
	}
}

func TestSerialize_SingleEntryHasNoSeparator(t *testing.T) {
	got, err := Serialize(Terrain{mesh.Cube(math.Vec3{})})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(string(got), "}, {\"worldPos\"") || strings.HasSuffix(string(got), ", ]}") {
		t.Errorf("unexpected separator in %s", got)
	}
}

func TestSerialize_RejectsNonFinite(t *testing.T) {
	bad := mesh.New(math.Vec3{}, []math.Vec3{{X: stdmath.Inf(1)}}, nil)
	_, err := Serialize(Terrain{mesh.Cube(math.Vec3{}), bad})
	if !errors.Is(err, encoding.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Index != 1 {
		t.Errorf("expected failure at slot 1, got %v", err)
	}
}

func TestSerialize_RejectsEmptySlot(t *testing.T) {
	if _, err := Serialize(Terrain{nil}); !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestEndToEnd_SingleIsland(t *testing.T) {
	req := mustParse(t, `{"nodes": [{"index": 0, "pos": {"x": 2, "y": 5}, "length": 1, "width": 1, "elevation": 0}], "connections": []}`)
	g, err := Assemble(req)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	p := NewPipeline(&markerSource{}, referenceLibrary(), Options{})
	out, err := p.Generate(context.Background(), g, newRand())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	body, err := Serialize(out)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var doc struct {
		Terrain []struct {
			WorldPos math.Vec3 `json:"worldPos"`
		} `json:"terrain"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(doc.Terrain) != 1 {
		t.Fatalf("expected 1 terrain entry, got %d", len(doc.Terrain))
	}
	if doc.Terrain[0].WorldPos != (math.Vec3{X: 2, Y: 0, Z: 5}) {
		t.Errorf("worldPos = %v, want {2 0 5}", doc.Terrain[0].WorldPos)
	}
}
