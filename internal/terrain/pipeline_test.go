package terrain

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/Faultbox/anvil/pkg/math"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// markerSource proposes a one-vertex mesh whose X records the slot.
type markerSource struct {
	mu    sync.Mutex
	calls []ProposalRequest
	fail  map[int]bool
}

func (s *markerSource) Propose(_ context.Context, req ProposalRequest) (*mesh.Mesh, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.fail[req.Slot] {
		return nil, ErrProposalUnavailable
	}
	return mesh.New(math.Vec3{}, []math.Vec3{{X: float64(req.Slot)}}, []int{0, 0, 0}), nil
}

// listLibrary samples uniformly from a fixed list.
type listLibrary struct {
	meshes []*mesh.Mesh
}

func (l *listLibrary) SampleRandom(rng *rand.Rand) (*mesh.Mesh, error) {
	if len(l.meshes) == 0 {
		return nil, ErrLibraryEmpty
	}
	return l.meshes[rng.IntN(len(l.meshes))], nil
}

func referenceLibrary() *listLibrary {
	return &listLibrary{meshes: []*mesh.Mesh{
		mesh.New(math.Vec3{}, []math.Vec3{{Y: 100}}, []int{0}),
		mesh.New(math.Vec3{}, []math.Vec3{{Y: 200}}, []int{0}),
	}}
}

func testGraph() *Graph {
	return &Graph{
		Islands: []Island{
			{Index: 0, Pos: math.Vec3{X: 2, Z: 5}, Length: 1, Width: 1},
			{Index: 1, Pos: math.Vec3{X: 7, Z: 3}, Length: 2, Width: 3, Elevation: 4},
		},
		Bridges: []Bridge{
			{Pos: math.Vec3{X: 4, Z: 4}, OutNode: 0, InNode: 1},
			{Pos: math.Vec3{X: 9, Z: 9}, OutNode: 1, InNode: 0},
		},
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerate_SlotOrdering(t *testing.T) {
	src := &markerSource{}
	p := NewPipeline(src, nil, Options{Mode: ModeProposal})

	out, err := p.Generate(context.Background(), testGraph(), newRand())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(out) != 4 {
		t.Fatalf("expected 4 meshes, got %d", len(out))
	}
	wantPos := []math.Vec3{{X: 2, Z: 5}, {X: 7, Z: 3}, {X: 4, Z: 4}, {X: 9, Z: 9}}
	for i, m := range out {
		if m.WorldPos != wantPos[i] {
			t.Errorf("slot %d worldPos = %v, want %v", i, m.WorldPos, wantPos[i])
		}
		if m.Verts[0].X != float64(i) {
			t.Errorf("slot %d holds proposal for slot %v", i, m.Verts[0].X)
		}
	}

	if len(src.calls) != 4 {
		t.Fatalf("expected 4 proposals, got %d", len(src.calls))
	}
	if src.calls[1].Element != ElementIsland || src.calls[1].Width != 3 || src.calls[1].Elevation != 4 {
		t.Errorf("island proposal request = %+v", src.calls[1])
	}
	if src.calls[3].Element != ElementBridge || src.calls[3].OutNode != 1 || src.calls[3].Slot != 3 {
		t.Errorf("bridge proposal request = %+v", src.calls[3])
	}
}

func TestGenerate_ReferenceModeOverridesProposal(t *testing.T) {
	src := &markerSource{}
	p := NewPipeline(src, referenceLibrary(), Options{})

	if p.Mode() != ModeReference {
		t.Fatalf("expected default mode %q, got %q", ModeReference, p.Mode())
	}

	out, err := p.Generate(context.Background(), testGraph(), newRand())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(src.calls) != 4 {
		t.Errorf("proposals must still be requested in reference mode, got %d", len(src.calls))
	}
	for i, m := range out {
		if y := m.Verts[0].Y; y != 100 && y != 200 {
			t.Errorf("slot %d is not a reference mesh: %v", i, m.Verts)
		}
	}
	if out[0].WorldPos != (math.Vec3{X: 2, Z: 5}) {
		t.Errorf("reference mesh not placed at island position: %v", out[0].WorldPos)
	}
}

func TestGenerate_ReferenceMeshesAreCopied(t *testing.T) {
	lib := referenceLibrary()
	p := NewPipeline(&markerSource{}, lib, Options{Mode: ModeReference})

	out, err := p.Generate(context.Background(), testGraph(), newRand())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out[0].Verts[0].Y = -1
	out[0].Indices[0] = 42

	for _, m := range lib.meshes {
		if m.Verts[0].Y == -1 || m.Indices[0] == 42 {
			t.Fatal("output mesh shares storage with the library")
		}
	}
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	p := NewPipeline(&markerSource{}, referenceLibrary(), Options{})

	a, err := p.Generate(context.Background(), testGraph(), rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := p.Generate(context.Background(), testGraph(), rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := range a {
		if a[i].Verts[0] != b[i].Verts[0] {
			t.Errorf("slot %d differs between runs with the same seed", i)
		}
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		source  *markerSource
		library MeshLibrary
		kind    Kind
		field   string
		index   int
	}{
		{
			name:    "island proposal",
			source:  &markerSource{fail: map[int]bool{1: true}},
			library: referenceLibrary(),
			kind:    KindProposalUnavailable,
			field:   "island",
			index:   1,
		},
		{
			name:    "bridge proposal",
			source:  &markerSource{fail: map[int]bool{3: true}},
			library: referenceLibrary(),
			kind:    KindProposalUnavailable,
			field:   "bridge",
			index:   1,
		},
		{
			name:    "empty library",
			source:  &markerSource{},
			library: &listLibrary{},
			kind:    KindLibraryEmpty,
			field:   "island",
			index:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.source, tt.library, Options{Mode: ModeReference})
			out, err := p.Generate(context.Background(), testGraph(), newRand())
			if err == nil {
				t.Fatal("expected failure")
			}
			if out != nil {
				t.Error("partial terrain returned on failure")
			}
			if !errors.Is(err, ErrGeneration) {
				t.Errorf("expected ErrGeneration, got %v", err)
			}
			if got := KindOf(err); got != tt.kind {
				t.Errorf("KindOf = %q, want %q", got, tt.kind)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field || fe.Index != tt.index {
				t.Errorf("expected %s %d, got %v", tt.field, tt.index, err)
			}
		})
	}
}

type nilSource struct{}

func (nilSource) Propose(context.Context, ProposalRequest) (*mesh.Mesh, error) { return nil, nil }

func TestGenerate_NilProposal(t *testing.T) {
	p := NewPipeline(nilSource{}, referenceLibrary(), Options{})
	_, err := p.Generate(context.Background(), testGraph(), newRand())
	if !errors.Is(err, ErrProposalUnavailable) {
		t.Errorf("expected ErrProposalUnavailable, got %v", err)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(&markerSource{}, referenceLibrary(), Options{})
	_, err := p.Generate(ctx, testGraph(), newRand())
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrGeneration) {
		t.Errorf("expected cancelled generation error, got %v", err)
	}
}

func TestGenerate_VerifyChannels(t *testing.T) {
	big := mesh.New(math.Vec3{}, make([]math.Vec3, mesh.MaxVerts+1), nil)
	p := NewPipeline(&markerSource{}, &listLibrary{meshes: []*mesh.Mesh{big}}, Options{VerifyChannels: true})

	_, err := p.Generate(context.Background(), testGraph(), newRand())
	if !errors.Is(err, mesh.ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
}

func TestGenerate_ConcurrentRequests(t *testing.T) {
	p := NewPipeline(&markerSource{}, referenceLibrary(), Options{})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			_, err := p.Generate(context.Background(), testGraph(), rand.New(rand.NewPCG(seed, seed)))
			errs <- err
		}(uint64(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Generate failed: %v", err)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"reference", "proposal"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseMode("random"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
