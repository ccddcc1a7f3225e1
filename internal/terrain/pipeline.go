package terrain

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/pkg/math"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// Element is the kind of graph element a mesh is resolved for.
type Element int

const (
	ElementIsland Element = iota
	ElementBridge
)

// String returns the element name.
func (e Element) String() string {
	switch e {
	case ElementIsland:
		return "island"
	case ElementBridge:
		return "bridge"
	default:
		return fmt.Sprintf("Element(%d)", int(e))
	}
}

// ProposalRequest carries the parameters a mesh is proposed for.
type ProposalRequest struct {
	Element   Element
	Slot      int
	Pos       math.Vec3
	Length    float64 // islands only
	Width     float64 // islands only
	Elevation float64 // islands only
	OutNode   int     // bridges only
	InNode    int     // bridges only
}

// ProposalSource proposes a candidate mesh. Implementations must be safe for
// concurrent use.
type ProposalSource interface {
	Propose(ctx context.Context, req ProposalRequest) (*mesh.Mesh, error)
}

// MeshLibrary yields reference meshes. Implementations must be safe for
// concurrent use and must not retain rng.
type MeshLibrary interface {
	SampleRandom(rng *rand.Rand) (*mesh.Mesh, error)
}

// Mode selects which mesh becomes the output for an element.
type Mode string

const (
	// ModeReference requests a proposal, then replaces it with a reference
	// mesh drawn uniformly from the library.
	ModeReference Mode = "reference"
	// ModeProposal uses the proposal directly. The library is not consulted.
	ModeProposal Mode = "proposal"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReference, ModeProposal:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown generation mode %q", s)
	}
}

// Options configure a Pipeline.
type Options struct {
	Mode Mode
	// VerifyChannels encodes every resolved mesh and fails the request if
	// it does not fit the fixed channels.
	VerifyChannels bool
}

// Terrain is the ordered output: islands by index, then bridges in request
// order.
type Terrain []*mesh.Mesh

// Pipeline resolves a Graph to a Terrain. It holds no per-request state and
// may serve concurrent requests.
type Pipeline struct {
	source  ProposalSource
	library MeshLibrary
	opts    Options
}

// NewPipeline creates a pipeline. An empty Mode defaults to ModeReference.
func NewPipeline(source ProposalSource, library MeshLibrary, opts Options) *Pipeline {
	if opts.Mode == "" {
		opts.Mode = ModeReference
	}
	return &Pipeline{source: source, library: library, opts: opts}
}

// Mode returns the configured mode.
func (p *Pipeline) Mode() Mode {
	return p.opts.Mode
}

// Generate resolves every island and bridge of g. rng must be local to the
// request. Any failure aborts the whole request and no terrain is returned.
func (p *Pipeline) Generate(ctx context.Context, g *Graph, rng *rand.Rand) (Terrain, error) {
	out := make(Terrain, len(g.Islands)+len(g.Bridges))

	for _, island := range g.Islands {
		m, err := p.resolve(ctx, ProposalRequest{
			Element:   ElementIsland,
			Slot:      island.Index,
			Pos:       island.Pos,
			Length:    island.Length,
			Width:     island.Width,
			Elevation: island.Elevation,
		}, rng)
		if err != nil {
			return nil, &FieldError{Field: "island", Index: island.Index, Err: err}
		}
		out[island.Index] = m
	}

	base := len(g.Islands)
	for i, bridge := range g.Bridges {
		m, err := p.resolve(ctx, ProposalRequest{
			Element: ElementBridge,
			Slot:    base + i,
			Pos:     bridge.Pos,
			OutNode: bridge.OutNode,
			InNode:  bridge.InNode,
		}, rng)
		if err != nil {
			return nil, &FieldError{Field: "bridge", Index: i, Err: err}
		}
		out[base+i] = m
	}

	logger.Debug("terrain generated",
		zap.Int("islands", len(g.Islands)),
		zap.Int("bridges", len(g.Bridges)),
		zap.String("mode", string(p.opts.Mode)))

	return out, nil
}

// resolve returns a mesh owned by the caller, placed at req.Pos.
func (p *Pipeline) resolve(ctx context.Context, req ProposalRequest, rng *rand.Rand) (*mesh.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	proposal, err := p.source.Propose(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: proposing %s mesh: %w", ErrGeneration, req.Element, err)
	}
	if proposal == nil {
		return nil, fmt.Errorf("%w: %w: no %s mesh proposed", ErrGeneration, ErrProposalUnavailable, req.Element)
	}

	chosen := proposal
	if p.opts.Mode == ModeReference {
		ref, err := p.library.SampleRandom(rng)
		if err != nil {
			return nil, fmt.Errorf("%w: sampling reference mesh: %w", ErrGeneration, err)
		}
		chosen = ref
	}

	m := mesh.New(req.Pos, chosen.Verts, chosen.Indices)
	if p.opts.VerifyChannels {
		if _, err := mesh.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding %s mesh: %w", req.Element, err)
		}
	}

	logger.Debug("mesh resolved",
		zap.Stringer("element", req.Element),
		zap.Int("slot", req.Slot),
		zap.Int("verts", m.VertexCount()),
		zap.Int("indices", len(m.Indices)))

	return m, nil
}
