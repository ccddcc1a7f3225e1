// Package proposal provides mesh proposal sources for the generation
// pipeline. Every source here is read-only after construction.
package proposal

import (
	"context"
	"fmt"

	"github.com/Faultbox/anvil/internal/terrain"
	"github.com/Faultbox/anvil/pkg/formats"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// Cube proposes the placeholder cube at the requested position.
type Cube struct{}

// Propose implements terrain.ProposalSource.
func (Cube) Propose(_ context.Context, req terrain.ProposalRequest) (*mesh.Mesh, error) {
	return mesh.Cube(req.Pos), nil
}

// File proposes a copy of one mesh read from disk at construction.
type File struct {
	path string
	mesh *mesh.Mesh
}

// NewFile loads the mesh at path.
func NewFile(path string) (*File, error) {
	m, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("loading proposal mesh: %w", err)
	}
	return &File{path: path, mesh: m}, nil
}

// Path returns the source file.
func (f *File) Path() string {
	return f.path
}

// Propose implements terrain.ProposalSource.
func (f *File) Propose(_ context.Context, req terrain.ProposalRequest) (*mesh.Mesh, error) {
	m := f.mesh.Clone()
	m.WorldPos = req.Pos
	return m, nil
}

// ByKind routes islands and bridges to separate sources. A nil source
// makes that element kind unavailable.
type ByKind struct {
	Islands terrain.ProposalSource
	Bridges terrain.ProposalSource
}

// Propose implements terrain.ProposalSource.
func (b ByKind) Propose(ctx context.Context, req terrain.ProposalRequest) (*mesh.Mesh, error) {
	var src terrain.ProposalSource
	switch req.Element {
	case terrain.ElementIsland:
		src = b.Islands
	case terrain.ElementBridge:
		src = b.Bridges
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source for %s", terrain.ErrProposalUnavailable, req.Element)
	}
	return src.Propose(ctx, req)
}

// Source names accepted by New.
const (
	SourceCube = "cube"
	SourceFile = "file"
)

// New builds the island source named by kind. Bridges always use Cube.
func New(kind, islandFile string) (terrain.ProposalSource, error) {
	var islands terrain.ProposalSource
	switch kind {
	case SourceCube:
		islands = Cube{}
	case SourceFile:
		f, err := NewFile(islandFile)
		if err != nil {
			return nil, err
		}
		islands = f
	default:
		return nil, fmt.Errorf("unknown proposal source %q", kind)
	}
	return ByKind{Islands: islands, Bridges: Cube{}}, nil
}
