// Package terrain turns an island/bridge graph into an ordered collection of
// meshes and renders it as a wire document.
package terrain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Faultbox/anvil/pkg/math"
)

// Island is a terrain node. Index is its output slot, not its position in
// the request.
type Island struct {
	Index     int
	Pos       math.Vec3
	Length    float64
	Width     float64
	Elevation float64
}

// Bridge connects two islands by index.
type Bridge struct {
	Pos     math.Vec3
	OutNode int
	InNode  int
}

// Graph is an assembled request. Islands[i].Index == i for every i.
type Graph struct {
	Islands []Island
	Bridges []Bridge

	// Warnings lists bridges whose endpoints do not name an island.
	Warnings []string
}

// Request is the inbound JSON document. Pointer fields distinguish absent
// values from zero values.
type Request struct {
	Nodes       *[]NodeDesc      `json:"nodes"`
	Connections []ConnectionDesc `json:"connections"`
}

// NodeDesc describes one island.
type NodeDesc struct {
	Index     *int     `json:"index"`
	Pos       *PosDesc `json:"pos"`
	Length    *float64 `json:"length"`
	Width     *float64 `json:"width"`
	Elevation *float64 `json:"elevation"`
}

// ConnectionDesc describes one bridge.
type ConnectionDesc struct {
	Pos     *PosDesc `json:"pos"`
	OutNode *int     `json:"outNode"`
	InNode  *int     `json:"inNode"`
}

// PosDesc is a ground-plane position; Y maps to world Z.
type PosDesc struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// ParseRequest decodes the inbound JSON document.
func ParseRequest(data []byte) (*Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed request body: %v", ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after request body", ErrValidation)
	}
	return &req, nil
}

// Assemble validates req and places every island at its own index.
//
// The island indices must be exactly 0..N-1. Bridges keep request order;
// endpoints that name no island are reported in Graph.Warnings but do not
// fail the request.
func Assemble(req *Request) (*Graph, error) {
	if req.Nodes == nil {
		return nil, missing("nodes", -1)
	}
	nodes := *req.Nodes

	g := &Graph{
		Islands: make([]Island, len(nodes)),
		Bridges: make([]Bridge, 0, len(req.Connections)),
	}
	placed := make([]bool, len(nodes))

	for i, n := range nodes {
		island, err := n.island(i)
		if err != nil {
			return nil, err
		}
		if island.Index < 0 || island.Index >= len(nodes) {
			return nil, &FieldError{
				Field: fmt.Sprintf("nodes[%d].index", i),
				Index: island.Index,
				Err:   fmt.Errorf("%w: index %d outside [0, %d)", ErrIndexConflict, island.Index, len(nodes)),
			}
		}
		if placed[island.Index] {
			return nil, &FieldError{
				Field: fmt.Sprintf("nodes[%d].index", i),
				Index: island.Index,
				Err:   fmt.Errorf("%w: index %d claimed twice", ErrIndexConflict, island.Index),
			}
		}
		placed[island.Index] = true
		g.Islands[island.Index] = island
	}

	for i, c := range req.Connections {
		bridge, err := c.bridge(i)
		if err != nil {
			return nil, err
		}
		for _, end := range []struct {
			name  string
			index int
		}{{"outNode", bridge.OutNode}, {"inNode", bridge.InNode}} {
			if end.index < 0 || end.index >= len(nodes) {
				g.Warnings = append(g.Warnings,
					fmt.Sprintf("connections[%d].%s references unknown island %d", i, end.name, end.index))
			}
		}
		g.Bridges = append(g.Bridges, bridge)
	}

	return g, nil
}

func (n NodeDesc) island(i int) (Island, error) {
	field := func(name string) string { return fmt.Sprintf("nodes[%d].%s", i, name) }

	if n.Index == nil {
		return Island{}, missing(field("index"), -1)
	}
	pos, err := n.Pos.vec(field("pos"), *n.Index)
	if err != nil {
		return Island{}, err
	}
	switch {
	case n.Length == nil:
		return Island{}, missing(field("length"), *n.Index)
	case n.Width == nil:
		return Island{}, missing(field("width"), *n.Index)
	case n.Elevation == nil:
		return Island{}, missing(field("elevation"), *n.Index)
	}

	return Island{
		Index:     *n.Index,
		Pos:       pos,
		Length:    *n.Length,
		Width:     *n.Width,
		Elevation: *n.Elevation,
	}, nil
}

func (c ConnectionDesc) bridge(i int) (Bridge, error) {
	field := func(name string) string { return fmt.Sprintf("connections[%d].%s", i, name) }

	pos, err := c.Pos.vec(field("pos"), i)
	if err != nil {
		return Bridge{}, err
	}
	switch {
	case c.OutNode == nil:
		return Bridge{}, missing(field("outNode"), i)
	case c.InNode == nil:
		return Bridge{}, missing(field("inNode"), i)
	}

	return Bridge{Pos: pos, OutNode: *c.OutNode, InNode: *c.InNode}, nil
}

// vec lifts the ground-plane position to world space at height 0.
func (p *PosDesc) vec(field string, index int) (math.Vec3, error) {
	switch {
	case p == nil:
		return math.Vec3{}, missing(field, index)
	case p.X == nil:
		return math.Vec3{}, missing(field+".x", index)
	case p.Y == nil:
		return math.Vec3{}, missing(field+".y", index)
	}
	return math.FromXZ(*p.X, *p.Y, 0), nil
}
