package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Faultbox/anvil/pkg/formats"
	"github.com/Faultbox/anvil/pkg/math"
	"github.com/Faultbox/anvil/pkg/mesh"
)

var (
	encodePadded bool
	wirePos      string
)

// bitDocument is the file format of encode and decode. A padded vertex
// channel carries trailing zero entries after the first 3*VertCount.
type bitDocument struct {
	VertCount *int     `json:"vertCount,omitempty"`
	Padded    bool     `json:"padded,omitempty"`
	VertBits  []string `json:"vertBits"`
	IndexBits []string `json:"indexBits"`
}

// vertexBits returns the vertex channel without padding.
func (d *bitDocument) vertexBits() ([]string, error) {
	if d.VertCount == nil {
		if d.Padded {
			return nil, fmt.Errorf("%w: padded channel without vertCount", mesh.ErrShape)
		}
		return d.VertBits, nil
	}

	n := 3 * *d.VertCount
	switch {
	case *d.VertCount < 0 || n > len(d.VertBits):
		return nil, fmt.Errorf("%w: vertCount %d exceeds %d channel entries", mesh.ErrShape, *d.VertCount, len(d.VertBits))
	case !d.Padded && n != len(d.VertBits):
		return nil, fmt.Errorf("%w: vertCount %d does not match %d unpadded entries", mesh.ErrShape, *d.VertCount, len(d.VertBits))
	}
	return d.VertBits[:n], nil
}

var infoCmd = &cobra.Command{
	Use:   "info <file.obj>",
	Short: "Show mesh statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := formats.LoadOBJ(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:      %s\n", args[0])
		fmt.Fprintf(out, "Vertices:  %d / %d\n", m.VertexCount(), mesh.MaxVerts)
		fmt.Fprintf(out, "Indices:   %d\n", len(m.Indices))
		fmt.Fprintf(out, "Triangles: %d\n", m.TriangleCount())
		if !m.IsEmpty() {
			lo, hi := m.Bounds()
			fmt.Fprintf(out, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
			size := hi.Sub(lo)
			fmt.Fprintf(out, "Extent:    %g x %g x %g\n", size.X, size.Y, size.Z)
		}
		if _, err := mesh.Encode(m); err != nil {
			fmt.Fprintf(out, "Channels:  does not fit (%v)\n", err)
		} else {
			fmt.Fprintf(out, "Channels:  fits\n")
		}
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file.obj>",
	Short: "Print the bit channels of a mesh as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := formats.LoadOBJ(args[0])
		if err != nil {
			return err
		}
		enc, err := mesh.Encode(m)
		if err != nil {
			return err
		}

		count := m.VertexCount()
		doc := bitDocument{VertCount: &count, VertBits: enc.VertBits, IndexBits: enc.IndexBits}
		if encodePadded {
			doc.Padded = true
			doc.VertBits = enc.InterleavedBits
		}
		e := json.NewEncoder(cmd.OutOrStdout())
		e.SetIndent("", "  ")
		return e.Encode(doc)
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file.json>",
	Short: "Rebuild a mesh from bit channels and print it as OBJ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var doc bitDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		vertBits, err := doc.vertexBits()
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		m, err := mesh.Decode(vertBits, doc.IndexBits)
		if err != nil {
			return err
		}
		return formats.WriteOBJ(cmd.OutOrStdout(), m)
	},
}

var wireCmd = &cobra.Command{
	Use:   "wire <file.obj>",
	Short: "Print the JSON wire document of a mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := formats.LoadOBJ(args[0])
		if err != nil {
			return err
		}
		if m.WorldPos, err = parseVec3(wirePos); err != nil {
			return err
		}
		doc, err := m.ToWire()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	},
}

// parseVec3 reads "x,y,z".
func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("position %q: want x,y,z", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("position %q: %w", s, err)
		}
		c[i] = f
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func init() {
	encodeCmd.Flags().BoolVar(&encodePadded, "padded", false, "Print the vertex channel padded to capacity")
	wireCmd.Flags().StringVar(&wirePos, "pos", "0,0,0", "World position as x,y,z")
}
