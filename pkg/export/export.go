// Package export writes tessellated scenes to disk: a JSON document for
// web renderers and binary STL for printing and CAD tools.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/chazu/shapekit/pkg/tessellate"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FormatVersion is bumped whenever the JSON layout changes.
const FormatVersion = 1

// ErrNoTriangles is returned when an STL export has nothing to write.
var ErrNoTriangles = errors.New("export: scene has no triangles")

// Document is the JSON form of a scene.
type Document struct {
	Version int                `json:"version"`
	Meshes  []Mesh             `json:"meshes"`
	Labels  []tessellate.Label `json:"labels"`
}

// Mesh is a render mesh with its texture inlined as a PNG data URI.
type Mesh struct {
	tessellate.RenderMesh
	Texture string `json:"texture,omitempty"`
}

// NewDocument converts s, encoding any textures.
func NewDocument(s *tessellate.Scene) (*Document, error) {
	doc := &Document{Version: FormatVersion, Meshes: []Mesh{}, Labels: []tessellate.Label{}}
	if s == nil {
		return doc, nil
	}
	for _, rm := range s.Meshes {
		m := Mesh{RenderMesh: rm}
		if rm.Texture != nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, rm.Texture); err != nil {
				return nil, fmt.Errorf("export: texture of %s: %w", rm.Name, err)
			}
			m.Texture = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
		}
		doc.Meshes = append(doc.Meshes, m)
	}
	doc.Labels = append(doc.Labels, s.Labels...)
	return doc, nil
}

// WriteJSON encodes s to w. Indent pretty-prints the output.
func WriteJSON(w io.Writer, s *tessellate.Scene, indent bool) error {
	doc, err := NewDocument(s)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

// Triangles flattens every mesh of s into world-space triangles. Lines
// and points carry no area and are skipped.
func Triangles(s *tessellate.Scene) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	if s == nil {
		return out
	}
	for i := range s.Meshes {
		rm := &s.Meshes[i]
		vert := func(k uint32) v3.Vec {
			return v3.Vec{
				X: float64(rm.Vertices[3*k]),
				Y: float64(rm.Vertices[3*k+1]),
				Z: float64(rm.Vertices[3*k+2]),
			}
		}
		for j := 0; j+2 < len(rm.Indices); j += 3 {
			out = append(out, &sdf.Triangle3{
				vert(rm.Indices[j]), vert(rm.Indices[j+1]), vert(rm.Indices[j+2]),
			})
		}
	}
	return out
}

// SaveSTL writes the triangles of s to path as binary STL and returns how
// many were written.
func SaveSTL(path string, s *tessellate.Scene) (int, error) {
	tris := Triangles(s)
	if len(tris) == 0 {
		return 0, ErrNoTriangles
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return 0, fmt.Errorf("export: stl %s: %w", path, err)
	}
	return len(tris), nil
}
