// Package tessellate turns a collection of actors into renderer-ready
// meshes. One RenderMesh is produced per actor and one Label per
// annotation.
package tessellate

import (
	"fmt"
	"image"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RenderMesh is the flat, world-space form of an actor. Vertices and
// Normals hold xyz triples; Indices hold triangles; LineIndices hold
// segment pairs.
type RenderMesh struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Vertices     []float32 `json:"vertices"`
	Normals      []float32 `json:"normals"`
	Indices      []uint32  `json:"indices"`
	LineIndices  []uint32  `json:"lineIndices,omitempty"`
	PointIndices []uint32  `json:"pointIndices,omitempty"`
	// VertexColors holds rgba quadruples in [0, 1] when the actor is
	// coloured per point.
	VertexColors []float32 `json:"vertexColors,omitempty"`
	UVs          []float32 `json:"uvs,omitempty"`

	Color     string            `json:"color"`
	BackColor string            `json:"backColor,omitempty"`
	Opacity   float64           `json:"opacity"`
	LineWidth float64           `json:"lineWidth"`
	PointSize float64           `json:"pointSize"`
	Wireframe bool              `json:"wireframe,omitempty"`
	Lighting  string            `json:"lighting"`
	Stipple   uint16            `json:"stipple,omitempty"`
	Culling   bool              `json:"backfaceCulling,omitempty"`
	Info      map[string]string `json:"info,omitempty"`

	// Texture is mapped through UVs. Encoders decide how to ship it.
	Texture image.Image `json:"-"`
}

// TriangleCount returns the number of triangles in Indices.
func (r *RenderMesh) TriangleCount() int { return len(r.Indices) / 3 }

// VertexCount returns the number of vertices.
func (r *RenderMesh) VertexCount() int { return len(r.Vertices) / 3 }

// Label is the renderer form of a screen-space annotation.
type Label struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Corner     string     `json:"corner,omitempty"`
	Position   [2]float64 `json:"position"`
	FontSize   float64    `json:"fontSize"`
	Font       string     `json:"font"`
	Color      string     `json:"color"`
	Opacity    float64    `json:"opacity"`
	Background string     `json:"background,omitempty"`
}

// Scene is everything a renderer needs to draw a collection.
type Scene struct {
	Meshes []RenderMesh `json:"meshes"`
	Labels []Label      `json:"labels"`
}

// Tessellate converts every item of c, in creation order. It never
// mutates the collection.
func Tessellate(c *actor.Collection) (*Scene, error) {
	s := &Scene{Meshes: []RenderMesh{}, Labels: []Label{}}
	if c == nil {
		return s, nil
	}
	for _, it := range c.All() {
		switch it := it.(type) {
		case *actor.Actor:
			rm, err := Actor(it)
			if err != nil {
				return nil, err
			}
			s.Meshes = append(s.Meshes, *rm)
		case *actor.Annotation:
			s.Labels = append(s.Labels, annotation(it))
		default:
			return nil, fmt.Errorf("tessellate: unsupported item %T", it)
		}
	}
	return s, nil
}

// Actor converts a single actor. Polygons are fan-triangulated, or turned
// into edges when the actor is drawn as a wireframe.
func Actor(a *actor.Actor) (*RenderMesh, error) {
	m := a.WorldMesh()
	if err := checkIndices(m); err != nil {
		return nil, fmt.Errorf("tessellate: actor %s (%s): %w", a.Name, a.ID, err)
	}

	rm := &RenderMesh{
		ID:        a.ID.String(),
		Name:      a.Name,
		Vertices:  make([]float32, 0, 3*len(m.Points)),
		Indices:   []uint32{},
		Color:     colors.Hex(a.Props.Color),
		Opacity:   a.Props.Alpha,
		LineWidth: a.Props.LineWidth,
		PointSize: a.Props.PointSize,
		Wireframe: a.Props.Wireframe,
		Lighting:  a.Props.Lighting.String(),
		Stipple:   a.Props.Stipple,
		Culling:   a.Props.BackfaceCulling,
		Texture:   a.Texture,
	}
	if a.Props.BackColor != nil {
		rm.BackColor = colors.Hex(*a.Props.BackColor)
	}
	if len(a.Info) > 0 {
		rm.Info = make(map[string]string, len(a.Info))
		for k, v := range a.Info {
			rm.Info[k] = v
		}
	}
	for _, p := range m.Points {
		rm.Vertices = append(rm.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}

	for _, cell := range m.Polys {
		if a.Props.Wireframe {
			rm.LineIndices = appendLoop(rm.LineIndices, cell)
			continue
		}
		for i := 1; i+1 < len(cell); i++ {
			rm.Indices = append(rm.Indices, cell[0], cell[i], cell[i+1])
		}
	}
	for _, cell := range m.Lines {
		for i := 0; i+1 < len(cell); i++ {
			rm.LineIndices = append(rm.LineIndices, cell[i], cell[i+1])
		}
	}
	rm.PointIndices = append(rm.PointIndices, m.Verts...)
	rm.Normals = vertexNormals(m.Points, rm.Indices)

	if a.Props.ScalarColors && len(m.Colors) == len(m.Points) {
		rm.VertexColors = make([]float32, 0, 4*len(m.Colors))
		for _, c := range m.Colors {
			rm.VertexColors = append(rm.VertexColors,
				float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
		}
	}
	if len(m.TCoords) == len(m.Points) && len(m.TCoords) > 0 {
		rm.UVs = make([]float32, 0, 2*len(m.TCoords))
		for _, uv := range m.TCoords {
			rm.UVs = append(rm.UVs, float32(uv[0]), float32(uv[1]))
		}
	}
	return rm, nil
}

func annotation(an *actor.Annotation) Label {
	l := Label{
		ID:       an.ID.String(),
		Text:     an.Text,
		Position: an.ScreenPos,
		FontSize: an.FontSize,
		Font:     an.Font,
		Color:    colors.Hex(an.Color),
		Opacity:  an.Alpha,
	}
	if an.Corner != actor.CornerNone {
		l.Corner = an.Corner.String()
	}
	if an.Background != nil {
		l.Background = colors.Hex(*an.Background)
	}
	return l
}

// appendLoop appends the closed edge loop of cell as segment pairs.
func appendLoop(dst, cell []uint32) []uint32 {
	if len(cell) < 2 {
		return dst
	}
	for i := range cell {
		dst = append(dst, cell[i], cell[(i+1)%len(cell)])
	}
	return dst
}

// vertexNormals averages the area-weighted normals of the triangles
// sharing each vertex. Vertices on no triangle get a zero normal.
func vertexNormals(pts []v3.Vec, tris []uint32) []float32 {
	acc := make([]v3.Vec, len(pts))
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a]))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	out := make([]float32, 0, 3*len(pts))
	for _, n := range acc {
		if l := n.Length(); l > 0 {
			n = n.DivScalar(l)
		}
		out = append(out, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}

// checkIndices reports the first cell index that falls outside the
// point list.
func checkIndices(m *kernel.Mesh) error {
	n := uint32(len(m.Points))
	check := func(kind string, cells [][]uint32) error {
		for ci, cell := range cells {
			for _, idx := range cell {
				if idx >= n {
					return fmt.Errorf("%s cell %d: index %d out of range [0, %d)", kind, ci, idx, n)
				}
			}
		}
		return nil
	}
	if err := check("poly", m.Polys); err != nil {
		return err
	}
	if err := check("line", m.Lines); err != nil {
		return err
	}
	for _, idx := range m.Verts {
		if idx >= n {
			return fmt.Errorf("vert index %d out of range [0, %d)", idx, n)
		}
	}
	return nil
}
