package kernel

import (
	"image/color"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a polygonal dataset: points plus vertex, line and polygon cells
// that index into them. Optional per-point attributes (colors, scalars,
// texture coordinates) are either empty or have one entry per point.
type Mesh struct {
	Points  []v3.Vec      `json:"points"`
	Verts   []uint32      `json:"verts,omitempty"` // single-point cells
	Lines   [][]uint32    `json:"lines,omitempty"` // polylines
	Polys   [][]uint32    `json:"polys,omitempty"` // planar polygons, counter-clockwise
	Colors  []color.NRGBA `json:"colors,omitempty"`
	Scalars []float64     `json:"scalars,omitempty"`
	TCoords [][2]float64  `json:"tcoords,omitempty"`
}

// VertexCount returns the number of points.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// CellCount returns the number of cells of every kind.
func (m *Mesh) CellCount() int {
	return len(m.Verts) + len(m.Lines) + len(m.Polys)
}

// TriangleCount returns the number of triangles a fan triangulation of the
// polygons would produce.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, p := range m.Polys {
		if len(p) >= 3 {
			n += len(p) - 2
		}
	}
	return n
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Points) == 0
}

// AddPoint appends a point and returns its index.
func (m *Mesh) AddPoint(p v3.Vec) uint32 {
	m.Points = append(m.Points, p)
	return uint32(len(m.Points) - 1)
}

// AddPolyline appends the given points as one polyline cell.
func (m *Mesh) AddPolyline(pts []v3.Vec) {
	if len(pts) == 0 {
		return
	}
	cell := make([]uint32, len(pts))
	for i, p := range pts {
		cell[i] = m.AddPoint(p)
	}
	m.Lines = append(m.Lines, cell)
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Points:  append([]v3.Vec(nil), m.Points...),
		Verts:   append([]uint32(nil), m.Verts...),
		Colors:  append([]color.NRGBA(nil), m.Colors...),
		Scalars: append([]float64(nil), m.Scalars...),
		TCoords: append([][2]float64(nil), m.TCoords...),
	}
	c.Lines = cloneCells(m.Lines)
	c.Polys = cloneCells(m.Polys)
	return c
}

func cloneCells(cells [][]uint32) [][]uint32 {
	if cells == nil {
		return nil
	}
	out := make([][]uint32, len(cells))
	for i, c := range cells {
		out[i] = append([]uint32(nil), c...)
	}
	return out
}

// Append merges other into m, offsetting its cell indices. Per-point
// attributes survive only if both meshes carry them.
func (m *Mesh) Append(other *Mesh) {
	if other == nil || other.IsEmpty() {
		return
	}
	offset := uint32(len(m.Points))
	hadPoints := len(m.Points) > 0

	m.Colors = mergeAttr(m.Colors, other.Colors, len(m.Points), len(other.Points), hadPoints)
	m.Scalars = mergeAttr(m.Scalars, other.Scalars, len(m.Points), len(other.Points), hadPoints)
	m.TCoords = mergeAttr(m.TCoords, other.TCoords, len(m.Points), len(other.Points), hadPoints)

	m.Points = append(m.Points, other.Points...)
	for _, v := range other.Verts {
		m.Verts = append(m.Verts, v+offset)
	}
	for _, l := range other.Lines {
		m.Lines = append(m.Lines, shift(l, offset))
	}
	for _, p := range other.Polys {
		m.Polys = append(m.Polys, shift(p, offset))
	}
}

func mergeAttr[T any](dst, src []T, nDst, nSrc int, hadPoints bool) []T {
	switch {
	case !hadPoints && len(src) == nSrc:
		return append(dst, src...)
	case len(dst) == nDst && len(src) == nSrc && nSrc > 0:
		return append(dst, src...)
	default:
		return nil
	}
}

func shift(cell []uint32, offset uint32) []uint32 {
	out := make([]uint32, len(cell))
	for i, v := range cell {
		out[i] = v + offset
	}
	return out
}

// Transform returns a copy of the mesh with every point mapped through m44.
func (m *Mesh) Transform(m44 sdf.M44) *Mesh {
	c := m.Clone()
	for i, p := range c.Points {
		c.Points[i] = m44.MulPosition(p)
	}
	return c
}

// BoundingBox returns the axis-aligned bounds of the points.
// An empty mesh has zero bounds.
func (m *Mesh) BoundingBox() (min, max v3.Vec) {
	if len(m.Points) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	min, max = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		min = v3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = v3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return min, max
}

// Centroid returns the mean of the points.
func (m *Mesh) Centroid() v3.Vec {
	var c v3.Vec
	if len(m.Points) == 0 {
		return c
	}
	for _, p := range m.Points {
		c = c.Add(p)
	}
	return c.DivScalar(float64(len(m.Points)))
}

// AverageSize returns the mean distance of the points from the centroid.
func (m *Mesh) AverageSize() float64 {
	if len(m.Points) == 0 {
		return 0
	}
	c := m.Centroid()
	var s float64
	for _, p := range m.Points {
		s += p.Sub(c).Length()
	}
	return s / float64(len(m.Points))
}

// Normalize moves the centroid to the origin and scales the mesh so its
// average size is one. Degenerate meshes are only recentred.
func (m *Mesh) Normalize() {
	c := m.Centroid()
	size := m.AverageSize()
	for i, p := range m.Points {
		q := p.Sub(c)
		if size > 0 {
			q = q.DivScalar(size)
		}
		m.Points[i] = q
	}
}

// FlipPolys reverses the winding of every polygon, flipping its normal.
func (m *Mesh) FlipPolys() {
	for _, p := range m.Polys {
		for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
			p[i], p[j] = p[j], p[i]
		}
	}
}

// SetUniformColor assigns the same color to every point.
func (m *Mesh) SetUniformColor(c color.NRGBA) {
	m.Colors = make([]color.NRGBA, len(m.Points))
	for i := range m.Colors {
		m.Colors[i] = c
	}
}
