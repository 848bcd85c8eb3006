// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"
	"sync"

	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution when the
// caller passes a non-positive cell count.
const defaultMeshCells = 200

// minTextDepth is the extrusion used for flat text so marching cubes can
// resolve the glyphs; callers flatten the result.
const minTextDepth = 0.1

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// quadricSDF samples a quadric offset by an iso value inside fixed bounds.
// It is not a distance field, but marching cubes only needs the sign change
// and a linear estimate of the crossing.
type quadricSDF struct {
	q     kernel.Quadric
	value float64
	bb    sdf.Box3
}

func (s *quadricSDF) Evaluate(p v3.Vec) float64 {
	return s.q.Eval(p) - s.value
}

func (s *quadricSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	fontOnce sync.Once
	font     *truetype.Font
	fontErr  error
}

// New returns a new SdfxKernel that renders text with the Go regular font.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// NewWithFont returns a kernel whose default text font is f.
func NewWithFont(f *truetype.Font) *SdfxKernel {
	k := &SdfxKernel{font: f}
	k.fontOnce.Do(func() {})
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// QuadricSurface returns the level set q(p) == value restricted to the box
// [min, max]. The surface is open where it meets the box.
func (k *SdfxKernel) QuadricSurface(q kernel.Quadric, value float64, min, max v3.Vec) kernel.Solid {
	return wrap(&quadricSDF{q: q, value: value, bb: sdf.Box3{Min: min, Max: max}})
}

func (k *SdfxKernel) textFont() (*truetype.Font, error) {
	k.fontOnce.Do(func() {
		k.font, k.fontErr = truetype.Parse(goregular.TTF)
	})
	return k.font, k.fontErr
}

// Text extrudes the outline of s in font f, with a cap height of size, from
// z=0 to z=depth and anchors it according to j. A nil f uses the kernel
// font. A zero depth is extruded by a thin slab so it can still be meshed.
func (k *SdfxKernel) Text(s string, f *truetype.Font, size, depth float64, j kernel.Justify) (kernel.Solid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sdfx.Text: size must be positive, got %g", size)
	}
	if f == nil {
		var err error
		if f, err = k.textFont(); err != nil {
			return nil, fmt.Errorf("sdfx.Text: font: %w", err)
		}
	}
	s2, err := sdf.Text2D(f, sdf.NewText(s), size)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Text2D: %w", err)
	}
	if depth <= 0 {
		depth = minTextDepth * size
	}
	s3 := sdf.Extrude3D(s2, depth)

	bb := s3.BoundingBox()
	cx := (bb.Min.X + bb.Max.X) / 2
	cy := (bb.Min.Y + bb.Max.Y) / 2
	dx := (bb.Max.X - bb.Min.X) / 2
	dy := (bb.Max.Y - bb.Min.Y) / 2

	// Extrude3D is centred on z=0; lift it so the text face sits on z=0.
	shift := v3.Vec{X: -cx, Y: -cy, Z: depth / 2}
	switch j {
	case kernel.JustifyBottomLeft:
		shift = shift.Add(v3.Vec{X: dx, Y: dy})
	case kernel.JustifyBottomRight:
		shift = shift.Add(v3.Vec{X: -dx, Y: dy})
	case kernel.JustifyTopLeft:
		shift = shift.Add(v3.Vec{X: dx, Y: -dy})
	case kernel.JustifyTopRight:
		shift = shift.Add(v3.Vec{X: -dx, Y: -dy})
	}
	return wrap(sdf.Transform3D(s3, sdf.Translate3d(shift))), nil
}

// ToMesh converts a solid to an indexed triangle mesh using marching cubes.
// Vertices shared by neighbouring triangles are merged.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, kernel.ErrEmptySurface
	}

	bb := sdf3.BoundingBox()
	tol := bb.Max.Sub(bb.Min).Length() * 1e-9
	w := newWelder(tol, len(triangles)*3/2)

	mesh := &kernel.Mesh{
		Polys: make([][]uint32, 0, len(triangles)),
	}
	for _, tri := range triangles {
		var cell [3]uint32
		for j := 0; j < 3; j++ {
			cell[j] = w.index(mesh, tri[j])
		}
		if cell[0] == cell[1] || cell[1] == cell[2] || cell[0] == cell[2] {
			continue
		}
		mesh.Polys = append(mesh.Polys, []uint32{cell[0], cell[1], cell[2]})
	}
	return mesh, nil
}

// welder merges vertices that fall in the same quantisation bucket.
type welder struct {
	inv  float64
	seen map[[3]int64]uint32
}

func newWelder(tol float64, hint int) *welder {
	if tol <= 0 {
		tol = 1e-12
	}
	return &welder{inv: 1 / tol, seen: make(map[[3]int64]uint32, hint)}
}

func (w *welder) index(m *kernel.Mesh, p v3.Vec) uint32 {
	key := [3]int64{
		int64(math.Round(p.X * w.inv)),
		int64(math.Round(p.Y * w.inv)),
		int64(math.Round(p.Z * w.inv)),
	}
	if i, ok := w.seen[key]; ok {
		return i
	}
	i := m.AddPoint(p)
	w.seen[key] = i
	return i
}
