// Package kernel defines the implicit-surface kernel interface and the
// polygonal Mesh shared by every shape factory. Implementations (sdfx)
// sample implicit functions and contour them into meshes behind this
// interface, so factories never depend on a particular backend.
package kernel

import (
	"errors"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
)

// ErrEmptySurface is returned by ToMesh when contouring produced no triangles.
var ErrEmptySurface = errors.New("kernel: contour produced no triangles")

// Solid is an opaque handle to a kernel implicit surface.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned sampling bounds.
	BoundingBox() (min, max [3]float64)
}

// Quadric holds the ten coefficients of
//
//	F(x,y,z) = a0*x^2 + a1*y^2 + a2*z^2 + a3*x*y + a4*y*z + a5*x*z + a6*x + a7*y + a8*z + a9
type Quadric [10]float64

// Eval evaluates the quadric at p.
func (q Quadric) Eval(p v3.Vec) float64 {
	x, y, z := p.X, p.Y, p.Z
	return q[0]*x*x + q[1]*y*y + q[2]*z*z +
		q[3]*x*y + q[4]*y*z + q[5]*x*z +
		q[6]*x + q[7]*y + q[8]*z + q[9]
}

// Justify anchors extruded text relative to the origin.
type Justify int

const (
	JustifyBottomLeft Justify = iota
	JustifyBottomRight
	JustifyTopLeft
	JustifyTopRight
	JustifyCenter
)

// Kernel is the implicit-surface kernel interface.
type Kernel interface {
	// Implicit surfaces
	QuadricSurface(q Quadric, value float64, min, max v3.Vec) Solid
	Text(s string, f *truetype.Font, size, depth float64, j Justify) (Solid, error) // nil f: kernel font

	// Mesh output; cells is the sampling resolution along the longest side.
	ToMesh(s Solid, cells int) (*Mesh, error)
}
