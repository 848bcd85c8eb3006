package shapes

import (
	"fmt"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ParaboloidParams configures Paraboloid.
type ParaboloidParams struct {
	Style
	// R bounds the sampled region in x and y (default 1).
	R float64
	// Height sets the curvature: the surface is x^2 + y^2 + Height/4 z = 0.01.
	Height float64
	Res    int
}

// Paraboloid contours a paraboloid opening towards -z, sampled inside
// [-R, R]^2 x [-1, 1].
func (f *Factory) Paraboloid(pos v3.Vec, p ParaboloidParams) (*actor.Actor, error) {
	r := orDefault(p.R, 1)
	h := orDefault(p.Height, 1)
	q := kernel.Quadric{1, 1, 0, 0, 0, 0, 0, 0, h / 4, 0}
	m, err := f.contour(q, 0.01, v3.Vec{X: -r, Y: -r, Z: -1}, v3.Vec{X: r, Y: r, Z: 1},
		orDefaultInt(p.Res, f.cfg.Resolution.Paraboloid))
	if err != nil {
		return nil, fmt.Errorf("shapes: paraboloid: %w", err)
	}
	a := actor.New("Paraboloid", m).Phong()
	p.Style.apply(a, cyan)
	a.SetPosition(pos)
	return f.register(a), nil
}

// HyperboloidParams configures Hyperboloid.
type HyperboloidParams struct {
	Style
	// A2 is the aperture (default 1) and Value the iso level (default 0.5)
	// of 2x^2 + 2y^2 - z^2/A2 = Value.
	A2, Value float64
	// Height is the half extent sampled along z (default 1).
	Height float64
	Res    int
}

// Hyperboloid contours a hyperboloid of one sheet about +z.
func (f *Factory) Hyperboloid(pos v3.Vec, p HyperboloidParams) (*actor.Actor, error) {
	a2 := orDefault(p.A2, 1)
	h := orDefault(p.Height, 1)
	q := kernel.Quadric{2, 2, -1 / a2, 0, 0, 0, 0, 0, 0, 0}
	m, err := f.contour(q, orDefault(p.Value, 0.5), v3.Vec{X: -1, Y: -1, Z: -h}, v3.Vec{X: 1, Y: 1, Z: h},
		orDefaultInt(p.Res, f.cfg.Resolution.Hyperboloid))
	if err != nil {
		return nil, fmt.Errorf("shapes: hyperboloid: %w", err)
	}
	a := actor.New("Hyperboloid", m).Phong()
	p.Style.apply(a, magenta)
	a.SetPosition(pos)
	return f.register(a), nil
}

// contour extracts the iso surface q = value inside [min, max] with cells
// samples along the longest side. The result is wound to face away from
// the quadric's positive side.
func (f *Factory) contour(q kernel.Quadric, value float64, min, max v3.Vec, cells int) (*kernel.Mesh, error) {
	s := f.kern.QuadricSurface(q, value, min, max)
	m, err := f.kern.ToMesh(s, cells)
	if err != nil {
		return nil, err
	}
	m.FlipPolys()
	return m, nil
}
