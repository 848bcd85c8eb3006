package shapes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SphereParams configures Sphere.
type SphereParams struct {
	Style
	R   float64
	Res int
}

// Sphere builds a UV sphere of radius R centred at pos, with 2*Res
// meridians and Res parallels.
func (f *Factory) Sphere(pos v3.Vec, p SphereParams) (*actor.Actor, error) {
	res := orDefaultInt(p.Res, f.cfg.Resolution.Sphere)
	a := actor.New("Sphere", sphereMesh(orDefault(p.R, 1), 2*res, res)).Phong()
	p.Style.apply(a, red)
	a.SetPosition(pos)
	return f.register(a), nil
}

// SpheresParams configures Spheres. Radii and Colors, when set, must have
// one entry per centre; both may be set together.
type SpheresParams struct {
	Style
	R      float64
	Radii  []float64
	Colors []color.NRGBA
	Res    int
}

// Spheres builds many spheres as a single mesh.
func (f *Factory) Spheres(centers Coords, p SpheresParams) (*actor.Actor, error) {
	cs, err := resolvePoints(centers)
	if err != nil {
		return nil, err
	}
	if p.Radii != nil && len(p.Radii) != len(cs) {
		return nil, fmt.Errorf("%w: spheres: %d centers, %d radii", ErrLengthMismatch, len(cs), len(p.Radii))
	}
	if p.Colors != nil && len(p.Colors) != len(cs) {
		return nil, fmt.Errorf("%w: spheres: %d centers, %d colors", ErrLengthMismatch, len(cs), len(p.Colors))
	}
	if len(cs) == 0 {
		return nil, invalid("spheres: no centers")
	}
	res := orDefaultInt(p.Res, f.cfg.Resolution.Spheres)
	src := sphereMesh(1, 2*res, res)
	vecs := make([]v3.Vec, len(cs))
	for i := range vecs {
		r := orDefault(p.R, 1)
		if p.Radii != nil {
			r = p.Radii[i]
		}
		vecs[i] = v3.Vec{X: r}
	}
	m := glyphMesh(src, cs, vecs, false, true, p.Colors)

	a := actor.New("Spheres", m).Phong()
	p.Style.apply(a, red)
	if p.Colors != nil {
		a.Props.ScalarColors = true
	}
	return f.register(a), nil
}

// EllipsoidParams configures Ellipsoid. Zero axes take the defaults
// (1,0,0), (0,2,0) and (0,0,3).
type EllipsoidParams struct {
	Style
	Axis1, Axis2, Axis3 v3.Vec
	Res                 int
}

// Ellipsoid builds an ellipsoid centred at pos. The axis lengths give the
// semi-diameters; Axis3 sets the orientation and the angle between Axis1
// and Axis2 one extra roll.
func (f *Factory) Ellipsoid(pos v3.Vec, p EllipsoidParams) (*actor.Actor, error) {
	a1 := orDefaultVec(p.Axis1, v3.Vec{X: 1})
	a2 := orDefaultVec(p.Axis2, v3.Vec{Y: 2})
	a3 := orDefaultVec(p.Axis3, v3.Vec{Z: 3})
	l1, l2, l3 := a1.Length(), a2.Length(), a3.Length()
	u1, u2 := geom.Versor(a1), geom.Versor(a2)

	roll := math.Asin(math.Max(-1, math.Min(1, u1.Dot(u2))))
	theta, phi := geom.Polar(a3)
	res := orDefaultInt(p.Res, f.cfg.Resolution.Ellipsoid)
	m44 := sdf.RotateZ(phi).
		Mul(sdf.RotateY(theta)).
		Mul(sdf.RotateX(roll)).
		Mul(sdf.Scale3d(v3.Vec{X: l1, Y: l2, Z: l3}))

	a := actor.New("Ellipsoid", sphereMesh(0.5, res, res).Transform(m44)).Phong()
	a.Props.BackfaceCulling = true
	p.Style.apply(a, cyan)
	a.SetPosition(pos)
	a.Base = pos.Sub(u1.MulScalar(0.5))
	a.Top = pos.Add(u1.MulScalar(0.5))
	return f.register(a), nil
}

func orDefaultVec(v, def v3.Vec) v3.Vec {
	if v.Length() == 0 {
		return def
	}
	return v
}

// BoxParams configures Box. Zero sides take the defaults 1, 2 and 3.
type BoxParams struct {
	Style
	Length, Width, Height float64
}

// Box builds an axis-aligned box centred at pos, Length along x, Width
// along y and Height along z.
func (f *Factory) Box(pos v3.Vec, p BoxParams) (*actor.Actor, error) {
	return f.register(box(pos, p)), nil
}

func box(pos v3.Vec, p BoxParams) *actor.Actor {
	m := boxMesh(orDefault(p.Length, 1), orDefault(p.Width, 2), orDefault(p.Height, 3))
	a := actor.New("Box", m)
	p.Style.apply(a, green)
	a.SetPosition(pos)
	return a
}

// CubeParams configures Cube.
type CubeParams struct {
	Style
	Side float64
}

// Cube builds a cube of the given side (default 1) centred at pos.
func (f *Factory) Cube(pos v3.Vec, p CubeParams) (*actor.Actor, error) {
	s := orDefault(p.Side, 1)
	a := box(pos, BoxParams{Style: p.Style, Length: s, Width: s, Height: s})
	a.Name = "Cube"
	return f.register(a), nil
}

// CylinderParams configures Cylinder.
type CylinderParams struct {
	Style
	// R defaults to 1 and Height to 2.
	R, Height float64
	// Axis defaults to +z.
	Axis v3.Vec
	Res  int
}

// Cylinder builds a capped cylinder centred at pos along Axis.
func (f *Factory) Cylinder(pos v3.Vec, p CylinderParams) (*actor.Actor, error) {
	axis := geom.Versor(orDefaultVec(p.Axis, v3.Vec{Z: 1}))
	h := orDefault(p.Height, 2)
	res := orDefaultInt(p.Res, f.cfg.Resolution.Cylinder)

	m := cylinderMesh(orDefault(p.R, 1), h, res).Transform(geom.OrientZ(axis))
	a := actor.New("Cylinder", m).Phong()
	p.Style.apply(a, teal)
	a.SetPosition(pos)
	a.Base = pos.Sub(axis.MulScalar(h / 2))
	a.Top = pos.Add(axis.MulScalar(h / 2))
	return f.register(a), nil
}

// CylinderBetween builds a cylinder whose cap centres are base and top.
// Height and Axis in p are ignored.
func (f *Factory) CylinderBetween(base, top v3.Vec, p CylinderParams) (*actor.Actor, error) {
	d := top.Sub(base)
	if d.Length() == 0 {
		return nil, invalid("cylinder: base and top coincide")
	}
	p.Axis = d
	p.Height = d.Length()
	return f.Cylinder(base.Add(top).MulScalar(0.5), p)
}

// ConeParams configures Cone.
type ConeParams struct {
	Style
	// R defaults to 1 and Height to 3.
	R, Height float64
	// Axis points from the base to the apex (default +z).
	Axis v3.Vec
	Res  int
}

// Cone builds a capped cone centred at pos.
func (f *Factory) Cone(pos v3.Vec, p ConeParams) (*actor.Actor, error) {
	return f.register(f.cone(pos, p)), nil
}

func (f *Factory) cone(pos v3.Vec, p ConeParams) *actor.Actor {
	axis := geom.Versor(orDefaultVec(p.Axis, v3.Vec{Z: 1}))
	h := orDefault(p.Height, 3)
	res := orDefaultInt(p.Res, f.cfg.Resolution.Cone)

	m := coneMesh(orDefault(p.R, 1), h, res).Transform(geom.AlignX(axis))
	a := actor.New("Cone", m).Phong()
	p.Style.apply(a, darkGreen)
	a.SetPosition(pos)
	a.Base = pos.Sub(axis.MulScalar(h / 2))
	a.Top = pos.Add(axis.MulScalar(h / 2))
	return a
}

// PyramidParams configures Pyramid.
type PyramidParams struct {
	Style
	// S is the distance from the axis to a base corner (default 1).
	S      float64
	Height float64
	Axis   v3.Vec
}

// Pyramid is a four-sided cone.
func (f *Factory) Pyramid(pos v3.Vec, p PyramidParams) (*actor.Actor, error) {
	a := f.cone(pos, ConeParams{
		Style:  p.Style,
		R:      orDefault(p.S, 1),
		Height: orDefault(p.Height, 1),
		Axis:   p.Axis,
		Res:    4,
	})
	a.Name = "Pyramid"
	return f.register(a), nil
}

// TorusParams configures Torus.
type TorusParams struct {
	Style
	// R is the ring radius (default 1) and Thickness the tube radius
	// (default 0.2).
	R, Thickness float64
	Res          int
}

// Torus builds a torus about +z centred at pos.
func (f *Factory) Torus(pos v3.Vec, p TorusParams) (*actor.Actor, error) {
	res := orDefaultInt(p.Res, f.cfg.Resolution.Torus)
	m := torusMesh(orDefault(p.R, 1), orDefault(p.Thickness, 0.2), 3*res, res)
	a := actor.New("Torus", m).Phong()
	p.Style.apply(a, khaki)
	a.SetPosition(pos)
	return f.register(a), nil
}
