package shapes

import (
	"math"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PolygonParams configures Polygon.
type PolygonParams struct {
	Style
	// N is the number of sides (default 6, at least 3).
	N int
	// R is the circumradius (default 1).
	R float64
}

// Polygon builds a regular polygon in the xy plane centred at pos, with
// its first vertex on +y.
func (f *Factory) Polygon(pos v3.Vec, p PolygonParams) (*actor.Actor, error) {
	a, err := polygon(pos, p)
	if err != nil {
		return nil, err
	}
	return f.register(a), nil
}

func polygon(pos v3.Vec, p PolygonParams) (*actor.Actor, error) {
	n := orDefaultInt(p.N, 6)
	if n < 3 {
		return nil, invalid("polygon: need at least 3 sides, got %d", n)
	}
	a := actor.New("Polygon", polygonMesh(n, orDefault(p.R, 1)))
	p.Style.apply(a, coral)
	a.SetPosition(pos)
	return a, nil
}

// CircleParams configures Circle.
type CircleParams struct {
	Style
	R float64
	// Fill draws a disc instead of the outline.
	Fill bool
	Res  int
}

// Circle builds a many-sided polygon shown as an outline unless filled.
func (f *Factory) Circle(pos v3.Vec, p CircleParams) (*actor.Actor, error) {
	a, err := polygon(pos, PolygonParams{
		Style: p.Style,
		N:     orDefaultInt(p.Res, f.cfg.Resolution.Circle),
		R:     orDefault(p.R, 1),
	})
	if err != nil {
		return nil, err
	}
	a.Name = "Circle"
	p.Style.apply(a, gray)
	a.SetWireframe(!p.Fill)
	return f.register(a), nil
}

// StarParams configures Star.
type StarParams struct {
	Style
	// N is the number of cusps (default 5).
	N int
	// R1 is the inner radius (default 0.7) and R2 the outer (default 1).
	R1, R2 float64
	// Line builds only the outline.
	Line bool
}

// Star builds a star of N cusps centred at pos.
func (f *Factory) Star(pos v3.Vec, p StarParams) (*actor.Actor, error) {
	a, err := star(pos, p)
	if err != nil {
		return nil, err
	}
	return f.register(a), nil
}

func star(pos v3.Vec, p StarParams) (*actor.Actor, error) {
	n := orDefaultInt(p.N, 5)
	if n < 2 {
		return nil, invalid("star: need at least 2 cusps, got %d", n)
	}
	r1, r2 := orDefault(p.R1, 0.7), orDefault(p.R2, 1)
	var m *kernel.Mesh
	if p.Line {
		pts := starPoints(n, r1, r2)
		m = polylineMesh(append(pts, pts[0]), 0)
	} else {
		m = starMesh(n, r1, r2)
	}
	a := actor.New("Star", m)
	p.Style.apply(a, lightBlue)
	a.SetPosition(pos)
	return a, nil
}

// RectangleParams configures Rectangle.
type RectangleParams struct {
	Style
	LineWidth float64
}

// Rectangle builds the rectangle in the xy plane with opposite corners p1
// and p2.
func (f *Factory) Rectangle(p1, p2 v3.Vec, p RectangleParams) (*actor.Actor, error) {
	a := plane(p1.Add(p2).MulScalar(0.5), PlaneParams{
		Style: p.Style,
		SX:    math.Abs(p2.X - p1.X),
		SY:    math.Abs(p2.Y - p1.Y),
	})
	a.Name = "Rectangle"
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	return f.register(a), nil
}

// DiscParams configures Disc.
type DiscParams struct {
	Style
	// R1 is the inner radius (default 0.5) and R2 the outer (default 1).
	R1, R2 float64
	// Res is the radial resolution; ResPhi the circumferential one
	// (default 6 * Res).
	Res, ResPhi int
}

// Disc builds a flat annulus centred at pos.
func (f *Factory) Disc(pos v3.Vec, p DiscParams) (*actor.Actor, error) {
	res := orDefaultInt(p.Res, f.cfg.Resolution.Disc)
	resPhi := orDefaultInt(p.ResPhi, 6*res)
	if resPhi < 3 {
		return nil, invalid("disc: circumferential resolution %d", resPhi)
	}
	a := actor.New("Disc", discMesh(orDefault(p.R1, 0.5), orDefault(p.R2, 1), res, resPhi)).Flat()
	p.Style.apply(a, coral)
	a.SetPosition(pos)
	return f.register(a), nil
}

// ArcParams configures Arc. Exactly one of Point2 or Normal must be set.
type ArcParams struct {
	Style
	// Point2 ends the arc on the ray from the centre through it.
	Point2 *v3.Vec
	// Normal and Angle (degrees) sweep the arc from Point1 about the
	// normal.
	Normal *v3.Vec
	Angle  float64
	// Invert takes the long way round.
	Invert bool
	Res    int
}

// Arc builds a circular arc about center starting at point1. The radius is
// the distance from center to point1.
func (f *Factory) Arc(center, point1 v3.Vec, p ArcParams) (*actor.Actor, error) {
	v1 := point1.Sub(center)
	if v1.Length() == 0 {
		return nil, invalid("arc: point1 coincides with center")
	}
	var axis v3.Vec
	var sweep float64
	switch {
	case p.Point2 != nil:
		v2 := p.Point2.Sub(center)
		axis = v1.Cross(v2)
		if axis.Length() < 1e-12 {
			return nil, invalid("arc: points are collinear with the center")
		}
		sweep = math.Atan2(axis.Length(), v1.Dot(v2))
	case p.Normal != nil:
		axis = *p.Normal
		if axis.Length() == 0 {
			return nil, invalid("arc: zero normal")
		}
		sweep = geom.Rad(p.Angle)
	default:
		return nil, invalid("arc: need point2 or normal and angle")
	}
	if p.Invert {
		sweep -= 2 * math.Pi
	}

	res := orDefaultInt(p.Res, f.cfg.Resolution.Arc)
	axis = geom.Versor(axis)
	pts := make([]v3.Vec, 0, res+1)
	for _, t := range geom.Linspace(0, sweep, res+1) {
		pts = append(pts, center.Add(sdf.Rotate3d(axis, t).MulPosition(v1)))
	}
	a := actor.New("Arc", polylineMesh(pts, 0)).Flat().SetLineWidth(2)
	p.Style.apply(a, gray)
	a.Base, a.Top = pts[0], pts[len(pts)-1]
	return f.register(a), nil
}

// GridParams configures Grid. Setting both XCoords and YCoords builds an
// uneven grid through those coordinates; otherwise the grid is SX by SY
// with ResX by ResY cells.
type GridParams struct {
	Style
	Normal           v3.Vec
	SX, SY           float64
	XCoords, YCoords []float64
	ResX, ResY       int
	LineWidth        float64
}

// Grid builds a wireframe grid centred at pos and facing Normal.
func (f *Factory) Grid(pos v3.Vec, p GridParams) (*actor.Actor, error) {
	var m *kernel.Mesh
	if p.XCoords != nil && p.YCoords != nil {
		if len(p.XCoords) < 2 || len(p.YCoords) < 2 {
			return nil, invalid("grid: need at least 2 coordinates per axis")
		}
		m = &kernel.Mesh{}
		for _, y := range p.YCoords {
			for _, x := range p.XCoords {
				m.AddPoint(v3.Vec{X: x, Y: y})
			}
		}
		m.Polys = gridQuads(len(p.XCoords)-1, len(p.YCoords)-1)
		m = m.Transform(normalRotation(p.Normal))
	} else {
		res := f.cfg.Resolution.Grid
		m = planeMesh(orDefaultInt(p.ResX, res), orDefaultInt(p.ResY, res))
		size := v3.Vec{X: orDefault(p.SX, 1), Y: orDefault(p.SY, 1), Z: 1}
		m = m.Transform(normalRotation(p.Normal).Mul(sdf.Scale3d(size)))
	}
	a := actor.New("Grid", m).SetWireframe(true)
	p.Style.apply(a, gray)
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	a.SetPosition(pos)
	return f.register(a), nil
}

// normalRotation turns +z onto n, treating a zero n as +z.
func normalRotation(n v3.Vec) sdf.M44 {
	if n.Length() == 0 {
		return sdf.Identity3d()
	}
	return geom.OrientZ(n)
}

// PlaneParams configures Plane.
type PlaneParams struct {
	Style
	// Normal defaults to +z.
	Normal v3.Vec
	// SX defaults to 1 and SY to SX.
	SX, SY float64
}

// Plane builds an SX by SY rectangle through pos facing Normal.
func (f *Factory) Plane(pos v3.Vec, p PlaneParams) (*actor.Actor, error) {
	return f.register(plane(pos, p)), nil
}

func plane(pos v3.Vec, p PlaneParams) *actor.Actor {
	sx := orDefault(p.SX, 1)
	sy := orDefault(p.SY, sx)
	m := planeMesh(1, 1).Transform(normalRotation(p.Normal).Mul(sdf.Scale3d(v3.Vec{X: sx, Y: sy, Z: 1})))
	a := actor.New("Plane", m)
	p.Style.apply(a, green)
	a.SetPosition(pos)
	return a
}
