package shapes

import (
	"image/color"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PointsParams configures Points.
type PointsParams struct {
	// R is the point size in pixels (default 5).
	R float64
	// Paint is Uniform (default gold) or PerPoint.
	Paint Paint
	Alpha float64
}

// Points builds a point cloud, one vertex cell per point.
func (f *Factory) Points(pts Coords, p PointsParams) (*actor.Actor, error) {
	a, err := f.points(pts, p)
	if err != nil {
		return nil, err
	}
	return f.register(a), nil
}

func (f *Factory) points(pts Coords, p PointsParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, invalid("points: no points")
	}

	var perPoint []color.NRGBA
	if pp, ok := p.Paint.(PerPoint); ok {
		if perPoint, err = pp.pointColors(len(ps), gold); err != nil {
			return nil, err
		}
	}

	m := &kernel.Mesh{}
	single := len(ps) == 1 && perPoint == nil
	for _, q := range ps {
		if single {
			q = v3.Vec{}
		}
		m.Verts = append(m.Verts, m.AddPoint(q))
	}

	a := actor.New("Points", m).SetPointSize(orDefault(p.R, 5))
	if perPoint != nil {
		m.Colors = perPoint
		a.Props.ScalarColors = true
		a.Flat()
	} else {
		c := gold
		if u, ok := p.Paint.(Uniform); ok && u.Color.A != 0 {
			c = u.Color
		}
		a.SetColor(c)
	}
	if p.Alpha > 0 {
		a.SetAlpha(p.Alpha)
	}
	if single {
		a.SetPosition(ps[0])
	}
	return a, nil
}

// PointParams configures Point.
type PointParams struct {
	Style
	// R is the point size in pixels (default 12).
	R float64
}

// Point builds a single point at pos. The mesh holds the origin and the
// actor is positioned at pos.
func (f *Factory) Point(pos v3.Vec, p PointParams) (*actor.Actor, error) {
	c := red
	if p.Color.A != 0 {
		c = p.Color
	}
	a, err := f.points(Vecs{pos}, PointsParams{R: orDefault(p.R, 12), Paint: Uniform{Color: c}, Alpha: p.Alpha})
	if err != nil {
		return nil, err
	}
	a.Name = "Point"
	return f.register(a), nil
}
