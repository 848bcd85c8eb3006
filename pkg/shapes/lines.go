package shapes

import (
	"fmt"
	"math"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segments is a batch of independent start/end pairs: StartEnd or Pairs.
type Segments interface {
	segments() (starts, ends []v3.Vec, err error)
}

// StartEnd pairs Starts[i] with Ends[i].
type StartEnd struct {
	Starts, Ends Coords
}

func (s StartEnd) segments() ([]v3.Vec, []v3.Vec, error) {
	starts, err := resolvePoints(s.Starts)
	if err != nil {
		return nil, nil, err
	}
	ends, err := resolvePoints(s.Ends)
	if err != nil {
		return nil, nil, err
	}
	if len(starts) != len(ends) {
		return nil, nil, fmt.Errorf("%w: %d starts, %d ends", ErrLengthMismatch, len(starts), len(ends))
	}
	return starts, ends, nil
}

// Pairs lists segments as [start, end] pairs.
type Pairs [][2]v3.Vec

func (p Pairs) segments() ([]v3.Vec, []v3.Vec, error) {
	starts := make([]v3.Vec, len(p))
	ends := make([]v3.Vec, len(p))
	for i, pr := range p {
		starts[i], ends[i] = pr[0], pr[1]
	}
	return starts, ends, nil
}

// LineParams configures Line.
type LineParams struct {
	Style
	LineWidth float64
	Dotted    bool
	// Res is the number of sub-segments of a two point line.
	Res int
}

// Line builds the segment between two points, or the polyline through
// three or more.
func (f *Factory) Line(pts Coords, p LineParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if len(ps) < 2 {
		return nil, invalid("line: need at least 2 points, got %d", len(ps))
	}
	a := actor.New("Line", polylineMesh(ps, p.Res))
	p.Style.apply(a, red)
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	if p.Dotted {
		a.SetStipple(actor.StippleDotted)
	}
	a.Base, a.Top = ps[0], ps[len(ps)-1]
	return f.register(a), nil
}

// polylineMesh is one polyline cell through ps. A two point line is split
// into res pieces.
func polylineMesh(ps []v3.Vec, res int) *kernel.Mesh {
	if len(ps) == 2 && res > 1 {
		line := make([]v3.Vec, 0, res+1)
		for _, t := range geom.Linspace(0, 1, res+1) {
			line = append(line, geom.Lerp(ps[0], ps[1], t))
		}
		ps = line
	}
	m := &kernel.Mesh{}
	m.AddPolyline(ps)
	return m
}

// DashedLineParams configures DashedLine.
type DashedLineParams struct {
	Style
	// Spacing is the length of a dash; by default 1/50 of the distance
	// between the first and last point.
	Spacing   float64
	LineWidth float64
}

// DashedLine builds a dashed segment or polyline. Each piece of length L
// is cut into floor(L/Spacing) steps and every other step is drawn.
func (f *Factory) DashedLine(pts Coords, p DashedLineParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if len(ps) < 2 {
		return nil, invalid("dashed line: need at least 2 points, got %d", len(ps))
	}
	spacing := p.Spacing
	if spacing <= 0 {
		spacing = ps[len(ps)-1].Sub(ps[0]).Length() / 50
	}
	if spacing <= 0 {
		spacing = geom.PolylineLength(ps) / 50
	}
	if spacing <= 0 {
		return nil, invalid("dashed line: zero length")
	}

	m := &kernel.Mesh{}
	for _, dash := range dashes(ps, spacing) {
		m.AddPolyline(dash[:])
	}
	a := actor.New("DashedLine", m)
	p.Style.apply(a, red)
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	a.Base, a.Top = ps[0], ps[len(ps)-1]
	return f.register(a), nil
}

// dashes returns the visible pieces of the polyline ps.
func dashes(ps []v3.Vec, spacing float64) [][2]v3.Vec {
	var out [][2]v3.Vec
	for k := 1; k < len(ps); k++ {
		p0, p1 := ps[k-1], ps[k]
		v := p1.Sub(p0)
		n := int(math.Floor(v.Length() / spacing))
		if n == 0 {
			continue
		}
		for i := 1; i <= n+1; i += 2 {
			q0 := p0.Add(v.MulScalar(float64(i-1) / float64(n)))
			q1 := p1
			if i < n {
				q1 = p0.Add(v.MulScalar(float64(i) / float64(n)))
			}
			if q1.Sub(q0).Length() == 0 {
				continue
			}
			out = append(out, [2]v3.Vec{q0, q1})
		}
	}
	return out
}

// LinesParams configures Lines.
type LinesParams struct {
	Style
	LineWidth float64
	Dotted    bool
	// Scale multiplies the length of every segment (default 1).
	Scale float64
}

// Lines builds independent segments, one line cell each.
func (f *Factory) Lines(segs Segments, p LinesParams) (*actor.Actor, error) {
	if segs == nil {
		return nil, invalid("lines: no segments")
	}
	starts, ends, err := segs.segments()
	if err != nil {
		return nil, err
	}
	scale := orDefault(p.Scale, 1)
	m := &kernel.Mesh{}
	for i := range starts {
		end := starts[i].Add(ends[i].Sub(starts[i]).MulScalar(scale))
		m.AddPolyline([]v3.Vec{starts[i], end})
	}
	a := actor.New("Lines", m)
	p.Style.apply(a, gray)
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	if p.Dotted {
		a.SetStipple(actor.StippleDotted)
	}
	return f.register(a), nil
}
