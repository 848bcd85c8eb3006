package shapes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Tube
// ---------------------------------------------------------------------------

// TubeParams configures Tube.
type TubeParams struct {
	Style
	// R is the constant radius (default 1). Radii, when set, gives one
	// radius per point instead.
	R     float64
	Radii []float64
	// Colors, when set, gives one colour per point.
	Colors []color.NRGBA
	Res    int
}

// Tube sweeps a circular section along the polyline pts and caps both ends.
func (f *Factory) Tube(pts Coords, p TubeParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if p.Radii != nil && len(p.Radii) != len(ps) {
		return nil, fmt.Errorf("%w: tube: %d points, %d radii", ErrLengthMismatch, len(ps), len(p.Radii))
	}
	if p.Colors != nil && len(p.Colors) != len(ps) {
		return nil, fmt.Errorf("%w: tube: %d points, %d colors", ErrLengthMismatch, len(ps), len(p.Colors))
	}
	radii := p.Radii
	if radii == nil {
		radii = make([]float64, len(ps))
		for i := range radii {
			radii[i] = orDefault(p.R, 1)
		}
	}
	m, err := tubeMesh(ps, radii, p.Colors, orDefaultInt(p.Res, f.cfg.Resolution.Tube))
	if err != nil {
		return nil, err
	}

	a := actor.New("Tube", m).Phong()
	p.Style.apply(a, red)
	if p.Colors != nil {
		a.Props.ScalarColors = true
	}
	a.Base, a.Top = ps[0], ps[len(ps)-1]
	return f.register(a), nil
}

// tubeMesh sweeps rings of res points along ps using parallel transported
// frames. Repeated consecutive points are skipped.
func tubeMesh(ps []v3.Vec, radii []float64, cols []color.NRGBA, res int) (*kernel.Mesh, error) {
	if res < 3 {
		res = 3
	}
	keep := make([]int, 0, len(ps))
	for i := range ps {
		if len(keep) > 0 && ps[i].Sub(ps[keep[len(keep)-1]]).Length() == 0 {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) < 2 {
		return nil, invalid("tube: need at least 2 distinct points, got %d", len(keep))
	}

	n := len(keep)
	pt := func(k int) v3.Vec { return ps[keep[k]] }
	tangents := make([]v3.Vec, n)
	for k := range tangents {
		var t v3.Vec
		if k > 0 {
			t = t.Add(geom.Versor(pt(k).Sub(pt(k - 1))))
		}
		if k < n-1 {
			t = t.Add(geom.Versor(pt(k + 1).Sub(pt(k))))
		}
		if t.Length() < 1e-12 {
			t = pt(min(k+1, n-1)).Sub(pt(max(k-1, 0)))
		}
		tangents[k] = geom.Versor(t)
	}

	m := &kernel.Mesh{}
	rings := make([][]uint32, n)
	normal := geom.Perpendicular(tangents[0])
	for k := range rings {
		t := tangents[k]
		normal = normal.Sub(t.MulScalar(t.Dot(normal)))
		if normal.Length() < 1e-9 {
			normal = geom.Perpendicular(t)
		}
		normal = geom.Versor(normal)
		binormal := t.Cross(normal)

		r := radii[keep[k]]
		rings[k] = make([]uint32, res)
		for j := range rings[k] {
			a := 2 * math.Pi * float64(j) / float64(res)
			off := normal.MulScalar(r * math.Cos(a)).Add(binormal.MulScalar(r * math.Sin(a)))
			rings[k][j] = m.AddPoint(pt(k).Add(off))
			if cols != nil {
				m.Colors = append(m.Colors, cols[keep[k]])
			}
		}
	}
	for k := 0; k+1 < n; k++ {
		a, b := rings[k], rings[k+1]
		for j := 0; j < res; j++ {
			l := (j + 1) % res
			m.Polys = append(m.Polys, []uint32{a[j], a[l], b[l], b[j]})
		}
	}
	m.Polys = append(m.Polys, reversed(rings[0]), rings[n-1])
	return m, nil
}

// ---------------------------------------------------------------------------
// Ribbon and FlatArrow
// ---------------------------------------------------------------------------

// RibbonParams configures Ribbon.
type RibbonParams struct {
	Style
	// Res is the resolution along the lines and across them
	// (default 200, 5).
	Res [2]int
}

// Ribbon builds the ruled surface between two polylines. Both are
// resampled by arc length to Res[0]+1 points.
func (f *Factory) Ribbon(line1, line2 Coords, p RibbonParams) (*actor.Actor, error) {
	a, err := f.ribbon(line1, line2, p)
	if err != nil {
		return nil, err
	}
	return f.register(a), nil
}

func (f *Factory) ribbon(line1, line2 Coords, p RibbonParams) (*actor.Actor, error) {
	l1, err := resolvePoints(line1)
	if err != nil {
		return nil, err
	}
	l2, err := resolvePoints(line2)
	if err != nil {
		return nil, err
	}
	m, err := ribbonMesh(l1, l2, orDefaultInt(p.Res[0], 200), orDefaultInt(p.Res[1], 5))
	if err != nil {
		return nil, err
	}
	a := actor.New("Ribbon", m)
	p.Style.apply(a, magenta)
	return a, nil
}

func ribbonMesh(l1, l2 []v3.Vec, along, across int) (*kernel.Mesh, error) {
	if len(l1) < 2 || len(l2) < 2 {
		return nil, invalid("ribbon: lines need at least 2 points, got %d and %d", len(l1), len(l2))
	}
	r1 := geom.Resample(l1, along+1)
	r2 := geom.Resample(l2, along+1)
	m := &kernel.Mesh{}
	for _, t := range geom.Linspace(0, 1, across+1) {
		for i := range r1 {
			m.AddPoint(geom.Lerp(r1[i], r2[i], t))
		}
	}
	m.Polys = gridQuads(along, across)
	return m, nil
}

// FlatArrowParams configures FlatArrow.
type FlatArrowParams struct {
	Style
	// TipSize and TipWidth scale the head (default 1).
	TipSize, TipWidth float64
}

// FlatArrow builds a planar arrow from the two edges of its shaft. The head
// is appended past the last points of both lines.
func (f *Factory) FlatArrow(line1, line2 Coords, p FlatArrowParams) (*actor.Actor, error) {
	l1, err := resolvePoints(line1)
	if err != nil {
		return nil, err
	}
	l2, err := resolvePoints(line2)
	if err != nil {
		return nil, err
	}
	if len(l1) < 2 || len(l2) < 2 {
		return nil, invalid("flat arrow: lines need at least 2 points")
	}
	size := orDefault(p.TipSize, 1)
	width := orDefault(p.TipWidth, 1)

	sm1, sm2 := l1[len(l1)-1], l2[len(l2)-1]
	v := sm1.Sub(sm2).MulScalar(width / 3)
	pm1 := sm1.Add(sm2).MulScalar(0.5)
	pm2 := l1[len(l1)-2].Add(l2[len(l2)-2]).MulScalar(0.5)
	tip := pm1.Add(geom.Versor(pm1.Sub(pm2)).MulScalar(v.Length() * 3 * size / width))

	l1 = append(l1, sm1.Add(v), tip)
	l2 = append(l2, sm2.Sub(v), tip)

	a, err := f.ribbon(Vecs(l1), Vecs(l2), RibbonParams{Style: p.Style, Res: [2]int{max(100, len(l1)), 1}})
	if err != nil {
		return nil, err
	}
	a.Name = "FlatArrow"
	a.Phong()
	return f.register(a), nil
}

// ---------------------------------------------------------------------------
// Arrows
// ---------------------------------------------------------------------------

// ArrowParams configures Arrow.
type ArrowParams struct {
	Style
	// S fixes the cross section instead of scaling it with the length.
	S   float64
	Res int
}

// Arrow builds a 3D arrow from start to end. The template arrow along +x
// is turned by the polar angles of the direction, scaled by the length and
// placed at start, so its tip lands on end.
func (f *Factory) Arrow(start, end v3.Vec, p ArrowParams) (*actor.Actor, error) {
	res := orDefaultInt(p.Res, f.cfg.Resolution.Arrow)
	axis := end.Sub(start)
	length := axis.Length()
	theta, phi := geom.Polar(axis)

	src := defaultArrowSource(res)
	scale := v3.Vec{X: length, Y: length, Z: length}
	if p.S > 0 {
		src = arrowSource{TipLength: 0.3, TipRadius: 0.02, ShaftRadius: 0.02 / 1.75, Res: res}
		scale = v3.Vec{X: length, Y: 800 * p.S, Z: 800 * p.S}
	}
	m44 := sdf.RotateZ(phi).
		Mul(sdf.RotateY(theta)).
		Mul(sdf.RotateY(-math.Pi / 2)).
		Mul(sdf.Scale3d(scale))

	a := actor.New("Arrow", src.mesh().Transform(m44)).Phong()
	p.Style.apply(a, red)
	a.SetPosition(start)
	a.Base, a.Top = start, end
	return f.register(a), nil
}

// ArrowsParams configures Arrows.
type ArrowsParams struct {
	Style
	// S fixes the aspect ratio of every arrow and scales its section.
	S float64
	// Scale multiplies every arrow length (default 1).
	Scale float64
	// Colors, when set, gives one colour per arrow.
	Colors []color.NRGBA
	Res    int
}

// Arrows instances the arrow template once per segment, aligned with it
// and scaled by its length.
func (f *Factory) Arrows(segs Segments, p ArrowsParams) (*actor.Actor, error) {
	if segs == nil {
		return nil, invalid("arrows: no segments")
	}
	starts, ends, err := segs.segments()
	if err != nil {
		return nil, err
	}
	if p.Colors != nil && len(p.Colors) != len(starts) {
		return nil, fmt.Errorf("%w: arrows: %d arrows, %d colors", ErrLengthMismatch, len(starts), len(p.Colors))
	}
	src := defaultArrowSource(orDefaultInt(p.Res, f.cfg.Resolution.Arrow))
	if p.S > 0 {
		sz := 0.02 * p.S
		src.TipRadius, src.ShaftRadius, src.TipLength = 2*sz, sz, 10*sz
	}
	scale := orDefault(p.Scale, 1)
	vecs := make([]v3.Vec, len(starts))
	for i := range starts {
		vecs[i] = ends[i].Sub(starts[i]).MulScalar(scale)
	}
	m := glyphMesh(src.mesh(), starts, vecs, true, true, p.Colors)

	a := actor.New("Arrows", m).Flat()
	p.Style.apply(a, red)
	if p.Colors != nil {
		a.Props.ScalarColors = true
	}
	return f.register(a), nil
}

// ---------------------------------------------------------------------------
// Spring
// ---------------------------------------------------------------------------

// SpringParams configures Spring.
type SpringParams struct {
	Style
	// Coils defaults to 20.
	Coils int
	// R is the radius at start (default 0.1) and R2 at end (default R).
	R, R2 float64
	// Thickness of the wire (default R/10).
	Thickness float64
}

// Spring builds a coil between start and end.
func (f *Factory) Spring(start, end v3.Vec, p SpringParams) (*actor.Actor, error) {
	diff := end.Sub(start)
	length := diff.Length()
	if length == 0 {
		return nil, invalid("spring: start and end coincide")
	}
	coils := orDefaultInt(p.Coils, 20)
	r := orDefault(p.R, 0.1)
	r2 := orDefault(p.R2, r)
	om := 2 * math.Pi * (float64(coils) - 0.5) / length

	pts := []v3.Vec{{}}
	for _, t := range geom.Linspace(0, length, 50*coils) {
		w := (length - t) / length
		rd := r*w + r2*(1-w)
		pts = append(pts, v3.Vec{X: rd * math.Cos(om*t), Y: rd * math.Sin(om*t), Z: t})
	}
	pts = append(pts, v3.Vec{Z: length})

	rot := geom.OrientZ(diff)
	for i := range pts {
		pts[i] = rot.MulPosition(pts[i])
	}
	thick := orDefault(p.Thickness, r/10)
	radii := make([]float64, len(pts))
	for i := range radii {
		radii[i] = thick
	}
	m, err := tubeMesh(pts, radii, nil, 12)
	if err != nil {
		return nil, err
	}

	a := actor.New("Spring", m).Phong()
	p.Style.apply(a, gray)
	a.SetPosition(start)
	a.Base, a.Top = start, end
	return f.register(a), nil
}
