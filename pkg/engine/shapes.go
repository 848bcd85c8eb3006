package engine

import (
	"fmt"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/shapes"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// shapeBuiltins maps each DSL name (after kebab-case conversion) to the
// factory call it makes. Positional points come first; everything else is
// a keyword.
var shapeBuiltins = map[string]shapeFn{
	// (points (list (vec3 0 0 0) ...) :r 5 :colors (list "red" ...) :alphas (list 1 ...))
	"points": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.PointsParams{}
		a.float("r", &p.R)
		a.float("alpha", &p.Alpha)
		if a.has("colors") || a.has("alphas") {
			var pp shapes.PerPoint
			a.colors("colors", &pp.Colors)
			a.floats("alphas", &pp.Alphas)
			p.Paint = pp
		} else if a.has("c") {
			var u shapes.Uniform
			a.color("c", &u.Color)
			p.Paint = u
		}
		if !a.ok() {
			return nil, nil
		}
		return b.f.Points(pts, p)
	},

	// (point (vec3 1 2 3) :r 12 :c "red")
	"point": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.PointParams{Style: a.style()}
		a.float("r", &p.R)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Point(pos, p)
	},

	// (line (list p0 p1 ...) :line-width 2 :dotted true :res 10)
	"line": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.LineParams{Style: a.style()}
		a.float("line-width", &p.LineWidth)
		a.bool("dotted", &p.Dotted)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Line(pts, p)
	},

	// (dashed-line (list p0 p1 ...) :spacing 0.1)
	"dashed_line": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.DashedLineParams{Style: a.style()}
		a.float("spacing", &p.Spacing)
		a.float("line-width", &p.LineWidth)
		if !a.ok() {
			return nil, nil
		}
		return b.f.DashedLine(pts, p)
	},

	// (lines starts ends :scale 1) or (lines (list (list p0 p1) ...))
	"lines": func(b *builder, a *args) (*actor.Actor, error) {
		segs := segments(a)
		p := shapes.LinesParams{Style: a.style()}
		a.float("line-width", &p.LineWidth)
		a.bool("dotted", &p.Dotted)
		a.float("scale", &p.Scale)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Lines(segs, p)
	},

	// (spline (list ...) :smooth 0.5 :degree 2 :res 100)
	"spline": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.SplineParams{Style: a.style(), Smooth: 0.5, Degree: 2}
		a.float("smooth", &p.Smooth)
		a.int("degree", &p.Degree)
		a.float("line-width", &p.LineWidth)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Spline(pts, p)
	},

	// (kspline (list ...) :continuity 0 :tension 0 :bias 0 :closed true)
	"kspline": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.KSplineParams{Style: a.style()}
		a.float("continuity", &p.Continuity)
		a.float("tension", &p.Tension)
		a.float("bias", &p.Bias)
		a.bool("closed", &p.Closed)
		a.float("line-width", &p.LineWidth)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.KSpline(pts, p)
	},

	// (tube (list ...) :r 0.1 :radii (list ...) :colors (list ...))
	"tube": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		p := shapes.TubeParams{Style: a.style()}
		a.float("r", &p.R)
		a.floats("radii", &p.Radii)
		a.colors("colors", &p.Colors)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Tube(pts, p)
	},

	// (ribbon line1 line2 :res 200)
	"ribbon": func(b *builder, a *args) (*actor.Actor, error) {
		l1 := a.posVecs(0, "line1")
		l2 := a.posVecs(1, "line2")
		p := shapes.RibbonParams{Style: a.style()}
		a.int("res", &p.Res[0])
		a.int("res-across", &p.Res[1])
		if !a.ok() {
			return nil, nil
		}
		return b.f.Ribbon(l1, l2, p)
	},

	// (flat-arrow line1 line2 :tip-size 1 :tip-width 1)
	"flat_arrow": func(b *builder, a *args) (*actor.Actor, error) {
		l1 := a.posVecs(0, "line1")
		l2 := a.posVecs(1, "line2")
		p := shapes.FlatArrowParams{Style: a.style()}
		a.float("tip-size", &p.TipSize)
		a.float("tip-width", &p.TipWidth)
		if !a.ok() {
			return nil, nil
		}
		return b.f.FlatArrow(l1, l2, p)
	},

	// (arrow start end :s 0.05 :res 12)
	"arrow": func(b *builder, a *args) (*actor.Actor, error) {
		var start, end v3.Vec
		a.posVec(0, "start", &start)
		a.posVec(1, "end", &end)
		p := shapes.ArrowParams{Style: a.style()}
		a.float("s", &p.S)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Arrow(start, end, p)
	},

	// (arrows starts ends :scale 1 :colors (list ...))
	"arrows": func(b *builder, a *args) (*actor.Actor, error) {
		segs := segments(a)
		p := shapes.ArrowsParams{Style: a.style()}
		a.float("s", &p.S)
		a.float("scale", &p.Scale)
		a.colors("colors", &p.Colors)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Arrows(segs, p)
	},

	// (spring start end :coils 20 :r 0.1 :r2 0.1 :thickness 0.01)
	"spring": func(b *builder, a *args) (*actor.Actor, error) {
		var start, end v3.Vec
		a.posVec(0, "start", &start)
		a.posVec(1, "end", &end)
		p := shapes.SpringParams{Style: a.style()}
		a.int("coils", &p.Coils)
		a.float("r", &p.R)
		a.float("r2", &p.R2)
		a.float("thickness", &p.Thickness)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Spring(start, end, p)
	},

	// (polygon :pos (vec3 0 0 0) :n 6 :r 1)
	"polygon": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.PolygonParams{Style: a.style()}
		a.int("n", &p.N)
		a.float("r", &p.R)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Polygon(pos, p)
	},

	// (circle :pos ... :r 1 :fill true :res 120)
	"circle": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.CircleParams{Style: a.style()}
		a.float("r", &p.R)
		a.bool("fill", &p.Fill)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Circle(pos, p)
	},

	// (star :pos ... :n 5 :r1 0.7 :r2 1 :line true)
	"star": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.StarParams{Style: a.style()}
		a.int("n", &p.N)
		a.float("r1", &p.R1)
		a.float("r2", &p.R2)
		a.bool("line", &p.Line)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Star(pos, p)
	},

	// (rectangle p1 p2)
	"rectangle": func(b *builder, a *args) (*actor.Actor, error) {
		var p1, p2 v3.Vec
		a.posVec(0, "p1", &p1)
		a.posVec(1, "p2", &p2)
		p := shapes.RectangleParams{Style: a.style()}
		a.float("line-width", &p.LineWidth)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Rectangle(p1, p2, p)
	},

	// (disc :pos ... :r1 0.5 :r2 1 :res 12 :res-phi 72)
	"disc": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.DiscParams{Style: a.style()}
		a.float("r1", &p.R1)
		a.float("r2", &p.R2)
		a.int("res", &p.Res)
		a.int("res-phi", &p.ResPhi)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Disc(pos, p)
	},

	// (arc center point1 :point2 p :normal n :angle 90 :invert true)
	"arc": func(b *builder, a *args) (*actor.Actor, error) {
		var center, point1 v3.Vec
		a.posVec(0, "center", &center)
		a.posVec(1, "point1", &point1)
		p := shapes.ArcParams{Style: a.style()}
		p.Point2 = a.vecPtr("point2")
		p.Normal = a.vecPtr("normal")
		a.float("angle", &p.Angle)
		a.bool("invert", &p.Invert)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Arc(center, point1, p)
	},

	// (grid :pos ... :normal (vec3 0 0 1) :sx 1 :sy 1 :res-x 10 :res-y 10)
	"grid": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.GridParams{Style: a.style()}
		a.vec("normal", &p.Normal)
		a.float("sx", &p.SX)
		a.float("sy", &p.SY)
		a.floats("x-coords", &p.XCoords)
		a.floats("y-coords", &p.YCoords)
		a.int("res-x", &p.ResX)
		a.int("res-y", &p.ResY)
		a.float("line-width", &p.LineWidth)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Grid(pos, p)
	},

	// (plane :pos ... :normal (vec3 0 0 1) :sx 1 :sy 1)
	"plane": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.PlaneParams{Style: a.style()}
		a.vec("normal", &p.Normal)
		a.float("sx", &p.SX)
		a.float("sy", &p.SY)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Plane(pos, p)
	},

	// (sphere :pos (vec3 0 0 0) :r 1 :c "red")
	"sphere": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.SphereParams{Style: a.style()}
		a.float("r", &p.R)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Sphere(pos, p)
	},

	// (spheres centers :r 0.1 :radii (list ...) :colors (list ...))
	"spheres": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "centers")
		p := shapes.SpheresParams{Style: a.style()}
		a.float("r", &p.R)
		a.floats("radii", &p.Radii)
		a.colors("colors", &p.Colors)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Spheres(pts, p)
	},

	// (ellipsoid :pos ... :axis1 (vec3 1 0 0) :axis2 ... :axis3 ...)
	"ellipsoid": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.EllipsoidParams{Style: a.style()}
		a.vec("axis1", &p.Axis1)
		a.vec("axis2", &p.Axis2)
		a.vec("axis3", &p.Axis3)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Ellipsoid(pos, p)
	},

	// (box :pos ... :length 1 :width 2 :height 3)
	"box": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.BoxParams{Style: a.style()}
		a.float("length", &p.Length)
		a.float("width", &p.Width)
		a.float("height", &p.Height)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Box(pos, p)
	},

	// (cube :pos ... :side 1)
	"cube": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.CubeParams{Style: a.style()}
		a.float("side", &p.Side)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Cube(pos, p)
	},

	// (cylinder :pos ... :r 1 :height 2 :axis (vec3 0 0 1))
	// (cylinder base top :r 1) spans two points instead.
	"cylinder": func(b *builder, a *args) (*actor.Actor, error) {
		p := shapes.CylinderParams{Style: a.style()}
		a.float("r", &p.R)
		a.float("height", &p.Height)
		a.vec("axis", &p.Axis)
		a.int("res", &p.Res)
		if len(a.pa.positional) >= 2 {
			var base, top v3.Vec
			a.posVec(0, "base", &base)
			a.posVec(1, "top", &top)
			if !a.ok() {
				return nil, nil
			}
			return b.f.CylinderBetween(base, top, p)
		}
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Cylinder(pos, p)
	},

	// (cone :pos ... :r 1 :height 3 :axis (vec3 0 0 1))
	"cone": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.ConeParams{Style: a.style()}
		a.float("r", &p.R)
		a.float("height", &p.Height)
		a.vec("axis", &p.Axis)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Cone(pos, p)
	},

	// (pyramid :pos ... :s 1 :height 1 :axis ...)
	"pyramid": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.PyramidParams{Style: a.style()}
		a.float("s", &p.S)
		a.float("height", &p.Height)
		a.vec("axis", &p.Axis)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Pyramid(pos, p)
	},

	// (torus :pos ... :r 1 :thickness 0.2)
	"torus": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.TorusParams{Style: a.style()}
		a.float("r", &p.R)
		a.float("thickness", &p.Thickness)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Torus(pos, p)
	},

	// (paraboloid :pos ... :r 1 :height 1 :res 50)
	"paraboloid": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.ParaboloidParams{Style: a.style()}
		a.float("r", &p.R)
		a.float("height", &p.Height)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Paraboloid(pos, p)
	},

	// (hyperboloid :pos ... :a2 1 :value 0.5 :height 1 :res 100)
	"hyperboloid": func(b *builder, a *args) (*actor.Actor, error) {
		var pos v3.Vec
		a.posVecOr(0, "pos", &pos)
		p := shapes.HyperboloidParams{Style: a.style()}
		a.float("a2", &p.A2)
		a.float("value", &p.Value)
		a.float("height", &p.Height)
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		return b.f.Hyperboloid(pos, p)
	},

	// (parametric "Klein" :res 51) or (parametric 6)
	"parametric": func(b *builder, a *args) (*actor.Actor, error) {
		v := a.positional(0, "name")
		p := shapes.ParametricParams{Style: a.style()}
		a.int("res", &p.Res)
		if !a.ok() {
			return nil, nil
		}
		if i, ok := v.(*zygo.SexpInt); ok {
			return b.f.Parametric(shapes.SurfaceFromIndex(int(i.Val)), p)
		}
		name, err := toKeywordString(v)
		if err != nil {
			return nil, err
		}
		return b.f.ParametricShape(name, p)
	},

	// (marker "*" :s 0.1 :hollow true) or (marker 3)
	"marker": func(b *builder, a *args) (*actor.Actor, error) {
		v := a.positional(0, "symbol")
		p := shapes.MarkerParams{Style: a.style()}
		a.float("s", &p.S)
		a.bool("hollow", &p.Hollow)
		if !a.ok() {
			return nil, nil
		}
		if i, ok := v.(*zygo.SexpInt); ok {
			return b.f.MarkerIndex(int(i.Val), p)
		}
		sym, err := toKeywordString(v)
		if err != nil {
			return nil, err
		}
		return b.f.Marker(sym, p)
	},

	// (latex "e^{i\\pi}" :pos ... :s 1 :res 30 :bg "white" :offline true)
	"latex": func(b *builder, a *args) (*actor.Actor, error) {
		formula := a.posString(0, "formula")
		var pos v3.Vec
		a.vec("pos", &pos)
		p := shapes.LatexParams{Style: a.style()}
		a.float("s", &p.S)
		a.int("res", &p.Res)
		a.bool("offline", &p.Offline)
		if a.has("bg") {
			c := p.Color
			a.color("bg", &c)
			p.Background = &c
		}
		if !a.ok() {
			return nil, nil
		}
		return b.f.Latex(b.ctx, formula, pos, p)
	},

	// (glyph points (cone :r 0.1) :orientations vecs :scale-by-vector true
	//        :color-by-vector true :colors (list ...))
	// The template shape is consumed: it is removed from the scene.
	"glyph": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		tv := a.positional(1, "template")
		p := shapes.GlyphParams{Style: a.style()}
		a.vecs("orientations", &p.Orientations)
		a.bool("scale-by-vector", &p.ScaleByVector)
		a.bool("color-by-vector", &p.ColorByVector)
		a.colors("colors", &p.Colors)
		if !a.ok() {
			return nil, nil
		}
		tmpl, err := toActor(tv)
		if err != nil {
			return nil, err
		}
		b.f.Collection().Remove(tmpl.ID)
		return b.f.Glyph(pts, tmpl.WorldMesh(), p)
	},

	// (tensors points (list (list 9 numbers) ...) :source :cylinder
	//          :three-axes true :scale 1 :max-scale 10)
	"tensors": func(b *builder, a *args) (*actor.Actor, error) {
		pts := a.posVecs(0, "points")
		tv := a.positional(1, "tensors")
		p := shapes.TensorsParams{Style: a.style()}
		var source string
		a.str("source", &source)
		a.bool("three-axes", &p.ThreeAxes)
		a.float("scale", &p.Scale)
		a.float("max-scale", &p.MaxScale)
		if !a.ok() {
			return nil, nil
		}
		if source != "" {
			s, err := shapes.ParseTensorSource(source)
			if err != nil {
				return nil, err
			}
			p.Source = s
		}
		ts, err := toTensors(tv)
		if err != nil {
			return nil, err
		}
		return b.f.Tensors(pts, ts, p)
	},
}

// segments reads (f starts ends) or (f pairs).
func segments(a *args) shapes.Segments {
	if len(a.pa.positional) >= 2 {
		return shapes.StartEnd{Starts: a.posVecs(0, "starts"), Ends: a.posVecs(1, "ends")}
	}
	v := a.positional(0, "segments")
	if !a.ok() {
		return nil
	}
	items, err := sexpListToSlice(v)
	if err != nil {
		a.fail("segments", err)
		return nil
	}
	pairs := make(shapes.Pairs, len(items))
	for i, it := range items {
		ends, err := toVecs(it)
		if err == nil && len(ends) != 2 {
			err = fmt.Errorf("expected 2 points, got %d", len(ends))
		}
		if err != nil {
			a.fail(fmt.Sprintf("segment %d", i), err)
			return nil
		}
		pairs[i] = [2]v3.Vec{ends[0], ends[1]}
	}
	return pairs
}

// toTensors reads a list of 9-number lists, row-major.
func toTensors(s zygo.Sexp) ([]shapes.Tensor, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]shapes.Tensor, len(items))
	for i, it := range items {
		fs, err := toFloats(it)
		if err != nil {
			return nil, fmt.Errorf("tensor %d: %w", i, err)
		}
		if len(fs) != 9 {
			return nil, fmt.Errorf("tensor %d: expected 9 components, got %d", i, len(fs))
		}
		copy(out[i][:], fs)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// registerText installs text, which returns either a shape or an
// annotation depending on where it is placed:
//
//	(text "hi" :pos (vec3 0 0 0) :s 1 :depth 0.2 :justify :center)
//	(text "hi" :corner :top-right :font "times")
//	(text "hi" :screen (list 10 20))
func registerText(env *zygo.Zlisp, b *builder) {
	env.AddFunction("text", func(env *zygo.Zlisp, _ string, raw []zygo.Sexp) (zygo.Sexp, error) {
		a := newArgs("text", raw)
		txt := a.posString(0, "text")
		p := shapes.TextParams{Style: a.style()}
		a.float("s", &p.S)
		a.float("depth", &p.Depth)
		a.str("font", &p.Font)
		var justify string
		a.str("justify", &justify)
		p.Justify = shapes.ParseJustify(justify)
		if a.has("back-color") {
			c := p.Color
			a.color("back-color", &c)
			p.BackColor = &c
		}
		if a.has("bg") {
			c := p.Color
			a.color("bg", &c)
			p.Background = &c
		}

		var at shapes.Placement
		switch {
		case a.has("corner"):
			var corner string
			a.str("corner", &corner)
			at = shapes.Anchor{Corner: actor.ParseCorner(corner)}
		case a.has("screen"):
			var xy v3.Vec
			a.vec("screen", &xy)
			at = shapes.Screen{X: xy.X, Y: xy.Y}
		default:
			var pos v3.Vec
			a.vec("pos", &pos)
			at = shapes.World{Pos: pos}
		}
		if !a.ok() {
			return zygo.SexpNull, a.err
		}

		it, err := b.f.Text(txt, at, p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("text: %w", err)
		}
		switch it := it.(type) {
		case *actor.Actor:
			return &sexpActor{a: it}, nil
		case *actor.Annotation:
			return &sexpAnnotation{an: it}, nil
		}
		return zygo.SexpNull, nil
	})
}

// ---------------------------------------------------------------------------
// Mutators
// ---------------------------------------------------------------------------

// mutators change a shape in place and return it, so calls chain:
//
//	(alpha (color (sphere) "blue") 0.5)
var mutators = map[string]func(a *actor.Actor, arg zygo.Sexp) error{
	"color": func(a *actor.Actor, arg zygo.Sexp) error {
		c, err := toColor(arg)
		if err == nil {
			a.SetColor(c)
		}
		return err
	},
	"alpha":      floatMutator(func(a *actor.Actor, v float64) { a.SetAlpha(v) }),
	"line_width": floatMutator(func(a *actor.Actor, v float64) { a.SetLineWidth(v) }),
	"point_size": floatMutator(func(a *actor.Actor, v float64) { a.SetPointSize(v) }),
	"rotate_x":   floatMutator(func(a *actor.Actor, v float64) { a.RotateX(v) }),
	"rotate_y":   floatMutator(func(a *actor.Actor, v float64) { a.RotateY(v) }),
	"rotate_z":   floatMutator(func(a *actor.Actor, v float64) { a.RotateZ(v) }),
	"scale": func(a *actor.Actor, arg zygo.Sexp) error {
		if f, err := toFloat64(arg); err == nil {
			a.SetScale(v3.Vec{X: f, Y: f, Z: f})
			return nil
		}
		v, err := toVec3(arg)
		if err == nil {
			a.SetScale(v)
		}
		return err
	},
	"move": func(a *actor.Actor, arg zygo.Sexp) error {
		v, err := toVec3(arg)
		if err == nil {
			a.SetPosition(v)
		}
		return err
	},
	"orient": func(a *actor.Actor, arg zygo.Sexp) error {
		v, err := toVec3(arg)
		if err == nil {
			a.Orient(v)
		}
		return err
	},
	"back_color": func(a *actor.Actor, arg zygo.Sexp) error {
		c, err := toColor(arg)
		if err == nil {
			a.SetBackColor(c)
		}
		return err
	},
	"wireframe": func(a *actor.Actor, arg zygo.Sexp) error {
		on, err := toBool(arg)
		if err == nil {
			a.SetWireframe(on)
		}
		return err
	},
	"lighting": func(a *actor.Actor, arg zygo.Sexp) error {
		name, err := toKeywordString(arg)
		if err != nil {
			return err
		}
		switch name {
		case "flat":
			a.Flat()
		case "phong":
			a.Phong()
		case "ambient":
			a.Ambient()
		case "default":
			a.SetLighting(actor.LightingDefault)
		default:
			return fmt.Errorf("unknown lighting %q, expected flat, phong, ambient or default", name)
		}
		return nil
	},
}

func floatMutator(set func(a *actor.Actor, v float64)) func(a *actor.Actor, arg zygo.Sexp) error {
	return func(a *actor.Actor, arg zygo.Sexp) error {
		v, err := toFloat64(arg)
		if err == nil {
			set(a, v)
		}
		return err
	}
}

func registerMutators(env *zygo.Zlisp, b *builder) {
	for name, fn := range mutators {
		display := kebab(name)
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, raw []zygo.Sexp) (zygo.Sexp, error) {
			if len(raw) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape", display)
			}
			act, err := toActor(raw[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			arg := zygo.Sexp(zygo.SexpNull)
			if len(raw) > 1 {
				arg = raw[1]
			}
			if err := fn(act, arg); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			return raw[0], nil
		})
	}

	// (clone shape) registers an independent copy.
	env.AddFunction("clone", func(env *zygo.Zlisp, _ string, raw []zygo.Sexp) (zygo.Sexp, error) {
		if len(raw) != 1 {
			return zygo.SexpNull, fmt.Errorf("clone requires exactly 1 argument, got %d", len(raw))
		}
		act, err := toActor(raw[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clone: %w", err)
		}
		c := act.Clone()
		b.f.Collection().Add(c)
		return &sexpActor{a: c}, nil
	})

	// (remove shape) drops a shape from the scene.
	env.AddFunction("remove", func(env *zygo.Zlisp, _ string, raw []zygo.Sexp) (zygo.Sexp, error) {
		for _, r := range raw {
			switch v := r.(type) {
			case *sexpActor:
				b.f.Collection().Remove(v.a.ID)
			case *sexpAnnotation:
				b.f.Collection().Remove(v.an.ID)
			default:
				return zygo.SexpNull, fmt.Errorf("remove: expected shape, got %T", r)
			}
		}
		return zygo.SexpNull, nil
	})
}

func kebab(name string) string {
	out := []byte(name)
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
