package shapes

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// SplineParams configures Spline.
type SplineParams struct {
	Style
	// Smooth in [0, 1]: 0 passes through every point, 1 approaches the
	// least squares straight line.
	Smooth float64
	// Degree is 1 to 5 (default 2). 1 is piecewise linear; higher
	// degrees are interpolated with a natural cubic.
	Degree    int
	LineWidth float64
	// Res is the number of output points (default 20 per input point).
	Res int
}

// Spline builds a smoothing spline through pts. Smooth is turned into an
// absolute tolerance, Smooth * maxExtent / 2, on the summed squared
// distance between the points and the curve.
func (f *Factory) Spline(pts Coords, p SplineParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	ps = dedupe(ps)
	if len(ps) < 2 {
		return nil, invalid("spline: need at least 2 distinct points, got %d", len(ps))
	}
	if p.Smooth < 0 || p.Smooth > 1 {
		return nil, invalid("spline: smooth %g outside [0, 1]", p.Smooth)
	}
	if p.Degree < 0 || p.Degree > 5 {
		return nil, invalid("spline: degree %d outside [1, 5]", p.Degree)
	}
	degree := orDefaultInt(p.Degree, 2)
	res := orDefaultInt(p.Res, f.cfg.Resolution.SplinePerPoint*len(ps))

	lo, hi := geom.Bounds(ps)
	ext := hi.Sub(lo)
	tol := p.Smooth * math.Max(ext.X, math.Max(ext.Y, ext.Z)) / 2

	curve, err := fitSpline(ps, tol, degree)
	if err != nil {
		return nil, err
	}
	line := make([]v3.Vec, 0, res)
	for _, u := range geom.Linspace(0, 1, res) {
		line = append(line, curve(u))
	}

	a := actor.New("Spline", polylineMesh(line, 0))
	p.Style.apply(a, gray)
	a.SetLineWidth(orDefault(p.LineWidth, 2))
	a.Base, a.Top = ps[0], ps[len(ps)-1]
	a.Info["degree"] = strconv.Itoa(degree)
	return f.register(a), nil
}

// dedupe drops consecutive repeated points.
func dedupe(ps []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, 0, len(ps))
	for i, q := range ps {
		if i > 0 && q.Sub(out[len(out)-1]).Length() == 0 {
			continue
		}
		out = append(out, q)
	}
	return out
}

// chordParams returns the normalised cumulative chord length of ps,
// strictly increasing from 0 to 1 for distinct consecutive points.
func chordParams(ps []v3.Vec) []float64 {
	u := make([]float64, len(ps))
	for i := 1; i < len(ps); i++ {
		u[i] = u[i-1] + ps[i].Sub(ps[i-1]).Length()
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	u[len(u)-1] = 1
	return u
}

// fitSpline returns the curve u -> point on [0, 1]. The points are first
// smoothed with the largest Whittaker penalty whose residual stays within
// tol, then interpolated per axis.
func fitSpline(ps []v3.Vec, tol float64, degree int) (func(float64) v3.Vec, error) {
	u := chordParams(ps)
	xs, ys, zs := axes(ps)
	if tol > 0 && len(ps) >= 3 {
		var err error
		xs, ys, zs, err = smoothAxes(xs, ys, zs, tol)
		if err != nil {
			return nil, err
		}
	}

	fits := make([]interp.FittablePredictor, 3)
	for i, vals := range [][]float64{xs, ys, zs} {
		if degree == 1 || len(u) == 2 {
			fits[i] = &interp.PiecewiseLinear{}
		} else {
			fits[i] = &interp.NaturalCubic{}
		}
		if err := fits[i].Fit(u, vals); err != nil {
			return nil, fmt.Errorf("shapes: spline fit: %w", err)
		}
	}
	return func(t float64) v3.Vec {
		return v3.Vec{X: fits[0].Predict(t), Y: fits[1].Predict(t), Z: fits[2].Predict(t)}
	}, nil
}

func axes(ps []v3.Vec) (xs, ys, zs []float64) {
	xs = make([]float64, len(ps))
	ys = make([]float64, len(ps))
	zs = make([]float64, len(ps))
	for i, q := range ps {
		xs[i], ys[i], zs[i] = q.X, q.Y, q.Z
	}
	return xs, ys, zs
}

// smoothAxes bisects log10(lambda) for the stiffest smoothing whose summed
// squared residual does not exceed tol.
func smoothAxes(xs, ys, zs []float64, tol float64) (sx, sy, sz []float64, err error) {
	apply := func(logLambda float64) (float64, error) {
		var e error
		if sx, e = whittaker(xs, math.Pow(10, logLambda)); e != nil {
			return 0, e
		}
		if sy, e = whittaker(ys, math.Pow(10, logLambda)); e != nil {
			return 0, e
		}
		if sz, e = whittaker(zs, math.Pow(10, logLambda)); e != nil {
			return 0, e
		}
		return sqDist(xs, sx) + sqDist(ys, sy) + sqDist(zs, sz), nil
	}

	lo, hi := -8.0, 8.0
	r, err := apply(hi)
	if err != nil {
		return nil, nil, nil, err
	}
	if r <= tol {
		return sx, sy, sz, nil
	}
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		r, err := apply(mid)
		if err != nil {
			return nil, nil, nil, err
		}
		if r <= tol {
			lo = mid
		} else {
			hi = mid
		}
	}
	if _, err := apply(lo); err != nil {
		return nil, nil, nil, err
	}
	return sx, sy, sz, nil
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// whittaker solves (I + lambda D'D) z = y where D takes second
// differences. The system is pentadiagonal and positive definite.
func whittaker(y []float64, lambda float64) ([]float64, error) {
	n := len(y)
	if n < 3 {
		return append([]float64(nil), y...), nil
	}
	a := mat.NewSymBandDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a.SetSymBand(i, i, 1)
	}
	d := [3]float64{1, -2, 1}
	for r := 0; r+2 < n; r++ {
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				a.SetSymBand(r+i, r+j, a.At(r+i, r+j)+lambda*d[i]*d[j])
			}
		}
	}
	var chol mat.BandCholesky
	if !chol.Factorize(a) {
		return nil, fmt.Errorf("shapes: spline smoothing: matrix not positive definite")
	}
	z := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(z, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("shapes: spline smoothing: %w", err)
	}
	return z.RawVector().Data, nil
}

// KSplineParams configures KSpline.
type KSplineParams struct {
	Style
	Continuity, Tension, Bias float64
	// Closed joins the last point back to the first.
	Closed    bool
	LineWidth float64
	// Res is the number of output points (default 20 per input point).
	Res int
}

// KSpline builds a Kochanek-Bartels spline passing through every point.
// Point i sits at parameter i; a closed spline spans [0, N] and returns to
// the first point at N.
func (f *Factory) KSpline(pts Coords, p KSplineParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if len(ps) < 2 {
		return nil, invalid("kspline: need at least 2 points, got %d", len(ps))
	}
	ks := newKochanek(ps, p.Continuity, p.Tension, p.Bias, p.Closed)
	res := orDefaultInt(p.Res, f.cfg.Resolution.SplinePerPoint*len(ps))
	line := make([]v3.Vec, 0, res)
	for _, t := range geom.Linspace(0, ks.span(), res) {
		line = append(line, ks.eval(t))
	}

	a := actor.New("KSpline", polylineMesh(line, 0))
	p.Style.apply(a, gray)
	a.SetLineWidth(orDefault(p.LineWidth, 1))
	a.Base, a.Top = ps[0], ps[len(ps)-1]
	return f.register(a), nil
}

// kochanek holds the Hermite segments of a Kochanek-Bartels spline.
type kochanek struct {
	pts    []v3.Vec
	closed bool
	// out[i] leaves point i, in[i] arrives at point i.
	out, in []v3.Vec
}

func newKochanek(pts []v3.Vec, c, t, b float64, closed bool) *kochanek {
	n := len(pts)
	k := &kochanek{pts: pts, closed: closed, out: make([]v3.Vec, n), in: make([]v3.Vec, n)}
	for i := range pts {
		var prev, next v3.Vec
		switch {
		case closed:
			prev = pts[i].Sub(pts[(i-1+n)%n])
			next = pts[(i+1)%n].Sub(pts[i])
		case i == 0:
			next = pts[1].Sub(pts[0])
			prev = next
		case i == n-1:
			prev = pts[i].Sub(pts[i-1])
			next = prev
		default:
			prev = pts[i].Sub(pts[i-1])
			next = pts[i+1].Sub(pts[i])
		}
		k.out[i] = prev.MulScalar((1 - t) * (1 - c) * (1 + b) / 2).
			Add(next.MulScalar((1 - t) * (1 + c) * (1 - b) / 2))
		k.in[i] = prev.MulScalar((1 - t) * (1 + c) * (1 + b) / 2).
			Add(next.MulScalar((1 - t) * (1 - c) * (1 - b) / 2))
	}
	return k
}

// span is the parameter range: N for a closed loop, N-1 otherwise.
func (k *kochanek) span() float64 {
	if k.closed {
		return float64(len(k.pts))
	}
	return float64(len(k.pts) - 1)
}

func (k *kochanek) eval(t float64) v3.Vec {
	n := len(k.pts)
	segs := n - 1
	if k.closed {
		segs = n
	}
	t = math.Max(0, math.Min(t, k.span()))
	i := int(math.Floor(t))
	if i >= segs {
		i = segs - 1
	}
	s := t - float64(i)
	j := (i + 1) % n

	s2, s3 := s*s, s*s*s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return k.pts[i].MulScalar(h00).
		Add(k.out[i].MulScalar(h10)).
		Add(k.pts[j].MulScalar(h01)).
		Add(k.in[j].MulScalar(h11))
}
