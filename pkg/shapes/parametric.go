package shapes

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/chazu/shapekit/pkg/actor"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
)

// Surface names one of the built-in parametric surfaces.
type Surface int

const (
	Boy Surface = iota
	ConicSpiral
	CrossCap
	Dini
	Enneper
	Figure8Klein
	Klein
	Mobius
	RandomHills
	Roman
	SuperEllipsoid
	BohemianDome
	Bour
	CatalanMinimal
	Henneberg
	Kuen
	PluckerConoid
	Pseudosphere
)

var surfaceNames = [...]string{
	"Boy", "ConicSpiral", "CrossCap", "Dini", "Enneper",
	"Figure8Klein", "Klein", "Mobius", "RandomHills", "Roman",
	"SuperEllipsoid", "BohemianDome", "Bour", "CatalanMinimal",
	"Henneberg", "Kuen", "PluckerConoid", "Pseudosphere",
}

func (s Surface) String() string {
	if s < 0 || int(s) >= len(surfaceNames) {
		return "unknown"
	}
	return surfaceNames[s]
}

// SurfaceNames lists the parametric surfaces in index order.
func SurfaceNames() []string {
	return append([]string(nil), surfaceNames[:]...)
}

// ParseSurface looks a surface up by name, ignoring case.
func ParseSurface(name string) (Surface, error) {
	for i, n := range surfaceNames {
		if strings.EqualFold(n, name) {
			return Surface(i), nil
		}
	}
	return 0, fmt.Errorf("%w: parametric surface %q", ErrUnknownName, name)
}

// SurfaceFromIndex wraps i onto the surface list.
func SurfaceFromIndex(i int) Surface {
	n := len(surfaceNames)
	return Surface(((i % n) + n) % n)
}

// ParametricParams configures ParametricShape.
type ParametricParams struct {
	Style
	// Res is the number of cells along u and v.
	Res int
}

// ParametricShape builds a named parametric surface. An unknown name is
// logged and reported as ErrUnknownName. Every surface but Kuen is
// normalised to unit average size about the origin.
func (f *Factory) ParametricShape(name string, p ParametricParams) (*actor.Actor, error) {
	s, err := ParseSurface(name)
	if err != nil {
		return nil, f.report("parametric shape", err,
			zap.String("name", name), zap.Strings("available", SurfaceNames()))
	}
	return f.Parametric(s, p)
}

// Parametric builds surface s.
func (f *Factory) Parametric(s Surface, p ParametricParams) (*actor.Actor, error) {
	def, ok := surfaces[s]
	if !ok {
		return nil, f.report("parametric shape", fmt.Errorf("%w: surface %d", ErrUnknownName, int(s)))
	}
	res := orDefaultInt(p.Res, f.cfg.Resolution.Parametric)
	m := surfaceMesh(res, res, def.u0, def.u1, def.v0, def.v1, def.fn())
	if s != Kuen {
		m.Normalize()
	}
	a := actor.New(s.String(), m)
	p.Style.apply(a, powder)
	return f.register(a), nil
}

type surfaceDef struct {
	u0, u1, v0, v1 float64
	// fn returns the evaluator; RandomHills needs fresh state per call.
	fn func() func(u, v float64) v3.Vec
}

func constSurf(fn func(u, v float64) v3.Vec) func() func(u, v float64) v3.Vec {
	return func() func(u, v float64) v3.Vec { return fn }
}

// spow is the signed power used by superquadrics.
func spow(x, e float64) float64 {
	if x < 0 {
		return -math.Pow(-x, e)
	}
	return math.Pow(x, e)
}

const pi = math.Pi

var surfaces = map[Surface]surfaceDef{
	Boy: {0, pi, 0, pi, constSurf(func(u, v float64) v3.Vec {
		x := math.Cos(u) * math.Sin(v)
		y := math.Sin(u) * math.Sin(v)
		z := math.Cos(v)
		x2, y2, z2 := x*x, y*y, z*z
		s := x + y + z
		return v3.Vec{
			X: 0.5 * ((2*x2 - y2 - z2) + 2*y*z*(y2-z2) + z*x*(x2-z2) + x*y*(y2-x2)),
			Y: math.Sqrt(3) / 2 * ((y2 - z2) + z*x*(z2-x2) + x*y*(y2-x2)),
			Z: 0.125 * s * (s*s*s + 4*(y-x)*(z-y)*(x-z)),
		}
	})},
	ConicSpiral: {0, 2 * pi, 0, 2 * pi, constSurf(func(u, v float64) v3.Vec {
		const a, b, c, n = 0.2, 1.0, 0.1, 2.0
		k := a * (1 - v/(2*pi))
		return v3.Vec{
			X: k*math.Cos(n*v)*(1+math.Cos(u)) + c*math.Cos(n*v),
			Y: k*math.Sin(n*v)*(1+math.Cos(u)) + c*math.Sin(n*v),
			Z: b*v/(2*pi) + k*math.Sin(u),
		}
	})},
	CrossCap: {0, pi, 0, pi, constSurf(func(u, v float64) v3.Vec {
		cu, su, cv, sv := math.Cos(u), math.Sin(u), math.Cos(v), math.Sin(v)
		return v3.Vec{
			X: cu * math.Sin(2*v),
			Y: su * math.Sin(2*v),
			Z: cv*cv - cu*cu*sv*sv,
		}
	})},
	Dini: {0, 4 * pi, 0.001, 2, constSurf(func(u, v float64) v3.Vec {
		const a, b = 1.0, 0.2
		return v3.Vec{
			X: a * math.Cos(u) * math.Sin(v),
			Y: a * math.Sin(u) * math.Sin(v),
			Z: a*(math.Cos(v)+math.Log(math.Tan(v/2))) + b*u,
		}
	})},
	Enneper: {-2, 2, -2, 2, constSurf(func(u, v float64) v3.Vec {
		return v3.Vec{
			X: u - u*u*u/3 + u*v*v,
			Y: v - v*v*v/3 + v*u*u,
			Z: u*u - v*v,
		}
	})},
	Figure8Klein: {-pi, pi, -pi, pi, constSurf(func(u, v float64) v3.Vec {
		const r = 1.0
		w := r + math.Sin(v)*math.Cos(u/2) - math.Sin(2*v)*math.Sin(u/2)/2
		return v3.Vec{
			X: math.Cos(u) * w,
			Y: math.Sin(u) * w,
			Z: math.Sin(u/2)*math.Sin(v) + math.Cos(u/2)*math.Sin(2*v)/2,
		}
	})},
	Klein: {0, 2 * pi, -pi, pi, constSurf(func(u, v float64) v3.Vec {
		cv, sv := math.Cos(v), math.Sin(v)
		ch, sh := math.Cos(u/2), math.Sin(u/2)
		w := ch*(math.Sqrt2+cv) + sh*sv*cv
		return v3.Vec{
			X: math.Cos(u) * w,
			Y: math.Sin(u) * w,
			Z: -sh*(math.Sqrt2+cv) + ch*sv*cv,
		}
	})},
	Mobius: {0, 2 * pi, -0.5, 0.5, constSurf(func(u, v float64) v3.Vec {
		const r = 2.0
		w := r + v*math.Cos(u/2)
		return v3.Vec{X: w * math.Cos(u), Y: w * math.Sin(u), Z: v * math.Sin(u/2)}
	})},
	RandomHills: {-10, 10, -10, 10, randomHills(25, 1)},
	Roman: {0, pi, 0, pi, constSurf(func(u, v float64) v3.Vec {
		cv := math.Cos(v)
		return v3.Vec{
			X: cv * cv * math.Sin(2*u) / 2,
			Y: math.Sin(u) * math.Sin(2*v) / 2,
			Z: math.Cos(u) * math.Sin(2*v) / 2,
		}
	})},
	SuperEllipsoid: {-pi, pi, -pi / 2, pi / 2, constSurf(func(u, v float64) v3.Vec {
		const n1, n2 = 0.5, 0.4
		cv := spow(math.Cos(v), n1)
		return v3.Vec{
			X: cv * spow(math.Cos(u), n2),
			Y: cv * spow(math.Sin(u), n2),
			Z: spow(math.Sin(v), n1),
		}
	})},
	BohemianDome: {-pi, pi, -pi, pi, constSurf(func(u, v float64) v3.Vec {
		const a, b, c = 5.0, 1.0, 2.0
		return v3.Vec{X: a * math.Cos(u), Y: b*math.Cos(v) + a*math.Sin(u), Z: c * math.Sin(v)}
	})},
	Bour: {0, 1, 0, 4 * pi, constSurf(func(u, v float64) v3.Vec {
		return v3.Vec{
			X: u*math.Cos(v) - u*u*math.Cos(2*v)/2,
			Y: -u * (math.Sin(v) + u*math.Sin(2*v)/2),
			Z: 4.0 / 3 * math.Pow(u, 1.5) * math.Cos(1.5*v),
		}
	})},
	CatalanMinimal: {-4 * pi, 4 * pi, -1.5, 1.5, constSurf(func(u, v float64) v3.Vec {
		return v3.Vec{
			X: u - math.Sin(u)*math.Cosh(v),
			Y: 1 - math.Cos(u)*math.Cosh(v),
			Z: 4 * math.Sin(u/2) * math.Sinh(v/2),
		}
	})},
	Henneberg: {-1, 1, -pi / 2, pi / 2, constSurf(func(u, v float64) v3.Vec {
		return v3.Vec{
			X: 2*math.Sinh(u)*math.Cos(v) - 2.0/3*math.Sinh(3*u)*math.Cos(3*v),
			Y: 2*math.Sinh(u)*math.Sin(v) + 2.0/3*math.Sinh(3*u)*math.Sin(3*v),
			Z: 2 * math.Cosh(2*u) * math.Cos(2*v),
		}
	})},
	Kuen: {-4.5, 4.5, 0.001, pi - 0.001, constSurf(func(u, v float64) v3.Vec {
		sv := math.Sin(v)
		d := 1 + u*u*sv*sv
		return v3.Vec{
			X: 2 * (math.Cos(u) + u*math.Sin(u)) * sv / d,
			Y: 2 * (math.Sin(u) - u*math.Cos(u)) * sv / d,
			Z: math.Log(math.Tan(v/2)) + 2*math.Cos(v)/d,
		}
	})},
	PluckerConoid: {0, 3, 0, 2 * pi, constSurf(func(u, v float64) v3.Vec {
		const n = 2.0
		return v3.Vec{X: u * math.Cos(v), Y: u * math.Sin(v), Z: math.Sin(n * v)}
	})},
	Pseudosphere: {-5, 5, -pi, pi, constSurf(func(u, v float64) v3.Vec {
		sech := 1 / math.Cosh(u)
		return v3.Vec{X: sech * math.Cos(v), Y: sech * math.Sin(v), Z: u - math.Tanh(u)}
	})},
}

// randomHills scatters n Gaussian hills over the domain from a fixed seed,
// so every call builds the same terrain.
func randomHills(n int, seed int64) func() func(u, v float64) v3.Vec {
	return func() func(u, v float64) v3.Vec {
		rng := rand.New(rand.NewSource(seed))
		type hill struct{ cx, cy, sx, sy, amp float64 }
		hills := make([]hill, n)
		for i := range hills {
			hills[i] = hill{
				cx:  -10 + 20*rng.Float64(),
				cy:  -10 + 20*rng.Float64(),
				sx:  2.5 * (1.0/3 + rng.Float64()*2/3),
				sy:  2.5 * (1.0/3 + rng.Float64()*2/3),
				amp: 2 * (1.0/3 + rng.Float64()*2/3),
			}
		}
		return func(u, v float64) v3.Vec {
			var z float64
			for _, h := range hills {
				dx, dy := (u-h.cx)/h.sx, (v-h.cy)/h.sy
				z += h.amp * math.Exp(-(dx*dx+dy*dy)/2)
			}
			return v3.Vec{X: u, Y: v, Z: z}
		}
	}
}
