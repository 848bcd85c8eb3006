package geom

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const eps = 1e-9

func near(a, b v3.Vec, tol float64) bool {
	return a.Sub(b).Length() <= tol
}

func TestVersor(t *testing.T) {
	if got := Versor(Vec(3, 0, 4)); !near(got, Vec(0.6, 0, 0.8), eps) {
		t.Errorf("Versor = %v", got)
	}
	if got := Versor(v3.Vec{}); got != (v3.Vec{}) {
		t.Errorf("Versor(0) = %v, want zero vector", got)
	}
}

func TestPolar(t *testing.T) {
	tests := []struct {
		name       string
		axis       v3.Vec
		theta, phi float64
	}{
		{"z", Vec(0, 0, 1), 0, 0},
		{"-z", Vec(0, 0, -5), math.Pi, 0},
		{"x", Vec(2, 0, 0), math.Pi / 2, 0},
		{"y", Vec(0, 1, 0), math.Pi / 2, math.Pi / 2},
		{"zero", v3.Vec{}, math.Pi / 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta, phi := Polar(tt.axis)
			if math.Abs(theta-tt.theta) > eps || math.Abs(phi-tt.phi) > eps {
				t.Errorf("Polar(%v) = (%f, %f), want (%f, %f)", tt.axis, theta, phi, tt.theta, tt.phi)
			}
		})
	}
}

func TestOrientZ(t *testing.T) {
	axes := []v3.Vec{Vec(1, 0, 0), Vec(0, 1, 0), Vec(0, 0, -1), Vec(1, 2, 3), Vec(-1, -1, 0.2)}
	for _, a := range axes {
		got := OrientZ(a).MulPosition(Vec(0, 0, 1))
		if !near(got, Versor(a), 1e-9) {
			t.Errorf("OrientZ(%v) maps +z to %v, want %v", a, got, Versor(a))
		}
	}
}

func TestAlignX(t *testing.T) {
	dirs := []v3.Vec{Vec(1, 0, 0), Vec(-1, 0, 0), Vec(0, 1, 0), Vec(0, 0, 1), Vec(1, -2, 0.5)}
	for _, d := range dirs {
		m := AlignX(d)
		got := m.MulPosition(Vec(1, 0, 0))
		if !near(got, Versor(d), 1e-9) {
			t.Errorf("AlignX(%v) maps +x to %v", d, got)
		}
		// A rotation preserves length.
		if l := m.MulPosition(Vec(0.3, 0.4, 0)).Length(); math.Abs(l-0.5) > 1e-9 {
			t.Errorf("AlignX(%v) is not length preserving: %f", d, l)
		}
	}
	if got := AlignX(v3.Vec{}).MulPosition(Vec(1, 2, 3)); !near(got, Vec(1, 2, 3), eps) {
		t.Errorf("AlignX(0) is not identity: %v", got)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("got[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("Linspace with n=0 should be nil")
	}
	if got := Linspace(3, 7, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("Linspace n=1 = %v", got)
	}
}

func TestDegRad(t *testing.T) {
	if math.Abs(Deg(math.Pi)-180) > eps || math.Abs(Rad(90)-math.Pi/2) > eps {
		t.Error("degree conversion is off")
	}
}

func TestBoundsAndLength(t *testing.T) {
	pts := []v3.Vec{Vec(0, 0, 0), Vec(3, 0, 0), Vec(3, 4, -1)}
	min, max := Bounds(pts)
	if min != Vec(0, 0, -1) || max != Vec(3, 4, 0) {
		t.Errorf("Bounds = %v..%v", min, max)
	}
	if l := PolylineLength(pts[:2]); l != 3 {
		t.Errorf("PolylineLength = %f, want 3", l)
	}
}

func TestResample(t *testing.T) {
	pts := []v3.Vec{Vec(0, 0, 0), Vec(1, 0, 0), Vec(1, 3, 0)}
	out := Resample(pts, 5)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	if out[0] != pts[0] || !near(out[4], pts[2], eps) {
		t.Errorf("endpoints = %v, %v", out[0], out[4])
	}
	// Total length 4, so samples are 1 apart along the path.
	if !near(out[1], Vec(1, 0, 0), eps) || !near(out[2], Vec(1, 1, 0), eps) {
		t.Errorf("samples = %v", out)
	}
}

func TestPerpendicular(t *testing.T) {
	for _, v := range []v3.Vec{Vec(0, 0, 1), Vec(1, 0, 0), Vec(1, 1, 1)} {
		p := Perpendicular(v)
		if math.Abs(p.Dot(v)) > eps || math.Abs(p.Length()-1) > eps {
			t.Errorf("Perpendicular(%v) = %v", v, p)
		}
	}
}

func TestFrame(t *testing.T) {
	tests := []struct {
		name string
		x, y v3.Vec
	}{
		{"identity", Vec(1, 0, 0), Vec(0, 1, 0)},
		{"swapped", Vec(0, 1, 0), Vec(1, 0, 0)},
		{"skew", Vec(1, 1, 0), Vec(0, 0, 2)},
		{"y not orthogonal", Vec(0, 0, 3), Vec(1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Frame(tt.x, tt.y)
			xu := Versor(tt.x)
			yu := Versor(tt.y.Sub(xu.MulScalar(xu.Dot(tt.y))))
			if got := m.MulPosition(Vec(1, 0, 0)); !near(got, xu, 1e-9) {
				t.Errorf("x axis -> %v, want %v", got, xu)
			}
			if got := m.MulPosition(Vec(0, 1, 0)); !near(got, yu, 1e-9) {
				t.Errorf("y axis -> %v, want %v", got, yu)
			}
			if got := m.MulPosition(Vec(0, 0, 1)); !near(got, xu.Cross(yu), 1e-9) {
				t.Errorf("z axis -> %v, want %v", got, xu.Cross(yu))
			}
		})
	}
}
