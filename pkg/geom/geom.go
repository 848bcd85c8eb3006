// Package geom holds the small amount of vector math shared by the shape
// factories: safe normalisation, polar angles of an axis and the rotations
// that carry a canonical template onto an arbitrary direction.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec builds a vector from components.
func Vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// Versor returns v scaled to unit length. The zero vector is returned
// unchanged instead of producing NaNs.
func Versor(v v3.Vec) v3.Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.DivScalar(l)
}

// Polar returns the polar angle theta (from +z) and azimuth phi (from +x)
// of axis, in radians. A zero axis yields theta=pi/2, phi=0.
func Polar(axis v3.Vec) (theta, phi float64) {
	a := Versor(axis)
	theta = math.Acos(clamp(a.Z, -1, 1))
	phi = math.Atan2(a.Y, a.X)
	return theta, phi
}

// OrientZ returns the rotation carrying +z onto axis.
func OrientZ(axis v3.Vec) sdf.M44 {
	theta, phi := Polar(axis)
	if axis.Length() == 0 {
		return sdf.Identity3d()
	}
	return sdf.RotateZ(phi).Mul(sdf.RotateY(theta))
}

// AlignX returns the rotation carrying +x onto dir: a half turn about the
// bisector of +x and dir. A zero dir gives the identity.
func AlignX(dir v3.Vec) sdf.M44 {
	d := Versor(dir)
	if d.Length() == 0 {
		return sdf.Identity3d()
	}
	bisector := d.Add(v3.Vec{X: 1})
	if bisector.Length() < 1e-12 {
		// dir is -x.
		return sdf.RotateZ(math.Pi)
	}
	return sdf.Rotate3d(Versor(bisector), math.Pi)
}

// Frame returns the rotation carrying +x onto x and +y onto the part of y
// orthogonal to x, so +z lands on their cross product.
func Frame(x, y v3.Vec) sdf.M44 {
	align := AlignX(x)
	xu := Versor(x)
	if xu.Length() == 0 {
		return align
	}
	got := align.MulPosition(v3.Vec{Y: 1})
	want := Versor(y.Sub(xu.MulScalar(xu.Dot(y))))
	if want.Length() == 0 {
		return align
	}
	angle := math.Atan2(got.Cross(want).Dot(xu), got.Dot(want))
	return sdf.Rotate3d(xu, angle).Mul(align)
}

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + step*float64(i)
	}
	out[n-1] = b
	return out
}

// Lerp interpolates between a and b.
func Lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Bounds returns the axis-aligned bounds of pts.
func Bounds(pts []v3.Vec) (min, max v3.Vec) {
	if len(pts) == 0 {
		return
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min = v3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = v3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return min, max
}

// PolylineLength returns the summed segment lengths of pts.
func PolylineLength(pts []v3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Sub(pts[i-1]).Length()
	}
	return l
}

// Resample returns n points spaced evenly by arc length along pts.
func Resample(pts []v3.Vec, n int) []v3.Vec {
	if len(pts) == 0 || n <= 0 {
		return nil
	}
	if len(pts) == 1 || n == 1 {
		out := make([]v3.Vec, n)
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Sub(pts[i-1]).Length()
	}
	total := cum[len(cum)-1]
	out := make([]v3.Vec, n)
	seg := 1
	for i := range out {
		target := total * float64(i) / float64(n-1)
		for seg < len(pts)-1 && cum[seg] < target {
			seg++
		}
		span := cum[seg] - cum[seg-1]
		t := 0.0
		if span > 0 {
			t = (target - cum[seg-1]) / span
		}
		out[i] = Lerp(pts[seg-1], pts[seg], clamp(t, 0, 1))
	}
	return out
}

// Perpendicular returns a unit vector orthogonal to v.
func Perpendicular(v v3.Vec) v3.Vec {
	a := Versor(v)
	ref := v3.Vec{Z: 1}
	if math.Abs(a.Z) > 0.9 {
		ref = v3.Vec{X: 1}
	}
	return Versor(a.Cross(ref))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
