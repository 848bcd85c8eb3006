package shapes

import (
	"image/color"
	"math"
	"testing"

	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outwardVolume is the signed volume enclosed by the polygons of m,
// positive when they are wound counter-clockwise seen from outside.
func outwardVolume(m *kernel.Mesh) float64 {
	var v float64
	for _, cell := range m.Polys {
		a := m.Points[cell[0]]
		for i := 1; i+1 < len(cell); i++ {
			b, c := m.Points[cell[i]], m.Points[cell[i+1]]
			v += a.Dot(b.Cross(c)) / 6
		}
	}
	return v
}

func TestSourcesAreClosedAndOutward(t *testing.T) {
	tests := []struct {
		name string
		mesh *kernel.Mesh
		want float64
		tol  float64
	}{
		{"box", boxMesh(1, 2, 3), 6, 1e-12},
		{"sphere", sphereMesh(1, 64, 32), 4 * math.Pi / 3, 0.05},
		{"cylinder", cylinderMesh(1, 2, 64), 2 * math.Pi, 0.05},
		{"cone", coneMesh(1, 3, 64), math.Pi, 0.05},
		// the shaft is open where it enters the tip
		{"arrow", defaultArrowSource(32).mesh(), math.Pi*0.03*0.03*0.65*2/3 + math.Pi*0.1*0.1*0.35/3, 1e-4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outwardVolume(tt.mesh)
			t.Logf("%s volume %g, want %g", tt.name, got, tt.want)
			assert.InDelta(t, tt.want, got, tt.tol)
		})
	}
}

func TestSphere(t *testing.T) {
	f, _ := newTestFactory(t)
	pos := v3.Vec{X: 1, Y: 2, Z: 3}
	a, err := f.Sphere(pos, SphereParams{R: 2, Res: 10})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 2+9*20)
	for _, p := range a.WorldMesh().Points {
		assert.InDelta(t, 2, p.Sub(pos).Length(), 1e-9)
	}
	assert.Equal(t, red, a.Props.Color)
}

func TestSpheres(t *testing.T) {
	f, _ := newTestFactory(t)
	centers := Vecs{{}, {X: 5}}
	a, err := f.Spheres(centers, SpheresParams{
		Radii:  []float64{1, 2},
		Colors: []color.NRGBA{red, green},
		Res:    6,
	})
	require.NoError(t, err)
	half := len(a.Mesh.Points) / 2
	assert.InDelta(t, 1, maxRadius(&kernel.Mesh{Points: a.Mesh.Points[:half]}, v3.Vec{}), 1e-9)
	assert.InDelta(t, 2, maxRadius(&kernel.Mesh{Points: a.Mesh.Points[half:]}, v3.Vec{X: 5}), 1e-9)
	assert.Equal(t, green, a.Mesh.Colors[half])

	_, err = f.Spheres(centers, SpheresParams{Radii: []float64{1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = f.Spheres(centers, SpheresParams{Colors: []color.NRGBA{red, red, red}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEllipsoidAxes(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Ellipsoid(v3.Vec{}, EllipsoidParams{Res: 40})
	require.NoError(t, err)
	lo, hi := a.Mesh.BoundingBox()
	// default semi-diameters 1, 2 and 3 along x, y and z
	assert.InDelta(t, 1, hi.X-lo.X, 0.02)
	assert.InDelta(t, 2, hi.Y-lo.Y, 0.02)
	assert.InDelta(t, 3, hi.Z-lo.Z, 1e-9)
	assert.True(t, a.Props.BackfaceCulling)
	vecNear(t, v3.Vec{X: -0.5}, a.Base, 1e-12)
	vecNear(t, v3.Vec{X: 0.5}, a.Top, 1e-12)
}

func TestBoxAndCube(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Box(v3.Vec{X: 1}, BoxParams{})
	require.NoError(t, err)
	lo, hi := a.WorldMesh().BoundingBox()
	vecNear(t, v3.Vec{X: 0.5, Y: -1, Z: -1.5}, lo, 1e-12)
	vecNear(t, v3.Vec{X: 1.5, Y: 1, Z: 1.5}, hi, 1e-12)

	c, err := f.Cube(v3.Vec{}, CubeParams{Side: 2})
	require.NoError(t, err)
	assert.Equal(t, "Cube", c.Name)
	assert.InDelta(t, 8, outwardVolume(c.Mesh), 1e-12)
}

func TestCylinderAxis(t *testing.T) {
	f, _ := newTestFactory(t)
	base, top := v3.Vec{X: 1, Y: 1}, v3.Vec{X: 4, Y: 5}
	a, err := f.CylinderBetween(base, top, CylinderParams{R: 0.5})
	require.NoError(t, err)
	vecNear(t, base, a.Base, 1e-12)
	vecNear(t, top, a.Top, 1e-12)

	axis := geom.Versor(top.Sub(base))
	for _, p := range a.WorldMesh().Points {
		d := p.Sub(base)
		along := d.Dot(axis)
		radial := d.Sub(axis.MulScalar(along)).Length()
		assert.True(t, along > -1e-9 && along < 5+1e-9, "point %v off the axis range", p)
		assert.InDelta(t, 0.5, radial, 1e-9)
	}

	_, err = f.CylinderBetween(base, base, CylinderParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConeAndPyramid(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Cone(v3.Vec{}, ConeParams{Axis: v3.Vec{Y: 1}})
	require.NoError(t, err)
	// apex first
	vecNear(t, v3.Vec{Y: 1.5}, a.Mesh.Points[0], 1e-12)
	vecNear(t, v3.Vec{Y: 1.5}, a.Top, 1e-12)

	p, err := f.Pyramid(v3.Vec{}, PyramidParams{S: 2, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, "Pyramid", p.Name)
	// apex plus four base corners
	assert.Len(t, p.Mesh.Points, 5)
	assert.Len(t, p.Mesh.Polys, 5)
	// square base of circumradius 2
	assert.InDelta(t, 8*4/3.0, outwardVolume(p.Mesh), 1e-9)
}

func TestTorus(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Torus(v3.Vec{}, TorusParams{R: 2, Thickness: 0.5, Res: 12})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 37*13)
	for _, p := range a.Mesh.Points {
		ring := math.Hypot(p.X, p.Y) - 2
		assert.InDelta(t, 0.5, math.Hypot(ring, p.Z), 1e-9)
	}
}

func TestQuadrics(t *testing.T) {
	f, k := newTestFactory(t)
	a, err := f.Paraboloid(v3.Vec{Z: 1}, ParaboloidParams{Height: 2})
	require.NoError(t, err)
	require.Len(t, k.solids, 1)
	s := k.solids[0]
	assert.Equal(t, kernel.Quadric{1, 1, 0, 0, 0, 0, 0, 0, 0.5, 0}, s.q)
	assert.Equal(t, 0.01, s.value)
	assert.Equal(t, v3.Vec{X: -1, Y: -1, Z: -1}, s.min)
	assert.Equal(t, 50, k.cells[0])
	// flipped from the kernel's winding
	assert.Equal(t, []uint32{2, 1, 0}, a.Mesh.Polys[0])

	_, err = f.Hyperboloid(v3.Vec{}, HyperboloidParams{A2: 2, Height: 3})
	require.NoError(t, err)
	s = k.solids[1]
	assert.Equal(t, kernel.Quadric{2, 2, -0.5, 0, 0, 0, 0, 0, 0, 0}, s.q)
	assert.Equal(t, 0.5, s.value)
	assert.Equal(t, v3.Vec{X: 1, Y: 1, Z: 3}, s.max)

	k.err = kernel.ErrEmptySurface
	_, err = f.Hyperboloid(v3.Vec{}, HyperboloidParams{})
	assert.ErrorIs(t, err, kernel.ErrEmptySurface)
	assert.Equal(t, 2, f.Collection().Len())
}
