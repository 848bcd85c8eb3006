package shapes

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonVerticesOnCircle(t *testing.T) {
	f, _ := newTestFactory(t)
	center := v3.Vec{X: 2, Y: -1, Z: 0.5}
	for _, r := range []float64{0.1, 1, 3.5} {
		a, err := f.Polygon(center, PolygonParams{N: 4, R: r})
		require.NoError(t, err)
		pts := a.WorldMesh().Points
		require.Len(t, pts, 4)
		for _, p := range pts {
			assert.InDelta(t, r, p.Sub(center).Length(), 1e-12)
		}
		require.Len(t, a.Mesh.Polys, 1)
		assert.Len(t, a.Mesh.Polys[0], 4)
	}

	_, err := f.Polygon(center, PolygonParams{N: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCircle(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Circle(v3.Vec{}, CircleParams{R: 2})
	require.NoError(t, err)
	assert.Equal(t, "Circle", a.Name)
	assert.Len(t, a.Mesh.Points, 120)
	assert.True(t, a.Props.Wireframe)
	assert.Equal(t, gray, a.Props.Color)

	a, err = f.Circle(v3.Vec{}, CircleParams{Fill: true, Res: 12})
	require.NoError(t, err)
	assert.False(t, a.Props.Wireframe)
	assert.Len(t, a.Mesh.Points, 12)
}

func TestStar(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Star(v3.Vec{}, StarParams{})
	require.NoError(t, err)
	// ten outline points and the centre
	assert.Len(t, a.Mesh.Points, 11)
	assert.Len(t, a.Mesh.Polys, 10)
	assert.InDelta(t, 1, maxRadius(a.Mesh, v3.Vec{}), 1e-12)

	a, err = f.Star(v3.Vec{}, StarParams{N: 6, Line: true})
	require.NoError(t, err)
	require.Len(t, a.Mesh.Lines, 1)
	assert.Len(t, a.Mesh.Lines[0], 13)
}

func TestRectangle(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Rectangle(v3.Vec{X: 1, Y: 1}, v3.Vec{X: 3, Y: 2}, RectangleParams{})
	require.NoError(t, err)
	lo, hi := a.WorldMesh().BoundingBox()
	vecNear(t, v3.Vec{X: 1, Y: 1}, lo, 1e-12)
	vecNear(t, v3.Vec{X: 3, Y: 2}, hi, 1e-12)
}

func TestDisc(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Disc(v3.Vec{}, DiscParams{R1: 1, R2: 2, Res: 2, ResPhi: 8})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 3*8)
	assert.Len(t, a.Mesh.Polys, 2*8)
	for _, p := range a.Mesh.Points {
		r := p.Length()
		assert.True(t, r > 1-1e-12 && r < 2+1e-12, "point %v outside annulus", p)
	}
}

func TestArc(t *testing.T) {
	f, _ := newTestFactory(t)
	p2 := v3.Vec{Y: 1}
	a, err := f.Arc(v3.Vec{}, v3.Vec{X: 1}, ArcParams{Point2: &p2, Res: 4})
	require.NoError(t, err)
	pts := a.Mesh.Points
	require.Len(t, pts, 5)
	vecNear(t, v3.Vec{X: 1}, pts[0], 1e-12)
	vecNear(t, v3.Vec{Y: 1}, pts[4], 1e-12)
	vecNear(t, v3.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, pts[2], 1e-12)

	// the long way round passes through -x
	a, err = f.Arc(v3.Vec{}, v3.Vec{X: 1}, ArcParams{Point2: &p2, Invert: true, Res: 6})
	require.NoError(t, err)
	vecNear(t, v3.Vec{Y: 1}, a.Mesh.Points[6], 1e-12)
	vecNear(t, v3.Vec{X: -math.Sqrt2 / 2, Y: -math.Sqrt2 / 2}, a.Mesh.Points[3], 1e-12)

	n := v3.Vec{Z: 1}
	a, err = f.Arc(v3.Vec{}, v3.Vec{X: 2}, ArcParams{Normal: &n, Angle: 180, Res: 2})
	require.NoError(t, err)
	vecNear(t, v3.Vec{Y: 2}, a.Mesh.Points[1], 1e-12)
	vecNear(t, v3.Vec{X: -2}, a.Mesh.Points[2], 1e-12)

	collinear := v3.Vec{X: 3}
	_, err = f.Arc(v3.Vec{}, v3.Vec{X: 1}, ArcParams{Point2: &collinear})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.Arc(v3.Vec{}, v3.Vec{X: 1}, ArcParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGrid(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Grid(v3.Vec{}, GridParams{SX: 4, SY: 2, ResX: 4, ResY: 2})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 5*3)
	assert.Len(t, a.Mesh.Polys, 8)
	assert.True(t, a.Props.Wireframe)
	lo, hi := a.Mesh.BoundingBox()
	vecNear(t, v3.Vec{X: -2, Y: -1}, lo, 1e-12)
	vecNear(t, v3.Vec{X: 2, Y: 1}, hi, 1e-12)

	a, err = f.Grid(v3.Vec{}, GridParams{XCoords: []float64{0, 1, 3}, YCoords: []float64{0, 2}, Normal: v3.Vec{X: 1}})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 6)
	assert.Len(t, a.Mesh.Polys, 2)
	for _, p := range a.Mesh.Points {
		assert.InDelta(t, 0, p.X, 1e-12)
	}

	_, err = f.Grid(v3.Vec{}, GridParams{XCoords: []float64{0}, YCoords: []float64{0, 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaneFacesNormal(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Plane(v3.Vec{}, PlaneParams{Normal: v3.Vec{Y: -3}, SX: 2})
	require.NoError(t, err)
	for _, p := range a.Mesh.Points {
		assert.InDelta(t, 0, p.Y, 1e-12)
	}
	m := a.Mesh
	cell := m.Polys[0]
	n := m.Points[cell[1]].Sub(m.Points[cell[0]]).Cross(m.Points[cell[2]].Sub(m.Points[cell[0]]))
	assert.Less(t, n.Y, 0.0)
	assert.Equal(t, green, a.Props.Color)
}
