package shapes

import (
	"image/color"
	"testing"

	"github.com/chazu/shapekit/pkg/colors"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsPerPointColors(t *testing.T) {
	f, _ := newTestFactory(t)
	for _, n := range []int{1, 2, 7, 100} {
		pts := make(Vecs, n)
		cols := make([]color.NRGBA, n)
		for i := range pts {
			pts[i] = v3.Vec{X: float64(i), Y: float64(i * i)}
			cols[i] = colors.Index(i)
		}
		a, err := f.Points(pts, PointsParams{Paint: PerPoint{Colors: cols}})
		require.NoError(t, err)
		assert.Len(t, a.Mesh.Points, n)
		assert.Len(t, a.Mesh.Verts, n)
		assert.Equal(t, cols, a.Mesh.Colors)
		assert.True(t, a.Props.ScalarColors)
		t.Logf("n=%d: %d points, %d colours", n, len(a.Mesh.Points), len(a.Mesh.Colors))
	}
}

func TestPointsColorMismatch(t *testing.T) {
	f, _ := newTestFactory(t)
	tests := []struct {
		name  string
		paint PerPoint
	}{
		{"fewer colours", PerPoint{Colors: make([]color.NRGBA, 2)}},
		{"more colours", PerPoint{Colors: make([]color.NRGBA, 4)}},
		{"alphas", PerPoint{Colors: make([]color.NRGBA, 3), Alphas: []float64{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Points(Rows{{0, 0}, {1, 1}, {2, 2}}, PointsParams{Paint: tt.paint})
			assert.ErrorIs(t, err, ErrLengthMismatch)
		})
	}
	assert.Equal(t, 0, f.Collection().Len())
}

func TestPointsUniform(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Points(Rows{{0, 0, 0}, {1, 2, 3}}, PointsParams{})
	require.NoError(t, err)
	assert.Equal(t, gold, a.Props.Color)
	assert.Equal(t, 5.0, a.Props.PointSize)
	assert.Nil(t, a.Mesh.Colors)

	_, err = f.Points(Vecs{}, PointsParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPoint(t *testing.T) {
	f, _ := newTestFactory(t)
	pos := v3.Vec{X: 1, Y: 2, Z: 3}
	a, err := f.Point(pos, PointParams{})
	require.NoError(t, err)
	assert.Equal(t, "Point", a.Name)
	assert.Equal(t, red, a.Props.Color)
	assert.Equal(t, 12.0, a.Props.PointSize)
	assert.Equal(t, []v3.Vec{{}}, a.Mesh.Points)
	assert.Equal(t, pos, a.Position())
	vecNear(t, pos, a.WorldMesh().Points[0], 1e-12)
}
