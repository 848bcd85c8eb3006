package shapes

import (
	"testing"

	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyph(t *testing.T) {
	f, _ := newTestFactory(t)
	template := polylineMesh([]v3.Vec{{}, {X: 1}}, 0)
	pts := Vecs{{}, {Y: 5}}
	dirs := []v3.Vec{{Z: 2}, {X: -1}}

	a, err := f.Glyph(pts, template, GlyphParams{Orientations: dirs, ScaleByVector: true, ColorByVector: true})
	require.NoError(t, err)
	require.Len(t, a.Mesh.Points, 4)
	vecNear(t, v3.Vec{Z: 2}, a.Mesh.Points[1], 1e-9)
	vecNear(t, v3.Vec{X: -1, Y: 5}, a.Mesh.Points[3], 1e-9)
	assert.Len(t, a.Mesh.Lines, 2)

	// the longer vector is at the red end of the scale
	assert.Equal(t, colors.Map(1, 0, 1), a.Mesh.Colors[0])
	assert.Equal(t, colors.Map(0, 0, 1), a.Mesh.Colors[2])
	assert.True(t, a.Props.ScalarColors)
}

func TestGlyphRejects(t *testing.T) {
	f, _ := newTestFactory(t)
	template := boxMesh(1, 1, 1)
	_, err := f.Glyph(Vecs{{}, {}}, template, GlyphParams{Orientations: []v3.Vec{{X: 1}}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = f.Glyph(Vecs{{}}, &kernel.Mesh{}, GlyphParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTensorsScaleAlongEigenvectors(t *testing.T) {
	f, _ := newTestFactory(t)
	diag := Tensor{3, 0, 0, 0, 1, 0, 0, 0, 2}
	a, err := f.Tensors(Vecs{{X: 10}}, []Tensor{diag}, TensorsParams{Source: TensorCube})
	require.NoError(t, err)

	lo, hi := a.Mesh.BoundingBox()
	vecNear(t, v3.Vec{X: 8.5, Y: -0.5, Z: -1}, lo, 1e-9)
	vecNear(t, v3.Vec{X: 11.5, Y: 0.5, Z: 1}, hi, 1e-9)

	// coloured by the major eigenvalue
	require.Len(t, a.Mesh.Scalars, len(a.Mesh.Points))
	assert.InDelta(t, 3, a.Mesh.Scalars[0], 1e-9)
	assert.Len(t, a.Mesh.Colors, len(a.Mesh.Points))
}

func TestTensorsOrderByMagnitude(t *testing.T) {
	f, _ := newTestFactory(t)
	// |-5| dominates: major along x, then z, then y
	diag := Tensor{-5, 0, 0, 0, 1, 0, 0, 0, 2}
	a, err := f.Tensors(Vecs{{}}, []Tensor{diag}, TensorsParams{Source: TensorCube})
	require.NoError(t, err)

	lo, hi := a.Mesh.BoundingBox()
	vecNear(t, v3.Vec{X: 5, Y: 1, Z: 2}, hi.Sub(lo), 1e-9)
	require.NotEmpty(t, a.Mesh.Scalars)
	assert.InDelta(t, -5, a.Mesh.Scalars[0], 1e-9)
}

func TestTensorsSymmetricPartAndClamp(t *testing.T) {
	f, _ := newTestFactory(t)
	// antisymmetric terms cancel: the symmetric part is diag(4, 2, 1)
	skew := Tensor{4, 1, 0, -1, 2, 0, 0, 0, 1}
	a, err := f.Tensors(Vecs{{}}, []Tensor{skew}, TensorsParams{Source: TensorCube, MaxScale: 1, Style: Style{Color: red}})
	require.NoError(t, err)
	lo, hi := a.Mesh.BoundingBox()
	size := hi.Sub(lo)
	vecNear(t, v3.Vec{X: 1, Y: 0.5, Z: 0.25}, size, 1e-9)
	assert.Nil(t, a.Mesh.Scalars)
	assert.Equal(t, red, a.Props.Color)
}

func TestTensorsThreeAxes(t *testing.T) {
	f, _ := newTestFactory(t)
	pts := Vecs{{}, {X: 5}}
	ts := []Tensor{{1, 0, 0, 0, 0.8, 0, 0, 0, 0.6}, {2, 0, 0, 0, 1, 0, 0, 0, 0.5}}
	a, err := f.Tensors(pts, ts, TensorsParams{Source: TensorCube, ThreeAxes: true})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Points, 2*3*24)
	lo, hi := a.Mesh.BoundingBox()
	vecNear(t, v3.Vec{X: -0.5, Y: -0.5, Z: -0.3}, lo, 1e-9)
	vecNear(t, v3.Vec{X: 6, Y: 0.5, Z: 0.3}, hi, 1e-9)

	_, err = f.Tensors(pts, ts[:1], TensorsParams{})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParseTensorSource(t *testing.T) {
	tests := []struct {
		in   string
		want TensorSource
	}{
		{"ellipsoid", TensorEllipsoid},
		{"Ellipse", TensorEllipsoid},
		{"cylinder", TensorCylinder},
		{"cube", TensorCube},
	}
	for _, tt := range tests {
		got, err := ParseTensorSource(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseTensorSource("cone")
	assert.ErrorIs(t, err, ErrUnknownName)
}
