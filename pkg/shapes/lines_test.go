package shapes

import (
	"math"
	"testing"

	"github.com/chazu/shapekit/pkg/actor"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	f, _ := newTestFactory(t)
	p0, p1 := v3.Vec{}, v3.Vec{X: 2}

	a, err := f.Line(Segment(p0, p1), LineParams{Res: 4, Dotted: true})
	require.NoError(t, err)
	require.Len(t, a.Mesh.Lines, 1)
	assert.Len(t, a.Mesh.Lines[0], 5)
	assert.Equal(t, p0, a.Base)
	assert.Equal(t, p1, a.Top)
	assert.Equal(t, actor.StippleDotted, a.Props.Stipple)

	a, err = f.Line(Rows{{0, 0}, {1, 0}, {1, 1}}, LineParams{})
	require.NoError(t, err)
	assert.Len(t, a.Mesh.Lines[0], 3)
}

func TestDashedLineCount(t *testing.T) {
	f, _ := newTestFactory(t)
	tests := []struct {
		length, spacing float64
	}{
		{10, 1},
		{10, 0.5},
		{7, 0.25},
		{3, 0.1},
	}
	for _, tt := range tests {
		a, err := f.DashedLine(Segment(v3.Vec{}, v3.Vec{X: tt.length}), DashedLineParams{Spacing: tt.spacing})
		require.NoError(t, err)
		want := tt.length / (2 * tt.spacing)
		got := float64(len(a.Mesh.Lines))
		t.Logf("L=%g s=%g: %v dashes, expected about %v", tt.length, tt.spacing, got, want)
		if math.Abs(got-want) > 1 {
			t.Errorf("L=%g s=%g: %v dashes, want about %v", tt.length, tt.spacing, got, want)
		}
	}
}

func TestDashedLineDashesStayOnSegment(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.DashedLine(Segment(v3.Vec{}, v3.Vec{X: 1, Y: 1}), DashedLineParams{})
	require.NoError(t, err)
	require.NotEmpty(t, a.Mesh.Lines)
	for _, p := range a.Mesh.Points {
		assert.InDelta(t, p.X, p.Y, 1e-12)
		assert.True(t, p.X >= 0 && p.X <= 1, "point %v outside segment", p)
	}

	_, err = f.DashedLine(Segment(v3.Vec{}, v3.Vec{}), DashedLineParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLines(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Lines(Pairs{{{}, {X: 1}}, {{Y: 1}, {X: 1, Y: 1}}}, LinesParams{Scale: 2})
	require.NoError(t, err)
	require.Len(t, a.Mesh.Lines, 2)
	assert.Equal(t, v3.Vec{X: 2, Y: 1}, a.Mesh.Points[a.Mesh.Lines[1][1]])

	_, err = f.Lines(StartEnd{Starts: Vecs{{}, {}}, Ends: Vecs{{X: 1}}}, LinesParams{})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
