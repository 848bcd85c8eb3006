package colors

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"red", Opaque(255, 0, 0)},
		{"r", Opaque(255, 0, 0)},
		{"Light Blue", Opaque(173, 216, 230)},
		{"lb", Opaque(173, 216, 230)},
		{"dg", Opaque(0, 100, 0)},
		{"#00ff80", Opaque(0, 255, 128)},
		{"  GOLD ", Opaque(255, 215, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#zzzzzz"} {
		_, err := Parse(in)
		if !errors.Is(err, ErrUnknownColor) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknownColor", in, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("bogus") })
	assert.NotPanics(t, func() { MustParse("teal") })
}

func TestFromFloatClamps(t *testing.T) {
	assert.Equal(t, Opaque(255, 0, 255), FromFloat(2, -1, 1))
}

func TestIndexWraps(t *testing.T) {
	assert.Equal(t, Index(3), Index(13))
	assert.Equal(t, Index(9), Index(-1))
	assert.NotEqual(t, Index(0), Index(1))
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(Opaque(1, 2, 3), 0.5)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(0), WithAlpha(c, -3).A)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#ff0000", Hex(Opaque(255, 0, 0)))
	assert.Equal(t, "#0a141e", Hex(color.NRGBA{R: 10, G: 20, B: 30, A: 7}))
}

func TestMap(t *testing.T) {
	assert.Equal(t, Opaque(0, 0, 255), Map(0, 0, 1))
	assert.Equal(t, Opaque(255, 0, 0), Map(5, 0, 1))
	// Degenerate range falls back to the midpoint.
	assert.Equal(t, Map(0.5, 0, 1), Map(3, 2, 2))
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "steelblue")
	for _, n := range names[:10] {
		_, err := Parse(n)
		assert.NoError(t, err, n)
	}
}
