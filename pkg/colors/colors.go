// Package colors resolves the colour arguments accepted by the shape
// factories: SVG colour names, one or two letter nicknames, hex strings and
// palette indices.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a colour string cannot be resolved.
var ErrUnknownColor = errors.New("colors: unknown color")

// nicknames are the short names accepted in place of full colour names.
var nicknames = map[string]string{
	"a":  "aqua",
	"b":  "blue",
	"c":  "cyan",
	"d":  "gold",
	"f":  "fuchsia",
	"g":  "green",
	"i":  "indigo",
	"k":  "black",
	"m":  "magenta",
	"n":  "navy",
	"l":  "lavender",
	"o":  "orange",
	"p":  "purple",
	"r":  "red",
	"s":  "salmon",
	"t":  "tomato",
	"v":  "violet",
	"y":  "yellow",
	"w":  "white",
	"lb": "lightblue",
	"lg": "lawngreen",
	"ly": "lightyellow",
	"lc": "lightcyan",
	"ls": "lightsalmon",
	"lp": "lightpink",
	"db": "darkblue",
	"dg": "darkgreen",
	"dr": "darkred",
	"dc": "darkcyan",
	"dm": "darkmagenta",
	"do": "darkorange",
	"dv": "darkviolet",
	"gr": "gray",
	"gy": "gray",
}

// Opaque builds an opaque colour from 8-bit components.
func Opaque(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Parse resolves a colour name, nickname or "#rrggbb" hex string.
// Names are case-insensitive and may use spaces or underscores.
func Parse(s string) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if key == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty name", ErrUnknownColor)
	}
	if strings.HasPrefix(key, "#") {
		c, err := colorful.Hex(key)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrUnknownColor, s, err)
		}
		r, g, b := c.RGB255()
		return Opaque(r, g, b), nil
	}
	if full, ok := nicknames[key]; ok {
		key = full
	}
	if c, ok := colornames.Map[key]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// MustParse is Parse for compile-time constant names. It panics on error.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromFloat builds a colour from components in [0, 1]. Out of range values
// are clamped.
func FromFloat(r, g, b float64) color.NRGBA {
	c := colorful.Color{R: r, G: g, B: b}.Clamped()
	r8, g8, b8 := c.RGB255()
	return Opaque(r8, g8, b8)
}

// Index returns the i-th colour of a perceptually spaced palette. Negative
// indices wrap.
func Index(i int) color.NRGBA {
	const n = 10
	i = ((i % n) + n) % n
	c := colorful.Hcl(float64(i)*360/n, 0.6, 0.65).Clamped()
	r, g, b := c.RGB255()
	return Opaque(r, g, b)
}

// WithAlpha returns c with its opacity set to alpha in [0, 1].
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return c
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// Map returns the colour of value on a blue to red scale spanning
// [vmin, vmax]. Values outside the range are clamped.
func Map(value, vmin, vmax float64) color.NRGBA {
	t := 0.5
	if vmax > vmin {
		t = math.Max(0, math.Min(1, (value-vmin)/(vmax-vmin)))
	}
	lo, _ := colorful.MakeColor(colornames.Blue)
	hi, _ := colorful.MakeColor(colornames.Red)
	r, g, b := lo.BlendLab(hi, t).Clamped().RGB255()
	return Opaque(r, g, b)
}

// Names returns every resolvable full colour name.
func Names() []string {
	return append([]string(nil), colornames.Names...)
}
