package shapes

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// ---------------------------------------------------------------------------
// Fonts
// ---------------------------------------------------------------------------

// FontFamily is one of the built-in font families, or FontFile for a
// TrueType file on disk.
type FontFamily int

const (
	FontCourier FontFamily = iota
	FontTimes
	FontArial
	FontFile
)

func (f FontFamily) String() string {
	switch f {
	case FontCourier:
		return "courier"
	case FontTimes:
		return "times"
	case FontArial:
		return "arial"
	case FontFile:
		return "file"
	}
	return "unknown"
}

// ParseFontFamily maps a family name to its FontFamily. Any other string
// is taken to be a file path.
func ParseFontFamily(name string) FontFamily {
	switch strings.ToLower(name) {
	case "", "courier":
		return FontCourier
	case "times":
		return FontTimes
	case "arial":
		return FontArial
	}
	return FontFile
}

// LoadFont returns the TrueType font for name: a built-in family or the
// path of a .ttf file. A missing or unparsable file is ErrUnknownFont.
func LoadFont(name string) (*truetype.Font, error) {
	var data []byte
	switch ParseFontFamily(name) {
	case FontCourier:
		data = gomono.TTF
	case FontTimes:
		data = gomedium.TTF
	case FontArial:
		data = goregular.TTF
	default:
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnknownFont, name, err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownFont, name, err)
	}
	return f, nil
}

// ParseJustify maps "bottom-left", "top-right", "center" and similar to a
// kernel.Justify. Unrecognised strings are bottom-left.
func ParseJustify(s string) kernel.Justify {
	s = strings.ToLower(s)
	top := strings.Contains(s, "top")
	right := strings.Contains(s, "right")
	switch {
	case strings.HasPrefix(s, "cent"):
		return kernel.JustifyCenter
	case top && right:
		return kernel.JustifyTopRight
	case top:
		return kernel.JustifyTopLeft
	case right:
		return kernel.JustifyBottomRight
	}
	return kernel.JustifyBottomLeft
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// Placement says where Text goes: World, Screen or Anchor.
type Placement interface {
	isPlacement()
}

// World places extruded text in 3D space.
type World struct {
	Pos v3.Vec
}

// Screen places flat text at a pixel position measured from the bottom
// left of the viewport.
type Screen struct {
	X, Y float64
}

// Anchor pins flat text to a viewport corner.
type Anchor struct {
	Corner actor.Corner
}

func (World) isPlacement()  {}
func (Screen) isPlacement() {}
func (Anchor) isPlacement() {}

// TextParams configures Text.
type TextParams struct {
	Style
	// S is the text height in world units for World placement; screen
	// text uses 20*S points. Default 1.
	S float64
	// Depth is the extrusion as a fraction of half the text height. Zero
	// builds flat text.
	Depth   float64
	Justify kernel.Justify
	// BackColor paints the back faces of 3D text.
	BackColor *color.NRGBA
	// Background boxes screen text.
	Background *color.NRGBA
	// Font is courier, times, arial or the path of a .ttf file. Screen
	// text defaults to courier; world text to the kernel font.
	Font string
}

// Text builds txt at the given placement. World placement returns an
// *actor.Actor; Screen and Anchor return an *actor.Annotation. An unknown
// font is logged and reported as ErrUnknownFont.
func (f *Factory) Text(txt string, at Placement, p TextParams) (actor.Item, error) {
	s := orDefault(p.S, 1)
	switch at := at.(type) {
	case Screen:
		an, err := f.annotation(txt, s, p)
		if err != nil {
			return nil, err
		}
		an.ScreenPos = [2]float64{at.X, at.Y}
		return f.registerItem(an), nil
	case Anchor:
		an, err := f.annotation(txt, s, p)
		if err != nil {
			return nil, err
		}
		an.Corner = at.Corner
		if an.Corner == actor.CornerNone {
			an.Corner = actor.CornerTopLeft
		}
		return f.registerItem(an), nil
	case World:
		var font *truetype.Font
		if p.Font != "" {
			var err error
			if font, err = LoadFont(p.Font); err != nil {
				return nil, f.report("text", err, zap.String("font", p.Font))
			}
		}
		m, err := f.textMesh(txt, font, s, p.Depth*s/2, p.Justify)
		if err != nil {
			return nil, err
		}
		a := actor.New("Text", m)
		p.Style.apply(a, gray)
		if p.BackColor != nil {
			a.SetBackColor(*p.BackColor)
		}
		a.SetPosition(at.Pos)
		return f.register(a), nil
	}
	return nil, invalid("text: placement %T", at)
}

func (f *Factory) annotation(txt string, s float64, p TextParams) (*actor.Annotation, error) {
	if ParseFontFamily(p.Font) == FontFile {
		if _, err := LoadFont(p.Font); err != nil {
			return nil, f.report("text", err, zap.String("font", p.Font))
		}
	}
	an := actor.NewAnnotation(txt)
	an.FontSize = 20 * s
	an.Font = p.Font
	if an.Font == "" {
		an.Font = FontCourier.String()
	}
	if p.Color.A != 0 {
		an.Color = p.Color
	}
	if p.Alpha > 0 {
		an.Alpha = p.Alpha
	}
	an.Background = p.Background
	return an, nil
}

func (f *Factory) registerItem(it actor.Item) actor.Item {
	f.coll.Add(it)
	return it
}

// textMesh extrudes txt to the given depth through the kernel. A zero
// depth keeps only the upward facing triangles, flattened onto z=0.
func (f *Factory) textMesh(txt string, font *truetype.Font, size, depth float64, j kernel.Justify) (*kernel.Mesh, error) {
	if strings.TrimSpace(txt) == "" {
		return nil, invalid("text: empty string")
	}
	solid, err := f.kern.Text(txt, font, size, depth, j)
	if err != nil {
		return nil, fmt.Errorf("shapes: text: %w", err)
	}
	m, err := f.kern.ToMesh(solid, f.cfg.Mesh.TextCells)
	if err != nil {
		return nil, fmt.Errorf("shapes: text %q: %w", txt, err)
	}
	if depth > 0 {
		return m, nil
	}
	return upperFace(m), nil
}

// upperFace returns the polygons of m whose normal points along +z, with
// their points dropped to z=0.
func upperFace(m *kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{}
	remap := make(map[uint32]uint32)
	for _, cell := range m.Polys {
		if len(cell) < 3 {
			continue
		}
		a, b, c := m.Points[cell[0]], m.Points[cell[1]], m.Points[cell[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Length(); l == 0 || n.Z/l < 0.9 {
			continue
		}
		nc := make([]uint32, len(cell))
		for i, idx := range cell {
			k, ok := remap[idx]
			if !ok {
				p := m.Points[idx]
				k = out.AddPoint(v3.Vec{X: p.X, Y: p.Y})
				remap[idx] = k
			}
			nc[i] = k
		}
		out.Polys = append(out.Polys, nc)
	}
	return out
}

// ---------------------------------------------------------------------------
// Markers
// ---------------------------------------------------------------------------

// MarkerSymbol is one of the marker shapes.
type MarkerSymbol int

const (
	MarkerDot MarkerSymbol = iota
	MarkerPentagon
	MarkerStar
	MarkerHexagon
	MarkerDiamond
	MarkerThinDiamond
	MarkerCircle
	MarkerTriangleDown
	MarkerTriangleUp
	MarkerTriangleRight
	MarkerTriangleLeft
	MarkerSquare
	MarkerCross
	MarkerAsterisk
)

var markerSymbols = [...]string{".", "p", "*", "h", "D", "d", "o", "v", "^", ">", "<", "s", "x", "a"}

func (m MarkerSymbol) String() string {
	if m < 0 || int(m) >= len(markerSymbols) {
		return "unknown"
	}
	return markerSymbols[m]
}

// MarkerSymbols lists the one-character marker names in index order.
func MarkerSymbols() []string {
	return append([]string(nil), markerSymbols[:]...)
}

// ParseMarker looks a marker up by its one-character name.
func ParseMarker(s string) (MarkerSymbol, bool) {
	for i, name := range markerSymbols {
		if name == s {
			return MarkerSymbol(i), true
		}
	}
	return 0, false
}

// MarkerParams configures Marker.
type MarkerParams struct {
	Style
	// S is the marker size (default 0.1).
	S float64
	// Hollow draws the outline only.
	Hollow bool
}

// Marker builds the marker named symbol in the xy plane at the origin. A
// string that names no marker is drawn as text.
func (f *Factory) Marker(symbol string, p MarkerParams) (*actor.Actor, error) {
	s := orDefault(p.S, 0.1)
	var (
		m   *kernel.Mesh
		err error
	)
	if sym, ok := ParseMarker(symbol); ok {
		m, err = f.markerMesh(sym, s, p.Hollow)
	} else {
		m, err = f.textMesh(symbol, nil, 2*s, 0, kernel.JustifyCenter)
	}
	if err != nil {
		return nil, err
	}
	a := actor.New("Marker", m).Ambient().SetWireframe(p.Hollow)
	p.Style.apply(a, lightBlue)
	return f.register(a), nil
}

// MarkerIndex builds the i-th marker. An index outside the symbol list is
// logged and reported as ErrUnknownName.
func (f *Factory) MarkerIndex(i int, p MarkerParams) (*actor.Actor, error) {
	if i < 0 || i >= len(markerSymbols) {
		err := fmt.Errorf("%w: marker index %d", ErrUnknownName, i)
		return nil, f.report("marker", err, zap.Strings("available", MarkerSymbols()))
	}
	return f.Marker(markerSymbols[i], p)
}

func (f *Factory) markerMesh(sym MarkerSymbol, s float64, hollow bool) (*kernel.Mesh, error) {
	rotZ := func(m *kernel.Mesh, deg float64) *kernel.Mesh {
		return m.Transform(sdf.RotateZ(deg * math.Pi / 180))
	}
	switch sym {
	case MarkerDot, MarkerCircle:
		return polygonMesh(24, 0.75*s), nil
	case MarkerPentagon:
		return polygonMesh(5, s), nil
	case MarkerStar:
		if hollow {
			pts := starPoints(5, 0.7*s, s)
			return polylineMesh(append(pts, pts[0]), 0), nil
		}
		return starMesh(5, 0.7*s, s), nil
	case MarkerHexagon:
		return polygonMesh(6, s), nil
	case MarkerDiamond:
		return polygonMesh(4, s), nil
	case MarkerThinDiamond:
		return polygonMesh(4, 1.1*s).Transform(sdf.Scale3d(v3.Vec{X: 0.5, Y: 1, Z: 1})), nil
	case MarkerTriangleDown:
		return rotZ(polygonMesh(3, s), 180), nil
	case MarkerTriangleUp:
		return polygonMesh(3, s), nil
	case MarkerTriangleRight:
		return rotZ(polygonMesh(3, s), -90), nil
	case MarkerTriangleLeft:
		return rotZ(polygonMesh(3, s), 90), nil
	case MarkerSquare:
		return rotZ(polygonMesh(4, s), 45), nil
	case MarkerCross:
		m, err := f.textMesh("+", nil, 2.6*s, 0, kernel.JustifyCenter)
		if err != nil {
			return nil, err
		}
		return rotZ(m, 45), nil
	case MarkerAsterisk:
		return f.textMesh("*", nil, 3*s, 0, kernel.JustifyCenter)
	}
	return nil, fmt.Errorf("%w: marker %d", ErrUnknownName, int(sym))
}
