// Package shapes builds parametric 3D primitives and wraps each resulting
// mesh in an actor.Actor. Every successful call registers its result in the
// Factory's caller-owned actor.Collection.
//
// A call either returns a complete actor or an error:
//
//   - ErrLengthMismatch: parallel inputs (points, colours, radii) disagree
//     in length.
//   - ErrUnknownName, ErrUnknownFont: an enumerated name was not
//     recognised. The failure is logged and nil is returned.
//   - ErrUnavailable: an external resource (the formula renderer) failed.
//     The failure is logged and nil is returned.
//   - ErrInvalidInput: any other malformed argument.
package shapes

import (
	"errors"
	"fmt"
	"image/color"
	"net/http"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/config"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/chazu/shapekit/pkg/kernel/sdfx"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
)

var (
	ErrLengthMismatch = errors.New("shapes: length mismatch")
	ErrUnknownName    = errors.New("shapes: unknown name")
	ErrUnknownFont    = errors.New("shapes: unknown font")
	ErrUnavailable    = errors.New("shapes: resource unavailable")
	ErrInvalidInput   = errors.New("shapes: invalid input")
)

// Factory builds shapes into a Collection.
type Factory struct {
	coll   *actor.Collection
	log    *zap.Logger
	kern   kernel.Kernel
	cfg    *config.Config
	client *http.Client
	font   *truetype.Font
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used to report unknown names and unavailable
// resources.
func WithLogger(l *zap.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// WithKernel sets the implicit surface kernel used for quadrics and text.
func WithKernel(k kernel.Kernel) Option {
	return func(f *Factory) { f.kern = k }
}

// WithConfig sets resolution defaults and the formula endpoint.
func WithConfig(c *config.Config) Option {
	return func(f *Factory) { f.cfg = c }
}

// WithHTTPClient sets the client used to fetch rendered formulas.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Factory) { f.client = c }
}

// WithFont sets the font used to rasterise formulas offline and, with the
// default kernel, the font of world text.
func WithFont(font *truetype.Font) Option {
	return func(f *Factory) { f.font = font }
}

// New returns a Factory that registers into coll. A nil coll gets a fresh
// collection.
func New(coll *actor.Collection, opts ...Option) *Factory {
	f := &Factory{coll: coll}
	for _, o := range opts {
		o(f)
	}
	if f.coll == nil {
		f.coll = actor.NewCollection()
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	if f.cfg == nil {
		f.cfg = config.Default()
	}
	if f.kern == nil {
		if f.font != nil {
			f.kern = sdfx.NewWithFont(f.font)
		} else {
			f.kern = sdfx.New()
		}
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.cfg.LatexTimeout()}
	}
	return f
}

// Collection returns the collection the factory registers into.
func (f *Factory) Collection() *actor.Collection { return f.coll }

// Config returns the factory configuration.
func (f *Factory) Config() *config.Config { return f.cfg }

// ---------------------------------------------------------------------------
// Shared parameter types
// ---------------------------------------------------------------------------

// Style holds the appearance shared by every factory. Zero values select
// the shape's default colour and full opacity.
type Style struct {
	Color color.NRGBA
	Alpha float64
}

func (s Style) apply(a *actor.Actor, def color.NRGBA) {
	c := def
	if s.Color.A != 0 {
		c = s.Color
	}
	a.SetColor(c)
	if s.Alpha > 0 {
		a.SetAlpha(s.Alpha)
	}
}

// Coords is a set of 2D or 3D points in one of the accepted layouts:
// Rows, Columns or Vecs. 2D input is lifted to z=0.
type Coords interface {
	points() ([]v3.Vec, error)
}

// Rows is an array of points, each with 2 or 3 components.
type Rows [][]float64

func (r Rows) points() ([]v3.Vec, error) {
	out := make([]v3.Vec, len(r))
	for i, row := range r {
		switch len(row) {
		case 2:
			out[i] = v3.Vec{X: row[0], Y: row[1]}
		case 3:
			out[i] = v3.Vec{X: row[0], Y: row[1], Z: row[2]}
		default:
			return nil, fmt.Errorf("%w: point %d has %d components", ErrLengthMismatch, i, len(row))
		}
	}
	return out, nil
}

// Columns holds parallel coordinate arrays. Z may be nil for 2D input.
type Columns struct {
	X, Y, Z []float64
}

func (c Columns) points() ([]v3.Vec, error) {
	if len(c.X) != len(c.Y) || (c.Z != nil && len(c.Z) != len(c.X)) {
		return nil, fmt.Errorf("%w: columns have lengths %d, %d, %d",
			ErrLengthMismatch, len(c.X), len(c.Y), len(c.Z))
	}
	out := make([]v3.Vec, len(c.X))
	for i := range c.X {
		out[i] = v3.Vec{X: c.X[i], Y: c.Y[i]}
		if c.Z != nil {
			out[i].Z = c.Z[i]
		}
	}
	return out, nil
}

// Vecs is a list of 3D points.
type Vecs []v3.Vec

func (v Vecs) points() ([]v3.Vec, error) {
	return append([]v3.Vec(nil), v...), nil
}

// Segment is the two-point Coords from p0 to p1.
func Segment(p0, p1 v3.Vec) Coords { return Vecs{p0, p1} }

func resolvePoints(c Coords) ([]v3.Vec, error) {
	if c == nil {
		return nil, nil
	}
	return c.points()
}

// Paint colours a point set: Uniform or PerPoint.
type Paint interface {
	isPaint()
}

// Uniform paints every point the same colour.
type Uniform struct {
	Color color.NRGBA
}

// PerPoint paints each point individually. Alphas is optional; when set
// it must have one entry per point, as must Colors.
type PerPoint struct {
	Colors []color.NRGBA
	Alphas []float64
}

func (Uniform) isPaint()  {}
func (PerPoint) isPaint() {}

// pointColors expands p to n per-point colours.
func (p PerPoint) pointColors(n int, fallback color.NRGBA) ([]color.NRGBA, error) {
	if p.Colors != nil && len(p.Colors) != n {
		return nil, fmt.Errorf("%w: %d points, %d colors", ErrLengthMismatch, n, len(p.Colors))
	}
	if p.Alphas != nil && len(p.Alphas) != n {
		return nil, fmt.Errorf("%w: %d points, %d alphas", ErrLengthMismatch, n, len(p.Alphas))
	}
	out := make([]color.NRGBA, n)
	for i := range out {
		c := fallback
		if p.Colors != nil {
			c = p.Colors[i]
		}
		c.A = 255
		if p.Alphas != nil {
			c = colors.WithAlpha(c, p.Alphas[i])
		}
		out[i] = c
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// register adds a to the collection and returns it.
func (f *Factory) register(a *actor.Actor) *actor.Actor {
	f.coll.Add(a)
	return a
}

// report logs a recoverable failure and returns err unchanged.
func (f *Factory) report(op string, err error, fields ...zap.Field) error {
	f.log.Warn(op+" failed", append(fields, zap.Error(err))...)
	return err
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

var (
	red       = colors.MustParse("red")
	gold      = colors.MustParse("gold")
	gray      = colors.MustParse("gray")
	coral     = colors.MustParse("coral")
	green     = colors.MustParse("green")
	teal      = colors.MustParse("teal")
	magenta   = colors.MustParse("magenta")
	cyan      = colors.MustParse("cyan")
	khaki     = colors.MustParse("khaki")
	darkGreen = colors.MustParse("darkgreen")
	lightBlue = colors.MustParse("lightblue")
	black     = colors.MustParse("black")
	powder    = colors.MustParse("powderblue")
)
