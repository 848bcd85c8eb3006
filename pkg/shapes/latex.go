package shapes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// LatexParams configures Latex.
type LatexParams struct {
	Style
	// S scales the picture (default 1).
	S float64
	// Res is the nominal resolution the picture is scaled against
	// (default 30).
	Res int
	// Offline rasterises the formula text locally instead of asking the
	// remote renderer.
	Offline bool
	// Background fills the picture behind the formula. Nil keeps it
	// transparent.
	Background *color.NRGBA
}

// Latex renders formula to a picture and maps it onto a quad centred at
// pos. The remote renderer is asked for black ink when the colour is
// black and white ink otherwise. A failed fetch is logged and reported as
// ErrUnavailable; no actor is registered.
func (f *Factory) Latex(ctx context.Context, formula string, pos v3.Vec, p LatexParams) (*actor.Actor, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, invalid("latex: empty formula")
	}
	c := black
	if p.Color.A != 0 {
		c = p.Color
	}

	var (
		img image.Image
		err error
	)
	if p.Offline {
		img, err = f.rasterize(formula, c)
	} else {
		img, err = f.fetchFormula(ctx, formula, c)
	}
	if err != nil {
		return nil, f.report("latex", err, zap.String("formula", formula), zap.Bool("offline", p.Offline))
	}
	if p.Background != nil {
		img = onBackground(img, *p.Background)
	}

	b := img.Bounds()
	k := 0.25 / float64(orDefaultInt(p.Res, 30)) * orDefault(p.S, 1)
	size := v3.Vec{X: float64(b.Dx()) * k, Y: float64(b.Dy()) * k, Z: 1}
	a := actor.New("Latex", planeMesh(1, 1).Transform(sdf.Scale3d(size))).Ambient()
	a.Texture = img
	a.Info["formula"] = formula
	p.Style.apply(a, c)
	a.SetPosition(pos)
	return f.register(a), nil
}

// FormulaURL returns the request URL for formula on the configured
// renderer.
func (f *Factory) FormulaURL(formula string, ink color.NRGBA) string {
	ct := "White"
	if ink == black {
		ct = "Black"
	}
	q := fmt.Sprintf(`\dpi{%d} \huge \color{%s} %s`, f.cfg.Latex.DPI, ct, formula)
	return f.cfg.Latex.Endpoint + "?" + url.PathEscape(q)
}

// FetchFormula downloads the rendered formula as PNG bytes.
func (f *Factory) FetchFormula(ctx context.Context, formula string, ink color.NRGBA) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FormulaURL(formula, ink), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: latex request: %v", ErrUnavailable, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: latex fetch: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: latex fetch: status %s", ErrUnavailable, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: latex read: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (f *Factory) fetchFormula(ctx context.Context, formula string, ink color.NRGBA) (image.Image, error) {
	data, err := f.FetchFormula(ctx, formula, ink)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: latex decode: %v", ErrUnavailable, err)
	}
	return img, nil
}

// onBackground composites img over a solid bg.
func onBackground(img image.Image, bg color.NRGBA) image.Image {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}

// rasterize draws formula as plain text on a transparent background.
func (f *Factory) rasterize(formula string, ink color.NRGBA) (image.Image, error) {
	ft := f.font
	if ft == nil {
		var err error
		if ft, err = truetype.Parse(goregular.TTF); err != nil {
			return nil, fmt.Errorf("shapes: latex font: %w", err)
		}
	}
	face := truetype.NewFace(ft, &truetype.Options{Size: 24, DPI: float64(f.cfg.Latex.DPI)})
	defer face.Close()

	met := face.Metrics()
	pad := 4
	w := font.MeasureString(face, formula).Ceil() + 2*pad
	h := (met.Ascent + met.Descent).Ceil() + 2*pad

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(pad, pad+met.Ascent.Ceil()),
	}
	d.DrawString(formula)
	return img, nil
}
