package shapes

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// glyphMesh places one copy of src at every point. With orient set the
// template's +x axis is turned onto vecs[i]; with scale set the copy is
// scaled by |vecs[i]|. cols, when set, paints each copy.
func glyphMesh(src *kernel.Mesh, pts, vecs []v3.Vec, orient, scale bool, cols []color.NRGBA) *kernel.Mesh {
	m := &kernel.Mesh{}
	for i, p := range pts {
		m44 := sdf.Translate3d(p)
		if vecs != nil {
			if orient {
				m44 = m44.Mul(geom.AlignX(vecs[i]))
			}
			if scale {
				l := vecs[i].Length()
				m44 = m44.Mul(sdf.Scale3d(v3.Vec{X: l, Y: l, Z: l}))
			}
		}
		var c *color.NRGBA
		if cols != nil {
			c = &cols[i]
		}
		instance(m, src, m44, c)
	}
	return m
}

// GlyphParams configures Glyph.
type GlyphParams struct {
	Style
	// Orientations, when set, gives one vector per point to align the
	// template's +x axis with.
	Orientations []v3.Vec
	// ScaleByVector scales each copy by the length of its orientation.
	ScaleByVector bool
	// Colors, when set, gives one colour per point.
	Colors []color.NRGBA
	// ColorByVector maps orientation lengths onto a blue to red scale.
	ColorByVector bool
}

// Glyph instances template at every point of pts.
func (f *Factory) Glyph(pts Coords, template *kernel.Mesh, p GlyphParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if template == nil || template.IsEmpty() {
		return nil, invalid("glyph: empty template")
	}
	if p.Orientations != nil && len(p.Orientations) != len(ps) {
		return nil, fmt.Errorf("%w: glyph: %d points, %d orientations", ErrLengthMismatch, len(ps), len(p.Orientations))
	}
	if p.Colors != nil && len(p.Colors) != len(ps) {
		return nil, fmt.Errorf("%w: glyph: %d points, %d colors", ErrLengthMismatch, len(ps), len(p.Colors))
	}

	cols := p.Colors
	if cols == nil && p.ColorByVector && p.Orientations != nil {
		cols = scalarColors(lo.Map(p.Orientations, func(v v3.Vec, _ int) float64 { return v.Length() }))
	}
	m := glyphMesh(template, ps, p.Orientations, true, p.ScaleByVector, cols)

	a := actor.New("Glyph", m).Flat()
	p.Style.apply(a, gray)
	if cols != nil {
		a.Props.ScalarColors = true
	}
	return f.register(a), nil
}

// scalarColors maps values onto the colour scale spanning their range.
func scalarColors(vals []float64) []color.NRGBA {
	if len(vals) == 0 {
		return nil
	}
	vmin, vmax := lo.Min(vals), lo.Max(vals)
	return lo.Map(vals, func(v float64, _ int) color.NRGBA { return colors.Map(v, vmin, vmax) })
}

// ---------------------------------------------------------------------------
// Tensors
// ---------------------------------------------------------------------------

// TensorSource is the template shape of a tensor glyph.
type TensorSource int

const (
	TensorEllipsoid TensorSource = iota
	TensorCylinder
	TensorCube
)

var tensorSourceNames = [...]string{"ellipsoid", "cylinder", "cube"}

func (s TensorSource) String() string {
	if s < 0 || int(s) >= len(tensorSourceNames) {
		return "unknown"
	}
	return tensorSourceNames[s]
}

// ParseTensorSource accepts any name containing "ellip" or "cyl", or
// "cube".
func ParseTensorSource(name string) (TensorSource, error) {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "ellip"):
		return TensorEllipsoid, nil
	case strings.Contains(n, "cyl"):
		return TensorCylinder, nil
	case n == "cube":
		return TensorCube, nil
	}
	return 0, fmt.Errorf("%w: tensor source %q", ErrUnknownName, name)
}

func (s TensorSource) mesh() *kernel.Mesh {
	switch s {
	case TensorCylinder:
		// along +y
		return cylinderMesh(0.5, 1, 48).Transform(sdf.RotateX(-math.Pi / 2))
	case TensorCube:
		return boxMesh(1, 1, 1)
	}
	return sphereMesh(0.5, 12, 24)
}

// Tensor is a 3x3 matrix in row-major order.
type Tensor [9]float64

// TensorsParams configures Tensors. A zero Color colours each glyph by
// its major eigenvalue.
type TensorsParams struct {
	Style
	Source TensorSource
	// ThreeAxes draws one glyph per eigenvector instead of one scaled
	// along all three.
	ThreeAxes bool
	// Scale multiplies the eigenvalues (default 1).
	Scale float64
	// MaxScale clamps the largest glyph scale (default 10 * Scale).
	MaxScale float64
}

// Tensors draws a glyph per point from the eigen-decomposition of the
// symmetric part of its tensor: the source is scaled by the eigenvalues,
// major along x, and rotated onto the eigenvectors.
func (f *Factory) Tensors(pts Coords, tensors []Tensor, p TensorsParams) (*actor.Actor, error) {
	ps, err := resolvePoints(pts)
	if err != nil {
		return nil, err
	}
	if len(ps) != len(tensors) {
		return nil, fmt.Errorf("%w: tensors: %d points, %d tensors", ErrLengthMismatch, len(ps), len(tensors))
	}
	if len(ps) == 0 {
		return nil, invalid("tensors: no points")
	}
	scale := orDefault(p.Scale, 1)
	maxScale := orDefault(p.MaxScale, 10*scale)
	src := p.Source.mesh()

	byEigen := p.Color.A == 0
	var majors, scalars []float64
	m := &kernel.Mesh{}
	for i, t := range tensors {
		vals, rot, err := eigenFrame(t)
		if err != nil {
			return nil, fmt.Errorf("shapes: tensor %d: %w", i, err)
		}
		w := [3]float64{}
		for k := range w {
			w[k] = math.Abs(vals[k]) * scale
		}
		if big := math.Max(w[0], math.Max(w[1], w[2])); big > maxScale {
			for k := range w {
				w[k] *= maxScale / big
			}
		}
		majors = append(majors, vals[0])

		before := len(m.Points)
		origin := sdf.Translate3d(ps[i])
		if p.ThreeAxes {
			thin := 0.1 * math.Max(w[0], math.Max(w[1], w[2]))
			for k := 0; k < 3; k++ {
				axis := rot.Mul(cyclic(k))
				instance(m, src, origin.Mul(axis).Mul(sdf.Scale3d(v3.Vec{X: w[k], Y: thin, Z: thin})), nil)
			}
		} else {
			instance(m, src, origin.Mul(rot).Mul(sdf.Scale3d(v3.Vec{X: w[0], Y: w[1], Z: w[2]})), nil)
		}
		if byEigen {
			for j := before; j < len(m.Points); j++ {
				scalars = append(scalars, vals[0])
			}
		}
	}

	a := actor.New("Tensors", m)
	p.Style.apply(a, gray)
	if byEigen {
		vmin, vmax := lo.Min(majors), lo.Max(majors)
		m.Scalars = scalars
		m.Colors = lo.Map(scalars, func(v float64, _ int) color.NRGBA { return colors.Map(v, vmin, vmax) })
		a.Props.ScalarColors = true
	}
	return f.register(a), nil
}

// cyclic returns the rotation taking +x to axis k of a frame while keeping
// it right-handed.
func cyclic(k int) sdf.M44 {
	switch k {
	case 1:
		return sdf.RotateZ(math.Pi / 2).Mul(sdf.RotateX(math.Pi / 2))
	case 2:
		return sdf.RotateY(-math.Pi / 2).Mul(sdf.RotateX(-math.Pi / 2))
	}
	return sdf.Identity3d()
}

// eigenFrame decomposes the symmetric part of t. Values are ordered by
// magnitude, major first, and rot maps x and y onto the major and medium
// eigenvectors, z onto their cross product.
func eigenFrame(t Tensor) (vals [3]float64, rot sdf.M44, err error) {
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, (t[3*i+j]+t[3*j+i])/2)
		}
	}
	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return vals, rot, fmt.Errorf("eigen decomposition failed")
	}
	asc := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// largest magnitude first; ties keep the larger signed value first
	order := []int{2, 1, 0}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(asc[order[a]]) > math.Abs(asc[order[b]])
	})
	var cols [2]v3.Vec
	for k, c := range order {
		vals[k] = asc[c]
		if k < 2 {
			cols[k] = v3.Vec{X: vecs.At(0, c), Y: vecs.At(1, c), Z: vecs.At(2, c)}
		}
	}
	return vals, geom.Frame(cols[0], cols[1]), nil
}
