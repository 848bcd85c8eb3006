package kernel

import (
	"image/color"
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name   string
		points []v3.Vec
		want   int
	}{
		{"empty", nil, 0},
		{"one vertex", []v3.Vec{{X: 1, Y: 2, Z: 3}}, 1},
		{"four vertices", []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Points: tt.points}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name  string
		polys [][]uint32
		want  int
	}{
		{"empty", nil, 0},
		{"one triangle", [][]uint32{{0, 1, 2}}, 1},
		{"quad", [][]uint32{{0, 1, 2, 3}}, 2},
		{"degenerate polygon ignored", [][]uint32{{0, 1}}, 0},
		{"hexagon and triangle", [][]uint32{{0, 1, 2, 3, 4, 5}, {0, 1, 2}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Polys: tt.polys}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Points: []v3.Vec{{X: 1, Y: 2, Z: 3}}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshAppendOffsetsCells(t *testing.T) {
	a := &Mesh{}
	a.AddPolyline([]v3.Vec{{}, {X: 1}})
	b := &Mesh{}
	b.AddPolyline([]v3.Vec{{Y: 1}, {Y: 2}, {Y: 3}})
	b.Polys = [][]uint32{{0, 1, 2}}

	a.Append(b)

	if a.VertexCount() != 5 {
		t.Fatalf("VertexCount() = %d, want 5", a.VertexCount())
	}
	if len(a.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(a.Lines))
	}
	if got := a.Lines[1]; got[0] != 2 || got[2] != 4 {
		t.Errorf("appended line = %v, want offset by 2", got)
	}
	if got := a.Polys[0]; got[0] != 2 {
		t.Errorf("appended poly = %v, want offset by 2", got)
	}
}

func TestMeshAppendDropsPartialColors(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	a := &Mesh{Points: []v3.Vec{{}}}
	a.SetUniformColor(red)
	b := &Mesh{Points: []v3.Vec{{X: 1}}}

	a.Append(b)
	if a.Colors != nil {
		t.Errorf("colors = %v, want nil when only one side is colored", a.Colors)
	}

	c := &Mesh{}
	d := &Mesh{Points: []v3.Vec{{X: 1}}}
	d.SetUniformColor(red)
	c.Append(d)
	if len(c.Colors) != 1 {
		t.Errorf("colors = %d, want 1 when appending into an empty mesh", len(c.Colors))
	}
}

func TestMeshTransformDoesNotMutate(t *testing.T) {
	m := &Mesh{Points: []v3.Vec{{X: 1}}}
	moved := m.Transform(sdf.Translate3d(v3.Vec{X: 10, Y: 0, Z: 0}))
	if m.Points[0].X != 1 {
		t.Errorf("source mutated: %v", m.Points[0])
	}
	if moved.Points[0].X != 11 {
		t.Errorf("moved X = %f, want 11", moved.Points[0].X)
	}
}

func TestMeshNormalize(t *testing.T) {
	m := &Mesh{Points: []v3.Vec{{X: 10}, {X: 14}}}
	m.Normalize()
	if c := m.Centroid(); math.Abs(c.X) > 1e-12 {
		t.Errorf("centroid = %v, want origin", c)
	}
	if s := m.AverageSize(); math.Abs(s-1) > 1e-12 {
		t.Errorf("average size = %f, want 1", s)
	}
}

func TestMeshFlipPolys(t *testing.T) {
	m := &Mesh{Polys: [][]uint32{{0, 1, 2, 3}}}
	m.FlipPolys()
	want := []uint32{3, 2, 1, 0}
	for i := range want {
		if m.Polys[0][i] != want[i] {
			t.Fatalf("flipped = %v, want %v", m.Polys[0], want)
		}
	}
}

func TestQuadricEval(t *testing.T) {
	// Unit sphere: x^2 + y^2 + z^2 - 1.
	q := Quadric{1, 1, 1, 0, 0, 0, 0, 0, 0, -1}
	if got := q.Eval(v3.Vec{X: 1}); got != 0 {
		t.Errorf("Eval on surface = %f, want 0", got)
	}
	if got := q.Eval(v3.Vec{}); got != -1 {
		t.Errorf("Eval at origin = %f, want -1", got)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) QuadricSurface(_ Quadric, _ float64, min, max v3.Vec) Solid {
	return &stubSolid{
		minBB: [3]float64{min.X, min.Y, min.Z},
		maxBB: [3]float64{max.X, max.Y, max.Z},
	}
}

func (k *stubKernel) Text(s string, _ *truetype.Font, size, _ float64, _ Justify) (Solid, error) {
	return &stubSolid{maxBB: [3]float64{float64(len(s)) * size, size, 0}}, nil
}

func (k *stubKernel) ToMesh(_ Solid, _ int) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelQuadricBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.QuadricSurface(Quadric{}, 0, v3.Vec{X: -1, Y: -2, Z: -3}, v3.Vec{X: 1, Y: 2, Z: 3})
	min, max := s.BoundingBox()
	if min != [3]float64{-1, -2, -3} {
		t.Errorf("min = %v, want [-1 -2 -3]", min)
	}
	if max != [3]float64{1, 2, 3} {
		t.Errorf("max = %v, want [1 2 3]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Text("abc", nil, 1, 0, JustifyCenter)
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	m, err := k.ToMesh(s, 10)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
