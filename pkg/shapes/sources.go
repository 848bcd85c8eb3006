package shapes

import (
	"image/color"
	"math"

	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh sources. Every polygon is wound counter-clockwise seen from
// outside, so normals computed from the winding point outwards.

// ---------------------------------------------------------------------------
// Planar sources
// ---------------------------------------------------------------------------

// polygonPoints returns the n vertices of a regular polygon of radius r in
// the xy plane, starting on +y and turning counter-clockwise.
func polygonPoints(n int, r float64) []v3.Vec {
	pts := make([]v3.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v3.Vec{X: -r * math.Sin(a), Y: r * math.Cos(a)}
	}
	return pts
}

func polygonMesh(n int, r float64) *kernel.Mesh {
	m := &kernel.Mesh{}
	cell := make([]uint32, n)
	for i, p := range polygonPoints(n, r) {
		cell[i] = m.AddPoint(p)
	}
	m.Polys = [][]uint32{cell}
	return m
}

// starPoints alternates the n cusps at radius r2 with the scaled midpoints
// of the polygon edges between them.
func starPoints(n int, r1, r2 float64) []v3.Vec {
	cusps := polygonPoints(n, r2)
	out := make([]v3.Vec, 0, 2*n)
	for i, p := range cusps {
		q := cusps[(i+1)%n]
		out = append(out, p, p.Add(q).MulScalar(0.5*r1/r2))
	}
	return out
}

// starMesh fans the star outline from a centre point.
func starMesh(n int, r1, r2 float64) *kernel.Mesh {
	m := &kernel.Mesh{Points: starPoints(n, r1, r2)}
	c := m.AddPoint(v3.Vec{})
	k := uint32(2 * n)
	for i := uint32(0); i < k; i++ {
		m.Polys = append(m.Polys, []uint32{c, i, (i + 1) % k})
	}
	return m
}

// discMesh is an annulus of circRes sectors and radRes rings.
func discMesh(r1, r2 float64, radRes, circRes int) *kernel.Mesh {
	m := &kernel.Mesh{}
	rings := make([][]uint32, radRes+1)
	for k := range rings {
		rho := r1 + (r2-r1)*float64(k)/float64(radRes)
		rings[k] = make([]uint32, circRes)
		for i := range rings[k] {
			a := 2 * math.Pi * float64(i) / float64(circRes)
			rings[k][i] = m.AddPoint(v3.Vec{X: rho * math.Cos(a), Y: rho * math.Sin(a)})
		}
	}
	for k := 0; k < radRes; k++ {
		for i := 0; i < circRes; i++ {
			j := (i + 1) % circRes
			m.Polys = append(m.Polys, []uint32{rings[k][i], rings[k+1][i], rings[k+1][j], rings[k][j]})
		}
	}
	return m
}

// planeMesh is the unit square [-0.5, 0.5]^2 at z=0 split into resx by
// resy quads, with texture coordinates.
func planeMesh(resx, resy int) *kernel.Mesh {
	m := &kernel.Mesh{}
	for j := 0; j <= resy; j++ {
		for i := 0; i <= resx; i++ {
			u := float64(i) / float64(resx)
			v := float64(j) / float64(resy)
			m.AddPoint(v3.Vec{X: u - 0.5, Y: v - 0.5})
			m.TCoords = append(m.TCoords, [2]float64{u, v})
		}
	}
	m.Polys = gridQuads(resx, resy)
	return m
}

// gridQuads indexes the quads of an (nu+1) by (nv+1) point lattice stored
// row by row.
func gridQuads(nu, nv int) [][]uint32 {
	row := uint32(nu + 1)
	cells := make([][]uint32, 0, nu*nv)
	for j := uint32(0); j < uint32(nv); j++ {
		for i := uint32(0); i < uint32(nu); i++ {
			a := j*row + i
			cells = append(cells, []uint32{a, a + 1, a + 1 + row, a + row})
		}
	}
	return cells
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// boxMesh is an axis-aligned box centred on the origin, one quad per face
// with its own corners.
func boxMesh(lx, ly, lz float64) *kernel.Mesh {
	x, y, z := lx/2, ly/2, lz/2
	faces := [6][4]v3.Vec{
		{{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z}},
		{{X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z}, {X: x, Y: -y, Z: z}},
		{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z}},
		{{X: -x, Y: y, Z: -z}, {X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}},
		{{X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: -y, Z: -z}},
		{{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}},
	}
	m := &kernel.Mesh{}
	for _, f := range faces {
		cell := make([]uint32, 4)
		for i, p := range f {
			cell[i] = m.AddPoint(p)
		}
		m.Polys = append(m.Polys, cell)
	}
	return m
}

// sphereMesh is a UV sphere: the two poles, then phiRes-1 rings of
// thetaRes points from north to south.
func sphereMesh(r float64, thetaRes, phiRes int) *kernel.Mesh {
	if thetaRes < 3 {
		thetaRes = 3
	}
	if phiRes < 2 {
		phiRes = 2
	}
	m := &kernel.Mesh{}
	north := m.AddPoint(v3.Vec{Z: r})
	south := m.AddPoint(v3.Vec{Z: -r})
	rings := make([][]uint32, phiRes-1)
	for j := range rings {
		phi := math.Pi * float64(j+1) / float64(phiRes)
		rings[j] = make([]uint32, thetaRes)
		for i := range rings[j] {
			theta := 2 * math.Pi * float64(i) / float64(thetaRes)
			rings[j][i] = m.AddPoint(v3.Vec{
				X: r * math.Sin(phi) * math.Cos(theta),
				Y: r * math.Sin(phi) * math.Sin(theta),
				Z: r * math.Cos(phi),
			})
		}
	}
	top, bottom := rings[0], rings[len(rings)-1]
	for i := 0; i < thetaRes; i++ {
		k := (i + 1) % thetaRes
		m.Polys = append(m.Polys, []uint32{north, top[i], top[k]})
	}
	for j := 0; j+1 < len(rings); j++ {
		a, b := rings[j], rings[j+1]
		for i := 0; i < thetaRes; i++ {
			k := (i + 1) % thetaRes
			m.Polys = append(m.Polys, []uint32{a[i], b[i], b[k], a[k]})
		}
	}
	for i := 0; i < thetaRes; i++ {
		k := (i + 1) % thetaRes
		m.Polys = append(m.Polys, []uint32{south, bottom[k], bottom[i]})
	}
	return m
}

// ringX appends res points on a circle of radius rho in the plane x=x0,
// turning counter-clockwise about +x.
func ringX(m *kernel.Mesh, x0, rho float64, res int) []uint32 {
	ring := make([]uint32, res)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / float64(res)
		ring[i] = m.AddPoint(v3.Vec{X: x0, Y: rho * math.Cos(a), Z: rho * math.Sin(a)})
	}
	return ring
}

// band joins ring a to the following ring b with quads.
func band(m *kernel.Mesh, a, b []uint32) {
	n := len(a)
	for i := 0; i < n; i++ {
		k := (i + 1) % n
		m.Polys = append(m.Polys, []uint32{a[i], a[k], b[k], b[i]})
	}
}

// fan joins apex to ring with triangles.
func fan(m *kernel.Mesh, apex uint32, ring []uint32) {
	n := len(ring)
	for i := 0; i < n; i++ {
		m.Polys = append(m.Polys, []uint32{apex, ring[i], ring[(i+1)%n]})
	}
}

func reversed(cell []uint32) []uint32 {
	out := make([]uint32, len(cell))
	for i, v := range cell {
		out[len(cell)-1-i] = v
	}
	return out
}

// cylinderMesh is a capped cylinder of height h centred on the origin
// along +z. Caps have their own points so shading stays sharp.
func cylinderMesh(r, h float64, res int) *kernel.Mesh {
	if res < 3 {
		res = 3
	}
	m := &kernel.Mesh{}
	band(m, ringX(m, -h/2, r, res), ringX(m, h/2, r, res))
	m.Polys = append(m.Polys, reversed(ringX(m, -h/2, r, res)), ringX(m, h/2, r, res))
	// +x onto +z
	return m.Transform(sdf.RotateY(-math.Pi / 2))
}

// coneMesh is a capped cone of height h along +x with its apex at x=h/2.
func coneMesh(r, h float64, res int) *kernel.Mesh {
	if res < 3 {
		res = 3
	}
	m := &kernel.Mesh{}
	apex := m.AddPoint(v3.Vec{X: h / 2})
	ring := ringX(m, -h/2, r, res)
	fan(m, apex, ring)
	m.Polys = append(m.Polys, reversed(ring))
	return m
}

// arrowSource is the unit arrow from the origin to (1,0,0): a shaft
// cylinder followed by a cone tip of length tipLength.
type arrowSource struct {
	TipLength   float64
	TipRadius   float64
	ShaftRadius float64
	Res         int
}

func defaultArrowSource(res int) arrowSource {
	return arrowSource{TipLength: 0.35, TipRadius: 0.1, ShaftRadius: 0.03, Res: res}
}

func (a arrowSource) mesh() *kernel.Mesh {
	res := a.Res
	if res < 3 {
		res = 3
	}
	neck := 1 - a.TipLength
	m := &kernel.Mesh{}
	s0 := ringX(m, 0, a.ShaftRadius, res)
	s1 := ringX(m, neck, a.ShaftRadius, res)
	band(m, s0, s1)
	m.Polys = append(m.Polys, reversed(s0))

	apex := m.AddPoint(v3.Vec{X: 1})
	tip := ringX(m, neck, a.TipRadius, res)
	fan(m, apex, tip)
	m.Polys = append(m.Polys, reversed(tip))
	return m
}

// surfaceMesh samples fn over a (nu+1) by (nv+1) lattice spanning
// [u0,u1]x[v0,v1] and joins it with quads. Texture coordinates follow the
// lattice.
func surfaceMesh(nu, nv int, u0, u1, v0, v1 float64, fn func(u, v float64) v3.Vec) *kernel.Mesh {
	if nu < 1 {
		nu = 1
	}
	if nv < 1 {
		nv = 1
	}
	m := &kernel.Mesh{}
	for j := 0; j <= nv; j++ {
		tv := float64(j) / float64(nv)
		v := v0 + (v1-v0)*tv
		for i := 0; i <= nu; i++ {
			tu := float64(i) / float64(nu)
			u := u0 + (u1-u0)*tu
			m.AddPoint(fn(u, v))
			m.TCoords = append(m.TCoords, [2]float64{tu, tv})
		}
	}
	m.Polys = gridQuads(nu, nv)
	return m
}

// torusMesh is a torus about +z with ring radius r and tube radius t.
func torusMesh(r, t float64, nu, nv int) *kernel.Mesh {
	return surfaceMesh(nu, nv, 0, 2*math.Pi, 0, 2*math.Pi, func(u, v float64) v3.Vec {
		w := r + t*math.Cos(v)
		return v3.Vec{X: w * math.Cos(u), Y: w * math.Sin(u), Z: t * math.Sin(v)}
	})
}

// instance appends a copy of src mapped through m44 to dst, painting the
// copy when c is non-nil.
func instance(dst, src *kernel.Mesh, m44 sdf.M44, c *color.NRGBA) {
	cp := src.Transform(m44)
	if c != nil {
		cp.SetUniformColor(*c)
	}
	dst.Append(cp)
}
