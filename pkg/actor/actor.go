// Package actor wraps meshes with the display attributes and transform a
// renderer needs, and provides the caller-owned Collection that factories
// register into.
package actor

import (
	"image"
	"image/color"

	"github.com/chazu/shapekit/pkg/geom"
	"github.com/chazu/shapekit/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// Lighting selects the shading model of an actor.
type Lighting int

const (
	LightingDefault Lighting = iota
	LightingFlat
	LightingPhong
	LightingAmbient
)

var lightingNames = [...]string{"default", "flat", "phong", "ambient"}

func (l Lighting) String() string {
	if l < 0 || int(l) >= len(lightingNames) {
		return "unknown"
	}
	return lightingNames[l]
}

// StippleDotted is the line stipple pattern of dotted lines.
const StippleDotted uint16 = 0xF0F0

// Props are the rendering attributes of an actor.
type Props struct {
	Color     color.NRGBA
	Alpha     float64
	LineWidth float64
	PointSize float64
	Wireframe bool
	Lighting  Lighting
	// BackColor colours back faces; nil means same as front.
	BackColor *color.NRGBA
	// Stipple is a 16-bit line pattern; zero draws solid lines.
	Stipple uint16
	// ScalarColors makes the renderer use the mesh's per-point colours
	// instead of Color.
	ScalarColors    bool
	BackfaceCulling bool
}

// Actor is a mesh with display attributes and a transform.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Mesh  *kernel.Mesh
	Props Props

	// Base and Top are the reference end points of elongated shapes.
	Base, Top v3.Vec
	// Info carries free-form metadata, e.g. the source of a formula.
	Info map[string]string
	// Texture is mapped onto the mesh through its texture coordinates.
	Texture image.Image

	position v3.Vec
	origin   v3.Vec
	scale    v3.Vec
	rotation sdf.M44
}

// New wraps mesh with default properties: opaque grey, unit line width.
func New(name string, mesh *kernel.Mesh) *Actor {
	if mesh == nil {
		mesh = &kernel.Mesh{}
	}
	return &Actor{
		ID:   uuid.New(),
		Name: name,
		Mesh: mesh,
		Props: Props{
			Color:     color.NRGBA{R: 128, G: 128, B: 128, A: 255},
			Alpha:     1,
			LineWidth: 1,
			PointSize: 1,
		},
		Info:     make(map[string]string),
		scale:    v3.Vec{X: 1, Y: 1, Z: 1},
		rotation: sdf.Identity3d(),
	}
}

// ItemID implements Item.
func (a *Actor) ItemID() uuid.UUID { return a.ID }

// ItemName implements Item.
func (a *Actor) ItemName() string { return a.Name }

// SetColor sets the uniform colour.
func (a *Actor) SetColor(c color.NRGBA) *Actor {
	c.A = 255
	a.Props.Color = c
	return a
}

// SetAlpha sets opacity in [0, 1].
func (a *Actor) SetAlpha(alpha float64) *Actor {
	switch {
	case alpha < 0:
		alpha = 0
	case alpha > 1:
		alpha = 1
	}
	a.Props.Alpha = alpha
	return a
}

// SetLineWidth sets the width of line cells in pixels.
func (a *Actor) SetLineWidth(w float64) *Actor {
	a.Props.LineWidth = w
	return a
}

// SetPointSize sets the size of vertex cells in pixels.
func (a *Actor) SetPointSize(s float64) *Actor {
	a.Props.PointSize = s
	return a
}

// SetWireframe toggles wireframe rendering.
func (a *Actor) SetWireframe(on bool) *Actor {
	a.Props.Wireframe = on
	return a
}

// SetLighting sets the shading model.
func (a *Actor) SetLighting(l Lighting) *Actor {
	a.Props.Lighting = l
	return a
}

// Flat is SetLighting(LightingFlat).
func (a *Actor) Flat() *Actor { return a.SetLighting(LightingFlat) }

// Phong is SetLighting(LightingPhong).
func (a *Actor) Phong() *Actor { return a.SetLighting(LightingPhong) }

// Ambient is SetLighting(LightingAmbient).
func (a *Actor) Ambient() *Actor { return a.SetLighting(LightingAmbient) }

// SetBackColor sets the colour of back faces.
func (a *Actor) SetBackColor(c color.NRGBA) *Actor {
	c.A = 255
	a.Props.BackColor = &c
	return a
}

// SetStipple sets the line stipple pattern.
func (a *Actor) SetStipple(pattern uint16) *Actor {
	a.Props.Stipple = pattern
	return a
}

// Position returns the translation of the actor.
func (a *Actor) Position() v3.Vec { return a.position }

// SetPosition moves the actor to p.
func (a *Actor) SetPosition(p v3.Vec) *Actor {
	a.position = p
	return a
}

// AddPosition moves the actor by d.
func (a *Actor) AddPosition(d v3.Vec) *Actor {
	a.position = a.position.Add(d)
	return a
}

// SetOrigin sets the point rotations and scaling are applied about, in
// model coordinates.
func (a *Actor) SetOrigin(o v3.Vec) *Actor {
	a.origin = o
	return a
}

// Scale returns the per-axis scale factors.
func (a *Actor) Scale() v3.Vec { return a.scale }

// SetScale sets per-axis scale factors.
func (a *Actor) SetScale(s v3.Vec) *Actor {
	a.scale = s
	return a
}

// RotateX rotates the actor about the x axis by deg degrees.
func (a *Actor) RotateX(deg float64) *Actor {
	a.rotation = sdf.RotateX(geom.Rad(deg)).Mul(a.rotation)
	return a
}

// RotateY rotates the actor about the y axis by deg degrees.
func (a *Actor) RotateY(deg float64) *Actor {
	a.rotation = sdf.RotateY(geom.Rad(deg)).Mul(a.rotation)
	return a
}

// RotateZ rotates the actor about the z axis by deg degrees.
func (a *Actor) RotateZ(deg float64) *Actor {
	a.rotation = sdf.RotateZ(geom.Rad(deg)).Mul(a.rotation)
	return a
}

// Rotate rotates the actor about axis by deg degrees.
func (a *Actor) Rotate(deg float64, axis v3.Vec) *Actor {
	if axis.Length() == 0 {
		return a
	}
	a.rotation = sdf.Rotate3d(geom.Versor(axis), geom.Rad(deg)).Mul(a.rotation)
	return a
}

// Orient aligns the actor's local +z axis with axis, replacing any rotation.
func (a *Actor) Orient(axis v3.Vec) *Actor {
	a.rotation = geom.OrientZ(axis)
	return a
}

// Matrix returns the model-to-world transform:
// T(position) T(origin) R S T(-origin).
func (a *Actor) Matrix() sdf.M44 {
	return sdf.Translate3d(a.position).
		Mul(sdf.Translate3d(a.origin)).
		Mul(a.rotation).
		Mul(sdf.Scale3d(a.scale)).
		Mul(sdf.Translate3d(a.origin.MulScalar(-1)))
}

// WorldMesh returns a copy of the mesh in world coordinates.
func (a *Actor) WorldMesh() *kernel.Mesh {
	return a.Mesh.Transform(a.Matrix())
}

// Bounds returns the world-space bounding box.
func (a *Actor) Bounds() (min, max v3.Vec) {
	return a.WorldMesh().BoundingBox()
}

// Center returns the centre of the world-space bounding box.
func (a *Actor) Center() v3.Vec {
	min, max := a.Bounds()
	return min.Add(max).MulScalar(0.5)
}

// Clone returns a deep copy with a fresh ID.
func (a *Actor) Clone() *Actor {
	c := *a
	c.ID = uuid.New()
	c.Mesh = a.Mesh.Clone()
	c.Info = make(map[string]string, len(a.Info))
	for k, v := range a.Info {
		c.Info[k] = v
	}
	if a.Props.BackColor != nil {
		bc := *a.Props.BackColor
		c.Props.BackColor = &bc
	}
	return &c
}
