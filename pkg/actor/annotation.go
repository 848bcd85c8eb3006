package actor

import (
	"image/color"
	"strings"

	"github.com/google/uuid"
)

// Corner anchors a screen-space annotation to the viewport.
type Corner int

const (
	CornerNone Corner = iota
	CornerBottomLeft
	CornerBottomRight
	CornerTopLeft
	CornerTopRight
	CornerBottomMiddle
	CornerMiddleRight
	CornerMiddleLeft
	CornerTopMiddle
)

var cornerNames = [...]string{
	"none", "bottom-left", "bottom-right", "top-left", "top-right",
	"bottom-middle", "middle-right", "middle-left", "top-middle",
}

func (c Corner) String() string {
	if c < 0 || int(c) >= len(cornerNames) {
		return "unknown"
	}
	return cornerNames[c]
}

// CornerFromIndex clamps i to the anchors 1..8.
func CornerFromIndex(i int) Corner {
	switch {
	case i < 1:
		return CornerBottomLeft
	case i > 8:
		return CornerTopMiddle
	}
	return Corner(i)
}

// ParseCorner maps a descriptive anchor such as "top-right" or
// "bottom mid" to a Corner. Strings naming neither top nor bottom resolve
// to the middle row, and anything unrecognised to the top-left corner.
func ParseCorner(s string) Corner {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "top"):
		switch {
		case strings.Contains(s, "left"):
			return CornerTopLeft
		case strings.Contains(s, "mid"):
			return CornerTopMiddle
		case strings.Contains(s, "right"):
			return CornerTopRight
		}
	case strings.Contains(s, "bottom"):
		switch {
		case strings.Contains(s, "left"):
			return CornerBottomLeft
		case strings.Contains(s, "mid"):
			return CornerBottomMiddle
		case strings.Contains(s, "right"):
			return CornerBottomRight
		}
	case strings.Contains(s, "left"):
		return CornerMiddleLeft
	case strings.Contains(s, "right"):
		return CornerMiddleRight
	}
	return CornerTopLeft
}

// Annotation is text drawn in screen space, either anchored to a viewport
// corner or placed at a pixel position measured from the bottom left.
type Annotation struct {
	ID   uuid.UUID
	Name string
	Text string

	Corner Corner
	// ScreenPos is used when Corner is CornerNone.
	ScreenPos [2]float64

	// FontSize is in points.
	FontSize float64
	// Font is a family name or the path of a TrueType file.
	Font       string
	Color      color.NRGBA
	Alpha      float64
	Background *color.NRGBA
}

// NewAnnotation returns an opaque annotation with a fresh ID.
func NewAnnotation(text string) *Annotation {
	return &Annotation{
		ID:       uuid.New(),
		Name:     "Text",
		Text:     text,
		FontSize: 20,
		Color:    color.NRGBA{R: 128, G: 128, B: 128, A: 255},
		Alpha:    1,
	}
}

// ItemID implements Item.
func (a *Annotation) ItemID() uuid.UUID { return a.ID }

// ItemName implements Item.
func (a *Annotation) ItemName() string { return a.Name }
