package scene

import (
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind identifies what an Element draws.
type Kind int

const (
	KindText Kind = iota
	KindShape
	KindImage
)

// ShapeKind selects the primitive a shape element draws.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeTriangle
)

// Point is a position on the canvas.
type Point struct {
	X float64
	Y float64
}

// Size is the width and height of an element.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle used for bounds and hit-testing.
type Rect struct {
	Min Point
	Max Point
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// An Element is a typed node in the scene.
type Element struct {
	ID        string
	Kind      Kind
	Position  Point
	Size      Size
	ZIndex    int
	Visible   bool
	Draggable bool
	Opacity   float64

	// Text payload.
	Text      string
	FontSize  float64
	TextColor colorful.Color

	// Shape payload.
	Shape  ShapeKind
	Fill   colorful.Color
	Stroke colorful.Color

	// Image payload.
	ImagePath string

	Motion *MotionConfig
	state  *MotionState
}

func newElement(kind Kind, pos Point) *Element {
	e := new(Element)
	e.ID = uuid.NewString()
	e.Kind = kind
	e.Position = pos
	e.Visible = true
	e.Opacity = 1.0
	return e
}

// NewText creates a text element at the given position.
func NewText(text string, pos Point) *Element {
	e := newElement(KindText, pos)
	e.Text = text
	e.FontSize = 13
	e.TextColor = colorful.Color{R: 1, G: 1, B: 1}
	e.Size = Size{W: float64(len(text)) * 7, H: 13}
	e.Draggable = true
	return e
}

// NewShape creates a shape element at the given position.
func NewShape(shape ShapeKind, pos Point, size Size) *Element {
	e := newElement(KindShape, pos)
	e.Shape = shape
	e.Size = size
	e.Fill = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	e.Stroke = colorful.Color{R: 1, G: 1, B: 1}
	e.Draggable = true
	return e
}

// NewImage creates an image element at the given position.
func NewImage(path string, pos Point, size Size) *Element {
	e := newElement(KindImage, pos)
	e.ImagePath = path
	e.Size = size
	return e
}

// Bounds returns the element's axis-aligned bounding box. Negative sizes
// clamp to a zero-area box at the element's position.
func (e *Element) Bounds() Rect {
	w, h := e.Size.W, e.Size.H
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{
		Min: e.Position,
		Max: Point{X: e.Position.X + w, Y: e.Position.Y + h},
	}
}

// State returns the element's motion state, or nil when no motion is attached.
func (e *Element) State() *MotionState {
	return e.state
}

// Trail returns a copy of the element's recent positions, oldest first.
func (e *Element) Trail() []Point {
	if e.state == nil {
		return nil
	}
	out := make([]Point, len(e.state.Trail))
	copy(out, e.state.Trail)
	return out
}
