package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/scenetx/scene"
)

func newTestRenderer(w, h int) *Software {
	background, _ := colorful.Hex("#000000")
	return NewSoftware(w, h, background, NewImages())
}

func TestRenderEmptyScene(t *testing.T) {
	r := newTestRenderer(32, 16)
	f, err := r.Render(nil, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if f.Width != 32 || f.Height != 16 {
		t.Errorf("frame size = %dx%d, want 32x16", f.Width, f.Height)
	}
	if f.Format != "rgba" {
		t.Errorf("format = %q, want rgba", f.Format)
	}
	got := f.Pix.RGBAAt(5, 5)
	if got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("background pixel = %v, want opaque black", got)
	}
}

func TestRenderFillsShape(t *testing.T) {
	r := newTestRenderer(32, 32)
	e := scene.NewShape(scene.ShapeRectangle, scene.Point{X: 4, Y: 4}, scene.Size{W: 10, H: 10})
	e.Fill = colorful.Color{R: 1, G: 0, B: 0}

	f, err := r.Render([]scene.Element{*e}, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	got := f.Pix.RGBAAt(8, 8)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("interior pixel = %v, want red fill", got)
	}
}

func TestRenderSkipsInvisible(t *testing.T) {
	r := newTestRenderer(32, 32)
	e := scene.NewShape(scene.ShapeRectangle, scene.Point{X: 0, Y: 0}, scene.Size{W: 32, H: 32})
	e.Fill = colorful.Color{R: 1, G: 1, B: 1}
	e.Visible = false

	f, _ := r.Render([]scene.Element{*e}, time.Now())
	if got := f.Pix.RGBAAt(16, 16); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("pixel = %v, invisible element must not draw", got)
	}
}

func TestRenderHonorsZOrder(t *testing.T) {
	r := newTestRenderer(16, 16)
	under := scene.NewShape(scene.ShapeRectangle, scene.Point{}, scene.Size{W: 16, H: 16})
	under.Fill = colorful.Color{R: 1, G: 0, B: 0}
	over := scene.NewShape(scene.ShapeRectangle, scene.Point{}, scene.Size{W: 16, H: 16})
	over.Fill = colorful.Color{R: 0, G: 0, B: 1}

	// Snapshot order is z-order; the later element paints on top.
	f, _ := r.Render([]scene.Element{*under, *over}, time.Now())
	got := f.Pix.RGBAAt(8, 8)
	if got.B < 200 || got.R > 50 {
		t.Errorf("pixel = %v, want the higher element's blue", got)
	}
}

func TestRenderTextAndTriangle(t *testing.T) {
	r := newTestRenderer(64, 64)
	text := scene.NewText("hi", scene.Point{X: 2, Y: 2})
	tri := scene.NewShape(scene.ShapeTriangle, scene.Point{X: 20, Y: 20}, scene.Size{W: 20, H: 20})
	tri.Fill = colorful.Color{R: 0, G: 1, B: 0}

	f, err := r.Render([]scene.Element{*text, *tri}, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Triangle centroid is inside the fill.
	got := f.Pix.RGBAAt(30, 35)
	if got.G < 200 {
		t.Errorf("triangle interior = %v, want green fill", got)
	}
}

func TestRenderMissingImagePlaceholder(t *testing.T) {
	r := newTestRenderer(64, 64)
	e := scene.NewImage("does-not-exist.png", scene.Point{X: 8, Y: 8}, scene.Size{W: 20, H: 20})

	f, err := r.Render([]scene.Element{*e}, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// The placeholder border is magenta.
	got := f.Pix.RGBAAt(8, 8)
	if got.R < 200 || got.B < 200 || got.G > 50 {
		t.Errorf("placeholder border = %v, want magenta", got)
	}
}

func TestRenderOpacityBlends(t *testing.T) {
	r := newTestRenderer(16, 16)
	e := scene.NewShape(scene.ShapeRectangle, scene.Point{}, scene.Size{W: 16, H: 16})
	e.Fill = colorful.Color{R: 1, G: 1, B: 1}
	e.Opacity = 0.5

	f, _ := r.Render([]scene.Element{*e}, time.Now())
	got := f.Pix.RGBAAt(8, 8)
	if got.R < 100 || got.R > 160 {
		t.Errorf("half-opacity white over black = %v, want mid grey", got)
	}
}
