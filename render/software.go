// Package render rasterizes scene snapshots into pixel frames in software.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matt-g-everett/scenetx/scene"
	"github.com/matt-g-everett/scenetx/stream"
	"github.com/matt-g-everett/scenetx/util"
)

// trailLutSize is the resolution of the precomputed trail gain table.
const trailLutSize = 64

// A Software renderer paints elements into an RGBA buffer with no GPU or
// window dependency.
type Software struct {
	width      int
	height     int
	background colorful.Color
	images     *Images
	fade       []float64
}

// NewSoftware creates a renderer for a canvas of the given size.
func NewSoftware(width, height int, background colorful.Color, images *Images) *Software {
	r := new(Software)
	r.width = width
	r.height = height
	r.background = background
	r.images = images
	r.fade = util.GenerateLut(trailLutSize)
	return r
}

// Render rasterizes the snapshot. A failure drawing one element degrades to
// an error placeholder for that element; Render itself only fails for a
// canvas it cannot allocate, which does not happen for fixed sizes.
func (r *Software) Render(snapshot []scene.Element, t time.Time) (*stream.Frame, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	br, bg, bb := r.background.Clamped().RGB255()
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{br, bg, bb, 255}), image.Point{}, draw.Src)

	for i := range snapshot {
		e := &snapshot[i]
		if !e.Visible {
			continue
		}
		r.drawElement(img, e)
	}
	return stream.NewFrame(img, t), nil
}

func (r *Software) drawElement(img *image.RGBA, e *scene.Element) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("drawing element %s failed: %v", e.ID, rec)
			r.drawPlaceholder(img, e)
		}
	}()

	if e.Motion != nil && e.Motion.ShowTrail {
		r.drawTrail(img, e)
	}

	switch e.Kind {
	case scene.KindText:
		r.drawText(img, e)
	case scene.KindShape:
		r.drawShape(img, e)
	case scene.KindImage:
		r.drawImage(img, e)
	}
}

func (r *Software) drawShape(img *image.RGBA, e *scene.Element) {
	b := e.Bounds()
	w := b.Max.X - b.Min.X
	h := b.Max.Y - b.Min.Y
	switch e.Shape {
	case scene.ShapeRectangle:
		r.fillRect(img, b, e.Fill, e.Opacity)
		r.strokeRect(img, b, e.Stroke, e.Opacity)
	case scene.ShapeCircle:
		cx := b.Min.X + w/2
		cy := b.Min.Y + h/2
		radius := math.Min(w, h) / 2
		r.fillMask(img, b, e.Fill, e.Opacity, func(x, y float64) bool {
			dx := x - cx
			dy := y - cy
			return dx*dx+dy*dy <= radius*radius
		})
	case scene.ShapeTriangle:
		// Apex at top-center, base along the bottom edge.
		ax, ay := b.Min.X+w/2, b.Min.Y
		bx, by := b.Min.X, b.Max.Y
		cx, cy := b.Max.X, b.Max.Y
		r.fillMask(img, b, e.Fill, e.Opacity, func(x, y float64) bool {
			return inTriangle(x, y, ax, ay, bx, by, cx, cy)
		})
	}
}

func (r *Software) drawText(img *image.RGBA, e *scene.Element) {
	tr, tg, tb := e.TextColor.Clamped().RGB255()
	a := clamp01(e.Opacity)
	// color.RGBA is alpha-premultiplied.
	src := color.RGBA{
		R: uint8(float64(tr) * a),
		G: uint8(float64(tg) * a),
		B: uint8(float64(tb) * a),
		A: uint8(255 * a),
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(src),
		Face: basicfont.Face7x13,
		Dot: fixed.P(int(e.Position.X),
			int(e.Position.Y)+basicfont.Face7x13.Ascent),
	}
	d.DrawString(e.Text)
}

func (r *Software) drawImage(img *image.RGBA, e *scene.Element) {
	b := e.Bounds()
	w := int(b.Max.X - b.Min.X)
	h := int(b.Max.Y - b.Min.Y)
	src := r.images.Get(e.ImagePath, w, h)
	if src == nil {
		r.drawPlaceholder(img, e)
		return
	}
	dst := image.Rect(int(b.Min.X), int(b.Min.Y), int(b.Max.X), int(b.Max.Y))
	draw.Draw(img, dst, src, image.Point{}, draw.Over)
}

// drawTrail paints the element's recent positions as dots fading toward the
// background, oldest faintest.
func (r *Software) drawTrail(img *image.RGBA, e *scene.Element) {
	trail := e.Trail()
	if len(trail) == 0 {
		return
	}
	c := e.Fill
	if e.Kind == scene.KindText {
		c = e.TextColor
	}
	for i, p := range trail {
		// Index the rising half of the gain table so the newest positions
		// are the brightest.
		idx := i * (trailLutSize/2 - 1) / len(trail)
		gain := r.fade[idx]
		dot := r.background.BlendHcl(c, gain)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				r.blendPixel(img, int(p.X)+dx, int(p.Y)+dy, dot, gain*e.Opacity)
			}
		}
	}
}

// drawPlaceholder marks an element that could not be drawn with a crossed
// box instead of crashing the frame.
func (r *Software) drawPlaceholder(img *image.RGBA, e *scene.Element) {
	b := e.Bounds()
	if b.Max.X-b.Min.X < 2 || b.Max.Y-b.Min.Y < 2 {
		b.Max = scene.Point{X: b.Min.X + 16, Y: b.Min.Y + 16}
	}
	magenta := colorful.Color{R: 1, G: 0, B: 1}
	r.strokeRect(img, b, magenta, 1)
	steps := int(math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := b.Min.X + (b.Max.X-b.Min.X)*t
		r.blendPixel(img, int(x), int(b.Min.Y+(b.Max.Y-b.Min.Y)*t), magenta, 1)
		r.blendPixel(img, int(x), int(b.Max.Y-(b.Max.Y-b.Min.Y)*t), magenta, 1)
	}
}

func (r *Software) fillRect(img *image.RGBA, b scene.Rect, c colorful.Color, opacity float64) {
	r.fillMask(img, b, c, opacity, func(x, y float64) bool { return true })
}

func (r *Software) strokeRect(img *image.RGBA, b scene.Rect, c colorful.Color, opacity float64) {
	for x := int(b.Min.X); x <= int(b.Max.X); x++ {
		r.blendPixel(img, x, int(b.Min.Y), c, opacity)
		r.blendPixel(img, x, int(b.Max.Y), c, opacity)
	}
	for y := int(b.Min.Y); y <= int(b.Max.Y); y++ {
		r.blendPixel(img, int(b.Min.X), y, c, opacity)
		r.blendPixel(img, int(b.Max.X), y, c, opacity)
	}
}

func (r *Software) fillMask(img *image.RGBA, b scene.Rect, c colorful.Color,
	opacity float64, inside func(x, y float64) bool) {

	for y := int(b.Min.Y); y < int(b.Max.Y); y++ {
		for x := int(b.Min.X); x < int(b.Max.X); x++ {
			if inside(float64(x)+0.5, float64(y)+0.5) {
				r.blendPixel(img, x, y, c, opacity)
			}
		}
	}
}

// blendPixel source-over composites a color at the given alpha.
func (r *Software) blendPixel(img *image.RGBA, x, y int, c colorful.Color, alpha float64) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	alpha = clamp01(alpha)
	sr, sg, sb := c.Clamped().RGB255()
	old := img.RGBAAt(x, y)
	img.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(sr)*alpha + float64(old.R)*(1-alpha)),
		G: uint8(float64(sg)*alpha + float64(old.G)*(1-alpha)),
		B: uint8(float64(sb)*alpha + float64(old.B)*(1-alpha)),
		A: 255,
	})
}

func inTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	s1 := (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	s2 := (cx-bx)*(py-by) - (cy-by)*(px-bx)
	s3 := (ax-cx)*(py-cy) - (ay-cy)*(px-cx)
	return (s1 >= 0 && s2 >= 0 && s3 >= 0) || (s1 <= 0 && s2 <= 0 && s3 <= 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
