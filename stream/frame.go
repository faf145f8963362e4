package stream

import (
	"image"
	"time"

	"github.com/matt-g-everett/scenetx/scene"
)

// FormatRGBA tags frames whose pixels are 8-bit RGBA.
const FormatRGBA = "rgba"

// A Frame is one rasterized picture of the scene. Frames are immutable once
// produced and are handed off whole between pipeline stages.
type Frame struct {
	Pix       *image.RGBA
	Width     int
	Height    int
	Format    string
	Timestamp time.Time
}

// NewFrame wraps a pixel buffer produced at the given time.
func NewFrame(pix *image.RGBA, t time.Time) *Frame {
	f := new(Frame)
	f.Pix = pix
	f.Width = pix.Rect.Dx()
	f.Height = pix.Rect.Dy()
	f.Format = FormatRGBA
	f.Timestamp = t
	return f
}

// A Renderer rasterizes a scene snapshot into a pixel buffer. Implementations
// are called synchronously on the tick thread; drawing problems for a
// well-formed scene degrade to placeholder output rather than an error.
type Renderer interface {
	Render(snapshot []scene.Element, t time.Time) (*Frame, error)
}
