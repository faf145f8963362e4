package stream

import (
	"bytes"
	"errors"
	"image/jpeg"
)

var errNoPixels = errors.New("stream: frame has no pixel buffer")

// ClampQuality forces a JPEG quality value into [1,100]. Out-of-range values
// are clamped, not rejected, because quality is a continuously adjustable
// runtime knob.
func ClampQuality(quality int) int {
	if quality < 1 {
		return 1
	}
	if quality > 100 {
		return 100
	}
	return quality
}

// Encode compresses a frame to JPEG at the given quality. An encode failure
// means the caller skips the frame; it is never fatal.
func Encode(f *Frame, quality int) ([]byte, error) {
	if f == nil || f.Pix == nil {
		return nil, errNoPixels
	}

	var buf bytes.Buffer
	err := jpeg.Encode(&buf, f.Pix, &jpeg.Options{Quality: ClampQuality(quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
