package stream

import (
	"bytes"
	"image"
	"testing"
	"time"
)

func makeFrame(w, h int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	return NewFrame(img, time.Unix(1700000000, 0))
}

func TestClampQuality(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-10, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, c := range cases {
		if got := ClampQuality(c.in); got != c.want {
			t.Errorf("ClampQuality(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEncodeProducesJpeg(t *testing.T) {
	data, err := Encode(makeFrame(16, 16), 80)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("encoded data should start with the JPEG SOI marker")
	}
}

func TestEncodeClampsOutOfRangeQuality(t *testing.T) {
	f := makeFrame(16, 16)
	low, err := Encode(f, 0)
	if err != nil {
		t.Fatalf("Encode(0) failed: %v", err)
	}
	one, err := Encode(f, 1)
	if err != nil {
		t.Fatalf("Encode(1) failed: %v", err)
	}
	if !bytes.Equal(low, one) {
		t.Error("quality 0 should encode identically to quality 1")
	}

	high, err := Encode(f, 500)
	if err != nil {
		t.Fatalf("Encode(500) failed: %v", err)
	}
	hundred, err := Encode(f, 100)
	if err != nil {
		t.Fatalf("Encode(100) failed: %v", err)
	}
	if !bytes.Equal(high, hundred) {
		t.Error("quality 500 should encode identically to quality 100")
	}
}

func TestEncodeRejectsMissingBuffer(t *testing.T) {
	if _, err := Encode(nil, 50); err == nil {
		t.Error("nil frame should fail to encode")
	}
	if _, err := Encode(&Frame{}, 50); err == nil {
		t.Error("frame without pixels should fail to encode")
	}
}
