package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"

	"github.com/nfnt/resize"
)

// An Images registry loads and scales element images off the tick thread.
// Get never blocks on I/O; a frame rendered before a load completes simply
// draws a placeholder.
type Images struct {
	mu      sync.Mutex
	cache   map[string]image.Image
	loading map[string]bool
	failed  map[string]bool
}

// NewImages creates an empty registry.
func NewImages() *Images {
	im := new(Images)
	im.cache = make(map[string]image.Image)
	im.loading = make(map[string]bool)
	im.failed = make(map[string]bool)
	return im
}

// Get returns the image at path scaled to w by h, or nil when it is not
// loaded yet or failed to load. A miss starts a background load.
func (im *Images) Get(path string, w, h int) image.Image {
	key := fmt.Sprintf("%s#%dx%d", path, w, h)

	im.mu.Lock()
	defer im.mu.Unlock()
	if img, ok := im.cache[key]; ok {
		return img
	}
	if im.failed[path] || im.loading[key] {
		return nil
	}
	im.loading[key] = true
	go im.load(key, path, w, h)
	return nil
}

func (im *Images) load(key, path string, w, h int) {
	f, err := os.Open(path)
	if err != nil {
		im.fail(key, path, err)
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		im.fail(key, path, err)
		return
	}
	scaled := resize.Resize(uint(w), uint(h), img, resize.Bilinear)

	im.mu.Lock()
	im.cache[key] = scaled
	delete(im.loading, key)
	im.mu.Unlock()
}

func (im *Images) fail(key, path string, err error) {
	log.Printf("image load failed for %s: %v", path, err)
	im.mu.Lock()
	im.failed[path] = true
	delete(im.loading, key)
	im.mu.Unlock()
}
