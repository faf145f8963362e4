package util

import (
	"math"
	"math/rand"

	"github.com/fogleman/ease"
)

// RandomUnitVector returns a uniformly random direction.
func RandomUnitVector() (x, y float64) {
	angle := rand.Float64() * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// GenerateLut builds a symmetric ease-in/out gain table of the given length.
func GenerateLut(length int) []float64 {
	increment := 1.0 / float64(length/2)
	lut := make([]float64, length)
	for i, j := 0, length-1; i < length/2; i, j = i+1, j-1 {
		value := float64(i) * increment
		lut[i] = ease.InOutQuad(value)
		lut[j] = ease.InOutQuad(value)
	}
	return lut
}
