package scene

import (
	"math"
	"time"
)

// Law is the rule governing how an element's position evolves over time.
type Law int

const (
	LawNone Law = iota
	LawLinear
	LawCircular
	LawBounce
	LawOscillate
	LawSpiral
	LawRandom
	LawWave
	LawOrbit
)

func (l Law) String() string {
	switch l {
	case LawNone:
		return "none"
	case LawLinear:
		return "linear"
	case LawCircular:
		return "circular"
	case LawBounce:
		return "bounce"
	case LawOscillate:
		return "oscillate"
	case LawSpiral:
		return "spiral"
	case LawRandom:
		return "random"
	case LawWave:
		return "wave"
	case LawOrbit:
		return "orbit"
	}
	return "unknown"
}

// defaultRadius seeds rotational laws whose radius was left unset.
const defaultRadius = 30.0

// MotionConfig describes how an element should move.
type MotionConfig struct {
	Law               Law
	Speed             float64 // units/sec, or rad/sec for rotational laws
	Direction         Point   // renormalized before every use
	Center            Point   // reference point for rotational laws
	Radius            float64 // amplitude or orbit radius, >= 0
	RespectBoundaries bool
	ShowTrail         bool
	TrailLength       int
	IsPaused          bool
}

// MotionState is the per-element bookkeeping the engine mutates each tick.
type MotionState struct {
	Original   Point // anchor for centered and oscillating laws
	StartTime  time.Time
	LastUpdate time.Time
	Angle      float64   // current angle for circular, spiral and orbit
	LastTurn   time.Time // last random direction change
	Trail      []Point
}

// newMotionState initializes state for an element at attach time. Rotational
// laws that were left with a zero-value center or radius are seeded here,
// once, from the element's current position.
func newMotionState(e *Element, cfg *MotionConfig, now time.Time) *MotionState {
	s := new(MotionState)
	s.Original = e.Position
	s.StartTime = now
	s.LastUpdate = now
	s.LastTurn = now

	if cfg.Radius < 0 {
		cfg.Radius = 0
	}
	switch cfg.Law {
	case LawCircular, LawOscillate, LawSpiral, LawOrbit:
		if cfg.Center == (Point{}) {
			cfg.Center = e.Position
		}
		if cfg.Radius == 0 {
			cfg.Radius = defaultRadius
		}
	case LawWave:
		if cfg.Radius == 0 {
			cfg.Radius = defaultRadius
		}
	}
	if cfg.ShowTrail && cfg.TrailLength <= 0 {
		cfg.TrailLength = 20
	}
	return s
}

// normalized returns the config's direction as a unit vector, substituting a
// safe default for a zero-length direction.
func (c *MotionConfig) normalized() Point {
	d := c.Direction
	mag := math.Hypot(d.X, d.Y)
	if mag == 0 {
		return Point{X: 1, Y: 0}
	}
	return Point{X: d.X / mag, Y: d.Y / mag}
}

// pushTrail appends p to the state's trail, evicting the oldest entry once
// the configured length is exceeded.
func (s *MotionState) pushTrail(p Point, length int) {
	s.Trail = append(s.Trail, p)
	if len(s.Trail) > length {
		s.Trail = s.Trail[len(s.Trail)-length:]
	}
}
