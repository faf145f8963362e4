package scene

import (
	"math"
	"math/rand"
	"time"

	"github.com/matt-g-everett/scenetx/util"
)

// An Engine advances motion-bearing elements within a canvas. Positions are
// kept inside [0,Width]x[0,Height] for boundary-respecting laws.
type Engine struct {
	Width  float64
	Height float64

	// RandomTurnInterval is how often random motion re-rolls its direction.
	RandomTurnInterval time.Duration
	// BouncePerturbation is the magnitude of the random nudge applied to the
	// direction on each bounce reflection.
	BouncePerturbation float64
	// SpiralGrowth is the radius growth rate of spiral motion in units/sec.
	SpiralGrowth float64
	// OrbitVariation scales the breathing of orbit motion relative to its
	// base radius.
	OrbitVariation float64
	// WaveFrequency multiplies the vertical oscillation rate of wave motion.
	WaveFrequency float64
}

// NewEngine creates an Engine for a canvas of the given size.
func NewEngine(width, height float64) *Engine {
	g := new(Engine)
	g.Width = width
	g.Height = height
	g.RandomTurnInterval = 2 * time.Second
	g.BouncePerturbation = 0.1
	g.SpiralGrowth = 5.0
	g.OrbitVariation = 0.3
	g.WaveFrequency = 3.0
	return g
}

// Advance computes the element's next position for the given wall time. It is
// a no-op for elements without motion. A paused element keeps its position
// while its clocks slide forward, so resuming never produces a catch-up jump.
func (g *Engine) Advance(e *Element, now time.Time) {
	cfg := e.Motion
	s := e.state
	if cfg == nil || s == nil || cfg.Law == LawNone {
		return
	}

	dt := now.Sub(s.LastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	if cfg.IsPaused {
		pause := now.Sub(s.LastUpdate)
		s.StartTime = s.StartTime.Add(pause)
		s.LastTurn = s.LastTurn.Add(pause)
		s.LastUpdate = now
		return
	}
	elapsed := now.Sub(s.StartTime).Seconds()

	switch cfg.Law {
	case LawLinear:
		g.advanceLinear(e, cfg, dt, 1.0)
	case LawCircular:
		s.Angle = elapsed * cfg.Speed
		e.Position = orbitPoint(cfg.Center, cfg.Radius, s.Angle)
	case LawBounce:
		g.advanceBounce(e, cfg, dt)
	case LawOscillate:
		d := cfg.normalized()
		offset := math.Sin(elapsed*cfg.Speed) * cfg.Radius
		e.Position = Point{X: cfg.Center.X + d.X*offset, Y: cfg.Center.Y + d.Y*offset}
	case LawSpiral:
		s.Angle = elapsed * cfg.Speed
		r := cfg.Radius + g.SpiralGrowth*elapsed
		e.Position = orbitPoint(cfg.Center, r, s.Angle)
	case LawRandom:
		g.advanceRandom(e, cfg, s, now, dt)
	case LawWave:
		g.advanceWave(e, cfg, s, elapsed, dt)
	case LawOrbit:
		s.Angle = elapsed * cfg.Speed
		r := cfg.Radius + math.Sin(elapsed*2)*g.OrbitVariation*cfg.Radius
		e.Position = orbitPoint(cfg.Center, r, s.Angle)
	}

	s.LastUpdate = now
	if cfg.ShowTrail {
		s.pushTrail(e.Position, cfg.TrailLength)
	}
}

func orbitPoint(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// advanceLinear integrates straight-line motion, reflecting off canvas edges
// when the config respects boundaries. Returns true if an edge was hit.
func (g *Engine) advanceLinear(e *Element, cfg *MotionConfig, dt, speedScale float64) bool {
	d := cfg.normalized()
	speed := cfg.Speed * speedScale
	pos := Point{
		X: e.Position.X + d.X*speed*dt,
		Y: e.Position.Y + d.Y*speed*dt,
	}

	hit := false
	if cfg.RespectBoundaries {
		b := e.Bounds()
		w := b.Max.X - b.Min.X
		h := b.Max.Y - b.Min.Y
		if pos.X <= 0 && d.X < 0 {
			d.X = -d.X
			pos.X = 0
			hit = true
		} else if pos.X+w >= g.Width && d.X > 0 {
			d.X = -d.X
			pos.X = g.Width - w
			hit = true
		}
		if pos.Y <= 0 && d.Y < 0 {
			d.Y = -d.Y
			pos.Y = 0
			hit = true
		} else if pos.Y+h >= g.Height && d.Y > 0 {
			d.Y = -d.Y
			pos.Y = g.Height - h
			hit = true
		}
		if hit {
			cfg.Direction = d
		}
	}
	e.Position = pos
	return hit
}

func (g *Engine) advanceBounce(e *Element, cfg *MotionConfig, dt float64) {
	hit := g.advanceLinear(e, cfg, dt, 1.0)
	if hit {
		// Nudge the reflected direction so the path never becomes perfectly
		// periodic.
		d := cfg.Direction
		d.X += (rand.Float64()*2 - 1) * g.BouncePerturbation
		d.Y += (rand.Float64()*2 - 1) * g.BouncePerturbation
		mag := math.Hypot(d.X, d.Y)
		if mag > 0 {
			cfg.Direction = Point{X: d.X / mag, Y: d.Y / mag}
		}
	}
	g.clampToCanvas(e)
}

func (g *Engine) advanceRandom(e *Element, cfg *MotionConfig, s *MotionState, now time.Time, dt float64) {
	hit := g.advanceLinear(e, cfg, dt, 0.5)
	turn := now.Sub(s.LastTurn) >= g.RandomTurnInterval
	if turn || (hit && cfg.RespectBoundaries) {
		x, y := util.RandomUnitVector()
		cfg.Direction = Point{X: x, Y: y}
		s.LastTurn = now
	}
}

func (g *Engine) advanceWave(e *Element, cfg *MotionConfig, s *MotionState, elapsed, dt float64) {
	x := e.Position.X + cfg.Speed*dt
	if x > g.Width {
		// Wrap back to the left edge and carry the anchor with it.
		x = 0
		s.Original.X = 0
	}
	y := s.Original.Y + math.Sin(elapsed*cfg.Speed*g.WaveFrequency)*cfg.Radius
	e.Position = Point{X: x, Y: y}
}

func (g *Engine) clampToCanvas(e *Element) {
	b := e.Bounds()
	w := b.Max.X - b.Min.X
	h := b.Max.Y - b.Min.Y
	if e.Position.X < 0 {
		e.Position.X = 0
	} else if e.Position.X+w > g.Width {
		e.Position.X = g.Width - w
	}
	if e.Position.Y < 0 {
		e.Position.Y = 0
	} else if e.Position.Y+h > g.Height {
		e.Position.Y = g.Height - h
	}
}
