package stream

import (
	"fmt"
	"log"
	"time"

	"github.com/matt-g-everett/scenetx/scene"
)

const (
	minFPS = 1
	maxFPS = 120
)

// A Streamer drives the render loop: each tick it advances motion, renders
// the scene, notifies subscribers, and, when real-time mode is on, hands the
// frame to the dispatcher at a throttled cadence. Simulation and rendering
// run strictly sequentially on the tick goroutine; encoding and device I/O
// happen off it.
type Streamer struct {
	scene      *scene.Scene
	engine     *scene.Engine
	renderer   Renderer
	dispatcher *Dispatcher
	notifier   *Notifier

	sendInterval time.Duration
	lastSend     time.Time

	interval   time.Duration
	intervalCh chan time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    bool
}

// NewStreamer creates a Streamer over the given collaborators. sendInterval
// is the minimum spacing between device sends, independent of the render
// rate.
func NewStreamer(sc *scene.Scene, engine *scene.Engine, renderer Renderer,
	dispatcher *Dispatcher, notifier *Notifier, sendInterval time.Duration) *Streamer {

	s := new(Streamer)
	s.scene = sc
	s.engine = engine
	s.renderer = renderer
	s.dispatcher = dispatcher
	s.notifier = notifier
	s.sendInterval = sendInterval
	s.intervalCh = make(chan time.Duration, 1)
	return s
}

// ClampFPS forces a frame rate into [1,120].
func ClampFPS(fps int) int {
	if fps < minFPS {
		return minFPS
	}
	if fps > maxFPS {
		return maxFPS
	}
	return fps
}

// Interval returns the current tick interval.
func (s *Streamer) Interval() time.Duration {
	return s.interval
}

// Running reports whether the loop is ticking.
func (s *Streamer) Running() bool {
	return s.running
}

// Start begins ticking at the given frame rate, clamped to [1,120]. Starting
// a running Streamer is a no-op.
func (s *Streamer) Start(fps int) {
	if s.running {
		return
	}
	fps = ClampFPS(fps)
	s.interval = time.Second / time.Duration(fps)
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	log.Printf("render loop started at %d fps", fps)
	go s.run()
}

// Stop halts the loop. In-flight dispatches finish; no new tick is
// scheduled.
func (s *Streamer) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	<-s.doneCh
	log.Println("render loop stopped")
}

// SetFPS changes the tick rate without a stop/start cycle.
func (s *Streamer) SetFPS(fps int) {
	fps = ClampFPS(fps)
	s.interval = time.Second / time.Duration(fps)
	if s.running {
		select {
		case s.intervalCh <- s.interval:
		default:
		}
	}
}

func (s *Streamer) run() {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case d := <-s.intervalCh:
			ticker.Reset(d)
		case <-ticker.C:
			s.Tick(time.Now())
		}
	}
}

// Tick runs one simulate/render/notify/dispatch cycle. No failure inside a
// tick stops the loop; frames and elements degrade individually.
func (s *Streamer) Tick(now time.Time) {
	s.scene.Advance(s.engine, now)

	f, err := s.renderer.Render(s.scene.Snapshot(), now)
	if err != nil {
		s.notifier.Publish(RenderError{Err: err})
		s.notifier.Publish(Status{Text: fmt.Sprintf("frame skipped, render failed: %v", err)})
		return
	}
	s.notifier.Publish(FrameReady{Frame: f})

	if s.dispatcher.RealTimeEnabled() && now.Sub(s.lastSend) >= s.sendInterval {
		s.lastSend = now
		s.dispatcher.Dispatch(f)
	}
}
