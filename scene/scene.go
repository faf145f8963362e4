package scene

import (
	"log"
	"sort"
	"sync"
	"time"
)

// A Scene is an ordered, mutable registry of elements. All mutation goes
// through its methods so z-ordering and single-selection always hold. It is
// safe for concurrent use; the render loop reads snapshots while a UI layer
// mutates.
type Scene struct {
	mu         sync.RWMutex
	elements   []*Element
	selected   *Element
	dragged    *Element
	dragOffset Point

	// OnSelect, when set, is called with the newly selected element (nil on
	// deselection). Called outside the scene lock.
	OnSelect func(*Element)
}

// NewScene creates an empty Scene.
func NewScene() *Scene {
	s := new(Scene)
	return s
}

// Add inserts an element and restores z-order.
func (s *Scene) Add(e *Element) {
	s.mu.Lock()
	s.elements = append(s.elements, e)
	s.sortByZ()
	s.mu.Unlock()
}

// Remove deletes an element by identity. Removing the selected element
// clears the selection.
func (s *Scene) Remove(e *Element) {
	s.mu.Lock()
	for i, el := range s.elements {
		if el == e {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			break
		}
	}
	cleared := s.selected == e
	if cleared {
		s.selected = nil
	}
	if s.dragged == e {
		s.dragged = nil
	}
	s.mu.Unlock()

	if cleared && s.OnSelect != nil {
		s.OnSelect(nil)
	}
}

// Clear removes every element and the selection.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.elements = nil
	s.selected = nil
	s.dragged = nil
	s.mu.Unlock()
}

// Len returns the number of elements in the scene.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// SetVisible toggles an element's visibility.
func (s *Scene) SetVisible(e *Element, visible bool) {
	s.mu.Lock()
	e.Visible = visible
	s.mu.Unlock()
}

// SetZIndex changes an element's z-index and restores z-order.
func (s *Scene) SetZIndex(e *Element, z int) {
	s.mu.Lock()
	e.ZIndex = z
	s.sortByZ()
	s.mu.Unlock()
}

// HitTest returns the topmost visible element under p, or nil.
func (s *Scene) HitTest(p Point) *Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.elements) - 1; i >= 0; i-- {
		e := s.elements[i]
		if e.Visible && e.Bounds().Contains(p) {
			return e
		}
	}
	return nil
}

// Select makes e the current selection, deselecting any prior one. A nil e
// clears the selection.
func (s *Scene) Select(e *Element) {
	s.mu.Lock()
	changed := s.selected != e
	s.selected = e
	s.mu.Unlock()

	if changed && s.OnSelect != nil {
		s.OnSelect(e)
	}
}

// Selected returns the currently selected element, or nil.
func (s *Scene) Selected() *Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Move repositions a draggable element and carries its motion anchor with it
// so centered and oscillating motion continues from the new location.
func (s *Scene) Move(e *Element, pos Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !e.Draggable {
		return
	}
	delta := Point{X: pos.X - e.Position.X, Y: pos.Y - e.Position.Y}
	e.Position = pos
	if e.state != nil {
		e.state.Original.X += delta.X
		e.state.Original.Y += delta.Y
	}
	if e.Motion != nil {
		e.Motion.Center.X += delta.X
		e.Motion.Center.Y += delta.Y
	}
}

// BeginDrag starts a drag at p, returning the element grabbed, or nil when
// nothing draggable is under the point.
func (s *Scene) BeginDrag(p Point) *Element {
	e := s.HitTest(p)
	if e == nil || !e.Draggable {
		return nil
	}
	s.mu.Lock()
	s.dragged = e
	s.dragOffset = Point{X: p.X - e.Position.X, Y: p.Y - e.Position.Y}
	s.mu.Unlock()
	return e
}

// DragTo moves the dragged element so it tracks the pointer at p.
func (s *Scene) DragTo(p Point) {
	s.mu.RLock()
	e := s.dragged
	off := s.dragOffset
	s.mu.RUnlock()
	if e == nil {
		return
	}
	s.Move(e, Point{X: p.X - off.X, Y: p.Y - off.Y})
}

// EndDrag releases the dragged element.
func (s *Scene) EndDrag() {
	s.mu.Lock()
	s.dragged = nil
	s.mu.Unlock()
}

// SetMotion attaches a motion config to an element, initializing its motion
// state from the element's current position. A nil config detaches motion.
func (s *Scene) SetMotion(e *Element, cfg *MotionConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg == nil || cfg.Law == LawNone {
		e.Motion = nil
		e.state = nil
		return
	}
	e.Motion = cfg
	e.state = newMotionState(e, cfg, time.Now())
}

// PauseMotion freezes an element's motion in place.
func (s *Scene) PauseMotion(e *Element) {
	s.mu.Lock()
	if e.Motion != nil {
		e.Motion.IsPaused = true
	}
	s.mu.Unlock()
}

// ResumeMotion continues an element's motion from where it paused.
func (s *Scene) ResumeMotion(e *Element) {
	s.mu.Lock()
	if e.Motion != nil {
		e.Motion.IsPaused = false
	}
	s.mu.Unlock()
}

// Advance runs one simulation tick over every motion-bearing element. A
// failure advancing one element skips that element only.
func (s *Scene) Advance(g *Engine, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.elements {
		s.advanceOne(g, e, now)
	}
}

func (s *Scene) advanceOne(g *Engine, e *Element, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("motion update failed for element %s: %v", e.ID, r)
		}
	}()
	g.Advance(e, now)
}

// Snapshot returns a z-ordered copy of the visible scene for rendering. The
// copies carry their own trail slices, so rendering never races mutation.
func (s *Scene) Snapshot() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Element, 0, len(s.elements))
	for _, e := range s.elements {
		c := *e
		if e.state != nil {
			st := *e.state
			st.Trail = make([]Point, len(e.state.Trail))
			copy(st.Trail, e.state.Trail)
			c.state = &st
		}
		out = append(out, c)
	}
	return out
}

// sortByZ restores stable z-ordering. Callers hold the lock.
func (s *Scene) sortByZ() {
	sort.SliceStable(s.elements, func(i, j int) bool {
		return s.elements[i].ZIndex < s.elements[j].ZIndex
	})
}
