package scene

import "testing"

func TestNewTextDefaults(t *testing.T) {
	e := NewText("hello", Point{X: 5, Y: 6})
	if e.ID == "" {
		t.Error("ID should be assigned")
	}
	if e.Kind != KindText {
		t.Errorf("Kind = %d, want KindText", e.Kind)
	}
	if !e.Visible {
		t.Error("elements should default to visible")
	}
	if e.Opacity != 1.0 {
		t.Errorf("Opacity = %v, want 1", e.Opacity)
	}
	if !e.Draggable {
		t.Error("text elements should default to draggable")
	}
}

func TestNewImageDefaults(t *testing.T) {
	e := NewImage("logo.png", Point{}, Size{W: 32, H: 32})
	if e.Kind != KindImage {
		t.Errorf("Kind = %d, want KindImage", e.Kind)
	}
	if e.Draggable {
		t.Error("image elements should not default to draggable")
	}
}

func TestBoundsClampsNegativeSize(t *testing.T) {
	e := NewShape(ShapeRectangle, Point{X: 10, Y: 20}, Size{W: -5, H: -8})
	b := e.Bounds()
	if b.Min != b.Max {
		t.Errorf("negative size should clamp to a zero-area box, got %+v", b)
	}
	if b.Min != (Point{X: 10, Y: 20}) {
		t.Errorf("clamped box should sit at the element position, got %+v", b.Min)
	}
}

func TestBoundsContains(t *testing.T) {
	e := NewShape(ShapeRectangle, Point{X: 10, Y: 10}, Size{W: 20, H: 10})
	b := e.Bounds()
	if !b.Contains(Point{X: 15, Y: 15}) {
		t.Error("interior point should be inside bounds")
	}
	if b.Contains(Point{X: 31, Y: 15}) {
		t.Error("point past the right edge should be outside bounds")
	}
}

func TestTrailCopyIsIndependent(t *testing.T) {
	e := NewShape(ShapeCircle, Point{}, Size{W: 2, H: 2})
	cfg := &MotionConfig{Law: LawLinear, Speed: 1, ShowTrail: true, TrailLength: 4}
	e.Motion = cfg
	e.state = newMotionState(e, cfg, timeNowForTest())
	e.state.pushTrail(Point{X: 1, Y: 1}, 4)

	trail := e.Trail()
	trail[0] = Point{X: 99, Y: 99}
	if e.state.Trail[0] != (Point{X: 1, Y: 1}) {
		t.Error("Trail should return a copy, not the live slice")
	}
}
