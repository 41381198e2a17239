package viewport

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/platform"
)

func mouse(typ platform.EventType, x, y int, buttons platform.MouseButtons) platform.Event {
	return platform.Event{Type: typ, X: x, Y: y, Buttons: buttons}
}

func key(k string) platform.Event {
	return platform.Event{Type: platform.EventKeyDown, Key: k}
}

func TestDragPansFromPressPoint(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	cam := &v.Settings().Camera

	if v.HandleEvent(mouse(platform.EventMouseMove, 50, 50, platform.ButtonPrimary)) {
		t.Fatalf("move without a press should not redraw")
	}
	v.HandleEvent(mouse(platform.EventMouseDown, 10, 10, platform.ButtonPrimary))
	if !v.Dragging() {
		t.Fatalf("primary press should start a drag")
	}
	if !v.HandleEvent(mouse(platform.EventMouseMove, 60, 10, platform.ButtonPrimary)) {
		t.Fatalf("drag move should request a redraw")
	}
	if !near(cam.Position.X(), -0.5, 1) || cam.Position.Y() != 0 {
		t.Fatalf("after first move camera at %v", cam.Position)
	}
	// Measured from the press point again, so the same offset applies twice.
	v.HandleEvent(mouse(platform.EventMouseMove, 60, 10, platform.ButtonPrimary))
	if !near(cam.Position.X(), -1, 1) {
		t.Fatalf("after second move camera at %v", cam.Position)
	}
	v.HandleEvent(mouse(platform.EventMouseMove, 10, 60, platform.ButtonPrimary))
	if !near(cam.Position.X(), -1, 1) || !near(cam.Position.Y(), 0.5, 1) {
		t.Fatalf("vertical drag moved camera to %v", cam.Position)
	}

	v.HandleEvent(mouse(platform.EventMouseUp, 10, 60, platform.ButtonPrimary))
	if v.Dragging() {
		t.Fatalf("release should end the drag")
	}
	before := cam.Position
	v.HandleEvent(mouse(platform.EventMouseMove, 90, 90, platform.ButtonPrimary))
	if cam.Position != before {
		t.Fatalf("camera moved after release")
	}
}

func TestDragIgnoresOtherButtons(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	v.HandleEvent(mouse(platform.EventMouseDown, 0, 0, platform.ButtonSecondary))
	v.HandleEvent(mouse(platform.EventMouseDown, 0, 0, platform.ButtonPrimary|platform.ButtonMiddle))
	if v.Dragging() {
		t.Fatalf("only a lone primary button starts a drag")
	}
}

func TestWheelZoom(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	cam := &v.Settings().Camera
	if !v.HandleEvent(platform.Event{Type: platform.EventMouseWheel, DeltaY: 1}) {
		t.Fatalf("wheel should request a redraw")
	}
	if !near(cam.Zoom, 1.1, 1) {
		t.Fatalf("zoom after wheel up = %v", cam.Zoom)
	}
	v.HandleEvent(platform.Event{Type: platform.EventMouseWheel, DeltaY: -2})
	if !near(cam.Zoom, 0.9, 1) {
		t.Fatalf("zoom after wheel down = %v", cam.Zoom)
	}
	for i := 0; i < 1000; i++ {
		v.HandleEvent(platform.Event{Type: platform.EventMouseWheel, DeltaY: -10})
	}
	if cam.Zoom != MinZoom {
		t.Fatalf("zoom should clamp at %v, got %v", MinZoom, cam.Zoom)
	}
}

func TestZoomClamp(t *testing.T) {
	c := Camera{Zoom: 1, ZoomStep: 10}
	c.ZoomOut(1e6)
	if c.Zoom != MinZoom {
		t.Fatalf("ZoomOut should clamp, got %v", c.Zoom)
	}
	c.ZoomStep = -10
	c.ZoomIn(1e6)
	if c.Zoom != MinZoom {
		t.Fatalf("ZoomIn with a negative step should clamp, got %v", c.Zoom)
	}
	s := DefaultSettings()
	s.Camera.Zoom = -3
	New(s, nil)
	if s.Camera.Zoom != MinZoom {
		t.Fatalf("New should clamp the initial zoom, got %v", s.Camera.Zoom)
	}
}

func TestKeysOnlyWhileListening(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	cam := &v.Settings().Camera

	if v.HandleEvent(key("D")) || cam.Position != (mgl32.Vec2{}) {
		t.Fatalf("keys must be ignored before the cursor enters")
	}
	v.HandleEvent(platform.Event{Type: platform.EventMouseEnter})
	if !v.Listening() {
		t.Fatalf("enter should start listening")
	}
	v.HandleEvent(key("d"))
	if cam.Position != (mgl32.Vec2{1, 0}) {
		t.Fatalf("D at zoom 1 should pan by 1, camera at %v", cam.Position)
	}
	cam.Zoom = 2
	v.HandleEvent(key("W"))
	v.HandleEvent(key("a"))
	if cam.Position != (mgl32.Vec2{-1, 2}) {
		t.Fatalf("pan step should follow zoom, camera at %v", cam.Position)
	}
	v.HandleEvent(key("S"))
	if cam.Position != (mgl32.Vec2{-1, 0}) {
		t.Fatalf("S should pan down, camera at %v", cam.Position)
	}

	v.HandleEvent(key("R"))
	if cam.Position != (mgl32.Vec2{}) || cam.Zoom != 1 {
		t.Fatalf("R should reset the camera, got %+v", *cam)
	}

	v.HandleEvent(platform.Event{Type: platform.EventMouseLeave})
	v.HandleEvent(key("D"))
	if cam.Position != (mgl32.Vec2{}) {
		t.Fatalf("keys must be ignored after the cursor leaves")
	}
}

func TestFitKey(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	v.Settings().Polygons = []Polygon{triangle()}
	v.HandleEvent(platform.Event{Type: platform.EventMouseEnter})
	v.HandleEvent(key("f"))
	cam := v.Settings().Camera
	if cam.Position != (mgl32.Vec2{5, 5}) || !near(cam.Zoom, 0.1, 1) {
		t.Fatalf("F should frame the polygons, camera %+v", cam)
	}
}

func TestResizeRequestsRedraw(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	if !v.HandleEvent(platform.Event{Type: platform.EventResize, Width: 10, Height: 10}) {
		t.Fatalf("resize should request a redraw")
	}
	if v.HandleEvent(platform.Event{Type: platform.EventUnknown}) {
		t.Fatalf("unknown events should be ignored")
	}
}
