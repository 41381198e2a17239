package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/gpu"
)

func newTestViewport(w, h int) (*Viewport, *gpu.Recorder) {
	rec := gpu.NewRecorder(w, h)
	return New(DefaultSettings(), rec), rec
}

func near(a, b, scale float32) bool {
	tol := 1e-4 * float32(math.Max(1, math.Abs(float64(scale))))
	return mgl32.FloatEqualThreshold(a, b, tol)
}

func TestScreenWorldRoundTrip(t *testing.T) {
	v, _ := newTestViewport(640, 480)
	cams := []Camera{
		{Zoom: 1},
		{Position: mgl32.Vec2{12.5, -40}, Zoom: 0.25},
		{Position: mgl32.Vec2{-3000, 1200}, Zoom: 17},
		{Position: mgl32.Vec2{0.001, 0.002}, Zoom: MinZoom},
	}
	points := []mgl32.Vec2{{0, 0}, {1, 1}, {-250.5, 99.25}, {1e4, -1e4}}
	for _, cam := range cams {
		v.Settings().Camera = cam
		for _, p := range points {
			got := v.ScreenToWorld(v.WorldToScreen(p))
			scale := max(abs32(p.X()), abs32(p.Y()), abs32(cam.Position.X()), abs32(cam.Position.Y()))
			if !near(got.X(), p.X(), scale) || !near(got.Y(), p.Y(), scale) {
				t.Errorf("camera %+v: ScreenToWorld(WorldToScreen(%v)) = %v", cam, p, got)
			}
		}
	}
}

func TestWorldToScreenOrientation(t *testing.T) {
	v, _ := newTestViewport(200, 100)
	if got := v.WorldToScreen(mgl32.Vec2{0, 0}); got != (mgl32.Vec2{100, 50}) {
		t.Fatalf("origin maps to %v, want centre", got)
	}
	// World y up is screen y down.
	if got := v.WorldToScreen(mgl32.Vec2{10, 10}); got != (mgl32.Vec2{110, 40}) {
		t.Fatalf("unexpected mapping for (10,10): %v", got)
	}
}

func TestVisibleBoundsFollowZoom(t *testing.T) {
	v, _ := newTestViewport(100, 50)
	v.Settings().Camera = Camera{Position: mgl32.Vec2{10, 0}, Zoom: 2}
	b := v.VisibleBounds()
	want := Rect{MinX: -90, MinY: -50, MaxX: 110, MaxY: 50}
	if b != want {
		t.Fatalf("VisibleBounds() = %+v, want %+v", b, want)
	}
}

func TestSetViewportFitsRectangle(t *testing.T) {
	v, _ := newTestViewport(200, 100)
	v.SetViewport(0, 0, 100, 100)
	cam := v.Settings().Camera
	if cam.Position != (mgl32.Vec2{50, 50}) {
		t.Fatalf("unexpected centre %v", cam.Position)
	}
	if cam.Zoom != 1 {
		t.Fatalf("expected zoom 1, got %v", cam.Zoom)
	}

	empty := New(DefaultSettings(), gpu.NewRecorder(0, 0))
	empty.SetViewport(0, 0, 10, 10)
	if empty.Settings().Camera.Zoom != 1 {
		t.Fatalf("zero-size surface should fall back to zoom 1")
	}
}

func TestFitPolygons(t *testing.T) {
	v, _ := newTestViewport(100, 100)
	if v.FitPolygons() {
		t.Fatalf("fit with no polygons should report false")
	}
	v.Settings().Polygons = []Polygon{{Points: []mgl32.Vec2{{-10, -10}, {30, -10}, {30, 10}, {-10, -10}}}}
	if !v.FitPolygons() {
		t.Fatalf("fit failed")
	}
	cam := v.Settings().Camera
	if cam.Position != (mgl32.Vec2{10, 0}) || !near(cam.Zoom, 0.4, 1) {
		t.Fatalf("unexpected camera after fit: %+v", cam)
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
