package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Screen space is pixels from the top-left corner, y down. World y is up.

func (v *Viewport) WorldToScreen(p mgl32.Vec2) mgl32.Vec2 {
	w, h := v.size()
	cam := v.settings.Camera
	return mgl32.Vec2{
		(p.X()-cam.Position.X())/cam.Zoom + w/2,
		h/2 - (p.Y()-cam.Position.Y())/cam.Zoom,
	}
}

func (v *Viewport) ScreenToWorld(s mgl32.Vec2) mgl32.Vec2 {
	w, h := v.size()
	cam := v.settings.Camera
	return mgl32.Vec2{
		(s.X()-w/2)*cam.Zoom + cam.Position.X(),
		(h/2-s.Y())*cam.Zoom + cam.Position.Y(),
	}
}

// WorldToScreenSize converts a world extent to pixels.
func (v *Viewport) WorldToScreenSize(size mgl32.Vec2) mgl32.Vec2 {
	return size.Mul(1 / v.settings.Camera.Zoom)
}

// VisibleBounds is the world rectangle covered by the surface. It is the
// same box the projection is built from.
func (v *Viewport) VisibleBounds() Rect {
	w, h := v.size()
	cam := v.settings.Camera
	hw := w * cam.Zoom / 2
	hh := h * cam.Zoom / 2
	return Rect{
		MinX: cam.Position.X() - hw,
		MinY: cam.Position.Y() - hh,
		MaxX: cam.Position.X() + hw,
		MaxY: cam.Position.Y() + hh,
	}
}

// SetViewport centres the camera on the rectangle spanned by the two
// corners and zooms so all of it is visible.
func (v *Viewport) SetViewport(x1, y1, x2, y2 float32) {
	cam := &v.settings.Camera
	rh := float32(math.Abs(float64(y1 - y2)))
	rw := float32(math.Abs(float64(x1 - x2)))
	cam.Position = mgl32.Vec2{(x1 + x2) / 2, (y1 + y2) / 2}
	w, h := v.size()
	if w != 0 && h != 0 {
		cam.Zoom = max(rh/h, rw/w)
	} else {
		cam.Zoom = 1
	}
	cam.clamp()
}

// FitPolygons frames every polygon. It reports false when there is
// nothing to frame.
func (v *Viewport) FitPolygons() bool {
	r, ok := PolygonBounds(v.settings.Polygons)
	if !ok {
		return false
	}
	v.SetViewport(r.MinX, r.MinY, r.MaxX, r.MaxY)
	return true
}
