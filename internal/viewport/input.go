package viewport

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/platform"
)

// dragDivisor scales drag distance in pixels to camera movement. It does
// not follow the zoom factor, unlike key panning.
const dragDivisor = 100

// HandleEvent applies one host event and reports whether the viewport
// needs to be redrawn.
func (v *Viewport) HandleEvent(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventMouseDown:
		if ev.Buttons == platform.ButtonPrimary && !v.dragging {
			v.dragOrigin = mgl32.Vec2{float32(ev.X), float32(ev.Y)}
			v.dragging = true
		}
		return false
	case platform.EventMouseMove:
		if ev.Buttons != platform.ButtonPrimary || !v.dragging {
			return false
		}
		// The origin stays at the press point for the whole drag.
		cam := &v.settings.Camera
		cam.Position[0] -= (float32(ev.X) - v.dragOrigin.X()) / dragDivisor
		cam.Position[1] += (float32(ev.Y) - v.dragOrigin.Y()) / dragDivisor
		return true
	case platform.EventMouseUp:
		if ev.Buttons == platform.ButtonPrimary {
			v.dragging = false
		}
		return false
	case platform.EventMouseWheel:
		v.zoomBy(ev.DeltaY)
		return true
	case platform.EventMouseEnter:
		v.listening = true
		return false
	case platform.EventMouseLeave:
		v.listening = false
		return false
	case platform.EventKeyDown:
		if !v.listening {
			return false
		}
		v.handleKey(ev.Key)
		return true
	case platform.EventResize, platform.EventRedraw:
		return true
	}
	return false
}

func (v *Viewport) zoomBy(delta float32) {
	cam := &v.settings.Camera
	switch {
	case delta > 0:
		cam.ZoomIn(delta)
	case delta < 0:
		cam.ZoomOut(-delta)
	}
}

func (v *Viewport) handleKey(key string) {
	cam := &v.settings.Camera
	switch strings.ToUpper(key) {
	case "R":
		cam.Reset()
	case "F":
		v.FitPolygons()
	}
	// Computed after a reset so the step uses the new zoom.
	step := 10 * cam.Zoom
	switch strings.ToUpper(key) {
	case "A":
		cam.PanHorizontal(-step)
	case "D":
		cam.PanHorizontal(step)
	case "W":
		cam.PanVertical(step)
	case "S":
		cam.PanVertical(-step)
	}
}
