package viewport

import (
	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/gpu"
)

// Surface is the host drawing area: a GPU device plus its pixel size.
type Surface interface {
	gpu.Device
	Size() (w, h int)
	Initialized() bool
}

// Viewport renders Settings onto a Surface and turns host input into
// camera changes. All methods must be called from the host's UI
// goroutine.
type Viewport struct {
	settings *Settings
	surface  Surface
	pool     *gpu.Pool
	ok       bool

	dragging   bool
	dragOrigin mgl32.Vec2
	listening  bool

	// polygon geometry survives a failed rebuild
	poly PolygonGeometry
}

func New(settings *Settings, surface Surface) *Viewport {
	if settings == nil {
		settings = DefaultSettings()
	}
	settings.Camera.clamp()
	return &Viewport{
		settings: settings,
		surface:  surface,
		ok:       surface != nil,
	}
}

// OK is false once a frame has failed fatally.
func (v *Viewport) OK() bool { return v.ok }

func (v *Viewport) Settings() *Settings { return v.settings }

// SetSettings swaps the settings object, e.g. after a scene reload.
// Polygon geometry from the previous scene is discarded.
func (v *Viewport) SetSettings(s *Settings) {
	if s == nil {
		return
	}
	s.Camera.clamp()
	v.settings = s
	v.poly = PolygonGeometry{}
}

// Dragging reports whether a primary-button drag is in progress.
func (v *Viewport) Dragging() bool { return v.dragging }

// Listening reports whether key events are currently handled.
func (v *Viewport) Listening() bool { return v.listening }

// Close releases pooled GPU buffers.
func (v *Viewport) Close() {
	if v.pool != nil {
		v.pool.Release()
		v.pool = nil
	}
}

func (v *Viewport) size() (float32, float32) {
	if v.surface == nil {
		return 0, 0
	}
	w, h := v.surface.Size()
	return float32(w), float32(h)
}
