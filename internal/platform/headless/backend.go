package headless

import (
	"ovpview/internal/platform"
	"ovpview/internal/render"
)

// Backend creates off-screen windows that draw into a CPU framebuffer.
// Input is whatever the caller queues with Push.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "headless" }

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	return NewWindow(cfg), nil
}

type Window struct {
	title   string
	w       int
	h       int
	queue   []platform.Event
	surface *render.SoftDevice
	closed  bool
}

func NewWindow(cfg platform.WindowConfig) *Window {
	w := max(cfg.WidthPx, cfg.MinWidthPx)
	h := max(cfg.HeightPx, cfg.MinHeightPx)
	return &Window{
		title:   cfg.Title,
		w:       w,
		h:       h,
		surface: render.NewSoftDevice(w, h),
	}
}

// Push queues events for the next PollEvents. A resize event also
// resizes the surface when it is delivered.
func (w *Window) Push(events ...platform.Event) {
	w.queue = append(w.queue, events...)
}

func (w *Window) PollEvents() []platform.Event {
	if w.closed {
		return []platform.Event{{Type: platform.EventClose}}
	}
	out := w.queue
	w.queue = nil
	for _, ev := range out {
		switch ev.Type {
		case platform.EventResize:
			w.w, w.h = ev.Width, ev.Height
			w.surface.Resize(ev.Width, ev.Height)
		case platform.EventClose:
			w.closed = true
		}
	}
	return out
}

func (w *Window) SizePx() (int, int) { return w.w, w.h }
func (w *Window) Title() string      { return w.title }
func (w *Window) SetTitle(title string) {
	w.title = title
}

// Surface is the window's drawing target.
func (w *Window) Surface() *render.SoftDevice { return w.surface }

func (w *Window) ShouldClose() bool { return w.closed }
func (w *Window) Close()            { w.closed = true }
