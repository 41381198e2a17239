//go:build glfw

// Package glfwhost hosts a viewport in a native GLFW window with an
// OpenGL 2.1 context.
package glfwhost

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"ovpview/internal/gpu/glcompat"
	"ovpview/internal/platform"
)

// Backend owns the GLFW library state. All calls must come from the
// main thread; the caller locks it with runtime.LockOSThread.
type Backend struct {
	initialized bool
}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "glfw" }

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	return b.Open(cfg)
}

// Open is CreateWindow returning the concrete window.
func (b *Backend) Open(cfg platform.WindowConfig) (*Window, error) {
	if !b.initialized {
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("glfw init: %w", err)
		}
		b.initialized = true
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	w := max(cfg.WidthPx, cfg.MinWidthPx)
	h := max(cfg.HeightPx, cfg.MinHeightPx)
	gw, err := glfw.CreateWindow(w, h, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	if cfg.MinWidthPx > 0 || cfg.MinHeightPx > 0 {
		gw.SetSizeLimits(cfg.MinWidthPx, cfg.MinHeightPx, glfw.DontCare, glfw.DontCare)
	}
	win := &Window{win: gw, surface: glcompat.New(gw)}
	win.install()
	return win, nil
}

// Terminate releases GLFW after every window is destroyed.
func (b *Backend) Terminate() {
	if b.initialized {
		glfw.Terminate()
		b.initialized = false
	}
}

type Window struct {
	win     *glfw.Window
	surface *glcompat.Device
	queue   []platform.Event
	held    platform.MouseButtons
	primed  bool
	closed  bool
}

func (w *Window) push(ev platform.Event) { w.queue = append(w.queue, ev) }

// cursor converts window coordinates to framebuffer pixels.
func (w *Window) cursor(x, y float64) (int, int) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}
	return int(x), int(y)
}

func button(b glfw.MouseButton) platform.MouseButtons {
	switch b {
	case glfw.MouseButtonLeft:
		return platform.ButtonPrimary
	case glfw.MouseButtonRight:
		return platform.ButtonSecondary
	case glfw.MouseButtonMiddle:
		return platform.ButtonMiddle
	}
	return platform.ButtonNone
}

func (w *Window) install() {
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		px, py := w.cursor(x, y)
		w.push(platform.Event{Type: platform.EventMouseMove, X: px, Y: py, Buttons: w.held})
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		t := platform.EventMouseLeave
		if entered {
			t = platform.EventMouseEnter
		}
		w.push(platform.Event{Type: t})
	})
	w.win.SetMouseButtonCallback(func(gw *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		bit := button(b)
		if bit == platform.ButtonNone {
			return
		}
		px, py := w.cursor(gw.GetCursorPos())
		switch action {
		case glfw.Press:
			w.held |= bit
			w.push(platform.Event{Type: platform.EventMouseDown, X: px, Y: py, Buttons: bit})
		case glfw.Release:
			w.held &^= bit
			w.push(platform.Event{Type: platform.EventMouseUp, X: px, Y: py, Buttons: bit})
		}
	})
	w.win.SetScrollCallback(func(gw *glfw.Window, dx, dy float64) {
		px, py := w.cursor(gw.GetCursorPos())
		w.push(platform.Event{Type: platform.EventMouseWheel, X: px, Y: py, DeltaX: float32(dx), DeltaY: float32(dy)})
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		name := glfw.GetKeyName(key, scancode)
		if name == "" {
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.push(platform.Event{Type: platform.EventKeyDown, Key: name})
		case glfw.Release:
			w.push(platform.Event{Type: platform.EventKeyUp, Key: name})
		}
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(platform.Event{Type: platform.EventResize, Width: width, Height: height})
	})
	w.win.SetRefreshCallback(func(*glfw.Window) {
		w.push(platform.Event{Type: platform.EventRedraw})
	})
	w.win.SetCloseCallback(func(*glfw.Window) {
		w.push(platform.Event{Type: platform.EventClose})
	})
}

// PollEvents returns pending events. After the first call it blocks
// until GLFW has something to deliver.
func (w *Window) PollEvents() []platform.Event {
	if w.closed {
		return []platform.Event{{Type: platform.EventClose}}
	}
	if w.primed {
		glfw.WaitEvents()
	} else {
		glfw.PollEvents()
		w.primed = true
	}
	out := w.queue
	w.queue = nil
	return out
}

func (w *Window) SizePx() (int, int)    { return w.win.GetFramebufferSize() }
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }

// Surface is the window's GL device.
func (w *Window) Surface() *glcompat.Device { return w.surface }

func (w *Window) ShouldClose() bool { return w.closed || w.win.ShouldClose() }

func (w *Window) Close() {
	w.closed = true
	w.win.SetShouldClose(true)
}

// Destroy frees the native window. The Window must not be used after.
func (w *Window) Destroy() { w.win.Destroy() }
