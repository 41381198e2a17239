package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ovpview/internal/platform"
	"ovpview/internal/platform/headless"
	"ovpview/internal/viewport"
)

// RunNative drives a viewport from a platform window until the window
// asks to close. Frames are rendered only after an event asked for one.
// A fatal frame error does not stop the loop; the last one is returned
// once the window closes.
func RunNative(win platform.Window, v *viewport.Viewport) error {
	log := viewport.Logger()
	var lastFatal error
	dirty := true
	for !win.ShouldClose() {
		for _, ev := range win.PollEvents() {
			if ev.Type == platform.EventClose {
				win.Close()
				continue
			}
			if v.HandleEvent(ev) {
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		dirty = false
		if err := v.Render(); err != nil {
			if viewport.IsFatal(err) {
				lastFatal = err
				continue
			}
			log.Warn("frame rendered with errors", slog.Any("err", err))
		}
	}
	return lastFatal
}

// ExportOptions selects the size of an exported frame.
type ExportOptions struct {
	Width  int
	Height int
	// Fit frames all polygons instead of using the scene camera.
	Fit bool
}

// Export renders one frame of the scene off-screen and writes it to w as
// PNG. The settings are copied; the caller's camera is left untouched.
func Export(w io.Writer, s *viewport.Settings, opts ExportOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: invalid size %dx%d", opts.Width, opts.Height)
	}
	if s == nil {
		s = viewport.DefaultSettings()
	}
	scene := *s
	win := headless.NewWindow(platform.WindowConfig{Title: "export", WidthPx: opts.Width, HeightPx: opts.Height})
	v := viewport.New(&scene, win.Surface())
	defer v.Close()
	if opts.Fit {
		v.FitPolygons()
	}
	win.Push(platform.Event{Type: platform.EventRedraw}, platform.Event{Type: platform.EventClose})
	if err := RunNative(win, v); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	front := win.Surface().Front()
	if front == nil {
		return errors.New("export: nothing rendered")
	}
	if err := front.EncodePNG(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
