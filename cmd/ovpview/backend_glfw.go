//go:build glfw

package main

import (
	"runtime"

	"ovpview/internal/app"
	"ovpview/internal/platform"
	"ovpview/internal/platform/glfwhost"
	"ovpview/internal/viewport"
)

func init() {
	// GLFW calls must stay on the main thread.
	runtime.LockOSThread()
	backends["glfw"] = runGLFW
}

func runGLFW(s session) error {
	backend := glfwhost.New()
	defer backend.Terminate()

	win, err := backend.Open(platform.WindowConfig{
		Title:       windowTitle(s.scenePath),
		WidthPx:     s.opt.width,
		HeightPx:    s.opt.height,
		MinWidthPx:  320,
		MinHeightPx: 240,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	v := viewport.New(s.settings, win.Surface())
	defer v.Close()
	if s.opt.fit {
		v.FitPolygons()
	}
	return app.RunNative(win, v)
}
