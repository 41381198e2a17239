package ui

import (
	"ovpview/internal/render"
)

// Rect is a pixel rectangle in window coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

type Layout struct {
	View      Rect
	StatusBar Rect
	Help      Rect
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float32(v) * scale) }

	statusH := min(dp(theme.StatusHeightDp), max(h, 0))
	margin := dp(theme.MarginDp)

	viewW := max(w-margin*2, 0)
	viewH := max(h-statusH-margin*2, 0)

	helpW := min(dp(theme.HelpWidthDp), max(w-dp(40), 0))
	helpH := min(dp(theme.HelpHeightDp), max(h-dp(40), 0))

	return Layout{
		View:      Rect{X: margin, Y: margin, W: viewW, H: viewH},
		StatusBar: Rect{X: 0, Y: h - statusH, W: w, H: statusH},
		Help:      Rect{X: (w - helpW) / 2, Y: (h - helpH) / 2, W: helpW, H: helpH},
	}
}

// DrawShell paints the window chrome around the viewport: background,
// viewport border and status bar.
func DrawShell(fb *render.FrameBuffer, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.AppBackground)

	v := layout.View
	if theme.MarginDp > 0 {
		fb.StrokeRect(v.X-1, v.Y-1, v.W+2, v.H+2, 1, theme.Border)
	}

	s := layout.StatusBar
	fb.FillRect(s.X, s.Y, s.W, s.H, theme.StatusBar)
	fb.StrokeRect(s.X, s.Y, s.W, s.H, 1, theme.Border)

	accentH := int(2 * scale)
	if accentH < 1 {
		accentH = 1
	}
	fb.FillRect(s.X, s.Y, s.W, accentH, theme.Accent)
	return layout
}
