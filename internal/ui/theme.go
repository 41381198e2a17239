package ui

import "image/color"

type Theme struct {
	AppBackground  color.RGBA
	Border         color.RGBA
	StatusBar      color.RGBA
	StatusText     color.RGBA
	Accent         color.RGBA
	ErrorText      color.RGBA
	Overlay        color.RGBA
	Panel          color.RGBA
	PanelText      color.RGBA
	StatusHeightDp int
	MarginDp       int
	HelpWidthDp    int
	HelpHeightDp   int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground:  color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		Border:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:      color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		StatusText:     color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		Accent:         color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		ErrorText:      color.RGBA{0xA5, 0x23, 0x23, 0xFF},
		Overlay:        color.RGBA{0x00, 0x00, 0x00, 0x5A},
		Panel:          color.RGBA{0xFA, 0xFB, 0xFD, 0xFF},
		PanelText:      color.RGBA{0x30, 0x3C, 0x4E, 0xFF},
		StatusHeightDp: 28,
		MarginDp:       0,
		HelpWidthDp:    460,
		HelpHeightDp:   340,
	}
}
