package app

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	size  int
	bold  bool
	scale int
}

type fontBank struct {
	regular *opentype.Font
	bold    *opentype.Font
	cache   map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{cache: map[fontKey]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	return bank
}

// face returns a cached face at size points times the UI scale. It falls
// back to the fixed 7x13 face when the fonts failed to parse.
func (b *fontBank) face(size int, bold bool, scale float32) font.Face {
	key := fontKey{size: size, bold: bold, scale: int(math.Round(float64(scale * 1000)))}
	if f, ok := b.cache[key]; ok {
		return f
	}
	base := b.regular
	if bold {
		base = b.bold
	}
	if base == nil {
		return basicfont.Face7x13
	}
	opts := &opentype.FaceOptions{Size: float64(size) * float64(scale), DPI: 72, Hinting: font.HintingFull}
	face, err := opentype.NewFace(base, opts)
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}

func measureString(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	px := (int(font.MeasureString(face, s)) + 32) >> 6
	return max(px, 0)
}
