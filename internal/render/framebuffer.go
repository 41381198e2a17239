package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > fb.W {
		w = fb.W - x
	}
	if y+h > fb.H {
		h = fb.H - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = c.R
			fb.Pixels[idx+1] = c.G
			fb.Pixels[idx+2] = c.B
			fb.Pixels[idx+3] = c.A
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

// At returns the pixel at (x, y), or transparent black outside the buffer.
func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{fb.Pixels[i], fb.Pixels[i+1], fb.Pixels[i+2], fb.Pixels[i+3]}
}

// Plot writes one pixel. With blend set the color is composited
// source-over using its straight alpha a in [0,1]; otherwise the color
// replaces the destination as an opaque pixel, like a window framebuffer
// without an alpha channel.
func (fb *FrameBuffer) Plot(x, y int, r, g, b, a float32, blend bool) {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return
	}
	i := (y*fb.W + x) * 4
	px := fb.Pixels[i : i+4 : i+4]
	if !blend {
		px[0], px[1], px[2], px[3] = unit(r), unit(g), unit(b), 0xFF
		return
	}
	mix := func(src float32, dst uint8) uint8 {
		return unit(src*a + float32(dst)/255*(1-a))
	}
	px[0] = mix(r, px[0])
	px[1] = mix(g, px[1])
	px[2] = mix(b, px[2])
	px[3] = unit(a + float32(px[3])/255*(1-a))
}

// Line draws a 1px line with Bresenham's algorithm. Both ends are
// included.
func (fb *FrameBuffer) Line(x0, y0, x1, y1 int, r, g, b, a float32, blend bool) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	// Clipped lines still walk every step; keep them bounded.
	if dx > 1<<16 || -dy > 1<<16 {
		return
	}
	e := dx + dy
	for {
		fb.Plot(x0, y0, r, g, b, a, blend)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillTriangle fills every pixel whose centre lies inside the triangle.
func (fb *FrameBuffer) FillTriangle(ax, ay, bx, by, cx, cy float32, r, g, b, a float32, blend bool) {
	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 || math.IsNaN(float64(area)) {
		return
	}
	minX := clampInt(floor(min(ax, bx, cx)), 0, fb.W)
	maxX := clampInt(ceil(max(ax, bx, cx)), 0, fb.W)
	minY := clampInt(floor(min(ay, by, cy)), 0, fb.H)
	maxY := clampInt(ceil(max(ay, by, cy)), 0, fb.H)
	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(bx, by, cx, cy, px, py)
			w1 := edge(cx, cy, ax, ay, px, py)
			w2 := edge(ax, ay, bx, by, px, py)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				fb.Plot(x, y, r, g, b, a, blend)
			}
		}
	}
}

// Image wraps the pixels without copying.
func (fb *FrameBuffer) Image() *image.RGBA {
	return &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: image.Rect(0, 0, fb.W, fb.H)}
}

func (fb *FrameBuffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, fb.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// CopyFrom resizes fb to match src and copies its pixels.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer) {
	fb.W, fb.H = src.W, src.H
	fb.Pixels = append(fb.Pixels[:0], src.Pixels...)
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func unit(f float32) uint8 {
	switch {
	case !(f > 0):
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

const pixelLimit = 1 << 30

func floor(f float32) int { return int(math.Max(-pixelLimit, math.Min(pixelLimit, math.Floor(float64(f))))) }
func ceil(f float32) int  { return int(math.Max(-pixelLimit, math.Min(pixelLimit, math.Ceil(float64(f))))) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
