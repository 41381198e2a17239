package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/gpu"
)

// SoftDevice rasterizes device calls into a FrameBuffer on the CPU. It
// backs headless rendering, tests and PNG export. Drawing goes to a back
// buffer; SwapBuffers copies it to the front buffer returned by Front.
type SoftDevice struct {
	back  *FrameBuffer
	front *FrameBuffer
	store *gpu.Store

	proj   mgl32.Mat4
	blend  bool
	smooth bool
}

func NewSoftDevice(w, h int) *SoftDevice {
	d := &SoftDevice{store: gpu.NewStore(), proj: mgl32.Ident4()}
	d.Resize(w, h)
	return d
}

// Resize reallocates both buffers. A non-positive size leaves the device
// uninitialized until the next Resize.
func (d *SoftDevice) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		d.back, d.front = nil, nil
		return
	}
	d.back = NewFrameBuffer(w, h)
	d.front = NewFrameBuffer(w, h)
}

func (d *SoftDevice) Size() (int, int) {
	if d.back == nil {
		return 0, 0
	}
	return d.back.W, d.back.H
}

func (d *SoftDevice) Initialized() bool { return d.back != nil }

// Front is the last presented frame. It is nil before the first Resize.
func (d *SoftDevice) Front() *FrameBuffer { return d.front }

// Live reports buffers allocated and not yet deleted.
func (d *SoftDevice) Live() int { return d.store.Live() }

func (d *SoftDevice) MakeCurrent() error {
	if d.back == nil {
		return fmt.Errorf("soft device: %w", gpu.ErrNotCurrent)
	}
	return nil
}

func (d *SoftDevice) LoadProjection(m mgl32.Mat4) error {
	d.proj = m
	return nil
}

// SetLineSmooth is recorded but lines are always aliased.
func (d *SoftDevice) SetLineSmooth(on bool) { d.smooth = on }

func (d *SoftDevice) SetBlend(on bool) { d.blend = on }

func (d *SoftDevice) Clear(c mgl32.Vec4) {
	if d.back == nil {
		return
	}
	d.back.Clear(color.RGBA{unit(c[0]), unit(c[1]), unit(c[2]), unit(c[3])})
}

func (d *SoftDevice) GenBuffers(n int) ([]gpu.Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("soft device: negative buffer count %d", n)
	}
	return d.store.Gen(n), nil
}

func (d *SoftDevice) BufferVec3(b gpu.Buffer, data []mgl32.Vec3) error {
	return d.store.SetVec3(b, data)
}

func (d *SoftDevice) BufferVec4(b gpu.Buffer, data []mgl32.Vec4) error {
	return d.store.SetVec4(b, data)
}

func (d *SoftDevice) DeleteBuffers(bs []gpu.Buffer) { d.store.Delete(bs) }

func (d *SoftDevice) DrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count int) error {
	pos, col, err := d.store.Range(vb, cb, first, count)
	if err != nil {
		return err
	}
	d.draw(p, pos, col)
	return nil
}

func (d *SoftDevice) MultiDrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count []int) error {
	if err := gpu.CheckRanges(first, count); err != nil {
		return err
	}
	for i := range first {
		pos, col, err := d.store.Range(vb, cb, first[i], count[i])
		if err != nil {
			return err
		}
		d.draw(p, pos, col)
	}
	return nil
}

func (d *SoftDevice) SwapBuffers() error {
	if d.back == nil {
		return fmt.Errorf("soft device: %w", gpu.ErrNotCurrent)
	}
	d.front.CopyFrom(d.back)
	return nil
}

func (d *SoftDevice) Flush() {}

func (d *SoftDevice) draw(p gpu.Primitive, pos []mgl32.Vec3, col []mgl32.Vec4) {
	if d.back == nil {
		return
	}
	w, h := d.back.W, d.back.H
	switch p {
	case gpu.Lines:
		for i := 0; i+1 < len(pos); i += 2 {
			x0, y0 := gpu.ToPixel(d.proj, pos[i], w, h)
			x1, y1 := gpu.ToPixel(d.proj, pos[i+1], w, h)
			x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float32(w), float32(h))
			if !ok {
				continue
			}
			c := col[i+1]
			d.back.Line(pixel(x0, w), pixel(y0, h), pixel(x1, w), pixel(y1, h), c[0], c[1], c[2], c[3], d.blend)
		}
	case gpu.TriangleFan:
		if len(pos) < 3 {
			return
		}
		ax, ay := gpu.ToPixel(d.proj, pos[0], w, h)
		for i := 1; i+1 < len(pos); i++ {
			bx, by := gpu.ToPixel(d.proj, pos[i], w, h)
			cx, cy := gpu.ToPixel(d.proj, pos[i+1], w, h)
			// Flat shading takes the last vertex's color.
			c := col[i+1]
			d.back.FillTriangle(ax, ay, bx, by, cx, cy, c[0], c[1], c[2], c[3], d.blend)
		}
	}
}

func pixel(f float32, size int) int {
	return clampInt(floor(f), 0, size-1)
}

// clipSegment clips a segment to [0,w]x[0,h] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, w, h float32) (float32, float32, float32, float32, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := float32(0), float32(1)
	edges := [4][2]float32{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	if math.IsNaN(float64(t0)) || math.IsNaN(float64(t1)) {
		return 0, 0, 0, 0, false
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
