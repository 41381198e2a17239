package render_test

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/gpu"
	"ovpview/internal/render"
	"ovpview/internal/viewport"
)

func TestPlotBlendsSourceOver(t *testing.T) {
	fb := render.NewFrameBuffer(2, 1)
	fb.Clear(color.RGBA{255, 255, 255, 255})
	fb.Plot(0, 0, 1, 0, 0, 0.5, true)
	fb.Plot(1, 0, 1, 0, 0, 0.5, false)

	if got := fb.At(0, 0); got.R != 255 || got.G != 128 || got.B != 128 || got.A != 255 {
		t.Fatalf("blended pixel = %v", got)
	}
	if got := fb.At(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("replaced pixel = %v", got)
	}
	fb.Plot(-1, 5, 1, 1, 1, 1, false) // ignored
}

func TestLineIncludesEndpoints(t *testing.T) {
	fb := render.NewFrameBuffer(10, 10)
	fb.Line(0, 0, 9, 9, 0, 0, 0, 1, false)
	for i := 0; i < 10; i++ {
		if fb.At(i, i).A != 255 {
			t.Fatalf("diagonal pixel %d not drawn", i)
		}
	}
	if fb.At(1, 0).A != 0 {
		t.Fatalf("unexpected pixel off the diagonal")
	}
}

func TestFillTriangle(t *testing.T) {
	fb := render.NewFrameBuffer(10, 10)
	// Either winding fills.
	fb.FillTriangle(0, 0, 10, 0, 0, 10, 0, 0, 1, 1, false)
	fb.FillTriangle(10, 10, 10, 0, 0, 10, 0, 1, 0, 1, false)
	if got := fb.At(1, 1); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("inside first triangle = %v", got)
	}
	if got := fb.At(8, 8); got != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("inside second triangle = %v", got)
	}
}

func TestSoftDeviceRendersViewport(t *testing.T) {
	dev := render.NewSoftDevice(100, 100)
	s := viewport.DefaultSettings()
	s.Polygons = []viewport.Polygon{{
		Points: []mgl32.Vec2{{0, 0}, {10, 0}, {0, 10}, {0, 0}},
		Color:  color.RGBA{255, 0, 0, 255},
	}}
	v := viewport.New(s, dev)
	if err := v.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if dev.Live() != 0 {
		t.Fatalf("buffers leaked: %d", dev.Live())
	}
	fb := dev.Front()

	if got := fb.At(3, 3); got != s.Colors.Background {
		t.Fatalf("background pixel = %v", got)
	}
	if got := fb.At(50, 20); got != s.Colors.Axis {
		t.Fatalf("y axis pixel = %v, want %v", got, s.Colors.Axis)
	}
	if got := fb.At(20, 50); got != s.Colors.Axis {
		t.Fatalf("x axis pixel = %v, want %v", got, s.Colors.Axis)
	}
	// x = -10 lands on pixel column 40, give or take rounding.
	if fb.At(40, 20) != s.Colors.MinorGrid && fb.At(39, 20) != s.Colors.MinorGrid {
		t.Fatalf("grid line at x=-10 not drawn: %v %v", fb.At(39, 20), fb.At(40, 20))
	}
	// 10% red over white.
	got := fb.At(52, 47)
	if got.R != 255 || got.G < 228 || got.G > 232 || got.G != got.B {
		t.Fatalf("filled pixel = %v", got)
	}
}

func TestSoftDeviceUninitialized(t *testing.T) {
	dev := render.NewSoftDevice(0, 0)
	if dev.Initialized() {
		t.Fatalf("zero-size device should not be initialized")
	}
	v := viewport.New(nil, dev)
	if err := v.Render(); err != nil {
		t.Fatalf("Render on uninitialized device: %v", err)
	}
	dev.Resize(4, 4)
	if !dev.Initialized() {
		t.Fatalf("device should be initialized after resize")
	}
}

func TestSoftDeviceRangeErrors(t *testing.T) {
	dev := render.NewSoftDevice(4, 4)
	bs, _ := dev.GenBuffers(2)
	_ = dev.BufferVec3(bs[0], []mgl32.Vec3{{}, {}})
	_ = dev.BufferVec4(bs[1], []mgl32.Vec4{{}})
	if err := dev.DrawArrays(gpu.Lines, bs[0], bs[1], 0, 2); !errors.Is(err, gpu.ErrBufferMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	_ = dev.BufferVec4(bs[1], []mgl32.Vec4{{}, {}})
	if err := dev.DrawArrays(gpu.Lines, bs[0], bs[1], 1, 2); !errors.Is(err, gpu.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := dev.MultiDrawArrays(gpu.TriangleFan, bs[0], bs[1], []int{0}, nil); !errors.Is(err, gpu.ErrRangeMismatch) {
		t.Fatalf("expected range mismatch, got %v", err)
	}
}

func TestEncodePNG(t *testing.T) {
	fb := render.NewFrameBuffer(3, 2)
	fb.Clear(color.RGBA{1, 2, 3, 255})
	var buf bytes.Buffer
	if err := fb.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("decoded size %v", b)
	}
}
