//go:build glfw

// Package glcompat implements gpu.Device on fixed-function OpenGL 2.1:
// client-state vertex and color arrays backed by buffer objects.
package glcompat

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/gpu"
)

// lineStipple is the dash pattern installed with the surface defaults.
const lineStipple = 0xF0F0

// Context is the window side of a GL context.
type Context interface {
	MakeContextCurrent()
	SwapBuffers()
	GetFramebufferSize() (int, int)
}

// Device draws through the GL context of ctx. It is also a complete
// viewport surface: Size is the framebuffer size of the context.
type Device struct {
	ctx    Context
	loaded bool
	// vertex counts per live buffer, for range checks
	lens map[gpu.Buffer]int
}

func New(ctx Context) *Device {
	return &Device{ctx: ctx, lens: map[gpu.Buffer]int{}}
}

func (d *Device) Size() (int, int) { return d.ctx.GetFramebufferSize() }

func (d *Device) Initialized() bool {
	w, h := d.Size()
	return w > 0 && h > 0
}

// MakeCurrent binds the context, loads GL entry points on first use and
// applies the surface defaults.
func (d *Device) MakeCurrent() error {
	d.ctx.MakeContextCurrent()
	if !d.loaded {
		if err := gl.Init(); err != nil {
			return fmt.Errorf("gl init: %w: %w", gpu.ErrNotCurrent, err)
		}
		d.loaded = true
		defaults()
	}
	w, h := d.Size()
	gl.Viewport(0, 0, int32(w), int32(h))
	return glError("make current")
}

func defaults() {
	gl.ShadeModel(gl.FLAT)
	gl.PolygonOffset(0, 0.5)
	gl.LineStipple(1, lineStipple)
	gl.Hint(gl.LINE_SMOOTH_HINT, gl.NICEST)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.EnableClientState(gl.VERTEX_ARRAY)
	gl.EnableClientState(gl.COLOR_ARRAY)
}

func (d *Device) LoadProjection(m mgl32.Mat4) error {
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&m[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	return glError("projection")
}

func (d *Device) SetLineSmooth(on bool) { toggle(gl.LINE_SMOOTH, on) }
func (d *Device) SetBlend(on bool)      { toggle(gl.BLEND, on) }

func toggle(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
		return
	}
	gl.Disable(capability)
}

func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) GenBuffers(n int) ([]gpu.Buffer, error) {
	if n <= 0 {
		return nil, nil
	}
	names := make([]uint32, n)
	gl.GenBuffers(int32(n), &names[0])
	if err := glError("gen buffers"); err != nil {
		return nil, err
	}
	out := make([]gpu.Buffer, n)
	for i, name := range names {
		out[i] = gpu.Buffer(name)
		d.lens[out[i]] = 0
	}
	return out, nil
}

func (d *Device) BufferVec3(b gpu.Buffer, data []mgl32.Vec3) error {
	if _, ok := d.lens[b]; !ok {
		return fmt.Errorf("buffer %d: %w", b, gpu.ErrUnknownBuffer)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*3*4, gl.Ptr(&data[0][0]), gl.STREAM_DRAW)
	}
	d.lens[b] = len(data)
	return glError("buffer vertices")
}

func (d *Device) BufferVec4(b gpu.Buffer, data []mgl32.Vec4) error {
	if _, ok := d.lens[b]; !ok {
		return fmt.Errorf("buffer %d: %w", b, gpu.ErrUnknownBuffer)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4*4, gl.Ptr(&data[0][0]), gl.STREAM_DRAW)
	}
	d.lens[b] = len(data)
	return glError("buffer colors")
}

func (d *Device) DeleteBuffers(bs []gpu.Buffer) {
	if len(bs) == 0 {
		return
	}
	names := make([]uint32, 0, len(bs))
	for _, b := range bs {
		if _, ok := d.lens[b]; !ok {
			continue
		}
		delete(d.lens, b)
		names = append(names, uint32(b))
	}
	if len(names) > 0 {
		gl.DeleteBuffers(int32(len(names)), &names[0])
	}
}

func (d *Device) bind(vb, cb gpu.Buffer) (int, error) {
	nv, ok := d.lens[vb]
	if !ok {
		return 0, fmt.Errorf("vertex buffer %d: %w", vb, gpu.ErrUnknownBuffer)
	}
	nc, ok := d.lens[cb]
	if !ok {
		return 0, fmt.Errorf("color buffer %d: %w", cb, gpu.ErrUnknownBuffer)
	}
	if nv != nc {
		return 0, fmt.Errorf("%d positions, %d colors: %w", nv, nc, gpu.ErrBufferMismatch)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vb))
	gl.VertexPointer(3, gl.FLOAT, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(cb))
	gl.ColorPointer(4, gl.FLOAT, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nv, nil
}

func inRange(first, count, n int) error {
	if first < 0 || count < 0 || first+count > n {
		return fmt.Errorf("range [%d,%d) of %d: %w", first, first+count, n, gpu.ErrOutOfRange)
	}
	return nil
}

func mode(p gpu.Primitive) uint32 {
	if p == gpu.TriangleFan {
		return gl.TRIANGLE_FAN
	}
	return gl.LINES
}

func (d *Device) DrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count int) error {
	n, err := d.bind(vb, cb)
	if err != nil {
		return err
	}
	if err := inRange(first, count, n); err != nil {
		return err
	}
	gl.DrawArrays(mode(p), int32(first), int32(count))
	return glError("draw arrays")
}

func (d *Device) MultiDrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count []int) error {
	if err := gpu.CheckRanges(first, count); err != nil {
		return err
	}
	n, err := d.bind(vb, cb)
	if err != nil {
		return err
	}
	if len(first) == 0 {
		return nil
	}
	f32 := make([]int32, len(first))
	c32 := make([]int32, len(count))
	for i := range first {
		if err := inRange(first[i], count[i], n); err != nil {
			return err
		}
		f32[i], c32[i] = int32(first[i]), int32(count[i])
	}
	gl.MultiDrawArrays(mode(p), &f32[0], &c32[0], int32(len(f32)))
	return glError("multi draw arrays")
}

func (d *Device) SwapBuffers() error {
	d.ctx.SwapBuffers()
	return nil
}

func (d *Device) Flush() { gl.Flush() }

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%04x", op, code)
	}
	return nil
}
