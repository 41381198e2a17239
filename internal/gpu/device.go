package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Buffer names a GPU-side array buffer.
type Buffer uint32

type Primitive int

const (
	Lines Primitive = iota
	TriangleFan
)

func (p Primitive) String() string {
	switch p {
	case Lines:
		return "lines"
	case TriangleFan:
		return "triangle_fan"
	default:
		return "unknown"
	}
}

var (
	ErrNotCurrent     = errors.New("gpu: rendering context not available")
	ErrUnknownBuffer  = errors.New("gpu: unknown buffer")
	ErrBufferMismatch = errors.New("gpu: vertex and color buffers disagree")
	ErrRangeMismatch  = errors.New("gpu: first/count length mismatch")
	ErrOutOfRange     = errors.New("gpu: draw range outside buffer")
)

// Device is the subset of a fixed-function GPU API the viewport needs.
// Calls are synchronous and must come from the goroutine that owns the
// rendering context.
type Device interface {
	MakeCurrent() error
	LoadProjection(m mgl32.Mat4) error
	SetLineSmooth(on bool)
	SetBlend(on bool)
	Clear(c mgl32.Vec4)

	GenBuffers(n int) ([]Buffer, error)
	BufferVec3(b Buffer, data []mgl32.Vec3) error
	BufferVec4(b Buffer, data []mgl32.Vec4) error
	DeleteBuffers(bs []Buffer)

	// DrawArrays draws count vertices starting at first, reading
	// positions from vb and colors from cb.
	DrawArrays(p Primitive, vb, cb Buffer, first, count int) error
	// MultiDrawArrays issues one primitive per (first[i], count[i]) range.
	MultiDrawArrays(p Primitive, vb, cb Buffer, first, count []int) error

	SwapBuffers() error
	Flush()
}

// Ortho returns the projection matching a camera box.
func Ortho(left, right, bottom, top float32) mgl32.Mat4 {
	return mgl32.Ortho(left, right, bottom, top, -1, 1)
}

// ToPixel maps a vertex through proj into pixel space of a w×h target
// whose origin is the top-left corner.
func ToPixel(proj mgl32.Mat4, v mgl32.Vec3, w, h int) (float32, float32) {
	ndc := proj.Mul4x1(v.Vec4(1))
	x := (ndc.X() + 1) / 2 * float32(w)
	y := (1 - ndc.Y()) / 2 * float32(h)
	return x, y
}
