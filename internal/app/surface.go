package app

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"ovpview/internal/gpu"
)

// maxBatchVertices keeps index values inside uint16.
const maxBatchVertices = 1 << 15

// imageSurface implements the viewport's drawing surface on ebiten
// images. Buffer contents live client-side in a gpu.Store; draw calls
// become DrawTriangles batches against the back image, and SwapBuffers
// exchanges back and front.
type imageSurface struct {
	back  *ebiten.Image
	front *ebiten.Image
	white *ebiten.Image
	store *gpu.Store

	w, h   int
	proj   mgl32.Mat4
	blend  bool
	smooth bool

	vertices []ebiten.Vertex
	indices  []uint16
}

func newImageSurface() *imageSurface {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &imageSurface{
		white: white,
		store: gpu.NewStore(),
		proj:  mgl32.Ident4(),
	}
}

// Resize reallocates the back and front images when the size changes.
func (s *imageSurface) Resize(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	if s.back != nil {
		s.back.Deallocate()
		s.front.Deallocate()
		s.back, s.front = nil, nil
	}
	s.w, s.h = w, h
	if w <= 0 || h <= 0 {
		return
	}
	s.back = ebiten.NewImage(w, h)
	s.front = ebiten.NewImage(w, h)
}

func (s *imageSurface) Size() (int, int) { return s.w, s.h }

func (s *imageSurface) Initialized() bool { return s.back != nil }

// Front is the last presented frame, nil before the first Resize.
func (s *imageSurface) Front() *ebiten.Image { return s.front }

func (s *imageSurface) MakeCurrent() error {
	if s.back == nil {
		return fmt.Errorf("image surface: %w", gpu.ErrNotCurrent)
	}
	return nil
}

func (s *imageSurface) LoadProjection(m mgl32.Mat4) error {
	s.proj = m
	return nil
}

func (s *imageSurface) SetLineSmooth(on bool) { s.smooth = on }
func (s *imageSurface) SetBlend(on bool)      { s.blend = on }

func (s *imageSurface) Clear(c mgl32.Vec4) {
	if s.back == nil {
		return
	}
	s.back.Fill(color.RGBA{unit(c[0]), unit(c[1]), unit(c[2]), 0xFF})
}

func (s *imageSurface) GenBuffers(n int) ([]gpu.Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("image surface: negative buffer count %d", n)
	}
	return s.store.Gen(n), nil
}

func (s *imageSurface) BufferVec3(b gpu.Buffer, data []mgl32.Vec3) error {
	return s.store.SetVec3(b, data)
}

func (s *imageSurface) BufferVec4(b gpu.Buffer, data []mgl32.Vec4) error {
	return s.store.SetVec4(b, data)
}

func (s *imageSurface) DeleteBuffers(bs []gpu.Buffer) { s.store.Delete(bs) }

func (s *imageSurface) DrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count int) error {
	pos, col, err := s.store.Range(vb, cb, first, count)
	if err != nil {
		return err
	}
	s.batch(p, pos, col)
	s.flush()
	return nil
}

func (s *imageSurface) MultiDrawArrays(p gpu.Primitive, vb, cb gpu.Buffer, first, count []int) error {
	if err := gpu.CheckRanges(first, count); err != nil {
		return err
	}
	for i := range first {
		pos, col, err := s.store.Range(vb, cb, first[i], count[i])
		if err != nil {
			s.flush()
			return err
		}
		s.batch(p, pos, col)
	}
	s.flush()
	return nil
}

func (s *imageSurface) SwapBuffers() error {
	if s.back == nil {
		return fmt.Errorf("image surface: %w", gpu.ErrNotCurrent)
	}
	s.back, s.front = s.front, s.back
	return nil
}

func (s *imageSurface) Flush() {}

func (s *imageSurface) batch(p gpu.Primitive, pos []mgl32.Vec3, col []mgl32.Vec4) {
	if s.back == nil {
		return
	}
	opaque := !s.blend
	switch p {
	case gpu.Lines:
		for i := 0; i+1 < len(pos); i += 2 {
			x0, y0 := gpu.ToPixel(s.proj, pos[i], s.w, s.h)
			x1, y1 := gpu.ToPixel(s.proj, pos[i+1], s.w, s.h)
			s.reserve(4)
			s.vertices, s.indices = appendLineQuad(s.vertices, s.indices, x0, y0, x1, y1, col[i+1], opaque)
		}
	case gpu.TriangleFan:
		if len(pos) < 3 {
			return
		}
		ax, ay := gpu.ToPixel(s.proj, pos[0], s.w, s.h)
		for i := 1; i+1 < len(pos); i++ {
			bx, by := gpu.ToPixel(s.proj, pos[i], s.w, s.h)
			cx, cy := gpu.ToPixel(s.proj, pos[i+1], s.w, s.h)
			s.reserve(3)
			s.vertices, s.indices = appendTriangle(s.vertices, s.indices, [6]float32{ax, ay, bx, by, cx, cy}, col[i+1], opaque)
		}
	}
}

// reserve flushes the pending batch when n more vertices would overflow
// the index type.
func (s *imageSurface) reserve(n int) {
	if len(s.vertices)+n > maxBatchVertices {
		s.flush()
	}
}

func (s *imageSurface) flush() {
	if len(s.indices) == 0 || s.back == nil {
		s.vertices, s.indices = s.vertices[:0], s.indices[:0]
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		Blend:          ebiten.BlendCopy,
		AntiAlias:      s.smooth,
	}
	if s.blend {
		op.Blend = ebiten.BlendSourceOver
	}
	s.back.DrawTriangles(s.vertices, s.indices, s.white, op)
	s.vertices, s.indices = s.vertices[:0], s.indices[:0]
}

// appendLineQuad adds a one pixel wide quad along the segment. Zero
// length segments add nothing.
func appendLineQuad(vs []ebiten.Vertex, is []uint16, x0, y0, x1, y1 float32, c mgl32.Vec4, opaque bool) ([]ebiten.Vertex, []uint16) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return vs, is
	}
	nx, ny := -dy/l*0.5, dx/l*0.5
	base := uint16(len(vs))
	vs = append(vs,
		vertex(x0+nx, y0+ny, c, opaque),
		vertex(x1+nx, y1+ny, c, opaque),
		vertex(x1-nx, y1-ny, c, opaque),
		vertex(x0-nx, y0-ny, c, opaque),
	)
	is = append(is, base, base+1, base+2, base, base+2, base+3)
	return vs, is
}

// appendTriangle adds one flat-colored triangle. Degenerate triangles,
// such as those formed by the repeated vertices of a segment list, are
// skipped.
func appendTriangle(vs []ebiten.Vertex, is []uint16, p [6]float32, c mgl32.Vec4, opaque bool) ([]ebiten.Vertex, []uint16) {
	area := (p[2]-p[0])*(p[5]-p[1]) - (p[3]-p[1])*(p[4]-p[0])
	if area == 0 || math.IsNaN(float64(area)) {
		return vs, is
	}
	base := uint16(len(vs))
	vs = append(vs,
		vertex(p[0], p[1], c, opaque),
		vertex(p[2], p[3], c, opaque),
		vertex(p[4], p[5], c, opaque),
	)
	is = append(is, base, base+1, base+2)
	return vs, is
}

func vertex(x, y float32, c mgl32.Vec4, opaque bool) ebiten.Vertex {
	a := c[3]
	if opaque {
		a = 1
	}
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: c[0],
		ColorG: c[1],
		ColorB: c[2],
		ColorA: a,
	}
}

func unit(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 0xFF
	}
	return uint8(f*0xFF + 0.5)
}
