package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Store keeps buffer contents client-side for devices that emulate the
// buffer API on top of something else (ebiten images, a CPU framebuffer,
// a recorder). Names start at 1; 0 is never handed out.
type Store struct {
	next Buffer
	live map[Buffer]bool
	vec3 map[Buffer][]mgl32.Vec3
	vec4 map[Buffer][]mgl32.Vec4
}

func NewStore() *Store {
	return &Store{
		live: map[Buffer]bool{},
		vec3: map[Buffer][]mgl32.Vec3{},
		vec4: map[Buffer][]mgl32.Vec4{},
	}
}

func (s *Store) Gen(n int) []Buffer {
	out := make([]Buffer, n)
	for i := range out {
		s.next++
		out[i] = s.next
		s.live[s.next] = true
	}
	return out
}

func (s *Store) SetVec3(b Buffer, data []mgl32.Vec3) error {
	if !s.live[b] {
		return fmt.Errorf("buffer %d: %w", b, ErrUnknownBuffer)
	}
	delete(s.vec4, b)
	s.vec3[b] = append(s.vec3[b][:0], data...)
	return nil
}

func (s *Store) SetVec4(b Buffer, data []mgl32.Vec4) error {
	if !s.live[b] {
		return fmt.Errorf("buffer %d: %w", b, ErrUnknownBuffer)
	}
	delete(s.vec3, b)
	s.vec4[b] = append(s.vec4[b][:0], data...)
	return nil
}

func (s *Store) Delete(bs []Buffer) {
	for _, b := range bs {
		delete(s.live, b)
		delete(s.vec3, b)
		delete(s.vec4, b)
	}
}

// Live reports how many buffers are currently allocated.
func (s *Store) Live() int { return len(s.live) }

// Range returns positions and colors for [first, first+count).
func (s *Store) Range(vb, cb Buffer, first, count int) ([]mgl32.Vec3, []mgl32.Vec4, error) {
	if !s.live[vb] {
		return nil, nil, fmt.Errorf("vertex buffer %d: %w", vb, ErrUnknownBuffer)
	}
	if !s.live[cb] {
		return nil, nil, fmt.Errorf("color buffer %d: %w", cb, ErrUnknownBuffer)
	}
	pos := s.vec3[vb]
	col := s.vec4[cb]
	if len(pos) != len(col) {
		return nil, nil, fmt.Errorf("%d positions, %d colors: %w", len(pos), len(col), ErrBufferMismatch)
	}
	if first < 0 || count < 0 || first+count > len(pos) {
		return nil, nil, fmt.Errorf("range [%d,%d) of %d: %w", first, first+count, len(pos), ErrOutOfRange)
	}
	return pos[first : first+count], col[first : first+count], nil
}

// CheckRanges validates a multi-draw request.
func CheckRanges(first, count []int) error {
	if len(first) != len(count) {
		return fmt.Errorf("%d firsts, %d counts: %w", len(first), len(count), ErrRangeMismatch)
	}
	return nil
}
