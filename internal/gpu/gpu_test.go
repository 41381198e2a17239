package gpu

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStoreRangeChecks(t *testing.T) {
	s := NewStore()
	bs := s.Gen(2)
	if bs[0] == 0 || bs[1] == 0 {
		t.Fatalf("buffer name 0 handed out: %v", bs)
	}
	if err := s.SetVec3(bs[0], []mgl32.Vec3{{0, 0, 0}, {1, 1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetVec4(bs[1], []mgl32.Vec4{{1, 1, 1, 1}}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Range(bs[0], bs[1], 0, 1); !errors.Is(err, ErrBufferMismatch) {
		t.Fatalf("expected ErrBufferMismatch, got %v", err)
	}
	if err := s.SetVec4(bs[1], []mgl32.Vec4{{1, 1, 1, 1}, {1, 1, 1, 1}}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Range(bs[0], bs[1], 1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	pos, col, err := s.Range(bs[0], bs[1], 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 2 || len(col) != 2 {
		t.Fatalf("unexpected range sizes %d/%d", len(pos), len(col))
	}
	s.Delete(bs)
	if s.Live() != 0 {
		t.Fatalf("expected no live buffers, got %d", s.Live())
	}
	if err := s.SetVec3(bs[0], nil); !errors.Is(err, ErrUnknownBuffer) {
		t.Fatalf("expected ErrUnknownBuffer, got %v", err)
	}
}

func TestPoolReusesPairsPerRole(t *testing.T) {
	rec := NewRecorder(10, 10)
	p := NewPool(rec)

	a, err := p.Acquire(RoleGrid)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Acquire(RoleGrid)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("pool handed out a new pair for the same role: %v vs %v", a, b)
	}
	if _, err := p.Acquire(RolePolygon); err != nil {
		t.Fatal(err)
	}
	if rec.Live() != 4 {
		t.Fatalf("expected 4 live buffers, got %d", rec.Live())
	}
	p.Release()
	if rec.Live() != 0 || p.Len() != 0 {
		t.Fatalf("release left %d buffers, %d pairs", rec.Live(), p.Len())
	}
}

func TestPoolPropagatesAllocationFailure(t *testing.T) {
	rec := NewRecorder(10, 10)
	boom := errors.New("out of memory")
	rec.Fail["GenBuffers"] = boom
	if _, err := NewPool(rec).Acquire(RoleAxis); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped allocation error, got %v", err)
	}
}

func TestToPixelMapsOrthoCorners(t *testing.T) {
	proj := Ortho(-50, 50, -25, 25)
	cases := []struct {
		in     mgl32.Vec3
		wx, wy float32
	}{
		{mgl32.Vec3{-50, 25, 0}, 0, 0},
		{mgl32.Vec3{50, -25, 0}, 200, 100},
		{mgl32.Vec3{0, 0, 0}, 100, 50},
	}
	for _, c := range cases {
		x, y := ToPixel(proj, c.in, 200, 100)
		if !mgl32.FloatEqualThreshold(x, c.wx, 1e-3) || !mgl32.FloatEqualThreshold(y, c.wy, 1e-3) {
			t.Errorf("ToPixel(%v) = (%v, %v), want (%v, %v)", c.in, x, y, c.wx, c.wy)
		}
	}
}

func TestRecorderMultiDrawValidatesRanges(t *testing.T) {
	rec := NewRecorder(10, 10)
	bs, _ := rec.GenBuffers(2)
	_ = rec.BufferVec3(bs[0], make([]mgl32.Vec3, 4))
	_ = rec.BufferVec4(bs[1], make([]mgl32.Vec4, 4))
	if err := rec.MultiDrawArrays(TriangleFan, bs[0], bs[1], []int{0, 2}, []int{2}); !errors.Is(err, ErrRangeMismatch) {
		t.Fatalf("expected ErrRangeMismatch, got %v", err)
	}
	if err := rec.MultiDrawArrays(TriangleFan, bs[0], bs[1], []int{0, 2}, []int{2, 2}); err != nil {
		t.Fatalf("valid multi draw failed: %v", err)
	}
}
