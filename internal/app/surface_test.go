package app

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAppendLineQuad(t *testing.T) {
	c := mgl32.Vec4{1, 0, 0, 0.25}
	vs, is := appendLineQuad(nil, nil, 0, 0, 10, 0, c, false)
	if len(vs) != 4 || len(is) != 6 {
		t.Fatalf("got %d vertices, %d indices", len(vs), len(is))
	}
	if vs[0].DstY != 0.5 || vs[3].DstY != -0.5 || vs[1].DstX != 10 {
		t.Fatalf("quad corners %+v", vs)
	}
	if vs[0].ColorA != 0.25 {
		t.Fatalf("blended alpha = %v", vs[0].ColorA)
	}

	vs, is = appendLineQuad(vs, is, 3, 3, 3, 3, c, true)
	if len(vs) != 4 {
		t.Fatalf("zero length segment added vertices")
	}
	vs, is = appendLineQuad(vs, is, 0, 0, 0, 5, c, true)
	if is[6] != 4 || vs[4].ColorA != 1 {
		t.Fatalf("second quad: index %d alpha %v", is[6], vs[4].ColorA)
	}
}

func TestAppendTriangleSkipsDegenerate(t *testing.T) {
	c := mgl32.Vec4{0, 0, 1, 0.1}
	vs, is := appendTriangle(nil, nil, [6]float32{0, 0, 5, 5, 5, 5}, c, false)
	if len(vs) != 0 || len(is) != 0 {
		t.Fatalf("degenerate triangle drawn")
	}
	vs, is = appendTriangle(vs, is, [6]float32{0, 0, 5, 0, 0, 5}, c, false)
	if len(vs) != 3 || is[2] != 2 {
		t.Fatalf("triangle not added: %d %v", len(vs), is)
	}
	if vs[0].SrcX != 1 || vs[0].SrcY != 1 {
		t.Fatalf("vertices should sample the white source centre")
	}
}

func TestUnit(t *testing.T) {
	for in, want := range map[float32]uint8{-1: 0, 0: 0, 0.5: 128, 1: 255, 2: 255} {
		if got := unit(in); got != want {
			t.Fatalf("unit(%v) = %d, want %d", in, got, want)
		}
	}
}
