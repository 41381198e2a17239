package shapes

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseWKTPolygon(t *testing.T) {
	shapes, err := ParseWKT("POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 4 2, 4 4, 2 2))")
	if err != nil {
		t.Fatalf("ParseWKT: %v", err)
	}
	if len(shapes) != 1 || len(shapes[0].Rings) != 2 {
		t.Fatalf("unexpected shapes: %+v", shapes)
	}
	outer := shapes[0].Outer()
	if len(outer) != 5 || outer[2] != (mgl32.Vec2{10, 10}) {
		t.Fatalf("unexpected outer ring: %v", outer)
	}
}

func TestParseWKTMultiPolygon(t *testing.T) {
	shapes, err := ParseWKT("multipolygon(((0 0,1 0,0 1,0 0)),((5 5, 6 5, 6 6, 5 5),(5.2 5.2, 5.4 5.2, 5.2 5.4, 5.2 5.2)))")
	if err != nil {
		t.Fatalf("ParseWKT: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	if len(shapes[1].Rings) != 2 {
		t.Fatalf("second shape should keep its hole, got %d rings", len(shapes[1].Rings))
	}
}

func TestParseWKTErrors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyWKT},
		{"LINESTRING (0 0, 1 1)", ErrUnsupportedWKT},
	}
	for _, c := range cases {
		if _, err := ParseWKT(c.in); !errors.Is(err, c.want) {
			t.Fatalf("ParseWKT(%q) error = %v, want %v", c.in, err, c.want)
		}
	}
	for _, in := range []string{
		"POLYGON ((0 0, 1 0, 0 1)",
		"POLYGON ((0 0, x 0, 0 1, 0 0))",
		"POLYGON ((0, 1 0, 0 1, 0 0))",
		"POLYGON ()",
	} {
		if _, err := ParseWKT(in); err == nil {
			t.Fatalf("ParseWKT(%q) should fail", in)
		}
	}
	shapes, err := ParseWKT("POLYGON EMPTY")
	if err != nil || len(shapes) != 0 {
		t.Fatalf("EMPTY should parse to nothing, got %v %v", shapes, err)
	}
}

func TestCloseRing(t *testing.T) {
	open := Ring{{0, 0}, {1, 0}, {0, 1}}
	closed := CloseRing(open)
	if len(closed) != 4 || closed[3] != closed[0] {
		t.Fatalf("ring not closed: %v", closed)
	}
	if len(open) != 3 {
		t.Fatalf("input ring modified")
	}
	if again := CloseRing(closed); len(again) != 4 {
		t.Fatalf("closed ring grew: %v", again)
	}
}

func TestToPolygons(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	polys := ToPolygons([]Shape{
		{Rings: []Ring{{{0, 0}, {1, 0}, {0, 1}}}},
		{},
	}, red)
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	if polys[0].Color != red || len(polys[0].Points) != 4 {
		t.Fatalf("unexpected polygon %+v", polys[0])
	}
}
