package shapes

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/viewport"
)

var (
	ErrEmptyWKT       = errors.New("empty wkt")
	ErrUnsupportedWKT = errors.New("unsupported wkt type")
)

// Ring is a sequence of points. A closed ring repeats its first point.
type Ring []mgl32.Vec2

// Shape is one polygon: the outer ring followed by any holes.
type Shape struct {
	Rings []Ring
}

func (s Shape) Outer() Ring {
	if len(s.Rings) == 0 {
		return nil
	}
	return s.Rings[0]
}

// ParseWKT parses POLYGON and MULTIPOLYGON text. "EMPTY" geometries yield
// no shapes.
func ParseWKT(wkt string) ([]Shape, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, ErrEmptyWKT
	}
	up := strings.ToUpper(s)
	var ringDepth int
	switch {
	case strings.HasPrefix(up, "MULTIPOLYGON"):
		ringDepth = 3
		s = s[len("MULTIPOLYGON"):]
	case strings.HasPrefix(up, "POLYGON"):
		ringDepth = 2
		s = s[len("POLYGON"):]
	default:
		return nil, ErrUnsupportedWKT
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "EMPTY") {
		return nil, nil
	}

	var (
		shapes []Shape
		depth  int
		start  int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
			if depth == ringDepth-1 {
				shapes = append(shapes, Shape{})
			}
			if depth == ringDepth {
				start = i + 1
			}
			if depth > ringDepth {
				return nil, fmt.Errorf("wkt: unexpected '(' at %d", i)
			}
		case ')':
			if depth == ringDepth {
				ring, err := parseRing(s[start:i])
				if err != nil {
					return nil, err
				}
				last := &shapes[len(shapes)-1]
				last.Rings = append(last.Rings, ring)
			}
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("wkt: unbalanced ')' at %d", i)
			}
		}
	}
	if depth != 0 {
		return nil, errors.New("wkt: unbalanced parentheses")
	}
	if len(shapes) == 0 {
		return nil, errors.New("wkt: no rings parsed")
	}
	for i, sh := range shapes {
		if len(sh.Rings) == 0 {
			return nil, fmt.Errorf("wkt: polygon %d has no rings", i)
		}
	}
	return shapes, nil
}

func parseRing(block string) (Ring, error) {
	var ring Ring
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			return nil, fmt.Errorf("wkt: bad coordinate %q", strings.TrimSpace(tup))
		}
		x, err := strconv.ParseFloat(parts[0], 32)
		if err != nil {
			return nil, fmt.Errorf("wkt: x: %w", err)
		}
		y, err := strconv.ParseFloat(parts[1], 32)
		if err != nil {
			return nil, fmt.Errorf("wkt: y: %w", err)
		}
		ring = append(ring, mgl32.Vec2{float32(x), float32(y)})
	}
	return ring, nil
}

// CloseRing returns r with its first point appended when the ring is
// open. Rings with fewer than 2 points are returned unchanged.
func CloseRing(r Ring) Ring {
	if len(r) < 2 || r[0] == r[len(r)-1] {
		return r
	}
	out := make(Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// ToPolygons turns the outer ring of every shape into a closed viewport
// polygon. Holes are not drawn.
func ToPolygons(shapes []Shape, c color.RGBA) []viewport.Polygon {
	out := make([]viewport.Polygon, 0, len(shapes))
	for _, s := range shapes {
		outer := s.Outer()
		if len(outer) == 0 {
			continue
		}
		out = append(out, viewport.Polygon{Points: CloseRing(outer), Color: c})
	}
	return out
}
