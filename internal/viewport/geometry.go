package viewport

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	gridZ = -0.95
	axisZ = gridZ + 0.01

	polygonAlpha = 0.1

	minGridPixels = 4
	maxGridPixels = 12
	majorEvery    = 10
)

// Lines is a flat list of 2-vertex segments with one color per vertex.
type Lines struct {
	Pos []mgl32.Vec3
	Col []mgl32.Vec4
}

func (l *Lines) add(a, b mgl32.Vec3, c mgl32.Vec4) {
	l.Pos = append(l.Pos, a, b)
	l.Col = append(l.Col, c, c)
}

// Segments is the number of 2-vertex segments.
func (l Lines) Segments() int { return len(l.Pos) / 2 }

// PolygonGeometry holds every polygon's segments back to back. First and
// Count give each polygon's vertex range for fan filling.
type PolygonGeometry struct {
	Lines
	First []int
	Count []int
}

// withFallback substitutes a 2-vertex placeholder for an empty buffer.
func (g PolygonGeometry) withFallback() PolygonGeometry {
	if len(g.Pos) > 0 {
		return g
	}
	white := mgl32.Vec4{1, 1, 1, 1}
	g.Lines = Lines{
		Pos: []mgl32.Vec3{{}, {}},
		Col: []mgl32.Vec4{white, white},
	}
	if g.First == nil {
		g.First = []int{}
		g.Count = []int{}
	}
	return g
}

// gridSpacing picks the world spacing between grid lines. ok is false
// when the grid should not be drawn at this zoom.
func gridSpacing(spacing, zoom float32, dynamic bool) (float32, bool) {
	if !(spacing > 0) || math.IsInf(float64(spacing), 0) || !(zoom > 0) {
		return 0, false
	}
	px := func() float32 { return spacing / zoom }
	if dynamic {
		// float32 covers about 77 decades; 80 steps is always enough.
		for i := 0; i < 80 && px() > maxGridPixels; i++ {
			spacing /= 10
		}
		for i := 0; i < 80 && px() < minGridPixels; i++ {
			spacing *= 10
		}
		if px() < minGridPixels || px() >= maxGridPixels {
			return 0, false
		}
		return spacing, true
	}
	if px() < minGridPixels {
		return 0, false
	}
	return spacing, true
}

func (v *Viewport) gridLines() Lines {
	grid := Lines{Pos: []mgl32.Vec3{}, Col: []mgl32.Vec4{}}
	s := v.settings
	if !s.ShowGrid {
		return grid
	}
	spacing, ok := gridSpacing(s.GridSpacing, s.Camera.Zoom, s.DynamicGrid)
	if !ok {
		return grid
	}
	b := v.VisibleBounds()
	minor := rgb(s.Colors.MinorGrid, 1)
	major := rgb(s.Colors.MajorGrid, 1)
	colorFor := func(n int) mgl32.Vec4 {
		if n > 0 && n%majorEvery == 0 {
			return major
		}
		return minor
	}
	sp := float64(spacing)
	w, h := v.size()
	perColumn := int(w/minGridPixels) + 2
	perRow := int(h/minGridPixels) + 2

	// Vertical lines: left of the origin, then right.
	first, last := lineRange(-float64(b.MaxX), -float64(b.MinX), sp, perColumn)
	for n := first; n <= last; n++ {
		x := float32(-float64(n) * sp)
		grid.add(mgl32.Vec3{x, b.MaxY, gridZ}, mgl32.Vec3{x, b.MinY, gridZ}, colorFor(n))
	}
	first, last = lineRange(float64(b.MinX), float64(b.MaxX), sp, perColumn)
	for n := first; n <= last; n++ {
		x := float32(float64(n) * sp)
		grid.add(mgl32.Vec3{x, b.MaxY, gridZ}, mgl32.Vec3{x, b.MinY, gridZ}, colorFor(n))
	}
	// Horizontal lines: below the origin, then above.
	first, last = lineRange(-float64(b.MaxY), -float64(b.MinY), sp, perRow)
	for n := first; n <= last; n++ {
		y := float32(-float64(n) * sp)
		grid.add(mgl32.Vec3{b.MaxX, y, gridZ}, mgl32.Vec3{b.MinX, y, gridZ}, colorFor(n))
	}
	first, last = lineRange(float64(b.MinY), float64(b.MaxY), sp, perRow)
	for n := first; n <= last; n++ {
		y := float32(float64(n) * sp)
		grid.add(mgl32.Vec3{b.MaxX, y, gridZ}, mgl32.Vec3{b.MinX, y, gridZ}, colorFor(n))
	}
	return grid
}

// maxExactIndex is the largest line index a float64 still separates from
// its neighbours.
const maxExactIndex = 1 << 53

// lineRange returns the indices n >= 0 with lo < n*spacing < hi, for
// lines running from the origin towards +inf. The range is empty
// (last < first) when nothing is visible, when the indices are not
// finite or not exact, and it never holds more than limit lines.
func lineRange(lo, hi, spacing float64, limit int) (first, last int) {
	fl, fh := lo/spacing, hi/spacing
	if math.IsNaN(fl) || math.IsNaN(fh) || fh <= 0 || fl >= maxExactIndex {
		return 0, -1
	}
	if math.IsInf(fl, 0) || math.IsInf(fh, 0) || math.Abs(fl) > maxExactIndex {
		return 0, -1
	}
	if fl >= 0 {
		first = int(math.Floor(fl)) + 1
	}
	end := math.Ceil(fh) - 1
	if end > maxExactIndex {
		end = maxExactIndex
	}
	last = int(end)
	if last-first >= limit {
		last = first + limit - 1
	}
	return first, last
}

func (v *Viewport) axisLines() Lines {
	axes := Lines{Pos: []mgl32.Vec3{}, Col: []mgl32.Vec4{}}
	s := v.settings
	if !s.ShowAxes {
		return axes
	}
	b := v.VisibleBounds()
	c := rgb(s.Colors.Axis, 1)
	axes.add(mgl32.Vec3{0, b.MaxY, axisZ}, mgl32.Vec3{0, b.MinY, axisZ}, c)
	axes.add(mgl32.Vec3{b.MaxX, 0, axisZ}, mgl32.Vec3{b.MinX, 0, axisZ}, c)
	return axes
}

// polygonGeometry flattens the polygon list into segments. Consecutive
// points (k, k+1) become one segment; the last point does not wrap to the
// first.
func (v *Viewport) polygonGeometry() (PolygonGeometry, error) {
	polys := v.settings.Polygons
	g := PolygonGeometry{
		Lines: Lines{Pos: []mgl32.Vec3{}, Col: []mgl32.Vec4{}},
		First: make([]int, len(polys)),
		Count: make([]int, len(polys)),
	}
	zStep := float32(1)
	if len(polys) > 0 {
		zStep = 1 / float32(len(polys))
	}
	counter := 0
	for i, p := range polys {
		z := float32(i) * zStep
		c := rgb(p.Color, polygonAlpha)
		g.First[i] = counter
		for k := 0; k+1 < len(p.Points); k++ {
			a, b := p.Points[k], p.Points[k+1]
			if !finite(a) || !finite(b) {
				return PolygonGeometry{}, fmt.Errorf("polygon %d point %d: %w", i, k, ErrNonFiniteVertex)
			}
			g.add(mgl32.Vec3{a.X(), a.Y(), z}, mgl32.Vec3{b.X(), b.Y(), z}, c)
			counter += 2
		}
		g.Count[i] = counter - g.First[i]
	}
	return g, nil
}

func finite(p mgl32.Vec2) bool {
	for _, f := range p {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}
