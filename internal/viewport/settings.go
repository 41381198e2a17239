package viewport

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// MinZoom is the smallest zoom factor a camera can reach.
const MinZoom float32 = 0.0001

// Camera maps world space onto the viewport. Zoom is world units per
// pixel, so a larger value shows more of the world.
type Camera struct {
	Position mgl32.Vec2
	Zoom     float32
	ZoomStep float32
}

func (c *Camera) ZoomIn(delta float32) {
	c.Zoom += c.ZoomStep * 0.01 * delta
	c.clamp()
}

func (c *Camera) ZoomOut(delta float32) {
	c.Zoom -= c.ZoomStep * 0.01 * delta
	c.clamp()
}

func (c *Camera) PanHorizontal(delta float32) { c.Position[0] += delta / 10 }
func (c *Camera) PanVertical(delta float32)   { c.Position[1] += delta / 10 }

// Reset moves the camera back to the origin at zoom 1.
func (c *Camera) Reset() {
	c.Position = mgl32.Vec2{}
	c.Zoom = 1
}

func (c *Camera) clamp() {
	// Also catches NaN.
	if !(c.Zoom >= MinZoom) {
		c.Zoom = MinZoom
	}
}

type ColorScheme struct {
	Background color.RGBA
	MinorGrid  color.RGBA
	MajorGrid  color.RGBA
	Axis       color.RGBA
}

// Rect is an axis-aligned world rectangle.
type Rect struct {
	MinX float32
	MinY float32
	MaxX float32
	MaxY float32
}

func (r Rect) Width() float32  { return r.MaxX - r.MinX }
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

func (r Rect) Center() mgl32.Vec2 {
	return mgl32.Vec2{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}

// Polygon is a ring of points. Rings are expected to repeat their first
// point at the end; no closing edge is added when drawing.
type Polygon struct {
	Points []mgl32.Vec2
	Color  color.RGBA
}

// Settings is owned by the host. The viewport reads all of it and
// writes only Camera and Bounds.
type Settings struct {
	Camera       Camera
	Colors       ColorScheme
	ShowGrid     bool
	ShowAxes     bool
	AntiAlias    bool
	DynamicGrid  bool
	ReuseBuffers bool
	GridSpacing  float32
	Polygons     []Polygon

	// Bounds is the visible world rectangle of the last rendered frame.
	Bounds Rect
}

func DefaultColors() ColorScheme {
	return ColorScheme{
		Background: color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		MinorGrid:  color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		MajorGrid:  color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Axis:       color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
	}
}

func DefaultSettings() *Settings {
	return &Settings{
		Camera:      Camera{Zoom: 1, ZoomStep: 10},
		Colors:      DefaultColors(),
		ShowGrid:    true,
		ShowAxes:    true,
		AntiAlias:   true,
		DynamicGrid: true,
		GridSpacing: 10,
	}
}

// PolygonBounds returns the bounding box of every polygon point.
func PolygonBounds(polys []Polygon) (Rect, bool) {
	var r Rect
	seen := false
	for _, p := range polys {
		for _, pt := range p.Points {
			if !seen {
				r = Rect{MinX: pt.X(), MinY: pt.Y(), MaxX: pt.X(), MaxY: pt.Y()}
				seen = true
				continue
			}
			r.MinX = min(r.MinX, pt.X())
			r.MinY = min(r.MinY, pt.Y())
			r.MaxX = max(r.MaxX, pt.X())
			r.MaxY = max(r.MaxY, pt.Y())
		}
	}
	return r, seen
}

func rgb(c color.RGBA, alpha float32) mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, alpha}
}

func rgba(c color.RGBA) mgl32.Vec4 {
	return rgb(c, float32(c.A)/255)
}
