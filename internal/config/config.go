package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/shapes"
	"ovpview/internal/viewport"
)

const (
	appDir   = "ovpview"
	FileName = "config.toml"
)

var ErrUnknownKeys = errors.New("config: unknown keys")

// File is the on-disk scene: camera, view toggles, colors and polygons.
type File struct {
	Camera   Camera    `toml:"camera"`
	View     View      `toml:"view"`
	Colors   Colors    `toml:"colors"`
	Polygons []Polygon `toml:"polygon"`
}

type Camera struct {
	X        float32 `toml:"x"`
	Y        float32 `toml:"y"`
	Zoom     float32 `toml:"zoom"`
	ZoomStep float32 `toml:"zoom_step"`
}

type View struct {
	ShowGrid     bool    `toml:"show_grid"`
	ShowAxes     bool    `toml:"show_axes"`
	AntiAlias    bool    `toml:"anti_alias"`
	DynamicGrid  bool    `toml:"dynamic_grid"`
	ReuseBuffers bool    `toml:"reuse_buffers"`
	GridSpacing  float32 `toml:"grid_spacing"`
}

type Colors struct {
	Background string `toml:"background"`
	MinorGrid  string `toml:"minor_grid"`
	MajorGrid  string `toml:"major_grid"`
	Axis       string `toml:"axis"`
}

// Polygon takes its points from Points, WKT, or both. Open rings are
// closed on load.
type Polygon struct {
	Color  string       `toml:"color"`
	Points [][2]float32 `toml:"points,omitempty"`
	WKT    string       `toml:"wkt,omitempty"`
}

// DefaultPolygonColor is used when a polygon has no color of its own.
const DefaultPolygonColor = "#2b579a"

func Default() File {
	return FromSettings(viewport.DefaultSettings())
}

// FromSettings captures s as a File. Polygons are written as points.
func FromSettings(s *viewport.Settings) File {
	f := File{
		Camera: Camera{
			X:        s.Camera.Position.X(),
			Y:        s.Camera.Position.Y(),
			Zoom:     s.Camera.Zoom,
			ZoomStep: s.Camera.ZoomStep,
		},
		View: View{
			ShowGrid:     s.ShowGrid,
			ShowAxes:     s.ShowAxes,
			AntiAlias:    s.AntiAlias,
			DynamicGrid:  s.DynamicGrid,
			ReuseBuffers: s.ReuseBuffers,
			GridSpacing:  s.GridSpacing,
		},
		Colors: Colors{
			Background: FormatColor(s.Colors.Background),
			MinorGrid:  FormatColor(s.Colors.MinorGrid),
			MajorGrid:  FormatColor(s.Colors.MajorGrid),
			Axis:       FormatColor(s.Colors.Axis),
		},
	}
	for _, p := range s.Polygons {
		pts := make([][2]float32, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = [2]float32{pt.X(), pt.Y()}
		}
		f.Polygons = append(f.Polygons, Polygon{Color: FormatColor(p.Color), Points: pts})
	}
	return f
}

// Settings builds viewport settings from f.
func (f File) Settings() (*viewport.Settings, error) {
	for name, v := range map[string]float32{"camera.x": f.Camera.X, "camera.y": f.Camera.Y, "camera.zoom": f.Camera.Zoom} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("%s: %v is not finite", name, v)
		}
	}
	s := viewport.DefaultSettings()
	s.Camera.Position = mgl32.Vec2{f.Camera.X, f.Camera.Y}
	s.Camera.Zoom = f.Camera.Zoom
	s.Camera.ZoomStep = f.Camera.ZoomStep
	s.ShowGrid = f.View.ShowGrid
	s.ShowAxes = f.View.ShowAxes
	s.AntiAlias = f.View.AntiAlias
	s.DynamicGrid = f.View.DynamicGrid
	s.ReuseBuffers = f.View.ReuseBuffers
	s.GridSpacing = f.View.GridSpacing

	var err error
	if s.Colors.Background, err = ParseColor(f.Colors.Background); err != nil {
		return nil, fmt.Errorf("colors.background: %w", err)
	}
	if s.Colors.MinorGrid, err = ParseColor(f.Colors.MinorGrid); err != nil {
		return nil, fmt.Errorf("colors.minor_grid: %w", err)
	}
	if s.Colors.MajorGrid, err = ParseColor(f.Colors.MajorGrid); err != nil {
		return nil, fmt.Errorf("colors.major_grid: %w", err)
	}
	if s.Colors.Axis, err = ParseColor(f.Colors.Axis); err != nil {
		return nil, fmt.Errorf("colors.axis: %w", err)
	}

	for i, p := range f.Polygons {
		hex := p.Color
		if hex == "" {
			hex = DefaultPolygonColor
		}
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, err)
		}
		if len(p.Points) > 0 {
			ring := make(shapes.Ring, len(p.Points))
			for k, pt := range p.Points {
				ring[k] = mgl32.Vec2{pt[0], pt[1]}
			}
			s.Polygons = append(s.Polygons, viewport.Polygon{Points: shapes.CloseRing(ring), Color: c})
		}
		if p.WKT != "" {
			parsed, err := shapes.ParseWKT(p.WKT)
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			s.Polygons = append(s.Polygons, shapes.ToPolygons(parsed, c)...)
		}
	}
	return s, nil
}

// Decode parses TOML text on top of the defaults, so missing keys keep
// their default values. Unknown keys are reported with ErrUnknownKeys
// alongside the decoded file.
func Decode(b []byte) (File, error) {
	f := Default()
	md, err := toml.Decode(string(b), &f)
	if err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return f, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return f, nil
}

func Encode(f File) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func Load(path string) (File, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions reads plain or packed scene files.
func LoadWithOptions(path string, opts LoadOptions) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	if isPacked(b) {
		if b, err = unpack(b, opts); err != nil {
			return File{}, err
		}
	}
	return Decode(b)
}

func Save(path string, f File) error {
	return SaveWithOptions(path, f, SaveOptions{})
}

// SaveWithOptions writes f atomically. Compression or encryption produce
// a packed scene instead of plain TOML.
func SaveWithOptions(path string, f File, opts SaveOptions) error {
	blob, err := Encode(f)
	if err != nil {
		return err
	}
	if opts.packed() {
		if blob, err = pack(blob, opts); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Dir is $XDG_CONFIG_HOME/ovpview, falling back to ~/.config/ovpview.
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), appDir)
}

func Path() string { return filepath.Join(Dir(), FileName) }

// EnsureDefault writes the default file at path unless one exists. It
// reports whether a file was created.
func EnsureDefault(path string) (bool, error) {
	ok, err := exists(path)
	if err != nil {
		return false, fmt.Errorf("check config: %w", err)
	}
	if ok {
		return false, nil
	}
	if err := Save(path, Default()); err != nil {
		return false, fmt.Errorf("initialize config: %w", err)
	}
	return true, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
