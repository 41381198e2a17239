package viewport

import (
	"errors"
	"fmt"
	"log/slog"

	"ovpview/internal/gpu"
)

// Render draws one frame: projection and clear, grid, axes, polygon fill
// and outline, then present. A nil return means the frame was complete.
// Recoverable problems (polygon build, draw calls) are returned joined
// and the frame is still presented; a fatal problem aborts the frame and
// clears OK. Buffers allocated for the frame are always released.
func (v *Viewport) Render() error {
	if v.surface == nil {
		v.ok = false
		return &FrameError{Stage: "init", Severity: SeverityFatal, Err: ErrNoSurface}
	}
	if !v.surface.Initialized() {
		return nil
	}
	dev := v.surface
	log := Logger()
	var soft []error

	fatal := func(stage string, err error) error {
		v.ok = false
		fe := &FrameError{Stage: stage, Severity: SeverityFatal, Err: err}
		log.Error("frame aborted", slog.String("stage", stage), slog.Any("err", err))
		return errors.Join(append(soft, fe)...)
	}

	if err := v.begin(); err != nil {
		return fatal("init", err)
	}

	grid := v.gridLines()
	axes := v.axisLines()
	if pg, err := v.polygonGeometry(); err != nil {
		log.Warn("polygon geometry skipped", slog.Any("err", err))
		soft = append(soft, &FrameError{Stage: "polygons", Severity: SeverityRecoverable, Err: err})
	} else {
		v.poly = pg
	}
	poly := v.poly.withFallback()
	log.Debug("frame geometry",
		slog.Int("grid", len(grid.Pos)),
		slog.Int("axes", len(axes.Pos)),
		slog.Int("polygons", len(poly.First)),
		slog.Int("polygon_vertices", len(poly.Pos)))

	pairs, release, err := v.acquire()
	if err != nil {
		return fatal("buffers", err)
	}
	defer release()

	uploads := []struct {
		pair  gpu.Pair
		lines Lines
	}{
		{pairs[gpu.RoleGrid], grid},
		{pairs[gpu.RoleAxis], axes},
		{pairs[gpu.RolePolygon], poly.Lines},
	}
	for i, u := range uploads {
		if err := dev.BufferVec3(u.pair.Vertex, u.lines.Pos); err != nil {
			return fatal("upload", fmt.Errorf("%s vertices: %w", gpu.Role(i), err))
		}
		if err := dev.BufferVec4(u.pair.Color, u.lines.Col); err != nil {
			return fatal("upload", fmt.Errorf("%s colors: %w", gpu.Role(i), err))
		}
	}

	if err := v.draw(pairs, len(grid.Pos), len(axes.Pos), poly); err != nil {
		log.Warn("draw calls skipped", slog.Any("err", err))
		soft = append(soft, &FrameError{Stage: "draw", Severity: SeverityRecoverable, Err: err})
	}

	if err := dev.SwapBuffers(); err != nil {
		return fatal("present", err)
	}
	dev.Flush()
	return errors.Join(soft...)
}

func (v *Viewport) begin() error {
	dev := v.surface
	s := v.settings
	if err := dev.MakeCurrent(); err != nil {
		return fmt.Errorf("make current: %w", err)
	}
	b := v.VisibleBounds()
	if err := dev.LoadProjection(gpu.Ortho(b.MinX, b.MaxX, b.MinY, b.MaxY)); err != nil {
		return fmt.Errorf("load projection: %w", err)
	}
	s.Bounds = b
	dev.SetLineSmooth(s.AntiAlias)
	dev.SetBlend(false)
	dev.Clear(rgba(s.Colors.Background))
	return nil
}

// acquire hands out one buffer pair per role. release deletes per-frame
// buffers and is a no-op for pooled ones.
func (v *Viewport) acquire() (map[gpu.Role]gpu.Pair, func(), error) {
	dev := v.surface
	roles := []gpu.Role{gpu.RoleGrid, gpu.RoleAxis, gpu.RolePolygon}
	pairs := make(map[gpu.Role]gpu.Pair, len(roles))

	if v.settings.ReuseBuffers {
		if v.pool == nil {
			v.pool = gpu.NewPool(dev)
		}
		for _, r := range roles {
			p, err := v.pool.Acquire(r)
			if err != nil {
				return nil, nil, err
			}
			pairs[r] = p
		}
		return pairs, func() {}, nil
	}
	if v.pool != nil {
		v.pool.Release()
		v.pool = nil
	}

	vbo, err := dev.GenBuffers(len(roles))
	if err != nil {
		return nil, nil, fmt.Errorf("vertex buffers: %w", err)
	}
	col, err := dev.GenBuffers(len(roles))
	if err != nil {
		dev.DeleteBuffers(vbo)
		return nil, nil, fmt.Errorf("color buffers: %w", err)
	}
	for i, r := range roles {
		pairs[r] = gpu.Pair{Vertex: vbo[i], Color: col[i]}
	}
	release := func() {
		dev.DeleteBuffers(vbo)
		dev.DeleteBuffers(col)
	}
	return pairs, release, nil
}

// draw issues the frame's draw calls. The polygon fill is blended; the
// outline is drawn after blending is switched off.
func (v *Viewport) draw(pairs map[gpu.Role]gpu.Pair, nGrid, nAxes int, poly PolygonGeometry) error {
	dev := v.surface
	g, a, p := pairs[gpu.RoleGrid], pairs[gpu.RoleAxis], pairs[gpu.RolePolygon]
	if err := dev.DrawArrays(gpu.Lines, g.Vertex, g.Color, 0, nGrid); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := dev.DrawArrays(gpu.Lines, a.Vertex, a.Color, 0, nAxes); err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	dev.SetBlend(true)
	if err := dev.MultiDrawArrays(gpu.TriangleFan, p.Vertex, p.Color, poly.First, poly.Count); err != nil {
		return fmt.Errorf("polygon fill: %w", err)
	}
	dev.SetBlend(false)
	if err := dev.DrawArrays(gpu.Lines, p.Vertex, p.Color, 0, len(poly.Pos)); err != nil {
		return fmt.Errorf("polygon outline: %w", err)
	}
	return nil
}
