package app

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"ovpview/internal/config"
	"ovpview/internal/editor"
	"ovpview/internal/render"
	"ovpview/internal/ui"
	"ovpview/internal/viewport"

	"github.com/atotto/clipboard"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sqweek/dialog"
	imgclip "golang.design/x/clipboard"
)

const (
	// reloadEvery is how many ticks pass between scene file checks.
	reloadEvery = 30
	// settleTicks is how long the camera must stay put before it becomes
	// an undo point.
	settleTicks = 20
	maxHistory  = 200
)

// Options configures a new App.
type Options struct {
	Title    string
	Width    int
	Height   int
	Settings *viewport.Settings
	// ScenePath is the file the settings came from. It is watched for
	// changes and used by Save.
	ScenePath string
	Password  string
	// Fit frames all polygons once the window has a size.
	Fit bool
}

// App hosts a viewport in an ebiten window with a status bar, file
// dialogs and clipboard shortcuts.
type App struct {
	theme ui.Theme
	fonts fontBank
	scale float32

	view    *viewport.Viewport
	surface *imageSurface

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	layout      ui.Layout

	input inputState
	dirty bool

	history *editor.CameraHistory
	lastCam viewport.Camera
	settle  int

	title     string
	winW      int
	winH      int
	scenePath string
	password  string
	watcher   *config.Watcher
	status    string
	frameTick uint64

	imageClipboard error
	showHelp       bool
	fitPending     bool

	screenW int
	screenH int
}

func New(opts Options) *App {
	if opts.Title == "" {
		opts.Title = "ovpview"
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	surface := newImageSurface()
	a := &App{
		theme:     ui.DefaultTheme(),
		fonts:     newFontBank(),
		scale:     1,
		surface:   surface,
		view:      viewport.New(opts.Settings, surface),
		dirty:     true,
		title:     opts.Title,
		winW:      opts.Width,
		winH:      opts.Height,
		scenePath: opts.ScenePath,
		password:  opts.Password,
		status:    "Ready",

		fitPending: opts.Fit,
	}
	a.lastCam = a.view.Settings().Camera
	a.history = editor.NewCameraHistory(a.lastCam, maxHistory)
	if a.scenePath != "" {
		a.watchScene(a.scenePath)
		a.status = "Loaded " + filepath.Base(a.scenePath)
	}
	a.imageClipboard = imgclip.Init()
	return a
}

func (a *App) Run() error {
	ebiten.SetWindowTitle(a.title)
	ebiten.SetWindowSize(a.winW, a.winH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(480, 320, -1, -1)
	defer a.view.Close()
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	a.frameTick++
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHelp = !a.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && a.showHelp {
		a.showHelp = false
	}

	if ctrl {
		a.handleShortcuts(shift)
	} else if !a.showHelp {
		s := a.view.Settings()
		if inpututil.IsKeyJustPressed(ebiten.KeyG) {
			s.ShowGrid = !s.ShowGrid
			a.dirty = true
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyX) {
			s.ShowAxes = !s.ShowAxes
			a.dirty = true
		}
	}

	a.layout = ui.ComputeLayout(a.screenW, a.screenH, a.theme, a.scale)
	a.surface.Resize(a.layout.View.W, a.layout.View.H)
	if a.fitPending && a.surface.Initialized() {
		a.fitPending = false
		a.view.FitPolygons()
		a.dirty = true
	}

	cur := pollInput(a.layout.View, ctrl)
	if a.showHelp {
		// The overlay swallows pointer and key input; only the area size
		// is tracked so a resize still redraws.
		cur.buttons, cur.wheel, cur.keys = 0, 0, nil
	}
	for _, ev := range translateInput(a.input, cur) {
		if a.view.HandleEvent(ev) {
			a.dirty = true
		}
	}
	a.input = cur

	a.trackCamera()

	if a.watcher != nil && a.frameTick%reloadEvery == 0 {
		a.checkReload()
	}

	if a.dirty {
		a.renderFrame()
	}
	return nil
}

func (a *App) handleShortcuts(shift bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		a.stepHistory(shift)
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		a.stepHistory(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		a.report("Open failed: ", a.openScene())
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.report("Save failed: ", a.saveScene(shift))
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		a.report("Export failed: ", a.exportImage())
	case inpututil.IsKeyJustPressed(ebiten.KeyC) && shift:
		a.report("Copy failed: ", a.copyFrameImage())
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := clipboard.WriteAll(a.cameraText()); err != nil {
			a.status = "Copy failed: " + err.Error()
			return
		}
		a.status = "Copied camera"
	}
}

// trackCamera commits the camera to the undo history once it has been
// still for settleTicks and no drag is in progress.
func (a *App) trackCamera() {
	cam := a.view.Settings().Camera
	if cam != a.lastCam {
		a.lastCam = cam
		a.settle = settleTicks
		return
	}
	if a.settle == 0 || a.view.Dragging() {
		return
	}
	a.settle--
	if a.settle == 0 {
		a.history.Commit(cam)
	}
}

func (a *App) stepHistory(redo bool) {
	s := a.view.Settings()
	var (
		cam viewport.Camera
		ok  bool
	)
	if redo {
		cam, ok = a.history.Redo(s.Camera)
	} else {
		cam, ok = a.history.Undo(s.Camera)
	}
	if !ok {
		return
	}
	s.Camera = cam
	a.lastCam = cam
	a.settle = 0
	a.dirty = true
}

// report puts err in the status bar. A cancelled dialog is not an error.
func (a *App) report(prefix string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, dialog.ErrCancelled) {
		a.status = "Cancelled"
		return
	}
	a.status = prefix + err.Error()
}

func (a *App) renderFrame() {
	a.dirty = false
	err := a.view.Render()
	if err == nil {
		return
	}
	if viewport.IsFatal(err) {
		a.status = "Render failed: " + firstLine(err)
		return
	}
	a.status = "Frame incomplete: " + firstLine(err)
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		if a.canvas != nil {
			a.canvas.Deallocate()
		}
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}

	layout := ui.DrawShell(a.frameBuffer, a.theme, a.scale)
	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	if front := a.surface.Front(); front != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(layout.View.X), float64(layout.View.Y))
		screen.DrawImage(front, op)
	}

	statusFace := a.fonts.face(10, false, a.scale)
	baseline := layout.StatusBar.Y + layout.StatusBar.H - int(10*a.scale)
	statusColor := a.theme.StatusText
	if !a.view.OK() {
		statusColor = a.theme.ErrorText
	}
	left := a.statusLeft()
	text.Draw(screen, left, statusFace, 12, baseline, statusColor)
	right := fmt.Sprintf("[ %s ] [ %s ]", a.sceneName(), a.status)
	rx := max(12+measureString(statusFace, left)+24, w-measureString(statusFace, right)-12)
	text.Draw(screen, right, statusFace, rx, baseline, statusColor)

	if a.showHelp {
		a.drawHelpOverlay(screen, layout)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) statusLeft() string {
	cam := a.view.Settings().Camera
	state := "OK"
	if !a.view.OK() {
		state = "ERROR"
	}
	if a.input.inside() {
		p := a.view.ScreenToWorld(mgl32.Vec2{float32(a.input.x), float32(a.input.y)})
		return fmt.Sprintf("[ X %.3f Y %.3f ] [ Zoom %.4g ] [ %s ]", p.X(), p.Y(), cam.Zoom, state)
	}
	return fmt.Sprintf("[ Camera %.3f, %.3f ] [ Zoom %.4g ] [ %s ]", cam.Position.X(), cam.Position.Y(), cam.Zoom, state)
}

func (a *App) cameraText() string {
	cam := a.view.Settings().Camera
	return fmt.Sprintf("%g %g %g", cam.Position.X(), cam.Position.Y(), cam.Zoom)
}

func (a *App) sceneName() string {
	if a.scenePath == "" {
		return "Untitled"
	}
	return filepath.Base(a.scenePath)
}

func (a *App) openScene() error {
	path, err := dialog.File().Filter("Scene files", "toml", "ovpz").Load()
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("no file selected")
	}
	path = filepath.Clean(path)
	if err := a.loadScene(path, false); err != nil {
		if errors.Is(err, config.ErrPasswordRequired) {
			a.status = "Password required: restart with -password"
			return nil
		}
		return err
	}
	a.status = "Opened " + filepath.Base(path)
	return nil
}

// loadScene replaces the viewport settings with the file's. With
// keepCamera the current camera survives, as on a hot reload.
func (a *App) loadScene(path string, keepCamera bool) error {
	f, err := config.LoadWithOptions(path, config.LoadOptions{Password: a.password})
	if err != nil {
		return err
	}
	s, err := f.Settings()
	if err != nil {
		return err
	}
	if keepCamera {
		s.Camera = a.view.Settings().Camera
	} else {
		a.history.Reset(s.Camera)
		a.lastCam = s.Camera
	}
	a.view.SetSettings(s)
	a.scenePath = path
	a.watchScene(path)
	a.dirty = true
	return nil
}

func (a *App) saveScene(saveAs bool) error {
	path := a.scenePath
	if saveAs || path == "" {
		p, err := dialog.File().Filter("Scene files", "toml", "ovpz").Save()
		if err != nil {
			return err
		}
		path = p
	}
	if path == "" {
		return errors.New("no file selected")
	}
	opts := config.SaveOptions{}
	if strings.EqualFold(filepath.Ext(path), ".ovpz") {
		opts.Compression = true
		opts.Encryption = config.EncryptionOptions{Enabled: a.password != "", Password: a.password}
	}
	if err := config.SaveWithOptions(path, config.FromSettings(a.view.Settings()), opts); err != nil {
		return err
	}
	a.scenePath = path
	a.watchScene(path)
	a.status = "Saved " + filepath.Base(path)
	return nil
}

// watchScene starts watching path, taking the current contents as the
// baseline so our own writes do not trigger a reload.
func (a *App) watchScene(path string) {
	a.watcher = config.NewWatcher(path)
	_, _ = a.watcher.Changed()
}

func (a *App) checkReload() {
	changed, err := a.watcher.Changed()
	if err != nil {
		a.status = "Watch failed: " + err.Error()
		return
	}
	if !changed {
		return
	}
	if err := a.loadScene(a.watcher.Path(), true); err != nil {
		a.status = "Reload failed: " + err.Error()
		return
	}
	a.status = "Reloaded " + filepath.Base(a.scenePath)
}

// snapshotPNG renders the current scene at the viewport size without
// touching the on-screen frame.
func (a *App) snapshotPNG() ([]byte, error) {
	w, h := a.surface.Size()
	if w <= 0 || h <= 0 {
		return nil, errors.New("viewport has no size")
	}
	var buf bytes.Buffer
	if err := Export(&buf, a.view.Settings(), ExportOptions{Width: w, Height: h}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *App) copyFrameImage() error {
	if a.imageClipboard != nil {
		return fmt.Errorf("image clipboard unavailable: %w", a.imageClipboard)
	}
	b, err := a.snapshotPNG()
	if err != nil {
		return err
	}
	imgclip.Write(imgclip.FmtImage, b)
	a.status = "Copied frame image"
	return nil
}

func (a *App) exportImage() error {
	path, err := dialog.File().Filter("PNG images", "png").Save()
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("no file selected")
	}
	b, err := a.snapshotPNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	a.status = "Exported " + filepath.Base(path)
	return nil
}

var helpLines = []string{
	"Drag with the left button: pan",
	"Mouse wheel: zoom",
	"W A S D: pan | R: reset camera | F: fit polygons",
	"G: toggle grid | X: toggle axes",
	"Ctrl+O: Open | Ctrl+S: Save | Ctrl+Shift+S: Save As",
	"Ctrl+Z: Undo view | Ctrl+Y or Ctrl+Shift+Z: Redo view",
	"Ctrl+E: Export PNG | Ctrl+C: Copy camera",
	"Ctrl+Shift+C: Copy frame image",
	"F1 or Esc closes this dialog",
}

func (a *App) drawHelpOverlay(screen *ebiten.Image, layout ui.Layout) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	r := layout.Help
	drawFilledRect(screen, 0, 0, w, h, a.theme.Overlay)
	drawFilledRect(screen, r.X, r.Y, r.W, r.H, a.theme.Panel)
	x0, y0 := float64(r.X), float64(r.Y)
	x1, y1 := float64(r.X+r.W), float64(r.Y+r.H)
	ebitenutil.DrawLine(screen, x0, y0, x1, y0, a.theme.Border)
	ebitenutil.DrawLine(screen, x0, y1, x1, y1, a.theme.Border)
	ebitenutil.DrawLine(screen, x0, y0, x0, y1, a.theme.Border)
	ebitenutil.DrawLine(screen, x1, y0, x1, y1, a.theme.Border)

	titleFace := a.fonts.face(12, true, a.scale)
	text.Draw(screen, "Help", titleFace, r.X+22, r.Y+int(30*a.scale), a.theme.PanelText)

	face := a.fonts.face(10, false, a.scale)
	y := r.Y + int(62*a.scale)
	for _, l := range helpLines {
		if y > r.Y+r.H {
			break
		}
		text.Draw(screen, l, face, r.X+20, y, a.theme.PanelText)
		y += int(26 * a.scale)
	}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
}

func firstLine(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
