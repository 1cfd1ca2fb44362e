package editor

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mapgrid/config"
	"github.com/milk9111/mapgrid/export"
	"github.com/milk9111/mapgrid/grid"
	"github.com/milk9111/mapgrid/paint"
	"github.com/milk9111/mapgrid/prefs"
	"github.com/milk9111/mapgrid/render"
	"github.com/milk9111/mapgrid/viewport"
)

var ErrAssetLoad = errors.New("asset load failed")

// BackgroundLoader decodes the image drawn under the grid and fits it to the
// baseline map size.
type BackgroundLoader interface {
	LoadBackground(path string, size viewport.Size) error
}

// Host bundles the capabilities the window provides. Sink and Background may
// be nil; export is then not offered and no background is drawn.
type Host struct {
	Canvas     render.Canvas
	Panner     viewport.Panner
	Sink       export.Sink
	Background BackgroundLoader
}

// Editor is one editing session: a grid created once from the baseline map
// and cell sizes, the viewport, and the renderer and paint engine between them.
type Editor struct {
	grid     *grid.Grid
	view     *viewport.Viewport
	renderer *render.Renderer
	engine   *paint.Engine
	exporter *export.Exporter
	host     Host
	logger   *log.Logger

	background string
}

func New(cfg *config.Config, host Host, logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.Default()
	}
	mapSize, cellSize := cfg.MapSize(), cfg.CellSize()

	e := &Editor{
		grid:   grid.NewForMap(mapSize.W, mapSize.H, cellSize.W, cellSize.H),
		host:   host,
		logger: logger,
	}
	e.view = viewport.New(mapSize, cellSize,
		viewport.WithLimits(cfg.Limits()),
		viewport.WithPanner(host.Panner),
	)
	e.renderer = render.NewRenderer(host.Canvas, e.grid, e.view, cfg.Palette())
	e.engine = paint.NewEngine(e.grid, e.view, e.renderer, logger)
	e.exporter = &export.Exporter{Sink: host.Sink, Name: cfg.Export.Name}

	e.view.OnRescale(e.renderer.Repaint)
	e.view.SetMode(viewport.View)
	e.renderer.Repaint()

	if cfg.Background != "" {
		e.LoadBackground(cfg.Background)
	}
	return e
}

func (e *Editor) Grid() *grid.Grid             { return e.grid }
func (e *Editor) Viewport() *viewport.Viewport { return e.view }
func (e *Editor) Renderer() *render.Renderer   { return e.renderer }
func (e *Editor) Brush() paint.Brush           { return e.engine.Brush() }
func (e *Editor) Mode() viewport.Mode          { return e.view.Mode() }
func (e *Editor) Background() string           { return e.background }

// LoadBackground asks the host for the image. On failure the error is logged
// and the previous background, if any, is dropped.
func (e *Editor) LoadBackground(path string) bool {
	if e.host.Background == nil {
		return false
	}
	if err := e.host.Background.LoadBackground(path, e.view.BaseMapSize()); err != nil {
		e.background = ""
		e.logger.Printf("editor: %v", fmt.Errorf("background %s: %w: %v", path, ErrAssetLoad, err))
		return false
	}
	e.background = path
	return true
}

// HandlePointer routes a press or drag to the paint engine. In View mode the
// host pans instead and this is a no-op.
func (e *Editor) HandlePointer(pointer cp.Vector, mapTransform cp.Transform) paint.Result {
	return e.engine.Apply(pointer, mapTransform)
}

// HandleWheel zooms one step per event.
func (e *Editor) HandleWheel(dy float64) bool {
	return e.view.Zoom(dy)
}

func (e *Editor) ZoomIn() bool  { return e.view.ZoomIn() }
func (e *Editor) ZoomOut() bool { return e.view.ZoomOut() }

func (e *Editor) ZoomLabel() string {
	return fmt.Sprintf("%d%%", e.view.Percent())
}

func (e *Editor) SetMode(m viewport.Mode) { e.view.SetMode(m) }

func (e *Editor) SelectBrush(b paint.Brush) { e.engine.SelectBrush(b) }

// SelectBrushName ignores names outside obstacle, road and clear.
func (e *Editor) SelectBrushName(name string) bool {
	return e.engine.SelectBrushName(name)
}

// SetPalette swaps colors and repaints, used after a config reload.
func (e *Editor) SetPalette(p render.Palette) {
	e.renderer.SetPalette(p)
	e.renderer.Repaint()
}

func (e *Editor) CanExport() bool { return e.exporter.Available() }

// Export delivers the current document to the host sink.
func (e *Editor) Export() ([]byte, error) {
	b, err := e.exporter.Export(e.grid, e.view)
	if err != nil {
		e.logger.Printf("editor: export: %v", err)
		return nil, err
	}
	e.logger.Printf("editor: exported %d bytes", len(b))
	return b, nil
}

func (e *Editor) Document() export.Document {
	return export.Build(e.grid, e.view)
}

// Resume replaces the grid contents with a previous export of the same
// dimensions and repaints.
func (e *Editor) Resume(doc export.Document) error {
	if err := export.Restore(e.grid, doc); err != nil {
		return fmt.Errorf("editor: resume: %w", err)
	}
	e.renderer.Repaint()
	return nil
}

func (e *Editor) ResumeFile(path string) error {
	doc, err := export.ReadFile(path)
	if err != nil {
		return fmt.Errorf("editor: resume: %w", err)
	}
	return e.Resume(doc)
}

// Prefs captures the state worth restoring next session.
func (e *Editor) Prefs() prefs.Prefs {
	return prefs.Prefs{
		Brush: e.engine.Brush().String(),
		Mode:  e.view.Mode().String(),
		Scale: e.view.Scale(),
	}
}

// ApplyPrefs restores saved state; unknown or out-of-range values are skipped.
func (e *Editor) ApplyPrefs(p prefs.Prefs) {
	e.engine.SelectBrushName(p.Brush)
	switch p.Mode {
	case viewport.View.String():
		e.view.SetMode(viewport.View)
	case viewport.Edit.String():
		e.view.SetMode(viewport.Edit)
	}
	if p.Scale > 0 {
		e.view.SetScale(p.Scale)
	}
}
