package editor

import (
	"bytes"
	"errors"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mapgrid/config"
	"github.com/milk9111/mapgrid/export"
	"github.com/milk9111/mapgrid/grid"
	"github.com/milk9111/mapgrid/paint"
	"github.com/milk9111/mapgrid/prefs"
	"github.com/milk9111/mapgrid/viewport"
)

type nopCanvas struct {
	clears, lines, fills int
}

func (c *nopCanvas) Clear()                                          { c.clears++ }
func (c *nopCanvas) StrokeLine(_, _, _, _, _ float64, _ color.Color) { c.lines++ }
func (c *nopCanvas) FillRect(_, _, _, _ float64, _ color.Color)      { c.fills++ }

type fakePanner struct {
	panning []bool
	cursors []string
}

func (p *fakePanner) SetPanningEnabled(enabled bool) { p.panning = append(p.panning, enabled) }
func (p *fakePanner) SetCursor(style string)         { p.cursors = append(p.cursors, style) }

type memSink struct {
	name string
	data []byte
}

func (s *memSink) Deliver(name string, data []byte) error {
	s.name, s.data = name, data
	return nil
}

type fakeLoader struct {
	err   error
	paths []string
	size  viewport.Size
}

func (l *fakeLoader) LoadBackground(path string, size viewport.Size) error {
	l.paths = append(l.paths, path)
	l.size = size
	return l.err
}

func testConfig(mapW, mapH float64) *config.Config {
	return &config.Config{
		Map:    config.SizeSpec{Width: mapW, Height: mapH},
		Cell:   config.SizeSpec{Width: 40, Height: 40},
		Zoom:   config.ZoomSpec{Min: 0.75, Max: 1.25, Step: 0.25},
		Export: config.ExportSpec{Name: "map.json"},
	}
}

type fixture struct {
	ed     *Editor
	canvas *nopCanvas
	panner *fakePanner
	sink   *memSink
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, cfg *config.Config) fixture {
	t.Helper()
	f := fixture{
		canvas: &nopCanvas{},
		panner: &fakePanner{},
		sink:   &memSink{},
		logs:   &bytes.Buffer{},
	}
	f.ed = New(cfg, Host{Canvas: f.canvas, Panner: f.panner, Sink: f.sink}, log.New(f.logs, "", 0))
	return f
}

func TestNewStartsInViewMode(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))

	if f.ed.Mode() != viewport.View {
		t.Fatalf("expected View mode, got %s", f.ed.Mode())
	}
	if len(f.panner.panning) != 1 || !f.panner.panning[0] || f.panner.cursors[0] != viewport.CursorPointer {
		t.Fatalf("expected panning enabled with pointer cursor, got %v %v", f.panner.panning, f.panner.cursors)
	}
	if g := f.ed.Grid(); g.Cols() != 3 || g.Rows() != 2 {
		t.Fatalf("expected 3x2 grid, got %dx%d", g.Cols(), g.Rows())
	}
	if f.canvas.clears != 1 || f.canvas.lines != 3+2 {
		t.Fatalf("expected initial grid lines, got %d clears %d lines", f.canvas.clears, f.canvas.lines)
	}
	if f.ed.Brush() != paint.BrushObstacle {
		t.Fatalf("expected obstacle brush, got %s", f.ed.Brush())
	}
	if f.ed.ZoomLabel() != "100%" {
		t.Fatalf("unexpected zoom label %q", f.ed.ZoomLabel())
	}
}

func TestPaintThenExport(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))
	id := cp.NewTransformIdentity()

	if got := f.ed.HandlePointer(cp.Vector{X: 85, Y: 45}, id); got != paint.ResultIgnored {
		t.Fatalf("View mode should ignore paint, got %s", got)
	}

	f.ed.SetMode(viewport.Edit)
	if f.panner.panning[len(f.panner.panning)-1] {
		t.Fatal("Edit mode should disable panning")
	}
	if got := f.ed.HandlePointer(cp.Vector{X: 85, Y: 45}, id); got != paint.ResultFilled {
		t.Fatalf("expected filled, got %s", got)
	}
	if f.canvas.fills != 1 {
		t.Fatalf("expected a single fast-path fill, got %d", f.canvas.fills)
	}

	if !f.ed.CanExport() {
		t.Fatal("export should be available with a sink")
	}
	if _, err := f.ed.Export(); err != nil {
		t.Fatal(err)
	}
	if f.sink.name != "map.json" {
		t.Fatalf("unexpected export name %q", f.sink.name)
	}
	doc, err := export.Decode(f.sink.data)
	if err != nil {
		t.Fatal(err)
	}
	for x := range doc.Data {
		for y := range doc.Data[x] {
			want := 0
			if x == 2 && y == 1 {
				want = 2
			}
			if doc.Data[x][y] != want {
				t.Fatalf("data[%d][%d] = %d, want %d", x, y, doc.Data[x][y], want)
			}
		}
	}
}

func TestZoomKeepsCellCount(t *testing.T) {
	f := newFixture(t, testConfig(2862, 2304))
	g := f.ed.Grid()
	if g.Count() != 72*58 {
		t.Fatalf("expected %d cells, got %d", 72*58, g.Count())
	}

	steps := []struct {
		name  string
		zoom  func() bool
		ok    bool
		label string
	}{
		{"in", f.ed.ZoomIn, true, "125%"},
		{"in_at_max", f.ed.ZoomIn, false, "125%"},
		{"out", f.ed.ZoomOut, true, "100%"},
		{"out_again", f.ed.ZoomOut, true, "75%"},
		{"out_at_min", f.ed.ZoomOut, false, "75%"},
	}
	repaints := f.ed.Renderer().Stats().FullRepaint
	for _, s := range steps {
		if got := s.zoom(); got != s.ok {
			t.Fatalf("%s: expected %v, got %v", s.name, s.ok, got)
		}
		if s.ok {
			repaints++
		}
		if got := f.ed.Renderer().Stats().FullRepaint; got != repaints {
			t.Fatalf("%s: expected %d repaints, got %d", s.name, repaints, got)
		}
		if f.ed.ZoomLabel() != s.label {
			t.Fatalf("%s: expected label %s, got %s", s.name, s.label, f.ed.ZoomLabel())
		}
		if g.Count() != 72*58 || g.Cols() != 72 || g.Rows() != 58 {
			t.Fatalf("%s: grid dimensions changed", s.name)
		}
	}
}

func TestHandleWheel(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))
	if f.ed.HandleWheel(0) {
		t.Fatal("zero wheel delta should be ignored")
	}
	if !f.ed.HandleWheel(-1) || f.ed.Viewport().Scale() != 0.75 {
		t.Fatalf("expected zoom out to 0.75, got %v", f.ed.Viewport().Scale())
	}
	if !f.ed.HandleWheel(2) || f.ed.Viewport().Scale() != 1 {
		t.Fatalf("expected zoom in to 1, got %v", f.ed.Viewport().Scale())
	}
}

func TestExportWithoutSink(t *testing.T) {
	var logs bytes.Buffer
	ed := New(testConfig(120, 80), Host{Canvas: &nopCanvas{}}, log.New(&logs, "", 0))
	if ed.CanExport() {
		t.Fatal("export should not be offered without a sink")
	}
	if _, err := ed.Export(); !errors.Is(err, export.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(logs.String(), "export") {
		t.Fatalf("expected export failure to be logged, got %q", logs.String())
	}
}

func TestLoadBackground(t *testing.T) {
	cfg := testConfig(120, 80)
	cfg.Background = "missing.png"

	var logs bytes.Buffer
	loader := &fakeLoader{err: errors.New("no such file")}
	ed := New(cfg, Host{Canvas: &nopCanvas{}, Background: loader}, log.New(&logs, "", 0))
	if ed.Background() != "" {
		t.Fatalf("failed load should leave background unset, got %q", ed.Background())
	}
	if !strings.Contains(logs.String(), ErrAssetLoad.Error()) {
		t.Fatalf("expected asset load failure to be logged, got %q", logs.String())
	}
	if loader.size != (viewport.Size{W: 120, H: 80}) {
		t.Fatalf("background should be fitted to the baseline map, got %+v", loader.size)
	}

	loader.err = nil
	if !ed.LoadBackground("map.png") || ed.Background() != "map.png" {
		t.Fatalf("expected background to load, got %q", ed.Background())
	}
	if ed.Grid().Count() != 6 {
		t.Fatal("background load must not touch the grid")
	}
}

func TestResume(t *testing.T) {
	src := newFixture(t, testConfig(120, 80))
	_ = src.ed.Grid().Set(0, 1, grid.Road)
	_ = src.ed.Grid().Set(2, 0, grid.Obstacle)
	doc := src.ed.Document()

	dst := newFixture(t, testConfig(120, 80))
	before := dst.canvas.fills
	if err := dst.ed.Resume(doc); err != nil {
		t.Fatal(err)
	}
	if c, _ := dst.ed.Grid().Get(2, 0); c.Type != grid.Obstacle {
		t.Fatalf("expected obstacle at (2,0), got %s", c.Type)
	}
	if dst.canvas.fills-before != 2 {
		t.Fatalf("resume should repaint both painted cells, got %d fills", dst.canvas.fills-before)
	}

	other := newFixture(t, testConfig(200, 80))
	if err := other.ed.Resume(doc); !errors.Is(err, grid.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestReadout(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))
	tr := cp.NewTransformTranslate(cp.Vector{X: 10, Y: 20})

	r := f.ed.Readout(cp.Vector{X: 95, Y: 65}, tr)
	if !r.InGrid || r.Col != 2 || r.Row != 1 {
		t.Fatalf("unexpected readout %+v", r)
	}
	if r.Local != (cp.Vector{X: 85, Y: 45}) {
		t.Fatalf("unexpected local position %+v", r.Local)
	}
	if r.String() != "x: 95 y: 65  cell: 2, 1" {
		t.Fatalf("readout should show pointer pixels, got %q", r.String())
	}

	r = f.ed.Readout(cp.Vector{X: 500, Y: 20}, tr)
	if r.InGrid || r.String() != "x: 500 y: 20" {
		t.Fatalf("expected an out-of-grid readout, got %+v %q", r, r.String())
	}
}

func TestZoomLimitsAbove100(t *testing.T) {
	cfg := testConfig(120, 80)
	cfg.Zoom = config.ZoomSpec{Min: 1.5, Max: 2, Step: 0.25}
	f := newFixture(t, cfg)

	if f.ed.ZoomLabel() != "150%" {
		t.Fatalf("expected the session to start at the lowest allowed zoom, got %s", f.ed.ZoomLabel())
	}
	if !f.ed.ZoomIn() || f.ed.ZoomLabel() != "175%" {
		t.Fatalf("expected zoom in to 175%%, got %s", f.ed.ZoomLabel())
	}
	if f.ed.Grid().Count() != 6 {
		t.Fatal("grid dimensions must come from baseline sizes")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))
	f.ed.SelectBrushName("road")
	f.ed.SetMode(viewport.Edit)
	f.ed.ZoomIn()
	saved := f.ed.Prefs()
	if saved != (prefs.Prefs{Brush: "road", Mode: "Edit", Scale: 1.25}) {
		t.Fatalf("unexpected prefs %+v", saved)
	}

	g := newFixture(t, testConfig(120, 80))
	g.ed.ApplyPrefs(saved)
	if g.ed.Brush() != paint.BrushRoad || g.ed.Mode() != viewport.Edit || g.ed.Viewport().Scale() != 1.25 {
		t.Fatalf("prefs not applied: %+v", g.ed.Prefs())
	}

	g.ed.ApplyPrefs(prefs.Prefs{Brush: "lava", Mode: "Fly", Scale: 9})
	if g.ed.Prefs() != saved {
		t.Fatalf("invalid prefs should be ignored, got %+v", g.ed.Prefs())
	}
}

func TestSetPaletteRepaints(t *testing.T) {
	f := newFixture(t, testConfig(120, 80))
	before := f.ed.Renderer().Stats().FullRepaint

	p := f.ed.Renderer().Palette()
	p.Road = color.White
	f.ed.SetPalette(p)

	if f.ed.Renderer().Stats().FullRepaint != before+1 {
		t.Fatal("palette change should trigger a full repaint")
	}
	if f.ed.Renderer().Palette().Road != color.White {
		t.Fatal("palette not applied")
	}
}
