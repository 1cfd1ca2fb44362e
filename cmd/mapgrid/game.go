package main

import (
	"image/color"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mapgrid/config"
	"github.com/milk9111/mapgrid/editor"
	"github.com/milk9111/mapgrid/paint"
	"github.com/milk9111/mapgrid/viewport"
)

var backdrop = color.RGBA{30, 30, 30, 255}

// Game hosts an editor session in an ebiten window. It also provides the
// panning capability the viewport toggles on mode changes.
type Game struct {
	ed      *editor.Editor
	canvas  *gridCanvas
	bg      *background
	ui      *ebitenui.UI
	toolbar *toolbar

	watcher        *config.Watcher
	configPath     string
	backgroundPath string

	panEnabled bool
	isPanning  bool
	lastPanX   int
	lastPanY   int
	panX       float64
	panY       float64

	readout string
	status  string
}

func (g *Game) SetPanningEnabled(enabled bool) {
	g.panEnabled = enabled
	if !enabled {
		g.isPanning = false
	}
}

func (g *Game) SetCursor(style string) {
	switch style {
	case viewport.CursorCrosshair:
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	case viewport.CursorPointer:
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// mapTransform maps map-local pixels to screen pixels.
func (g *Game) mapTransform() cp.Transform {
	return cp.NewTransformTranslate(cp.Vector{X: g.panX, Y: g.panY + toolbarHeight})
}

func (g *Game) setMode(m viewport.Mode) {
	g.ed.SetMode(m)
	if g.toolbar != nil {
		g.toolbar.modes.SetActive(int(m))
	}
}

func (g *Game) setBrush(b paint.Brush) {
	g.ed.SelectBrush(b)
	if g.toolbar != nil {
		g.toolbar.brushes.SetActive(brushIndex(b))
	}
}

func (g *Game) export() {
	if !g.ed.CanExport() {
		return
	}
	b, err := g.ed.Export()
	if err != nil {
		g.status = "export failed: " + err.Error()
		return
	}
	g.status = "exported " + humanBytes(len(b))
}

func (g *Game) Update() error {
	g.drainWatcher()

	if g.ui != nil {
		g.ui.Update()
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.export()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.setMode(viewport.View)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.setMode(viewport.Edit)
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.setBrush(paint.BrushObstacle)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.setBrush(paint.BrushRoad)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.setBrush(paint.BrushClear)
	}

	if _, wy := ebiten.Wheel(); wy != 0 && g.ed.HandleWheel(wy) {
		g.toolbar.zoom.Label = g.ed.ZoomLabel()
	}

	mx, my := ebiten.CursorPosition()
	pointer := cp.Vector{X: float64(mx), Y: float64(my)}
	overMap := my >= toolbarHeight

	// Dragging with the left or middle button pans while in View mode.
	panPressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if g.panEnabled && overMap && !g.isPanning && panPressed {
		g.isPanning = true
		g.lastPanX, g.lastPanY = mx, my
	}
	if g.isPanning {
		if !panPressed {
			g.isPanning = false
		} else {
			g.panX += float64(mx - g.lastPanX)
			g.panY += float64(my - g.lastPanY)
			g.lastPanX, g.lastPanY = mx, my
		}
	}

	if overMap && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.ed.HandlePointer(pointer, g.mapTransform())
	}

	if overMap {
		g.readout = g.ed.Readout(pointer, g.mapTransform()).String()
	} else {
		g.readout = ""
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)

	ox, oy := g.panX, g.panY+toolbarHeight
	g.bg.Draw(screen, g.ed.Viewport().Scale(), ox, oy)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ox, oy)
	screen.DrawImage(g.canvas.img, op)

	if g.ui != nil {
		g.ui.Draw(screen)
	}

	y := toolbarHeight + 8
	ebitenutil.DebugPrintAt(screen, g.ed.Mode().String()+"  brush: "+g.ed.Brush().String(), 8, y)
	if g.readout != "" {
		ebitenutil.DebugPrintAt(screen, g.readout, 8, y+18)
	}
	ebitenutil.DebugPrintAt(screen, g.ed.Renderer().Stats().String(), 8, y+36)
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 8, y+54)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// drainWatcher applies config and background changes reported since the last
// frame.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.onFileChanged(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) onFileChanged(name string) {
	if g.configPath != "" && sameFile(name, g.configPath) {
		cfg, err := config.Load(g.configPath)
		if err != nil {
			log.Printf("config reload: %v", err)
			return
		}
		log.Println("config reloaded")
		g.ed.SetPalette(cfg.Palette())
		if cfg.Background != "" && !sameFile(cfg.Background, g.backgroundPath) {
			g.backgroundPath = cfg.Background
			g.ed.LoadBackground(g.backgroundPath)
		}
		return
	}
	if g.backgroundPath != "" && sameFile(name, g.backgroundPath) {
		log.Printf("background changed: %s", g.backgroundPath)
		g.ed.LoadBackground(g.backgroundPath)
	}
}

func sameFile(a, b string) bool {
	aa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	bb, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return aa == bb
}
