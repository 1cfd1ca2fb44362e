package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/milk9111/mapgrid/grid"
	"github.com/milk9111/mapgrid/viewport"
	"golang.org/x/image/colornames"
)

// Canvas is the drawing capability supplied by the host.
type Canvas interface {
	Clear()
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
}

// Palette keys fill colors by cell type.
type Palette struct {
	Line      color.Color
	LineWidth float64
	Road      color.Color
	Obstacle  color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Line:      colornames.White,
		LineWidth: 2,
		Road:      colornames.Blue,
		Obstacle:  colornames.Black,
	}
}

// Fill returns the color for t; Normal cells are never filled.
func (p Palette) Fill(t grid.CellType) (color.Color, bool) {
	switch t {
	case grid.Road:
		return p.Road, true
	case grid.Obstacle:
		return p.Obstacle, true
	}
	return nil, false
}

// Stats counts drawing calls since the renderer was created.
type Stats struct {
	Clears      int
	Lines       int
	Fills       int
	FullRepaint int
	FastFills   int
}

func (s Stats) String() string {
	return fmt.Sprintf("repaints: %d  fast fills: %d  lines: %d  fills: %d", s.FullRepaint, s.FastFills, s.Lines, s.Fills)
}

// Renderer draws the gridline mesh and the painted cells at the viewport's
// current scale.
type Renderer struct {
	canvas  Canvas
	grid    *grid.Grid
	view    *viewport.Viewport
	palette Palette
	stats   Stats
}

func NewRenderer(c Canvas, g *grid.Grid, v *viewport.Viewport, p Palette) *Renderer {
	return &Renderer{canvas: c, grid: g, view: v, palette: p}
}

func (r *Renderer) Stats() Stats { return r.stats }

func (r *Renderer) Palette() Palette { return r.palette }

// SetPalette swaps colors; the caller decides when to repaint.
func (r *Renderer) SetPalette(p Palette) { r.palette = p }

// DrawGridLines clears the canvas and strokes one vertical line per column
// and one horizontal line per row at the current scale.
func (r *Renderer) DrawGridLines() {
	r.canvas.Clear()
	r.stats.Clears++

	mapSize := r.view.MapSize()
	cell := r.view.CellSize()

	xMax := int(math.Ceil(mapSize.W / cell.W))
	for i := 0; i < xMax; i++ {
		x := float64(i) * cell.W
		r.canvas.StrokeLine(x, 0, x, mapSize.H, r.palette.LineWidth, r.palette.Line)
		r.stats.Lines++
	}
	yMax := int(math.Ceil(mapSize.H / cell.H))
	for i := 0; i < yMax; i++ {
		y := float64(i) * cell.H
		r.canvas.StrokeLine(0, y, mapSize.W, y, r.palette.LineWidth, r.palette.Line)
		r.stats.Lines++
	}
}

// FillAll fills every non-Normal cell. It does not clear first.
func (r *Renderer) FillAll() {
	r.grid.Each(func(c grid.Cell) {
		if c.IsNormal() {
			return
		}
		r.fill(c.X, c.Y, c.Type)
	})
}

// FillOne draws a single cell on top of whatever is already on the canvas.
// Gridlines are not redrawn, so the result can differ slightly from what
// Repaint produces for the same grid.
func (r *Renderer) FillOne(x, y int, t grid.CellType) {
	r.stats.FastFills++
	r.fill(x, y, t)
}

// Repaint redraws everything: lines first, then fills.
func (r *Renderer) Repaint() {
	r.stats.FullRepaint++
	r.DrawGridLines()
	r.FillAll()
}

func (r *Renderer) fill(x, y int, t grid.CellType) {
	c, ok := r.palette.Fill(t)
	if !ok {
		return
	}
	mapSize := r.view.MapSize()
	cell := r.view.CellSize()
	w, h := grid.FillRectOf(x, y, cell.W, cell.H, mapSize.W, mapSize.H, r.grid.MaxCol(), r.grid.MaxRow())
	bb := grid.CellBounds(x, y, cell.W, cell.H, w, h)
	r.canvas.FillRect(bb.L, bb.B, bb.R-bb.L, bb.T-bb.B, c)
	r.stats.Fills++
}
