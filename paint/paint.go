package paint

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mapgrid/grid"
	"github.com/milk9111/mapgrid/viewport"
)

// Brush is the cell type the next paint operation applies.
type Brush grid.CellType

const (
	BrushClear    = Brush(grid.Normal)
	BrushRoad     = Brush(grid.Road)
	BrushObstacle = Brush(grid.Obstacle)
)

func (b Brush) CellType() grid.CellType { return grid.CellType(b) }

func (b Brush) String() string {
	switch b {
	case BrushClear:
		return "clear"
	case BrushRoad:
		return "road"
	case BrushObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// ParseBrush maps the toolbar names onto brushes.
func ParseBrush(name string) (Brush, bool) {
	switch name {
	case "obstacle":
		return BrushObstacle, true
	case "road":
		return BrushRoad, true
	case "clear":
		return BrushClear, true
	}
	return BrushClear, false
}

// Result describes what a paint gesture did.
type Result int

const (
	ResultIgnored   Result = iota // not in Edit mode
	ResultNotFound                // pointer outside the grid
	ResultNoOp                    // painted cell protected from a non-clear brush
	ResultFilled                  // fast path: one rect drawn
	ResultRepainted               // cleared cell, full repaint
)

func (r Result) String() string {
	switch r {
	case ResultIgnored:
		return "ignored"
	case ResultNotFound:
		return "not found"
	case ResultNoOp:
		return "no-op"
	case ResultFilled:
		return "filled"
	case ResultRepainted:
		return "repainted"
	default:
		return "unknown"
	}
}

// Drawer is the part of the renderer the engine needs.
type Drawer interface {
	FillOne(x, y int, t grid.CellType)
	Repaint()
}

// Engine applies the active brush to the cell under the pointer.
type Engine struct {
	grid   *grid.Grid
	view   *viewport.Viewport
	drawer Drawer
	brush  Brush
	logger *log.Logger
}

// NewEngine starts with the obstacle brush selected.
func NewEngine(g *grid.Grid, v *viewport.Viewport, d Drawer, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{grid: g, view: v, drawer: d, brush: BrushObstacle, logger: logger}
}

func (e *Engine) Brush() Brush { return e.brush }

// SelectBrush ignores values outside the closed brush set.
func (e *Engine) SelectBrush(b Brush) {
	switch b {
	case BrushClear, BrushRoad, BrushObstacle:
		e.brush = b
	}
}

// SelectBrushName selects by toolbar name; unknown names are ignored.
func (e *Engine) SelectBrushName(name string) bool {
	b, ok := ParseBrush(name)
	if !ok {
		return false
	}
	e.SelectBrush(b)
	return true
}

// Apply resolves the pointer to a cell and paints it.
func (e *Engine) Apply(pointer cp.Vector, mapTransform cp.Transform) Result {
	if !e.view.CanPaint() {
		return ResultIgnored
	}
	cell := e.view.CellSize()
	local := grid.ToLocal(pointer, mapTransform)
	x, y := grid.CellIndexOf(local, cell.W, cell.H)
	return e.ApplyCell(x, y)
}

// ApplyCell paints cell (x, y). A non-clear brush never overwrites a painted
// cell. Clearing always triggers a full repaint because a drawn rect cannot be
// erased on its own.
func (e *Engine) ApplyCell(x, y int) Result {
	if !e.view.CanPaint() {
		return ResultIgnored
	}
	target, err := e.grid.Get(x, y)
	if err != nil {
		e.logger.Printf("paint: cell not found: %v", err)
		return ResultNotFound
	}
	if e.brush != BrushClear && !target.IsNormal() {
		return ResultNoOp
	}
	if err := e.grid.Set(x, y, e.brush.CellType()); err != nil {
		e.logger.Printf("paint: set (%d,%d): %v", x, y, err)
		return ResultNotFound
	}
	if e.brush == BrushClear {
		e.drawer.Repaint()
		return ResultRepainted
	}
	e.drawer.FillOne(x, y, e.brush.CellType())
	return ResultFilled
}
