package editor

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mapgrid/grid"
)

// Readout is the coordinate line shown while the pointer moves over the map:
// the pointer's window pixel position and the cell under it.
type Readout struct {
	Pointer cp.Vector
	Local   cp.Vector
	Col     int
	Row     int
	InGrid  bool
}

func (r Readout) String() string {
	px := fmt.Sprintf("x: %d y: %d", int(math.Floor(r.Pointer.X)), int(math.Floor(r.Pointer.Y)))
	if !r.InGrid {
		return px
	}
	return fmt.Sprintf("%s  cell: %d, %d", px, r.Col, r.Row)
}

// Readout resolves the pointer the same way painting does, without touching
// the grid.
func (e *Editor) Readout(pointer cp.Vector, mapTransform cp.Transform) Readout {
	cell := e.view.CellSize()
	local := grid.ToLocal(pointer, mapTransform)
	x, y := grid.CellIndexOf(local, cell.W, cell.H)
	return Readout{Pointer: pointer, Local: local, Col: x, Row: y, InGrid: e.grid.Contains(x, y)}
}
