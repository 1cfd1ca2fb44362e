package grid

import (
	"errors"
	"fmt"
	"math"
)

// CellType is the metadata painted onto a cell. The numeric values are the
// codes written to exported documents.
type CellType int

const (
	Normal CellType = iota
	Road
	Obstacle
)

func (t CellType) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Road:
		return "Road"
	case Obstacle:
		return "Obstacle"
	default:
		return "Unknown"
	}
}

// ParseCellType converts an exported type code back into a CellType.
func ParseCellType(code int) (CellType, bool) {
	t := CellType(code)
	switch t {
	case Normal, Road, Obstacle:
		return t, true
	}
	return Normal, false
}

var (
	ErrOutOfRange    = errors.New("cell index out of range")
	ErrInvalidType   = errors.New("invalid cell type")
	ErrShapeMismatch = errors.New("matrix shape does not match grid")
)

// Cell is one grid unit. X and Y never change after creation.
type Cell struct {
	X    int
	Y    int
	Type CellType
}

func (c Cell) IsNormal() bool { return c.Type == Normal }

// Grid stores cells column-major: cells[x][y].
type Grid struct {
	cols, rows int
	cells      [][]Cell
}

// New allocates a grid with every cell Normal.
func New(cols, rows int) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	cells := make([][]Cell, cols)
	for x := 0; x < cols; x++ {
		cells[x] = make([]Cell, rows)
		for y := 0; y < rows; y++ {
			cells[x][y] = Cell{X: x, Y: y, Type: Normal}
		}
	}
	return &Grid{cols: cols, rows: rows, cells: cells}
}

// Dimensions returns how many cells of size cellW×cellH it takes to cover a
// mapW×mapH map. A partial last column or row still counts as a cell.
func Dimensions(mapW, mapH, cellW, cellH float64) (cols, rows int) {
	if cellW <= 0 || cellH <= 0 {
		return 0, 0
	}
	return int(math.Ceil(mapW / cellW)), int(math.Ceil(mapH / cellH))
}

// NewForMap sizes a grid from baseline map and cell pixel sizes.
func NewForMap(mapW, mapH, cellW, cellH float64) *Grid {
	return New(Dimensions(mapW, mapH, cellW, cellH))
}

func (g *Grid) Cols() int  { return g.cols }
func (g *Grid) Rows() int  { return g.rows }
func (g *Grid) Count() int { return g.cols * g.rows }

// MaxCol and MaxRow are the indices of the last column and row.
func (g *Grid) MaxCol() int { return g.cols - 1 }
func (g *Grid) MaxRow() int { return g.rows - 1 }

func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g *Grid) Get(x, y int) (Cell, error) {
	if !g.Contains(x, y) {
		return Cell{}, fmt.Errorf("grid: get (%d,%d): %w", x, y, ErrOutOfRange)
	}
	return g.cells[x][y], nil
}

// Set assigns the cell's type. Redrawing is up to the caller.
func (g *Grid) Set(x, y int, t CellType) error {
	if !g.Contains(x, y) {
		return fmt.Errorf("grid: set (%d,%d): %w", x, y, ErrOutOfRange)
	}
	if _, ok := ParseCellType(int(t)); !ok {
		return fmt.Errorf("grid: set (%d,%d) to %d: %w", x, y, int(t), ErrInvalidType)
	}
	g.cells[x][y].Type = t
	return nil
}

// Each calls fn for every cell, column by column.
func (g *Grid) Each(fn func(c Cell)) {
	for x := range g.cells {
		for y := range g.cells[x] {
			fn(g.cells[x][y])
		}
	}
}

// ToMatrix snapshots the type codes; the outer index is the column.
func (g *Grid) ToMatrix() [][]int {
	data := make([][]int, g.cols)
	for x := 0; x < g.cols; x++ {
		data[x] = make([]int, g.rows)
		for y := 0; y < g.rows; y++ {
			data[x][y] = int(g.cells[x][y].Type)
		}
	}
	return data
}

// Load replaces every cell type from a matrix produced by ToMatrix. The grid
// is left untouched when the matrix has the wrong shape or an unknown code.
func (g *Grid) Load(data [][]int) error {
	if len(data) != g.cols {
		return fmt.Errorf("grid: load: %d columns, want %d: %w", len(data), g.cols, ErrShapeMismatch)
	}
	for x, col := range data {
		if len(col) != g.rows {
			return fmt.Errorf("grid: load: column %d has %d rows, want %d: %w", x, len(col), g.rows, ErrShapeMismatch)
		}
		for y, code := range col {
			if _, ok := ParseCellType(code); !ok {
				return fmt.Errorf("grid: load (%d,%d) code %d: %w", x, y, code, ErrInvalidType)
			}
		}
	}
	for x, col := range data {
		for y, code := range col {
			g.cells[x][y].Type = CellType(code)
		}
	}
	return nil
}
