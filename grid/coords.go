package grid

import (
	"math"

	"github.com/jakecoffman/cp"
)

// FillInset is the fraction trimmed off each filled cell so the gridline
// underneath stays visible. It only affects drawing.
const FillInset = 0.05

// ToLocal maps a pointer position into the map's local space. mapTransform
// takes map-local coordinates to pointer coordinates, as the host view
// positions and scales the map node.
func ToLocal(pointer cp.Vector, mapTransform cp.Transform) cp.Vector {
	return mapTransform.Inverse().Point(pointer)
}

// CellIndexOf floors a local position onto cell indices. The result is not
// clamped; check it with Grid.Contains before use.
func CellIndexOf(local cp.Vector, cellW, cellH float64) (x, y int) {
	return int(math.Floor(local.X / cellW)), int(math.Floor(local.Y / cellH))
}

// FillRectOf returns the size of the rectangle painted for cell (x, y).
// The last column and row are cut back so they end at the map edge, then
// both sides lose FillInset.
func FillRectOf(x, y int, cellW, cellH, mapW, mapH float64, maxCol, maxRow int) (w, h float64) {
	w, h = cellW, cellH
	if x >= maxCol {
		w = cellW - (float64(maxCol+1)*cellW - mapW)
	}
	if y >= maxRow {
		h = cellH - (float64(maxRow+1)*cellH - mapH)
	}
	w -= w * FillInset
	h -= h * FillInset
	return w, h
}

// CellBounds places a w×h fill rectangle at the origin of cell (x, y).
func CellBounds(x, y int, cellW, cellH, w, h float64) cp.BB {
	l := float64(x) * cellW
	b := float64(y) * cellH
	return cp.BB{L: l, B: b, R: l + w, T: b + h}
}
