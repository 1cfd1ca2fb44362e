package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/mapgrid/viewport"
)

// gridCanvas is the offscreen image the renderer draws the mesh and cell
// fills into. It is sized for the largest zoom so a rescale never reallocates.
type gridCanvas struct {
	img *ebiten.Image
}

func newGridCanvas(baseMap viewport.Size, limits viewport.Limits) *gridCanvas {
	w := int(math.Ceil(baseMap.W * limits.Max))
	h := int(math.Ceil(baseMap.H * limits.Max))
	return &gridCanvas{img: ebiten.NewImage(max(w, 1), max(h, 1))}
}

func (c *gridCanvas) Clear() { c.img.Clear() }

func (c *gridCanvas) StrokeLine(x0, y0, x1, y1, width float64, clr color.Color) {
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (c *gridCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.FillRect(c.img, float32(x), float32(y), float32(w), float32(h), clr, false)
}
