package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/mapgrid/viewport"
)

// background holds the decoded image drawn under the grid, pre-scaled to the
// baseline map size.
type background struct {
	img *ebiten.Image
}

func (b *background) LoadBackground(path string, size viewport.Size) error {
	f, err := os.Open(path)
	if err != nil {
		b.img = nil
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		b.img = nil
		return fmt.Errorf("decode: %w", err)
	}
	b.img = scaleImageToCanvas(img, int(math.Round(size.W)), int(math.Round(size.H)))
	return nil
}

// Draw renders the background at the current zoom with its origin at
// (offsetX, offsetY).
func (b *background) Draw(screen *ebiten.Image, zoom, offsetX, offsetY float64) {
	if b == nil || b.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(zoom, zoom)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(b.img, op)
}

// scaleImageToCanvas scales the decoded image to the requested target dimensions
// and returns an *ebiten.Image containing the scaled pixels.
func scaleImageToCanvas(img image.Image, targetW, targetH int) *ebiten.Image {
	if img == nil || targetW <= 0 || targetH <= 0 {
		return nil
	}
	src := ebiten.NewImageFromImage(img)
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw == targetW && sh == targetH {
		return src
	}
	dst := ebiten.NewImage(targetW, targetH)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(targetW)/float64(sw), float64(targetH)/float64(sh))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
	return dst
}
