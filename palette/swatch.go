package palette

import (
	"image"
	"image/color"
)

// Swatch renders the palette as a row of tile x tile squares, one per
// entry, in palette order.
func (p *Palette) Swatch(tile int) *image.NRGBA {
	if tile <= 0 {
		tile = 32
	}

	img := image.NewNRGBA(image.Rect(0, 0, tile*len(p.colors), tile))
	for i, c := range p.colors {
		col := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
		x0 := i * tile
		for y := range tile {
			for x := x0; x < x0+tile; x++ {
				img.SetNRGBA(x, y, col)
			}
		}
	}
	return img
}
