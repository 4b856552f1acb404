package dither

import (
	"fmt"
	"image"
	"math"

	"palettize/palette"
	"palettize/raster"
)

type Options struct {
	// Serpentine scans odd rows right to left.
	Serpentine bool
	// Delta suppresses diffusion for pixels whose normalized distance to
	// the chosen palette entry is below it. Zero always diffuses.
	Delta  float64
	Metric palette.Metric
}

type Ditherer struct {
	pal    *palette.Palette
	kernel *Kernel
	opts   Options
}

func New(pal *palette.Palette, kernel *Kernel, opts Options) (*Ditherer, error) {
	if pal == nil || pal.Len() == 0 {
		return nil, fmt.Errorf("%w: no colours", palette.ErrInvalidPalette)
	}
	if kernel == nil || len(kernel.taps) == 0 {
		return nil, fmt.Errorf("%w: no kernel", ErrInvalidKernel)
	}
	if opts.Delta < 0 || math.IsNaN(opts.Delta) {
		return nil, fmt.Errorf("invalid dither delta: %v", opts.Delta)
	}
	return &Ditherer{pal: pal, kernel: kernel, opts: opts}, nil
}

// Stats sums absolute per-channel error over a dither pass.
type Stats struct {
	// Generated is the quantization error produced by all pixels.
	Generated float64
	// Diffused is the part of Generated handed on to other pixels.
	Diffused float64
	// Suppressed counts pixels that diffused nothing because of Delta.
	Suppressed int
}

// Indexed is a dithered raster: one palette index per pixel plus the
// source alpha.
type Indexed struct {
	Width   int
	Height  int
	Index   []int
	Alpha   []uint8
	Palette *palette.Palette
	Stats   Stats
}

// Dither maps every pixel of src to a palette entry, diffusing the
// quantization error of each pixel onto its unvisited neighbours. Error
// aimed outside the raster is dropped.
func (d *Ditherer) Dither(src *raster.Raster) (*Indexed, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	out := &Indexed{
		Width:   w,
		Height:  h,
		Index:   make([]int, w*h),
		Alpha:   make([]uint8, w*h),
		Palette: d.pal,
	}

	// working colour per pixel, 3 floats each
	work := make([]float64, w*h*3)
	for i := range w * h {
		work[i*3] = float64(src.Pix[i*4])
		work[i*3+1] = float64(src.Pix[i*4+1])
		work[i*3+2] = float64(src.Pix[i*4+2])
		out.Alpha[i] = src.Pix[i*4+3]
	}

	var stats Stats
	taps := d.kernel.taps
	for y := range h {
		x0, x1, dir := 0, w, 1
		if d.opts.Serpentine && y%2 == 1 {
			x0, x1, dir = w-1, -1, -1
		}

		for x := x0; x != x1; x += dir {
			i := y*w + x
			r := clamp(work[i*3])
			g := clamp(work[i*3+1])
			b := clamp(work[i*3+2])

			idx, dist := d.pal.Nearest(r, g, b, d.opts.Metric)
			out.Index[i] = idx

			c := d.pal.At(idx)
			er := r - float64(c.R)
			eg := g - float64(c.G)
			eb := b - float64(c.B)
			e := math.Abs(er) + math.Abs(eg) + math.Abs(eb)
			stats.Generated += e

			if d.opts.Delta > 0 && d.opts.Metric.Normalized(dist) < d.opts.Delta {
				stats.Suppressed++
				continue
			}

			for _, t := range taps {
				nx, ny := x+t.Col*dir, y+t.Row
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				j := (ny*w + nx) * 3
				work[j] += er * t.Weight
				work[j+1] += eg * t.Weight
				work[j+2] += eb * t.Weight
				stats.Diffused += e * t.Weight
			}
		}
	}

	out.Stats = stats
	return out, nil
}

// Raster renders the palette colours with the source alpha.
func (ix *Indexed) Raster() *raster.Raster {
	r := &raster.Raster{Width: ix.Width, Height: ix.Height, Pix: make([]uint8, ix.Width*ix.Height*4)}
	for i, idx := range ix.Index {
		c := ix.Palette.At(idx)
		s := r.Pix[i*4 : i*4+4 : i*4+4]
		s[0], s[1], s[2], s[3] = c.R, c.G, c.B, ix.Alpha[i]
	}
	return r
}

// Paletted returns the indices as an opaque *image.Paletted. It fails for
// palettes of more than 256 colours.
func (ix *Indexed) Paletted() (*image.Paletted, error) {
	if ix.Palette.Len() > 256 {
		return nil, fmt.Errorf("%w: %d colours do not fit a paletted image", palette.ErrInvalidPalette, ix.Palette.Len())
	}

	img := image.NewPaletted(image.Rect(0, 0, ix.Width, ix.Height), ix.Palette.ColorPalette())
	for i, idx := range ix.Index {
		img.Pix[i] = uint8(idx)
	}
	return img, nil
}

// Histogram counts how many pixels use each palette entry.
func (ix *Indexed) Histogram() []int {
	counts := make([]int, ix.Palette.Len())
	for _, idx := range ix.Index {
		counts[idx]++
	}
	return counts
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return v
}
