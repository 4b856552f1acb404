package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrInvalidDimensions is returned whenever a width or height is zero or
// negative, or a pixel buffer does not match its declared size.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// bytes per pixel: r, g, b, a uint8 = 4
const bpp = 4

type Raster struct {
	Width  int
	Height int
	// Pix holds the pixels in row-major order, 4 bytes per pixel, as
	// non-premultiplied R, G, B, A. The pixel at (x, y) starts at
	// Pix[(y*Width + x)*4].
	Pix []uint8
}

func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*bpp),
	}, nil
}

// FromImage copies img into a new raster. The image's bounds origin is
// translated to (0, 0).
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	r, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok {
		// straight copy keeps the colour of translucent pixels intact
		for y := 0; y < r.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(r.Pix[y*r.Width*bpp:(y+1)*r.Width*bpp], src.Pix[off:off+r.Width*bpp])
		}
		return r, nil
	}

	draw.Draw(r.Image(), image.Rect(0, 0, r.Width, r.Height), img, b.Min, draw.Src)
	return r, nil
}

func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidDimensions)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height*bpp {
		return fmt.Errorf("%w: %dx%d raster holds %d bytes", ErrInvalidDimensions, r.Width, r.Height, len(r.Pix))
	}
	return nil
}

// Image returns an *image.NRGBA view sharing the raster's pixel buffer.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * bpp,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

func (r *Raster) Clone() *Raster {
	return &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    append([]uint8(nil), r.Pix...),
	}
}

func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * bpp
}

func (r *Raster) NRGBAAt(x, y int) color.NRGBA {
	i := r.Offset(x, y)
	s := r.Pix[i : i+bpp : i+bpp]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

func (r *Raster) SetNRGBA(x, y int, c color.NRGBA) {
	i := r.Offset(x, y)
	s := r.Pix[i : i+bpp : i+bpp]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (r *Raster) Fill(c color.NRGBA) {
	for i := 0; i < len(r.Pix); i += bpp {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2], r.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Equal reports whether both rasters have the same size and pixel bytes.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}
