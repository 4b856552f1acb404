package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"palettize/raster"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

type Options struct {
	// Palette fixes the GIF colour table. When empty the distinct colours
	// of the raster are used if there are at most 256 of them.
	Palette color.Palette
	// JPEGQuality defaults to 100.
	JPEGQuality int
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, r *raster.Raster, format string, opts Options) error {
	if err := r.Validate(); err != nil {
		return err
	}
	img := r.Image()

	switch format {
	case "gif":
		return encodeGIF(w, img, opts.Palette)
	case "jpeg":
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = 100
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw:
		return encodeRaw(w, r)
	case FormatRawZstd:
		return encodeRawZstd(w, r)
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// Save encodes r into dir/name.<format>. The file is written under a
// temporary name and only renamed into place once fully encoded. It returns
// the final path.
func Save(r *raster.Raster, format, dir, name string, opts Options) (path string, err error) {
	destName := fmt.Sprintf("%s.%s", name, format)
	path = filepath.Join(dir, destName)

	outFile, err := os.CreateTemp(dir, destName)
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			os.Remove(outFile.Name())
			path = ""
		}
	}()

	if err = Encode(outFile, r, format, opts); err != nil {
		return "", fmt.Errorf("could not encode %s destination %q: %w", format, destName, err)
	}

	canRename = true
	return path, nil
}

// fixedQuantizer hands image/gif a preset colour table instead of letting it
// build one.
type fixedQuantizer struct {
	p color.Palette
}

func (q *fixedQuantizer) Quantize(color.Palette, image.Image) color.Palette {
	return q.p
}

func encodeGIF(w io.Writer, img *image.NRGBA, pal color.Palette) error {
	if len(pal) == 0 {
		pal = distinctColors(img, 256)
	}
	if len(pal) == 0 {
		// too many colours, let image/gif quantize
		return gif.Encode(w, img, nil)
	}
	if len(pal) > 256 {
		return fmt.Errorf("gif palette of %d colours exceeds 256", len(pal))
	}

	return gif.Encode(w, img, &gif.Options{
		NumColors: len(pal),
		Quantizer: &fixedQuantizer{p: pal},
		// pixels are already palette colours, no second dither pass
		Drawer: draw.Src,
	})
}

// distinctColors returns the opaque colours of img in first-seen order, or
// nil when there are more than limit of them.
func distinctColors(img *image.NRGBA, limit int) color.Palette {
	seen := make(map[color.RGBA]bool)
	var pal color.Palette
	for i := 0; i < len(img.Pix); i += 4 {
		c := color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xff}
		if seen[c] {
			continue
		}
		if len(pal) == limit {
			return nil
		}
		seen[c] = true
		pal = append(pal, c)
	}
	return pal
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
