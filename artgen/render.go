// Package artgen renders the procedural logo used as the default pipeline
// source: the logo outlines filled with a random multi-stop gradient,
// rotated and scaled by random amounts.
package artgen

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"

	"palettize/raster"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultSize = 400

	stopSaturation = 0.83
	stopLightness  = 0.71
)

// Params are the random choices behind one rendering.
type Params struct {
	// Hues of the gradient stops in degrees, evenly spaced from start to end.
	Hues []float64
	// GradientX and GradientY give the gradient start as a fraction of the
	// canvas; it always runs towards the bottom right corner.
	GradientX float64
	GradientY float64
	// Rotation in degrees, in [-30, 30).
	Rotation float64
	// Scale in [0.7, 0.9).
	Scale float64
}

// NewParams derives rendering parameters from seed. Equal seeds give equal
// parameters.
func NewParams(seed uint64) Params {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	golden := NewGoldenSequence(rng.Float64())

	angle := rng.Float64() * 2 * math.Pi
	p := Params{
		GradientX: math.Round(math.Cos(angle)*100) / 100,
		GradientY: math.Round(math.Sin(angle)*100) / 100,
	}

	stops := 2 + rng.IntN(2)
	for range stops {
		p.Hues = append(p.Hues, math.Round(golden.Next()*360))
	}

	p.Rotation = rng.Float64()*60 - 30
	p.Scale = 0.7 + rng.Float64()*0.2
	return p
}

// Colors returns the gradient stop colours.
func (p Params) Colors() []colorful.Color {
	cols := make([]colorful.Color, len(p.Hues))
	for i, h := range p.Hues {
		cols[i] = colorful.Hsl(h, stopSaturation, stopLightness).Clamped()
	}
	return cols
}

type Options struct {
	// Size is the side of the square canvas, DefaultSize when zero.
	Size int
	// Background fills the canvas before drawing. Nil leaves it transparent.
	Background color.Color
	Logger     *slog.Logger
}

// Render draws the logo with p onto a new raster.
func Render(p Params, opts Options) (*raster.Raster, error) {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: canvas size %d", raster.ErrInvalidDimensions, size)
	}
	if len(p.Hues) == 0 {
		return nil, fmt.Errorf("no gradient stops")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := LogoPaths()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(size, size)
	defer dc.Close()

	if opts.Background != nil {
		dc.ClearWithColor(gg.FromColor(opts.Background))
	}

	// gradient coordinates are in canvas pixels
	s := float64(size)
	grad := gg.NewLinearGradientBrush(p.GradientX*s, p.GradientY*s, s, s)
	cols := p.Colors()
	for i, c := range cols {
		offset := 0.0
		if len(cols) > 1 {
			offset = float64(i) / float64(len(cols)-1)
		}
		grad.AddColorStop(offset, gg.FromColor(c))
	}
	dc.SetFillBrush(grad)
	dc.SetLineWidth(1)

	// rotate and scale about the canvas centre, then map the view box
	dc.Translate(s/2, s/2)
	dc.Rotate(p.Rotation * math.Pi / 180)
	dc.Scale(p.Scale*s/LogoViewBox, p.Scale*s/LogoViewBox)
	dc.Translate(-LogoViewBox/2, -LogoViewBox/2)

	for i, path := range paths {
		path.Replay(dc)
		if err := dc.FillPreserve(); err != nil {
			return nil, fmt.Errorf("could not fill logo path %d: %w", i, err)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("could not stroke logo path %d: %w", i, err)
		}
	}

	logger.Debug("logo rendered", "size", size, "hues", p.Hues,
		"rotation", p.Rotation, "scale", p.Scale)
	return raster.FromImage(dc.Image())
}
