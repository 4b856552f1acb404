// Package report measures how far a dithered output strays from the raster
// it was produced from.
package report

import (
	"fmt"
	"math"

	"palettize/dither"
	"palettize/raster"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Channel holds the error statistics of one colour channel.
type Channel struct {
	MeanAbs float64
	RMSE    float64
	// PSNR in dB, +Inf for identical channels.
	PSNR float64
	// Shift is the output mean minus the reference mean. Error diffusion
	// keeps it close to zero.
	Shift float64
}

type Summary struct {
	Width    int
	Height   int
	Channels [3]Channel
	RMSE     float64
	PSNR     float64
	// Usage is the fraction of pixels per palette entry.
	Usage []float64
	// Used counts palette entries that appear at least once.
	Used int
	// Entropy of Usage in bits.
	Entropy float64
	Stats   dither.Stats
}

// Summarize compares out against ref, the raster it was dithered from.
func Summarize(ref *raster.Raster, out *dither.Indexed) (*Summary, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if out == nil || out.Width != ref.Width || out.Height != ref.Height {
		return nil, fmt.Errorf("%w: output does not match the %dx%d reference", raster.ErrInvalidDimensions, ref.Width, ref.Height)
	}

	n := ref.Width * ref.Height
	s := &Summary{Width: ref.Width, Height: ref.Height, Stats: out.Stats}

	want := make([]float64, n)
	got := make([]float64, n)
	diff := make([]float64, n)
	var sumSq float64
	for ch := range 3 {
		for i, idx := range out.Index {
			c := out.Palette.At(idx)
			want[i] = float64(ref.Pix[i*4+ch])
			got[i] = float64([3]uint8{c.R, c.G, c.B}[ch])
		}
		floats.SubTo(diff, got, want)

		l2 := floats.Norm(diff, 2)
		sumSq += l2 * l2
		rmse := l2 / math.Sqrt(float64(n))
		s.Channels[ch] = Channel{
			MeanAbs: floats.Norm(diff, 1) / float64(n),
			RMSE:    rmse,
			PSNR:    psnr(rmse),
			Shift:   stat.Mean(got, nil) - stat.Mean(want, nil),
		}
	}
	s.RMSE = math.Sqrt(sumSq / float64(3*n))
	s.PSNR = psnr(s.RMSE)

	hist := out.Histogram()
	s.Usage = make([]float64, len(hist))
	for i, c := range hist {
		s.Usage[i] = float64(c)
		if c > 0 {
			s.Used++
		}
	}
	floats.Scale(1/float64(n), s.Usage)
	s.Entropy = stat.Entropy(s.Usage) / math.Ln2

	return s, nil
}

func psnr(rmse float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255/rmse)
}

// LogAttrs flattens the summary into slog key/value pairs.
func (s *Summary) LogAttrs() []any {
	return []any{
		"width", s.Width,
		"height", s.Height,
		"rmse", round(s.RMSE),
		"psnr", round(s.PSNR),
		"shift_r", round(s.Channels[0].Shift),
		"shift_g", round(s.Channels[1].Shift),
		"shift_b", round(s.Channels[2].Shift),
		"colors_used", s.Used,
		"entropy", round(s.Entropy),
		"error_generated", round(s.Stats.Generated),
		"error_diffused", round(s.Stats.Diffused),
		"suppressed", s.Stats.Suppressed,
	}
}

func round(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*1000) / 1000
}
