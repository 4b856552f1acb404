package resample

import (
	"fmt"
	"log/slog"
	"strings"

	"palettize/raster"

	"golang.org/x/image/draw"
)

// Box averages every source pixel covered by a destination pixel with equal
// weight. When downscaling, x/image/draw stretches the kernel support by the
// scale factor, which turns this into an area filter.
var Box = &draw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t <= 0.5 {
			return 1
		}
		return 0
	},
}

var filters = map[string]draw.Interpolator{
	"box":            Box,
	"nearest":        draw.NearestNeighbor,
	"approxbilinear": draw.ApproxBiLinear,
	"bilinear":       draw.BiLinear,
	"catmullrom":     draw.CatmullRom,
}

// FilterNames lists the accepted Options.Filter values.
func FilterNames() []string {
	return []string{"box", "nearest", "approxbilinear", "bilinear", "catmullrom"}
}

type Halving int

const (
	// HalveDominant keeps halving while either dimension must shrink by
	// more than 2x.
	HalveDominant Halving = iota
	// HalveWidth only looks at the width, like the original canvas code.
	HalveWidth
)

func ParseHalving(s string) (Halving, error) {
	switch strings.ToLower(s) {
	case "", "dominant":
		return HalveDominant, nil
	case "width":
		return HalveWidth, nil
	}
	return HalveDominant, fmt.Errorf("unknown halving policy: %q", s)
}

func (h Halving) String() string {
	if h == HalveWidth {
		return "width"
	}
	return "dominant"
}

func (p Halving) more(cw, ch, w, h int) bool {
	if p == HalveWidth {
		return float64(cw)*0.5 > float64(w)
	}
	return cw > 2*w || ch > 2*h
}

type Options struct {
	// Filter names the interpolator, see FilterNames. Empty means box.
	Filter  string
	Halving Halving
	Logger  *slog.Logger
}

func (o Options) interpolator() (draw.Interpolator, error) {
	if o.Filter == "" {
		return Box, nil
	}
	f, ok := filters[strings.ToLower(o.Filter)]
	if !ok {
		return nil, fmt.Errorf("unknown resample filter: %q", o.Filter)
	}
	return f, nil
}

// Fit returns the largest size with the source aspect ratio that fits in
// width x height. The longer source side takes its bound, the other side is
// floored and never below 1.
func Fit(srcWidth, srcHeight, width, height int) (int, int) {
	if width*srcHeight <= height*srcWidth {
		return width, max(1, srcHeight*width/srcWidth)
	}
	return max(1, srcWidth*height/srcHeight), height
}

// Resize shrinks src to fit in width x height. Sources already within the
// bounds are returned as is; Resize never upscales. Large reductions first
// halve the raster repeatedly, then finish with a single resample to the
// exact size.
func Resize(src *raster.Raster, width, height int, opts Options) (*raster.Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", raster.ErrInvalidDimensions, width, height)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}

	interp, err := opts.interpolator()
	if err != nil {
		return nil, err
	}

	if src.Width <= width && src.Height <= height {
		return src, nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, h := Fit(src.Width, src.Height, width, height)
	cur := src
	for opts.Halving.more(cur.Width, cur.Height, w, h) {
		half, err := scale(interp, cur, max(1, cur.Width/2), max(1, cur.Height/2))
		if err != nil {
			return nil, err
		}
		logger.Debug("halving", "from_width", cur.Width, "from_height", cur.Height,
			"width", half.Width, "height", half.Height)
		cur = half
	}

	logger.Debug("resizing", "from_width", cur.Width, "from_height", cur.Height, "width", w, "height", h)
	return scale(interp, cur, w, h)
}

func scale(interp draw.Interpolator, src *raster.Raster, width, height int) (*raster.Raster, error) {
	dest, err := raster.New(width, height)
	if err != nil {
		return nil, err
	}
	interp.Scale(dest.Image(), dest.Bounds(), src.Image(), src.Bounds(), draw.Src, nil)
	return dest, nil
}
