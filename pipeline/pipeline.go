package pipeline

import (
	"fmt"
	"log/slog"

	"palettize/dither"
	"palettize/palette"
	"palettize/parallel"
	"palettize/raster"
	"palettize/resample"
)

type Options struct {
	Resample resample.Options
	Dither   dither.Options
	// Workers bounds how many sizes are processed at once. Values below 1
	// mean GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Result is the outcome for one requested size. Exactly one of Output and
// Err is set.
type Result struct {
	Size    Size
	Resized *raster.Raster
	Output  *dither.Indexed
	Err     error
}

// Process shrinks src into every size and dithers each result with pal and
// k. A failure for one size never affects the others. Duplicate sizes are
// processed once.
func Process(src *raster.Raster, pal *palette.Palette, k *dither.Kernel, sizes []Size, opts Options) map[Size]Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Resample.Logger == nil {
		opts.Resample.Logger = logger
	}

	unique := make([]Size, 0, len(sizes))
	seen := make(map[Size]bool, len(sizes))
	for _, s := range sizes {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	// one slot per size, each written by a single job
	results := make([]Result, len(unique))
	d, derr := dither.New(pal, k, opts.Dither)
	parallel.Each(opts.Workers, len(unique), func(i int) {
		res := Result{Size: unique[i]}
		if derr != nil {
			res.Err = derr
		} else {
			res.Resized, res.Output, res.Err = processOne(d, src, unique[i], opts.Resample)
		}
		if res.Err != nil {
			logger.Debug("size failed", "size", res.Size, "error", res.Err)
		} else {
			logger.Debug("size done", "size", res.Size, "width", res.Output.Width, "height", res.Output.Height)
		}
		results[i] = res
	})

	out := make(map[Size]Result, len(results))
	for _, res := range results {
		out[res.Size] = res
	}
	return out
}

func processOne(d *dither.Ditherer, src *raster.Raster, size Size, opts resample.Options) (*raster.Raster, *dither.Indexed, error) {
	resized, err := resample.Resize(src, size.Width, size.Height, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("resize to %s: %w", size, err)
	}

	ix, err := d.Dither(resized)
	if err != nil {
		return nil, nil, fmt.Errorf("dither %s: %w", size, err)
	}
	return resized, ix, nil
}
