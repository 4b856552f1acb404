package ditherize

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"palettize/artgen"
	"palettize/codec"
	"palettize/dither"
	"palettize/palette"
	"palettize/parallel"
	"palettize/pipeline"
	"palettize/raster"
	"palettize/report"
	"palettize/resample"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Inputs     []string        `arg:"" optional:"" help:"Images or folders to process. Without inputs a logo is generated." type:"path"`
	Dest       string          `help:"Destination folder for dithered pictures" default:"dithered"`
	Sizes      []pipeline.Size `help:"Bounding boxes to shrink into, as WxH" default:"20x20,50x50,100x100,200x200" group:"resize"`
	Filter     string          `help:"Resampling filter" enum:"box,nearest,approxbilinear,bilinear,catmullrom" default:"box" group:"resize"`
	Halving    string          `help:"When to keep halving before the final resample" enum:"dominant,width" default:"dominant" group:"resize"`
	Palette    string          `help:"Palette name, comma separated #hex list, .pal or .json file" default:"aptos" group:"dither"`
	Kernel     string          `help:"Error diffusion kernel" default:"FloydSteinberg" group:"dither"`
	Serpentine bool            `help:"Scan odd rows right to left" default:"false" group:"dither"`
	Delta      float64         `help:"Skip diffusion for pixels closer than this normalized distance to their palette colour (0-1)" default:"0" group:"dither"`
	Metric     string          `help:"Colour distance" enum:"euclidean,manhattan" default:"euclidean" group:"dither"`
	Workers    int             `help:"Sizes processed at once per image; 0 uses all CPUs" default:"0"`
	Format     string          `help:"Output format; 'same' keeps the input format when it can be written" enum:"same,png,gif,jpeg,bmp,tiff,rgba,rgba.zst" default:"png"`
	Seed       uint64          `help:"Seed for the generated logo; 0 picks one" default:"0" group:"logo"`
	LogoSize   int             `help:"Canvas side of the generated logo" default:"400" group:"logo"`

	pal          *palette.Palette
	kernel       *dither.Kernel
	resampleOpts resample.Options
	ditherOpts   dither.Options
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.pal, err = palette.Load(c.Palette); err != nil {
		return err
	}
	if c.kernel, err = dither.LookupKernel(c.Kernel); err != nil {
		return err
	}

	if c.ditherOpts.Metric, err = palette.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.Delta < 0 || c.Delta > 1 {
		return fmt.Errorf("invalid delta %v: must be within 0 and 1", c.Delta)
	}
	c.ditherOpts.Delta = c.Delta
	c.ditherOpts.Serpentine = c.Serpentine

	if !slices.Contains(resample.FilterNames(), c.Filter) {
		return fmt.Errorf("unknown resample filter: %q", c.Filter)
	}
	c.resampleOpts.Filter = c.Filter
	if c.resampleOpts.Halving, err = resample.ParseHalving(c.Halving); err != nil {
		return err
	}

	if len(c.Sizes) == 0 {
		return fmt.Errorf("no sizes given")
	}
	for _, s := range c.Sizes {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("invalid size %s", s)
		}
	}

	if c.Format == "gif" && c.pal.Len() > 256 {
		return fmt.Errorf("palette %q has %d colours, gif holds at most 256", c.Palette, c.pal.Len())
	}
	if len(c.Inputs) == 0 && c.LogoSize <= 0 {
		return fmt.Errorf("invalid logo size: %d", c.LogoSize)
	}

	return nil
}

type source struct {
	path string
	name string
}

// sources expands folders into the files they hold. Sub folders are skipped.
func (c *CLICmd) sources() ([]source, error) {
	var out []source
	for _, in := range c.Inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", in, err)
		}
		if !info.IsDir() {
			out = append(out, source{path: in, name: baseName(in)})
			continue
		}

		files, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("unable to read folder %q: %w", in, err)
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			out = append(out, source{path: filepath.Join(in, file.Name()), name: baseName(file.Name())})
		}
	}
	return out, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), "."+codec.FormatRawZstd) {
		return name[:len(name)-len(codec.FormatRawZstd)-1]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	var processedCount, errCount atomic.Uint64

	if len(c.Inputs) == 0 {
		seed := c.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		logger := slog.Default().With("file", "logo", "seed", seed)
		src, err := artgen.Render(artgen.NewParams(seed), artgen.Options{Size: c.LogoSize, Logger: logger})
		if err != nil {
			return fmt.Errorf("could not generate logo: %w", err)
		}
		c.process(logger, src, "png", "logo", &processedCount, &errCount)
	} else {
		sources, err := c.sources()
		if err != nil {
			return err
		}

		for _, s := range sources {
			pool.Do(func() {
				logger := slog.Default().With("file", s.path)

				src, format, err := codec.Load(s.path)
				if err != nil {
					errCount.Add(1)
					logger.Error("could not load image", "error", err)
					return
				}
				c.process(logger, src, format, s.name, &processedCount, &errCount)
			})
		}
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// process dithers src into every size and saves one file per size.
func (c *CLICmd) process(logger *slog.Logger, src *raster.Raster, srcFormat, name string, processedCount, errCount *atomic.Uint64) {
	opts := pipeline.Options{
		Resample: c.resampleOpts,
		Dither:   c.ditherOpts,
		Workers:  c.Workers,
		Logger:   logger,
	}
	results := pipeline.Process(src, c.pal, c.kernel, c.Sizes, opts)

	outFormat := codec.OutputFormat(c.Format, srcFormat)
	encOpts := codec.Options{}
	if outFormat == "gif" {
		encOpts.Palette = c.pal.ColorPalette()
	}

	for _, size := range c.Sizes {
		res, ok := results[size]
		if !ok {
			// duplicate size, already handled
			continue
		}
		delete(results, size)
		sizeLog := logger.With("size", size.String())

		if res.Err != nil {
			errCount.Add(1)
			sizeLog.Error("could not dither image", "error", res.Err)
			continue
		}

		path, err := codec.Save(res.Output.Raster(), outFormat, c.Dest, fmt.Sprintf("%s_%s", name, size), encOpts)
		if err != nil {
			errCount.Add(1)
			sizeLog.Error("could not save image", "dir", c.Dest, "error", err)
			continue
		}

		if sum, err := report.Summarize(res.Resized, res.Output); err == nil {
			sizeLog.Info("dithered", append([]any{"out", path}, sum.LogAttrs()...)...)
		}
		processedCount.Add(1)
	}
}
