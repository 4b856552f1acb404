package artgen

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"os"

	"palettize/codec"

	"github.com/alecthomas/kong"
	"github.com/lucasb-eyer/go-colorful"
)

type CLICmd struct {
	Seed       uint64      `help:"Random seed; 0 picks one and logs it" default:"0"`
	Size       int         `help:"Canvas side in pixels" default:"400"`
	Background string      `help:"Background colour as #rrggbb; transparent when empty"`
	Format     string      `help:"Output format" enum:"png,gif,jpeg,bmp,tiff,rgba,rgba.zst" default:"png"`
	Dest       string      `help:"Destination folder" default:"."`
	Name       string      `help:"Output file name without extension" default:"logo"`
	BgColor    color.Color `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Size <= 0 {
		return fmt.Errorf("invalid canvas size: %d", c.Size)
	}
	if c.Background != "" {
		col, err := colorful.Hex(c.Background)
		if err != nil {
			return fmt.Errorf("invalid background %q: %w", c.Background, err)
		}
		c.BgColor = col
	}
	return nil
}

func (c *CLICmd) Run() error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger := slog.Default().With("seed", seed)

	r, err := Render(NewParams(seed), Options{Size: c.Size, Background: c.BgColor, Logger: logger})
	if err != nil {
		return err
	}

	path, err := codec.Save(r, c.Format, c.Dest, c.Name, codec.Options{})
	if err != nil {
		return err
	}
	logger.Info("logo generated", "file", path, "size", c.Size)
	return nil
}
