package palette

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Show struct {
		Palette string `arg:"" optional:"" help:"Palette name, #hex list, .pal or .json file" default:"aptos"`
	} `cmd:"" help:"Print palette entries"`
	Export struct {
		Palette string `arg:"" help:"Palette name, #hex list, .pal or .json file"`
		Out     string `arg:"" help:"Destination file; format follows the extension (.pal, .json, .png)"`
		Tile    int    `help:"Swatch tile size for .png output" default:"32"`
	} `cmd:"" help:"Write a palette to a file"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var spec string
	switch kctx.Selected().Name {
	case "show":
		spec = c.Show.Palette
	case "export":
		spec = c.Export.Palette
		switch strings.ToLower(filepath.Ext(c.Export.Out)) {
		case ".pal", ".json", ".png":
		default:
			return fmt.Errorf("unsupported palette output %q: use .pal, .json or .png", c.Export.Out)
		}
	}

	if _, err := Load(spec); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(kctx *kong.Context) error {
	switch kctx.Selected().Name {
	case "show":
		p, err := Load(c.Show.Palette)
		if err != nil {
			return err
		}
		for i, col := range p.colors {
			fmt.Fprintf(kctx.Stdout, "%3d  %s  %3d %3d %3d\n", i, col, col.R, col.G, col.B)
		}
		return nil
	case "export":
		return c.export()
	}
	return nil
}

func (c *CLICmd) export() error {
	p, err := Load(c.Export.Palette)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(c.Export.Out)) {
	case ".pal":
		_, err = WriteRIFF(&buf, p)
	case ".json":
		var b []byte
		if b, err = p.MarshalJSON(); err == nil {
			buf.Write(b)
		}
	case ".png":
		err = png.Encode(&buf, p.Swatch(c.Export.Tile))
	}
	if err != nil {
		return fmt.Errorf("could not encode palette: %w", err)
	}

	if err := os.WriteFile(c.Export.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write palette %q: %w", c.Export.Out, err)
	}
	slog.Info("palette exported", "palette", c.Export.Palette, "colors", p.Len(), "file", c.Export.Out)
	return nil
}
