package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"palettize/artgen"
	"palettize/ditherize"
	"palettize/palette"
	"palettize/parallel"

	"github.com/alecthomas/kong"
)

type cli struct {
	LogLevel  string          `help:"Minimum log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string          `help:"Log output format" enum:"text,json" default:"text"`
	Config    kong.ConfigFlag `help:"JSON file with flag defaults"`
	Parallel  int             `help:"Images processed at once; 0 uses all CPUs" default:"0"`

	Process  ditherize.CLICmd `cmd:"" help:"Shrink images (or a generated logo) to several sizes and dither them into a palette"`
	Generate artgen.CLICmd    `cmd:"" help:"Write a generated logo source image"`
	Palette  palette.CLICmd   `cmd:"" help:"Show or export palettes"`
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unsupported log format %q", format)
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("palettize"),
		kong.Description("Downsample images and dither them into small fixed palettes."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/palettize.json", "palettize.json"),
	)

	logger, err := newLogger(os.Stderr, c.LogLevel, c.LogFormat)
	kctx.FatalIfErrorf(err)
	slog.SetDefault(logger)

	pool := parallel.Start(c.Parallel)
	if err := kctx.Run(pool); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
