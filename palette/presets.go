package palette

import (
	"fmt"
	stdpalette "image/color/palette"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the preset used when no palette is requested.
const DefaultName = "aptos"

var presets = map[string][]RGB{
	"aptos": {
		{0, 0, 0},
		{255, 255, 255},
		{0, 158, 253},
		{0, 197, 3},
		{255, 198, 0},
		{255, 125, 0},
		{250, 0, 106},
		{196, 0, 199},
	},
	"bw": {
		{0, 0, 0},
		{255, 255, 255},
	},
	"gray4":  grayRamp(4),
	"gray16": grayRamp(16),
	"spectra6": {
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{255, 255, 0},
		{0, 0, 255},
		{0, 255, 0},
	},
	"vga16": {
		{0x00, 0x00, 0x00}, {0x00, 0x00, 0xaa}, {0x00, 0xaa, 0x00}, {0x00, 0xaa, 0xaa},
		{0xaa, 0x00, 0x00}, {0xaa, 0x00, 0xaa}, {0xaa, 0x55, 0x00}, {0xaa, 0xaa, 0xaa},
		{0x55, 0x55, 0x55}, {0x55, 0x55, 0xff}, {0x55, 0xff, 0x55}, {0x55, 0xff, 0xff},
		{0xff, 0x55, 0x55}, {0xff, 0x55, 0xff}, {0xff, 0xff, 0x55}, {0xff, 0xff, 0xff},
	},
}

func init() {
	presets["websafe"] = must(FromColorPalette(stdpalette.WebSafe)).colors
	presets["plan9"] = must(FromColorPalette(stdpalette.Plan9)).colors
}

func must(p *Palette, err error) *Palette {
	if err != nil {
		panic(err)
	}
	return p
}

func grayRamp(n int) []RGB {
	res := make([]RGB, n)
	for i := range n {
		v := uint8(i * 255 / (n - 1))
		res[i] = RGB{v, v, v}
	}
	return res
}

// Names lists the preset palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Preset(name string) (*Palette, bool) {
	colors, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &Palette{colors: append([]RGB(nil), colors...)}, true
}

// Load resolves a palette from a preset name, a comma separated list of hex
// colours, or a path to a RIFF (.pal) or JSON (.json) palette file.
func Load(spec string) (*Palette, error) {
	if spec == "" {
		spec = DefaultName
	}
	if p, ok := Preset(spec); ok {
		return p, nil
	}
	if strings.HasPrefix(strings.TrimSpace(spec), "#") {
		return ParseHex(spec)
	}

	switch strings.ToLower(filepath.Ext(spec)) {
	case ".pal":
		f, err := os.Open(spec)
		if err != nil {
			return nil, fmt.Errorf("could not open palette %q: %w", spec, err)
		}
		defer f.Close()

		p, err := ReadRIFF(f)
		if err != nil {
			return nil, fmt.Errorf("could not load palette %q: %w", spec, err)
		}
		return p, nil
	case ".json":
		b, err := os.ReadFile(spec)
		if err != nil {
			return nil, fmt.Errorf("could not open palette %q: %w", spec, err)
		}

		p := &Palette{}
		if err := p.UnmarshalJSON(b); err != nil {
			return nil, fmt.Errorf("could not load palette %q: %w", spec, err)
		}
		return p, nil
	}

	return nil, fmt.Errorf("unknown palette %q: expected one of %s, #hex list, .pal or .json file",
		spec, strings.Join(Names(), ", "))
}

// ParseHex parses a comma separated list of #RGB or #RRGGBB colours.
func ParseHex(list string) (*Palette, error) {
	var colors []RGB
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		c, err := colorful.Hex(field)
		if err != nil {
			return nil, fmt.Errorf("invalid palette colour %q: %w", field, err)
		}
		r, g, b := c.RGB255()
		colors = append(colors, RGB{R: r, G: g, B: b})
	}
	return New(colors...)
}
