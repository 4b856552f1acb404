package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrInvalidPalette is returned when a palette would hold no colours.
var ErrInvalidPalette = errors.New("invalid palette")

type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is an ordered, immutable set of reference colours. Quantized
// pixels refer to entries by index.
type Palette struct {
	colors []RGB
}

func New(colors ...RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: no colours", ErrInvalidPalette)
	}
	return &Palette{colors: append([]RGB(nil), colors...)}, nil
}

// FromColorPalette converts a color.Palette, dropping alpha.
func FromColorPalette(p color.Palette) (*Palette, error) {
	colors := make([]RGB, len(p))
	for i, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		colors[i] = RGB{R: nc.R, G: nc.G, B: nc.B}
	}
	return New(colors...)
}

func (p *Palette) Len() int {
	return len(p.colors)
}

func (p *Palette) At(i int) RGB {
	return p.colors[i]
}

func (p *Palette) Colors() []RGB {
	return append([]RGB(nil), p.colors...)
}

// ColorPalette returns the entries as opaque colours, in order.
func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return pal
}

// Nearest returns the index of the entry closest to (r, g, b) under m, and
// its distance. Equal distances resolve to the lower index.
func (p *Palette) Nearest(r, g, b float64, m Metric) (int, float64) {
	ret, best := 0, math.MaxFloat64
	for i, v := range p.colors {
		d := m.Distance(r, g, b, v)
		if d < best {
			if d == 0 {
				return i, 0
			}
			ret, best = i, d
		}
	}
	return ret, best
}

// Index is Nearest under the Euclidean metric, for 8-bit inputs.
func (p *Palette) Index(c RGB) int {
	i, _ := p.Nearest(float64(c.R), float64(c.G), float64(c.B), Euclidean)
	return i
}

func (p *Palette) MarshalJSON() ([]byte, error) {
	triples := make([][3]uint8, len(p.colors))
	for i, c := range p.colors {
		triples[i] = [3]uint8{c.R, c.G, c.B}
	}
	return json.Marshal(triples)
}

func (p *Palette) UnmarshalJSON(b []byte) error {
	var triples [][3]uint8
	if err := json.Unmarshal(b, &triples); err != nil {
		return fmt.Errorf("could not decode palette: %w", err)
	}
	if len(triples) == 0 {
		return fmt.Errorf("%w: no colours", ErrInvalidPalette)
	}

	p.colors = make([]RGB, len(triples))
	for i, t := range triples {
		p.colors[i] = RGB{R: t[0], G: t[1], B: t[2]}
	}
	return nil
}
