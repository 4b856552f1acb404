package dither

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"palettize/palette"
	"palettize/raster"
)

func makeTestRaster(t *testing.T, w, h int) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return r
}

func grayRaster(t *testing.T, w, h int, v uint8) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	r.Fill(color.NRGBA{R: v, G: v, B: v, A: 255})
	return r
}

func blackWhite(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.New(palette.RGB{R: 0, G: 0, B: 0}, palette.RGB{R: 255, G: 255, B: 255})
	if err != nil {
		t.Fatalf("palette.New: %v", err)
	}
	return p
}

func mustDitherer(t *testing.T, p *palette.Palette, k *Kernel, opts Options) *Ditherer {
	t.Helper()
	d, err := New(p, k, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewKernelValidation(t *testing.T) {
	for _, tc := range []struct {
		name    string
		divisor float64
		taps    []Tap
	}{
		{name: "empty"},
		{name: "left_of_current", taps: []Tap{{0, -1, 1}}},
		{name: "current_pixel", taps: []Tap{{0, 0, 1}}},
		{name: "previous_row", taps: []Tap{{-1, 2, 1}}},
		{name: "negative_weight", taps: []Tap{{0, 1, 2}, {1, 0, -1}}},
		{name: "zero_weights", taps: []Tap{{0, 1, 0}, {1, 0, 0}}},
		{name: "amplifies", divisor: 4, taps: []Tap{{0, 1, 3}, {1, 0, 3}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewKernel(tc.name, tc.divisor, tc.taps...); !errors.Is(err, ErrInvalidKernel) {
				t.Fatalf("error = %v, want ErrInvalidKernel", err)
			}
		})
	}
}

func TestNewKernelNormalizes(t *testing.T) {
	k, err := NewKernel("halves", 0, Tap{0, 1, 3}, Tap{1, 0, 3})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	for _, tap := range k.Taps() {
		if tap.Weight != 0.5 {
			t.Errorf("tap %v, want weight 0.5", tap)
		}
	}
}

func TestPresetKernels(t *testing.T) {
	for _, name := range KernelNames() {
		k, err := LookupKernel(name)
		if err != nil {
			t.Fatalf("LookupKernel(%q): %v", name, err)
		}
		want := 1.0
		if name == "Atkinson" {
			want = 0.75
		}
		if s := k.Spread(); math.Abs(s-want) > 1e-12 {
			t.Errorf("%s spreads %v, want %v", name, s, want)
		}
	}
	if len(KernelNames()) != 9 {
		t.Errorf("got %d preset kernels, want 9", len(KernelNames()))
	}
	if k, err := LookupKernel("floydSTEINBERG"); err != nil || k != FloydSteinberg {
		t.Errorf("LookupKernel is case sensitive: %v", err)
	}
	if _, err := LookupKernel("ordered"); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("unknown kernel error = %v", err)
	}
}

func TestNewRejectsMissingParts(t *testing.T) {
	if _, err := New(nil, FloydSteinberg, Options{}); !errors.Is(err, palette.ErrInvalidPalette) {
		t.Errorf("nil palette error = %v", err)
	}
	if _, err := New(blackWhite(t), nil, Options{}); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("nil kernel error = %v", err)
	}
	if _, err := New(blackWhite(t), FloydSteinberg, Options{Delta: -1}); err == nil {
		t.Error("negative delta accepted")
	}
}

func TestDitherRejectsBadRaster(t *testing.T) {
	d := mustDitherer(t, blackWhite(t), FloydSteinberg, Options{})
	if _, err := d.Dither(&raster.Raster{Width: 3}); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Fatalf("error = %v, want ErrInvalidDimensions", err)
	}
}

func TestDitherUsesOnlyPaletteColours(t *testing.T) {
	pal, _ := palette.Preset("aptos")
	src := makeTestRaster(t, 37, 23)

	for _, name := range KernelNames() {
		k, _ := LookupKernel(name)
		for _, opts := range []Options{{}, {Serpentine: true}, {Metric: palette.Manhattan}, {Delta: 0.1}} {
			ix, err := mustDitherer(t, pal, k, opts).Dither(src)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			out := ix.Raster()
			for i := 0; i < len(out.Pix); i += 4 {
				c := palette.RGB{R: out.Pix[i], G: out.Pix[i+1], B: out.Pix[i+2]}
				if pal.At(pal.Index(c)) != c {
					t.Fatalf("%s %+v: pixel %d = %v is not a palette colour", name, opts, i/4, c)
				}
			}
		}
	}
}

func TestDitherDeterministic(t *testing.T) {
	pal, _ := palette.Preset("aptos")
	src := makeTestRaster(t, 64, 48)
	d := mustDitherer(t, pal, FloydSteinberg, Options{Serpentine: true})

	a, err := d.Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	for range 3 {
		b, err := d.Dither(src)
		if err != nil {
			t.Fatalf("Dither: %v", err)
		}
		if !a.Raster().Equal(b.Raster()) || a.Stats != b.Stats {
			t.Fatal("dither output differs between runs")
		}
	}
}

func TestDitherKeepsSourceUntouched(t *testing.T) {
	src := makeTestRaster(t, 16, 16)
	before := src.Clone()
	if _, err := mustDitherer(t, blackWhite(t), FloydSteinberg, Options{}).Dither(src); err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if !src.Equal(before) {
		t.Fatal("source modified")
	}
}

func TestDitherAlphaPassThrough(t *testing.T) {
	src, _ := raster.New(3, 2)
	src.Fill(color.NRGBA{R: 200, G: 10, B: 10, A: 77})
	src.SetNRGBA(2, 1, color.NRGBA{R: 20, G: 20, B: 20, A: 0})

	ix, err := mustDitherer(t, blackWhite(t), FloydSteinberg, Options{}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	out := ix.Raster()
	if a := out.NRGBAAt(0, 0).A; a != 77 {
		t.Errorf("alpha = %d, want 77", a)
	}
	if a := out.NRGBAAt(2, 1).A; a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestErrorConservation(t *testing.T) {
	src := makeTestRaster(t, 40, 30)
	pal, _ := palette.Preset("vga16")

	for _, name := range KernelNames() {
		k, _ := LookupKernel(name)
		ix, err := mustDitherer(t, pal, k, Options{}).Dither(src)
		if err != nil {
			t.Fatalf("Dither: %v", err)
		}
		s := ix.Stats
		if s.Generated <= 0 {
			t.Fatalf("%s: no error generated", name)
		}
		if s.Diffused > s.Generated*k.Spread()+1e-6 {
			t.Errorf("%s: diffused %v exceeds generated %v", name, s.Diffused, s.Generated)
		}
	}
}

func TestErrorConservedWithoutEdgeDrops(t *testing.T) {
	right, err := NewKernel("right", 1, Tap{0, 1, 1})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	src, _ := raster.New(2, 1)
	src.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 155, G: 155, B: 155, A: 255})

	ix, err := mustDitherer(t, blackWhite(t), right, Options{}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if ix.Index[0] != 0 || ix.Index[1] != 1 {
		t.Fatalf("indices = %v, want [0 1]", ix.Index)
	}
	if ix.Stats.Generated != 300 || ix.Stats.Diffused != 300 {
		t.Fatalf("stats = %+v, want 300 generated and diffused", ix.Stats)
	}
}

func TestSerpentine(t *testing.T) {
	right, _ := NewKernel("right", 1, Tap{0, 1, 1})
	src := grayRaster(t, 2, 2, 100)

	ix, err := mustDitherer(t, blackWhite(t), right, Options{}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if got := ix.Index; got[0] != 0 || got[1] != 1 || got[2] != 0 || got[3] != 1 {
		t.Errorf("raster scan indices = %v, want [0 1 0 1]", got)
	}

	ix, err = mustDitherer(t, blackWhite(t), right, Options{Serpentine: true}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if got := ix.Index; got[0] != 0 || got[1] != 1 || got[2] != 1 || got[3] != 0 {
		t.Errorf("serpentine indices = %v, want [0 1 1 0]", got)
	}
}

func TestDeltaSuppressesDiffusion(t *testing.T) {
	src := grayRaster(t, 8, 8, 100)

	ix, err := mustDitherer(t, blackWhite(t), FloydSteinberg, Options{Delta: 0.5}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if ix.Stats.Suppressed != 64 || ix.Stats.Diffused != 0 {
		t.Fatalf("stats = %+v, want every pixel suppressed", ix.Stats)
	}
	for i, idx := range ix.Index {
		if idx != 0 {
			t.Fatalf("pixel %d = %d, want plain nearest colour 0", i, idx)
		}
	}

	ix, err = mustDitherer(t, blackWhite(t), FloydSteinberg, Options{Delta: 0.1}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	if ix.Stats.Diffused == 0 {
		t.Fatal("small delta suppressed all diffusion")
	}
}

func TestHistogramAndPaletted(t *testing.T) {
	src := grayRaster(t, 20, 20, 128)

	ix, err := mustDitherer(t, blackWhite(t), FloydSteinberg, Options{}).Dither(src)
	if err != nil {
		t.Fatalf("Dither: %v", err)
	}
	hist := ix.Histogram()
	if hist[0]+hist[1] != 400 {
		t.Fatalf("histogram %v does not cover 400 pixels", hist)
	}
	if hist[1] < 160 || hist[1] > 240 {
		t.Errorf("mid gray gave %d white pixels of 400", hist[1])
	}

	img, err := ix.Paletted()
	if err != nil {
		t.Fatalf("Paletted: %v", err)
	}
	for i, idx := range ix.Index {
		if int(img.Pix[i]) != idx {
			t.Fatalf("paletted pixel %d = %d, want %d", i, img.Pix[i], idx)
		}
	}

	big, _ := palette.Preset("websafe")
	colors := append(big.Colors(), big.Colors()...)
	huge, _ := palette.New(colors...)
	ix.Palette = huge
	if _, err := ix.Paletted(); !errors.Is(err, palette.ErrInvalidPalette) {
		t.Errorf("432 colour palette error = %v", err)
	}
}
