package codec

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"palettize/raster"
)

func makeTestRaster(t *testing.T, w, h int, alpha bool) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	for y := range h {
		for x := range w {
			c := color.NRGBA{R: uint8(x * 13), G: uint8(y * 29), B: uint8(x ^ y), A: 255}
			if alpha {
				c.A = uint8(x*y + 1)
			}
			r.SetNRGBA(x, y, c)
		}
	}
	return r
}

// fourColour uses a handful of colours so it survives the GIF encoder.
func fourColour(t *testing.T) *raster.Raster {
	t.Helper()
	cols := []color.NRGBA{
		{0, 0, 0, 255}, {255, 255, 255, 255}, {200, 40, 40, 255}, {40, 40, 200, 255},
	}
	r, _ := raster.New(9, 7)
	for y := range 7 {
		for x := range 9 {
			r.SetNRGBA(x, y, cols[(x+2*y)%len(cols)])
		}
	}
	return r
}

func TestLosslessRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		format string
		src    *raster.Raster
	}{
		{"png", makeTestRaster(t, 17, 11, true)},
		{"png", makeTestRaster(t, 17, 11, false)},
		{"bmp", makeTestRaster(t, 17, 11, false)},
		{"tiff", makeTestRaster(t, 17, 11, true)},
		{"gif", fourColour(t)},
		{FormatRaw, makeTestRaster(t, 17, 11, true)},
		{FormatRawZstd, makeTestRaster(t, 64, 48, true)},
	} {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, tc.src, tc.format, Options{}); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tc.format {
				t.Errorf("detected format %q, want %q", format, tc.format)
			}
			if !got.Equal(tc.src) {
				t.Fatal("decoded raster differs from source")
			}
		})
	}
}

func TestJPEGKeepsSize(t *testing.T) {
	src := makeTestRaster(t, 31, 5, false)
	var buf bytes.Buffer
	if err := Encode(&buf, src, "jpeg", Options{JPEGQuality: 80}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "jpeg" || got.Width != 31 || got.Height != 5 {
		t.Fatalf("got %s %dx%d", format, got.Width, got.Height)
	}
}

func TestGIFFixedPalette(t *testing.T) {
	src := fourColour(t)
	pal := color.Palette{
		color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255},
		color.RGBA{200, 40, 40, 255}, color.RGBA{40, 40, 200, 255},
		color.RGBA{1, 2, 3, 255},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, src, "gif", Options{Palette: pal}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, _, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(src) {
		t.Fatal("gif with fixed palette is not lossless")
	}

	big := make(color.Palette, 300)
	for i := range big {
		big[i] = color.Gray{Y: uint8(i)}
	}
	if err := Encode(&buf, src, "gif", Options{Palette: big}); err == nil {
		t.Fatal("300 colour gif palette accepted")
	}
}

func TestEncodeRejects(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, fourColour(t), "webp", Options{}); err == nil {
		t.Error("webp output accepted")
	}
	if err := Encode(&buf, &raster.Raster{}, "png", Options{}); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Errorf("empty raster error = %v", err)
	}
}

func TestDecodeRawErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, fourColour(t), FormatRaw, Options{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-5]
	if _, _, err := Decode(bytes.NewReader(truncated)); err == nil {
		t.Error("truncated raw stream accepted")
	}

	huge := []byte("RGBA\xff\xff\xff\xff\xff\xff\xff\xff")
	if _, _, err := Decode(bytes.NewReader(huge)); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Errorf("oversized raw header error = %v", err)
	}

	zero := []byte("RGBA\x00\x00\x00\x00\x01\x00\x00\x00")
	if _, _, err := Decode(bytes.NewReader(zero)); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Errorf("zero width raw header error = %v", err)
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("garbage decoded")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	src := makeTestRaster(t, 20, 10, true)

	for _, format := range []string{"png", FormatRawZstd} {
		path, err := Save(src, format, dir, "logo_20x20", Options{})
		if err != nil {
			t.Fatalf("Save %s: %v", format, err)
		}
		if want := filepath.Join(dir, "logo_20x20."+format); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}
		if got := FormatFromExt(path); got != format {
			t.Errorf("FormatFromExt(%q) = %q", path, got)
		}

		got, _, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !got.Equal(src) {
			t.Errorf("%s: loaded raster differs", format)
		}
	}

	// a failed encode leaves no files behind
	if _, err := Save(src, "webp", dir, "broken", Options{}); err == nil {
		t.Fatal("webp save succeeded")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("directory holds %d files, want 2", len(entries))
	}

	if _, _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestFormatHelpers(t *testing.T) {
	for name, want := range map[string]string{
		"a.PNG":        "png",
		"b.jpg":        "jpeg",
		"c.tif":        "tiff",
		"d.webp":       "webp",
		"e.rgba":       FormatRaw,
		"f.RGBA.ZST":   FormatRawZstd,
		"g.txt":        "",
		"dir.v2/noext": "",
	} {
		if got := FormatFromExt(name); got != want {
			t.Errorf("FormatFromExt(%q) = %q, want %q", name, got, want)
		}
	}

	if got := OutputFormat("same", "webp"); got != "png" {
		t.Errorf("same from webp = %q", got)
	}
	if got := OutputFormat("same", "bmp"); got != "bmp" {
		t.Errorf("same from bmp = %q", got)
	}
	if got := OutputFormat("gif", "bmp"); got != "gif" {
		t.Errorf("explicit gif = %q", got)
	}
}
