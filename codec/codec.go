package codec

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"palettize/raster"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	FormatRaw     = "rgba"
	FormatRawZstd = "rgba.zst"
)

// EncodeFormats lists the formats Encode and Save can write.
func EncodeFormats() []string {
	return []string{"png", "gif", "jpeg", "bmp", "tiff", FormatRaw, FormatRawZstd}
}

// CanEncode reports whether format is one of EncodeFormats.
func CanEncode(format string) bool {
	return slices.Contains(EncodeFormats(), format)
}

// FormatFromExt maps a file name to a format name, or "" when the extension
// is unknown.
func FormatFromExt(name string) string {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "."+FormatRawZstd) {
		return FormatRawZstd
	}

	switch filepath.Ext(lower) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	case ".rgba":
		return FormatRaw
	}
	return ""
}

// OutputFormat resolves the requested output format against the format a
// source was read in. "same" keeps the source format when it can be
// written and falls back to png otherwise.
func OutputFormat(requested, source string) string {
	if requested != "same" {
		return requested
	}
	if CanEncode(source) {
		return source
	}
	return "png"
}

// Decode reads a raster from any registered image format or from the raw
// rgba and rgba.zst streams. It returns the detected format name.
func Decode(rd io.Reader) (*raster.Raster, string, error) {
	br := bufio.NewReader(rd)
	head, _ := br.Peek(len(rawMagic))

	switch {
	case string(head) == rawMagic:
		r, err := decodeRaw(br)
		return r, FormatRaw, err
	case isZstd(head):
		r, err := decodeRawZstd(br)
		return r, FormatRawZstd, err
	}

	img, format, err := image.Decode(br)
	if err != nil {
		return nil, "", err
	}
	r, err := raster.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return r, format, nil
}

// Load decodes the file at path.
func Load(path string) (*raster.Raster, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	r, format, err := Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return r, format, nil
}
