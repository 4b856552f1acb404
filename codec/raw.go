package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"palettize/raster"

	"github.com/klauspost/compress/zstd"
)

// Raw rasters are stored as the magic "RGBA", little-endian uint32 width
// and height, then the pixel buffer as is.
const (
	rawMagic     = "RGBA"
	rawHeaderLen = 12
	// refuse headers asking for more than 1 GiB of pixels
	maxRawPixels = 1 << 28
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func encodeRaw(w io.Writer, r *raster.Raster) error {
	var hdr [rawHeaderLen]byte
	copy(hdr[:4], rawMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(r.Width))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(r.Height))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(r.Pix)
	return err
}

func decodeRaw(rd io.Reader) (*raster.Raster, error) {
	var hdr [rawHeaderLen]byte
	if _, err := io.ReadFull(rd, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read raw header: %w", err)
	}
	if string(hdr[:4]) != rawMagic {
		return nil, fmt.Errorf("not a raw RGBA stream: magic %q", hdr[:4])
	}

	w := binary.LittleEndian.Uint32(hdr[4:8])
	h := binary.LittleEndian.Uint32(hdr[8:12])
	if uint64(w)*uint64(h) > maxRawPixels {
		return nil, fmt.Errorf("%w: raw raster of %dx%d is too large", raster.ErrInvalidDimensions, w, h)
	}

	r, err := raster.New(int(w), int(h))
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rd, r.Pix); err != nil {
		return nil, fmt.Errorf("could not read %dx%d raw pixels: %w", w, h, err)
	}
	return r, nil
}

func encodeRawZstd(w io.Writer, r *raster.Raster) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if err := encodeRaw(enc, r); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func decodeRawZstd(rd io.Reader) (*raster.Raster, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return decodeRaw(dec)
}

func isZstd(head []byte) bool {
	return bytes.HasPrefix(head, zstdMagic)
}
