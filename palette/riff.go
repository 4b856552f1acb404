package palette

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

/*
Microsoft RIFF palette, one "data" chunk per palette:

typedef struct tagLOGPALETTE {
  WORD         palVersion;     // 0x0300
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadRIFF reads a RIFF palette. Entries of every palette chunk in the
// stream are concatenated in order.
func ReadRIFF(r io.Reader) (*Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	colors, err := readChunks(rd, string(formType[:]))
	if err != nil {
		return nil, err
	}
	return New(colors...)
}

func readChunks(r *riff.Reader, ident string) ([]RGB, error) {
	var res []RGB

	for n := 0; ; n++ {
		id, size, data, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, n, err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, n, lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, n, string(listType[:]))
			}

			nested, lerr := readChunks(list, fmt.Sprintf("%s%d.%s", ident, n, listType[:]))
			res = append(res, nested...)
			if lerr != nil {
				return res, lerr
			}
		case dataType:
			colors, err := readEntries(data, fmt.Sprintf("%s%d", ident, n))
			if err != nil {
				return res, err
			}
			res = append(res, colors...)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, n, string(id[:]))
		}
	}

	return res, nil
}

func readEntries(r io.Reader, ident string) ([]RGB, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	res := make([]RGB, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read colour %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = RGB{R: entry[0], G: entry[1], B: entry[2]}
	}

	return res, nil
}

// WriteRIFF writes p as a single-chunk RIFF palette and returns the number
// of bytes written.
func WriteRIFF(w io.Writer, p *Palette) (int64, error) {
	if p.Len() > 0xffff {
		return 0, fmt.Errorf("%w: %d colours do not fit a RIFF palette", ErrInvalidPalette, p.Len())
	}

	chunkSize := 4 + p.Len()*4 // palVersion + palNumEntries + 4 bytes/colour
	formSize := 4 + 8 + chunkSize

	buf := make([]byte, 0, 8+formSize)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(formSize))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(p.Len()))
	for _, c := range p.colors {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not save palette: %w", err)
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("could not save palette: wrote only %d/%d bytes", n, len(buf))
	}
	return int64(n), nil
}
