package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// Metadata describes a decoded raster image.
type Metadata struct {
	Width  int
	Height int
	// DensityPPI is the pixel density declared in the encoded file's
	// metadata, or 0 when the file carries none. A hint only; the
	// composer always renders at the configured DPI.
	DensityPPI float64
}

// ReadMetadata introspects an encoded buffer without decoding pixel data.
func ReadMetadata(buf ImageBuffer) (Metadata, error) {
	if err := buf.Validate(); err != nil {
		return Metadata{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Data))
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Metadata{
		Width:      cfg.Width,
		Height:     cfg.Height,
		DensityPPI: ProbeDensity(buf.Data),
	}, nil
}

// MetadataOf returns the pixel dimensions of a decoded image.
func MetadataOf(img image.Image) Metadata {
	b := img.Bounds()
	return Metadata{Width: b.Dx(), Height: b.Dy()}
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ProbeDensity extracts a declared pixel density (PPI) from PNG or JPEG
// metadata. Returns 0 if the data carries no usable density.
func ProbeDensity(data []byte) float64 {
	if bytes.HasPrefix(data, pngSignature) {
		return pngDensity(data)
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return jfifDensity(data)
	}
	return 0
}

// pngDensity walks PNG chunks looking for pHYs (pixels per meter).
func pngDensity(data []byte) float64 {
	const metersPerInch = 0.0254

	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		chunkType := string(data[pos+4 : pos+8])
		body := pos + 8
		if body+int(length) > len(data) {
			return 0
		}
		switch chunkType {
		case "pHYs":
			if length < 9 {
				return 0
			}
			xppm := binary.BigEndian.Uint32(data[body : body+4])
			unit := data[body+8]
			if unit != 1 || xppm == 0 { // 1 = meters
				return 0
			}
			return float64(xppm) * metersPerInch
		case "IDAT", "IEND":
			// pHYs must precede IDAT; stop scanning
			return 0
		}
		pos = body + int(length) + 4 // skip data and CRC
	}
	return 0
}

// jfifDensity walks JPEG segments looking for the JFIF APP0 density fields.
func jfifDensity(data []byte) float64 {
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0
		}
		marker := data[pos+1]
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		if marker == 0xDA { // start of scan; no metadata past here
			return 0
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if marker == 0xE0 && pos+4+length-2 <= len(data) && length >= 14 {
			seg := data[pos+4 : pos+2+length]
			if bytes.HasPrefix(seg, []byte("JFIF\x00")) {
				unit := seg[7]
				xd := float64(binary.BigEndian.Uint16(seg[8:10]))
				switch unit {
				case 1: // dots per inch
					return xd
				case 2: // dots per cm
					return xd * 2.54
				default:
					return 0
				}
			}
		}
		pos += 2 + length
	}
	return 0
}
