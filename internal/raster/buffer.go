// Package raster provides image buffer decoding, metadata introspection,
// and alpha flattening for the label pipeline.
package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyBuffer indicates a zero-length input buffer. Caller input
	// error, never transient.
	ErrEmptyBuffer = errors.New("raster: empty image buffer")

	// ErrDecode indicates bytes that are not a readable raster image.
	ErrDecode = errors.New("raster: undecodable image data")

	// ErrUnsupportedFlattenColor is returned when a flatten color other
	// than white is requested.
	ErrUnsupportedFlattenColor = errors.New("raster: only white flatten is supported")
)

// ImageBuffer is an encoded raster image with its declared MIME type.
type ImageBuffer struct {
	Data []byte
	MIME string
}

// Validate checks the buffer's non-empty invariant.
func (b ImageBuffer) Validate() error {
	if len(b.Data) == 0 {
		return ErrEmptyBuffer
	}
	return nil
}

// Decode decodes the buffer into an in-memory image, returning the
// detected format name.
func Decode(buf ImageBuffer) (image.Image, string, error) {
	if err := buf.Validate(); err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(buf.Data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// EncodePNG encodes an image as a PNG buffer.
func EncodePNG(img image.Image) (ImageBuffer, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return ImageBuffer{}, fmt.Errorf("raster: encode png: %w", err)
	}
	return ImageBuffer{Data: out.Bytes(), MIME: "image/png"}, nil
}

// knownMIMEs are the raster types the pipeline passes through unchanged.
var knownMIMEs = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Normalize re-encodes buffers whose declared type is not one of the known
// raster formats, so downstream stages only ever see PNG/JPEG/GIF/WEBP.
func Normalize(buf ImageBuffer) (ImageBuffer, error) {
	if knownMIMEs[strings.ToLower(buf.MIME)] {
		if err := buf.Validate(); err != nil {
			return ImageBuffer{}, err
		}
		return buf, nil
	}
	img, _, err := Decode(buf)
	if err != nil {
		return ImageBuffer{}, err
	}
	return EncodePNG(img)
}

// FromDataURL decodes a "data:image/...;base64,..." URL into a buffer.
// A bare base64 string is accepted and treated as PNG.
func FromDataURL(s string) (ImageBuffer, error) {
	mime := "image/png"
	payload := s
	if strings.HasPrefix(s, "data:") {
		head, rest, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return ImageBuffer{}, fmt.Errorf("raster: malformed data URL")
		}
		if m, _, _ := strings.Cut(head, ";"); m != "" {
			mime = m
		}
		if !strings.Contains(head, "base64") {
			return ImageBuffer{}, fmt.Errorf("raster: data URL is not base64 encoded")
		}
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageBuffer{}, fmt.Errorf("raster: base64 decode: %w", err)
	}
	buf := ImageBuffer{Data: data, MIME: mime}
	if err := buf.Validate(); err != nil {
		return ImageBuffer{}, err
	}
	return buf, nil
}
