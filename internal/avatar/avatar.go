// Package avatar normalizes uploaded profile images: it enforces the upload
// size cap and filename filter, decodes jpg/jpeg/png input, scales it to a
// fixed 250x250 frame, and re-encodes the result as PNG for storage.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize is the hard cap on the raw uploaded file, enforced
	// before any decoding happens.
	MaxUploadSize = 1_000_000

	// Width and Height are the fixed dimensions of the stored avatar.
	Width  = 250
	Height = 250
)

var (
	// ErrUploadTooLarge is returned when the raw upload exceeds
	// [MaxUploadSize].
	ErrUploadTooLarge = errors.New("uploaded file is too large")

	// ErrUnsupportedFormat is returned for filenames outside the
	// jpg/jpeg/png allow-list or bytes that do not decode as an image.
	ErrUnsupportedFormat = errors.New("please upload an image")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ValidateFilename checks the uploaded filename against the extension
// allow-list. The check is case-insensitive.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedFormat
	}

	return nil
}

// Normalize decodes the uploaded image bytes, scales them to Width x Height,
// and returns the PNG-encoded result.
func Normalize(data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrUploadTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("error encoding avatar to PNG: %w", err)
	}

	return buf.Bytes(), nil
}
