package avatar

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image failed: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image failed: %v", err)
	}
	return buf.Bytes()
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"photo.jpg", "photo.jpeg", "photo.png", "PHOTO.JPG", "weird.name.PnG"}
	for _, name := range valid {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("expected %q to be accepted, got %v", name, err)
		}
	}

	invalid := []string{"malware.exe", "archive.gif", "noextension", "photo.png.zip", ""}
	for _, name := range invalid {
		if err := ValidateFilename(name); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected %q to be rejected with ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestNormalize_ResizesToFixedFrame(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"small png", encodePNG(t, 4, 4)},
		{"large png", encodePNG(t, 600, 400)},
		{"jpeg input", encodeJPEG(t, 123, 77)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			img, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output does not decode: %v", err)
			}
			if format != "png" {
				t.Errorf("output must always be png, got %s", format)
			}
			bounds := img.Bounds()
			if bounds.Dx() != Width || bounds.Dy() != Height {
				t.Errorf("expected %dx%d, got %dx%d", Width, Height, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalize_RejectsOversizedUpload(t *testing.T) {
	blob := make([]byte, MaxUploadSize+1)

	_, err := Normalize(blob)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
}
