package orient

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 10, A: 255})
		}
	}
	return img
}

func TestCorrectRotatesAppleOrientation6(t *testing.T) {
	src := testImage(4, 2)
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})

	out := Correct(src, &Metadata{Make: "Apple", Orientation: 6})

	b := out.Bounds()
	if b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("Expected 2x4 output, got %dx%d", b.Dx(), b.Dy())
	}

	// top-left of the stored image ends up top-right when displayed upright
	r, g, _, a := out.At(b.Max.X-1, b.Min.Y).RGBA()
	if r>>8 != 255 || g != 0 || a>>8 != 255 {
		t.Errorf("Expected marker pixel at top-right, got r=%d g=%d a=%d", r>>8, g>>8, a>>8)
	}
}

func TestCorrectPassThrough(t *testing.T) {
	tests := []struct {
		name string
		md   *Metadata
	}{
		{"no metadata", nil},
		{"apple upright", &Metadata{Make: "Apple", Orientation: 1}},
		{"apple rotated 270", &Metadata{Make: "Apple", Orientation: 8}},
		{"other vendor rotated", &Metadata{Make: "Canon", Orientation: 6}},
		{"missing make", &Metadata{Orientation: 6}},
	}

	src := testImage(3, 5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Correct(src, tt.md)
			if out != image.Image(src) {
				t.Errorf("Expected input image to be returned unchanged")
			}
		})
	}
}

func TestNeedsCorrectionIsCaseInsensitive(t *testing.T) {
	for _, mk := range []string{"Apple", "APPLE", "apple inc."} {
		if !NeedsCorrection(&Metadata{Make: mk, Orientation: RotatedCW}) {
			t.Errorf("Expected %q to need correction", mk)
		}
	}
}

func TestCorrectNilImage(t *testing.T) {
	if out := Correct(nil, &Metadata{Make: "Apple", Orientation: 6}); out != nil {
		t.Errorf("Expected nil output for nil input, got %v", out)
	}
}

func TestReadMetadataWithoutEXIF(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(2, 2)); err != nil {
		t.Fatal(err)
	}
	if md := ReadMetadata(&buf); md != nil {
		t.Errorf("Expected nil metadata for PNG without EXIF, got %+v", md)
	}
}
