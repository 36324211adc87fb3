// Package orient fixes the rotation of photos whose metadata records a
// sideways capture the pixel data does not reflect.
//
// Only Apple devices with EXIF Orientation 6 are corrected. Other
// orientation values (mirrored and 180/270 degree captures) and other
// vendors are passed through untouched.
package orient

import (
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// RotatedCW is the EXIF orientation of an image stored rotated 90 degrees
// clockwise from upright.
const RotatedCW = 6

const correctedMake = "apple"

// Metadata holds the tags the corrector looks at.
type Metadata struct {
	Make        string
	Orientation int
}

// ReadMetadata extracts Make and Orientation from EXIF data in r. It returns
// nil when the stream carries no readable EXIF block.
func ReadMetadata(r io.Reader) *Metadata {
	x, err := exif.Decode(r)
	if err != nil {
		slog.Debug("No EXIF metadata", "err", err)
		return nil
	}

	md := &Metadata{}
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			md.Make = strings.TrimSpace(s)
		}
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil {
			md.Orientation = v
		}
	}
	return md
}

// NeedsCorrection reports whether md describes the one corrected capture.
func NeedsCorrection(md *Metadata) bool {
	if md == nil {
		return false
	}
	return md.Orientation == RotatedCW && strings.Contains(strings.ToLower(md.Make), correctedMake)
}

// Correct returns img rotated upright when md calls for it, and img itself
// otherwise. A nil image yields nil.
func Correct(img image.Image, md *Metadata) image.Image {
	if img == nil {
		return nil
	}
	if !NeedsCorrection(md) {
		return img
	}
	b := img.Bounds()
	slog.Debug("Correcting orientation", "make", md.Make, "width", b.Dx(), "height", b.Dy())
	// a quarter turn clockwise; width and height swap
	return imaging.Rotate270(img)
}
