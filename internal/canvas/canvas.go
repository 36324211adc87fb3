// Package canvas provides the raster drawing surface collages are painted on.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lehigh-university-libraries/collager/internal/collage"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground fills canvas areas no layer covers.
const DefaultBackground = "#000000"

// Surface is a gg context that can draw a scaled part of an image through
// the active clip mask.
type Surface struct {
	*gg.Context
}

var _ collage.Surface = (*Surface)(nil)

// New returns a width x height surface filled with bg.
func New(width, height int, bg color.Color) *Surface {
	dc := gg.NewContext(width, height)
	if bg == nil {
		bg = color.Black
	}
	dc.SetColor(bg)
	dc.Clear()
	return &Surface{Context: dc}
}

// ParseColor parses a hex colour such as "#1e1e1e". An empty string is
// DefaultBackground.
func ParseColor(hex string) (color.Color, error) {
	if hex == "" {
		hex = DefaultBackground
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return c.Clamped(), nil
}

// DrawImage draws the src region of img, in image pixels relative to its
// bounds, stretched over dst.
func (s *Surface) DrawImage(img image.Image, src, dst collage.Rect) {
	if img == nil || src.W <= 0 || src.H <= 0 || dst.W <= 0 || dst.H <= 0 {
		return
	}
	b := img.Bounds()
	sx, sy := dst.W/src.W, dst.H/src.H

	// whole pixels covering src, limited to the image
	r := image.Rect(
		b.Min.X+int(math.Floor(src.X)),
		b.Min.Y+int(math.Floor(src.Y)),
		b.Min.X+int(math.Ceil(src.X+src.W)),
		b.Min.Y+int(math.Ceil(src.Y+src.H)),
	).Intersect(b)
	if r.Empty() {
		return
	}
	sub := imaging.Crop(img, r)

	s.Push()
	s.Translate(
		dst.X+(float64(r.Min.X-b.Min.X)-src.X)*sx,
		dst.Y+(float64(r.Min.Y-b.Min.Y)-src.Y)*sy,
	)
	s.Scale(sx, sy)
	s.Context.DrawImage(sub, 0, 0)
	s.Pop()
}

// Format maps a file extension or format name to an encoder format.
func Format(name string) (imaging.Format, error) {
	name = strings.TrimPrefix(strings.ToLower(name), ".")
	if name == "" {
		return imaging.PNG, nil
	}
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("unsupported output format %q: %w", name, err)
	}
	return f, nil
}

// Encode writes the surface in the given format.
func (s *Surface) Encode(w io.Writer, format imaging.Format) error {
	return imaging.Encode(w, s.Image(), format, imaging.JPEGQuality(90))
}
