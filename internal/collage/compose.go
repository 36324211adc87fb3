// Package collage lays up to three photos over each other at background,
// mid and close depth. The background fills the canvas; the two nearer
// layers are masked by jagged boundaries anchored to a canvas side.
package collage

import (
	"image"
	"log/slog"
	"math/rand/v2"
)

// Surface is the drawing target of a collage. Path calls build the current
// path; Clip turns it into the clip region and clears it.
type Surface interface {
	Width() int
	Height() int
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
	Clip()
	ResetClip()
	DrawImage(img image.Image, src, dst Rect)
}

// Layer is a depth plane, drawn back to front.
type Layer int

const (
	Background Layer = iota
	Mid
	Close
)

var layerNames = [...]string{"background", "mid", "close"}

func (l Layer) String() string {
	if l < Background || l > Close {
		return "unknown"
	}
	return layerNames[l]
}

// Layers is the number of depth planes.
const Layers = 3

type clipSpec struct {
	minFrac, maxFrac float64
	maxInset         float64
}

var clipSpecs = map[Layer]clipSpec{
	Mid:   {minFrac: 0.2, maxFrac: 0.8, maxInset: 0.7},
	Close: {minFrac: 0.2, maxFrac: 0.7, maxInset: 0.9},
}

// Options tunes how images are assigned to layers.
type Options struct {
	// Repack hands layers to the present images in order, so a missing image
	// does not leave its layer empty. By default layer i always takes
	// image i.
	Repack bool
}

// Painted describes one drawn layer.
type Painted struct {
	Layer  Layer
	Slot   int
	Fit    FitRegion
	Clip   ClipPath
	IsLeft bool
}

// Compose draws images onto s. Nil images and images too small to sample
// are skipped; nothing here fails the collage.
func Compose(s Surface, rng *rand.Rand, imgs []image.Image, opts Options) []Painted {
	var painted []Painted
	next := Background
	for slot, img := range imgs {
		layer := Layer(slot)
		if opts.Repack {
			layer = next
		}
		if layer > Close {
			break
		}
		if img == nil {
			slog.Debug("Skipping missing image", "slot", slot, "layer", layer)
			continue
		}
		p, ok := drawLayer(s, rng, img, layer)
		if !ok {
			slog.Debug("Skipping unusable image", "slot", slot, "layer", layer, "size", img.Bounds().Size())
			continue
		}
		p.Slot = slot
		painted = append(painted, p)
		next++
	}
	return painted
}

func drawLayer(s Surface, rng *rand.Rand, img image.Image, layer Layer) (Painted, bool) {
	b := img.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	canvasW, canvasH := float64(s.Width()), float64(s.Height())

	if layer == Background {
		fit, ok := BackgroundFit(rng, srcW, srcH, canvasW, canvasH)
		if !ok {
			return Painted{}, false
		}
		s.DrawImage(img, fit.Src, fit.Dst)
		return Painted{Layer: layer, Fit: fit}, true
	}

	cs := clipSpecs[layer]
	clipW := uniform(rng, cs.minFrac, cs.maxFrac) * canvasW
	clipH := canvasH
	isLeft := coin(rng, 0.5)

	path := NewClipPath(rng, canvasW, canvasH, clipW, isLeft, cs.maxInset)
	fit, ok := ClipFit(rng, srcW, srcH, canvasW, canvasH, clipW, clipH, isLeft)
	if !ok {
		return Painted{}, false
	}

	path.Replay(s)
	s.Clip()
	s.DrawImage(img, fit.Src, fit.Dst)
	s.ResetClip()
	return Painted{Layer: layer, Fit: fit, Clip: path, IsLeft: isLeft}, true
}
