package collage

import (
	"math"
	"math/rand/v2"
)

// MinSampleWidth is the narrowest source strip a layer samples. Images
// narrower than this are not drawn.
const MinSampleWidth = 100

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// FitRegion maps Src, in source pixels, onto Dst, in canvas coordinates,
// with one uniform scale.
type FitRegion struct {
	Src   Rect
	Dst   Rect
	Scale float64
}

// coverScale is the factor that makes a sw x sh sample cover tw x th,
// never below 1.
func coverScale(sw, sh, tw, th float64) float64 {
	return math.Max(1, math.Max(tw/sw, th/sh))
}

// BackgroundFit samples a strip of the source with the canvas aspect ratio
// and scales it to cover the whole canvas. ok is false when the image is too
// narrow to sample.
func BackgroundFit(rng *rand.Rand, srcW, srcH, canvasW, canvasH float64) (FitRegion, bool) {
	if srcW < MinSampleWidth || srcH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return FitRegion{}, false
	}
	sw := uniform(rng, MinSampleWidth, srcW)
	sh := canvasH / canvasW * sw
	sx := uniform(rng, 0, srcW-sw)
	sy := srcH/2 - sh/2

	scale := coverScale(sw, sh, canvasW, canvasH)
	dw, dh := sw*scale, sh*scale
	// dw >= canvasW, so the offset lies in [canvasW-dw, 0]
	dx := rng.Float64() * (canvasW - dw)
	dy := canvasH/2 - dh/2

	return FitRegion{
		Src:   Rect{X: sx, Y: sy, W: sw, H: sh},
		Dst:   Rect{X: dx, Y: dy, W: dw, H: dh},
		Scale: scale,
	}, true
}

// ClipFit samples a roughly square piece of the source and scales it to
// cover a clipW x clipH region anchored to the left or right canvas edge.
func ClipFit(rng *rand.Rand, srcW, srcH, canvasW, canvasH, clipW, clipH float64, isLeft bool) (FitRegion, bool) {
	if srcW < MinSampleWidth || srcH <= 0 || clipW <= 0 || clipH <= 0 {
		return FitRegion{}, false
	}
	sw := uniform(rng, MinSampleWidth, srcW)
	sh := math.Min(sw, srcH)
	sx := uniform(rng, 0, srcW-sw)
	sy := srcH/2 - sh/2

	scale := coverScale(sw, sh, clipW, clipH)
	dw, dh := sw*scale, sh*scale
	dx := 0.0
	if !isLeft {
		dx = canvasW - clipW
	}
	dy := canvasH/2 - dh/2

	return FitRegion{
		Src:   Rect{X: sx, Y: sy, W: sw, H: sh},
		Dst:   Rect{X: dx, Y: dy, W: dw, H: dh},
		Scale: scale,
	}, true
}
