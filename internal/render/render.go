package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/canvas"
	"github.com/lehigh-university-libraries/collager/internal/collage"
	"github.com/lehigh-university-libraries/collager/internal/images"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/orient"
)

// Renderer turns a random selection of images into one collage.
type Renderer struct {
	Width      int
	Height     int
	Background color.Color
	Loader     *images.Loader
	Options    collage.Options
}

// Result is a finished collage.
type Result struct {
	Surface  *canvas.Surface
	Refs     []models.ImageRef
	Painted  []collage.Painted
	Duration time.Duration
}

// NewRand returns a generator for seed, or a randomly seeded one for 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Render selects collage.Layers images from src, loads and corrects them,
// then paints them back to front. Only selection errors fail the render.
func (r *Renderer) Render(ctx context.Context, src images.Source, rng *rand.Rand) (*Result, error) {
	start := time.Now()

	refs, err := src.Select(ctx, collage.Layers)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}

	loader := r.Loader
	if loader == nil {
		loader = images.NewLoader()
	}
	loaded := loader.LoadAll(ctx, src, refs)
	corrected := correctAll(loaded)

	s := canvas.New(r.Width, r.Height, r.Background)
	painted := collage.Compose(s, rng, corrected, r.Options)

	res := &Result{
		Surface:  s,
		Refs:     refs,
		Painted:  painted,
		Duration: time.Since(start),
	}
	slog.Info("Collage rendered", "images", len(refs), "layers", len(painted), "duration", res.Duration)
	return res, nil
}

// correctAll fixes orientation of every loaded image concurrently. Missing
// images stay nil.
func correctAll(loaded []*images.Loaded) []image.Image {
	out := make([]image.Image, len(loaded))

	var wg sync.WaitGroup
	for i, l := range loaded {
		if l == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = orient.Correct(l.Image, l.Meta)
		}()
	}
	wg.Wait()

	return out
}
