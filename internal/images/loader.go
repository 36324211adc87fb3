package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/orient"
)

// defaultMaxBytes limits how much of a single image is read.
const defaultMaxBytes = 64 * 1024 * 1024

// Loaded is a decoded image with whatever metadata it carried.
type Loaded struct {
	Ref   models.ImageRef
	Image image.Image
	Meta  *orient.Metadata
}

// Loader reads and decodes images from a Source.
type Loader struct {
	MaxBytes int64
}

func NewLoader() *Loader {
	return &Loader{MaxBytes: defaultMaxBytes}
}

// Load reads and decodes one image.
func (l *Loader) Load(ctx context.Context, src Source, ref models.ImageRef) (*Loaded, error) {
	rc, err := src.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	limit := l.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Loaded{
		Ref:   ref,
		Image: img,
		Meta:  orient.ReadMetadata(bytes.NewReader(data)),
	}, nil
}

// LoadAll loads every ref concurrently. The result is positional; an image
// that fails to load is nil in its slot.
func (l *Loader) LoadAll(ctx context.Context, src Source, refs []models.ImageRef) []*Loaded {
	out := make([]*Loaded, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := l.Load(ctx, src, ref)
			if err != nil {
				slog.Warn("Unable to load image", "dir", ref.Dir, "image", ref.Image, "err", err)
				return
			}
			b := loaded.Image.Bounds()
			slog.Debug("Image loaded", "path", ref.Path(), "width", b.Dx(), "height", b.Dy())
			out[i] = loaded
		}()
	}
	wg.Wait()

	return out
}
