package images

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/storage"
)

// Source selects images and opens their bytes.
type Source interface {
	Select(ctx context.Context, n int) ([]models.ImageRef, error)
	Open(ctx context.Context, ref models.ImageRef) (io.ReadCloser, error)
}

// LocalSource selects from an in-process pool and reads the local filesystem.
type LocalSource struct {
	store *storage.PoolStore
	mu    sync.Mutex
	rng   *rand.Rand
}

// NewLocalSource creates a source drawing from store with rng.
func NewLocalSource(store *storage.PoolStore, rng *rand.Rand) *LocalSource {
	return &LocalSource{store: store, rng: rng}
}

func (s *LocalSource) Select(_ context.Context, n int) ([]models.ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get().Select(s.rng, n)
}

// Open reads the file at the concatenation of directory and file name.
func (s *LocalSource) Open(_ context.Context, ref models.ImageRef) (io.ReadCloser, error) {
	f, err := os.Open(ref.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}
