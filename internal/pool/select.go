package pool

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lehigh-university-libraries/collager/internal/models"
)

// ErrEmptyPool is returned when images are requested from a pool without files.
var ErrEmptyPool = errors.New("image pool is empty")

// Select draws k images uniformly with replacement.
func (p *Pool) Select(rng *rand.Rand, k int) ([]models.ImageRef, error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid sample count %d", k)
	}
	refs := make([]models.ImageRef, 0, k)
	if k == 0 {
		return refs, nil
	}
	if p == nil || p.Total == 0 {
		return nil, ErrEmptyPool
	}
	for range k {
		ref, err := p.Resolve(rng.IntN(p.Total))
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
