package storage

import (
	"context"
	"sync"

	"github.com/lehigh-university-libraries/collager/internal/pool"
)

// PoolStore holds the current image pool. A rebuild happens off-lock and is
// swapped in whole, so readers never observe a partially built pool.
type PoolStore struct {
	pool *pool.Pool
	mu   sync.RWMutex
	// serializes rebuilds
	reindex sync.Mutex
}

func New(p *pool.Pool) *PoolStore {
	if p == nil {
		p = pool.New(nil)
	}
	return &PoolStore{pool: p}
}

func (s *PoolStore) Get() *pool.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

func (s *PoolStore) Set(p *pool.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = p
}

// Reindex rebuilds the pool from dirs and swaps it in.
func (s *PoolStore) Reindex(ctx context.Context, ix *pool.Indexer, dirs []string) (*pool.Pool, error) {
	s.reindex.Lock()
	defer s.reindex.Unlock()

	p, err := ix.Build(ctx, dirs)
	if err != nil {
		return nil, err
	}
	s.Set(p)
	return p, nil
}
