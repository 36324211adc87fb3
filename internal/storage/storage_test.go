package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/collager/internal/pool"
)

func TestNewDefaultsToEmptyPool(t *testing.T) {
	s := New(nil)
	if p := s.Get(); p == nil || p.Total != 0 {
		t.Errorf("Expected empty pool, got %+v", p)
	}
}

func TestReindexSwapsPool(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	s := New(nil)

	if err := os.WriteFile(dir+"a.jpg", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := s.Reindex(context.Background(), pool.NewIndexer(), []string{dir})
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if p.Total != 1 || s.Get() != p {
		t.Fatalf("Expected stored pool with 1 image, got %+v", s.Get())
	}

	if err := os.WriteFile(dir+"b.png", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reindex(context.Background(), pool.NewIndexer(), []string{dir}); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if s.Get().Total != 2 {
		t.Errorf("Expected 2 images after reindex, got %d", s.Get().Total)
	}
}

func TestConcurrentReadsDuringReindex(t *testing.T) {
	s := New(pool.New([]pool.Entry{{Dir: "a/", Files: []string{"1.jpg"}}}))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					s.Set(pool.New([]pool.Entry{{Dir: "b/", Files: []string{"1.jpg", "2.jpg"}}}))
					continue
				}
				if p := s.Get(); p.Total == 0 {
					t.Error("observed an empty pool")
				}
			}
		}()
	}
	wg.Wait()
}
