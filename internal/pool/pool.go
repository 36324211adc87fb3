package pool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"golang.org/x/sync/errgroup"
)

// imagePattern is the allow-list for pool file names.
var imagePattern = regexp.MustCompile(`(?i)\S+\.(jpg|jpeg|png|gif|bmp)$`)

// IsImageName reports whether name passes the image extension allow-list.
func IsImageName(name string) bool {
	return imagePattern.MatchString(name)
}

// Entry holds the image files found in one directory and the position of
// the first of them in the flat index.
type Entry struct {
	Dir        string
	Files      []string
	StartIndex int
}

// Pool is a flat index over the files of all entries. Entry ranges are
// contiguous and cover [0, Total).
type Pool struct {
	Entries []Entry
	Total   int
}

// New assigns start indices to entries in the order given.
func New(entries []Entry) *Pool {
	p := &Pool{Entries: entries}
	for i := range p.Entries {
		p.Entries[i].StartIndex = p.Total
		p.Total += len(p.Entries[i].Files)
	}
	return p
}

// Resolve maps a flat index to its directory and file name.
func (p *Pool) Resolve(i int) (models.ImageRef, error) {
	if i < 0 || i >= p.Total {
		return models.ImageRef{}, fmt.Errorf("index %d out of range [0, %d)", i, p.Total)
	}
	// first entry whose range ends past i; empty entries are skipped naturally
	n := sort.Search(len(p.Entries), func(j int) bool {
		e := p.Entries[j]
		return e.StartIndex+len(e.Files) > i
	})
	e := p.Entries[n]
	return models.ImageRef{Dir: e.Dir, Image: e.Files[i-e.StartIndex]}, nil
}

// Lister lists the entry names of a directory.
type Lister interface {
	List(dir string) ([]string, error)
}

// DirLister lists regular directory entries with os.ReadDir.
type DirLister struct{}

func (DirLister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Indexer scans image directories into a Pool.
type Indexer struct {
	Lister Lister
	// Strict fails the whole build when a directory cannot be listed.
	// Otherwise that directory contributes no files.
	Strict bool
}

// NewIndexer creates an indexer reading the local filesystem
func NewIndexer() *Indexer {
	return &Indexer{Lister: DirLister{}}
}

// Build scans every directory concurrently and assembles the pool in the
// order the directories were supplied.
func (ix *Indexer) Build(ctx context.Context, dirs []string) (*Pool, error) {
	lister := ix.Lister
	if lister == nil {
		lister = DirLister{}
	}

	entries := make([]Entry, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			names, err := lister.List(dir)
			if err != nil {
				if ix.Strict {
					return fmt.Errorf("failed to index %s: %w", dir, err)
				}
				slog.Warn("Unable to list image directory", "dir", dir, "err", err)
			}
			files := make([]string, 0, len(names))
			for _, name := range names {
				if IsImageName(name) {
					files = append(files, name)
				}
			}
			entries[i] = Entry{Dir: dir, Files: files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := New(entries)
	for _, e := range p.Entries {
		slog.Debug("Indexed directory", "dir", e.Dir, "start", e.StartIndex, "count", len(e.Files))
	}
	slog.Info("Image pool indexed", "directories", len(p.Entries), "total", p.Total)
	return p, nil
}
