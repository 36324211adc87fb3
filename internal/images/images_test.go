package images

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/storage"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLocalSourceLoadAll(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	writePNG(t, dir+"good.png", 12, 7)
	if err := os.WriteFile(dir+"broken.jpg", []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	store := storage.New(pool.New([]pool.Entry{{Dir: dir, Files: []string{"good.png", "broken.jpg"}}}))
	src := NewLocalSource(store, rand.New(rand.NewPCG(1, 1)))

	refs := []models.ImageRef{
		{Dir: dir, Image: "good.png"},
		{Dir: dir, Image: "broken.jpg"},
		{Dir: dir, Image: "missing.png"},
	}
	loaded := NewLoader().LoadAll(context.Background(), src, refs)

	if len(loaded) != 3 {
		t.Fatalf("Expected positional result of 3, got %d", len(loaded))
	}
	if loaded[0] == nil {
		t.Fatal("Expected good.png to load")
	}
	if b := loaded[0].Image.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("Expected 12x7, got %dx%d", b.Dx(), b.Dy())
	}
	if loaded[0].Meta != nil {
		t.Errorf("Expected no metadata for PNG, got %+v", loaded[0].Meta)
	}
	if loaded[1] != nil || loaded[2] != nil {
		t.Error("Expected failed loads to be nil")
	}
}

func TestLocalSourceSelect(t *testing.T) {
	store := storage.New(pool.New([]pool.Entry{{Dir: "d/", Files: []string{"a.jpg", "b.jpg"}}}))
	src := NewLocalSource(store, rand.New(rand.NewPCG(2, 3)))

	refs, err := src.Select(context.Background(), 3)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(refs) != 3 {
		t.Errorf("Expected 3 refs, got %d", len(refs))
	}

	empty := NewLocalSource(storage.New(nil), rand.New(rand.NewPCG(2, 3)))
	if _, err := empty.Select(context.Background(), 3); err == nil {
		t.Error("Expected error selecting from an empty pool")
	}
}

func TestFetcher(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	writePNG(t, dir+"remote.png", 5, 9)

	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "config":
			json.NewEncoder(w).Encode(RemoteConfig{Width: 640, Height: 480, ImageDirectories: []string{dir}})
		case "image":
			if r.URL.Query().Get("amount") != "2" {
				http.Error(w, "bad amount", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode([]models.ImageRef{{Dir: dir, Image: "remote.png"}, {Dir: dir, Image: "gone.png"}})
		}
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, r.URL.Query().Get("dir")+r.URL.Query().Get("img"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := NewFetcher(server.URL + "/")
	ctx := context.Background()

	cfg, err := f.Config(ctx)
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	refs, err := f.Select(ctx, 2)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	loaded := NewLoader().LoadAll(ctx, f, refs)
	if loaded[0] == nil || loaded[0].Image.Bounds().Dx() != 5 {
		t.Errorf("Expected remote.png to load, got %+v", loaded[0])
	}
	if loaded[1] != nil {
		t.Error("Expected 404 image to be nil")
	}

	if _, err := f.Select(ctx, 3); err == nil {
		t.Error("Expected error when the back-end rejects the request")
	}
}
