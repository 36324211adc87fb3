package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/collager/internal/canvas"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/images"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/render"
	"github.com/lehigh-university-libraries/collager/internal/storage"
)

const (
	defaultAmount = 3
	maxAmount     = 64
)

type Handler struct {
	cfg       *config.Config
	store     *storage.PoolStore
	indexer   *pool.Indexer
	renderer  *render.Renderer
	source    *images.LocalSource
	staticDir string
}

// New wires a handler to the pool in store. The renderer draws on the
// configured canvas.
func New(cfg *config.Config, store *storage.PoolStore, indexer *pool.Indexer, staticDir string) (*Handler, error) {
	bg, err := canvas.ParseColor(cfg.Background)
	if err != nil {
		return nil, err
	}
	if indexer == nil {
		indexer = pool.NewIndexer()
	}
	return &Handler{
		cfg:     cfg,
		store:   store,
		indexer: indexer,
		renderer: &render.Renderer{
			Width:      cfg.Width,
			Height:     cfg.Height,
			Background: bg,
			Loader:     images.NewLoader(),
		},
		source:    images.NewLocalSource(store, render.NewRand(0)),
		staticDir: staticDir,
	}, nil
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
