package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/collager/internal/canvas"
	"github.com/lehigh-university-libraries/collager/internal/images"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/render"
)

// HandleCollage renders a collage server-side. A seed makes the selection
// and layout reproducible for an unchanged pool.
func (h *Handler) HandleCollage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var seed uint64
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.writeError(w, "Invalid seed", http.StatusBadRequest)
			return
		}
		seed = n
	}
	format, err := canvas.Format(r.URL.Query().Get("format"))
	if err != nil || (format != imaging.PNG && format != imaging.JPEG) {
		h.writeError(w, "Invalid format. Must be 'png' or 'jpg'", http.StatusBadRequest)
		return
	}
	if seed == 0 {
		seed = render.NewRand(0).Uint64()
	}

	src := images.NewLocalSource(h.store, render.NewRand(seed))
	res, err := h.renderer.Render(r.Context(), src, render.NewRand(seed))
	if errors.Is(err, pool.ErrEmptyPool) {
		h.writeError(w, "No images available", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to render collage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := res.Surface.Encode(&buf, format); err != nil {
		h.writeError(w, "Failed to encode collage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if format == imaging.JPEG {
		w.Header().Set("Content-Type", "image/jpeg")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("X-Collage-Seed", strconv.FormatUint(seed, 10))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write collage", "err", err)
	}
}

// HandleReindex rescans the configured directories and swaps in the new pool.
func (h *Handler) HandleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, err := h.store.Reindex(r.Context(), h.indexer, h.cfg.ImageDirectories)
	if err != nil {
		h.writeError(w, "Failed to reindex: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Pool reindexed", "total", p.Total, "directories", len(p.Entries))
	h.writeJSON(w, models.ReindexResult{Total: p.Total, Directories: len(p.Entries)})
}
