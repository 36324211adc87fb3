package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/pool"
)

// HandleJSON answers /json?type=image|config.
func (h *Handler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Query().Get("type") {
	case "image":
		h.handleImageList(w, r)
	case "config":
		h.writeJSON(w, config.Config{
			Width:            h.cfg.Width,
			Height:           h.cfg.Height,
			ImageDirectories: h.cfg.ImageDirectories,
		})
	default:
		h.writeError(w, "Invalid type. Must be 'image' or 'config'", http.StatusBadRequest)
	}
}

func (h *Handler) handleImageList(w http.ResponseWriter, r *http.Request) {
	amount := defaultAmount
	if v := r.URL.Query().Get("amount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxAmount {
			h.writeError(w, "Invalid amount. Must be between 0 and "+strconv.Itoa(maxAmount), http.StatusBadRequest)
			return
		}
		amount = n
	}

	refs, err := h.source.Select(r.Context(), amount)
	if errors.Is(err, pool.ErrEmptyPool) {
		h.writeError(w, "No images available", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to select images: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, refs)
}
