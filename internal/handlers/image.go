package handlers

import (
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/pool"
)

// HandleImage serves a single pool image. Only configured directories and
// bare file names are accepted.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ref := models.ImageRef{
		Dir:   r.URL.Query().Get("dir"),
		Image: r.URL.Query().Get("img"),
	}
	if ref.Dir == "" || ref.Image == "" {
		h.writeError(w, "dir and img are required", http.StatusBadRequest)
		return
	}
	if strings.ContainsAny(ref.Image, `/\`) || strings.Contains(ref.Image, "..") || !pool.IsImageName(ref.Image) {
		h.writeError(w, "Invalid image name", http.StatusBadRequest)
		return
	}
	if !h.cfg.HasDirectory(ref.Dir) {
		h.writeError(w, "Unknown image directory", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, ref.Path())
}
