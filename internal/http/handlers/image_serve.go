package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"playground/internal/domain"
)

// ServeImage handles GET /api/image/{filename}: raw stored bytes with
// Content-Type and Content-Length. The filename is validated before any
// filesystem access; a malformed name is a 400, not a 404.
func (a *App) ServeImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		a.error(w, http.StatusBadRequest, "Filename is required")
		return
	}

	data, contentType, err := a.Svc.Retrieve(filename)
	switch {
	case errors.Is(err, domain.ErrInvalidFilename):
		a.error(w, http.StatusBadRequest, "Invalid filename")
		return
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "Image not found")
		return
	case err != nil:
		a.Logger.Error().Err(err).Msg("handlers: image retrieval failed")
		a.error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
