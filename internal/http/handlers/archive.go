package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"playground/internal/domain"
	"playground/pkg/zip"
)

type archiveRequest struct {
	Filenames    []string `json:"filenames"`
	PasswordHash string   `json:"passwordHash"`
}

// ArchiveImages handles POST /api/images-archive: bundles the named stored
// images into one zip download. Names run through the same validation as
// retrieval; files that are missing are skipped, and a request where
// nothing resolves is a 404.
func (a *App) ArchiveImages(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body: Must be JSON.")
		return
	}
	if !a.authorize(w, req.PasswordHash) {
		return
	}
	if len(req.Filenames) == 0 {
		a.error(w, http.StatusBadRequest, "No filenames provided to archive.")
		return
	}

	var assets []zip.Asset
	for _, name := range req.Filenames {
		data, contentType, err := a.Svc.Retrieve(name)
		switch {
		case errors.Is(err, domain.ErrInvalidFilename):
			a.error(w, http.StatusBadRequest, "Invalid filename")
			return
		case errors.Is(err, domain.ErrNotFound):
			continue
		case err != nil:
			a.Logger.Error().Err(err).Str("filename", name).Msg("handlers: archive read failed")
			a.error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		assets = append(assets, zip.Asset{Filename: name, MIME: contentType, Data: data})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "Image not found")
		return
	}

	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=images-%d.zip", time.Now().Unix()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
