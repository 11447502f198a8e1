package handlers

import (
	"encoding/json"
	"net/http"

	"playground/internal/domain"
)

type deleteRequest struct {
	Filenames    json.RawMessage `json:"filenames"`
	PasswordHash string          `json:"passwordHash"`
}

type deleteResponse struct {
	Message string                  `json:"message"`
	Results []domain.DeletionResult `json:"results"`
}

// DeleteImages handles POST /api/image-delete. Every filename gets its own
// validation and unlink attempt; one bad entry degrades the response to an
// itemized 207 instead of aborting the rest.
func (a *App) DeleteImages(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body: Must be JSON.")
		return
	}

	var filenames []string
	if len(req.Filenames) == 0 || json.Unmarshal(req.Filenames, &filenames) != nil || string(req.Filenames) == "null" {
		a.error(w, http.StatusBadRequest, "Invalid filenames: Must be an array of strings.")
		return
	}

	if !a.authorize(w, req.PasswordHash) {
		return
	}

	if len(filenames) == 0 {
		a.json(w, http.StatusOK, deleteResponse{
			Message: "No filenames provided to delete.",
			Results: []domain.DeletionResult{},
		})
		return
	}

	results := a.Svc.DeleteMany(filenames)
	for _, result := range results {
		if !result.Success {
			a.json(w, http.StatusMultiStatus, deleteResponse{
				Message: "Some files could not be deleted.",
				Results: results,
			})
			return
		}
	}
	a.json(w, http.StatusOK, deleteResponse{
		Message: "All files deleted successfully.",
		Results: []domain.DeletionResult{},
	})
}
