package handlers

import (
	"net/http"
	"strconv"

	"playground/internal/domain"
)

// HistoryList handles GET /api/history. Without a configured database the
// ledger is simply empty rather than an error, so clients need no feature
// detection.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	if a.History == nil {
		a.json(w, http.StatusOK, map[string]any{"items": []domain.GenerationRecord{}})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	records, err := a.History.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: failed to load history")
		a.error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if records == nil {
		records = []domain.GenerationRecord{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": records})
}
