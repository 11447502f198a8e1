package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"playground/internal/auth"
	"playground/internal/domain"
	"playground/internal/imagegen"
	"playground/internal/infra"
	"playground/internal/providers/openai"
)

// ImageGenerator is the provider gateway surface the handlers depend on.
type ImageGenerator interface {
	Generate(ctx context.Context, params openai.GenerateParams) (*openai.ImageResponse, error)
	Edit(ctx context.Context, params openai.GenerateParams, images []openai.ImageFile, mask *openai.ImageFile) (*openai.ImageResponse, error)
}

// HistoryLedger records completed generations. Nil when no database is
// configured.
type HistoryLedger interface {
	Record(ctx context.Context, rec domain.GenerationRecord) (string, error)
	ListRecent(ctx context.Context, limit int) ([]domain.GenerationRecord, error)
}

// App is the handler container; everything it needs is injected once at
// startup.
type App struct {
	Config  *infra.Config
	Logger  zerolog.Logger
	Gate    *auth.Gate
	Images  ImageGenerator
	Svc     *imagegen.Service
	Rates   imagegen.Rates
	History HistoryLedger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
