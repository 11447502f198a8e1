package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"playground/internal/http/handlers"
	"playground/internal/middleware"
)

// NewRouter wires the API routes and the shared middleware stack.
func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(app.Config.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(app.Config.AllowedOrigins))
	}
	if app.Config.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
	}

	r.Get("/api/healthz", app.Health)
	r.Get("/api/auth-status", app.AuthStatus)

	r.Post("/api/images", app.GenerateImages)
	r.Get("/api/image/{filename}", app.ServeImage)
	r.Post("/api/image-delete", app.DeleteImages)
	r.Post("/api/images-archive", app.ArchiveImages)
	r.Get("/api/history", app.HistoryList)

	return r
}
