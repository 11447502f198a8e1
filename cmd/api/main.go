package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"playground/internal/adapter/repo"
	"playground/internal/auth"
	"playground/internal/http/handlers"
	"playground/internal/http/httpapi"
	"playground/internal/imagegen"
	"playground/internal/infra"
	"playground/internal/providers/openai"
	"playground/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; image generation requests will fail")
	}
	logger.Info().Str("storage_mode", string(cfg.StorageMode)).Msg("storage mode selected")

	store, err := storage.NewFileStore(cfg.ImageOutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image store")
	}

	app := &handlers.App{
		Config: cfg,
		Logger: logger,
		Gate:   auth.NewGate(cfg.AppPassword),
		Images: openai.NewClient(openai.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIImageModel,
			Logger:  logger,
		}),
		Svc:   imagegen.NewService(store, logger),
		Rates: imagegen.DefaultRates,
	}

	// The history ledger is optional; skip it entirely without a database.
	ctx := context.Background()
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		app.History = repo.NewHistoryRepository(pool)
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
