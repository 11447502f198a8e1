package infra

import (
	"os"
	"strconv"
	"strings"
	"time"

	"playground/internal/storage"
)

// Config represents application configuration loaded from environment
// variables. It is constructed once at startup and treated as read-only
// afterwards; components receive it explicitly instead of consulting the
// environment themselves.
type Config struct {
	AppEnv           string
	Port             string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIImageModel string
	AppPassword      string
	StorageMode      storage.Mode
	ImageOutputDir   string
	DatabaseURL      string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. A missing provider key is not an error here: the
// images route reports it per-request so the rest of the API (retrieval,
// deletion, auth status) stays serviceable.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_API_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel: getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		AppPassword:      os.Getenv("APP_PASSWORD"),
		StorageMode:      storage.SelectMode(os.Getenv("IMAGE_STORAGE_MODE"), detectServerless()),
		ImageOutputDir:   getEnv("IMAGE_OUTPUT_DIR", "./generated-images"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	return cfg, nil
}

// detectServerless looks for the environment markers the common serverless
// platforms set. Deployments can force it either way with SERVERLESS.
func detectServerless() bool {
	if v, ok := os.LookupEnv("SERVERLESS"); ok {
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	for _, key := range []string{"VERCEL", "AWS_LAMBDA_FUNCTION_NAME", "K_SERVICE"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
