package imagegen

import (
	"fmt"
	"strconv"
	"strings"

	"playground/internal/providers/openai"
)

// Mode enumerates the supported request modes.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeEdit     Mode = "edit"
)

const (
	MinImageCount = 1
	MaxImageCount = 10

	// MaxSourceImages bounds how many conditioning images one edit accepts.
	MaxSourceImages = 10
)

var (
	allowedSizes       = set("auto", "1024x1024", "1536x1024", "1024x1536")
	allowedQualities   = set("auto", "low", "medium", "high")
	allowedBackgrounds = set("auto", "transparent", "opaque")
	allowedModerations = set("auto", "low")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// RawParams is the parameter set as submitted by the client, before any
// normalization. String fields arrive straight from form values.
type RawParams struct {
	Prompt            string
	N                 string
	Size              string
	Quality           string
	Background        string
	Moderation        string
	OutputFormat      string
	OutputCompression string
}

// ParseMode validates the request mode. Anything outside the two supported
// modes is a client error rather than a silent fallback.
func ParseMode(mode string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeGenerate:
		return ModeGenerate, nil
	case ModeEdit:
		return ModeEdit, nil
	default:
		return "", fmt.Errorf("invalid mode: %q", mode)
	}
}

// Normalize maps raw client parameters onto the provider contract:
// n clamped to [1,10], enumerated fields collapsed to their allowed sets
// (falling back to the provider default "auto"), output format aliased and
// restricted to {png,jpeg,webp}, and compression attached only when the
// normalized format actually supports it. PNG must never carry a
// compression parameter.
func Normalize(raw RawParams) (openai.GenerateParams, error) {
	prompt := strings.TrimSpace(raw.Prompt)
	if prompt == "" {
		return openai.GenerateParams{}, fmt.Errorf("prompt is required")
	}

	params := openai.GenerateParams{
		Prompt:       prompt,
		N:            clampCount(raw.N),
		Size:         pick(raw.Size, allowedSizes),
		Quality:      pick(raw.Quality, allowedQualities),
		Background:   pick(raw.Background, allowedBackgrounds),
		Moderation:   pick(raw.Moderation, allowedModerations),
		OutputFormat: NormalizeOutputFormat(raw.OutputFormat),
	}
	if params.OutputFormat == "jpeg" || params.OutputFormat == "webp" {
		params.OutputCompression = clampCompression(raw.OutputCompression)
	}
	return params, nil
}

// NormalizeOutputFormat lowercases the requested format, maps the jpg alias
// to jpeg, and falls back to png for anything unrecognized or empty.
func NormalizeOutputFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpg", "jpeg":
		return "jpeg"
	case "webp":
		return "webp"
	default:
		return "png"
	}
}

func clampCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinImageCount
	}
	if n < MinImageCount {
		return MinImageCount
	}
	if n > MaxImageCount {
		return MaxImageCount
	}
	return n
}

func clampCompression(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

func pick(value string, allowed map[string]struct{}) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if _, ok := allowed[v]; ok {
		return v
	}
	return "auto"
}
