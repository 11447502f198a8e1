package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"playground/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Options controls how the Images API client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is a thin gateway over the provider's image generation and edit
// endpoints. It forwards normalized parameters, decodes the response, and
// checks that every returned item actually carries image bytes.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a client with sane defaults. A nil HTTP client gets
// replaced with one carrying a timeout suited to image generation latency.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = "gpt-image-1"
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     opts.Logger,
	}
}

// Model returns the configured image model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate calls the generations endpoint with a JSON body.
func (c *Client) Generate(ctx context.Context, params GenerateParams) (*ImageResponse, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	payload := imageGenerationRequest{
		Model:             c.model,
		Prompt:            params.Prompt,
		N:                 params.N,
		Size:              params.Size,
		Quality:           params.Quality,
		Background:        params.Background,
		Moderation:        params.Moderation,
		OutputFormat:      params.OutputFormat,
		OutputCompression: params.OutputCompression,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.invoke(req, len(params.Prompt))
}

// Edit calls the edits endpoint with a multipart body carrying the source
// images and optional mask.
func (c *Client) Edit(ctx context.Context, params GenerateParams, images []ImageFile, mask *ImageFile) (*ImageResponse, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("edit requires at least one source image")
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	writeField := func(name, value string) {
		if value != "" {
			_ = mw.WriteField(name, value)
		}
	}
	writeField("model", c.model)
	writeField("prompt", params.Prompt)
	if params.N > 0 {
		writeField("n", strconv.Itoa(params.N))
	}
	writeField("size", params.Size)
	writeField("quality", params.Quality)
	writeField("background", params.Background)
	writeField("output_format", params.OutputFormat)
	if params.OutputCompression != nil {
		writeField("output_compression", strconv.Itoa(*params.OutputCompression))
	}
	for _, img := range images {
		if err := writeFilePart(mw, "image[]", img); err != nil {
			return nil, err
		}
	}
	if mask != nil {
		if err := writeFilePart(mw, "mask", *mask); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.invoke(req, len(params.Prompt))
}

func writeFilePart(mw *multipart.Writer, field string, img ImageFile) error {
	name := img.Name
	if name == "" {
		name = "image.png"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	mimeType := img.MIME
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create multipart file part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return fmt.Errorf("write multipart file part: %w", err)
	}
	return nil
}

func (c *Client) invoke(req *http.Request, promptLen int) (*ImageResponse, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
		}
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out ImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: response contained no images", domain.ErrProviderFailure)
	}
	for i, item := range out.Data {
		if item.B64JSON == "" {
			return nil, fmt.Errorf("%w: image %d missing payload", domain.ErrProviderFailure, i)
		}
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_len", promptLen).
		Int("images", len(out.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("openai: image call completed")

	return &out, nil
}
