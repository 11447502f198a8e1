package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"playground/internal/auth"
	"playground/internal/imagegen"
	"playground/internal/infra"
	"playground/internal/providers/openai"
	"playground/internal/storage"
)

// fakeGenerator captures what the handler sends to the provider gateway and
// plays back a canned response.
type fakeGenerator struct {
	lastParams openai.GenerateParams
	lastImages []openai.ImageFile
	lastMask   *openai.ImageFile
	resp       *openai.ImageResponse
	err        error
}

func (f *fakeGenerator) Generate(ctx context.Context, params openai.GenerateParams) (*openai.ImageResponse, error) {
	f.lastParams = params
	return f.resp, f.err
}

func (f *fakeGenerator) Edit(ctx context.Context, params openai.GenerateParams, images []openai.ImageFile, mask *openai.ImageFile) (*openai.ImageResponse, error) {
	f.lastParams = params
	f.lastImages = images
	f.lastMask = mask
	return f.resp, f.err
}

func okResponse(n int) *openai.ImageResponse {
	resp := &openai.ImageResponse{
		Created: 1700000000,
		Usage: &openai.Usage{
			InputTokens:        199,
			OutputTokens:       0,
			TotalTokens:        199,
			InputTokensDetails: &openai.InputTokensDetails{TextTokens: 199},
		},
	}
	for i := 0; i < n; i++ {
		resp.Data = append(resp.Data, openai.ImageData{
			B64JSON: base64.StdEncoding.EncodeToString([]byte("image-bytes")),
		})
	}
	return resp
}

func newTestApp(t *testing.T, password string, mode storage.Mode, gen ImageGenerator) (*App, string) {
	t.Helper()
	base := t.TempDir()
	store, err := storage.NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	app := &App{
		Config: &infra.Config{StorageMode: mode},
		Logger: zerolog.Nop(),
		Gate:   auth.NewGate(password),
		Images: gen,
		Svc:    imagegen.NewService(store, zerolog.Nop()),
		Rates:  imagegen.DefaultRates,
	}
	return app, base
}

type formField struct {
	name, value string
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, fields []formField, files []formFile) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/images", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload map[string]string
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload["error"]
}
