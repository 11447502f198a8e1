package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playground/internal/auth"
	"playground/internal/domain"
	"playground/internal/providers/openai"
	"playground/internal/storage"
)

func TestGenerateImagesClampsCount(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(2)}
	app, _ := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "A sunset"},
		{"n", "15"},
	}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gen.lastParams.N != 10 {
		t.Fatalf("provider received n = %d, want 10", gen.lastParams.N)
	}
}

func TestGenerateImagesFilesystemModeResponse(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(2)}
	app, base := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "A sunset"},
		{"output_format", "jpg"},
	}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp imagesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(resp.Images))
	}
	for _, img := range resp.Images {
		if !strings.HasSuffix(img.Filename, ".jpeg") {
			t.Fatalf("filename = %q, want .jpeg suffix from jpg alias", img.Filename)
		}
		if img.Path != "/api/image/"+img.Filename {
			t.Fatalf("path = %q", img.Path)
		}
		if img.B64JSON != "" {
			t.Fatalf("fs mode leaked b64 payload")
		}
		if data, err := os.ReadFile(filepath.Join(base, img.Filename)); err != nil || string(data) != "image-bytes" {
			t.Fatalf("stored file unreadable: %v %q", err, data)
		}
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 199 {
		t.Fatalf("usage missing: %+v", resp.Usage)
	}
	if resp.Cost == nil || resp.Cost.EstimatedCost != 0.0010 {
		t.Fatalf("cost = %+v, want 0.0010", resp.Cost)
	}
}

func TestGenerateImagesIndexedDBModeResponse(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(1)}
	app, _ := newTestApp(t, "", storage.ModeIndexedDB, gen)

	req := multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "A sunset"},
	}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp imagesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Images[0].B64JSON == "" {
		t.Fatalf("indexeddb mode missing inline payload")
	}
	if resp.Images[0].Path != "" {
		t.Fatalf("indexeddb mode returned path %q", resp.Images[0].Path)
	}
}

func TestGenerateImagesAuth(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(1)}
	app, _ := newTestApp(t, "secret", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "p"},
	}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg != "Unauthorized: Missing password hash." {
		t.Fatalf("message = %q", msg)
	}

	req = multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "p"},
		{"passwordHash", auth.HashPassword("wrong")},
	}, nil)
	rec = httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg != "Unauthorized: Invalid password." {
		t.Fatalf("message = %q", msg)
	}

	req = multipartRequest(t, []formField{
		{"mode", "generate"},
		{"prompt", "p"},
		{"passwordHash", auth.HashPassword("secret")},
	}, nil)
	rec = httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with correct hash", rec.Code)
	}
}

func TestGenerateImagesValidation(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(1)}
	app, _ := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{{"mode", "variation"}, {"prompt", "p"}}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid mode status = %d, want 400", rec.Code)
	}

	req = multipartRequest(t, []formField{{"mode", "generate"}, {"prompt", "  "}}, nil)
	rec = httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty prompt status = %d, want 400", rec.Code)
	}

	req = multipartRequest(t, []formField{{"mode", "edit"}, {"prompt", "p"}}, nil)
	rec = httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("edit without image status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg != "Edit mode requires at least one source image." {
		t.Fatalf("message = %q", msg)
	}
}

func TestGenerateImagesMissingAPIKey(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrMissingAPIKey}
	app, _ := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{{"mode", "generate"}, {"prompt", "p"}}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg != "Server configuration error: API key not found." {
		t.Fatalf("message = %q", msg)
	}
}

func TestGenerateImagesForwardsProviderMessage(t *testing.T) {
	gen := &fakeGenerator{err: &openai.APIError{StatusCode: 400, Message: "Your prompt was rejected."}}
	app, _ := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t, []formField{{"mode", "generate"}, {"prompt", "p"}}, nil)
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg != "Your prompt was rejected." {
		t.Fatalf("message = %q, want provider message unchanged", msg)
	}
}

func TestGenerateImagesEditForwardsUploads(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(1)}
	app, _ := newTestApp(t, "", storage.ModeFS, gen)

	req := multipartRequest(t,
		[]formField{{"mode", "edit"}, {"prompt", "add a hat"}},
		[]formFile{
			{"image_0", "one.png", []byte("first")},
			{"image_1", "two.png", []byte("second")},
			{"mask", "mask.png", []byte("mask-bytes")},
		})
	rec := httptest.NewRecorder()
	app.GenerateImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(gen.lastImages) != 2 {
		t.Fatalf("gateway received %d images, want 2", len(gen.lastImages))
	}
	if string(gen.lastImages[0].Data) != "first" || string(gen.lastImages[1].Data) != "second" {
		t.Fatalf("image bytes mangled: %+v", gen.lastImages)
	}
	if gen.lastMask == nil || string(gen.lastMask.Data) != "mask-bytes" {
		t.Fatalf("mask not forwarded: %+v", gen.lastMask)
	}
}
