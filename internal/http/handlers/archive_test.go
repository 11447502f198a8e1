package handlers

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playground/internal/storage"
)

func archiveRequestJSON(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/images-archive", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestArchiveImages(t *testing.T) {
	app, base := newTestApp(t, "", storage.ModeFS, &fakeGenerator{})
	for name, content := range map[string]string{"a.png": "aaa", "b.webp": "bbb"} {
		if err := os.WriteFile(filepath.Join(base, name), []byte(content), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	app.ArchiveImages(rec, archiveRequestJSON(t, `{"filenames": ["a.png", "b.webp", "gone.png"]}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("Content-Type = %q", got)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive holds %d entries, want 2 (missing file skipped)", len(zr.File))
	}
	found := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry: %v", err)
		}
		found[f.Name] = string(data)
	}
	if found["a.png"] != "aaa" || found["b.webp"] != "bbb" {
		t.Fatalf("archive contents = %+v", found)
	}
}

func TestArchiveImagesNothingResolves(t *testing.T) {
	app, _ := newTestApp(t, "", storage.ModeFS, &fakeGenerator{})
	rec := httptest.NewRecorder()
	app.ArchiveImages(rec, archiveRequestJSON(t, `{"filenames": ["gone.png"]}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestArchiveImagesInvalidName(t *testing.T) {
	app, _ := newTestApp(t, "", storage.ModeFS, &fakeGenerator{})
	rec := httptest.NewRecorder()
	app.ArchiveImages(rec, archiveRequestJSON(t, `{"filenames": ["../etc/passwd"]}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestArchiveImagesEmptyList(t *testing.T) {
	app, _ := newTestApp(t, "", storage.ModeFS, &fakeGenerator{})
	rec := httptest.NewRecorder()
	app.ArchiveImages(rec, archiveRequestJSON(t, `{"filenames": []}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
