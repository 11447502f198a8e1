package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"playground/internal/domain"
)

// FileStore persists generated images as flat files under one directory.
// It only ever sees filenames that passed ValidFilename, but re-checks on
// every operation as defense in depth.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath. The directory is
// not created until the first write so client-storage deployments never
// touch the disk.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Write persists data under filename and returns the full disk path.
func (s *FileStore) Write(filename string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if !ValidFilename(filename) {
		return "", domain.ErrInvalidFilename
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure base path: %w", err)
	}
	fullPath := filepath.Join(s.basePath, filename)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return fullPath, nil
}

// Read returns the stored bytes for filename. A missing file maps to
// domain.ErrNotFound; any other failure is surfaced as-is. Existence is
// checked before the read so a vanished file and an unreadable one report
// differently.
func (s *FileStore) Read(filename string) ([]byte, error) {
	if !ValidFilename(filename) {
		return nil, domain.ErrInvalidFilename
	}
	fullPath := filepath.Join(s.basePath, filename)
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: stat file: %w", err)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// Remove unlinks filename. Missing files map to domain.ErrNotFound.
func (s *FileStore) Remove(filename string) error {
	if !ValidFilename(filename) {
		return domain.ErrInvalidFilename
	}
	fullPath := filepath.Join(s.basePath, filename)
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// ContentTypeFor derives a Content-Type from the filename's extension,
// defaulting to a generic binary type when the extension is unrecognized.
func ContentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
