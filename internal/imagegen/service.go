package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"playground/internal/domain"
	"playground/internal/providers/openai"
	"playground/internal/storage"
)

// Deletion failure reasons reported per item.
const (
	reasonNotFound      = "File not found."
	reasonInvalidFormat = "Invalid filename format."
	reasonUnlinkFailed  = "Failed to delete file."
)

// Service owns the image lifecycle after the provider call: persisting
// generated bytes according to the storage mode, serving them back by
// filename, and deleting them on request.
type Service struct {
	store  *storage.FileStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewService wires a persistence service around the given file store.
func NewService(store *storage.FileStore, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Persist materializes the provider's images under the chosen storage mode.
// Filesystem mode decodes and writes each payload to disk; client-storage
// mode passes the encoded payload through untouched and leaves no file
// behind. Filenames are <unix-ms>-<index>.<ext> with a 1-based index;
// concurrent requests are kept apart by the timestamp alone, which is an
// accepted trade-off rather than a uniqueness guarantee.
func (s *Service) Persist(images []openai.ImageData, format string, mode storage.Mode) ([]domain.StoredImage, error) {
	stamp := s.now().UnixMilli()
	out := make([]domain.StoredImage, 0, len(images))
	for i, img := range images {
		filename := fmt.Sprintf("%d-%d.%s", stamp, i+1, format)
		stored := domain.StoredImage{Filename: filename, Format: format}

		if mode == storage.ModeIndexedDB {
			stored.B64 = img.B64JSON
			out = append(out, stored)
			continue
		}

		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d payload is not valid base64", domain.ErrProviderFailure, i)
		}
		path, err := s.store.Write(filename, data)
		if err != nil {
			return nil, fmt.Errorf("persist image %d: %w", i, err)
		}
		stored.Path = path
		out = append(out, stored)
		s.logger.Debug().Str("filename", filename).Int("bytes", len(data)).Msg("imagegen: image written to disk")
	}
	return out, nil
}

// Retrieve returns the stored bytes plus the content type derived from the
// filename's extension. Invalid names surface as domain.ErrInvalidFilename,
// distinct from domain.ErrNotFound for well-formed names with no file.
func (s *Service) Retrieve(filename string) ([]byte, string, error) {
	if !storage.ValidFilename(filename) {
		return nil, "", domain.ErrInvalidFilename
	}
	data, err := s.store.Read(filename)
	if err != nil {
		return nil, "", err
	}
	return data, storage.ContentTypeFor(filename), nil
}

// DeleteMany attempts to unlink every named file and reports one result per
// input, in input order. A failure on one filename never stops processing
// of the rest. An empty input is a success no-op.
func (s *Service) DeleteMany(filenames []string) []domain.DeletionResult {
	results := make([]domain.DeletionResult, 0, len(filenames))
	for _, name := range filenames {
		result := domain.DeletionResult{Filename: name}
		if !storage.ValidFilename(name) {
			result.Error = reasonInvalidFormat
			results = append(results, result)
			continue
		}
		switch err := s.store.Remove(name); {
		case err == nil:
			result.Success = true
		case errors.Is(err, domain.ErrNotFound):
			result.Error = reasonNotFound
		default:
			s.logger.Error().Err(err).Str("filename", name).Msg("imagegen: delete failed")
			result.Error = reasonUnlinkFailed
		}
		results = append(results, result)
	}
	return results
}
