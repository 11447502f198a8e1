package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"playground/internal/domain"
	"playground/internal/imagegen"
	"playground/internal/providers/openai"
	"playground/internal/storage"
)

const maxUploadBytes = 64 << 20

type imageResponseItem struct {
	Filename     string `json:"filename"`
	B64JSON      string `json:"b64_json,omitempty"`
	Path         string `json:"path,omitempty"`
	OutputFormat string `json:"output_format"`
}

type imagesResponse struct {
	Images []imageResponseItem `json:"images"`
	Usage  *openai.Usage       `json:"usage,omitempty"`
	Cost   *domain.CostDetails `json:"cost,omitempty"`
}

// GenerateImages handles POST /api/images: multipart form in, generated or
// edited images out. Validation and the password gate run before anything
// touches the provider or the disk.
func (a *App) GenerateImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body: Must be multipart/form-data.")
		return
	}
	if !a.authorize(w, r.FormValue("passwordHash")) {
		return
	}

	mode, err := imagegen.ParseMode(r.FormValue("mode"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid mode specified.")
		return
	}
	params, err := imagegen.Normalize(imagegen.RawParams{
		Prompt:            r.FormValue("prompt"),
		N:                 r.FormValue("n"),
		Size:              r.FormValue("size"),
		Quality:           r.FormValue("quality"),
		Background:        r.FormValue("background"),
		Moderation:        r.FormValue("moderation"),
		OutputFormat:      r.FormValue("output_format"),
		OutputCompression: r.FormValue("output_compression"),
	})
	if err != nil {
		a.error(w, http.StatusBadRequest, "Prompt is required.")
		return
	}

	var resp *openai.ImageResponse
	switch mode {
	case imagegen.ModeEdit:
		images, mask, err := collectUploads(r)
		if err != nil {
			a.error(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(images) == 0 {
			a.error(w, http.StatusBadRequest, "Edit mode requires at least one source image.")
			return
		}
		resp, err = a.Images.Edit(r.Context(), params, images, mask)
		if err != nil {
			a.providerError(w, err)
			return
		}
	default:
		resp, err = a.Images.Generate(r.Context(), params)
		if err != nil {
			a.providerError(w, err)
			return
		}
	}

	stored, err := a.Svc.Persist(resp.Data, params.OutputFormat, a.Config.StorageMode)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: image persistence failed")
		if errors.Is(err, domain.ErrProviderFailure) {
			a.error(w, http.StatusInternalServerError, "Provider returned an invalid response.")
			return
		}
		a.error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	cost := imagegen.EstimateCost(resp.Usage, a.Rates, a.Logger)
	a.recordGeneration(r, mode, params, stored, resp.Usage, cost)

	items := make([]imageResponseItem, len(stored))
	for i, img := range stored {
		items[i] = imageResponseItem{
			Filename:     img.Filename,
			B64JSON:      img.B64,
			OutputFormat: img.Format,
		}
		if a.Config.StorageMode == storage.ModeFS {
			items[i].Path = "/api/image/" + img.Filename
		}
	}
	a.json(w, http.StatusOK, imagesResponse{Images: items, Usage: resp.Usage, Cost: cost})
}

// providerError maps gateway failures onto the wire contract. Provider
// messages pass through verbatim; everything else gets a fixed message so
// internal detail never leaks.
func (a *App) providerError(w http.ResponseWriter, err error) {
	var apiErr *openai.APIError
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		a.error(w, http.StatusInternalServerError, "Server configuration error: API key not found.")
	case errors.As(err, &apiErr):
		a.Logger.Warn().Int("provider_status", apiErr.StatusCode).Msg("handlers: provider rejected image call")
		a.error(w, http.StatusInternalServerError, apiErr.Message)
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Error().Err(err).Msg("handlers: provider returned malformed response")
		a.error(w, http.StatusInternalServerError, "Provider returned an invalid response.")
	default:
		a.Logger.Error().Err(err).Msg("handlers: image call failed")
		a.error(w, http.StatusInternalServerError, "Failed to communicate with the image provider.")
	}
}

// collectUploads gathers the edit-mode source images (either a repeated
// "image" field or indexed image_0..image_9 fields) plus the optional mask.
func collectUploads(r *http.Request) ([]openai.ImageFile, *openai.ImageFile, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["image"]...)
	for i := 0; i < imagegen.MaxSourceImages; i++ {
		headers = append(headers, r.MultipartForm.File[fmt.Sprintf("image_%d", i)]...)
	}
	if len(headers) > imagegen.MaxSourceImages {
		return nil, nil, fmt.Errorf("Too many source images: at most %d are allowed.", imagegen.MaxSourceImages)
	}

	images := make([]openai.ImageFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readUpload(fh)
		if err != nil {
			return nil, nil, err
		}
		images = append(images, file)
	}

	var mask *openai.ImageFile
	if masks := r.MultipartForm.File["mask"]; len(masks) > 0 {
		file, err := readUpload(masks[0])
		if err != nil {
			return nil, nil, err
		}
		mask = &file
	}
	return images, mask, nil
}

func readUpload(fh *multipart.FileHeader) (openai.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return openai.ImageFile{}, fmt.Errorf("Could not read uploaded file %q.", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return openai.ImageFile{}, fmt.Errorf("Could not read uploaded file %q.", fh.Filename)
	}
	return openai.ImageFile{
		Name: fh.Filename,
		MIME: fh.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

// recordGeneration appends to the history ledger when one is configured.
// Ledger trouble is logged and swallowed; the generation already succeeded
// and the response must not fail because bookkeeping did.
func (a *App) recordGeneration(r *http.Request, mode imagegen.Mode, params openai.GenerateParams, stored []domain.StoredImage, usage *openai.Usage, cost *domain.CostDetails) {
	if a.History == nil {
		return
	}
	rec := domain.GenerationRecord{
		Mode:       string(mode),
		Prompt:     params.Prompt,
		ImageCount: len(stored),
	}
	for _, img := range stored {
		rec.Filenames = append(rec.Filenames, img.Filename)
	}
	if usage != nil {
		rec.InputTokens = usage.InputTokens
		rec.OutputTokens = usage.OutputTokens
	}
	if cost != nil {
		rec.EstimatedCost = cost.EstimatedCost
	}
	if _, err := a.History.Record(r.Context(), rec); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: failed to record generation history")
	}
}
