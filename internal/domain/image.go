package domain

import "time"

// StoredImage is a single generated image after persistence. In filesystem
// mode Path points at the file on disk and B64 is empty; in client-storage
// mode B64 carries the encoded payload and Path is empty.
type StoredImage struct {
	Filename string
	Path     string
	B64      string
	Format   string
}

// DeletionResult is the per-filename outcome of a bulk delete.
type DeletionResult struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// CostDetails is the estimated spend for one generation, derived from the
// provider's usage record. Never persisted on its own.
type CostDetails struct {
	TextInputTokens   int     `json:"text_input_tokens"`
	ImageInputTokens  int     `json:"image_input_tokens"`
	ImageOutputTokens int     `json:"image_output_tokens"`
	EstimatedCost     float64 `json:"estimated_cost"`
}

// GenerationRecord is one row of the optional history ledger.
type GenerationRecord struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	Prompt        string    `json:"prompt"`
	ImageCount    int       `json:"image_count"`
	InputTokens   int       `json:"input_tokens"`
	OutputTokens  int       `json:"output_tokens"`
	EstimatedCost float64   `json:"estimated_cost"`
	Filenames     []string  `json:"filenames"`
	CreatedAt     time.Time `json:"created_at"`
}
