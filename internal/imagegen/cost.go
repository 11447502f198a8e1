package imagegen

import (
	"math"

	"github.com/rs/zerolog"

	"playground/internal/domain"
	"playground/internal/providers/openai"
)

// Rates holds the per-token prices used by the estimator, expressed in
// dollars per million tokens. Defaults track the provider's published
// gpt-image-1 pricing; deployments can override them.
type Rates struct {
	TextInputPerM   float64
	ImageInputPerM  float64
	ImageOutputPerM float64
}

// DefaultRates is the published gpt-image-1 price sheet.
var DefaultRates = Rates{
	TextInputPerM:   5.00,
	ImageInputPerM:  10.00,
	ImageOutputPerM: 40.00,
}

// EstimateCost turns the provider's usage record into a monetary estimate,
// rounded half-up to 4 decimal places. A nil usage or one without the
// modality breakdown yields nil; the caller gets no cost block rather than
// a fabricated zero. Token counts that fail JSON decoding never reach this
// function, so only the shape checks remain.
func EstimateCost(usage *openai.Usage, rates Rates, logger zerolog.Logger) *domain.CostDetails {
	if usage == nil {
		logger.Warn().Msg("imagegen: no usage record in provider response, skipping cost estimate")
		return nil
	}
	if usage.InputTokensDetails == nil {
		logger.Warn().Msg("imagegen: usage record missing input token breakdown, skipping cost estimate")
		return nil
	}

	textTokens := usage.InputTokensDetails.TextTokens
	imageTokens := usage.InputTokensDetails.ImageTokens
	outputTokens := usage.OutputTokens

	cost := float64(textTokens)*rates.TextInputPerM/1e6 +
		float64(imageTokens)*rates.ImageInputPerM/1e6 +
		float64(outputTokens)*rates.ImageOutputPerM/1e6

	return &domain.CostDetails{
		TextInputTokens:   textTokens,
		ImageInputTokens:  imageTokens,
		ImageOutputTokens: outputTokens,
		EstimatedCost:     math.Round(cost*1e4) / 1e4,
	}
}
