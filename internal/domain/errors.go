package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrProviderFailure = errors.New("provider failure")
	ErrMissingAPIKey   = errors.New("api key not configured")
)
