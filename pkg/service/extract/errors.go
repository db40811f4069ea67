package extract

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors of the extraction service
var (
	// ErrSchemaViolation means the model output did not satisfy the response
	// schema even after repair attempts.
	ErrSchemaViolation = goerr.New("model output violates response schema")

	// ErrProviderUnavailable means the model backend could not be reached
	// within the retry budget.
	ErrProviderUnavailable = goerr.New("model provider unavailable")

	// ErrRateLimited means the model backend kept refusing requests due to
	// rate limits within the retry budget.
	ErrRateLimited = goerr.New("model provider rate limited")
)
