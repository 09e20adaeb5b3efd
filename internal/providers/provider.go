// Package providers holds clients for the external generative inference
// API, including the retry/fallback machinery around it.
package providers

import (
	"context"
	"errors"
	"time"
)

// ErrAllModelsExhausted is the terminal failure: every model in the
// fallback list failed. Callers surface it as a distinct
// service-unavailable condition, not a generic error.
var ErrAllModelsExhausted = errors.New("all models exhausted")

// VisionClient submits an image-plus-prompt request to a multimodal model
// and returns the raw generated text. The response is treated as an
// opaque, occasionally malformed text blob; repair happens downstream.
type VisionClient interface {
	// Identify sends the request, handling transient failures and model
	// fallback internally. A nil error guarantees non-empty Text.
	Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResult, error)

	// Name returns the client identifier (e.g. "gemini", "mock").
	Name() string
}

// IdentifyRequest carries one identification call's inputs.
type IdentifyRequest struct {
	// Prompt is the instruction text sent alongside the image.
	Prompt string
	// ImageBase64 is the standard-encoded image payload.
	ImageBase64 string
	// MIMEType is the normalized image content type.
	MIMEType string
}

// IdentifyResult is the outcome of a successful call.
type IdentifyResult struct {
	// Text is the raw candidate text from the model.
	Text string
	// ModelUsed is the model that ultimately answered.
	ModelUsed string
	// Attempts counts every HTTP attempt across retries and fallbacks.
	Attempts int
	// Elapsed is the wall-clock duration of the whole call.
	Elapsed time.Duration
}
