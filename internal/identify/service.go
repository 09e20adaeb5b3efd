package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"florascan/internal/ingress"
	"florascan/internal/plant"
	"florascan/internal/providers"
	"florascan/internal/repair"
)

// DefaultBudget caps the wall-clock time spent on a single identification,
// including all retries and model fallbacks.
const DefaultBudget = 50 * time.Second

// Response is the envelope returned for every identification attempt.
// Data is always a fully populated record, even on failure; Error and
// Message are set only on failure envelopes.
type Response struct {
	Success      bool         `json:"success"`
	Model        string       `json:"model"`
	ResponseTime string       `json:"responseTime"`
	Timestamp    string       `json:"timestamp"`
	RequestID    string       `json:"requestId"`
	Error        string       `json:"error,omitempty"`
	Message      string       `json:"message,omitempty"`
	Data         plant.Record `json:"data"`
}

// Config configures an identification service.
type Config struct {
	Validator *ingress.Validator
	Vision    providers.VisionClient
	Budget    time.Duration
	Logger    *slog.Logger
}

// Service runs the identification pipeline: ingress validation, vision
// inference with fallback, JSON recovery, and record normalization.
type Service struct {
	validator *ingress.Validator
	vision    providers.VisionClient
	budget    time.Duration
	logger    *slog.Logger
}

// NewService creates an identification service. Vision is required;
// everything else has working defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Vision == nil {
		return nil, fmt.Errorf("identify: vision client is required")
	}
	if cfg.Validator == nil {
		cfg.Validator = ingress.NewValidator(0)
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		validator: cfg.Validator,
		vision:    cfg.Vision,
		budget:    cfg.Budget,
		logger:    cfg.Logger,
	}, nil
}

// Identify validates the image and runs it through the pipeline.
//
// Ingress failures return a nil response and an error the caller maps to a
// 400. Provider exhaustion and other downstream failures return BOTH a
// placeholder response (so the client always gets a usable record) and the
// underlying error for status-code mapping.
func (s *Service) Identify(ctx context.Context, data []byte, declaredType string) (*Response, error) {
	payload, err := s.validator.Validate(data, declaredType)
	if err != nil {
		return nil, err
	}

	reqID := uuid.NewString()
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	s.logger.Info("identification started",
		"request_id", reqID,
		"mime_type", payload.MIMEType,
		"image_bytes", payload.Size,
		"provider", s.vision.Name())

	result, err := s.vision.Identify(ctx, &providers.IdentifyRequest{
		Prompt:      identifyPrompt,
		ImageBase64: payload.Base64,
		MIMEType:    payload.MIMEType,
	})
	if err != nil {
		if errors.Is(err, providers.ErrAllModelsExhausted) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("all models exhausted", "request_id", reqID, "error", err)
			if !errors.Is(err, providers.ErrAllModelsExhausted) {
				err = fmt.Errorf("%w: %v", providers.ErrAllModelsExhausted, err)
			}
			resp := s.placeholder(reqID, started, plant.ServiceUnavailableRecord(),
				"all models exhausted",
				"Every identification model is currently unavailable. Please try again in a few minutes.")
			return resp, err
		}
		s.logger.Error("identification failed", "request_id", reqID, "error", err)
		resp := s.placeholder(reqID, started, plant.ProcessingErrorRecord(),
			"processing error",
			"The image could not be processed due to an internal error. Please try again.")
		return resp, err
	}

	raw, rerr := repair.Recover(result.Text)
	if rerr != nil {
		// Last resort: pull whatever fields a regex can find. Normalize
		// fills in the rest, so the pipeline never aborts here.
		s.logger.Warn("response not recoverable as JSON, extracting fields",
			"request_id", reqID, "model", result.ModelUsed)
		raw = repair.ExtractFields(result.Text)
	}

	rec := plant.Normalize(raw)
	if verr := plant.ValidateRecord(rec); verr != nil {
		// Normalization guarantees a schema-valid record; a failure here
		// means the schema and the defaults have drifted apart.
		s.logger.Error("normalized record failed validation", "request_id", reqID, "error", verr)
		rec = plant.ProcessingErrorRecord()
	}

	elapsed := time.Since(started)
	s.logger.Info("identification complete",
		"request_id", reqID,
		"model", result.ModelUsed,
		"attempts", result.Attempts,
		"plant", rec.CommonName,
		"confidence", rec.IdentificationConfidence,
		"elapsed", elapsed)

	return &Response{
		Success:      true,
		Model:        result.ModelUsed,
		ResponseTime: formatElapsed(elapsed),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		RequestID:    reqID,
		Data:         rec,
	}, nil
}

// AcceptedTypes reports the MIME types the service accepts.
func (s *Service) AcceptedTypes() []string {
	return ingress.AcceptedTypes()
}

// MaxUploadBytes reports the configured payload ceiling.
func (s *Service) MaxUploadBytes() int {
	return s.validator.MaxBytes()
}

// ProviderName reports the active vision provider.
func (s *Service) ProviderName() string {
	return s.vision.Name()
}

func (s *Service) placeholder(reqID string, started time.Time, rec plant.Record, errCode, message string) *Response {
	return &Response{
		Success:      false,
		Model:        "none",
		ResponseTime: formatElapsed(time.Since(started)),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		RequestID:    reqID,
		Error:        errCode,
		Message:      message,
		Data:         rec,
	}
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
