package providers

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	GeminiClientName = "gemini"
	GeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
)

// DefaultModels is the ordered fallback list: one primary model followed
// by progressively cheaper alternates.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-pro",
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	// Models is the ordered fallback list.
	Models []string
	// MaxRetries is how many times a 429/503 is retried on the same
	// model before advancing to the next one.
	MaxRetries int
	// RetryBaseDelay is doubled on each retry of the same model.
	RetryBaseDelay time.Duration
	// FailoverDelay is the fixed pause before advancing on a
	// non-retryable failure.
	FailoverDelay time.Duration
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// Generation parameters.
	Temperature     float64
	MaxOutputTokens int
	Logger          *slog.Logger
}

// GeminiClient implements VisionClient against the generativelanguage
// REST API with raw HTTP. The retry/fallback state machine needs the
// upstream status codes, so no SDK sits in between.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	models          []string
	maxRetries      int
	retryBaseDelay  time.Duration
	failoverDelay   time.Duration
	temperature     float64
	maxOutputTokens int
	logger          *slog.Logger
	client          *http.Client
}

// NewGeminiClient creates a Gemini client with defaults filled in.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.FailoverDelay == 0 {
		cfg.FailoverDelay = 500 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2048
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &GeminiClient{
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		models:          cfg.Models,
		maxRetries:      cfg.MaxRetries,
		retryBaseDelay:  cfg.RetryBaseDelay,
		failoverDelay:   cfg.FailoverDelay,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		logger:          cfg.Logger,
		client:          &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiClientName
}

// Models returns the configured fallback list.
func (c *GeminiClient) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}
