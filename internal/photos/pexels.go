package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	PexelsBaseURL = "https://api.pexels.com/v1"

	// pexelsAttempts bounds retries before the caller degrades to
	// placeholders.
	pexelsAttempts = 2
)

// PexelsClient implements Searcher against the Pexels photo API.
type PexelsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// PexelsConfig holds configuration for the Pexels client.
type PexelsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewPexelsClient creates a Pexels client. Returns nil when no API key is
// configured, which puts the photo service into placeholder mode.
func NewPexelsClient(cfg PexelsConfig) *PexelsClient {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = PexelsBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &PexelsClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	URL             string `json:"url"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Src             struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"src"`
}

// Search queries /v1/search and maps the hits into ImageResults.
func (c *PexelsClient) Search(ctx context.Context, query string, count int) ([]ImageResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	params.Set("page", "1")
	endpoint := c.baseURL + "/search?" + params.Encode()

	var parsed pexelsResponse
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", c.apiKey)

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("pexels error (status %d)", resp.StatusCode)
			}
			return json.Unmarshal(body, &parsed)
		},
		retry.Attempts(pexelsAttempts),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	results := make([]ImageResult, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		photographer := p.Photographer
		if photographer == "" {
			photographer = "Pexels Photographer"
		}
		alt := p.Alt
		if alt == "" {
			alt = query
		}
		results = append(results, ImageResult{
			URL:             p.Src.Large,
			ThumbnailURL:    p.Src.Medium,
			Alt:             alt,
			Photographer:    photographer,
			PhotographerURL: p.PhotographerURL,
			SourceURL:       p.URL,
		})
	}
	return results, nil
}
