// Package photos enriches identifications with stock-photo search
// results. Every failure path degrades to deterministic placeholders so
// callers always have something to render.
package photos

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultCount is the number of results returned when the caller does not
// specify one.
const DefaultCount = 6

// maxQueryTerms bounds how many search terms are joined into the query.
const maxQueryTerms = 3

// ImageResult is one photo search hit.
type ImageResult struct {
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographerUrl"`
	SourceURL       string `json:"sourceUrl"`
}

// Searcher is the upstream photo API surface the service depends on.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]ImageResult, error)
}

// Service wraps a photo search API with placeholder degradation. A nil
// searcher (no API key configured) runs in pure placeholder mode.
type Service struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewService creates a photo search service. searcher may be nil.
func NewService(searcher Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{searcher: searcher, logger: logger}
}

// Live reports whether an upstream searcher is configured, as opposed to
// pure placeholder mode.
func (s *Service) Live() bool {
	return s.searcher != nil
}

// Search returns count image results for the given terms. It never
// returns an error: upstream failures and empty result sets both yield
// exactly count deterministic placeholders.
func (s *Service) Search(ctx context.Context, terms []string, count int) []ImageResult {
	if count <= 0 {
		count = DefaultCount
	}
	query := buildQuery(terms)

	if s.searcher == nil {
		return Placeholders(query, count)
	}

	results, err := s.searcher.Search(ctx, query, count)
	if err != nil {
		s.logger.Warn("photo search failed, using placeholders", "query", query, "error", err)
		return Placeholders(query, count)
	}
	if len(results) == 0 {
		s.logger.Info("photo search returned no results, using placeholders", "query", query)
		return Placeholders(query, count)
	}
	if len(results) > count {
		results = results[:count]
	}
	return results
}

// buildQuery joins the top terms into a single search query.
func buildQuery(terms []string) string {
	var kept []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		kept = append(kept, t)
		if len(kept) == maxQueryTerms {
			break
		}
	}
	if len(kept) == 0 {
		return "plant"
	}
	return strings.Join(kept, " ")
}
