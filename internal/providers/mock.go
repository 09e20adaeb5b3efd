package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a VisionClient for tests and keyless demo mode.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	Model        string

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a mock client that answers with a plausible
// identification payload.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency: 10 * time.Millisecond,
		Model:   "mock-vision-1",
		ResponseText: `{
			"commonName": "Golden Pothos",
			"scientificName": "Epipremnum aureum",
			"family": "Araceae",
			"nativeRegion": "French Polynesia",
			"interestingFacts": [
				"Thrives in low light where many plants fail.",
				"Can grow over 10 meters long as a trailing vine.",
				"Often called devil's ivy because it is hard to kill."
			],
			"warnings": ["Toxic to cats and dogs if ingested"],
			"identificationConfidence": "Medium",
			"similarPlants": ["Philodendron hederaceum", "Scindapsus pictus"]
		}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Identify returns the configured response after the configured latency.
func (c *MockClient) Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.ShouldFail {
		return nil, fmt.Errorf("%w: mock client configured to fail", ErrAllModelsExhausted)
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("%w: mock client failed after %d requests", ErrAllModelsExhausted, c.FailAfter)
	}

	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrAllModelsExhausted, ctx.Err())
	}

	return &IdentifyResult{
		Text:      c.ResponseText,
		ModelUsed: c.Model,
		Attempts:  1,
		Elapsed:   time.Since(start),
	}, nil
}

// RequestCount reports how many Identify calls were made.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}
