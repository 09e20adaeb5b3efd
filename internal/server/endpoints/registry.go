package endpoints

import (
	"florascan/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	Version string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{Version: cfg.Version},

		// Identification endpoints
		&IdentifyEndpoint{},
		&IdentifyInfoEndpoint{Version: cfg.Version},

		// Photo search endpoints
		&ImagesEndpoint{},
	}
}
