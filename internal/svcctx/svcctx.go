// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"florascan/internal/config"
	"florascan/internal/identify"
	"florascan/internal/photos"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Identify *identify.Service
	Photos   *photos.Service
	Config   *config.Manager
	Logger   *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// IdentifyFrom extracts the identification service from context.
func IdentifyFrom(ctx context.Context) *identify.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Identify
	}
	return nil
}

// PhotosFrom extracts the photo search service from context.
func PhotosFrom(ctx context.Context) *photos.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Photos
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
