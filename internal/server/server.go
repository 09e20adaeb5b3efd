package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"florascan/internal/api"
	"florascan/internal/config"
	"florascan/internal/identify"
	"florascan/internal/ingress"
	"florascan/internal/photos"
	"florascan/internal/providers"
	"florascan/internal/server/endpoints"
	"florascan/internal/svcctx"
	"florascan/version"
)

// Server is the florascan HTTP server. Services are rebuilt on config
// hot-reload, so a key or model-list change takes effect without a restart.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	services *svcctx.Services
	running  bool
}

// Config holds server configuration.
type Config struct {
	// ConfigManager provides configuration with hot-reload support (required)
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
	// UseMock forces the mock vision provider regardless of API keys
	UseMock bool
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	if err := s.buildServices(cfg.ConfigManager.Get(), cfg.UseMock); err != nil {
		return nil, err
	}

	// Rebuild services when the config file changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if err := s.buildServices(c, cfg.UseMock); err != nil {
			cfg.Logger.Error("failed to rebuild services from config", "error", err)
			return
		}
		cfg.Logger.Info("services reloaded from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{Version: version.GitRelease}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         cfg.ConfigManager.Get().ListenAddr(),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // identification can retry across models
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the service graph from the given config.
func (s *Server) buildServices(cfg *config.Config, useMock bool) error {
	var vision providers.VisionClient
	apiKey := config.ResolveEnvVars(cfg.Gemini.APIKey)
	switch {
	case useMock:
		vision = providers.NewMockClient()
		s.logger.Info("using mock vision provider")
	case apiKey == "":
		vision = providers.NewMockClient()
		s.logger.Warn("no Gemini API key configured, falling back to mock vision provider")
	default:
		gcfg := cfg.ToGeminiConfig()
		gcfg.Logger = s.logger
		vision = providers.NewGeminiClient(gcfg)
	}

	identifySvc, err := identify.NewService(identify.Config{
		Validator: ingress.NewValidator(cfg.Upload.MaxBytes),
		Vision:    vision,
		Budget:    cfg.Identify.Budget,
		Logger:    s.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create identify service: %w", err)
	}

	var searcher photos.Searcher
	if pexels := photos.NewPexelsClient(photos.PexelsConfig{APIKey: cfg.PexelsAPIKey()}); pexels != nil {
		searcher = pexels
	} else {
		s.logger.Warn("no Pexels API key configured, photo search will serve placeholders")
	}
	photosSvc := photos.NewService(searcher, s.logger)

	s.mu.Lock()
	s.services = &svcctx.Services{
		Identify: identifySvc,
		Photos:   photosSvc,
		Config:   s.configMgr,
		Logger:   s.logger,
	}
	s.mu.Unlock()

	return nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Watch the config file for changes
	s.configMgr.WatchConfig()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the server's root handler, for tests that drive the
// mux without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the service graph is wired up.
// Returns 503 Service Unavailable until buildServices has succeeded.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		ready := s.services != nil
		s.mu.RUnlock()
		if !ready {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
