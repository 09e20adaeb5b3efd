package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"florascan/internal/api"
	"florascan/internal/svcctx"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server   string         `json:"server"`
	Version  string         `json:"version"`
	Provider ProviderStatus `json:"provider"`
	Photos   PhotosStatus   `json:"photos"`
}

// ProviderStatus shows the active vision provider and its model chain.
type ProviderStatus struct {
	Name   string   `json:"name"`
	Models []string `json:"models,omitempty"`
}

// PhotosStatus shows whether photo search is live or placeholder-only.
type PhotosStatus struct {
	Mode string `json:"mode"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct {
	Version string
}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: e.Version,
	}

	if svc := svcctx.IdentifyFrom(r.Context()); svc != nil {
		resp.Provider.Name = svc.ProviderName()
	} else {
		resp.Provider.Name = "not_initialized"
	}

	if mgr := svcctx.ConfigFrom(r.Context()); mgr != nil {
		resp.Provider.Models = mgr.Get().Gemini.Models
	}

	resp.Photos.Mode = "placeholder"
	if ps := svcctx.PhotosFrom(r.Context()); ps != nil && ps.Live() {
		resp.Photos.Mode = "live"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server:  %s\n", resp.Server)
			fmt.Printf("Version: %s\n", resp.Version)
			fmt.Printf("Provider:\n")
			fmt.Printf("  Name:   %s\n", resp.Provider.Name)
			fmt.Printf("  Models: %v\n", resp.Provider.Models)
			fmt.Printf("Photos:  %s\n", resp.Photos.Mode)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
