package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"florascan/internal/api"
	"florascan/internal/identify"
	"florascan/internal/ingress"
	"florascan/internal/providers"
	"florascan/internal/svcctx"
)

// IdentifyEndpoint handles POST /api/identify with a multipart image upload.
type IdentifyEndpoint struct{}

var _ api.Endpoint = (*IdentifyEndpoint)(nil)

func (e *IdentifyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/identify", e.handler
}

func (e *IdentifyEndpoint) RequiresInit() bool { return true }

func (e *IdentifyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse with headroom above the payload ceiling so oversize uploads
	// reach the validator and get the structured 400 instead of a
	// multipart parse error.
	const maxMemory = 16 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	svc := svcctx.IdentifyFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "identification service not initialized")
		return
	}

	resp, err := svc.Identify(r.Context(), data, hdr.Header.Get("Content-Type"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, ingress.ErrInvalidMediaType), errors.Is(err, ingress.ErrPayloadTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, providers.ErrAllModelsExhausted):
		// Degraded response still carries a fully populated record.
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		if resp != nil {
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (e *IdentifyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "identify <image-path>",
		Short: "Identify a plant from a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if contentType == "" {
				contentType = mimeFromExt(path)
			}

			client := api.NewClient(getServerURL())
			var resp identify.Response
			if err := client.PostFile(cmd.Context(), "/api/identify", "image", path, contentType, &resp); err != nil {
				// A degraded identification still decodes into resp;
				// show it if we got one.
				if resp.RequestID == "" {
					return err
				}
			}
			return api.Output(resp)
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "MIME type of the image (default: inferred from extension)")
	return cmd
}

// mimeFromExt maps a filename extension to its image MIME type. Unknown
// extensions are passed through as-is and rejected server-side.
func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// IdentifyInfoResponse describes the identification service.
type IdentifyInfoResponse struct {
	Service        string   `json:"service"`
	Version        string   `json:"version"`
	Provider       string   `json:"provider"`
	Models         []string `json:"models,omitempty"`
	AcceptedTypes  []string `json:"acceptedTypes"`
	MaxUploadBytes int      `json:"maxUploadBytes"`
}

// IdentifyInfoEndpoint handles GET /api/identify with service metadata.
type IdentifyInfoEndpoint struct {
	Version string
}

var _ api.Endpoint = (*IdentifyInfoEndpoint)(nil)

func (e *IdentifyInfoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/identify", e.handler
}

func (e *IdentifyInfoEndpoint) RequiresInit() bool { return true }

func (e *IdentifyInfoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.IdentifyFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "identification service not initialized")
		return
	}

	resp := IdentifyInfoResponse{
		Service:        "florascan",
		Version:        e.Version,
		Provider:       svc.ProviderName(),
		AcceptedTypes:  svc.AcceptedTypes(),
		MaxUploadBytes: svc.MaxUploadBytes(),
	}
	if mgr := svcctx.ConfigFrom(r.Context()); mgr != nil {
		resp.Models = mgr.Get().Gemini.Models
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *IdentifyInfoEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show identification service metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp IdentifyInfoResponse
			if err := client.Get(cmd.Context(), "/api/identify", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
