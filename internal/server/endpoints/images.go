package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"florascan/internal/api"
	"florascan/internal/photos"
	"florascan/internal/svcctx"
)

// maxImageCount bounds a single photo search request.
const maxImageCount = 12

// ImagesResponse is the photo search response.
type ImagesResponse struct {
	Success bool                 `json:"success"`
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Images  []photos.ImageResult `json:"images"`
}

// ImagesEndpoint handles GET /api/images.
type ImagesEndpoint struct{}

var _ api.Endpoint = (*ImagesEndpoint)(nil)

func (e *ImagesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/images", e.handler
}

func (e *ImagesEndpoint) RequiresInit() bool { return true }

func (e *ImagesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	count := photos.DefaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxImageCount {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", maxImageCount))
			return
		}
		count = n
	}

	svc := svcctx.PhotosFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "photo service not initialized")
		return
	}

	images := svc.Search(r.Context(), []string{query}, count)
	writeJSON(w, http.StatusOK, ImagesResponse{
		Success: true,
		Query:   query,
		Count:   len(images),
		Images:  images,
	})
}

func (e *ImagesEndpoint) Command(getServerURL func() string) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "images <query>",
		Short: "Search for plant photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := fmt.Sprintf("/api/images?query=%s&count=%d", url.QueryEscape(args[0]), count)
			var resp ImagesResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}

	cmd.Flags().IntVar(&count, "count", photos.DefaultCount, "number of images to return")
	return cmd
}
