package endpoints

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"florascan/internal/identify"
	"florascan/internal/photos"
	"florascan/internal/providers"
	"florascan/internal/svcctx"
)

func newServices(t *testing.T, mock *providers.MockClient) *svcctx.Services {
	t.Helper()
	identifySvc, err := identify.NewService(identify.Config{Vision: mock})
	if err != nil {
		t.Fatalf("failed to create identify service: %v", err)
	}
	return &svcctx.Services{
		Identify: identifySvc,
		Photos:   photos.NewService(nil, nil),
	}
}

// serve runs a request against a handler with services injected the way
// the server middleware does.
func serve(services *svcctx.Services, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req = req.WithContext(svcctx.WithServices(req.Context(), services))
	handler(rec, req)
	return rec
}

func multipartImage(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="plant.img"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestIdentifyEndpoint_Success(t *testing.T) {
	mock := providers.NewMockClient()
	services := newServices(t, mock)
	ep := &IdentifyEndpoint{}
	_, _, handler := ep.Route()

	body, contentType := multipartImage(t, "image", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest("POST", "/api/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(services, handler, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp identify.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success envelope")
	}
	if resp.Data.CommonName != "Golden Pothos" {
		t.Errorf("expected Golden Pothos, got %s", resp.Data.CommonName)
	}
	if resp.RequestID == "" {
		t.Error("expected request ID")
	}
}

func TestIdentifyEndpoint_RejectsDisallowedType(t *testing.T) {
	mock := providers.NewMockClient()
	services := newServices(t, mock)
	ep := &IdentifyEndpoint{}
	_, _, handler := ep.Route()

	body, contentType := multipartImage(t, "image", "image/gif", []byte("GIF89a"))
	req := httptest.NewRequest("POST", "/api/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(services, handler, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Error == "" {
		t.Error("expected error message")
	}
	if mock.RequestCount() != 0 {
		t.Error("provider must not be reached for rejected uploads")
	}
}

func TestIdentifyEndpoint_AllModelsExhausted(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	services := newServices(t, mock)
	ep := &IdentifyEndpoint{}
	_, _, handler := ep.Route()

	body, contentType := multipartImage(t, "image", "image/png", []byte("fake-png-bytes"))
	req := httptest.NewRequest("POST", "/api/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(services, handler, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp identify.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}
	if resp.Data.CommonName != "Service Unavailable" {
		t.Errorf("expected Service Unavailable placeholder, got %s", resp.Data.CommonName)
	}
	if len(resp.Data.InterestingFacts) == 0 {
		t.Error("expected fully populated placeholder record")
	}

	// The wire body must carry error and message alongside data.
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if s, _ := envelope["error"].(string); s == "" {
		t.Error("503 envelope has no error field")
	}
	if s, _ := envelope["message"].(string); s == "" {
		t.Error("503 envelope has no message field")
	}
}

func TestIdentifyEndpoint_MissingImageField(t *testing.T) {
	services := newServices(t, providers.NewMockClient())
	ep := &IdentifyEndpoint{}
	_, _, handler := ep.Route()

	body, contentType := multipartImage(t, "attachment", "image/png", []byte("fake"))
	req := httptest.NewRequest("POST", "/api/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(services, handler, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdentifyEndpoint_NoServices(t *testing.T) {
	ep := &IdentifyEndpoint{}
	_, _, handler := ep.Route()

	body, contentType := multipartImage(t, "image", "image/png", []byte("fake"))
	req := httptest.NewRequest("POST", "/api/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without services, got %d", rec.Code)
	}
}

func TestIdentifyInfoEndpoint(t *testing.T) {
	services := newServices(t, providers.NewMockClient())
	ep := &IdentifyInfoEndpoint{Version: "test"}
	_, _, handler := ep.Route()

	req := httptest.NewRequest("GET", "/api/identify", nil)
	rec := serve(services, handler, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp IdentifyInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Service != "florascan" || resp.Version != "test" {
		t.Errorf("unexpected metadata: %+v", resp)
	}
	if resp.Provider != "mock" {
		t.Errorf("expected mock provider, got %s", resp.Provider)
	}
	if len(resp.AcceptedTypes) == 0 || resp.MaxUploadBytes == 0 {
		t.Error("expected limits in metadata")
	}
}

func TestImagesEndpoint(t *testing.T) {
	services := newServices(t, providers.NewMockClient())
	ep := &ImagesEndpoint{}
	_, _, handler := ep.Route()

	t.Run("requires query", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/images", nil)
		rec := serve(services, handler, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects bad count", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/images?query=monstera&count=50", nil)
		rec := serve(services, handler, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("serves placeholders without searcher", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/images?query=monstera&count=4", nil)
		rec := serve(services, handler, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp ImagesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Success || resp.Count != 4 || len(resp.Images) != 4 {
			t.Errorf("unexpected response: success=%v count=%d images=%d", resp.Success, resp.Count, len(resp.Images))
		}
		if resp.Query != "monstera" {
			t.Errorf("expected query echo, got %s", resp.Query)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	ep := &HealthEndpoint{}
	_, _, handler := ep.Route()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok, got %s", resp.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	services := newServices(t, providers.NewMockClient())
	ep := &StatusEndpoint{Version: "test"}
	_, _, handler := ep.Route()

	req := httptest.NewRequest("GET", "/status", nil)
	rec := serve(services, handler, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Server != "running" || resp.Version != "test" {
		t.Errorf("unexpected status: %+v", resp)
	}
	if resp.Provider.Name != "mock" {
		t.Errorf("expected mock provider, got %s", resp.Provider.Name)
	}
	if resp.Photos.Mode != "placeholder" {
		t.Errorf("expected placeholder photo mode, got %s", resp.Photos.Mode)
	}
}

func TestAllEndpointsHaveCommands(t *testing.T) {
	for _, ep := range All(Config{Version: "test"}) {
		method, path, handler := ep.Route()
		if method == "" || path == "" || handler == nil {
			t.Errorf("endpoint %T has incomplete route", ep)
		}
		if cmd := ep.Command(func() string { return "http://localhost:8080" }); cmd == nil {
			t.Errorf("endpoint %T has no CLI command", ep)
		}
	}
}
