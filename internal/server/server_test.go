package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"florascan/internal/config"
	"florascan/internal/identify"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 0
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	mgr, err := config.NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create config manager: %v", err)
	}

	srv, err := New(Config{ConfigManager: mgr, UseMock: true})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func TestNew_RequiresConfigManager(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without config manager")
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServer_Status(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Server   string `json:"server"`
		Provider struct {
			Name string `json:"name"`
		} `json:"provider"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if resp.Server != "running" {
		t.Errorf("expected running, got %s", resp.Server)
	}
	if resp.Provider.Name != "mock" {
		t.Errorf("expected mock provider with UseMock, got %s", resp.Provider.Name)
	}
}

func TestServer_IdentifyEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="plant.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	part.Write([]byte("fake-jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/identify", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp identify.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Data.CommonName != "Golden Pothos" {
		t.Errorf("unexpected identification: success=%v plant=%s", resp.Success, resp.Data.CommonName)
	}
}

func TestServer_MethodRouting(t *testing.T) {
	srv := newTestServer(t)

	// GET /api/identify is metadata, not identification
	req := httptest.NewRequest("GET", "/api/identify", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Service string `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode metadata: %v", err)
	}
	if resp.Service != "florascan" {
		t.Errorf("expected service metadata, got %+v", resp)
	}
}

func TestServer_IsRunning(t *testing.T) {
	srv := newTestServer(t)
	if srv.IsRunning() {
		t.Error("server should not report running before Start")
	}
}
