package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/config"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/model"
)

type fixedSource struct{ ds *model.Dataset }

func (s fixedSource) Load() *model.Dataset { return s.ds }

func newTestServer(t *testing.T, staticDir string) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Data.DataDir = t.TempDir()
	cfg.Web.StaticDir = staticDir

	v := 5.126
	srv, err := NewServerWithSource(cfg, fixedSource{ds: &model.Dataset{
		Forecast: []model.ForecastRecord{{Date: "2024Q1", Forecast: &v}},
	}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Handler()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndexPage_EmbeddedTemplate(t *testing.T) {
	h := newTestServer(t, "")

	w := get(h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `id="latest-forecast">5.13<`) {
		t.Fatalf("latest forecast not rendered: %s", body)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content-type=%s", w.Header().Get("Content-Type"))
	}
}

func TestStatic_DiskDirectory(t *testing.T) {
	root := t.TempDir()
	staticDir := filepath.Join(root, "static")
	if err := os.MkdirAll(filepath.Join(staticDir, "js"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "js", "app.js"), []byte("console.log('disk')"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("top-secret"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h := newTestServer(t, staticDir)

	w := get(h, "/static/js/app.js")
	if w.Code != http.StatusOK || w.Body.String() != "console.log('disk')" {
		t.Fatalf("unexpected static response: %d %s", w.Code, w.Body.String())
	}

	w = get(h, "/static/../secret.txt")
	if w.Code == http.StatusOK || strings.Contains(w.Body.String(), "top-secret") {
		t.Fatalf("path traversal served file outside static dir: %d %s", w.Code, w.Body.String())
	}

	w = get(h, "/static/missing.css")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing asset status=%d", w.Code)
	}
}

func TestStatic_EmbeddedFallback(t *testing.T) {
	h := newTestServer(t, filepath.Join(t.TempDir(), "does-not-exist"))

	w := get(h, "/static/js/dashboard.js")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/gdp_forecast") {
		t.Fatalf("unexpected embedded asset: %s", w.Body.String())
	}
}

func TestMiddleware_HeadersAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Web.StaticDir = ""
	srv, err := NewServerWithSource(cfg, fixedSource{ds: model.EmptyDataset()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	h := srv.Handler()

	w := get(h, "/api/gdp_forecast")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"line":{},"bar":{}}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("X-Frame-Options=%q", w.Header().Get("X-Frame-Options"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", w.Header().Get("X-Content-Type-Options"))
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("CORS header missing")
	}
	if id := w.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Fatalf("generated request id=%q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: %q", w.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/gdp_forecast", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", w.Code)
	}
}

func TestSecureConfig_SSL(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if sc := secureConfig(cfg); sc.SSLRedirect || sc.STSSeconds != 0 {
		t.Fatalf("ssl headers should be off by default: %+v", sc)
	}
	cfg.Web.SSL = true
	if sc := secureConfig(cfg); !sc.SSLRedirect || sc.STSSeconds != 31536000 {
		t.Fatalf("ssl headers should be on: %+v", sc)
	}
}

func TestShutdownBeforeRun(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.Port = 0
	srv, err := NewServerWithSource(cfg, fixedSource{ds: model.EmptyDataset()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	// 已关闭的服务器不再监听，Run 立即返回
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after shutdown")
	}
}

func TestShutdownWhileStarting(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.Port = 0
	srv, err := NewServerWithSource(cfg, fixedSource{ds: model.EmptyDataset()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()
	if err := srv.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run still serving after shutdown")
	}
}
