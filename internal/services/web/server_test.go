package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/digitalexpert/linkpage/internal/services/web/modules/webtest"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T, logger *zap.Logger) Config {
	t.Helper()
	env := webtest.New(t)
	return Config{
		HTTPAddr: "127.0.0.1:0",
		Site:     env.Deps.Site,
		Catalog:  env.Catalog,
		Chat:     env.Chat,
		Tips:     env.Deps.Tips,
		Visitors: env.Visitors,
		Logger:   logger,
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, nil)
	cfg.HTTPAddr = "  "
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for blank address")
	}
}

func TestNewHandlerRejectsMissingServices(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, nil)
	cfg.Catalog = nil
	if _, err := NewHandler(cfg); err == nil {
		t.Fatal("expected error without catalog")
	}
}

func TestHandlerServesPageAssetsAndHealth(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	h, err := NewHandler(testConfig(t, zap.New(core)))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	tests := []struct {
		target      string
		status      int
		contentType string
		contains    string
	}{
		{target: "/", status: http.StatusOK, contentType: "text/html", contains: "/static/app.css"},
		{target: "/static/app.css", status: http.StatusOK, contentType: "text/css", contains: ".link-button"},
		{target: "/static/app.js", status: http.StatusOK, contentType: "text/javascript", contains: "/api/chat/messages"},
		{target: "/healthz", status: http.StatusOK, contentType: "text/plain", contains: "ok"},
		{target: "/locales/et.json", status: http.StatusOK, contentType: "application/json", contains: "headerTitle"},
		{target: "/nope", status: http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		if rec.Code != tc.status {
			t.Fatalf("GET %s status = %d, want %d", tc.target, rec.Code, tc.status)
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, tc.contentType) {
			t.Fatalf("GET %s content-type = %q, want %q", tc.target, got, tc.contentType)
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("GET %s body missing %q", tc.target, tc.contains)
		}
		if rec.Header().Get(httpx.RequestIDHeader) == "" {
			t.Fatalf("GET %s missing request id", tc.target)
		}
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != len(tests) {
		t.Fatalf("logged requests = %d, want %d", len(entries), len(tests))
	}
	if got := entries[0].ContextMap()["path"]; got != "/" {
		t.Fatalf("first logged path = %v, want /", got)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, err := NewServer(context.Background(), testConfig(t, nil))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
	srv.Close()
}

func TestListenAndServeRequiresServer(t *testing.T) {
	t.Parallel()

	var srv *Server
	if err := srv.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	srv.Close()
}
