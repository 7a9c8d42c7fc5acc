package linkpage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LINKPAGE_REPLY_DELAY", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:3000" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:3000")
	}
	if cfg.ReplyDelay != 250*time.Millisecond {
		t.Fatalf("ReplyDelay = %v, want 250ms", cfg.ReplyDelay)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("LINKPAGE_REPLY_DELAY", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	generated, err := sessionKey("", logger)
	if err != nil || len(generated) < 16 {
		t.Fatalf("sessionKey(empty) = %d bytes, %v", len(generated), err)
	}
	if _, err := sessionKey("short", logger); err == nil {
		t.Fatal("expected error for short key")
	}
	got, err := sessionKey("  a-sufficiently-long-key  ", logger)
	if err != nil || string(got) != "a-sufficiently-long-key" {
		t.Fatalf("sessionKey() = %q, %v", got, err)
	}
}

func TestCheckDefaultsPass(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := Check(Config{}, &out); err != nil {
		t.Fatalf("Check() error = %v\n%s", err, out.String())
	}
	for _, want := range []string{"site: 6 links", "en: complete", "fi: complete"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckReportsInvalidSite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "site.yaml", `
links:
  - id: web
    text_key: buttonWebsite
    icon: nope
  - id: web
    href: https://example.com
    text_key: buttonWebsite
    icon: globe
`)
	var out bytes.Buffer
	err := Check(Config{SiteFile: path}, &out)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("Check() error = %v, want ErrCheckFailed", err)
	}
	for _, want := range []string{"is invalid", `duplicate id "web"`, `unknown icon "nope"`} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckWarnsOnPartialOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "fi.json", `{"headerTitle": "Testi"}`)

	var out bytes.Buffer
	if err := Check(Config{LocalesDir: dir}, &out); err != nil {
		t.Fatalf("Check() error = %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "fi: ") || !strings.Contains(out.String(), "fall back to English") {
		t.Fatalf("expected fallback warning:\n%s", out.String())
	}
}

func TestCheckFailsOnIncompleteEnglish(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "en.json", `{"headerTitle": "Only title"}`)

	var out bytes.Buffer
	if err := Check(Config{LocalesDir: dir}, &out); !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("Check() error = %v, want ErrCheckFailed\n%s", err, out.String())
	}
}

func TestNewServicesWithSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{AIProvider: "none", DBPath: filepath.Join(t.TempDir(), "chat.db")}
	services, err := NewServices(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}
	exchange, err := services.Chat.Send(ctx, "", "en", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := services.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewServices(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen services: %v", err)
	}
	defer reopened.Close()
	view, err := reopened.Chat.Get(ctx, exchange.ConversationID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(view.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(view.Messages))
	}
}

func TestNewServicesRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	if _, err := NewServices(context.Background(), Config{AIProvider: "mystery"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestPrintTip(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := PrintTip(context.Background(), Config{AIProvider: "none"}, "ru", &out, nil); err != nil {
		t.Fatalf("PrintTip() error = %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("PrintTip() printed nothing")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, Config{HTTPAddr: "127.0.0.1:0", LocalesDir: dir, AIProvider: "none"}, zaptest.NewLogger(t))
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestLoadConfigTelemetry(t *testing.T) {
	t.Setenv("LINKPAGE_OTEL_ENDPOINT", "http://collector:4318")
	t.Setenv("LINKPAGE_OTEL_SAMPLE_RATIO", "0.5")
	t.Setenv("LINKPAGE_OTEL_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	tel := cfg.Telemetry()
	if !tel.Active() {
		t.Fatalf("Telemetry() = %+v, want active", tel)
	}
	if tel.Endpoint != "http://collector:4318" || tel.SampleRatio != 0.5 {
		t.Fatalf("Telemetry() = %+v", tel)
	}

	t.Setenv("LINKPAGE_OTEL_ENABLED", "false")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telemetry().Active() {
		t.Fatal("Telemetry() active with LINKPAGE_OTEL_ENABLED=false")
	}
}

func TestToolServicesSkipTranscriptStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chat.db")
	services, err := newToolServices(context.Background(), Config{AIProvider: "none", DBPath: path}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("newToolServices() error = %v", err)
	}
	defer services.Close()

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat %s = %v, want not exist", path, err)
	}
	if services.Chat == nil || services.Tips == nil {
		t.Fatal("services missing chat or tips")
	}
}

func TestServeFailsBeforeStartingGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := Config{HTTPAddr: "127.0.0.1:0", LocalesDir: t.TempDir(), AIProvider: "none", SessionKey: "short"}
	if err := Serve(context.Background(), cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error for short session key")
	}
}
