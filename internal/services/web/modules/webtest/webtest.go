// Package webtest builds module dependencies backed by in-memory services for
// handler tests.
package webtest

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web/app"
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/i18n"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/requestmeta"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"go.uber.org/zap/zaptest"
)

// Origin is the origin httptest.NewRequest targets.
const Origin = "http://example.com"

// Key signs visitor cookies in tests.
var Key = []byte("webtest-visitor-signing-key-0001")

// Generator is a scripted expert.Generator.
type Generator struct {
	mu       sync.Mutex
	Text     string
	Err      error
	requests []expert.Request
}

// Generate records req and returns the scripted answer.
func (g *Generator) Generate(_ context.Context, req expert.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.Text, g.Err
}

// Requests returns the calls seen so far.
func (g *Generator) Requests() []expert.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]expert.Request(nil), g.requests...)
}

// Env is a set of wired services.
type Env struct {
	Deps     module.Dependencies
	Chat     *chat.Service
	Store    *chat.MemoryStore
	Catalog  *catalog.Store
	Visitors *visitor.Codec
}

type options struct {
	generator expert.Generator
}

// Option tweaks New.
type Option func(*options)

// WithGenerator answers chat and tips through gen instead of canned text.
func WithGenerator(gen expert.Generator) Option {
	return func(o *options) { o.generator = gen }
}

// New wires the default site over in-memory storage.
func New(t testing.TB, opts ...Option) *Env {
	t.Helper()
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	texts := catalog.NewStore(bundle)
	logger := zaptest.NewLogger(t)
	canned := expert.NewCanned(rand.NewPCG(1, 2))

	store := chat.NewMemoryStore()
	chatSvc, err := chat.NewService(chat.Config{
		Store:     store,
		Generator: o.generator,
		Canned:    canned,
		Texts:     texts,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("new chat service: %v", err)
	}
	tips, err := tip.NewService(o.generator, canned, texts, logger)
	if err != nil {
		t.Fatalf("new tip service: %v", err)
	}
	visitors, err := visitor.NewCodec(Key, requestmeta.Policy{})
	if err != nil {
		t.Fatalf("new visitor codec: %v", err)
	}

	cfg := site.Default()
	resolver := i18n.NewResolver(cfg.LanguageCodes())
	return &Env{
		Deps: module.Dependencies{
			Site:            cfg,
			Catalog:         texts,
			Chat:            chatSvc,
			Tips:            tips,
			Visitors:        visitors,
			ResolveLanguage: resolver.ResolveAndPersist,
			Logger:          logger,
		},
		Chat:     chatSvc,
		Store:    store,
		Catalog:  texts,
		Visitors: visitors,
	}
}

// Handler composes modules over the environment.
func (e *Env) Handler(t testing.TB, modules ...module.Module) http.Handler {
	t.Helper()
	h, err := app.Composer{}.Compose(app.ComposeInput{Dependencies: e.Deps, Modules: modules})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return h
}

// VisitorCookie returns a signed cookie for conversationID.
func (e *Env) VisitorCookie(t testing.TB, conversationID string) *http.Cookie {
	t.Helper()
	token, err := e.Visitors.Issue(conversationID)
	if err != nil {
		t.Fatalf("issue visitor token: %v", err)
	}
	return &http.Cookie{Name: visitor.CookieName, Value: token}
}

// Post builds a same-origin POST.
func Post(target, contentType string, body io.Reader) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Origin", Origin)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

// Cookie returns the named cookie set on the response, or nil.
func Cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
