// Package web hosts the browser-facing link page service.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/platform/timeouts"
	"github.com/digitalexpert/linkpage/internal/services/web/app"
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	"github.com/digitalexpert/linkpage/internal/services/web/modules"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/i18n"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/observability"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/requestmeta"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	webstatic "github.com/digitalexpert/linkpage/internal/services/web/static"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr  string
	Site      site.Site
	Catalog   *catalog.Store
	Chat      module.ChatService
	Tips      module.TipService
	Visitors  *visitor.Codec
	Languages *i18n.Resolver
	Policy    requestmeta.Policy
	Logger    *zap.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	languages := cfg.Languages
	if languages == nil {
		languages = i18n.NewResolver(cfg.Site.LanguageCodes())
	}
	deps := module.Dependencies{
		Site:            cfg.Site,
		Catalog:         cfg.Catalog,
		Chat:            cfg.Chat,
		Tips:            cfg.Tips,
		Visitors:        cfg.Visitors,
		ResolveLanguage: languages.ResolveAndPersist,
		Logger:          logger,
	}
	h, err := app.Composer{}.Compose(app.ComposeInput{
		Dependencies: deps,
		Modules:      modules.Default(),
		Policy:       cfg.Policy,
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	rootMux.Handle(routepath.Root, h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		traced(),
		observability.RequestLogger(logger),
	), nil
}

// traced opens a server span per request, named by method and path.
func traced() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "linkpage.web",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpAddr: httpAddr,
		logger:   logger,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ErrorLog:          zap.NewStdLog(logger.Named("http")),
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", zap.String("addr", s.httpAddr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
