package linkpage

import (
	"context"
	"fmt"
	"strings"

	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/i18n"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/requestmeta"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Serve runs the web server, and the locale watcher when an override
// directory is configured, until ctx ends or one of them fails.
func Serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	services, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("close services", zap.Error(err))
		}
	}()

	key, err := sessionKey(cfg.SessionKey, logger)
	if err != nil {
		return err
	}
	policy := requestmeta.Policy{TrustForwardedProto: cfg.TrustForwardedProto}
	visitors, err := visitor.NewCodec(key, policy)
	if err != nil {
		return fmt.Errorf("init visitor codec: %w", err)
	}

	var watcher *catalog.Watcher
	if dir := strings.TrimSpace(cfg.LocalesDir); dir != "" {
		watcher, err = catalog.NewWatcher(dir, services.Catalog, logger.Named("locales"))
		if err != nil {
			return fmt.Errorf("init locale watcher: %w", err)
		}
	}

	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr:  cfg.HTTPAddr,
		Site:      services.Site,
		Catalog:   services.Catalog,
		Chat:      services.Chat,
		Tips:      services.Tips,
		Visitors:  visitors,
		Languages: i18n.NewResolver(services.Site.LanguageCodes()),
		Policy:    policy,
		Logger:    logger.Named("web"),
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(gctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}
	return g.Wait()
}

// sessionKey returns the configured signing key, or a random one that lasts
// for this process only.
func sessionKey(raw string, logger *zap.Logger) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		logger.Warn("LINKPAGE_SESSION_KEY is not set; visitor cookies will not survive a restart")
		return visitor.GenerateKey()
	}
	if len(raw) < visitor.MinKeyLen {
		return nil, fmt.Errorf("session key must be at least %d bytes", visitor.MinKeyLen)
	}
	return []byte(raw), nil
}
