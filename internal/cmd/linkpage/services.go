package linkpage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	chatsqlite "github.com/digitalexpert/linkpage/internal/linkpage/chat/sqlite"
	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/platform/timeouts"
	"go.uber.org/zap"
)

// Services are the domain services every command shares.
type Services struct {
	Site    site.Site
	Catalog *catalog.Store
	Chat    *chat.Service
	Tips    *tip.Service

	closers []func() error
}

// NewServices loads configuration files and builds the domain services.
func NewServices(ctx context.Context, cfg Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfgSite, err := LoadSite(cfg.SiteFile)
	if err != nil {
		return nil, err
	}
	texts, err := LoadCatalog(cfg.LocalesDir, logger)
	if err != nil {
		return nil, err
	}

	svc := &Services{Site: cfgSite, Catalog: texts}
	store, err := svc.openStore(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	generator, err := expert.New(ctx, expert.Config{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIAPIKey,
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
		Timeout:  timeouts.Generate,
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("init expert: %w", err)
	}
	if generator == nil {
		logger.Info("no generative provider configured, using canned replies")
	}
	canned := expert.NewCanned(nil)

	svc.Chat, err = chat.NewService(chat.Config{
		Store:      store,
		Generator:  generator,
		Canned:     canned,
		Texts:      texts,
		ReplyDelay: cfg.ReplyDelay,
		Logger:     logger.Named("chat"),
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("init chat: %w", err)
	}
	svc.Tips, err = tip.NewService(generator, canned, texts, logger.Named("tip"))
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("init tips: %w", err)
	}
	return svc, nil
}

func (s *Services) openStore(ctx context.Context, path string, logger *zap.Logger) (chat.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		logger.Info("storing transcripts in memory")
		return chat.NewMemoryStore(), nil
	}
	store, err := chatsqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open transcript store: %w", err)
	}
	s.closers = append(s.closers, store.Close)
	logger.Info("storing transcripts in sqlite", zap.String("path", path))
	return store, nil
}

// Close releases storage.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// LoadSite reads path, or returns the built-in site when path is empty.
func LoadSite(path string) (site.Site, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return site.Default(), nil
	}
	cfgSite, err := site.LoadFile(path)
	if err != nil {
		return site.Site{}, fmt.Errorf("load site: %w", err)
	}
	return cfgSite, nil
}

// LoadCatalog loads the translations. Unusable override files are skipped
// with a warning.
func LoadCatalog(dir string, logger *zap.Logger) (*catalog.Store, error) {
	bundle, err := catalog.Load(dir)
	if bundle == nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	if err != nil {
		logger.Warn("some locale overrides were skipped", zap.String("dir", dir), zap.Error(err))
	}
	return catalog.NewStore(bundle), nil
}
