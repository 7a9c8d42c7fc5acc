package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/digitalexpert/linkpage/internal/platform/timeouts"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the bundle currently served. Readers never block a reload for
// longer than the pointer swap.
type Store struct {
	mu     sync.RWMutex
	bundle *Bundle
}

// NewStore returns a store serving bundle.
func NewStore(bundle *Bundle) *Store {
	return &Store{bundle: bundle}
}

// Bundle returns the current bundle.
func (s *Store) Bundle() *Bundle {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// Text looks key up in the current bundle.
func (s *Store) Text(code, key string) string {
	return s.Bundle().Text(code, key)
}

// Table returns the current bundle's table for code.
func (s *Store) Table(code string) Table {
	return s.Bundle().Table(code)
}

// Swap replaces the current bundle. A nil bundle is ignored.
func (s *Store) Swap(bundle *Bundle) {
	if s == nil || bundle == nil {
		return
	}
	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()
}

// Watcher reloads an override directory into a Store when its locale files
// change.
type Watcher struct {
	dir      string
	store    *Store
	logger   *zap.Logger
	debounce time.Duration
	load     func(string) (*Bundle, error)
}

// NewWatcher builds a watcher for dir.
func NewWatcher(dir string, store *Store, logger *zap.Logger) (*Watcher, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("locales dir is required")
	}
	if store == nil {
		return nil, errors.New("catalog store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		store:    store,
		logger:   logger,
		debounce: timeouts.LocaleReload,
		load:     Load,
	}, nil
}

// Run watches until ctx is canceled. Bursts of writes collapse into one
// reload. A reload that fails to produce a bundle keeps the previous one.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create locale watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching locales", zap.String("dir", w.dir))

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("locale file changed",
				zap.String("file", filepath.Base(event.Name)),
				zap.String("op", event.Op.String()))
			reload = time.After(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("locale watcher error", zap.Error(err))
		case <-reload:
			reload = nil
			w.Reload()
		}
	}
}

// Reload loads the directory once and swaps the result into the store.
// Broken files are skipped with a warning, the same as at startup; only a
// directory that cannot be read keeps the previous bundle.
func (w *Watcher) Reload() {
	bundle, err := w.load(w.dir)
	if bundle == nil {
		w.logger.Error("locale reload failed, keeping previous catalog", zap.Error(err))
		return
	}
	if err != nil {
		w.logger.Warn("some locale overrides were skipped", zap.String("dir", w.dir), zap.Error(err))
	}
	w.store.Swap(bundle)
	w.logger.Info("locales reloaded", zap.Strings("locales", bundle.Locales()))
}

func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
