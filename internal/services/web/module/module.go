// Package module defines the feature contract used by web composition.
package module

import (
	"context"
	"net/http"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"go.uber.org/zap"
)

// ResolveLanguage returns the effective request language, persisting an
// explicit choice on w.
type ResolveLanguage func(http.ResponseWriter, *http.Request) string

// ChatService is the conversation surface modules depend on.
type ChatService interface {
	Open(ctx context.Context, conversationID string) (chat.Conversation, error)
	Close(ctx context.Context, conversationID string) (chat.Conversation, error)
	Get(ctx context.Context, conversationID string) (chat.View, error)
	Send(ctx context.Context, conversationID, lang, text string) (chat.Exchange, error)
}

// TipService produces expert tips.
type TipService interface {
	Next(ctx context.Context, lang string) tip.Tip
}

// Dependencies carries shared services into modules.
type Dependencies struct {
	Site            site.Site
	Catalog         *catalog.Store
	Chat            ChatService
	Tips            TipService
	Visitors        *visitor.Codec
	ResolveLanguage ResolveLanguage
	Logger          *zap.Logger
}

// Language resolves the request language, defaulting to English when no
// resolver is wired.
func (d Dependencies) Language(w http.ResponseWriter, r *http.Request) string {
	if d.ResolveLanguage == nil {
		return catalog.BaseLocale
	}
	return d.ResolveLanguage(w, r)
}

// Log returns the module logger.
func (d Dependencies) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
