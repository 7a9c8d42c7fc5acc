// Package public serves the link page itself and the health probe.
package public

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/markdown"
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	"github.com/digitalexpert/linkpage/internal/services/web/templates"
	"go.uber.org/zap"
)

// Module serves GET / and GET /healthz.
type Module struct{}

// New returns the public module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires the page routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Catalog == nil {
		return module.Mount{}, errors.New("catalog store is required")
	}
	if deps.Tips == nil {
		return module.Mount{}, errors.New("tip service is required")
	}
	h := handlers{deps: deps}
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handlePage)
	mux.HandleFunc(routepath.Root+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(routepath.Root+"{rest...}", http.NotFound)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

type handlers struct {
	deps module.Dependencies
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := h.deps.Language(w, r)
	page := templates.Page{
		Lang:     lang,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Site:     h.deps.Site,
		Texts:    h.deps.Catalog.Table(lang),
		Tip:      h.deps.Tips.Next(ctx, lang),
		Chat:     h.chatState(w, r),
	}

	var buf bytes.Buffer
	if err := templates.Layout(page).Render(ctx, &buf); err != nil {
		h.deps.Log().Error("render page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := httpx.WriteHTML(w, http.StatusOK, buf.String()); err != nil {
		h.deps.Log().Debug("write page", zap.Error(err))
	}
}

// chatState loads the visitor's conversation. A cookie pointing at nothing
// is dropped so the next chat action starts fresh.
func (h handlers) chatState(w http.ResponseWriter, r *http.Request) templates.Chat {
	if h.deps.Chat == nil || h.deps.Visitors == nil {
		return templates.Chat{}
	}
	conversationID, ok := h.deps.Visitors.Read(r)
	if !ok {
		if visitor.HasCookie(r) {
			h.deps.Visitors.Clear(w, r)
		}
		return templates.Chat{}
	}
	view, err := h.deps.Chat.Get(r.Context(), conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		h.deps.Visitors.Clear(w, r)
		return templates.Chat{}
	}
	if err != nil {
		h.deps.Log().Warn("load conversation", zap.String("conversation_id", conversationID), zap.Error(err))
		return templates.Chat{}
	}
	return ChatView(view)
}

// ChatView converts a conversation into what the modal renders.
func ChatView(view chat.View) templates.Chat {
	state := templates.Chat{
		Open:     view.Open,
		Typing:   view.Typing,
		Messages: make([]templates.ChatMessage, 0, len(view.Messages)),
	}
	for _, msg := range view.Messages {
		item := templates.ChatMessage{ID: msg.ID, Text: msg.Text}
		if msg.Sender == chat.SenderExpert {
			item.Expert = true
			item.HTML = markdown.Render(msg.Text)
		}
		state.Messages = append(state.Messages, item)
	}
	return state
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	_ = httpx.WriteText(w, http.StatusOK, "ok")
}
