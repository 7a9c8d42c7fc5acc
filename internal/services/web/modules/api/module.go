// Package api serves the JSON endpoints app.js talks to.
package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/markdown"
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	apperrors "github.com/digitalexpert/linkpage/internal/services/web/platform/errors"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a JSON request body. A maximal message fits easily.
const maxBodyBytes = 64 << 10

// Module serves /api/chat* and /api/tip.
type Module struct{}

// New returns the API module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "api" }

// Mount wires the JSON routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Chat == nil {
		return module.Mount{}, errors.New("chat service is required")
	}
	if deps.Tips == nil {
		return module.Mount{}, errors.New("tip service is required")
	}
	if deps.Visitors == nil {
		return module.Mount{}, errors.New("visitor codec is required")
	}
	h := handlers{deps: deps}
	mux := http.NewServeMux()

	mux.HandleFunc(http.MethodGet+" "+routepath.APIChat, h.handleChat)
	mux.HandleFunc(routepath.APIChat, httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodGet+" "+routepath.APITip, h.handleTip)
	mux.HandleFunc(routepath.APITip, httpx.MethodNotAllowed(http.MethodGet))

	for path, handle := range map[string]http.HandlerFunc{
		routepath.APIChatOpen:  h.handleOpen,
		routepath.APIChatClose: h.handleClose,
		routepath.APIChatSend:  h.handleSend,
	} {
		mux.HandleFunc(http.MethodPost+" "+path, handle)
		mux.HandleFunc(path, httpx.MethodNotAllowed(http.MethodPost))
	}
	mux.HandleFunc(routepath.APIPrefix+"{rest...}", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return module.Mount{Prefix: routepath.APIPrefix, Handler: mux}, nil
}

type messageView struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	HTML      template.HTML `json:"html"`
	Sender    chat.Sender   `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
}

type chatView struct {
	Open     bool          `json:"open"`
	Typing   bool          `json:"typing"`
	Messages []messageView `json:"messages"`
}

type sendRequest struct {
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []messageView `json:"messages"`
}

func newMessageView(msg chat.Message) messageView {
	html := template.HTML(template.HTMLEscapeString(msg.Text))
	if msg.Sender == chat.SenderExpert {
		html = markdown.Render(msg.Text)
	}
	return messageView{
		ID:        msg.ID,
		Text:      msg.Text,
		HTML:      html,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	}
}

func newChatView(view chat.View) chatView {
	out := chatView{Open: view.Open, Typing: view.Typing, Messages: make([]messageView, 0, len(view.Messages))}
	for _, msg := range view.Messages {
		out.Messages = append(out.Messages, newMessageView(msg))
	}
	return out
}

type handlers struct {
	deps module.Dependencies
}

func (h handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.deps.Visitors.Read(r)
	if !ok {
		_ = httpx.WriteJSON(w, http.StatusOK, newChatView(chat.View{}))
		return
	}
	h.writeConversation(w, r, conversationID)
}

func (h handlers) handleOpen(w http.ResponseWriter, r *http.Request) {
	conversationID, _ := h.deps.Visitors.Read(r)
	conv, err := h.deps.Chat.Open(r.Context(), conversationID)
	if err != nil {
		h.writeError(w, r, "open chat", err)
		return
	}
	if err := h.deps.Visitors.Write(w, r, conv.ID); err != nil {
		h.writeError(w, r, "write visitor cookie", err)
		return
	}
	h.writeConversation(w, r, conv.ID)
}

func (h handlers) handleClose(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.deps.Visitors.Read(r)
	if !ok {
		_ = httpx.WriteJSON(w, http.StatusOK, newChatView(chat.View{}))
		return
	}
	if _, err := h.deps.Chat.Close(r.Context(), conversationID); err != nil && !errors.Is(err, chat.ErrNotFound) {
		h.writeError(w, r, "close chat", err)
		return
	}
	h.writeConversation(w, r, conversationID)
}

func (h handlers) handleSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, "decode message", apperrors.EK(apperrors.KindTooLarge, "errorMessageTooLong", err.Error()))
			return
		}
		h.writeError(w, r, "decode message", apperrors.EK(apperrors.KindInvalidInput, "errorInvalidRequest", "invalid json body"))
		return
	}

	lang := h.deps.Language(w, r)
	conversationID, _ := h.deps.Visitors.Read(r)
	exchange, err := h.deps.Chat.Send(r.Context(), conversationID, lang, req.Text)
	if err != nil {
		h.writeError(w, r, "send chat message", err)
		return
	}
	if err := h.deps.Visitors.Write(w, r, exchange.ConversationID); err != nil {
		h.writeError(w, r, "write visitor cookie", err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sendResponse{
		Messages: []messageView{newMessageView(exchange.User), newMessageView(exchange.Expert)},
	})
}

func (h handlers) handleTip(w http.ResponseWriter, r *http.Request) {
	lang := h.deps.Language(w, r)
	w.Header().Set("Cache-Control", "no-store")
	_ = httpx.WriteJSON(w, http.StatusOK, h.deps.Tips.Next(r.Context(), lang))
}

// writeConversation answers with the stored conversation. A conversation that
// no longer exists reads as closed and empty, and its cookie is dropped.
func (h handlers) writeConversation(w http.ResponseWriter, r *http.Request, conversationID string) {
	view, err := h.deps.Chat.Get(r.Context(), conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		h.deps.Visitors.Clear(w, r)
		_ = httpx.WriteJSON(w, http.StatusOK, newChatView(chat.View{}))
		return
	}
	if err != nil {
		h.writeError(w, r, "load conversation", err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newChatView(view))
}

// writeError answers with the failure described in the request language.
func (h handlers) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.deps.Log().Error(op, zap.Error(err))
	} else {
		h.deps.Log().Debug(op, zap.Error(err))
	}
	lang := h.deps.Language(w, r)
	_ = httpx.WriteJSONError(w, status, apperrors.Localize(err, h.deps.Catalog, lang))
}
