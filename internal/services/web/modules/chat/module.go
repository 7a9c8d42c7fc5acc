// Package chat serves the form-post chat flows used without JavaScript.
package chat

import (
	"errors"
	"net/http"

	domainchat "github.com/digitalexpert/linkpage/internal/linkpage/chat"
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	apperrors "github.com/digitalexpert/linkpage/internal/services/web/platform/errors"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	"go.uber.org/zap"
)

// maxFormBytes bounds a posted chat form.
const maxFormBytes = 64 << 10

// Module serves POST /chat/open, /chat/close and /chat/messages.
type Module struct{}

// New returns the chat form module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "chat" }

// Mount wires the chat form routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Chat == nil {
		return module.Mount{}, errors.New("chat service is required")
	}
	if deps.Visitors == nil {
		return module.Mount{}, errors.New("visitor codec is required")
	}
	h := handlers{deps: deps}
	mux := http.NewServeMux()
	for path, handle := range map[string]http.HandlerFunc{
		routepath.ChatOpen:     h.handleOpen,
		routepath.ChatClose:    h.handleClose,
		routepath.ChatMessages: h.handleSend,
	} {
		mux.HandleFunc(http.MethodPost+" "+path, handle)
		mux.HandleFunc(path, httpx.MethodNotAllowed(http.MethodPost))
	}
	mux.HandleFunc(routepath.ChatPrefix+"{rest...}", http.NotFound)
	return module.Mount{Prefix: routepath.ChatPrefix, Handler: mux}, nil
}

type handlers struct {
	deps module.Dependencies
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
	httpx.WriteSeeOther(w, r, routepath.Root+routepath.ChatAnchor)
}

func (h handlers) handleClose(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.deps.Visitors.Read(r)
	if ok {
		_, err := h.deps.Chat.Close(r.Context(), conversationID)
		switch {
		case errors.Is(err, domainchat.ErrNotFound):
			h.deps.Visitors.Clear(w, r)
		case err != nil:
			h.writeError(w, r, "close chat", err)
			return
		}
	}
	httpx.WriteSeeOther(w, r, routepath.Root)
}

func (h handlers) handleSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, "parse chat form", apperrors.EK(apperrors.KindInvalidInput, "errorInvalidRequest", err.Error()))
		return
	}
	lang := h.deps.Language(w, r)
	conversationID, _ := h.deps.Visitors.Read(r)

	exchange, err := h.deps.Chat.Send(r.Context(), conversationID, lang, r.PostForm.Get("text"))
	switch {
	case errors.Is(err, domainchat.ErrEmptyMessage),
		errors.Is(err, domainchat.ErrMessageTooLong),
		errors.Is(err, domainchat.ErrBusy):
		// The form already blocks these; drop the post and show the chat again.
		h.deps.Log().Debug("chat message rejected", zap.Error(err))
	case err != nil:
		h.writeError(w, r, "send chat message", err)
		return
	default:
		if err := h.deps.Visitors.Write(w, r, exchange.ConversationID); err != nil {
			h.writeError(w, r, "write visitor cookie", err)
			return
		}
	}
	httpx.WriteSeeOther(w, r, routepath.Root+routepath.ChatAnchor)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.deps.Log().Error(op, zap.Error(err))
	} else {
		h.deps.Log().Debug(op, zap.Error(err))
	}
	http.Error(w, apperrors.Localize(err, h.deps.Catalog, h.deps.Language(w, r)), status)
}
