// Package errors maps domain failures onto HTTP responses.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindTooLarge     Kind = "too_large"
	KindConflict     Kind = "conflict"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// LocalizationKey returns the translation key describing err to a visitor.
// Typed errors carry their own key; known domain failures map to fixed keys
// and anything unrecognized reads as an internal error.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return appErr.Key
	}
	_, key := classify(err)
	return key
}

// Translator resolves translation keys for a language.
type Translator interface {
	Text(code, key string) string
}

// Localize returns the visitor-facing message for err in lang. Without a
// key it falls back to PublicMessage.
func Localize(err error, texts Translator, lang string) string {
	key := LocalizationKey(err)
	if key == "" || texts == nil {
		return PublicMessage(err)
	}
	return texts.Text(lang, key)
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return kindStatus(appErr.Kind)
	}
	kind, _ := classify(err)
	return kindStatus(kind)
}

var sentinels = []struct {
	err  error
	kind Kind
	key  string
}{
	{err: chat.ErrEmptyMessage, kind: KindInvalidInput, key: "errorMessageEmpty"},
	{err: chat.ErrMessageTooLong, kind: KindTooLarge, key: "errorMessageTooLong"},
	{err: chat.ErrBusy, kind: KindConflict, key: "errorExpertBusy"},
	{err: chat.ErrAlreadyExists, kind: KindConflict},
	{err: chat.ErrNotFound, kind: KindNotFound},
}

func classify(err error) (Kind, string) {
	for _, s := range sentinels {
		if stderrors.Is(err, s.err) {
			return s.kind, s.key
		}
	}
	return KindUnknown, "errorInternal"
}

func kindStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns text safe to show a visitor for err. Unknown
// failures collapse to the status text.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if kind, _ := classify(err); kind != KindUnknown {
		return err.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}
