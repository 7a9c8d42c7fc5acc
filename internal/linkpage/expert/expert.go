// Package expert produces the "Digital Expert" chat replies and tips, either
// from a generative text provider or from canned tables.
package expert

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind selects the prompt a Request is answered with.
type Kind string

const (
	KindChat Kind = "chat"
	KindTip  Kind = "tip"
)

// ErrRateLimited reports that the provider refused the call for quota
// reasons. Callers show the rate-limit text instead of the generic error.
var ErrRateLimited = errors.New("expert: rate limited")

// Request is one generation call.
type Request struct {
	Kind     Kind
	Language string
	Input    string
}

// Generator produces expert text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// LanguageName returns the English name of a language code, used inside
// prompts.
func LanguageName(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "ru":
		return "Russian"
	case "fi":
		return "Finnish"
	case "et":
		return "Estonian"
	default:
		return "English"
	}
}

// SystemInstruction is the persona prompt for chat replies.
func SystemInstruction(lang string) string {
	return fmt.Sprintf("You are Digital Expert, a helpful AI assistant providing a free consultation. "+
		"Your expertise includes creating websites, setting up advertising, and business automation. "+
		"Respond in %s. Keep your answers concise, professional, and directly helpful to the user's query. "+
		"If the query is unrelated to your digital expertise, politely state your specialization.", LanguageName(lang))
}

// TipPrompt asks for one short tip in lang.
func TipPrompt(lang string) string {
	return fmt.Sprintf("You are Digital Expert. Provide a short, insightful, and actionable tip (under 40 words) "+
		"for businesses or individuals related to website development, digital marketing, or business automation. "+
		"The tip should be encouraging and practical. Respond ONLY with the tip itself, in %s.", LanguageName(lang))
}

// prompt splits a request into the system instruction and the user content
// sent to a provider.
func prompt(req Request) (system, content string, err error) {
	switch req.Kind {
	case KindChat:
		input := strings.TrimSpace(req.Input)
		if input == "" {
			return "", "", errors.New("chat input is required")
		}
		return SystemInstruction(req.Language), input, nil
	case KindTip:
		return "", TipPrompt(req.Language), nil
	default:
		return "", "", fmt.Errorf("unknown request kind %q", req.Kind)
	}
}

// IsRateLimitMessage reports whether an error text looks like a quota
// refusal.
func IsRateLimitMessage(text string) bool {
	return strings.Contains(text, "429") || strings.Contains(text, "RESOURCE_EXHAUSTED")
}
