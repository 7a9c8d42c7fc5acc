// Package tip serves the "tip of the day" widget.
package tip

import (
	"context"
	"errors"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"go.uber.org/zap"
)

const (
	keyError     = "expertTipError"
	keyRateLimit = "expertTipRateLimitError"
)

// Translator resolves user-facing text for a language.
type Translator interface {
	Text(code, key string) string
}

// Tip is one rendered tip. When Failed is set, Text is the localized error
// message rather than a tip.
type Tip struct {
	Text        string `json:"text"`
	Failed      bool   `json:"failed"`
	RateLimited bool   `json:"rate_limited"`
}

// Service picks tips.
type Service struct {
	generator expert.Generator
	canned    *expert.Canned
	texts     Translator
	logger    *zap.Logger
}

// NewService builds a tip service. A nil generator serves canned tips.
func NewService(generator expert.Generator, canned *expert.Canned, texts Translator, logger *zap.Logger) (*Service, error) {
	if texts == nil {
		return nil, errors.New("tip translator is required")
	}
	if canned == nil {
		canned = expert.NewCanned(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, canned: canned, texts: texts, logger: logger}, nil
}

// Next returns a fresh tip for lang.
func (s *Service) Next(ctx context.Context, lang string) Tip {
	if s.generator == nil {
		return Tip{Text: s.canned.Tip(lang)}
	}
	text, err := s.generator.Generate(ctx, expert.Request{Kind: expert.KindTip, Language: lang})
	switch {
	case errors.Is(err, expert.ErrRateLimited):
		s.logger.Warn("tip rate limited", zap.String("lang", lang))
		return Tip{Text: s.texts.Text(lang, keyRateLimit), Failed: true, RateLimited: true}
	case err != nil:
		s.logger.Error("tip generation failed", zap.String("lang", lang), zap.Error(err))
		return Tip{Text: s.texts.Text(lang, keyError), Failed: true}
	case strings.TrimSpace(text) == "":
		return Tip{Text: s.texts.Text(lang, keyError), Failed: true}
	default:
		return Tip{Text: strings.TrimSpace(text)}
	}
}
