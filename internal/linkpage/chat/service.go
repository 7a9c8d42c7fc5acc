package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"github.com/digitalexpert/linkpage/internal/platform/id"
	"go.uber.org/zap"
)

// DefaultReplyDelay is how long the canned expert "types" before replying.
const DefaultReplyDelay = time.Second

const (
	keyErrorReply     = "chatErrorReply"
	keyRateLimitReply = "chatRateLimitError"
)

// Translator resolves user-facing text for a language.
type Translator interface {
	Text(code, key string) string
}

// Config wires a Service.
type Config struct {
	Store Store
	// Generator answers messages. When nil, replies come from Canned.
	Generator  expert.Generator
	Canned     *expert.Canned
	Texts      Translator
	ReplyDelay time.Duration
	Logger     *zap.Logger
	Clock      func() time.Time
	NewID      func() (string, error)
}

// View is a conversation plus whether a reply is being produced for it.
type View struct {
	Conversation
	Typing bool
}

// Exchange is the pair of messages one Send appends.
type Exchange struct {
	ConversationID string
	User           Message
	Expert         Message
}

// Service runs chat operations over a Store.
type Service struct {
	store      Store
	generator  expert.Generator
	canned     *expert.Canned
	texts      Translator
	replyDelay time.Duration
	logger     *zap.Logger
	clock      func() time.Time
	newID      func() (string, error)

	mu     sync.Mutex
	typing map[string]struct{}
}

// NewService builds a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("chat store is required")
	}
	if cfg.Texts == nil {
		return nil, errors.New("chat translator is required")
	}
	svc := &Service{
		store:      cfg.Store,
		generator:  cfg.Generator,
		canned:     cfg.Canned,
		texts:      cfg.Texts,
		replyDelay: cfg.ReplyDelay,
		logger:     cfg.Logger,
		clock:      cfg.Clock,
		newID:      cfg.NewID,
		typing:     make(map[string]struct{}),
	}
	if svc.canned == nil {
		svc.canned = expert.NewCanned(nil)
	}
	if svc.replyDelay < 0 {
		svc.replyDelay = 0
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.newID == nil {
		svc.newID = id.NewID
	}
	return svc, nil
}

// Open opens the chat window, creating the conversation when id is empty or
// unknown.
func (s *Service) Open(ctx context.Context, conversationID string) (Conversation, error) {
	conv, err := s.ensure(ctx, conversationID)
	if err != nil {
		return Conversation{}, err
	}
	if conv.Open {
		return conv, nil
	}
	now := s.now()
	if err := s.store.SetOpen(ctx, conv.ID, true, now); err != nil {
		return Conversation{}, fmt.Errorf("open conversation: %w", err)
	}
	conv.Open = true
	conv.UpdatedAt = now
	return conv, nil
}

// Close closes the chat window. Messages are kept.
func (s *Service) Close(ctx context.Context, conversationID string) (Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return Conversation{}, ErrNotFound
	}
	now := s.now()
	if err := s.store.SetOpen(ctx, conversationID, false, now); err != nil {
		return Conversation{}, fmt.Errorf("close conversation: %w", err)
	}
	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// Get returns the conversation and its typing state.
func (s *Service) Get(ctx context.Context, conversationID string) (View, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return View{}, ErrNotFound
	}
	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return View{}, fmt.Errorf("get conversation: %w", err)
	}
	return View{Conversation: conv, Typing: s.isTyping(conv.ID)}, nil
}

// Send appends a user message and the expert's reply to it. A blank or
// unknown id starts a new open conversation.
func (s *Service) Send(ctx context.Context, conversationID, lang, text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return Exchange{}, ErrMessageTooLong
	}
	conv, err := s.ensure(ctx, conversationID)
	if err != nil {
		return Exchange{}, err
	}
	if !s.startTyping(conv.ID) {
		return Exchange{}, ErrBusy
	}
	defer s.stopTyping(conv.ID)

	userMsg, err := s.message(text, SenderUser)
	if err != nil {
		return Exchange{}, err
	}
	if err := s.store.AppendMessage(ctx, conv.ID, userMsg); err != nil {
		return Exchange{}, fmt.Errorf("append user message: %w", err)
	}

	// The reply is always stored once the user message is, even if the
	// caller goes away.
	replyText := s.reply(ctx, lang, text)
	expertMsg, err := s.message(replyText, SenderExpert)
	if err != nil {
		return Exchange{}, err
	}
	if err := s.store.AppendMessage(context.WithoutCancel(ctx), conv.ID, expertMsg); err != nil {
		return Exchange{}, fmt.Errorf("append expert message: %w", err)
	}
	return Exchange{ConversationID: conv.ID, User: userMsg, Expert: expertMsg}, nil
}

// Ask produces a single reply without storing anything.
func (s *Service) Ask(ctx context.Context, lang, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return "", ErrMessageTooLong
	}
	return s.reply(ctx, lang, text), nil
}

func (s *Service) reply(ctx context.Context, lang, text string) string {
	if s.generator == nil {
		if s.replyDelay > 0 {
			timer := time.NewTimer(s.replyDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		return s.canned.Reply(lang)
	}

	out, err := s.generator.Generate(context.WithoutCancel(ctx), expert.Request{
		Kind:     expert.KindChat,
		Language: lang,
		Input:    text,
	})
	switch {
	case errors.Is(err, expert.ErrRateLimited):
		s.logger.Warn("chat reply rate limited", zap.String("lang", lang))
		return s.texts.Text(lang, keyRateLimitReply)
	case err != nil:
		s.logger.Error("chat reply failed", zap.String("lang", lang), zap.Error(err))
		return s.texts.Text(lang, keyErrorReply)
	case strings.TrimSpace(out) == "":
		return s.texts.Text(lang, keyErrorReply)
	default:
		return out
	}
}

func (s *Service) ensure(ctx context.Context, conversationID string) (Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID != "" {
		conv, err := s.store.Get(ctx, conversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Conversation{}, fmt.Errorf("get conversation: %w", err)
		}
	}
	newID, err := s.newID()
	if err != nil {
		return Conversation{}, fmt.Errorf("new conversation id: %w", err)
	}
	now := s.now()
	conv := Conversation{ID: newID, Open: true, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Create(ctx, conv); err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	s.logger.Debug("conversation created", zap.String("conversation_id", newID))
	return conv, nil
}

func (s *Service) message(text string, sender Sender) (Message, error) {
	msgID, err := s.newID()
	if err != nil {
		return Message{}, fmt.Errorf("new message id: %w", err)
	}
	return Message{ID: msgID, Text: text, Sender: sender, Timestamp: s.now()}, nil
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

func (s *Service) startTyping(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.typing[conversationID]; ok {
		return false
	}
	s.typing[conversationID] = struct{}{}
	return true
}

func (s *Service) stopTyping(conversationID string) {
	s.mu.Lock()
	delete(s.typing, conversationID)
	s.mu.Unlock()
}

func (s *Service) isTyping(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.typing[conversationID]
	return ok
}
