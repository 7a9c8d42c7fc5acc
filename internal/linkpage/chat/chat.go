// Package chat keeps each visitor's conversation with the expert.
package chat

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested conversation is missing.
	ErrNotFound = errors.New("conversation not found")
	// ErrAlreadyExists indicates a conversation ID is taken.
	ErrAlreadyExists = errors.New("conversation already exists")
	// ErrEmptyMessage rejects a message with no text after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong rejects a message over MaxMessageRunes.
	ErrMessageTooLong = errors.New("message is too long")
	// ErrBusy rejects a message while the previous reply is still pending.
	ErrBusy = errors.New("expert is still replying")
)

// MaxMessageRunes bounds one user message.
const MaxMessageRunes = 2000

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderExpert Sender = "expert"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderExpert
}

// Message is one entry of a conversation.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// Conversation is a visitor's chat. Messages are in append order.
type Conversation struct {
	ID        string
	Open      bool
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Conversation) clone() Conversation {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

// Store persists conversations.
type Store interface {
	// Create inserts a conversation with no messages.
	Create(ctx context.Context, conv Conversation) error
	// Get returns the conversation with its messages in append order.
	Get(ctx context.Context, id string) (Conversation, error)
	// SetOpen records whether the chat window is open.
	SetOpen(ctx context.Context, id string, open bool, at time.Time) error
	// AppendMessage adds msg to the end of the conversation.
	AppendMessage(ctx context.Context, id string, msg Message) error
}
