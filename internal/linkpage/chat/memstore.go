package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps conversations in process memory. It returns copies, so
// callers never share message slices with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]Conversation
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string]Conversation)}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, conv Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(conv.ID)
	if id == "" {
		return fmt.Errorf("conversation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok {
		return ErrAlreadyExists
	}
	conv.ID = id
	conv.Messages = nil
	s.conversations[id] = conv
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Conversation, error) {
	if err := ctx.Err(); err != nil {
		return Conversation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[strings.TrimSpace(id)]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return conv.clone(), nil
}

// SetOpen implements Store.
func (s *MemoryStore) SetOpen(ctx context.Context, id string, open bool, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	conv.Open = open
	conv.UpdatedAt = at.UTC()
	s.conversations[id] = conv
	return nil
}

// AppendMessage implements Store.
func (s *MemoryStore) AppendMessage(ctx context.Context, id string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !msg.Sender.Valid() {
		return fmt.Errorf("invalid sender %q", msg.Sender)
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	msg.Timestamp = msg.Timestamp.UTC()
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp
	s.conversations[id] = conv
	return nil
}
