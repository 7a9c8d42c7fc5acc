// Package chattest provides shared checks for chat store implementations.
package chattest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/google/go-cmp/cmp"
)

// RunStoreContract exercises the behavior every chat.Store implementation
// must share. newStore returns an empty store for each subtest.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) chat.Store) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.Get(ctx, "missing"); !errors.Is(err, chat.ErrNotFound) {
			t.Fatalf("Get() error = %v, want chat.ErrNotFound", err)
		}
	})

	t.Run("create and get", func(t *testing.T) {
		store := newStore(t)
		conv := chat.Conversation{ID: "c1", Open: true, CreatedAt: created, UpdatedAt: created}
		if err := store.Create(ctx, conv); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := store.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if diff := cmp.Diff(conv, got); diff != "" {
			t.Fatalf("Get() mismatch (-want +got):\n%s", diff)
		}
		if err := store.Create(ctx, conv); !errors.Is(err, chat.ErrAlreadyExists) {
			t.Fatalf("Create() duplicate error = %v, want chat.ErrAlreadyExists", err)
		}
	})

	t.Run("append keeps order", func(t *testing.T) {
		store := newStore(t)
		if err := store.Create(ctx, chat.Conversation{ID: "c1", CreatedAt: created, UpdatedAt: created}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		want := []chat.Message{
			{ID: "m1", Text: "hello", Sender: chat.SenderUser, Timestamp: created.Add(time.Second)},
			{ID: "m2", Text: "hi there", Sender: chat.SenderExpert, Timestamp: created.Add(time.Second)},
			{ID: "m3", Text: "thanks", Sender: chat.SenderUser, Timestamp: created.Add(2 * time.Second)},
		}
		for _, msg := range want {
			if err := store.AppendMessage(ctx, "c1", msg); err != nil {
				t.Fatalf("AppendMessage(%s) error = %v", msg.ID, err)
			}
		}
		got, err := store.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if diff := cmp.Diff(want, got.Messages); diff != "" {
			t.Fatalf("messages mismatch (-want +got):\n%s", diff)
		}
		if !got.UpdatedAt.Equal(created.Add(2 * time.Second)) {
			t.Fatalf("UpdatedAt = %v, want last message time", got.UpdatedAt)
		}
	})

	t.Run("append to missing", func(t *testing.T) {
		store := newStore(t)
		err := store.AppendMessage(ctx, "missing", chat.Message{ID: "m1", Text: "x", Sender: chat.SenderUser, Timestamp: created})
		if !errors.Is(err, chat.ErrNotFound) {
			t.Fatalf("AppendMessage() error = %v, want chat.ErrNotFound", err)
		}
	})

	t.Run("append rejects sender", func(t *testing.T) {
		store := newStore(t)
		if err := store.Create(ctx, chat.Conversation{ID: "c1", CreatedAt: created, UpdatedAt: created}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := store.AppendMessage(ctx, "c1", chat.Message{ID: "m1", Text: "x", Sender: "bot", Timestamp: created}); err == nil {
			t.Fatal("expected error for unknown sender")
		}
	})

	t.Run("set open", func(t *testing.T) {
		store := newStore(t)
		if err := store.Create(ctx, chat.Conversation{ID: "c1", Open: true, CreatedAt: created, UpdatedAt: created}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		closedAt := created.Add(time.Minute)
		if err := store.SetOpen(ctx, "c1", false, closedAt); err != nil {
			t.Fatalf("SetOpen() error = %v", err)
		}
		got, err := store.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Open || !got.UpdatedAt.Equal(closedAt) {
			t.Fatalf("conversation = %+v, want closed at %v", got, closedAt)
		}
		if err := store.SetOpen(ctx, "missing", true, closedAt); !errors.Is(err, chat.ErrNotFound) {
			t.Fatalf("SetOpen() error = %v, want chat.ErrNotFound", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		store := newStore(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := store.Get(canceled, "c1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Get() error = %v, want context.Canceled", err)
		}
	})
}
