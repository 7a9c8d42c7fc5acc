package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/chat/chattest"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	chattest.RunStoreContract(t, func(t *testing.T) chat.Store {
		return openTempStore(t)
	})
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chat.db")
	ctx := context.Background()
	now := time.Date(2026, time.April, 1, 9, 30, 0, 0, time.UTC)

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.Create(ctx, chat.Conversation{ID: "c1", Open: true, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if err := first.AppendMessage(ctx, "c1", chat.Message{ID: "m1", Text: "Tere", Sender: chat.SenderUser, Timestamp: now}); err != nil {
		t.Fatalf("append message: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if !got.Open || len(got.Messages) != 1 || got.Messages[0].Text != "Tere" {
		t.Fatalf("conversation = %+v", got)
	}
}

func TestAppendRejectsDuplicateMessageID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.April, 1, 9, 30, 0, 0, time.UTC)
	if err := store.Create(ctx, chat.Conversation{ID: "c1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	msg := chat.Message{ID: "m1", Text: "hello", Sender: chat.SenderUser, Timestamp: now}
	if err := store.AppendMessage(ctx, "c1", msg); err != nil {
		t.Fatalf("append message: %v", err)
	}
	if err := store.AppendMessage(ctx, "c1", msg); err == nil {
		t.Fatal("expected duplicate message id error")
	}
	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(got.Messages))
	}
}

func TestServiceOverSQLite(t *testing.T) {
	t.Parallel()

	svc, err := chat.NewService(chat.Config{Store: openTempStore(t), Texts: staticTexts{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	exchange, err := svc.Send(context.Background(), "", "fi", "Hei")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	view, err := svc.Get(context.Background(), exchange.ConversationID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Messages) != 2 || view.Messages[0].ID != exchange.User.ID || view.Messages[1].ID != exchange.Expert.ID {
		t.Fatalf("messages = %+v", view.Messages)
	}
}

type staticTexts struct{}

func (staticTexts) Text(_, key string) string { return key }

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}
