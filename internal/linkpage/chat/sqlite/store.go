// Package sqlite provides a SQLite-backed chat store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/chat/sqlite/migrations"
	"github.com/digitalexpert/linkpage/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists conversations in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite chat store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create implements chat.Store.
func (s *Store) Create(ctx context.Context, conv chat.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(conv.ID)
	if id == "" {
		return fmt.Errorf("conversation id is required")
	}
	createdAt := conv.CreatedAt.UTC()
	updatedAt := conv.UpdatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO conversations (id, open, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id,
		conv.Open,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return chat.ErrAlreadyExists
		}
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// Get implements chat.Store.
func (s *Store) Get(ctx context.Context, id string) (chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return chat.Conversation{}, err
	}
	if s == nil || s.sqlDB == nil {
		return chat.Conversation{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)

	var (
		conv      chat.Conversation
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, open, created_at, updated_at FROM conversations WHERE id = ?`,
		id,
	).Scan(&conv.ID, &conv.Open, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Conversation{}, chat.ErrNotFound
	}
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	conv.CreatedAt = fromMillis(createdAt)
	conv.UpdatedAt = fromMillis(updatedAt)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, sender, text, created_at FROM messages WHERE conversation_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			msg    chat.Message
			sender string
			at     int64
		)
		if err := rows.Scan(&msg.ID, &sender, &msg.Text, &at); err != nil {
			return chat.Conversation{}, fmt.Errorf("scan message: %w", err)
		}
		msg.Sender = chat.Sender(sender)
		msg.Timestamp = fromMillis(at)
		conv.Messages = append(conv.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return chat.Conversation{}, fmt.Errorf("iterate messages: %w", err)
	}
	return conv, nil
}

// SetOpen implements chat.Store.
func (s *Store) SetOpen(ctx context.Context, id string, open bool, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE conversations SET open = ?, updated_at = ? WHERE id = ?`,
		open,
		toMillis(at),
		strings.TrimSpace(id),
	)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return requireRow(result)
}

// AppendMessage implements chat.Store.
func (s *Store) AppendMessage(ctx context.Context, id string, msg chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !msg.Sender.Valid() {
		return fmt.Errorf("invalid sender %q", msg.Sender)
	}
	if strings.TrimSpace(msg.ID) == "" {
		return fmt.Errorf("message id is required")
	}
	id = strings.TrimSpace(id)
	at := toMillis(msg.Timestamp)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO messages (id, conversation_id, sender, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID,
		id,
		string(msg.Sender),
		msg.Text,
		at,
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return chat.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ chat.Store = (*Store)(nil)
