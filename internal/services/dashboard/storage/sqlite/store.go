package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chistayaaa/afs-dashboard/internal/platform/id"
	sqlitemigrate "github.com/chistayaaa/afs-dashboard/internal/platform/storage/sqlitemigrate"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/storage"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultJournalLimit caps ListChanges when the caller passes no limit.
const DefaultJournalLimit = 50

// Store provides a SQLite-backed store implementing dashboard storage interfaces.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// GetToken returns the cached token for username.
func (s *Store) GetToken(ctx context.Context, username string) (string, bool, error) {
	if err := s.ready(ctx); err != nil {
		return "", false, err
	}
	var token string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT token FROM auth_tokens WHERE username = ?", username).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get token: %w", err)
	}
	return token, true, nil
}

// PutToken stores or replaces the token for username.
func (s *Store) PutToken(ctx context.Context, username, token string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO auth_tokens (username, token, acquired_at) VALUES (?, ?, ?)
ON CONFLICT(username) DO UPDATE SET token = excluded.token, acquired_at = excluded.acquired_at`,
		username, token, s.now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

// DeleteToken forgets the token for username.
func (s *Store) DeleteToken(ctx context.Context, username string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE username = ?", username); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// AppendChange records an applied change. Missing ids and timestamps are
// filled in.
func (s *Store) AppendChange(ctx context.Context, entry storage.ChangeEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(entry.EntityID) == "" {
		return fmt.Errorf("entity id is required")
	}
	if strings.TrimSpace(entry.Operation) == "" {
		return fmt.Errorf("operation is required")
	}
	if entry.ID == "" {
		generated, err := id.NewID()
		if err != nil {
			return fmt.Errorf("generate change id: %w", err)
		}
		entry.ID = generated
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.now()
	}
	payload := entry.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO change_journal (id, entity_kind, entity_id, operation, payload_json, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.EntityKind, entry.EntityID, entry.Operation, string(payload), entry.RecordedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	return nil
}

// ListChanges returns the newest changes for entityID first.
func (s *Store) ListChanges(ctx context.Context, entityID string, limit int) ([]storage.ChangeEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, entity_kind, entity_id, operation, payload_json, recorded_at
FROM change_journal
WHERE entity_id = ?
ORDER BY recorded_at DESC, id DESC
LIMIT ?`, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var entries []storage.ChangeEntry
	for rows.Next() {
		var (
			entry      storage.ChangeEntry
			payload    string
			recordedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.EntityKind, &entry.EntityID, &entry.Operation, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		entry.Payload = []byte(payload)
		entry.RecordedAt, err = time.Parse(timeFormat, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	return entries, nil
}

var _ storage.Store = (*Store)(nil)
