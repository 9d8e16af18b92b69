package storage

import (
	"context"
	"time"
)

// TokenStore persists bearer tokens per API username.
type TokenStore interface {
	GetToken(ctx context.Context, username string) (string, bool, error)
	PutToken(ctx context.Context, username, token string) error
	DeleteToken(ctx context.Context, username string) error
}

// ChangeEntry is one applied change recorded in the journal.
type ChangeEntry struct {
	ID         string
	EntityKind string
	EntityID   string
	Operation  string
	// Payload is the JSON change-set or photo name, as sent to the API.
	Payload    []byte
	RecordedAt time.Time
}

// JournalStore appends and lists applied changes.
type JournalStore interface {
	AppendChange(ctx context.Context, entry ChangeEntry) error
	ListChanges(ctx context.Context, entityID string, limit int) ([]ChangeEntry, error)
}

// Store is a composite interface for dashboard storage concerns.
type Store interface {
	TokenStore
	JournalStore
	Close() error
}
