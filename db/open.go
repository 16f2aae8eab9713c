package db

import (
	"context"
	"fmt"
	"log/slog"
)

// Open connects to Postgres and applies the schema, or falls back to an
// in-process store when databaseURL is empty. The returned close func is
// never nil.
func Open(ctx context.Context, databaseURL string) (Store, func() error, error) {
	if databaseURL == "" {
		slog.Warn("DB_URL not set, using in-memory store; nothing will survive a restart")
		return NewMemoryStore(), func() error { return nil }, nil
	}

	store, err := NewPostgresStore(databaseURL)
	if err != nil {
		return nil, nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return store, store.Close, nil
}
