package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_state (
		user_id TEXT PRIMARY KEY,
		streak INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
		last_topic TEXT,
		last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		questions JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quizzes_user_created ON quizzes (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id TEXT PRIMARY KEY,
		quiz_id TEXT NOT NULL REFERENCES quizzes (id),
		user_id TEXT NOT NULL,
		answers JSONB NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (score >= 0 AND score <= total)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_results_user_created ON quiz_results (user_id, created_at DESC)`,
}

// EnsureSchema creates the three tables and their indexes when absent. It is
// safe to run on every start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
