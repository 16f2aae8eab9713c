package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studybuddy/models"
)

const (
	ensureUserStateQuery = `
		INSERT INTO user_state (user_id, streak, last_active)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, streak, last_topic, last_active`

	recordActivityQuery = `
		INSERT INTO user_state (user_id, streak, last_topic, last_active)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET streak = user_state.streak + 1,
			last_topic = COALESCE(EXCLUDED.last_topic, user_state.last_topic),
			last_active = EXCLUDED.last_active
		RETURNING user_id, streak, last_topic, last_active`
)

func (s *PostgresStore) EnsureUserState(ctx context.Context, userID string) (*models.UserState, error) {
	row := s.db.QueryRowContext(ctx, ensureUserStateQuery, userID, time.Now().UTC())

	state, err := scanUserState(row)
	if err != nil {
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	return state, nil
}

func (s *PostgresStore) RecordActivity(ctx context.Context, userID string, topic *string, at time.Time) (*models.UserState, error) {
	row := s.db.QueryRowContext(ctx, recordActivityQuery, userID, nullString(topic), at.UTC())

	state, err := scanUserState(row)
	if err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	return state, nil
}

func scanUserState(row rowScanner) (*models.UserState, error) {
	state := &models.UserState{}
	var lastTopic sql.NullString

	if err := row.Scan(&state.UserID, &state.Streak, &lastTopic, &state.LastActive); err != nil {
		return nil, err
	}

	if lastTopic.Valid {
		state.LastTopic = &lastTopic.String
	}

	return state, nil
}
