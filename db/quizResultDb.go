package db

import (
	"context"
	"encoding/json"
	"fmt"

	"studybuddy/models"
)

func (s *PostgresStore) RecordGrading(ctx context.Context, result *models.QuizResult) (*models.UserState, error) {
	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin grading transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO quiz_results (id, quiz_id, user_id, answers, score, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := tx.ExecContext(ctx, insert, result.ID, result.QuizID, result.UserID, answersJSON, result.Score, result.Total, result.CreatedAt.UTC()); err != nil {
		return nil, fmt.Errorf("failed to insert quiz result: %w", err)
	}

	state, err := scanUserState(tx.QueryRowContext(ctx, recordActivityQuery, result.UserID, nullString(nil), result.CreatedAt.UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to bump streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit grading transaction: %w", err)
	}

	return state, nil
}

func (s *PostgresStore) ListQuizResults(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	query := `
		SELECT id, quiz_id, user_id, answers, score, total, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.QuizResult, 0)
	for rows.Next() {
		result := &models.QuizResult{}
		var answersJSON []byte
		if err := rows.Scan(&result.ID, &result.QuizID, &result.UserID, &answersJSON, &result.Score, &result.Total, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &result.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over quiz results: %w", err)
	}

	return results, nil
}
