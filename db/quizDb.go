package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"studybuddy/models"
)

const quizColumns = `id, user_id, topic, questions, created_at`

func (s *PostgresStore) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO quizzes (id, user_id, topic, questions, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.ExecContext(ctx, query, quiz.ID, quiz.UserID, quiz.Topic, questionsJSON, quiz.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetQuiz(ctx context.Context, userID, quizID string) (*models.Quiz, error) {
	query := `
		SELECT ` + quizColumns + `
		FROM quizzes
		WHERE id = $1 AND user_id = $2`

	quiz, err := scanQuiz(s.db.QueryRowContext(ctx, query, quizID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return quiz, nil
}

func (s *PostgresStore) ListQuizzes(ctx context.Context, userID string) ([]*models.Quiz, error) {
	query := `
		SELECT ` + quizColumns + `
		FROM quizzes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]*models.Quiz, 0)
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over quizzes: %w", err)
	}

	return quizzes, nil
}

func (s *PostgresStore) LatestQuiz(ctx context.Context, userID string) (*models.Quiz, error) {
	query := `
		SELECT ` + quizColumns + `
		FROM quizzes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	quiz, err := scanQuiz(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("latest quiz for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest quiz: %w", err)
	}

	return quiz, nil
}

func (s *PostgresStore) CountQuizzes(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}

func scanQuiz(row rowScanner) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	var questionsJSON []byte

	if err := row.Scan(&quiz.ID, &quiz.UserID, &quiz.Topic, &questionsJSON, &quiz.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	return quiz, nil
}
