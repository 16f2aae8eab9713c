package db

import (
	"context"
	"errors"
	"time"

	"studybuddy/models"
)

var ErrNotFound = errors.New("not found")

type UserStateRepository interface {
	// EnsureUserState returns the stored state, creating a streak-0 row first
	// when the user has never been seen.
	EnsureUserState(ctx context.Context, userID string) (*models.UserState, error)
	// RecordActivity bumps the streak by one and stamps last_active. A nil
	// topic keeps the previously stored last topic.
	RecordActivity(ctx context.Context, userID string, topic *string, at time.Time) (*models.UserState, error)
}

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	GetQuiz(ctx context.Context, userID, quizID string) (*models.Quiz, error)
	ListQuizzes(ctx context.Context, userID string) ([]*models.Quiz, error)
	LatestQuiz(ctx context.Context, userID string) (*models.Quiz, error)
	CountQuizzes(ctx context.Context, userID string) (int, error)
}

type QuizResultRepository interface {
	// RecordGrading stores the result and increments the owner's streak as one
	// unit; either both are written or neither is.
	RecordGrading(ctx context.Context, result *models.QuizResult) (*models.UserState, error)
	ListQuizResults(ctx context.Context, userID string) ([]*models.QuizResult, error)
}

type Store interface {
	UserStateRepository
	QuizRepository
	QuizResultRepository
}
