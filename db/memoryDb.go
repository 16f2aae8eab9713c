package db

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"studybuddy/models"
)

// MemoryStore keeps everything in process. Every operation holds the lock,
// so all writes for a user are linearized.
type MemoryStore struct {
	mu      sync.Mutex
	states  map[string]*models.UserState
	quizzes map[string]*models.Quiz
	results []*models.QuizResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[string]*models.UserState),
		quizzes: make(map[string]*models.Quiz),
	}
}

func (s *MemoryStore) EnsureUserState(_ context.Context, userID string) (*models.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		state = models.NewUserState(userID, time.Now().UTC())
		s.states[userID] = state
	}

	return copyUserState(state), nil
}

func (s *MemoryStore) RecordActivity(_ context.Context, userID string, topic *string, at time.Time) (*models.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyUserState(s.bumpLocked(userID, topic, at)), nil
}

func (s *MemoryStore) bumpLocked(userID string, topic *string, at time.Time) *models.UserState {
	state, ok := s.states[userID]
	if !ok {
		state = models.NewUserState(userID, at)
		s.states[userID] = state
	}

	state.Streak++
	state.LastActive = at.UTC()
	if topic != nil {
		t := *topic
		state.LastTopic = &t
	}

	return state
}

func (s *MemoryStore) CreateQuiz(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.quizzes[quiz.ID]; exists {
		return fmt.Errorf("failed to create quiz: duplicate id %s", quiz.ID)
	}

	s.quizzes[quiz.ID] = copyQuiz(quiz)
	return nil
}

func (s *MemoryStore) GetQuiz(_ context.Context, userID, quizID string) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[quizID]
	if !ok || quiz.UserID != userID {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
	}

	return copyQuiz(quiz), nil
}

func (s *MemoryStore) ListQuizzes(_ context.Context, userID string) ([]*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userQuizzesLocked(userID), nil
}

func (s *MemoryStore) LatestQuiz(_ context.Context, userID string) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quizzes := s.userQuizzesLocked(userID)
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("latest quiz for %s: %w", userID, ErrNotFound)
	}

	return quizzes[0], nil
}

func (s *MemoryStore) CountQuizzes(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, quiz := range s.quizzes {
		if quiz.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) userQuizzesLocked(userID string) []*models.Quiz {
	quizzes := make([]*models.Quiz, 0)
	for _, quiz := range s.quizzes {
		if quiz.UserID == userID {
			quizzes = append(quizzes, copyQuiz(quiz))
		}
	}

	slices.SortFunc(quizzes, func(a, b *models.Quiz) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return quizzes
}

func (s *MemoryStore) RecordGrading(_ context.Context, result *models.QuizResult) (*models.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[result.QuizID]; !ok {
		return nil, fmt.Errorf("failed to insert quiz result: quiz %s: %w", result.QuizID, ErrNotFound)
	}

	stored := *result
	stored.Answers = slices.Clone(result.Answers)
	s.results = append(s.results, &stored)

	return copyUserState(s.bumpLocked(result.UserID, nil, result.CreatedAt)), nil
}

func (s *MemoryStore) ListQuizResults(_ context.Context, userID string) ([]*models.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]*models.QuizResult, 0)
	for i := len(s.results) - 1; i >= 0; i-- {
		if s.results[i].UserID == userID {
			r := *s.results[i]
			r.Answers = slices.Clone(s.results[i].Answers)
			results = append(results, &r)
		}
	}

	slices.SortStableFunc(results, func(a, b *models.QuizResult) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return results, nil
}

func copyUserState(state *models.UserState) *models.UserState {
	c := *state
	if state.LastTopic != nil {
		t := *state.LastTopic
		c.LastTopic = &t
	}
	return &c
}

func copyQuiz(quiz *models.Quiz) *models.Quiz {
	c := *quiz
	c.Questions = make([]models.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.Options = slices.Clone(q.Options)
		c.Questions[i] = q
	}
	return &c
}
