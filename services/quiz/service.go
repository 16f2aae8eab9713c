package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studybuddy/db"
	"studybuddy/models"
	"studybuddy/services/events"
	"studybuddy/services/textgen"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrNoQuizzes        = errors.New("no quizzes yet")
	ErrGenerationFailed = errors.New("quiz generation failed")
	ErrMalformedOutput  = errors.New("no usable questions in generated output")
)

// Service creates, stores, lists and grades quizzes.
type Service struct {
	store  db.Store
	gen    textgen.Generator
	events events.Emitter
	now    func() time.Time
	newID  func() (string, error)
}

func NewService(store db.Store, gen textgen.Generator, emitter events.Emitter) *Service {
	if emitter == nil {
		emitter = events.Nop
	}

	return &Service{
		store:  store,
		gen:    gen,
		events: emitter,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newUUID,
	}
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns the user's quizzes, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Quiz, error) {
	quizzes, err := s.store.ListQuizzes(ctx, userID)
	if err != nil {
		s.emit(ctx, events.KindQuizListed, userID, events.OutcomeInternalError, nil)
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	s.emit(ctx, events.KindQuizListed, userID, events.OutcomeOK, map[string]any{"count": len(quizzes)})
	return quizzes, nil
}

// Search returns the user's quizzes whose topic matches any word of query.
// An empty query matches everything.
func (s *Service) Search(ctx context.Context, userID, query string) ([]*models.Quiz, error) {
	quizzes, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	terms := searchTerms(query)
	if len(terms) == 0 {
		return quizzes, nil
	}

	return lo.Filter(quizzes, func(q *models.Quiz, _ int) bool {
		return topicMatches(q.Topic, terms)
	}), nil
}

// Get looks the quiz up within the user's own quizzes only.
func (s *Service) Get(ctx context.Context, userID, quizID string) (*models.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.emit(ctx, events.KindQuizShown, userID, events.OutcomeNotFound, map[string]any{"quiz_id": quizID})
			return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
		}
		s.emit(ctx, events.KindQuizShown, userID, events.OutcomeInternalError, map[string]any{"quiz_id": quizID})
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	s.emit(ctx, events.KindQuizShown, userID, events.OutcomeOK, map[string]any{"quiz_id": quizID})
	return quiz, nil
}

func (s *Service) Latest(ctx context.Context, userID string) (*models.Quiz, error) {
	quiz, err := s.store.LatestQuiz(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNoQuizzes
		}
		return nil, fmt.Errorf("failed to get latest quiz: %w", err)
	}
	return quiz, nil
}

// Grade scores answers against one of the user's quizzes, records the result
// and bumps the streak.
func (s *Service) Grade(ctx context.Context, userID, quizID string, answers []string) (*models.Quiz, *models.GradeResult, error) {
	quiz, err := s.store.GetQuiz(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.emit(ctx, events.KindQuizGraded, userID, events.OutcomeNotFound, map[string]any{"quiz_id": quizID})
			return nil, nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
		}
		s.emit(ctx, events.KindQuizGraded, userID, events.OutcomeInternalError, map[string]any{"quiz_id": quizID})
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	grade, err := s.grade(ctx, quiz, answers)
	if err != nil {
		return nil, nil, err
	}
	return quiz, grade, nil
}

// GradeLatest grades the user's most recently created quiz.
func (s *Service) GradeLatest(ctx context.Context, userID string, answers []string) (*models.Quiz, *models.GradeResult, error) {
	quiz, err := s.Latest(ctx, userID)
	if err != nil {
		outcome := events.OutcomeInternalError
		if errors.Is(err, ErrNoQuizzes) {
			outcome = events.OutcomeNotFound
		}
		s.emit(ctx, events.KindQuizGraded, userID, outcome, nil)
		return nil, nil, err
	}

	grade, err := s.grade(ctx, quiz, answers)
	if err != nil {
		return nil, nil, err
	}
	return quiz, grade, nil
}

func (s *Service) grade(ctx context.Context, quiz *models.Quiz, answers []string) (*models.GradeResult, error) {
	score, marks := Score(quiz.Questions, answers)

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate result id: %w", err)
	}

	result := &models.QuizResult{
		ID:        id,
		QuizID:    quiz.ID,
		UserID:    quiz.UserID,
		Answers:   append([]string{}, answers...),
		Score:     score,
		Total:     len(quiz.Questions),
		CreatedAt: s.now(),
	}

	state, err := s.store.RecordGrading(ctx, result)
	if err != nil {
		s.emit(ctx, events.KindQuizGraded, quiz.UserID, events.OutcomeInternalError, map[string]any{"quiz_id": quiz.ID})
		return nil, fmt.Errorf("failed to record grading: %w", err)
	}

	s.emit(ctx, events.KindQuizGraded, quiz.UserID, events.OutcomeOK, map[string]any{
		"quiz_id": quiz.ID,
		"score":   score,
		"total":   result.Total,
	})

	return &models.GradeResult{
		Result:     result,
		Percentage: Percentage(score, result.Total),
		Marks:      marks,
		Streak:     state.Streak,
	}, nil
}

func (s *Service) emit(ctx context.Context, kind events.Kind, userID string, outcome events.Outcome, attrs map[string]any) {
	s.events.Emit(ctx, events.Event{Kind: kind, UserID: userID, Outcome: outcome, Attrs: attrs})
}
