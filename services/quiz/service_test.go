package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/db"
	"studybuddy/models"
	"studybuddy/services/events"
	"studybuddy/services/textgen"
)

var errDatabaseDown = errors.New("database down")

type brokenStore struct {
	*db.MemoryStore
	failCreate  bool
	failGrading bool
}

func (s *brokenStore) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if s.failCreate {
		return errDatabaseDown
	}
	return s.MemoryStore.CreateQuiz(ctx, quiz)
}

func (s *brokenStore) RecordGrading(ctx context.Context, result *models.QuizResult) (*models.UserState, error) {
	if s.failGrading {
		return nil, errDatabaseDown
	}
	return s.MemoryStore.RecordGrading(ctx, result)
}

func replying(text string) textgen.Generator {
	return textgen.Func(func(context.Context, string, textgen.Options) (string, error) {
		return text, nil
	})
}

func newTestService(t *testing.T, store db.Store, gen textgen.Generator) (*Service, *events.Recorder) {
	t.Helper()

	rec := &events.Recorder{}
	svc := NewService(store, gen, rec)

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	svc.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("id-%02d", seq), nil
	}

	return svc, rec
}

func TestGenerateStoresQuiz(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	var gotOpts textgen.Options
	gen := textgen.Func(func(_ context.Context, prompt string, opts textgen.Options) (string, error) {
		gotOpts = opts
		assert.Contains(t, prompt, "photosynthesis")
		return wellFormedOutput, nil
	})

	svc, rec := newTestService(t, store, gen)

	quiz, err := svc.Generate(ctx, "alice", "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, 1024, gotOpts.MaxOutputTokens)
	assert.InDelta(t, 0.8, gotOpts.Temperature, 1e-9)

	// Round trip through Get keeps topic and questions.
	stored, err := svc.Get(ctx, "alice", quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", stored.Topic)
	assert.Equal(t, quiz.Questions, stored.Questions)

	last, ok := rec.Last(events.KindQuizGenerated)
	require.True(t, ok)
	assert.Equal(t, events.OutcomeOK, last.Outcome)
	assert.Equal(t, "alice", last.UserID)

	// Generating does not count as study activity.
	state, err := store.EnsureUserState(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Streak)
}

func TestGenerateSoftFailures(t *testing.T) {
	tests := []struct {
		name    string
		gen     textgen.Generator
		wantErr error
		outcome events.Outcome
	}{
		{
			name: "generator error",
			gen: textgen.Func(func(context.Context, string, textgen.Options) (string, error) {
				return "", errors.New("upstream 503")
			}),
			wantErr: ErrGenerationFailed,
			outcome: events.OutcomeGenerationFailed,
		},
		{
			name: "empty response",
			gen: textgen.Func(func(context.Context, string, textgen.Options) (string, error) {
				return "", textgen.ErrEmptyResponse
			}),
			wantErr: ErrGenerationFailed,
			outcome: events.OutcomeGenerationFailed,
		},
		{
			name: "generator panics",
			gen: textgen.Func(func(context.Context, string, textgen.Options) (string, error) {
				panic("boom")
			}),
			wantErr: ErrGenerationFailed,
			outcome: events.OutcomeGenerationFailed,
		},
		{
			name:    "prose only",
			gen:     replying("Sorry, I can't help with that."),
			wantErr: ErrMalformedOutput,
			outcome: events.OutcomeMalformedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := db.NewMemoryStore()
			svc, rec := newTestService(t, store, tt.gen)

			quiz, err := svc.Generate(ctx, "alice", "volcanoes")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, quiz)

			count, err := store.CountQuizzes(ctx, "alice")
			require.NoError(t, err)
			assert.Zero(t, count, "no quiz may be stored on failure")

			last, ok := rec.Last(events.KindQuizGenerated)
			require.True(t, ok)
			assert.Equal(t, tt.outcome, last.Outcome)
		})
	}
}

func TestGenerateStoreFailureIsHard(t *testing.T) {
	store := &brokenStore{MemoryStore: db.NewMemoryStore(), failCreate: true}
	svc, rec := newTestService(t, store, replying(wellFormedOutput))

	_, err := svc.Generate(context.Background(), "alice", "volcanoes")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.NotErrorIs(t, err, ErrGenerationFailed)

	last, _ := rec.Last(events.KindQuizGenerated)
	assert.Equal(t, events.OutcomeInternalError, last.Outcome)
}

func TestGetIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t, db.NewMemoryStore(), replying(wellFormedOutput))

	quiz, err := svc.Generate(ctx, "alice", "geography")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	last, _ := rec.Last(events.KindQuizShown)
	assert.Equal(t, events.OutcomeNotFound, last.Outcome)

	_, _, err = svc.Grade(ctx, "bob", quiz.ID, []string{"A"})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestListAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, db.NewMemoryStore(), replying(wellFormedOutput))

	empty, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, NoQuizzesMessage, FormatQuizList(empty))

	for _, topic := range []string{"photosynthesis", "French Revolution", "cell biology"} {
		_, err := svc.Generate(ctx, "alice", topic)
		require.NoError(t, err)
	}

	quizzes, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, quizzes, 3)
	assert.Equal(t, "cell biology", quizzes[0].Topic, "newest first")

	found, err := svc.Search(ctx, "alice", "revolution")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "French Revolution", found[0].Topic)

	all, err := svc.Search(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGradeRecordsResultAndBumpsStreak(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	svc, rec := newTestService(t, store, replying(wellFormedOutput))

	quiz, err := svc.Generate(ctx, "alice", "general science")
	require.NoError(t, err)

	before, err := store.EnsureUserState(ctx, "alice")
	require.NoError(t, err)

	_, grade, err := svc.Grade(ctx, "alice", quiz.ID, []string{"a", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, grade.Result.Score)
	assert.Equal(t, 3, grade.Result.Total)
	assert.Equal(t, 67, grade.Percentage)
	assert.Equal(t, before.Streak+1, grade.Streak)
	assert.False(t, grade.Marks[2].Correct)

	// A zero score still counts as study activity.
	_, grade, err = svc.Grade(ctx, "alice", quiz.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, grade.Result.Score)
	assert.Equal(t, before.Streak+2, grade.Streak)

	results, err := store.ListQuizResults(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	last, _ := rec.Last(events.KindQuizGraded)
	assert.Equal(t, events.OutcomeOK, last.Outcome)
}

func TestGradeLatest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, db.NewMemoryStore(), replying(wellFormedOutput))

	_, _, err := svc.GradeLatest(ctx, "alice", []string{"A"})
	assert.ErrorIs(t, err, ErrNoQuizzes)

	_, err = svc.Generate(ctx, "alice", "first")
	require.NoError(t, err)
	second, err := svc.Generate(ctx, "alice", "second")
	require.NoError(t, err)

	quiz, grade, err := svc.GradeLatest(ctx, "alice", []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, quiz.ID)
	assert.Equal(t, 3, grade.Result.Score)
	assert.Equal(t, second.ID, grade.Result.QuizID)
}

func TestGradePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{MemoryStore: db.NewMemoryStore()}
	svc, _ := newTestService(t, store, replying(wellFormedOutput))

	quiz, err := svc.Generate(ctx, "alice", "math")
	require.NoError(t, err)

	store.failGrading = true
	_, _, err = svc.Grade(ctx, "alice", quiz.ID, []string{"A"})
	assert.ErrorIs(t, err, errDatabaseDown)

	state, err := store.EnsureUserState(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Streak)
}

func TestFormatting(t *testing.T) {
	quiz := &models.Quiz{
		ID:        "id-01",
		Topic:     "capitals",
		Questions: []models.Question{capitalQuestion()},
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	text := FormatQuiz(quiz)
	assert.Contains(t, text, "Quiz on capitals (id: id-01)")
	assert.Contains(t, text, "1. What is the capital of France?")
	assert.Contains(t, text, "A) Paris")
	assert.Contains(t, text, "D) Rome")
	assert.NotContains(t, text, "correct")
	assert.Contains(t, text, `Reply with "answer" and 1 letter (A-D), one per question in order.`)
	assert.NotContains(t, text, "e.g.", "the reply hint must not read like an answer key")

	var many []*models.Quiz
	for i := 0; i < 7; i++ {
		many = append(many, quiz)
	}
	list := FormatQuizList(many)
	assert.Contains(t, list, "id-01: capitals (1 question, Mar 1, 2025)")
	assert.Contains(t, list, "...and 2 more.")

	score, marks := Score(quiz.Questions, []string{"C"})
	graded := FormatGrade(quiz, &models.GradeResult{
		Result:     &models.QuizResult{Score: score, Total: 1},
		Percentage: Percentage(score, 1),
		Marks:      marks,
		Streak:     4,
	})
	assert.Contains(t, graded, "You scored 0/1 (0%) on capitals.")
	assert.Contains(t, graded, "C is wrong, correct was A")
	assert.Contains(t, graded, "Study streak: 4")
}
