package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"studybuddy/models"
	"studybuddy/services/events"
	"studybuddy/services/textgen"
)

var generationOptions = textgen.Options{MaxOutputTokens: 1024, Temperature: 0.8}

// Generate asks the model for a quiz on topic and stores it. Generator errors
// come back as ErrGenerationFailed and unparseable output as
// ErrMalformedOutput; in both cases nothing is stored.
func (s *Service) Generate(ctx context.Context, userID, topic string) (*models.Quiz, error) {
	slog.InfoContext(ctx, "Starting quiz generation", "user_id", userID, "topic", topic)

	text, err := s.callGenerator(ctx, generationPrompt(topic))
	if err != nil {
		slog.WarnContext(ctx, "Failed to generate quiz", "user_id", userID, "topic", topic, "err", err)
		s.emit(ctx, events.KindQuizGenerated, userID, events.OutcomeGenerationFailed, map[string]any{"topic": topic})
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	questions, err := ExtractQuestions(text)
	if err != nil {
		slog.WarnContext(ctx, "Generated quiz had no usable questions", "user_id", userID, "topic", topic, "chars", len(text))
		s.emit(ctx, events.KindQuizGenerated, userID, events.OutcomeMalformedOutput, map[string]any{"topic": topic})
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz id: %w", err)
	}

	quiz := &models.Quiz{
		ID:        id,
		UserID:    userID,
		Topic:     topic,
		Questions: questions,
		CreatedAt: s.now(),
	}

	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		s.emit(ctx, events.KindQuizGenerated, userID, events.OutcomeInternalError, map[string]any{"topic": topic})
		return nil, fmt.Errorf("failed to store quiz: %w", err)
	}

	s.emit(ctx, events.KindQuizGenerated, userID, events.OutcomeOK, map[string]any{
		"quiz_id":   quiz.ID,
		"topic":     topic,
		"questions": len(questions),
	})
	slog.InfoContext(ctx, "Successfully generated quiz", "user_id", userID, "quiz_id", quiz.ID, "questions", len(questions))

	return quiz, nil
}

// callGenerator turns a panicking generator into an error.
func (s *Service) callGenerator(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return s.gen.Generate(ctx, prompt, generationOptions)
}
