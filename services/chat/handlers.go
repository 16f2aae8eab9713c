package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"studybuddy/models"
	"studybuddy/services/events"
	"studybuddy/services/quiz"
)

func (o *Orchestrator) summarize(ctx context.Context, state *models.UserState, topic string) (string, error) {
	text, err := o.generate(ctx, fmt.Sprintf(SUMMARY_PROMPT, topic), summaryOptions)
	if err != nil {
		slog.WarnContext(ctx, "Failed to generate summary", "user_id", state.UserID, "topic", topic, "err", err)
		o.emit(ctx, events.KindSummaryGenerated, state.UserID, events.OutcomeGenerationFailed, map[string]any{"topic": topic})
		return fmt.Sprintf(summarizeApology, topic), nil
	}

	updated, err := o.store.RecordActivity(ctx, state.UserID, &topic, o.now())
	if err != nil {
		return "", fmt.Errorf("failed to record summary activity: %w", err)
	}

	o.emit(ctx, events.KindSummaryGenerated, state.UserID, events.OutcomeOK, map[string]any{
		"topic":  topic,
		"streak": updated.Streak,
	})
	return strings.TrimSpace(text), nil
}

func (o *Orchestrator) general(ctx context.Context, state *models.UserState, message string) (string, error) {
	prompt := fmt.Sprintf(PERSONA_PROMPT, state.Streak, strings.TrimSpace(message))

	text, err := o.generate(ctx, prompt, generalOptions)
	if err != nil {
		slog.WarnContext(ctx, "Failed to generate reply", "user_id", state.UserID, "err", err)
		o.emit(ctx, events.KindGeneralReplied, state.UserID, events.OutcomeGenerationFailed, nil)
		return generalApology, nil
	}

	updated, err := o.store.RecordActivity(ctx, state.UserID, nil, o.now())
	if err != nil {
		return "", fmt.Errorf("failed to record chat activity: %w", err)
	}

	o.emit(ctx, events.KindGeneralReplied, state.UserID, events.OutcomeOK, map[string]any{"streak": updated.Streak})
	return strings.TrimSpace(text), nil
}

func (o *Orchestrator) generateQuiz(ctx context.Context, state *models.UserState, topic string) (string, error) {
	created, err := o.quizzes.Generate(ctx, state.UserID, topic)
	if err != nil {
		if errors.Is(err, quiz.ErrGenerationFailed) || errors.Is(err, quiz.ErrMalformedOutput) {
			return fmt.Sprintf(quizApology, topic), nil
		}
		return "", err
	}
	return quiz.FormatQuiz(created), nil
}

func (o *Orchestrator) listQuizzes(ctx context.Context, state *models.UserState) (string, error) {
	quizzes, err := o.quizzes.List(ctx, state.UserID)
	if err != nil {
		return "", err
	}
	return quiz.FormatQuizList(quizzes), nil
}

func (o *Orchestrator) showQuiz(ctx context.Context, state *models.UserState, quizID string) (string, error) {
	found, err := o.quizzes.Get(ctx, state.UserID, quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return fmt.Sprintf(quizNotFoundMessage, quizID), nil
		}
		return "", err
	}
	return quiz.FormatQuiz(found), nil
}

// answerQuiz grades the latest quiz; chat answers never name a quiz id.
func (o *Orchestrator) answerQuiz(ctx context.Context, state *models.UserState, answers []string) (string, error) {
	graded, grade, err := o.quizzes.GradeLatest(ctx, state.UserID, answers)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuizzes) {
			return noQuizToAnswerMessage, nil
		}
		return "", err
	}
	return quiz.FormatGrade(graded, grade), nil
}

func (o *Orchestrator) progress(ctx context.Context, state *models.UserState) (string, error) {
	count, err := o.store.CountQuizzes(ctx, state.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to count quizzes: %w", err)
	}

	results, err := o.store.ListQuizResults(ctx, state.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to list quiz results: %w", err)
	}

	o.emit(ctx, events.KindProgressReported, state.UserID, events.OutcomeOK, map[string]any{
		"streak":  state.Streak,
		"quizzes": count,
	})
	return FormatProgress(state, count, results), nil
}

// FormatProgress renders the user's streak, last topic and quiz history.
// results must be ordered newest first.
func FormatProgress(state *models.UserState, quizCount int, results []*models.QuizResult) string {
	var b strings.Builder

	b.WriteString("Your progress:\n")
	fmt.Fprintf(&b, "- Study streak: %d\n", state.Streak)

	lastTopic := "none yet"
	if state.LastTopic != nil {
		lastTopic = *state.LastTopic
	}
	fmt.Fprintf(&b, "- Last topic: %s\n", lastTopic)
	fmt.Fprintf(&b, "- Last active: %s\n", state.LastActive.UTC().Format("Jan 2, 2006 15:04 UTC"))
	fmt.Fprintf(&b, "- Quizzes created: %d\n", quizCount)

	if len(results) == 0 {
		b.WriteString("- Latest quiz result: no quizzes answered yet")
	} else {
		latest := results[0]
		fmt.Fprintf(&b, "- Latest quiz result: %d/%d (%d%%)", latest.Score, latest.Total, quiz.Percentage(latest.Score, latest.Total))
	}

	return b.String()
}
