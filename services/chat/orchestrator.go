// Package chat is the single entry point for chat messages: it loads the
// user's state, classifies the message and dispatches it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studybuddy/db"
	"studybuddy/models"
	"studybuddy/services/events"
	"studybuddy/services/intent"
	"studybuddy/services/quiz"
	"studybuddy/services/textgen"
)

// ErrInternal marks a reply produced because persistence failed. The reply is
// still displayable but nothing about saved state can be assumed.
var ErrInternal = errors.New("internal error")

const AnonymousUser = "anonymous"

var (
	summaryOptions = textgen.Options{MaxOutputTokens: 512, Temperature: 0.5}
	generalOptions = textgen.Options{MaxOutputTokens: 400, Temperature: 0.7}
)

type Orchestrator struct {
	store   db.Store
	quizzes *quiz.Service
	gen     textgen.Generator
	events  events.Emitter
	now     func() time.Time
}

func NewOrchestrator(store db.Store, quizzes *quiz.Service, gen textgen.Generator, emitter events.Emitter) *Orchestrator {
	if emitter == nil {
		emitter = events.Nop
	}

	return &Orchestrator{
		store:   store,
		quizzes: quizzes,
		gen:     gen,
		events:  emitter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Chat always returns a reply. The error is non-nil only when the request hit
// a persistence failure or a panic, and then wraps ErrInternal.
func (o *Orchestrator) Chat(ctx context.Context, message, userID string) (reply string, err error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = AnonymousUser
	}

	kind := intent.General
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Recovered panic while handling chat message", "user_id", userID, "intent", kind, "panic", r)
			reply, err = InternalErrorMessage, fmt.Errorf("%w: panic: %v", ErrInternal, r)
			o.emit(ctx, events.KindChatHandled, userID, events.OutcomeInternalError, map[string]any{"intent": string(kind)})
		}
	}()

	if strings.TrimSpace(message) == "" {
		o.emit(ctx, events.KindChatHandled, userID, events.OutcomeRejected, map[string]any{"reason": "empty message"})
		return HelpMessage, nil
	}

	state, err := o.store.EnsureUserState(ctx, userID)
	if err != nil {
		return o.internalError(ctx, userID, kind, err)
	}

	parsed := intent.Parse(message)
	kind = parsed.Kind

	reply, err = o.dispatch(ctx, state, parsed, message)
	if err != nil {
		return o.internalError(ctx, userID, kind, err)
	}

	o.emit(ctx, events.KindChatHandled, userID, events.OutcomeOK, map[string]any{"intent": string(kind)})
	return reply, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, state *models.UserState, in intent.Intent, message string) (string, error) {
	switch in.Kind {
	case intent.Summarize:
		return o.summarize(ctx, state, in.Topic)
	case intent.QuizGenerate:
		return o.generateQuiz(ctx, state, in.Topic)
	case intent.QuizList:
		return o.listQuizzes(ctx, state)
	case intent.QuizShow:
		return o.showQuiz(ctx, state, in.QuizID)
	case intent.QuizAnswer:
		return o.answerQuiz(ctx, state, in.Answers)
	case intent.Progress:
		return o.progress(ctx, state)
	default:
		return o.general(ctx, state, message)
	}
}

func (o *Orchestrator) internalError(ctx context.Context, userID string, kind intent.Kind, err error) (string, error) {
	slog.ErrorContext(ctx, "Failed to handle chat message", "user_id", userID, "intent", kind, "err", err)
	o.emit(ctx, events.KindChatHandled, userID, events.OutcomeInternalError, map[string]any{"intent": string(kind)})
	return InternalErrorMessage, fmt.Errorf("%w: %w", ErrInternal, err)
}

func (o *Orchestrator) emit(ctx context.Context, kind events.Kind, userID string, outcome events.Outcome, attrs map[string]any) {
	o.events.Emit(ctx, events.Event{Kind: kind, UserID: userID, Outcome: outcome, Attrs: attrs})
}

// generate turns a panicking generator or a blank reply into an error so it is
// handled like any other generation failure.
func (o *Orchestrator) generate(ctx context.Context, prompt string, opts textgen.Options) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	text, err = o.gen.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", textgen.ErrEmptyResponse
	}
	return text, nil
}
