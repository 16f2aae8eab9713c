// Package events carries structured records of what the assistant did for a
// user. They are the observability surface of the chat and quiz services.
package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type Kind string

const (
	KindChatHandled      Kind = "chat.handled"
	KindQuizGenerated    Kind = "quiz.generated"
	KindQuizListed       Kind = "quiz.listed"
	KindQuizShown        Kind = "quiz.shown"
	KindQuizGraded       Kind = "quiz.graded"
	KindSummaryGenerated Kind = "summary.generated"
	KindProgressReported Kind = "progress.reported"
	KindGeneralReplied   Kind = "general.replied"
)

type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeGenerationFailed Outcome = "generation_failed"
	OutcomeMalformedOutput  Outcome = "malformed_output"
	OutcomeInternalError    Outcome = "internal_error"
	OutcomeRejected         Outcome = "rejected"
)

type Event struct {
	Kind    Kind
	UserID  string
	Outcome Outcome
	Attrs   map[string]any
}

type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Nop drops every event.
var Nop Emitter = nopEmitter{}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, Event) {}

// SlogEmitter writes events as log lines. Internal errors log at Error, other
// failures at Warn.
type SlogEmitter struct {
	logger *slog.Logger
}

func NewSlogEmitter(logger *slog.Logger) *SlogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEmitter{logger: logger}
}

func (s *SlogEmitter) Emit(ctx context.Context, e Event) {
	level := slog.LevelInfo
	switch e.Outcome {
	case OutcomeOK:
	case OutcomeInternalError:
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("user_id", e.UserID),
		slog.String("outcome", string(e.Outcome)),
	}

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Attrs[k]))
	}

	s.logger.LogAttrs(ctx, level, string(e.Kind), attrs...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Last returns the most recent event of the given kind.
func (r *Recorder) Last(kind Kind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}
