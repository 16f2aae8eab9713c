package models

import "time"

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Options       []string `json:"options,omitempty"`
}

type Quiz struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Topic     string     `json:"topic" db:"topic"`
	Questions []Question `json:"questions" db:"questions"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// QuizSummary is the listing view of a quiz. Correct answers are never part of it.
type QuizSummary struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Topic:         q.Topic,
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}

// WithoutAnswers returns a copy safe to show before grading.
func (q *Quiz) WithoutAnswers() *Quiz {
	c := *q
	c.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectAnswer = ""
		c.Questions[i] = question
	}
	return &c
}

type CreateQuizRequest struct {
	Topic string `json:"topic"`
}

type SubmitAnswersRequest struct {
	Answers []string `json:"answers"`
}
