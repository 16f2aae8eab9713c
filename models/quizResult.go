package models

import "time"

type QuizResult struct {
	ID        string    `json:"id" db:"id"`
	QuizID    string    `json:"quiz_id" db:"quiz_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Answers   []string  `json:"answers" db:"answers"`
	Score     int       `json:"score" db:"score"`
	Total     int       `json:"total" db:"total"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type QuestionMark struct {
	QuestionID    string `json:"question_id"`
	Given         string `json:"given"`
	CorrectLetter string `json:"correct_letter,omitempty"`
	Correct       bool   `json:"correct"`
}

type GradeResult struct {
	Result     *QuizResult    `json:"result"`
	Percentage int            `json:"percentage"`
	Marks      []QuestionMark `json:"marks"`
	Streak     int            `json:"streak"`
}
