package models

import "time"

// UserState is the per-user study record. A user without a stored row is a
// fresh user with a streak of zero.
type UserState struct {
	UserID     string    `json:"user_id" db:"user_id"`
	Streak     int       `json:"streak" db:"streak"`
	LastTopic  *string   `json:"last_topic,omitempty" db:"last_topic"`
	LastActive time.Time `json:"last_active" db:"last_active"`
}

func NewUserState(userID string, now time.Time) *UserState {
	return &UserState{
		UserID:     userID,
		Streak:     0,
		LastActive: now,
	}
}
