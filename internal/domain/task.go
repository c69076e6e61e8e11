package domain

import "time"

// Task represents a task owned by a single user. Priority is nullable.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"-" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Priority    *int      `json:"priority" db:"priority"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
