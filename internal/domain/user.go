package domain

import "time"

// User represents an account in the system.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	APIKey       string    `json:"-" db:"api_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
