package repository

import (
	"context"
	"time"

	"github.com/imartins/task-api/internal/domain"
)

// UserRepository defines methods for user lookups and registration
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// TokenRepository is the refresh-token whitelist. Implementations store a
// keyed hash of the raw token, never the token itself.
type TokenRepository interface {
	Create(ctx context.Context, rawToken string, expiresAt time.Time) error
	GetByToken(ctx context.Context, rawToken string) (*domain.RefreshTokenRecord, error)
	DeleteByToken(ctx context.Context, rawToken string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// TaskUpdate carries a partial task update; nil fields are left unchanged
type TaskUpdate struct {
	Name        *string
	Priority    *int
	IsCompleted *bool
}

// TaskRepository defines user-scoped task operations
type TaskRepository interface {
	GetAllForUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	GetForUser(ctx context.Context, id, userID int64) (*domain.Task, error)
	CreateForUser(ctx context.Context, task *domain.Task) error
	UpdateForUser(ctx context.Context, id, userID int64, update TaskUpdate) (int64, error)
	DeleteForUser(ctx context.Context, id, userID int64) (int64, error)
}
