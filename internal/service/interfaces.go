package service

import (
	"context"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error

	// AuthenticateAccessToken verifies a bearer token and returns the
	// authenticated user id. It takes no context because it never leaves the
	// process: access-token validity is signature-based and self-contained.
	AuthenticateAccessToken(tokenString string) (int64, error)

	// AuthenticateAPIKey resolves a static API key to a user id.
	AuthenticateAPIKey(ctx context.Context, apiKey string) (int64, error)
}

// TaskService defines user-scoped task operations
type TaskService interface {
	List(ctx context.Context, userID int64) ([]*domain.Task, error)
	Get(ctx context.Context, id, userID int64) (*domain.Task, error)
	Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*domain.Task, error)
	Update(ctx context.Context, id, userID int64, req *dto.UpdateTaskRequest) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
}
