package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/pkg/database"
	"github.com/lib/pq"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, username, password_hash, api_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		user.Name,
		user.Username,
		user.PasswordHash,
		user.APIKey,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		// Check for unique constraint violation (duplicate username)
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("user with username %s already exists: %w", user.Username, ErrDuplicateUsername)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, name, username, password_hash, api_key, created_at
		FROM users
		WHERE username = $1
	`

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, username), "username "+username)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, username, password_hash, api_key, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, id), fmt.Sprintf("id %d", id))
}

// GetByAPIKey retrieves a user by API key
func (r *userRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	query := `
		SELECT id, name, username, password_hash, api_key, created_at
		FROM users
		WHERE api_key = $1
	`

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, apiKey), "api key")
}

func (r *userRepository) scanUser(row *sql.Row, desc string) (*domain.User, error) {
	user := &domain.User{}
	var apiKey sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.PasswordHash,
		&apiKey,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with %s not found: %w", desc, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", desc, err)
	}

	if apiKey.Valid {
		user.APIKey = apiKey.String
	}

	return user, nil
}
