package repository

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/pkg/database"
	"github.com/lib/pq"
)

// tokenRepository implements TokenRepository. Raw tokens are hashed with a
// keyed HMAC before touching the database, so a leaked table exposes no
// usable tokens.
type tokenRepository struct {
	db      *database.Postgres
	hashKey []byte
}

// NewTokenRepository creates a new refresh-token repository hashing with the
// given key
func NewTokenRepository(db *database.Postgres, hashKey []byte) TokenRepository {
	return &tokenRepository{db: db, hashKey: hashKey}
}

// Create whitelists a refresh token until its expiry
func (r *tokenRepository) Create(ctx context.Context, rawToken string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, expires_at)
		VALUES ($1, $2)
	`

	_, err := r.db.DB.ExecContext(ctx, query, r.hashToken(rawToken), expiresAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("refresh token already whitelisted: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// GetByToken looks a refresh token up in the whitelist
func (r *tokenRepository) GetByToken(ctx context.Context, rawToken string) (*domain.RefreshTokenRecord, error) {
	query := `
		SELECT token_hash, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	record := &domain.RefreshTokenRecord{}
	err := r.db.DB.QueryRowContext(ctx, query, r.hashToken(rawToken)).Scan(
		&record.TokenHash,
		&record.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token not whitelisted: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return record, nil
}

// DeleteByToken revokes a refresh token and reports how many records were
// removed. Zero is not an error: logout deletes regardless of token state.
func (r *tokenRepository) DeleteByToken(ctx context.Context, rawToken string) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`

	result, err := r.db.DB.ExecContext(ctx, query, r.hashToken(rawToken))
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteExpired removes every whitelist record past its expiry. Intended for
// the periodic sweep, not request handling.
func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`

	result, err := r.db.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *tokenRepository) hashToken(rawToken string) string {
	mac := hmac.New(sha256.New, r.hashKey)
	mac.Write([]byte(rawToken))
	return hex.EncodeToString(mac.Sum(nil))
}
