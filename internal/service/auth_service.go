package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/repository"
	"github.com/imartins/task-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService interface
type authService struct {
	userRepo           repository.UserRepository
	tokenRepo          repository.TokenRepository
	codec              *token.Codec
	bcryptCost         int
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	codec *token.Codec,
	bcryptCost int,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		tokenRepo:          tokenRepo,
		codec:              codec,
		bcryptCost:         bcryptCost,
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Register creates a new user with a hashed password and a fresh API key
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		APIKey:       strings.ReplaceAll(uuid.New().String(), "-", ""),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies a username/password pair and issues a token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same outcome as a wrong password: no username enumeration
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented token must carry a valid
// signature and expiry, be present in the whitelist, and name a user that
// still exists. The old record is deleted before the new pair is created, so
// a failure in between forces a re-login instead of leaving a replayable
// token behind.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	record, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotWhitelisted
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	// The stored expiry mirrors the exp claim; re-checking it keeps a lagging
	// sweep from mattering.
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrTokenNotWhitelisted
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if _, err := s.tokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes a refresh token. The token must decode cleanly; nothing is
// deleted on malformed input.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.codec.Decode(refreshToken); err != nil {
		return err
	}

	if _, err := s.tokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// AuthenticateAccessToken verifies an access token and extracts the subject.
// Access tokens are never stored server-side, so this never touches the
// whitelist.
func (s *authService) AuthenticateAccessToken(tokenString string) (int64, error) {
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return 0, err
	}

	return claims.Subject, nil
}

// AuthenticateAPIKey resolves an API key to a user id by exact match
func (s *authService) AuthenticateAPIKey(ctx context.Context, apiKey string) (int64, error) {
	user, err := s.userRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrInvalidAPIKey
		}
		return 0, fmt.Errorf("failed to get user by api key: %w", err)
	}

	return user.ID, nil
}

// issueTokenPair mints an access token and a refresh token for the user and
// whitelists the refresh token. Access tokens carry sub and username; refresh
// tokens carry only sub.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.codec.Encode(token.Claims{
		Subject:   user.ID,
		Username:  user.Username,
		ExpiresAt: now.Add(s.accessTokenExpiry).Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshExpiresAt := now.Add(s.refreshTokenExpiry)

	refreshToken, err := s.codec.Encode(token.Claims{
		Subject:   user.ID,
		ExpiresAt: refreshExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, refreshToken, refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
