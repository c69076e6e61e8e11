package domain

import "time"

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRecord is the persisted whitelist entry for one issued refresh
// token. Only the keyed hash is stored, never the raw token.
type RefreshTokenRecord struct {
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}
