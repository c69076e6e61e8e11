package service

import "errors"

// Authentication flow errors, mapped to HTTP statuses at the handler boundary.
var (
	// ErrInvalidCredentials covers unknown username and wrong password alike
	// so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid authentication")

	// ErrTokenNotWhitelisted is returned when a refresh token is absent from
	// the server-side whitelist, however valid its signature still is.
	ErrTokenNotWhitelisted = errors.New("invalid token (not in whitelist)")

	// ErrUnknownSubject is returned when a refresh token's subject no longer
	// resolves to a user.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrInvalidAPIKey is returned when an API key matches no user.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// ValidationError carries field-level validation failures for a 422 response
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0]
}
