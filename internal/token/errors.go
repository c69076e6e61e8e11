package token

import "errors"

// Decode failure modes. Callers distinguish them with errors.Is to pick the
// right HTTP status.
var (
	// ErrMalformedToken is returned when a token does not have the
	// header.payload.signature shape or a part fails base64/JSON decoding.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned when the recomputed HMAC does not match
	// the token's signature part.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrTokenExpired is returned when the exp claim is in the past.
	ErrTokenExpired = errors.New("token has expired")
)
