// Package token implements the HS256 token codec used for access and refresh
// tokens: header.payload.signature, each part unpadded URL-safe base64.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const headerJSON = `{"typ":"JWT","alg":"HS256"}`

// Codec signs and verifies tokens with a single symmetric secret. It holds no
// other state.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		now:    time.Now,
	}
}

// Encode serializes the claims and signs them.
func (c *Codec) Encode(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString([]byte(headerJSON)) +
		"." +
		base64.RawURLEncoding.EncodeToString(payload)

	signature := c.sign(signingInput)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// Decode verifies a token string and returns its claims. Failures are
// reported as ErrMalformedToken, ErrInvalidSignature or ErrTokenExpired.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Claims{}, fmt.Errorf("token is not three dot-separated parts: %w", ErrMalformedToken)
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Claims{}, fmt.Errorf("header is not valid base64url: %w", ErrMalformedToken)
	}

	var header struct {
		Typ string `json:"typ"`
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return Claims{}, fmt.Errorf("header is not valid JSON: %w", ErrMalformedToken)
	}
	if header.Typ != "JWT" || header.Alg != "HS256" {
		return Claims{}, fmt.Errorf("unexpected header %q/%q: %w", header.Typ, header.Alg, ErrMalformedToken)
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("payload is not valid base64url: %w", ErrMalformedToken)
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("signature is not valid base64url: %w", ErrInvalidSignature)
	}

	// hmac.Equal compares in constant time; a short-circuiting comparison
	// would leak how many leading bytes matched.
	if !hmac.Equal(c.sign(parts[0]+"."+parts[1]), signature) {
		return Claims{}, fmt.Errorf("signature does not match: %w", ErrInvalidSignature)
	}

	var claims Claims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return Claims{}, fmt.Errorf("invalid payload: %v: %w", err, ErrMalformedToken)
	}

	if claims.ExpiresAt < c.now().Unix() {
		return Claims{}, fmt.Errorf("token expired at %d: %w", claims.ExpiresAt, ErrTokenExpired)
	}

	return claims, nil
}

func (c *Codec) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}
