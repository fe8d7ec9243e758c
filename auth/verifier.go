package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingSecret is returned when a verifier is constructed without a secret
	ErrMissingSecret = errors.New("signing secret is required")
)

// Claims represents the claims carried in an access token.
// The user-management service signs tokens with the user's ID
// under the "id" claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// ParsedClaims represents parsed and validated claims
type ParsedClaims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier validates HS256 access tokens against a shared secret.
// The secret is injected at construction rather than read from the
// environment so tests and callers control it explicitly.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a new token verifier for the given signing secret
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify validates a token string and returns parsed claims
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*ParsedClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or malformed id claim", ErrInvalidToken)
	}

	parsed := &ParsedClaims{
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}

	return parsed, nil
}
