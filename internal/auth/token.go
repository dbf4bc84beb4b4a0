package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/admarket/admarket/internal/apperr"
)

// Claims is the session claim set carried in the token cookie.
type Claims struct {
	Role     string `json:"role"`
	FullRole string `json:"full_role"`
	Email    string `json:"email"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens. Every
// authenticated request re-issues a fresh token, sliding the expiry.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a token service signing with key and issuing
// tokens valid for ttl.
func NewTokenService(key string, ttl time.Duration) (*TokenService, error) {
	if key == "" {
		return nil, fmt.Errorf("token signing key must not be empty")
	}
	return &TokenService{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// Issue serializes claims plus an absolute expiry into a signed token.
func (s *TokenService) Issue(claims Claims) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(s.now().Add(s.ttl))
	claims.IssuedAt = jwt.NewNumericDate(s.now())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, distinguishing expiry from any
// other validation failure.
func (s *TokenService) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperr.New(apperr.CodeExpired, "Token has expired")
		}
		return Claims{}, apperr.New(apperr.CodeUnauthorized, "Please login to continue")
	}
	return claims, nil
}
