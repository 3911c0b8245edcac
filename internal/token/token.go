// Package token issues and verifies the platform's stateless session tokens.
// A token is a signed HS256 JWT carrying only the subject account id and its
// validity window; there is no server-side session table, so logout is a
// client-side discard.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/campwire/community-core/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL matches the platform's 7-day session lifetime.
	DefaultTTL = 7 * 24 * time.Hour

	// Leeway absorbs clock skew between issuing and verifying hosts. The
	// boundary is otherwise exact: a token is rejected once now >= exp.
	Leeway = 60 * time.Second
)

type Service struct {
	key []byte
	ttl time.Duration
}

func NewService(key []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{key: key, ttl: ttl}
}

// Issue signs a session token for the given account.
func (s *Service) Issue(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject account id.
// Failures map to domain.ErrTokenMalformed, domain.ErrSignatureInvalid or
// domain.ErrTokenExpired; callers at the transport boundary collapse all
// three into a single 401.
func (s *Service) Verify(raw string) (string, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(Leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", domain.ErrSignatureInvalid
		default:
			return "", domain.ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", domain.ErrTokenMalformed
	}
	return sub, nil
}
