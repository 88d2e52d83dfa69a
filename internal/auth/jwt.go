// Package auth handles Google sign-in and the session tokens the API
// issues afterwards.
package auth

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrNoSecret     = errors.New("jwt_secret_not_configured")
)

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenManager(cfg config.Config, clk clock.Clock) (*TokenManager, error) {
	if cfg.AuthJWTSecret == "" {
		return nil, ErrNoSecret
	}
	return &TokenManager{
		secret: []byte(cfg.AuthJWTSecret),
		ttl:    time.Duration(cfg.AuthTokenTTLMin) * time.Minute,
		clock:  clk,
	}, nil
}

type sessionClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue mints a session token for a user.
func (m *TokenManager) Issue(userID snowflake.ID, name string) (string, error) {
	now := m.clock.Now().UTC()
	claims := sessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a session token and returns the user id it was issued
// for.
func (m *TokenManager) Parse(token string) (snowflake.ID, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.clock.Now().UTC() }))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}
	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
