// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token signs and verifies the compact bearer credentials used by
// the admin API. Tokens are HS256 JWTs carrying the user's identity and a
// snapshot of their role/active flag; authorization decisions beyond
// identity re-check the user record in storage on every request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"studiosite/internal/models"
)

// LoginTTL is how long a login-issued token stays valid.
const LoginTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// expired, bad signature, wrong algorithm, or malformed claims. Callers
// never see partial claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by a signed token.
type Claims struct {
	UserID   uuid.UUID   `json:"sub"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"active"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a server-held secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a token codec for the given signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign issues a token for the user with the given time-to-live.
func (c *Codec) Sign(user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. It fails whole — any problem with
// expiry, signature or structure yields ErrInvalidToken, never a partially
// populated Claims.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		// Only the method we sign with is acceptable.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
