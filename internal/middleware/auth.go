// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"studiosite/internal/models"
	"studiosite/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// UserFinder is the slice of the user store the authenticator needs.
type UserFinder interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Authenticator verifies the bearer token and re-fetches the user from the
// database on every request, so a deleted or deactivated account loses
// access immediately regardless of token lifetime.
//
// A missing or invalid token and a deleted account both produce 401.
// A deactivated account produces 403.
func Authenticator(codec *token.Codec, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(claims.UserID)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if user == nil {
				// Token outlived the account.
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if !user.IsActive {
				writeJSONError(w, http.StatusForbidden, "Account is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRoles returns 403 unless the authenticated user holds one of the
// given roles. Must be applied after Authenticator.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "Access denied")
		})
	}
}

// WithUser returns a context carrying the authenticated user, as if the
// request had passed through Authenticator.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if the request did not pass through Authenticator.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// writeJSONError writes an error response without importing the handlers
// package, which sits above the middleware in the dependency graph.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
