// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleUser   Role = "user"
)

// AdminRoles are the roles allowed to authenticate against the admin API.
var AdminRoles = []Role{RoleAdmin, RoleAuthor}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleUser:
		return true
	}
	return false
}

// User represents an account with authentication and optional TOTP 2FA fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanUseAdminAPI reports whether the user's role grants access to the
// admin API at all. Plain site users cannot log into the dashboard.
func (u *User) CanUseAdminAPI() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuthor
}

// AuthorSnapshot returns the denormalized author value embedded in content
// records at creation time. It intentionally does not track later changes
// to the user's name or role.
func (u *User) AuthorSnapshot() AuthorRef {
	return AuthorRef{ID: u.ID, Name: u.Name, Role: string(u.Role)}
}
