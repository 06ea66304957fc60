// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/store"
)

// Users holds the admin-only account management handlers.
type Users struct {
	users *store.UserStore
}

// NewUsers creates a Users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// List returns accounts, optionally filtered by role and active flag.
// GET /api/admin/users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	role := models.Role(q.Get("role"))
	if role != "" && !models.ValidRole(role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	var isActive *bool
	switch q.Get("isActive") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}

	users, err := h.users.List(role, isActive)
	if err != nil {
		slog.Error("user list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createUserPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Create registers a new account. POST /api/admin/users.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var payload createUserPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var missing []string
	if strings.TrimSpace(payload.Email) == "" {
		missing = append(missing, "email")
	}
	if payload.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(payload.Name) == "" {
		missing = append(missing, "name")
	}
	if payload.Role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		respondValidation(w, missing)
		return
	}

	if len(payload.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	role := models.Role(payload.Role)
	if !models.ValidRole(role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.users.Create(
		strings.TrimSpace(payload.Email), payload.Password,
		strings.TrimSpace(payload.Name), role)
	if err != nil {
		// The store wraps unique violations in a readable message.
		if strings.Contains(err.Error(), "already registered") {
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		slog.Error("user create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user created", "email", user.Email, "role", user.Role)
	respondJSON(w, http.StatusCreated, user)
}

// Get returns one account. GET /api/admin/users/{id}.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.findByParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type updateUserPayload struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
}

// Update changes an account's name, role, active flag or password.
// PUT /api/admin/users/{id}.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.findByParam(w, r)
	if !ok {
		return
	}

	var payload updateUserPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := user.Name
	if payload.Name != nil {
		name = strings.TrimSpace(*payload.Name)
		if name == "" {
			respondValidation(w, []string{"name"})
			return
		}
	}

	role := user.Role
	if payload.Role != nil {
		role = models.Role(*payload.Role)
		if !models.ValidRole(role) {
			respondError(w, http.StatusBadRequest, "Invalid role")
			return
		}
	}

	isActive := user.IsActive
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	// The whole payload is validated before anything is written, so a bad
	// password cannot leave the other fields half-applied.
	if payload.Password != nil && len(*payload.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	updated, err := h.users.Update(user.ID, name, role, isActive)
	if err != nil {
		slog.Error("user update failed", "id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	if payload.Password != nil {
		if err := h.users.SetPassword(user.ID, *payload.Password); err != nil {
			slog.Error("user password update failed", "id", user.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes an account. Deleting your own account is refused.
// DELETE /api/admin/users/{id}.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.findByParam(w, r)
	if !ok {
		return
	}

	caller := middleware.UserFromCtx(r.Context())
	if caller != nil && caller.ID == user.ID {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.users.Delete(user.ID); err != nil {
		slog.Error("user delete failed", "id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user deleted", "id", user.ID, "by", caller.Email)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Users) findByParam(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return nil, false
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		slog.Error("user lookup failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return user, true
}
