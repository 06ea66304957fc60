// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"studiosite/internal/middleware"
	"studiosite/internal/store"
	"studiosite/internal/token"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "studiosite"

// Auth groups login, token context and 2FA management handlers.
type Auth struct {
	codec *token.Codec
	users *store.UserStore
}

// NewAuth creates an Auth handler group.
func NewAuth(codec *token.Codec, users *store.UserStore) *Auth {
	return &Auth{codec: codec, users: users}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login authenticates with email/password (and a TOTP code when the
// account has 2FA enabled) and issues a bearer token.
// POST /api/admin/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
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
	if len(missing) > 0 {
		respondValidation(w, missing)
		return
	}

	user, err := a.users.FindByEmail(payload.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Same response for unknown email and wrong password.
	if user == nil || !a.users.CheckPassword(user, payload.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusForbidden, "Account is inactive")
		return
	}

	// Plain site users never get an admin token.
	if !user.CanUseAdminAPI() {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	if user.TOTPEnabled {
		if payload.Code == "" {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"message":           "Two-factor code required",
				"twoFactorRequired": true,
			})
			return
		}
		if user.TOTPSecret == nil || !totp.Validate(payload.Code, *user.TOTPSecret) {
			respondError(w, http.StatusUnauthorized, "Invalid two-factor code")
			return
		}
	}

	signed, err := a.codec.Sign(user, token.LoginTTL)
	if err != nil {
		slog.Error("token sign failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("login", "user", user.Email, "role", user.Role)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": signed,
		"user":  user,
	})
}

// Context confirms the token is still good and returns the live user
// record. The Authenticator middleware already re-fetched the user.
// GET /api/admin/context.
func (a *Auth) Context(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  user,
	})
}

// TwoFASetup generates a fresh TOTP secret for the caller and returns it
// with a QR code for authenticator apps. The secret is stored but 2FA
// stays off until the first code is verified via TwoFAEnable.
// POST /api/admin/2fa/setup.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := a.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAPayload struct {
	Code string `json:"code"`
}

// TwoFAEnable verifies the first code against the stored secret and turns
// 2FA on. POST /api/admin/2fa/enable.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var payload twoFAPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Code == "" {
		respondValidation(w, []string{"code"})
		return
	}

	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "Two-factor setup has not been started")
		return
	}
	if !totp.Validate(payload.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "Invalid two-factor code")
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("2fa enabled", "user", user.Email)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication enabled"})
}

// TwoFADisable verifies a current code and turns 2FA off, clearing the
// secret. POST /api/admin/2fa/disable.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var payload twoFAPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !user.TOTPEnabled || user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		return
	}
	if !totp.Validate(payload.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "Invalid two-factor code")
		return
	}

	if err := a.users.ResetTOTP(user.ID); err != nil {
		slog.Error("reset totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("2fa disabled", "user", user.Email)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication disabled"})
}

type profilePayload struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UpdateProfile lets the caller change their own name and password.
// PUT /api/admin/profile.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var payload profilePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			respondValidation(w, []string{"name"})
			return
		}
		updated, err := a.users.Update(user.ID, name, user.Role, user.IsActive)
		if err != nil {
			slog.Error("profile update failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		user = updated
	}

	if payload.Password != nil {
		if len(*payload.Password) < 8 {
			respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		if err := a.users.SetPassword(user.ID, *payload.Password); err != nil {
			slog.Error("password update failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	respondJSON(w, http.StatusOK, user)
}
