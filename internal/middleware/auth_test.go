package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"studiosite/internal/models"
	"studiosite/internal/token"
)

// fakeUserFinder serves canned users keyed by ID, simulating the user
// store without a database.
type fakeUserFinder struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (f *fakeUserFinder) FindByID(id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func testUser(active bool, role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Name:     "Test User",
		Role:     role,
		IsActive: active,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func testCodec(t *testing.T) *token.Codec {
	t.Helper()
	return token.NewCodec("test-secret-with-enough-length-xx")
}

func authedRequest(t *testing.T, codec *token.Codec, user *models.User) *http.Request {
	t.Helper()
	tok, err := codec.Sign(user, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["message"]
}

func TestAuthenticatorNoToken(t *testing.T) {
	codec := testCodec(t)
	next, called := okHandler()
	h := Authenticator(codec, &fakeUserFinder{})(next)

	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run without a token")
	}
}

func TestAuthenticatorInvalidToken(t *testing.T) {
	codec := testCodec(t)
	next, called := okHandler()
	h := Authenticator(codec, &fakeUserFinder{})(next)

	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run with an invalid token")
	}
}

func TestAuthenticatorDeletedUser(t *testing.T) {
	codec := testCodec(t)
	user := testUser(true, models.RoleAdmin)

	// Token is valid but the account is gone.
	finder := &fakeUserFinder{users: map[uuid.UUID]*models.User{}}
	next, called := okHandler()
	h := Authenticator(codec, finder)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t, codec, user))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run for a deleted account")
	}
}

func TestAuthenticatorInactiveUser(t *testing.T) {
	codec := testCodec(t)
	user := testUser(false, models.RoleAdmin)

	finder := &fakeUserFinder{users: map[uuid.UUID]*models.User{user.ID: user}}
	next, called := okHandler()
	h := Authenticator(codec, finder)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t, codec, user))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if msg := responseMessage(t, rec); msg != "Account is inactive" {
		t.Errorf("message: got %q, want %q", msg, "Account is inactive")
	}
	if *called {
		t.Error("handler must not run for an inactive account")
	}
}

func TestAuthenticatorStoreError(t *testing.T) {
	codec := testCodec(t)
	user := testUser(true, models.RoleAdmin)

	finder := &fakeUserFinder{err: errors.New("db down")}
	next, called := okHandler()
	h := Authenticator(codec, finder)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t, codec, user))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if *called {
		t.Error("handler must not run when the user lookup fails")
	}
}

func TestAuthenticatorSuccess(t *testing.T) {
	codec := testCodec(t)
	user := testUser(true, models.RoleAuthor)

	finder := &fakeUserFinder{users: map[uuid.UUID]*models.User{user.ID: user}}

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Authenticator(codec, finder)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t, codec, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if seen == nil {
		t.Fatal("expected user in request context")
	}
	if seen.ID != user.ID {
		t.Errorf("context user: got %s, want %s", seen.ID, user.ID)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		userRole   models.Role
		allowed    []models.Role
		wantStatus int
	}{
		{"admin passes admin check", models.RoleAdmin, []models.Role{models.RoleAdmin}, http.StatusOK},
		{"author fails admin check", models.RoleAuthor, []models.Role{models.RoleAdmin}, http.StatusForbidden},
		{"author passes admin-or-author check", models.RoleAuthor, []models.Role{models.RoleAdmin, models.RoleAuthor}, http.StatusOK},
		{"plain user fails admin-or-author check", models.RoleUser, []models.Role{models.RoleAdmin, models.RoleAuthor}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser(true, tt.userRole)
			next, _ := okHandler()
			h := RequireRoles(tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			req = req.WithContext(context.WithValue(req.Context(), userKey, user))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRolesNoUser(t *testing.T) {
	next, called := okHandler()
	h := RequireRoles(models.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run without an authenticated user")
	}
}

func TestUserFromCtx(t *testing.T) {
	t.Run("returns user when present", func(t *testing.T) {
		user := testUser(true, models.RoleAdmin)
		ctx := context.WithValue(context.Background(), userKey, user)
		if got := UserFromCtx(ctx); got == nil || got.ID != user.ID {
			t.Error("expected the stored user back")
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := UserFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), userKey, "not-a-user")
		if got := UserFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(req); got != tt.want {
				t.Errorf("bearerToken: got %q, want %q", got, tt.want)
			}
		})
	}
}
