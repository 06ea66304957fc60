package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"studiosite/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "ana@studio.test",
		Role:     models.RoleAuthor,
		IsActive: true,
	}
}

func TestSignAndVerify(t *testing.T) {
	codec := NewCodec("test-secret")
	user := testUser()

	raw, err := codec.Sign(user, LoginTTL)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("user id: got %s, want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email: got %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != models.RoleAuthor {
		t.Errorf("role: got %q, want %q", claims.Role, models.RoleAuthor)
	}
	if !claims.IsActive {
		t.Error("expected active claim")
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec("test-secret")

	raw, err := codec.Sign(testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewCodec("secret-a").Sign(testUser(), LoginTTL)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewCodec("secret-b").Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, raw := range []string{"", "garbage", "a.b.c", "header.payload"} {
		if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	codec := NewCodec("test-secret")

	raw, err := codec.Sign(testUser(), LoginTTL)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}
