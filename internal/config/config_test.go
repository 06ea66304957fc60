package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "testing")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("host: got %q, want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != "8080" {
		t.Errorf("port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBName != "studiosite" {
		t.Errorf("db name: got %q, want %q", cfg.DBName, "studiosite")
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("smtp port: got %d, want 587", cfg.SMTPPort)
	}
}

func TestLoadMissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "testing")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoadProductionRejectsWeakSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("POSTGRES_PASSWORD", "real-password")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short secret in production")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error should mention JWT_SECRET, got: %v", err)
	}
}

func TestLoadProductionRejectsDefaultDBPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))
	t.Setenv("POSTGRES_PASSWORD", "changeme")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default DB password in production")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q, want %q", got, "127.0.0.1:9000")
	}
}

func TestSMTPConfigured(t *testing.T) {
	cfg := &Config{}
	if cfg.SMTPConfigured() {
		t.Error("expected SMTPConfigured false with empty settings")
	}
	cfg.SMTPHost = "smtp.example.com"
	cfg.MailFrom = "noreply@example.com"
	if !cfg.SMTPConfigured() {
		t.Error("expected SMTPConfigured true")
	}
}

func TestS3Configured(t *testing.T) {
	cfg := &Config{S3Endpoint: "https://s3.example.com"}
	if cfg.S3Configured() {
		t.Error("expected S3Configured false without credentials")
	}
	cfg.S3AccessKey = "key"
	cfg.S3SecretKey = "secret"
	if !cfg.S3Configured() {
		t.Error("expected S3Configured true")
	}
}
