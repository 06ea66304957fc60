// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration from environment variables
// into a single Config struct shared across the application. A local .env
// file is honoured in development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// Authentication
	JWTSecret string `env:"JWT_SECRET"`

	// Origin allowed to call the API from a browser. The public site runs
	// on its own domain; "*" is for development only.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"studiosite"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"studiosite"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// SMTP — optional; contact-form notifications are skipped when unset.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
	MailAdminTo  string `env:"MAIL_ADMIN_TO"`
	MailCompany  string `env:"MAIL_COMPANY_NAME" envDefault:"Vlah Software House"`

	// S3-compatible object storage — optional; uploads fall back to local disk.
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"eu-central-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"studiosite-public"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Local upload fallback directory.
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./uploads"`
}

// minJWTSecretLength is the minimum accepted HMAC secret length in bytes.
const minJWTSecretLength = 32

// Load reads configuration from the environment (and .env when present),
// applying defaults for development. Returns an error if critical values
// are missing or weak in production mode.
func Load() (*Config, error) {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	if cfg.Env == "production" {
		if len(cfg.JWTSecret) < minJWTSecretLength {
			return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minJWTSecretLength)
		}
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SMTPConfigured reports whether enough SMTP settings are present to
// attempt email delivery.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

// S3Configured reports whether object storage credentials are present.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
