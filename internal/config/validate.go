package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks Config for fatal startup problems. Absence of any required
// external credential (identity API key, AI API key, storage credentials and
// bucket) is a fatal condition. All errors are collected into a single joined
// error so operators see the full list at once.
func (c *Config) Validate() error {
	var errs []string

	// External SaaS credentials — all required at process start
	if c.Identity.APIKey == "" {
		errs = append(errs, "IDENTITY_API_KEY is required")
	}
	if c.AI.APIKey == "" {
		errs = append(errs, "AI_API_KEY is required")
	}
	if c.Storage.Endpoint == "" {
		errs = append(errs, "STORAGE_ENDPOINT is required")
	}
	if c.Storage.AccessKey == "" {
		errs = append(errs, "STORAGE_ACCESS_KEY is required")
	}
	if c.Storage.SecretKey == "" {
		errs = append(errs, "STORAGE_SECRET_KEY is required")
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, "STORAGE_BUCKET is required")
	}

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if c.Diagnosis.SessionTTL <= 0 {
		errs = append(errs, "DIAGNOSIS_SESSION_TTL must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
