package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "banasuko",
			Password: "secret", Name: "banasuko", SSLMode: "disable", MaxConns: 25,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		JWT: JWTConfig{
			AccessSecret:  "access-secret-that-is-at-least-32-chars!",
			RefreshSecret: "refresh-secret-that-is-at-least-32-chr!",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
		},
		Identity: IdentityConfig{
			APIKey:  "web-api-key",
			BaseURL: "https://identitytoolkit.googleapis.com/v1/accounts:",
			Timeout: 10 * time.Second,
		},
		AI: AIConfig{APIKey: "sk-test", Model: "gpt-4o", Timeout: 90 * time.Second},
		Storage: StorageConfig{
			Endpoint:  "storage.example.com",
			AccessKey: "access",
			SecretKey: "secret",
			Bucket:    "banasuko-images",
		},
		Diagnosis: DiagnosisConfig{SessionTTL: 12 * time.Hour},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingIdentityKey(t *testing.T) {
	cfg := validConfig()
	cfg.Identity.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "IDENTITY_API_KEY") {
		t.Fatalf("expected IDENTITY_API_KEY error, got: %v", err)
	}
}

func TestValidate_MissingAIKey(t *testing.T) {
	cfg := validConfig()
	cfg.AI.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "AI_API_KEY") {
		t.Fatalf("expected AI_API_KEY error, got: %v", err)
	}
}

func TestValidate_MissingStorageBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Bucket = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "STORAGE_BUCKET") {
		t.Fatalf("expected STORAGE_BUCKET error, got: %v", err)
	}
}

func TestValidate_JWTAccessSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "short"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_ACCESS_SECRET") {
		t.Fatalf("expected JWT_ACCESS_SECRET error, got: %v", err)
	}
}

func TestValidate_JWTSecretsMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "the-same-secret-that-is-at-least-32-chars!"
	cfg.JWT.RefreshSecret = "the-same-secret-that-is-at-least-32-chars!"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected 'must differ' error, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Identity.APIKey = ""
	cfg.AI.APIKey = ""
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"IDENTITY_API_KEY", "AI_API_KEY", "DB_PASSWORD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestValidate_BadServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Fatalf("expected SERVER_PORT error, got: %v", err)
	}
}
