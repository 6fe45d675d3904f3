package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Identity  IdentityConfig
	AI        AIConfig
	Storage   StorageConfig
	NATS      NATSConfig
	Diagnosis DiagnosisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// IdentityConfig points at the hosted identity provider REST surface.
// BaseURL is the prefix up to and including "accounts:"; the client appends
// the operation name (signInWithPassword, signUp).
type IdentityConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AIConfig fixes the model and per-call token ceilings; they are never
// user-controlled.
type AIConfig struct {
	APIKey              string
	BaseURL             string
	Model               string
	ScoreMaxTokens      int64
	ComplianceMaxTokens int64
	CompareMaxTokens    int64
	Timeout             time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides the URL prefix for uploaded objects.
	// Empty means derive it from Endpoint and Bucket.
	PublicBaseURL string
}

// NATSConfig is optional: an empty URL disables event publishing.
type NATSConfig struct {
	URL string
}

type DiagnosisConfig struct {
	// RestrictPatternA applies the Free/Guest plan rejection to pattern A
	// scoring as well. Pattern B is always plan-restricted.
	RestrictPatternA bool
	// SessionTTL bounds the Redis session record and the A/B result slots.
	SessionTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	AuthMaxReqs   int
	AuthWindowSec int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		JWT: JWTConfig{
			AccessSecret:  k.String("jwt.access.secret"),
			RefreshSecret: k.String("jwt.refresh.secret"),
		},
		Identity: IdentityConfig{
			APIKey:  k.String("identity.api.key"),
			BaseURL: k.String("identity.base.url"),
		},
		AI: AIConfig{
			APIKey:              k.String("ai.api.key"),
			BaseURL:             k.String("ai.base.url"),
			Model:               k.String("ai.model"),
			ScoreMaxTokens:      int64(k.Int("ai.score.max.tokens")),
			ComplianceMaxTokens: int64(k.Int("ai.compliance.max.tokens")),
			CompareMaxTokens:    int64(k.Int("ai.compare.max.tokens")),
		},
		Storage: StorageConfig{
			Endpoint:      k.String("storage.endpoint"),
			AccessKey:     k.String("storage.access.key"),
			SecretKey:     k.String("storage.secret.key"),
			Bucket:        k.String("storage.bucket"),
			UseSSL:        k.Bool("storage.use.ssl"),
			PublicBaseURL: k.String("storage.public.base.url"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		Diagnosis: DiagnosisConfig{
			RestrictPatternA: k.Bool("diagnosis.restrict.pattern.a"),
		},
		CORS: CORSConfig{
			AllowedOrigins: k.Strings("cors.allowed.origins"),
		},
		RateLimit: RateLimitConfig{
			AuthMaxReqs:   k.Int("ratelimit.auth.max.reqs"),
			AuthWindowSec: k.Int("ratelimit.auth.window.sec"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "banasuko"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "banasuko"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Identity.BaseURL == "" {
		cfg.Identity.BaseURL = "https://identitytoolkit.googleapis.com/v1/accounts:"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o"
	}
	if cfg.AI.ScoreMaxTokens == 0 {
		cfg.AI.ScoreMaxTokens = 600
	}
	if cfg.AI.ComplianceMaxTokens == 0 {
		cfg.AI.ComplianceMaxTokens = 500
	}
	if cfg.AI.CompareMaxTokens == 0 {
		cfg.AI.CompareMaxTokens = 700
	}
	if cfg.RateLimit.AuthMaxReqs == 0 {
		cfg.RateLimit.AuthMaxReqs = 10
	}
	if cfg.RateLimit.AuthWindowSec == 0 {
		cfg.RateLimit.AuthWindowSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	cfg.JWT.AccessExpiry, err = parseDuration(k, "jwt.access.expiry", "15m")
	if err != nil {
		return nil, fmt.Errorf("parsing jwt access expiry: %w", err)
	}
	cfg.JWT.RefreshExpiry, err = parseDuration(k, "jwt.refresh.expiry", "168h")
	if err != nil {
		return nil, fmt.Errorf("parsing jwt refresh expiry: %w", err)
	}
	cfg.Identity.Timeout, err = parseDuration(k, "identity.timeout", "10s")
	if err != nil {
		return nil, fmt.Errorf("parsing identity timeout: %w", err)
	}
	cfg.AI.Timeout, err = parseDuration(k, "ai.timeout", "90s")
	if err != nil {
		return nil, fmt.Errorf("parsing ai timeout: %w", err)
	}
	cfg.Diagnosis.SessionTTL, err = parseDuration(k, "diagnosis.session.ttl", "12h")
	if err != nil {
		return nil, fmt.Errorf("parsing diagnosis session ttl: %w", err)
	}

	return cfg, nil
}

func parseDuration(k *koanf.Koanf, key, fallback string) (time.Duration, error) {
	s := k.String(key)
	if s == "" {
		s = fallback
	}
	return time.ParseDuration(s)
}
