package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rasuta1125/banasukoAI/internal/ai"
	"github.com/rasuta1125/banasukoAI/internal/api"
	"github.com/rasuta1125/banasukoAI/internal/auth"
	"github.com/rasuta1125/banasukoAI/internal/config"
	"github.com/rasuta1125/banasukoAI/internal/copygen"
	"github.com/rasuta1125/banasukoAI/internal/database"
	"github.com/rasuta1125/banasukoAI/internal/diagnosis"
	"github.com/rasuta1125/banasukoAI/internal/events"
	"github.com/rasuta1125/banasukoAI/internal/identity"
	mw "github.com/rasuta1125/banasukoAI/internal/middleware"
	"github.com/rasuta1125/banasukoAI/internal/quota"
	iredis "github.com/rasuta1125/banasukoAI/internal/redis"
	"github.com/rasuta1125/banasukoAI/internal/server"
	"github.com/rasuta1125/banasukoAI/internal/session"
	"github.com/rasuta1125/banasukoAI/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Object storage
	uploader, err := storage.NewUploader(cfg.Storage)
	if err != nil {
		slog.Error("creating storage client", "error", err)
		os.Exit(1)
	}
	if err := storage.EnsureBucket(ctx, uploader); err != nil {
		slog.Error("ensuring storage bucket", "error", err)
		os.Exit(1)
	}

	// NATS (optional)
	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		natsClient, err := events.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		publisher = events.NewPublisher(natsClient)
	}

	// Auth and session
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authSvc := auth.NewService(jwtManager, redisClient)
	idpClient := identity.NewClient(cfg.Identity)
	sessionStore := session.NewStore(redisClient, cfg.Diagnosis.SessionTTL)

	// Quota ledger
	quotaRepo := quota.NewRepository(pool)
	quotaSvc := quota.NewService(quotaRepo)

	// AI
	aiClient := ai.NewClient(cfg.AI)

	// Diagnosis pipeline
	slotStore := diagnosis.NewSlotStore(redisClient, cfg.Diagnosis.SessionTTL)
	diagRepo := diagnosis.NewRepository(pool)
	diagSvc := diagnosis.NewService(diagRepo, slotStore, quotaSvc, sessionStore,
		uploader, aiClient, publisher, cfg.Diagnosis.RestrictPatternA)
	diagHandler := diagnosis.NewHandler(diagSvc, sessionStore, quotaSvc)

	// Copy generation
	copySvc := copygen.NewService(aiClient)
	copyHandler := copygen.NewHandler(copySvc, sessionStore, quotaSvc)

	authHandler := auth.NewHandler(authSvc, idpClient, quotaSvc, sessionStore, slotStore)

	// Rate limiting on the auth endpoints
	rateLimiter := mw.NewRateLimiter(redisClient, cfg.RateLimit.AuthMaxReqs, cfg.RateLimit.AuthWindowSec)

	// Router
	router := api.NewRouter(pool, publisher, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimiter:    rateLimiter.Middleware,
	}, api.HandlerSet{
		Register: authHandler.Register,
		Login:    authHandler.Login,
		Refresh:  authHandler.Refresh,
		Logout:   authHandler.Logout,

		GetAccount: authHandler.GetAccount,
		GetQuota:   authHandler.GetQuota,

		ScorePattern:  diagHandler.ScorePattern,
		GetSlots:      diagHandler.GetSlots,
		Compare:       diagHandler.Compare,
		ListDiagnoses: diagHandler.ListDiagnoses,

		GenerateCopies: copyHandler.Generate,

		AuthMiddleware: auth.Middleware(authSvc),
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
