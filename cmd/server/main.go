package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/database"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/logging"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/routes"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/services"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/storage"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.IsProduction())

	if cfg.IsProduction() && cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET environment variable is required in production")
		os.Exit(1)
	}

	// Record store
	var (
		records *store.Store
		ping    func() error
		pgLogs  *logging.PGHandler
	)
	cleanupDone := make(chan struct{})
	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("using in-memory store, data is lost on restart")
		records = store.NewMemoryStore()
	case "postgres":
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err.Error())
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err.Error())
			os.Exit(1)
		}
		records = store.NewGormStore(database.DB)
		ping = database.Ping

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogs = logging.NewPGHandler(database.DB)
		logging.Persist(stdout, pgLogs)
		logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)
	default:
		slog.Error("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// Shared key/value storage for sessions and rate limits
	var sessionStorage, globalLimitStorage, authLimitStorage fiber.Storage
	var redisStorage *storage.RedisStorage
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStorage(cfg.RedisURL, "homeaway:")
		if err != nil {
			slog.Error("redis connection failed", "error", err.Error())
			os.Exit(1)
		}
		redisStorage = rs
		sessionStorage = rs.WithPrefix("homeaway:sess:")
		globalLimitStorage = rs.WithPrefix("homeaway:limit:global:")
		authLimitStorage = rs.WithPrefix("homeaway:limit:auth:")
		slog.Info("redis connected")
	}

	// Image store
	var images storage.ImageStore
	uploadDir := ""
	switch cfg.ImageStore {
	case "s3":
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Folder:    cfg.S3Folder,
		})
		if err != nil {
			slog.Error("image store init failed", "error", err.Error())
			os.Exit(1)
		}
		images = s3Store
	case "local":
		local, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
		if err != nil {
			slog.Error("image store init failed", "error", err.Error())
			os.Exit(1)
		}
		images = local
		uploadDir = cfg.UploadDir
	default:
		slog.Error("unknown IMAGE_STORE", "store", cfg.ImageStore)
		os.Exit(1)
	}

	// Services
	var tokens *auth.TokenIssuer
	if cfg.JWTSecret != "" {
		tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry)
	}
	policy := services.NewSignupPolicy(records.Users, nil, cfg.SignupCheckMX, cfg.MXLookupTimeout)
	authService := services.NewAuthService(records.Users, policy, auth.NewLocalVerifier(records.Users), tokens)
	listingService := services.NewListingService(records, images)
	reviewService := services.NewReviewService(records)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err.Error())
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(routes.AppConfig())

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	if cfg.SessionSecret != "" {
		key, err := cfg.CookieKey()
		if err != nil {
			slog.Error("invalid SESSION_SECRET", "error", err.Error())
			os.Exit(1)
		}
		app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))
	}

	sessionCfg := session.Config{
		Expiration:     cfg.SessionExpiry,
		KeyLookup:      "cookie:homeaway_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Strict",
		CookieSecure:   cfg.IsProduction(),
	}
	if sessionStorage != nil {
		sessionCfg.Storage = sessionStorage
	}

	// Routes
	routes.Setup(app, cfg, routes.Deps{
		Auth:               authService,
		Listings:           listingService,
		Reviews:            reviewService,
		Sessions:           session.New(sessionCfg),
		Health:             handlers.NewHealthHandler(cfg.StoreDriver, ping),
		GlobalLimitStorage: globalLimitStorage,
		AuthLimitStorage:   authLimitStorage,
		UploadDir:          uploadDir,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "images", cfg.ImageStore)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err.Error())
	}

	close(cleanupDone)
	if pgLogs != nil {
		pgLogs.Stop()
	}
	sentry.Flush(2 * time.Second)

	if redisStorage != nil {
		if err := redisStorage.Close(); err != nil {
			slog.Error("redis close error", "error", err.Error())
		}
	}
	if database.DB != nil {
		if err := database.Close(); err != nil {
			slog.Error("database close error", "error", err.Error())
		}
	}

	slog.Info("server stopped")
}
