package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/config"
	"github.com/Deazl-Comparator/deazl-sub001/internal/database"
	"github.com/Deazl-Comparator/deazl-sub001/internal/handlers"
	"github.com/Deazl-Comparator/deazl-sub001/internal/middleware"
	"github.com/Deazl-Comparator/deazl-sub001/internal/services"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	lists := database.NewListRepo(db)
	items := database.NewItemRepo(db)
	sharing := database.NewSharingRepo(db)
	catalog := database.NewCatalogRepo(db)
	users := database.NewUserRepo(db)

	provider := auth.NewContextProvider()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	parser := services.NewSmartInputParser()
	matcher := services.NewProductMatcher()

	var notifier services.InvitationNotifier = services.NopNotifier{}
	if cfg.SMTPConfigured() {
		notifier = services.NewEmailService(cfg)
		logger.Info("invitation emails enabled", zap.String("smtp_host", cfg.SMTPHost))
	}

	itemService := services.NewShoppingListItemService(lists, items, catalog, provider, parser, matcher, cfg.QuickAddMaxMatches, logger)

	svc := handlers.Services{
		Auth:    services.NewAuthService(users, tokens, logger),
		Lists:   services.NewShoppingListService(lists, items, provider, logger),
		Items:   itemService,
		Sharing: services.NewSharingService(lists, sharing, users, provider, notifier, logger),
		Smart:   services.NewSmartConversionService(lists, items, catalog, catalog, provider, matcher, cfg.QuickAddMaxMatches, logger),
	}

	if cfg.OCREnabled {
		ocr, err := services.NewOCRService(cfg.OCRLanguage)
		if err != nil {
			logger.Warn("OCR unavailable, photo scanning disabled", zap.Error(err))
		} else {
			defer ocr.Close()
			svc.Scans = services.NewScanService(lists, provider, itemService, ocr, newScanStore(ctx, cfg, logger), cfg.ScanMaxEdge, logger)
			logger.Info("photo scanning enabled")
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    12 * 1024 * 1024,
	})

	// Global middleware
	app.Use(middleware.Recover(logger))
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	handlers.New(svc, logger).Register(app, tokens)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		zcfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(cfg.LogLevel); perr == nil {
			zcfg.Level = lvl
		}
		logger, err = zcfg.Build()
	}
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}

// newScanStore connects the photo bucket. Scans still work without it; photos are just not kept.
func newScanStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) services.ScanStore {
	if !cfg.S3Enabled {
		return nil
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		logger.Warn("S3 credentials not configured, list photos will not be kept")
		return nil
	}

	storage, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		logger.Warn("failed to initialize storage service", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		logger.Warn("failed to ensure S3 bucket exists", zap.Error(err))
	}
	return storage
}
