package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"

	"3tcapital/sriats/internal/adapters/archive"
	batchpg "3tcapital/sriats/internal/adapters/batch/postgres"
	atshttp "3tcapital/sriats/internal/adapters/http/ats"
	batchhttp "3tcapital/sriats/internal/adapters/http/batch"
	healthhttp "3tcapital/sriats/internal/adapters/http/health"
	uploadhttp "3tcapital/sriats/internal/adapters/http/upload"
	"3tcapital/sriats/internal/adapters/render/csvreport"
	"3tcapital/sriats/internal/adapters/render/pdfreport"
	"3tcapital/sriats/internal/adapters/render/xlsxreport"
	appats "3tcapital/sriats/internal/application/ats"
	apphealth "3tcapital/sriats/internal/application/health"
	"3tcapital/sriats/internal/application/parser"
	appupload "3tcapital/sriats/internal/application/upload"
	"3tcapital/sriats/internal/core/batch"
	limitercache "3tcapital/sriats/internal/infrastructure/cache"
	"3tcapital/sriats/internal/infrastructure/config"
	"3tcapital/sriats/internal/infrastructure/database"
	"3tcapital/sriats/internal/infrastructure/http/middleware"
	"3tcapital/sriats/internal/infrastructure/http/server"
	"3tcapital/sriats/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var batchRepo batch.Repository
	var checkers []apphealth.Checker
	if cfg.Database.Enabled {
		pool, err := openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		batchRepo = batchpg.NewRepository(pool, log)
		checkers = append(checkers, database.NewChecker(pool))
	} else {
		log.Info("Database disabled, batches will not be persisted and batch endpoints will return 503")
	}

	parserService := parser.NewService(cfg.Processing.WorkerPoolSize, log)
	uploadService := appupload.NewService(
		archive.NewZipExtractor(cfg.Processing.MaxEntrySize),
		parserService,
		batchRepo,
		cfg.Processing.MaxConcurrentUploads,
		nil,
		log,
	)

	var reportCache *cache.Cache
	if cfg.Cache.ReportTTL > 0 {
		reportCache = cache.New(cfg.Cache.ReportTTL, cfg.Cache.ReportCleanup)
	}
	atsService := appats.NewService(appats.NewGenerator(nil), appats.Renderers{
		XLSX:    xlsxreport.NewRenderer(cfg.App.Name),
		PDF:     pdfreport.NewRenderer(cfg.App.Name),
		CSV:     csvreport.NewRenderer(),
		Bundler: archive.NewZipBundler(),
	}, batchRepo, reportCache, log)

	healthService := apphealth.NewService(apphealth.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	}, nil, checkers...)

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		limiter = limitercache.NewLimiterStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.ClientTTL, nil)
		log.Info("Rate limiting enabled", "rps", cfg.RateLimit.RPS, "burst", cfg.RateLimit.Burst)
	}

	srv, err := server.New(server.Options{
		Config:                cfg,
		Logger:                log,
		HealthHandler:         http.HandlerFunc(healthhttp.NewHandler(healthService).Status),
		UploadHandler:         http.HandlerFunc(uploadhttp.NewHandler(uploadService, cfg.Processing.MaxUploadSize, cfg.Processing.StrictDefault, log).Upload),
		ATSHandler:            http.HandlerFunc(atshttp.NewHandler(atsService, cfg.Processing.MaxDocuments, log).Generate),
		BatchDocumentsHandler: http.HandlerFunc(batchhttp.NewHandler(atsService, log).Documents),
		RateLimiter:           limiter,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	log.Info("Service starting",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"auth_enabled", cfg.Auth.Enabled,
		"database_enabled", cfg.Database.Enabled,
		"workers", cfg.Processing.WorkerPoolSize,
	)

	return srv.Run(ctx)
}

func openDatabase(ctx context.Context, s config.DatabaseSettings, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, database.Config{
		Host:            s.Host,
		Port:            s.Port,
		Database:        s.Database,
		User:            s.User,
		Password:        s.Password,
		SSLMode:         s.SSLMode,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime,
		ConnectTimeout:  s.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info("Database connection established", "host", s.Host, "database", s.Database)
	return pool, nil
}
