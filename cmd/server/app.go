package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wikilearn/wikilearn-api/internal/config"
	"github.com/wikilearn/wikilearn-api/internal/domain/scheduler"
	"github.com/wikilearn/wikilearn-api/internal/platform/logger"
	"github.com/wikilearn/wikilearn-api/internal/platform/metrics"
	"github.com/wikilearn/wikilearn-api/internal/platform/postgres"
	"github.com/wikilearn/wikilearn-api/internal/service/auth"
	"github.com/wikilearn/wikilearn-api/internal/service/progression"
	"github.com/wikilearn/wikilearn-api/internal/service/review"
)

// application holds the shared application dependencies so startup,
// request handling and shutdown all work off the same instances.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry
	metrics  *metrics.Manager

	jwtService         auth.JWTService
	reviewService      review.ReviewService
	progressionService progression.ProgressionService
}

// newApplication loads configuration and wires every layer of the
// service: logger, database pool, stores, domain services and auth.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metricsManager := metrics.NewManager(registry)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	interactionStore := postgres.NewPostgresInteractionStore(db, appLogger)
	profileStore := postgres.NewPostgresProfileStore(db, appLogger)
	categoryStore := postgres.NewPostgresCategoryProgressStore(db, appLogger)
	ledgerStore := postgres.NewPostgresXpLedgerStore(db, appLogger)

	reviewService := review.NewReviewService(
		db,
		interactionStore,
		scheduler.NewDefaultService(),
		metricsManager,
		appLogger,
	)
	progressionService := progression.NewProgressionService(
		db,
		profileStore,
		categoryStore,
		ledgerStore,
		metricsManager,
		appLogger,
	)

	return &application{
		config:             cfg,
		logger:             appLogger,
		db:                 db,
		registry:           registry,
		metrics:            metricsManager,
		jwtService:         jwtService,
		reviewService:      reviewService,
		progressionService: progressionService,
	}, nil
}

// openDatabase opens the connection pool and verifies connectivity.
func openDatabase(cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
