package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/api"
	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/config"
	"github.com/mediguard-triage-server/internal/database"
	"github.com/mediguard-triage-server/internal/domain"
	"github.com/mediguard-triage-server/internal/feedback"
	"github.com/mediguard-triage-server/internal/references"
	"github.com/mediguard-triage-server/internal/service"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	cat, err := loadCatalog(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatalf("Failed to load biomarker catalog: %v", err)
	}

	store, err := openFeedbackStore(configManager, logger)
	if err != nil {
		logger.Fatalf("Failed to open feedback store: %v", err)
	}
	defer store.Close()

	provider, err := newReferenceProvider(cfg.References, logger)
	if err != nil {
		logger.Fatalf("Failed to build reference provider: %v", err)
	}

	predictor, err := service.NewPredictor(cat, provider, cfg.References.MaxResults, logger)
	if err != nil {
		logger.Fatalf("Failed to build predictor: %v", err)
	}

	server := api.NewServer(configManager, cat, predictor, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting MediGuard triage server")

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// loadCatalog reads a catalog document from disk, or falls back to the
// built-in panel when no path is configured.
func loadCatalog(path string, logger *logrus.Logger) (*catalog.Catalog, error) {
	if path == "" {
		logger.Info("Using built-in biomarker catalog")
		return catalog.New(catalog.DefaultConfig())
	}

	logger.WithField("path", path).Info("Loading biomarker catalog")
	return catalog.Load(path)
}

func openFeedbackStore(configManager *config.Manager, logger *logrus.Logger) (feedback.Store, error) {
	cfg := configManager.GetConfig()

	switch cfg.Store.Backend {
	case "postgres":
		if err := runMigrations(configManager, logger); err != nil {
			return nil, err
		}
		logger.WithField("database", cfg.Database.Database).Info("Using postgres feedback store")
		return feedback.NewPostgresStoreFromURL(configManager.GetDatabaseConnectionString())
	default:
		logger.WithField("path", cfg.Store.SQLitePath).Info("Using sqlite feedback store")
		return feedback.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}

func runMigrations(configManager *config.Manager, logger *logrus.Logger) error {
	cfg := configManager.GetConfig()

	runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), cfg.Database.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}

func newReferenceProvider(cfg domain.ReferencesConfig, logger *logrus.Logger) (domain.ReferenceProvider, error) {
	if cfg.Mode == "remote" {
		logger.WithField("base_url", cfg.BaseURL).Info("Using remote reference provider")
		return references.NewRemoteProvider(references.RemoteConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, logger)
	}

	logger.Info("Using built-in reference knowledge base")
	return references.NewBuiltinProvider(logger)
}
