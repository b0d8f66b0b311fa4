package main

import (
	"context"
	"fmt"
	"os"

	"subito-tracker/config"
	"subito-tracker/scraper/subito"
	"subito-tracker/services"
	"subito-tracker/storage"
	"subito-tracker/ui"
	"subito-tracker/utils"
)

// app bundles the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	logger  *utils.Logger
	console *ui.Console
	store   storage.Persistence
	db      *services.Database
}

// newApp loads configuration, opens the configured store and reads the
// database. A malformed database aborts startup.
func newApp(ctx context.Context) (*app, error) {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))
	if !cfg.EnvFileLoaded {
		logger.Debug("[config] No .env file found, falling back to system env vars")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher, err := subito.NewFetcher(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	console := ui.NewConsole(os.Stdout)
	tracker := services.NewTracker(fetcher, ui.NewVisibilityPrompt(), console, logger)
	db := services.NewDatabase(store, tracker, console, logger)

	if err := db.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Debug("[app] storage=%s fetch=%s queries=%d", cfg.StorageBackend, cfg.FetchBackend, db.Len())
	return &app{cfg: cfg, logger: logger, console: console, store: store, db: db}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Persistence, error) {
	switch cfg.StorageBackend {
	case "", "json":
		return storage.NewJSONStore(cfg.DBPath), nil
	case "postgres":
		return storage.NewPostgresStore(ctx, cfg.DSN())
	case "badger":
		return storage.NewBadgerStore(cfg.BadgerDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// finish saves the database and releases the store. opErr, if any, wins over
// a save failure so the first problem is the one reported.
func (a *app) finish(ctx context.Context, opErr error) error {
	saveErr := a.db.Save(ctx)
	if err := a.store.Close(); err != nil {
		a.logger.Warn("[app] closing store: %v", err)
	}
	if opErr != nil {
		if saveErr != nil {
			a.logger.Error("[app] %v", saveErr)
		}
		return opErr
	}
	return saveErr
}
