package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/RenderBr/Banker/internal/database"
	"github.com/RenderBr/Banker/internal/live"
	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from a .env file if one exists.
// Environment variables can also be set via shell export, docker, etc.
func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeStore builds the record store selected by configuration. The
// choice is made once per process; callers only ever see store.Store.
func InitializeStore(ctx context.Context, cfg *models.Config) (store.Store, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case "", "sqlite":
		return dbService, nil
	case "live":
		liveStore, err := live.NewStore(ctx, dbService, cfg.Store.LiveWriteQueue)
		if err != nil {
			dbService.Close()
			return nil, err
		}
		return liveStore, nil
	default:
		dbService.Close()
		return nil, fmt.Errorf("unknown store backend %q (expected sqlite or live)", cfg.Store.Backend)
	}
}

// CurrencyName returns the singular or plural currency name for an amount
// whose display value is amount (1 is singular, everything else plural).
func CurrencyName(cfg models.CurrencyConfig, singular bool) string {
	if singular {
		return cfg.NameSingular
	}
	return cfg.NamePlural
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
