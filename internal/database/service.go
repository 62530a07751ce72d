package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Current on-disk schema version, stamped into schema_migrations.
const schemaVersion = 1

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

// Service is the SQLite-backed record store. Mutations are held in memory by
// the repositories and committed through explicit SaveAccount /
// SaveJointAccount calls.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.CreateDummyAccounts); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(createDummyAccounts bool) error {
	schema := `
	-- Schema version bookkeeping
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- One record per player account, keyed by canonical name
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE,
		currency TEXT NOT NULL DEFAULT '0',
		joint_account TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_joint ON accounts(joint_account);

	-- One record per joint account, keyed by canonical name
	CREATE TABLE IF NOT EXISTS joint_accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE,
		currency TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Member set per joint account, position preserves join order
	CREATE TABLE IF NOT EXISTS joint_members (
		joint_key TEXT NOT NULL,
		account_key TEXT NOT NULL,
		account_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (joint_key, account_key)
	);

	CREATE INDEX IF NOT EXISTS idx_joint_members_joint ON joint_members(joint_key);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if _, err := s.db.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)`, schemaVersion); err != nil {
		return err
	}

	// Seed a few accounts for local testing if configured to do so
	if createDummyAccounts {
		seeds := []struct {
			name    string
			balance string
		}{
			{"Alice", "250"},
			{"Bob", "100"},
			{"Carol", "0"},
		}

		for _, seed := range seeds {
			_, err := s.db.Exec(queryInsertAccount, uuid.New().String(), seed.name, models.Key(seed.name))
			if err != nil {
				zap.L().Error("Failed to seed account", zap.String("name", seed.name), zap.Error(err))
				continue
			}
			_, err = s.db.Exec(queryUpdateAccount, seed.name, seed.balance, "", models.Key(seed.name))
			if err != nil {
				zap.L().Error("Failed to seed account balance", zap.String("name", seed.name), zap.Error(err))
			} else {
				zap.L().Info("Dummy account created", zap.String("name", seed.name), zap.String("balance", seed.balance))
			}
		}
	}

	return nil
}

// parseCurrency converts a stored currency column back into a decimal.
func parseCurrency(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse currency %q: %w", raw, err)
	}
	return amount, nil
}
