package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Rewards  RewardsConfig
	Currency CurrencyConfig
}

// StoreConfig selects the persistence backend for the process lifetime.
type StoreConfig struct {
	Backend        string // "sqlite" or "live"
	LiveWriteQueue int    // buffered writes for the live backend's flusher
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path                string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	ConnMaxIdleTime     time.Duration
	PingTimeout         time.Duration
	CreateDummyAccounts bool
}

// RewardsConfig holds game-event reward settings
type RewardsConfig struct {
	Enabled             bool
	RewardInterval      time.Duration
	PlaytimeReward      decimal.Decimal
	DefaultKillReward   decimal.Decimal
	DeathPenaltyPercent decimal.Decimal // fraction of balance lost on death, 0..1
	RewardsFile         string
	ExcludedMobs        []string
	AnnounceDrops       bool
}

// CurrencyConfig holds display settings for the in-game currency
type CurrencyConfig struct {
	NameSingular string
	NamePlural   string
}
