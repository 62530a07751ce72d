package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RenderBr/Banker/internal/models"

	"github.com/shopspring/decimal"
)

func Load() (*models.Config, error) {
	rewardInterval, err := getEnvDuration("REWARD_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	playtimeReward, err := getEnvDecimal("PLAYTIME_REWARD", decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}

	defaultKillReward, err := getEnvDecimal("DEFAULT_KILL_REWARD", decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}

	deathPenalty, err := getEnvDecimal("DEATH_PENALTY_PERCENT", decimal.NewFromFloat(0.1))
	if err != nil {
		return nil, err
	}
	if deathPenalty.IsNegative() || deathPenalty.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("DEATH_PENALTY_PERCENT must be between 0 and 1, got %s", deathPenalty)
	}

	return &models.Config{
		Store: models.StoreConfig{
			Backend:        getEnvString("STORE_BACKEND", "sqlite"),
			LiveWriteQueue: getEnvInt("LIVE_WRITE_QUEUE", 256),
		},
		Database: models.DatabaseConfig{
			Path:                getEnvString("DATABASE_PATH", "banker.db"),
			MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:     connMaxLifetime,
			ConnMaxIdleTime:     connMaxIdleTime,
			PingTimeout:         pingTimeout,
			CreateDummyAccounts: getEnvBool("CREATE_DUMMY_ACCOUNTS", false),
		},
		Rewards: models.RewardsConfig{
			Enabled:             getEnvBool("REWARDS_ENABLED", true),
			RewardInterval:      rewardInterval,
			PlaytimeReward:      playtimeReward,
			DefaultKillReward:   defaultKillReward,
			DeathPenaltyPercent: deathPenalty,
			RewardsFile:         getEnvString("REWARDS_FILE", "rewards.yaml"),
			ExcludedMobs:        getEnvList("EXCLUDED_MOBS"),
			AnnounceDrops:       getEnvBool("ANNOUNCE_DROPS", true),
		},
		Currency: models.CurrencyConfig{
			NameSingular: getEnvString("CURRENCY_NAME_SINGULAR", "coin"),
			NamePlural:   getEnvString("CURRENCY_NAME_PLURAL", "coins"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if value := os.Getenv(key); value != "" {
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount for %s: %q (%w)", key, value, err)
		}
		return amount, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
