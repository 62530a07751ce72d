package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RenderBr/Banker/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type rewardEntry struct {
	Mob    string  `yaml:"mob"`
	Reward float64 `yaml:"reward"`
	Color  string  `yaml:"color"`
}

type rewardsFile struct {
	Rewards []rewardEntry `yaml:"rewards"`
}

// LoadRewardTable parses the per-mob kill reward table from a YAML file.
func LoadRewardTable(path string) ([]models.KillReward, error) {
	var rewardsPath string
	if filepath.IsAbs(path) {
		rewardsPath = path
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rewardsPath = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(rewardsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	return ParseRewardTable(data)
}

// ParseRewardTable parses and validates reward table YAML.
func ParseRewardTable(data []byte) ([]models.KillReward, error) {
	var file rewardsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse reward table: %w", err)
	}

	rewards := make([]models.KillReward, 0, len(file.Rewards))
	for i, entry := range file.Rewards {
		if entry.Mob == "" {
			return nil, fmt.Errorf("reward at index %d missing mob", i)
		}
		if entry.Reward < 0 {
			return nil, fmt.Errorf("reward for %q must not be negative", entry.Mob)
		}
		rewards = append(rewards, models.KillReward{
			Mob:    entry.Mob,
			Reward: decimal.NewFromFloat(entry.Reward),
			Color:  entry.Color,
		})
	}

	return rewards, nil
}
