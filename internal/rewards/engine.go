package rewards

import (
	"context"
	"errors"
	"time"

	"github.com/RenderBr/Banker/internal/bank"
	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Presence reports which players are currently online and eligible for the
// periodic play-time reward. The game host implements this.
type Presence interface {
	ActivePlayers() []string
}

// Engine applies game-event currency changes — kill rewards, death
// penalties and the periodic play-time reward — through the ledger service.
// It never touches the store directly.
type Engine struct {
	ledger   *bank.Service
	cfg      models.RewardsConfig
	presence Presence

	table    map[string]models.KillReward // canonical mob name -> reward
	excluded map[string]bool

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewEngine(ledger *bank.Service, cfg models.RewardsConfig, table []models.KillReward, presence Presence) *Engine {
	e := &Engine{
		ledger:   ledger,
		cfg:      cfg,
		presence: presence,
		table:    make(map[string]models.KillReward, len(table)),
		excluded: make(map[string]bool, len(cfg.ExcludedMobs)),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	for _, entry := range table {
		e.table[models.Key(entry.Mob)] = entry
	}
	for _, mob := range cfg.ExcludedMobs {
		e.excluded[models.Key(mob)] = true
	}

	return e
}

// Start launches the play-time reward loop. No-op when rewards are disabled
// or no presence source is wired.
func (e *Engine) Start(ctx context.Context) {
	if !e.cfg.Enabled || e.presence == nil {
		zap.L().Info("Play-time rewards disabled")
		close(e.doneChan)
		return
	}

	go e.rewardLoop(ctx)

	zap.L().Info("Play-time reward loop started",
		zap.Duration("interval", e.cfg.RewardInterval),
		zap.String("reward", e.cfg.PlaytimeReward.String()))
}

// Stop gracefully stops the reward loop.
func (e *Engine) Stop() {
	close(e.stopChan)
	<-e.doneChan
	zap.L().Info("Play-time reward loop stopped")
}

func (e *Engine) rewardLoop(ctx context.Context) {
	defer close(e.doneChan)

	ticker := time.NewTicker(e.cfg.RewardInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.GrantPlaytimeRewards(ctx)
		case <-e.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// GrantPlaytimeRewards credits every online player one interval's reward.
func (e *Engine) GrantPlaytimeRewards(ctx context.Context) {
	if e.presence == nil {
		return
	}

	for _, player := range e.presence.ActivePlayers() {
		if _, err := e.ledger.AdjustCurrency(ctx, player, e.cfg.PlaytimeReward); err != nil {
			zap.L().Error("Failed to grant play-time reward",
				zap.String("player", player),
				zap.Error(err))
		}
	}
}

// HandleKill credits the player for killing the named mob and returns the
// amount awarded plus the announcement color. Excluded mobs award nothing.
func (e *Engine) HandleKill(ctx context.Context, identity, mob string) (decimal.Decimal, string, error) {
	if !e.cfg.Enabled || e.excluded[models.Key(mob)] {
		return decimal.Zero, "", nil
	}

	reward := e.cfg.DefaultKillReward
	color := ""
	if entry, ok := e.table[models.Key(mob)]; ok {
		reward = entry.Reward
		color = entry.Color
	}
	if !reward.IsPositive() {
		return decimal.Zero, "", nil
	}

	if _, err := e.ledger.AdjustCurrency(ctx, identity, reward); err != nil {
		return decimal.Zero, "", err
	}

	zap.L().Debug("Kill reward granted",
		zap.String("player", identity),
		zap.String("mob", mob),
		zap.String("reward", reward.String()))
	return reward, color, nil
}

// HandleDeath debits the configured fraction of the player's balance,
// floored to a whole amount, and returns what was lost. Players without an
// account lose nothing.
func (e *Engine) HandleDeath(ctx context.Context, identity string) (decimal.Decimal, error) {
	if !e.cfg.Enabled || !e.cfg.DeathPenaltyPercent.IsPositive() {
		return decimal.Zero, nil
	}

	balance, err := e.ledger.GetCurrency(ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	lost := balance.Mul(e.cfg.DeathPenaltyPercent).Floor()
	if lost.GreaterThan(balance) {
		lost = balance
	}
	if !lost.IsPositive() {
		return decimal.Zero, nil
	}

	if _, err := e.ledger.AdjustCurrency(ctx, identity, lost.Neg()); err != nil {
		return decimal.Zero, err
	}

	zap.L().Debug("Death penalty applied",
		zap.String("player", identity),
		zap.String("lost", lost.String()))
	return lost, nil
}
