package rewards

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RenderBr/Banker/internal/bank"
	"github.com/RenderBr/Banker/internal/database"
	"github.com/RenderBr/Banker/internal/models"

	"github.com/shopspring/decimal"
)

type stubPresence struct {
	players []string
}

func (s *stubPresence) ActivePlayers() []string {
	return s.players
}

func testRewardsConfig() models.RewardsConfig {
	return models.RewardsConfig{
		Enabled:             true,
		RewardInterval:      time.Minute,
		PlaytimeReward:      decimal.NewFromInt(1),
		DefaultKillReward:   decimal.NewFromInt(1),
		DeathPenaltyPercent: decimal.NewFromFloat(0.1),
		ExcludedMobs:        []string{"Target Dummy"},
	}
}

func setupTestEngine(t *testing.T, presence Presence) (*Engine, *bank.Service, func()) {
	cfg := models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "rewards-test.db"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		PingTimeout:  5 * time.Second,
	}

	st, err := database.NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	ledger := bank.NewService(st)
	table := []models.KillReward{
		{Mob: "Eye of Cthulhu", Reward: decimal.NewFromInt(100), Color: "red"},
		{Mob: "Zombie", Reward: decimal.NewFromInt(2), Color: "darkgreen"},
	}
	engine := NewEngine(ledger, testRewardsConfig(), table, presence)

	return engine, ledger, st.Close
}

func TestHandleKill_TableLookup(t *testing.T) {
	engine, ledger, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	ctx := context.Background()

	awarded, color, err := engine.HandleKill(ctx, "Ollie", "Eye of Cthulhu")
	if err != nil {
		t.Fatalf("HandleKill failed: %v", err)
	}
	if !awarded.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected reward 100, got %s", awarded.String())
	}
	if color != "red" {
		t.Errorf("Expected color red, got %q", color)
	}

	got, err := ledger.GetCurrency(ctx, "Ollie")
	if err != nil {
		t.Fatalf("GetCurrency failed: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100, got %s", got.String())
	}
}

func TestHandleKill_DefaultReward(t *testing.T) {
	engine, _, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	awarded, color, err := engine.HandleKill(context.Background(), "Ollie", "Blue Slime")
	if err != nil {
		t.Fatalf("HandleKill failed: %v", err)
	}
	if !awarded.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected default reward 1, got %s", awarded.String())
	}
	if color != "" {
		t.Errorf("Expected no color for default reward, got %q", color)
	}
}

func TestHandleKill_ExcludedMob(t *testing.T) {
	engine, ledger, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	ctx := context.Background()

	awarded, _, err := engine.HandleKill(ctx, "Ollie", "target dummy")
	if err != nil {
		t.Fatalf("HandleKill failed: %v", err)
	}
	if !awarded.IsZero() {
		t.Errorf("Expected no reward for excluded mob, got %s", awarded.String())
	}

	// No account should have been created either.
	if _, err := ledger.GetCurrency(ctx, "Ollie"); err == nil {
		t.Error("Expected no account for unrewarded player")
	}
}

func TestHandleDeath(t *testing.T) {
	engine, ledger, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	ctx := context.Background()
	if err := ledger.SetCurrency(ctx, "Ollie", decimal.NewFromInt(200)); err != nil {
		t.Fatalf("SetCurrency failed: %v", err)
	}

	lost, err := engine.HandleDeath(ctx, "Ollie")
	if err != nil {
		t.Fatalf("HandleDeath failed: %v", err)
	}
	if !lost.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected 10%% penalty of 20, got %s", lost.String())
	}

	got, err := ledger.GetCurrency(ctx, "Ollie")
	if err != nil {
		t.Fatalf("GetCurrency failed: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(180)) {
		t.Errorf("Expected balance 180, got %s", got.String())
	}
}

// A penalty that floors to zero is a no-op, never an overdraw.
func TestHandleDeath_FractionalBalance(t *testing.T) {
	engine, ledger, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	ctx := context.Background()
	if err := ledger.SetCurrency(ctx, "Ollie", decimal.NewFromFloat(0.5)); err != nil {
		t.Fatalf("SetCurrency failed: %v", err)
	}

	lost, err := engine.HandleDeath(ctx, "Ollie")
	if err != nil {
		t.Fatalf("HandleDeath failed: %v", err)
	}
	if !lost.IsZero() {
		t.Errorf("Expected zero penalty on sub-unit balance, got %s", lost.String())
	}

	got, err := ledger.GetCurrency(ctx, "Ollie")
	if err != nil {
		t.Fatalf("GetCurrency failed: %v", err)
	}
	if !got.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("Expected balance unchanged at 0.5, got %s", got.String())
	}
}

func TestHandleDeath_NoAccount(t *testing.T) {
	engine, _, cleanup := setupTestEngine(t, nil)
	defer cleanup()

	lost, err := engine.HandleDeath(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("HandleDeath failed: %v", err)
	}
	if !lost.IsZero() {
		t.Errorf("Expected nothing lost without an account, got %s", lost.String())
	}
}

func TestGrantPlaytimeRewards(t *testing.T) {
	presence := &stubPresence{players: []string{"Alice", "Bob"}}
	engine, ledger, cleanup := setupTestEngine(t, presence)
	defer cleanup()

	ctx := context.Background()
	engine.GrantPlaytimeRewards(ctx)
	engine.GrantPlaytimeRewards(ctx)

	for _, player := range presence.players {
		got, err := ledger.GetCurrency(ctx, player)
		if err != nil {
			t.Fatalf("GetCurrency(%s) failed: %v", player, err)
		}
		if !got.Equal(decimal.NewFromInt(2)) {
			t.Errorf("Expected %s at 2 after two intervals, got %s", player, got.String())
		}
	}
}

func TestStartStop(t *testing.T) {
	presence := &stubPresence{players: []string{"Alice"}}
	engine, _, cleanup := setupTestEngine(t, presence)
	defer cleanup()

	engine.Start(context.Background())
	engine.Stop()
}
