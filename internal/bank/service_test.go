package bank

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/RenderBr/Banker/internal/database"
	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/shopspring/decimal"
)

func setupTestLedger(t *testing.T) (*Service, func()) {
	cfg := models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "bank-test.db"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		PingTimeout:  5 * time.Second,
	}

	st, err := database.NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	return NewService(st), st.Close
}

func fund(t *testing.T, ledger *Service, name string, amount int64) {
	t.Helper()
	if err := ledger.SetCurrency(context.Background(), name, decimal.NewFromInt(amount)); err != nil {
		t.Fatalf("Failed to fund %s: %v", name, err)
	}
}

func balance(t *testing.T, ledger *Service, name string) decimal.Decimal {
	t.Helper()
	amount, err := ledger.GetCurrency(context.Background(), name)
	if err != nil {
		t.Fatalf("GetCurrency(%s) failed: %v", name, err)
	}
	return amount
}

func TestGetCurrency_NotFound(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	_, err := ledger.GetCurrency(context.Background(), "Nobody")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSetAndGetCurrency(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	fund(t, ledger, "Ollie", 100)
	if got := balance(t, ledger, "Ollie"); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100, got %s", got.String())
	}

	// Zero balance is distinct from not found.
	if err := ledger.ResetCurrency(context.Background(), "Ollie"); err != nil {
		t.Fatalf("ResetCurrency failed: %v", err)
	}
	if got := balance(t, ledger, "Ollie"); !got.Equal(decimal.Zero) {
		t.Errorf("Expected balance 0 after reset, got %s", got.String())
	}
}

func TestAdjustCurrency(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	fund(t, ledger, "Ollie", 50)

	got, err := ledger.AdjustCurrency(ctx, "Ollie", decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("AdjustCurrency failed: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected 75, got %s", got.String())
	}

	got, err = ledger.AdjustCurrency(ctx, "Ollie", decimal.NewFromInt(-75))
	if err != nil {
		t.Fatalf("AdjustCurrency failed: %v", err)
	}
	if !got.Equal(decimal.Zero) {
		t.Errorf("Expected 0, got %s", got.String())
	}
}

func TestAdjustCurrency_Overdraw(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	fund(t, ledger, "Ollie", 10)

	_, err := ledger.AdjustCurrency(context.Background(), "Ollie", decimal.NewFromInt(-11))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if got := balance(t, ledger, "Ollie"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected balance unchanged at 10, got %s", got.String())
	}
}

func TestTransfer_Conservation(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	fund(t, ledger, "Alice", 100)
	fund(t, ledger, "Bob", 0)

	if err := ledger.Transfer(ctx, "Alice", "Bob", decimal.NewFromInt(40)); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	alice := balance(t, ledger, "Alice")
	bob := balance(t, ledger, "Bob")
	if !alice.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected Alice at 60, got %s", alice.String())
	}
	if !bob.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected Bob at 40, got %s", bob.String())
	}
	if !alice.Add(bob).Equal(decimal.NewFromInt(100)) {
		t.Errorf("Total not conserved: %s", alice.Add(bob).String())
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	fund(t, ledger, "Alice", 30)
	fund(t, ledger, "Bob", 5)

	err := ledger.Transfer(ctx, "Alice", "Bob", decimal.NewFromInt(31))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if got := balance(t, ledger, "Alice"); !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected Alice unchanged at 30, got %s", got.String())
	}
	if got := balance(t, ledger, "Bob"); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected Bob unchanged at 5, got %s", got.String())
	}
}

func TestTransfer_Preconditions(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	fund(t, ledger, "Alice", 100)

	if err := ledger.Transfer(ctx, "Alice", "alice", decimal.NewFromInt(1)); !errors.Is(err, ErrSelfTransfer) {
		t.Errorf("Expected ErrSelfTransfer, got %v", err)
	}
	if err := ledger.Transfer(ctx, "Alice", "Bob", decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero, got %v", err)
	}
	if err := ledger.Transfer(ctx, "Alice", "Bob", decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for negative, got %v", err)
	}
	// The payee account is never created on the fly.
	if err := ledger.Transfer(ctx, "Alice", "Nobody", decimal.NewFromInt(1)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing payee, got %v", err)
	}
}

func TestTopBalances(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	fund(t, ledger, "Alice", 250)
	fund(t, ledger, "Bob", 100)
	fund(t, ledger, "Carol", 400)

	top, err := ledger.TopBalances(ctx, 2)
	if err != nil {
		t.Fatalf("TopBalances failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].Name != "Carol" || top[1].Name != "Alice" {
		t.Errorf("Expected [Carol Alice], got [%s %s]", top[0].Name, top[1].Name)
	}

	all, err := ledger.TopBalances(ctx, 99)
	if err != nil {
		t.Fatalf("TopBalances failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected clipping to 3 existing accounts, got %d", len(all))
	}
}
