package bank

import (
	"context"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Accounts is the repository for individual player accounts. All access to
// persisted account state goes through here or through Joints; nothing else
// writes to the store.
type Accounts struct {
	store store.Store
}

func NewAccounts(st store.Store) *Accounts {
	return &Accounts{store: st}
}

// Get looks up an account without creating it.
func (a *Accounts) Get(ctx context.Context, name string) (*models.Account, error) {
	return a.store.GetAccount(ctx, name)
}

// GetOrCreate returns the existing account or creates one with a zero
// balance and no joint membership. Idempotent by canonical name.
func (a *Accounts) GetOrCreate(ctx context.Context, name string) (*models.Account, error) {
	return a.store.GetOrCreateAccount(ctx, name)
}

// SetBalance assigns the account's balance, creating the account if needed.
func (a *Accounts) SetBalance(ctx context.Context, name string, amount decimal.Decimal) error {
	acct, err := a.store.GetOrCreateAccount(ctx, name)
	if err != nil {
		return err
	}

	acct.Currency = amount
	if err := a.store.SaveAccount(ctx, acct); err != nil {
		return err
	}

	zap.L().Debug("Balance set",
		zap.String("account", acct.Name),
		zap.String("currency", amount.String()))
	return nil
}

// ResetBalance zeroes the account's balance.
func (a *Accounts) ResetBalance(ctx context.Context, name string) error {
	return a.SetBalance(ctx, name, decimal.Zero)
}
