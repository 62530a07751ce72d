package store

import (
	"context"
	"errors"

	"github.com/RenderBr/Banker/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already taken")
)

// Store defines the contract that every persistence backend (SQLite, live, ...)
// must satisfy. A lookup that finds nothing returns ErrNotFound, never a nil
// record; callers distinguish "missing" from "present with zero balance".
//
// The backend is chosen once at startup; callers never branch on the variant.
type Store interface {
	// --- Accounts ---
	GetAccount(ctx context.Context, name string) (*models.Account, error)
	GetOrCreateAccount(ctx context.Context, name string) (*models.Account, error)
	SaveAccount(ctx context.Context, acct *models.Account) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
	TopAccounts(ctx context.Context, limit int) ([]models.Account, error)

	// --- Joint accounts ---
	GetJointAccount(ctx context.Context, name string) (*models.JointAccount, error)
	CreateJointAccount(ctx context.Context, joint *models.JointAccount) error
	SaveJointAccount(ctx context.Context, joint *models.JointAccount) error
	ListJointAccounts(ctx context.Context) ([]models.JointAccount, error)

	// --- Lifecycle ---
	Close()
}
