package bank

import (
	"context"
	"errors"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Joints is the repository for shared joint accounts: creation, membership
// and pooled-balance movements. Callers needing isolation across the
// two-record mutations wrap these in the Service's per-identity locks.
type Joints struct {
	store    store.Store
	accounts *Accounts
}

func NewJoints(st store.Store, accounts *Accounts) *Joints {
	return &Joints{store: st, accounts: accounts}
}

// Create opens a joint account named name with requester as its first
// member. Fails with ErrInvalidName if the name canonicalizes to nothing,
// ErrAlreadyMember if the requester belongs to any joint account, or
// store.ErrDuplicateName if the name is taken.
func (j *Joints) Create(ctx context.Context, requester *models.Account, name string) (*models.JointAccount, error) {
	// A name with an empty canonical key would leave the member's
	// back-reference indistinguishable from "no membership".
	if models.Key(name) == "" {
		return nil, ErrInvalidName
	}
	if requester.InJointAccount() {
		return nil, ErrAlreadyMember
	}

	joint := &models.JointAccount{
		Name:     name,
		Currency: decimal.Zero,
		Members:  []string{requester.Name},
	}
	if err := j.store.CreateJointAccount(ctx, joint); err != nil {
		return nil, err
	}

	requester.JointAccount = models.Key(name)
	if err := j.store.SaveAccount(ctx, requester); err != nil {
		return nil, err
	}

	return joint, nil
}

// Retrieve looks up a joint account by name.
func (j *Joints) Retrieve(ctx context.Context, name string) (*models.JointAccount, error) {
	return j.store.GetJointAccount(ctx, name)
}

// AddMember adds the named account to the named joint account. The joint
// account must exist, and the account must not already belong to one.
func (j *Joints) AddMember(ctx context.Context, accountName, jointName string) error {
	if models.Key(jointName) == "" {
		return ErrInvalidName
	}

	acct, err := j.accounts.GetOrCreate(ctx, accountName)
	if err != nil {
		return err
	}
	if acct.InJointAccount() {
		return ErrAlreadyMember
	}

	joint, err := j.store.GetJointAccount(ctx, jointName)
	if err != nil {
		return err
	}

	joint.Members = append(joint.Members, acct.Name)
	if err := j.store.SaveJointAccount(ctx, joint); err != nil {
		return err
	}

	acct.JointAccount = models.Key(jointName)
	if err := j.store.SaveAccount(ctx, acct); err != nil {
		return err
	}

	zap.L().Info("Joint account member added",
		zap.String("joint_account", joint.Name),
		zap.String("account", acct.Name))
	return nil
}

// RemoveMember takes the named account out of its joint account, clearing
// both sides of the back-reference. The joint account is resolved from the
// account's own stored reference, never from caller input.
func (j *Joints) RemoveMember(ctx context.Context, accountName string) error {
	acct, err := j.accounts.Get(ctx, accountName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotMember
		}
		return err
	}
	if !acct.InJointAccount() {
		return ErrNotMember
	}

	jointName := acct.JointAccount
	joint, err := j.store.GetJointAccount(ctx, jointName)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	// A dangling reference still gets cleared so the account can join again.
	if joint != nil {
		key := models.Key(acct.Name)
		members := joint.Members[:0]
		for _, member := range joint.Members {
			if models.Key(member) != key {
				members = append(members, member)
			}
		}
		joint.Members = members
		if err := j.store.SaveJointAccount(ctx, joint); err != nil {
			return err
		}
	}

	acct.JointAccount = ""
	if err := j.store.SaveAccount(ctx, acct); err != nil {
		return err
	}

	zap.L().Info("Joint account member removed",
		zap.String("joint_account", jointName),
		zap.String("account", acct.Name))
	return nil
}

// JointOf resolves the joint account the named player belongs to.
// Returns ErrNotMember when the player has no membership, or
// store.ErrNotFound when the reference cannot be resolved.
func (j *Joints) JointOf(ctx context.Context, accountName string) (*models.JointAccount, error) {
	acct, err := j.accounts.Get(ctx, accountName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	if !acct.InJointAccount() {
		return nil, ErrNotMember
	}

	return j.store.GetJointAccount(ctx, acct.JointAccount)
}

// Deposit moves amount from the member's personal balance into the pooled
// balance of their joint account.
func (j *Joints) Deposit(ctx context.Context, member string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	joint, err := j.JointOf(ctx, member)
	if err != nil {
		return err
	}

	acct, err := j.accounts.GetOrCreate(ctx, member)
	if err != nil {
		return err
	}
	if acct.Currency.LessThan(amount) {
		return ErrInsufficientFunds
	}

	acct.Currency = acct.Currency.Sub(amount)
	if err := j.store.SaveAccount(ctx, acct); err != nil {
		return err
	}

	joint.Currency = joint.Currency.Add(amount)
	return j.store.SaveJointAccount(ctx, joint)
}

// Withdraw moves amount from the pooled balance back to the member.
func (j *Joints) Withdraw(ctx context.Context, member string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	joint, err := j.JointOf(ctx, member)
	if err != nil {
		return err
	}
	if joint.Currency.LessThan(amount) {
		return ErrInsufficientFunds
	}

	acct, err := j.accounts.GetOrCreate(ctx, member)
	if err != nil {
		return err
	}

	joint.Currency = joint.Currency.Sub(amount)
	if err := j.store.SaveJointAccount(ctx, joint); err != nil {
		return err
	}

	acct.Currency = acct.Currency.Add(amount)
	return j.store.SaveAccount(ctx, acct)
}
