package bank

import (
	"context"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the single entry point for everything that touches the ledger:
// balance queries and mutations, peer-to-peer transfers, the leaderboard and
// the joint-account lifecycle. Construct one explicitly and hand it to the
// collaborators that need it; there is no package-level instance.
//
// Compound mutations hold a per-identity lock for their whole duration. This
// is deliberately stronger than the weak isolation of earlier economy
// plugins, where two concurrent transfers on the same account could lose an
// update.
type Service struct {
	store    store.Store
	accounts *Accounts
	joints   *Joints
	invites  *inviteRegistry
	locks    *keyedMutex
}

func NewService(st store.Store) *Service {
	accounts := NewAccounts(st)
	return &Service{
		store:    st,
		accounts: accounts,
		joints:   NewJoints(st, accounts),
		invites:  newInviteRegistry(),
		locks:    newKeyedMutex(),
	}
}

func acctLockKey(identity string) string {
	return "acct:" + models.Key(identity)
}

func jointLockKey(name string) string {
	key := models.Key(name)
	if key == "" {
		return ""
	}
	return "joint:" + key
}

// Accounts exposes the account repository for read-mostly collaborators.
func (s *Service) Accounts() *Accounts { return s.accounts }

// Joints exposes the joint-account repository.
func (s *Service) Joints() *Joints { return s.joints }

// --- Individual balances ---

// GetCurrency returns the identity's balance, or store.ErrNotFound if no
// account exists yet. A zero balance and a missing account are distinct.
func (s *Service) GetCurrency(ctx context.Context, identity string) (decimal.Decimal, error) {
	acct, err := s.accounts.Get(ctx, identity)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Currency, nil
}

// SetCurrency assigns the identity's balance, creating the account if needed.
func (s *Service) SetCurrency(ctx context.Context, identity string, amount decimal.Decimal) error {
	unlock := s.locks.lock(acctLockKey(identity))
	defer unlock()

	return s.accounts.SetBalance(ctx, identity, amount)
}

// AdjustCurrency applies delta atomically and returns the new balance.
// A delta that would take the balance negative fails with
// ErrInsufficientFunds and changes nothing.
func (s *Service) AdjustCurrency(ctx context.Context, identity string, delta decimal.Decimal) (decimal.Decimal, error) {
	unlock := s.locks.lock(acctLockKey(identity))
	defer unlock()

	acct, err := s.accounts.GetOrCreate(ctx, identity)
	if err != nil {
		return decimal.Zero, err
	}

	next := acct.Currency.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	acct.Currency = next
	if err := s.store.SaveAccount(ctx, acct); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// ResetCurrency zeroes the identity's balance.
func (s *Service) ResetCurrency(ctx context.Context, identity string) error {
	return s.SetCurrency(ctx, identity, decimal.Zero)
}

// Transfer moves amount from payer to payee, debiting before crediting.
// The payee account must already exist; it is not created on the fly.
func (s *Service) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if models.Key(from) == models.Key(to) {
		return ErrSelfTransfer
	}

	unlock := s.locks.lock(acctLockKey(from), acctLockKey(to))
	defer unlock()

	payee, err := s.accounts.Get(ctx, to)
	if err != nil {
		return err
	}

	payer, err := s.accounts.GetOrCreate(ctx, from)
	if err != nil {
		return err
	}
	if payer.Currency.LessThan(amount) {
		return ErrInsufficientFunds
	}

	payer.Currency = payer.Currency.Sub(amount)
	if err := s.store.SaveAccount(ctx, payer); err != nil {
		return err
	}

	payee.Currency = payee.Currency.Add(amount)
	if err := s.store.SaveAccount(ctx, payee); err != nil {
		return err
	}

	zap.L().Info("Transfer completed",
		zap.String("from", payer.Name),
		zap.String("to", payee.Name),
		zap.String("amount", amount.String()))
	return nil
}

// TopBalances returns up to limit accounts ordered by descending balance.
// Tie order follows the store's natural order and is unspecified.
func (s *Service) TopBalances(ctx context.Context, limit int) ([]models.Account, error) {
	return s.store.TopAccounts(ctx, limit)
}

// --- Joint accounts ---

// CreateJoint opens a joint account owned by identity.
func (s *Service) CreateJoint(ctx context.Context, identity, name string) (*models.JointAccount, error) {
	unlock := s.locks.lock(acctLockKey(identity), jointLockKey(name))
	defer unlock()

	requester, err := s.accounts.GetOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.joints.Create(ctx, requester, name)
}

// Invite marks invitee as invited to the inviter's joint account and returns
// the joint account's name. The inviter must be a member; the invitee must
// not belong to any joint account. A newer invite replaces an unresolved one.
func (s *Service) Invite(ctx context.Context, inviter, invitee string) (string, error) {
	joint, err := s.joints.JointOf(ctx, inviter)
	if err != nil {
		return "", err
	}

	acct, err := s.accounts.Get(ctx, invitee)
	if err == nil && acct.InJointAccount() {
		return "", ErrAlreadyMember
	}

	s.invites.set(models.Key(invitee), joint.Name)
	zap.L().Info("Joint account invite sent",
		zap.String("joint_account", joint.Name),
		zap.String("inviter", inviter),
		zap.String("invitee", invitee))
	return joint.Name, nil
}

// Accept converts the identity's pending invite into membership and returns
// the joined account's name. When joining fails the invite is kept so the
// player can retry or deny it.
func (s *Service) Accept(ctx context.Context, identity string) (string, error) {
	jointName, ok := s.invites.get(models.Key(identity))
	if !ok {
		return "", ErrNoInvite
	}

	unlock := s.locks.lock(acctLockKey(identity), jointLockKey(jointName))
	defer unlock()

	if err := s.joints.AddMember(ctx, identity, jointName); err != nil {
		return "", err
	}

	s.invites.clear(models.Key(identity))
	return jointName, nil
}

// Deny discards the identity's pending invite.
func (s *Service) Deny(ctx context.Context, identity string) error {
	key := models.Key(identity)
	if _, ok := s.invites.get(key); !ok {
		return ErrNoInvite
	}
	s.invites.clear(key)
	return nil
}

// PendingInvite reports the joint account the identity has been invited to.
func (s *Service) PendingInvite(identity string) (string, bool) {
	return s.invites.get(models.Key(identity))
}

// Leave removes the identity from its joint account. The record itself
// stays around even if the last member leaves.
func (s *Service) Leave(ctx context.Context, identity string) error {
	return s.withMemberLocks(ctx, identity, func() error {
		return s.joints.RemoveMember(ctx, identity)
	})
}

// Deposit moves amount from the identity's personal balance into its joint
// account.
func (s *Service) Deposit(ctx context.Context, identity string, amount decimal.Decimal) error {
	return s.withMemberLocks(ctx, identity, func() error {
		return s.joints.Deposit(ctx, identity, amount)
	})
}

// Withdraw moves amount from the identity's joint account back to its
// personal balance.
func (s *Service) Withdraw(ctx context.Context, identity string, amount decimal.Decimal) error {
	return s.withMemberLocks(ctx, identity, func() error {
		return s.joints.Withdraw(ctx, identity, amount)
	})
}

// JointBalance returns the pooled balance of the identity's joint account.
func (s *Service) JointBalance(ctx context.Context, identity string) (decimal.Decimal, error) {
	joint, err := s.joints.JointOf(ctx, identity)
	if err != nil {
		return decimal.Zero, err
	}
	return joint.Currency, nil
}

// JointOf resolves the identity's joint account.
func (s *Service) JointOf(ctx context.Context, identity string) (*models.JointAccount, error) {
	return s.joints.JointOf(ctx, identity)
}

// withMemberLocks runs fn while holding the identity's account lock and the
// lock of its current joint account. The joint reference is read before
// locking, so it is re-read under the locks and the attempt restarts when a
// concurrent membership change made the first read stale.
func (s *Service) withMemberLocks(ctx context.Context, identity string, fn func() error) error {
	for {
		jointName := s.memberJointName(ctx, identity)

		unlock := s.locks.lock(acctLockKey(identity), jointLockKey(jointName))
		if s.memberJointName(ctx, identity) != jointName {
			unlock()
			continue
		}

		err := fn()
		unlock()
		return err
	}
}

// memberJointName reads the identity's stored joint reference, or "" when
// the identity has no account or no membership.
func (s *Service) memberJointName(ctx context.Context, identity string) string {
	acct, err := s.accounts.Get(ctx, identity)
	if err != nil {
		return ""
	}
	return acct.JointAccount
}
