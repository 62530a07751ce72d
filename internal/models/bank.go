package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Key returns the canonical form of a player or joint-account name. All
// lookups, member sets, lock keys and invite markers use this form; display
// casing is kept separately on the record itself.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Account represents a single player's bank account. The display name keeps
// whatever casing the player registered with; lookups always go through the
// canonical key.
type Account struct {
	Id           string          `db:"id"`
	Name         string          `db:"name"`
	Currency     decimal.Decimal `db:"currency"`
	JointAccount string          `db:"joint_account"` // canonical joint name, empty = no membership
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// InJointAccount reports whether the account currently belongs to a joint account.
func (a *Account) InJointAccount() bool {
	return a.JointAccount != ""
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// KillReward is a per-mob currency reward with the chat color the host
// should use when announcing it.
type KillReward struct {
	Mob    string
	Reward decimal.Decimal
	Color  string
}

// JointAccount is a named pooled balance shared by multiple players.
// Members holds display names in join order.
type JointAccount struct {
	Id        string          `db:"id"`
	Name      string          `db:"name"`
	Currency  decimal.Decimal `db:"currency"`
	Members   []string
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (j *JointAccount) Clone() *JointAccount {
	cp := *j
	cp.Members = append([]string(nil), j.Members...)
	return &cp
}
