package bank

import "errors"

// Precondition failures returned to the immediate caller. All are
// recoverable; none abort the process or trigger retries.
var (
	ErrAlreadyMember     = errors.New("already in a joint account")
	ErrInvalidName       = errors.New("joint account name must not be blank")
	ErrNotMember         = errors.New("not in a joint account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrNoInvite          = errors.New("no pending invite")
)
