package ledger

import "errors"

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountAlreadyExists   = errors.New("account already exists")
	ErrNotSigner              = errors.New("missing required signature")
	ErrInvalidAuthority       = errors.New("invalid program authority")
	ErrInvalidAccountOwner    = errors.New("account owned by another program")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrRentExemptionViolation = errors.New("account balance below rent-exempt minimum")
	ErrNonEmptyTokenAccount   = errors.New("token account balance must be zero")
)
