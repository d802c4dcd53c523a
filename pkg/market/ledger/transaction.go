package ledger

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// Transaction buffers reads and writes against a ledger. Nothing is visible
// outside the transaction until commit, and commit only happens if every
// touched surviving account remains rent exempt.
type Transaction struct {
	ledger  *Ledger
	signers map[string]struct{}
	pending map[string]*Account
	deleted map[string]struct{}
}

func (t *Transaction) IsSigner(address ed25519.PublicKey) bool {
	_, ok := t.signers[base58.Encode(address)]
	return ok
}

// GetAccount returns the working copy of an account. Mutations to the
// returned value are part of the transaction.
func (t *Transaction) GetAccount(address ed25519.PublicKey) (*Account, error) {
	return t.touch(address)
}

// CreateAccount allocates a zeroed account of the given size, owned by the
// provided program and funded to the rent-exempt minimum out of funder.
func (t *Transaction) CreateAccount(funder, address, owner ed25519.PublicKey, space int) (*Account, error) {
	key := base58.Encode(address)

	if _, ok := t.deleted[key]; !ok {
		if _, ok := t.pending[key]; ok {
			return nil, ErrAccountAlreadyExists
		}
		if _, ok := t.ledger.accounts[key]; ok {
			return nil, ErrAccountAlreadyExists
		}
	}

	lamports := RentExemptLamports(space)
	if err := t.debit(funder, lamports); err != nil {
		return nil, err
	}

	account := &Account{
		Address:  address,
		Owner:    owner,
		Lamports: lamports,
		Data:     make([]byte, space),
	}
	t.pending[key] = account
	delete(t.deleted, key)

	return account, nil
}

// Transfer moves lamports between system accounts. The source must have
// signed the transaction. The destination is created if it doesn't exist.
func (t *Transaction) Transfer(from, to ed25519.PublicKey, lamports uint64) error {
	if !t.IsSigner(from) {
		return ErrNotSigner
	}
	if err := t.debit(from, lamports); err != nil {
		return err
	}
	return t.credit(to, lamports)
}

// TransferWithAuthority moves lamports out of a program-derived system
// account. The proven authority stands in for the missing signature.
func (t *Transaction) TransferWithAuthority(authority Authority, to ed25519.PublicKey, lamports uint64) error {
	if !authority.isValid() {
		return ErrInvalidAuthority
	}
	if err := t.debit(authority.address, lamports); err != nil {
		return err
	}
	return t.credit(to, lamports)
}

// CloseAccount refunds the account's entire balance to the destination and
// removes it from the ledger. Only the owning program may close an account.
func (t *Transaction) CloseAccount(address, destination, owner ed25519.PublicKey) error {
	account, err := t.touch(address)
	if err != nil {
		return err
	}
	if !bytes.Equal(account.Owner, owner) {
		return ErrInvalidAccountOwner
	}

	lamports := account.Lamports
	account.Lamports = 0
	account.Data = nil

	key := base58.Encode(address)
	delete(t.pending, key)
	t.deleted[key] = struct{}{}

	return t.credit(destination, lamports)
}

func (t *Transaction) touch(address ed25519.PublicKey) (*Account, error) {
	key := base58.Encode(address)

	if _, ok := t.deleted[key]; ok {
		return nil, ErrAccountNotFound
	}
	if account, ok := t.pending[key]; ok {
		return account, nil
	}

	base, ok := t.ledger.accounts[key]
	if !ok {
		return nil, ErrAccountNotFound
	}

	account := base.Clone()
	t.pending[key] = account
	return account, nil
}

func (t *Transaction) debit(from ed25519.PublicKey, lamports uint64) error {
	account, err := t.touch(from)
	if err != nil {
		return err
	}
	if !bytes.Equal(account.Owner, SystemProgram) {
		return ErrInvalidAccountOwner
	}
	if account.Lamports < lamports {
		return ErrInsufficientFunds
	}

	account.Lamports -= lamports
	return nil
}

func (t *Transaction) credit(to ed25519.PublicKey, lamports uint64) error {
	account, err := t.touch(to)
	if err == ErrAccountNotFound {
		key := base58.Encode(to)
		account = &Account{
			Address: to,
			Owner:   SystemProgram,
		}
		t.pending[key] = account
		delete(t.deleted, key)
	} else if err != nil {
		return err
	}

	account.Lamports += lamports
	return nil
}

func (t *Transaction) commit() error {
	// Only explicitly closed accounts leave the ledger. Anything else that
	// survives the transaction must cover its own rent, so a debit that
	// merely drains an account fails here.
	for _, account := range t.pending {
		if account.Lamports < RentExemptLamports(len(account.Data)) {
			return ErrRentExemptionViolation
		}
	}

	for key := range t.deleted {
		delete(t.ledger.accounts, key)
	}
	for key, account := range t.pending {
		t.ledger.accounts[key] = account
	}

	return nil
}
