package ledger

import (
	"bytes"
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana/token"
)

// Token helpers operate on accounts owned by the SPL token program, with
// account data in the SPL wire layouts.

// InitializeMint creates a mint account with the provided authority.
func (t *Transaction) InitializeMint(funder, address, authority ed25519.PublicKey, decimals uint8) error {
	account, err := t.CreateAccount(funder, address, token.ProgramKey, token.MintSize)
	if err != nil {
		return err
	}

	mint := token.Mint{
		MintAuthority: authority,
		Decimals:      decimals,
		IsInitialized: true,
	}
	copy(account.Data, mint.Marshal())

	return nil
}

// InitializeTokenAccount creates an empty token account holding tokens of
// the provided mint on behalf of owner.
func (t *Transaction) InitializeTokenAccount(funder, address, mint, owner ed25519.PublicKey) error {
	account, err := t.CreateAccount(funder, address, token.ProgramKey, token.AccountSize)
	if err != nil {
		return err
	}

	tokenAccount := token.Account{
		Mint:  mint,
		Owner: owner,
		State: token.AccountStateInitialized,
	}
	copy(account.Data, tokenAccount.Marshal())

	return nil
}

// MintTo mints new tokens into a token account. The mint authority must
// have signed the transaction or be a proven program authority.
func (t *Transaction) MintTo(mint, destination ed25519.PublicKey, amount uint64, authority Authority) error {
	mintAccount, err := t.touch(mint)
	if err != nil {
		return err
	}

	var mintState token.Mint
	if !mintState.Unmarshal(mintAccount.Data) {
		return ErrInvalidAccountOwner
	}

	authorized := t.IsSigner(mintState.MintAuthority)
	if !authorized && authority.isValid() && bytes.Equal(authority.address, mintState.MintAuthority) {
		authorized = true
	}
	if !authorized {
		return ErrNotSigner
	}

	destState, destAccount, err := t.getTokenAccount(destination)
	if err != nil {
		return err
	}

	mintState.Supply += amount
	destState.Amount += amount

	copy(mintAccount.Data, mintState.Marshal())
	copy(destAccount.Data, destState.Marshal())

	return nil
}

// TransferTokens moves tokens between two token accounts of the same mint.
// The source account's owner must have signed or be a proven authority.
func (t *Transaction) TransferTokens(source, destination ed25519.PublicKey, amount uint64, authority Authority) error {
	sourceState, sourceAccount, err := t.getTokenAccount(source)
	if err != nil {
		return err
	}

	authorized := t.IsSigner(sourceState.Owner)
	if !authorized && authority.isValid() && bytes.Equal(authority.address, sourceState.Owner) {
		authorized = true
	}
	if !authorized {
		return ErrNotSigner
	}

	destState, destAccount, err := t.getTokenAccount(destination)
	if err != nil {
		return err
	}
	if !bytes.Equal(sourceState.Mint, destState.Mint) {
		return ErrInvalidAccountOwner
	}

	if sourceState.Amount < amount {
		return ErrInsufficientFunds
	}

	sourceState.Amount -= amount
	destState.Amount += amount

	copy(sourceAccount.Data, sourceState.Marshal())
	copy(destAccount.Data, destState.Marshal())

	return nil
}

// CloseTokenAccount reclaims an emptied token account's rent. The balance
// must already be zero.
func (t *Transaction) CloseTokenAccount(address, destination ed25519.PublicKey, authority Authority) error {
	state, _, err := t.getTokenAccount(address)
	if err != nil {
		return err
	}

	authorized := t.IsSigner(state.Owner)
	if !authorized && authority.isValid() && bytes.Equal(authority.address, state.Owner) {
		authorized = true
	}
	if !authorized {
		return ErrNotSigner
	}

	if state.Amount != 0 {
		return ErrNonEmptyTokenAccount
	}

	return t.CloseAccount(address, destination, token.ProgramKey)
}

// GetTokenAccount decodes the token account at the provided address without
// authorizing any mutation.
func (t *Transaction) GetTokenAccount(address ed25519.PublicKey) (*token.Account, error) {
	state, _, err := t.getTokenAccount(address)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (t *Transaction) getTokenAccount(address ed25519.PublicKey) (*token.Account, *Account, error) {
	account, err := t.touch(address)
	if err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(account.Owner, token.ProgramKey) {
		return nil, nil, ErrInvalidAccountOwner
	}

	var state token.Account
	if !state.Unmarshal(account.Data) {
		return nil, nil, ErrInvalidAccountOwner
	}

	return &state, account, nil
}
