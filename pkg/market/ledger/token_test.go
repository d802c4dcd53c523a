package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
)

func TestLedger_TokenLifecycle(t *testing.T) {
	l := New()

	payer := generateKey(t)
	mintAuthority := generateKey(t)
	mint := generateKey(t)
	owner := generateKey(t)
	ownerTokens := generateKey(t)
	recipient := generateKey(t)
	recipientTokens := generateKey(t)

	l.FundAccount(payer, 100_000_000)

	err := l.Execute(func(tx *Transaction) error {
		if err := tx.InitializeMint(payer, mint, mintAuthority, 0); err != nil {
			return err
		}
		if err := tx.InitializeTokenAccount(payer, ownerTokens, mint, owner); err != nil {
			return err
		}
		return tx.InitializeTokenAccount(payer, recipientTokens, mint, recipient)
	}, payer)
	require.NoError(t, err)

	// Minting requires the mint authority's signature
	err = l.Execute(func(tx *Transaction) error {
		return tx.MintTo(mint, ownerTokens, 1, NoAuthority)
	}, payer)
	assert.Equal(t, ErrNotSigner, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.MintTo(mint, ownerTokens, 1, NoAuthority)
	}, mintAuthority)
	require.NoError(t, err)

	// Transfers require the source owner's signature
	err = l.Execute(func(tx *Transaction) error {
		return tx.TransferTokens(ownerTokens, recipientTokens, 1, NoAuthority)
	}, recipient)
	assert.Equal(t, ErrNotSigner, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.TransferTokens(ownerTokens, recipientTokens, 2, NoAuthority)
	}, owner)
	assert.Equal(t, ErrInsufficientFunds, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.TransferTokens(ownerTokens, recipientTokens, 1, NoAuthority)
	}, owner)
	require.NoError(t, err)

	err = l.Execute(func(tx *Transaction) error {
		source, err := tx.GetTokenAccount(ownerTokens)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 0, source.Amount)

		destination, err := tx.GetTokenAccount(recipientTokens)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 1, destination.Amount)
		return nil
	})
	require.NoError(t, err)

	// A non-empty token account cannot be closed
	err = l.Execute(func(tx *Transaction) error {
		return tx.CloseTokenAccount(recipientTokens, payer, NoAuthority)
	}, recipient)
	assert.Equal(t, ErrNonEmptyTokenAccount, err)

	before, err := l.GetAccount(payer)
	require.NoError(t, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.CloseTokenAccount(ownerTokens, payer, NoAuthority)
	}, owner)
	require.NoError(t, err)

	_, err = l.GetAccount(ownerTokens)
	assert.Equal(t, ErrAccountNotFound, err)

	after, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, before.Lamports+RentExemptLamports(165), after.Lamports)
}

func TestLedger_TokenAuthorityOperations(t *testing.T) {
	l := New()

	payer := generateKey(t)
	program := generateKey(t)
	mint := generateKey(t)
	holderTokens := generateKey(t)
	recipient := generateKey(t)
	recipientTokens := generateKey(t)

	derived, bump, err := solana.FindProgramAddressAndBump(program, []byte("auth"), mint)
	require.NoError(t, err)

	l.FundAccount(payer, 100_000_000)

	err = l.Execute(func(tx *Transaction) error {
		if err := tx.InitializeMint(payer, mint, derived, 6); err != nil {
			return err
		}
		if err := tx.InitializeTokenAccount(payer, holderTokens, mint, derived); err != nil {
			return err
		}
		return tx.InitializeTokenAccount(payer, recipientTokens, mint, recipient)
	}, payer)
	require.NoError(t, err)

	authority, err := ProveAuthority(program, bump, []byte("auth"), mint)
	require.NoError(t, err)
	require.EqualValues(t, derived, authority.Address())

	err = l.Execute(func(tx *Transaction) error {
		if err := tx.MintTo(mint, holderTokens, 10_000_000, authority); err != nil {
			return err
		}
		return tx.TransferTokens(holderTokens, recipientTokens, 10_000_000, authority)
	})
	require.NoError(t, err)

	err = l.Execute(func(tx *Transaction) error {
		destination, err := tx.GetTokenAccount(recipientTokens)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 10_000_000, destination.Amount)
		return nil
	})
	require.NoError(t, err)
}
