package ledger

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub
}

func TestLedger_TransferHappyPath(t *testing.T) {
	l := New()

	payer := generateKey(t)
	recipient := generateKey(t)

	l.FundAccount(payer, 10_000_000)

	err := l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 5_000_000)
	}, payer)
	require.NoError(t, err)

	payerAccount, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, 5_000_000, payerAccount.Lamports)

	recipientAccount, err := l.GetAccount(recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 5_000_000, recipientAccount.Lamports)
}

func TestLedger_TransferAuthorization(t *testing.T) {
	l := New()

	payer := generateKey(t)
	recipient := generateKey(t)

	l.FundAccount(payer, 10_000_000)

	// Not a signer
	err := l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 5_000_000)
	})
	assert.Equal(t, ErrNotSigner, err)

	// Overdraw
	err = l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 20_000_000)
	}, payer)
	assert.Equal(t, ErrInsufficientFunds, err)

	// Nothing moved
	payerAccount, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000_000, payerAccount.Lamports)

	_, err = l.GetAccount(recipient)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestLedger_RentExemption(t *testing.T) {
	l := New()

	payer := generateKey(t)
	recipient := generateKey(t)

	l.FundAccount(payer, 10_000_000)

	// 890880 lamports for a zero-data account
	assert.EqualValues(t, 890_880, RentExemptLamports(0))
	assert.EqualValues(t, 2_039_280, RentExemptLamports(165))

	// A transfer leaving the destination below the floor fails at commit
	err := l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 890_879)
	}, payer)
	assert.Equal(t, ErrRentExemptionViolation, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 890_880)
	}, payer)
	require.NoError(t, err)
}

func TestLedger_AtomicRollback(t *testing.T) {
	l := New()

	payer := generateKey(t)
	recipient1 := generateKey(t)
	recipient2 := generateKey(t)

	l.FundAccount(payer, 2_000_000)

	err := l.Execute(func(tx *Transaction) error {
		if err := tx.Transfer(payer, recipient1, 1_000_000); err != nil {
			return err
		}
		// Second leg overdraws, the first must roll back with it
		return tx.Transfer(payer, recipient2, 2_000_000)
	}, payer)
	assert.Equal(t, ErrInsufficientFunds, err)

	payerAccount, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, payerAccount.Lamports)

	_, err = l.GetAccount(recipient1)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestLedger_CreateAndCloseAccount(t *testing.T) {
	l := New()

	payer := generateKey(t)
	address := generateKey(t)
	owner := generateKey(t)

	l.FundAccount(payer, 10_000_000)

	err := l.Execute(func(tx *Transaction) error {
		_, err := tx.CreateAccount(payer, address, owner, 81)
		return err
	}, payer)
	require.NoError(t, err)

	created, err := l.GetAccount(address)
	require.NoError(t, err)
	assert.EqualValues(t, owner, created.Owner)
	assert.EqualValues(t, RentExemptLamports(81), created.Lamports)
	assert.Len(t, created.Data, 81)

	// Double create fails
	err = l.Execute(func(tx *Transaction) error {
		_, err := tx.CreateAccount(payer, address, owner, 81)
		return err
	}, payer)
	assert.Equal(t, ErrAccountAlreadyExists, err)

	// Only the owning program closes
	err = l.Execute(func(tx *Transaction) error {
		return tx.CloseAccount(address, payer, payer)
	}, payer)
	assert.Equal(t, ErrInvalidAccountOwner, err)

	err = l.Execute(func(tx *Transaction) error {
		return tx.CloseAccount(address, payer, owner)
	}, payer)
	require.NoError(t, err)

	_, err = l.GetAccount(address)
	assert.Equal(t, ErrAccountNotFound, err)

	payerAccount, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000_000, payerAccount.Lamports)
}

func TestLedger_TransferWithAuthority(t *testing.T) {
	l := New()

	program := generateKey(t)
	recipient := generateKey(t)

	derived, bump, err := solana.FindProgramAddressAndBump(program, []byte("treasury"))
	require.NoError(t, err)

	l.FundAccount(derived, 10_000_000)
	l.FundAccount(recipient, 1_000_000)

	// Wrong seeds derive a different address, so the proof doesn't apply
	badAuthority, err := ProveAuthority(program, bump, []byte("treasuryx"))
	if err == nil {
		err = l.Execute(func(tx *Transaction) error {
			return tx.TransferWithAuthority(badAuthority, recipient, 5_000_000)
		})
		assert.Equal(t, ErrAccountNotFound, err)
	}

	authority, err := ProveAuthority(program, bump, []byte("treasury"))
	require.NoError(t, err)
	assert.EqualValues(t, derived, authority.Address())

	err = l.Execute(func(tx *Transaction) error {
		return tx.TransferWithAuthority(authority, recipient, 5_000_000)
	})
	require.NoError(t, err)

	recipientAccount, err := l.GetAccount(recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 6_000_000, recipientAccount.Lamports)
}

func TestLedger_FullDrainRequiresClose(t *testing.T) {
	l := New()

	payer := generateKey(t)
	recipient := generateKey(t)

	l.FundAccount(payer, 1_000_000)
	l.FundAccount(recipient, 1_000_000)

	// Transferring the entire balance away leaves the source below its rent
	// floor. Only an explicit close removes an account.
	err := l.Execute(func(tx *Transaction) error {
		return tx.Transfer(payer, recipient, 1_000_000)
	}, payer)
	assert.Equal(t, ErrRentExemptionViolation, err)

	account, err := l.GetAccount(payer)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, account.Lamports)

	err = l.Execute(func(tx *Transaction) error {
		return tx.CloseAccount(payer, recipient, SystemProgram)
	}, payer)
	require.NoError(t, err)

	_, err = l.GetAccount(payer)
	assert.Equal(t, ErrAccountNotFound, err)

	account, err = l.GetAccount(recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, account.Lamports)
}
