package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	vault_program "github.com/openmarket-labs/marketplace-server/pkg/solana/vault"
	"github.com/openmarket-labs/marketplace-server/pkg/testutil"
)

func (env *testEnv) setupVault(t *testing.T) (owner, vaultState *common.Account, vault []byte) {
	owner = testutil.NewFundedAccount(t, env.ledger, funding)
	vaultState = testutil.NewRandomAccount(t)

	require.NoError(t, env.processor.InitializeVault(env.ctx, owner, vaultState))

	vaultAuth, _, err := vault_program.GetAuthorityAddress(&vault_program.GetAuthorityAddressArgs{
		VaultState: vaultState.PublicKey().ToBytes(),
	})
	require.NoError(t, err)

	vault, _, err = vault_program.GetVaultAddress(&vault_program.GetVaultAddressArgs{
		Authority: vaultAuth,
	})
	require.NoError(t, err)

	return owner, vaultState, vault
}

func TestVault_Initialize(t *testing.T) {
	env := setup(t)

	owner, vaultState, vault := env.setupVault(t)

	stateRent := ledger.RentExemptLamports(vault_program.VaultStateAccountSize)
	assert.EqualValues(t, funding-stateRent, env.lamports(t, owner))

	stateAccount, err := env.ledger.GetAccount(vaultState.PublicKey().ToBytes())
	require.NoError(t, err)
	assert.EqualValues(t, vault_program.PROGRAM_ID, stateAccount.Owner)

	var state vault_program.VaultStateAccount
	require.NoError(t, state.Unmarshal(stateAccount.Data))
	assert.EqualValues(t, owner.PublicKey().ToBytes(), state.Owner)

	// The lamport vault itself doesn't exist until the first deposit
	vaultAccount, err := common.NewAccountFromPublicKeyBytes(vault)
	require.NoError(t, err)
	assert.EqualValues(t, 0, env.lamports(t, vaultAccount))

	// The state account address is taken
	assert.Equal(t, ledger.ErrAccountAlreadyExists, env.processor.InitializeVault(env.ctx, owner, vaultState))
}

func TestVault_DepositAndWithdraw(t *testing.T) {
	env := setup(t)

	owner, vaultState, vault := env.setupVault(t)
	vaultAccount, err := common.NewAccountFromPublicKeyBytes(vault)
	require.NoError(t, err)

	// The first deposit has to leave the vault rent exempt
	assert.Equal(t, ledger.ErrRentExemptionViolation, env.processor.Deposit(env.ctx, owner, vaultState, ledger.RentExemptLamports(0)-1))

	require.NoError(t, env.processor.Deposit(env.ctx, owner, vaultState, 5*sol))
	assert.EqualValues(t, 5*sol, env.lamports(t, vaultAccount))

	require.NoError(t, env.processor.Withdraw(env.ctx, owner, vaultState, 2*sol))
	assert.EqualValues(t, 3*sol, env.lamports(t, vaultAccount))

	// A withdrawal can't dip below the rent floor; recovering everything is
	// what close is for
	assert.Equal(t, ledger.ErrRentExemptionViolation, env.processor.Withdraw(env.ctx, owner, vaultState, 3*sol-1))
	assert.Equal(t, ledger.ErrRentExemptionViolation, env.processor.Withdraw(env.ctx, owner, vaultState, 3*sol))
	assert.Equal(t, ledger.ErrInsufficientFunds, env.processor.Withdraw(env.ctx, owner, vaultState, 4*sol))

	ownerBefore := env.lamports(t, owner)
	require.NoError(t, env.processor.Withdraw(env.ctx, owner, vaultState, sol))
	assert.EqualValues(t, ownerBefore+sol, env.lamports(t, owner))
}

func TestVault_OwnerOnly(t *testing.T) {
	env := setup(t)

	owner, vaultState, _ := env.setupVault(t)
	require.NoError(t, env.processor.Deposit(env.ctx, owner, vaultState, sol))

	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	assert.Equal(t, ledger.ErrNotSigner, env.processor.Deposit(env.ctx, intruder, vaultState, sol))
	assert.Equal(t, ledger.ErrNotSigner, env.processor.Withdraw(env.ctx, intruder, vaultState, sol))
	assert.Equal(t, ledger.ErrNotSigner, env.processor.CloseVault(env.ctx, intruder, vaultState))
}

func TestVault_Close(t *testing.T) {
	env := setup(t)

	owner, vaultState, vault := env.setupVault(t)
	vaultAccount, err := common.NewAccountFromPublicKeyBytes(vault)
	require.NoError(t, err)

	require.NoError(t, env.processor.Deposit(env.ctx, owner, vaultState, 3*sol))

	ownerBefore := env.lamports(t, owner)
	require.NoError(t, env.processor.CloseVault(env.ctx, owner, vaultState))

	// The owner walks away with the balance plus the state account rent
	stateRent := ledger.RentExemptLamports(vault_program.VaultStateAccountSize)
	assert.EqualValues(t, ownerBefore+3*sol+stateRent, env.lamports(t, owner))

	_, err = env.ledger.GetAccount(vaultState.PublicKey().ToBytes())
	assert.Equal(t, ledger.ErrAccountNotFound, err)
	assert.EqualValues(t, 0, env.lamports(t, vaultAccount))

	assert.Equal(t, ledger.ErrAccountNotFound, env.processor.CloseVault(env.ctx, owner, vaultState))
}

func TestVault_CloseBeforeDeposit(t *testing.T) {
	env := setup(t)

	owner, vaultState, _ := env.setupVault(t)

	ownerBefore := env.lamports(t, owner)
	require.NoError(t, env.processor.CloseVault(env.ctx, owner, vaultState))

	stateRent := ledger.RentExemptLamports(vault_program.VaultStateAccountSize)
	assert.EqualValues(t, ownerBefore+stateRent, env.lamports(t, owner))
}

func TestVault_MultipleVaultsPerOwner(t *testing.T) {
	env := setup(t)

	owner := testutil.NewFundedAccount(t, env.ledger, funding)

	first := testutil.NewRandomAccount(t)
	second := testutil.NewRandomAccount(t)
	require.NoError(t, env.processor.InitializeVault(env.ctx, owner, first))
	require.NoError(t, env.processor.InitializeVault(env.ctx, owner, second))

	require.NoError(t, env.processor.Deposit(env.ctx, owner, first, sol))
	require.NoError(t, env.processor.Deposit(env.ctx, owner, second, 2*sol))

	require.NoError(t, env.processor.CloseVault(env.ctx, owner, first))

	// The second vault is untouched
	require.NoError(t, env.processor.Withdraw(env.ctx, owner, second, sol))
}
