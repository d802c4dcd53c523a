package processor

import (
	"bytes"
	"context"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	vault_program "github.com/openmarket-labs/marketplace-server/pkg/solana/vault"
)

// InitializeVault creates a personal lamport vault. The vault state is a
// fresh keypair account, so a single owner can run any number of vaults.
func (p *Processor) InitializeVault(ctx context.Context, owner, vaultState *common.Account) error {
	log := p.log.WithFields(map[string]interface{}{
		"method":      "InitializeVault",
		"owner":       owner.PublicKey().ToBase58(),
		"vault_state": vaultState.PublicKey().ToBase58(),
	})

	vaultAuth, authBump, err := vault_program.GetAuthorityAddress(&vault_program.GetAuthorityAddressArgs{
		VaultState: vaultState.PublicKey().ToBytes(),
	})
	if err != nil {
		log.WithError(err).Warn("failure deriving vault authority address")
		return err
	}

	_, vaultBump, err := vault_program.GetVaultAddress(&vault_program.GetVaultAddressArgs{
		Authority: vaultAuth,
	})
	if err != nil {
		log.WithError(err).Warn("failure deriving vault address")
		return err
	}

	state := &vault_program.VaultStateAccount{
		Owner:     owner.PublicKey().ToBytes(),
		AuthBump:  authBump,
		VaultBump: vaultBump,
	}

	return p.ledger.Execute(func(tx *ledger.Transaction) error {
		account, err := tx.CreateAccount(
			owner.PublicKey().ToBytes(),
			vaultState.PublicKey().ToBytes(),
			vault_program.PROGRAM_ID,
			vault_program.VaultStateAccountSize,
		)
		if err != nil {
			return err
		}
		copy(account.Data, state.Marshal())

		return nil
	}, owner.PublicKey().ToBytes(), vaultState.PublicKey().ToBytes())
}

// Deposit moves lamports from the owner into the vault.
func (p *Processor) Deposit(ctx context.Context, owner, vaultState *common.Account, amount uint64) error {
	return p.ledger.Execute(func(tx *ledger.Transaction) error {
		state, err := p.getVaultState(tx, owner, vaultState)
		if err != nil {
			return err
		}

		vault, err := vaultAuthority(vaultState, state)
		if err != nil {
			return err
		}

		return tx.Transfer(owner.PublicKey().ToBytes(), vault.Address(), amount)
	}, owner.PublicKey().ToBytes())
}

// Withdraw moves lamports from the vault back to the owner. The vault PDA
// has no key, so the transfer is signed by re-deriving it from the stored
// bumps.
func (p *Processor) Withdraw(ctx context.Context, owner, vaultState *common.Account, amount uint64) error {
	return p.ledger.Execute(func(tx *ledger.Transaction) error {
		state, err := p.getVaultState(tx, owner, vaultState)
		if err != nil {
			return err
		}

		vault, err := vaultAuthority(vaultState, state)
		if err != nil {
			return err
		}

		return tx.TransferWithAuthority(vault, owner.PublicKey().ToBytes(), amount)
	}, owner.PublicKey().ToBytes())
}

// CloseVault drains the vault and reclaims all rent to the owner. The owner
// walks away with the remaining balance plus both rent deposits.
func (p *Processor) CloseVault(ctx context.Context, owner, vaultState *common.Account) error {
	return p.ledger.Execute(func(tx *ledger.Transaction) error {
		state, err := p.getVaultState(tx, owner, vaultState)
		if err != nil {
			return err
		}

		vault, err := vaultAuthority(vaultState, state)
		if err != nil {
			return err
		}

		// Drain the vault with the PDA's proof, then close the empty shell
		vaultAccount, err := tx.GetAccount(vault.Address())
		if err == nil {
			if vaultAccount.Lamports > 0 {
				if err := tx.TransferWithAuthority(vault, owner.PublicKey().ToBytes(), vaultAccount.Lamports); err != nil {
					return err
				}
			}
			if err := tx.CloseAccount(vault.Address(), owner.PublicKey().ToBytes(), ledger.SystemProgram); err != nil {
				return err
			}
		} else if err != ledger.ErrAccountNotFound {
			return err
		}

		return tx.CloseAccount(
			vaultState.PublicKey().ToBytes(),
			owner.PublicKey().ToBytes(),
			vault_program.PROGRAM_ID,
		)
	}, owner.PublicKey().ToBytes())
}

func (p *Processor) getVaultState(tx *ledger.Transaction, owner, vaultState *common.Account) (*vault_program.VaultStateAccount, error) {
	account, err := tx.GetAccount(vaultState.PublicKey().ToBytes())
	if err != nil {
		return nil, err
	}

	var state vault_program.VaultStateAccount
	if err := state.Unmarshal(account.Data); err != nil {
		return nil, err
	}

	if !bytes.Equal(state.Owner, owner.PublicKey().ToBytes()) {
		return nil, ledger.ErrNotSigner
	}

	return &state, nil
}

// vaultAuthority proves control of the vault PDA from the bumps recorded in
// the vault state.
func vaultAuthority(vaultState *common.Account, state *vault_program.VaultStateAccount) (ledger.Authority, error) {
	authority, err := ledger.ProveAuthority(
		vault_program.PROGRAM_ID,
		state.AuthBump,
		vault_program.AuthPrefix,
		vaultState.PublicKey().ToBytes(),
	)
	if err != nil {
		return ledger.NoAuthority, err
	}

	return ledger.ProveAuthority(
		vault_program.PROGRAM_ID,
		state.VaultBump,
		vault_program.VaultPrefix,
		authority.Address(),
	)
}
