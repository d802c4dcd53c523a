package processor

import (
	"bytes"
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	listing_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
	marketplace_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	marketplace_program "github.com/openmarket-labs/marketplace-server/pkg/solana/marketplace"
	vault_program "github.com/openmarket-labs/marketplace-server/pkg/solana/vault"
)

// Processor executes marketplace and vault program operations against the
// ledger, keeping the off-chain index stores up to date as a side effect.
//
// Execution is deterministic and serial per ledger. Signature verification
// is assumed to have happened at the transport layer, so instruction account
// metas flagged as signers are trusted.
type Processor struct {
	log  *logrus.Entry
	conf *conf

	ledger *ledger.Ledger

	marketplaces marketplace_store.Store
	listings     listing_store.Store
}

func New(
	l *ledger.Ledger,
	marketplaces marketplace_store.Store,
	listings listing_store.Store,
	configProvider ConfigProvider,
) *Processor {
	return &Processor{
		log:  logrus.StandardLogger().WithField("type", "market/processor"),
		conf: configProvider(),

		ledger: l,

		marketplaces: marketplaces,
		listings:     listings,
	}
}

// Submit executes a single wire instruction. The instruction is dispatched
// on its program id and discriminator.
func (p *Processor) Submit(ctx context.Context, instruction marketplace_program.Instruction) error {
	if bytes.Equal(instruction.Program, marketplace_program.PROGRAM_ID) {
		return p.submitMarketplaceInstruction(ctx, instruction)
	}

	if bytes.Equal(instruction.Program, vault_program.PROGRAM_ID) {
		return p.submitVaultInstruction(ctx, instruction)
	}

	return marketplace_program.ErrInvalidProgram
}

func (p *Processor) submitMarketplaceInstruction(ctx context.Context, instruction marketplace_program.Instruction) error {
	if args, accounts, err := marketplace_program.DecompileInitialize(instruction); err == nil {
		admin, err := common.NewAccountFromPublicKeyBytes(accounts.Admin)
		if err != nil {
			return err
		}

		_, err = p.InitializeMarketplace(ctx, admin, args.Name, args.Fee)
		return err
	}

	if args, accounts, err := marketplace_program.DecompileUpdateMarketplace(instruction); err == nil {
		admin, err := common.NewAccountFromPublicKeyBytes(accounts.Admin)
		if err != nil {
			return err
		}
		marketplaceAccount, err := common.NewAccountFromPublicKeyBytes(accounts.Marketplace)
		if err != nil {
			return err
		}

		return p.UpdateMarketplace(ctx, admin, marketplaceAccount, args.NewFee)
	}

	if args, accounts, err := marketplace_program.DecompileWithdrawFees(instruction); err == nil {
		admin, err := common.NewAccountFromPublicKeyBytes(accounts.Admin)
		if err != nil {
			return err
		}
		marketplaceAccount, err := common.NewAccountFromPublicKeyBytes(accounts.Marketplace)
		if err != nil {
			return err
		}

		return p.WithdrawFees(ctx, admin, marketplaceAccount, args.Amount)
	}

	if args, accounts, err := marketplace_program.DecompileList(instruction); err == nil {
		maker, err := common.NewAccountFromPublicKeyBytes(accounts.Maker)
		if err != nil {
			return err
		}
		marketplaceAccount, err := common.NewAccountFromPublicKeyBytes(accounts.Marketplace)
		if err != nil {
			return err
		}
		mint, err := common.NewAccountFromPublicKeyBytes(accounts.Mint)
		if err != nil {
			return err
		}
		collectionMint, err := common.NewAccountFromPublicKeyBytes(accounts.CollectionMint)
		if err != nil {
			return err
		}

		return p.List(ctx, maker, marketplaceAccount, mint, collectionMint, args.Price)
	}

	if accounts, err := marketplace_program.DecompilePurchase(instruction); err == nil {
		taker, err := common.NewAccountFromPublicKeyBytes(accounts.Taker)
		if err != nil {
			return err
		}
		maker, err := common.NewAccountFromPublicKeyBytes(accounts.Maker)
		if err != nil {
			return err
		}
		marketplaceAccount, err := common.NewAccountFromPublicKeyBytes(accounts.Marketplace)
		if err != nil {
			return err
		}
		mint, err := common.NewAccountFromPublicKeyBytes(accounts.Mint)
		if err != nil {
			return err
		}

		return p.Purchase(ctx, taker, maker, marketplaceAccount, mint)
	}

	if accounts, err := marketplace_program.DecompileDelist(instruction); err == nil {
		maker, err := common.NewAccountFromPublicKeyBytes(accounts.Maker)
		if err != nil {
			return err
		}
		marketplaceAccount, err := common.NewAccountFromPublicKeyBytes(accounts.Marketplace)
		if err != nil {
			return err
		}
		mint, err := common.NewAccountFromPublicKeyBytes(accounts.Mint)
		if err != nil {
			return err
		}

		return p.Delist(ctx, maker, marketplaceAccount, mint)
	}

	return marketplace_program.ErrInvalidInstructionData
}

func (p *Processor) submitVaultInstruction(ctx context.Context, instruction marketplace_program.Instruction) error {
	converted := vault_program.Instruction{
		Program:  instruction.Program,
		Accounts: make([]vault_program.AccountMeta, len(instruction.Accounts)),
		Data:     instruction.Data,
	}
	for i, meta := range instruction.Accounts {
		converted.Accounts[i] = vault_program.AccountMeta{
			PublicKey:  meta.PublicKey,
			IsWritable: meta.IsWritable,
			IsSigner:   meta.IsSigner,
		}
	}

	if accounts, err := vault_program.DecompileInitialize(converted); err == nil {
		owner, err := common.NewAccountFromPublicKeyBytes(accounts.Owner)
		if err != nil {
			return err
		}
		vaultState, err := common.NewAccountFromPublicKeyBytes(accounts.VaultState)
		if err != nil {
			return err
		}

		return p.InitializeVault(ctx, owner, vaultState)
	}

	if args, accounts, err := vault_program.DecompileDeposit(converted); err == nil {
		owner, err := common.NewAccountFromPublicKeyBytes(accounts.Owner)
		if err != nil {
			return err
		}
		vaultState, err := common.NewAccountFromPublicKeyBytes(accounts.VaultState)
		if err != nil {
			return err
		}

		return p.Deposit(ctx, owner, vaultState, args.Amount)
	}

	if args, accounts, err := vault_program.DecompileWithdraw(converted); err == nil {
		owner, err := common.NewAccountFromPublicKeyBytes(accounts.Owner)
		if err != nil {
			return err
		}
		vaultState, err := common.NewAccountFromPublicKeyBytes(accounts.VaultState)
		if err != nil {
			return err
		}

		return p.Withdraw(ctx, owner, vaultState, args.Amount)
	}

	if accounts, err := vault_program.DecompileClose(converted); err == nil {
		owner, err := common.NewAccountFromPublicKeyBytes(accounts.Owner)
		if err != nil {
			return err
		}
		vaultState, err := common.NewAccountFromPublicKeyBytes(accounts.VaultState)
		if err != nil {
			return err
		}

		return p.CloseVault(ctx, owner, vaultState)
	}

	return vault_program.ErrInvalidInstructionData
}
