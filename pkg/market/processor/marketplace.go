package processor

import (
	"bytes"
	"context"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	listing_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
	marketplace_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	marketplace_program "github.com/openmarket-labs/marketplace-server/pkg/solana/marketplace"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/metadata"
)

// InitializeMarketplace creates a marketplace with its treasury and reward
// mint. The admin funds all three accounts.
func (p *Processor) InitializeMarketplace(ctx context.Context, admin *common.Account, name string, feeBasisPoints uint16) (*common.MarketplaceAccounts, error) {
	log := p.log.WithFields(map[string]interface{}{
		"method": "InitializeMarketplace",
		"admin":  admin.PublicKey().ToBase58(),
		"name":   name,
	})

	if len(name) == 0 || len(name) > marketplace_program.MaxNameLength {
		return nil, marketplace_program.ErrInvalidName
	}
	if feeBasisPoints > marketplace_program.MaxFeeBasisPoints {
		return nil, marketplace_program.ErrInvalidFee
	}

	accounts, err := common.GetMarketplaceAccounts(admin, name)
	if err != nil {
		log.WithError(err).Warn("failure deriving marketplace accounts")
		return nil, err
	}

	state := &marketplace_program.MarketplaceAccount{
		Admin:        admin.PublicKey().ToBytes(),
		Fee:          feeBasisPoints,
		Bump:         accounts.Bump,
		TreasuryBump: accounts.TreasuryBump,
		RewardsBump:  accounts.RewardsBump,
		Name:         name,
	}

	rewardMintDecimals := uint8(p.conf.rewardMintDecimals.Get(ctx))

	err = p.ledger.Execute(func(tx *ledger.Transaction) error {
		account, err := tx.CreateAccount(
			admin.PublicKey().ToBytes(),
			accounts.Marketplace.PublicKey().ToBytes(),
			marketplace_program.PROGRAM_ID,
			marketplace_program.MarketplaceAccountSize,
		)
		if err != nil {
			return err
		}
		copy(account.Data, state.Marshal())

		_, err = tx.CreateAccount(
			admin.PublicKey().ToBytes(),
			accounts.Treasury.PublicKey().ToBytes(),
			ledger.SystemProgram,
			0,
		)
		if err != nil {
			return err
		}

		return tx.InitializeMint(
			admin.PublicKey().ToBytes(),
			accounts.RewardMint.PublicKey().ToBytes(),
			accounts.Marketplace.PublicKey().ToBytes(),
			rewardMintDecimals,
		)
	}, admin.PublicKey().ToBytes())
	if err != nil {
		return nil, err
	}

	record := &marketplace_store.Record{
		Address:        accounts.Marketplace.PublicKey().ToBase58(),
		Name:           name,
		Admin:          admin.PublicKey().ToBase58(),
		FeeBasisPoints: feeBasisPoints,
	}
	if err := p.marketplaces.Put(ctx, record); err != nil {
		log.WithError(err).Warn("failure updating marketplace index")
	}

	return accounts, nil
}

// UpdateMarketplace updates mutable marketplace configuration. Only the
// recorded admin may do so. A nil fee leaves the take rate untouched.
func (p *Processor) UpdateMarketplace(ctx context.Context, admin, marketplaceAccount *common.Account, newFeeBasisPoints *uint16) error {
	log := p.log.WithFields(map[string]interface{}{
		"method":      "UpdateMarketplace",
		"admin":       admin.PublicKey().ToBase58(),
		"marketplace": marketplaceAccount.PublicKey().ToBase58(),
	})

	if newFeeBasisPoints != nil && *newFeeBasisPoints > marketplace_program.MaxFeeBasisPoints {
		return marketplace_program.ErrInvalidFee
	}

	err := p.ledger.Execute(func(tx *ledger.Transaction) error {
		account, err := tx.GetAccount(marketplaceAccount.PublicKey().ToBytes())
		if err != nil {
			return err
		}

		var state marketplace_program.MarketplaceAccount
		if err := state.Unmarshal(account.Data); err != nil {
			return marketplace_program.ErrInvalidMarketplaceState
		}

		if !bytes.Equal(state.Admin, admin.PublicKey().ToBytes()) {
			return marketplace_program.ErrUnauthorized
		}

		if newFeeBasisPoints == nil {
			return nil
		}

		state.Fee = *newFeeBasisPoints
		copy(account.Data, state.Marshal())
		return nil
	}, admin.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	if newFeeBasisPoints != nil {
		if err := p.marketplaces.UpdateFee(ctx, marketplaceAccount.PublicKey().ToBase58(), *newFeeBasisPoints); err != nil {
			log.WithError(err).Warn("failure updating marketplace index")
		}
	}

	return nil
}

// WithdrawFees moves accrued fees out of the treasury to the admin. The
// treasury always retains its rent-exempt floor.
func (p *Processor) WithdrawFees(ctx context.Context, admin, marketplaceAccount *common.Account, amount uint64) error {
	return p.ledger.Execute(func(tx *ledger.Transaction) error {
		account, err := tx.GetAccount(marketplaceAccount.PublicKey().ToBytes())
		if err != nil {
			return err
		}

		var state marketplace_program.MarketplaceAccount
		if err := state.Unmarshal(account.Data); err != nil {
			return marketplace_program.ErrInvalidMarketplaceState
		}

		if !bytes.Equal(state.Admin, admin.PublicKey().ToBytes()) {
			return marketplace_program.ErrUnauthorized
		}

		treasuryAuthority, err := ledger.ProveAuthority(
			marketplace_program.PROGRAM_ID,
			state.TreasuryBump,
			marketplace_program.TreasuryPrefix,
			marketplaceAccount.PublicKey().ToBytes(),
		)
		if err != nil {
			return err
		}

		return tx.TransferWithAuthority(treasuryAuthority, admin.PublicKey().ToBytes(), amount)
	}, admin.PublicKey().ToBytes())
}

// List escrows an NFT and creates its listing. The maker funds the listing
// account and the vault, and gets both back when the listing closes.
func (p *Processor) List(ctx context.Context, maker, marketplaceAccount, mint, collectionMint *common.Account, priceLamports uint64) error {
	log := p.log.WithFields(map[string]interface{}{
		"method":      "List",
		"maker":       maker.PublicKey().ToBase58(),
		"marketplace": marketplaceAccount.PublicKey().ToBase58(),
		"mint":        mint.PublicKey().ToBase58(),
	})

	if priceLamports == 0 {
		return marketplace_program.ErrInvalidPrice
	}

	listingAccounts, err := common.GetListingAccounts(marketplaceAccount, mint)
	if err != nil {
		log.WithError(err).Warn("failure deriving listing accounts")
		return err
	}

	makerTokens, err := maker.ToAssociatedTokenAccount(mint)
	if err != nil {
		return err
	}

	state := &marketplace_program.ListingAccount{
		Maker: maker.PublicKey().ToBytes(),
		Mint:  mint.PublicKey().ToBytes(),
		Price: priceLamports,
		Bump:  listingAccounts.Bump,
	}

	err = p.ledger.Execute(func(tx *ledger.Transaction) error {
		if _, err := tx.GetAccount(marketplaceAccount.PublicKey().ToBytes()); err != nil {
			return err
		}

		if err := p.verifyCollectionMembership(tx, listingAccounts, collectionMint); err != nil {
			return err
		}

		// Creating the listing first surfaces an address collision before
		// any balance checks
		account, err := tx.CreateAccount(
			maker.PublicKey().ToBytes(),
			listingAccounts.Listing.PublicKey().ToBytes(),
			marketplace_program.PROGRAM_ID,
			marketplace_program.ListingAccountSize,
		)
		if err != nil {
			return err
		}
		copy(account.Data, state.Marshal())

		makerBalance, err := tx.GetTokenAccount(makerTokens.PublicKey().ToBytes())
		if err != nil {
			return err
		}
		if makerBalance.Amount < 1 {
			return marketplace_program.ErrInsufficientTokens
		}

		if err := tx.InitializeTokenAccount(
			maker.PublicKey().ToBytes(),
			listingAccounts.Vault.PublicKey().ToBytes(),
			mint.PublicKey().ToBytes(),
			listingAccounts.Listing.PublicKey().ToBytes(),
		); err != nil {
			return err
		}

		return tx.TransferTokens(
			makerTokens.PublicKey().ToBytes(),
			listingAccounts.Vault.PublicKey().ToBytes(),
			1,
			ledger.NoAuthority,
		)
	}, maker.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	record := &listing_store.Record{
		Address:       listingAccounts.Listing.PublicKey().ToBase58(),
		Marketplace:   marketplaceAccount.PublicKey().ToBase58(),
		Mint:          mint.PublicKey().ToBase58(),
		Maker:         maker.PublicKey().ToBase58(),
		PriceLamports: priceLamports,
	}
	if err := p.listings.Put(ctx, record); err != nil {
		log.WithError(err).Warn("failure updating listing index")
	}

	return nil
}

// Purchase executes a sale: the taker pays the maker and the fee, takes
// custody of the NFT, and earns a reward token payout. The maker gets the
// listing and vault rent back.
func (p *Processor) Purchase(ctx context.Context, taker, maker, marketplaceAccount, mint *common.Account) error {
	log := p.log.WithFields(map[string]interface{}{
		"method":      "Purchase",
		"taker":       taker.PublicKey().ToBase58(),
		"maker":       maker.PublicKey().ToBase58(),
		"marketplace": marketplaceAccount.PublicKey().ToBase58(),
		"mint":        mint.PublicKey().ToBase58(),
	})

	listingAccounts, err := common.GetListingAccounts(marketplaceAccount, mint)
	if err != nil {
		log.WithError(err).Warn("failure deriving listing accounts")
		return err
	}

	takerTokens, err := taker.ToAssociatedTokenAccount(mint)
	if err != nil {
		return err
	}

	rewardPayoutAmount := p.conf.rewardPayoutAmount.Get(ctx)

	err = p.ledger.Execute(func(tx *ledger.Transaction) error {
		marketplaceState, err := p.getMarketplaceState(tx, marketplaceAccount)
		if err != nil {
			return err
		}

		listingState, err := p.getListingState(tx, listingAccounts)
		if err != nil {
			return err
		}

		if !bytes.Equal(listingState.Maker, maker.PublicKey().ToBytes()) {
			return marketplace_program.ErrInvalidMaker
		}

		fee, err := ComputeFee(listingState.Price, marketplaceState.Fee)
		if err != nil {
			return err
		}

		// The maker gets the price less the marketplace's cut
		if err := tx.Transfer(taker.PublicKey().ToBytes(), listingState.Maker, listingState.Price-fee); err != nil {
			return err
		}

		treasury, _, err := marketplace_program.GetTreasuryAddress(&marketplace_program.GetTreasuryAddressArgs{
			Marketplace: marketplaceAccount.PublicKey().ToBytes(),
		})
		if err != nil {
			return err
		}
		if fee > 0 {
			if err := tx.Transfer(taker.PublicKey().ToBytes(), treasury, fee); err != nil {
				return err
			}
		}

		listingAuthority, err := ledger.ProveAuthority(
			marketplace_program.PROGRAM_ID,
			listingState.Bump,
			marketplaceAccount.PublicKey().ToBytes(),
			mint.PublicKey().ToBytes(),
		)
		if err != nil {
			return err
		}

		if _, err := tx.GetTokenAccount(takerTokens.PublicKey().ToBytes()); err == ledger.ErrAccountNotFound {
			if err := tx.InitializeTokenAccount(
				taker.PublicKey().ToBytes(),
				takerTokens.PublicKey().ToBytes(),
				mint.PublicKey().ToBytes(),
				taker.PublicKey().ToBytes(),
			); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		vault, err := tx.GetTokenAccount(listingAccounts.Vault.PublicKey().ToBytes())
		if err != nil {
			return err
		}
		if vault.Amount < 1 {
			return marketplace_program.ErrEmptyVault
		}

		if err := tx.TransferTokens(
			listingAccounts.Vault.PublicKey().ToBytes(),
			takerTokens.PublicKey().ToBytes(),
			1,
			listingAuthority,
		); err != nil {
			return err
		}

		if err := p.payReward(tx, taker, marketplaceAccount, marketplaceState, rewardPayoutAmount); err != nil {
			return err
		}

		// Rent from both the vault and the listing goes back to the maker,
		// who fronted it at listing time
		if err := tx.CloseTokenAccount(
			listingAccounts.Vault.PublicKey().ToBytes(),
			listingState.Maker,
			listingAuthority,
		); err != nil {
			return err
		}

		return tx.CloseAccount(
			listingAccounts.Listing.PublicKey().ToBytes(),
			listingState.Maker,
			marketplace_program.PROGRAM_ID,
		)
	}, taker.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	if err := p.listings.MarkSold(ctx, listingAccounts.Listing.PublicKey().ToBase58(), taker.PublicKey().ToBase58()); err != nil {
		log.WithError(err).Warn("failure updating listing index")
	}

	return nil
}

// Delist returns an escrowed NFT to its maker and closes the listing.
func (p *Processor) Delist(ctx context.Context, maker, marketplaceAccount, mint *common.Account) error {
	log := p.log.WithFields(map[string]interface{}{
		"method":      "Delist",
		"maker":       maker.PublicKey().ToBase58(),
		"marketplace": marketplaceAccount.PublicKey().ToBase58(),
		"mint":        mint.PublicKey().ToBase58(),
	})

	listingAccounts, err := common.GetListingAccounts(marketplaceAccount, mint)
	if err != nil {
		log.WithError(err).Warn("failure deriving listing accounts")
		return err
	}

	makerTokens, err := maker.ToAssociatedTokenAccount(mint)
	if err != nil {
		return err
	}

	err = p.ledger.Execute(func(tx *ledger.Transaction) error {
		listingState, err := p.getListingState(tx, listingAccounts)
		if err != nil {
			return err
		}

		if !bytes.Equal(listingState.Maker, maker.PublicKey().ToBytes()) {
			return marketplace_program.ErrUnauthorized
		}

		listingAuthority, err := ledger.ProveAuthority(
			marketplace_program.PROGRAM_ID,
			listingState.Bump,
			marketplaceAccount.PublicKey().ToBytes(),
			mint.PublicKey().ToBytes(),
		)
		if err != nil {
			return err
		}

		if _, err := tx.GetTokenAccount(makerTokens.PublicKey().ToBytes()); err == ledger.ErrAccountNotFound {
			if err := tx.InitializeTokenAccount(
				maker.PublicKey().ToBytes(),
				makerTokens.PublicKey().ToBytes(),
				mint.PublicKey().ToBytes(),
				maker.PublicKey().ToBytes(),
			); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.TransferTokens(
			listingAccounts.Vault.PublicKey().ToBytes(),
			makerTokens.PublicKey().ToBytes(),
			1,
			listingAuthority,
		); err != nil {
			return err
		}

		if err := tx.CloseTokenAccount(
			listingAccounts.Vault.PublicKey().ToBytes(),
			maker.PublicKey().ToBytes(),
			listingAuthority,
		); err != nil {
			return err
		}

		return tx.CloseAccount(
			listingAccounts.Listing.PublicKey().ToBytes(),
			maker.PublicKey().ToBytes(),
			marketplace_program.PROGRAM_ID,
		)
	}, maker.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	if err := p.listings.MarkDelisted(ctx, listingAccounts.Listing.PublicKey().ToBase58()); err != nil {
		log.WithError(err).Warn("failure updating listing index")
	}

	return nil
}

func (p *Processor) getMarketplaceState(tx *ledger.Transaction, marketplaceAccount *common.Account) (*marketplace_program.MarketplaceAccount, error) {
	account, err := tx.GetAccount(marketplaceAccount.PublicKey().ToBytes())
	if err != nil {
		return nil, err
	}

	var state marketplace_program.MarketplaceAccount
	if err := state.Unmarshal(account.Data); err != nil {
		return nil, marketplace_program.ErrInvalidMarketplaceState
	}
	return &state, nil
}

func (p *Processor) getListingState(tx *ledger.Transaction, listingAccounts *common.ListingAccounts) (*marketplace_program.ListingAccount, error) {
	account, err := tx.GetAccount(listingAccounts.Listing.PublicKey().ToBytes())
	if err != nil {
		return nil, err
	}

	var state marketplace_program.ListingAccount
	if err := state.Unmarshal(account.Data); err != nil {
		return nil, marketplace_program.ErrInvalidAccountData
	}
	return &state, nil
}

// verifyCollectionMembership requires the mint's metadata to record a
// verified membership in the expected collection, and a master edition to
// exist, before the NFT can be listed.
func (p *Processor) verifyCollectionMembership(tx *ledger.Transaction, listingAccounts *common.ListingAccounts, collectionMint *common.Account) error {
	metadataAccount, err := tx.GetAccount(listingAccounts.Metadata.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	var metadataState metadata.Metadata
	if !metadataState.Unmarshal(metadataAccount.Data) {
		return marketplace_program.ErrInvalidAccountData
	}

	if metadataState.Collection == nil {
		return marketplace_program.ErrInvalidCollection
	}
	if !bytes.Equal(metadataState.Collection.Key, collectionMint.PublicKey().ToBytes()) {
		return marketplace_program.ErrInvalidCollection
	}
	if !metadataState.Collection.Verified {
		return marketplace_program.ErrUnverifiedCollection
	}

	masterEditionAccount, err := tx.GetAccount(listingAccounts.MasterEdition.PublicKey().ToBytes())
	if err != nil {
		return err
	}

	var masterEditionState metadata.MasterEdition
	if !masterEditionState.Unmarshal(masterEditionAccount.Data) {
		return marketplace_program.ErrInvalidAccountData
	}

	return nil
}

func (p *Processor) payReward(tx *ledger.Transaction, taker, marketplaceAccount *common.Account, marketplaceState *marketplace_program.MarketplaceAccount, amount uint64) error {
	if amount == 0 {
		return nil
	}

	rewardMint, _, err := marketplace_program.GetRewardMintAddress(&marketplace_program.GetRewardMintAddressArgs{
		Marketplace: marketplaceAccount.PublicKey().ToBytes(),
	})
	if err != nil {
		return err
	}

	rewardMintAccount, err := common.NewAccountFromPublicKeyBytes(rewardMint)
	if err != nil {
		return err
	}

	takerRewards, err := taker.ToAssociatedTokenAccount(rewardMintAccount)
	if err != nil {
		return err
	}

	if _, err := tx.GetTokenAccount(takerRewards.PublicKey().ToBytes()); err == ledger.ErrAccountNotFound {
		if err := tx.InitializeTokenAccount(
			taker.PublicKey().ToBytes(),
			takerRewards.PublicKey().ToBytes(),
			rewardMint,
			taker.PublicKey().ToBytes(),
		); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	// The marketplace account is the reward mint's authority
	marketplaceAuthority, err := ledger.ProveAuthority(
		marketplace_program.PROGRAM_ID,
		marketplaceState.Bump,
		marketplace_program.MarketplacePrefix,
		[]byte(marketplaceState.Name),
	)
	if err != nil {
		return err
	}

	return tx.MintTo(rewardMint, takerRewards.PublicKey().ToBytes(), amount, marketplaceAuthority)
}
