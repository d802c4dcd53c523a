package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/database/query"
	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	listing_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
	listing_memory "github.com/openmarket-labs/marketplace-server/pkg/market/data/listing/memory"
	marketplace_store "github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
	marketplace_memory "github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace/memory"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	"github.com/openmarket-labs/marketplace-server/pkg/pointer"
	marketplace_program "github.com/openmarket-labs/marketplace-server/pkg/solana/marketplace"
	"github.com/openmarket-labs/marketplace-server/pkg/testutil"
)

const (
	sol     = 1_000_000_000
	funding = 100 * sol
)

type testEnv struct {
	ctx context.Context

	ledger *ledger.Ledger

	marketplaces marketplace_store.Store
	listings     listing_store.Store

	processor *Processor
}

func setup(t *testing.T) *testEnv {
	env := &testEnv{
		ctx:          context.Background(),
		ledger:       ledger.New(),
		marketplaces: marketplace_memory.New(),
		listings:     listing_memory.New(),
	}
	env.processor = New(env.ledger, env.marketplaces, env.listings, withManualTestOverrides(&testOverrides{}))
	return env
}

func (env *testEnv) lamports(t *testing.T, account *common.Account) uint64 {
	record, err := env.ledger.GetAccount(account.PublicKey().ToBytes())
	if err == ledger.ErrAccountNotFound {
		return 0
	}
	require.NoError(t, err)
	return record.Lamports
}

func (env *testEnv) tokenBalance(t *testing.T, owner, mint *common.Account) uint64 {
	ata, err := owner.ToAssociatedTokenAccount(mint)
	require.NoError(t, err)

	var balance uint64
	err = env.ledger.Execute(func(tx *ledger.Transaction) error {
		tokenAccount, err := tx.GetTokenAccount(ata.PublicKey().ToBytes())
		if err != nil {
			return err
		}
		balance = tokenAccount.Amount
		return nil
	})
	if err == ledger.ErrAccountNotFound {
		return 0
	}
	require.NoError(t, err)
	return balance
}

func (env *testEnv) setupMarketplace(t *testing.T, feeBasisPoints uint16) (*common.Account, *common.MarketplaceAccounts) {
	admin := testutil.NewFundedAccount(t, env.ledger, funding)
	accounts, err := env.processor.InitializeMarketplace(env.ctx, admin, "degen bazaar", feeBasisPoints)
	require.NoError(t, err)
	return admin, accounts
}

func (env *testEnv) setupListedNFT(t *testing.T, accounts *common.MarketplaceAccounts, price uint64) (maker, mint, collectionMint *common.Account) {
	maker = testutil.NewFundedAccount(t, env.ledger, funding)
	collectionMint = testutil.NewRandomAccount(t)
	mint = testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{})

	require.NoError(t, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, collectionMint, price))
	return maker, mint, collectionMint
}

func TestInitializeMarketplace_HappyPath(t *testing.T) {
	env := setup(t)

	admin, accounts := env.setupMarketplace(t, 250)

	marketplaceAccount, err := env.ledger.GetAccount(accounts.Marketplace.PublicKey().ToBytes())
	require.NoError(t, err)

	var state marketplace_program.MarketplaceAccount
	require.NoError(t, state.Unmarshal(marketplaceAccount.Data))
	assert.EqualValues(t, admin.PublicKey().ToBytes(), state.Admin)
	assert.EqualValues(t, 250, state.Fee)
	assert.Equal(t, "degen bazaar", state.Name)
	assert.Equal(t, accounts.Bump, state.Bump)
	assert.Equal(t, accounts.TreasuryBump, state.TreasuryBump)
	assert.Equal(t, accounts.RewardsBump, state.RewardsBump)

	// Treasury sits at its rent floor until fees accrue
	assert.EqualValues(t, ledger.RentExemptLamports(0), env.lamports(t, accounts.Treasury))

	// The admin funded all three accounts
	expectedSpend := ledger.RentExemptLamports(marketplace_program.MarketplaceAccountSize) +
		ledger.RentExemptLamports(0) +
		ledger.RentExemptLamports(82)
	assert.EqualValues(t, funding-expectedSpend, env.lamports(t, admin))

	record, err := env.marketplaces.GetByName(env.ctx, "degen bazaar")
	require.NoError(t, err)
	assert.Equal(t, accounts.Marketplace.PublicKey().ToBase58(), record.Address)
	assert.EqualValues(t, 250, record.FeeBasisPoints)
}

func TestInitializeMarketplace_Validation(t *testing.T) {
	env := setup(t)

	admin := testutil.NewFundedAccount(t, env.ledger, funding)

	_, err := env.processor.InitializeMarketplace(env.ctx, admin, "", 250)
	assert.Equal(t, marketplace_program.ErrInvalidName, err)

	_, err = env.processor.InitializeMarketplace(env.ctx, admin, "a name well beyond the thirty two byte seed limit", 250)
	assert.Equal(t, marketplace_program.ErrInvalidName, err)

	_, err = env.processor.InitializeMarketplace(env.ctx, admin, "degen bazaar", 10001)
	assert.Equal(t, marketplace_program.ErrInvalidFee, err)

	_, err = env.processor.InitializeMarketplace(env.ctx, admin, "degen bazaar", 250)
	require.NoError(t, err)

	// The name is a derivation seed, so it's first come first served
	otherAdmin := testutil.NewFundedAccount(t, env.ledger, funding)
	_, err = env.processor.InitializeMarketplace(env.ctx, otherAdmin, "degen bazaar", 500)
	assert.Equal(t, ledger.ErrAccountAlreadyExists, err)
}

func TestUpdateMarketplace(t *testing.T) {
	env := setup(t)

	admin, accounts := env.setupMarketplace(t, 250)

	require.NoError(t, env.processor.UpdateMarketplace(env.ctx, admin, accounts.Marketplace, pointer.Uint16(500)))

	marketplaceAccount, err := env.ledger.GetAccount(accounts.Marketplace.PublicKey().ToBytes())
	require.NoError(t, err)

	var state marketplace_program.MarketplaceAccount
	require.NoError(t, state.Unmarshal(marketplaceAccount.Data))
	assert.EqualValues(t, 500, state.Fee)

	record, err := env.marketplaces.GetByAddress(env.ctx, accounts.Marketplace.PublicKey().ToBase58())
	require.NoError(t, err)
	assert.EqualValues(t, 500, record.FeeBasisPoints)

	// Nil fee leaves everything untouched
	require.NoError(t, env.processor.UpdateMarketplace(env.ctx, admin, accounts.Marketplace, nil))

	assert.Equal(t, marketplace_program.ErrInvalidFee, env.processor.UpdateMarketplace(env.ctx, admin, accounts.Marketplace, pointer.Uint16(10001)))

	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	assert.Equal(t, marketplace_program.ErrUnauthorized, env.processor.UpdateMarketplace(env.ctx, intruder, accounts.Marketplace, pointer.Uint16(500)))
}

func TestWithdrawFees(t *testing.T) {
	env := setup(t)

	admin, accounts := env.setupMarketplace(t, 250)
	maker, mint, _ := env.setupListedNFT(t, accounts, sol)

	taker := testutil.NewFundedAccount(t, env.ledger, funding)
	require.NoError(t, env.processor.Purchase(env.ctx, taker, maker, accounts.Marketplace, mint))

	fee := uint64(25_000_000) // 2.5% of 1 SOL
	treasuryFloor := ledger.RentExemptLamports(0)
	assert.EqualValues(t, treasuryFloor+fee, env.lamports(t, accounts.Treasury))

	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	assert.Equal(t, marketplace_program.ErrUnauthorized, env.processor.WithdrawFees(env.ctx, intruder, accounts.Marketplace, fee))

	// The rent floor is untouchable
	err := env.processor.WithdrawFees(env.ctx, admin, accounts.Marketplace, fee+1)
	assert.Equal(t, ledger.ErrRentExemptionViolation, err)

	// Taking the entire balance would destroy the treasury, so it fails the
	// same way and leaves the balance untouched
	err = env.processor.WithdrawFees(env.ctx, admin, accounts.Marketplace, treasuryFloor+fee)
	assert.Equal(t, ledger.ErrRentExemptionViolation, err)
	assert.EqualValues(t, treasuryFloor+fee, env.lamports(t, accounts.Treasury))

	adminBefore := env.lamports(t, admin)
	require.NoError(t, env.processor.WithdrawFees(env.ctx, admin, accounts.Marketplace, fee))
	assert.EqualValues(t, adminBefore+fee, env.lamports(t, admin))
	assert.EqualValues(t, treasuryFloor, env.lamports(t, accounts.Treasury))
}

func TestList_HappyPath(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 250)
	maker, mint, _ := env.setupListedNFT(t, accounts, sol)

	listingAccounts, err := common.GetListingAccounts(accounts.Marketplace, mint)
	require.NoError(t, err)

	// The NFT moved from the maker to the vault
	assert.EqualValues(t, 0, env.tokenBalance(t, maker, mint))

	listingAccount, err := env.ledger.GetAccount(listingAccounts.Listing.PublicKey().ToBytes())
	require.NoError(t, err)

	var state marketplace_program.ListingAccount
	require.NoError(t, state.Unmarshal(listingAccount.Data))
	assert.EqualValues(t, maker.PublicKey().ToBytes(), state.Maker)
	assert.EqualValues(t, mint.PublicKey().ToBytes(), state.Mint)
	assert.EqualValues(t, sol, state.Price)
	assert.Equal(t, listingAccounts.Bump, state.Bump)

	err = env.ledger.Execute(func(tx *ledger.Transaction) error {
		vault, err := tx.GetTokenAccount(listingAccounts.Vault.PublicKey().ToBytes())
		if err != nil {
			return err
		}
		assert.EqualValues(t, 1, vault.Amount)
		assert.EqualValues(t, listingAccounts.Listing.PublicKey().ToBytes(), vault.Owner)
		return nil
	})
	require.NoError(t, err)

	record, err := env.listings.GetActiveByAddress(env.ctx, listingAccounts.Listing.PublicKey().ToBase58())
	require.NoError(t, err)
	assert.Equal(t, maker.PublicKey().ToBase58(), record.Maker)
	assert.EqualValues(t, sol, record.PriceLamports)
}

func TestList_Validation(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 250)

	maker := testutil.NewFundedAccount(t, env.ledger, funding)
	collectionMint := testutil.NewRandomAccount(t)

	mint := testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{})
	assert.Equal(t, marketplace_program.ErrInvalidPrice, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, collectionMint, 0))

	// Metadata claims a different collection
	otherCollection := testutil.NewRandomAccount(t)
	assert.Equal(t, marketplace_program.ErrInvalidCollection, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, otherCollection, sol))

	unverified := testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{Unverified: true})
	assert.Equal(t, marketplace_program.ErrUnverifiedCollection, env.processor.List(env.ctx, maker, accounts.Marketplace, unverified, collectionMint, sol))

	noCollection := testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{WithoutCollection: true})
	assert.Equal(t, marketplace_program.ErrInvalidCollection, env.processor.List(env.ctx, maker, accounts.Marketplace, noCollection, collectionMint, sol))

	noEdition := testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{WithoutMasterEdition: true})
	assert.Equal(t, ledger.ErrAccountNotFound, env.processor.List(env.ctx, maker, accounts.Marketplace, noEdition, collectionMint, sol))

	// The listing address is already taken for this pair
	require.NoError(t, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, collectionMint, sol))
	assert.Equal(t, ledger.ErrAccountAlreadyExists, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, collectionMint, sol))

	// Someone who never held the NFT can't list it
	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	other := testutil.MintNFT(t, env.ledger, maker, maker, collectionMint, testutil.NFTOptions{})
	assert.Equal(t, ledger.ErrAccountNotFound, env.processor.List(env.ctx, intruder, accounts.Marketplace, other, collectionMint, sol))

	// An empty token account isn't enough either
	intruderTokens, err := intruder.ToAssociatedTokenAccount(other)
	require.NoError(t, err)
	err = env.ledger.Execute(func(tx *ledger.Transaction) error {
		return tx.InitializeTokenAccount(
			intruder.PublicKey().ToBytes(),
			intruderTokens.PublicKey().ToBytes(),
			other.PublicKey().ToBytes(),
			intruder.PublicKey().ToBytes(),
		)
	}, intruder.PublicKey().ToBytes())
	require.NoError(t, err)
	assert.Equal(t, marketplace_program.ErrInsufficientTokens, env.processor.List(env.ctx, intruder, accounts.Marketplace, other, collectionMint, sol))
}

func TestPurchase_HappyPath(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 250)
	maker, mint, _ := env.setupListedNFT(t, accounts, sol)

	taker := testutil.NewFundedAccount(t, env.ledger, funding)

	makerBefore := env.lamports(t, maker)
	treasuryBefore := env.lamports(t, accounts.Treasury)

	// A purchase naming the wrong maker is rejected outright
	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	assert.Equal(t, marketplace_program.ErrInvalidMaker, env.processor.Purchase(env.ctx, taker, intruder, accounts.Marketplace, mint))

	require.NoError(t, env.processor.Purchase(env.ctx, taker, maker, accounts.Marketplace, mint))

	fee := uint64(25_000_000)
	listingRent := ledger.RentExemptLamports(marketplace_program.ListingAccountSize)
	vaultRent := ledger.RentExemptLamports(165)
	tokenAccountRent := ledger.RentExemptLamports(165)

	// The maker receives the price less the fee, plus both rent refunds
	assert.EqualValues(t, makerBefore+sol-fee+listingRent+vaultRent, env.lamports(t, maker))

	// The treasury accrues the fee
	assert.EqualValues(t, treasuryBefore+fee, env.lamports(t, accounts.Treasury))

	// The taker pays exactly the price, plus rent for two new token accounts
	assert.EqualValues(t, funding-sol-2*tokenAccountRent, env.lamports(t, taker))

	// The NFT and the reward payout arrive
	assert.EqualValues(t, 1, env.tokenBalance(t, taker, mint))
	assert.EqualValues(t, defaultRewardPayoutAmount, env.tokenBalance(t, taker, accounts.RewardMint))

	// Listing and vault are gone
	listingAccounts, err := common.GetListingAccounts(accounts.Marketplace, mint)
	require.NoError(t, err)
	_, err = env.ledger.GetAccount(listingAccounts.Listing.PublicKey().ToBytes())
	assert.Equal(t, ledger.ErrAccountNotFound, err)
	_, err = env.ledger.GetAccount(listingAccounts.Vault.PublicKey().ToBytes())
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	// The index recorded the sale
	records, err := env.listings.GetAllByMarketplace(env.ctx, accounts.Marketplace.PublicKey().ToBase58(), query.EmptyCursor, 10, query.Ascending)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, listing_store.StateSold, records[0].State)
	assert.Equal(t, taker.PublicKey().ToBase58(), records[0].Taker)

	// A closed listing can't be bought again
	assert.Equal(t, ledger.ErrAccountNotFound, env.processor.Purchase(env.ctx, taker, maker, accounts.Marketplace, mint))
}

func TestPurchase_ZeroFee(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 0)
	maker, mint, _ := env.setupListedNFT(t, accounts, sol)

	taker := testutil.NewFundedAccount(t, env.ledger, funding)
	require.NoError(t, env.processor.Purchase(env.ctx, taker, maker, accounts.Marketplace, mint))

	// No fee transfer happened
	assert.EqualValues(t, ledger.RentExemptLamports(0), env.lamports(t, accounts.Treasury))
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 250)
	maker, mint, _ := env.setupListedNFT(t, accounts, sol)

	taker := testutil.NewFundedAccount(t, env.ledger, sol/2)
	assert.Equal(t, ledger.ErrInsufficientFunds, env.processor.Purchase(env.ctx, taker, maker, accounts.Marketplace, mint))

	// The failed purchase left the listing untouched
	listingAccounts, err := common.GetListingAccounts(accounts.Marketplace, mint)
	require.NoError(t, err)

	_, err = env.ledger.GetAccount(listingAccounts.Listing.PublicKey().ToBytes())
	require.NoError(t, err)

	record, err := env.listings.GetActiveByAddress(env.ctx, listingAccounts.Listing.PublicKey().ToBase58())
	require.NoError(t, err)
	assert.Equal(t, listing_store.StateActive, record.State)
}

func TestDelist(t *testing.T) {
	env := setup(t)

	_, accounts := env.setupMarketplace(t, 250)
	maker, mint, collectionMint := env.setupListedNFT(t, accounts, sol)

	intruder := testutil.NewFundedAccount(t, env.ledger, funding)
	assert.Equal(t, marketplace_program.ErrUnauthorized, env.processor.Delist(env.ctx, intruder, accounts.Marketplace, mint))

	makerBefore := env.lamports(t, maker)
	require.NoError(t, env.processor.Delist(env.ctx, maker, accounts.Marketplace, mint))

	// The NFT and both rent deposits come back
	assert.EqualValues(t, 1, env.tokenBalance(t, maker, mint))
	listingRent := ledger.RentExemptLamports(marketplace_program.ListingAccountSize)
	vaultRent := ledger.RentExemptLamports(165)
	assert.EqualValues(t, makerBefore+listingRent+vaultRent, env.lamports(t, maker))

	listingAccounts, err := common.GetListingAccounts(accounts.Marketplace, mint)
	require.NoError(t, err)
	_, err = env.ledger.GetAccount(listingAccounts.Listing.PublicKey().ToBytes())
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	// Delisting twice fails
	assert.Equal(t, ledger.ErrAccountNotFound, env.processor.Delist(env.ctx, maker, accounts.Marketplace, mint))

	// The same NFT can be listed again at the same derived address
	require.NoError(t, env.processor.List(env.ctx, maker, accounts.Marketplace, mint, collectionMint, 2*sol))

	record, err := env.listings.GetActiveByAddress(env.ctx, listingAccounts.Listing.PublicKey().ToBase58())
	require.NoError(t, err)
	assert.EqualValues(t, 2*sol, record.PriceLamports)
}
