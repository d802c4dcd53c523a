package marketplace

import (
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/token"
)

var (
	MarketplacePrefix = []byte("marketplace")
	TreasuryPrefix    = []byte("treasury")
	RewardsPrefix     = []byte("rewards")
)

type GetMarketplaceAddressArgs struct {
	Name string
}

type GetTreasuryAddressArgs struct {
	Marketplace ed25519.PublicKey
}

type GetRewardMintAddressArgs struct {
	Marketplace ed25519.PublicKey
}

type GetListingAddressArgs struct {
	Marketplace ed25519.PublicKey
	Mint        ed25519.PublicKey
}

type GetVaultAddressArgs struct {
	Listing ed25519.PublicKey
	Mint    ed25519.PublicKey
}

// GetMarketplaceAddress returns the marketplace state address for a name.
// Names are the sole seed, so a name maps to exactly one marketplace.
func GetMarketplaceAddress(args *GetMarketplaceAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		MarketplacePrefix,
		[]byte(args.Name),
	)
}

// GetTreasuryAddress returns the fee treasury address for a marketplace.
func GetTreasuryAddress(args *GetTreasuryAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		TreasuryPrefix,
		args.Marketplace,
	)
}

// GetRewardMintAddress returns the reward token mint address for a marketplace.
func GetRewardMintAddress(args *GetRewardMintAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		RewardsPrefix,
		args.Marketplace,
	)
}

// GetListingAddress returns the listing address for a (marketplace, mint)
// pair. The pair is the full seed sequence, which is what limits each mint to
// at most one live listing per marketplace.
func GetListingAddress(args *GetListingAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.Marketplace,
		args.Mint,
	)
}

// GetVaultAddress returns the escrow token account for a listing, which is
// the listing's associated token account for the listed mint.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(args.Listing, args.Mint)
}
