package common

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/marketplace"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/metadata"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/token"
)

type Account struct {
	publicKey  *Key
	privateKey *Key // Optional
}

// MarketplaceAccounts is the full set of addresses derived from a
// marketplace name.
type MarketplaceAccounts struct {
	Admin *Account

	Marketplace *Account
	Bump        uint8

	Treasury     *Account
	TreasuryBump uint8

	RewardMint  *Account
	RewardsBump uint8
}

// ListingAccounts is the full set of addresses derived for a single NFT
// listed on a marketplace.
type ListingAccounts struct {
	Marketplace *Account
	Mint        *Account

	Listing *Account
	Bump    uint8

	Vault *Account

	Metadata      *Account
	MasterEdition *Account
}

func NewAccountFromPublicKey(publicKey *Key) (*Account, error) {
	account := &Account{
		publicKey: publicKey,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPublicKeyBytes(publicKey []byte) (*Account, error) {
	key, err := NewKeyFromBytes(publicKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKey(key)
}

func NewAccountFromPublicKeyString(publicKey string) (*Account, error) {
	key, err := NewKeyFromString(publicKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKey(key)
}

func NewAccountFromPrivateKey(privateKey *Key) (*Account, error) {
	publicKeyBytes := ed25519.PrivateKey(privateKey.ToBytes()).Public().(ed25519.PublicKey)
	publicKey, err := NewKeyFromBytes(publicKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "error creating public key from private key")
	}

	account := &Account{
		publicKey:  publicKey,
		privateKey: privateKey,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPrivateKeyBytes(privateKey []byte) (*Account, error) {
	key, err := NewKeyFromBytes(privateKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPrivateKey(key)
}

func NewAccountFromPrivateKeyString(privateKey string) (*Account, error) {
	key, err := NewKeyFromString(privateKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPrivateKey(key)
}

func NewRandomAccount() (*Account, error) {
	key, err := NewRandomKey()
	if err != nil {
		return nil, err
	}

	account, err := NewAccountFromPrivateKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account")
	}

	return account, nil
}

func (a *Account) PublicKey() *Key {
	return a.publicKey
}

func (a *Account) PrivateKey() *Key {
	return a.privateKey
}

func (a *Account) Sign(message []byte) ([]byte, error) {
	if a.privateKey == nil {
		return nil, errors.New("private key not available")
	}

	signature := ed25519.Sign(a.privateKey.ToBytes(), message)
	return signature, nil
}

func (a *Account) ToAssociatedTokenAccount(mint *Account) (*Account, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating owner account")
	}

	ata, err := token.GetAssociatedAccount(a.publicKey.ToBytes(), mint.publicKey.ToBytes())
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKeyBytes(ata)
}

func (a *Account) IsManagedByProgram() bool {
	return !solana.IsOnCurve(a.publicKey.ToBytes())
}

func (a *Account) Validate() error {
	if a == nil {
		return errors.New("account is nil")
	}

	if err := a.publicKey.Validate(); err != nil {
		return errors.Wrap(err, "error validating public key")
	}

	if !a.publicKey.IsPublic() {
		return errors.New("public key isn't a public key")
	}

	if a.privateKey == nil {
		return nil
	}

	if err := a.privateKey.Validate(); err != nil {
		return errors.Wrap(err, "error validating private key")
	}

	if a.privateKey.IsPublic() {
		return errors.New("private key isn't a private key")
	}

	derived := ed25519.PrivateKey(a.privateKey.ToBytes()).Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, a.publicKey.ToBytes()) {
		return errors.New("private key doesn't match public key")
	}

	return nil
}

func (a *Account) String() string {
	return a.publicKey.ToBase58()
}

// GetMarketplaceAccounts derives every address owned by a marketplace with
// the provided name.
func GetMarketplaceAccounts(admin *Account, name string) (*MarketplaceAccounts, error) {
	if err := admin.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating admin account")
	}

	marketplaceAddress, bump, err := marketplace.GetMarketplaceAddress(&marketplace.GetMarketplaceAddressArgs{
		Name: name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting marketplace address")
	}

	treasuryAddress, treasuryBump, err := marketplace.GetTreasuryAddress(&marketplace.GetTreasuryAddressArgs{
		Marketplace: marketplaceAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting treasury address")
	}

	rewardMintAddress, rewardsBump, err := marketplace.GetRewardMintAddress(&marketplace.GetRewardMintAddressArgs{
		Marketplace: marketplaceAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting reward mint address")
	}

	marketplaceAccount, err := NewAccountFromPublicKeyBytes(marketplaceAddress)
	if err != nil {
		return nil, err
	}

	treasuryAccount, err := NewAccountFromPublicKeyBytes(treasuryAddress)
	if err != nil {
		return nil, err
	}

	rewardMintAccount, err := NewAccountFromPublicKeyBytes(rewardMintAddress)
	if err != nil {
		return nil, err
	}

	return &MarketplaceAccounts{
		Admin: admin,

		Marketplace: marketplaceAccount,
		Bump:        bump,

		Treasury:     treasuryAccount,
		TreasuryBump: treasuryBump,

		RewardMint:  rewardMintAccount,
		RewardsBump: rewardsBump,
	}, nil
}

// GetListingAccounts derives every address tied to listing the provided
// mint on a marketplace.
func GetListingAccounts(marketplaceAccount, mint *Account) (*ListingAccounts, error) {
	if err := marketplaceAccount.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating marketplace account")
	}
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating mint account")
	}

	listingAddress, bump, err := marketplace.GetListingAddress(&marketplace.GetListingAddressArgs{
		Marketplace: marketplaceAccount.publicKey.ToBytes(),
		Mint:        mint.publicKey.ToBytes(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting listing address")
	}

	vaultAddress, err := marketplace.GetVaultAddress(&marketplace.GetVaultAddressArgs{
		Listing: listingAddress,
		Mint:    mint.publicKey.ToBytes(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting vault address")
	}

	metadataAddress, _, err := metadata.GetMetadataAddress(&metadata.GetMetadataAddressArgs{
		Mint: mint.publicKey.ToBytes(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting metadata address")
	}

	masterEditionAddress, _, err := metadata.GetMasterEditionAddress(&metadata.GetMasterEditionAddressArgs{
		Mint: mint.publicKey.ToBytes(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting master edition address")
	}

	listingAccount, err := NewAccountFromPublicKeyBytes(listingAddress)
	if err != nil {
		return nil, err
	}

	vaultAccount, err := NewAccountFromPublicKeyBytes(vaultAddress)
	if err != nil {
		return nil, err
	}

	metadataAccount, err := NewAccountFromPublicKeyBytes(metadataAddress)
	if err != nil {
		return nil, err
	}

	masterEditionAccount, err := NewAccountFromPublicKeyBytes(masterEditionAddress)
	if err != nil {
		return nil, err
	}

	return &ListingAccounts{
		Marketplace: marketplaceAccount,
		Mint:        mint,

		Listing: listingAccount,
		Bump:    bump,

		Vault: vaultAccount,

		Metadata:      metadataAccount,
		MasterEdition: masterEditionAccount,
	}, nil
}
