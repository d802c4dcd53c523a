package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
	"github.com/openmarket-labs/marketplace-server/pkg/solana/metadata"
)

// NFTOptions controls the shape of a minted test NFT.
type NFTOptions struct {
	// Mint without a collection in its metadata
	WithoutCollection bool

	// Leave the collection membership unverified
	Unverified bool

	// Skip the master edition account
	WithoutMasterEdition bool
}

// MintNFT mints a master edition NFT into the owner's associated token
// account, with metadata tying it to the provided collection.
func MintNFT(t *testing.T, l *ledger.Ledger, payer, owner, collectionMint *common.Account, opts NFTOptions) *common.Account {
	mint := NewRandomAccount(t)

	ownerTokens, err := owner.ToAssociatedTokenAccount(mint)
	require.NoError(t, err)

	metadataAddress, _, err := metadata.GetMetadataAddress(&metadata.GetMetadataAddressArgs{
		Mint: mint.PublicKey().ToBytes(),
	})
	require.NoError(t, err)

	masterEditionAddress, _, err := metadata.GetMasterEditionAddress(&metadata.GetMasterEditionAddressArgs{
		Mint: mint.PublicKey().ToBytes(),
	})
	require.NoError(t, err)

	metadataState := &metadata.Metadata{
		Key:             metadata.KeyMetadataV1,
		UpdateAuthority: payer.PublicKey().ToBytes(),
		Mint:            mint.PublicKey().ToBytes(),
	}
	if !opts.WithoutCollection {
		metadataState.Collection = &metadata.Collection{
			Verified: !opts.Unverified,
			Key:      collectionMint.PublicKey().ToBytes(),
		}
	}

	masterEditionState := &metadata.MasterEdition{
		Key:    metadata.KeyMasterEditionV2,
		Supply: 1,
	}

	err = l.Execute(func(tx *ledger.Transaction) error {
		if err := tx.InitializeMint(
			payer.PublicKey().ToBytes(),
			mint.PublicKey().ToBytes(),
			payer.PublicKey().ToBytes(),
			0,
		); err != nil {
			return err
		}

		if err := tx.InitializeTokenAccount(
			payer.PublicKey().ToBytes(),
			ownerTokens.PublicKey().ToBytes(),
			mint.PublicKey().ToBytes(),
			owner.PublicKey().ToBytes(),
		); err != nil {
			return err
		}

		if err := tx.MintTo(
			mint.PublicKey().ToBytes(),
			ownerTokens.PublicKey().ToBytes(),
			1,
			ledger.NoAuthority,
		); err != nil {
			return err
		}

		metadataData := metadataState.Marshal()
		metadataAccount, err := tx.CreateAccount(
			payer.PublicKey().ToBytes(),
			metadataAddress,
			metadata.ProgramKey,
			len(metadataData),
		)
		if err != nil {
			return err
		}
		copy(metadataAccount.Data, metadataData)

		if opts.WithoutMasterEdition {
			return nil
		}

		masterEditionData := masterEditionState.Marshal()
		masterEditionAccount, err := tx.CreateAccount(
			payer.PublicKey().ToBytes(),
			masterEditionAddress,
			metadata.ProgramKey,
			len(masterEditionData),
		)
		if err != nil {
			return err
		}
		copy(masterEditionAccount.Data, masterEditionData)

		return nil
	}, payer.PublicKey().ToBytes())
	require.NoError(t, err)

	return mint
}
