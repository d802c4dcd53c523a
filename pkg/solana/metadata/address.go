package metadata

import (
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
)

var (
	metadataPrefix = []byte("metadata")
	editionSuffix  = []byte("edition")
)

type GetMetadataAddressArgs struct {
	Mint ed25519.PublicKey
}

type GetMasterEditionAddressArgs struct {
	Mint ed25519.PublicKey
}

// GetMetadataAddress returns the metadata account address for a mint.
//
// Reference: https://docs.metaplex.com/programs/token-metadata/accounts#metadata
func GetMetadataAddress(args *GetMetadataAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ProgramKey,
		metadataPrefix,
		ProgramKey,
		args.Mint,
	)
}

// GetMasterEditionAddress returns the master edition account address for a
// mint. The account's existence is what distinguishes a true NFT from a
// fungible mint with supply 1.
func GetMasterEditionAddress(args *GetMasterEditionAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ProgramKey,
		metadataPrefix,
		ProgramKey,
		args.Mint,
		editionSuffix,
	)
}
