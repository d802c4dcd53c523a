package vault

import (
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
)

var (
	AuthPrefix  = []byte("auth")
	VaultPrefix = []byte("vault")
)

type GetAuthorityAddressArgs struct {
	VaultState ed25519.PublicKey
}

type GetVaultAddressArgs struct {
	Authority ed25519.PublicKey
}

// GetAuthorityAddress returns the program-derived authority for a vault
// state account. The authority has no private key; outbound transfers are
// signed by re-deriving it from the stored bump.
func GetAuthorityAddress(args *GetAuthorityAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		AuthPrefix,
		args.VaultState,
	)
}

// GetVaultAddress returns the address of the account holding the escrowed
// balance, namespaced per authority.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		VaultPrefix,
		args.Authority,
	)
}
