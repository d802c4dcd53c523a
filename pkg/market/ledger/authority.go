package ledger

import (
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana"
)

// Authority is proof that a program controls a derived address. It can only
// be constructed by re-deriving the address from its seeds and bump, so
// holding one stands in for the program's signature.
type Authority struct {
	program ed25519.PublicKey
	address ed25519.PublicKey
}

// NoAuthority is passed where an operation is authorized by a transaction
// signer instead of a derived address.
var NoAuthority Authority

func ProveAuthority(program ed25519.PublicKey, bump uint8, seeds ...[]byte) (Authority, error) {
	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, []byte{bump})

	address, err := solana.CreateProgramAddress(program, withBump...)
	if err != nil {
		return Authority{}, err
	}

	return Authority{
		program: program,
		address: address,
	}, nil
}

func (a Authority) Address() ed25519.PublicKey {
	return a.address
}

func (a Authority) isValid() bool {
	return len(a.address) == ed25519.PublicKeySize
}
