package metadata

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

var (
	// ProgramKey is the address of the token metadata program.
	//
	// Current key: metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s
	ProgramKey = ed25519.PublicKey(mustBase58Decode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"))
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
