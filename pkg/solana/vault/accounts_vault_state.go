package vault

import (
	"bytes"
	"crypto/ed25519"
)

// VaultStateAccount is the vault's metadata record: the controlling owner and
// the bumps needed to re-derive the vault authority and vault addresses.
type VaultStateAccount struct {
	Owner     ed25519.PublicKey
	AuthBump  uint8
	VaultBump uint8
	Score     uint8
}

const VaultStateAccountSize = (8 + // discriminator
	32 + // owner
	1 + // auth_bump
	1 + // vault_bump
	1) // score

var vaultStateAccountDiscriminator = []byte{228, 196, 82, 165, 98, 210, 235, 152}

func (obj *VaultStateAccount) Clone() *VaultStateAccount {
	return &VaultStateAccount{
		Owner:     obj.Owner,
		AuthBump:  obj.AuthBump,
		VaultBump: obj.VaultBump,
		Score:     obj.Score,
	}
}

func (obj *VaultStateAccount) Marshal() []byte {
	data := make([]byte, VaultStateAccountSize)

	var offset int

	putDiscriminator(data, vaultStateAccountDiscriminator, &offset)
	putKey(data, obj.Owner, &offset)
	putUint8(data, obj.AuthBump, &offset)
	putUint8(data, obj.VaultBump, &offset)
	putUint8(data, obj.Score, &offset)

	return data
}

func (obj *VaultStateAccount) Unmarshal(data []byte) error {
	if len(data) != VaultStateAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, vaultStateAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Owner, &offset)
	getUint8(data, &obj.AuthBump, &offset)
	getUint8(data, &obj.VaultBump, &offset)
	getUint8(data, &obj.Score, &offset)

	return nil
}
