package metadata

import (
	"crypto/ed25519"

	"github.com/openmarket-labs/marketplace-server/pkg/solana/binary"
)

type Key uint8

const (
	KeyUninitialized Key = iota
	KeyEditionV1
	KeyMasterEditionV1
	KeyReservationListV1
	KeyMetadataV1
	KeyReservationListV2
	KeyMasterEditionV2
	KeyEditionMarker
)

// Collection is the on-chain record tying an NFT to a collection mint. The
// verified flag may only be set by the collection authority, which is what
// makes it trustworthy as a membership oracle.
type Collection struct {
	Verified bool
	Key      ed25519.PublicKey
}

// Metadata holds the subset of the token metadata account consumed by the
// marketplace: the mint it decorates and its collection membership.
type Metadata struct {
	Key             Key
	UpdateAuthority ed25519.PublicKey
	Mint            ed25519.PublicKey
	Collection      *Collection
}

const metadataAccountSize = (1 + // key
	32 + // update_authority
	32 + // mint
	1 + // collection option flag
	1 + // collection.verified
	32) // collection.key

func (m *Metadata) Marshal() []byte {
	b := make([]byte, metadataAccountSize)

	var offset int
	binary.PutUint8(b, uint8(m.Key), &offset)
	binary.PutKey32(b[offset:], m.UpdateAuthority, &offset)
	binary.PutKey32(b[offset:], m.Mint, &offset)

	if m.Collection != nil {
		b[offset] = 1
		offset++
		if m.Collection.Verified {
			b[offset] = 1
		}
		offset++
		binary.PutKey32(b[offset:], m.Collection.Key, &offset)
	}

	return b
}

func (m *Metadata) Unmarshal(b []byte) bool {
	if len(b) != metadataAccountSize {
		return false
	}

	var offset int
	var key uint8
	binary.GetUint8(b, &key, &offset)
	m.Key = Key(key)

	binary.GetKey32(b[offset:], &m.UpdateAuthority, &offset)
	binary.GetKey32(b[offset:], &m.Mint, &offset)

	if b[offset] == 1 {
		offset++
		m.Collection = &Collection{
			Verified: b[offset] == 1,
		}
		offset++
		binary.GetKey32(b[offset:], &m.Collection.Key, &offset)
	}

	return true
}

// MasterEdition marks a mint as a non-fungible master edition.
type MasterEdition struct {
	Key       Key
	Supply    uint64
	MaxSupply *uint64
}

const masterEditionAccountSize = (1 + // key
	8 + // supply
	1 + // max_supply option flag
	8) // max_supply

func (e *MasterEdition) Marshal() []byte {
	b := make([]byte, masterEditionAccountSize)

	var offset int
	binary.PutUint8(b, uint8(e.Key), &offset)
	binary.PutUint64(b[offset:], e.Supply, &offset)
	if e.MaxSupply != nil {
		b[offset] = 1
		binary.PutUint64(b[offset+1:], *e.MaxSupply, &offset)
		offset++
	}

	return b
}

func (e *MasterEdition) Unmarshal(b []byte) bool {
	if len(b) != masterEditionAccountSize {
		return false
	}

	var offset int
	var key uint8
	binary.GetUint8(b, &key, &offset)
	e.Key = Key(key)

	binary.GetUint64(b[offset:], &e.Supply, &offset)
	if b[offset] == 1 {
		var maxSupply uint64
		binary.GetUint64(b[offset+1:], &maxSupply, &offset)
		e.MaxSupply = &maxSupply
	}

	return true
}
