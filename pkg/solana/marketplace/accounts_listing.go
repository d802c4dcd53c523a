package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

// ListingAccount is the escrow record pairing one NFT with an asking price.
// It lives at the (marketplace, mint) derived address for the listing's
// lifetime and is destroyed on purchase or delist.
type ListingAccount struct {
	// The seller who created this listing
	Maker ed25519.PublicKey

	// The mint of the NFT being sold
	Mint ed25519.PublicKey

	// The asking price in lamports
	Price uint64

	Bump uint8
}

const ListingAccountSize = (8 + // discriminator
	32 + // maker
	32 + // mint
	8 + // price
	1) // bump

var listingAccountDiscriminator = []byte{218, 32, 50, 73, 43, 134, 26, 58}

func (obj *ListingAccount) Clone() *ListingAccount {
	return &ListingAccount{
		Maker: obj.Maker,
		Mint:  obj.Mint,
		Price: obj.Price,
		Bump:  obj.Bump,
	}
}

func (obj *ListingAccount) Marshal() []byte {
	data := make([]byte, ListingAccountSize)

	var offset int

	putDiscriminator(data, listingAccountDiscriminator, &offset)
	putKey(data, obj.Maker, &offset)
	putKey(data, obj.Mint, &offset)
	putUint64(data, obj.Price, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

func (obj *ListingAccount) Unmarshal(data []byte) error {
	if len(data) != ListingAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, listingAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Maker, &offset)
	getKey(data, &obj.Mint, &offset)
	getUint64(data, &obj.Price, &offset)
	getUint8(data, &obj.Bump, &offset)

	return nil
}
