package marketplace

import (
	"bytes"
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58"
)

const (
	// MaxNameLength is the maximum marketplace name length in bytes. The
	// name doubles as a derivation seed, which caps it at the seed limit.
	MaxNameLength = 32

	// MaxFeeBasisPoints is the maximum marketplace fee (100%).
	MaxFeeBasisPoints = 10000
)

// MarketplaceAccount is the marketplace's configuration record.
type MarketplaceAccount struct {
	Admin ed25519.PublicKey

	// Fee charged on every sale, in basis points
	Fee uint16

	Bump         uint8
	TreasuryBump uint8
	RewardsBump  uint8

	Name string
}

const MarketplaceAccountSize = (8 + // discriminator
	32 + // admin
	2 + // fee
	1 + // bump
	1 + // treasury_bump
	1 + // rewards_bump
	4 + MaxNameLength) // name

var marketplaceAccountDiscriminator = []byte{70, 222, 41, 62, 78, 3, 32, 174}

func (obj *MarketplaceAccount) Clone() *MarketplaceAccount {
	return &MarketplaceAccount{
		Admin:        obj.Admin,
		Fee:          obj.Fee,
		Bump:         obj.Bump,
		TreasuryBump: obj.TreasuryBump,
		RewardsBump:  obj.RewardsBump,
		Name:         obj.Name,
	}
}

func (obj *MarketplaceAccount) String() string {
	var admin string
	if obj.Admin != nil {
		admin = base58.Encode(obj.Admin)
	}

	return "MarketplaceAccount {" +
		"  admin='" + admin + "'" +
		", fee='" + strconv.Itoa(int(obj.Fee)) + "'" +
		", bump='" + strconv.Itoa(int(obj.Bump)) + "'" +
		", treasury_bump='" + strconv.Itoa(int(obj.TreasuryBump)) + "'" +
		", rewards_bump='" + strconv.Itoa(int(obj.RewardsBump)) + "'" +
		", name='" + obj.Name + "'" +
		"}"
}

// Serializes the MarketplaceAccount into its fixed binary layout.
func (obj *MarketplaceAccount) Marshal() []byte {
	data := make([]byte, MarketplaceAccountSize)

	var offset int

	putDiscriminator(data, marketplaceAccountDiscriminator, &offset)
	putKey(data, obj.Admin, &offset)
	putUint16(data, obj.Fee, &offset)
	putUint8(data, obj.Bump, &offset)
	putUint8(data, obj.TreasuryBump, &offset)
	putUint8(data, obj.RewardsBump, &offset)
	putName(data, obj.Name, &offset)

	return data
}

// Deserializes the MarketplaceAccount from the provided data buffer.
func (obj *MarketplaceAccount) Unmarshal(data []byte) error {
	if len(data) != MarketplaceAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, marketplaceAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Admin, &offset)
	getUint16(data, &obj.Fee, &offset)
	getUint8(data, &obj.Bump, &offset)
	getUint8(data, &obj.TreasuryBump, &offset)
	getUint8(data, &obj.RewardsBump, &offset)
	if !getName(data, &obj.Name, &offset) {
		return ErrInvalidAccountData
	}

	return nil
}
