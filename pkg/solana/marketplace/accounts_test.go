package marketplace

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceAccountRoundTrip(t *testing.T) {
	admin, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	expected := &MarketplaceAccount{
		Admin:        admin,
		Fee:          250,
		Bump:         254,
		TreasuryBump: 255,
		RewardsBump:  253,
		Name:         "degen bazaar",
	}

	data := expected.Marshal()
	require.Len(t, data, MarketplaceAccountSize)

	var actual MarketplaceAccount
	require.NoError(t, actual.Unmarshal(data))

	assert.EqualValues(t, expected.Admin, actual.Admin)
	assert.Equal(t, expected.Fee, actual.Fee)
	assert.Equal(t, expected.Bump, actual.Bump)
	assert.Equal(t, expected.TreasuryBump, actual.TreasuryBump)
	assert.Equal(t, expected.RewardsBump, actual.RewardsBump)
	assert.Equal(t, expected.Name, actual.Name)

	cloned := expected.Clone()
	assert.EqualValues(t, expected.Marshal(), cloned.Marshal())

	assert.Error(t, actual.Unmarshal(data[:MarketplaceAccountSize-1]))

	// A name length pointing past the end of the buffer is rejected, not
	// sliced
	corrupted := expected.Marshal()
	corrupted[45] = 0xff
	assert.Error(t, actual.Unmarshal(corrupted))

	// Wrong discriminator is rejected
	data[0]++
	assert.Error(t, actual.Unmarshal(data))
}

func TestListingAccountRoundTrip(t *testing.T) {
	maker, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	mint, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	expected := &ListingAccount{
		Maker: maker,
		Mint:  mint,
		Price: 500_000_000,
		Bump:  252,
	}

	data := expected.Marshal()
	require.Len(t, data, ListingAccountSize)

	var actual ListingAccount
	require.NoError(t, actual.Unmarshal(data))

	assert.EqualValues(t, expected.Maker, actual.Maker)
	assert.EqualValues(t, expected.Mint, actual.Mint)
	assert.Equal(t, expected.Price, actual.Price)
	assert.Equal(t, expected.Bump, actual.Bump)

	// A marketplace account never deserializes as a listing
	assert.Error(t, actual.Unmarshal((&MarketplaceAccount{Admin: maker, Name: "x"}).Marshal()))
}
