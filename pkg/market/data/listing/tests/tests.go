package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/database/query"
	"github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
)

func RunTests(t *testing.T, s listing.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s listing.Store){
		testHappyPath,
		testRelisting,
		testPagedQueries,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s listing.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()
		start := time.Now()
		time.Sleep(time.Millisecond)

		record := &listing.Record{
			Address:       "listing_address",
			Marketplace:   "marketplace_address",
			Mint:          "mint_address",
			Maker:         "maker_address",
			PriceLamports: 1_000_000_000,
		}
		cloned := record.Clone()

		_, err := s.GetActiveByAddress(ctx, record.Address)
		assert.Equal(t, listing.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, record))

		actual, err := s.GetActiveByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.True(t, actual.Id > 0)
		assert.True(t, actual.CreatedAt.After(start))
		assertEquivalentRecords(t, &cloned, actual)

		// Only one active record per address
		assert.Equal(t, listing.ErrExists, s.Put(ctx, &cloned))

		require.NoError(t, s.MarkSold(ctx, record.Address, "taker_address"))

		_, err = s.GetActiveByAddress(ctx, record.Address)
		assert.Equal(t, listing.ErrNotFound, err)

		// Already sold
		assert.Equal(t, listing.ErrNotFound, s.MarkSold(ctx, record.Address, "taker_address"))
		assert.Equal(t, listing.ErrNotFound, s.MarkDelisted(ctx, record.Address))

		records, err := s.GetAllByMarketplace(ctx, record.Marketplace, query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, listing.StateSold, records[0].State)
		assert.Equal(t, "taker_address", records[0].Taker)
	})
}

func testRelisting(t *testing.T, s listing.Store) {
	t.Run("testRelisting", func(t *testing.T) {
		ctx := context.Background()

		record := &listing.Record{
			Address:       "listing_address",
			Marketplace:   "marketplace_address",
			Mint:          "mint_address",
			Maker:         "maker_address",
			PriceLamports: 1_000_000_000,
		}
		require.NoError(t, s.Put(ctx, record))
		require.NoError(t, s.MarkDelisted(ctx, record.Address))

		// The same mint relists at the same derived address
		relisted := &listing.Record{
			Address:       "listing_address",
			Marketplace:   "marketplace_address",
			Mint:          "mint_address",
			Maker:         "maker_address",
			PriceLamports: 2_000_000_000,
		}
		require.NoError(t, s.Put(ctx, relisted))

		actual, err := s.GetActiveByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 2_000_000_000, actual.PriceLamports)

		records, err := s.GetAllByMarketplace(ctx, record.Marketplace, query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func testPagedQueries(t *testing.T, s listing.Store) {
	t.Run("testPagedQueries", func(t *testing.T) {
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, s.Put(ctx, &listing.Record{
				Address:       fmt.Sprintf("listing_address_%d", i),
				Marketplace:   "marketplace_address",
				Mint:          fmt.Sprintf("mint_address_%d", i),
				Maker:         "maker_address",
				PriceLamports: uint64(i + 1),
			}))
		}

		_, err := s.GetAllByMarketplace(ctx, "other_marketplace", query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, listing.ErrNotFound, err)

		records, err := s.GetAllByMarketplace(ctx, "marketplace_address", query.EmptyCursor, 3, query.Ascending)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "listing_address_0", records[0].Address)

		records, err = s.GetAllByMarketplace(ctx, "marketplace_address", query.ToCursor(records[2].Id), 3, query.Ascending)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "listing_address_3", records[0].Address)

		records, err = s.GetAllByMaker(ctx, "maker_address", query.EmptyCursor, 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, "listing_address_4", records[0].Address)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *listing.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Marketplace, obj2.Marketplace)
	assert.Equal(t, obj1.Mint, obj2.Mint)
	assert.Equal(t, obj1.Maker, obj2.Maker)
	assert.Equal(t, obj1.PriceLamports, obj2.PriceLamports)
	assert.Equal(t, obj1.State, obj2.State)
	assert.Equal(t, obj1.Taker, obj2.Taker)
}
