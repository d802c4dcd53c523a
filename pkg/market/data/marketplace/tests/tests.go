package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
)

func RunTests(t *testing.T, s marketplace.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s marketplace.Store){
		testHappyPath,
		testUniqueness,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s marketplace.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()
		start := time.Now()
		time.Sleep(time.Millisecond)

		record := &marketplace.Record{
			Address:        "marketplace_address",
			Name:           "degen bazaar",
			Admin:          "admin_address",
			FeeBasisPoints: 250,
		}
		cloned := record.Clone()

		_, err := s.GetByAddress(ctx, record.Address)
		assert.Equal(t, marketplace.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, record))

		actual, err := s.GetByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.True(t, actual.Id > 0)
		assert.True(t, actual.CreatedAt.After(start))
		assertEquivalentRecords(t, &cloned, actual)

		actual, err = s.GetByName(ctx, record.Name)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		require.NoError(t, s.UpdateFee(ctx, record.Address, 500))

		actual, err = s.GetByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 500, actual.FeeBasisPoints)

		assert.Equal(t, marketplace.ErrNotFound, s.UpdateFee(ctx, "other_address", 500))
	})
}

func testUniqueness(t *testing.T, s marketplace.Store) {
	t.Run("testUniqueness", func(t *testing.T) {
		ctx := context.Background()

		record := &marketplace.Record{
			Address:        "marketplace_address",
			Name:           "degen bazaar",
			Admin:          "admin_address",
			FeeBasisPoints: 250,
		}
		require.NoError(t, s.Put(ctx, record))

		// Same address
		err := s.Put(ctx, &marketplace.Record{
			Address:        "marketplace_address",
			Name:           "other name",
			Admin:          "admin_address",
			FeeBasisPoints: 250,
		})
		assert.Equal(t, marketplace.ErrExists, err)

		// Same name
		err = s.Put(ctx, &marketplace.Record{
			Address:        "other_address",
			Name:           "degen bazaar",
			Admin:          "admin_address",
			FeeBasisPoints: 250,
		})
		assert.Equal(t, marketplace.ErrExists, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *marketplace.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.Admin, obj2.Admin)
	assert.Equal(t, obj1.FeeBasisPoints, obj2.FeeBasisPoints)
}
