package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

func RunTests(t *testing.T, s houseaccount.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s houseaccount.Store){
		testHappyPath,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s houseaccount.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		customerId := uuid.NewString()

		_, err := s.GetLatestEntry(ctx, customerId)
		assert.Equal(t, houseaccount.ErrNotFound, err)

		_, err = s.GetAllForCustomer(ctx, customerId, q.Ascending)
		assert.Equal(t, houseaccount.ErrNotFound, err)

		charge := &houseaccount.Record{
			CustomerId: customerId,
			Amount:     5000,
			Reference:  "PT-10001",
			CreatedAt:  time.Now(),
		}
		require.NoError(t, s.PutEntry(ctx, charge))
		assert.True(t, charge.Id > 0)
		assert.EqualValues(t, 5000, charge.Balance)

		require.NoError(t, s.PutEntry(ctx, &houseaccount.Record{
			CustomerId: customerId,
			Amount:     2500,
			Reference:  "PT-10002",
			CreatedAt:  time.Now(),
		}))

		// Reversal takes the balance back down
		reversal := &houseaccount.Record{
			CustomerId: customerId,
			Amount:     -5000,
			Reference:  "RF-10001",
			CreatedAt:  time.Now(),
		}
		require.NoError(t, s.PutEntry(ctx, reversal))
		assert.EqualValues(t, 2500, reversal.Balance)

		latest, err := s.GetLatestEntry(ctx, customerId)
		require.NoError(t, err)
		assert.EqualValues(t, 2500, latest.Balance)
		assert.Equal(t, "RF-10001", latest.Reference)

		all, err := s.GetAllForCustomer(ctx, customerId, q.Ascending)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.EqualValues(t, 5000, all[0].Balance)
		assert.EqualValues(t, 7500, all[1].Balance)
		assert.EqualValues(t, 2500, all[2].Balance)

		newestFirst, err := s.GetAllForCustomer(ctx, customerId, q.Descending)
		require.NoError(t, err)
		require.Len(t, newestFirst, 3)
		assert.Equal(t, "RF-10001", newestFirst[0].Reference)
		assert.Equal(t, "PT-10001", newestFirst[2].Reference)

		// Other customers are unaffected
		other := &houseaccount.Record{
			CustomerId: uuid.NewString(),
			Amount:     1000,
			Reference:  "PT-10003",
			CreatedAt:  time.Now(),
		}
		require.NoError(t, s.PutEntry(ctx, other))
		assert.EqualValues(t, 1000, other.Balance)
	})
}
