package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
)

func RunTests(t *testing.T, s payment.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s payment.Store){
		testRoundTrip,
		testGetOrderIdsWithActivitySince,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s payment.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		orderId := uuid.NewString()
		transactionId := uuid.NewString()

		_, err := s.GetAllForOrder(ctx, orderId)
		assert.Equal(t, payment.ErrNotFound, err)

		_, err = s.GetAllForTransaction(ctx, transactionId)
		assert.Equal(t, payment.ErrNotFound, err)

		expected := &payment.Record{
			OrderId:       orderId,
			TransactionId: transactionId,
			Amount:        7500,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, s.Put(ctx, expected))
		assert.True(t, expected.Id > 0)

		assert.Equal(t, payment.ErrExists, s.Put(ctx, expected))

		// A second transaction paying the same order
		require.NoError(t, s.Put(ctx, &payment.Record{
			OrderId:       orderId,
			TransactionId: uuid.NewString(),
			Amount:        2500,
			CreatedAt:     time.Now(),
		}))

		actual, err := s.GetAllForOrder(ctx, orderId)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, expected.TransactionId, actual[0].TransactionId)
		assert.EqualValues(t, 7500, actual[0].Amount)

		actual, err = s.GetAllForTransaction(ctx, transactionId)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, orderId, actual[0].OrderId)
	})
}

func testGetOrderIdsWithActivitySince(t *testing.T, s payment.Store) {
	t.Run("testGetOrderIdsWithActivitySince", func(t *testing.T) {
		ctx := context.Background()

		base := time.Now().Truncate(time.Hour)

		_, err := s.GetOrderIdsWithActivitySince(ctx, base)
		assert.Equal(t, payment.ErrNotFound, err)

		orderId := uuid.NewString()
		staleOrderId := uuid.NewString()

		require.NoError(t, s.Put(ctx, &payment.Record{
			OrderId:       staleOrderId,
			TransactionId: uuid.NewString(),
			Amount:        1000,
			CreatedAt:     base.Add(-time.Hour),
		}))

		// Two links for the same order, both recent
		for i := 0; i < 2; i++ {
			require.NoError(t, s.Put(ctx, &payment.Record{
				OrderId:       orderId,
				TransactionId: uuid.NewString(),
				Amount:        1000,
				CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			}))
		}

		actual, err := s.GetOrderIdsWithActivitySince(ctx, base)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, orderId, actual[0])
	})
}
