package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
)

func RunTests(t *testing.T, s refund.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s refund.Store){
		testRoundTrip,
		testOrderRefunds,
		testGetOrderIdsWithActivitySince,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s refund.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		expected := &refund.Record{
			RefundId:      uuid.NewString(),
			RefundNumber:  "RF-20001",
			TransactionId: uuid.NewString(),
			CustomerId:    uuid.NewString(),
			Amount:        3000,
			Methods: []*refund.Method{
				{
					Type:   transaction.MethodTypeCash,
					Amount: 1000,
				},
				{
					Type:   transaction.MethodTypeCard,
					Amount: 2000,
				},
			},
			CreatedAt: time.Now(),
		}

		_, err := s.Get(ctx, expected.RefundId)
		assert.Equal(t, refund.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, expected))
		assert.True(t, expected.Id > 0)
		for _, method := range expected.Methods {
			assert.True(t, method.Id > 0)
			assert.Equal(t, expected.RefundId, method.RefundId)
		}

		assert.Equal(t, refund.ErrExists, s.Put(ctx, expected))

		actual, err := s.Get(ctx, expected.RefundId)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByNumber(ctx, expected.RefundNumber)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		all, err := s.GetAllForTransaction(ctx, expected.TransactionId)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assertEquivalentRecords(t, expected, all[0])

		_, err = s.GetAllForTransaction(ctx, uuid.NewString())
		assert.Equal(t, refund.ErrNotFound, err)
	})
}

func testOrderRefunds(t *testing.T, s refund.Store) {
	t.Run("testOrderRefunds", func(t *testing.T) {
		ctx := context.Background()

		orderId := uuid.NewString()

		_, err := s.GetOrderRefundsForOrder(ctx, orderId)
		assert.Equal(t, refund.ErrNotFound, err)

		expected := &refund.OrderRefund{
			OrderId:   orderId,
			RefundId:  uuid.NewString(),
			Amount:    1500,
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.PutOrderRefund(ctx, expected))
		assert.True(t, expected.Id > 0)

		assert.Equal(t, refund.ErrExists, s.PutOrderRefund(ctx, expected))

		require.NoError(t, s.PutOrderRefund(ctx, &refund.OrderRefund{
			OrderId:   orderId,
			RefundId:  uuid.NewString(),
			Amount:    500,
			CreatedAt: time.Now(),
		}))

		actual, err := s.GetOrderRefundsForOrder(ctx, orderId)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, expected.RefundId, actual[0].RefundId)
		assert.EqualValues(t, 1500, actual[0].Amount)
	})
}

func testGetOrderIdsWithActivitySince(t *testing.T, s refund.Store) {
	t.Run("testGetOrderIdsWithActivitySince", func(t *testing.T) {
		ctx := context.Background()

		base := time.Now().Truncate(time.Hour)

		_, err := s.GetOrderIdsWithActivitySince(ctx, base)
		assert.Equal(t, refund.ErrNotFound, err)

		orderId := uuid.NewString()

		require.NoError(t, s.PutOrderRefund(ctx, &refund.OrderRefund{
			OrderId:   uuid.NewString(),
			RefundId:  uuid.NewString(),
			Amount:    1000,
			CreatedAt: base.Add(-time.Hour),
		}))

		for i := 0; i < 2; i++ {
			require.NoError(t, s.PutOrderRefund(ctx, &refund.OrderRefund{
				OrderId:   orderId,
				RefundId:  uuid.NewString(),
				Amount:    1000,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		actual, err := s.GetOrderIdsWithActivitySince(ctx, base)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, orderId, actual[0])
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *refund.Record) {
	assert.Equal(t, obj1.RefundId, obj2.RefundId)
	assert.Equal(t, obj1.RefundNumber, obj2.RefundNumber)
	assert.Equal(t, obj1.TransactionId, obj2.TransactionId)
	assert.Equal(t, obj1.CustomerId, obj2.CustomerId)
	assert.Equal(t, obj1.Amount, obj2.Amount)

	require.Equal(t, len(obj1.Methods), len(obj2.Methods))
	for i, expected := range obj1.Methods {
		actual := obj2.Methods[i]
		assert.Equal(t, expected.Type, actual.Type)
		assert.Equal(t, expected.Amount, actual.Amount)
	}
}
