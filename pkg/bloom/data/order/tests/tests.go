package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
)

func RunTests(t *testing.T, s order.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s order.Store){
		testRoundTrip,
		testUpdatePaymentStatus,
		testGetAllByPaymentStatus,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s order.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		expected := &order.Record{
			OrderId:       uuid.NewString(),
			OrderNumber:   "284",
			CustomerId:    uuid.NewString(),
			OrderType:     order.TypePointOfSale,
			PaymentAmount: 12550,
			PaymentStatus: order.PaymentStatusUnpaid,
			CreatedAt:     time.Now(),
		}

		_, err := s.Get(ctx, expected.OrderId)
		assert.Equal(t, order.ErrNotFound, err)

		_, err = s.GetByNumber(ctx, expected.OrderNumber)
		assert.Equal(t, order.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, expected))
		assert.True(t, expected.Id > 0)

		assert.Equal(t, order.ErrExists, s.Put(ctx, expected))

		actual, err := s.Get(ctx, expected.OrderId)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByNumber(ctx, expected.OrderNumber)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
	})
}

func testUpdatePaymentStatus(t *testing.T, s order.Store) {
	t.Run("testUpdatePaymentStatus", func(t *testing.T) {
		ctx := context.Background()

		err := s.UpdatePaymentStatus(ctx, uuid.NewString(), order.PaymentStatusPaid)
		assert.Equal(t, order.ErrNotFound, err)

		record := &order.Record{
			OrderId:       uuid.NewString(),
			OrderNumber:   "301",
			CustomerId:    uuid.NewString(),
			OrderType:     order.TypeDelivery,
			PaymentAmount: 5000,
			PaymentStatus: order.PaymentStatusUnpaid,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, s.Put(ctx, record))

		require.NoError(t, s.UpdatePaymentStatus(ctx, record.OrderId, order.PaymentStatusPartiallyPaid))

		actual, err := s.Get(ctx, record.OrderId)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPartiallyPaid, actual.PaymentStatus)

		require.NoError(t, s.UpdatePaymentStatus(ctx, record.OrderId, order.PaymentStatusPaid))

		actual, err = s.Get(ctx, record.OrderId)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, actual.PaymentStatus)
	})
}

func testGetAllByPaymentStatus(t *testing.T, s order.Store) {
	t.Run("testGetAllByPaymentStatus", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByPaymentStatus(ctx, order.PaymentStatusUnpaid)
		assert.Equal(t, order.ErrNotFound, err)

		for i, status := range []order.PaymentStatus{
			order.PaymentStatusUnpaid,
			order.PaymentStatusUnpaid,
			order.PaymentStatusPaid,
		} {
			require.NoError(t, s.Put(ctx, &order.Record{
				OrderId:       uuid.NewString(),
				OrderNumber:   uuid.NewString()[:8],
				CustomerId:    uuid.NewString(),
				OrderType:     order.TypePointOfSale,
				PaymentAmount: int64(1000 * (i + 1)),
				PaymentStatus: status,
				CreatedAt:     time.Now(),
			}))
		}

		actual, err := s.GetAllByPaymentStatus(ctx, order.PaymentStatusUnpaid)
		require.NoError(t, err)
		assert.Len(t, actual, 2)

		actual, err = s.GetAllByPaymentStatus(ctx, order.PaymentStatusPaid)
		require.NoError(t, err)
		assert.Len(t, actual, 1)

		_, err = s.GetAllByPaymentStatus(ctx, order.PaymentStatusRefunded)
		assert.Equal(t, order.ErrNotFound, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *order.Record) {
	assert.Equal(t, obj1.OrderId, obj2.OrderId)
	assert.Equal(t, obj1.OrderNumber, obj2.OrderNumber)
	assert.Equal(t, obj1.CustomerId, obj2.CustomerId)
	assert.Equal(t, obj1.OrderType, obj2.OrderType)
	assert.Equal(t, obj1.PaymentAmount, obj2.PaymentAmount)
	assert.Equal(t, obj1.PaymentStatus, obj2.PaymentStatus)
}
