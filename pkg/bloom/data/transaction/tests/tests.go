package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
	"github.com/bloom-commerce/bloom-server/pkg/pointer"
)

func RunTests(t *testing.T, s transaction.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s transaction.Store){
		testRoundTrip,
		testStateTransitions,
		testGetAllForCustomer,
		testGetAllCompletedInRange,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s transaction.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		expected := &transaction.Record{
			TransactionId:     uuid.NewString(),
			TransactionNumber: "PT-10001",
			CustomerId:        uuid.NewString(),
			Channel:           transaction.ChannelPointOfSale,
			State:             transaction.StateProcessing,
			Amount:            10000,
			TaxAmount:         800,
			TipAmount:         0,
			Methods: []*transaction.Method{
				{
					Type:   transaction.MethodTypeCash,
					Amount: 4000,
				},
				{
					Type:      transaction.MethodTypeCard,
					Provider:  transaction.ProviderStripe,
					Amount:    6000,
					Reference: pointer.String("4242"),
				},
			},
			CreatedAt: time.Now(),
		}

		_, err := s.Get(ctx, expected.TransactionId)
		assert.Equal(t, transaction.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, expected))
		assert.True(t, expected.Id > 0)
		for _, method := range expected.Methods {
			assert.True(t, method.Id > 0)
			assert.Equal(t, expected.TransactionId, method.TransactionId)
		}

		assert.Equal(t, transaction.ErrExists, s.Put(ctx, expected))

		actual, err := s.Get(ctx, expected.TransactionId)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByNumber(ctx, expected.TransactionNumber)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
	})
}

func testStateTransitions(t *testing.T, s transaction.Store) {
	t.Run("testStateTransitions", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, transaction.ErrNotFound, s.MarkCompleted(ctx, uuid.NewString(), time.Now()))
		assert.Equal(t, transaction.ErrNotFound, s.UpdateState(ctx, uuid.NewString(), transaction.StateRefunded))

		record := &transaction.Record{
			TransactionId:     uuid.NewString(),
			TransactionNumber: "PT-10002",
			CustomerId:        uuid.NewString(),
			Channel:           transaction.ChannelPhone,
			State:             transaction.StateProcessing,
			Amount:            5000,
			Methods: []*transaction.Method{
				{
					Type:   transaction.MethodTypeCheck,
					Amount: 5000,
				},
			},
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.Put(ctx, record))

		completedAt := time.Now()
		require.NoError(t, s.MarkCompleted(ctx, record.TransactionId, completedAt))

		actual, err := s.Get(ctx, record.TransactionId)
		require.NoError(t, err)
		assert.Equal(t, transaction.StateCompleted, actual.State)
		require.NotNil(t, actual.CompletedAt)
		assert.Equal(t, completedAt.Unix(), actual.CompletedAt.Unix())

		require.NoError(t, s.UpdateState(ctx, record.TransactionId, transaction.StatePartiallyRefunded))

		actual, err = s.Get(ctx, record.TransactionId)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatePartiallyRefunded, actual.State)
	})
}

func testGetAllForCustomer(t *testing.T, s transaction.Store) {
	t.Run("testGetAllForCustomer", func(t *testing.T) {
		ctx := context.Background()

		customerId := uuid.NewString()

		_, err := s.GetAllForCustomer(ctx, customerId, q.Ascending)
		assert.Equal(t, transaction.ErrNotFound, err)

		for i := 0; i < 3; i++ {
			owner := customerId
			if i == 2 {
				owner = uuid.NewString()
			}

			require.NoError(t, s.Put(ctx, &transaction.Record{
				TransactionId:     uuid.NewString(),
				TransactionNumber: uuid.NewString()[:8],
				CustomerId:        owner,
				Channel:           transaction.ChannelWebsite,
				State:             transaction.StateProcessing,
				Amount:            int64(1000 * (i + 1)),
				Methods: []*transaction.Method{
					{
						Type:   transaction.MethodTypeCash,
						Amount: int64(1000 * (i + 1)),
					},
				},
				CreatedAt: time.Now(),
			}))
		}

		actual, err := s.GetAllForCustomer(ctx, customerId, q.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.True(t, actual[0].Id < actual[1].Id)

		actual, err = s.GetAllForCustomer(ctx, customerId, q.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.True(t, actual[0].Id > actual[1].Id)
	})
}

func testGetAllCompletedInRange(t *testing.T, s transaction.Store) {
	t.Run("testGetAllCompletedInRange", func(t *testing.T) {
		ctx := context.Background()

		base := time.Now().Truncate(time.Hour)

		_, err := s.GetAllCompletedInRange(ctx, base, base.Add(time.Hour), q.Ascending)
		assert.Equal(t, transaction.ErrNotFound, err)

		var ids []string
		for i := 0; i < 3; i++ {
			record := &transaction.Record{
				TransactionId:     uuid.NewString(),
				TransactionNumber: uuid.NewString()[:8],
				CustomerId:        uuid.NewString(),
				Channel:           transaction.ChannelPointOfSale,
				State:             transaction.StateProcessing,
				Amount:            1000,
				Methods: []*transaction.Method{
					{
						Type:   transaction.MethodTypeCash,
						Amount: 1000,
					},
				},
				CreatedAt: base,
			}
			require.NoError(t, s.Put(ctx, record))
			ids = append(ids, record.TransactionId)
		}

		// One inside the range, one before it, one left incomplete
		require.NoError(t, s.MarkCompleted(ctx, ids[0], base.Add(30*time.Minute)))
		require.NoError(t, s.MarkCompleted(ctx, ids[1], base.Add(-time.Hour)))

		actual, err := s.GetAllCompletedInRange(ctx, base, base.Add(time.Hour), q.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, ids[0], actual[0].TransactionId)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *transaction.Record) {
	assert.Equal(t, obj1.TransactionId, obj2.TransactionId)
	assert.Equal(t, obj1.TransactionNumber, obj2.TransactionNumber)
	assert.Equal(t, obj1.CustomerId, obj2.CustomerId)
	assert.Equal(t, obj1.Channel, obj2.Channel)
	assert.Equal(t, obj1.State, obj2.State)
	assert.Equal(t, obj1.Amount, obj2.Amount)
	assert.Equal(t, obj1.TaxAmount, obj2.TaxAmount)
	assert.Equal(t, obj1.TipAmount, obj2.TipAmount)

	require.Equal(t, len(obj1.Methods), len(obj2.Methods))
	for i, expected := range obj1.Methods {
		actual := obj2.Methods[i]
		assert.Equal(t, expected.Type, actual.Type)
		assert.Equal(t, expected.Provider, actual.Provider)
		assert.Equal(t, expected.Amount, actual.Amount)
		assert.EqualValues(t, expected.Reference, actual.Reference)
	}
}
