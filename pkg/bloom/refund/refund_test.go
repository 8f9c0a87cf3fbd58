package refund

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/settlement"
)

type testEnv struct {
	ctx     context.Context
	data    bloom_data.Provider
	service *Service
}

func setup(t *testing.T) *testEnv {
	data := bloom_data.NewTestDataProvider()
	return &testEnv{
		ctx:     context.Background(),
		data:    data,
		service: NewService(data, withManualTestOverrides(&testOverrides{})),
	}
}

func (env *testEnv) createOrder(t *testing.T, amount int64) *order.Record {
	record := &order.Record{
		OrderId:       uuid.NewString(),
		OrderNumber:   uuid.NewString()[:8],
		CustomerId:    uuid.NewString(),
		OrderType:     order.TypePointOfSale,
		PaymentAmount: amount,
		PaymentStatus: order.PaymentStatusUnpaid,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, env.data.CreateOrder(env.ctx, record))
	return record
}

// createCompletedTransaction persists a completed transaction paying the
// order in full with the provided method amounts, then reconciles the
// order the way checkout would.
func (env *testEnv) createCompletedTransaction(t *testing.T, orderRecord *order.Record, methods ...*transaction.Method) *transaction.Record {
	var total int64
	for _, method := range methods {
		total += method.Amount
	}

	record := &transaction.Record{
		TransactionId:     uuid.NewString(),
		TransactionNumber: uuid.NewString()[:8],
		CustomerId:        orderRecord.CustomerId,
		Channel:           transaction.ChannelPointOfSale,
		State:             transaction.StateProcessing,
		Amount:            total,
		Methods:           methods,
		CreatedAt:         time.Now(),
	}
	require.NoError(t, env.data.CreateTransaction(env.ctx, record))
	require.NoError(t, env.data.CreateOrderPayment(env.ctx, &payment.Record{
		OrderId:       orderRecord.OrderId,
		TransactionId: record.TransactionId,
		Amount:        total,
		CreatedAt:     time.Now(),
	}))
	require.NoError(t, env.data.MarkTransactionCompleted(env.ctx, record.TransactionId, time.Now()))

	_, err := settlement.Reconcile(env.ctx, env.data, []string{orderRecord.OrderId})
	require.NoError(t, err)

	updated, err := env.data.GetTransaction(env.ctx, record.TransactionId)
	require.NoError(t, err)
	return updated
}

func (env *testEnv) assertStatus(t *testing.T, orderId string, expected order.PaymentStatus) {
	updated, err := env.data.GetOrder(env.ctx, orderId)
	require.NoError(t, err)
	assert.Equal(t, expected, updated.PaymentStatus)
}

func cashMethod(amount int64) *transaction.Method {
	return &transaction.Method{
		Type:     transaction.MethodTypeCash,
		Provider: transaction.ProviderInternal,
		Amount:   amount,
	}
}

func TestProcessRefund_Full(t *testing.T) {
	env := setup(t)

	orderRecord := env.createOrder(t, 10000)
	txRecord := env.createCompletedTransaction(t, orderRecord, cashMethod(10000))
	env.assertStatus(t, orderRecord.OrderId, order.PaymentStatusPaid)

	record, err := env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 10000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 10000},
	})
	require.NoError(t, err)

	assert.Equal(t, "RF-10001", record.RefundNumber)
	assert.EqualValues(t, 10000, record.Amount)
	assert.Equal(t, txRecord.CustomerId, record.CustomerId)

	updatedTx, err := env.data.GetTransaction(env.ctx, txRecord.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, transaction.StateRefunded, updatedTx.State)

	links, err := env.data.GetOrderRefundsForOrder(env.ctx, orderRecord.OrderId)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.EqualValues(t, 10000, links[0].Amount)

	env.assertStatus(t, orderRecord.OrderId, order.PaymentStatusRefunded)
}

func TestProcessRefund_Partial(t *testing.T) {
	env := setup(t)

	orderRecord := env.createOrder(t, 10000)
	txRecord := env.createCompletedTransaction(t, orderRecord, cashMethod(10000))

	record, err := env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 4000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 4000},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4000, record.Amount)

	updatedTx, err := env.data.GetTransaction(env.ctx, txRecord.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatePartiallyRefunded, updatedTx.State)

	env.assertStatus(t, orderRecord.OrderId, order.PaymentStatusPartiallyRefunded)

	// A second refund for the remainder rolls everything up
	_, err = env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 6000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 6000},
	})
	require.NoError(t, err)

	updatedTx, err = env.data.GetTransaction(env.ctx, txRecord.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, transaction.StateRefunded, updatedTx.State)

	env.assertStatus(t, orderRecord.OrderId, order.PaymentStatusRefunded)
}

func TestProcessRefund_HouseAccountRelease(t *testing.T) {
	env := setup(t)

	orderRecord := env.createOrder(t, 8000)
	txRecord := env.createCompletedTransaction(
		t,
		orderRecord,
		cashMethod(3000),
		&transaction.Method{
			Type:     transaction.MethodTypeHouseAccount,
			Provider: transaction.ProviderInternal,
			Amount:   5000,
		},
	)

	// The charge checkout would have written
	require.NoError(t, env.data.CreateHouseAccountEntry(env.ctx, &houseaccount.Record{
		CustomerId: orderRecord.CustomerId,
		Amount:     5000,
		Reference:  txRecord.TransactionNumber,
		CreatedAt:  time.Now(),
	}))

	record, err := env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeHouseAccount, Amount: 5000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 5000},
	})
	require.NoError(t, err)

	entry, err := env.data.GetLatestHouseAccountEntry(env.ctx, orderRecord.CustomerId)
	require.NoError(t, err)
	assert.EqualValues(t, -5000, entry.Amount)
	assert.EqualValues(t, 0, entry.Balance)
	assert.Equal(t, record.RefundNumber, entry.Reference)
}

func TestProcessRefund_SequentialNumbers(t *testing.T) {
	env := setup(t)

	orderRecord := env.createOrder(t, 10000)
	txRecord := env.createCompletedTransaction(t, orderRecord, cashMethod(10000))

	for _, expected := range []string{"RF-10001", "RF-10002"} {
		record, err := env.service.ProcessRefund(env.ctx, &Request{
			TransactionId: txRecord.TransactionId,
			Methods: []MethodAmount{
				{Type: transaction.MethodTypeCash, Amount: 1000},
			},
			Orders: map[string]int64{orderRecord.OrderId: 1000},
		})
		require.NoError(t, err)
		assert.Equal(t, expected, record.RefundNumber)
	}
}

func TestProcessRefund_Guards(t *testing.T) {
	env := setup(t)

	orderRecord := env.createOrder(t, 5000)
	txRecord := env.createCompletedTransaction(t, orderRecord, cashMethod(5000))

	_, err := env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
	})
	assert.Equal(t, ErrInvalidAmount, err)

	_, err = env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 6000},
		},
	})
	assert.Equal(t, ErrExceedsRefundable, err)

	_, err = env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: txRecord.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 5000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 4000},
	})
	assert.Equal(t, ErrOrderAllocationMismatch, err)

	_, err = env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: uuid.NewString(),
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 1000},
		},
	})
	assert.Equal(t, transaction.ErrNotFound, err)
}

func TestProcessRefund_NotCompleted(t *testing.T) {
	env := setup(t)

	record := &transaction.Record{
		TransactionId:     uuid.NewString(),
		TransactionNumber: uuid.NewString()[:8],
		CustomerId:        uuid.NewString(),
		Channel:           transaction.ChannelPointOfSale,
		State:             transaction.StateProcessing,
		Amount:            5000,
		Methods:           []*transaction.Method{cashMethod(5000)},
		CreatedAt:         time.Now(),
	}
	require.NoError(t, env.data.CreateTransaction(env.ctx, record))

	_, err := env.service.ProcessRefund(env.ctx, &Request{
		TransactionId: record.TransactionId,
		Methods: []MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 5000},
		},
	})
	assert.Equal(t, ErrTransactionNotCompleted, err)
}
