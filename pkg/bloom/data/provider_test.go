package data_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/checkout"
	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/pos"
	refund_service "github.com/bloom-commerce/bloom-server/pkg/bloom/refund"

	postgrestest "github.com/bloom-commerce/bloom-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the tables and migrations are external to this repository
	tableCreate = `
		CREATE TABLE bloomshop__core_order(
			id SERIAL NOT NULL PRIMARY KEY,

			order_id TEXT NOT NULL UNIQUE,
			order_number TEXT NOT NULL UNIQUE,
			customer_id TEXT NOT NULL,

			order_type SMALLINT NOT NULL,

			payment_amount BIGINT NOT NULL CHECK (payment_amount >= 0),
			payment_status SMALLINT NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE bloomshop__core_transaction(
			id SERIAL NOT NULL PRIMARY KEY,

			transaction_id TEXT NOT NULL UNIQUE,
			transaction_number TEXT NOT NULL UNIQUE,
			customer_id TEXT NOT NULL,

			channel SMALLINT NOT NULL,
			state SMALLINT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount >= 0),
			tax_amount BIGINT NOT NULL,
			tip_amount BIGINT NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			completed_at TIMESTAMP WITH TIME ZONE NULL
		);

		CREATE TABLE bloomshop__core_transactionmethod(
			id SERIAL NOT NULL PRIMARY KEY,

			transaction_id TEXT NOT NULL,

			method_type SMALLINT NOT NULL,
			provider SMALLINT NOT NULL,

			amount BIGINT NOT NULL,

			reference TEXT NULL
		);

		CREATE TABLE bloomshop__core_orderpayment(
			id SERIAL NOT NULL PRIMARY KEY,

			order_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount >= 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,

			CONSTRAINT bloomshop__core_orderpayment__uniq__order_id__and__transaction_id UNIQUE (order_id, transaction_id)
		);

		CREATE TABLE bloomshop__core_refund(
			id SERIAL NOT NULL PRIMARY KEY,

			refund_id TEXT NOT NULL UNIQUE,
			refund_number TEXT NOT NULL UNIQUE,

			transaction_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount > 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE bloomshop__core_refundmethod(
			id SERIAL NOT NULL PRIMARY KEY,

			refund_id TEXT NOT NULL,

			method_type SMALLINT NOT NULL,
			amount BIGINT NOT NULL
		);

		CREATE TABLE bloomshop__core_orderrefund(
			id SERIAL NOT NULL PRIMARY KEY,

			order_id TEXT NOT NULL,
			refund_id TEXT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount > 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,

			CONSTRAINT bloomshop__core_orderrefund__uniq__order_id__and__refund_id UNIQUE (order_id, refund_id)
		);

		CREATE TABLE bloomshop__core_counter(
			key TEXT NOT NULL PRIMARY KEY,
			value BIGINT NOT NULL CHECK (value > 0)
		);

		CREATE TABLE bloomshop__core_houseaccountentry(
			id SERIAL NOT NULL PRIMARY KEY,

			customer_id TEXT NOT NULL,

			amount BIGINT NOT NULL,
			balance BIGINT NOT NULL,

			reference TEXT NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`

	// Used for testing ONLY, the tables and migrations are external to this repository
	tableDestroy = `
		DROP TABLE bloomshop__core_order;
		DROP TABLE bloomshop__core_transaction;
		DROP TABLE bloomshop__core_transactionmethod;
		DROP TABLE bloomshop__core_orderpayment;
		DROP TABLE bloomshop__core_refund;
		DROP TABLE bloomshop__core_refundmethod;
		DROP TABLE bloomshop__core_orderrefund;
		DROP TABLE bloomshop__core_counter;
		DROP TABLE bloomshop__core_houseaccountentry;
	`
)

var (
	testProvider bloom_data.Provider
	teardown     func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		logrus.StandardLogger().WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testProvider = bloom_data.NewPostgresTestDataProvider(db)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			logrus.StandardLogger().WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func createPostgresOrder(t *testing.T, ctx context.Context, amount int64) *order.Record {
	record := &order.Record{
		OrderId:       uuid.NewString(),
		OrderNumber:   uuid.NewString()[:8],
		CustomerId:    uuid.NewString(),
		OrderType:     order.TypePointOfSale,
		PaymentAmount: amount,
		PaymentStatus: order.PaymentStatusUnpaid,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, testProvider.CreateOrder(ctx, record))
	return record
}

// Runs the full checkout flow against a real postgres so every store
// call inside the session's DB transaction is exercised together: the
// counter, the transaction and its methods, the order payment link, the
// completion update, the house account charge, and the reconciled
// status read back through the same transaction.
func TestFinalizeSession_Postgres(t *testing.T) {
	defer teardown()

	ctx := context.Background()
	service := checkout.NewService(testProvider, checkout.WithEnvConfigs())

	orderRecord := createPostgresOrder(t, ctx, 10000)

	ledger := pos.NewLedger()
	ledger.Initialize(10000)

	first := ledger.Rows()[0]
	ledger.SetAmount(first.ID, 6000)
	ledger.MarkProcessing(first.ID)
	ledger.CompleteRow(first.ID, &pos.Payload{Method: pos.TenderCash, Amount: 6000}, "")

	second := ledger.AddRow()
	ledger.MarkProcessing(second.ID)
	ledger.CompleteRow(second.ID, &pos.Payload{
		Method:   pos.TenderHouseAccount,
		Amount:   4000,
		Metadata: pos.AccountMetadata{Reference: orderRecord.CustomerId},
	}, "")

	record, err := service.FinalizeSession(ctx, &checkout.Session{
		Ledger:     ledger,
		OrderId:    orderRecord.OrderId,
		CustomerId: orderRecord.CustomerId,
		Channel:    transaction.ChannelPointOfSale,
	})
	require.NoError(t, err)
	assert.Equal(t, transaction.StateCompleted, record.State)

	saved, err := testProvider.GetTransaction(ctx, record.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, transaction.StateCompleted, saved.State)
	require.NotNil(t, saved.CompletedAt)
	require.Len(t, saved.Methods, 2)

	links, err := testProvider.GetOrderPaymentsForOrder(ctx, orderRecord.OrderId)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.EqualValues(t, 10000, links[0].Amount)

	entry, err := testProvider.GetLatestHouseAccountEntry(ctx, orderRecord.CustomerId)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, entry.Amount)
	assert.EqualValues(t, 4000, entry.Balance)
	assert.Equal(t, record.TransactionNumber, entry.Reference)

	// Only the cash portion settles
	updated, err := testProvider.GetOrder(ctx, orderRecord.OrderId)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusPartiallyPaid, updated.PaymentStatus)
}

func TestFinalizeSession_Postgres_GuardRollsBackCleanly(t *testing.T) {
	defer teardown()

	ctx := context.Background()
	service := checkout.NewService(testProvider, checkout.WithEnvConfigs())

	orderRecord := createPostgresOrder(t, ctx, 5000)

	ledger := pos.NewLedger()
	ledger.Initialize(5000)

	_, err := service.FinalizeSession(ctx, &checkout.Session{
		Ledger:     ledger,
		OrderId:    orderRecord.OrderId,
		CustomerId: orderRecord.CustomerId,
		Channel:    transaction.ChannelPointOfSale,
	})
	assert.Equal(t, checkout.ErrNoPayments, err)

	_, err = testProvider.GetOrderPaymentsForOrder(ctx, orderRecord.OrderId)
	assert.Error(t, err)
}

func TestProcessRefund_Postgres(t *testing.T) {
	defer teardown()

	ctx := context.Background()
	checkoutService := checkout.NewService(testProvider, checkout.WithEnvConfigs())
	refundService := refund_service.NewService(testProvider, refund_service.WithEnvConfigs())

	orderRecord := createPostgresOrder(t, ctx, 8000)

	ledger := pos.NewLedger()
	ledger.Initialize(8000)
	rowId := ledger.Rows()[0].ID
	ledger.SetAmount(rowId, 8000)
	ledger.MarkProcessing(rowId)
	ledger.CompleteRow(rowId, &pos.Payload{Method: pos.TenderCash, Amount: 8000}, "")

	txRecord, err := checkoutService.FinalizeSession(ctx, &checkout.Session{
		Ledger:     ledger,
		OrderId:    orderRecord.OrderId,
		CustomerId: orderRecord.CustomerId,
		Channel:    transaction.ChannelPointOfSale,
	})
	require.NoError(t, err)

	refundRecord, err := refundService.ProcessRefund(ctx, &refund_service.Request{
		TransactionId: txRecord.TransactionId,
		Methods: []refund_service.MethodAmount{
			{Type: transaction.MethodTypeCash, Amount: 8000},
		},
		Orders: map[string]int64{orderRecord.OrderId: 8000},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8000, refundRecord.Amount)

	updatedTx, err := testProvider.GetTransaction(ctx, txRecord.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, transaction.StateRefunded, updatedTx.State)

	updated, err := testProvider.GetOrder(ctx, orderRecord.OrderId)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusRefunded, updated.PaymentStatus)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
