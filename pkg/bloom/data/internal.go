package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"

	counter_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter/memory"
	houseaccount_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount/memory"
	order_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/order/memory"
	payment_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment/memory"
	refund_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund/memory"
	transaction_memory_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction/memory"

	counter_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter/postgres"
	houseaccount_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount/postgres"
	order_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/order/postgres"
	payment_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment/postgres"
	refund_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund/postgres"
	transaction_postgres_client "github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction/postgres"
)

type DatabaseData interface {
	// Orders
	// --------------------------------------------------------------------------------
	CreateOrder(ctx context.Context, record *order.Record) error
	GetOrder(ctx context.Context, orderId string) (*order.Record, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Record, error)
	UpdateOrderPaymentStatus(ctx context.Context, orderId string, status order.PaymentStatus) error
	GetAllOrdersByPaymentStatus(ctx context.Context, status order.PaymentStatus) ([]*order.Record, error)

	// Transactions
	// --------------------------------------------------------------------------------
	CreateTransaction(ctx context.Context, record *transaction.Record) error
	GetTransaction(ctx context.Context, transactionId string) (*transaction.Record, error)
	GetTransactionByNumber(ctx context.Context, transactionNumber string) (*transaction.Record, error)
	MarkTransactionCompleted(ctx context.Context, transactionId string, completedAt time.Time) error
	UpdateTransactionState(ctx context.Context, transactionId string, state transaction.State) error
	GetAllTransactionsForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*transaction.Record, error)
	GetAllTransactionsCompletedInRange(ctx context.Context, start, end time.Time, ordering q.Ordering) ([]*transaction.Record, error)

	// Order Payments
	// --------------------------------------------------------------------------------
	CreateOrderPayment(ctx context.Context, record *payment.Record) error
	GetOrderPaymentsForOrder(ctx context.Context, orderId string) ([]*payment.Record, error)
	GetOrderPaymentsForTransaction(ctx context.Context, transactionId string) ([]*payment.Record, error)
	GetOrderIdsWithPaymentActivitySince(ctx context.Context, since time.Time) ([]string, error)

	// Refunds
	// --------------------------------------------------------------------------------
	CreateRefund(ctx context.Context, record *refund.Record) error
	GetRefund(ctx context.Context, refundId string) (*refund.Record, error)
	GetRefundByNumber(ctx context.Context, refundNumber string) (*refund.Record, error)
	GetAllRefundsForTransaction(ctx context.Context, transactionId string) ([]*refund.Record, error)
	CreateOrderRefund(ctx context.Context, record *refund.OrderRefund) error
	GetOrderRefundsForOrder(ctx context.Context, orderId string) ([]*refund.OrderRefund, error)
	GetOrderIdsWithRefundActivitySince(ctx context.Context, since time.Time) ([]string, error)

	// Counters
	// --------------------------------------------------------------------------------
	GetNextSequenceValue(ctx context.Context, key string) (uint64, error)

	// House Accounts
	// --------------------------------------------------------------------------------
	CreateHouseAccountEntry(ctx context.Context, record *houseaccount.Record) error
	GetLatestHouseAccountEntry(ctx context.Context, customerId string) (*houseaccount.Record, error)
	GetHouseAccountEntriesForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*houseaccount.Record, error)

	// ExecuteInTx runs fn inside a single DB transaction, carried through
	// the context to all store calls made within it.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type DatabaseProvider struct {
	orders        order.Store
	transactions  transaction.Store
	payments      payment.Store
	refunds       refund.Store
	counters      counter.Store
	houseAccounts houseaccount.Store

	db *sqlx.DB
}

func NewDatabaseProvider(dbConfig *pg.Config) (DatabaseData, error) {
	db, err := pg.NewWithUsernameAndPassword(
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		fmt.Sprint(dbConfig.Port),
		dbConfig.DbName,
	)
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConnections)
	}
	if dbConfig.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConnections)
	}
	db.SetConnMaxIdleTime(time.Hour)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseProvider{
		orders:        order_postgres_client.New(db),
		transactions:  transaction_postgres_client.New(db),
		payments:      payment_postgres_client.New(db),
		refunds:       refund_postgres_client.New(db),
		counters:      counter_postgres_client.New(db),
		houseAccounts: houseaccount_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

// NewPostgresDatabaseProvider returns a DatabaseData over an existing
// postgres connection. Used for testing ONLY.
func NewPostgresDatabaseProvider(db *sql.DB) DatabaseData {
	return &DatabaseProvider{
		orders:        order_postgres_client.New(db),
		transactions:  transaction_postgres_client.New(db),
		payments:      payment_postgres_client.New(db),
		refunds:       refund_postgres_client.New(db),
		counters:      counter_postgres_client.New(db),
		houseAccounts: houseaccount_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}
}

func NewTestDatabaseProvider() DatabaseData {
	return &DatabaseProvider{
		orders:        order_memory_client.New(),
		transactions:  transaction_memory_client.New(),
		payments:      payment_memory_client.New(),
		refunds:       refund_memory_client.New(),
		counters:      counter_memory_client.New(),
		houseAccounts: houseaccount_memory_client.New(),
	}
}

func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	return pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
}

// Orders
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) CreateOrder(ctx context.Context, record *order.Record) error {
	return dp.orders.Put(ctx, record)
}
func (dp *DatabaseProvider) GetOrder(ctx context.Context, orderId string) (*order.Record, error) {
	return dp.orders.Get(ctx, orderId)
}
func (dp *DatabaseProvider) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Record, error) {
	return dp.orders.GetByNumber(ctx, orderNumber)
}
func (dp *DatabaseProvider) UpdateOrderPaymentStatus(ctx context.Context, orderId string, status order.PaymentStatus) error {
	return dp.orders.UpdatePaymentStatus(ctx, orderId, status)
}
func (dp *DatabaseProvider) GetAllOrdersByPaymentStatus(ctx context.Context, status order.PaymentStatus) ([]*order.Record, error) {
	return dp.orders.GetAllByPaymentStatus(ctx, status)
}

// Transactions
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) CreateTransaction(ctx context.Context, record *transaction.Record) error {
	return dp.transactions.Put(ctx, record)
}
func (dp *DatabaseProvider) GetTransaction(ctx context.Context, transactionId string) (*transaction.Record, error) {
	return dp.transactions.Get(ctx, transactionId)
}
func (dp *DatabaseProvider) GetTransactionByNumber(ctx context.Context, transactionNumber string) (*transaction.Record, error) {
	return dp.transactions.GetByNumber(ctx, transactionNumber)
}
func (dp *DatabaseProvider) MarkTransactionCompleted(ctx context.Context, transactionId string, completedAt time.Time) error {
	return dp.transactions.MarkCompleted(ctx, transactionId, completedAt)
}
func (dp *DatabaseProvider) UpdateTransactionState(ctx context.Context, transactionId string, state transaction.State) error {
	return dp.transactions.UpdateState(ctx, transactionId, state)
}
func (dp *DatabaseProvider) GetAllTransactionsForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*transaction.Record, error) {
	return dp.transactions.GetAllForCustomer(ctx, customerId, ordering)
}
func (dp *DatabaseProvider) GetAllTransactionsCompletedInRange(ctx context.Context, start, end time.Time, ordering q.Ordering) ([]*transaction.Record, error) {
	return dp.transactions.GetAllCompletedInRange(ctx, start, end, ordering)
}

// Order Payments
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) CreateOrderPayment(ctx context.Context, record *payment.Record) error {
	return dp.payments.Put(ctx, record)
}
func (dp *DatabaseProvider) GetOrderPaymentsForOrder(ctx context.Context, orderId string) ([]*payment.Record, error) {
	return dp.payments.GetAllForOrder(ctx, orderId)
}
func (dp *DatabaseProvider) GetOrderPaymentsForTransaction(ctx context.Context, transactionId string) ([]*payment.Record, error) {
	return dp.payments.GetAllForTransaction(ctx, transactionId)
}
func (dp *DatabaseProvider) GetOrderIdsWithPaymentActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	return dp.payments.GetOrderIdsWithActivitySince(ctx, since)
}

// Refunds
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) CreateRefund(ctx context.Context, record *refund.Record) error {
	return dp.refunds.Put(ctx, record)
}
func (dp *DatabaseProvider) GetRefund(ctx context.Context, refundId string) (*refund.Record, error) {
	return dp.refunds.Get(ctx, refundId)
}
func (dp *DatabaseProvider) GetRefundByNumber(ctx context.Context, refundNumber string) (*refund.Record, error) {
	return dp.refunds.GetByNumber(ctx, refundNumber)
}
func (dp *DatabaseProvider) GetAllRefundsForTransaction(ctx context.Context, transactionId string) ([]*refund.Record, error) {
	return dp.refunds.GetAllForTransaction(ctx, transactionId)
}
func (dp *DatabaseProvider) CreateOrderRefund(ctx context.Context, record *refund.OrderRefund) error {
	return dp.refunds.PutOrderRefund(ctx, record)
}
func (dp *DatabaseProvider) GetOrderRefundsForOrder(ctx context.Context, orderId string) ([]*refund.OrderRefund, error) {
	return dp.refunds.GetOrderRefundsForOrder(ctx, orderId)
}
func (dp *DatabaseProvider) GetOrderIdsWithRefundActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	return dp.refunds.GetOrderIdsWithActivitySince(ctx, since)
}

// Counters
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) GetNextSequenceValue(ctx context.Context, key string) (uint64, error) {
	return dp.counters.GetNext(ctx, key)
}

// House Accounts
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) CreateHouseAccountEntry(ctx context.Context, record *houseaccount.Record) error {
	return dp.houseAccounts.PutEntry(ctx, record)
}
func (dp *DatabaseProvider) GetLatestHouseAccountEntry(ctx context.Context, customerId string) (*houseaccount.Record, error) {
	return dp.houseAccounts.GetLatestEntry(ctx, customerId)
}
func (dp *DatabaseProvider) GetHouseAccountEntriesForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*houseaccount.Record, error) {
	return dp.houseAccounts.GetAllForCustomer(ctx, customerId, ordering)
}
