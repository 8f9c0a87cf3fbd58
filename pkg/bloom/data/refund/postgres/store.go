package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed refund.Store
func New(db *sql.DB) refund.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements refund.Store.Put
func (s *store) Put(ctx context.Context, record *refund.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	methods := make([]*methodModel, len(record.Methods))
	for i, method := range record.Methods {
		methods[i] = toMethodModel(method, record.RefundId)
	}

	if err := model.dbSave(ctx, s.db, methods); err != nil {
		return err
	}

	fromModel(model, methods).CopyTo(record)

	return nil
}

// Get implements refund.Store.Get
func (s *store) Get(ctx context.Context, refundId string) (*refund.Record, error) {
	model, methods, err := dbGet(ctx, s.db, refundId)
	if err != nil {
		return nil, err
	}
	return fromModel(model, methods), nil
}

// GetByNumber implements refund.Store.GetByNumber
func (s *store) GetByNumber(ctx context.Context, refundNumber string) (*refund.Record, error) {
	model, methods, err := dbGetByNumber(ctx, s.db, refundNumber)
	if err != nil {
		return nil, err
	}
	return fromModel(model, methods), nil
}

// GetAllForTransaction implements refund.Store.GetAllForTransaction
func (s *store) GetAllForTransaction(ctx context.Context, transactionId string) ([]*refund.Record, error) {
	models, methods, err := dbGetAllForTransaction(ctx, s.db, transactionId)
	if err != nil {
		return nil, err
	}

	res := make([]*refund.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model, methods[i])
	}
	return res, nil
}

// PutOrderRefund implements refund.Store.PutOrderRefund
func (s *store) PutOrderRefund(ctx context.Context, record *refund.OrderRefund) error {
	model, err := toOrderRefundModel(record)
	if err != nil {
		return err
	}

	if err := model.dbSave(ctx, s.db); err != nil {
		return err
	}

	fromOrderRefundModel(model).CopyTo(record)

	return nil
}

// GetOrderRefundsForOrder implements refund.Store.GetOrderRefundsForOrder
func (s *store) GetOrderRefundsForOrder(ctx context.Context, orderId string) ([]*refund.OrderRefund, error) {
	models, err := dbGetOrderRefundsForOrder(ctx, s.db, orderId)
	if err != nil {
		return nil, err
	}

	res := make([]*refund.OrderRefund, len(models))
	for i, model := range models {
		res[i] = fromOrderRefundModel(model)
	}
	return res, nil
}

// GetOrderIdsWithActivitySince implements refund.Store.GetOrderIdsWithActivitySince
func (s *store) GetOrderIdsWithActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	return dbGetOrderIdsWithActivitySince(ctx, s.db, since)
}
