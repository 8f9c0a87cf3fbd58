package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed payment.Store
func New(db *sql.DB) payment.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements payment.Store.Put
func (s *store) Put(ctx context.Context, record *payment.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbSave(ctx, s.db); err != nil {
		return err
	}

	fromModel(model).CopyTo(record)

	return nil
}

// GetAllForOrder implements payment.Store.GetAllForOrder
func (s *store) GetAllForOrder(ctx context.Context, orderId string) ([]*payment.Record, error) {
	models, err := dbGetAllForOrder(ctx, s.db, orderId)
	if err != nil {
		return nil, err
	}

	res := make([]*payment.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}

// GetAllForTransaction implements payment.Store.GetAllForTransaction
func (s *store) GetAllForTransaction(ctx context.Context, transactionId string) ([]*payment.Record, error) {
	models, err := dbGetAllForTransaction(ctx, s.db, transactionId)
	if err != nil {
		return nil, err
	}

	res := make([]*payment.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}

// GetOrderIdsWithActivitySince implements payment.Store.GetOrderIdsWithActivitySince
func (s *store) GetOrderIdsWithActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	return dbGetOrderIdsWithActivitySince(ctx, s.db, since)
}
