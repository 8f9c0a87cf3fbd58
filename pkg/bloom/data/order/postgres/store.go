package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed order.Store
func New(db *sql.DB) order.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements order.Store.Put
func (s *store) Put(ctx context.Context, record *order.Record) error {
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

// Get implements order.Store.Get
func (s *store) Get(ctx context.Context, orderId string) (*order.Record, error) {
	model, err := dbGet(ctx, s.db, orderId)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetByNumber implements order.Store.GetByNumber
func (s *store) GetByNumber(ctx context.Context, orderNumber string) (*order.Record, error) {
	model, err := dbGetByNumber(ctx, s.db, orderNumber)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// UpdatePaymentStatus implements order.Store.UpdatePaymentStatus
func (s *store) UpdatePaymentStatus(ctx context.Context, orderId string, status order.PaymentStatus) error {
	return dbUpdatePaymentStatus(ctx, s.db, orderId, status)
}

// GetAllByPaymentStatus implements order.Store.GetAllByPaymentStatus
func (s *store) GetAllByPaymentStatus(ctx context.Context, status order.PaymentStatus) ([]*order.Record, error) {
	models, err := dbGetAllByPaymentStatus(ctx, s.db, status)
	if err != nil {
		return nil, err
	}

	res := make([]*order.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
