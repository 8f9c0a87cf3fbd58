package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed transaction.Store
func New(db *sql.DB) transaction.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements transaction.Store.Put
func (s *store) Put(ctx context.Context, record *transaction.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	methods := make([]*methodModel, len(record.Methods))
	for i, method := range record.Methods {
		methods[i] = toMethodModel(method, record.TransactionId)
	}

	if err := model.dbSave(ctx, s.db, methods); err != nil {
		return err
	}

	fromModel(model, methods).CopyTo(record)

	return nil
}

// Get implements transaction.Store.Get
func (s *store) Get(ctx context.Context, transactionId string) (*transaction.Record, error) {
	model, methods, err := dbGet(ctx, s.db, transactionId)
	if err != nil {
		return nil, err
	}
	return fromModel(model, methods), nil
}

// GetByNumber implements transaction.Store.GetByNumber
func (s *store) GetByNumber(ctx context.Context, transactionNumber string) (*transaction.Record, error) {
	model, methods, err := dbGetByNumber(ctx, s.db, transactionNumber)
	if err != nil {
		return nil, err
	}
	return fromModel(model, methods), nil
}

// MarkCompleted implements transaction.Store.MarkCompleted
func (s *store) MarkCompleted(ctx context.Context, transactionId string, completedAt time.Time) error {
	return dbMarkCompleted(ctx, s.db, transactionId, completedAt)
}

// UpdateState implements transaction.Store.UpdateState
func (s *store) UpdateState(ctx context.Context, transactionId string, state transaction.State) error {
	return dbUpdateState(ctx, s.db, transactionId, state)
}

// GetAllForCustomer implements transaction.Store.GetAllForCustomer
func (s *store) GetAllForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*transaction.Record, error) {
	models, methods, err := dbGetAllForCustomer(ctx, s.db, customerId, ordering)
	if err != nil {
		return nil, err
	}

	res := make([]*transaction.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model, methods[i])
	}
	return res, nil
}

// GetAllCompletedInRange implements transaction.Store.GetAllCompletedInRange
func (s *store) GetAllCompletedInRange(ctx context.Context, start, end time.Time, ordering q.Ordering) ([]*transaction.Record, error) {
	models, methods, err := dbGetAllCompletedInRange(ctx, s.db, start, end, ordering)
	if err != nil {
		return nil, err
	}

	res := make([]*transaction.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model, methods[i])
	}
	return res, nil
}
