package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed houseaccount.Store
func New(db *sql.DB) houseaccount.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// PutEntry implements houseaccount.Store.PutEntry
func (s *store) PutEntry(ctx context.Context, record *houseaccount.Record) error {
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

// GetLatestEntry implements houseaccount.Store.GetLatestEntry
func (s *store) GetLatestEntry(ctx context.Context, customerId string) (*houseaccount.Record, error) {
	model, err := dbGetLatest(ctx, s.db, customerId)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetAllForCustomer implements houseaccount.Store.GetAllForCustomer
func (s *store) GetAllForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*houseaccount.Record, error) {
	models, err := dbGetAllForCustomer(ctx, s.db, customerId, ordering)
	if err != nil {
		return nil, err
	}

	res := make([]*houseaccount.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
