package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

const (
	tableName = "bloomshop__core_houseaccountentry"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	CustomerId string `db:"customer_id"`

	Amount  int64 `db:"amount"`
	Balance int64 `db:"balance"`

	Reference string `db:"reference"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *houseaccount.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &model{
		Id:         sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		CustomerId: obj.CustomerId,
		Amount:     obj.Amount,
		Balance:    obj.Balance,
		Reference:  obj.Reference,
		CreatedAt:  obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *houseaccount.Record {
	return &houseaccount.Record{
		Id:         uint64(obj.Id.Int64),
		CustomerId: obj.CustomerId,
		Amount:     obj.Amount,
		Balance:    obj.Balance,
		Reference:  obj.Reference,
		CreatedAt:  obj.CreatedAt.UTC(),
	}
}

// dbSave computes the running balance from the customer's latest entry
// inside the insert so concurrent writers cannot interleave stale
// balances.
func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelSerializable, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(customer_id, amount, balance, reference, created_at)
			VALUES ($1, $2, COALESCE((SELECT balance FROM ` + tableName + ` WHERE customer_id = $1 ORDER BY id DESC LIMIT 1), 0) + $2, $3, $4)
			RETURNING id, customer_id, amount, balance, reference, created_at`

		return tx.QueryRowxContext(
			ctx,
			query,
			m.CustomerId,
			m.Amount,
			m.Reference,
			m.CreatedAt,
		).StructScan(m)
	})
}

func dbGetLatest(ctx context.Context, db *sqlx.DB, customerId string) (*model, error) {
	res := &model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, customer_id, amount, balance, reference, created_at FROM ` + tableName + `
			WHERE customer_id = $1
			ORDER BY id DESC
			LIMIT 1`

		return pgutil.CheckNoRows(tx.GetContext(ctx, res, query, customerId), houseaccount.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbGetAllForCustomer(ctx context.Context, db *sqlx.DB, customerId string, ordering q.Ordering) ([]*model, error) {
	res := []*model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, customer_id, amount, balance, reference, created_at FROM ` + tableName + `
			WHERE customer_id = $1
			ORDER BY id ` + q.FromOrderingWithFallback(ordering, "asc")

		err := tx.SelectContext(ctx, &res, query, customerId)
		if err != nil {
			return pgutil.CheckNoRows(err, houseaccount.ErrNotFound)
		}

		if len(res) == 0 {
			return houseaccount.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
