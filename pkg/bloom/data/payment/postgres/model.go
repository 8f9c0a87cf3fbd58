package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
)

const (
	tableName = "bloomshop__core_orderpayment"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	OrderId       string `db:"order_id"`
	TransactionId string `db:"transaction_id"`

	Amount int64 `db:"amount"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *payment.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &model{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		OrderId:       obj.OrderId,
		TransactionId: obj.TransactionId,
		Amount:        obj.Amount,
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *payment.Record {
	return &payment.Record{
		Id:            uint64(obj.Id.Int64),
		OrderId:       obj.OrderId,
		TransactionId: obj.TransactionId,
		Amount:        obj.Amount,
		CreatedAt:     obj.CreatedAt.UTC(),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(order_id, transaction_id, amount, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, order_id, transaction_id, amount, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.OrderId,
			m.TransactionId,
			m.Amount,
			m.CreatedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, payment.ErrExists)
	})
}

func dbGetAllForOrder(ctx context.Context, db *sqlx.DB, orderId string) ([]*model, error) {
	res := []*model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, transaction_id, amount, created_at FROM ` + tableName + `
			WHERE order_id = $1
			ORDER BY id ASC`

		err := tx.SelectContext(ctx, &res, query, orderId)
		if err != nil {
			return pgutil.CheckNoRows(err, payment.ErrNotFound)
		}

		if len(res) == 0 {
			return payment.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func dbGetAllForTransaction(ctx context.Context, db *sqlx.DB, transactionId string) ([]*model, error) {
	res := []*model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, transaction_id, amount, created_at FROM ` + tableName + `
			WHERE transaction_id = $1
			ORDER BY id ASC`

		err := tx.SelectContext(ctx, &res, query, transactionId)
		if err != nil {
			return pgutil.CheckNoRows(err, payment.ErrNotFound)
		}

		if len(res) == 0 {
			return payment.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func dbGetOrderIdsWithActivitySince(ctx context.Context, db *sqlx.DB, since time.Time) ([]string, error) {
	res := []string{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT DISTINCT order_id FROM ` + tableName + `
			WHERE created_at >= $1`

		err := tx.SelectContext(ctx, &res, query, since.UTC())
		if err != nil {
			return pgutil.CheckNoRows(err, payment.ErrNotFound)
		}

		if len(res) == 0 {
			return payment.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
