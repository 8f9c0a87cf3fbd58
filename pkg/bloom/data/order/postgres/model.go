package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
)

const (
	tableName = "bloomshop__core_order"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	OrderId     string `db:"order_id"`
	OrderNumber string `db:"order_number"`
	CustomerId  string `db:"customer_id"`

	OrderType uint8 `db:"order_type"`

	PaymentAmount int64 `db:"payment_amount"`
	PaymentStatus uint8 `db:"payment_status"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *order.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &model{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		OrderId:       obj.OrderId,
		OrderNumber:   obj.OrderNumber,
		CustomerId:    obj.CustomerId,
		OrderType:     uint8(obj.OrderType),
		PaymentAmount: obj.PaymentAmount,
		PaymentStatus: uint8(obj.PaymentStatus),
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *order.Record {
	return &order.Record{
		Id:            uint64(obj.Id.Int64),
		OrderId:       obj.OrderId,
		OrderNumber:   obj.OrderNumber,
		CustomerId:    obj.CustomerId,
		OrderType:     order.Type(obj.OrderType),
		PaymentAmount: obj.PaymentAmount,
		PaymentStatus: order.PaymentStatus(obj.PaymentStatus),
		CreatedAt:     obj.CreatedAt.UTC(),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(order_id, order_number, customer_id, order_type, payment_amount, payment_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, order_id, order_number, customer_id, order_type, payment_amount, payment_status, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.OrderId,
			m.OrderNumber,
			m.CustomerId,
			m.OrderType,
			m.PaymentAmount,
			m.PaymentStatus,
			m.CreatedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, order.ErrExists)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, orderId string) (*model, error) {
	res := &model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, order_number, customer_id, order_type, payment_amount, payment_status, created_at FROM ` + tableName + `
			WHERE order_id = $1`

		return pgutil.CheckNoRows(tx.GetContext(ctx, res, query, orderId), order.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbGetByNumber(ctx context.Context, db *sqlx.DB, orderNumber string) (*model, error) {
	res := &model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, order_number, customer_id, order_type, payment_amount, payment_status, created_at FROM ` + tableName + `
			WHERE order_number = $1`

		return pgutil.CheckNoRows(tx.GetContext(ctx, res, query, orderNumber), order.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbUpdatePaymentStatus(ctx context.Context, db *sqlx.DB, orderId string, status order.PaymentStatus) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET payment_status = $2
			WHERE order_id = $1
			RETURNING id`

		var id int64
		err := tx.QueryRowxContext(ctx, query, orderId, uint8(status)).Scan(&id)
		if err != nil {
			return pgutil.CheckNoRows(err, order.ErrNotFound)
		}
		return nil
	})
}

func dbGetAllByPaymentStatus(ctx context.Context, db *sqlx.DB, status order.PaymentStatus) ([]*model, error) {
	res := []*model{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, order_number, customer_id, order_type, payment_amount, payment_status, created_at FROM ` + tableName + `
			WHERE payment_status = $1
			ORDER BY id ASC`

		err := tx.SelectContext(ctx, &res, query, uint8(status))
		if err != nil {
			return pgutil.CheckNoRows(err, order.ErrNotFound)
		}

		if len(res) == 0 {
			return order.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
