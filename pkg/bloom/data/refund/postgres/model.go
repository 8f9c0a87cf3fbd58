package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
)

const (
	tableName            = "bloomshop__core_refund"
	methodTableName      = "bloomshop__core_refundmethod"
	orderRefundTableName = "bloomshop__core_orderrefund"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	RefundId     string `db:"refund_id"`
	RefundNumber string `db:"refund_number"`

	TransactionId string `db:"transaction_id"`
	CustomerId    string `db:"customer_id"`

	Amount int64 `db:"amount"`

	CreatedAt time.Time `db:"created_at"`
}

type methodModel struct {
	Id sql.NullInt64 `db:"id"`

	RefundId string `db:"refund_id"`

	MethodType uint8 `db:"method_type"`
	Amount     int64 `db:"amount"`
}

type orderRefundModel struct {
	Id sql.NullInt64 `db:"id"`

	OrderId  string `db:"order_id"`
	RefundId string `db:"refund_id"`

	Amount int64 `db:"amount"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *refund.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &model{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		RefundId:      obj.RefundId,
		RefundNumber:  obj.RefundNumber,
		TransactionId: obj.TransactionId,
		CustomerId:    obj.CustomerId,
		Amount:        obj.Amount,
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func toMethodModel(obj *refund.Method, refundId string) *methodModel {
	return &methodModel{
		Id:         sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		RefundId:   refundId,
		MethodType: uint8(obj.Type),
		Amount:     obj.Amount,
	}
}

func toOrderRefundModel(obj *refund.OrderRefund) (*orderRefundModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &orderRefundModel{
		Id:        sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		OrderId:   obj.OrderId,
		RefundId:  obj.RefundId,
		Amount:    obj.Amount,
		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model, methods []*methodModel) *refund.Record {
	record := &refund.Record{
		Id:            uint64(obj.Id.Int64),
		RefundId:      obj.RefundId,
		RefundNumber:  obj.RefundNumber,
		TransactionId: obj.TransactionId,
		CustomerId:    obj.CustomerId,
		Amount:        obj.Amount,
		CreatedAt:     obj.CreatedAt.UTC(),
	}

	for _, method := range methods {
		record.Methods = append(record.Methods, &refund.Method{
			Id:       uint64(method.Id.Int64),
			RefundId: method.RefundId,
			Type:     transaction.MethodType(method.MethodType),
			Amount:   method.Amount,
		})
	}

	return record
}

func fromOrderRefundModel(obj *orderRefundModel) *refund.OrderRefund {
	return &refund.OrderRefund{
		Id:        uint64(obj.Id.Int64),
		OrderId:   obj.OrderId,
		RefundId:  obj.RefundId,
		Amount:    obj.Amount,
		CreatedAt: obj.CreatedAt.UTC(),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB, methods []*methodModel) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(refund_id, refund_number, transaction_id, customer_id, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, refund_id, refund_number, transaction_id, customer_id, amount, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.RefundId,
			m.RefundNumber,
			m.TransactionId,
			m.CustomerId,
			m.Amount,
			m.CreatedAt,
		).StructScan(m)
		if err != nil {
			return pgutil.CheckUniqueViolation(err, refund.ErrExists)
		}

		for _, method := range methods {
			query = `INSERT INTO ` + methodTableName + `
				(refund_id, method_type, amount)
				VALUES ($1, $2, $3)
				RETURNING id, refund_id, method_type, amount`

			err = tx.QueryRowxContext(
				ctx,
				query,
				method.RefundId,
				method.MethodType,
				method.Amount,
			).StructScan(method)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (m *orderRefundModel) dbSave(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + orderRefundTableName + `
			(order_id, refund_id, amount, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, order_id, refund_id, amount, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.OrderId,
			m.RefundId,
			m.Amount,
			m.CreatedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, refund.ErrExists)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, refundId string) (*model, []*methodModel, error) {
	res := &model{}
	var methods []*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, refund_id, refund_number, transaction_id, customer_id, amount, created_at FROM ` + tableName + `
			WHERE refund_id = $1`

		err := tx.GetContext(ctx, res, query, refundId)
		if err != nil {
			return pgutil.CheckNoRows(err, refund.ErrNotFound)
		}

		methods, err = dbGetMethods(ctx, tx, res.RefundId)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return res, methods, nil
}

func dbGetByNumber(ctx context.Context, db *sqlx.DB, refundNumber string) (*model, []*methodModel, error) {
	res := &model{}
	var methods []*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, refund_id, refund_number, transaction_id, customer_id, amount, created_at FROM ` + tableName + `
			WHERE refund_number = $1`

		err := tx.GetContext(ctx, res, query, refundNumber)
		if err != nil {
			return pgutil.CheckNoRows(err, refund.ErrNotFound)
		}

		methods, err = dbGetMethods(ctx, tx, res.RefundId)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return res, methods, nil
}

func dbGetMethods(ctx context.Context, tx *sqlx.Tx, refundId string) ([]*methodModel, error) {
	res := []*methodModel{}

	query := `SELECT id, refund_id, method_type, amount FROM ` + methodTableName + `
		WHERE refund_id = $1
		ORDER BY id ASC`

	err := tx.SelectContext(ctx, &res, query, refundId)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbGetAllForTransaction(ctx context.Context, db *sqlx.DB, transactionId string) ([]*model, [][]*methodModel, error) {
	res := []*model{}
	var methods [][]*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, refund_id, refund_number, transaction_id, customer_id, amount, created_at FROM ` + tableName + `
			WHERE transaction_id = $1
			ORDER BY id ASC`

		err := tx.SelectContext(ctx, &res, query, transactionId)
		if err != nil {
			return pgutil.CheckNoRows(err, refund.ErrNotFound)
		}

		if len(res) == 0 {
			return refund.ErrNotFound
		}

		for _, m := range res {
			forModel, err := dbGetMethods(ctx, tx, m.RefundId)
			if err != nil {
				return err
			}
			methods = append(methods, forModel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return res, methods, nil
}

func dbGetOrderRefundsForOrder(ctx context.Context, db *sqlx.DB, orderId string) ([]*orderRefundModel, error) {
	res := []*orderRefundModel{}

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, order_id, refund_id, amount, created_at FROM ` + orderRefundTableName + `
			WHERE order_id = $1
			ORDER BY id ASC`

		err := tx.SelectContext(ctx, &res, query, orderId)
		if err != nil {
			return pgutil.CheckNoRows(err, refund.ErrNotFound)
		}

		if len(res) == 0 {
			return refund.ErrNotFound
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
		query := `SELECT DISTINCT order_id FROM ` + orderRefundTableName + `
			WHERE created_at >= $1`

		err := tx.SelectContext(ctx, &res, query, since.UTC())
		if err != nil {
			return pgutil.CheckNoRows(err, refund.ErrNotFound)
		}

		if len(res) == 0 {
			return refund.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
