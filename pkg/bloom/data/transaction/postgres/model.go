package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
	"github.com/bloom-commerce/bloom-server/pkg/pointer"
)

const (
	tableName       = "bloomshop__core_transaction"
	methodTableName = "bloomshop__core_transactionmethod"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	TransactionId     string `db:"transaction_id"`
	TransactionNumber string `db:"transaction_number"`
	CustomerId        string `db:"customer_id"`

	Channel uint8 `db:"channel"`
	State   uint8 `db:"state"`

	Amount    int64 `db:"amount"`
	TaxAmount int64 `db:"tax_amount"`
	TipAmount int64 `db:"tip_amount"`

	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

type methodModel struct {
	Id sql.NullInt64 `db:"id"`

	TransactionId string `db:"transaction_id"`

	MethodType uint8 `db:"method_type"`
	Provider   uint8 `db:"provider"`

	Amount int64 `db:"amount"`

	Reference sql.NullString `db:"reference"`
}

func toModel(obj *transaction.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	m := &model{
		Id:                sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		TransactionId:     obj.TransactionId,
		TransactionNumber: obj.TransactionNumber,
		CustomerId:        obj.CustomerId,
		Channel:           uint8(obj.Channel),
		State:             uint8(obj.State),
		Amount:            obj.Amount,
		TaxAmount:         obj.TaxAmount,
		TipAmount:         obj.TipAmount,
		CreatedAt:         obj.CreatedAt,
	}

	if obj.CompletedAt != nil {
		m.CompletedAt = sql.NullTime{Time: obj.CompletedAt.UTC(), Valid: true}
	}

	return m, nil
}

func toMethodModel(obj *transaction.Method, transactionId string) *methodModel {
	return &methodModel{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		TransactionId: transactionId,
		MethodType:    uint8(obj.Type),
		Provider:      uint8(obj.Provider),
		Amount:        obj.Amount,
		Reference: sql.NullString{
			Valid:  obj.Reference != nil,
			String: *pointer.StringOrDefault(obj.Reference, ""),
		},
	}
}

func fromModel(obj *model, methods []*methodModel) *transaction.Record {
	record := &transaction.Record{
		Id:                uint64(obj.Id.Int64),
		TransactionId:     obj.TransactionId,
		TransactionNumber: obj.TransactionNumber,
		CustomerId:        obj.CustomerId,
		Channel:           transaction.Channel(obj.Channel),
		State:             transaction.State(obj.State),
		Amount:            obj.Amount,
		TaxAmount:         obj.TaxAmount,
		TipAmount:         obj.TipAmount,
		CreatedAt:         obj.CreatedAt.UTC(),
	}

	if obj.CompletedAt.Valid {
		record.CompletedAt = pointer.Time(obj.CompletedAt.Time.UTC())
	}

	for _, method := range methods {
		record.Methods = append(record.Methods, fromMethodModel(method))
	}

	return record
}

func fromMethodModel(obj *methodModel) *transaction.Method {
	return &transaction.Method{
		Id:            uint64(obj.Id.Int64),
		TransactionId: obj.TransactionId,
		Type:          transaction.MethodType(obj.MethodType),
		Provider:      transaction.Provider(obj.Provider),
		Amount:        obj.Amount,
		Reference:     pointer.StringIfValid(obj.Reference.Valid, obj.Reference.String),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB, methods []*methodModel) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.TransactionId,
			m.TransactionNumber,
			m.CustomerId,
			m.Channel,
			m.State,
			m.Amount,
			m.TaxAmount,
			m.TipAmount,
			m.CreatedAt,
			m.CompletedAt,
		).StructScan(m)
		if err != nil {
			return pgutil.CheckUniqueViolation(err, transaction.ErrExists)
		}

		for _, method := range methods {
			query = `INSERT INTO ` + methodTableName + `
				(transaction_id, method_type, provider, amount, reference)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, transaction_id, method_type, provider, amount, reference`

			err = tx.QueryRowxContext(
				ctx,
				query,
				method.TransactionId,
				method.MethodType,
				method.Provider,
				method.Amount,
				method.Reference,
			).StructScan(method)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, transactionId string) (*model, []*methodModel, error) {
	res := &model{}
	var methods []*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at FROM ` + tableName + `
			WHERE transaction_id = $1`

		err := tx.GetContext(ctx, res, query, transactionId)
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}

		methods, err = dbGetMethods(ctx, tx, res.TransactionId)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return res, methods, nil
}

func dbGetByNumber(ctx context.Context, db *sqlx.DB, transactionNumber string) (*model, []*methodModel, error) {
	res := &model{}
	var methods []*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at FROM ` + tableName + `
			WHERE transaction_number = $1`

		err := tx.GetContext(ctx, res, query, transactionNumber)
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}

		methods, err = dbGetMethods(ctx, tx, res.TransactionId)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return res, methods, nil
}

func dbGetMethods(ctx context.Context, tx *sqlx.Tx, transactionId string) ([]*methodModel, error) {
	res := []*methodModel{}

	query := `SELECT id, transaction_id, method_type, provider, amount, reference FROM ` + methodTableName + `
		WHERE transaction_id = $1
		ORDER BY id ASC`

	err := tx.SelectContext(ctx, &res, query, transactionId)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbMarkCompleted(ctx context.Context, db *sqlx.DB, transactionId string, completedAt time.Time) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET state = $2, completed_at = $3
			WHERE transaction_id = $1
			RETURNING id`

		var id int64
		err := tx.QueryRowxContext(ctx, query, transactionId, uint8(transaction.StateCompleted), completedAt.UTC()).Scan(&id)
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}
		return nil
	})
}

func dbUpdateState(ctx context.Context, db *sqlx.DB, transactionId string, state transaction.State) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET state = $2
			WHERE transaction_id = $1
			RETURNING id`

		var id int64
		err := tx.QueryRowxContext(ctx, query, transactionId, uint8(state)).Scan(&id)
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}
		return nil
	})
}

func dbGetAllForCustomer(ctx context.Context, db *sqlx.DB, customerId string, ordering q.Ordering) ([]*model, [][]*methodModel, error) {
	res := []*model{}
	var methods [][]*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at FROM ` + tableName + `
			WHERE customer_id = $1
			ORDER BY id ` + q.FromOrderingWithFallback(ordering, "asc")

		err := tx.SelectContext(ctx, &res, query, customerId)
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}

		if len(res) == 0 {
			return transaction.ErrNotFound
		}

		for _, m := range res {
			forModel, err := dbGetMethods(ctx, tx, m.TransactionId)
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

func dbGetAllCompletedInRange(ctx context.Context, db *sqlx.DB, start, end time.Time, ordering q.Ordering) ([]*model, [][]*methodModel, error) {
	res := []*model{}
	var methods [][]*methodModel

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `SELECT id, transaction_id, transaction_number, customer_id, channel, state, amount, tax_amount, tip_amount, created_at, completed_at FROM ` + tableName + `
			WHERE completed_at >= $1 AND completed_at < $2
			ORDER BY id ` + q.FromOrderingWithFallback(ordering, "asc")

		err := tx.SelectContext(ctx, &res, query, start.UTC(), end.UTC())
		if err != nil {
			return pgutil.CheckNoRows(err, transaction.ErrNotFound)
		}

		if len(res) == 0 {
			return transaction.ErrNotFound
		}

		for _, m := range res {
			forModel, err := dbGetMethods(ctx, tx, m.TransactionId)
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
