package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter"
	pgutil "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
)

const (
	tableName = "bloomshop__core_counter"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed counter.Store
func New(db *sql.DB) counter.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// GetNext implements counter.Store.GetNext
func (s *store) GetNext(ctx context.Context, key string) (uint64, error) {
	var value uint64

	err := pgutil.ExecuteInTx(ctx, s.db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + ` (key, value) VALUES ($1, 1)
			ON CONFLICT (key) DO UPDATE SET value = ` + tableName + `.value + 1
			RETURNING value`

		return tx.QueryRowxContext(ctx, query, key).Scan(&value)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}
