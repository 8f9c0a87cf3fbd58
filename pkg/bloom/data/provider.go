package data

import (
	"database/sql"

	pg "github.com/bloom-commerce/bloom-server/pkg/database/postgres"
)

type Provider interface {
	DatabaseData

	GetDatabaseDataProvider() DatabaseData
}

type provider struct {
	*DatabaseProvider
}

func NewDataProvider(dbConfig *pg.Config) (Provider, error) {
	db, err := NewDatabaseProvider(dbConfig)
	if err != nil {
		return nil, err
	}

	return &provider{
		DatabaseProvider: db.(*DatabaseProvider),
	}, nil
}

// NewPostgresTestDataProvider returns a Provider over an existing
// postgres connection. Used for testing ONLY.
func NewPostgresTestDataProvider(db *sql.DB) Provider {
	return &provider{
		DatabaseProvider: NewPostgresDatabaseProvider(db).(*DatabaseProvider),
	}
}

func NewTestDataProvider() Provider {
	return &provider{
		DatabaseProvider: NewTestDatabaseProvider().(*DatabaseProvider),
	}
}

func (p *provider) GetDatabaseDataProvider() DatabaseData {
	return p.DatabaseProvider
}
