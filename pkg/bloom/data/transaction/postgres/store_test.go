package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction/tests"

	postgrestest "github.com/bloom-commerce/bloom-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE bloomshop__core_transaction(
			id SERIAL NOT NULL PRIMARY KEY,

			transaction_id TEXT NOT NULL UNIQUE,
			transaction_number TEXT NOT NULL UNIQUE,
			customer_id TEXT NOT NULL,

			channel SMALLINT NOT NULL,
			state SMALLINT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount >= 0),
			tax_amount BIGINT NOT NULL,
			tip_amount BIGINT NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			completed_at TIMESTAMP WITH TIME ZONE NULL
		);

		CREATE TABLE bloomshop__core_transactionmethod(
			id SERIAL NOT NULL PRIMARY KEY,

			transaction_id TEXT NOT NULL,

			method_type SMALLINT NOT NULL,
			provider SMALLINT NOT NULL,

			amount BIGINT NOT NULL,

			reference TEXT NULL
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE bloomshop__core_transaction;
		DROP TABLE bloomshop__core_transactionmethod;
	`
)

var (
	testStore transaction.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		logrus.StandardLogger().WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			logrus.StandardLogger().WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestTransactionPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
