package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund/tests"

	postgrestest "github.com/bloom-commerce/bloom-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE bloomshop__core_refund(
			id SERIAL NOT NULL PRIMARY KEY,

			refund_id TEXT NOT NULL UNIQUE,
			refund_number TEXT NOT NULL UNIQUE,

			transaction_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount > 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE bloomshop__core_refundmethod(
			id SERIAL NOT NULL PRIMARY KEY,

			refund_id TEXT NOT NULL,

			method_type SMALLINT NOT NULL,
			amount BIGINT NOT NULL
		);

		CREATE TABLE bloomshop__core_orderrefund(
			id SERIAL NOT NULL PRIMARY KEY,

			order_id TEXT NOT NULL,
			refund_id TEXT NOT NULL,

			amount BIGINT NOT NULL CHECK (amount > 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,

			CONSTRAINT bloomshop__core_orderrefund__uniq__order_id__and__refund_id UNIQUE (order_id, refund_id)
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE bloomshop__core_refund;
		DROP TABLE bloomshop__core_refundmethod;
		DROP TABLE bloomshop__core_orderrefund;
	`
)

var (
	testStore refund.Store
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

func TestRefundPostgresStore(t *testing.T) {
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
