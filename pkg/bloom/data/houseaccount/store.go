package houseaccount

import (
	"context"

	"github.com/pkg/errors"

	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

var (
	ErrNotFound = errors.New("house account entry not found")
)

type Store interface {
	// PutEntry appends a new ledger entry. The store computes the running
	// balance from the customer's latest entry and sets it on the record.
	PutEntry(ctx context.Context, record *Record) error

	// GetLatestEntry returns the most recent ledger entry for a customer.
	//
	// ErrNotFound is returned if the customer has no entries.
	GetLatestEntry(ctx context.Context, customerId string) (*Record, error)

	// GetAllForCustomer returns all ledger entries for a customer, ordered
	// by creation.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*Record, error)
}
