package payment

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("order payment not found")
	ErrExists   = errors.New("order payment already exists")
)

type Store interface {
	// Put creates a new order payment link.
	//
	// ErrExists is returned if a link between the same order and
	// transaction already exists.
	Put(ctx context.Context, record *Record) error

	// GetAllForOrder returns all payment links for a given order id.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllForOrder(ctx context.Context, orderId string) ([]*Record, error)

	// GetAllForTransaction returns all payment links for a given
	// transaction id.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllForTransaction(ctx context.Context, transactionId string) ([]*Record, error)

	// GetOrderIdsWithActivitySince returns the distinct order ids with a
	// payment link created at or after the provided time.
	//
	// ErrNotFound is returned if no rows are found.
	GetOrderIdsWithActivitySince(ctx context.Context, since time.Time) ([]string, error)
}
