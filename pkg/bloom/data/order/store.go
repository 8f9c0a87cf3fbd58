package order

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrExists   = errors.New("order already exists")
)

type Store interface {
	// Put creates a new order record.
	//
	// ErrExists is returned if a record with the same order id or order
	// number already exists.
	Put(ctx context.Context, record *Record) error

	// Get finds the order record for a given order id.
	//
	// ErrNotFound is returned if the record cannot be found.
	Get(ctx context.Context, orderId string) (*Record, error)

	// GetByNumber finds the order record for a given order number.
	//
	// ErrNotFound is returned if the record cannot be found.
	GetByNumber(ctx context.Context, orderNumber string) (*Record, error)

	// UpdatePaymentStatus sets the payment status for a given order id.
	//
	// ErrNotFound is returned if the record cannot be found.
	UpdatePaymentStatus(ctx context.Context, orderId string, status PaymentStatus) error

	// GetAllByPaymentStatus returns all order records with the given
	// payment status.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllByPaymentStatus(ctx context.Context, status PaymentStatus) ([]*Record, error)
}
