package refund

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("refund not found")
	ErrExists   = errors.New("refund already exists")
)

type Store interface {
	// Put creates a new refund record along with its methods.
	//
	// ErrExists is returned if a record with the same refund id or refund
	// number already exists.
	Put(ctx context.Context, record *Record) error

	// Get finds the refund record for a given refund id. The returned
	// record includes its methods.
	//
	// ErrNotFound is returned if the record cannot be found.
	Get(ctx context.Context, refundId string) (*Record, error)

	// GetByNumber finds the refund record for a given refund number.
	//
	// ErrNotFound is returned if the record cannot be found.
	GetByNumber(ctx context.Context, refundNumber string) (*Record, error)

	// GetAllForTransaction returns all refund records against a given
	// transaction id.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllForTransaction(ctx context.Context, transactionId string) ([]*Record, error)

	// PutOrderRefund creates a new order refund link.
	//
	// ErrExists is returned if a link between the same order and refund
	// already exists.
	PutOrderRefund(ctx context.Context, record *OrderRefund) error

	// GetOrderRefundsForOrder returns all refund links for a given order
	// id.
	//
	// ErrNotFound is returned if no rows are found.
	GetOrderRefundsForOrder(ctx context.Context, orderId string) ([]*OrderRefund, error)

	// GetOrderIdsWithActivitySince returns the distinct order ids with a
	// refund link created at or after the provided time.
	//
	// ErrNotFound is returned if no rows are found.
	GetOrderIdsWithActivitySince(ctx context.Context, since time.Time) ([]string, error)
}
