package transaction

import (
	"context"
	"time"

	"github.com/pkg/errors"

	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrExists   = errors.New("transaction already exists")
)

type Store interface {
	// Put creates a new transaction record along with its methods.
	//
	// ErrExists is returned if a record with the same transaction id or
	// transaction number already exists.
	Put(ctx context.Context, record *Record) error

	// Get finds the transaction record for a given transaction id. The
	// returned record includes its methods.
	//
	// ErrNotFound is returned if the record cannot be found.
	Get(ctx context.Context, transactionId string) (*Record, error)

	// GetByNumber finds the transaction record for a given transaction
	// number.
	//
	// ErrNotFound is returned if the record cannot be found.
	GetByNumber(ctx context.Context, transactionNumber string) (*Record, error)

	// MarkCompleted transitions a transaction to the completed state and
	// stamps its completion time.
	//
	// ErrNotFound is returned if the record cannot be found.
	MarkCompleted(ctx context.Context, transactionId string, completedAt time.Time) error

	// UpdateState sets the state for a given transaction id.
	//
	// ErrNotFound is returned if the record cannot be found.
	UpdateState(ctx context.Context, transactionId string, state State) error

	// GetAllForCustomer returns all transaction records for a customer,
	// ordered by creation.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllForCustomer(ctx context.Context, customerId string, ordering q.Ordering) ([]*Record, error)

	// GetAllCompletedInRange returns all transactions completed within
	// [start, end), ordered by creation.
	//
	// ErrNotFound is returned if no rows are found.
	GetAllCompletedInRange(ctx context.Context, start, end time.Time, ordering q.Ordering) ([]*Record, error)
}
