package houseaccount

import (
	"time"

	"github.com/pkg/errors"
)

// Record is an append-only ledger entry against a customer's house
// account. Amount is the signed change in cents (positive for a charge,
// negative for a reversal) and Balance is the running balance after the
// entry is applied.
type Record struct {
	Id uint64

	CustomerId string

	Amount  int64
	Balance int64

	// Reference is the document number that produced the entry.
	Reference string

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.CustomerId) == 0 {
		return errors.New("customer id is required")
	}

	if r.Amount == 0 {
		return errors.New("amount cannot be zero")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:         r.Id,
		CustomerId: r.CustomerId,
		Amount:     r.Amount,
		Balance:    r.Balance,
		Reference:  r.Reference,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.CustomerId = r.CustomerId
	dst.Amount = r.Amount
	dst.Balance = r.Balance
	dst.Reference = r.Reference
	dst.CreatedAt = r.CreatedAt
}
