package payment

import (
	"time"

	"github.com/pkg/errors"
)

// Record links an order to a transaction that pays for it. A single
// transaction can cover multiple orders, and an order can be paid across
// multiple transactions. Amount is the portion of the transaction applied
// to the order, in cents.
type Record struct {
	Id uint64

	OrderId       string
	TransactionId string

	Amount int64

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.OrderId) == 0 {
		return errors.New("order id is required")
	}

	if len(r.TransactionId) == 0 {
		return errors.New("transaction id is required")
	}

	if r.Amount < 0 {
		return errors.New("amount cannot be negative")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		OrderId:       r.OrderId,
		TransactionId: r.TransactionId,
		Amount:        r.Amount,
		CreatedAt:     r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.OrderId = r.OrderId
	dst.TransactionId = r.TransactionId
	dst.Amount = r.Amount
	dst.CreatedAt = r.CreatedAt
}
