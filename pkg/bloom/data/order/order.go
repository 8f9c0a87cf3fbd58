package order

import (
	"time"

	"github.com/pkg/errors"
)

type Type uint8

const (
	TypeUnknown Type = iota
	TypeDelivery
	TypePointOfSale
)

// PaymentStatus is the settlement state of an order, derived from the
// completed transactions and refunds linked to it.
type PaymentStatus uint8

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentStatusUnpaid
	PaymentStatusPartiallyPaid
	PaymentStatusPaid
	PaymentStatusPartiallyRefunded
	PaymentStatusRefunded
)

type Record struct {
	Id uint64

	OrderId     string
	OrderNumber string
	CustomerId  string

	OrderType Type

	// PaymentAmount is the expected order total, in cents.
	PaymentAmount int64
	PaymentStatus PaymentStatus

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.OrderId) == 0 {
		return errors.New("order id is required")
	}

	if len(r.OrderNumber) == 0 {
		return errors.New("order number is required")
	}

	if r.PaymentAmount < 0 {
		return errors.New("payment amount cannot be negative")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		OrderId:       r.OrderId,
		OrderNumber:   r.OrderNumber,
		CustomerId:    r.CustomerId,
		OrderType:     r.OrderType,
		PaymentAmount: r.PaymentAmount,
		PaymentStatus: r.PaymentStatus,
		CreatedAt:     r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.OrderId = r.OrderId
	dst.OrderNumber = r.OrderNumber
	dst.CustomerId = r.CustomerId
	dst.OrderType = r.OrderType
	dst.PaymentAmount = r.PaymentAmount
	dst.PaymentStatus = r.PaymentStatus
	dst.CreatedAt = r.CreatedAt
}

func (t Type) String() string {
	switch t {
	case TypeDelivery:
		return "delivery"
	case TypePointOfSale:
		return "point_of_sale"
	}
	return "unknown"
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusUnpaid:
		return "unpaid"
	case PaymentStatusPartiallyPaid:
		return "partially_paid"
	case PaymentStatusPaid:
		return "paid"
	case PaymentStatusPartiallyRefunded:
		return "partially_refunded"
	case PaymentStatusRefunded:
		return "refunded"
	}
	return "unknown"
}
