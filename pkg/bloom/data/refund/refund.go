package refund

import (
	"time"

	"github.com/pkg/errors"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
)

type Record struct {
	Id uint64

	RefundId     string
	RefundNumber string

	// TransactionId is the transaction this refund reverses.
	TransactionId string
	CustomerId    string

	// Amount is the total refunded across all methods, in cents.
	Amount int64

	Methods []*Method

	CreatedAt time.Time
}

// Method is a single tender line within a refund, mirroring the methods
// of the transaction being reversed.
type Method struct {
	Id uint64

	RefundId string

	Type   transaction.MethodType
	Amount int64
}

// OrderRefund links a refund back to an order, carrying the portion of
// the refund attributed to that order.
type OrderRefund struct {
	Id uint64

	OrderId  string
	RefundId string

	Amount int64

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.RefundId) == 0 {
		return errors.New("refund id is required")
	}

	if len(r.RefundNumber) == 0 {
		return errors.New("refund number is required")
	}

	if len(r.TransactionId) == 0 {
		return errors.New("transaction id is required")
	}

	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}

	for _, method := range r.Methods {
		if method.Type == transaction.MethodTypeUnknown {
			return errors.New("method type is required")
		}
	}

	return nil
}

func (r *OrderRefund) Validate() error {
	if len(r.OrderId) == 0 {
		return errors.New("order id is required")
	}

	if len(r.RefundId) == 0 {
		return errors.New("refund id is required")
	}

	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}

	return nil
}

func (r *Record) Clone() Record {
	methods := make([]*Method, len(r.Methods))
	for i, method := range r.Methods {
		cloned := *method
		methods[i] = &cloned
	}

	return Record{
		Id:            r.Id,
		RefundId:      r.RefundId,
		RefundNumber:  r.RefundNumber,
		TransactionId: r.TransactionId,
		CustomerId:    r.CustomerId,
		Amount:        r.Amount,
		Methods:       methods,
		CreatedAt:     r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	cloned := r.Clone()

	dst.Id = cloned.Id
	dst.RefundId = cloned.RefundId
	dst.RefundNumber = cloned.RefundNumber
	dst.TransactionId = cloned.TransactionId
	dst.CustomerId = cloned.CustomerId
	dst.Amount = cloned.Amount
	dst.Methods = cloned.Methods
	dst.CreatedAt = cloned.CreatedAt
}

func (r *OrderRefund) Clone() OrderRefund {
	return OrderRefund{
		Id:        r.Id,
		OrderId:   r.OrderId,
		RefundId:  r.RefundId,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

func (r *OrderRefund) CopyTo(dst *OrderRefund) {
	dst.Id = r.Id
	dst.OrderId = r.OrderId
	dst.RefundId = r.RefundId
	dst.Amount = r.Amount
	dst.CreatedAt = r.CreatedAt
}
