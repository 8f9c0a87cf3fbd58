// Package refund reverses completed transactions: it writes the refund
// document and its method breakdown, links it back to the affected
// orders, releases house account charges, and rolls the parent
// transaction's state up.
package refund

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	refund_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/settlement"
	"github.com/bloom-commerce/bloom-server/pkg/metrics"
)

const (
	metricsPackageName = "refund"

	refundSequenceKey = "refund"
)

var (
	// ErrTransactionNotCompleted indicates the transaction has not
	// settled and cannot be refunded.
	ErrTransactionNotCompleted = errors.New("transaction is not completed")

	// ErrInvalidAmount indicates the refund method amounts do not sum to
	// a positive value.
	ErrInvalidAmount = errors.New("refund amount must be positive")

	// ErrExceedsRefundable indicates the refund would exceed what remains
	// refundable on the transaction.
	ErrExceedsRefundable = errors.New("refund exceeds the transaction's refundable amount")

	// ErrOrderAllocationMismatch indicates the per-order allocations do
	// not sum to the refund total.
	ErrOrderAllocationMismatch = errors.New("order allocations do not match the refund total")
)

// MethodAmount is one tender line of a refund request.
type MethodAmount struct {
	Type   transaction.MethodType
	Amount int64
}

// Request describes a refund against a single transaction. Orders maps
// each affected order id to the portion of the refund attributed to it.
type Request struct {
	TransactionId string

	Methods []MethodAmount
	Orders  map[string]int64
}

type Service struct {
	log  *logrus.Entry
	data bloom_data.Provider
	conf *conf
}

func NewService(data bloom_data.Provider, configProvider ConfigProvider) *Service {
	return &Service{
		log:  logrus.StandardLogger().WithField("service", "refund"),
		data: data,
		conf: configProvider(),
	}
}

// ProcessRefund persists a refund atomically: the refund document and
// methods, the order links, any house account reversals, the parent
// transaction's state rollup, and the reconciled payment status of every
// affected order.
func (s *Service) ProcessRefund(ctx context.Context, req *Request) (*refund_data.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsPackageName, "ProcessRefund")
	defer tracer.End()

	record, err := s.processRefund(ctx, req)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	s.log.
		WithField("refund_number", record.RefundNumber).
		WithField("amount", record.Amount).
		Info("processed refund")

	return record, nil
}

func (s *Service) processRefund(ctx context.Context, req *Request) (*refund_data.Record, error) {
	var total int64
	for _, method := range req.Methods {
		total += method.Amount
	}
	if total <= 0 {
		return nil, ErrInvalidAmount
	}

	var allocated int64
	for _, amount := range req.Orders {
		allocated += amount
	}
	if len(req.Orders) > 0 && allocated != total {
		return nil, ErrOrderAllocationMismatch
	}

	// The refundable check happens inside the transaction, serialized
	// against concurrent refunds of the same transaction.
	var record *refund_data.Record
	err := s.data.ExecuteInTx(ctx, sql.LevelSerializable, func(ctx context.Context) error {
		txRecord, err := s.data.GetTransaction(ctx, req.TransactionId)
		if err != nil {
			return err
		}
		if txRecord.CompletedAt == nil {
			return ErrTransactionNotCompleted
		}

		alreadyRefunded, err := s.refundedToDate(ctx, txRecord.TransactionId)
		if err != nil {
			return err
		}
		if alreadyRefunded+total > txRecord.Amount {
			return ErrExceedsRefundable
		}

		number, err := s.nextRefundNumber(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		record = &refund_data.Record{
			RefundId:      uuid.NewString(),
			RefundNumber:  number,
			TransactionId: txRecord.TransactionId,
			CustomerId:    txRecord.CustomerId,
			Amount:        total,
			Methods:       methodsFromRequest(req.Methods),
			CreatedAt:     now,
		}

		if err := s.data.CreateRefund(ctx, record); err != nil {
			return err
		}

		var orderIds []string
		for orderId, amount := range req.Orders {
			if err := s.data.CreateOrderRefund(ctx, &refund_data.OrderRefund{
				OrderId:   orderId,
				RefundId:  record.RefundId,
				Amount:    amount,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			orderIds = append(orderIds, orderId)
		}

		if err := s.releaseHouseAccountCharges(ctx, txRecord, record); err != nil {
			return err
		}

		state := transaction.StatePartiallyRefunded
		if alreadyRefunded+total >= txRecord.Amount {
			state = transaction.StateRefunded
		}
		if err := s.data.UpdateTransactionState(ctx, txRecord.TransactionId, state); err != nil {
			return err
		}

		_, err = settlement.Reconcile(ctx, s.data, orderIds)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) refundedToDate(ctx context.Context, transactionId string) (int64, error) {
	existing, err := s.data.GetAllRefundsForTransaction(ctx, transactionId)
	if err == refund_data.ErrNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var total int64
	for _, item := range existing {
		total += item.Amount
	}
	return total, nil
}

func (s *Service) nextRefundNumber(ctx context.Context) (string, error) {
	seq, err := s.data.GetNextSequenceValue(ctx, refundSequenceKey)
	if err != nil {
		return "", err
	}

	prefix := s.conf.refundNumberPrefix.Get(ctx)
	base := s.conf.documentNumberBase.Get(ctx)
	return fmt.Sprintf("%s-%d", prefix, base+seq), nil
}

// releaseHouseAccountCharges reverses the charged portion for house
// account tender lines being refunded, against the paying customer's
// ledger.
func (s *Service) releaseHouseAccountCharges(ctx context.Context, txRecord *transaction.Record, record *refund_data.Record) error {
	for _, method := range record.Methods {
		if method.Type != transaction.MethodTypeHouseAccount {
			continue
		}

		if err := s.data.CreateHouseAccountEntry(ctx, &houseaccount.Record{
			CustomerId: txRecord.CustomerId,
			Amount:     -method.Amount,
			Reference:  record.RefundNumber,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func methodsFromRequest(methods []MethodAmount) []*refund_data.Method {
	res := make([]*refund_data.Method, len(methods))
	for i, method := range methods {
		res[i] = &refund_data.Method{
			Type:   method.Type,
			Amount: method.Amount,
		}
	}
	return res
}
