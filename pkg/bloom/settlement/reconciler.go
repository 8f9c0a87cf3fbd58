// Package settlement derives an order's payment status from the
// completed transactions and refunds linked to it.
//
// Certain tender types (pay later, house account) are a promise to pay
// rather than settled funds. They live in the same method breakdowns as
// real tenders when a transaction mixes methods, so each transaction
// contributes to "paid" only in proportion to its settled portion.
package settlement

import (
	"context"
	"math"

	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/metrics"
)

const (
	metricsPackageName = "settlement"
)

// IsSettlingMethod reports whether a method type represents settled
// funds rather than a promise to pay.
func IsSettlingMethod(methodType transaction.MethodType) bool {
	switch methodType {
	case transaction.MethodTypePayLater, transaction.MethodTypeHouseAccount:
		return false
	}
	return true
}

type methodAmount struct {
	methodType transaction.MethodType
	amount     int64
}

// settledRatio computes the fraction of a document that is settled from
// its method breakdown. A document with no recorded methods is treated
// as fully settled; legacy records predate method tracking.
func settledRatio(total int64, methods []methodAmount) float64 {
	if len(methods) == 0 {
		return 1
	}

	var settled, methodTotal int64
	for _, method := range methods {
		methodTotal += method.amount
		if IsSettlingMethod(method.methodType) {
			settled += method.amount
		}
	}

	if settled <= 0 {
		return 0
	}

	if total <= 0 {
		total = methodTotal
	}
	if total <= 0 {
		return 1
	}

	return math.Min(1, float64(settled)/float64(total))
}

// TransactionSettledRatio computes the settled fraction of a transaction.
func TransactionSettledRatio(record *transaction.Record) float64 {
	methods := make([]methodAmount, len(record.Methods))
	for i, method := range record.Methods {
		methods[i] = methodAmount{method.Type, method.Amount}
	}
	return settledRatio(record.Amount, methods)
}

// RefundSettledRatio computes the settled fraction of a refund.
func RefundSettledRatio(record *refund.Record) float64 {
	methods := make([]methodAmount, len(record.Methods))
	for i, method := range record.Methods {
		methods[i] = methodAmount{method.Type, method.Amount}
	}
	return settledRatio(record.Amount, methods)
}

// ResolvePaymentStatus derives a payment status from rounded settled
// amounts and the expected order total.
func ResolvePaymentStatus(expected, settledPaid, settledRefunded float64) order.PaymentStatus {
	paid := int64(math.Round(settledPaid))
	refunded := int64(math.Round(settledRefunded))
	total := int64(math.Round(expected))

	if paid < 0 {
		paid = 0
	}
	if refunded < 0 {
		refunded = 0
	}

	switch {
	case paid <= 0:
		return order.PaymentStatusUnpaid
	case refunded >= paid:
		return order.PaymentStatusRefunded
	case refunded > 0:
		return order.PaymentStatusPartiallyRefunded
	case total == 0 || paid >= total:
		return order.PaymentStatusPaid
	default:
		return order.PaymentStatusPartiallyPaid
	}
}

// Reconcile recomputes and conditionally persists the payment status of
// every provided order. Blank ids are discarded and duplicates are
// reconciled once. It returns the number of orders whose status changed.
//
// Reconcile issues plain reads and conditional single-field writes; the
// caller is responsible for running it inside the same transaction as
// the payment or refund mutation that triggered it.
func Reconcile(ctx context.Context, data bloom_data.Provider, orderIds []string) (int, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsPackageName, "Reconcile")
	defer tracer.End()

	seen := make(map[string]struct{})
	var updated int

	for _, orderId := range orderIds {
		if len(orderId) == 0 {
			continue
		}
		if _, ok := seen[orderId]; ok {
			continue
		}
		seen[orderId] = struct{}{}

		changed, err := reconcileOrder(ctx, data, orderId)
		if err != nil {
			tracer.OnError(err)
			return updated, err
		}
		if changed {
			updated++
		}
	}

	return updated, nil
}

func reconcileOrder(ctx context.Context, data bloom_data.Provider, orderId string) (bool, error) {
	orderRecord, err := data.GetOrder(ctx, orderId)
	if err == order.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}

	settledPaid, err := calculateSettledPaid(ctx, data, orderId)
	if err != nil {
		return false, err
	}

	settledRefunded, err := calculateSettledRefunded(ctx, data, orderId)
	if err != nil {
		return false, err
	}

	status := ResolvePaymentStatus(float64(orderRecord.PaymentAmount), settledPaid, settledRefunded)
	if status == orderRecord.PaymentStatus {
		return false, nil
	}

	if err := data.UpdateOrderPaymentStatus(ctx, orderId, status); err != nil {
		return false, err
	}
	return true, nil
}

func calculateSettledPaid(ctx context.Context, data bloom_data.Provider, orderId string) (float64, error) {
	orderPayments, err := data.GetOrderPaymentsForOrder(ctx, orderId)
	if err == payment.ErrNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var settledPaid float64
	for _, orderPayment := range orderPayments {
		transactionRecord, err := data.GetTransaction(ctx, orderPayment.TransactionId)
		if err == transaction.ErrNotFound {
			continue
		} else if err != nil {
			return 0, err
		}

		if !isCountableState(transactionRecord.State) {
			continue
		}

		settledPaid += float64(orderPayment.Amount) * TransactionSettledRatio(transactionRecord)
	}

	return settledPaid, nil
}

func calculateSettledRefunded(ctx context.Context, data bloom_data.Provider, orderId string) (float64, error) {
	orderRefunds, err := data.GetOrderRefundsForOrder(ctx, orderId)
	if err == refund.ErrNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var settledRefunded float64
	for _, orderRefund := range orderRefunds {
		refundRecord, err := data.GetRefund(ctx, orderRefund.RefundId)
		if err == refund.ErrNotFound {
			continue
		} else if err != nil {
			return 0, err
		}

		settledRefunded += float64(orderRefund.Amount) * RefundSettledRatio(refundRecord)
	}

	return settledRefunded, nil
}

// isCountableState reports whether a transaction's payments count toward
// settled paid. Refunded states still count; refunds are tracked on the
// refund side of the derivation.
func isCountableState(state transaction.State) bool {
	switch state {
	case transaction.StateCompleted, transaction.StatePartiallyRefunded, transaction.StateRefunded:
		return true
	}
	return false
}
