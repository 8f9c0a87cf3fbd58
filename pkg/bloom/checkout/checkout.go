// Package checkout turns a finished point of sale session into durable
// payment records: one transaction with a method per captured tender,
// payment links to the orders it covers, house account charges, and a
// reconciled payment status.
package checkout

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
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/pos"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/settlement"
	"github.com/bloom-commerce/bloom-server/pkg/metrics"
	"github.com/bloom-commerce/bloom-server/pkg/pointer"
)

const (
	metricsPackageName = "checkout"

	transactionSequenceKey = "transaction"
)

var (
	// ErrInsufficientTender indicates the captured payments do not cover
	// the session total.
	ErrInsufficientTender = errors.New("completed payments do not cover the session total")

	// ErrNoPayments indicates the session has no completed payments to
	// finalize.
	ErrNoPayments = errors.New("session has no completed payments")
)

// Session is one checkout being finalized: the ledger holding captured
// tenders and the order it pays for.
type Session struct {
	Ledger *pos.Ledger

	OrderId    string
	CustomerId string
	Channel    transaction.Channel

	TaxAmount int64
	TipAmount int64
}

type Service struct {
	log  *logrus.Entry
	data bloom_data.Provider
	conf *conf
}

func NewService(data bloom_data.Provider, configProvider ConfigProvider) *Service {
	return &Service{
		log:  logrus.StandardLogger().WithField("service", "checkout"),
		data: data,
		conf: configProvider(),
	}
}

// FinalizeSession persists a completed checkout session atomically and
// reconciles the order's payment status. The returned record carries
// the assigned transaction number.
func (s *Service) FinalizeSession(ctx context.Context, session *Session) (*transaction.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsPackageName, "FinalizeSession")
	defer tracer.End()

	payloads := session.Ledger.CompletedPayments()
	if len(payloads) == 0 {
		tracer.OnError(ErrNoPayments)
		return nil, ErrNoPayments
	}

	if session.Ledger.RemainingAmount() > 0 {
		tracer.OnError(ErrInsufficientTender)
		return nil, ErrInsufficientTender
	}

	// Serializable so the house account balance subquery cannot read a
	// stale latest entry under a concurrent checkout.
	var record *transaction.Record
	err := s.data.ExecuteInTx(ctx, sql.LevelSerializable, func(ctx context.Context) error {
		number, err := s.nextTransactionNumber(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		record = &transaction.Record{
			TransactionId:     uuid.NewString(),
			TransactionNumber: number,
			CustomerId:        session.CustomerId,
			Channel:           session.Channel,
			State:             transaction.StateProcessing,
			Amount:            session.Ledger.PaidAmount(),
			TaxAmount:         session.TaxAmount,
			TipAmount:         session.TipAmount,
			Methods:           methodsFromPayloads(payloads),
			CreatedAt:         now,
		}

		if err := s.data.CreateTransaction(ctx, record); err != nil {
			return err
		}

		if err := s.data.CreateOrderPayment(ctx, &payment.Record{
			OrderId:       session.OrderId,
			TransactionId: record.TransactionId,
			Amount:        session.Ledger.Total(),
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		if err := s.data.MarkTransactionCompleted(ctx, record.TransactionId, now); err != nil {
			return err
		}
		record.State = transaction.StateCompleted
		record.CompletedAt = pointer.Time(now)

		if err := s.chargeHouseAccounts(ctx, session, payloads, number); err != nil {
			return err
		}

		_, err = settlement.Reconcile(ctx, s.data, []string{session.OrderId})
		return err
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	s.log.
		WithField("transaction_number", record.TransactionNumber).
		WithField("amount", record.Amount).
		Info("finalized checkout session")

	return record, nil
}

func (s *Service) nextTransactionNumber(ctx context.Context) (string, error) {
	seq, err := s.data.GetNextSequenceValue(ctx, transactionSequenceKey)
	if err != nil {
		return "", err
	}

	prefix := s.conf.transactionNumberPrefix.Get(ctx)
	base := s.conf.documentNumberBase.Get(ctx)
	return fmt.Sprintf("%s-%d", prefix, base+seq), nil
}

// chargeHouseAccounts records a ledger charge for each house account
// tender in the session, referenced by the transaction number.
func (s *Service) chargeHouseAccounts(ctx context.Context, session *Session, payloads []*pos.Payload, number string) error {
	for _, payload := range payloads {
		if payload.Method != pos.TenderHouseAccount {
			continue
		}

		if err := s.data.CreateHouseAccountEntry(ctx, &houseaccount.Record{
			CustomerId: session.CustomerId,
			Amount:     payload.Amount,
			Reference:  number,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func methodsFromPayloads(payloads []*pos.Payload) []*transaction.Method {
	res := make([]*transaction.Method, len(payloads))
	for i, payload := range payloads {
		methodType, provider := mapTender(payload.Method)
		res[i] = &transaction.Method{
			Type:      methodType,
			Provider:  provider,
			Amount:    payload.Amount,
			Reference: referenceFromMetadata(payload.Metadata),
		}
	}
	return res
}

// mapTender converts a point of sale tender into the stored method type
// and processor. COD settles later and is normalized to pay later.
func mapTender(tender pos.Tender) (transaction.MethodType, transaction.Provider) {
	switch tender {
	case pos.TenderCash:
		return transaction.MethodTypeCash, transaction.ProviderInternal
	case pos.TenderCardSquare:
		return transaction.MethodTypeCard, transaction.ProviderSquare
	case pos.TenderCardStripe:
		return transaction.MethodTypeCard, transaction.ProviderStripe
	case pos.TenderHouseAccount:
		return transaction.MethodTypeHouseAccount, transaction.ProviderInternal
	case pos.TenderCod:
		return transaction.MethodTypePayLater, transaction.ProviderInternal
	case pos.TenderCheck:
		return transaction.MethodTypeCheck, transaction.ProviderInternal
	case pos.TenderGiftCard:
		return transaction.MethodTypeGiftCard, transaction.ProviderInternal
	case pos.TenderDiscount:
		return transaction.MethodTypeStoreCredit, transaction.ProviderInternal
	}
	return transaction.MethodTypeUnknown, transaction.ProviderUnknown
}

func referenceFromMetadata(metadata pos.Metadata) *string {
	switch typed := metadata.(type) {
	case pos.CardMetadata:
		return pointer.String(typed.Last4)
	case pos.CheckMetadata:
		return pointer.String(typed.CheckNumber)
	case pos.GiftCardMetadata:
		return pointer.String(typed.CardNumber)
	case pos.AccountMetadata:
		return pointer.String(typed.Reference)
	}
	return nil
}
