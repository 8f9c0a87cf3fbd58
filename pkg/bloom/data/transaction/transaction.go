package transaction

import (
	"time"

	"github.com/pkg/errors"

	"github.com/bloom-commerce/bloom-server/pkg/pointer"
)

// Channel is the sales channel a transaction was captured on.
type Channel uint8

const (
	ChannelUnknown Channel = iota
	ChannelPointOfSale
	ChannelPhone
	ChannelWebsite
)

type State uint8

const (
	StateUnknown State = iota
	StateProcessing
	StateCompleted
	StatePartiallyRefunded
	StateRefunded
)

// MethodType identifies how a portion of a transaction was tendered.
type MethodType uint8

const (
	MethodTypeUnknown MethodType = iota
	MethodTypeCash
	MethodTypeCard
	MethodTypeGiftCard
	MethodTypeStoreCredit
	MethodTypeCheck
	MethodTypePayLater
	MethodTypeHouseAccount
	MethodTypeExternal
	MethodTypeOffline
)

// Provider identifies the processor a card method settled through.
type Provider uint8

const (
	ProviderUnknown Provider = iota
	ProviderInternal
	ProviderStripe
	ProviderSquare
)

type Record struct {
	Id uint64

	TransactionId     string
	TransactionNumber string
	CustomerId        string

	Channel Channel
	State   State

	// Amount is the total tendered across all methods, in cents.
	Amount    int64
	TaxAmount int64
	TipAmount int64

	Methods []*Method

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Method is a single tender line within a transaction. A split payment
// produces one method per tender.
type Method struct {
	Id uint64

	TransactionId string

	Type     MethodType
	Provider Provider

	Amount int64

	// Reference carries tender-specific detail (check number, card last
	// four, gift card number).
	Reference *string
}

func (r *Record) Validate() error {
	if len(r.TransactionId) == 0 {
		return errors.New("transaction id is required")
	}

	if len(r.TransactionNumber) == 0 {
		return errors.New("transaction number is required")
	}

	if r.Amount < 0 {
		return errors.New("amount cannot be negative")
	}

	for _, method := range r.Methods {
		if err := method.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (m *Method) Validate() error {
	if m.Type == MethodTypeUnknown {
		return errors.New("method type is required")
	}

	return nil
}

func (r *Record) Clone() Record {
	methods := make([]*Method, len(r.Methods))
	for i, method := range r.Methods {
		cloned := method.Clone()
		methods[i] = &cloned
	}

	return Record{
		Id:                r.Id,
		TransactionId:     r.TransactionId,
		TransactionNumber: r.TransactionNumber,
		CustomerId:        r.CustomerId,
		Channel:           r.Channel,
		State:             r.State,
		Amount:            r.Amount,
		TaxAmount:         r.TaxAmount,
		TipAmount:         r.TipAmount,
		Methods:           methods,
		CreatedAt:         r.CreatedAt,
		CompletedAt:       pointer.TimeCopy(r.CompletedAt),
	}
}

func (r *Record) CopyTo(dst *Record) {
	cloned := r.Clone()

	dst.Id = cloned.Id
	dst.TransactionId = cloned.TransactionId
	dst.TransactionNumber = cloned.TransactionNumber
	dst.CustomerId = cloned.CustomerId
	dst.Channel = cloned.Channel
	dst.State = cloned.State
	dst.Amount = cloned.Amount
	dst.TaxAmount = cloned.TaxAmount
	dst.TipAmount = cloned.TipAmount
	dst.Methods = cloned.Methods
	dst.CreatedAt = cloned.CreatedAt
	dst.CompletedAt = cloned.CompletedAt
}

func (m *Method) Clone() Method {
	return Method{
		Id:            m.Id,
		TransactionId: m.TransactionId,
		Type:          m.Type,
		Provider:      m.Provider,
		Amount:        m.Amount,
		Reference:     pointer.StringCopy(m.Reference),
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelPointOfSale:
		return "point_of_sale"
	case ChannelPhone:
		return "phone"
	case ChannelWebsite:
		return "website"
	}
	return "unknown"
}

func (s State) String() string {
	switch s {
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StatePartiallyRefunded:
		return "partially_refunded"
	case StateRefunded:
		return "refunded"
	}
	return "unknown"
}

func (t MethodType) String() string {
	switch t {
	case MethodTypeCash:
		return "cash"
	case MethodTypeCard:
		return "card"
	case MethodTypeGiftCard:
		return "gift_card"
	case MethodTypeStoreCredit:
		return "store_credit"
	case MethodTypeCheck:
		return "check"
	case MethodTypePayLater:
		return "pay_later"
	case MethodTypeHouseAccount:
		return "house_account"
	case MethodTypeExternal:
		return "external"
	case MethodTypeOffline:
		return "offline"
	}
	return "unknown"
}

func (p Provider) String() string {
	switch p {
	case ProviderInternal:
		return "internal"
	case ProviderStripe:
		return "stripe"
	case ProviderSquare:
		return "square"
	}
	return "unknown"
}
