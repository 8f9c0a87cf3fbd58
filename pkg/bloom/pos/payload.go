package pos

// Payload is the result of a successful capture flow. It is produced once
// per completed row and never mutated afterwards.
type Payload struct {
	Method Tender

	// Amount captured, in cents.
	Amount int64

	Metadata Metadata
}

// Metadata carries tender-specific capture detail. Exactly one concrete
// type applies per tender kind; nil is valid for tenders with nothing to
// record.
type Metadata interface {
	isMetadata()
}

type CashMetadata struct {
	CashReceived int64
	ChangeDue    int64
}

type CardMetadata struct {
	Provider string
	Last4    string
}

type CheckMetadata struct {
	CheckNumber string
}

type GiftCardMetadata struct {
	CardNumber string
}

type AccountMetadata struct {
	Reference string
}

func (CashMetadata) isMetadata()     {}
func (CardMetadata) isMetadata()     {}
func (CheckMetadata) isMetadata()    {}
func (GiftCardMetadata) isMetadata() {}
func (AccountMetadata) isMetadata()  {}
