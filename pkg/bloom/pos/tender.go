package pos

// Tender is a kind of payment a point of sale row can be captured with.
type Tender uint8

const (
	TenderUnknown Tender = iota
	TenderCash
	TenderCardSquare
	TenderCardStripe
	TenderHouseAccount
	TenderCod
	TenderCheck
	TenderGiftCard
	TenderDiscount
)

// DefaultTender is the tender a freshly created row starts with.
const DefaultTender = TenderCash

func (t Tender) String() string {
	switch t {
	case TenderCash:
		return "cash"
	case TenderCardSquare:
		return "card_square"
	case TenderCardStripe:
		return "card_stripe"
	case TenderHouseAccount:
		return "house_account"
	case TenderCod:
		return "cod"
	case TenderCheck:
		return "check"
	case TenderGiftCard:
		return "gift_card"
	case TenderDiscount:
		return "discount"
	}
	return "unknown"
}
