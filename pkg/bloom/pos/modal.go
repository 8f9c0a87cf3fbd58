package pos

type ModalMode uint8

const (
	ModalModeSingle ModalMode = iota
	ModalModeSplit
)

// ModalContext describes why a capture modal is open: which tender it
// captures, the amount to prefill, and (in split mode) the ledger row
// it belongs to.
type ModalContext struct {
	Mode   ModalMode
	Tender Tender
	Amount int64
	RowID  string
}

// ModalController is the single source of truth for which capture UI is
// currently shown. It holds no business data beyond what the capture UI
// needs to prefill; all amount and tender truth lives in the Ledger.
// Like the Ledger it has one logical writer and is not safe for
// concurrent use.
type ModalController struct {
	activeModal Tender
	context     *ModalContext

	showNotification    bool
	showGiftCardHandoff bool
	showAdjustments     bool
}

func NewModalController() *ModalController {
	return &ModalController{}
}

// OpenModal opens the capture modal for a whole-order (single mode)
// payment. An already open modal is replaced, not queued.
func (c *ModalController) OpenModal(tender Tender, amount int64) {
	c.activeModal = tender
	c.context = &ModalContext{
		Mode:   ModalModeSingle,
		Tender: tender,
		Amount: amount,
	}
}

// OpenRowModal opens the capture modal for a single ledger row in a
// split session.
func (c *ModalController) OpenRowModal(tender Tender, amount int64, rowId string) {
	c.activeModal = tender
	c.context = &ModalContext{
		Mode:   ModalModeSplit,
		Tender: tender,
		Amount: amount,
		RowID:  rowId,
	}
}

// CloseModal clears the active modal and its context unconditionally.
// Callers invoke it on both cancel and successful completion.
func (c *ModalController) CloseModal() {
	c.activeModal = TenderUnknown
	c.context = nil
}

// ResetAll clears modal state and every auxiliary dialog flag. Used when
// a checkout session is abandoned or restarted.
func (c *ModalController) ResetAll() {
	c.CloseModal()
	c.showNotification = false
	c.showGiftCardHandoff = false
	c.showAdjustments = false
}

// ActiveModal returns the tender whose capture modal is open, or
// TenderUnknown if none.
func (c *ModalController) ActiveModal() Tender {
	return c.activeModal
}

// Context returns the active modal context, or nil if no modal is open.
func (c *ModalController) Context() *ModalContext {
	return c.context
}

func (c *ModalController) ShowNotification()    { c.showNotification = true }
func (c *ModalController) ShowGiftCardHandoff() { c.showGiftCardHandoff = true }
func (c *ModalController) ShowAdjustments()     { c.showAdjustments = true }

func (c *ModalController) IsNotificationShown() bool    { return c.showNotification }
func (c *ModalController) IsGiftCardHandoffShown() bool { return c.showGiftCardHandoff }
func (c *ModalController) IsAdjustmentsShown() bool     { return c.showAdjustments }
