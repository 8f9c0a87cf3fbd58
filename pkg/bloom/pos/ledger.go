package pos

import (
	"fmt"
	"math"
)

type RowStatus uint8

const (
	RowStatusPending RowStatus = iota
	RowStatusProcessing
	RowStatusCompleted
)

// Row is a single planned tender within a split payment session.
type Row struct {
	ID     string
	Tender Tender

	// Amount planned for this row, in cents.
	Amount int64

	Status  RowStatus
	Details string
}

// Ledger tracks the tender rows of one split payment session and the
// captured payloads of rows that completed. It has exactly one logical
// writer (the checkout session driving it) and is not safe for
// concurrent use.
//
// Invalid transitions are silently ignored rather than rejected: the
// UI layer only offers valid actions, and an in-flight capture must
// never be disrupted by a stray edit.
type Ledger struct {
	total    int64
	rows     []*Row
	payments map[string]*Payload
	nextId   int
}

func NewLedger() *Ledger {
	l := &Ledger{}
	l.Initialize(0)
	return l
}

// Initialize clears all prior state and starts a fresh session with a
// single pending row of amount zero. Safe to call repeatedly.
func (l *Ledger) Initialize(total int64) {
	l.total = total
	l.rows = nil
	l.payments = make(map[string]*Payload)
	l.nextId = 0
	l.appendRow(0)
}

func (l *Ledger) appendRow(amount int64) *Row {
	l.nextId++
	row := &Row{
		ID:     fmt.Sprintf("split-%d", l.nextId),
		Tender: DefaultTender,
		Amount: amount,
		Status: RowStatusPending,
	}
	l.rows = append(l.rows, row)
	return row
}

func (l *Ledger) getRow(rowId string) *Row {
	for _, row := range l.rows {
		if row.ID == rowId {
			return row
		}
	}
	return nil
}

// SetTender changes the tender of a pending row.
func (l *Ledger) SetTender(rowId string, tender Tender) {
	row := l.getRow(rowId)
	if row == nil || row.Status != RowStatusPending {
		return
	}

	row.Tender = tender
}

// SetAmount changes the planned amount of a pending row. The amount is
// clamped to max(0, round(amount)).
func (l *Ledger) SetAmount(rowId string, amount float64) {
	row := l.getRow(rowId)
	if row == nil || row.Status != RowStatusPending {
		return
	}

	rounded := int64(math.Round(amount))
	if rounded < 0 {
		rounded = 0
	}
	row.Amount = rounded
}

// AddRow appends a new pending row defaulting to the uncovered balance
// across all planned amounts.
func (l *Ledger) AddRow() *Row {
	var planned int64
	for _, row := range l.rows {
		planned += row.Amount
	}

	remaining := l.total - planned
	if remaining < 0 {
		remaining = 0
	}

	return l.appendRow(remaining)
}

// DeleteRow removes a row. The last remaining row and completed rows
// cannot be removed, so the ledger never becomes empty and settled
// history is never discarded.
func (l *Ledger) DeleteRow(rowId string) {
	if len(l.rows) <= 1 {
		return
	}

	for i, row := range l.rows {
		if row.ID != rowId {
			continue
		}
		if row.Status == RowStatusCompleted {
			return
		}

		l.rows = append(l.rows[:i], l.rows[i+1:]...)
		return
	}
}

// MarkProcessing transitions a pending row into processing while its
// capture dialog is open.
func (l *Ledger) MarkProcessing(rowId string) {
	row := l.getRow(rowId)
	if row == nil || row.Status != RowStatusPending {
		return
	}

	row.Status = RowStatusProcessing
}

// CancelProcessing returns a processing row to pending when the capture
// dialog is dismissed.
func (l *Ledger) CancelProcessing(rowId string) {
	row := l.getRow(rowId)
	if row == nil || row.Status != RowStatusProcessing {
		return
	}

	row.Status = RowStatusPending
}

// CompleteRow transitions a processing row to completed and records the
// captured payload. Completed is terminal.
func (l *Ledger) CompleteRow(rowId string, payload *Payload, details string) {
	row := l.getRow(rowId)
	if row == nil || row.Status != RowStatusProcessing || payload == nil {
		return
	}

	row.Status = RowStatusCompleted
	row.Details = details
	l.payments[row.ID] = payload
}

// Rows returns the rows in creation order.
func (l *Ledger) Rows() []*Row {
	return l.rows
}

// Total returns the session's order total in cents.
func (l *Ledger) Total() int64 {
	return l.total
}

// PaidAmount is the sum of captured payload amounts over completed rows.
func (l *Ledger) PaidAmount() int64 {
	var paid int64
	for _, row := range l.rows {
		if row.Status != RowStatusCompleted {
			continue
		}
		if payload, ok := l.payments[row.ID]; ok {
			paid += payload.Amount
		}
	}
	return paid
}

// RemainingAmount is the uncovered portion of the total, never negative.
func (l *Ledger) RemainingAmount() int64 {
	remaining := l.total - l.PaidAmount()
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// CompletedPayments returns the captured payloads of completed rows in
// row-creation order. This is the canonical sequence submitted when the
// split transaction is finalized.
func (l *Ledger) CompletedPayments() []*Payload {
	var res []*Payload
	for _, row := range l.rows {
		if row.Status != RowStatusCompleted {
			continue
		}
		if payload, ok := l.payments[row.ID]; ok {
			res = append(res, payload)
		}
	}
	return res
}
