// Package domain models invoices, the payment records appended to them and
// the payment methods that produce those records.
package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "UNPAID"
	InvoicePaid   InvoiceStatus = "PAID"
)

type LineItem struct {
	SKU            string
	Name           string
	Quantity       int
	UnitPriceCents int64
}

func (l LineItem) TotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// Invoice is the billable record of one checkout. Payments is append-only and
// kept in the order the attempts were made.
type Invoice struct {
	ID         uuid.UUID
	Number     int64
	CustomerID string
	Currency   string
	LineItems  []LineItem
	Status     InvoiceStatus
	Payments   []PaymentRecord
	Version    int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewInvoice(id uuid.UUID, customerID, currency string, items []LineItem) (*Invoice, error) {
	if id == uuid.Nil {
		return nil, errors.New("invoice ID is required")
	}
	if customerID == "" {
		return nil, errors.New("customer ID is required")
	}
	if currency == "" {
		return nil, errors.New("currency is required")
	}
	if len(items) == 0 {
		return nil, errors.New("at least one line item is required")
	}
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPriceCents < 0 {
			return nil, NewInvalidAmountError(item.TotalCents())
		}
	}

	now := time.Now()
	invoice := &Invoice{
		ID:         id,
		CustomerID: customerID,
		Currency:   currency,
		LineItems:  slices.Clone(items),
		Status:     InvoiceUnpaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if invoice.TotalCents() <= 0 {
		return nil, NewInvalidAmountError(invoice.TotalCents())
	}
	return invoice, nil
}

func (i *Invoice) TotalCents() int64 {
	var total int64
	for _, item := range i.LineItems {
		total += item.TotalCents()
	}
	return total
}

// PaidCents sums the successful payments recorded against the invoice.
func (i *Invoice) PaidCents() int64 {
	var paid int64
	for _, p := range i.Payments {
		if p.Success {
			paid += p.AmountCents
		}
	}
	return paid
}

func (i *Invoice) AmountDue() Money {
	due := i.TotalCents() - i.PaidCents()
	if due < 0 {
		due = 0
	}
	return Money{Amount: due, Currency: i.Currency}
}

func (i *Invoice) IsSettled() bool {
	return i.Status == InvoicePaid
}

// CanAcceptPayment fails with ErrOrderAlreadySettled once the invoice is paid.
func (i *Invoice) CanAcceptPayment() error {
	if i.IsSettled() {
		return NewOrderAlreadySettledError(i.ID.String())
	}
	return nil
}

// NextSequence is the sequence number the next payment record must carry.
func (i *Invoice) NextSequence() int {
	return len(i.Payments) + 1
}

// RecordPayment appends a payment record. A successful payment that covers
// the amount due settles the invoice; a failed one leaves the status alone.
func (i *Invoice) RecordPayment(p PaymentRecord) error {
	if p.InvoiceID != i.ID {
		return errors.New("payment belongs to a different invoice")
	}
	if p.Sequence != i.NextSequence() {
		return NewPaymentSequenceError(i.NextSequence(), p.Sequence)
	}
	if err := i.CanAcceptPayment(); err != nil {
		return err
	}

	i.Payments = append(i.Payments, p)
	i.UpdatedAt = p.CreatedAt

	if p.Success && i.PaidCents() >= i.TotalCents() {
		return i.transition(InvoicePaid)
	}
	return nil
}

// LastPayment returns the most recent payment record, if any.
func (i *Invoice) LastPayment() (PaymentRecord, bool) {
	if len(i.Payments) == 0 {
		return PaymentRecord{}, false
	}
	return i.Payments[len(i.Payments)-1], true
}

func (i *Invoice) transition(target InvoiceStatus) error {
	if err := i.canTransitionTo(target); err != nil {
		return err
	}
	i.Status = target
	return nil
}

func (i *Invoice) canTransitionTo(target InvoiceStatus) error {
	switch i.Status {
	case InvoiceUnpaid:
		if target == InvoicePaid {
			return nil
		}
	}
	return NewInvalidTransitionError(i.Status, target)
}
