package postgres

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceModel struct {
	ID            uuid.UUID
	InvoiceNumber int64
	CustomerID    string
	Currency      string
	Status        string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type LineItemModel struct {
	Position       int
	SKU            string
	Name           string
	Quantity       int
	UnitPriceCents int64
}

type PaymentModel struct {
	ID                 uuid.UUID
	InvoiceID          uuid.UUID
	Sequence           int
	PaymentMethodID    uuid.UUID
	ProviderTag        string
	AmountCents        int64
	Currency           string
	Success            bool
	ProcessorReference *string
	FailureKind        *string
	FailureMessage     *string
	CreatedAt          time.Time
}

type PaymentMethodModel struct {
	ID          uuid.UUID
	ProviderTag string
	Variant     string
	Name        string
	Enabled     bool
}

// CheckoutSession is the row the checkout flow keeps per customer checkout.
// Only the PAYMENT stage with a selected method can be paid.
type CheckoutSession struct {
	ID              string
	Stage           string
	CustomerID      string
	InvoiceID       *uuid.UUID
	PaymentMethodID *uuid.UUID
}

const StagePayment = "PAYMENT"
