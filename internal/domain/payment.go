package domain

import (
	"time"

	"github.com/google/uuid"
)

// FailureKind separates legitimate declines from infrastructure failures so
// they can be alerted on separately.
type FailureKind string

const (
	FailureDeclined    FailureKind = "DECLINED"
	FailureUnavailable FailureKind = "UNAVAILABLE"
)

// DefaultFailureMessage is shown when a processor declines without saying why.
const DefaultFailureMessage = "payment was not accepted by the processor"

type FailureDetail struct {
	Kind    FailureKind
	Message string
}

// PaymentRecord is the outcome of one authorize+capture attempt. Records are
// never modified after they are appended to an invoice.
type PaymentRecord struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	Sequence        int
	PaymentMethodID uuid.UUID
	ProviderTag     ProviderTag
	AmountCents     int64
	Currency        string
	Success         bool

	ProcessorReference *string
	Failure            *FailureDetail

	CreatedAt time.Time
}

// NewSuccessfulPayment records an accepted attempt against the invoice.
func NewSuccessfulPayment(
	id uuid.UUID,
	invoice *Invoice,
	method *PaymentMethod,
	amount Money,
	reference string,
	at time.Time,
) PaymentRecord {
	return PaymentRecord{
		ID:                 id,
		InvoiceID:          invoice.ID,
		Sequence:           invoice.NextSequence(),
		PaymentMethodID:    method.ID,
		ProviderTag:        method.ProviderTag,
		AmountCents:        amount.Amount,
		Currency:           amount.Currency,
		Success:            true,
		ProcessorReference: &reference,
		CreatedAt:          at,
	}
}

// NewFailedPayment records a rejected attempt. An empty message is replaced
// so a failed record always carries something to show the customer.
func NewFailedPayment(
	id uuid.UUID,
	invoice *Invoice,
	method *PaymentMethod,
	amount Money,
	failure FailureDetail,
	at time.Time,
) PaymentRecord {
	if failure.Message == "" {
		failure.Message = DefaultFailureMessage
	}
	return PaymentRecord{
		ID:              id,
		InvoiceID:       invoice.ID,
		Sequence:        invoice.NextSequence(),
		PaymentMethodID: method.ID,
		ProviderTag:     method.ProviderTag,
		AmountCents:     amount.Amount,
		Currency:        amount.Currency,
		Success:         false,
		Failure:         &failure,
		CreatedAt:       at,
	}
}
