package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
)

// CheckoutStage is the port to the checkout state machine. It answers
// questions about the customer's current checkout and nothing else.
type CheckoutStage interface {
	// PaymentMethod returns domain.ErrNoActivePaymentMethod when the checkout
	// is not at the payment stage or has no usable method selected.
	PaymentMethod(ctx context.Context, checkoutID string) (*domain.PaymentMethod, error)
	Invoice(ctx context.Context, checkoutID string) (uuid.UUID, error)
	Customer(ctx context.Context, checkoutID string) (string, error)
}

// InvoiceRepository is the port for invoice persistence.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	Create(ctx context.Context, invoice *domain.Invoice) error
	// AppendPayment stores record and the invoice status in one transaction.
	// It fails with domain.ErrConcurrentModification when the stored version
	// no longer matches invoice.Version, and bumps the version otherwise.
	AppendPayment(ctx context.Context, invoice *domain.Invoice, record domain.PaymentRecord) error
}

type PaymentMethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error)
}

// ProcessorRequest is everything a processor needs for one authorize+capture.
// PaymentID is unique per attempt and doubles as the processor idempotency key.
type ProcessorRequest struct {
	PaymentID     uuid.UUID
	InvoiceID     uuid.UUID
	InvoiceNumber int64
	CustomerID    string
	Amount        domain.Money
	Method        *domain.PaymentMethod
	Args          *domain.ArgumentBag
}

type ProcessorResult struct {
	Accepted     bool
	ReferenceID  string
	ErrorMessage string
}

// Processor is implemented once per third-party integration.
// A decline is reported as a result with Accepted=false; an error means the
// processor could not be reached or did not answer sensibly.
type Processor interface {
	Tag() domain.ProviderTag
	AuthorizeCapture(ctx context.Context, req ProcessorRequest) (*ProcessorResult, error)
}

// InvoiceLocker serialises authorize+capture calls per invoice.
type InvoiceLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type IdempotencyKeyInfo struct {
	Key             string
	RequestHash     string
	LockedAt        *time.Time
	ResponsePayload []byte
}

// IdempotencyStore backs the optional Idempotency-Key header on payment
// submissions.
type IdempotencyStore interface {
	// AcquireLock returns domain.ErrDuplicateIdempotencyKey if key exists.
	AcquireLock(ctx context.Context, key, requestHash string) error
	FindByKey(ctx context.Context, key string) (*IdempotencyKeyInfo, error)
	StoreResponse(ctx context.Context, key string, responsePayload []byte) error
	// ReleaseLock forgets key so the same request can be sent again.
	ReleaseLock(ctx context.Context, key string) error
}
