package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
)

type SubmitPaymentCommand struct {
	CheckoutID      string
	CredentialToken string
}

type RetryPaymentCommand struct {
	CheckoutID      string
	CredentialToken string
	InvoiceID       uuid.UUID
}

// PaymentForm is what the payment page needs to render.
type PaymentForm struct {
	Method     *domain.PaymentMethod
	CustomerID string
	InvoiceID  uuid.UUID
	AmountDue  domain.Money
}

// PaymentService is the entry point used by the transport layer.
type PaymentService struct {
	stage       application.CheckoutStage
	invoices    application.InvoiceRepository
	registry    *Registry
	gateway     Gateway
	retry       *RetryCoordinator
	idempotency application.IdempotencyStore
	logger      *slog.Logger
}

// NewPaymentService wires the checkout operations. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewPaymentService(
	stage application.CheckoutStage,
	invoices application.InvoiceRepository,
	registry *Registry,
	gateway Gateway,
	idempotency application.IdempotencyStore,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		stage:       stage,
		invoices:    invoices,
		registry:    registry,
		gateway:     gateway,
		retry:       NewRetryCoordinator(invoices, gateway, logger),
		idempotency: idempotency,
		logger:      logger.With("component", "checkout"),
	}
}

// SubmitPayment pays the invoice of the customer's current checkout with the
// active payment method.
func (s *PaymentService) SubmitPayment(ctx context.Context, cmd SubmitPaymentCommand, idempotencyKey string) (*PaymentResult, error) {
	return s.withIdempotency(ctx, idempotencyKey, cmd, func(ctx context.Context) (*PaymentResult, error) {
		method, args, err := s.prepare(ctx, cmd.CheckoutID, cmd.CredentialToken)
		if err != nil {
			return nil, err
		}

		invoiceID, err := s.stage.Invoice(ctx, cmd.CheckoutID)
		if err != nil {
			return nil, err
		}

		outcome, err := s.gateway.AuthorizeCapture(ctx, invoiceID, method.ID, args)
		if err != nil {
			return nil, err
		}

		result := Project(outcome)
		return &result, nil
	})
}

// RetryPayment pays an existing, unpaid invoice with a new credential. The
// attempt is appended to that invoice; no new invoice is created.
func (s *PaymentService) RetryPayment(ctx context.Context, cmd RetryPaymentCommand, idempotencyKey string) (*PaymentResult, error) {
	return s.withIdempotency(ctx, idempotencyKey, cmd, func(ctx context.Context) (*PaymentResult, error) {
		if cmd.InvoiceID == uuid.Nil {
			return nil, domain.NewMissingRequiredFieldError("invoiceKey")
		}

		method, args, err := s.prepare(ctx, cmd.CheckoutID, cmd.CredentialToken)
		if err != nil {
			return nil, err
		}

		customerID, err := s.stage.Customer(ctx, cmd.CheckoutID)
		if err != nil {
			return nil, err
		}

		outcome, err := s.retry.Retry(ctx, cmd.InvoiceID, customerID, method.ID, args)
		if err != nil {
			return nil, err
		}

		result := Project(outcome)
		return &result, nil
	})
}

// PaymentForm returns the active method and customer for the payment page.
func (s *PaymentService) PaymentForm(ctx context.Context, checkoutID string) (*PaymentForm, error) {
	method, err := s.activeMethod(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.stage.Customer(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	invoiceID, err := s.stage.Invoice(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return &PaymentForm{
		Method:     method,
		CustomerID: customerID,
		InvoiceID:  invoice.ID,
		AmountDue:  invoice.AmountDue(),
	}, nil
}

func (s *PaymentService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

func (s *PaymentService) prepare(ctx context.Context, checkoutID, credentialToken string) (*domain.PaymentMethod, *domain.ArgumentBag, error) {
	if checkoutID == "" {
		return nil, nil, domain.NewMissingRequiredFieldError("checkoutID")
	}
	if credentialToken == "" {
		return nil, nil, domain.NewMissingRequiredFieldError("credentialToken")
	}

	method, err := s.activeMethod(ctx, checkoutID)
	if err != nil {
		return nil, nil, err
	}

	args, err := s.registry.BuildArguments(method, credentialToken)
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}

func (s *PaymentService) activeMethod(ctx context.Context, checkoutID string) (*domain.PaymentMethod, error) {
	method, err := s.stage.PaymentMethod(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActivePaymentMethod) {
			s.logger.InfoContext(ctx, "payment attempted outside payment stage", "checkout_id", checkoutID)
			return nil, application.NewInvalidCheckoutStageError(err)
		}
		return nil, err
	}
	return method, nil
}
