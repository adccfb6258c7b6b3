package services

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
)

// RetryCoordinator re-attempts payment on an existing invoice. The invoice is
// always looked up by ID so a retry can never create a second invoice.
type RetryCoordinator struct {
	invoices application.InvoiceRepository
	gateway  Gateway
	logger   *slog.Logger
}

func NewRetryCoordinator(invoices application.InvoiceRepository, gateway Gateway, logger *slog.Logger) *RetryCoordinator {
	return &RetryCoordinator{
		invoices: invoices,
		gateway:  gateway,
		logger:   logger.With("component", "retry"),
	}
}

// Retry pays invoiceID again on behalf of customerID. An invoice owned by
// another customer is reported as not found.
func (c *RetryCoordinator) Retry(
	ctx context.Context,
	invoiceID uuid.UUID,
	customerID string,
	methodID uuid.UUID,
	args *domain.ArgumentBag,
) (*domain.TransactionOutcome, error) {
	invoice, err := c.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.CustomerID != customerID {
		c.logger.WarnContext(ctx, "retry on invoice of another customer",
			"invoice_id", invoice.ID,
			"customer_id", customerID,
		)
		return nil, domain.NewOrderNotFoundError(invoiceID.String())
	}
	if err := invoice.CanAcceptPayment(); err != nil {
		return nil, err
	}

	attrs := []any{"invoice_id", invoice.ID, "previous_attempts", len(invoice.Payments)}
	if last, ok := invoice.LastPayment(); ok && last.Failure != nil {
		attrs = append(attrs, "previous_payment_id", last.ID, "previous_failure", last.Failure.Kind)
	}
	c.logger.InfoContext(ctx, "retrying payment", attrs...)
	return c.gateway.AuthorizeCapture(ctx, invoice.ID, methodID, args)
}
