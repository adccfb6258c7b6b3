package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CheckoutRepository answers checkout-stage questions from checkout_sessions.
type CheckoutRepository struct {
	db *DB
}

func NewCheckoutRepository(db *DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Save inserts or replaces a checkout session.
func (r *CheckoutRepository) Save(ctx context.Context, s CheckoutSession) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO checkout_sessions (id, stage, customer_id, invoice_id, payment_method_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET stage = EXCLUDED.stage,
		    customer_id = EXCLUDED.customer_id,
		    invoice_id = EXCLUDED.invoice_id,
		    payment_method_id = EXCLUDED.payment_method_id,
		    updated_at = NOW()
	`, s.ID, s.Stage, s.CustomerID, s.InvoiceID, s.PaymentMethodID)
	if err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

// PaymentMethod returns the selected method when the checkout is at the
// payment stage and the method is enabled.
func (r *CheckoutRepository) PaymentMethod(ctx context.Context, checkoutID string) (*domain.PaymentMethod, error) {
	var (
		stage    string
		methodID *uuid.UUID
		m        PaymentMethodModel
		tag      *string
		variant  *string
		name     *string
		enabled  *bool
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT s.stage, m.id, m.provider_tag, m.variant, m.name, m.enabled
		FROM checkout_sessions s
		LEFT JOIN payment_methods m ON m.id = s.payment_method_id
		WHERE s.id = $1
	`, checkoutID).Scan(&stage, &methodID, &tag, &variant, &name, &enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewCheckoutNotFoundError(checkoutID)
		}
		return nil, fmt.Errorf("query checkout payment method: %w", err)
	}

	if stage != StagePayment || methodID == nil || enabled == nil || !*enabled {
		return nil, domain.NewNoActivePaymentMethodError(checkoutID)
	}

	m.ID = *methodID
	m.ProviderTag = *tag
	m.Variant = *variant
	m.Name = *name
	m.Enabled = *enabled
	return toMethodDomain(m), nil
}

func (r *CheckoutRepository) Invoice(ctx context.Context, checkoutID string) (uuid.UUID, error) {
	var invoiceID *uuid.UUID
	err := r.db.Pool.QueryRow(ctx, `SELECT invoice_id FROM checkout_sessions WHERE id = $1`, checkoutID).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.NewCheckoutNotFoundError(checkoutID)
		}
		return uuid.Nil, fmt.Errorf("query checkout invoice: %w", err)
	}
	if invoiceID == nil {
		return uuid.Nil, domain.NewNoActivePaymentMethodError(checkoutID)
	}
	return *invoiceID, nil
}

func (r *CheckoutRepository) Customer(ctx context.Context, checkoutID string) (string, error) {
	var customerID string
	err := r.db.Pool.QueryRow(ctx, `SELECT customer_id FROM checkout_sessions WHERE id = $1`, checkoutID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.NewCheckoutNotFoundError(checkoutID)
		}
		return "", fmt.Errorf("query checkout customer: %w", err)
	}
	return customerID, nil
}
