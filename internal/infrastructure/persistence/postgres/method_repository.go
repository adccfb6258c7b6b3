package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentMethodRepository struct {
	db *DB
}

func NewPaymentMethodRepository(db *DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO payment_methods (id, provider_tag, variant, name, enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, method.ID, string(method.ProviderTag), method.Variant, method.Name, method.Enabled)
	if err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// FindByID returns ErrPaymentMethodUnavailable for unknown IDs. Disabled
// methods are returned as stored.
func (r *PaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	var m PaymentMethodModel
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, provider_tag, variant, name, enabled
		FROM payment_methods WHERE id = $1
	`, id).Scan(&m.ID, &m.ProviderTag, &m.Variant, &m.Name, &m.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPaymentMethodUnavailableError(id.String())
		}
		return nil, fmt.Errorf("query payment method: %w", err)
	}
	return toMethodDomain(m), nil
}
