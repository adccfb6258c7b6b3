package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice and its line items. The invoice number is
// assigned by the database and written back to invoice.Number.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	m := toInvoiceModel(invoice)

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (id, customer_id, currency, status, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING invoice_number
		`, m.ID, m.CustomerID, m.Currency, m.Status, m.Version, m.CreatedAt, m.UpdatedAt).Scan(&invoice.Number)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		batch := &pgx.Batch{}
		for i, item := range invoice.LineItems {
			batch.Queue(`
				INSERT INTO invoice_line_items (invoice_id, position, sku, name, quantity, unit_price_cents)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, invoice.ID, i, item.SKU, item.Name, item.Quantity, item.UnitPriceCents)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert line items: %w", err)
		}
		return nil
	})
}

// FindByID loads the invoice with its line items and payment history.
func (r *InvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var m InvoiceModel
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, invoice_number, customer_id, currency, status, version, created_at, updated_at
		FROM invoices WHERE id = $1
	`, id).Scan(&m.ID, &m.InvoiceNumber, &m.CustomerID, &m.Currency, &m.Status, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(id.String())
		}
		return nil, fmt.Errorf("query invoice: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT position, sku, name, quantity, unit_price_cents
		FROM invoice_line_items WHERE invoice_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (LineItemModel, error) {
		var item LineItemModel
		err := row.Scan(&item.Position, &item.SKU, &item.Name, &item.Quantity, &item.UnitPriceCents)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning line items: %w", err)
	}

	payments, err := r.findPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	return toInvoiceDomain(m, items, payments), nil
}

func (r *InvoiceRepository) findPayments(ctx context.Context, invoiceID uuid.UUID) ([]PaymentModel, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, invoice_id, sequence, payment_method_id, provider_tag, amount_cents, currency,
		       success, processor_reference, failure_kind, failure_message, created_at
		FROM payments WHERE invoice_id = $1
		ORDER BY sequence
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query payments by invoice_id: %w", err)
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PaymentModel, error) {
		var p PaymentModel
		err := row.Scan(
			&p.ID, &p.InvoiceID, &p.Sequence, &p.PaymentMethodID, &p.ProviderTag, &p.AmountCents, &p.Currency,
			&p.Success, &p.ProcessorReference, &p.FailureKind, &p.FailureMessage, &p.CreatedAt,
		)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning payments: %w", err)
	}
	return payments, nil
}

// AppendPayment inserts record and writes the invoice status in one
// transaction, guarded by the invoice version.
func (r *InvoiceRepository) AppendPayment(ctx context.Context, invoice *domain.Invoice, record domain.PaymentRecord) error {
	p := toPaymentModel(record)

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var version int64
		err := tx.QueryRow(ctx, `SELECT version FROM invoices WHERE id = $1 FOR UPDATE`, invoice.ID).Scan(&version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewOrderNotFoundError(invoice.ID.String())
			}
			return fmt.Errorf("lock invoice: %w", err)
		}
		if version != invoice.Version {
			return domain.NewConcurrentModificationError(invoice.ID.String(), invoice.Version)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (
				id, invoice_id, sequence, payment_method_id, provider_tag, amount_cents, currency,
				success, processor_reference, failure_kind, failure_message, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			p.ID, p.InvoiceID, p.Sequence, p.PaymentMethodID, p.ProviderTag, p.AmountCents, p.Currency,
			p.Success, p.ProcessorReference, p.FailureKind, p.FailureMessage, p.CreatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return domain.NewConcurrentModificationError(invoice.ID.String(), invoice.Version)
			}
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE invoices
			SET status = $2, version = version + 1, updated_at = $3
			WHERE id = $1 AND version = $4
		`, invoice.ID, string(invoice.Status), invoice.UpdatedAt, invoice.Version)
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewConcurrentModificationError(invoice.ID.String(), invoice.Version)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invoice.Version++
	return nil
}
