package testhelpers

import (
	"context"
	"testing"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewTestInvoice returns an unpaid invoice of 2 x 12.50 USD.
func NewTestInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	invoice, err := domain.NewInvoice(uuid.New(), "cust-"+uuid.NewString(), "USD", []domain.LineItem{
		{SKU: "sku-mug", Name: "Mug", Quantity: 2, UnitPriceCents: 1250},
	})
	require.NoError(t, err)
	return invoice
}

func NewTestMethod(tag domain.ProviderTag, variant string) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          uuid.New(),
		ProviderTag: tag,
		Variant:     variant,
		Name:        string(tag) + " " + variant,
		Enabled:     true,
	}
}

// SeedCheckout stores a method, an invoice and a checkout session at the
// payment stage that references both.
func SeedCheckout(t *testing.T, db *postgres.DB, tag domain.ProviderTag) (checkoutID string, invoice *domain.Invoice, method *domain.PaymentMethod) {
	t.Helper()
	ctx := context.Background()

	method = NewTestMethod(tag, "onetime")
	require.NoError(t, postgres.NewPaymentMethodRepository(db).Create(ctx, method))

	invoice = NewTestInvoice(t)
	require.NoError(t, postgres.NewInvoiceRepository(db).Create(ctx, invoice))

	checkoutID = "chk-" + uuid.NewString()
	require.NoError(t, postgres.NewCheckoutRepository(db).Save(ctx, postgres.CheckoutSession{
		ID:              checkoutID,
		Stage:           postgres.StagePayment,
		CustomerID:      invoice.CustomerID,
		InvoiceID:       &invoice.ID,
		PaymentMethodID: &method.ID,
	}))
	return checkoutID, invoice, method
}
